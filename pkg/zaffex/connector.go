// Package zaffex holds the exchange connection boundary. Only a simulated
// connector exists; a real client can implement Connector later.
package zaffex

import (
	"context"
	"errors"
	"strings"
	"time"
)

// ErrMissingCredentials is returned when key or secret is empty
var ErrMissingCredentials = errors.New("zaffex: api key and secret are required")

// Credentials are the API tokens created in the Zaffex account
type Credentials struct {
	APIKey    string
	APISecret string
	TestMode  bool
}

// Account is the account snapshot returned after a successful connect
type Account struct {
	Balance   float64
	Available float64
	InOrders  float64
	Markets   []string
}

// Connector performs the connect handshake
type Connector interface {
	Connect(ctx context.Context, creds Credentials) (*Account, error)
}

// SimulatedConnector succeeds after a fixed delay without any network traffic
type SimulatedConnector struct {
	delay   time.Duration
	account Account
}

// DefaultMarkets are the markets reported by the simulated account
var DefaultMarkets = []string{"BTC/USDT", "ETH/USDT", "ADA/USDT", "DOT/USDT", "MATIC/USDT", "AVAX/USDT"}

// NewSimulatedConnector creates a connector that waits delay before succeeding
func NewSimulatedConnector(delay time.Duration) *SimulatedConnector {
	return &SimulatedConnector{
		delay: delay,
		account: Account{
			Balance:   12450,
			Available: 8320,
			InOrders:  4130,
			Markets:   DefaultMarkets,
		},
	}
}

// Connect waits for the delay or ctx, whichever ends first
func (c *SimulatedConnector) Connect(ctx context.Context, creds Credentials) (*Account, error) {
	if strings.TrimSpace(creds.APIKey) == "" || strings.TrimSpace(creds.APISecret) == "" {
		return nil, ErrMissingCredentials
	}

	timer := time.NewTimer(c.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
	}

	acc := c.account
	acc.Markets = append([]string(nil), c.account.Markets...)
	return &acc, nil
}

// ConnectorFunc adapts a function to Connector
type ConnectorFunc func(ctx context.Context, creds Credentials) (*Account, error)

// Connect calls f
func (f ConnectorFunc) Connect(ctx context.Context, creds Credentials) (*Account, error) {
	return f(ctx, creds)
}
