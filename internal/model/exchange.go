package model

import "time"

// ExchangeName is the display name of the supported exchange
const ExchangeName = "Zaffex"

// Exchange connection states
const (
	ExchangeStatusDisconnected = "disconnected"
	ExchangeStatusConnecting   = "connecting"
	ExchangeStatusConnected    = "connected"
)

// ExchangeConnection is the stored connection state of a session.
// The secret is kept sealed and never leaves the server.
type ExchangeConnection struct {
	APIKey          string       `json:"apiKey"`
	EncryptedSecret string       `json:"encryptedSecret"`
	IsConnected     bool         `json:"isConnected"`
	TestMode        bool         `json:"testMode"`
	Status          string       `json:"status"`
	AttemptID       string       `json:"attemptId,omitempty"`
	ConnectedAt     *time.Time   `json:"connectedAt,omitempty"`
	LastSync        *time.Time   `json:"lastSync,omitempty"`
	Account         *AccountInfo `json:"account,omitempty"`
}

// AccountInfo is what the exchange reports after connecting
type AccountInfo struct {
	Balance   float64  `json:"balance"`
	Available float64  `json:"available"`
	InOrders  float64  `json:"inOrders"`
	Markets   []string `json:"markets"`
}

// ConnectRequest is the connect form
type ConnectRequest struct {
	APIKey    string `json:"apiKey"`
	APISecret string `json:"apiSecret"`
	TestMode  *bool  `json:"testMode"`
}

// TestModeRequest toggles test mode
type TestModeRequest struct {
	TestMode *bool `json:"testMode" binding:"required"`
}

// ExchangeView is the connection as returned by the API
type ExchangeView struct {
	Exchange    string       `json:"exchange"`
	IsConnected bool         `json:"isConnected"`
	Status      string       `json:"status"`
	TestMode    bool         `json:"testMode"`
	MaskedKey   string       `json:"maskedKey,omitempty"`
	ConnectedAt *time.Time   `json:"connectedAt,omitempty"`
	LastSync    *time.Time   `json:"lastSync,omitempty"`
	Account     *AccountInfo `json:"account,omitempty"`
}

// MaskAPIKey renders the key as ****-****-****-<last4>
func MaskAPIKey(key string) string {
	if key == "" {
		return ""
	}
	tail := key
	if len(key) > 4 {
		tail = key[len(key)-4:]
	}
	return "****-****-****-" + tail
}

// View builds the public view of c
func (c *ExchangeConnection) View() *ExchangeView {
	status := c.Status
	if status == "" {
		status = ExchangeStatusDisconnected
	}
	return &ExchangeView{
		Exchange:    ExchangeName,
		IsConnected: c.IsConnected,
		Status:      status,
		TestMode:    c.TestMode,
		MaskedKey:   MaskAPIKey(c.APIKey),
		ConnectedAt: c.ConnectedAt,
		LastSync:    c.LastSync,
		Account:     c.Account,
	}
}

// Reset clears credentials and connection data, keeping the test mode preference
func (c *ExchangeConnection) Reset() {
	*c = ExchangeConnection{
		TestMode: c.TestMode,
		Status:   ExchangeStatusDisconnected,
	}
}
