// Package client is a Go client for the GPTading HTTP API. One Client is one
// browser session: the session cookie is kept in its cookie jar.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"gptading/backend/internal/model"
)

// APIError is returned for every non-2xx response
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API Error: %d", e.StatusCode)
}

// StatusResponse is the body of /api/status
type StatusResponse struct {
	Status    string `json:"status"`
	App       string `json:"app"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Client talks to one server
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for baseURL, e.g. http://localhost:3333
func New(baseURL string) (*Client, error) {
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Jar:     jar,
		},
	}, nil
}

// Status calls GET /api/status
func (c *Client) Status(ctx context.Context) (*StatusResponse, error) {
	body, err := c.raw(ctx, http.MethodGet, "/api/status", nil)
	if err != nil {
		return nil, err
	}
	var out StatusResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &out, nil
}

// ListBots calls GET /api/bots. filter may be empty.
func (c *Client) ListBots(ctx context.Context, filter string) ([]model.Bot, error) {
	path := "/api/bots"
	if filter != "" {
		path += "?filter=" + url.QueryEscape(filter)
	}
	var out []model.Bot
	if err := c.call(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateBot(ctx context.Context, req model.BotRequest) (*model.Bot, error) {
	var out model.Bot
	if err := c.call(ctx, http.MethodPost, "/api/bots", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetBot(ctx context.Context, id int64) (*model.Bot, error) {
	var out model.Bot
	if err := c.call(ctx, http.MethodGet, fmt.Sprintf("/api/bots/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ToggleBot(ctx context.Context, id int64) (*model.Bot, error) {
	var out model.Bot
	if err := c.call(ctx, http.MethodPost, fmt.Sprintf("/api/bots/%d/toggle", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) BotStats(ctx context.Context) (*model.BotStats, error) {
	var out model.BotStats
	if err := c.call(ctx, http.MethodGet, "/api/bots/stats", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Strategies(ctx context.Context) ([]model.StrategyUsage, error) {
	var out []model.StrategyUsage
	if err := c.call(ctx, http.MethodGet, "/api/strategies", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Dashboard(ctx context.Context) (*model.DashboardSummary, error) {
	var out model.DashboardSummary
	if err := c.call(ctx, http.MethodGet, "/api/dashboard", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Pairs returns the market list, all pairs when symbols is empty
func (c *Client) Pairs(ctx context.Context, symbols ...string) ([]model.TradingPair, error) {
	path := "/api/market/pairs"
	if len(symbols) > 0 {
		path += "?symbols=" + url.QueryEscape(strings.Join(symbols, ","))
	}
	var out []model.TradingPair
	if err := c.call(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Exchange(ctx context.Context) (*model.ExchangeView, error) {
	var out model.ExchangeView
	if err := c.call(ctx, http.MethodGet, "/api/exchange", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Connect starts a connection attempt; poll Exchange for the result
func (c *Client) Connect(ctx context.Context, apiKey, apiSecret string) (*model.ExchangeView, error) {
	var out model.ExchangeView
	req := model.ConnectRequest{APIKey: apiKey, APISecret: apiSecret}
	if err := c.call(ctx, http.MethodPost, "/api/exchange/connect", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Disconnect(ctx context.Context) (*model.ExchangeView, error) {
	var out model.ExchangeView
	if err := c.call(ctx, http.MethodPost, "/api/exchange/disconnect", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SetTestMode(ctx context.Context, testMode bool) (*model.ExchangeView, error) {
	var out model.ExchangeView
	if err := c.call(ctx, http.MethodPut, "/api/exchange/test-mode", model.TestModeRequest{TestMode: &testMode}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) NotificationSettings(ctx context.Context) (*model.NotificationSettings, error) {
	var out model.NotificationSettings
	if err := c.call(ctx, http.MethodGet, "/api/settings/notifications", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateNotificationSettings(ctx context.Context, upd model.NotificationSettingsUpdate) (*model.NotificationSettings, error) {
	var out model.NotificationSettings
	if err := c.call(ctx, http.MethodPut, "/api/settings/notifications", upd, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// call performs a request against an enveloped endpoint and decodes data into dest
func (c *Client) call(ctx context.Context, method, path string, in, dest interface{}) error {
	body, err := c.raw(ctx, method, path, in)
	if err != nil {
		return err
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	if dest == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, dest); err != nil {
		return fmt.Errorf("failed to parse data: %w", err)
	}
	return nil
}

func (c *Client) raw(ctx context.Context, method, path string, in interface{}) ([]byte, error) {
	var reqBody io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var env envelope
		if json.Unmarshal(body, &env) == nil && env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
		}
		return nil, apiErr
	}

	return body, nil
}
