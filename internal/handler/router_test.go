package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gptading/backend/internal/middleware"
	"gptading/backend/internal/model"
	"gptading/backend/internal/repository"
	"gptading/backend/internal/seed"
	"gptading/backend/internal/service"
	"gptading/backend/internal/util"
	"gptading/backend/pkg/jwt"
	"gptading/backend/pkg/logger"
	"gptading/backend/pkg/zaffex"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const shellBody = "<html><body>GPTading shell</body></html>"

type testServer struct {
	*httptest.Server
	webDir   string
	sessions *repository.MemorySessionRepository
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newLimitedTestServer(t, middleware.NewMemoryLimiter(1000, time.Minute))
}

func newLimitedTestServer(t *testing.T, limiter middleware.Limiter) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	webDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(webDir, "index.html"), []byte(shellBody), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(webDir, "assets"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(webDir, "assets", "app.js"), []byte("console.log(1)"), 0o644))

	log := logger.Nop()
	sessions := repository.NewMemorySessionRepository(time.Hour, seed.Default)
	hub := service.NewWSHub(nil)
	notifications := service.NewNotificationService(hub, nil)
	exchange := service.NewExchangeService(sessions, zaffex.NewSimulatedConnector(10*time.Millisecond), notifications, "0123456789abcdef0123456789abcdef")
	t.Cleanup(exchange.Close)

	router, err := NewRouter(RouterDeps{
		Log:       log,
		Tokens:    jwt.NewSessionTokenManager("test-secret", time.Hour),
		Limiter:   limiter,
		Store:     sessions,
		Bots:      service.NewBotService(sessions, notifications),
		Dashboard: service.NewDashboardService(sessions),
		Exchange:  exchange,
		Settings:  service.NewSettingsService(sessions),
		Hub:       hub,
		Static:    NewStaticHandler(webDir, []byte("fallback"), log),
	})
	require.NoError(t, err)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return &testServer{Server: srv, webDir: webDir, sessions: sessions}
}

// browser is one cookie jar, i.e. one session
func (s *testServer) browser(t *testing.T) *browser {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &browser{t: t, base: s.URL, client: &http.Client{Jar: jar}}
}

type browser struct {
	t      *testing.T
	base   string
	client *http.Client
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   *struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}

func (b *browser) do(method, path string, body interface{}) (int, []byte) {
	b.t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(b.t, err)
		r = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, b.base+path, r)
	require.NoError(b.t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := b.client.Do(req)
	require.NoError(b.t, err)
	defer resp.Body.Close()

	out, err := io.ReadAll(resp.Body)
	require.NoError(b.t, err)
	return resp.StatusCode, out
}

// call decodes the envelope and, when dest is non-nil, its data
func (b *browser) call(method, path string, body, dest interface{}) (int, envelope) {
	b.t.Helper()
	status, raw := b.do(method, path, body)
	var env envelope
	require.NoError(b.t, json.Unmarshal(raw, &env), string(raw))
	if dest != nil && len(env.Data) > 0 {
		require.NoError(b.t, json.Unmarshal(env.Data, dest))
	}
	return status, env
}

func TestStatus(t *testing.T) {
	srv := newTestServer(t)
	status, raw := srv.browser(t).do(http.MethodGet, "/api/status", nil)
	require.Equal(t, http.StatusOK, status)

	var body StatusResponse
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "online", body.Status)
	assert.Equal(t, "GPTading Pro", body.App)
	assert.Equal(t, "1.0.0", body.Version)
	_, err := time.Parse(time.RFC3339, body.Timestamp)
	assert.NoError(t, err)
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	status, raw := srv.browser(t).do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"status":"healthy","store":"memory"}`, string(raw))
}

func TestRateLimit_CookielessClientIsLimited(t *testing.T) {
	srv := newLimitedTestServer(t, middleware.NewMemoryLimiter(5, time.Minute))

	codes := map[int]int{}
	for i := 0; i < 30; i++ {
		// no cookie jar: every request arrives without a session
		resp, err := http.Get(srv.URL + "/api/bots")
		require.NoError(t, err)
		_ = resp.Body.Close()
		codes[resp.StatusCode]++
	}

	assert.Equal(t, 5, codes[http.StatusOK])
	assert.Equal(t, 25, codes[http.StatusTooManyRequests])
	assert.LessOrEqual(t, srv.sessions.Len(), 5, "rejected requests seed no session")
}

func TestStatic(t *testing.T) {
	srv := newTestServer(t)
	b := srv.browser(t)

	status, body := b.do(http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, shellBody, string(body))

	status, body = b.do(http.MethodGet, "/assets/app.js", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "console.log(1)", string(body))

	for _, path := range []string{"/no/such/page", "/assets", "/../etc/passwd", "/api/unknown"} {
		status, body = b.do(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, status, path)
		assert.Equal(t, shellBody, string(body), path)
	}
}

func TestStatic_FallbackShell(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewStaticHandler(t.TempDir(), []byte("fallback"), logger.Nop())
	r := gin.New()
	r.NoRoute(h.NotFound)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "fallback", w.Body.String())
}

func TestBots_ListAndCreate(t *testing.T) {
	srv := newTestServer(t)
	b := srv.browser(t)

	var bots []model.Bot
	status, env := b.call(http.MethodGet, "/api/bots", nil, &bots)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, env.Success)
	assert.Len(t, bots, 6)

	var created model.Bot
	status, env = b.call(http.MethodPost, "/api/bots", map[string]interface{}{
		"name": "Mi Bot", "strategy": "grid", "risk": "Alto", "investment": 2500,
	}, &created)
	require.Equal(t, http.StatusCreated, status, env.Error)
	assert.Equal(t, int64(7), created.ID)
	assert.Equal(t, "Grid Trading", created.Strategy)
	assert.Equal(t, model.RiskHigh, created.Risk)
	assert.Equal(t, 2500.0, created.Investment)

	status, _ = b.call(http.MethodGet, "/api/bots?filter=active", nil, &bots)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, bots, 4)
}

func TestBots_CreateValidation(t *testing.T) {
	srv := newTestServer(t)
	b := srv.browser(t)

	bodies := []map[string]interface{}{
		{"name": "", "strategy": "grid"},
		{"name": "   ", "strategy": "grid"},
		{"name": "Mi Bot", "strategy": ""},
		{"name": "Mi Bot", "strategy": "martingale"},
		{"name": "Mi Bot", "strategy": "grid", "risk": "Extremo"},
		{"name": "Mi Bot", "strategy": "grid", "investment": 50},
	}
	for _, body := range bodies {
		status, env := b.call(http.MethodPost, "/api/bots", body, nil)
		assert.Equal(t, http.StatusBadRequest, status, body)
		require.NotNil(t, env.Error)
		assert.Equal(t, util.ErrCodeValidation, env.Error.Code)
	}

	var bots []model.Bot
	b.call(http.MethodGet, "/api/bots", nil, &bots)
	assert.Len(t, bots, 6)
}

func TestBots_Toggle(t *testing.T) {
	srv := newTestServer(t)
	b := srv.browser(t)

	var bot model.Bot
	status, _ := b.call(http.MethodPost, "/api/bots/3/toggle", nil, &bot)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, bot.IsActive)

	status, env := b.call(http.MethodPost, "/api/bots/99/toggle", nil, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, util.ErrCodeBotNotFound, env.Error.Code)

	status, env = b.call(http.MethodPost, "/api/bots/abc/toggle", nil, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, util.ErrCodeBadRequest, env.Error.Code)
}

func TestBots_SessionsIsolated(t *testing.T) {
	srv := newTestServer(t)
	alice := srv.browser(t)
	bob := srv.browser(t)

	status, _ := alice.call(http.MethodPost, "/api/bots/1/toggle", nil, nil)
	require.Equal(t, http.StatusOK, status)

	var bots []model.Bot
	alice.call(http.MethodGet, "/api/bots", nil, &bots)
	assert.False(t, bots[0].IsActive)

	bob.call(http.MethodGet, "/api/bots", nil, &bots)
	assert.True(t, bots[0].IsActive)
}

func TestBots_StatsAndStrategies(t *testing.T) {
	srv := newTestServer(t)
	b := srv.browser(t)

	var stats model.BotStats
	status, _ := b.call(http.MethodGet, "/api/bots/stats", nil, &stats)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 4, stats.Active)
	assert.Equal(t, 12397.0, stats.PositiveProfit)
	assert.Equal(t, 10.45, stats.AverageROI)

	var strategies []model.StrategyUsage
	status, _ = b.call(http.MethodGet, "/api/strategies", nil, &strategies)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, strategies, 6)
	assert.Equal(t, 1, strategies[0].BotCount)
}

func TestBots_Get(t *testing.T) {
	srv := newTestServer(t)
	b := srv.browser(t)

	var bot model.Bot
	status, _ := b.call(http.MethodGet, "/api/bots/2", nil, &bot)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Bot Moderado", bot.Name)

	status, env := b.call(http.MethodGet, "/api/bots/99", nil, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, util.ErrCodeBotNotFound, env.Error.Code)

	status, _ = b.call(http.MethodGet, "/api/bots/abc", nil, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestMarketPairs_SymbolFilter(t *testing.T) {
	srv := newTestServer(t)
	b := srv.browser(t)

	var pairs []model.TradingPair
	status, _ := b.call(http.MethodGet, "/api/market/pairs?symbols=DOT/USDT,ADA/USDT", nil, &pairs)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, pairs, 2)
	assert.Equal(t, "ADA/USDT", pairs[0].Symbol)
	assert.Equal(t, "DOT/USDT", pairs[1].Symbol)
}

func TestDashboard(t *testing.T) {
	srv := newTestServer(t)
	b := srv.browser(t)

	var sum model.DashboardSummary
	status, _ := b.call(http.MethodGet, "/api/dashboard", nil, &sum)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 7650.0, sum.TotalProfit)
	assert.Equal(t, 19.13, sum.ProfitPercentage)
	assert.Equal(t, 4, sum.ActiveBots)

	for _, path := range []string{"/api/portfolio", "/api/trades", "/api/market/pairs", "/api/portfolio/allocation"} {
		status, env := b.call(http.MethodGet, path, nil, nil)
		assert.Equal(t, http.StatusOK, status, path)
		assert.True(t, env.Success, path)
	}
}

func TestExchange_ConnectFlow(t *testing.T) {
	srv := newTestServer(t)
	b := srv.browser(t)

	var view model.ExchangeView
	status, env := b.call(http.MethodPost, "/api/exchange/connect", map[string]string{
		"apiKey": "demo_api_key_12345678901234567890", "apiSecret": "demo_secret",
	}, &view)
	require.Equal(t, http.StatusAccepted, status, env.Error)
	assert.Equal(t, model.ExchangeStatusConnecting, view.Status)
	assert.NotContains(t, string(env.Data), "demo_secret")

	status, env = b.call(http.MethodPost, "/api/exchange/connect", map[string]string{"apiKey": "k", "apiSecret": "s"}, nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, util.ErrCodeConflict, env.Error.Code)

	require.Eventually(t, func() bool {
		var v model.ExchangeView
		b.call(http.MethodGet, "/api/exchange", nil, &v)
		return v.IsConnected
	}, 2*time.Second, 10*time.Millisecond)

	status, _ = b.call(http.MethodPut, "/api/exchange/test-mode", map[string]bool{"testMode": false}, nil)
	assert.Equal(t, http.StatusConflict, status)

	view = model.ExchangeView{}
	status, _ = b.call(http.MethodPost, "/api/exchange/disconnect", nil, &view)
	require.Equal(t, http.StatusOK, status)
	assert.False(t, view.IsConnected)
	assert.Empty(t, view.MaskedKey)

	status, _ = b.call(http.MethodPut, "/api/exchange/test-mode", map[string]bool{"testMode": false}, &view)
	require.Equal(t, http.StatusOK, status)
	assert.False(t, view.TestMode)
}

func TestExchange_ConnectValidation(t *testing.T) {
	srv := newTestServer(t)
	b := srv.browser(t)

	status, env := b.call(http.MethodPost, "/api/exchange/connect", map[string]string{"apiKey": "k"}, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, util.ErrCodeValidation, env.Error.Code)

	status, _ = b.call(http.MethodPut, "/api/exchange/test-mode", map[string]string{}, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestSettings_Notifications(t *testing.T) {
	srv := newTestServer(t)
	b := srv.browser(t)

	var settings model.NotificationSettings
	status, _ := b.call(http.MethodGet, "/api/settings/notifications", nil, &settings)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, settings.Trades)
	assert.False(t, settings.Email)

	status, _ = b.call(http.MethodPut, "/api/settings/notifications", map[string]bool{"email": true, "trades": false}, &settings)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, settings.Email)
	assert.False(t, settings.Trades)
	assert.True(t, settings.Profits, "absent fields unchanged")
}

func TestRegisterValidators_Idempotent(t *testing.T) {
	require.NoError(t, RegisterValidators())
	require.NoError(t, RegisterValidators())
}
