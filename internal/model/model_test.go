package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "", MaskAPIKey(""))
	assert.Equal(t, "****-****-****-abc", MaskAPIKey("abc"))
	assert.Equal(t, "****-****-****-7890", MaskAPIKey("demo_api_key_12345678901234567890"))
}

func TestLookupStrategy(t *testing.T) {
	tests := []struct {
		in     string
		wantOK bool
		want   string
	}{
		{"grid", true, "Grid Trading"},
		{"Grid Trading", true, "Grid Trading"},
		{"  dca + rsi ", true, "DCA + RSI"},
		{"AI", true, "Machine Learning"},
		{"", false, ""},
		{"martingale", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			st, ok := LookupStrategy(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, st.Name)
		})
	}
}

func TestBotRequest_Normalize(t *testing.T) {
	req := BotRequest{Name: "  Mi Bot ", Strategy: " grid "}
	req.Normalize()

	assert.Equal(t, "Mi Bot", req.Name)
	assert.Equal(t, "grid", req.Strategy)
	assert.Equal(t, string(RiskMedium), req.Risk)
	assert.Equal(t, DefaultBotInvestment, req.Investment)
}

func TestSessionState_CloneIsDeep(t *testing.T) {
	now := time.Now()
	s := &SessionState{
		Bots: []Bot{{ID: 1, Name: "a"}},
		Exchange: ExchangeConnection{
			ConnectedAt: &now,
			Account:     &AccountInfo{Markets: []string{"BTC/USDT"}},
		},
	}

	c := s.Clone()
	c.Bots[0].IsActive = true
	c.Exchange.Account.Markets[0] = "ETH/USDT"
	*c.Exchange.ConnectedAt = now.Add(time.Hour)

	assert.False(t, s.Bots[0].IsActive)
	assert.Equal(t, "BTC/USDT", s.Exchange.Account.Markets[0])
	assert.Equal(t, now, *s.Exchange.ConnectedAt)
}

func TestSessionState_FindAndNextID(t *testing.T) {
	s := &SessionState{Bots: []Bot{{ID: 3}, {ID: 9}, {ID: 4}}}
	assert.Equal(t, 1, s.FindBot(9))
	assert.Equal(t, -1, s.FindBot(2))
	assert.Equal(t, int64(10), s.NextBotID())

	empty := &SessionState{}
	assert.Equal(t, int64(1), empty.NextBotID())
}

func TestExchangeConnection_ResetKeepsTestMode(t *testing.T) {
	c := ExchangeConnection{APIKey: "k", EncryptedSecret: "s", IsConnected: true, TestMode: true, Status: ExchangeStatusConnected}
	c.Reset()

	assert.Empty(t, c.APIKey)
	assert.Empty(t, c.EncryptedSecret)
	assert.False(t, c.IsConnected)
	assert.True(t, c.TestMode)
	assert.Equal(t, ExchangeStatusDisconnected, c.Status)

	v := c.View()
	require.NotNil(t, v)
	assert.Equal(t, ExchangeName, v.Exchange)
	assert.Empty(t, v.MaskedKey)
}

func TestNotificationSettingsUpdate_Apply(t *testing.T) {
	s := NotificationSettings{Trades: true, Telegram: false}
	off, on := false, true
	u := NotificationSettingsUpdate{Trades: &off, Telegram: &on}
	u.Apply(&s)

	assert.False(t, s.Trades)
	assert.True(t, s.Telegram)
	assert.False(t, s.Email)
}
