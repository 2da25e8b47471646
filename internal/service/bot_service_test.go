package service

import (
	"context"
	"testing"

	"gptading/backend/internal/model"
	"gptading/backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBotService_List(t *testing.T) {
	f := newFixture(t)
	svc := NewBotService(f.sessions, f.notifier)
	ctx := context.Background()

	tests := []struct {
		filter string
		want   []int64
	}{
		{"", []int64{1, 2, 3, 4, 5, 6}},
		{model.BotFilterAll, []int64{1, 2, 3, 4, 5, 6}},
		{model.BotFilterActive, []int64{1, 2, 4, 5}},
		{model.BotFilterProfitable, []int64{1, 2, 4, 5, 6}},
	}
	for _, tt := range tests {
		t.Run(tt.filter, func(t *testing.T) {
			bots, err := svc.List(ctx, "s1", tt.filter)
			require.NoError(t, err)

			ids := make([]int64, 0, len(bots))
			for _, b := range bots {
				ids = append(ids, b.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}

	_, err := svc.List(ctx, "s1", "losing")
	assert.True(t, util.HasCode(err, util.ErrCodeValidation))
}

func TestBotService_CreateRejectsEmptyFields(t *testing.T) {
	f := newFixture(t)
	svc := NewBotService(f.sessions, f.notifier)
	ctx := context.Background()

	tests := []struct {
		name string
		req  model.BotRequest
	}{
		{"empty name", model.BotRequest{Name: "", Strategy: "grid"}},
		{"blank name", model.BotRequest{Name: "   ", Strategy: "grid"}},
		{"empty strategy", model.BotRequest{Name: "Mi Bot", Strategy: ""}},
		{"unknown strategy", model.BotRequest{Name: "Mi Bot", Strategy: "martingale"}},
		{"unknown risk", model.BotRequest{Name: "Mi Bot", Strategy: "grid", Risk: "Extremo"}},
		{"investment too low", model.BotRequest{Name: "Mi Bot", Strategy: "grid", Investment: 50}},
		{"investment too high", model.BotRequest{Name: "Mi Bot", Strategy: "grid", Investment: 20000}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := svc.Create(ctx, "s1", &req)
			assert.True(t, util.HasCode(err, util.ErrCodeValidation), "got %v", err)
		})
	}

	bots, err := svc.List(ctx, "s1", "")
	require.NoError(t, err)
	assert.Len(t, bots, 6, "no record added")
	assert.Empty(t, f.publisher.types("s1"))
}

func TestBotService_Create(t *testing.T) {
	f := newFixture(t)
	svc := NewBotService(f.sessions, f.notifier)
	ctx := context.Background()

	bot, err := svc.Create(ctx, "s1", &model.BotRequest{Name: " Nuevo ", Strategy: "momentum"})
	require.NoError(t, err)

	assert.Equal(t, int64(7), bot.ID)
	assert.Equal(t, "Nuevo", bot.Name)
	assert.Equal(t, "Momentum Trading", bot.Strategy)
	assert.False(t, bot.IsActive)
	assert.Zero(t, bot.Profit)
	assert.Zero(t, bot.ROI)
	assert.Zero(t, bot.Accuracy)
	assert.Equal(t, model.RiskMedium, bot.Risk)
	assert.Equal(t, model.DefaultBotInvestment, bot.Investment)

	bots, err := svc.List(ctx, "s1", "")
	require.NoError(t, err)
	require.Len(t, bots, 7)
	assert.Equal(t, *bot, bots[6], "appended last")

	assert.Contains(t, f.publisher.types("s1"), model.MessageTypeBotCreated)
}

func TestBotService_ToggleFlipsExactlyOne(t *testing.T) {
	f := newFixture(t)
	svc := NewBotService(f.sessions, f.notifier)
	ctx := context.Background()

	before, err := svc.List(ctx, "s1", "")
	require.NoError(t, err)

	bot, err := svc.Toggle(ctx, "s1", 3)
	require.NoError(t, err)
	assert.True(t, bot.IsActive)

	after, err := svc.List(ctx, "s1", "")
	require.NoError(t, err)
	for i := range before {
		if before[i].ID == 3 {
			assert.NotEqual(t, before[i].IsActive, after[i].IsActive)
			continue
		}
		assert.Equal(t, before[i], after[i])
	}

	assert.Equal(t, []model.WSMessageType{model.MessageTypeBotUpdate, model.MessageTypeNotification}, f.publisher.types("s1"))
	assert.Equal(t, "Bot activado", f.publisher.notifications("s1")[0].Title)
}

func TestBotService_Get(t *testing.T) {
	f := newFixture(t)
	svc := NewBotService(f.sessions, f.notifier)
	ctx := context.Background()

	bot, err := svc.Get(ctx, "s1", 3)
	require.NoError(t, err)
	assert.Equal(t, "Bot Agresivo", bot.Name)

	_, err = svc.Get(ctx, "s1", 42)
	assert.True(t, util.HasCode(err, util.ErrCodeBotNotFound))
}

func TestBotService_ToggleUnknown(t *testing.T) {
	f := newFixture(t)
	svc := NewBotService(f.sessions, f.notifier)

	_, err := svc.Toggle(context.Background(), "s1", 99)
	appErr := util.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, 404, appErr.StatusCode)
	assert.Equal(t, util.ErrCodeBotNotFound, appErr.Code)
}

func TestBotService_ToggleRespectsBotStatusSetting(t *testing.T) {
	f := newFixture(t)
	svc := NewBotService(f.sessions, f.notifier)
	settings := NewSettingsService(f.sessions)
	ctx := context.Background()

	off := false
	_, err := settings.UpdateNotifications(ctx, "s1", &model.NotificationSettingsUpdate{BotStatus: &off})
	require.NoError(t, err)

	_, err = svc.Toggle(ctx, "s1", 1)
	require.NoError(t, err)

	assert.Equal(t, []model.WSMessageType{model.MessageTypeBotUpdate}, f.publisher.types("s1"))
}

func TestBotService_SessionsIsolated(t *testing.T) {
	f := newFixture(t)
	svc := NewBotService(f.sessions, f.notifier)
	ctx := context.Background()

	_, err := svc.Toggle(ctx, "a", 1)
	require.NoError(t, err)

	bots, err := svc.List(ctx, "b", "")
	require.NoError(t, err)
	assert.True(t, bots[0].IsActive, "session b still sees the seed")
	assert.Empty(t, f.publisher.types("b"))
}

func TestBotService_Stats(t *testing.T) {
	f := newFixture(t)
	svc := NewBotService(f.sessions, f.notifier)

	stats, err := svc.Stats(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, 6, stats.Total)
	assert.Equal(t, 4, stats.Active)
	assert.Equal(t, 5, stats.Profitable)
	assert.Equal(t, 12397.0, stats.PositiveProfit)
	assert.Equal(t, 10.45, stats.AverageROI)

	assert.Equal(t, &model.BotStats{}, computeBotStats(nil))
}

func TestBotService_Strategies(t *testing.T) {
	f := newFixture(t)
	svc := NewBotService(f.sessions, f.notifier)
	ctx := context.Background()

	_, err := svc.Create(ctx, "s1", &model.BotRequest{Name: "Grid 2", Strategy: "Grid Trading"})
	require.NoError(t, err)

	usage, err := svc.Strategies(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, usage, len(model.Strategies))

	counts := map[string]int{}
	for _, u := range usage {
		counts[u.ID] = u.BotCount
	}
	assert.Equal(t, 2, counts["grid"])
	assert.Equal(t, 1, counts["ai"])
}
