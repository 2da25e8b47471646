package service

import (
	"context"
	"testing"

	"gptading/backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardService_SummaryFromSeed(t *testing.T) {
	f := newFixture(t)
	svc := NewDashboardService(f.sessions)

	sum, err := svc.Summary(context.Background(), "s1")
	require.NoError(t, err)

	assert.Equal(t, 47650.0, sum.Balance)
	assert.Equal(t, 7650.0, sum.TotalProfit)
	assert.Equal(t, 19.13, sum.ProfitPercentage)
	assert.Equal(t, 1235.0, sum.DailyProfit)
	assert.Equal(t, 2.68, sum.DailyProfitPercentage)
	assert.Equal(t, 4, sum.ActiveBots)
	assert.Equal(t, 6, sum.TotalBots)
	assert.Equal(t, 86.7, sum.Accuracy)
	assert.Equal(t, 1247, sum.TotalTrades)
	assert.Equal(t, 1081, sum.SuccessfulTrades)
	assert.Equal(t, 86.69, sum.SuccessRate)
	assert.False(t, sum.ExchangeConnected)
}

func TestDashboardService_SummaryTracksBots(t *testing.T) {
	f := newFixture(t)
	bots := NewBotService(f.sessions, f.notifier)
	svc := NewDashboardService(f.sessions)
	ctx := context.Background()

	_, err := bots.Toggle(ctx, "s1", 3)
	require.NoError(t, err)

	sum, err := svc.Summary(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 5, sum.ActiveBots)
}

func TestBuildSummary_ZeroInitialBalance(t *testing.T) {
	sum := BuildSummary(&model.SessionState{})
	assert.Zero(t, sum.ProfitPercentage)
	assert.Zero(t, sum.SuccessRate)
}

func TestDashboardService_StaticRecords(t *testing.T) {
	f := newFixture(t)
	svc := NewDashboardService(f.sessions)
	ctx := context.Background()

	p, err := svc.Portfolio(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 40000.0, p.InitialBalance)

	trades, err := svc.Trades(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, trades, 6)
	assert.Equal(t, model.TradeTypeBuy, trades[0].Type)

	pairs, err := svc.Pairs(ctx, "s1", nil)
	require.NoError(t, err)
	assert.Len(t, pairs, 6)
	assert.Equal(t, "BTC/USDT", pairs[0].Symbol)

	pairs, err = svc.Pairs(ctx, "s1", []string{" eth/usdt", "DOGE/USDT", "BTC/USDT"})
	require.NoError(t, err)
	require.Len(t, pairs, 2)
	assert.Equal(t, "BTC/USDT", pairs[0].Symbol, "market order is kept")
	assert.Equal(t, "ETH/USDT", pairs[1].Symbol)

	alloc, err := svc.Allocation(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, alloc, 4)
}
