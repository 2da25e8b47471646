// Package seed builds the initial state every new session starts from.
package seed

import (
	"time"

	"gptading/backend/internal/model"
)

// Func produces a fresh initial state. Services receive one instead of reading a global.
type Func func() *model.SessionState

// Default returns the demo bots, portfolio, trades and markets
func Default() *model.SessionState {
	now := time.Now().UTC()

	return &model.SessionState{
		Bots: []model.Bot{
			{ID: 1, Name: "Bot Conservador", Strategy: "Grid Trading", IsActive: true, Profit: 2450, ROI: 12.3, Accuracy: 87, Risk: model.RiskLow, Investment: 20000, CreatedAt: now},
			{ID: 2, Name: "Bot Moderado", Strategy: "DCA + RSI", IsActive: true, Profit: 3780, ROI: 18.9, Accuracy: 79, Risk: model.RiskMedium, Investment: 20000, CreatedAt: now},
			{ID: 3, Name: "Bot Agresivo", Strategy: "Momentum Trading", IsActive: false, Profit: -850, ROI: -4.2, Accuracy: 92, Risk: model.RiskHigh, Investment: 20000, CreatedAt: now},
			{ID: 4, Name: "Scalping Bot", Strategy: "High Frequency", IsActive: true, Profit: 1280, ROI: 8.4, Accuracy: 94, Risk: model.RiskMedium, Investment: 15000, CreatedAt: now},
			{ID: 5, Name: "Arbitrage Bot", Strategy: "Cross Exchange", IsActive: true, Profit: 567, ROI: 3.2, Accuracy: 96, Risk: model.RiskLow, Investment: 18000, CreatedAt: now},
			{ID: 6, Name: "AI Predictor", Strategy: "Machine Learning", IsActive: false, Profit: 4320, ROI: 24.1, Accuracy: 82, Risk: model.RiskHigh, Investment: 18000, CreatedAt: now},
		},
		Portfolio: model.Portfolio{
			Balance:               47650,
			InitialBalance:        40000,
			DailyProfit:           1235,
			DailyProfitPercentage: 2.68,
			Accuracy:              86.7,
			TotalTrades:           1247,
			SuccessfulTrades:      1081,
		},
		Trades: []model.Trade{
			{Pair: "BTC/USDT", Type: model.TradeTypeBuy, Amount: 0.025, Price: 43250, Profit: 125, Time: "14:32:15"},
			{Pair: "ETH/USDT", Type: model.TradeTypeSell, Amount: 0.5, Price: 2580, Profit: 87, Time: "14:28:42"},
			{Pair: "ADA/USDT", Type: model.TradeTypeBuy, Amount: 1250, Price: 0.485, Profit: -12, Time: "14:25:18"},
			{Pair: "DOT/USDT", Type: model.TradeTypeSell, Amount: 45, Price: 7.85, Profit: 34, Time: "14:21:09"},
			{Pair: "BTC/USDT", Type: model.TradeTypeSell, Amount: 0.015, Price: 43180, Profit: 76, Time: "14:18:55"},
			{Pair: "ETH/USDT", Type: model.TradeTypeBuy, Amount: 0.8, Price: 2575, Profit: 92, Time: "14:15:23"},
		},
		Pairs: []model.TradingPair{
			{Symbol: "BTC/USDT", Price: 43250, Change24h: 2.45, Volume: "2.4B"},
			{Symbol: "ETH/USDT", Price: 2580, Change24h: 1.89, Volume: "1.8B"},
			{Symbol: "ADA/USDT", Price: 0.485, Change24h: -0.87, Volume: "456M"},
			{Symbol: "DOT/USDT", Price: 7.85, Change24h: 3.21, Volume: "234M"},
			{Symbol: "MATIC/USDT", Price: 0.92, Change24h: -1.23, Volume: "189M"},
			{Symbol: "AVAX/USDT", Price: 39.67, Change24h: 4.56, Volume: "178M"},
		},
		Allocation: []model.AssetAllocation{
			{Asset: "BTC/USDT", Percentage: 45},
			{Asset: "ETH/USDT", Percentage: 30},
			{Asset: "ADA/USDT", Percentage: 15},
			{Asset: "DOT/USDT", Percentage: 10},
		},
		Exchange: model.ExchangeConnection{
			TestMode: true,
			Status:   model.ExchangeStatusDisconnected,
		},
		Notifications: model.NotificationSettings{
			Trades:    true,
			Profits:   true,
			Losses:    true,
			BotStatus: true,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}
