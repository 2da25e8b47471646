package model

// Portfolio is the read-only account overview
type Portfolio struct {
	Balance               float64 `json:"balance"`
	InitialBalance        float64 `json:"initialBalance"`
	DailyProfit           float64 `json:"dailyProfit"`
	DailyProfitPercentage float64 `json:"dailyProfitPercentage"`
	Accuracy              float64 `json:"accuracy"`
	TotalTrades           int     `json:"totalTrades"`
	SuccessfulTrades      int     `json:"successfulTrades"`
}

// AssetAllocation is one slice of the allocation chart
type AssetAllocation struct {
	Asset      string  `json:"asset"`
	Percentage float64 `json:"percentage"`
}

// DashboardSummary aggregates portfolio and bot figures for the dashboard header
type DashboardSummary struct {
	Balance               float64 `json:"balance"`
	InitialBalance        float64 `json:"initialBalance"`
	TotalProfit           float64 `json:"totalProfit"`
	ProfitPercentage      float64 `json:"profitPercentage"`
	DailyProfit           float64 `json:"dailyProfit"`
	DailyProfitPercentage float64 `json:"dailyProfitPercentage"`
	ActiveBots            int     `json:"activeBots"`
	TotalBots             int     `json:"totalBots"`
	Accuracy              float64 `json:"accuracy"`
	TotalTrades           int     `json:"totalTrades"`
	SuccessfulTrades      int     `json:"successfulTrades"`
	SuccessRate           float64 `json:"successRate"`
	ExchangeConnected     bool    `json:"exchangeConnected"`
}
