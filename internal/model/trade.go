package model

// TradeType is the side of a trade
type TradeType string

const (
	TradeTypeBuy  TradeType = "BUY"
	TradeTypeSell TradeType = "SELL"
)

// Trade is an entry of the recent trades table
type Trade struct {
	Pair   string    `json:"pair"`
	Type   TradeType `json:"type"`
	Amount float64   `json:"amount"`
	Price  float64   `json:"price"`
	Profit float64   `json:"profit"`
	Time   string    `json:"time"`
}

// TradingPair is a market ticker row
type TradingPair struct {
	Symbol    string  `json:"symbol"`
	Price     float64 `json:"price"`
	Change24h float64 `json:"change24h"`
	Volume    string  `json:"volume"`
}
