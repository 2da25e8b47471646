package model

import "time"

// SessionState is everything one browser session can see and change
type SessionState struct {
	Bots          []Bot                `json:"bots"`
	Portfolio     Portfolio            `json:"portfolio"`
	Trades        []Trade              `json:"trades"`
	Pairs         []TradingPair        `json:"pairs"`
	Allocation    []AssetAllocation    `json:"allocation"`
	Exchange      ExchangeConnection   `json:"exchange"`
	Notifications NotificationSettings `json:"notifications"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`
}

// Clone returns a deep copy so callers never share slices with a store
func (s *SessionState) Clone() *SessionState {
	if s == nil {
		return nil
	}
	out := *s
	out.Bots = append([]Bot(nil), s.Bots...)
	out.Trades = append([]Trade(nil), s.Trades...)
	out.Pairs = append([]TradingPair(nil), s.Pairs...)
	out.Allocation = append([]AssetAllocation(nil), s.Allocation...)
	if s.Exchange.Account != nil {
		acc := *s.Exchange.Account
		acc.Markets = append([]string(nil), acc.Markets...)
		out.Exchange.Account = &acc
	}
	if s.Exchange.ConnectedAt != nil {
		t := *s.Exchange.ConnectedAt
		out.Exchange.ConnectedAt = &t
	}
	if s.Exchange.LastSync != nil {
		t := *s.Exchange.LastSync
		out.Exchange.LastSync = &t
	}
	return &out
}

// FindBot returns the index of the bot with id, or -1
func (s *SessionState) FindBot(id int64) int {
	for i := range s.Bots {
		if s.Bots[i].ID == id {
			return i
		}
	}
	return -1
}

// NextBotID is one past the highest id in use
func (s *SessionState) NextBotID() int64 {
	var max int64
	for _, b := range s.Bots {
		if b.ID > max {
			max = b.ID
		}
	}
	return max + 1
}
