package service

import (
	"context"
	"strings"

	"gptading/backend/internal/model"
	"gptading/backend/internal/repository"
	"gptading/backend/internal/util"
)

// DashboardService aggregates the read-only portfolio data of a session.
// Nothing is cached; every call reads the current state.
type DashboardService struct {
	sessions repository.SessionRepository
}

func NewDashboardService(sessions repository.SessionRepository) *DashboardService {
	return &DashboardService{sessions: sessions}
}

// Summary computes the dashboard header figures
func (s *DashboardService) Summary(ctx context.Context, sessionID string) (*model.DashboardSummary, error) {
	state, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, sessionError(err)
	}
	return BuildSummary(state), nil
}

// BuildSummary derives the summary from a session state
func BuildSummary(state *model.SessionState) *model.DashboardSummary {
	p := state.Portfolio
	totalProfit := p.Balance - p.InitialBalance

	active := 0
	for _, b := range state.Bots {
		if b.IsActive {
			active++
		}
	}

	return &model.DashboardSummary{
		Balance:               p.Balance,
		InitialBalance:        p.InitialBalance,
		TotalProfit:           totalProfit,
		ProfitPercentage:      util.Percent(totalProfit, p.InitialBalance),
		DailyProfit:           p.DailyProfit,
		DailyProfitPercentage: p.DailyProfitPercentage,
		ActiveBots:            active,
		TotalBots:             len(state.Bots),
		Accuracy:              p.Accuracy,
		TotalTrades:           p.TotalTrades,
		SuccessfulTrades:      p.SuccessfulTrades,
		SuccessRate:           util.Percent(float64(p.SuccessfulTrades), float64(p.TotalTrades)),
		ExchangeConnected:     state.Exchange.IsConnected,
	}
}

func (s *DashboardService) Portfolio(ctx context.Context, sessionID string) (*model.Portfolio, error) {
	state, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, sessionError(err)
	}
	return &state.Portfolio, nil
}

// Trades returns the recent trades, newest first
func (s *DashboardService) Trades(ctx context.Context, sessionID string) ([]model.Trade, error) {
	state, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, sessionError(err)
	}
	return state.Trades, nil
}

// Pairs returns the market list, limited to symbols when any are given.
// Unknown symbols are skipped.
func (s *DashboardService) Pairs(ctx context.Context, sessionID string, symbols []string) ([]model.TradingPair, error) {
	state, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, sessionError(err)
	}
	if len(symbols) == 0 {
		return state.Pairs, nil
	}

	wanted := make(map[string]bool, len(symbols))
	for _, sym := range symbols {
		wanted[strings.ToUpper(strings.TrimSpace(sym))] = true
	}
	pairs := make([]model.TradingPair, 0, len(symbols))
	for _, p := range state.Pairs {
		if wanted[p.Symbol] {
			pairs = append(pairs, p)
		}
	}
	return pairs, nil
}

func (s *DashboardService) Allocation(ctx context.Context, sessionID string) ([]model.AssetAllocation, error) {
	state, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, sessionError(err)
	}
	return state.Allocation, nil
}
