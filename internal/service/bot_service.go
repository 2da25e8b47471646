package service

import (
	"context"
	"fmt"
	"time"

	"gptading/backend/internal/model"
	"gptading/backend/internal/repository"
	"gptading/backend/internal/util"
	"gptading/backend/pkg/logger"
)

// BotService manages the bots of a session
type BotService struct {
	sessions      repository.SessionRepository
	notifications *NotificationService
	now           func() time.Time
	log           *logger.Logger
}

// NewBotService creates a new bot service
func NewBotService(sessions repository.SessionRepository, notifications *NotificationService) *BotService {
	return &BotService{
		sessions:      sessions,
		notifications: notifications,
		now:           time.Now,
		log:           logger.GetLogger(),
	}
}

// List returns the bots in insertion order, optionally filtered
func (s *BotService) List(ctx context.Context, sessionID, filter string) ([]model.Bot, error) {
	if filter == "" {
		filter = model.BotFilterAll
	}
	switch filter {
	case model.BotFilterAll, model.BotFilterActive, model.BotFilterProfitable:
	default:
		return nil, util.NewAppErrorWithDetails(400, util.ErrCodeValidation, "Invalid filter",
			"filter must be one of all, active, profitable")
	}

	state, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, sessionError(err)
	}

	bots := make([]model.Bot, 0, len(state.Bots))
	for _, b := range state.Bots {
		switch {
		case filter == model.BotFilterActive && !b.IsActive:
			continue
		case filter == model.BotFilterProfitable && b.Profit <= 0:
			continue
		}
		bots = append(bots, b)
	}
	return bots, nil
}

// Create validates req and appends a new inactive bot with zeroed metrics
func (s *BotService) Create(ctx context.Context, sessionID string, req *model.BotRequest) (*model.Bot, error) {
	req.Normalize()

	if req.Name == "" {
		return nil, util.ErrValidation("Bot name is required")
	}
	if req.Strategy == "" {
		return nil, util.ErrValidation("Strategy is required")
	}
	strategy, ok := model.LookupStrategy(req.Strategy)
	if !ok {
		return nil, util.NewAppErrorWithDetails(400, util.ErrCodeValidation, "Unknown strategy", req.Strategy)
	}
	risk := model.Risk(req.Risk)
	if !risk.Valid() {
		return nil, util.NewAppErrorWithDetails(400, util.ErrCodeValidation, "Unknown risk level", req.Risk)
	}
	if req.Investment < model.MinBotInvestment || req.Investment > model.MaxBotInvestment {
		return nil, util.NewAppErrorWithDetails(400, util.ErrCodeValidation, "Investment out of range",
			fmt.Sprintf("investment must be between %.0f and %.0f", model.MinBotInvestment, model.MaxBotInvestment))
	}

	var created model.Bot
	state, err := s.sessions.Update(ctx, sessionID, func(state *model.SessionState) error {
		created = model.Bot{
			ID:         state.NextBotID(),
			Name:       req.Name,
			Strategy:   strategy.Name,
			IsActive:   false,
			Risk:       risk,
			Investment: req.Investment,
			CreatedAt:  s.now().UTC(),
		}
		state.Bots = append(state.Bots, created)
		return nil
	})
	if err != nil {
		return nil, sessionError(err)
	}

	s.log.WithField("session_id", sessionID).Infof("Bot %d created: name=%q strategy=%q", created.ID, created.Name, created.Strategy)

	s.notifications.Emit(ctx, sessionID, model.MessageTypeBotCreated, created)
	s.notifications.Notify(ctx, sessionID, state.Notifications, NotifyBotStatus, model.NotificationPayload{
		Title:       "Bot creado",
		Description: fmt.Sprintf("%s (%s) listo para activarse", created.Name, created.Strategy),
	})

	return &created, nil
}

// Get returns one bot of the session
func (s *BotService) Get(ctx context.Context, sessionID string, botID int64) (*model.Bot, error) {
	state, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, sessionError(err)
	}
	i := state.FindBot(botID)
	if i < 0 {
		return nil, util.ErrBotNotFound(botID)
	}
	bot := state.Bots[i]
	return &bot, nil
}

// Toggle flips isActive of exactly one bot
func (s *BotService) Toggle(ctx context.Context, sessionID string, botID int64) (*model.Bot, error) {
	var toggled model.Bot
	state, err := s.sessions.Update(ctx, sessionID, func(state *model.SessionState) error {
		i := state.FindBot(botID)
		if i < 0 {
			return util.ErrBotNotFound(botID)
		}
		state.Bots[i].IsActive = !state.Bots[i].IsActive
		toggled = state.Bots[i]
		return nil
	})
	if err != nil {
		return nil, sessionError(err)
	}

	s.notifications.Emit(ctx, sessionID, model.MessageTypeBotUpdate, toggled)

	title := "Bot pausado"
	if toggled.IsActive {
		title = "Bot activado"
	}
	s.notifications.Notify(ctx, sessionID, state.Notifications, NotifyBotStatus, model.NotificationPayload{
		Title:       title,
		Description: toggled.Name,
	})

	return &toggled, nil
}

// Stats summarizes the bot grid
func (s *BotService) Stats(ctx context.Context, sessionID string) (*model.BotStats, error) {
	state, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, sessionError(err)
	}
	return computeBotStats(state.Bots), nil
}

// Strategies returns the catalog with the number of bots using each strategy
func (s *BotService) Strategies(ctx context.Context, sessionID string) ([]model.StrategyUsage, error) {
	state, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, sessionError(err)
	}

	counts := make(map[string]int, len(model.Strategies))
	for _, b := range state.Bots {
		counts[b.Strategy]++
	}

	out := make([]model.StrategyUsage, 0, len(model.Strategies))
	for _, st := range model.Strategies {
		out = append(out, model.StrategyUsage{Strategy: st, BotCount: counts[st.Name]})
	}
	return out, nil
}

func computeBotStats(bots []model.Bot) *model.BotStats {
	stats := &model.BotStats{Total: len(bots)}
	if len(bots) == 0 {
		return stats
	}

	var roiSum float64
	for _, b := range bots {
		if b.IsActive {
			stats.Active++
		}
		if b.Profit > 0 {
			stats.Profitable++
			stats.PositiveProfit += b.Profit
		}
		roiSum += b.ROI
	}
	stats.AverageROI = util.RoundToPrecision(roiSum/float64(len(bots)), util.PercentPrecision)
	return stats
}

// sessionError passes AppErrors through and wraps store failures
func sessionError(err error) error {
	if util.IsAppError(err) {
		return err
	}
	return util.ErrInternalServer("Failed to access session", err)
}
