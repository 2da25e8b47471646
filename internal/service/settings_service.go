package service

import (
	"context"

	"gptading/backend/internal/model"
	"gptading/backend/internal/repository"
)

// SettingsService reads and changes the notification toggles
type SettingsService struct {
	sessions repository.SessionRepository
}

func NewSettingsService(sessions repository.SessionRepository) *SettingsService {
	return &SettingsService{sessions: sessions}
}

func (s *SettingsService) Notifications(ctx context.Context, sessionID string) (*model.NotificationSettings, error) {
	state, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, sessionError(err)
	}
	return &state.Notifications, nil
}

// UpdateNotifications changes only the fields present in upd
func (s *SettingsService) UpdateNotifications(ctx context.Context, sessionID string, upd *model.NotificationSettingsUpdate) (*model.NotificationSettings, error) {
	state, err := s.sessions.Update(ctx, sessionID, func(state *model.SessionState) error {
		upd.Apply(&state.Notifications)
		return nil
	})
	if err != nil {
		return nil, sessionError(err)
	}
	return &state.Notifications, nil
}
