package service

import (
	"context"
	"fmt"

	"gptading/backend/internal/model"
	"gptading/backend/pkg/logger"
)

// NotificationKind maps a notification to the settings toggle that controls it
type NotificationKind string

const (
	NotifyTrades    NotificationKind = "trades"
	NotifyProfits   NotificationKind = "profits"
	NotifyLosses    NotificationKind = "losses"
	NotifyBotStatus NotificationKind = "botStatus"
	// NotifySystem is always delivered
	NotifySystem NotificationKind = "system"
)

// Toast variants understood by the front end
const (
	VariantDefault     = "default"
	VariantDestructive = "destructive"
)

// TextSender delivers plain text outside the browser (Telegram)
type TextSender interface {
	Send(ctx context.Context, text string) error
}

// NotificationService publishes session events and toast notifications
type NotificationService struct {
	publisher EventPublisher
	external  TextSender
	log       *logger.Logger
}

// NewNotificationService creates the service. external may be nil.
func NewNotificationService(publisher EventPublisher, external TextSender) *NotificationService {
	return &NotificationService{
		publisher: publisher,
		external:  external,
		log:       logger.GetLogger(),
	}
}

// Emit publishes a typed event to the session
func (s *NotificationService) Emit(ctx context.Context, sessionID string, msgType model.WSMessageType, payload interface{}) {
	msg := model.WSMessage{
		Type:    msgType,
		Payload: payload,
	}
	if err := s.publisher.Publish(ctx, sessionID, msg); err != nil {
		s.log.Errorf("Failed to publish %s event: %v", msgType, err)
	}
}

// Notify sends a toast when the matching toggle in settings is on.
// With the telegram toggle on and a sender configured it is also sent there.
func (s *NotificationService) Notify(ctx context.Context, sessionID string, settings model.NotificationSettings, kind NotificationKind, payload model.NotificationPayload) bool {
	if !enabled(settings, kind) {
		return false
	}

	if payload.Variant == "" {
		payload.Variant = VariantDefault
	}
	s.Emit(ctx, sessionID, model.MessageTypeNotification, payload)

	if settings.Telegram && s.external != nil {
		text := payload.Title
		if payload.Description != "" {
			text = fmt.Sprintf("%s\n%s", payload.Title, payload.Description)
		}
		if err := s.external.Send(ctx, text); err != nil {
			s.log.Warnf("Telegram delivery failed: %v", err)
		}
	}
	return true
}

func enabled(settings model.NotificationSettings, kind NotificationKind) bool {
	switch kind {
	case NotifyTrades:
		return settings.Trades
	case NotifyProfits:
		return settings.Profits
	case NotifyLosses:
		return settings.Losses
	case NotifyBotStatus:
		return settings.BotStatus
	case NotifySystem:
		return true
	}
	return false
}
