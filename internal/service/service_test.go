package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"gptading/backend/internal/model"
	"gptading/backend/internal/repository"
	"gptading/backend/internal/seed"
)

// recordingPublisher keeps every published event
type recordingPublisher struct {
	mu     sync.Mutex
	events []published
}

type published struct {
	sessionID string
	msg       model.WSMessage
}

func (p *recordingPublisher) Publish(_ context.Context, sessionID string, msg model.WSMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, published{sessionID: sessionID, msg: msg})
	return nil
}

func (p *recordingPublisher) types(sessionID string) []model.WSMessageType {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []model.WSMessageType
	for _, e := range p.events {
		if e.sessionID == sessionID {
			out = append(out, e.msg.Type)
		}
	}
	return out
}

func (p *recordingPublisher) notifications(sessionID string) []model.NotificationPayload {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []model.NotificationPayload
	for _, e := range p.events {
		if e.sessionID == sessionID && e.msg.Type == model.MessageTypeNotification {
			out = append(out, e.msg.Payload.(model.NotificationPayload))
		}
	}
	return out
}

type recordingSender struct {
	mu    sync.Mutex
	texts []string
}

func (s *recordingSender) Send(_ context.Context, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.texts = append(s.texts, text)
	return nil
}

func (s *recordingSender) sent() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.texts...)
}

type fixture struct {
	sessions  repository.SessionRepository
	publisher *recordingPublisher
	notifier  *NotificationService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	pub := &recordingPublisher{}
	return &fixture{
		sessions:  repository.NewMemorySessionRepository(time.Hour, seed.Default),
		publisher: pub,
		notifier:  NewNotificationService(pub, nil),
	}
}
