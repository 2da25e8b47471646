package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"gptading/backend/internal/model"
	"gptading/backend/internal/repository"
	"gptading/backend/internal/util"
	"gptading/backend/pkg/crypto"
	"gptading/backend/pkg/logger"
	"gptading/backend/pkg/zaffex"

	"github.com/google/uuid"
)

// finalWriteTimeout bounds the state write after a connect attempt ends
const finalWriteTimeout = 5 * time.Second

// errStaleAttempt marks a completion whose attempt was superseded or disconnected
var errStaleAttempt = errors.New("connect attempt superseded")

// ExchangeService simulates connecting a session to the exchange.
// Connect attempts run in background goroutines owned by the service.
type ExchangeService struct {
	sessions      repository.SessionRepository
	connector     zaffex.Connector
	notifications *NotificationService
	encryptionKey string
	log           *logger.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
	closed bool
}

// NewExchangeService creates the service. encryptionKey must be crypto.KeySize bytes.
func NewExchangeService(
	sessions repository.SessionRepository,
	connector zaffex.Connector,
	notifications *NotificationService,
	encryptionKey string,
) *ExchangeService {
	ctx, cancel := context.WithCancel(context.Background())
	return &ExchangeService{
		sessions:      sessions,
		connector:     connector,
		notifications: notifications,
		encryptionKey: encryptionKey,
		log:           logger.GetLogger(),
		ctx:           ctx,
		cancel:        cancel,
	}
}

// Status returns the masked connection view
func (s *ExchangeService) Status(ctx context.Context, sessionID string) (*model.ExchangeView, error) {
	state, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, sessionError(err)
	}
	return state.Exchange.View(), nil
}

// Connect stores the credentials, marks the session connecting and returns at once.
// The connector runs in the background.
func (s *ExchangeService) Connect(ctx context.Context, sessionID string, req *model.ConnectRequest) (*model.ExchangeView, error) {
	key := strings.TrimSpace(req.APIKey)
	secret := strings.TrimSpace(req.APISecret)
	if key == "" || secret == "" {
		return nil, util.NewAppErrorWithDetails(400, util.ErrCodeValidation,
			"API Key and Secret are required", "Por favor, ingresa tu API Key y Secret de Zaffex")
	}

	sealed, err := crypto.Encrypt(secret, s.encryptionKey)
	if err != nil {
		return nil, util.ErrInternalServer("Failed to encrypt API secret", err)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, util.NewAppError(503, util.ErrCodeUnavailable, "Server is shutting down")
	}
	s.wg.Add(1)
	s.mu.Unlock()

	attemptID := uuid.NewString()
	state, err := s.sessions.Update(ctx, sessionID, func(state *model.SessionState) error {
		switch state.Exchange.Status {
		case model.ExchangeStatusConnecting:
			return util.ErrConflict("A connection attempt is already in progress")
		case model.ExchangeStatusConnected:
			return util.ErrConflict("Already connected. Disconnect first")
		}

		ex := &state.Exchange
		ex.APIKey = key
		ex.EncryptedSecret = sealed
		ex.IsConnected = false
		ex.Status = model.ExchangeStatusConnecting
		ex.AttemptID = attemptID
		if req.TestMode != nil {
			ex.TestMode = *req.TestMode
		}
		return nil
	})
	if err != nil {
		s.wg.Done()
		return nil, sessionError(err)
	}

	s.log.WithField("session_id", sessionID).Infof("Connecting to %s: key=%s test_mode=%v",
		model.ExchangeName, logger.MaskSecret(key), state.Exchange.TestMode)

	go s.runConnect(sessionID, attemptID)

	return state.Exchange.View(), nil
}

// runConnect performs one attempt and applies the result if the attempt is still current
func (s *ExchangeService) runConnect(sessionID, attemptID string) {
	defer s.wg.Done()
	log := s.log.WithFields(map[string]interface{}{"session_id": sessionID, "attempt_id": attemptID})

	creds, err := s.credentials(s.ctx, sessionID, attemptID)
	if errors.Is(err, errStaleAttempt) {
		log.Debug("Connect attempt dropped before start")
		return
	}

	var account *zaffex.Account
	if err == nil {
		account, err = s.connector.Connect(s.ctx, *creds)
	}

	writeCtx, cancel := context.WithTimeout(context.Background(), finalWriteTimeout)
	defer cancel()

	state, updErr := s.sessions.Update(writeCtx, sessionID, func(state *model.SessionState) error {
		ex := &state.Exchange
		if ex.AttemptID != attemptID || ex.Status != model.ExchangeStatusConnecting {
			return errStaleAttempt
		}
		ex.AttemptID = ""
		if err != nil {
			ex.Reset()
			return nil
		}
		now := time.Now().UTC()
		ex.IsConnected = true
		ex.Status = model.ExchangeStatusConnected
		ex.ConnectedAt = &now
		ex.LastSync = &now
		ex.Account = &model.AccountInfo{
			Balance:   account.Balance,
			Available: account.Available,
			InOrders:  account.InOrders,
			Markets:   append([]string(nil), account.Markets...),
		}
		return nil
	})

	switch {
	case errors.Is(updErr, errStaleAttempt):
		log.Info("Connect attempt superseded, result dropped")
		return
	case updErr != nil:
		log.Error("Failed to store connect result", updErr)
		return
	}

	notifyCtx, cancelNotify := context.WithTimeout(context.Background(), finalWriteTimeout)
	defer cancelNotify()

	if err != nil {
		log.Warnf("Connect attempt failed: %v", err)
		s.notifications.Emit(notifyCtx, sessionID, model.MessageTypeExchangeFailed, state.Exchange.View())
		s.notifications.Notify(notifyCtx, sessionID, state.Notifications, NotifySystem, model.NotificationPayload{
			Title:       "Error",
			Description: "No se pudo conectar con Zaffex",
			Variant:     VariantDestructive,
		})
		return
	}

	log.Infof("Connected to %s", model.ExchangeName)
	s.notifications.Emit(notifyCtx, sessionID, model.MessageTypeExchangeConnected, state.Exchange.View())
	s.notifications.Notify(notifyCtx, sessionID, state.Notifications, NotifySystem, model.NotificationPayload{
		Title:       "¡Conexión exitosa!",
		Description: "Tu cuenta de Zaffex ha sido conectada correctamente",
	})
}

// credentials unseals the stored secret of the current attempt
func (s *ExchangeService) credentials(ctx context.Context, sessionID, attemptID string) (*zaffex.Credentials, error) {
	state, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	ex := state.Exchange
	if ex.AttemptID != attemptID {
		return nil, errStaleAttempt
	}

	secret, err := crypto.Decrypt(ex.EncryptedSecret, s.encryptionKey)
	if err != nil {
		return nil, err
	}
	return &zaffex.Credentials{
		APIKey:    ex.APIKey,
		APISecret: secret,
		TestMode:  ex.TestMode,
	}, nil
}

// Disconnect clears the credentials. A pending attempt is abandoned.
func (s *ExchangeService) Disconnect(ctx context.Context, sessionID string) (*model.ExchangeView, error) {
	state, err := s.sessions.Update(ctx, sessionID, func(state *model.SessionState) error {
		state.Exchange.Reset()
		return nil
	})
	if err != nil {
		return nil, sessionError(err)
	}

	s.log.WithField("session_id", sessionID).Infof("Disconnected from %s", model.ExchangeName)

	view := state.Exchange.View()
	s.notifications.Emit(ctx, sessionID, model.MessageTypeExchangeDisconnected, view)
	s.notifications.Notify(ctx, sessionID, state.Notifications, NotifySystem, model.NotificationPayload{
		Title:       "Desconectado",
		Description: "Tu cuenta de Zaffex ha sido desconectada",
	})

	return view, nil
}

// SetTestMode changes test mode. Only allowed while disconnected.
func (s *ExchangeService) SetTestMode(ctx context.Context, sessionID string, testMode bool) (*model.ExchangeView, error) {
	state, err := s.sessions.Update(ctx, sessionID, func(state *model.SessionState) error {
		status := state.Exchange.Status
		if status != "" && status != model.ExchangeStatusDisconnected {
			return util.ErrConflict("Disconnect before changing test mode")
		}
		state.Exchange.TestMode = testMode
		return nil
	})
	if err != nil {
		return nil, sessionError(err)
	}
	return state.Exchange.View(), nil
}

// Close cancels pending attempts and waits for their goroutines
func (s *ExchangeService) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
}
