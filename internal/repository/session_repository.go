// Package repository provides access to per-session state.
package repository

import (
	"context"
	"errors"
	"sync"
	"time"

	"gptading/backend/internal/model"
	"gptading/backend/internal/seed"
)

// ErrEmptySessionID is returned for calls without a session id
var ErrEmptySessionID = errors.New("session id is empty")

// SessionRepository stores one SessionState per browser session.
// Reads of an unknown session create it from the injected seed.
type SessionRepository interface {
	// Get returns a copy of the session state
	Get(ctx context.Context, sessionID string) (*model.SessionState, error)
	// Update applies fn to the session state and saves the result when fn returns nil.
	// Updates of one session are serialized.
	Update(ctx context.Context, sessionID string, fn func(*model.SessionState) error) (*model.SessionState, error)
	// Delete forgets the session
	Delete(ctx context.Context, sessionID string) error
	// Ping checks the backing store
	Ping(ctx context.Context) error
	// Name identifies the backend in health output
	Name() string
}

type memoryEntry struct {
	state     *model.SessionState
	expiresAt time.Time
}

// MemorySessionRepository keeps sessions in process memory
type MemorySessionRepository struct {
	mu       sync.Mutex
	sessions map[string]*memoryEntry
	ttl      time.Duration
	seed     seed.Func
	now      func() time.Time
}

// NewMemorySessionRepository creates an in-memory store. Idle sessions expire after ttl.
func NewMemorySessionRepository(ttl time.Duration, seedFn seed.Func) *MemorySessionRepository {
	return &MemorySessionRepository{
		sessions: make(map[string]*memoryEntry),
		ttl:      ttl,
		seed:     seedFn,
		now:      time.Now,
	}
}

func (r *MemorySessionRepository) Name() string { return "memory" }

func (r *MemorySessionRepository) Ping(ctx context.Context) error { return ctx.Err() }

// Get returns a copy of the session, creating it when missing
func (r *MemorySessionRepository) Get(ctx context.Context, sessionID string) (*model.SessionState, error) {
	if sessionID == "" {
		return nil, ErrEmptySessionID
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return r.loadLocked(sessionID).state.Clone(), nil
}

// Update runs fn on a copy and stores it on success
func (r *MemorySessionRepository) Update(ctx context.Context, sessionID string, fn func(*model.SessionState) error) (*model.SessionState, error) {
	if sessionID == "" {
		return nil, ErrEmptySessionID
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	entry := r.loadLocked(sessionID)
	next := entry.state.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	next.UpdatedAt = r.now().UTC()
	entry.state = next

	return next.Clone(), nil
}

// Delete removes the session
func (r *MemorySessionRepository) Delete(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	delete(r.sessions, sessionID)
	r.mu.Unlock()
	return nil
}

// Len is the number of live sessions
func (r *MemorySessionRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep drops expired sessions and returns how many were removed
func (r *MemorySessionRepository) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	removed := 0
	for id, e := range r.sessions {
		if now.After(e.expiresAt) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

// StartJanitor sweeps every interval until ctx is done
func (r *MemorySessionRepository) StartJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.Sweep()
			}
		}
	}()
}

// loadLocked returns the live entry for id, seeding a new one when missing or
// expired. Access extends the expiry.
func (r *MemorySessionRepository) loadLocked(sessionID string) *memoryEntry {
	now := r.now()
	entry, ok := r.sessions[sessionID]
	if !ok || now.After(entry.expiresAt) {
		state := r.seed()
		state.CreatedAt = now.UTC()
		state.UpdatedAt = now.UTC()
		entry = &memoryEntry{state: state}
		r.sessions[sessionID] = entry
	}
	entry.expiresAt = now.Add(r.ttl)
	return entry
}
