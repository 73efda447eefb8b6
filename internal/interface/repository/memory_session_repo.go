package repository

import (
	"context"
	"sync"
	"time"

	"flightstatus-service/internal/domain/entity"
	"flightstatus-service/internal/domain/repository"
)

// MemorySessionRepository keeps sessions in process memory. It stores and
// returns copies so callers never share state with the map.
type MemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]*entity.Session
}

// NewMemorySessionRepository creates a new in-memory session repository
func NewMemorySessionRepository() repository.SessionRepository {
	return &MemorySessionRepository{
		sessions: make(map[string]*entity.Session),
	}
}

// Find finds the session of a conversation
func (r *MemorySessionRepository) Find(ctx context.Context, conversationID string) (*entity.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[conversationID]
	if !ok {
		return nil, entity.ErrSessionNotFound
	}
	return session.Clone(), nil
}

// Save replaces the conversation's session
func (r *MemorySessionRepository) Save(ctx context.Context, session *entity.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[session.ConversationID] = session.Clone()
	return nil
}

// Delete removes the conversation's session if present
func (r *MemorySessionRepository) Delete(ctx context.Context, conversationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, conversationID)
	return nil
}

// DeleteExpired removes every session that expired at or before now
func (r *MemorySessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for id, session := range r.sessions {
		if session.ExpiredAt(now) {
			delete(r.sessions, id)
			count++
		}
	}
	return count, nil
}
