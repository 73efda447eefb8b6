package repository

import (
	"context"
	"time"

	"flightstatus-service/internal/domain/entity"
)

// SessionRepository stores at most one search session per conversation.
// Implementations only store and return what they are given; expiry policy
// is applied by the caller.
type SessionRepository interface {
	// Find returns entity.ErrSessionNotFound when nothing is stored
	Find(ctx context.Context, conversationID string) (*entity.Session, error)
	Save(ctx context.Context, session *entity.Session) error
	// Delete is idempotent
	Delete(ctx context.Context, conversationID string) error
	// DeleteExpired removes sessions whose ExpiresAt is at or before now
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}
