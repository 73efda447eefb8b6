package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"flightstatus-service/internal/domain/entity"
	"flightstatus-service/internal/domain/repository"

	"github.com/go-redis/redis/v8"
)

const sessionKeyPrefix = "flight:session:"

// RedisSessionRepository keeps sessions as JSON values whose key TTL matches
// the session's own lifetime, so Redis drops abandoned sessions itself.
type RedisSessionRepository struct {
	client *redis.Client
}

// NewRedisSessionRepository creates a new Redis session repository
func NewRedisSessionRepository(client *redis.Client) repository.SessionRepository {
	return &RedisSessionRepository{client: client}
}

// Find finds the session of a conversation
func (r *RedisSessionRepository) Find(ctx context.Context, conversationID string) (*entity.Session, error) {
	data, err := r.client.Get(ctx, sessionKeyPrefix+conversationID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, entity.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var session entity.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &session, nil
}

// Save stores the session with a key TTL of ExpiresAt - UpdatedAt
func (r *RedisSessionRepository) Save(ctx context.Context, session *entity.Session) error {
	ttl := session.ExpiresAt.Sub(session.UpdatedAt)
	if ttl <= 0 {
		return r.Delete(ctx, session.ConversationID)
	}

	b, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := r.client.Set(ctx, sessionKeyPrefix+session.ConversationID, b, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Delete removes the conversation's session if present
func (r *RedisSessionRepository) Delete(ctx context.Context, conversationID string) error {
	if err := r.client.Del(ctx, sessionKeyPrefix+conversationID).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteExpired is a no-op: key TTLs already remove expired sessions
func (r *RedisSessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	return 0, nil
}
