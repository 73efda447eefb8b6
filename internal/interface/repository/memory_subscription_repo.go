package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"flightstatus-service/internal/domain/entity"
	"flightstatus-service/internal/domain/repository"
)

// MemorySubscriptionRepository keeps subscriptions in process memory, used
// when MongoDB is not configured
type MemorySubscriptionRepository struct {
	mu            sync.RWMutex
	subscriptions map[string]entity.FlightSubscription
	now           func() time.Time
}

// NewMemorySubscriptionRepository creates a new in-memory subscription repository
func NewMemorySubscriptionRepository() repository.SubscriptionRepository {
	return &MemorySubscriptionRepository{
		subscriptions: make(map[string]entity.FlightSubscription),
		now:           time.Now,
	}
}

// Upsert creates or refreshes a subscription by its key
func (r *MemorySubscriptionRepository) Upsert(ctx context.Context, subscription *entity.FlightSubscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	subscription.UpdatedAt = now
	if existing, ok := r.subscriptions[subscription.SubscriptionKey]; ok {
		subscription.ID = existing.ID
		subscription.CreatedAt = existing.CreatedAt
	} else {
		subscription.ID = subscription.SubscriptionKey
		subscription.CreatedAt = now
	}
	r.subscriptions[subscription.SubscriptionKey] = *subscription
	return nil
}

// Delete removes a subscription by its key
func (r *MemorySubscriptionRepository) Delete(ctx context.Context, subscriptionKey string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.subscriptions[subscriptionKey]
	delete(r.subscriptions, subscriptionKey)
	return ok, nil
}

// Exists checks whether a subscription with the key is stored
func (r *MemorySubscriptionRepository) Exists(ctx context.Context, subscriptionKey string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.subscriptions[subscriptionKey]
	return ok, nil
}

// FindByConversation returns a conversation's subscriptions, newest first
func (r *MemorySubscriptionRepository) FindByConversation(ctx context.Context, conversationID string, limit int) ([]*entity.FlightSubscription, error) {
	out := r.filter(func(s entity.FlightSubscription) bool {
		return s.ConversationID == conversationID
	})
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].SubscriptionKey < out[j].SubscriptionKey
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// FindByFlight returns every subscription to a flight on a day
func (r *MemorySubscriptionRepository) FindByFlight(ctx context.Context, flightNumber string, flightDate string) ([]*entity.FlightSubscription, error) {
	out := r.filter(func(s entity.FlightSubscription) bool {
		return s.FlightNumber == flightNumber && s.FlightDate == flightDate
	})
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ConversationID < out[j].ConversationID
	})
	return out, nil
}

func (r *MemorySubscriptionRepository) filter(keep func(entity.FlightSubscription) bool) []*entity.FlightSubscription {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*entity.FlightSubscription
	for _, s := range r.subscriptions {
		if keep(s) {
			copied := s
			out = append(out, &copied)
		}
	}
	return out
}
