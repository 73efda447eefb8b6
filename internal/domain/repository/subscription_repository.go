package repository

import (
	"context"

	"flightstatus-service/internal/domain/entity"
)

// SubscriptionRepository stores which conversations follow which flights
type SubscriptionRepository interface {
	// Upsert creates the subscription or refreshes an existing one with the same key
	Upsert(ctx context.Context, subscription *entity.FlightSubscription) error
	// Delete reports whether a subscription was removed
	Delete(ctx context.Context, subscriptionKey string) (bool, error)
	Exists(ctx context.Context, subscriptionKey string) (bool, error)
	FindByConversation(ctx context.Context, conversationID string, limit int) ([]*entity.FlightSubscription, error)
	FindByFlight(ctx context.Context, flightNumber string, flightDate string) ([]*entity.FlightSubscription, error)
}
