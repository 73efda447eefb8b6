package repository

import (
	"context"

	"flightstatus-service/internal/domain/entity"
)

// FlightQueryRepository defines the interface for the completed-search log
type FlightQueryRepository interface {
	FindByQueryKey(ctx context.Context, queryKey string) (*entity.FlightQuery, error)
	Upsert(ctx context.Context, query *entity.FlightQuery) error
	FindRecentByConversation(ctx context.Context, conversationID string, limit int) ([]*entity.FlightQuery, error)
}
