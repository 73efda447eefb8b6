package repository

import (
	"context"

	"flightstatus-service/internal/domain/entity"
)

// AirportRepository defines the interface for airport reference lookups
type AirportRepository interface {
	GetByIATA(ctx context.Context, iata string) (*entity.AirportReference, error)
}
