package repository

import (
	"context"

	"flightstatus-service/internal/domain/entity"
)

// FlightProvider fetches status records from the flight-data provider.
// It returns entity.ErrFlightNotFound when the provider has no data for the
// pair and a wrapped entity.ErrProviderUnavailable on transport or API
// failures. Retry policy belongs to the implementation.
type FlightProvider interface {
	FetchFlights(ctx context.Context, flightNumber string, date entity.Date) ([]entity.FlightRecord, error)
}
