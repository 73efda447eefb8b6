package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"flightstatus-service/internal/domain/entity"
	"flightstatus-service/internal/domain/repository"
	"flightstatus-service/pkg/logger"
)

const (
	defaultAeroDataBoxURL  = "https://aerodatabox.p.rapidapi.com"
	defaultAeroDataBoxHost = "aerodatabox.p.rapidapi.com"
	maxProviderBody        = 4 << 20
)

// AeroDataBoxConfig configures the AeroDataBox client
type AeroDataBoxConfig struct {
	BaseURL string
	APIKey  string
	Host    string
	Timeout time.Duration
}

// AeroDataBoxRepository fetches flight status records from AeroDataBox over
// RapidAPI. It does not retry.
type AeroDataBoxRepository struct {
	logger  logger.Logger
	baseURL string
	apiKey  string
	host    string
	client  *http.Client
}

// NewAeroDataBoxRepository creates a new AeroDataBox flight provider
func NewAeroDataBoxRepository(config AeroDataBoxConfig, logger logger.Logger) repository.FlightProvider {
	baseURL := strings.TrimRight(config.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultAeroDataBoxURL
	}

	host := config.Host
	if host == "" {
		if u, err := url.Parse(baseURL); err == nil && u.Host != "" {
			host = u.Host
		} else {
			host = defaultAeroDataBoxHost
		}
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &AeroDataBoxRepository{
		logger:  logger,
		baseURL: baseURL,
		apiKey:  config.APIKey,
		host:    host,
		client:  &http.Client{Timeout: timeout},
	}
}

// FetchFlights returns every flight with the given number on the given local date
func (r *AeroDataBoxRepository) FetchFlights(ctx context.Context, flightNumber string, date entity.Date) ([]entity.FlightRecord, error) {
	if r.apiKey == "" {
		return nil, fmt.Errorf("%w: api key missing", entity.ErrProviderUnavailable)
	}

	endpoint := fmt.Sprintf("%s/flights/number/%s/%s?withAircraftImage=false&withLocation=false&dateLocalRole=Both",
		r.baseURL, url.PathEscape(flightNumber), date.String())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("X-RapidAPI-Key", r.apiKey)
	req.Header.Set("X-RapidAPI-Host", r.host)
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to send request: %v", entity.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxProviderBody))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", entity.ErrProviderUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound, resp.StatusCode == http.StatusNoContent:
		return nil, entity.ErrFlightNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: rate limited", entity.ErrProviderUnavailable)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: provider returned status %d: %s",
			entity.ErrProviderUnavailable, resp.StatusCode, truncate(string(body), 200))
	}

	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, entity.ErrFlightNotFound
	}

	records, err := entity.DecodeFlightRecords(body)
	if err != nil {
		if errors.Is(err, entity.ErrMalformedFlightPayload) {
			return nil, fmt.Errorf("%w: %v", entity.ErrProviderUnavailable, err)
		}
		return nil, err
	}
	if len(records) == 0 {
		return nil, entity.ErrFlightNotFound
	}

	r.logger.Debug("Fetched flight records",
		"flightNumber", flightNumber,
		"date", date.String(),
		"count", len(records))

	return records, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
