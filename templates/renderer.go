package templates

import (
	"flightstatus-service/internal/domain/entity"
	"flightstatus-service/pkg/logger"
	"flightstatus-service/pkg/metrics"
)

// Renderer wraps the pure render functions and records every fallback to the
// minimal representation.
type Renderer struct {
	metrics *metrics.Metrics
	logger  logger.Logger
}

// NewRenderer creates a new renderer; m may be nil
func NewRenderer(m *metrics.Metrics, logger logger.Logger) *Renderer {
	return &Renderer{
		metrics: m,
		logger:  logger,
	}
}

// FullReport renders record like RenderFullReport
func (r *Renderer) FullReport(record *entity.FlightRecord) string {
	report, fellBack := renderFullReport(record)
	if fellBack {
		r.recordFallback("full_report", record)
	}
	return report
}

// Notification renders record like RenderNotification
func (r *Renderer) Notification(record *entity.FlightRecord) string {
	text, fellBack := renderNotification(record)
	if fellBack {
		r.recordFallback("notification", record)
	}
	return text
}

// FlightList renders several records like RenderFlightList
func (r *Renderer) FlightList(records []entity.FlightRecord) string {
	return RenderFlightList(records)
}

func (r *Renderer) recordFallback(renderer string, record *entity.FlightRecord) {
	if r.metrics != nil {
		r.metrics.RenderFallbacks.WithLabelValues(renderer).Inc()
	}
	r.logger.Warn("Rendered minimal flight report", "renderer", renderer, "flightNumber", record.Number)
}
