package usecase

import (
	"errors"

	"flightstatus-service/internal/domain/entity"
	"flightstatus-service/pkg/metrics"
	"flightstatus-service/pkg/utils"
)

// ClassifyOutcome maps a provider result onto the three user-facing
// categories: records found, nothing found, or a failure worth retrying.
func ClassifyOutcome(records []entity.FlightRecord, err error) string {
	switch {
	case err == nil && len(records) > 0:
		return entity.OutcomeSuccess
	case err == nil, errors.Is(err, entity.ErrFlightNotFound):
		return entity.OutcomeNoData
	default:
		return entity.OutcomeTransientError
	}
}

// OutcomeText returns the fixed text shown for an unsuccessful outcome.
// Success has no fixed text; it is the rendered report.
func OutcomeText(outcome string, locale utils.Locale, flightCode string, date entity.Date) string {
	switch outcome {
	case entity.OutcomeNoData:
		return utils.Message(locale, utils.MSG_NO_DATA, flightCode, date.Format(utils.DISPLAY_DATE_LAYOUT))
	case entity.OutcomeSuccess:
		return ""
	default:
		return utils.Message(locale, utils.MSG_TRANSIENT_ERROR)
	}
}

func outcomeMetricLabel(outcome string) string {
	switch outcome {
	case entity.OutcomeSuccess:
		return metrics.OutcomeSuccess
	case entity.OutcomeNoData:
		return metrics.OutcomeNoData
	default:
		return metrics.OutcomeTransient
	}
}
