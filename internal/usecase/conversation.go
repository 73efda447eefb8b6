package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"flightstatus-service/internal/domain/entity"
	"flightstatus-service/internal/domain/repository"
	"flightstatus-service/pkg/clock"
	"flightstatus-service/pkg/logger"
	"flightstatus-service/pkg/metrics"
	"flightstatus-service/pkg/utils"
	"flightstatus-service/templates"
)

// Conversation turns inbound messages into replies: it feeds parsed slots to
// the session manager and, once a search is complete, looks the flight up and
// renders it.
type Conversation struct {
	sessions         *SessionManager
	provider         repository.FlightProvider
	queryRepo        repository.FlightQueryRepository
	airportRepo      repository.AirportRepository
	airlineRepo      repository.AirlineRepository
	subscriptionRepo repository.SubscriptionRepository
	renderer         *templates.Renderer
	clock            clock.Clock
	metrics          *metrics.Metrics
	logger           logger.Logger
}

// NewConversation creates a new conversation use case. The query, airport,
// airline and subscription repositories are optional and may be nil; without
// a subscription repository no subscribe buttons are offered.
func NewConversation(
	sessions *SessionManager,
	provider repository.FlightProvider,
	queryRepo repository.FlightQueryRepository,
	airportRepo repository.AirportRepository,
	airlineRepo repository.AirlineRepository,
	subscriptionRepo repository.SubscriptionRepository,
	renderer *templates.Renderer,
	clk clock.Clock,
	m *metrics.Metrics,
	logger logger.Logger,
) *Conversation {
	return &Conversation{
		sessions:         sessions,
		provider:         provider,
		queryRepo:        queryRepo,
		airportRepo:      airportRepo,
		airlineRepo:      airlineRepo,
		subscriptionRepo: subscriptionRepo,
		renderer:         renderer,
		clock:            clk,
		metrics:          m,
		logger:           logger,
	}
}

// HandleMessage processes one free-text message
func (c *Conversation) HandleMessage(ctx context.Context, conversationID string, text string, locale utils.Locale) entity.Reply {
	c.countTurn("message")

	if isStartCommand(text) {
		return c.NewSearch(ctx, conversationID, locale, utils.MSG_WELCOME)
	}

	parsed := utils.ParseMessage(text, locale, c.clock.Now())
	c.logger.Debug("Parsed message",
		"conversationId", conversationID,
		"hasDate", parsed.HasDate(),
		"flightNumber", parsed.FlightCode,
		"invalidDate", parsed.InvalidDate,
		"ambiguousCodes", parsed.AmbiguousCodes)

	// several different codes in one message: ask again, change nothing
	if parsed.Ambiguous() {
		return entity.Reply{
			Text:    utils.Message(locale, utils.MSG_AMBIGUOUS_CODE, strings.Join(parsed.AmbiguousCodes, ", ")),
			Buttons: [][]entity.Button{newSearchRow(locale)},
		}
	}

	switch {
	case parsed.HasDate() && parsed.HasFlightCode():
		if _, err := c.sessions.SubmitSlots(ctx, conversationID, *parsed.Date, parsed.FlightCode); err != nil {
			return c.storageFailure(conversationID, err, locale)
		}
		return c.lookupCompleted(ctx, conversationID, locale)

	case parsed.HasDate():
		return c.submit(ctx, conversationID, entity.NewDateSlot(*parsed.Date), locale, false)

	case parsed.HasFlightCode():
		return c.submit(ctx, conversationID, entity.NewFlightCodeSlot(parsed.FlightCode), locale, parsed.InvalidDate)
	}

	return c.reprompt(ctx, conversationID, locale, parsed.InvalidDate)
}

// SelectDate applies a relative-day keyword picked from a button
func (c *Conversation) SelectDate(ctx context.Context, conversationID string, keyword string, locale utils.Locale) (entity.Reply, error) {
	date, ok := utils.ResolveRelativeKeyword(keyword, locale, c.clock.Now())
	if !ok {
		return entity.Reply{}, fmt.Errorf("unknown date keyword %q", keyword)
	}
	return c.submit(ctx, conversationID, entity.NewDateSlot(date), locale, false), nil
}

// NewSearch drops any session and greets the user with the given text
func (c *Conversation) NewSearch(ctx context.Context, conversationID string, locale utils.Locale, key utils.MessageKey) entity.Reply {
	if err := c.sessions.Reset(ctx, conversationID); err != nil {
		return c.storageFailure(conversationID, err, locale)
	}
	return entity.Reply{
		Text:    utils.Message(locale, key),
		Buttons: [][]entity.Button{dateButtons(locale)},
	}
}

// ChangeDate restarts the search keeping the flight code
func (c *Conversation) ChangeDate(ctx context.Context, conversationID string, flightCode string, locale utils.Locale) (entity.Reply, error) {
	code, ok := utils.NormalizeFlightCode(flightCode)
	if !ok {
		return entity.Reply{}, fmt.Errorf("invalid flight code %q", flightCode)
	}
	if err := c.sessions.Reset(ctx, conversationID); err != nil {
		return c.storageFailure(conversationID, err, locale), nil
	}
	return c.submit(ctx, conversationID, entity.NewFlightCodeSlot(code), locale, false), nil
}

// ChangeFlightCode restarts the search keeping the date
func (c *Conversation) ChangeFlightCode(ctx context.Context, conversationID string, date entity.Date, locale utils.Locale) entity.Reply {
	if err := c.sessions.Reset(ctx, conversationID); err != nil {
		return c.storageFailure(conversationID, err, locale)
	}
	return c.submit(ctx, conversationID, entity.NewDateSlot(date), locale, false)
}

// Refresh repeats a lookup for a pair the user already supplied
func (c *Conversation) Refresh(ctx context.Context, conversationID string, flightCode string, date entity.Date, locale utils.Locale) entity.Reply {
	return c.lookup(ctx, conversationID, flightCode, date, locale, -1)
}

// Select renders one flight out of a multi-flight result
func (c *Conversation) Select(ctx context.Context, conversationID string, flightCode string, date entity.Date, index int, locale utils.Locale) entity.Reply {
	return c.lookup(ctx, conversationID, flightCode, date, locale, index)
}

func (c *Conversation) submit(ctx context.Context, conversationID string, slot entity.SlotValue, locale utils.Locale, invalidDate bool) entity.Reply {
	session, action, err := c.sessions.SubmitSlot(ctx, conversationID, slot)
	if err != nil {
		return c.storageFailure(conversationID, err, locale)
	}

	switch action {
	case ActionComplete:
		return c.lookupCompleted(ctx, conversationID, locale)
	case ActionPromptFlightCode:
		return entity.Reply{
			Text:    utils.Message(locale, utils.MSG_PROMPT_FLIGHT_CODE, session.DateSlot.Format(utils.DISPLAY_DATE_LAYOUT)),
			Buttons: [][]entity.Button{newSearchRow(locale)},
		}
	case ActionPromptDate:
		text := utils.Message(locale, utils.MSG_PROMPT_DATE, session.FlightCodeSlot)
		if invalidDate {
			text = utils.Message(locale, utils.MSG_CODE_ACCEPTED, session.FlightCodeSlot) + " " +
				utils.Message(locale, utils.MSG_INVALID_DATE)
		}
		return entity.Reply{
			Text:    text,
			Buttons: [][]entity.Button{dateButtons(locale), newSearchRow(locale)},
		}
	}

	return c.reprompt(ctx, conversationID, locale, invalidDate)
}

// reprompt answers input that carried no usable slot. Nothing is mutated.
func (c *Conversation) reprompt(ctx context.Context, conversationID string, locale utils.Locale, invalidDate bool) entity.Reply {
	if invalidDate {
		return entity.Reply{
			Text:    utils.Message(locale, utils.MSG_INVALID_DATE),
			Buttons: [][]entity.Button{dateButtons(locale)},
		}
	}

	session, err := c.sessions.Get(ctx, conversationID)
	if err != nil {
		return c.storageFailure(conversationID, err, locale)
	}

	switch {
	case session == nil:
		return entity.Reply{
			Text:    utils.Message(locale, utils.MSG_WELCOME),
			Buttons: [][]entity.Button{dateButtons(locale)},
		}
	case session.State == entity.StateAwaitingFlightCode:
		return entity.Reply{
			Text:    utils.Message(locale, utils.MSG_REPROMPT_CODE),
			Buttons: [][]entity.Button{newSearchRow(locale)},
		}
	default:
		return entity.Reply{
			Text:    utils.Message(locale, utils.MSG_REPROMPT_DATE),
			Buttons: [][]entity.Button{dateButtons(locale), newSearchRow(locale)},
		}
	}
}

// lookupCompleted consumes a complete session and looks the flight up. The
// session is gone before the fetch starts; a failed fetch offers a retry of
// the same pair instead of asking for the slots again.
func (c *Conversation) lookupCompleted(ctx context.Context, conversationID string, locale utils.Locale) entity.Reply {
	date, flightCode, ok, err := c.sessions.ConsumeIfComplete(ctx, conversationID)
	if err != nil {
		return c.storageFailure(conversationID, err, locale)
	}
	if !ok {
		return c.reprompt(ctx, conversationID, locale, false)
	}
	return c.lookup(ctx, conversationID, flightCode, date, locale, -1)
}

// lookup fetches and renders a flight. index >= 0 selects one record out of
// several; -1 lists them when there is more than one.
func (c *Conversation) lookup(ctx context.Context, conversationID string, flightCode string, date entity.Date, locale utils.Locale, index int) entity.Reply {
	started := time.Now()
	records, err := c.provider.FetchFlights(ctx, flightCode, date)
	outcome := ClassifyOutcome(records, err)

	if c.metrics != nil {
		c.metrics.ProviderLatency.Observe(time.Since(started).Seconds())
		c.metrics.ProviderRequests.WithLabelValues(outcomeMetricLabel(outcome)).Inc()
	}

	log := c.logger.With("conversationId", conversationID, "flightNumber", flightCode, "date", date.String())
	if outcome == entity.OutcomeTransientError {
		log.Error("Flight lookup failed", "error", err)
	} else {
		log.Info("Flight lookup finished", "outcome", outcome, "count", len(records))
	}

	c.recordQuery(ctx, conversationID, flightCode, date, outcome, records)

	switch outcome {
	case entity.OutcomeNoData:
		return entity.Reply{
			Text: OutcomeText(outcome, locale, flightCode, date),
			Buttons: [][]entity.Button{
				{
					{Label: utils.Message(locale, utils.BTN_CHANGE_DATE), Action: ChangeDateAction(flightCode)},
					{Label: utils.Message(locale, utils.BTN_CHANGE_FLIGHT_CODE), Action: ChangeFlightCodeAction(date)},
				},
				newSearchRow(locale),
			},
		}
	case entity.OutcomeTransientError:
		return entity.Reply{
			Text: OutcomeText(outcome, locale, flightCode, date),
			Buttons: [][]entity.Button{
				{{Label: utils.Message(locale, utils.BTN_RETRY), Action: RefreshAction(flightCode, date)}},
				newSearchRow(locale),
			},
		}
	}

	c.enrich(ctx, records)

	if index >= len(records) {
		index = -1
	}
	if len(records) == 1 {
		index = 0
	}

	if index < 0 {
		rows := make([][]entity.Button, 0, len(records)+1)
		for i := range records {
			rows = append(rows, []entity.Button{{
				Label:  templates.RenderFlightSummary(&records[i]),
				Action: SelectAction(flightCode, date, i),
			}})
		}
		rows = append(rows, newSearchRow(locale))
		return entity.Reply{
			Text: utils.Message(locale, utils.MSG_SELECT_FLIGHT, flightCode, date.Format(utils.DISPLAY_DATE_LAYOUT)) +
				"\n\n" + c.renderer.FlightList(records),
			Buttons: rows,
		}
	}

	refresh := RefreshAction(flightCode, date)
	if len(records) > 1 {
		refresh = SelectAction(flightCode, date, index)
	}
	return entity.Reply{
		Text:    c.renderer.FullReport(&records[index]),
		Buttons: c.reportButtons(ctx, conversationID, flightCode, date, refresh, locale),
	}
}

// enrich fills airport and airline names the provider left out
func (c *Conversation) enrich(ctx context.Context, records []entity.FlightRecord) {
	for i := range records {
		record := &records[i]
		for _, leg := range []*entity.FlightLeg{record.Departure, record.Arrival} {
			c.enrichAirport(ctx, leg)
		}
		c.enrichAirline(ctx, record)
	}
}

func (c *Conversation) enrichAirport(ctx context.Context, leg *entity.FlightLeg) {
	if c.airportRepo == nil || leg.IATA() == "" || leg.AirportName() != "" {
		return
	}
	ref, err := c.airportRepo.GetByIATA(ctx, leg.IATA())
	if err != nil {
		c.logger.Debug("Airport reference lookup failed", "iata", leg.IATA(), "error", err)
		return
	}
	leg.Airport.Name = ref.Name
	if leg.Airport.Municipality == "" {
		leg.Airport.Municipality = ref.CityName
	}
}

func (c *Conversation) enrichAirline(ctx context.Context, record *entity.FlightRecord) {
	if c.airlineRepo == nil || (record.Airline != nil && record.Airline.Name != "") {
		return
	}

	code := ""
	if record.Airline != nil && record.Airline.IATA != "" {
		code = record.Airline.IATA
	} else if number := strings.ReplaceAll(record.Number, " ", ""); len(number) >= 2 {
		code = number[:2]
	}
	if code == "" {
		return
	}

	airline, err := c.airlineRepo.GetByCode(ctx, strings.ToUpper(code))
	if err != nil {
		c.logger.Debug("Airline reference lookup failed", "code", code, "error", err)
		return
	}
	if record.Airline == nil {
		record.Airline = &entity.Carrier{IATA: airline.Code}
	}
	record.Airline.Name = airline.Name
}

func (c *Conversation) recordQuery(ctx context.Context, conversationID string, flightCode string, date entity.Date, outcome string, records []entity.FlightRecord) {
	if c.queryRepo == nil {
		return
	}

	query := &entity.FlightQuery{
		QueryKey:       fmt.Sprintf("%s:%s:%s", conversationID, flightCode, date.String()),
		ConversationID: conversationID,
		FlightNumber:   flightCode,
		FlightDate:     date.String(),
		Outcome:        outcome,
		ResultCount:    len(records),
	}
	if len(records) > 0 {
		query.FlightStatus = string(records[0].StatusOrUnknown())
	}

	if err := c.queryRepo.Upsert(ctx, query); err != nil {
		c.logger.Warn("Failed to record flight query", "queryKey", query.QueryKey, "error", err)
	}
}

func (c *Conversation) storageFailure(conversationID string, err error, locale utils.Locale) entity.Reply {
	c.logger.Error("Session storage failed", "conversationId", conversationID, "error", err)
	return entity.Reply{
		Text:    utils.Message(locale, utils.MSG_TRANSIENT_ERROR),
		Buttons: [][]entity.Button{newSearchRow(locale)},
	}
}

func (c *Conversation) countTurn(kind string) {
	if c.metrics != nil {
		c.metrics.MessagesHandled.WithLabelValues(kind).Inc()
	}
}

func dateButtons(locale utils.Locale) []entity.Button {
	return []entity.Button{
		{Label: utils.Message(locale, utils.BTN_YESTERDAY), Action: DateAction(utils.KeywordYesterday)},
		{Label: utils.Message(locale, utils.BTN_TODAY), Action: DateAction(utils.KeywordToday)},
		{Label: utils.Message(locale, utils.BTN_TOMORROW), Action: DateAction(utils.KeywordTomorrow)},
	}
}

func newSearchRow(locale utils.Locale) []entity.Button {
	return []entity.Button{{Label: utils.Message(locale, utils.BTN_NEW_SEARCH), Action: ActionTokenNewSearch}}
}

func isStartCommand(text string) bool {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "/start", "/new":
		return true
	}
	return false
}
