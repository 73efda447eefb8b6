package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flightstatus-service/internal/domain/entity"
	"flightstatus-service/internal/domain/repository"
	repoimpl "flightstatus-service/internal/interface/repository"
	"flightstatus-service/pkg/clock"
	"flightstatus-service/pkg/logger"
	"flightstatus-service/pkg/metrics"
	"flightstatus-service/pkg/utils"
	"flightstatus-service/templates"
)

type stubProvider struct {
	mu      sync.Mutex
	records []entity.FlightRecord
	err     error
	calls   []string
}

func (p *stubProvider) FetchFlights(ctx context.Context, flightNumber string, date entity.Date) ([]entity.FlightRecord, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, flightNumber+"@"+date.String())
	if p.err != nil {
		return nil, p.err
	}
	out := make([]entity.FlightRecord, len(p.records))
	copy(out, p.records)
	return out, nil
}

type stubQueryRepo struct {
	queries map[string]*entity.FlightQuery
}

func (r *stubQueryRepo) FindByQueryKey(ctx context.Context, key string) (*entity.FlightQuery, error) {
	q, ok := r.queries[key]
	if !ok {
		return nil, entity.ErrReferenceNotFound
	}
	return q, nil
}

func (r *stubQueryRepo) Upsert(ctx context.Context, q *entity.FlightQuery) error {
	if existing, ok := r.queries[q.QueryKey]; ok {
		q.LookupCount = existing.LookupCount
	}
	q.LookupCount++
	r.queries[q.QueryKey] = q
	return nil
}

func (r *stubQueryRepo) FindRecentByConversation(ctx context.Context, id string, limit int) ([]*entity.FlightQuery, error) {
	return nil, nil
}

type stubAirportRepo map[string]string

func (r stubAirportRepo) GetByIATA(ctx context.Context, iata string) (*entity.AirportReference, error) {
	name, ok := r[iata]
	if !ok {
		return nil, entity.ErrReferenceNotFound
	}
	return &entity.AirportReference{IATA: iata, Name: name}, nil
}

type stubAirlineRepo map[string]string

func (r stubAirlineRepo) GetByCode(ctx context.Context, code string) (*entity.Airline, error) {
	name, ok := r[code]
	if !ok {
		return nil, entity.ErrReferenceNotFound
	}
	return &entity.Airline{Code: code, Name: name}, nil
}

type testRouter struct {
	handlers []ActionHandler
}

func (r *testRouter) Register(h ActionHandler) { r.handlers = append(r.handlers, h) }

func (r *testRouter) GetHandler(action string) ActionHandler {
	for _, h := range r.handlers {
		if h.CanHandle(action) {
			return h
		}
	}
	return nil
}

type conversationFixture struct {
	conversation *Conversation
	dispatcher   *ActionDispatcher
	sessions     *SessionManager
	provider     *stubProvider
	queries      *stubQueryRepo
	subs         repository.SubscriptionRepository
	clock        *clock.ManualClock
}

func newConversationFixture(t *testing.T) conversationFixture {
	t.Helper()
	log := logger.NewNopLogger()
	m := metrics.NewMetrics("test", prometheus.NewRegistry())
	clk := clock.NewManualClock(machineNow)

	sessions := NewSessionManager(repoimpl.NewMemorySessionRepository(), clk, SessionConfig{TTL: time.Hour}, m, log)
	provider := &stubProvider{records: []entity.FlightRecord{boardingRecord()}}
	queries := &stubQueryRepo{queries: map[string]*entity.FlightQuery{}}
	subs := repoimpl.NewMemorySubscriptionRepository()

	conversation := NewConversation(
		sessions,
		provider,
		queries,
		stubAirportRepo{"LED": "Pulkovo"},
		stubAirlineRepo{"SU": "Aeroflot"},
		subs,
		templates.NewRenderer(m, log),
		clk,
		m,
		log,
	)

	router := &testRouter{}
	for _, h := range ConversationActionHandlers(conversation) {
		router.Register(h)
	}

	return conversationFixture{
		conversation: conversation,
		dispatcher:   NewActionDispatcher(router, m, log),
		sessions:     sessions,
		provider:     provider,
		queries:      queries,
		subs:         subs,
		clock:        clk,
	}
}

func boardingRecord() entity.FlightRecord {
	return entity.FlightRecord{
		Number: "SU 100",
		Status: entity.StatusBoarding,
		Departure: &entity.FlightLeg{
			Airport:       &entity.Airport{IATA: "SVO", Name: "Sheremetyevo"},
			ScheduledTime: &entity.FlightTime{Local: "2025-07-15 10:00+03:00"},
			Gate:          "12",
		},
		Arrival: &entity.FlightLeg{
			Airport:       &entity.Airport{IATA: "LED"},
			ScheduledTime: &entity.FlightTime{Local: "2025-07-15 11:30+03:00"},
		},
	}
}

func actions(reply entity.Reply) []string {
	var out []string
	for _, row := range reply.Buttons {
		for _, b := range row {
			out = append(out, b.Action)
		}
	}
	return out
}

func TestBothSlotsInOneMessage(t *testing.T) {
	f := newConversationFixture(t)
	ctx := context.Background()

	reply := f.conversation.HandleMessage(ctx, "c1", "SU100 today", utils.LocaleEN)

	assert.Equal(t, []string{"SU100@2025-07-15"}, f.provider.calls)
	assert.Contains(t, reply.Text, "Gate: 12 (boarding in progress)")
	assert.Equal(t, []string{"refresh|SU100|2025-07-15", "subscribe|SU100|2025-07-15", "new_search", "my_flights"}, actions(reply))

	session, err := f.sessions.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestCodeThenDate(t *testing.T) {
	f := newConversationFixture(t)
	ctx := context.Background()

	reply := f.conversation.HandleMessage(ctx, "c1", "SU100", utils.LocaleEN)
	assert.Contains(t, reply.Text, "Flight SU100")
	assert.Equal(t, []string{"date|yesterday", "date|today", "date|tomorrow", "new_search"}, actions(reply))
	assert.Empty(t, f.provider.calls)

	session, err := f.sessions.Get(ctx, "c1")
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, entity.StateAwaitingDate, session.State)

	reply = f.conversation.HandleMessage(ctx, "c1", "15.07.2025", utils.LocaleEN)
	assert.Equal(t, []string{"SU100@2025-07-15"}, f.provider.calls)
	assert.Contains(t, reply.Text, "Status: Boarding")

	session, err = f.sessions.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestDateThenCodeInRussian(t *testing.T) {
	f := newConversationFixture(t)
	ctx := context.Background()

	reply := f.conversation.HandleMessage(ctx, "c1", "завтра", utils.LocaleRU)
	assert.Contains(t, reply.Text, "Дата 16.07.2025")

	f.conversation.HandleMessage(ctx, "c1", "su 100", utils.LocaleRU)
	assert.Equal(t, []string{"SU100@2025-07-16"}, f.provider.calls)
}

func TestImpossibleDateDoesNotMutate(t *testing.T) {
	f := newConversationFixture(t)
	ctx := context.Background()

	reply := f.conversation.HandleMessage(ctx, "c1", "31.02.2025", utils.LocaleEN)
	assert.Equal(t, utils.Message(utils.LocaleEN, utils.MSG_INVALID_DATE), reply.Text)
	session, err := f.sessions.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Nil(t, session)

	f.conversation.HandleMessage(ctx, "c1", "SU100", utils.LocaleEN)
	before, err := f.sessions.Get(ctx, "c1")
	require.NoError(t, err)

	f.clock.Advance(time.Minute)
	f.conversation.HandleMessage(ctx, "c1", "31.02.2025", utils.LocaleEN)
	after, err := f.sessions.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Empty(t, f.provider.calls)
}

func TestExpiredSessionStartsOver(t *testing.T) {
	f := newConversationFixture(t)
	ctx := context.Background()

	f.conversation.HandleMessage(ctx, "c1", "SU100", utils.LocaleEN)
	f.clock.Advance(61 * time.Minute)

	reply := f.conversation.HandleMessage(ctx, "c1", "15.07.2025", utils.LocaleEN)
	assert.Empty(t, f.provider.calls)
	assert.Contains(t, reply.Text, "Date 15.07.2025")

	session, err := f.sessions.Get(ctx, "c1")
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, entity.StateAwaitingFlightCode, session.State)
	assert.Empty(t, session.FlightCodeSlot)
}

func TestFailedFetchOffersRetryInsteadOfReprompt(t *testing.T) {
	f := newConversationFixture(t)
	ctx := context.Background()
	f.provider.err = fmt.Errorf("%w: timeout", entity.ErrProviderUnavailable)

	reply := f.conversation.HandleMessage(ctx, "c1", "SU100 15.07.2025", utils.LocaleEN)
	assert.Equal(t, utils.Message(utils.LocaleEN, utils.MSG_TRANSIENT_ERROR), reply.Text)
	assert.Equal(t, []string{"refresh|SU100|2025-07-15", "new_search"}, actions(reply))

	session, err := f.sessions.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Nil(t, session)

	f.provider.err = nil
	reply = f.dispatcher.HandleAction(ctx, "c1", "refresh|SU100|2025-07-15", utils.LocaleEN)
	assert.Contains(t, reply.Text, "Status: Boarding")
	assert.Len(t, f.provider.calls, 2)

	q, err := f.queries.FindByQueryKey(ctx, "c1:SU100:2025-07-15")
	require.NoError(t, err)
	assert.Equal(t, entity.OutcomeSuccess, q.Outcome)
	assert.Equal(t, 2, q.LookupCount)
}

func TestNoDataReply(t *testing.T) {
	f := newConversationFixture(t)
	ctx := context.Background()
	f.provider.err = entity.ErrFlightNotFound

	reply := f.conversation.HandleMessage(ctx, "c1", "XY999 today", utils.LocaleEN)
	assert.Equal(t, "No information found for flight XY999 on 15.07.2025. Check the flight number and date.", reply.Text)
	assert.Equal(t, []string{"change|date|XY999", "change|code|2025-07-15", "new_search"}, actions(reply))

	reply = f.dispatcher.HandleAction(ctx, "c1", "change|date|XY999", utils.LocaleEN)
	assert.Contains(t, reply.Text, "Flight XY999")
	session, err := f.sessions.Get(ctx, "c1")
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, "XY999", session.FlightCodeSlot)
	assert.False(t, session.HasDate())
}

func TestMultipleFlightsAreListed(t *testing.T) {
	f := newConversationFixture(t)
	ctx := context.Background()

	second := boardingRecord()
	second.Status = entity.StatusExpected
	second.Departure.Gate = ""
	second.Departure.ScheduledTime = &entity.FlightTime{Local: "2025-07-15 22:00+03:00"}
	f.provider.records = []entity.FlightRecord{boardingRecord(), second}

	reply := f.conversation.HandleMessage(ctx, "c1", "SU100 today", utils.LocaleEN)
	assert.Contains(t, reply.Text, "Several flights SU100 found on 15.07.2025")
	assert.Contains(t, reply.Text, "2. ⏳ SU 100 SVO→LED 22:00")
	assert.Equal(t, []string{"select|SU100|2025-07-15|0", "select|SU100|2025-07-15|1", "new_search"}, actions(reply))

	reply = f.dispatcher.HandleAction(ctx, "c1", "select|SU100|2025-07-15|1", utils.LocaleEN)
	assert.Contains(t, reply.Text, "Status: Expected")
	assert.Equal(t, []string{"select|SU100|2025-07-15|1", "subscribe|SU100|2025-07-15", "new_search", "my_flights"}, actions(reply))
}

func TestReferenceDataFillsMissingNames(t *testing.T) {
	f := newConversationFixture(t)

	reply := f.conversation.HandleMessage(context.Background(), "c1", "SU100 today", utils.LocaleEN)
	assert.Contains(t, reply.Text, "🛬 LED / Pulkovo")
	assert.Contains(t, reply.Text, "Airline: Aeroflot")
}

func TestDateButtonCompletesSearch(t *testing.T) {
	f := newConversationFixture(t)
	ctx := context.Background()

	f.conversation.HandleMessage(ctx, "c1", "SU100", utils.LocaleEN)
	reply := f.dispatcher.HandleAction(ctx, "c1", "date|tomorrow", utils.LocaleEN)

	assert.Equal(t, []string{"SU100@2025-07-16"}, f.provider.calls)
	assert.Contains(t, reply.Text, "Status: Boarding")
}

func TestRepromptsFollowSessionState(t *testing.T) {
	f := newConversationFixture(t)
	ctx := context.Background()

	reply := f.conversation.HandleMessage(ctx, "c1", "hello there", utils.LocaleEN)
	assert.Equal(t, utils.Message(utils.LocaleEN, utils.MSG_WELCOME), reply.Text)

	f.conversation.HandleMessage(ctx, "c1", "SU100", utils.LocaleEN)
	reply = f.conversation.HandleMessage(ctx, "c1", "hello there", utils.LocaleEN)
	assert.Equal(t, utils.Message(utils.LocaleEN, utils.MSG_REPROMPT_DATE), reply.Text)

	f.conversation.HandleMessage(ctx, "c2", "today", utils.LocaleEN)
	reply = f.conversation.HandleMessage(ctx, "c2", "hello there", utils.LocaleEN)
	assert.Equal(t, utils.Message(utils.LocaleEN, utils.MSG_REPROMPT_CODE), reply.Text)
}

func TestStartCommandResets(t *testing.T) {
	f := newConversationFixture(t)
	ctx := context.Background()

	f.conversation.HandleMessage(ctx, "c1", "SU100", utils.LocaleEN)
	reply := f.conversation.HandleMessage(ctx, "c1", "/start", utils.LocaleEN)
	assert.Equal(t, utils.Message(utils.LocaleEN, utils.MSG_WELCOME), reply.Text)

	session, err := f.sessions.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestUnknownAndMalformedActions(t *testing.T) {
	f := newConversationFixture(t)
	ctx := context.Background()
	want := utils.Message(utils.LocaleEN, utils.MSG_UNKNOWN_ACTION)

	for _, action := range []string{"", "bogus", "date|someday", "refresh|SU100", "select|SU100|2025-07-15|x", "change|gate|12"} {
		reply := f.dispatcher.HandleAction(ctx, "c1", action, utils.LocaleEN)
		assert.Equal(t, want, reply.Text, "action %q", action)
	}
	assert.Empty(t, f.provider.calls)
}

func TestClassifyOutcome(t *testing.T) {
	records := []entity.FlightRecord{boardingRecord()}

	tests := []struct {
		name    string
		records []entity.FlightRecord
		err     error
		want    string
	}{
		{"records", records, nil, entity.OutcomeSuccess},
		{"empty result", nil, nil, entity.OutcomeNoData},
		{"not found", nil, entity.ErrFlightNotFound, entity.OutcomeNoData},
		{"wrapped not found", nil, fmt.Errorf("lookup: %w", entity.ErrFlightNotFound), entity.OutcomeNoData},
		{"provider failure", nil, entity.ErrProviderUnavailable, entity.OutcomeTransientError},
		{"unknown failure", records, errors.New("boom"), entity.OutcomeTransientError},
		{"context canceled", nil, context.Canceled, entity.OutcomeTransientError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyOutcome(tt.records, tt.err))
		})
	}

	assert.Empty(t, OutcomeText(entity.OutcomeSuccess, utils.LocaleEN, "SU100", july15))
	assert.NotEmpty(t, OutcomeText(entity.OutcomeNoData, utils.LocaleRU, "SU100", july15))
	assert.Equal(t, utils.Message(utils.LocaleRU, utils.MSG_TRANSIENT_ERROR), OutcomeText(entity.OutcomeTransientError, utils.LocaleRU, "SU100", july15))
}

func TestSeveralCodesInOneMessageAskAgain(t *testing.T) {
	f := newConversationFixture(t)
	ctx := context.Background()

	reply := f.conversation.HandleMessage(ctx, "c1", "SU100 or AF1234 today", utils.LocaleEN)
	assert.Equal(t, utils.Message(utils.LocaleEN, utils.MSG_AMBIGUOUS_CODE, "SU100, AF1234"), reply.Text)
	assert.Empty(t, f.provider.calls)

	session, err := f.sessions.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestLowercaseWordBeforeNumberIsNotAFlightCode(t *testing.T) {
	f := newConversationFixture(t)
	ctx := context.Background()

	reply := f.conversation.HandleMessage(ctx, "c1", "today at 10", utils.LocaleEN)
	assert.Empty(t, f.provider.calls)
	assert.Contains(t, reply.Text, "Date 15.07.2025")

	session, err := f.sessions.Get(ctx, "c1")
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, entity.StateAwaitingFlightCode, session.State)
	assert.Empty(t, session.FlightCodeSlot)
}
