package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flightstatus-service/internal/domain/entity"
	"flightstatus-service/internal/domain/repository"
	repoimpl "flightstatus-service/internal/interface/repository"
	"flightstatus-service/pkg/clock"
	"flightstatus-service/pkg/logger"
	"flightstatus-service/pkg/metrics"
)

type managerFixture struct {
	manager *SessionManager
	repo    repository.SessionRepository
	clock   *clock.ManualClock
	metrics *metrics.Metrics
}

func newManagerFixture(t *testing.T, sweep time.Duration) managerFixture {
	t.Helper()
	repo := repoimpl.NewMemorySessionRepository()
	clk := clock.NewManualClock(machineNow)
	m := metrics.NewMetrics("test", prometheus.NewRegistry())
	manager := NewSessionManager(repo, clk, SessionConfig{TTL: time.Hour, SweepInterval: sweep}, m, logger.NewNopLogger())
	return managerFixture{manager: manager, repo: repo, clock: clk, metrics: m}
}

func TestConsumeIfCompleteExactlyOnce(t *testing.T) {
	f := newManagerFixture(t, 0)
	ctx := context.Background()

	_, err := f.manager.SubmitFlightCode(ctx, "c1", "SU100")
	require.NoError(t, err)

	_, _, ok, err := f.manager.ConsumeIfComplete(ctx, "c1")
	require.NoError(t, err)
	assert.False(t, ok, "incomplete session must not be consumed")

	session, err := f.manager.SubmitDate(ctx, "c1", july15)
	require.NoError(t, err)
	assert.Equal(t, entity.StateComplete, session.State)

	date, code, ok, err := f.manager.ConsumeIfComplete(ctx, "c1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "2025-07-15", date.String())
	assert.Equal(t, "SU100", code)

	_, _, ok, err = f.manager.ConsumeIfComplete(ctx, "c1")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = f.repo.Find(ctx, "c1")
	assert.ErrorIs(t, err, entity.ErrSessionNotFound)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.SessionsCompleted))
}

func TestConcurrentConsumeYieldsOneWinner(t *testing.T) {
	f := newManagerFixture(t, 0)
	ctx := context.Background()

	_, err := f.manager.SubmitSlots(ctx, "c1", july15, "SU100")
	require.NoError(t, err)

	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, ok, err := f.manager.ConsumeIfComplete(ctx, "c1")
			assert.NoError(t, err)
			if ok {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
	assert.Zero(t, f.manager.locks.size())
}

func TestExpiredSessionIsAbsent(t *testing.T) {
	f := newManagerFixture(t, 0)
	ctx := context.Background()

	_, err := f.manager.SubmitDate(ctx, "c1", july15)
	require.NoError(t, err)

	f.clock.Advance(61 * time.Minute)

	session, err := f.manager.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Nil(t, session)

	// deleted on first access after expiry
	_, err = f.repo.Find(ctx, "c1")
	assert.ErrorIs(t, err, entity.ErrSessionNotFound)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.SessionsExpired))

	// the next valid submission starts over
	session, err = f.manager.SubmitFlightCode(ctx, "c1", "SU100")
	require.NoError(t, err)
	assert.Equal(t, entity.StateAwaitingDate, session.State)
	assert.False(t, session.HasDate())
	assert.Equal(t, f.clock.Now(), session.CreatedAt)
}

func TestExpiredCompleteSessionIsNotConsumed(t *testing.T) {
	f := newManagerFixture(t, 0)
	ctx := context.Background()

	_, err := f.manager.SubmitSlots(ctx, "c1", july15, "SU100")
	require.NoError(t, err)
	f.clock.Advance(time.Hour)

	_, _, ok, err := f.manager.ConsumeIfComplete(ctx, "c1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSubmissionRefreshesExpiry(t *testing.T) {
	f := newManagerFixture(t, 0)
	ctx := context.Background()

	_, err := f.manager.SubmitDate(ctx, "c1", july15)
	require.NoError(t, err)

	f.clock.Advance(50 * time.Minute)
	_, err = f.manager.SubmitDate(ctx, "c1", july16)
	require.NoError(t, err)

	f.clock.Advance(50 * time.Minute)
	session, err := f.manager.Get(ctx, "c1")
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, "2025-07-16", session.DateSlot.String())
}

func TestUnrecognizedSlotLeavesStorageUntouched(t *testing.T) {
	f := newManagerFixture(t, 0)
	ctx := context.Background()

	session, action, err := f.manager.SubmitSlot(ctx, "c1", entity.UnrecognizedSlot())
	require.NoError(t, err)
	assert.Nil(t, session)
	assert.Equal(t, ActionReprompt, action)
	_, err = f.repo.Find(ctx, "c1")
	assert.ErrorIs(t, err, entity.ErrSessionNotFound)

	before, err := f.manager.SubmitDate(ctx, "c1", july15)
	require.NoError(t, err)
	f.clock.Advance(time.Minute)

	_, action, err = f.manager.SubmitSlot(ctx, "c1", entity.UnrecognizedSlot())
	require.NoError(t, err)
	assert.Equal(t, ActionReprompt, action)

	stored, err := f.repo.Find(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, before.UpdatedAt, stored.UpdatedAt)
	assert.Equal(t, before.ExpiresAt, stored.ExpiresAt)
}

func TestBeginOrGetAndReset(t *testing.T) {
	f := newManagerFixture(t, 0)
	ctx := context.Background()

	session, err := f.manager.BeginOrGet(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, entity.StateAwaitingDate, session.State)

	_, err = f.manager.SubmitFlightCode(ctx, "c1", "SU100")
	require.NoError(t, err)

	again, err := f.manager.BeginOrGet(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "SU100", again.FlightCodeSlot)
	assert.Equal(t, session.CreatedAt, again.CreatedAt)

	require.NoError(t, f.manager.Reset(ctx, "c1"))
	require.NoError(t, f.manager.Reset(ctx, "c1"))
	gone, err := f.manager.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestSweepExpired(t *testing.T) {
	f := newManagerFixture(t, 10*time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := f.manager.SubmitDate(ctx, fmt.Sprintf("old-%d", i), july15)
		require.NoError(t, err)
	}
	f.clock.Advance(45 * time.Minute)
	_, err := f.manager.SubmitDate(ctx, "fresh", july15)
	require.NoError(t, err)

	f.clock.Advance(20 * time.Minute)
	count, err := f.manager.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	_, err = f.repo.Find(ctx, "fresh")
	assert.NoError(t, err)
}

// selfExpiringSessionRepo behaves like Redis: the store drops keys on its
// own, so DeleteExpired never has anything to remove
type selfExpiringSessionRepo struct {
	repository.SessionRepository
}

func (selfExpiringSessionRepo) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	return 0, nil
}

func TestSweepExpiredReportsStoreCount(t *testing.T) {
	repo := selfExpiringSessionRepo{repoimpl.NewMemorySessionRepository()}
	clk := clock.NewManualClock(machineNow)
	m := metrics.NewMetrics("test", prometheus.NewRegistry())
	manager := NewSessionManager(repo, clk, SessionConfig{TTL: time.Hour}, m, logger.NewNopLogger())
	ctx := context.Background()

	_, err := manager.SubmitDate(ctx, "old", july15)
	require.NoError(t, err)
	clk.Advance(2 * time.Hour)

	count, err := manager.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.SessionsExpired))
}

func TestOpportunisticSweepRemovesUnreadSessions(t *testing.T) {
	f := newManagerFixture(t, 10*time.Minute)
	ctx := context.Background()

	_, err := f.manager.SubmitDate(ctx, "old", july15)
	require.NoError(t, err)

	f.clock.Advance(61 * time.Minute)
	// this submission triggers a sweep that removes "old" without reading it
	_, err = f.manager.SubmitDate(ctx, "other", july15)
	require.NoError(t, err)

	_, err = f.repo.Find(ctx, "old")
	assert.ErrorIs(t, err, entity.ErrSessionNotFound)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.SessionsExpired))
}

func TestDistinctConversationsDoNotInterfere(t *testing.T) {
	f := newManagerFixture(t, 0)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("c%d", i)
			_, err := f.manager.SubmitFlightCode(ctx, id, "SU100")
			assert.NoError(t, err)
			_, err = f.manager.SubmitDate(ctx, id, july15)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	for i := 0; i < 20; i++ {
		_, code, ok, err := f.manager.ConsumeIfComplete(ctx, fmt.Sprintf("c%d", i))
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "SU100", code)
	}
}
