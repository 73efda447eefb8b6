package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flightstatus-service/internal/domain/entity"
)

func newTestSession(id string, updated time.Time) *entity.Session {
	d := entity.Date{Year: 2025, Month: time.July, Day: 15}
	s := &entity.Session{
		ConversationID: id,
		State:          entity.StateAwaitingFlightCode,
		DateSlot:       &d,
	}
	s.Touch(updated, time.Hour)
	return s
}

func TestMemorySessionRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewMemorySessionRepository()
	t0 := time.Date(2025, 7, 15, 10, 0, 0, 0, time.UTC)

	_, err := repo.Find(ctx, "c1")
	assert.ErrorIs(t, err, entity.ErrSessionNotFound)

	saved := newTestSession("c1", t0)
	require.NoError(t, repo.Save(ctx, saved))

	// the stored copy is isolated from the caller's value
	saved.DateSlot.Day = 20
	got, err := repo.Find(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 15, got.DateSlot.Day)

	require.NoError(t, repo.Delete(ctx, "c1"))
	require.NoError(t, repo.Delete(ctx, "c1"))
	_, err = repo.Find(ctx, "c1")
	assert.ErrorIs(t, err, entity.ErrSessionNotFound)
}

func TestMemorySessionRepositoryDeleteExpired(t *testing.T) {
	ctx := context.Background()
	repo := NewMemorySessionRepository()
	t0 := time.Date(2025, 7, 15, 10, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Save(ctx, newTestSession("old", t0)))
	require.NoError(t, repo.Save(ctx, newTestSession("fresh", t0.Add(30*time.Minute))))

	count, err := repo.DeleteExpired(ctx, t0.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, err = repo.Find(ctx, "old")
	assert.ErrorIs(t, err, entity.ErrSessionNotFound)
	_, err = repo.Find(ctx, "fresh")
	assert.NoError(t, err)
}
