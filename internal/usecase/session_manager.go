package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"flightstatus-service/internal/domain/entity"
	"flightstatus-service/internal/domain/repository"
	"flightstatus-service/pkg/clock"
	"flightstatus-service/pkg/logger"
	"flightstatus-service/pkg/metrics"
)

// SessionConfig holds the session timing knobs
type SessionConfig struct {
	TTL time.Duration
	// SweepInterval throttles the opportunistic expired-session sweep.
	// Zero disables it; lazy expiry on read still applies.
	SweepInterval time.Duration
}

// SessionManager owns every read and write of search sessions. All
// operations on one conversation run under that conversation's lock; distinct
// conversations never wait on each other.
type SessionManager struct {
	sessionRepo repository.SessionRepository
	clock       clock.Clock
	config      SessionConfig
	locks       *keyedMutex
	metrics     *metrics.Metrics
	logger      logger.Logger

	sweepMu   sync.Mutex
	lastSweep time.Time
}

// NewSessionManager creates a new session manager; m may be nil
func NewSessionManager(
	sessionRepo repository.SessionRepository,
	clk clock.Clock,
	config SessionConfig,
	m *metrics.Metrics,
	logger logger.Logger,
) *SessionManager {
	if config.TTL <= 0 {
		config.TTL = entity.DefaultSessionTTL
	}
	return &SessionManager{
		sessionRepo: sessionRepo,
		clock:       clk,
		config:      config,
		locks:       newKeyedMutex(),
		metrics:     m,
		logger:      logger,
	}
}

// Get returns the live session or nil. An expired session is deleted.
func (m *SessionManager) Get(ctx context.Context, conversationID string) (*entity.Session, error) {
	unlock := m.locks.Lock(conversationID)
	defer unlock()

	return m.load(ctx, conversationID, m.clock.Now())
}

// BeginOrGet returns the live session, creating a fresh one awaiting a date
// when none exists.
func (m *SessionManager) BeginOrGet(ctx context.Context, conversationID string) (*entity.Session, error) {
	m.maybeSweep(ctx)

	unlock := m.locks.Lock(conversationID)
	defer unlock()

	now := m.clock.Now()
	session, err := m.load(ctx, conversationID, now)
	if err != nil {
		return nil, err
	}
	if session != nil {
		return session, nil
	}

	session = newSession(conversationID)
	session.Touch(now, m.config.TTL)
	if err := m.sessionRepo.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	m.logger.Debug("Started search session", "conversationId", conversationID)
	return session.Clone(), nil
}

// SubmitSlot applies one parsed slot. Unrecognized input leaves storage
// untouched and returns the current session, which may be nil.
func (m *SessionManager) SubmitSlot(ctx context.Context, conversationID string, slot entity.SlotValue) (*entity.Session, Action, error) {
	m.maybeSweep(ctx)

	unlock := m.locks.Lock(conversationID)
	defer unlock()

	now := m.clock.Now()
	current, err := m.load(ctx, conversationID, now)
	if err != nil {
		return nil, ActionReprompt, err
	}

	next, action := NextSession(conversationID, current, slot, now, m.config.TTL)
	if action == ActionReprompt {
		return next, action, nil
	}

	if err := m.sessionRepo.Save(ctx, next); err != nil {
		return nil, ActionReprompt, fmt.Errorf("failed to save session: %w", err)
	}

	m.logger.Debug("Applied slot to session",
		"conversationId", conversationID,
		"slot", slot.Kind.String(),
		"state", next.State)

	return next.Clone(), action, nil
}

// SubmitDate fills or overwrites the date slot
func (m *SessionManager) SubmitDate(ctx context.Context, conversationID string, date entity.Date) (*entity.Session, error) {
	session, _, err := m.SubmitSlot(ctx, conversationID, entity.NewDateSlot(date))
	return session, err
}

// SubmitFlightCode fills or overwrites the flight code slot
func (m *SessionManager) SubmitFlightCode(ctx context.Context, conversationID string, flightCode string) (*entity.Session, error) {
	session, _, err := m.SubmitSlot(ctx, conversationID, entity.NewFlightCodeSlot(flightCode))
	return session, err
}

// SubmitSlots fills both slots in one read-modify-write, leaving the session
// complete.
func (m *SessionManager) SubmitSlots(ctx context.Context, conversationID string, date entity.Date, flightCode string) (*entity.Session, error) {
	m.maybeSweep(ctx)

	unlock := m.locks.Lock(conversationID)
	defer unlock()

	now := m.clock.Now()
	current, err := m.load(ctx, conversationID, now)
	if err != nil {
		return nil, err
	}

	next := CompleteSession(conversationID, current, date, flightCode, now, m.config.TTL)
	if err := m.sessionRepo.Save(ctx, next); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return next.Clone(), nil
}

// ConsumeIfComplete removes a complete session and returns its slots. Only
// one caller ever gets ok == true for a given completion.
func (m *SessionManager) ConsumeIfComplete(ctx context.Context, conversationID string) (entity.Date, string, bool, error) {
	unlock := m.locks.Lock(conversationID)
	defer unlock()

	session, err := m.load(ctx, conversationID, m.clock.Now())
	if err != nil {
		return entity.Date{}, "", false, err
	}
	if session == nil || session.State != entity.StateComplete || !session.HasDate() || !session.HasFlightCode() {
		return entity.Date{}, "", false, nil
	}

	if err := m.sessionRepo.Delete(ctx, conversationID); err != nil {
		return entity.Date{}, "", false, fmt.Errorf("failed to delete completed session: %w", err)
	}

	if m.metrics != nil {
		m.metrics.SessionsCompleted.Inc()
	}
	m.logger.Info("Search session completed",
		"conversationId", conversationID,
		"flightNumber", session.FlightCodeSlot,
		"date", session.DateSlot.String())

	return *session.DateSlot, session.FlightCodeSlot, true, nil
}

// Reset drops the conversation's session, if any
func (m *SessionManager) Reset(ctx context.Context, conversationID string) error {
	unlock := m.locks.Lock(conversationID)
	defer unlock()

	if err := m.sessionRepo.Delete(ctx, conversationID); err != nil {
		return fmt.Errorf("failed to reset session: %w", err)
	}
	return nil
}

// SweepExpired deletes every expired session and returns how many went.
// The count is whatever the store reports: Redis expires keys on its own
// and always reports 0, so the count is not a measure of expired sessions.
func (m *SessionManager) SweepExpired(ctx context.Context) (int, error) {
	now := m.clock.Now()
	count, err := m.sessionRepo.DeleteExpired(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep expired sessions: %w", err)
	}

	m.sweepMu.Lock()
	m.lastSweep = now
	m.sweepMu.Unlock()

	if count > 0 {
		if m.metrics != nil {
			m.metrics.SessionsExpired.Add(float64(count))
		}
		m.logger.Info("Swept expired sessions", "count", count)
	}
	return count, nil
}

func (m *SessionManager) maybeSweep(ctx context.Context) {
	if m.config.SweepInterval <= 0 {
		return
	}

	now := m.clock.Now()
	m.sweepMu.Lock()
	due := now.Sub(m.lastSweep) >= m.config.SweepInterval
	if due {
		m.lastSweep = now
	}
	m.sweepMu.Unlock()

	if !due {
		return
	}
	if _, err := m.SweepExpired(ctx); err != nil {
		m.logger.Warn("Opportunistic session sweep failed", "error", err)
	}
}

// load reads a session under the caller's lock. Missing and expired
// sessions both come back as nil; expired ones are deleted first.
func (m *SessionManager) load(ctx context.Context, conversationID string, now time.Time) (*entity.Session, error) {
	session, err := m.sessionRepo.Find(ctx, conversationID)
	if errors.Is(err, entity.ErrSessionNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find session: %w", err)
	}

	if session.ExpiredAt(now) {
		if err := m.sessionRepo.Delete(ctx, conversationID); err != nil {
			return nil, fmt.Errorf("failed to delete expired session: %w", err)
		}
		if m.metrics != nil {
			m.metrics.SessionsExpired.Inc()
		}
		m.logger.Debug("Dropped expired session",
			"conversationId", conversationID,
			"expiresAt", session.ExpiresAt)
		return nil, nil
	}

	return session, nil
}
