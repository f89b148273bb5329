// Package tracker drives the session lifecycle state machine and enforces
// the single-active-session invariant: at most one session is working and
// open at any time. Resuming paused work forks a new session into the same
// chain rather than reopening the old one.
package tracker

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/akarpenko/tempo/internal/db"
	"github.com/akarpenko/tempo/internal/errs"
	"github.com/akarpenko/tempo/internal/models"
)

// Manager owns no state of its own; every operation reads fresh from the
// store and writes back through it.
type Manager struct {
	store *db.Store
	log   *logrus.Entry
	now   func() time.Time
}

func New(store *db.Store) *Manager {
	return &Manager{
		store: store,
		log:   logrus.WithField("component", "tracker"),
		now:   time.Now,
	}
}

// StartOptions describes a session to start. Zero-value optionals fall
// back to defaults: StartedAt to now, tags to none.
type StartOptions struct {
	Description     string
	Project         string
	Tags            []string
	EstimateMinutes *int
	StartedAt       *time.Time

	// PauseActive pauses an already-active session instead of failing,
	// setting its end time to the new session's start time.
	PauseActive bool

	ContinuesSessionID *uint
	ParentSessionID    *uint
}

// StartResult is the outcome of Start: the created session and, when an
// active session was auto-paused, that session too.
type StartResult struct {
	Started *models.Session
	Paused  *models.Session
}

// Start begins tracking a new session. If a session is already active it
// fails with a validation error unless opts.PauseActive is set.
func (m *Manager) Start(opts StartOptions) (*StartResult, error) {
	active, err := m.store.ActiveSession()
	if err != nil {
		return nil, err
	}

	startedAt := m.now()
	if opts.StartedAt != nil {
		startedAt = *opts.StartedAt
	}

	result := &StartResult{}
	if active != nil {
		if !opts.PauseActive {
			return nil, errs.Validationf(
				"session %d (%s) is already active; stop or pause it first",
				active.ID, active.Description)
		}
		if err := m.store.UpdateSession(active.ID, map[string]any{
			"state":    models.StatePaused,
			"ended_at": startedAt,
		}); err != nil {
			return nil, err
		}
		paused, err := m.store.SessionByID(active.ID)
		if err != nil {
			return nil, err
		}
		result.Paused = paused
	}

	sess := &models.Session{
		Description:        opts.Description,
		Project:            opts.Project,
		State:              models.StateWorking,
		StartedAt:          startedAt,
		EstimateMinutes:    opts.EstimateMinutes,
		ContinuesSessionID: opts.ContinuesSessionID,
		ParentSessionID:    opts.ParentSessionID,
	}
	if err := m.store.CreateSession(sess, opts.Tags); err != nil {
		return nil, err
	}

	m.log.WithFields(logrus.Fields{"session": sess.ID, "description": sess.Description}).
		Debug("session started")
	result.Started = sess
	return result, nil
}

// Stop completes the active session. Fails with a validation error if no
// session is active.
func (m *Manager) Stop(endedAt *time.Time, remark string, durationMinutes *int) (*models.Session, error) {
	active, err := m.store.ActiveSession()
	if err != nil {
		return nil, err
	}
	if active == nil {
		return nil, errs.Validationf("no active session to stop")
	}

	end := m.now()
	if endedAt != nil {
		end = *endedAt
	}

	fields := map[string]any{
		"state":    models.StateCompleted,
		"ended_at": end,
	}
	if remark != "" {
		fields["remark"] = remark
	}
	if durationMinutes != nil {
		fields["duration_minutes"] = *durationMinutes
	}
	if err := m.store.UpdateSession(active.ID, fields); err != nil {
		return nil, err
	}

	m.log.WithField("session", active.ID).Debug("session stopped")
	return m.store.SessionByID(active.ID)
}

// Pause closes the active session as resumable. It does not create a new
// session; resuming later is what grows the chain.
func (m *Manager) Pause(endedAt *time.Time) (*models.Session, error) {
	active, err := m.store.ActiveSession()
	if err != nil {
		return nil, err
	}
	if active == nil {
		return nil, errs.Validationf("no active session to pause")
	}

	end := m.now()
	if endedAt != nil {
		end = *endedAt
	}
	if err := m.store.UpdateSession(active.ID, map[string]any{
		"state":    models.StatePaused,
		"ended_at": end,
	}); err != nil {
		return nil, err
	}

	m.log.WithField("session", active.ID).Debug("session paused")
	return m.store.SessionByID(active.ID)
}

// Resume starts a new session continuing a paused one. The new session
// copies the target's description, project, tags and estimate, and links
// to the resolved chain root so chains stay flat even when resuming a
// session that is itself a continuation. Any currently active session is
// paused first.
func (m *Manager) Resume(id uint, startedAt *time.Time) (*StartResult, error) {
	target, err := m.store.SessionByID(id)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, errs.NotFoundf("session %d not found", id)
	}
	if target.State != models.StatePaused {
		return nil, errs.Validationf("session %d is %s, only paused sessions can be resumed",
			id, target.State)
	}

	root, err := m.store.ChainRoot(id)
	if err != nil {
		return nil, err
	}
	if root == nil {
		return nil, errs.NotFoundf("chain root for session %d not found", id)
	}

	return m.Start(StartOptions{
		Description:        target.Description,
		Project:            target.Project,
		Tags:               target.TagNames(),
		EstimateMinutes:    target.EstimateMinutes,
		StartedAt:          startedAt,
		PauseActive:        true,
		ContinuesSessionID: &root.ID,
	})
}

// Abandon discards a session. Terminal sessions cannot be abandoned; an
// existing end time is preserved, otherwise it is set to now.
func (m *Manager) Abandon(id uint) (*models.Session, error) {
	sess, err := m.store.SessionByID(id)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, errs.NotFoundf("session %d not found", id)
	}
	if sess.State.Terminal() {
		return nil, errs.Validationf("session %d is already %s", id, sess.State)
	}

	fields := map[string]any{"state": models.StateAbandoned}
	if sess.EndedAt == nil {
		fields["ended_at"] = m.now()
	}
	if err := m.store.UpdateSession(id, fields); err != nil {
		return nil, err
	}

	m.log.WithField("session", id).Debug("session abandoned")
	return m.store.SessionByID(id)
}

// Active returns the single open working session, or nil.
func (m *Manager) Active() (*models.Session, error) {
	return m.store.ActiveSession()
}
