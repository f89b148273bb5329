package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akarpenko/tempo/internal/models"
)

// buildChain inserts a root plus continuations, all linked flat to the
// root, returning the inserted sessions in creation order.
func buildChain(t *testing.T, store *Store, states []models.SessionState, base time.Time) []*models.Session {
	t.Helper()

	root := &models.Session{
		Description: "chained work",
		State:       states[0],
		StartedAt:   base,
	}
	if states[0] != models.StateWorking {
		root.EndedAt = timePtr(base.Add(30 * time.Minute))
	}
	require.NoError(t, store.CreateSession(root, nil))

	sessions := []*models.Session{root}
	for i, state := range states[1:] {
		started := base.Add(time.Duration(i+1) * time.Hour)
		sess := &models.Session{
			Description:        "chained work",
			State:              state,
			StartedAt:          started,
			ContinuesSessionID: &root.ID,
		}
		if state != models.StateWorking {
			sess.EndedAt = timePtr(started.Add(30 * time.Minute))
		}
		require.NoError(t, store.CreateSession(sess, nil))
		sessions = append(sessions, sess)
	}
	return sessions
}

func TestChainRootOfRootIsItself(t *testing.T) {
	store := newTestStore(t)
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	chain := buildChain(t, store, []models.SessionState{models.StatePaused}, base)

	root, err := store.ChainRoot(chain[0].ID)
	require.NoError(t, err)
	require.NotNil(t, root)
	assert.Equal(t, chain[0].ID, root.ID)
}

func TestChainRootOfContinuation(t *testing.T) {
	store := newTestStore(t)
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	chain := buildChain(t, store,
		[]models.SessionState{models.StatePaused, models.StatePaused, models.StatePaused}, base)

	// Every continuation resolves to the root in one extra lookup
	for _, sess := range chain[1:] {
		root, err := store.ChainRoot(sess.ID)
		require.NoError(t, err)
		require.NotNil(t, root)
		assert.Equal(t, chain[0].ID, root.ID)
	}
}

func TestChainRootAbsentSession(t *testing.T) {
	store := newTestStore(t)

	root, err := store.ChainRoot(404)
	require.NoError(t, err)
	assert.Nil(t, root)
}

func TestContinuationChainOrderAndMembership(t *testing.T) {
	store := newTestStore(t)
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	chain := buildChain(t, store,
		[]models.SessionState{models.StatePaused, models.StatePaused, models.StateWorking}, base)

	// Unrelated session must not leak in
	require.NoError(t, store.CreateSession(&models.Session{
		Description: "unrelated", State: models.StateWorking, StartedAt: base,
	}, nil))

	// Resolvable from any member, root always first, ascending start
	for _, entry := range chain {
		resolved, err := store.ContinuationChain(entry.ID)
		require.NoError(t, err)
		require.Len(t, resolved, 3)
		assert.Equal(t, chain[0].ID, resolved[0].ID)
		assert.Equal(t, chain[1].ID, resolved[1].ID)
		assert.Equal(t, chain[2].ID, resolved[2].ID)
	}

	resolved, err := store.ContinuationChain(12345)
	require.NoError(t, err)
	assert.Empty(t, resolved)
}

func TestChainMinutesSingleClosedSession(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	chain := []models.Session{{
		State:     models.StateCompleted,
		StartedAt: start,
		EndedAt:   timePtr(start.Add(30 * time.Minute)),
	}}

	assert.Equal(t, 30, ChainMinutes(chain, start.Add(5*time.Hour)))
}

func TestChainMinutesMixesClosedOpenAndOverride(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	now := start.Add(4 * time.Hour)
	chain := []models.Session{
		{ // closed, 30m
			State:     models.StatePaused,
			StartedAt: start,
			EndedAt:   timePtr(start.Add(30 * time.Minute)),
		},
		{ // explicit override wins over timestamps
			State:           models.StateCompleted,
			StartedAt:       start.Add(time.Hour),
			EndedAt:         timePtr(start.Add(3 * time.Hour)),
			DurationMinutes: intPtr(45),
		},
		{ // still working, counted up to now: 60m
			State:     models.StateWorking,
			StartedAt: start.Add(3 * time.Hour),
		},
	}

	assert.Equal(t, 30+45+60, ChainMinutes(chain, now))
}

func TestChainMinutesRoundsOnce(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	chain := []models.Session{
		{State: models.StatePaused, StartedAt: start, EndedAt: timePtr(start.Add(10*time.Minute + 20*time.Second))},
		{State: models.StatePaused, StartedAt: start, EndedAt: timePtr(start.Add(10*time.Minute + 20*time.Second))},
	}

	// 20m40s rounds to 21, not 10+10
	assert.Equal(t, 21, ChainMinutes(chain, start))
}

func TestChainTotalMinutesFromAnyMember(t *testing.T) {
	store := newTestStore(t)
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	chain := buildChain(t, store,
		[]models.SessionState{models.StatePaused, models.StatePaused}, base)

	total, err := store.ChainTotalMinutes(chain[1].ID, base.Add(6*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 60, total) // two closed 30m spans
}

func TestIncompleteChains(t *testing.T) {
	store := newTestStore(t)
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	// Latest member paused: incomplete
	pausedChain := buildChain(t, store,
		[]models.SessionState{models.StatePaused, models.StatePaused}, base)

	// Latest member completed: finished business even though the root is
	// paused
	finishedChain := buildChain(t, store,
		[]models.SessionState{models.StatePaused, models.StateCompleted}, base.Add(10*time.Hour))

	// Standalone completed session: not a candidate at all
	ended := base.Add(21 * time.Hour)
	require.NoError(t, store.CreateSession(&models.Session{
		Description: "done", State: models.StateCompleted,
		StartedAt: base.Add(20 * time.Hour), EndedAt: &ended,
	}, nil))

	chains, err := store.IncompleteChains()
	require.NoError(t, err)
	require.Len(t, chains, 1)
	assert.Equal(t, pausedChain[0].ID, chains[0][0].ID)
	assert.Len(t, chains[0], 2)

	_ = finishedChain
}

func TestIncompleteChainsOrderedByLatestStart(t *testing.T) {
	store := newTestStore(t)
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	early := buildChain(t, store, []models.SessionState{models.StatePaused}, base)
	late := buildChain(t, store, []models.SessionState{models.StatePaused}, base.Add(5*time.Hour))

	chains, err := store.IncompleteChains()
	require.NoError(t, err)
	require.Len(t, chains, 2)
	assert.Equal(t, late[0].ID, chains[0][0].ID)
	assert.Equal(t, early[0].ID, chains[1][0].ID)
}
