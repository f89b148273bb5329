package db

import (
	"sort"
	"time"

	"github.com/akarpenko/tempo/internal/errs"
	"github.com/akarpenko/tempo/internal/models"
)

// Chain queries. A chain is a root session plus every session created to
// resume it. Chains are flat: a continuation always links straight to the
// root, so resolving one costs at most two lookups, never a traversal.

// ChainRoot returns the root of the chain containing the given session,
// or nil if the session does not exist.
func (s *Store) ChainRoot(id uint) (*models.Session, error) {
	sess, err := s.SessionByID(id)
	if err != nil || sess == nil {
		return sess, err
	}
	if sess.ContinuesSessionID == nil {
		return sess, nil
	}
	return s.SessionByID(*sess.ContinuesSessionID)
}

// ContinuationChain returns the full chain containing the given session:
// the root first, then every continuation, ordered by ascending start
// time. The result is empty if the root cannot be resolved.
func (s *Store) ContinuationChain(id uint) ([]models.Session, error) {
	root, err := s.ChainRoot(id)
	if err != nil || root == nil {
		return nil, err
	}

	var members []models.Session
	err = s.db.Preload("Tags").
		Where("continues_session_id = ?", root.ID).
		Order("started_at ASC").
		Find(&members).Error
	if err != nil {
		return nil, errs.Persist(err, "get continuation chain for session %d", root.ID)
	}

	return append([]models.Session{*root}, members...), nil
}

// ChainTotalMinutes returns the chain's aggregate tracked time as of now.
func (s *Store) ChainTotalMinutes(id uint, now time.Time) (int, error) {
	chain, err := s.ContinuationChain(id)
	if err != nil {
		return 0, err
	}
	return ChainMinutes(chain, now), nil
}

// IncompleteChains returns every chain whose most recently started member
// is still paused or working, most recently started first. Each chain is
// ordered root first, then continuations by ascending start time.
func (s *Store) IncompleteChains() ([][]models.Session, error) {
	var open []models.Session
	err := s.db.
		Where("state IN ?", []models.SessionState{models.StatePaused, models.StateWorking}).
		Find(&open).Error
	if err != nil {
		return nil, errs.Persist(err, "get incomplete sessions")
	}

	rootIDs := make(map[uint]struct{})
	for _, sess := range open {
		if sess.ContinuesSessionID != nil {
			rootIDs[*sess.ContinuesSessionID] = struct{}{}
		} else {
			rootIDs[sess.ID] = struct{}{}
		}
	}

	var chains [][]models.Session
	for rootID := range rootIDs {
		chain, err := s.ContinuationChain(rootID)
		if err != nil {
			return nil, err
		}
		if len(chain) == 0 {
			continue
		}
		if latest := latestMember(chain); latest.State.Terminal() {
			continue
		}
		chains = append(chains, chain)
	}

	sort.Slice(chains, func(i, j int) bool {
		return latestMember(chains[i]).StartedAt.After(latestMember(chains[j]).StartedAt)
	})
	return chains, nil
}

// ChainMinutes sums the tracked time of the chain members in whole
// minutes: closed sessions contribute end minus start, a working member
// contributes now minus start. The sum is rounded once, at the end.
func ChainMinutes(chain []models.Session, now time.Time) int {
	var total time.Duration
	for i := range chain {
		sess := &chain[i]
		if sess.DurationMinutes != nil {
			total += time.Duration(*sess.DurationMinutes) * time.Minute
			continue
		}
		end := now
		if sess.EndedAt != nil {
			end = *sess.EndedAt
		}
		total += end.Sub(sess.StartedAt)
	}
	return int(total.Round(time.Minute) / time.Minute)
}

// latestMember returns the chain member with the greatest start time.
func latestMember(chain []models.Session) models.Session {
	latest := chain[0]
	for _, sess := range chain[1:] {
		if sess.StartedAt.After(latest.StartedAt) {
			latest = sess
		}
	}
	return latest
}
