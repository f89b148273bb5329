package db

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/akarpenko/tempo/internal/errs"
	"github.com/akarpenko/tempo/internal/models"
)

// SessionFilter narrows a time-range query. Zero values mean "any".
type SessionFilter struct {
	Project string
	Tags    []string
	State   models.SessionState
}

// CreateSession inserts the session and attaches the given tags. The tag
// insert runs after the session insert; a tag failure leaves the session
// in place without tags (tags are supplementary, not identity-bearing).
func (s *Store) CreateSession(sess *models.Session, tags []string) error {
	if err := s.db.Create(sess).Error; err != nil {
		return errs.Persist(err, "insert session")
	}
	if err := s.InsertSessionTags(sess.ID, tags); err != nil {
		return err
	}
	sess.Tags = sessionTagRows(sess.ID, dedupTags(tags))
	return nil
}

// UpdateSession applies a partial field update. An empty field map is a
// no-op.
func (s *Store) UpdateSession(id uint, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	res := s.db.Model(&models.Session{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return errs.Persist(res.Error, "update session %d", id)
	}
	return nil
}

// SessionByID returns the session with its tags, or nil if absent.
func (s *Store) SessionByID(id uint) (*models.Session, error) {
	var sess models.Session
	err := s.db.Preload("Tags").First(&sess, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.Persist(err, "get session %d", id)
	}
	return &sess, nil
}

// ActiveSession returns the single open working session, or nil if none.
func (s *Store) ActiveSession() (*models.Session, error) {
	var sess models.Session
	err := s.db.Preload("Tags").
		Where("state = ? AND ended_at IS NULL", models.StateWorking).
		First(&sess).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.Persist(err, "get active session")
	}
	return &sess, nil
}

// OpenSessions returns every session without an end time, oldest first.
func (s *Store) OpenSessions() ([]models.Session, error) {
	var sessions []models.Session
	err := s.db.Preload("Tags").
		Where("ended_at IS NULL").
		Order("started_at ASC").
		Find(&sessions).Error
	if err != nil {
		return nil, errs.Persist(err, "get open sessions")
	}
	return sessions, nil
}

// SessionsByTimeRange returns sessions started within [start, end),
// ordered by start time ascending, optionally filtered.
func (s *Store) SessionsByTimeRange(start, end time.Time, filter SessionFilter) ([]models.Session, error) {
	q := s.db.Preload("Tags").
		Where("started_at >= ? AND started_at < ?", start, end)

	if filter.Project != "" {
		q = q.Where("project = ?", filter.Project)
	}
	if filter.State != "" {
		q = q.Where("state = ?", filter.State)
	}
	if len(filter.Tags) > 0 {
		q = q.Where("id IN (?)", s.db.Model(&models.SessionTag{}).
			Select("session_id").
			Where("tag IN ?", filter.Tags))
	}

	var sessions []models.Session
	if err := q.Order("started_at ASC").Find(&sessions).Error; err != nil {
		return nil, errs.Persist(err, "get sessions by time range")
	}
	return sessions, nil
}

// FindPausedToResume returns the most recently started paused session
// matching the given filters, or nil. primaryTag matches against whatever
// tag the store orders first for the session.
func (s *Store) FindPausedToResume(description, project, primaryTag string) (*models.Session, error) {
	q := s.db.Preload("Tags").
		Where("state = ?", models.StatePaused).
		Order("started_at DESC")

	if description != "" {
		q = q.Where("description = ?", description)
	}
	if project != "" {
		q = q.Where("project = ?", project)
	}

	var sessions []models.Session
	if err := q.Find(&sessions).Error; err != nil {
		return nil, errs.Persist(err, "find paused session")
	}

	for i := range sessions {
		if primaryTag != "" {
			tags := sessions[i].TagNames()
			if len(tags) == 0 || tags[0] != primaryTag {
				continue
			}
		}
		return &sessions[i], nil
	}
	return nil, nil
}

// DeleteSession removes the session and its tags in one transaction. This
// is a hard delete that bypasses the lifecycle state machine.
func (s *Store) DeleteSession(id uint) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", id).Delete(&models.SessionTag{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Session{}, id).Error
	})
	if err != nil {
		return errs.Persist(err, "delete session %d", id)
	}
	return nil
}

// InsertSessionTags attaches tags to a session, deduplicating within the
// call. An empty list is a no-op.
func (s *Store) InsertSessionTags(id uint, tags []string) error {
	rows := sessionTagRows(id, dedupTags(tags))
	if len(rows) == 0 {
		return nil
	}
	err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
	if err != nil {
		return errs.Persist(err, "insert tags for session %d", id)
	}
	return nil
}

// SessionTags returns the session's tags in store order.
func (s *Store) SessionTags(id uint) ([]string, error) {
	var rows []models.SessionTag
	err := s.db.Where("session_id = ?", id).Order("tag ASC").Find(&rows).Error
	if err != nil {
		return nil, errs.Persist(err, "get tags for session %d", id)
	}
	tags := make([]string, 0, len(rows))
	for _, row := range rows {
		tags = append(tags, row.Tag)
	}
	return tags, nil
}

// ReplaceSessionTags atomically swaps the session's tag set.
func (s *Store) ReplaceSessionTags(id uint, tags []string) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", id).Delete(&models.SessionTag{}).Error; err != nil {
			return err
		}
		rows := sessionTagRows(id, dedupTags(tags))
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return errs.Persist(err, "replace tags for session %d", id)
	}
	return nil
}

func sessionTagRows(id uint, tags []string) []models.SessionTag {
	rows := make([]models.SessionTag, 0, len(tags))
	for _, tag := range tags {
		rows = append(rows, models.SessionTag{SessionID: id, Tag: tag})
	}
	return rows
}

// dedupTags trims, drops empties and removes duplicates while keeping
// first-seen order
func dedupTags(tags []string) []string {
	seen := make(map[string]struct{})
	result := make([]string, 0, len(tags))
	for _, tag := range tags {
		trimmed := strings.TrimSpace(tag)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		result = append(result, trimmed)
	}
	return result
}
