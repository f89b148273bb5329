package db

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/akarpenko/tempo/internal/errs"
	"github.com/akarpenko/tempo/internal/models"
)

// selectionCap bounds each category list before the planner merges them.
const selectionCap = 10

// Selection holds the categorized candidate lists the daily-plan selector
// merges: unfinished session chains plus the urgent, important and oldest
// scheduled tasks. Each list is independently ranked and capped.
type Selection struct {
	IncompleteChains []ChainSummary
	Urgent           []models.ScheduledTask
	Important        []models.ScheduledTask
	Oldest           []models.ScheduledTask
}

// ChainSummary is one unfinished chain reduced to its resumable latest
// member, annotated with whole-chain aggregates. The aggregates are
// computed on read, never persisted.
type ChainSummary struct {
	Latest       models.Session
	SessionCount int
	TotalMinutes int
}

// CreateTask inserts the task and attaches the given tags.
func (s *Store) CreateTask(task *models.ScheduledTask, tags []string) error {
	if err := s.db.Create(task).Error; err != nil {
		return errs.Persist(err, "insert scheduled task")
	}
	if err := s.InsertTaskTags(task.ID, tags); err != nil {
		return err
	}
	task.Tags = taskTagRows(task.ID, dedupTags(tags))
	return nil
}

// UpdateTask applies a partial field update. An empty field map is a no-op.
func (s *Store) UpdateTask(id uint, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	res := s.db.Model(&models.ScheduledTask{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return errs.Persist(res.Error, "update scheduled task %d", id)
	}
	return nil
}

// TaskByID returns the task with its tags, or nil if absent.
func (s *Store) TaskByID(id uint) (*models.ScheduledTask, error) {
	var task models.ScheduledTask
	err := s.db.Preload("Tags").First(&task, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.Persist(err, "get scheduled task %d", id)
	}
	return &task, nil
}

// AllTasks returns every pending task, oldest first.
func (s *Store) AllTasks() ([]models.ScheduledTask, error) {
	var tasks []models.ScheduledTask
	err := s.db.Preload("Tags").Order("created_at ASC").Find(&tasks).Error
	if err != nil {
		return nil, errs.Persist(err, "get scheduled tasks")
	}
	return tasks, nil
}

// DeleteTask removes the task and its tags in one transaction.
func (s *Store) DeleteTask(id uint) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&models.TaskTag{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.ScheduledTask{}, id).Error
	})
	if err != nil {
		return errs.Persist(err, "delete scheduled task %d", id)
	}
	return nil
}

// InsertTaskTags attaches tags to a task, deduplicating within the call.
func (s *Store) InsertTaskTags(id uint, tags []string) error {
	rows := taskTagRows(id, dedupTags(tags))
	if len(rows) == 0 {
		return nil
	}
	err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
	if err != nil {
		return errs.Persist(err, "insert tags for task %d", id)
	}
	return nil
}

// TaskTags returns the task's tags in store order.
func (s *Store) TaskTags(id uint) ([]string, error) {
	var rows []models.TaskTag
	err := s.db.Where("task_id = ?", id).Order("tag ASC").Find(&rows).Error
	if err != nil {
		return nil, errs.Persist(err, "get tags for task %d", id)
	}
	tags := make([]string, 0, len(rows))
	for _, row := range rows {
		tags = append(tags, row.Tag)
	}
	return tags, nil
}

// ReplaceTaskTags atomically swaps the task's tag set.
func (s *Store) ReplaceTaskTags(id uint, tags []string) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&models.TaskTag{}).Error; err != nil {
			return err
		}
		rows := taskTagRows(id, dedupTags(tags))
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return errs.Persist(err, "replace tags for task %d", id)
	}
	return nil
}

// TasksForSelection gathers the categorized candidate lists for the daily
// plan as of now: unfinished chains newest first, tasks due by the end of
// the current calendar day, explicitly prioritized tasks, and the FIFO
// backlog. Every list is capped at selectionCap.
func (s *Store) TasksForSelection(now time.Time) (*Selection, error) {
	sel := &Selection{}

	chains, err := s.IncompleteChains()
	if err != nil {
		return nil, err
	}
	for _, chain := range chains {
		root := chain[0]
		if root.ParentSessionID != nil {
			continue
		}
		latest := chain[len(chain)-1]
		sel.IncompleteChains = append(sel.IncompleteChains, ChainSummary{
			Latest:       latest,
			SessionCount: len(chain),
			TotalMinutes: ChainMinutes(chain, now),
		})
		if len(sel.IncompleteChains) == selectionCap {
			break
		}
	}

	dayEnd := startOfDay(now).AddDate(0, 0, 1)
	err = s.db.Preload("Tags").
		Where("scheduled_at IS NOT NULL AND scheduled_at < ?", dayEnd).
		Order("scheduled_at ASC").
		Limit(selectionCap).
		Find(&sel.Urgent).Error
	if err != nil {
		return nil, errs.Persist(err, "get urgent tasks")
	}

	err = s.db.Preload("Tags").
		Where("priority <> ?", models.DefaultPriority).
		Order("priority ASC, created_at ASC").
		Limit(selectionCap).
		Find(&sel.Important).Error
	if err != nil {
		return nil, errs.Persist(err, "get important tasks")
	}

	err = s.db.Preload("Tags").
		Order("created_at ASC").
		Limit(selectionCap).
		Find(&sel.Oldest).Error
	if err != nil {
		return nil, errs.Persist(err, "get oldest tasks")
	}

	return sel, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func taskTagRows(id uint, tags []string) []models.TaskTag {
	rows := make([]models.TaskTag, 0, len(tags))
	for _, tag := range tags {
		rows = append(rows, models.TaskTag{TaskID: id, Tag: tag})
	}
	return rows
}
