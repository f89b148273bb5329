// Package planner builds the bounded daily plan and exposes the task
// operations layered over both entity kinds: a "task" is a scheduled task
// when one exists under the id, otherwise a resumable session.
package planner

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/akarpenko/tempo/internal/db"
	"github.com/akarpenko/tempo/internal/errs"
	"github.com/akarpenko/tempo/internal/models"
)

type Selector struct {
	store *db.Store
	log   *logrus.Entry
}

func New(store *db.Store) *Selector {
	return &Selector{
		store: store,
		log:   logrus.WithField("component", "planner"),
	}
}

// DailyPlan merges four candidate sources into one ranked plan: unfinished
// chains, then urgent tasks, then explicitly prioritized tasks, then the
// oldest backlog. The precedence is a fixed category order with caps per
// category, not a weighted score. Items are deduplicated by kind and id;
// the merge stops at limit (DefaultPlanLimit when limit <= 0).
func (s *Selector) DailyPlan(date time.Time, limit int) (*Plan, error) {
	if limit <= 0 {
		limit = DefaultPlanLimit
	}

	sel, err := s.store.TasksForSelection(date)
	if err != nil {
		return nil, err
	}

	plan := &Plan{Date: date}
	seen := make(map[planKey]struct{})

	add := func(item PlanItem) {
		if len(plan.Items) >= limit {
			return
		}
		key := planKey{kind: item.Kind, id: item.ID}
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		plan.Items = append(plan.Items, item)
	}

	for _, chain := range sel.IncompleteChains {
		add(chainItem(chain))
	}
	for _, task := range sel.Urgent {
		add(taskItem(task))
	}
	for _, task := range sel.Important {
		add(taskItem(task))
	}
	for _, task := range sel.Oldest {
		add(taskItem(task))
	}

	for _, item := range plan.Items {
		if item.EstimateMinutes != nil {
			plan.TotalMinutes += *item.EstimateMinutes
		}
	}
	plan.RemainingMinutes = DayMinutes - plan.TotalMinutes
	if plan.RemainingMinutes < 0 {
		plan.RemainingMinutes = 0
	}

	s.log.WithFields(logrus.Fields{"items": len(plan.Items), "minutes": plan.TotalMinutes}).
		Debug("daily plan built")
	return plan, nil
}

// AddTaskInput describes a scheduled task to create.
type AddTaskInput struct {
	Description     string
	Project         string
	Tags            []string
	EstimateMinutes *int
	Priority        int // 0 means default
	ScheduledAt     *time.Time
}

// AddTask creates a scheduled task. Priority defaults to 5 and must stay
// within 1 through 9.
func (s *Selector) AddTask(input AddTaskInput) (*models.ScheduledTask, error) {
	if input.Description == "" {
		return nil, errs.Validationf("task description is required")
	}
	priority := input.Priority
	if priority == 0 {
		priority = models.DefaultPriority
	}
	if priority < 1 || priority > 9 {
		return nil, errs.Validationf("priority %d is out of range, use 1-9", priority)
	}

	task := &models.ScheduledTask{
		Description:     input.Description,
		Project:         input.Project,
		EstimateMinutes: input.EstimateMinutes,
		Priority:        priority,
		ScheduledAt:     input.ScheduledAt,
	}
	if err := s.store.CreateTask(task, input.Tags); err != nil {
		return nil, err
	}
	return task, nil
}

// GetTask resolves an id to a plan item: a scheduled task if one exists,
// otherwise a paused or working session. Completed and abandoned sessions
// are not addressable tasks.
func (s *Selector) GetTask(id uint) (*PlanItem, error) {
	task, err := s.store.TaskByID(id)
	if err != nil {
		return nil, err
	}
	if task != nil {
		item := taskItem(*task)
		return &item, nil
	}

	sess, err := s.store.SessionByID(id)
	if err != nil {
		return nil, err
	}
	if sess == nil || sess.State.Terminal() {
		return nil, errs.NotFoundf("task %d not found", id)
	}
	item := sessionItem(*sess)
	return &item, nil
}

// RemoveTask deletes a scheduled task, or failing that hard-deletes the
// session with the given id, bypassing the lifecycle state machine.
func (s *Selector) RemoveTask(id uint) error {
	task, err := s.store.TaskByID(id)
	if err != nil {
		return err
	}
	if task != nil {
		return s.store.DeleteTask(id)
	}

	sess, err := s.store.SessionByID(id)
	if err != nil {
		return err
	}
	if sess == nil {
		return errs.NotFoundf("task %d not found", id)
	}
	return s.store.DeleteSession(id)
}

// CompleteTask finishes a task: a scheduled task is deleted, a paused or
// working session transitions to completed with the given end time.
// actualMinutes is accepted for the caller's bookkeeping but not stored;
// session duration is derived from its timestamps.
func (s *Selector) CompleteTask(id uint, completedAt time.Time, actualMinutes *int) error {
	_ = actualMinutes

	task, err := s.store.TaskByID(id)
	if err != nil {
		return err
	}
	if task != nil {
		return s.store.DeleteTask(id)
	}

	sess, err := s.store.SessionByID(id)
	if err != nil {
		return err
	}
	if sess == nil || sess.State.Terminal() {
		return errs.NotFoundf("task %d not found", id)
	}
	return s.store.UpdateSession(id, map[string]any{
		"state":    models.StateCompleted,
		"ended_at": completedAt,
	})
}

func taskItem(task models.ScheduledTask) PlanItem {
	return PlanItem{
		Kind:            KindTask,
		ID:              task.ID,
		Description:     task.Description,
		Project:         task.Project,
		Priority:        task.Priority,
		EstimateMinutes: task.EstimateMinutes,
		ScheduledAt:     task.ScheduledAt,
		Tags:            task.TagNames(),
	}
}

func sessionItem(sess models.Session) PlanItem {
	return PlanItem{
		Kind:            KindSession,
		ID:              sess.ID,
		Description:     sess.Description,
		Project:         sess.Project,
		Priority:        1,
		EstimateMinutes: sess.EstimateMinutes,
		Tags:            sess.TagNames(),
	}
}

func chainItem(chain db.ChainSummary) PlanItem {
	item := sessionItem(chain.Latest)
	item.ChainMinutes = chain.TotalMinutes
	item.ChainSessions = chain.SessionCount
	return item
}
