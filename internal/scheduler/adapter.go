// Package scheduler exposes the planning surface in the shape an external
// task-scheduling client expects: daily plan retrieval plus task lookup,
// creation, removal and completion addressed by a single id space covering
// both scheduled tasks and resumable sessions.
package scheduler

import (
	"time"

	"github.com/akarpenko/tempo/internal/planner"
)

// TaskScheduler is the outward contract. Adapter is the real
// implementation; tests may substitute their own.
type TaskScheduler interface {
	DailyPlan(date time.Time, opts PlanOptions) (*planner.Plan, error)
	Task(id uint) (*planner.PlanItem, error)
	AddTask(req AddTaskRequest) (*planner.PlanItem, error)
	RemoveTask(id uint) error
	CompleteTask(req CompleteTaskRequest) error
	Available() bool
}

// PlanOptions tunes a daily-plan request.
type PlanOptions struct {
	Limit int `json:"limit,omitempty"`
}

// AddTaskRequest describes a task to schedule.
type AddTaskRequest struct {
	Description     string     `json:"description"`
	Project         string     `json:"project,omitempty"`
	Tags            []string   `json:"tags,omitempty"`
	EstimateMinutes *int       `json:"estimate_minutes,omitempty"`
	Priority        int        `json:"priority,omitempty"`
	ScheduledAt     *time.Time `json:"scheduled_at,omitempty"`
}

// CompleteTaskRequest marks a task done.
type CompleteTaskRequest struct {
	TaskID        uint      `json:"task_id"`
	CompletedAt   time.Time `json:"completed_at"`
	ActualMinutes *int      `json:"actual_minutes,omitempty"`
}

// Adapter implements TaskScheduler over the planner.
type Adapter struct {
	planner *planner.Selector
}

func NewAdapter(sel *planner.Selector) *Adapter {
	return &Adapter{planner: sel}
}

func (a *Adapter) DailyPlan(date time.Time, opts PlanOptions) (*planner.Plan, error) {
	return a.planner.DailyPlan(date, opts.Limit)
}

func (a *Adapter) Task(id uint) (*planner.PlanItem, error) {
	return a.planner.GetTask(id)
}

func (a *Adapter) AddTask(req AddTaskRequest) (*planner.PlanItem, error) {
	task, err := a.planner.AddTask(planner.AddTaskInput{
		Description:     req.Description,
		Project:         req.Project,
		Tags:            req.Tags,
		EstimateMinutes: req.EstimateMinutes,
		Priority:        req.Priority,
		ScheduledAt:     req.ScheduledAt,
	})
	if err != nil {
		return nil, err
	}
	return a.planner.GetTask(task.ID)
}

func (a *Adapter) RemoveTask(id uint) error {
	return a.planner.RemoveTask(id)
}

func (a *Adapter) CompleteTask(req CompleteTaskRequest) error {
	return a.planner.CompleteTask(req.TaskID, req.CompletedAt, req.ActualMinutes)
}

// Available always reports true: the store is local, there is no external
// dependency to probe.
func (a *Adapter) Available() bool {
	return true
}
