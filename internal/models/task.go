package models

import (
	"time"
)

// DefaultPriority is the priority assigned when none is given. Priorities
// run 1 (most important) through 9; a task at the default is treated as
// unprioritized by the daily-plan selector.
const DefaultPriority = 5

// ScheduledTask represents a planned work item that has not been started
type ScheduledTask struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Description     string     `gorm:"not null" json:"description"`
	Project         string     `json:"project"`
	EstimateMinutes *int       `json:"estimate_minutes"`
	Priority        int        `gorm:"default:5" json:"priority"`
	ScheduledAt     *time.Time `json:"scheduled_at"` // nil means no deadline

	// Relationships
	Tags []TaskTag `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"tags"`
}

// TaskTag is a tag association for one scheduled task
type TaskTag struct {
	TaskID uint   `gorm:"primaryKey" json:"task_id"`
	Tag    string `gorm:"primaryKey" json:"tag"`
}

// TagNames returns the tag strings in store order.
func (t *ScheduledTask) TagNames() []string {
	names := make([]string, 0, len(t.Tags))
	for _, tag := range t.Tags {
		names = append(names, tag.Tag)
	}
	return names
}
