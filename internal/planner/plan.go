package planner

import (
	"time"
)

// DayMinutes is the nominal workday used to compute remaining capacity.
const DayMinutes = 480

// DefaultPlanLimit caps the daily plan when the caller gives no limit.
const DefaultPlanLimit = 20

// ItemKind distinguishes the two entity kinds a plan item can represent.
type ItemKind string

const (
	KindSession ItemKind = "session"
	KindTask    ItemKind = "task"
)

// PlanItem is one entry of a daily plan. For a chain entry the ID is the
// chain's latest (resumable) session and the chain fields carry aggregates
// over the whole chain; both are projections computed on read.
type PlanItem struct {
	Kind            ItemKind   `json:"kind"`
	ID              uint       `json:"id"`
	Description     string     `json:"description"`
	Project         string     `json:"project,omitempty"`
	Priority        int        `json:"priority"`
	EstimateMinutes *int       `json:"estimate_minutes,omitempty"`
	ScheduledAt     *time.Time `json:"scheduled_at,omitempty"`
	Tags            []string   `json:"tags,omitempty"`

	ChainMinutes  int `json:"chain_minutes,omitempty"`
	ChainSessions int `json:"chain_sessions,omitempty"`
}

// Plan is a ranked, deduplicated daily plan.
type Plan struct {
	Date             time.Time  `json:"date"`
	Items            []PlanItem `json:"items"`
	TotalMinutes     int        `json:"total_minutes"`
	RemainingMinutes int        `json:"remaining_minutes"`
}

type planKey struct {
	kind ItemKind
	id   uint
}
