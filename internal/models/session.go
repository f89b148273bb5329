package models

import (
	"time"
)

// SessionState is the lifecycle state of a tracked work session.
type SessionState string

const (
	StateWorking   SessionState = "working"
	StatePaused    SessionState = "paused"
	StateCompleted SessionState = "completed"
	StateAbandoned SessionState = "abandoned"
)

// Terminal reports whether no further lifecycle transitions are allowed.
func (s SessionState) Terminal() bool {
	return s == StateCompleted || s == StateAbandoned
}

// Session represents one tracked span of work
type Session struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Description     string       `gorm:"not null" json:"description"`
	Project         string       `json:"project"`
	State           SessionState `gorm:"not null;default:working" json:"state"`
	StartedAt       time.Time    `gorm:"not null" json:"started_at"`
	EndedAt         *time.Time   `json:"ended_at"` // nil means still open
	EstimateMinutes *int         `json:"estimate_minutes"`
	DurationMinutes *int         `json:"duration_minutes"` // explicit override, else derived from timestamps
	Remark          string       `json:"remark"`

	// ParentSessionID records an interruption; ContinuesSessionID is the
	// resume link and always points at the chain root, never at an
	// intermediate continuation.
	ParentSessionID    *uint `json:"parent_session_id"`
	ContinuesSessionID *uint `json:"continues_session_id"`

	// Relationships
	Parent    *Session     `gorm:"foreignKey:ParentSessionID;constraint:OnDelete:SET NULL" json:"-"`
	Continues *Session     `gorm:"foreignKey:ContinuesSessionID;constraint:OnDelete:SET NULL" json:"-"`
	Tags      []SessionTag `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE" json:"tags"`
}

// SessionTag is a tag association for one session
type SessionTag struct {
	SessionID uint   `gorm:"primaryKey" json:"session_id"`
	Tag       string `gorm:"primaryKey" json:"tag"`
}

// Open reports whether the session is still being tracked.
func (s *Session) Open() bool {
	return s.EndedAt == nil
}

// TagNames returns the tag strings in store order.
func (s *Session) TagNames() []string {
	names := make([]string, 0, len(s.Tags))
	for _, t := range s.Tags {
		names = append(names, t.Tag)
	}
	return names
}

// Minutes returns the session's tracked duration in whole minutes. The
// explicit override wins; otherwise the duration is derived from the
// timestamps, using now for a still-open session.
func (s *Session) Minutes(now time.Time) int {
	if s.DurationMinutes != nil {
		return *s.DurationMinutes
	}
	end := now
	if s.EndedAt != nil {
		end = *s.EndedAt
	}
	return int(end.Sub(s.StartedAt).Round(time.Minute) / time.Minute)
}
