package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	CalendarActionCreate = "create"
	CalendarActionDelete = "delete"

	CalendarIntentPending = "pending"
	CalendarIntentDone    = "done"
	CalendarIntentFailed  = "failed"
	CalendarIntentSkipped = "skipped"
)

// CalendarIntent is an outbox row describing a calendar side effect that a
// background worker executes after the primary write has committed.
type CalendarIntent struct {
	ID        string         `gorm:"primaryKey"`
	JobID     uint           `gorm:"not null;index"`
	Action    string         `gorm:"not null"`
	Payload   datatypes.JSON `gorm:"not null"`
	Status    string         `gorm:"not null;index"`
	Attempts  int            `gorm:"not null"`
	LastError string
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time
}

type CalendarEventPayload struct {
	CalendarID  string    `json:"calendar_id"`
	Summary     string    `json:"summary,omitempty"`
	Description string    `json:"description,omitempty"`
	Start       time.Time `json:"start,omitempty"`
	End         time.Time `json:"end,omitempty"`
	TimeZone    string    `json:"time_zone,omitempty"`
	EventID     string    `json:"event_id,omitempty"`
}
