package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Attendance event types.
const (
	EventClockIn  = "clock-in"
	EventClockOut = "clock-out"
)

// Attendance classification statuses.
const (
	StatusOnTime   = "on-time"
	StatusLate     = "late"
	StatusEarly    = "early"
	StatusOvertime = "overtime"
)

// AttendanceEvent is one accepted check-in or check-out. Rows are append-only
// and never mutated after creation. The composite unique index enforces at
// most one event of each type per employee per calendar day at the database
// level, backing up the composer's duplicate check.
type AttendanceEvent struct {
	ID                  uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	EmployeeID          uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:idx_event_per_day,priority:1" json:"employeeId"`
	EventType           string    `gorm:"size:20;not null;uniqueIndex:idx_event_per_day,priority:2" json:"eventType"`
	EventDate           string    `gorm:"size:10;not null;uniqueIndex:idx_event_per_day,priority:3" json:"eventDate"`
	Timestamp           time.Time `gorm:"not null" json:"timestamp"`
	Latitude            float64   `gorm:"not null" json:"latitude"`
	Longitude           float64   `gorm:"not null" json:"longitude"`
	DistanceMeters      float64   `gorm:"not null" json:"distanceMeters"`
	WithinRadius        bool      `gorm:"not null" json:"withinRadius"`
	Similarity          *float64  `json:"similarity,omitempty"`
	ConfidenceTier      *string   `gorm:"size:10" json:"confidenceTier,omitempty"`
	PinVerified         *bool     `json:"pinVerified,omitempty"`
	Status              string    `gorm:"size:20;not null" json:"status"`
	LateMinutes         *int      `json:"lateMinutes,omitempty"`
	EarlyMinutes        *int      `json:"earlyMinutes,omitempty"`
	OvertimeMinutes     *int      `json:"overtimeMinutes,omitempty"`
	WorkDurationMinutes *int      `json:"workDurationMinutes,omitempty"`
	CreatedAt           time.Time `json:"createdAt"`
}

func (e *AttendanceEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
