package models

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WorkSchedule holds one shift definition. Times are "15:04" strings in the
// organizational timezone. The clock-in/out acceptance windows are configured
// independently of the nominal shift and may be narrower than it.
type WorkSchedule struct {
	ID                   uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	Name                 string    `gorm:"size:120;not null" json:"name"`
	StartTime            string    `gorm:"size:5;not null" json:"startTime"`
	EndTime              string    `gorm:"size:5;not null" json:"endTime"`
	ClockInStart         string    `gorm:"size:5;not null" json:"clockInStart"`
	ClockInEnd           string    `gorm:"size:5;not null" json:"clockInEnd"`
	ClockOutStart        string    `gorm:"size:5;not null" json:"clockOutStart"`
	ClockOutEnd          string    `gorm:"size:5;not null" json:"clockOutEnd"`
	BreakStart           string    `gorm:"size:5" json:"breakStart,omitempty"`
	BreakEnd             string    `gorm:"size:5" json:"breakEnd,omitempty"`
	LateToleranceMinutes int       `gorm:"not null;default:0" json:"lateToleranceMinutes"`
	OvertimeCapMinutes   int       `gorm:"not null;default:0" json:"overtimeCapMinutes"`
	// WorkDays is a comma-separated list of time.Weekday numbers, e.g. "1,2,3,4,5".
	WorkDays  string    `gorm:"size:20;not null" json:"workDays"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (s *WorkSchedule) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// WorkDaySet parses WorkDays into a weekday membership set. Malformed entries
// are skipped.
func (s *WorkSchedule) WorkDaySet() map[time.Weekday]bool {
	set := make(map[time.Weekday]bool)
	for _, part := range strings.Split(s.WorkDays, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		day, err := strconv.Atoi(part)
		if err != nil || day < 0 || day > 6 {
			continue
		}
		set[time.Weekday(day)] = true
	}
	return set
}
