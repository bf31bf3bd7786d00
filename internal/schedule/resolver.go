// Package schedule resolves attendance submissions against a weekly work
// schedule: work-day membership, acceptance windows, and the resulting
// on-time/late/early/overtime classification.
package schedule

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/nandashakira23-blip/api-presensi-sub000/internal/models"
)

var (
	// ErrNoSchedule and ErrNotAWorkDay are soft outcomes: callers should
	// render them as "no schedule assigned" / "rest day", not as failures.
	ErrNoSchedule  = errors.New("no work schedule assigned")
	ErrNotAWorkDay = errors.New("not a work day")

	// ErrOutsideWindow rejects a submission outside the acceptance window
	// for its event type, regardless of the nominal shift times.
	ErrOutsideWindow = errors.New("outside acceptance window")
)

type ClockInResult struct {
	Status      string
	LateMinutes int
}

type ClockOutResult struct {
	Status              string
	EarlyMinutes        int
	OvertimeMinutes     int
	WorkDurationMinutes int
}

// Resolver evaluates schedules in one fixed organizational timezone. Client
// device timezones are never consulted.
type Resolver struct {
	Location *time.Location
}

func NewResolver(loc *time.Location) *Resolver {
	if loc == nil {
		loc = time.UTC
	}
	return &Resolver{Location: loc}
}

// ClockIn checks the clock-in acceptance window and classifies lateness
// against the nominal shift start plus tolerance.
func (r *Resolver) ClockIn(sched *models.WorkSchedule, now time.Time) (ClockInResult, error) {
	minute, err := r.localMinute(sched, now)
	if err != nil {
		return ClockInResult{}, err
	}

	windowStart, windowEnd, err := window(sched.ClockInStart, sched.ClockInEnd)
	if err != nil {
		return ClockInResult{}, err
	}
	if minute < windowStart || minute > windowEnd {
		return ClockInResult{}, ErrOutsideWindow
	}

	nominalStart, err := parseClock(sched.StartTime)
	if err != nil {
		return ClockInResult{}, fmt.Errorf("schedule %s: %w", sched.Name, err)
	}

	late := minute - nominalStart - sched.LateToleranceMinutes
	if late < 0 {
		late = 0
	}
	status := models.StatusOnTime
	if late > 0 {
		status = models.StatusLate
	}
	return ClockInResult{Status: status, LateMinutes: late}, nil
}

// ClockOut checks the clock-out acceptance window and computes early-leave,
// capped overtime, and the worked duration since clockInAt. A break window
// fully contained in the worked interval is deducted from the duration.
func (r *Resolver) ClockOut(sched *models.WorkSchedule, now time.Time, clockInAt time.Time) (ClockOutResult, error) {
	minute, err := r.localMinute(sched, now)
	if err != nil {
		return ClockOutResult{}, err
	}

	windowStart, windowEnd, err := window(sched.ClockOutStart, sched.ClockOutEnd)
	if err != nil {
		return ClockOutResult{}, err
	}
	if minute < windowStart || minute > windowEnd {
		return ClockOutResult{}, ErrOutsideWindow
	}

	nominalEnd, err := parseClock(sched.EndTime)
	if err != nil {
		return ClockOutResult{}, fmt.Errorf("schedule %s: %w", sched.Name, err)
	}

	early := nominalEnd - minute
	if early < 0 {
		early = 0
	}
	overtime := minute - nominalEnd
	if overtime < 0 {
		overtime = 0
	}
	if sched.OvertimeCapMinutes > 0 && overtime > sched.OvertimeCapMinutes {
		overtime = sched.OvertimeCapMinutes
	}

	duration := int(now.Sub(clockInAt).Minutes())
	if duration < 0 {
		duration = 0
	}
	duration -= r.containedBreakMinutes(sched, clockInAt, now)
	if duration < 0 {
		duration = 0
	}

	status := models.StatusOnTime
	switch {
	case overtime > 0:
		status = models.StatusOvertime
	case early > 0:
		status = models.StatusEarly
	}

	return ClockOutResult{
		Status:              status,
		EarlyMinutes:        early,
		OvertimeMinutes:     overtime,
		WorkDurationMinutes: duration,
	}, nil
}

// localMinute validates the schedule and work-day membership and returns the
// submission time as minutes since midnight in the organizational timezone.
func (r *Resolver) localMinute(sched *models.WorkSchedule, now time.Time) (int, error) {
	if sched == nil {
		return 0, ErrNoSchedule
	}
	local := now.In(r.Location)
	if !sched.WorkDaySet()[local.Weekday()] {
		return 0, ErrNotAWorkDay
	}
	return local.Hour()*60 + local.Minute(), nil
}

// containedBreakMinutes returns the break window length when the whole window
// falls inside the worked interval, else 0.
func (r *Resolver) containedBreakMinutes(sched *models.WorkSchedule, clockInAt, now time.Time) int {
	if sched.BreakStart == "" || sched.BreakEnd == "" {
		return 0
	}
	breakStart, err := parseClock(sched.BreakStart)
	if err != nil {
		return 0
	}
	breakEnd, err := parseClock(sched.BreakEnd)
	if err != nil || breakEnd <= breakStart {
		return 0
	}

	inLocal := clockInAt.In(r.Location)
	outLocal := now.In(r.Location)
	inMinute := inLocal.Hour()*60 + inLocal.Minute()
	outMinute := outLocal.Hour()*60 + outLocal.Minute()
	if breakStart >= inMinute && breakEnd <= outMinute {
		return breakEnd - breakStart
	}
	return 0
}

func window(start, end string) (int, int, error) {
	windowStart, err := parseClock(start)
	if err != nil {
		return 0, 0, err
	}
	windowEnd, err := parseClock(end)
	if err != nil {
		return 0, 0, err
	}
	return windowStart, windowEnd, nil
}

// parseClock parses "15:04" into minutes since midnight.
func parseClock(value string) (int, error) {
	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid clock value %q", value)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid clock value %q", value)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid clock value %q", value)
	}
	return hour*60 + minute, nil
}
