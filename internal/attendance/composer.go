// Package attendance composes geofencing, schedule windows, PIN verification,
// and face matching into one atomic attendance decision.
package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nandashakira23-blip/api-presensi-sub000/internal/facematch"
	"github.com/nandashakira23-blip/api-presensi-sub000/internal/geo"
	"github.com/nandashakira23-blip/api-presensi-sub000/internal/models"
	"github.com/nandashakira23-blip/api-presensi-sub000/internal/pinauth"
	"github.com/nandashakira23-blip/api-presensi-sub000/internal/schedule"
	"github.com/nandashakira23-blip/api-presensi-sub000/internal/store"
)

// ErrEmployeeNotFound maps to a 404 at the transport layer.
var ErrEmployeeNotFound = errors.New("employee not found")

// Submission is one clock-in or clock-out request.
type Submission struct {
	EmployeeID uuid.UUID
	Photo      []byte
	Pin        string
	Latitude   float64
	Longitude  float64
	Now        time.Time
}

type Composer struct {
	store         store.Store
	detector      Detector
	resolver      *schedule.Resolver
	faceCfg       facematch.Config
	detectTimeout time.Duration
}

func NewComposer(st store.Store, detector Detector, loc *time.Location, faceCfg facematch.Config, detectTimeout time.Duration) *Composer {
	return &Composer{
		store:         st,
		detector:      detector,
		resolver:      schedule.NewResolver(loc),
		faceCfg:       faceCfg,
		detectTimeout: detectTimeout,
	}
}

func (c *Composer) SubmitClockIn(ctx context.Context, sub Submission) (Decision, error) {
	return c.submit(ctx, models.EventClockIn, sub)
}

func (c *Composer) SubmitClockOut(ctx context.Context, sub Submission) (Decision, error) {
	return c.submit(ctx, models.EventClockOut, sub)
}

// submit runs the fixed evaluation order: schedule window, duplicate event,
// geofence, PIN (when policy requires it), face match (when policy requires
// it). The first failing check wins. The external detector runs before the
// employee lock is taken so a slow model never holds a database row lock; all
// state mutations and the single event insert happen inside the lock, so no
// partial commit is observable.
func (c *Composer) submit(ctx context.Context, eventType string, sub Submission) (Decision, error) {
	office, err := c.store.GetOfficeLocation(ctx)
	if err != nil {
		return Decision{}, fmt.Errorf("load office location: %w", err)
	}

	emp, err := c.store.GetEmployee(ctx, sub.EmployeeID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Decision{}, ErrEmployeeNotFound
		}
		return Decision{}, fmt.Errorf("load employee: %w", err)
	}
	if !emp.IsActive {
		return c.reject(ctx, emp.ID, eventType, rejected(ReasonEmployeeInactive)), nil
	}

	// Detection happens up front, outside the employee lock. Scoring against
	// the enrolled references stays inside the lock where it is cheap.
	var faces []facematch.Face
	if office.RequiresFace() {
		faces, err = c.detect(ctx, sub.Photo)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				decision := rejected(ReasonDetectionTimeout)
				decision.Retryable = true
				return c.reject(ctx, emp.ID, eventType, decision), nil
			}
			// Caller cancellation or detector failure: nothing persisted,
			// safe to retry.
			return Decision{}, fmt.Errorf("face detection: %w", err)
		}
	}

	var decision Decision
	err = c.store.WithEmployeeLock(ctx, emp.ID, func(ctx context.Context, tx store.Store) error {
		decision, err = c.decide(ctx, tx, office, eventType, sub, faces)
		return err
	})
	if err != nil {
		return Decision{}, err
	}

	c.auditDecision(ctx, emp.ID, eventType, decision)
	return decision, nil
}

// decide runs all policy checks under the per-employee lock and inserts the
// event when everything passes.
func (c *Composer) decide(ctx context.Context, tx store.Store, office *models.OfficeLocation, eventType string, sub Submission, faces []facematch.Face) (Decision, error) {
	// Re-read inside the lock for fresh PIN state.
	emp, err := tx.GetEmployee(ctx, sub.EmployeeID)
	if err != nil {
		return Decision{}, fmt.Errorf("load employee: %w", err)
	}

	// 1. Schedule window.
	var clockIn schedule.ClockInResult
	var clockOut schedule.ClockOutResult
	var clockInEvent *models.AttendanceEvent
	eventDate := c.eventDate(sub.Now)

	if eventType == models.EventClockOut {
		clockInEvent, err = tx.FindEventForDay(ctx, emp.ID, models.EventClockIn, eventDate)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return Decision{}, fmt.Errorf("find clock-in: %w", err)
		}
	}

	switch eventType {
	case models.EventClockIn:
		clockIn, err = c.resolver.ClockIn(emp.Schedule, sub.Now)
	case models.EventClockOut:
		// Resolve against the submission time itself when no clock-in
		// exists yet, so rest-day and window rejections keep precedence
		// over the missing-clock-in one.
		clockInAt := sub.Now
		if clockInEvent != nil {
			clockInAt = clockInEvent.Timestamp
		}
		clockOut, err = c.resolver.ClockOut(emp.Schedule, sub.Now, clockInAt)
	}
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrNoSchedule):
			return rejected(ReasonNoScheduleAssigned), nil
		case errors.Is(err, schedule.ErrNotAWorkDay):
			return rejected(ReasonNotAWorkDay), nil
		case errors.Is(err, schedule.ErrOutsideWindow):
			return rejected(ReasonOutsideWindow), nil
		default:
			return Decision{}, fmt.Errorf("resolve schedule: %w", err)
		}
	}
	if eventType == models.EventClockOut && clockInEvent == nil {
		return rejected(ReasonNotClockedIn), nil
	}

	// 2. Duplicate event for today.
	if _, err := tx.FindEventForDay(ctx, emp.ID, eventType, eventDate); err == nil {
		return rejected(ReasonDuplicateEvent), nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return Decision{}, fmt.Errorf("duplicate check: %w", err)
	}

	// 3. Geofence.
	verdict, err := geo.Evaluate(
		geo.Point{Latitude: sub.Latitude, Longitude: sub.Longitude},
		geo.Point{Latitude: office.Latitude, Longitude: office.Longitude},
		office.RadiusMeters,
	)
	if err != nil {
		return rejected(ReasonInvalidLocation), nil
	}
	distance := verdict.DistanceMeters
	if !verdict.WithinRadius {
		decision := rejected(ReasonOutOfRange)
		decision.DistanceMeters = &distance
		return decision, nil
	}

	// 4. PIN, when the office policy requires it for this mode.
	var pinVerified *bool
	if office.RequiresPin() {
		if sub.Pin == "" {
			return rejected(ReasonPinRequired), nil
		}
		policy := pinauth.Policy{
			Required:       office.PinRequired,
			MaxAttempts:    office.PinMaxAttempts,
			LockoutMinutes: office.PinLockoutMinutes,
		}
		result, err := pinauth.Verify(ctx, tx, emp, sub.Pin, policy, sub.Now)
		if err != nil {
			return Decision{}, fmt.Errorf("verify pin: %w", err)
		}
		switch result.Outcome {
		case pinauth.OutcomeLocked:
			decision := rejected(ReasonPinLocked)
			decision.RemainingLockSeconds = result.RemainingLockSeconds
			return decision, nil
		case pinauth.OutcomeIncorrect:
			return rejected(ReasonPinIncorrect), nil
		}
		verified := true
		pinVerified = &verified
	}

	// 5. Face match, when the office policy requires it.
	var similarity *float64
	var confidenceTier *string
	if office.RequiresFace() {
		refs, err := tx.ActiveFaceReferences(ctx, emp.ID)
		if err != nil {
			return Decision{}, fmt.Errorf("load face references: %w", err)
		}
		scorer := facematch.NewScorer(c.faceCfg, tx)
		outcome, err := scorer.Score(ctx, emp.ID, faces, refs)
		if err != nil {
			switch {
			case errors.Is(err, facematch.ErrNoFaceDetected):
				return rejected(ReasonNoFaceDetected), nil
			case errors.Is(err, facematch.ErrNoReferenceEnrolled):
				return rejected(ReasonNoReferenceEnrolled), nil
			default:
				return Decision{}, fmt.Errorf("score faces: %w", err)
			}
		}
		if outcome.Ambiguous() {
			return rejected(ReasonMultipleFacesAmbiguous), nil
		}
		best := outcome.Best()
		bestSimilarity := best.Similarity
		bestTier := best.ConfidenceTier
		if !best.IsMatch {
			decision := rejected(ReasonNoMatch)
			decision.Similarity = &bestSimilarity
			decision.ConfidenceTier = &bestTier
			return decision, nil
		}
		similarity = &bestSimilarity
		confidenceTier = &bestTier
	}

	// All checks passed: persist exactly one event.
	event := &models.AttendanceEvent{
		EmployeeID:     emp.ID,
		EventType:      eventType,
		EventDate:      eventDate,
		Timestamp:      sub.Now,
		Latitude:       sub.Latitude,
		Longitude:      sub.Longitude,
		DistanceMeters: distance,
		WithinRadius:   true,
		Similarity:     similarity,
		ConfidenceTier: confidenceTier,
		PinVerified:    pinVerified,
	}

	decision := Decision{
		Accepted:       true,
		ReasonCode:     ReasonAccepted,
		DistanceMeters: &distance,
		Similarity:     similarity,
		ConfidenceTier: confidenceTier,
	}

	switch eventType {
	case models.EventClockIn:
		event.Status = clockIn.Status
		late := clockIn.LateMinutes
		event.LateMinutes = &late
		decision.Status = clockIn.Status
		decision.LateMinutes = &late
	case models.EventClockOut:
		event.Status = clockOut.Status
		early := clockOut.EarlyMinutes
		overtime := clockOut.OvertimeMinutes
		duration := clockOut.WorkDurationMinutes
		event.EarlyMinutes = &early
		event.OvertimeMinutes = &overtime
		event.WorkDurationMinutes = &duration
		decision.Status = clockOut.Status
		decision.EarlyMinutes = &early
		decision.OvertimeMinutes = &overtime
		decision.WorkDurationMinutes = &duration
	}

	if err := tx.CreateAttendanceEvent(ctx, event); err != nil {
		return Decision{}, fmt.Errorf("persist event: %w", err)
	}
	return decision, nil
}

// VerifyPin runs a standalone PIN check with full lockout semantics, under
// the same per-employee lock as submissions.
func (c *Composer) VerifyPin(ctx context.Context, employeeID uuid.UUID, pin string, now time.Time) (pinauth.Result, error) {
	office, err := c.store.GetOfficeLocation(ctx)
	if err != nil {
		return pinauth.Result{}, fmt.Errorf("load office location: %w", err)
	}
	policy := pinauth.Policy{
		Required:       office.PinRequired,
		MaxAttempts:    office.PinMaxAttempts,
		LockoutMinutes: office.PinLockoutMinutes,
	}

	var result pinauth.Result
	err = c.store.WithEmployeeLock(ctx, employeeID, func(ctx context.Context, tx store.Store) error {
		emp, err := tx.GetEmployee(ctx, employeeID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrEmployeeNotFound
			}
			return err
		}
		result, err = pinauth.Verify(ctx, tx, emp, pin, policy, now)
		return err
	})
	return result, err
}

// detect calls the external detector under a bounded timeout.
func (c *Composer) detect(ctx context.Context, photo []byte) ([]facematch.Face, error) {
	timeout := c.detectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	detectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	faces, err := c.detector.Detect(detectCtx, photo)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, context.DeadlineExceeded
		}
		return nil, err
	}
	return faces, nil
}

// reject audits a rejection that happened before the employee lock was taken.
func (c *Composer) reject(ctx context.Context, employeeID uuid.UUID, eventType string, decision Decision) Decision {
	c.auditDecision(ctx, employeeID, eventType, decision)
	return decision
}

// auditDecision writes the terminal-outcome audit row. Every submission,
// accepted or rejected, leaves at least this one trail entry. Write failures
// are deliberately swallowed: the decision already happened.
func (c *Composer) auditDecision(ctx context.Context, employeeID uuid.UUID, eventType string, decision Decision) {
	outcome := decision.ReasonCode
	_ = c.store.RecordAudit(ctx, &models.AuditRecord{
		EmployeeID: employeeID,
		Method:     models.AuditMethodDecision,
		Outcome:    outcome,
		Detail:     eventType,
		Similarity: decision.Similarity,
	})
}

// eventDate renders the calendar day in the organizational timezone.
func (c *Composer) eventDate(now time.Time) string {
	return now.In(c.resolver.Location).Format("2006-01-02")
}
