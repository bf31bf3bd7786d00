package attendance

// Reason codes surfaced on a Decision. Exactly one applies per submission:
// the composer stops at the first failing check and never aggregates reasons.
const (
	ReasonAccepted = "accepted"

	// Soft schedule outcomes, rendered as informational rather than errors.
	ReasonNotAWorkDay        = "not_a_work_day"
	ReasonNoScheduleAssigned = "no_schedule_assigned"

	ReasonOutsideWindow          = "outside_window"
	ReasonDuplicateEvent         = "duplicate_event"
	ReasonNotClockedIn           = "not_clocked_in"
	ReasonOutOfRange             = "out_of_range"
	ReasonInvalidLocation        = "invalid_location"
	ReasonPinRequired            = "pin_required"
	ReasonPinLocked              = "pin_locked"
	ReasonPinIncorrect           = "pin_incorrect"
	ReasonNoFaceDetected         = "no_face_detected"
	ReasonNoReferenceEnrolled    = "no_reference_enrolled"
	ReasonNoMatch                = "no_match"
	ReasonMultipleFacesAmbiguous = "multiple_faces_ambiguous"
	ReasonEmployeeInactive       = "employee_inactive"

	// ReasonDetectionTimeout is retryable and must never be conflated with
	// no_face_detected: the detector did not answer, nothing was evaluated.
	ReasonDetectionTimeout = "detection_timeout"
)

// Decision is the terminal outcome of one attendance submission. Either
// Accepted with a classification, or rejected with the first failing reason.
type Decision struct {
	Accepted             bool     `json:"accepted"`
	ReasonCode           string   `json:"reasonCode"`
	Status               string   `json:"status,omitempty"`
	DistanceMeters       *float64 `json:"distanceMeters,omitempty"`
	Similarity           *float64 `json:"similarity,omitempty"`
	ConfidenceTier       *string  `json:"confidenceTier,omitempty"`
	LateMinutes          *int     `json:"lateMinutes,omitempty"`
	EarlyMinutes         *int     `json:"earlyMinutes,omitempty"`
	OvertimeMinutes      *int     `json:"overtimeMinutes,omitempty"`
	WorkDurationMinutes  *int     `json:"workDurationMinutes,omitempty"`
	RemainingLockSeconds int      `json:"remainingLockSeconds,omitempty"`
	Retryable            bool     `json:"retryable,omitempty"`
}

func rejected(reason string) Decision {
	return Decision{Accepted: false, ReasonCode: reason}
}
