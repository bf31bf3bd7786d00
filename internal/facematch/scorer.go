package facematch

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/nandashakira23-blip/api-presensi-sub000/internal/models"
)

var (
	ErrNoFaceDetected      = errors.New("no face detected")
	ErrNoReferenceEnrolled = errors.New("no face reference enrolled")
)

// Audit outcomes written by the scorer.
const (
	auditOutcomeMatch   = "match"
	auditOutcomeNoMatch = "no_match"
)

// AuditSink receives one record per detected face per attempt, win or lose.
type AuditSink interface {
	RecordAudit(ctx context.Context, rec *models.AuditRecord) error
}

// MatchResult is the best reference score for one detected face.
type MatchResult struct {
	Similarity     float64
	ConfidenceTier string
	IsMatch        bool
	ReferenceID    uuid.UUID
	Face           Face
}

// Outcome is the scoring result for all detected faces in one submission.
type Outcome struct {
	Results               []MatchResult
	MultipleFacesDetected bool
}

// Best returns the highest-similarity result. Only valid when Results is
// non-empty, which Score guarantees on success.
func (o Outcome) Best() MatchResult {
	best := o.Results[0]
	for _, result := range o.Results[1:] {
		if result.Similarity > best.Similarity {
			best = result
		}
	}
	return best
}

// Ambiguous reports whether two or more distinct detected faces both meet the
// match threshold. The composer policy in that case is to ask for a retake.
func (o Outcome) Ambiguous() bool {
	matches := 0
	for _, result := range o.Results {
		if result.IsMatch {
			matches++
		}
	}
	return matches > 1
}

// Scorer evaluates detected faces against an employee's active references
// using the configured matcher strategy.
type Scorer struct {
	cfg     Config
	matcher Matcher
	audit   AuditSink
}

func NewScorer(cfg Config, audit AuditSink) *Scorer {
	return &Scorer{cfg: cfg, matcher: NewMatcher(cfg), audit: audit}
}

// Score compares every detected face against every active reference and keeps
// the best reference per face. A match is inclusive at the threshold. Audit
// write failures do not fail the scoring; the attendance decision must not
// depend on the audit trail being writable.
func (s *Scorer) Score(ctx context.Context, employeeID uuid.UUID, faces []Face, references []models.FaceReference) (Outcome, error) {
	if len(faces) == 0 {
		return Outcome{}, ErrNoFaceDetected
	}

	descriptors := make([]struct {
		id         uuid.UUID
		descriptor Descriptor
	}, 0, len(references))
	for _, ref := range references {
		decoded, err := DecodeDescriptor(ref.Descriptor)
		if err != nil {
			continue
		}
		descriptors = append(descriptors, struct {
			id         uuid.UUID
			descriptor Descriptor
		}{ref.ID, decoded})
	}
	if len(descriptors) == 0 {
		return Outcome{}, ErrNoReferenceEnrolled
	}

	outcome := Outcome{
		Results:               make([]MatchResult, 0, len(faces)),
		MultipleFacesDetected: len(faces) > 1,
	}
	for _, face := range faces {
		result := MatchResult{Face: face}
		for _, ref := range descriptors {
			similarity, ok := s.matcher.Score(face.Descriptor, ref.descriptor)
			if !ok {
				continue
			}
			if similarity > result.Similarity || result.ReferenceID == uuid.Nil {
				result.Similarity = similarity
				result.ReferenceID = ref.id
			}
		}
		result.IsMatch = result.Similarity >= s.cfg.Threshold
		result.ConfidenceTier = s.cfg.TierFor(result.Similarity)
		outcome.Results = append(outcome.Results, result)

		auditOutcome := auditOutcomeNoMatch
		if result.IsMatch {
			auditOutcome = auditOutcomeMatch
		}
		similarity := result.Similarity
		_ = s.audit.RecordAudit(ctx, &models.AuditRecord{
			EmployeeID: employeeID,
			Method:     models.AuditMethodFace,
			Outcome:    auditOutcome,
			Similarity: &similarity,
		})
	}
	return outcome, nil
}
