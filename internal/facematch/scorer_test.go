package facematch_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/nandashakira23-blip/api-presensi-sub000/internal/facematch"
	"github.com/nandashakira23-blip/api-presensi-sub000/internal/models"
)

type auditRecorder struct {
	records []models.AuditRecord
	err     error
}

func (r *auditRecorder) RecordAudit(_ context.Context, rec *models.AuditRecord) error {
	if r.err != nil {
		return r.err
	}
	r.records = append(r.records, *rec)
	return nil
}

func mustReference(t *testing.T, d facematch.Descriptor) models.FaceReference {
	t.Helper()
	raw, err := facematch.EncodeDescriptor(d)
	if err != nil {
		t.Fatalf("encode descriptor: %v", err)
	}
	return models.FaceReference{ID: uuid.New(), Descriptor: raw, IsActive: true}
}

func TestScorer_NoFaceDetected(t *testing.T) {
	scorer := facematch.NewScorer(facematch.DefaultConfig(), &auditRecorder{})
	_, err := scorer.Score(context.Background(), uuid.New(), nil, nil)
	if !errors.Is(err, facematch.ErrNoFaceDetected) {
		t.Fatalf("expected ErrNoFaceDetected, got %v", err)
	}
}

func TestScorer_NoReferenceEnrolled(t *testing.T) {
	scorer := facematch.NewScorer(facematch.DefaultConfig(), &auditRecorder{})
	faces := []facematch.Face{{Descriptor: facematch.Descriptor{Embedding: []float64{0.5}}}}

	_, err := scorer.Score(context.Background(), uuid.New(), faces, nil)
	if !errors.Is(err, facematch.ErrNoReferenceEnrolled) {
		t.Fatalf("expected ErrNoReferenceEnrolled for empty references, got %v", err)
	}

	// References whose payloads cannot be decoded count as not enrolled.
	broken := []models.FaceReference{{ID: uuid.New(), Descriptor: json.RawMessage(`{broken`), IsActive: true}}
	_, err = scorer.Score(context.Background(), uuid.New(), faces, broken)
	if !errors.Is(err, facematch.ErrNoReferenceEnrolled) {
		t.Fatalf("expected ErrNoReferenceEnrolled for undecodable references, got %v", err)
	}
}

func TestScorer_ThresholdIsInclusive(t *testing.T) {
	cfg := facematch.DefaultConfig()
	cfg.Strategy = facematch.StrategyEmbedding
	cfg.Threshold = 0.5
	cfg.MediumBand = 0.5

	scorer := facematch.NewScorer(cfg, &auditRecorder{})

	// Distance 0.5 from the reference yields exactly the threshold similarity.
	reference := mustReference(t, facematch.Descriptor{Embedding: []float64{0, 0}})
	faces := []facematch.Face{{Descriptor: facematch.Descriptor{Embedding: []float64{0.5, 0}}}}

	outcome, err := scorer.Score(context.Background(), uuid.New(), faces, []models.FaceReference{reference})
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	best := outcome.Best()
	if best.Similarity != 0.5 {
		t.Fatalf("expected similarity 0.5, got %v", best.Similarity)
	}
	if !best.IsMatch {
		t.Error("a score exactly at the threshold must match")
	}
	if best.ConfidenceTier != facematch.TierMedium {
		t.Errorf("expected medium tier at the threshold, got %q", best.ConfidenceTier)
	}
}

func TestScorer_PicksBestReferencePerFace(t *testing.T) {
	cfg := facematch.DefaultConfig()
	cfg.Strategy = facematch.StrategyEmbedding
	scorer := facematch.NewScorer(cfg, &auditRecorder{})

	far := mustReference(t, facematch.Descriptor{Embedding: []float64{1, 1}})
	near := mustReference(t, facematch.Descriptor{Embedding: []float64{0.1, 0}})
	faces := []facematch.Face{{Descriptor: facematch.Descriptor{Embedding: []float64{0.1, 0}}}}

	outcome, err := scorer.Score(context.Background(), uuid.New(), faces, []models.FaceReference{far, near})
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	best := outcome.Best()
	if best.ReferenceID != near.ID {
		t.Errorf("expected the nearer reference to win, got %v", best.ReferenceID)
	}
	if best.Similarity != 1.0 {
		t.Errorf("expected similarity 1.0 against the identical reference, got %v", best.Similarity)
	}
}

func TestScorer_MultipleFacesAndAmbiguity(t *testing.T) {
	cfg := facematch.DefaultConfig()
	cfg.Strategy = facematch.StrategyEmbedding
	scorer := facematch.NewScorer(cfg, &auditRecorder{})

	reference := mustReference(t, facematch.Descriptor{Embedding: []float64{0, 0}})
	faces := []facematch.Face{
		{Descriptor: facematch.Descriptor{Embedding: []float64{0, 0}}},
		{Descriptor: facematch.Descriptor{Embedding: []float64{0.05, 0}}},
	}

	outcome, err := scorer.Score(context.Background(), uuid.New(), faces, []models.FaceReference{reference})
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if !outcome.MultipleFacesDetected {
		t.Error("expected MultipleFacesDetected for two faces")
	}
	if !outcome.Ambiguous() {
		t.Error("expected ambiguity when two faces both meet the threshold")
	}

	// One strong face plus a stranger is not ambiguous.
	faces[1] = facematch.Face{Descriptor: facematch.Descriptor{Embedding: []float64{5, 5}}}
	outcome, err = scorer.Score(context.Background(), uuid.New(), faces, []models.FaceReference{reference})
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if outcome.Ambiguous() {
		t.Error("a single qualifying face should not be ambiguous")
	}
}

func TestScorer_AuditsEveryFace(t *testing.T) {
	cfg := facematch.DefaultConfig()
	cfg.Strategy = facematch.StrategyEmbedding
	audit := &auditRecorder{}
	scorer := facematch.NewScorer(cfg, audit)

	employeeID := uuid.New()
	reference := mustReference(t, facematch.Descriptor{Embedding: []float64{0, 0}})
	faces := []facematch.Face{
		{Descriptor: facematch.Descriptor{Embedding: []float64{0, 0}}},
		{Descriptor: facematch.Descriptor{Embedding: []float64{5, 5}}},
	}

	if _, err := scorer.Score(context.Background(), employeeID, faces, []models.FaceReference{reference}); err != nil {
		t.Fatalf("score: %v", err)
	}
	if len(audit.records) != 2 {
		t.Fatalf("expected one audit record per face, got %d", len(audit.records))
	}
	if audit.records[0].Outcome != "match" || audit.records[1].Outcome != "no_match" {
		t.Errorf("unexpected audit outcomes: %q, %q", audit.records[0].Outcome, audit.records[1].Outcome)
	}
	for _, rec := range audit.records {
		if rec.EmployeeID != employeeID {
			t.Errorf("audit record bound to %v, want %v", rec.EmployeeID, employeeID)
		}
		if rec.Method != models.AuditMethodFace {
			t.Errorf("audit method %q, want %q", rec.Method, models.AuditMethodFace)
		}
		if rec.Similarity == nil {
			t.Error("audit record missing similarity")
		}
	}
}

func TestScorer_AuditFailureDoesNotFailScoring(t *testing.T) {
	cfg := facematch.DefaultConfig()
	cfg.Strategy = facematch.StrategyEmbedding
	scorer := facematch.NewScorer(cfg, &auditRecorder{err: errors.New("audit store down")})

	reference := mustReference(t, facematch.Descriptor{Embedding: []float64{0, 0}})
	faces := []facematch.Face{{Descriptor: facematch.Descriptor{Embedding: []float64{0, 0}}}}

	outcome, err := scorer.Score(context.Background(), uuid.New(), faces, []models.FaceReference{reference})
	if err != nil {
		t.Fatalf("audit failure must not fail scoring: %v", err)
	}
	if !outcome.Best().IsMatch {
		t.Error("expected match despite audit failure")
	}
}
