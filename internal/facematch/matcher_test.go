package facematch_test

import (
	"math"
	"testing"

	"github.com/nandashakira23-blip/api-presensi-sub000/internal/facematch"
)

func TestEmbeddingMatcher_Identical(t *testing.T) {
	matcher := facematch.EmbeddingMatcher{Scale: 1.0}
	d := facematch.Descriptor{Embedding: []float64{0.1, 0.2, 0.3}}
	similarity, ok := matcher.Score(d, d)
	if !ok {
		t.Fatal("expected embedding comparison to apply")
	}
	if similarity != 1.0 {
		t.Errorf("expected similarity 1.0 for identical embeddings, got %v", similarity)
	}
}

func TestEmbeddingMatcher_Distance(t *testing.T) {
	matcher := facematch.EmbeddingMatcher{Scale: 1.0}
	a := facematch.Descriptor{Embedding: []float64{0, 0, 0, 0}}
	b := facematch.Descriptor{Embedding: []float64{0.3, 0, 0.4, 0}}
	similarity, ok := matcher.Score(a, b)
	if !ok {
		t.Fatal("expected embedding comparison to apply")
	}
	// Euclidean distance is 0.5, so similarity is 1 - 0.5/1.0.
	if math.Abs(similarity-0.5) > 1e-9 {
		t.Errorf("expected 0.5, got %v", similarity)
	}
}

func TestEmbeddingMatcher_ClampsAtZero(t *testing.T) {
	matcher := facematch.EmbeddingMatcher{Scale: 1.0}
	a := facematch.Descriptor{Embedding: []float64{0, 0}}
	b := facematch.Descriptor{Embedding: []float64{3, 4}}
	similarity, ok := matcher.Score(a, b)
	if !ok {
		t.Fatal("expected embedding comparison to apply")
	}
	if similarity != 0 {
		t.Errorf("expected clamp at 0 for distance 5, got %v", similarity)
	}
}

func TestEmbeddingMatcher_RejectsMismatchedVectors(t *testing.T) {
	matcher := facematch.EmbeddingMatcher{Scale: 1.0}
	a := facematch.Descriptor{Embedding: []float64{1, 2}}
	b := facematch.Descriptor{Embedding: []float64{1, 2, 3}}
	if _, ok := matcher.Score(a, b); ok {
		t.Error("expected mismatched vector lengths to be unscorable")
	}
	if _, ok := matcher.Score(facematch.Descriptor{}, a); ok {
		t.Error("expected missing embedding to be unscorable")
	}
}

func TestGeometryMatcher_IdenticalDescriptors(t *testing.T) {
	matcher := facematch.GeometryMatcher{BoxWeight: 0.4, KeypointWeight: 0.6}
	d := facematch.Descriptor{
		Box: facematch.Rect{X: 10, Y: 10, Width: 100, Height: 120},
		Keypoints: []facematch.Keypoint{
			{Name: "left_eye", X: 40, Y: 50},
			{Name: "right_eye", X: 80, Y: 50},
			{Name: "nose", X: 60, Y: 80},
		},
	}
	similarity, ok := matcher.Score(d, d)
	if !ok {
		t.Fatal("expected geometry comparison to apply")
	}
	if similarity != 1.0 {
		t.Errorf("expected similarity 1.0 for identical geometry, got %v", similarity)
	}
}

func TestGeometryMatcher_KeypointsWeightedHigher(t *testing.T) {
	matcher := facematch.GeometryMatcher{BoxWeight: 0.4, KeypointWeight: 0.6}
	box := facematch.Rect{X: 0, Y: 0, Width: 100, Height: 100}

	// Same box, shifted keypoints: higher keypoint weight must pull the
	// blended score down harder than a pure box score would suggest.
	reference := facematch.Descriptor{
		Box:       box,
		Keypoints: []facematch.Keypoint{{Name: "nose", X: 50, Y: 50}},
	}
	detected := facematch.Descriptor{
		Box:       box,
		Keypoints: []facematch.Keypoint{{Name: "nose", X: 120, Y: 50}},
	}
	similarity, ok := matcher.Score(detected, reference)
	if !ok {
		t.Fatal("expected geometry comparison to apply")
	}
	// Box score is 1.0, keypoint score is 1 - 70/sqrt(20000) ~ 0.505.
	// Blend: 0.4*1.0 + 0.6*0.505 ~ 0.703, well below the plain box score.
	if similarity >= 0.9 {
		t.Errorf("expected keypoint drift to dominate, got %v", similarity)
	}
	if math.Abs(similarity-0.703) > 0.01 {
		t.Errorf("expected ~0.703, got %v", similarity)
	}
}

func TestGeometryMatcher_NoSharedKeypointsUsesBoxOnly(t *testing.T) {
	matcher := facematch.GeometryMatcher{BoxWeight: 0.4, KeypointWeight: 0.6}
	box := facematch.Rect{X: 0, Y: 0, Width: 100, Height: 100}
	reference := facematch.Descriptor{
		Box:       box,
		Keypoints: []facematch.Keypoint{{Name: "chin", X: 50, Y: 95}},
	}
	detected := facematch.Descriptor{
		Box:       box,
		Keypoints: []facematch.Keypoint{{Name: "nose", X: 50, Y: 50}},
	}
	similarity, ok := matcher.Score(detected, reference)
	if !ok {
		t.Fatal("expected geometry comparison to apply")
	}
	if similarity != 1.0 {
		t.Errorf("expected box-only score 1.0, got %v", similarity)
	}
}

func TestGeometryMatcher_DegenerateBoxUnscorable(t *testing.T) {
	matcher := facematch.GeometryMatcher{BoxWeight: 0.4, KeypointWeight: 0.6}
	good := facematch.Descriptor{Box: facematch.Rect{Width: 100, Height: 100}}
	flat := facematch.Descriptor{Box: facematch.Rect{Width: 0, Height: 100}}
	if _, ok := matcher.Score(flat, good); ok {
		t.Error("expected zero-width box to be unscorable")
	}
}

func TestAutoMatcher_PrefersEmbeddingFallsBackToGeometry(t *testing.T) {
	matcher := facematch.NewMatcher(facematch.DefaultConfig())

	withEmbedding := facematch.Descriptor{
		Box:       facematch.Rect{Width: 100, Height: 100},
		Embedding: []float64{0.5, 0.5},
	}
	similarity, ok := matcher.Score(withEmbedding, withEmbedding)
	if !ok || similarity != 1.0 {
		t.Errorf("expected embedding path to score 1.0, got %v ok=%v", similarity, ok)
	}

	geometryOnly := facematch.Descriptor{
		Box:       facematch.Rect{Width: 100, Height: 100},
		Keypoints: []facematch.Keypoint{{Name: "nose", X: 50, Y: 50}},
	}
	similarity, ok = matcher.Score(geometryOnly, geometryOnly)
	if !ok || similarity != 1.0 {
		t.Errorf("expected geometry fallback to score 1.0, got %v ok=%v", similarity, ok)
	}
}

func TestConfig_TierBands(t *testing.T) {
	cfg := facematch.DefaultConfig()
	cases := []struct {
		similarity float64
		want       string
	}{
		{0.95, facematch.TierHigh},
		{0.80, facematch.TierHigh},
		{0.79, facematch.TierMedium},
		{0.65, facematch.TierMedium},
		{0.64, facematch.TierLow},
		{0.0, facematch.TierLow},
	}
	for _, tc := range cases {
		if got := cfg.TierFor(tc.similarity); got != tc.want {
			t.Errorf("TierFor(%v) = %q, want %q", tc.similarity, got, tc.want)
		}
	}
}
