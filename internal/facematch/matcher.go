package facematch

import "math"

// Matcher strategy names.
const (
	StrategyAuto      = "auto"
	StrategyEmbedding = "embedding"
	StrategyGeometry  = "geometry"
)

// Confidence tiers.
const (
	TierHigh   = "high"
	TierMedium = "medium"
	TierLow    = "low"
)

// Config is the single source of truth for similarity scoring. The values are
// supplied by configuration at decision time, never compiled into call sites.
type Config struct {
	Strategy       string
	Threshold      float64
	HighBand       float64
	MediumBand     float64
	EmbeddingScale float64
	BoxWeight      float64
	KeypointWeight float64
}

func DefaultConfig() Config {
	return Config{
		Strategy:       StrategyAuto,
		Threshold:      0.65,
		HighBand:       0.80,
		MediumBand:     0.65,
		EmbeddingScale: 1.0,
		BoxWeight:      0.4,
		KeypointWeight: 0.6,
	}
}

// TierFor buckets a similarity score into a coarse confidence tier.
func (c Config) TierFor(similarity float64) string {
	switch {
	case similarity >= c.HighBand:
		return TierHigh
	case similarity >= c.MediumBand:
		return TierMedium
	default:
		return TierLow
	}
}

// Matcher scores a detected descriptor against an enrolled one. The boolean
// is false when the pair lacks the data this strategy needs.
type Matcher interface {
	Score(detected, reference Descriptor) (float64, bool)
}

// NewMatcher selects the strategy for the configured mode. Auto prefers
// embedding distance and falls back to geometry per pair, since detector
// capability varies by deployment.
func NewMatcher(cfg Config) Matcher {
	embedding := EmbeddingMatcher{Scale: cfg.EmbeddingScale}
	geometry := GeometryMatcher{BoxWeight: cfg.BoxWeight, KeypointWeight: cfg.KeypointWeight}
	switch cfg.Strategy {
	case StrategyEmbedding:
		return embedding
	case StrategyGeometry:
		return geometry
	default:
		return autoMatcher{embedding: embedding, geometry: geometry}
	}
}

type autoMatcher struct {
	embedding EmbeddingMatcher
	geometry  GeometryMatcher
}

func (m autoMatcher) Score(detected, reference Descriptor) (float64, bool) {
	if similarity, ok := m.embedding.Score(detected, reference); ok {
		return similarity, true
	}
	return m.geometry.Score(detected, reference)
}

// EmbeddingMatcher compares embedding vectors by euclidean distance,
// normalized to [0,1] by a scale factor.
type EmbeddingMatcher struct {
	Scale float64
}

func (m EmbeddingMatcher) Score(detected, reference Descriptor) (float64, bool) {
	if len(detected.Embedding) == 0 || len(detected.Embedding) != len(reference.Embedding) {
		return 0, false
	}
	scale := m.Scale
	if scale <= 0 {
		scale = 1.0
	}
	var sum float64
	for i := range detected.Embedding {
		diff := detected.Embedding[i] - reference.Embedding[i]
		sum += diff * diff
	}
	return clamp01(1 - math.Sqrt(sum)/scale), true
}

// GeometryMatcher is the fallback for detectors without embeddings. It blends
// a bounding-box similarity with a landmark-keypoint similarity; keypoints
// carry more weight because they capture identity better than framing.
type GeometryMatcher struct {
	BoxWeight      float64
	KeypointWeight float64
}

func (m GeometryMatcher) Score(detected, reference Descriptor) (float64, bool) {
	boxSimilarity, ok := boxSimilarity(detected.Box, reference.Box)
	if !ok {
		return 0, false
	}
	keypointSimilarity, ok := keypointSimilarity(detected, reference)
	if !ok {
		// No shared landmarks, only the box carries signal.
		return boxSimilarity, true
	}
	total := m.BoxWeight + m.KeypointWeight
	if total <= 0 {
		return 0, false
	}
	return (boxSimilarity*m.BoxWeight + keypointSimilarity*m.KeypointWeight) / total, true
}

// boxSimilarity blends normalized center distance with the area ratio.
func boxSimilarity(a, b Rect) (float64, bool) {
	if a.Width <= 0 || a.Height <= 0 || b.Width <= 0 || b.Height <= 0 {
		return 0, false
	}
	diag := math.Hypot(b.Width, b.Height)
	centerDist := math.Hypot(
		(a.X+a.Width/2)-(b.X+b.Width/2),
		(a.Y+a.Height/2)-(b.Y+b.Height/2),
	)
	centerScore := clamp01(1 - centerDist/diag)

	areaA := a.Width * a.Height
	areaB := b.Width * b.Height
	areaScore := math.Min(areaA, areaB) / math.Max(areaA, areaB)

	return (centerScore + areaScore) / 2, true
}

// keypointSimilarity averages per-point distance scores over landmarks that
// share a name on both sides, normalized by the reference box diagonal.
func keypointSimilarity(detected, reference Descriptor) (float64, bool) {
	if len(detected.Keypoints) == 0 || len(reference.Keypoints) == 0 {
		return 0, false
	}
	refPoints := make(map[string]Keypoint, len(reference.Keypoints))
	for _, kp := range reference.Keypoints {
		refPoints[kp.Name] = kp
	}
	diag := math.Hypot(reference.Box.Width, reference.Box.Height)
	if diag <= 0 {
		return 0, false
	}

	var sum float64
	matched := 0
	for _, kp := range detected.Keypoints {
		ref, ok := refPoints[kp.Name]
		if !ok {
			continue
		}
		dist := math.Hypot(kp.X-ref.X, kp.Y-ref.Y)
		sum += clamp01(1 - dist/diag)
		matched++
	}
	if matched == 0 {
		return 0, false
	}
	return sum / float64(matched), true
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
