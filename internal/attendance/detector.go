package attendance

import (
	"context"

	"github.com/nandashakira23-blip/api-presensi-sub000/internal/facematch"
)

// Detector is the external face detection collaborator. Implementations are
// expected to be slow (a remote ML model); the composer bounds every call
// with a timeout and treats a deadline as a retryable DetectionTimeout.
type Detector interface {
	Detect(ctx context.Context, image []byte) ([]facematch.Face, error)
}
