// Package facematch scores detected faces against enrolled reference
// descriptors. Detection itself is an external collaborator; this package
// only consumes its output shape.
package facematch

import "encoding/json"

// Rect is a face bounding box in image coordinates.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Keypoint is a named facial landmark, e.g. "left_eye" or "nose".
type Keypoint struct {
	Name string  `json:"name"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// Descriptor is the comparable representation of a face: a bounding box plus
// whatever the detector could produce. Embedding vectors are preferred;
// landmark keypoints serve as the geometry fallback.
type Descriptor struct {
	Box       Rect       `json:"box"`
	Keypoints []Keypoint `json:"keypoints,omitempty"`
	Embedding []float64  `json:"embedding,omitempty"`
}

// Face is one detection result from the external detector.
type Face struct {
	Descriptor
	DetectionConfidence float64 `json:"detectionConfidence"`
}

// EncodeDescriptor serializes a descriptor for storage in a face reference row.
func EncodeDescriptor(d Descriptor) (json.RawMessage, error) {
	return json.Marshal(d)
}

// DecodeDescriptor parses a stored face reference descriptor.
func DecodeDescriptor(raw json.RawMessage) (Descriptor, error) {
	var d Descriptor
	if err := json.Unmarshal(raw, &d); err != nil {
		return Descriptor{}, err
	}
	return d, nil
}
