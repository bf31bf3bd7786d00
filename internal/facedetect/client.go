// Package facedetect is an HTTP client for the external face detection
// service. The model itself is out of process; this adapter only maps its
// response shape onto facematch descriptors.
package facedetect

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/nandashakira23-blip/api-presensi-sub000/internal/facematch"
)

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		// The overall deadline comes from the caller's context; this is a
		// transport-level backstop only.
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type detectResponse struct {
	Data []detectedFace `json:"data"`
}

type detectedFace struct {
	Bbox struct {
		X      float64 `json:"x"`
		Y      float64 `json:"y"`
		Width  float64 `json:"width"`
		Height float64 `json:"height"`
	} `json:"bbox"`
	Landmarks []struct {
		Name string  `json:"name"`
		X    float64 `json:"x"`
		Y    float64 `json:"y"`
	} `json:"landmarks"`
	Embedding []float64 `json:"embedding"`
	Score     float64   `json:"score"`
}

// Detect posts the raw image and returns the detected faces. The context
// deadline set by the composer bounds the whole call.
func (c *Client) Detect(ctx context.Context, image []byte) ([]facematch.Face, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/detect", bytes.NewReader(image))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("detector returned status %d", resp.StatusCode)
	}

	var payload detectResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode detector response: %w", err)
	}

	faces := make([]facematch.Face, 0, len(payload.Data))
	for _, item := range payload.Data {
		face := facematch.Face{DetectionConfidence: item.Score}
		face.Box = facematch.Rect{
			X:      item.Bbox.X,
			Y:      item.Bbox.Y,
			Width:  item.Bbox.Width,
			Height: item.Bbox.Height,
		}
		face.Embedding = item.Embedding
		for _, lm := range item.Landmarks {
			face.Keypoints = append(face.Keypoints, facematch.Keypoint{Name: lm.Name, X: lm.X, Y: lm.Y})
		}
		faces = append(faces, face)
	}
	return faces, nil
}
