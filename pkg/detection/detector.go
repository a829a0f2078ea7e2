// Package detection turns vision-model replies into pixel-space face
// geometry. It owns the detection prompt, the readiness latch around the
// model backend and the normalization of model output.
package detection

import (
	"context"
	"fmt"
	"image"
	"math"

	"github.com/menta2k/token-forge/pkg/client"
	"github.com/menta2k/token-forge/pkg/processing"
	"github.com/menta2k/token-forge/pkg/types"
)

// SimpleTestPrompt checks whether the model can see images at all.
const SimpleTestPrompt = `What do you see in this image? Describe it briefly.`

// DefaultPrompt asks the model for face geometry as strict JSON.
const DefaultPrompt = `You are a face locator.

Return JSON only:
{
  "box": {"x": 0.0, "y": 0.0, "width": 0.0, "height": 0.0},
  "left_eye": {"x": 0.0, "y": 0.0},
  "right_eye": {"x": 0.0, "y": 0.0},
  "nose_tip": {"x": 0.0, "y": 0.0},
  "confidence": 0.0
}

HARD RULES
- All coordinates are normalized to [0,1] (NOT pixels).
- The box must tightly include the single most prominent human face
  (forehead to chin, ear to ear).
- left_eye/right_eye are pupil centers as seen in the image; left means
  smaller x. nose_tip is the tip of the nose.
- Omit left_eye, right_eye and nose_tip entirely if you cannot place them
  confidently.
- If no face is visible, return:
  {"box":{"x":0.25,"y":0.25,"width":0.5,"height":0.5},"confidence":0.0}
- JSON only. No markdown, no code fences, no comments, no trailing commas.`

// Config holds configuration for face detection.
type Config struct {
	Model         string
	SendFormat    string
	SendMaxDim    int
	SendQuality   int
	MinConfidence float64
}

// DefaultConfig returns the detection defaults.
func DefaultConfig() Config {
	return Config{
		Model:         "openbmb/minicpm-v4.5",
		SendFormat:    "jpg",
		SendMaxDim:    1536,
		SendQuality:   85,
		MinConfidence: 0.3,
	}
}

// Detector detects face geometry through a vision backend. It starts NotReady
// and must be initialized once before the first Detect call.
type Detector struct {
	client    client.FaceClient
	config    Config
	processor *processing.Processor
	ready     bool
}

// NewDetector creates a detector with default configuration.
func NewDetector(c client.FaceClient) *Detector {
	return NewDetectorWithConfig(c, DefaultConfig())
}

// NewDetectorWithConfig creates a detector with custom configuration.
func NewDetectorWithConfig(c client.FaceClient, config Config) *Detector {
	return &Detector{
		client:    c,
		config:    config,
		processor: processing.NewProcessor(),
	}
}

// Ready reports whether Initialize has completed successfully.
func (d *Detector) Ready() bool {
	return d.ready
}

// Initialize warms up the vision backend with a trivial probe image and
// latches the detector into the ready state. Calling it again after success
// is a no-op.
func (d *Detector) Initialize(ctx context.Context) error {
	if d.ready {
		return nil
	}
	probe := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	imgB64, err := d.processor.PrepareImageForModel(probe, "png", 0, 0)
	if err != nil {
		return fmt.Errorf("failed to build probe image: %w", err)
	}
	if _, err := d.client.SimpleQuery(ctx, d.config.Model, SimpleTestPrompt, imgB64); err != nil {
		return fmt.Errorf("vision backend not available: %w", err)
	}
	d.ready = true
	return nil
}

// Detect runs face detection on an image. found is false when the model saw
// no face (or answered below the confidence floor); the caller then falls
// back to a local estimate or the fixed fallback geometry. err is reserved
// for transport and state failures.
func (d *Detector) Detect(ctx context.Context, img image.Image) (types.FaceGeometry, bool, error) {
	if !d.ready {
		return types.FaceGeometry{}, false, fmt.Errorf("detector not initialized")
	}

	imgB64, err := d.processor.PrepareImageForModel(img, d.config.SendFormat, d.config.SendMaxDim, d.config.SendQuality)
	if err != nil {
		return types.FaceGeometry{}, false, fmt.Errorf("failed to prepare image: %w", err)
	}

	raw, err := d.client.DetectFace(ctx, d.config.Model, DefaultPrompt, imgB64)
	if err != nil {
		return types.FaceGeometry{}, false, err
	}
	if raw.Confidence < d.config.MinConfidence {
		return types.FaceGeometry{}, false, nil
	}

	bounds := img.Bounds()
	geom := ToPixelGeometry(*raw, bounds.Dx(), bounds.Dy())
	if geom.Box.Width <= 0 || geom.Box.Height <= 0 {
		return types.FaceGeometry{}, false, nil
	}
	return geom, true, nil
}

// ToPixelGeometry converts a normalized detection into source-pixel face
// geometry. Landmarks survive only as a complete set: eye distance needs both
// eyes, and the landmark crop path needs the nose tip too.
func ToPixelGeometry(det types.FaceDetection, imgWidth, imgHeight int) types.FaceGeometry {
	w := float64(imgWidth)
	h := float64(imgHeight)

	box := types.Rect{
		X:      clamp01(det.Box.X) * w,
		Y:      clamp01(det.Box.Y) * h,
		Width:  clamp01(det.Box.Width) * w,
		Height: clamp01(det.Box.Height) * h,
	}
	if box.X+box.Width > w {
		box.Width = w - box.X
	}
	if box.Y+box.Height > h {
		box.Height = h - box.Y
	}

	geom := types.FaceGeometry{Box: box}
	if det.LeftEye != nil && det.RightEye != nil && det.NoseTip != nil {
		left := types.Point{X: clamp01(det.LeftEye.X) * w, Y: clamp01(det.LeftEye.Y) * h}
		right := types.Point{X: clamp01(det.RightEye.X) * w, Y: clamp01(det.RightEye.Y) * h}
		dist := math.Hypot(right.X-left.X, right.Y-left.Y)
		if dist > 0 {
			geom.LeftEye = &left
			geom.RightEye = &right
			geom.EyeDistance = dist
			geom.NoseTip = &types.Point{X: clamp01(det.NoseTip.X) * w, Y: clamp01(det.NoseTip.Y) * h}
		}
	}
	return geom
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
