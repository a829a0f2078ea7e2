// Package tokenforge builds circular, bordered token portraits from photos.
//
// A token is a fixed-size 512×512 disc: the face crop of a source photo fills
// the interior and a procedurally textured ring forms the border. The crop
// follows detected face geometry and can be recentered by dragging and
// rescaled by zooming, with the result always clamped to the source image.
//
// Basic usage:
//
//	package main
//
//	import (
//		"log"
//		"os"
//
//		tokenforge "github.com/menta2k/token-forge"
//		"github.com/menta2k/token-forge/pkg/processing"
//		"github.com/menta2k/token-forge/pkg/types"
//	)
//
//	func main() {
//		processor := processing.NewProcessor()
//		img, err := processor.LoadImage("portrait.jpg")
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		session := tokenforge.NewSession()
//		if err := session.LoadImage(img); err != nil {
//			log.Fatal(err)
//		}
//
//		session.SetTexture(types.TextureMetallic)
//		session.SetZoomPercent(120)
//
//		data, err := session.PNG()
//		if err != nil {
//			log.Fatal(err)
//		}
//		if err := os.WriteFile("portrait_token.png", data, 0644); err != nil {
//			log.Fatal(err)
//		}
//	}
//
// The package consists of five main components:
//
// 1. Geometry (pkg/geometry): face geometry to square crop region math
// 2. Border (pkg/border): the eight procedural border textures
// 3. Compositor (pkg/compositor): assembles crop, clip and ring into a token
// 4. Interaction (pkg/interaction): drag/zoom gesture state
// 5. Detection (pkg/detection, pkg/vision): face geometry from a vision
// backend or a local saliency estimate
//
// All rendering is deterministic: identical inputs produce identical pixels.
package tokenforge

import (
	"context"
	"fmt"
	"image"
	"image/color"

	"github.com/menta2k/token-forge/pkg/colorscheme"
	"github.com/menta2k/token-forge/pkg/compositor"
	"github.com/menta2k/token-forge/pkg/detection"
	"github.com/menta2k/token-forge/pkg/geometry"
	"github.com/menta2k/token-forge/pkg/interaction"
	"github.com/menta2k/token-forge/pkg/processing"
	"github.com/menta2k/token-forge/pkg/types"
	"github.com/menta2k/token-forge/pkg/vision"
)

// Version of the token-forge library.
const Version = "1.0.0"

// Session is one image-editing session: it owns the source image, its face
// geometry and color scheme, the border options and the interaction state,
// and re-renders the token whenever any of them changes. Loading a new image
// resets the border options and interaction state.
type Session struct {
	compositor *compositor.Compositor
	controller *interaction.Controller
	extractor  *colorscheme.Extractor
	estimator  *vision.Estimator
	processor  *processing.Processor
	detector   *detection.Detector

	img    image.Image
	face   types.FaceGeometry
	scheme types.ColorScheme
	opts   types.BorderOptions

	token    *image.NRGBA
	lastCrop types.CropRegion
}

// Option configures a Session.
type Option func(*Session)

// WithDetector attaches a vision-backend face detector. Without one, LoadImage
// uses the local saliency estimate and the fixed fallback geometry.
func WithDetector(d *detection.Detector) Option {
	return func(s *Session) { s.detector = d }
}

// WithColorExtractor overrides the default color-scheme extractor.
func WithColorExtractor(e *colorscheme.Extractor) Option {
	return func(s *Session) { s.extractor = e }
}

// NewSession creates an empty session; call LoadImage before rendering.
func NewSession(opts ...Option) *Session {
	s := &Session{
		compositor: compositor.New(),
		controller: interaction.New(compositor.OutputSize - 2*types.BorderThin),
		extractor:  colorscheme.New(),
		estimator:  vision.New(),
		processor:  processing.NewProcessor(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoadImage starts a new editing session on img: border options and
// interaction state are reset, the color scheme re-extracted and the face
// geometry re-detected. Detection failure is not an error; the session falls
// back to the local saliency estimate, then the centered fallback box.
func (s *Session) LoadImage(img image.Image) error {
	return s.LoadImageContext(context.Background(), img)
}

// LoadImageContext is LoadImage with a context for the detection backend.
func (s *Session) LoadImageContext(ctx context.Context, img image.Image) error {
	if img == nil {
		return fmt.Errorf("nil image")
	}
	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return fmt.Errorf("empty image")
	}

	s.img = img
	s.opts = types.DefaultBorderOptions()
	s.controller.Reset()
	s.controller.SetInnerSize(compositor.OutputSize - 2*s.opts.WidthPx)
	s.scheme = s.extractor.Extract(img)
	s.face = s.detectFace(ctx, img)

	return s.render()
}

// detectFace tries the vision backend, then the local estimator, then the
// fixed fallback geometry. It never fails.
func (s *Session) detectFace(ctx context.Context, img image.Image) types.FaceGeometry {
	bounds := img.Bounds()

	if s.detector != nil && s.detector.Ready() {
		if geom, found, err := s.detector.Detect(ctx, img); err == nil && found {
			return geom
		}
	}
	if box, ok := s.estimator.EstimateFaceRegion(img); ok {
		return types.FaceGeometry{Box: box}
	}
	return geometry.FallbackFace(bounds.Dx(), bounds.Dy())
}

// SetFace replaces the session's face geometry, e.g. from a caller-run
// detection pass or a manual box.
func (s *Session) SetFace(face types.FaceGeometry) error {
	s.face = face
	return s.render()
}

// Face returns the face geometry in use.
func (s *Session) Face() types.FaceGeometry {
	return s.face
}

// ColorScheme returns the auto-extracted color scheme.
func (s *Session) ColorScheme() types.ColorScheme {
	return s.scheme
}

// BorderOptions returns the current border options.
func (s *Session) BorderOptions() types.BorderOptions {
	return s.opts
}

// SetTexture selects the border texture.
func (s *Session) SetTexture(tex types.Texture) error {
	s.opts.Texture = tex
	return s.render()
}

// SetBorderWidth selects the border thickness; widthPx must be BorderThin or
// BorderThick.
func (s *Session) SetBorderWidth(widthPx int) error {
	if widthPx != types.BorderThin && widthPx != types.BorderThick {
		return fmt.Errorf("border width must be %d or %d, got %d", types.BorderThin, types.BorderThick, widthPx)
	}
	s.opts.WidthPx = widthPx
	s.controller.SetInnerSize(compositor.OutputSize - 2*widthPx)
	return s.render()
}

// SetCustomColor applies a swatch color: it substitutes the scheme's primary
// and accent colors for border rendering. Secondary and border colors stay
// from the auto-extracted scheme.
func (s *Session) SetCustomColor(r, g, b uint8) error {
	s.opts.CustomColor = &color.NRGBA{R: r, G: g, B: b, A: 255}
	return s.render()
}

// ClearCustomColor returns border rendering to the auto-extracted scheme.
func (s *Session) ClearCustomColor() error {
	s.opts.CustomColor = nil
	return s.render()
}

// Token returns the current token surface and the crop region it used.
func (s *Session) Token() (*image.NRGBA, types.CropRegion, error) {
	if s.token == nil {
		return nil, types.CropRegion{}, fmt.Errorf("no image loaded")
	}
	return s.token, s.lastCrop, nil
}

// PNG returns the current token as an encoded PNG byte stream.
func (s *Session) PNG() ([]byte, error) {
	if s.token == nil {
		return nil, fmt.Errorf("no image loaded")
	}
	return s.processor.EncodePNG(s.token)
}

// SetZoomPercent sets the zoom from a 50–150 slider value and re-renders on
// change.
func (s *Session) SetZoomPercent(percent int) error {
	if s.controller.SetZoomPercent(percent) {
		return s.render()
	}
	return nil
}

// Wheel applies scroll-wheel zoom steps and re-renders on change.
func (s *Session) Wheel(steps int) error {
	if s.controller.Wheel(steps) {
		return s.render()
	}
	return nil
}

// SetPan replaces the pan offset in source pixels and re-renders on change.
func (s *Session) SetPan(x, y float64) error {
	if s.controller.SetPan(x, y) {
		return s.render()
	}
	return nil
}

// StartDrag begins a recenter drag at output-canvas coordinates.
func (s *Session) StartDrag(x, y float64) {
	s.controller.StartDrag(x, y)
}

// Drag updates an active drag and re-renders on change.
func (s *Session) Drag(x, y float64) error {
	if s.controller.Move(x, y) {
		return s.render()
	}
	return nil
}

// EndDrag finishes the active drag.
func (s *Session) EndDrag() {
	s.controller.EndDrag()
}

// InteractionState returns the current zoom and pan.
func (s *Session) InteractionState() types.InteractionState {
	return s.controller.State()
}

// render recomposites the token and records the resulting crop in the
// controller so the next drag scales correctly.
func (s *Session) render() error {
	if s.img == nil {
		return fmt.Errorf("no image loaded")
	}
	token, crop, err := s.compositor.Render(s.img, s.face, s.scheme, s.controller.State(), s.opts)
	if err != nil {
		return fmt.Errorf("compositing failed: %w", err)
	}
	s.token = token
	s.lastCrop = crop
	s.controller.NoteCrop(crop)
	return nil
}

// GetVersion returns the library version.
func GetVersion() string {
	return Version
}
