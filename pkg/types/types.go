package types

import (
	"fmt"
	"image/color"
	"strings"
)

// Point is a position in source-image pixel coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is an axis-aligned rectangle in source-image pixel coordinates.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// FaceGeometry describes a detected face in source-image pixel coordinates.
// Box is always present. The landmark fields are optional: when both
// EyeDistance and NoseTip are set, crop computation uses the landmark-based
// path, otherwise it falls back to the bounding-box method.
type FaceGeometry struct {
	Box         Rect    `json:"box"`
	LeftEye     *Point  `json:"left_eye,omitempty"`
	RightEye    *Point  `json:"right_eye,omitempty"`
	EyeDistance float64 `json:"eye_distance,omitempty"`
	NoseTip     *Point  `json:"nose_tip,omitempty"`
}

// HasLandmarks reports whether the landmark-based crop path applies.
func (f FaceGeometry) HasLandmarks() bool {
	return f.EyeDistance > 0 && f.NoseTip != nil
}

// FaceDetection is the raw reply from a vision backend, normalized to [0,1]
// image coordinates. Converted to a pixel-space FaceGeometry by pkg/detection.
type FaceDetection struct {
	Box        Rect    `json:"box"`
	LeftEye    *Point  `json:"left_eye,omitempty"`
	RightEye   *Point  `json:"right_eye,omitempty"`
	NoseTip    *Point  `json:"nose_tip,omitempty"`
	Confidence float64 `json:"confidence"`
}

// ColorScheme holds the colors extracted from (or chosen for) an image.
type ColorScheme struct {
	Primary   color.NRGBA `json:"primary"`
	Secondary color.NRGBA `json:"secondary"`
	Accent    color.NRGBA `json:"accent"`
	Border    color.NRGBA `json:"border"`
}

// CropRegion is the square sub-rectangle of the source image selected for the
// token interior. Width and Height are equal except in the degenerate case
// where the computed side exceeds an image dimension and gets clamped.
type CropRegion struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Texture identifies one of the procedural border rendering algorithms.
type Texture int

const (
	TextureSolid Texture = iota
	TextureGradient
	TextureMetallic
	TextureLeather
	TextureWood
	TextureStone
	TextureCrystal
	TextureGlow
)

// Textures lists every border texture in rendering-menu order.
func Textures() []Texture {
	return []Texture{
		TextureSolid, TextureGradient, TextureMetallic, TextureLeather,
		TextureWood, TextureStone, TextureCrystal, TextureGlow,
	}
}

var textureNames = map[Texture]string{
	TextureSolid:    "solid",
	TextureGradient: "gradient",
	TextureMetallic: "metallic",
	TextureLeather:  "leather",
	TextureWood:     "wood",
	TextureStone:    "stone",
	TextureCrystal:  "crystal",
	TextureGlow:     "glow",
}

// String returns the texture's CLI/config identifier.
func (t Texture) String() string {
	if name, ok := textureNames[t]; ok {
		return name
	}
	return fmt.Sprintf("texture(%d)", int(t))
}

// ParseTexture maps a texture identifier to its Texture value.
func ParseTexture(name string) (Texture, error) {
	needle := strings.ToLower(strings.TrimSpace(name))
	for tex, n := range textureNames {
		if n == needle {
			return tex, nil
		}
	}
	return TextureGradient, fmt.Errorf("unknown texture: %q", name)
}

// Border widths in output-canvas pixels, measured against the 512px token.
const (
	BorderThin  = 8
	BorderThick = 16
)

// BorderOptions selects how the token's border ring is painted.
// CustomColor, when set, substitutes the scheme's primary and accent colors.
type BorderOptions struct {
	Texture     Texture      `json:"texture"`
	CustomColor *color.NRGBA `json:"custom_color,omitempty"`
	WidthPx     int          `json:"width_px"`
}

// DefaultBorderOptions returns the options applied whenever a new image is
// loaded: gradient texture, auto colors, thin border.
func DefaultBorderOptions() BorderOptions {
	return BorderOptions{Texture: TextureGradient, CustomColor: nil, WidthPx: BorderThin}
}

// Zoom factor bounds. 1.0 shows the computed crop as-is; values above narrow
// the crop (zoom in), values below widen it (zoom out).
const (
	ZoomMin     = 0.5
	ZoomMax     = 1.5
	ZoomDefault = 1.0
)

// InteractionState holds the user-adjustable crop parameters. Pan is stored
// unclamped; its effect is bounded at crop-computation time.
type InteractionState struct {
	Zoom float64 `json:"zoom"`
	Pan  Point   `json:"pan"`
}

// DefaultInteractionState returns the state applied on new-image load.
func DefaultInteractionState() InteractionState {
	return InteractionState{Zoom: ZoomDefault, Pan: Point{}}
}
