// Package compositor assembles the finished token: the face crop blitted into
// a circular interior with a textured border ring around it.
package compositor

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/menta2k/token-forge/pkg/border"
	"github.com/menta2k/token-forge/pkg/geometry"
	"github.com/menta2k/token-forge/pkg/types"
)

// OutputSize is the fixed side of the rendered token in pixels.
const OutputSize = 512

// Compositor renders tokens at the fixed output size. It is stateless; every
// call derives the crop fresh from the supplied interaction state.
type Compositor struct{}

// New creates a Compositor.
func New() *Compositor {
	return &Compositor{}
}

// Render produces the 512×512 token surface and reports the crop region it
// used, which drives the interaction controller's drag-to-pan scaling.
//
// The border occupies the outer opts.WidthPx pixels; the photo fills the
// inner square, clipped to the inner circle, scaled to fit exactly (the scale
// is non-uniform when the degenerate clamp produced a non-square crop).
// Inputs are assumed finite and well-formed; validation belongs upstream.
func (c *Compositor) Render(img image.Image, face types.FaceGeometry, scheme types.ColorScheme, state types.InteractionState, opts types.BorderOptions) (*image.NRGBA, types.CropRegion, error) {
	bounds := img.Bounds()
	imgW, imgH := bounds.Dx(), bounds.Dy()

	widthPx := opts.WidthPx
	if widthPx != types.BorderThin && widthPx != types.BorderThick {
		widthPx = types.BorderThin
	}
	inner := OutputSize - 2*widthPx

	crop := geometry.Compute(imgW, imgH, face, inner, state.Zoom, state.Pan)

	cropRect := image.Rect(
		bounds.Min.X+int(crop.X+0.5),
		bounds.Min.Y+int(crop.Y+0.5),
		bounds.Min.X+int(crop.X+crop.Width+0.5),
		bounds.Min.Y+int(crop.Y+crop.Height+0.5),
	)
	photo := imaging.Crop(img, cropRect)
	if photo.Bounds().Empty() {
		return nil, crop, fmt.Errorf("crop region %v does not intersect image %dx%d", cropRect, imgW, imgH)
	}
	// Exact fill of the inner square; distorts rather than crops in the
	// degenerate non-square case.
	photo = imaging.Resize(photo, inner, inner, imaging.Lanczos)

	center := float64(OutputSize) / 2
	innerR := center - float64(widthPx)

	dc := gg.NewContext(OutputSize, OutputSize)
	dc.DrawCircle(center, center, innerR)
	dc.Clip()
	dc.DrawImage(photo, widthPx, widthPx)
	dc.ResetClip()

	ring := border.Render(OutputSize, widthPx, EffectiveScheme(scheme, opts), opts.Texture)
	dc.DrawImage(ring, 0, 0)

	return imaging.Clone(dc.Image()), crop, nil
}

// EffectiveScheme resolves the colors the border is painted with: a custom
// swatch color replaces primary and accent, secondary and border stay from
// the auto-extracted scheme.
func EffectiveScheme(scheme types.ColorScheme, opts types.BorderOptions) types.ColorScheme {
	out := scheme
	out.Primary.A = 255
	out.Secondary.A = 255
	out.Accent.A = 255
	out.Border.A = 255
	if opts.CustomColor != nil {
		swatch := color.NRGBA{R: opts.CustomColor.R, G: opts.CustomColor.G, B: opts.CustomColor.B, A: 255}
		out.Primary = swatch
		out.Accent = swatch
	}
	return out
}
