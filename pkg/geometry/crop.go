// Package geometry computes the square source-image crop region for a token
// from face geometry, zoom factor and pan offset.
package geometry

import (
	"math"

	"github.com/menta2k/token-forge/pkg/types"
)

// Crop sizing presets. The landmark multipliers size the crop relative to the
// interpupillary distance so a canonical frontal face keeps ears and hair but
// loses the shoulders; the box expansions serve the same framing when only a
// bounding box is available. Tunable presets, not derived quantities.
const (
	eyeDistWidthFactor  = 3.2
	eyeDistHeightFactor = 4.6
	noseVerticalRatio   = 0.42

	boxExpandUp   = 3.5
	boxExpandDown = 0.3
	boxExpandSide = 1.2
	faceTopRatio  = 0.4
)

// Compute maps face geometry plus the user's zoom and pan into an axis-aligned
// crop region clamped to the image bounds. targetSize is the destination
// raster side in output pixels; the region itself is computed in source
// pixels and scaled to targetSize by the compositor.
//
// The result is square unless the computed side exceeds an image dimension
// entirely, in which case the final clamp yields a non-square region. That is
// accepted framing policy for tiny images, not an error. Out-of-range zoom or
// pan values are absorbed geometrically, never rejected.
func Compute(imgWidth, imgHeight int, face types.FaceGeometry, targetSize int, zoom float64, pan types.Point) types.CropRegion {
	var side, centerX, centerY float64

	if face.HasLandmarks() {
		baseWidth := face.EyeDistance * eyeDistWidthFactor
		baseHeight := face.EyeDistance * eyeDistHeightFactor
		side = math.Max(baseWidth, baseHeight)
		centerX = face.NoseTip.X
		// Nose tip sits at 42% of the crop height from the top.
		centerY = face.NoseTip.Y + noseVerticalRatio*side - side/2
	} else {
		up := face.Box.Height * boxExpandUp
		down := face.Box.Height * boxExpandDown
		sideways := face.Box.Width * boxExpandSide
		desiredWidth := sideways + face.Box.Width + sideways
		desiredHeight := up + face.Box.Height + down
		side = math.Max(desiredWidth, desiredHeight)
		centerX = face.Box.Center().X
		// Original face top sits at 40% of the crop side from the top.
		centerY = face.Box.Y - faceTopRatio*side + side/2
	}

	if zoom > 0 {
		side /= zoom
	}
	centerX += pan.X
	centerY += pan.Y

	w := float64(imgWidth)
	h := float64(imgHeight)
	x := centerX - side/2
	y := centerY - side/2

	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	if x+side > w {
		x = w - side
	}
	if y+side > h {
		y = h - side
	}
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}

	// Degenerate case: side exceeds an image dimension entirely.
	return types.CropRegion{
		X:      x,
		Y:      y,
		Width:  math.Min(side, w-x),
		Height: math.Min(side, h-y),
	}
}

// FallbackFace returns the geometry substituted when face detection fails:
// a centered box covering the middle half of the image.
func FallbackFace(imgWidth, imgHeight int) types.FaceGeometry {
	w := float64(imgWidth)
	h := float64(imgHeight)
	return types.FaceGeometry{
		Box: types.Rect{X: 0.25 * w, Y: 0.25 * h, Width: 0.5 * w, Height: 0.5 * h},
	}
}
