// Package interaction translates pointer drags and zoom gestures into crop
// adjustments. The Controller is the only stateful piece of the engine; the
// geometry and rendering layers stay pure.
package interaction

import (
	"github.com/menta2k/token-forge/pkg/types"
)

// WheelStepPercent is the zoom change per discrete scroll step, in slider
// percentage points (the slider runs 50–150 for zoom 0.5–1.5).
const WheelStepPercent = 5

// Controller owns the current zoom factor and pan offset and converts gesture
// input into updates of them. Pointer coordinates are in output-canvas pixels;
// the stored pan offset is in source-image pixels, converted through the crop
// region of the most recent composite.
type Controller struct {
	state types.InteractionState

	dragging   bool
	dragStart  types.Point
	dragOrigin types.Point

	lastCrop  types.CropRegion
	innerSize float64
}

// New creates a Controller at the default zoom and pan for the given inner
// photo size (the token side minus both border widths).
func New(innerPhotoSizePx int) *Controller {
	return &Controller{
		state:     types.DefaultInteractionState(),
		innerSize: float64(innerPhotoSizePx),
	}
}

// State returns a copy of the current interaction state.
func (c *Controller) State() types.InteractionState {
	return c.state
}

// Dragging reports whether a drag is in progress.
func (c *Controller) Dragging() bool {
	return c.dragging
}

// Reset restores default zoom and pan, e.g. when a new image is loaded.
func (c *Controller) Reset() {
	c.state = types.DefaultInteractionState()
	c.dragging = false
	c.lastCrop = types.CropRegion{}
}

// SetInnerSize updates the inner photo size after a border-width change.
func (c *Controller) SetInnerSize(px int) {
	c.innerSize = float64(px)
}

// NoteCrop records the crop region the compositor actually used. The next
// drag derives its pixel-to-source scale from it. The stored pan offset is
// deliberately not back-corrected when the crop was clamped at an image
// boundary, so resuming a drag from a clamped position can jump; the offset
// is the single source of truth between composites.
func (c *Controller) NoteCrop(r types.CropRegion) {
	c.lastCrop = r
}

// SetZoomPercent sets the zoom from a 50–150 slider value, clamped to the
// valid range. It reports whether the state changed.
func (c *Controller) SetZoomPercent(percent int) bool {
	z := clamp(float64(percent)/100, types.ZoomMin, types.ZoomMax)
	if z == c.state.Zoom {
		return false
	}
	c.state.Zoom = z
	return true
}

// Wheel applies discrete scroll steps: +1 zooms in by 5 percentage points,
// -1 zooms out. It reports whether the state changed.
func (c *Controller) Wheel(steps int) bool {
	percent := int(c.state.Zoom*100+0.5) + steps*WheelStepPercent
	return c.SetZoomPercent(percent)
}

// SetPan replaces the pan offset directly, for non-interactive callers.
// Reports whether the state changed.
func (c *Controller) SetPan(x, y float64) bool {
	next := types.Point{X: x, Y: y}
	if next == c.state.Pan {
		return false
	}
	c.state.Pan = next
	return true
}

// StartDrag records the pointer position and current pan offset as the drag
// origin.
func (c *Controller) StartDrag(x, y float64) {
	c.dragging = true
	c.dragStart = types.Point{X: x, Y: y}
	c.dragOrigin = c.state.Pan
}

// Move updates the pan offset from the pointer position. The pointer delta is
// converted to source-image pixels through the last crop's scale and applied
// sign-inverted: dragging right reveals content to the left. Ignored unless a
// drag is active. Reports whether the state changed.
func (c *Controller) Move(x, y float64) bool {
	if !c.dragging || c.innerSize <= 0 {
		return false
	}
	scaleX := c.lastCrop.Width / c.innerSize
	scaleY := c.lastCrop.Height / c.innerSize
	if scaleX <= 0 || scaleY <= 0 {
		return false
	}
	next := types.Point{
		X: c.dragOrigin.X - (x-c.dragStart.X)*scaleX,
		Y: c.dragOrigin.Y - (y-c.dragStart.Y)*scaleY,
	}
	if next == c.state.Pan {
		return false
	}
	c.state.Pan = next
	return true
}

// EndDrag clears the dragging flag. The pan offset keeps its last value.
func (c *Controller) EndDrag() {
	c.dragging = false
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
