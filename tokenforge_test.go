package tokenforge

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/menta2k/token-forge/pkg/compositor"
	"github.com/menta2k/token-forge/pkg/types"
)

func flatImage(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// landmarkFace yields an unclamped crop on a 1000x1000 image, so zoom and pan
// changes are visible in the crop region.
func landmarkFace() types.FaceGeometry {
	return types.FaceGeometry{
		Box:         types.Rect{X: 400, Y: 330, Width: 200, Height: 230},
		LeftEye:     &types.Point{X: 450, Y: 400},
		RightEye:    &types.Point{X: 550, Y: 400},
		EyeDistance: 100,
		NoseTip:     &types.Point{X: 500, Y: 480},
	}
}

func loadedSession(t *testing.T) *Session {
	t.Helper()
	s := NewSession()
	if err := s.LoadImage(flatImage(1000, 1000, color.NRGBA{120, 80, 60, 255})); err != nil {
		t.Fatalf("LoadImage failed: %v", err)
	}
	return s
}

func TestSessionBeforeLoad(t *testing.T) {
	s := NewSession()
	if _, _, err := s.Token(); err == nil {
		t.Error("Token before LoadImage must fail")
	}
	if _, err := s.PNG(); err == nil {
		t.Error("PNG before LoadImage must fail")
	}
	if err := s.LoadImage(nil); err == nil {
		t.Error("LoadImage(nil) must fail")
	}
}

func TestSessionRendersToken(t *testing.T) {
	s := loadedSession(t)

	token, crop, err := s.Token()
	if err != nil {
		t.Fatalf("Token failed: %v", err)
	}
	if token.Bounds().Dx() != compositor.OutputSize || token.Bounds().Dy() != compositor.OutputSize {
		t.Errorf("token size = %v, want %dx%d", token.Bounds(), compositor.OutputSize, compositor.OutputSize)
	}
	if crop.Width <= 0 || crop.Height <= 0 {
		t.Errorf("crop region is empty: %+v", crop)
	}

	data, err := s.PNG()
	if err != nil {
		t.Fatalf("PNG failed: %v", err)
	}
	if !bytes.HasPrefix(data, []byte{0x89, 'P', 'N', 'G'}) {
		t.Error("PNG output has wrong magic bytes")
	}
}

func TestLoadImageResetsSession(t *testing.T) {
	s := loadedSession(t)

	if err := s.SetTexture(types.TextureWood); err != nil {
		t.Fatal(err)
	}
	if err := s.SetBorderWidth(types.BorderThick); err != nil {
		t.Fatal(err)
	}
	if err := s.SetCustomColor(1, 2, 3); err != nil {
		t.Fatal(err)
	}
	if err := s.SetZoomPercent(130); err != nil {
		t.Fatal(err)
	}

	if err := s.LoadImage(flatImage(640, 480, color.NRGBA{40, 90, 140, 255})); err != nil {
		t.Fatalf("second LoadImage failed: %v", err)
	}

	opts := s.BorderOptions()
	want := types.DefaultBorderOptions()
	if opts.Texture != want.Texture || opts.WidthPx != want.WidthPx || opts.CustomColor != nil {
		t.Errorf("border options not reset: %+v", opts)
	}
	if state := s.InteractionState(); state != types.DefaultInteractionState() {
		t.Errorf("interaction state not reset: %+v", state)
	}
}

func TestSetBorderWidthValidates(t *testing.T) {
	s := loadedSession(t)
	if err := s.SetBorderWidth(12); err == nil {
		t.Error("expected an error for an unsupported width")
	}
	if err := s.SetBorderWidth(types.BorderThick); err != nil {
		t.Errorf("SetBorderWidth(16) failed: %v", err)
	}
}

func TestZoomChangesCrop(t *testing.T) {
	s := loadedSession(t)
	if err := s.SetFace(landmarkFace()); err != nil {
		t.Fatal(err)
	}

	_, before, err := s.Token()
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SetZoomPercent(150); err != nil {
		t.Fatalf("SetZoomPercent failed: %v", err)
	}
	_, after, err := s.Token()
	if err != nil {
		t.Fatal(err)
	}

	if after.Width >= before.Width {
		t.Errorf("zooming in must shrink the crop: before %v, after %v", before.Width, after.Width)
	}
}

func TestWheelAdjustsZoom(t *testing.T) {
	s := loadedSession(t)
	if err := s.Wheel(2); err != nil {
		t.Fatalf("Wheel failed: %v", err)
	}
	if got := s.InteractionState().Zoom; got != 1.10 {
		t.Errorf("zoom after two wheel steps = %v, want 1.10", got)
	}
}

func TestDragUpdatesPan(t *testing.T) {
	s := loadedSession(t)
	if err := s.SetFace(landmarkFace()); err != nil {
		t.Fatal(err)
	}

	_, before, err := s.Token()
	if err != nil {
		t.Fatal(err)
	}

	s.StartDrag(100, 100)
	if err := s.Drag(120, 100); err != nil {
		t.Fatalf("Drag failed: %v", err)
	}
	s.EndDrag()

	pan := s.InteractionState().Pan
	if pan.X >= 0 {
		t.Errorf("dragging right must pan the crop left, got pan.X = %v", pan.X)
	}
	if pan.Y != 0 {
		t.Errorf("horizontal drag must not change pan.Y, got %v", pan.Y)
	}

	_, after, err := s.Token()
	if err != nil {
		t.Fatal(err)
	}
	if after.X >= before.X {
		t.Errorf("crop must move left: before x=%v, after x=%v", before.X, after.X)
	}
}

func TestCustomColorPaintsRing(t *testing.T) {
	s := loadedSession(t)
	if err := s.SetTexture(types.TextureSolid); err != nil {
		t.Fatal(err)
	}
	if err := s.SetCustomColor(10, 200, 30); err != nil {
		t.Fatal(err)
	}

	token, _, err := s.Token()
	if err != nil {
		t.Fatal(err)
	}
	// (508, 256) sits mid-band in the thin ring.
	if got := token.NRGBAAt(508, 256); got != (color.NRGBA{10, 200, 30, 255}) {
		t.Errorf("ring pixel = %+v, want the custom color", got)
	}

	if err := s.ClearCustomColor(); err != nil {
		t.Fatal(err)
	}
	token, _, err = s.Token()
	if err != nil {
		t.Fatal(err)
	}
	if got := token.NRGBAAt(508, 256); got != s.ColorScheme().Primary {
		t.Errorf("ring pixel = %+v, want scheme primary %+v", got, s.ColorScheme().Primary)
	}
}

func TestTextureSwitchChangesPixels(t *testing.T) {
	s := loadedSession(t)

	if err := s.SetTexture(types.TextureSolid); err != nil {
		t.Fatal(err)
	}
	solid, err := s.PNG()
	if err != nil {
		t.Fatal(err)
	}

	if err := s.SetTexture(types.TextureCrystal); err != nil {
		t.Fatal(err)
	}
	crystal, err := s.PNG()
	if err != nil {
		t.Fatal(err)
	}

	if bytes.Equal(solid, crystal) {
		t.Error("different textures must render different tokens")
	}
}

func TestGetVersion(t *testing.T) {
	if GetVersion() != Version {
		t.Errorf("GetVersion() = %q, want %q", GetVersion(), Version)
	}
}
