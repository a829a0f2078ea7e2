package compositor

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/menta2k/token-forge/pkg/geometry"
	"github.com/menta2k/token-forge/pkg/types"
)

// createTestImage fills a width×height image with a flat color.
func createTestImage(width, height int, c color.NRGBA) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func testScheme() types.ColorScheme {
	return types.ColorScheme{
		Primary:   color.NRGBA{R: 120, G: 60, B: 30, A: 255},
		Secondary: color.NRGBA{R: 180, G: 120, B: 80, A: 255},
		Accent:    color.NRGBA{R: 220, G: 180, B: 60, A: 255},
		Border:    color.NRGBA{R: 70, G: 35, B: 20, A: 255},
	}
}

func testFace() types.FaceGeometry {
	return types.FaceGeometry{
		Box:         types.Rect{X: 400, Y: 380, Width: 200, Height: 240},
		EyeDistance: 60,
		NoseTip:     &types.Point{X: 500, Y: 500},
	}
}

func TestRenderOutputGeometry(t *testing.T) {
	c := New()
	img := createTestImage(1000, 1000, color.NRGBA{R: 200, G: 10, B: 10, A: 255})

	token, crop, err := c.Render(img, testFace(), testScheme(), types.DefaultInteractionState(), types.DefaultBorderOptions())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	bounds := token.Bounds()
	if bounds.Dx() != OutputSize || bounds.Dy() != OutputSize {
		t.Errorf("token size = %dx%d, want %dx%d", bounds.Dx(), bounds.Dy(), OutputSize, OutputSize)
	}

	want := geometry.Compute(1000, 1000, testFace(), OutputSize-2*types.BorderThin, 1.0, types.Point{})
	if crop != want {
		t.Errorf("returned crop %+v, want %+v", crop, want)
	}
}

func TestRenderCornersTransparentCenterOpaque(t *testing.T) {
	c := New()
	photoColor := color.NRGBA{R: 10, G: 180, B: 40, A: 255}
	img := createTestImage(800, 800, photoColor)

	token, _, err := c.Render(img, testFace(), testScheme(), types.DefaultInteractionState(), types.DefaultBorderOptions())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	for _, pt := range []image.Point{{0, 0}, {OutputSize - 1, 0}, {0, OutputSize - 1}, {OutputSize - 1, OutputSize - 1}} {
		if a := token.NRGBAAt(pt.X, pt.Y).A; a != 0 {
			t.Errorf("corner %v alpha = %d, want 0", pt, a)
		}
	}

	got := token.NRGBAAt(OutputSize/2, OutputSize/2)
	if got.A != 255 {
		t.Fatalf("center alpha = %d, want 255", got.A)
	}
	// Flat source resamples to the same flat color.
	if diff(got.R, photoColor.R) > 2 || diff(got.G, photoColor.G) > 2 || diff(got.B, photoColor.B) > 2 {
		t.Errorf("center pixel %+v, want ~%+v", got, photoColor)
	}
}

func TestRenderBorderRingOnTop(t *testing.T) {
	c := New()
	img := createTestImage(800, 800, color.NRGBA{R: 10, G: 180, B: 40, A: 255})
	scheme := testScheme()
	opts := types.BorderOptions{Texture: types.TextureSolid, WidthPx: types.BorderThin}

	token, _, err := c.Render(img, testFace(), scheme, types.DefaultInteractionState(), opts)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	// A pixel on the horizontal centerline inside the ring band.
	x, y := OutputSize-types.BorderThin/2, OutputSize/2
	got := token.NRGBAAt(x, y)
	want := scheme.Primary
	if got != want {
		t.Errorf("ring pixel = %+v, want %+v", got, want)
	}
}

func TestRenderCustomColorSubstitution(t *testing.T) {
	c := New()
	img := createTestImage(800, 800, color.NRGBA{R: 10, G: 180, B: 40, A: 255})
	swatch := color.NRGBA{R: 170, G: 119, B: 51, A: 255}
	opts := types.BorderOptions{
		Texture:     types.TextureSolid,
		CustomColor: &swatch,
		WidthPx:     types.BorderThin,
	}

	token, _, err := c.Render(img, testFace(), testScheme(), types.DefaultInteractionState(), opts)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	x, y := OutputSize-types.BorderThin/2, OutputSize/2
	if got := token.NRGBAAt(x, y); got != swatch {
		t.Errorf("ring pixel with custom color = %+v, want %+v", got, swatch)
	}
}

func TestRenderThickBorderShrinksPhoto(t *testing.T) {
	c := New()
	img := createTestImage(800, 800, color.NRGBA{R: 10, G: 180, B: 40, A: 255})

	thin := types.BorderOptions{Texture: types.TextureSolid, WidthPx: types.BorderThin}
	thick := types.BorderOptions{Texture: types.TextureSolid, WidthPx: types.BorderThick}

	thinToken, _, err := c.Render(img, testFace(), testScheme(), types.DefaultInteractionState(), thin)
	if err != nil {
		t.Fatalf("thin render failed: %v", err)
	}
	thickToken, _, err := c.Render(img, testFace(), testScheme(), types.DefaultInteractionState(), thick)
	if err != nil {
		t.Fatalf("thick render failed: %v", err)
	}

	// Just inside the thick ring's inner edge the thin token still shows the
	// photo, the thick token shows border.
	center := float64(OutputSize) / 2
	x := OutputSize - types.BorderThick + 2
	y := OutputSize / 2
	d := math.Hypot(float64(x)+0.5-center, float64(y)+0.5-center)
	if d <= center-float64(types.BorderThick) {
		t.Fatalf("test pixel not in the thick band: d=%.2f", d)
	}
	if got := thickToken.NRGBAAt(x, y); got != testScheme().Primary {
		t.Errorf("thick token pixel = %+v, want border color", got)
	}
	if got := thinToken.NRGBAAt(x, y); got.G <= got.R {
		t.Errorf("thin token pixel = %+v, want green photo pixel", got)
	}
}

func TestRenderInvalidWidthFallsBackToThin(t *testing.T) {
	c := New()
	img := createTestImage(800, 800, color.NRGBA{R: 10, G: 180, B: 40, A: 255})
	opts := types.BorderOptions{Texture: types.TextureSolid, WidthPx: 11}

	token, _, err := c.Render(img, testFace(), testScheme(), types.DefaultInteractionState(), opts)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	x, y := OutputSize-types.BorderThin/2, OutputSize/2
	if got := token.NRGBAAt(x, y); got != testScheme().Primary {
		t.Errorf("ring pixel = %+v, want thin-border primary", got)
	}
}

func TestEffectiveScheme(t *testing.T) {
	scheme := testScheme()

	same := EffectiveScheme(scheme, types.BorderOptions{})
	if same.Primary != scheme.Primary || same.Accent != scheme.Accent {
		t.Errorf("without custom color the scheme must pass through, got %+v", same)
	}

	swatch := color.NRGBA{R: 1, G: 2, B: 3, A: 255}
	sub := EffectiveScheme(scheme, types.BorderOptions{CustomColor: &swatch})
	if sub.Primary != swatch || sub.Accent != swatch {
		t.Errorf("custom color must replace primary and accent, got %+v", sub)
	}
	if sub.Secondary != scheme.Secondary || sub.Border != scheme.Border {
		t.Errorf("custom color must not touch secondary/border, got %+v", sub)
	}
}

func diff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
