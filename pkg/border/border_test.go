package border

import (
	"bytes"
	"image/color"
	"math"
	"testing"

	"github.com/menta2k/token-forge/pkg/types"
)

func testScheme() types.ColorScheme {
	return types.ColorScheme{
		Primary:   color.NRGBA{R: 120, G: 60, B: 30, A: 255},
		Secondary: color.NRGBA{R: 180, G: 120, B: 80, A: 255},
		Accent:    color.NRGBA{R: 220, G: 180, B: 60, A: 255},
		Border:    color.NRGBA{R: 70, G: 35, B: 20, A: 255},
	}
}

func TestRenderRingGeometryAllTextures(t *testing.T) {
	const size = 64
	const widthPx = 8
	center := float64(size) / 2
	outerR := float64(size) / 2
	innerR := outerR - float64(widthPx)

	for _, tex := range types.Textures() {
		img := Render(size, widthPx, testScheme(), tex)

		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				d := math.Hypot(float64(x)+0.5-center, float64(y)+0.5-center)
				alpha := img.Pix[y*img.Stride+x*4+3]
				inBand := d >= innerR && d <= outerR
				if inBand && alpha != 255 {
					t.Fatalf("%s: pixel (%d,%d) d=%.2f in ring band has alpha %d, want 255", tex, x, y, d, alpha)
				}
				if !inBand && alpha != 0 {
					t.Fatalf("%s: pixel (%d,%d) d=%.2f outside ring band has alpha %d, want 0", tex, x, y, d, alpha)
				}
			}
		}
	}
}

func TestRenderSolidUsesPrimaryExactly(t *testing.T) {
	const size = 64
	const widthPx = 8
	scheme := testScheme()
	img := Render(size, widthPx, scheme, types.TextureSolid)

	// Rightmost band pixel on the horizontal centerline, well inside both
	// radial edges.
	x, y := size-widthPx/2, size/2
	i := y*img.Stride + x*4
	got := color.NRGBA{R: img.Pix[i], G: img.Pix[i+1], B: img.Pix[i+2], A: img.Pix[i+3]}
	want := scheme.Primary
	if got != want {
		t.Errorf("solid ring pixel = %+v, want %+v", got, want)
	}
}

func TestRenderDeterministic(t *testing.T) {
	for _, tex := range types.Textures() {
		a := Render(96, 16, testScheme(), tex)
		b := Render(96, 16, testScheme(), tex)
		if !bytes.Equal(a.Pix, b.Pix) {
			t.Errorf("%s: two renders with identical inputs differ", tex)
		}
	}
}

func TestRenderNoiseTexturesDifferFromSolid(t *testing.T) {
	scheme := testScheme()
	solid := Render(96, 16, scheme, types.TextureSolid)

	for _, tex := range []types.Texture{types.TextureLeather, types.TextureWood, types.TextureStone} {
		noised := Render(96, 16, scheme, tex)
		if bytes.Equal(solid.Pix, noised.Pix) {
			t.Errorf("%s: expected noise perturbation over the solid base", tex)
		}
	}
}

func TestNoiseFunctionsBounded(t *testing.T) {
	cases := []struct {
		name      string
		fn        func(x, y int) float64
		amplitude float64
	}{
		{"leather", leatherNoise, leatherAmplitude},
		{"wood", woodNoise, woodAmplitude},
		{"stone", stoneNoise, stoneAmplitude},
	}

	for _, tc := range cases {
		for y := 0; y < 128; y++ {
			for x := 0; x < 128; x++ {
				n := tc.fn(x, y)
				if math.Abs(n) > tc.amplitude {
					t.Fatalf("%s noise at (%d,%d) = %.3f exceeds amplitude %.1f", tc.name, x, y, n, tc.amplitude)
				}
			}
		}
	}
}

func TestNoiseFunctionsDeterministic(t *testing.T) {
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			if leatherNoise(x, y) != leatherNoise(x, y) ||
				woodNoise(x, y) != woodNoise(x, y) ||
				stoneNoise(x, y) != stoneNoise(x, y) {
				t.Fatalf("noise at (%d,%d) is not deterministic", x, y)
			}
		}
	}
}

func TestRenderClampsBorderWidth(t *testing.T) {
	// Absurd width is absorbed, not rejected: the ring fills the whole disc.
	img := Render(32, 100, testScheme(), types.TextureGradient)

	alpha := img.Pix[16*img.Stride+16*4+3]
	if alpha != 255 {
		t.Errorf("center pixel alpha = %d, want 255 when width spans the disc", alpha)
	}
	if img.Pix[3] != 0 {
		t.Errorf("corner pixel should stay transparent")
	}
}
