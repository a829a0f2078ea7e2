package colorscheme

import (
	"image"
	"image/color"
	"testing"
)

func createFlatImage(width, height int, c color.NRGBA) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestExtractFlatImage(t *testing.T) {
	c := color.NRGBA{R: 100, G: 150, B: 200, A: 255}
	scheme := New().Extract(createFlatImage(64, 64, c))

	if scheme.Primary != c {
		t.Errorf("primary = %+v, want %+v", scheme.Primary, c)
	}
	// Single bucket: accent falls back to the same color.
	if scheme.Accent != c {
		t.Errorf("accent = %+v, want %+v", scheme.Accent, c)
	}
	if scheme.Secondary.R <= c.R {
		t.Errorf("secondary should be lighter than primary, got %+v", scheme.Secondary)
	}
	if scheme.Border.R >= c.R {
		t.Errorf("border should be darker than primary, got %+v", scheme.Border)
	}
	for _, a := range []uint8{scheme.Primary.A, scheme.Secondary.A, scheme.Accent.A, scheme.Border.A} {
		if a != 255 {
			t.Errorf("scheme colors must be opaque, got alpha %d", a)
		}
	}
}

func TestExtractTwoToneImage(t *testing.T) {
	dominant := color.NRGBA{R: 200, G: 40, B: 40, A: 255}
	minority := color.NRGBA{R: 40, G: 40, B: 200, A: 255}

	img := image.NewNRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			if x < 48 {
				img.SetNRGBA(x, y, dominant)
			} else {
				img.SetNRGBA(x, y, minority)
			}
		}
	}

	scheme := New().Extract(img)
	if scheme.Primary != dominant {
		t.Errorf("primary = %+v, want dominant %+v", scheme.Primary, dominant)
	}
	if scheme.Accent != minority {
		t.Errorf("accent = %+v, want minority %+v", scheme.Accent, minority)
	}
}

func TestExtractDeterministic(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 4), G: uint8(y * 4), B: 77, A: 255})
		}
	}

	a := New().Extract(img)
	b := New().Extract(img)
	if a != b {
		t.Errorf("extraction is not deterministic: %+v vs %+v", a, b)
	}
}

func TestExtractEmptyImageFallsBackToGrey(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8)) // fully transparent
	scheme := New().Extract(img)

	grey := color.NRGBA{R: 128, G: 128, B: 128, A: 255}
	if scheme.Primary != grey {
		t.Errorf("primary = %+v, want grey fallback", scheme.Primary)
	}
}
