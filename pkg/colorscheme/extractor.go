// Package colorscheme derives a border color palette from an image by
// sampling its pixels.
package colorscheme

import (
	"image"
	"image/color"

	"github.com/menta2k/token-forge/pkg/types"
)

// Extractor samples image pixels and buckets them into a coarse color
// histogram to pick dominant colors.
type Extractor struct {
	config Config
}

// Config holds configuration for color extraction.
type Config struct {
	// SampleStride skips pixels between samples; higher is faster.
	SampleStride int
	// MinAlpha drops nearly transparent pixels from the histogram.
	MinAlpha uint8
}

// New creates an Extractor with default configuration.
func New() *Extractor {
	return &Extractor{
		config: Config{
			SampleStride: 4,
			MinAlpha:     128,
		},
	}
}

// NewWithConfig creates an Extractor with custom configuration.
func NewWithConfig(config Config) *Extractor {
	if config.SampleStride < 1 {
		config.SampleStride = 1
	}
	return &Extractor{config: config}
}

// Extract returns the color scheme for an image: primary is the dominant
// quantized color, accent the runner-up, secondary a lightened primary and
// border a darkened primary. Deterministic for identical pixels.
func (e *Extractor) Extract(img image.Image) types.ColorScheme {
	primary, accent := e.dominantPair(img)
	return types.ColorScheme{
		Primary:   primary,
		Secondary: scale(primary, 1.35),
		Accent:    accent,
		Border:    scale(primary, 0.55),
	}
}

// dominantPair buckets sampled pixels into a 4-bit-per-channel histogram and
// returns the mean colors of the two most populated buckets.
func (e *Extractor) dominantPair(img image.Image) (color.NRGBA, color.NRGBA) {
	type bucket struct {
		count   int
		r, g, b uint64
	}
	hist := make(map[uint16]*bucket)

	bounds := img.Bounds()
	stride := e.config.SampleStride
	for y := bounds.Min.Y; y < bounds.Max.Y; y += stride {
		for x := bounds.Min.X; x < bounds.Max.X; x += stride {
			r, g, b, a := img.At(x, y).RGBA()
			if uint8(a>>8) < e.config.MinAlpha {
				continue
			}
			r8, g8, b8 := uint8(r>>8), uint8(g>>8), uint8(b>>8)
			key := uint16(r8>>4)<<8 | uint16(g8>>4)<<4 | uint16(b8>>4)
			bk := hist[key]
			if bk == nil {
				bk = &bucket{}
				hist[key] = bk
			}
			bk.count++
			bk.r += uint64(r8)
			bk.g += uint64(g8)
			bk.b += uint64(b8)
		}
	}

	if len(hist) == 0 {
		grey := color.NRGBA{R: 128, G: 128, B: 128, A: 255}
		return grey, grey
	}

	var bestKey, secondKey uint16
	var best, second *bucket
	for key, bk := range hist {
		switch {
		case best == nil || bk.count > best.count || (bk.count == best.count && key < bestKey):
			second, secondKey = best, bestKey
			best, bestKey = bk, key
		case second == nil || bk.count > second.count || (bk.count == second.count && key < secondKey):
			second, secondKey = bk, key
		}
	}
	if second == nil {
		second = best
	}

	return bucketMean(best.r, best.g, best.b, best.count), bucketMean(second.r, second.g, second.b, second.count)
}

func bucketMean(r, g, b uint64, count int) color.NRGBA {
	n := uint64(count)
	return color.NRGBA{
		R: uint8(r / n),
		G: uint8(g / n),
		B: uint8(b / n),
		A: 255,
	}
}

// scale multiplies every channel by f, saturating at the channel bounds.
func scale(c color.NRGBA, f float64) color.NRGBA {
	ch := func(v uint8) uint8 {
		s := float64(v) * f
		if s > 255 {
			return 255
		}
		if s < 0 {
			return 0
		}
		return uint8(s)
	}
	return color.NRGBA{R: ch(c.R), G: ch(c.G), B: ch(c.B), A: 255}
}
