// Package border paints the token's circular border ring. Each texture fills
// the full disc, then a finalize pass punches the transparent interior disc
// and normalizes ring opacity, turning the filled disc into an annulus.
package border

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/menta2k/token-forge/pkg/types"
)

// Render draws a border ring onto a fresh size×size surface. The visible
// result is an annulus between radius size/2-widthPx and size/2; everything
// else is fully transparent. Deterministic for identical inputs.
func Render(size, widthPx int, colors types.ColorScheme, tex types.Texture) *image.NRGBA {
	if size < 2 {
		size = 2
	}
	if widthPx < 1 {
		widthPx = 1
	}
	if widthPx > size/2 {
		widthPx = size / 2
	}

	center := float64(size) / 2
	outerR := float64(size) / 2
	innerR := outerR - float64(widthPx)

	dc := gg.NewContext(size, size)
	switch tex {
	case types.TextureSolid:
		paintSolid(dc, center, outerR, colors)
	case types.TextureGradient:
		paintGradient(dc, center, innerR, outerR, colors)
	case types.TextureMetallic:
		paintMetallic(dc, center, outerR, colors)
	case types.TextureLeather, types.TextureWood, types.TextureStone:
		paintSolid(dc, center, outerR, colors)
	case types.TextureCrystal:
		paintCrystal(dc, center, innerR, outerR, colors)
	case types.TextureGlow:
		paintGlow(dc, center, innerR, outerR, colors)
	default:
		paintGradient(dc, center, innerR, outerR, colors)
	}

	img := imaging.Clone(dc.Image())

	switch tex {
	case types.TextureLeather:
		applyNoise(img, center, innerR, outerR, leatherNoise, 1, 1, 1)
	case types.TextureWood:
		applyNoise(img, center, innerR, outerR, woodNoise, 1, woodGreenDamping, woodBlueDamping)
	case types.TextureStone:
		applyNoise(img, center, innerR, outerR, stoneNoise, 1, 1, 1)
	}

	punchRing(img, center, innerR, outerR, colors)
	return img
}

// applyNoise perturbs every ring pixel by a closed-form noise value, damped
// per channel and clamped to [0,255]. Pixels outside the band are untouched.
func applyNoise(img *image.NRGBA, center, innerR, outerR float64, noise func(x, y int) float64, dr, dg, db float64) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			d := pixelDist(x, y, center)
			if d < innerR || d > outerR {
				continue
			}
			n := noise(x, y)
			i := y*img.Stride + x*4
			img.Pix[i+0] = clampChannel(float64(img.Pix[i+0]) + n*dr)
			img.Pix[i+1] = clampChannel(float64(img.Pix[i+1]) + n*dg)
			img.Pix[i+2] = clampChannel(float64(img.Pix[i+2]) + n*db)
		}
	}
}

// punchRing is the step shared by all textures: interior disc and exterior
// become fully transparent, band pixels fully opaque. Band pixels the
// rasterizer left uncovered (possible at the very rim) take the primary color.
func punchRing(img *image.NRGBA, center, innerR, outerR float64, colors types.ColorScheme) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			i := y*img.Stride + x*4
			d := pixelDist(x, y, center)
			if d < innerR || d > outerR {
				img.Pix[i+0] = 0
				img.Pix[i+1] = 0
				img.Pix[i+2] = 0
				img.Pix[i+3] = 0
				continue
			}
			if img.Pix[i+3] == 0 {
				img.Pix[i+0] = colors.Primary.R
				img.Pix[i+1] = colors.Primary.G
				img.Pix[i+2] = colors.Primary.B
			}
			img.Pix[i+3] = 255
		}
	}
}

// pixelDist measures from the pixel center to the disc center.
func pixelDist(x, y int, center float64) float64 {
	return math.Hypot(float64(x)+0.5-center, float64(y)+0.5-center)
}

func clampChannel(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
