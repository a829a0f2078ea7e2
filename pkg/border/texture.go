package border

import (
	"image/color"
	"math"

	"github.com/fogleman/gg"

	"github.com/menta2k/token-forge/pkg/types"
)

// Noise amplitudes and channel damping for the procedural textures.
const (
	leatherAmplitude = 15
	woodAmplitude    = 20
	stoneAmplitude   = 25
	woodGreenDamping = 0.8
	woodBlueDamping  = 0.6
)

// leatherNoise is a single sinusoidal product giving a dimpled grain.
func leatherNoise(x, y int) float64 {
	return math.Sin(float64(x)*0.5) * math.Cos(float64(y)*0.5) * leatherAmplitude
}

// woodNoise skews the coordinate blend so the bands run like grain lines.
func woodNoise(x, y int) float64 {
	return math.Sin(float64(x)*0.1+float64(y)*0.05) * woodAmplitude
}

// stoneNoise sums two sinusoidal products at different frequencies for a
// mottled surface. Total amplitude 25.
func stoneNoise(x, y int) float64 {
	fx, fy := float64(x), float64(y)
	coarse := math.Sin(fx*0.2) * math.Cos(fy*0.2)
	fine := math.Sin(fx*0.7) * math.Cos(fy*0.7)
	return (coarse + fine) * (stoneAmplitude / 2)
}

func paintSolid(dc *gg.Context, center, outerR float64, colors types.ColorScheme) {
	dc.SetColor(colors.Primary)
	dc.DrawCircle(center, center, outerR)
	dc.Fill()
}

// paintGradient is the default texture: a radial sweep across the ring's
// radial extent only, primary at the inner edge through to accent at the rim.
func paintGradient(dc *gg.Context, center, innerR, outerR float64, colors types.ColorScheme) {
	grad := gg.NewRadialGradient(center, center, innerR, center, center, outerR)
	grad.AddColorStop(0, colors.Primary)
	grad.AddColorStop(0.5, colors.Secondary)
	grad.AddColorStop(1, colors.Accent)
	dc.SetFillStyle(grad)
	dc.DrawCircle(center, center, outerR)
	dc.Fill()
}

// paintMetallic lays a diagonal specular sheen over the primary base:
// near-white at 60% opacity in the light corner fading to near-black at 30%.
func paintMetallic(dc *gg.Context, center, outerR float64, colors types.ColorScheme) {
	paintSolid(dc, center, outerR, colors)

	size := 2 * center
	sheen := gg.NewLinearGradient(0, 0, size, size)
	sheen.AddColorStop(0, color.NRGBA{R: 250, G: 250, B: 250, A: 153})
	sheen.AddColorStop(1, color.NRGBA{R: 10, G: 10, B: 10, A: 77})
	dc.SetFillStyle(sheen)
	dc.DrawCircle(center, center, outerR)
	dc.Fill()
}

// paintCrystal simulates faceted refraction with two translucent white
// highlights interleaved between the primary and accent colors.
func paintCrystal(dc *gg.Context, center, innerR, outerR float64, colors types.ColorScheme) {
	grad := gg.NewRadialGradient(center, center, innerR, center, center, outerR)
	grad.AddColorStop(0, colors.Primary)
	grad.AddColorStop(0.35, color.NRGBA{R: 255, G: 255, B: 255, A: 178})
	grad.AddColorStop(0.7, colors.Accent)
	grad.AddColorStop(1, color.NRGBA{R: 255, G: 255, B: 255, A: 204})
	dc.SetFillStyle(grad)
	dc.DrawCircle(center, center, outerR)
	dc.Fill()
}

// paintGlow layers a luminous edge over an opaque primary ring: an outer
// falloff of brightened primary toward the rim and an inner white-to-accent
// highlight. Both layers sit on the solid base so ring opacity stays full.
func paintGlow(dc *gg.Context, center, innerR, outerR float64, colors types.ColorScheme) {
	paintSolid(dc, center, outerR, colors)

	midR := (innerR + outerR) / 2
	halo := lighten(colors.Primary, 70)

	outer := gg.NewRadialGradient(center, center, midR, center, center, outerR)
	outer.AddColorStop(0, color.NRGBA{R: halo.R, G: halo.G, B: halo.B, A: 0})
	outer.AddColorStop(1, color.NRGBA{R: halo.R, G: halo.G, B: halo.B, A: 160})
	dc.SetFillStyle(outer)
	dc.DrawCircle(center, center, outerR)
	dc.Fill()

	highlight := mix(color.NRGBA{R: 255, G: 255, B: 255, A: 255}, colors.Accent, 0.5)
	inner := gg.NewRadialGradient(center, center, innerR, center, center, midR)
	inner.AddColorStop(0, color.NRGBA{R: highlight.R, G: highlight.G, B: highlight.B, A: 180})
	inner.AddColorStop(1, color.NRGBA{R: highlight.R, G: highlight.G, B: highlight.B, A: 0})
	dc.SetFillStyle(inner)
	dc.DrawCircle(center, center, outerR)
	dc.Fill()
}

// mix blends a toward b by t in [0,1].
func mix(a, b color.NRGBA, t float64) color.NRGBA {
	lerp := func(x, y uint8) uint8 {
		return clampChannel(float64(x) + (float64(y)-float64(x))*t)
	}
	return color.NRGBA{R: lerp(a.R, b.R), G: lerp(a.G, b.G), B: lerp(a.B, b.B), A: 255}
}

// lighten raises every channel by amt, saturating at white.
func lighten(c color.NRGBA, amt float64) color.NRGBA {
	return color.NRGBA{
		R: clampChannel(float64(c.R) + amt),
		G: clampChannel(float64(c.G) + amt),
		B: clampChannel(float64(c.B) + amt),
		A: 255,
	}
}
