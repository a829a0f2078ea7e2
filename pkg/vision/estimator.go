// Package vision provides a model-free face-region estimate from pixel data.
// It is the local fallback used when no vision backend is configured: a
// saliency scan picks the most detailed region of the image as the likely
// face area. It only yields a bounding box, never landmarks, so crops built
// on it always take the bounding-box path.
package vision

import (
	"image"
	"math"

	"github.com/menta2k/token-forge/pkg/types"
)

// Estimator locates the most salient region of an image.
type Estimator struct {
	config Config
}

// Config holds configuration for region estimation.
type Config struct {
	// ScoreThreshold is the minimum mean saliency a window needs to count as
	// a candidate at all; featureless images produce no estimate.
	ScoreThreshold float64
	// WindowRatio sizes the scan window relative to the shorter image side.
	WindowRatio float64
	// CenterWeight biases the scan toward the image center, where portrait
	// subjects usually are.
	CenterWeight float64
}

// New creates an Estimator with default configuration.
func New() *Estimator {
	return &Estimator{
		config: Config{
			ScoreThreshold: 0.02,
			WindowRatio:    0.4,
			CenterWeight:   0.3,
		},
	}
}

// NewWithConfig creates an Estimator with custom configuration.
func NewWithConfig(config Config) *Estimator {
	return &Estimator{config: config}
}

// EstimateFaceRegion scans a saliency grid with a sliding window and returns
// the best-scoring window as an approximate face box. ok is false when the
// image is too small to scan or nothing clears the threshold; callers then
// substitute geometry.FallbackFace.
func (e *Estimator) EstimateFaceRegion(img image.Image) (types.Rect, bool) {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width < 16 || height < 16 {
		return types.Rect{}, false
	}

	saliency := e.saliencyGrid(img)

	short := width
	if height < short {
		short = height
	}
	window := int(float64(short) * e.config.WindowRatio)
	if window < 8 {
		window = 8
	}
	step := window / 8
	if step < 1 {
		step = 1
	}

	bestScore := 0.0
	bestX, bestY := (width-window)/2, (height-window)/2
	found := false

	for y := 0; y+window <= height; y += step {
		for x := 0; x+window <= width; x += step {
			score := e.windowScore(saliency, x, y, window)
			if score < e.config.ScoreThreshold {
				continue
			}
			weighted := score * (1 + e.config.CenterWeight*centerBias(x, y, window, width, height))
			if weighted > bestScore {
				bestScore = weighted
				bestX, bestY = x, y
				found = true
			}
		}
	}

	if !found {
		return types.Rect{}, false
	}
	return types.Rect{
		X:      float64(bestX),
		Y:      float64(bestY),
		Width:  float64(window),
		Height: float64(window),
	}, true
}

// saliencyGrid measures per-pixel edge strength against the four direct
// neighbors, normalized to [0,1].
func (e *Estimator) saliencyGrid(img image.Image) [][]float64 {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	grid := make([][]float64, height)
	for i := range grid {
		grid[i] = make([]float64, width)
	}

	lum := make([][]float64, height)
	for y := 0; y < height; y++ {
		lum[y] = make([]float64, width)
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			lum[y][x] = (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)) / 65535.0
		}
	}

	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			dx := lum[y][x+1] - lum[y][x-1]
			dy := lum[y+1][x] - lum[y-1][x]
			grid[y][x] = math.Sqrt(dx*dx+dy*dy) / math.Sqrt2
		}
	}

	return grid
}

func (e *Estimator) windowScore(grid [][]float64, x, y, window int) float64 {
	var total float64
	count := 0
	for ry := y; ry < y+window && ry < len(grid); ry++ {
		for rx := x; rx < x+window && rx < len(grid[ry]); rx++ {
			total += grid[ry][rx]
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

// centerBias is 1 when the window is centered on the image and falls off
// linearly with the offset.
func centerBias(x, y, window, width, height int) float64 {
	cx := float64(x) + float64(window)/2
	cy := float64(y) + float64(window)/2
	dx := (cx - float64(width)/2) / float64(width)
	dy := (cy - float64(height)/2) / float64(height)
	d := math.Hypot(dx, dy)
	if d > 1 {
		d = 1
	}
	return 1 - d
}
