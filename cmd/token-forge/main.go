package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	charmlog "github.com/charmbracelet/log"

	tokenforge "github.com/menta2k/token-forge"
	"github.com/menta2k/token-forge/internal/config"
	"github.com/menta2k/token-forge/internal/utils"
	"github.com/menta2k/token-forge/pkg/detection"
	"github.com/menta2k/token-forge/pkg/ollama"
	"github.com/menta2k/token-forge/pkg/processing"
	"github.com/menta2k/token-forge/pkg/types"
)

func main() {
	var in, outDir, texture, borderSize, colorHex, faceSpec, ext string
	var backend, model, url string
	var zoom int
	var panX, panY float64
	var quality int
	var lossless, debug, verbose bool

	flag.StringVar(&in, "in", "", "input image path or URL (jpg/png/webp)")
	flag.StringVar(&outDir, "out", "out", "output directory")

	flag.StringVar(&texture, "texture", "gradient", "border texture: solid|gradient|metallic|leather|wood|stone|crystal|glow")
	flag.StringVar(&borderSize, "border", "thin", "border thickness: thin|thick")
	flag.StringVar(&colorHex, "color", "", "custom border color as #RRGGBB (default: auto-extracted)")

	flag.IntVar(&zoom, "zoom", 100, "zoom percent (50-150)")
	flag.Float64Var(&panX, "panx", 0, "horizontal pan offset in source pixels")
	flag.Float64Var(&panY, "pany", 0, "vertical pan offset in source pixels")

	flag.StringVar(&faceSpec, "face", "", "manual face box as x,y,w,h in source pixels (skips detection)")
	flag.StringVar(&backend, "backend", "none", "face detection backend: none|ollama")
	flag.StringVar(&model, "model", "openbmb/minicpm-v4.5", "vision model name")
	flag.StringVar(&url, "url", "http://localhost:11434", "vision backend server URL")

	flag.StringVar(&ext, "ext", "png", "output format: png|jpg|webp")
	flag.IntVar(&quality, "quality", 90, "JPEG/WebP output quality (1-100)")
	flag.BoolVar(&lossless, "lossless", false, "WebP lossless mode")
	flag.BoolVar(&debug, "debug", false, "also write a debug overlay with face and crop boxes")
	flag.BoolVar(&verbose, "v", false, "verbose logging")

	flag.Parse()

	logger := charmlog.NewWithOptions(os.Stderr, charmlog.Options{ReportTimestamp: true})
	if verbose {
		logger.SetLevel(charmlog.DebugLevel)
	}

	if in == "" {
		logger.Fatalf("usage: %s -in input.jpg|URL [-texture gradient] [-border thin|thick] [-zoom 120] [-color #AA7733] [-backend ollama]", filepath.Base(os.Args[0]))
	}
	if err := utils.EnsureDir(outDir); err != nil {
		logger.Fatal("failed to create output directory", "err", err)
	}

	cfg := config.Default()
	cfg.Detection.Backend = backend
	cfg.Detection.Model = model
	cfg.Detection.ServerURL = url
	cfg.Output.Format = ext
	cfg.Output.Quality = quality
	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid configuration", "err", err)
	}

	processor := processing.NewProcessor()
	img, err := processor.LoadImageSmart(in)
	if err != nil {
		logger.Fatal("failed to load image", "err", err)
	}
	bounds := img.Bounds()
	logger.Info("image loaded", "source", in, "size", fmt.Sprintf("%dx%d", bounds.Dx(), bounds.Dy()))

	var opts []tokenforge.Option
	if backend == "ollama" && faceSpec == "" {
		client, err := ollama.NewClient(url)
		if err != nil {
			logger.Fatal("failed to create ollama client", "err", err)
		}
		detCfg := detection.DefaultConfig()
		detCfg.Model = model
		detCfg.MinConfidence = cfg.Detection.MinConfidence
		detector := detection.NewDetectorWithConfig(client, detCfg)
		logger.Debug("initializing vision backend", "url", url, "model", model)
		if err := detector.Initialize(context.Background()); err != nil {
			logger.Warn("vision backend unavailable, using local estimate", "err", err)
		} else {
			opts = append(opts, tokenforge.WithDetector(detector))
		}
	}

	session := tokenforge.NewSession(opts...)
	if err := session.LoadImage(img); err != nil {
		logger.Fatal("failed to start session", "err", err)
	}

	if faceSpec != "" {
		box, err := parseFaceSpec(faceSpec)
		if err != nil {
			logger.Fatal("invalid -face value", "err", err)
		}
		if err := session.SetFace(types.FaceGeometry{Box: box}); err != nil {
			logger.Fatal("failed to apply face box", "err", err)
		}
	}

	tex, err := types.ParseTexture(texture)
	if err != nil {
		logger.Fatal("invalid texture", "err", err)
	}
	if err := session.SetTexture(tex); err != nil {
		logger.Fatal("failed to set texture", "err", err)
	}

	widthPx := types.BorderThin
	if strings.EqualFold(borderSize, "thick") {
		widthPx = types.BorderThick
	}
	if err := session.SetBorderWidth(widthPx); err != nil {
		logger.Fatal("failed to set border width", "err", err)
	}

	if colorHex != "" {
		r, g, b, err := parseHexColor(colorHex)
		if err != nil {
			logger.Fatal("invalid -color value", "err", err)
		}
		if err := session.SetCustomColor(r, g, b); err != nil {
			logger.Fatal("failed to set custom color", "err", err)
		}
	}

	if err := session.SetZoomPercent(zoom); err != nil {
		logger.Fatal("failed to set zoom", "err", err)
	}
	if panX != 0 || panY != 0 {
		if err := session.SetPan(panX, panY); err != nil {
			logger.Fatal("failed to set pan", "err", err)
		}
	}

	token, crop, err := session.Token()
	if err != nil {
		logger.Fatal("failed to render token", "err", err)
	}
	logger.Info("token rendered",
		"texture", tex.String(),
		"border_px", widthPx,
		"crop", fmt.Sprintf("%.0f,%.0f %.0fx%.0f", crop.X, crop.Y, crop.Width, crop.Height))

	outPath := utils.GenerateOutputFilename(in, outDir, "_token", ext)
	if err := processor.SaveImage(token, outPath, ext, quality, lossless); err != nil {
		logger.Fatal("failed to save token", "err", err)
	}
	logger.Info("token saved", "path", outPath)

	if debug {
		overlay := processor.CreateDebugOverlay(img, session.Face(), crop)
		dbgPath := utils.GenerateOutputFilename(in, outDir, "_debug", "png")
		if err := processor.SaveImage(overlay, dbgPath, "png", quality, false); err != nil {
			logger.Fatal("failed to save debug overlay", "err", err)
		}
		logger.Info("debug overlay saved", "path", dbgPath)
	}
}

// parseFaceSpec parses "x,y,w,h" in source pixels.
func parseFaceSpec(spec string) (types.Rect, error) {
	parts := strings.Split(spec, ",")
	if len(parts) != 4 {
		return types.Rect{}, fmt.Errorf("expected x,y,w,h, got %q", spec)
	}
	vals := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return types.Rect{}, fmt.Errorf("bad number %q: %w", p, err)
		}
		vals[i] = v
	}
	if vals[2] <= 0 || vals[3] <= 0 {
		return types.Rect{}, fmt.Errorf("face box width and height must be positive")
	}
	return types.Rect{X: vals[0], Y: vals[1], Width: vals[2], Height: vals[3]}, nil
}

// parseHexColor parses #RRGGBB or RRGGBB.
func parseHexColor(s string) (uint8, uint8, uint8, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return 0, 0, 0, fmt.Errorf("expected RRGGBB, got %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("bad hex color %q: %w", s, err)
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), nil
}
