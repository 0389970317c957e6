// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package imaging provides responsive image variant generation using libvips.
// It converts uploaded and AI-generated images into WebP variants optimised
// for mobile, tablet, and desktop breakpoints. Variants smaller than the
// source image are generated; larger ones are skipped to avoid upscaling.
package imaging

import (
	"fmt"
	"log/slog"

	"github.com/davidbyttow/govips/v2/vips"
)

// Variant describes a single responsive image size.
type Variant struct {
	Name    string // e.g., "sm", "md", "lg"
	Width   int    // target width in pixels
	Quality int    // WebP quality 1-100
}

// DefaultVariants defines the standard breakpoints for hosted web images.
var DefaultVariants = []Variant{
	{Name: "sm", Width: 640, Quality: 80},
	{Name: "md", Width: 1024, Quality: 80},
	{Name: "lg", Width: 1920, Quality: 80},
}

// ProcessedImage holds one generated variant ready for upload.
type ProcessedImage struct {
	Name        string // variant name (e.g., "sm")
	Width       int    // actual output width
	Height      int    // actual output height
	Data        []byte // WebP-encoded image bytes
	ContentType string // always "image/webp"
}

// Startup initialises the libvips library. Call once at application start.
// concurrency controls the number of libvips worker threads (0 = auto).
func Startup(concurrency int) {
	cfg := &vips.Config{
		ConcurrencyLevel: concurrency,
		MaxCacheSize:     100,
		MaxCacheMem:      50 * 1024 * 1024, // 50 MB
	}
	vips.LoggingSettings(nil, vips.LogLevelWarning)
	vips.Startup(cfg)
	slog.Info("libvips started", "version", vips.Version)
}

// Shutdown releases libvips resources. Call at application shutdown.
func Shutdown() {
	vips.Shutdown()
}

// Processor converts raw image bytes into WebP variants. It satisfies the
// handlers' ImageProcessor interface.
type Processor struct {
	variants []Variant
}

// NewProcessor creates a Processor with the given breakpoints, falling
// back to DefaultVariants when none are provided.
func NewProcessor(variants []Variant) *Processor {
	if len(variants) == 0 {
		variants = DefaultVariants
	}
	return &Processor{variants: variants}
}

// Process creates WebP variants of the source image for each configured
// breakpoint. It skips variants wider than the original to avoid
// upscaling. Returns at least one variant (the smallest that fits).
func (p *Processor) Process(original []byte) ([]ProcessedImage, error) {
	// Probe original dimensions without fully decoding.
	probe, err := vips.NewImageFromBuffer(original)
	if err != nil {
		return nil, fmt.Errorf("imaging: probe failed: %w", err)
	}
	origWidth := probe.Width()
	probe.Close()

	var results []ProcessedImage

	for _, v := range p.variants {
		targetWidth := v.Width

		// Cap at original width to avoid upscaling.
		if origWidth <= targetWidth {
			targetWidth = origWidth
		}

		img, err := vips.NewThumbnailFromBuffer(original, targetWidth, 0, vips.InterestingNone)
		if err != nil {
			return nil, fmt.Errorf("imaging: thumbnail %s (%dpx): %w", v.Name, targetWidth, err)
		}

		// Auto-rotate based on EXIF orientation, then strip metadata.
		if err := img.AutoRotate(); err != nil {
			img.Close()
			return nil, fmt.Errorf("imaging: autorotate %s: %w", v.Name, err)
		}

		params := vips.NewWebpExportParams()
		params.Quality = v.Quality
		params.Lossless = false
		params.StripMetadata = true

		buf, meta, err := img.ExportWebp(params)
		img.Close()
		if err != nil {
			return nil, fmt.Errorf("imaging: export %s: %w", v.Name, err)
		}

		results = append(results, ProcessedImage{
			Name:        v.Name,
			Width:       meta.Width,
			Height:      meta.Height,
			Data:        buf,
			ContentType: "image/webp",
		})

		// Once the original width is covered, larger variants would all
		// be identical.
		if origWidth <= v.Width {
			break
		}
	}

	return results, nil
}
