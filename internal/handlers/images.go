// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/google/uuid"
	_ "golang.org/x/image/webp" // register WebP decoder

	"sitesmith/internal/apperr"
	"sitesmith/internal/imaging"
)

const (
	// maxHostedUploadSize is the per-file limit for hosted uploads (5 MB).
	maxHostedUploadSize = 5 << 20

	// maxImagePixels caps decoded size to prevent memory bombs.
	// 10000x10000 = 100 million pixels, ~400 MB decoded in RGBA.
	maxImagePixels = 100_000_000
)

// ObjectStore uploads files to the image host.
type ObjectStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	Delete(ctx context.Context, key string) error
	FileURL(key string) string
}

// ImageProcessor converts an original image into sized WebP variants.
type ImageProcessor interface {
	Process(original []byte) ([]imaging.ProcessedImage, error)
}

// PromptImageGenerator produces an image from a text prompt.
type PromptImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) ([]byte, string, error)
	SupportsImageGeneration() bool
}

// hostedImage is the response entry for a hosted image.
type hostedImage struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format string `json:"format"`
}

// Images handles hosted image upload and AI image generation.
type Images struct {
	store     ObjectStore
	processor ImageProcessor
	generator PromptImageGenerator
	dev       bool
}

// NewImages creates the hosted images handler. store may be nil when
// object storage is not configured; affected endpoints then return 503.
func NewImages(store ObjectStore, processor ImageProcessor, generator PromptImageGenerator, dev bool) *Images {
	return &Images{
		store:     store,
		processor: processor,
		generator: generator,
		dev:       dev,
	}
}

// Upload accepts up to 5 images in the multipart field "images",
// converts each into WebP variants, uploads all variants to the image
// host and returns the largest variant of each file.
func (h *Images) Upload(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeErrorMsg(w, http.StatusServiceUnavailable, "storage_unavailable", "Image hosting is not configured.")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadFiles*maxHostedUploadSize+1024)
	if err := r.ParseMultipartForm(maxHostedUploadSize); err != nil {
		writeErrorMsg(w, http.StatusRequestEntityTooLarge, "validation_error", "Upload too large. Maximum size is 5 MB per file.")
		return
	}

	files := r.MultipartForm.File["images"]
	if len(files) == 0 {
		writeErrorMsg(w, http.StatusBadRequest, "validation_error", "No files provided in field \"images\".")
		return
	}
	if len(files) > maxUploadFiles {
		writeErrorMsg(w, http.StatusBadRequest, "validation_error", "Too many files (max 5).")
		return
	}

	ctx := r.Context()
	results := make([]hostedImage, 0, len(files))
	for _, header := range files {
		if header.Size > maxHostedUploadSize {
			writeErrorMsg(w, http.StatusRequestEntityTooLarge, "validation_error",
				fmt.Sprintf("File %q is too large. Maximum size is 5 MB.", header.Filename))
			return
		}

		file, err := header.Open()
		if err != nil {
			writeError(w, apperr.Wrap(apperr.Filesystem, "Failed to read uploaded file.", err), h.dev)
			return
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			writeError(w, apperr.Wrap(apperr.Filesystem, "Failed to read uploaded file.", err), h.dev)
			return
		}

		// Reject non-image payloads before handing them to the processor.
		contentType := http.DetectContentType(data[:min(len(data), 512)])
		if !allowedImageTypes[contentType] {
			writeErrorMsg(w, http.StatusBadRequest, "validation_error",
				fmt.Sprintf("File type %q is not allowed.", contentType))
			return
		}

		img, err := h.processAndUpload(ctx, data)
		if err != nil {
			writeError(w, err, h.dev)
			return
		}
		results = append(results, *img)
	}

	writeJSON(w, http.StatusOK, map[string]any{"images": results})
}

// generateImageRequest is the JSON body for AI image generation.
type generateImageRequest struct {
	Prompt string `json:"prompt"`
}

// GenerateImage produces an image from a text prompt via the active AI
// provider and uploads it to the image host.
func (h *Images) GenerateImage(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeErrorMsg(w, http.StatusServiceUnavailable, "storage_unavailable", "Image hosting is not configured.")
		return
	}
	if h.generator == nil || !h.generator.SupportsImageGeneration() {
		writeErrorMsg(w, http.StatusServiceUnavailable, "upstream_error", "The active AI provider does not support image generation.")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxGenerateBody)
	var req generateImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMsg(w, http.StatusBadRequest, "validation_error", "Invalid JSON body.")
		return
	}
	req.Prompt = strings.TrimSpace(req.Prompt)
	if req.Prompt == "" {
		writeErrorMsg(w, http.StatusBadRequest, "validation_error", "Prompt is required.")
		return
	}
	if len(req.Prompt) > maxPromptLen {
		writeErrorMsg(w, http.StatusBadRequest, "validation_error", "Prompt is too long (max 2,000 characters).")
		return
	}

	ctx := r.Context()
	data, _, err := h.generator.GenerateImage(ctx, req.Prompt)
	if err != nil {
		writeError(w, err, h.dev)
		return
	}

	// Stage the generated bytes in a temp file so a failed upload never
	// leaves partial state in the hosting bucket.
	tmp, err := os.CreateTemp("", "genimg-*.bin")
	if err != nil {
		writeError(w, apperr.Wrap(apperr.Filesystem, "Failed to stage generated image.", err), h.dev)
		return
	}
	tmpName := tmp.Name()
	defer func() {
		if err := os.Remove(tmpName); err != nil && !os.IsNotExist(err) {
			slog.Warn("temp image removal failed", "error", err, "path", tmpName)
		}
	}()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		writeError(w, apperr.Wrap(apperr.Filesystem, "Failed to stage generated image.", err), h.dev)
		return
	}
	if err := tmp.Close(); err != nil {
		writeError(w, apperr.Wrap(apperr.Filesystem, "Failed to stage generated image.", err), h.dev)
		return
	}

	staged, err := os.ReadFile(tmpName)
	if err != nil {
		writeError(w, apperr.Wrap(apperr.Filesystem, "Failed to stage generated image.", err), h.dev)
		return
	}

	img, err := h.processAndUpload(ctx, staged)
	if err != nil {
		writeError(w, err, h.dev)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"image": img})
}

// processAndUpload converts an original image into WebP variants,
// uploads every variant and returns the largest one.
func (h *Images) processAndUpload(ctx context.Context, data []byte) (*hostedImage, error) {
	// Probe dimensions before a full decode to reject image bombs.
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		if int64(cfg.Width)*int64(cfg.Height) > maxImagePixels {
			return nil, apperr.New(apperr.Validation,
				fmt.Sprintf("Image is too large: %dx%d pixels.", cfg.Width, cfg.Height))
		}
	}

	variants, err := h.processor.Process(data)
	if err != nil {
		return nil, apperr.Wrap(apperr.ImageProcessing, "Failed to process image.", err)
	}
	if len(variants) == 0 {
		return nil, apperr.New(apperr.ImageProcessing, "Image processing produced no output.")
	}

	id := uuid.New().String()
	var largest *hostedImage
	for i := range variants {
		v := &variants[i]
		key := fmt.Sprintf("images/%s_%s.webp", id, v.Name)
		if err := h.store.Upload(ctx, key, v.ContentType, bytes.NewReader(v.Data), int64(len(v.Data))); err != nil {
			return nil, apperr.Wrap(apperr.Upstream, "Failed to upload image to the host.", err)
		}
		if largest == nil || v.Width > largest.Width {
			largest = &hostedImage{
				URL:    h.store.FileURL(key),
				Width:  v.Width,
				Height: v.Height,
				Format: "webp",
			}
		}
	}
	return largest, nil
}
