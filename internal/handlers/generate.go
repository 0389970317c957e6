// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"

	"github.com/spf13/afero"

	"sitesmith/internal/content"
	"sitesmith/internal/packager"
	"sitesmith/internal/site"
)

// maxGenerateBody caps the JSON request body for generation requests.
const maxGenerateBody = 64 << 10

// ContentFetcher obtains website copy from an AI provider.
type ContentFetcher interface {
	FetchSinglePage(ctx context.Context, biz, niche string) (*content.SinglePage, error)
	FetchMultiPage(ctx context.Context, biz, niche string) (*content.MultiPage, error)
}

// SiteRenderer turns a content tree into HTML documents.
type SiteRenderer interface {
	RenderSingle(tree *content.SinglePage, theme site.Theme, images []string) ([]site.Page, error)
	RenderMulti(tree *content.MultiPage, theme site.Theme, images []string) ([]site.Page, error)
}

// SitePackager writes rendered documents to disk and produces a zip archive.
type SitePackager interface {
	Package(s packager.Site) (*packager.Result, error)
	Cleanup(res *packager.Result)
	Open(res *packager.Result) (afero.File, os.FileInfo, error)
}

// Generator handles website generation requests.
type Generator struct {
	fetcher  ContentFetcher
	renderer SiteRenderer
	packager SitePackager
	dev      bool
}

// NewGenerator creates the generation handler.
func NewGenerator(fetcher ContentFetcher, renderer SiteRenderer, pkg SitePackager, dev bool) *Generator {
	return &Generator{
		fetcher:  fetcher,
		renderer: renderer,
		packager: pkg,
		dev:      dev,
	}
}

// Generate accepts business parameters, produces a complete website and
// streams it back as a zip archive. The working directory and archive
// are removed after the response regardless of outcome.
func (g *Generator) Generate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxGenerateBody)

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMsg(w, http.StatusBadRequest, "validation_error", "Invalid JSON body.")
		return
	}
	if msg := validateGenerate(&req); msg != "" {
		writeErrorMsg(w, http.StatusBadRequest, "validation_error", msg)
		return
	}

	slog.Info("generating website",
		"biz", req.Biz,
		"niche", req.Niche,
		"theme", req.Theme,
		"type", req.WebsiteType,
		"images", len(req.Images),
	)

	ctx := r.Context()
	theme := site.Theme(req.Theme)
	// Upload URLs like /uploads/abc.png reduce to bare filenames; the
	// packager copies them into images/ and the templates link there.
	images := imageFilenames(req.Images)

	var pages []site.Page
	switch site.Variant(req.WebsiteType) {
	case site.VariantMulti:
		tree, err := g.fetcher.FetchMultiPage(ctx, req.Biz, req.Niche)
		if err != nil {
			writeError(w, err, g.dev)
			return
		}
		pages, err = g.renderer.RenderMulti(tree, theme, images)
		if err != nil {
			writeError(w, err, g.dev)
			return
		}
	default:
		tree, err := g.fetcher.FetchSinglePage(ctx, req.Biz, req.Niche)
		if err != nil {
			writeError(w, err, g.dev)
			return
		}
		pages, err = g.renderer.RenderSingle(tree, theme, images)
		if err != nil {
			writeError(w, err, g.dev)
			return
		}
	}

	res, err := g.packager.Package(packager.Site{
		BusinessName: req.Biz,
		Pages:        pages,
		Images:       images,
	})
	if err != nil {
		writeError(w, err, g.dev)
		return
	}
	defer g.packager.Cleanup(res)

	f, info, err := g.packager.Open(res)
	if err != nil {
		writeError(w, err, g.dev)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="website.zip"`)
	w.Header().Set("Content-Length", strconv.FormatInt(info.Size(), 10))
	if _, err := io.Copy(w, f); err != nil {
		// Headers are already sent, nothing to do but log.
		slog.Error("zip stream interrupted", "error", err)
	}
}
