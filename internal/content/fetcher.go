// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package content

import (
	"context"
	"encoding/json"
	"strings"

	"sitesmith/internal/apperr"
)

// TextGenerator is the slice of the AI provider registry the fetcher needs.
type TextGenerator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Fetcher turns business parameters into a parsed content tree by calling
// the LLM once per request. No retries: provider failures surface as
// Upstream errors, unparseable payloads as MalformedContent.
type Fetcher struct {
	gen TextGenerator
}

// NewFetcher creates a Fetcher backed by the given text generator.
func NewFetcher(gen TextGenerator) *Fetcher {
	return &Fetcher{gen: gen}
}

// FetchSinglePage requests and parses the flat single-page content tree.
func (f *Fetcher) FetchSinglePage(ctx context.Context, biz, niche string) (*SinglePage, error) {
	raw, err := f.gen.Generate(ctx, systemPrompt, singlePagePrompt(biz, niche))
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, "The content generation service failed.", err)
	}

	var tree SinglePage
	if err := decodeTree(raw, &tree); err != nil {
		return nil, apperr.Wrap(apperr.MalformedContent, "Generated content could not be parsed.", err)
	}
	if err := tree.Validate(); err != nil {
		return nil, apperr.Wrap(apperr.MalformedContent, "Generated content is incomplete.", err)
	}
	return &tree, nil
}

// FetchMultiPage requests and parses the nested multi-page content tree.
func (f *Fetcher) FetchMultiPage(ctx context.Context, biz, niche string) (*MultiPage, error) {
	raw, err := f.gen.Generate(ctx, systemPrompt, multiPagePrompt(biz, niche))
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, "The content generation service failed.", err)
	}

	var tree MultiPage
	if err := decodeTree(raw, &tree); err != nil {
		return nil, apperr.Wrap(apperr.MalformedContent, "Generated content could not be parsed.", err)
	}
	if err := tree.Validate(); err != nil {
		return nil, apperr.Wrap(apperr.MalformedContent, "Generated content is incomplete.", err)
	}
	return &tree, nil
}

// decodeTree strips any code fences the model added despite instructions
// and unmarshals the remaining JSON object into dst.
func decodeTree(raw string, dst any) error {
	return json.Unmarshal([]byte(stripCodeFences(raw)), dst)
}

// stripCodeFences removes a surrounding ```...``` block if present and
// trims everything outside the outermost JSON object. Models occasionally
// wrap JSON in fences or add a preamble even when told not to.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "```") {
		// Drop the opening fence line (``` or ```json).
		if idx := strings.IndexByte(s, '\n'); idx != -1 {
			s = s[idx+1:]
		}
		if idx := strings.LastIndex(s, "```"); idx != -1 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}

	// Keep only the outermost JSON object.
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start != -1 && end > start {
		s = s[start : end+1]
	}
	return s
}
