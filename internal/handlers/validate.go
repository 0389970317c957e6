package handlers

import (
	"path/filepath"
	"strings"
	"unicode/utf8"

	"sitesmith/internal/site"
)

// Validation limits for generation request fields.
const (
	maxBizLen    = 200
	maxNicheLen  = 200
	maxImages    = 5
	maxPromptLen = 2_000
)

// GenerateRequest is the JSON body accepted by the generation endpoint.
type GenerateRequest struct {
	Biz         string   `json:"biz"`
	Niche       string   `json:"niche"`
	Theme       string   `json:"theme"`
	WebsiteType string   `json:"websiteType"`
	Images      []string `json:"images"`
}

// validateGenerate checks the request and returns the first error found
// as a human-readable message, or "" if the request is valid. It also
// normalizes defaults in place.
func validateGenerate(req *GenerateRequest) string {
	req.Biz = strings.TrimSpace(req.Biz)
	req.Niche = strings.TrimSpace(req.Niche)

	if req.Biz == "" {
		return "Business name is required."
	}
	if utf8.RuneCountInString(req.Biz) > maxBizLen {
		return "Business name is too long (max 200 characters)."
	}
	if req.Niche == "" {
		return "Business niche is required."
	}
	if utf8.RuneCountInString(req.Niche) > maxNicheLen {
		return "Business niche is too long (max 200 characters)."
	}

	if req.Theme == "" {
		req.Theme = "light"
	}
	if !site.Theme(req.Theme).Valid() {
		return "Theme must be \"light\" or \"dark\"."
	}

	if req.WebsiteType == "" {
		req.WebsiteType = "single"
	}
	if !site.Variant(req.WebsiteType).Valid() {
		return "Website type must be \"single\" or \"multi\"."
	}

	if len(req.Images) > maxImages {
		return "Too many images (max 5)."
	}

	return ""
}

// imageFilenames reduces upload URLs or paths to bare filenames,
// dropping entries that resolve to nothing usable.
func imageFilenames(images []string) []string {
	out := make([]string, 0, len(images))
	for _, img := range images {
		name := filepath.Base(strings.TrimSpace(img))
		if name == "" || name == "." || name == string(filepath.Separator) {
			continue
		}
		out = append(out, name)
	}
	return out
}
