// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package site renders parsed content trees into complete HTML documents.
// Rendering is a pure function of (content, variant, theme, images):
// identical inputs always produce byte-identical output. Templates are
// embedded in the binary and compiled once at construction.
package site

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"path"
	"sort"

	"sitesmith/internal/content"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page is one rendered HTML document.
type Page struct {
	Filename string
	HTML     []byte
}

// Renderer holds the compiled template set.
type Renderer struct {
	templates *template.Template
}

// NewRenderer compiles the embedded templates. An error here means the
// binary shipped with broken templates, so callers treat it as fatal.
func NewRenderer() (*Renderer, error) {
	t, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse embedded templates: %w", err)
	}
	return &Renderer{templates: t}, nil
}

// singlePageData is the variable set available to the single-page template.
type singlePageData struct {
	SiteTitle    string
	Tagline      string
	AboutHTML    template.HTML
	ServicesHTML template.HTML
	Images       []string
	Palette      Palette
}

// multiPageData is the variable set shared by the three multi-page templates.
type multiPageData struct {
	Branding content.Branding
	Hero     content.Hero
	Services []content.Service
	About    content.About
	BodyHTML template.HTML
	Contact  content.Contact
	Footer   content.Footer
	Images   []string
	Palette  Palette
}

// RenderSingle renders the single-page variant: one index.html document.
// images holds bare filenames that the packager will place under images/.
func (r *Renderer) RenderSingle(tree *content.SinglePage, theme Theme, images []string) ([]Page, error) {
	data := singlePageData{
		SiteTitle:    tree.Headline,
		Tagline:      tree.Tagline,
		AboutHTML:    template.HTML(markdownToHTML(tree.About)),
		ServicesHTML: template.HTML(markdownToHTML(tree.Services)),
		Images:       images,
		Palette:      PaletteFor(theme),
	}

	page, err := r.render("single.html", "index.html", data)
	if err != nil {
		return nil, err
	}
	return []Page{page}, nil
}

// RenderMulti renders the three-page variant: index, about, and contact
// documents sharing one navigation and footer.
func (r *Renderer) RenderMulti(tree *content.MultiPage, theme Theme, images []string) ([]Page, error) {
	data := multiPageData{
		Branding: tree.Branding,
		Hero:     tree.Hero,
		Services: tree.Services,
		About:    tree.About,
		BodyHTML: template.HTML(markdownToHTML(tree.About.Body)),
		Contact:  tree.Contact,
		Footer:   tree.Footer,
		Images:   images,
		Palette:  PaletteFor(theme),
	}

	var pages []Page
	for tmpl, out := range map[string]string{
		"multi_index.html":   "index.html",
		"multi_about.html":   "about.html",
		"multi_contact.html": "contact.html",
	} {
		page, err := r.render(tmpl, out, data)
		if err != nil {
			return nil, err
		}
		pages = append(pages, page)
	}

	// Map iteration order is random; keep the document set ordered.
	sort.Slice(pages, func(i, j int) bool { return pages[i].Filename < pages[j].Filename })
	return pages, nil
}

// render executes a named template into a Page.
func (r *Renderer) render(templateName, outputName string, data any) (Page, error) {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, path.Base(templateName), data); err != nil {
		return Page{}, fmt.Errorf("execute template %s: %w", templateName, err)
	}
	return Page{Filename: outputName, HTML: buf.Bytes()}, nil
}
