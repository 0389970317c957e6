// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package site

import (
	"bytes"
	"strings"
	"testing"

	"sitesmith/internal/content"
)

func testSingleTree() *content.SinglePage {
	return &content.SinglePage{
		Headline: "Acme Bakery",
		Tagline:  "Fresh bread every morning.",
		About:    "We have baked for the neighbourhood **since 1982**.",
		Services: "- Sourdough\n- Pastries\n- Custom cakes",
	}
}

func testMultiTree() *content.MultiPage {
	return &content.MultiPage{
		Branding: content.Branding{SiteTitle: "Acme Bakery", Tagline: "Fresh bread every morning."},
		Hero:     content.Hero{Heading: "Welcome to Acme Bakery", Subheading: "Baked fresh daily.", CTAText: "Visit us"},
		Services: []content.Service{
			{Name: "Sourdough", Description: "Naturally leavened loaves."},
			{Name: "Pastries", Description: "Croissants and danishes."},
		},
		About:   content.About{Heading: "Our Story", Body: "Since 1982 we have baked for the neighbourhood."},
		Contact: content.Contact{Heading: "Find Us", Email: "hello@acme.example", Phone: "555-0100"},
		Footer:  content.Footer{Text: "Acme Bakery. All rights reserved."},
	}
}

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	return r
}

func TestRenderSingle_ProducesOneDocument(t *testing.T) {
	r := newTestRenderer(t)

	pages, err := r.RenderSingle(testSingleTree(), ThemeLight, nil)
	if err != nil {
		t.Fatalf("RenderSingle: %v", err)
	}
	if len(pages) != 1 {
		t.Fatalf("RenderSingle: got %d pages, want 1", len(pages))
	}
	if pages[0].Filename != "index.html" {
		t.Errorf("filename: got %q, want index.html", pages[0].Filename)
	}

	html := string(pages[0].HTML)
	if !strings.Contains(html, "Acme Bakery") {
		t.Error("rendered page should contain the business name")
	}
	if !strings.Contains(html, "<strong>since 1982</strong>") {
		t.Error("markdown in the about field should be rendered to HTML")
	}
	if !strings.Contains(html, "<li>Sourdough</li>") {
		t.Error("markdown service list should be rendered to HTML")
	}
}

func TestRenderMulti_ProducesThreeDocuments(t *testing.T) {
	r := newTestRenderer(t)

	pages, err := r.RenderMulti(testMultiTree(), ThemeLight, nil)
	if err != nil {
		t.Fatalf("RenderMulti: %v", err)
	}
	if len(pages) != 3 {
		t.Fatalf("RenderMulti: got %d pages, want 3", len(pages))
	}

	want := []string{"about.html", "contact.html", "index.html"}
	for i, w := range want {
		if pages[i].Filename != w {
			t.Errorf("page %d filename: got %q, want %q", i, pages[i].Filename, w)
		}
		if !strings.Contains(string(pages[i].HTML), "Acme Bakery") {
			t.Errorf("%s should contain the business name", w)
		}
	}
}

func TestRender_Idempotent(t *testing.T) {
	r := newTestRenderer(t)

	first, err := r.RenderMulti(testMultiTree(), ThemeDark, []string{"a.png", "b.jpg"})
	if err != nil {
		t.Fatalf("RenderMulti: %v", err)
	}
	second, err := r.RenderMulti(testMultiTree(), ThemeDark, []string{"a.png", "b.jpg"})
	if err != nil {
		t.Fatalf("RenderMulti (second): %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("page counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Filename != second[i].Filename {
			t.Errorf("page %d filename differs: %q vs %q", i, first[i].Filename, second[i].Filename)
		}
		if !bytes.Equal(first[i].HTML, second[i].HTML) {
			t.Errorf("page %s: repeated render is not byte-identical", first[i].Filename)
		}
	}
}

func TestRender_ThemeChangesPalette(t *testing.T) {
	r := newTestRenderer(t)

	light, err := r.RenderSingle(testSingleTree(), ThemeLight, nil)
	if err != nil {
		t.Fatalf("RenderSingle light: %v", err)
	}
	dark, err := r.RenderSingle(testSingleTree(), ThemeDark, nil)
	if err != nil {
		t.Fatalf("RenderSingle dark: %v", err)
	}

	if !strings.Contains(string(light[0].HTML), palettes[ThemeLight].Background) {
		t.Error("light render should embed the light background colour")
	}
	if !strings.Contains(string(dark[0].HTML), palettes[ThemeDark].Background) {
		t.Error("dark render should embed the dark background colour")
	}
	if bytes.Equal(light[0].HTML, dark[0].HTML) {
		t.Error("light and dark renders should differ")
	}
}

func TestRender_ImageReferences(t *testing.T) {
	r := newTestRenderer(t)

	pages, err := r.RenderSingle(testSingleTree(), ThemeLight, []string{"storefront.png"})
	if err != nil {
		t.Fatalf("RenderSingle: %v", err)
	}
	if !strings.Contains(string(pages[0].HTML), `src="images/storefront.png"`) {
		t.Error("rendered page should reference copied images under images/")
	}

	noImages, err := r.RenderSingle(testSingleTree(), ThemeLight, nil)
	if err != nil {
		t.Fatalf("RenderSingle without images: %v", err)
	}
	if strings.Contains(string(noImages[0].HTML), "Gallery") {
		t.Error("gallery section should be omitted when no images are supplied")
	}
}

func TestThemeAndVariantValidation(t *testing.T) {
	if !ThemeLight.Valid() || !ThemeDark.Valid() {
		t.Error("built-in themes should be valid")
	}
	if Theme("sepia").Valid() {
		t.Error("unknown theme should be invalid")
	}
	if !VariantSingle.Valid() || !VariantMulti.Valid() {
		t.Error("built-in variants should be valid")
	}
	if Variant("pentapage").Valid() {
		t.Error("unknown variant should be invalid")
	}
}

func TestPaletteFor_UnknownFallsBackToLight(t *testing.T) {
	if PaletteFor(Theme("sepia")) != palettes[ThemeLight] {
		t.Error("unknown theme should fall back to the light palette")
	}
}
