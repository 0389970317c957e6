// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package site

// Theme selects the colour palette substituted into the templates.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Valid reports whether the theme is one of the supported values.
func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark
}

// Variant selects which template set a render produces.
type Variant string

const (
	// VariantSingle renders one index.html document.
	VariantSingle Variant = "single"
	// VariantMulti renders index.html, about.html, and contact.html.
	VariantMulti Variant = "multi"
)

// Valid reports whether the variant is one of the supported values.
func (v Variant) Valid() bool {
	return v == VariantSingle || v == VariantMulti
}

// Palette holds the CSS custom-property values for a theme. Values are
// fixed per theme so renders stay deterministic.
type Palette struct {
	Background string
	Surface    string
	Text       string
	Muted      string
	Accent     string
}

// palettes maps each theme to its palette.
var palettes = map[Theme]Palette{
	ThemeLight: {
		Background: "#f9fafb",
		Surface:    "#ffffff",
		Text:       "#111827",
		Muted:      "#6b7280",
		Accent:     "#1a73e8",
	},
	ThemeDark: {
		Background: "#0f172a",
		Surface:    "#1e293b",
		Text:       "#f1f5f9",
		Muted:      "#94a3b8",
		Accent:     "#38bdf8",
	},
}

// PaletteFor returns the palette for a theme, falling back to light for
// unknown values.
func PaletteFor(t Theme) Palette {
	if p, ok := palettes[t]; ok {
		return p
	}
	return palettes[ThemeLight]
}
