// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package content fetches structured website copy from an LLM provider.
// The provider returns JSON which is parsed schema-on-read into one of two
// content trees: a flat single-page tree or a nested multi-page tree. An
// unexpected shape is a hard failure, never silently tolerated.
package content

import (
	"fmt"
	"strings"
)

// SinglePage is the flat content tree for the one-document site variant.
// Every field is required; Validate rejects trees with missing fields so a
// hole in the copy becomes a parse-time error instead of an empty render.
type SinglePage struct {
	Headline string `json:"headline"`
	Tagline  string `json:"tagline"`
	About    string `json:"about"`    // markdown
	Services string `json:"services"` // markdown list
}

// Validate reports the first missing required field, if any.
func (c *SinglePage) Validate() error {
	switch {
	case strings.TrimSpace(c.Headline) == "":
		return fmt.Errorf("single-page content: missing headline")
	case strings.TrimSpace(c.Tagline) == "":
		return fmt.Errorf("single-page content: missing tagline")
	case strings.TrimSpace(c.About) == "":
		return fmt.Errorf("single-page content: missing about")
	case strings.TrimSpace(c.Services) == "":
		return fmt.Errorf("single-page content: missing services")
	}
	return nil
}

// MultiPage is the nested content tree for the three-document site variant
// (landing, about, contact).
type MultiPage struct {
	Branding Branding  `json:"branding"`
	Hero     Hero      `json:"hero"`
	Services []Service `json:"services"`
	About    About     `json:"about"`
	Contact  Contact   `json:"contact"`
	Footer   Footer    `json:"footer"`
}

// Branding carries the site identity shown in headers and titles.
type Branding struct {
	SiteTitle string `json:"site_title"`
	Tagline   string `json:"tagline"`
}

// Hero is the landing page hero section.
type Hero struct {
	Heading    string `json:"heading"`
	Subheading string `json:"subheading"`
	CTAText    string `json:"cta_text"`
}

// Service is a single offering shown on the landing page.
type Service struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// About is the about page content. Body is markdown.
type About struct {
	Heading string `json:"heading"`
	Body    string `json:"body"`
}

// Contact is the contact page content.
type Contact struct {
	Heading string `json:"heading"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Hours   string `json:"hours"`
}

// Footer is the shared footer line.
type Footer struct {
	Text string `json:"text"`
}

// Validate reports the first missing required field, if any. Phone,
// address, and hours are optional; everything else is required.
func (c *MultiPage) Validate() error {
	switch {
	case strings.TrimSpace(c.Branding.SiteTitle) == "":
		return fmt.Errorf("multi-page content: missing branding.site_title")
	case strings.TrimSpace(c.Hero.Heading) == "":
		return fmt.Errorf("multi-page content: missing hero.heading")
	case strings.TrimSpace(c.Hero.Subheading) == "":
		return fmt.Errorf("multi-page content: missing hero.subheading")
	case len(c.Services) == 0:
		return fmt.Errorf("multi-page content: missing services")
	case strings.TrimSpace(c.About.Heading) == "":
		return fmt.Errorf("multi-page content: missing about.heading")
	case strings.TrimSpace(c.About.Body) == "":
		return fmt.Errorf("multi-page content: missing about.body")
	case strings.TrimSpace(c.Contact.Heading) == "":
		return fmt.Errorf("multi-page content: missing contact.heading")
	case strings.TrimSpace(c.Contact.Email) == "":
		return fmt.Errorf("multi-page content: missing contact.email")
	}
	for i, s := range c.Services {
		if strings.TrimSpace(s.Name) == "" || strings.TrimSpace(s.Description) == "" {
			return fmt.Errorf("multi-page content: service %d is incomplete", i)
		}
	}
	return nil
}
