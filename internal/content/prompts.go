// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package content

import "fmt"

// systemPrompt sets the copywriter persona shared by both variants.
const systemPrompt = `You are an expert marketing copywriter for small-business websites.
You write concise, concrete copy tailored to the business and its industry.

Rules:
- Respond with ONLY a single JSON object matching the requested schema.
- Do NOT wrap the output in code fences or add any explanation.
- Every required field must be present and non-empty.
- Markdown is allowed only in fields documented as markdown.`

// singlePagePrompt asks for the flat four-field content tree.
func singlePagePrompt(biz, niche string) string {
	return fmt.Sprintf(`Write website copy for "%s", a business in the %s industry.

Respond with a JSON object of exactly this shape:

{
  "headline": "short punchy headline naming the business",
  "tagline": "one-sentence value proposition",
  "about": "2-3 paragraph about section (markdown)",
  "services": "bulleted markdown list of 3-5 services with one-line descriptions"
}`, biz, niche)
}

// multiPagePrompt asks for the nested three-page content tree.
func multiPagePrompt(biz, niche string) string {
	return fmt.Sprintf(`Write website copy for "%s", a business in the %s industry.
The site has three pages: landing, about, and contact.

Respond with a JSON object of exactly this shape:

{
  "branding": {"site_title": "...", "tagline": "..."},
  "hero": {"heading": "...", "subheading": "...", "cta_text": "..."},
  "services": [{"name": "...", "description": "..."}],
  "about": {"heading": "...", "body": "2-3 paragraphs (markdown)"},
  "contact": {"heading": "...", "email": "...", "phone": "...", "address": "...", "hours": "..."},
  "footer": {"text": "one-line footer"}
}

Include 3 to 5 services. Invent plausible contact details if none are implied.`, biz, niche)
}
