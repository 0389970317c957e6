// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package sanitize converts arbitrary business names into filesystem-safe
// directory names. The same function is used when writing the output
// directory and when building zip entry paths, so the two always agree.
package sanitize

import (
	"regexp"
	"strings"
)

var (
	// nonSafe matches anything that isn't a letter, digit, space,
	// underscore, or hyphen.
	nonSafe = regexp.MustCompile(`[^a-z0-9\s_-]`)
	// multipleUnderscores collapses consecutive underscores into one.
	multipleUnderscores = regexp.MustCompile(`_{2,}`)
	// whitespace matches runs of whitespace.
	whitespace = regexp.MustCompile(`\s+`)
)

// DirName creates a filesystem-safe, underscore-joined name from the
// given string. Example: "Joe's Coffee Shop" → "joes_coffee_shop".
// Returns "site" for inputs that sanitize to nothing.
func DirName(s string) string {
	result := strings.ToLower(strings.TrimSpace(s))
	result = nonSafe.ReplaceAllString(result, "")
	result = whitespace.ReplaceAllString(result, "_")
	result = multipleUnderscores.ReplaceAllString(result, "_")
	result = strings.Trim(result, "_-")
	if result == "" {
		return "site"
	}
	return result
}
