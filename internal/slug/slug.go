// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug turns arbitrary strings, such as uploaded file names, into
// lowercase ASCII names safe for URLs and object keys.
package slug

import (
	"regexp"
	"strings"
)

var (
	// separators are folded into a single hyphen.
	separators = regexp.MustCompile(`[\s_.]+`)
	// disallowed matches anything that isn't a letter, digit or hyphen.
	disallowed = regexp.MustCompile(`[^a-z0-9-]`)
	// multipleHyphens collapses consecutive hyphens into one.
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// Generate creates a URL-friendly slug from the given string.
// Example: "Dragon_Model v2.final" → "dragon-model-v2-final"
func Generate(s string) string {
	result := strings.ToLower(strings.TrimSpace(s))
	result = separators.ReplaceAllString(result, "-")
	result = disallowed.ReplaceAllString(result, "")
	result = multipleHyphens.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}

// Truncate shortens a slug to at most max bytes without leaving a
// trailing hyphen.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return strings.Trim(s[:max], "-")
}
