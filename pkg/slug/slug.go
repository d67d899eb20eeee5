// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slug turns free-form revision messages into ASCII file-name fragments.
//
// # Usage
//
// A message such as "Add  Café followers!" becomes "add_cafe_followers", which
// is then prefixed with the revision token to name the scaffolded file.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultMaxLength caps the slug so file names stay readable.
const DefaultMaxLength = 40

var (
	// disallowed matches any run of characters outside [a-z0-9_].
	disallowed = regexp.MustCompile(`[^a-z0-9_]+`)
	// multiUnderscore collapses repeated separators.
	multiUnderscore = regexp.MustCompile(`_{2,}`)
)

// Snake converts an arbitrary Unicode string into a lowercase snake_case slug
// of at most maxLength bytes. A non-positive maxLength means [DefaultMaxLength].
//
// # Transformation Pipeline
//
// 1. Normalizes to NFD and strips combining marks (é → e).
// 2. Lowercases.
// 3. Replaces everything that is not a letter or digit with "_".
// 4. Collapses separators, trims them, and truncates on a word boundary when possible.
func Snake(s string, maxLength int) string {
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}

	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn))
	result, _, _ := transform.String(t, s)

	result = strings.ToLower(result)
	result = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return '_'
	}, result)

	result = disallowed.ReplaceAllString(result, "_")
	result = multiUnderscore.ReplaceAllString(result, "_")
	result = strings.Trim(result, "_")

	if len(result) > maxLength {
		result = result[:maxLength]
		if cut := strings.LastIndexByte(result, '_'); cut > 0 {
			result = result[:cut]
		}
		result = strings.TrimRight(result, "_")
	}

	return result
}

// isMn reports whether r is a Unicode non-spacing mark (e.g., accents).
func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
