// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug converts article titles into URL-safe, lowercase, hyphenated
// tokens. Accented characters are transliterated to their base letters
// rather than dropped, so "Café Noël" becomes "cafe-noel".
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Placeholder is substituted when a title normalizes to nothing at all.
// An empty title is a valid, if degenerate, input — never an error.
const Placeholder = "untitled"

// Generate creates a URL-friendly slug from the given title.
// Example: "Hello, World! 2026" → "hello-world-2026"
//
// The result contains only lowercase ASCII letters, digits, and single
// hyphens, with no hyphen at either end, and is never empty. Generate is
// pure and idempotent: feeding a slug back in returns it unchanged.
func Generate(title string) string {
	// NFD decomposition splits accented letters into base letter plus
	// combining marks; the marks are then skipped below.
	decomposed := norm.NFD.String(strings.ToLower(strings.TrimSpace(title)))

	var b strings.Builder
	b.Grow(len(decomposed))

	pendingHyphen := false
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		// Any other rune acts as a separator; runs collapse into one
		// hyphen, emitted only when more alphanumerics follow.
		pendingHyphen = true
	}

	if b.Len() == 0 {
		return Placeholder
	}
	return b.String()
}
