// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package fingerprint derives the short hexadecimal disambiguation token
// appended to canonical paths. The derivation is pure: the same canonical
// instant, salt, and width always produce the same token, across processes
// and machines, which is what makes builds reproducible.
package fingerprint

import (
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

const (
	// DefaultWidth is the fingerprint length in hex characters. Four
	// characters keep paths readable; the collision resolver absorbs the
	// occasional clash by salting.
	DefaultWidth = 4

	// MaxWidth is the full 64-bit hash rendered as hex. A fingerprint can
	// never be extended past this.
	MaxWidth = 16
)

// Compute returns the fingerprint for a canonical instant serialization.
// A non-zero salt is appended to the hashed bytes, letting the collision
// resolver derive alternative fingerprints for the same instant. width is
// clamped to [1, MaxWidth].
func Compute(canonical string, salt uint64, width int) string {
	if width < 1 {
		width = 1
	}
	if width > MaxWidth {
		width = MaxWidth
	}

	d := xxhash.New()
	d.WriteString(canonical)
	if salt > 0 {
		d.WriteString("#")
		d.WriteString(strconv.FormatUint(salt, 10))
	}
	return fmt.Sprintf("%016x", d.Sum64())[:width]
}
