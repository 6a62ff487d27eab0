// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package identity

import (
	"log/slog"

	"github.com/google/uuid"

	"permapath/internal/fingerprint"
	"permapath/internal/timestamp"
)

// DefaultSaltBudget is how many salted retries are attempted at each width
// before the fingerprint is extended by one hex character.
const DefaultSaltBudget = 8

// Resolver guarantees fingerprint uniqueness within a build. It first tries
// the unsalted fingerprint at the configured width; on collision it walks a
// salt counter, then extends the width one hex character at a time up to the
// full hash, repeating the salt walk at each width. Records already resolved
// in this build resolve idempotently to their existing fingerprint.
type Resolver struct {
	registry   *Registry
	width      int
	saltBudget int
}

// NewResolver creates a resolver bound to the given build registry.
// width is clamped to [1, fingerprint.MaxWidth]; a non-positive saltBudget
// falls back to DefaultSaltBudget.
func NewResolver(registry *Registry, width, saltBudget int) *Resolver {
	if width < 1 {
		width = fingerprint.DefaultWidth
	}
	if width > fingerprint.MaxWidth {
		width = fingerprint.MaxWidth
	}
	if saltBudget < 1 {
		saltBudget = DefaultSaltBudget
	}
	return &Resolver{registry: registry, width: width, saltBudget: saltBudget}
}

// Resolve returns a build-unique fingerprint for the record identified by
// owner at the given instant. Resolution order matters: callers must present
// records in a stable order (the loader uses lexical source-path order) for
// fully reproducible builds.
func (r *Resolver) Resolve(owner uuid.UUID, inst timestamp.Instant) (string, error) {
	canonical := inst.Canonical()
	attempts := 0

	for width := r.width; width <= fingerprint.MaxWidth; width++ {
		for salt := uint64(0); salt <= uint64(r.saltBudget); salt++ {
			fp := fingerprint.Compute(canonical, salt, width)
			attempts++

			switch r.registry.claimFingerprint(fp, owner) {
			case claimFree:
				if salt > 0 || width > r.width {
					slog.Debug("fingerprint collision resolved",
						"instant", inst.String(), "salt", salt, "width", width, "fingerprint", fp)
				}
				return fp, nil
			case claimOwned:
				// Re-run of an already-resolved record.
				return fp, nil
			case claimTaken:
				continue
			}
		}
	}

	return "", &ExhaustionError{Instant: inst, Width: r.width, Attempts: attempts}
}
