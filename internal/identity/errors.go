// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package identity

import (
	"fmt"

	"github.com/google/uuid"

	"permapath/internal/timestamp"
)

// ExhaustionError reports that the collision resolver spent its whole
// extension budget without finding a free fingerprint. This is fatal for
// the build: it means either a pathological number of items share one
// creation instant, or the configured fingerprint width is far too short.
// The instant is included so an operator can fix the duplicate source
// timestamps or widen the fingerprint.
type ExhaustionError struct {
	Instant  timestamp.Instant
	Width    int // configured starting width
	Attempts int // total fingerprints tried before giving up
}

func (e *ExhaustionError) Error() string {
	return fmt.Sprintf("fingerprint space exhausted for instant %s after %d attempts (starting width %d)",
		e.Instant, e.Attempts, e.Width)
}

// PathCollisionError reports that a composed path collided even though its
// fingerprint was unique. That cannot happen while the resolver's invariant
// holds, so this error signals an internal defect, never a user mistake.
type PathCollisionError struct {
	Path     string
	Owner    uuid.UUID // record that already holds the path
	Claimant uuid.UUID // record that tried to claim it
}

func (e *PathCollisionError) Error() string {
	return fmt.Sprintf("internal invariant violation: path %q already owned by record %s, claimed by %s",
		e.Path, e.Owner, e.Claimant)
}
