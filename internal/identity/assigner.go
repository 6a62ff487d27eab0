// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package identity

import (
	"fmt"

	"github.com/google/uuid"

	"permapath/internal/timestamp"
)

// Assigner composes canonical paths and registers them in the build
// registry. Path uniqueness already follows from fingerprint uniqueness;
// the second registration is a guard that turns a violated invariant into
// a loud failure instead of a silently overwritten route.
type Assigner struct {
	registry *Registry
}

// NewAssigner creates an assigner bound to the given build registry.
func NewAssigner(registry *Registry) *Assigner {
	return &Assigner{registry: registry}
}

// Assign composes the canonical path {year}/{month}/{slug}-{fingerprint}
// for a record and claims it. Returns *PathCollisionError if the path is
// somehow held by a different record despite the unique fingerprint.
func (a *Assigner) Assign(owner uuid.UUID, inst timestamp.Instant, slug, fp string) (string, error) {
	path := fmt.Sprintf("%04d/%02d/%s-%s", inst.Year, int(inst.Month), slug, fp)

	if a.registry.claimPath(path, owner) == claimTaken {
		return "", &PathCollisionError{
			Path:     path,
			Owner:    a.registry.pathOwner(path),
			Claimant: owner,
		}
	}
	return path, nil
}
