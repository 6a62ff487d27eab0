// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package identity

import (
	"sync"

	"github.com/google/uuid"
)

// claimResult is the outcome of a single check-and-insert on the registry.
type claimResult int

const (
	claimFree  claimResult = iota // key was free and is now owned by the claimant
	claimOwned                    // key was already owned by the same claimant
	claimTaken                    // key is owned by a different record
)

// Registry is the build-scoped uniqueness registry. It tracks two
// namespaces: fingerprints and composed paths. A fresh Registry is created
// at the start of every build pass and discarded at the end; identifiers
// stay stable across builds because the derivation is deterministic, not
// because any state is carried forward.
//
// The registry is safe for concurrent use, though the pipeline only touches
// it from its serial resolution stage. The mutex is held only for the
// check-and-insert.
type Registry struct {
	mu           sync.Mutex
	fingerprints map[string]uuid.UUID
	paths        map[string]uuid.UUID
}

// NewRegistry creates an empty registry for one build pass. It is meant to
// be dependency-injected into the resolver and assigner, never shared
// between builds.
func NewRegistry() *Registry {
	return &Registry{
		fingerprints: make(map[string]uuid.UUID),
		paths:        make(map[string]uuid.UUID),
	}
}

// claimFingerprint atomically checks and claims a fingerprint for owner.
func (r *Registry) claimFingerprint(fp string, owner uuid.UUID) claimResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.fingerprints[fp]; ok {
		if existing == owner {
			return claimOwned
		}
		return claimTaken
	}
	r.fingerprints[fp] = owner
	return claimFree
}

// claimPath atomically checks and claims a composed path for owner.
// Claiming a path the owner already holds is an idempotent no-op.
func (r *Registry) claimPath(path string, owner uuid.UUID) claimResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.paths[path]; ok {
		if existing == owner {
			return claimOwned
		}
		return claimTaken
	}
	r.paths[path] = owner
	return claimFree
}

// pathOwner returns the record currently holding a path, for error reporting.
func (r *Registry) pathOwner(path string) uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.paths[path]
}

// Len returns the number of registered paths, used in pass summaries.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.paths)
}
