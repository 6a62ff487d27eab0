// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the value types exchanged between the content
// loader, the identity pipeline, and the page renderer.
package models

import (
	"github.com/google/uuid"
)

// ContentRecord is one source content item as handed over by the loader.
// It is immutable once read; the identity pipeline only looks at
// CreationTimestamp and Title and never touches Body.
type ContentRecord struct {
	ID                uuid.UUID // build-scoped identity, assigned at load time
	SourcePath        string    // path of the source file, for error reporting
	CreationTimestamp string    // raw timestamp text from front matter
	Title             string
	Body              []byte // opaque to this subsystem
}

// PathAssignment is the pipeline's result for a single record: the canonical
// URL path plus the intermediate values it was derived from. The renderer
// consumes Path; the rest is kept for logging and diagnostics.
type PathAssignment struct {
	RecordID    uuid.UUID
	SourcePath  string
	Path        string // {year}/{month}/{slug}-{fingerprint}
	Slug        string
	Fingerprint string
}
