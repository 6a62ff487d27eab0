// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package identity assigns each content item its stable, collision-free
// canonical path for one build pass. Timestamp normalization and title
// slugging are pure and run in parallel across records; collision
// resolution and path assignment run serially against a build-scoped
// uniqueness registry, in the order records are presented.
package identity

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"permapath/internal/models"
	"permapath/internal/slug"
	"permapath/internal/timestamp"
)

// Pipeline runs the full identity pass for one build. Each Pipeline owns a
// fresh Registry, so separate builds (and separate tests) never share state.
type Pipeline struct {
	registry *Registry
	resolver *Resolver
	assigner *Assigner
}

// New creates a pipeline for a single build pass. width is the fingerprint
// length in hex characters (0 means fingerprint.DefaultWidth); saltBudget
// is the per-width retry budget (0 means DefaultSaltBudget).
func New(width, saltBudget int) *Pipeline {
	registry := NewRegistry()
	return &Pipeline{
		registry: registry,
		resolver: NewResolver(registry, width, saltBudget),
		assigner: NewAssigner(registry),
	}
}

// derived holds the pure per-record results of the parallel stage.
type derived struct {
	instant timestamp.Instant
	slug    string
}

// Assign computes the canonical path for every record. Any error aborts the
// whole pass: a malformed timestamp is reported before the registry is
// touched at all, so a failed pass never leaves partial registrations
// behind. Records must be presented in a stable order (lexical source-path
// order from the loader) for reproducible builds.
func (p *Pipeline) Assign(ctx context.Context, records []models.ContentRecord) ([]models.PathAssignment, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 1: normalize and slugify in parallel. Pure, no shared state,
	// no blocking, so the context is only consulted between stages.
	results := make([]derived, len(records))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, rec := range records {
		i, rec := i, rec
		g.Go(func() error {
			inst, err := timestamp.Parse(rec.CreationTimestamp)
			if err != nil {
				return fmt.Errorf("%s: %w", rec.SourcePath, err)
			}
			results[i] = derived{instant: inst, slug: slug.Generate(rec.Title)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Stage 2: resolve and assign serially against the registry, in
	// presentation order.
	assignments := make([]models.PathAssignment, 0, len(records))
	for i, rec := range records {
		fp, err := p.resolver.Resolve(rec.ID, results[i].instant)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", rec.SourcePath, err)
		}
		path, err := p.assigner.Assign(rec.ID, results[i].instant, results[i].slug, fp)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", rec.SourcePath, err)
		}

		slog.Debug("path assigned",
			"source", rec.SourcePath, "path", path, "fingerprint", fp)
		assignments = append(assignments, models.PathAssignment{
			RecordID:    rec.ID,
			SourcePath:  rec.SourcePath,
			Path:        path,
			Slug:        results[i].slug,
			Fingerprint: fp,
		})
	}

	slog.Info("identity pass complete",
		"records", len(records),
		"paths", p.registry.Len(),
		"width", p.resolver.width,
		"elapsed", time.Since(start),
	)
	return assignments, nil
}

// PathsByRecord converts a list of assignments into the record-to-path
// mapping handed to the page renderer.
func PathsByRecord(assignments []models.PathAssignment) map[uuid.UUID]string {
	m := make(map[uuid.UUID]string, len(assignments))
	for _, a := range assignments {
		m[a.RecordID] = a.Path
	}
	return m
}
