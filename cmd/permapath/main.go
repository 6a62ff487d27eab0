// Package main is the entry point for the permapath build tool.
// It loads configuration, reads the content tree, runs the identity
// pipeline, and emits the source-to-path mapping for the page renderer.
package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"

	"permapath/internal/config"
	"permapath/internal/identity"
	"permapath/internal/loader"
)

func main() {
	// Structured logger on stderr; stdout carries only the mapping so the
	// output can be piped straight into the renderer.
	level := slog.LevelInfo
	if os.Getenv("PERMAPATH_ENV") != "production" {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"content_dir", cfg.ContentDir,
		"fingerprint_width", cfg.FingerprintWidth,
	)

	// Read the content tree in stable lexical order.
	records, err := loader.Load(os.DirFS(cfg.ContentDir))
	if err != nil {
		slog.Error("failed to load content tree", "dir", cfg.ContentDir, "error", err)
		os.Exit(1)
	}

	// Run the identity pass. A fresh pipeline means a fresh build-scoped
	// registry; nothing carries over between invocations.
	pipeline := identity.New(cfg.FingerprintWidth, cfg.SaltBudget)
	assignments, err := pipeline.Assign(context.Background(), records)
	if err != nil {
		// The error already names the offending source item and instant.
		slog.Error("identity pass failed", "error", err)
		os.Exit(1)
	}

	// Emit the mapping consumed by the renderer: source path → canonical path.
	mapping := make(map[string]string, len(assignments))
	for _, a := range assignments {
		mapping[a.SourcePath] = a.Path
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(mapping); err != nil {
		slog.Error("failed to encode mapping", "error", err)
		os.Exit(1)
	}
}
