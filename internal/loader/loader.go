// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package loader reads content source files into records for the identity
// pipeline. It walks the content tree in lexical path order — that ordering
// is the stable-presentation contract the collision resolver's tie-break
// depends on, so it is implemented here rather than left to convention.
//
// Front matter is either YAML between "---" fences or TOML between "+++"
// fences, carrying at least a date and usually a title. A file without a
// title falls back to its first markdown heading; a file without a date is
// rejected, since no identity can be derived for it.
package loader

import (
	"bytes"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"

	"permapath/internal/models"
)

// md is the shared goldmark instance used for title extraction only; the
// body is never rendered here.
var md = goldmark.New()

// frontMatter is the subset of front matter this subsystem cares about.
// Everything else in the header block is preserved untouched in the body
// handed to the renderer's own loader.
type frontMatter struct {
	Title string `yaml:"title" toml:"title"`
	Date  string `yaml:"date" toml:"date"`
}

// Load walks fsys and returns one ContentRecord per markdown file, in
// lexical path order. The raw date string is passed through unparsed:
// judging timestamps is the identity pipeline's boundary, not the loader's.
func Load(fsys fs.FS) ([]models.ContentRecord, error) {
	var records []models.ContentRecord

	// fs.WalkDir visits entries in lexical order, which makes the record
	// order (and therefore collision tie-breaking) reproducible.
	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isMarkdown(path) {
			return nil
		}

		rec, err := readFile(fsys, path)
		if err != nil {
			return err
		}
		slog.Debug("content file loaded", "source", path, "title", rec.Title)
		records = append(records, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("content tree loaded", "records", len(records))
	return records, nil
}

func isMarkdown(path string) bool {
	return strings.HasSuffix(path, ".md") || strings.HasSuffix(path, ".markdown")
}

func readFile(fsys fs.FS, path string) (models.ContentRecord, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return models.ContentRecord{}, fmt.Errorf("read %s: %w", path, err)
	}

	meta, body, err := parseFrontMatter(data)
	if err != nil {
		return models.ContentRecord{}, fmt.Errorf("%s: %w", path, err)
	}
	if meta.Date == "" {
		return models.ContentRecord{}, fmt.Errorf("%s: front matter has no date", path)
	}

	title := meta.Title
	if title == "" {
		title = firstHeading(body)
	}

	return models.ContentRecord{
		ID:                uuid.New(),
		SourcePath:        path,
		CreationTimestamp: meta.Date,
		Title:             title,
		Body:              body,
	}, nil
}

// parseFrontMatter splits a source file into its front matter and body and
// decodes the former. YAML uses "---" fences, TOML uses "+++".
func parseFrontMatter(data []byte) (frontMatter, []byte, error) {
	var fm frontMatter

	fence, rest, ok := openingFence(data)
	if !ok {
		return fm, nil, fmt.Errorf("missing front matter block")
	}

	meta, body, ok := splitAtClosingFence(rest, fence)
	if !ok {
		return fm, nil, fmt.Errorf("unterminated front matter block")
	}

	switch fence {
	case "---":
		if err := yaml.Unmarshal(meta, &fm); err != nil {
			return fm, nil, fmt.Errorf("parse yaml front matter: %w", err)
		}
	case "+++":
		if err := toml.Unmarshal(meta, &fm); err != nil {
			return fm, nil, fmt.Errorf("parse toml front matter: %w", err)
		}
	}
	return fm, body, nil
}

// openingFence recognizes a leading "---" or "+++" line and returns the
// fence marker and the remaining bytes.
func openingFence(data []byte) (fence string, rest []byte, ok bool) {
	line, rest, found := bytes.Cut(data, []byte("\n"))
	if !found {
		return "", nil, false
	}
	switch string(bytes.TrimRight(line, "\r")) {
	case "---":
		return "---", rest, true
	case "+++":
		return "+++", rest, true
	}
	return "", nil, false
}

// splitAtClosingFence finds the closing fence line and splits meta from body.
func splitAtClosingFence(data []byte, fence string) (meta, body []byte, ok bool) {
	offset := 0
	for offset <= len(data) {
		line := data[offset:]
		end := bytes.IndexByte(line, '\n')
		if end < 0 {
			end = len(line)
		}
		if string(bytes.TrimRight(line[:end], "\r")) == fence {
			return data[:offset], data[min(offset+len(fence)+1, len(data)):], true
		}
		offset += end + 1
	}
	return nil, nil, false
}

// firstHeading returns the plain text of the first markdown heading in
// body, or "" when there is none. Used as the title fallback for files
// whose front matter names no title.
func firstHeading(body []byte) string {
	doc := md.Parser().Parse(text.NewReader(body))

	var title string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		h, ok := n.(*ast.Heading)
		if !ok || !entering {
			return ast.WalkContinue, nil
		}
		var sb strings.Builder
		for c := h.FirstChild(); c != nil; c = c.NextSibling() {
			if t, isText := c.(*ast.Text); isText {
				sb.Write(t.Segment.Value(body))
			}
		}
		title = strings.TrimSpace(sb.String())
		return ast.WalkStop, nil
	})
	return title
}
