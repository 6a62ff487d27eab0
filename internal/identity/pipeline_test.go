package identity

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"

	"github.com/google/uuid"

	"permapath/internal/fingerprint"
	"permapath/internal/models"
	"permapath/internal/timestamp"
)

func record(ts, title string) models.ContentRecord {
	return models.ContentRecord{
		ID:                uuid.New(),
		SourcePath:        fmt.Sprintf("content/%s.md", uuid.NewString()[:8]),
		CreationTimestamp: ts,
		Title:             title,
	}
}

var pathShape = regexp.MustCompile(`^\d{4}/\d{2}/[a-z0-9-]+-[0-9a-f]{4}$`)

// TestAssign_PathShape verifies the canonical path format
// {year}/{zero-padded month}/{slug}-{fingerprint}.
func TestAssign_PathShape(t *testing.T) {
	p := New(0, 0)
	got, err := p.Assign(context.Background(), []models.ContentRecord{
		record("2019-03-04T10:00:00Z", "Hello World"),
	})
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d assignments, want 1", len(got))
	}

	a := got[0]
	if !pathShape.MatchString(a.Path) {
		t.Errorf("path %q does not match {year}/{month}/{slug}-{fingerprint}", a.Path)
	}
	wantPrefix := "2019/03/hello-world-"
	if a.Path != wantPrefix+a.Fingerprint {
		t.Errorf("path %q, want %q + fingerprint", a.Path, wantPrefix)
	}
	if a.Slug != "hello-world" {
		t.Errorf("slug %q, want %q", a.Slug, "hello-world")
	}
}

// TestAssign_Deterministic verifies the reproducibility contract: separate
// builds (separate pipelines, hence separate registries) over the same
// records in the same order produce identical paths.
func TestAssign_Deterministic(t *testing.T) {
	records := []models.ContentRecord{
		record("2019-03-04T10:00:00Z", "Hello World"),
		record("2019-03-04T10:00:00Z", "Hello World"), // exact duplicate instant and title
		record("2019-03-04", "Hello World"),
		record("2021-12-31T23:59:59+01:00", "Année Zéro"),
		record("2021-07-01", ""),
	}

	first, err := New(0, 0).Assign(context.Background(), records)
	if err != nil {
		t.Fatalf("first build: %v", err)
	}
	second, err := New(0, 0).Assign(context.Background(), records)
	if err != nil {
		t.Fatalf("second build: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("builds disagree on count: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Path != second[i].Path {
			t.Errorf("record %d: path %q then %q, want identical across builds",
				i, first[i].Path, second[i].Path)
		}
	}
}

// TestAssign_Uniqueness verifies that no two records in one build resolve
// to the same path, even under heavy same-instant duplication.
func TestAssign_Uniqueness(t *testing.T) {
	var records []models.ContentRecord
	for i := 0; i < 8; i++ {
		records = append(records,
			record("2019-03-04T10:00:00Z", "Hello World"),
			record("2019-03-04", "Hello World"),
			record(fmt.Sprintf("2019-03-%02d", i+1), "Daily Notes"),
		)
	}

	got, err := New(0, 0).Assign(context.Background(), records)
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}

	seen := map[string]int{}
	for i, a := range got {
		if prev, dup := seen[a.Path]; dup {
			t.Errorf("records %d and %d share path %q", prev, i, a.Path)
		}
		seen[a.Path] = i
	}
}

// TestAssign_DuplicateRecords is the exact-duplicate scenario: two records
// with identical creation instant and title must get two distinct paths
// without any error. The first record, resolved first, keeps the unsalted
// fingerprint.
func TestAssign_DuplicateRecords(t *testing.T) {
	records := []models.ContentRecord{
		record("2019-03-04T10:00:00Z", "Hello World"),
		record("2019-03-04T10:00:00Z", "Hello World"),
	}

	got, err := New(0, 0).Assign(context.Background(), records)
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if got[0].Path == got[1].Path {
		t.Fatalf("duplicate records share path %q", got[0].Path)
	}
	if got[0].Fingerprint == got[1].Fingerprint {
		t.Errorf("duplicate records share fingerprint %q", got[0].Fingerprint)
	}

	inst, err := timestamp.Parse("2019-03-04T10:00:00Z")
	if err != nil {
		t.Fatal(err)
	}
	unsalted := fingerprint.Compute(inst.Canonical(), 0, fingerprint.DefaultWidth)
	if got[0].Fingerprint != unsalted {
		t.Errorf("first record fingerprint %q, want unsalted %q", got[0].Fingerprint, unsalted)
	}
}

// TestAssign_FloatingVersusZoned is the date-only versus explicit-UTC
// scenario: the two records are intentionally distinct, and consistently so
// across builds.
func TestAssign_FloatingVersusZoned(t *testing.T) {
	records := []models.ContentRecord{
		record("2019-03-04", "Hello World"),
		record("2019-03-04T00:00:00Z", "Hello World"),
	}

	for run := 0; run < 3; run++ {
		got, err := New(0, 0).Assign(context.Background(), records)
		if err != nil {
			t.Fatalf("run %d: %v", run, err)
		}
		if got[0].Path == got[1].Path {
			t.Fatalf("run %d: floating and zoned midnight share path %q", run, got[0].Path)
		}
		// Neither record collided, so both carry their unsalted fingerprint.
		for i, ts := range []string{"2019-03-04", "2019-03-04T00:00:00Z"} {
			inst, _ := timestamp.Parse(ts)
			want := fingerprint.Compute(inst.Canonical(), 0, fingerprint.DefaultWidth)
			if got[i].Fingerprint != want {
				t.Errorf("run %d record %d: fingerprint %q, want %q", run, i, got[i].Fingerprint, want)
			}
		}
	}
}

// TestAssign_MalformedTimestamp verifies the malformed-input boundary: the
// pass fails with the typed error, produces no paths, and leaves the
// registry untouched.
func TestAssign_MalformedTimestamp(t *testing.T) {
	p := New(0, 0)
	got, err := p.Assign(context.Background(), []models.ContentRecord{
		record("2019-03-04", "Fine"),
		record("not-a-date", "Broken"),
	})
	if err == nil {
		t.Fatal("Assign succeeded, want *timestamp.MalformedError")
	}
	var malformed *timestamp.MalformedError
	if !errors.As(err, &malformed) {
		t.Fatalf("error %v (%T), want *timestamp.MalformedError", err, err)
	}
	if malformed.Input != "not-a-date" {
		t.Errorf("error names input %q, want %q", malformed.Input, "not-a-date")
	}
	if got != nil {
		t.Errorf("got %d assignments from a failed pass, want none", len(got))
	}
	if p.registry.Len() != 0 {
		t.Errorf("failed pass left %d registry entries behind", p.registry.Len())
	}
}

// TestAssign_EmptyTitle verifies that a title normalizing to nothing gets
// the placeholder slug rather than an error.
func TestAssign_EmptyTitle(t *testing.T) {
	got, err := New(0, 0).Assign(context.Background(), []models.ContentRecord{
		record("2019-03-04", ""),
		record("2019-03-05", "!!!"),
	})
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	for i, a := range got {
		if a.Slug != "untitled" {
			t.Errorf("record %d slug %q, want placeholder", i, a.Slug)
		}
	}
}

// TestResolve_Idempotent verifies that re-presenting an already-resolved
// record returns its existing fingerprint without growing the registry.
func TestResolve_Idempotent(t *testing.T) {
	registry := NewRegistry()
	resolver := NewResolver(registry, 0, 0)
	owner := uuid.New()
	inst, err := timestamp.Parse("2019-03-04T10:00:00Z")
	if err != nil {
		t.Fatal(err)
	}

	first, err := resolver.Resolve(owner, inst)
	if err != nil {
		t.Fatalf("first Resolve: %v", err)
	}
	second, err := resolver.Resolve(owner, inst)
	if err != nil {
		t.Fatalf("second Resolve: %v", err)
	}
	if first != second {
		t.Errorf("Resolve not idempotent: %q then %q", first, second)
	}
	if len(registry.fingerprints) != 1 {
		t.Errorf("registry holds %d fingerprints after re-resolve, want 1", len(registry.fingerprints))
	}
}

// TestResolve_Exhaustion drives the resolver past its entire extension
// budget. At width 1 with a salt budget of 1 there are at most 32 candidate
// fingerprints per instant, so a flood of same-instant records must
// eventually fail with *ExhaustionError naming the instant.
func TestResolve_Exhaustion(t *testing.T) {
	registry := NewRegistry()
	resolver := NewResolver(registry, 1, 1)
	inst, err := timestamp.Parse("2019-03-04T10:00:00Z")
	if err != nil {
		t.Fatal(err)
	}

	var exhausted *ExhaustionError
	for i := 0; i < 40; i++ {
		if _, err := resolver.Resolve(uuid.New(), inst); err != nil {
			if !errors.As(err, &exhausted) {
				t.Fatalf("record %d: error %v (%T), want *ExhaustionError", i, err, err)
			}
			break
		}
	}
	if exhausted == nil {
		t.Fatal("40 same-instant records all resolved at width 1, want exhaustion")
	}
	if exhausted.Instant != inst {
		t.Errorf("error names instant %v, want %v", exhausted.Instant, inst)
	}
	if exhausted.Attempts == 0 {
		t.Error("exhaustion reported zero attempts")
	}
}

// TestAssign_PathCollisionGuard forces the defensive path-namespace check
// to fire by pre-claiming the composed path for a different record.
func TestAssign_PathCollisionGuard(t *testing.T) {
	registry := NewRegistry()
	assigner := NewAssigner(registry)
	inst, err := timestamp.Parse("2019-03-04T10:00:00Z")
	if err != nil {
		t.Fatal(err)
	}

	squatter := uuid.New()
	if res := registry.claimPath("2019/03/hello-world-abcd", squatter); res != claimFree {
		t.Fatalf("pre-claim result %v, want claimFree", res)
	}

	claimant := uuid.New()
	_, err = assigner.Assign(claimant, inst, "hello-world", "abcd")
	if err == nil {
		t.Fatal("Assign succeeded on a squatted path, want *PathCollisionError")
	}
	var collision *PathCollisionError
	if !errors.As(err, &collision) {
		t.Fatalf("error %v (%T), want *PathCollisionError", err, err)
	}
	if collision.Owner != squatter || collision.Claimant != claimant {
		t.Errorf("collision owner/claimant = %s/%s, want %s/%s",
			collision.Owner, collision.Claimant, squatter, claimant)
	}
}

// TestPathsByRecord verifies the renderer-facing mapping view.
func TestPathsByRecord(t *testing.T) {
	records := []models.ContentRecord{
		record("2019-03-04", "One"),
		record("2019-03-05", "Two"),
	}
	got, err := New(0, 0).Assign(context.Background(), records)
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}

	m := PathsByRecord(got)
	if len(m) != 2 {
		t.Fatalf("mapping has %d entries, want 2", len(m))
	}
	for _, a := range got {
		if m[a.RecordID] != a.Path {
			t.Errorf("mapping[%s] = %q, want %q", a.RecordID, m[a.RecordID], a.Path)
		}
	}
}
