package crosswalk

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/caresync/crosswalk/internal/save"
	"github.com/caresync/crosswalk/pkg/assoc"
	"github.com/caresync/crosswalk/pkg/differ"
	"github.com/caresync/crosswalk/pkg/entities"
	"github.com/caresync/crosswalk/pkg/resolve"
)

// Result is the outcome of one reconciliation run: the per-type entity
// changesets, the per-edge-type association diffs, and the diagnostics
// collected along the way. A result is a plan; nothing has been applied.
type Result struct {
	RunID       string
	StartedAt   time.Time
	CompletedAt time.Time

	// Changesets holds the entity classification per type.
	Changesets map[entities.Type]*differ.Changeset

	// Diffs holds the association diff per edge type.
	Diffs map[assoc.EdgeType]*assoc.Diff

	// Ambiguities lists destination records that shared a natural key,
	// per type. The first record kept the key; the rest are reported.
	Ambiguities map[entities.Type][]resolve.Ambiguity

	// SkippedEdges counts desired edges per edge type whose endpoint has
	// no destination record yet. They become plannable once the new
	// records from this plan exist.
	SkippedEdges map[assoc.EdgeType]int

	// Duplicates counts source rows dropped per type for reusing a
	// primary key within the batch.
	Duplicates map[entities.Type]int

	// recordIDs maps registry ID to destination record ID per type, for
	// edge endpoint mapping within the run.
	recordIDs map[entities.Type]map[string]string
}

func newResult(runID string) *Result {
	return &Result{
		RunID:        runID,
		StartedAt:    time.Now(),
		Changesets:   make(map[entities.Type]*differ.Changeset),
		Diffs:        make(map[assoc.EdgeType]*assoc.Diff),
		Ambiguities:  make(map[entities.Type][]resolve.Ambiguity),
		SkippedEdges: make(map[assoc.EdgeType]int),
		Duplicates:   make(map[entities.Type]int),
		recordIDs:    make(map[entities.Type]map[string]string),
	}
}

// HasChanges reports whether the plan contains any create, update, or
// association change.
func (r *Result) HasChanges() bool {
	for _, cs := range r.Changesets {
		if cs.HasChanges() {
			return true
		}
	}
	for _, d := range r.Diffs {
		if d.HasChanges() {
			return true
		}
	}
	return false
}

// IsEmpty reports whether the plan is a no-op. A rerun over an
// up-to-date destination produces an empty result.
func (r *Result) IsEmpty() bool {
	return !r.HasChanges()
}

// Summary returns a human-readable multi-line overview of the plan.
func (r *Result) Summary() string {
	var b strings.Builder
	for _, typ := range entities.AllTypes() {
		if cs := r.Changesets[typ]; cs != nil {
			b.WriteString(cs.String())
			b.WriteString("\n")
		}
	}
	for _, edge := range assoc.AllEdgeTypes() {
		if d := r.Diffs[edge]; d != nil {
			b.WriteString(d.String())
			if n := r.SkippedEdges[edge]; n > 0 {
				b.WriteString(fmt.Sprintf(" (%d pending new records)", n))
			}
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// Save persists the plan under dir. With dryRun the layout is only
// logged.
func (r *Result) Save(ctx context.Context, dir string, dryRun bool) error {
	w := save.New(save.WithDir(dir), save.WithDryRun(dryRun))
	return w.Write(ctx, &save.Plan{
		RunID:      r.RunID,
		CreatedAt:  r.CompletedAt,
		Changesets: r.Changesets,
		Diffs:      r.Diffs,
	})
}
