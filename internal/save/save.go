// Package save persists a reconciliation plan to disk. A plan is a
// directory tree of CSVs ready for bulk import: per-type files of records
// to create and fields to update, per-edge-type files of associations to
// add and remove, and a YAML summary of the whole run.
package save

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/caresync/crosswalk/pkg/assoc"
	"github.com/caresync/crosswalk/pkg/constants"
	"github.com/caresync/crosswalk/pkg/differ"
	"github.com/caresync/crosswalk/pkg/entities"
	"github.com/caresync/crosswalk/pkg/errors"
	"github.com/caresync/crosswalk/pkg/logging"
)

// Plan is the material a run produced, ready to persist.
type Plan struct {
	RunID      string
	CreatedAt  time.Time
	Changesets map[entities.Type]*differ.Changeset
	Diffs      map[assoc.EdgeType]*assoc.Diff
}

// Writer persists plans under a root directory.
type Writer struct {
	opts Options
}

// New returns a Writer with the given options applied over defaults.
func New(opts ...Option) *Writer {
	o := DefaultOptions()
	o.Apply(opts...)
	return &Writer{opts: *o}
}

// Write persists the plan. Sections with nothing to do produce no files;
// the summary is always written. In dry-run mode nothing touches the
// filesystem and the layout is only logged.
func (w *Writer) Write(ctx context.Context, plan *Plan) error {
	logger := logging.Ctx(ctx)
	dir := w.opts.Dir()

	if w.opts.DryRun() {
		logger.Info().Str("dir", dir).Msg("dry run, skipping plan write")
		return nil
	}
	if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
		return errors.NewIOError("create", dir, err)
	}

	for _, typ := range entities.AllTypes() {
		cs := plan.Changesets[typ]
		if cs == nil {
			continue
		}
		if err := w.writeNew(typ, cs); err != nil {
			return err
		}
		if err := w.writeUpdates(typ, cs); err != nil {
			return err
		}
		logger.Info().
			Str("entity_type", typ.String()).
			Int("new", cs.Summary.New).
			Int("updated", cs.Summary.Updated).
			Msg("wrote entity plan")
	}

	for _, edge := range assoc.AllEdgeTypes() {
		diff := plan.Diffs[edge]
		if diff == nil {
			continue
		}
		if err := w.writeEdges(constants.AssociationsAddDir, edge, diff.ToAdd); err != nil {
			return err
		}
		if err := w.writeEdges(constants.AssociationsRemoveDir, edge, diff.ToRemove); err != nil {
			return err
		}
		logger.Info().
			Str("edge_type", edge.String()).
			Int("to_add", len(diff.ToAdd)).
			Int("to_remove", len(diff.ToRemove)).
			Bool("add_only", diff.AddOnly).
			Msg("wrote association plan")
	}

	return w.writeSummary(plan)
}

func (w *Writer) writeNew(typ entities.Type, cs *differ.Changeset) error {
	if len(cs.New) == 0 {
		return nil
	}
	columns := newRecordColumns(cs.New)
	rows := make([][]string, 0, len(cs.New))
	for _, e := range cs.New {
		row := make([]string, len(columns))
		for i, c := range columns {
			row[i] = e.Attribute(c)
		}
		rows = append(rows, row)
	}
	path := filepath.Join(w.opts.Dir(), constants.NewRecordsDir, typ.String()+".csv")
	return writeCSV(path, columns, rows)
}

func (w *Writer) writeUpdates(typ entities.Type, cs *differ.Changeset) error {
	if len(cs.Updated) == 0 {
		return nil
	}
	header := []string{constants.RecordIDColumn, "Field", "Old Value", "New Value"}
	var rows [][]string
	for _, u := range cs.Updated {
		for _, c := range u.Changes {
			rows = append(rows, []string{u.ID, c.Name, c.OldValue, c.NewValue})
		}
	}
	path := filepath.Join(w.opts.Dir(), constants.UpdatesDir, typ.String()+".csv")
	return writeCSV(path, header, rows)
}

func (w *Writer) writeEdges(subdir string, edge assoc.EdgeType, edges []assoc.Edge) error {
	if len(edges) == 0 {
		return nil
	}
	header := []string{"From Type", "From ID", "To Type", "To ID"}
	rows := make([][]string, 0, len(edges))
	for _, e := range edges {
		rows = append(rows, []string{e.FromType.String(), e.FromID, e.ToType.String(), e.ToID})
	}
	path := filepath.Join(w.opts.Dir(), subdir, edge.String()+".csv")
	return writeCSV(path, header, rows)
}

// summaryDoc is the YAML shape of the run summary.
type summaryDoc struct {
	RunID        string                    `yaml:"run_id"`
	CreatedAt    string                    `yaml:"created_at"`
	Entities     map[string]differ.Summary `yaml:"entities"`
	Associations map[string]edgeSummary    `yaml:"associations"`
}

type edgeSummary struct {
	ToAdd    int  `yaml:"to_add"`
	ToRemove int  `yaml:"to_remove"`
	AddOnly  bool `yaml:"add_only"`
}

func (w *Writer) writeSummary(plan *Plan) error {
	doc := summaryDoc{
		RunID:        plan.RunID,
		CreatedAt:    plan.CreatedAt.Format(constants.TimeFormatISO8601),
		Entities:     make(map[string]differ.Summary, len(plan.Changesets)),
		Associations: make(map[string]edgeSummary, len(plan.Diffs)),
	}
	for typ, cs := range plan.Changesets {
		doc.Entities[typ.String()] = cs.Summary
	}
	for edge, diff := range plan.Diffs {
		doc.Associations[edge.String()] = edgeSummary{
			ToAdd:    len(diff.ToAdd),
			ToRemove: len(diff.ToRemove),
			AddOnly:  diff.AddOnly,
		}
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return errors.NewParseError("yaml", constants.SummaryFile, "marshal summary", err)
	}
	path := filepath.Join(w.opts.Dir(), constants.SummaryFile)
	if err := os.WriteFile(path, data, constants.FilePermissions); err != nil {
		return errors.NewIOError("write", path, err)
	}
	return nil
}

// newRecordColumns decides the header of a new-records file: the union of
// attribute names across the batch. Names sort alphabetically so the
// layout is stable across runs.
func newRecordColumns(records []entities.Entity) []string {
	seen := make(map[string]struct{})
	var columns []string
	for _, e := range records {
		for name := range e.Attributes {
			if _, ok := seen[name]; !ok {
				seen[name] = struct{}{}
				columns = append(columns, name)
			}
		}
	}
	sort.Strings(columns)
	return columns
}

func writeCSV(path string, header []string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), constants.DirPermissions); err != nil {
		return errors.NewIOError("create", filepath.Dir(path), err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, constants.FilePermissions)
	if err != nil {
		return errors.NewIOError("create", path, err)
	}

	cw := csv.NewWriter(f)
	werr := cw.Write(header)
	if werr == nil {
		werr = cw.WriteAll(rows)
	}
	if werr == nil {
		cw.Flush()
		werr = cw.Error()
	}
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		return errors.NewIOError("write", path, werr)
	}
	return nil
}
