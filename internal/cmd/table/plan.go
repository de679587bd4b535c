// Package table provides common table formatting utilities for CLI commands.
package table

import (
	"fmt"
	"strconv"

	"github.com/caresync/crosswalk"
	"github.com/caresync/crosswalk/pkg/assoc"
	"github.com/caresync/crosswalk/pkg/differ"
	"github.com/caresync/crosswalk/pkg/entities"
	"github.com/caresync/crosswalk/pkg/profile"
)

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault uses the default alignment (skip).
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Data represents table formatting data to avoid import cycles.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align // Optional: column alignment
}

// ResultToTableData converts a run result to the plan overview table.
func ResultToTableData(result *crosswalk.Result) Data {
	headers := []string{"Entity Type", "New", "Updated", "Unchanged", "Field Changes", "Duplicates", "Match Rate"}
	rows := make([][]string, 0, len(result.Changesets))
	for _, typ := range entities.AllTypes() {
		cs := result.Changesets[typ]
		if cs == nil {
			continue
		}
		rows = append(rows, []string{
			typ.String(),
			strconv.Itoa(cs.Summary.New),
			strconv.Itoa(cs.Summary.Updated),
			strconv.Itoa(cs.Summary.Unchanged),
			strconv.Itoa(cs.Summary.FieldChanges),
			strconv.Itoa(result.Duplicates[typ]),
			matchRate(cs.Summary),
		})
	}
	return Data{
		Headers: headers,
		Rows:    rows,
		ColumnAlignment: []Align{
			AlignLeft, AlignRight, AlignRight, AlignRight, AlignRight, AlignRight, AlignRight,
		},
	}
}

// AssociationsToTableData converts a run result to the association diff
// table.
func AssociationsToTableData(result *crosswalk.Result) Data {
	headers := []string{"Edge Type", "To Add", "To Remove", "Skipped", "Mode"}
	rows := make([][]string, 0, len(result.Diffs))
	for _, edge := range assoc.AllEdgeTypes() {
		diff := result.Diffs[edge]
		if diff == nil {
			continue
		}
		mode := "full"
		if diff.AddOnly {
			mode = "add-only"
		}
		rows = append(rows, []string{
			edge.String(),
			strconv.Itoa(len(diff.ToAdd)),
			strconv.Itoa(len(diff.ToRemove)),
			strconv.Itoa(result.SkippedEdges[edge]),
			mode,
		})
	}
	return Data{
		Headers: headers,
		Rows:    rows,
		ColumnAlignment: []Align{
			AlignLeft, AlignRight, AlignRight, AlignRight, AlignLeft,
		},
	}
}

// AmbiguitiesToTableData lists destination records that shared a natural
// key, per entity type.
func AmbiguitiesToTableData(result *crosswalk.Result) Data {
	headers := []string{"Entity Type", "Key", "Value", "Kept Record", "Dropped Record"}
	var rows [][]string
	for _, typ := range entities.AllTypes() {
		for _, a := range result.Ambiguities[typ] {
			rows = append(rows, []string{
				typ.String(),
				a.Key.String(),
				a.Value,
				a.KeptID,
				a.DroppedID,
			})
		}
	}
	return Data{Headers: headers, Rows: rows}
}

// ProfilesToTableData lists the configured entity profiles.
func ProfilesToTableData(set *profile.Set) Data {
	headers := []string{"Entity Type", "Match Keys", "Compared Fields"}
	rows := make([][]string, 0, 3)
	for _, typ := range set.Types() {
		prof, err := set.Profile(typ)
		if err != nil {
			continue
		}
		rows = append(rows, []string{
			typ.String(),
			joinKeys(prof.Keys),
			strconv.Itoa(len(prof.Fields)),
		})
	}
	return Data{Headers: headers, Rows: rows}
}

// matchRate is the share of the batch that resolved to an existing record.
func matchRate(s differ.Summary) string {
	total := s.New + s.Updated + s.Unchanged
	if total == 0 {
		return "-"
	}
	matched := s.Updated + s.Unchanged
	return fmt.Sprintf("%.1f%%", float64(matched)/float64(total)*100)
}

func joinKeys(keys []entities.KeyName) string {
	out := ""
	for i, k := range keys {
		if i > 0 {
			out += ", "
		}
		out += k.String()
	}
	return out
}
