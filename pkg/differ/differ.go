// Package differ implements change detection: deciding whether a resolved
// entity's declared comparison fields have drifted from the destination
// record, and partitioning a resolved batch into new, updated, and
// unchanged sets.
package differ

import (
	"github.com/caresync/crosswalk/pkg/entities"
	"github.com/caresync/crosswalk/pkg/errors"
	"github.com/caresync/crosswalk/pkg/normalize"
	"github.com/caresync/crosswalk/pkg/resolve"
)

// Field is one comparison field. Numeric-like fields get trailing ".0"
// decorations stripped before comparison.
type Field struct {
	Name    string `json:"name" yaml:"name"`
	Numeric bool   `json:"numeric,omitempty" yaml:"numeric,omitempty"`
}

// FieldSet is the ordered comparison field set declared for an entity type.
type FieldSet []Field

// Names returns the field names in declared order.
func (fs FieldSet) Names() []string {
	names := make([]string, len(fs))
	for i, f := range fs {
		names[i] = f.Name
	}
	return names
}

// Differ handles change detection between source entities and destination
// records.
type Differ struct {
	ignoreFields map[string]bool
}

// New creates a Differ with default settings.
func New(opts ...Option) *Differ {
	d := &Differ{
		ignoreFields: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Detect compares an entity against its destination record over the
// declared field set and returns the update, or nil when nothing changed.
// Both sides of every comparison pass through the same normalization, so
// surface formatting differences never register as drift. A field absent
// on the destination side compares as empty rather than being skipped.
//
// The entity must carry a destination record ID; calling Detect on an
// unresolved entity is a caller contract violation and returns an error
// matching errors.ErrUnresolved.
func (d *Differ) Detect(e entities.Entity, rec entities.Record, fields FieldSet) (*Update, error) {
	if !e.Resolved() {
		return nil, errors.NewUnresolvedEntityError(e.Type.String(), e.PrimaryKey().Value)
	}

	var changes []FieldChange
	for _, f := range fields {
		if d.ignoreFields[f.Name] {
			continue
		}
		oldValue := normalizeField(rec.Attribute(f.Name), f.Numeric)
		newValue := normalizeField(e.Attribute(f.Name), f.Numeric)
		if oldValue != newValue {
			changes = append(changes, FieldChange{
				Name:     f.Name,
				OldValue: oldValue,
				NewValue: newValue,
			})
		}
	}

	if len(changes) == 0 {
		return nil, nil
	}
	return &Update{
		ID:      e.RecordID,
		Entity:  e,
		Record:  rec,
		Changes: changes,
	}, nil
}

// Entities partitions a resolved batch into a Changeset. Unmatched results
// become New; matched results are compared field by field and land in
// Updated or Unchanged. Input order is preserved within each set, so output
// is deterministic for a given batch.
//
// A matched result whose record ID is missing from the snapshot indicates
// the index and snapshot are out of step, which is a caller error.
func (d *Differ) Entities(results []resolve.MatchResult, snap *entities.Snapshot, fields FieldSet) (*Changeset, error) {
	cs := &Changeset{Type: snap.Type()}
	for _, res := range results {
		if !res.Matched() {
			cs.New = append(cs.New, res.Entity)
			continue
		}
		rec, ok := snap.Record(res.RecordID)
		if !ok {
			return nil, errors.NewValidationError("record_id", res.RecordID,
				"matched record ID not present in destination snapshot")
		}
		update, err := d.Detect(res.Entity, rec, fields)
		if err != nil {
			return nil, err
		}
		if update != nil {
			cs.Updated = append(cs.Updated, *update)
		} else {
			cs.Unchanged = append(cs.Unchanged, res.Entity)
		}
	}
	cs.Summary = cs.summarize()
	return cs, nil
}

// normalizeField canonicalizes one side of a field comparison.
func normalizeField(v string, numeric bool) string {
	if numeric {
		return normalize.Numeric(v)
	}
	return normalize.Text(v)
}
