package assoc

import "fmt"

// Diff is the minimal edge delta for one edge type: the desired edges the
// destination lacks and the destination edges the source no longer wants.
// ToAdd and ToRemove are disjoint by construction. AddOnly marks the
// degraded mode used when the current destination edges could not be
// observed; in that mode ToRemove is always empty.
type Diff struct {
	Type     EdgeType `json:"type" yaml:"type"`
	ToAdd    []Edge   `json:"to_add,omitempty" yaml:"to_add,omitempty"`
	ToRemove []Edge   `json:"to_remove,omitempty" yaml:"to_remove,omitempty"`
	AddOnly  bool     `json:"add_only,omitempty" yaml:"add_only,omitempty"`
}

// Compute diffs the current destination edges against the desired source
// edges for one edge type, using full-tuple equality. Edges of other types
// in either set are ignored, so types never cancel each other. Both inputs
// must already contain only fully resolved endpoint identifiers. Output is
// sorted by endpoint IDs.
func Compute(t EdgeType, current, desired *Set) *Diff {
	d := &Diff{Type: t}

	for _, e := range desired.Edges() {
		if e.Type != t {
			continue
		}
		if !current.Contains(e) {
			d.ToAdd = append(d.ToAdd, e)
		}
	}
	for _, e := range current.Edges() {
		if e.Type != t {
			continue
		}
		if !desired.Contains(e) {
			d.ToRemove = append(d.ToRemove, e)
		}
	}

	sortEdges(d.ToAdd)
	sortEdges(d.ToRemove)
	return d
}

// ComputeAddOnly builds the explicit degraded diff used when the current
// destination edges cannot be observed (snapshot missing or no packed edge
// column): every desired edge of the type is added and nothing is removed.
func ComputeAddOnly(t EdgeType, desired *Set) *Diff {
	d := &Diff{Type: t, AddOnly: true}
	for _, e := range desired.Edges() {
		if e.Type != t {
			continue
		}
		d.ToAdd = append(d.ToAdd, e)
	}
	sortEdges(d.ToAdd)
	return d
}

// HasChanges returns true if the diff contains any adds or removes.
func (d *Diff) HasChanges() bool {
	return len(d.ToAdd) > 0 || len(d.ToRemove) > 0
}

// IsEmpty returns true if the diff contains no adds or removes.
func (d *Diff) IsEmpty() bool {
	return !d.HasChanges()
}

// String returns a human-readable summary of the diff.
func (d *Diff) String() string {
	if d.IsEmpty() {
		return fmt.Sprintf("%s: no changes detected", d.Type)
	}
	if d.AddOnly {
		return fmt.Sprintf("%s: %d to add (add-only)", d.Type, len(d.ToAdd))
	}
	return fmt.Sprintf("%s: %d to add, %d to remove", d.Type, len(d.ToAdd), len(d.ToRemove))
}
