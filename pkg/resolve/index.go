package resolve

import (
	"github.com/caresync/crosswalk/pkg/entities"
)

// Ambiguity records a natural key shared by two destination records. The
// first-seen record keeps the key; the later one is reported so the
// upstream data quality issue is visible rather than silently resolved.
type Ambiguity struct {
	Key       entities.KeyName `json:"key" yaml:"key"`
	Value     string           `json:"value" yaml:"value"`
	KeptID    string           `json:"kept_id" yaml:"kept_id"`
	DroppedID string           `json:"dropped_id" yaml:"dropped_id"`
}

// Index is the per-type destination lookup, built once per run from the
// destination snapshot before any resolution begins and never mutated
// afterwards. For each strategy key it maps the normalized key value to
// the destination record ID, first-seen wins.
type Index struct {
	typ         entities.Type
	lookups     map[entities.KeyName]map[string]string
	ambiguities []Ambiguity
}

// Index builds the destination index for the resolver's strategies from a
// snapshot. Records are visited in export order, which makes the
// first-match policy for duplicate keys deterministic. A record whose key
// value normalizes to empty is simply not indexed under that key.
func (r *Resolver) Index(snap *entities.Snapshot) *Index {
	idx := &Index{
		typ:     snap.Type(),
		lookups: make(map[entities.KeyName]map[string]string, len(r.strategies)),
	}
	for _, s := range r.strategies {
		idx.lookups[s.Key] = make(map[string]string)
	}

	for _, rec := range snap.Records() {
		for _, s := range r.strategies {
			v := s.normalize(rec.Key(s.Key))
			if v == "" {
				continue
			}
			lookup := idx.lookups[s.Key]
			if kept, dup := lookup[v]; dup {
				if kept != rec.ID {
					idx.ambiguities = append(idx.ambiguities, Ambiguity{
						Key:       s.Key,
						Value:     v,
						KeptID:    kept,
						DroppedID: rec.ID,
					})
				}
				continue
			}
			lookup[v] = rec.ID
		}
	}
	return idx
}

// Type returns the entity type the index covers.
func (i *Index) Type() entities.Type {
	return i.typ
}

// Ambiguities returns the duplicate-key collisions found while building
// the index, in snapshot order.
func (i *Index) Ambiguities() []Ambiguity {
	return i.ambiguities
}

// Len returns the number of indexed values for the given key.
func (i *Index) Len(key entities.KeyName) int {
	return len(i.lookups[key])
}

// lookup returns the record ID indexed under the given key and normalized
// value.
func (i *Index) lookup(key entities.KeyName, value string) (string, bool) {
	id, ok := i.lookups[key][value]
	return id, ok
}
