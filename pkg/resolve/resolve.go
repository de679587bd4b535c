// Package resolve implements identity resolution: deciding whether a source
// entity already exists in the destination system by trying an ordered list
// of natural-key matching strategies against a prebuilt index of the
// destination snapshot.
//
// Resolution is total and pure. Malformed key values normalize to empty and
// simply skip their strategy; they never fail a resolution. The ordering of
// strategies is the tie-break policy: the first strategy that has both a
// key value on the entity and a hit in the index wins, even when a later
// strategy would have matched a different destination record.
package resolve

import (
	"github.com/caresync/crosswalk/pkg/entities"
)

// Strategy is one natural-key matcher. Normalize is applied to the key
// value on both the entity and the destination record, so the two sides
// always compare through the same canonical form.
type Strategy struct {
	Key       entities.KeyName
	Normalize func(string) string
}

// normalize applies the strategy's canonicalizer, treating a nil Normalize
// as identity.
func (s Strategy) normalize(v string) string {
	if s.Normalize == nil {
		return v
	}
	return s.Normalize(v)
}

// MatchResult is the outcome of resolving one entity. RecordID is non-empty
// exactly when MatchedBy is non-empty; both empty means the entity is new
// to the destination.
type MatchResult struct {
	Entity    entities.Entity
	RecordID  string
	MatchedBy entities.KeyName
}

// Matched reports whether the entity resolved to a destination record.
func (m MatchResult) Matched() bool {
	return m.RecordID != ""
}

// Resolver resolves entities of one type using its declared strategy order.
type Resolver struct {
	strategies []Strategy
}

// New returns a Resolver that tries the given strategies in order.
func New(strategies ...Strategy) *Resolver {
	return &Resolver{strategies: strategies}
}

// Strategies returns the declared strategy order.
func (r *Resolver) Strategies() []Strategy {
	return r.strategies
}

// Resolve maps an entity to at most one destination record ID. Strategies
// are tried in declared order; a strategy whose normalized key value is
// empty falls through to the next without counting as a miss. The first
// strategy with both a value and an index hit wins. On a match the
// returned entity carries the record ID.
func (r *Resolver) Resolve(e entities.Entity, idx *Index) MatchResult {
	for _, s := range r.strategies {
		v := s.normalize(e.Key(s.Key))
		if v == "" {
			continue
		}
		if id, ok := idx.lookup(s.Key, v); ok {
			e.RecordID = id
			return MatchResult{Entity: e, RecordID: id, MatchedBy: s.Key}
		}
	}
	return MatchResult{Entity: e}
}

// ResolveAll resolves every entity in a batch, preserving batch order.
func (r *Resolver) ResolveAll(tbl *entities.Table, idx *Index) []MatchResult {
	results := make([]MatchResult, 0, tbl.Len())
	for _, e := range tbl.Entities() {
		results = append(results, r.Resolve(e, idx))
	}
	return results
}
