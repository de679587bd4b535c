// Package assoc implements the association diff engine: given two
// point-in-time snapshots of relationship edges between resolved entities,
// it computes the minimal add and remove edge sets.
//
// Edges are typed and directed; the full (type, endpoints) tuple is an
// edge's identity, and diffs are computed independently per edge type so
// edges of different types never cancel each other. Packed multi-valued
// edge encodings are expanded into flat edge sets by Expand before any
// diffing, keeping the diff algorithm itself free of encoding concerns.
package assoc

import (
	"sort"
	"strings"

	"github.com/caresync/crosswalk/pkg/constants"
	"github.com/caresync/crosswalk/pkg/entities"
	"github.com/caresync/crosswalk/pkg/normalize"
)

// EdgeType identifies one of the closed set of relationship types.
type EdgeType string

// Edge types.
const (
	EdgeFacilityOrganization EdgeType = "facility-organization"
	EdgeContactFacility      EdgeType = "contact-facility"
	EdgeContactOrganization  EdgeType = "contact-organization"
)

// AllEdgeTypes returns the edge types in pipeline order.
func AllEdgeTypes() []EdgeType {
	return []EdgeType{EdgeFacilityOrganization, EdgeContactFacility, EdgeContactOrganization}
}

// String returns the edge type as a string.
func (t EdgeType) String() string {
	return string(t)
}

// Valid reports whether the type is one of the known edge types.
func (t EdgeType) Valid() bool {
	switch t {
	case EdgeFacilityOrganization, EdgeContactFacility, EdgeContactOrganization:
		return true
	}
	return false
}

// Edge is a directed, typed relationship between two resolved destination
// identifiers. The full tuple is the edge's identity; FromID and ToID are
// not interchangeable.
type Edge struct {
	Type     EdgeType      `json:"type" yaml:"type"`
	FromType entities.Type `json:"from_type" yaml:"from_type"`
	FromID   string        `json:"from_id" yaml:"from_id"`
	ToType   entities.Type `json:"to_type" yaml:"to_type"`
	ToID     string        `json:"to_id" yaml:"to_id"`
}

// Set is a deduplicating edge container. Edges with a blank endpoint are
// discarded on insert; an edge cannot exist against an identifier that
// does not exist.
type Set struct {
	edges []Edge
	seen  map[Edge]struct{}
}

// NewSet returns an empty edge set.
func NewSet() *Set {
	return &Set{seen: make(map[Edge]struct{})}
}

// Add inserts an edge, reporting whether it was kept. Blank endpoints and
// duplicates are dropped.
func (s *Set) Add(e Edge) bool {
	if e.FromID == "" || e.ToID == "" {
		return false
	}
	if _, dup := s.seen[e]; dup {
		return false
	}
	s.seen[e] = struct{}{}
	s.edges = append(s.edges, e)
	return true
}

// Contains reports whether the set holds the exact edge tuple.
func (s *Set) Contains(e Edge) bool {
	_, ok := s.seen[e]
	return ok
}

// Edges returns the edges in insertion order. The returned slice is the
// set's backing storage and must not be mutated.
func (s *Set) Edges() []Edge {
	return s.edges
}

// Len returns the number of edges.
func (s *Set) Len() int {
	return len(s.edges)
}

// Expand splits a packed multi-valued edge encoding (a semicolon-joined
// identifier list in one destination column) into individual identifiers.
// Blanks and entries that do not parse as numeric IDs are discarded and
// duplicates collapse to one, so expansion is lossless over the valid
// entries and total over messy input.
func Expand(packed string) []string {
	if normalize.Text(packed) == "" {
		return nil
	}
	var ids []string
	seen := make(map[string]struct{})
	for _, part := range strings.Split(packed, constants.PackedIDSeparator) {
		id := normalize.NumericID(part)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

// sortEdges orders edges by endpoint IDs for stable diff output.
func sortEdges(edges []Edge) {
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].FromID != edges[j].FromID {
			return edges[i].FromID < edges[j].FromID
		}
		return edges[i].ToID < edges[j].ToID
	})
}
