package assoc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caresync/crosswalk/pkg/assoc"
	"github.com/caresync/crosswalk/pkg/entities"
)

func facOrgEdge(from, to string) assoc.Edge {
	return assoc.Edge{
		Type:     assoc.EdgeFacilityOrganization,
		FromType: entities.TypeFacility,
		FromID:   from,
		ToType:   entities.TypeOrganization,
		ToID:     to,
	}
}

func setOf(edges ...assoc.Edge) *assoc.Set {
	s := assoc.NewSet()
	for _, e := range edges {
		s.Add(e)
	}
	return s
}

func TestSetAdd(t *testing.T) {
	s := assoc.NewSet()

	assert.True(t, s.Add(facOrgEdge("A", "B")))
	assert.False(t, s.Add(facOrgEdge("A", "B")), "duplicate dropped")
	assert.False(t, s.Add(facOrgEdge("", "B")), "blank from dropped")
	assert.False(t, s.Add(facOrgEdge("A", "")), "blank to dropped")

	assert.Equal(t, 1, s.Len())
	assert.True(t, s.Contains(facOrgEdge("A", "B")))
	assert.False(t, s.Contains(facOrgEdge("B", "A")), "direction is part of identity")
}

func TestComputeDiff(t *testing.T) {
	current := setOf(facOrgEdge("A", "B"))
	desired := setOf(facOrgEdge("A", "B"), facOrgEdge("A", "C"))

	d := assoc.Compute(assoc.EdgeFacilityOrganization, current, desired)

	assert.Equal(t, []assoc.Edge{facOrgEdge("A", "C")}, d.ToAdd)
	assert.Empty(t, d.ToRemove)
	assert.False(t, d.AddOnly)
	assert.True(t, d.HasChanges())
}

func TestComputeRemovals(t *testing.T) {
	current := setOf(facOrgEdge("A", "B"), facOrgEdge("A", "C"))
	desired := setOf(facOrgEdge("A", "C"))

	d := assoc.Compute(assoc.EdgeFacilityOrganization, current, desired)

	assert.Empty(t, d.ToAdd)
	assert.Equal(t, []assoc.Edge{facOrgEdge("A", "B")}, d.ToRemove)
}

func TestComputeIdenticalIsEmpty(t *testing.T) {
	current := setOf(facOrgEdge("A", "B"), facOrgEdge("A", "C"))
	desired := setOf(facOrgEdge("A", "C"), facOrgEdge("A", "B"))

	d := assoc.Compute(assoc.EdgeFacilityOrganization, current, desired)

	assert.True(t, d.IsEmpty())
	assert.Equal(t, "facility-organization: no changes detected", d.String())
}

// An edge is never simultaneously added and removed in one diff.
func TestComputeAddRemoveDisjoint(t *testing.T) {
	current := setOf(facOrgEdge("A", "B"), facOrgEdge("C", "D"))
	desired := setOf(facOrgEdge("A", "B"), facOrgEdge("E", "F"))

	d := assoc.Compute(assoc.EdgeFacilityOrganization, current, desired)

	for _, add := range d.ToAdd {
		for _, rem := range d.ToRemove {
			assert.NotEqual(t, add, rem)
		}
	}
}

// Edges of different types never cancel each other: a contact-facility
// edge with the same endpoints as a desired facility-organization edge is
// neither a match nor a removal for that type's diff.
func TestComputePerEdgeType(t *testing.T) {
	cfEdge := assoc.Edge{
		Type:     assoc.EdgeContactFacility,
		FromType: entities.TypeContact,
		FromID:   "A",
		ToType:   entities.TypeFacility,
		ToID:     "B",
	}
	current := setOf(cfEdge)
	desired := setOf(facOrgEdge("A", "B"))

	d := assoc.Compute(assoc.EdgeFacilityOrganization, current, desired)

	assert.Equal(t, []assoc.Edge{facOrgEdge("A", "B")}, d.ToAdd)
	assert.Empty(t, d.ToRemove, "other-type current edge ignored")

	cf := assoc.Compute(assoc.EdgeContactFacility, current, desired)
	assert.Empty(t, cf.ToAdd)
	assert.Equal(t, []assoc.Edge{cfEdge}, cf.ToRemove)
}

func TestComputeSortedOutput(t *testing.T) {
	current := setOf()
	desired := setOf(facOrgEdge("B", "X"), facOrgEdge("A", "Z"), facOrgEdge("A", "Y"))

	d := assoc.Compute(assoc.EdgeFacilityOrganization, current, desired)

	require.Len(t, d.ToAdd, 3)
	assert.Equal(t, facOrgEdge("A", "Y"), d.ToAdd[0])
	assert.Equal(t, facOrgEdge("A", "Z"), d.ToAdd[1])
	assert.Equal(t, facOrgEdge("B", "X"), d.ToAdd[2])
}

// Add-only mode: removals are impossible when the current edges cannot be
// observed, and the mode is flagged on the diff rather than inferred from
// an empty current set.
func TestComputeAddOnly(t *testing.T) {
	desired := setOf(facOrgEdge("A", "B"), facOrgEdge("A", "C"))

	d := assoc.ComputeAddOnly(assoc.EdgeFacilityOrganization, desired)

	assert.True(t, d.AddOnly)
	assert.Len(t, d.ToAdd, 2)
	assert.Empty(t, d.ToRemove)
	assert.Equal(t, "facility-organization: 2 to add (add-only)", d.String())
}

func TestExpand(t *testing.T) {
	tests := []struct {
		name   string
		packed string
		want   []string
	}{
		{"single", "101", []string{"101"}},
		{"multiple", "101;102;103", []string{"101", "102", "103"}},
		{"blanks discarded", "101;;102; ;103", []string{"101", "102", "103"}},
		{"duplicates collapse", "101;102;101", []string{"101", "102"}},
		{"float decorations", "101.0;102.0", []string{"101", "102"}},
		{"non-numeric discarded", "101;abc;102", []string{"101", "102"}},
		{"whitespace", " 101 ; 102 ", []string{"101", "102"}},
		{"empty", "", nil},
		{"nan", "nan", nil},
		{"only separators", ";;;", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, assoc.Expand(tt.packed))
		})
	}
}

func TestEdgeTypeValid(t *testing.T) {
	for _, et := range assoc.AllEdgeTypes() {
		assert.True(t, et.Valid(), et)
	}
	assert.False(t, assoc.EdgeType("facility-widget").Valid())
}

func BenchmarkCompute(b *testing.B) {
	current := assoc.NewSet()
	desired := assoc.NewSet()
	for i := 0; i < 1000; i++ {
		e := facOrgEdge(string(rune('A'+i%26)), string(rune('a'+i%26)))
		current.Add(e)
		if i%2 == 0 {
			desired.Add(e)
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		assoc.Compute(assoc.EdgeFacilityOrganization, current, desired)
	}
}
