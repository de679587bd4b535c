package resolve_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caresync/crosswalk/pkg/entities"
	"github.com/caresync/crosswalk/pkg/normalize"
	"github.com/caresync/crosswalk/pkg/resolve"
)

func facilityResolver() *resolve.Resolver {
	return resolve.New(
		resolve.Strategy{Key: entities.KeyCCN, Normalize: normalize.Numeric},
		resolve.Strategy{Key: entities.KeyNPI, Normalize: normalize.NumericID},
	)
}

func facilitySnapshot(records ...entities.Record) *entities.Snapshot {
	snap := entities.NewSnapshot(entities.TypeFacility)
	for _, r := range records {
		snap.Add(r)
	}
	return snap
}

func TestResolveByPrimaryKey(t *testing.T) {
	r := facilityResolver()
	idx := r.Index(facilitySnapshot(entities.Record{
		ID:   "555",
		Keys: []entities.KeyValue{{Name: entities.KeyCCN, Value: "012345"}},
	}))

	result := r.Resolve(entities.Entity{
		Type: entities.TypeFacility,
		Keys: []entities.KeyValue{{Name: entities.KeyCCN, Value: "012345"}},
	}, idx)

	require.True(t, result.Matched())
	assert.Equal(t, "555", result.RecordID)
	assert.Equal(t, entities.KeyCCN, result.MatchedBy)
	assert.Equal(t, "555", result.Entity.RecordID)
}

// The primary key can come decorated as a float on either side and still
// match, because both sides pass through the same canonicalizer.
func TestResolveNormalizesBothSides(t *testing.T) {
	r := facilityResolver()
	idx := r.Index(facilitySnapshot(entities.Record{
		ID:   "555",
		Keys: []entities.KeyValue{{Name: entities.KeyCCN, Value: "012345.0"}},
	}))

	result := r.Resolve(entities.Entity{
		Type: entities.TypeFacility,
		Keys: []entities.KeyValue{{Name: entities.KeyCCN, Value: " 012345 "}},
	}, idx)

	require.True(t, result.Matched())
	assert.Equal(t, "555", result.RecordID)
}

// A primary-key hit must win over a secondary-key hit even when the two
// keys point at different destination records.
func TestResolveTieBreakPriority(t *testing.T) {
	r := facilityResolver()
	idx := r.Index(facilitySnapshot(
		entities.Record{
			ID:   "100",
			Keys: []entities.KeyValue{{Name: entities.KeyCCN, Value: "012345"}},
		},
		entities.Record{
			ID:   "200",
			Keys: []entities.KeyValue{{Name: entities.KeyNPI, Value: "1234567890"}},
		},
	))

	result := r.Resolve(entities.Entity{
		Type: entities.TypeFacility,
		Keys: []entities.KeyValue{
			{Name: entities.KeyCCN, Value: "012345"},
			{Name: entities.KeyNPI, Value: "1234567890"},
		},
	}, idx)

	require.True(t, result.Matched())
	assert.Equal(t, "100", result.RecordID)
	assert.Equal(t, entities.KeyCCN, result.MatchedBy)
}

// An empty primary key falls through to the next strategy instead of
// counting as a miss.
func TestResolveEmptyKeyFallsThrough(t *testing.T) {
	r := facilityResolver()
	idx := r.Index(facilitySnapshot(entities.Record{
		ID:   "200",
		Keys: []entities.KeyValue{{Name: entities.KeyNPI, Value: "1234567890"}},
	}))

	result := r.Resolve(entities.Entity{
		Type: entities.TypeFacility,
		Keys: []entities.KeyValue{
			{Name: entities.KeyCCN, Value: ""},
			{Name: entities.KeyNPI, Value: "1234567890"},
		},
	}, idx)

	require.True(t, result.Matched())
	assert.Equal(t, "200", result.RecordID)
	assert.Equal(t, entities.KeyNPI, result.MatchedBy)
}

// A malformed numeric key normalizes to empty and is skipped, never an
// error. Resolution stays total over the input domain.
func TestResolveMalformedKeySkipped(t *testing.T) {
	r := facilityResolver()
	idx := r.Index(facilitySnapshot(entities.Record{
		ID:   "200",
		Keys: []entities.KeyValue{{Name: entities.KeyNPI, Value: "1234567890"}},
	}))

	result := r.Resolve(entities.Entity{
		Type: entities.TypeFacility,
		Keys: []entities.KeyValue{
			{Name: entities.KeyCCN, Value: "no-such-ccn"},
			{Name: entities.KeyNPI, Value: "12a34"},
		},
	}, idx)

	assert.False(t, result.Matched())
	assert.Empty(t, result.RecordID)
	assert.Empty(t, result.MatchedBy)
}

func TestResolveNoMatchIsNew(t *testing.T) {
	r := facilityResolver()
	idx := r.Index(facilitySnapshot())

	result := r.Resolve(entities.Entity{
		Type: entities.TypeFacility,
		Keys: []entities.KeyValue{{Name: entities.KeyCCN, Value: "099999"}},
	}, idx)

	assert.False(t, result.Matched())
	// destinationId present iff matchedBy present
	assert.Equal(t, result.RecordID == "", result.MatchedBy == "")
}

// Two destination records sharing a natural key: the first-seen record
// keeps the key and the collision is reported, never multiply matched.
func TestIndexDuplicateKeyFirstSeenWins(t *testing.T) {
	r := facilityResolver()
	idx := r.Index(facilitySnapshot(
		entities.Record{
			ID:   "100",
			Keys: []entities.KeyValue{{Name: entities.KeyCCN, Value: "012345"}},
		},
		entities.Record{
			ID:   "101",
			Keys: []entities.KeyValue{{Name: entities.KeyCCN, Value: "012345"}},
		},
	))

	result := r.Resolve(entities.Entity{
		Type: entities.TypeFacility,
		Keys: []entities.KeyValue{{Name: entities.KeyCCN, Value: "012345"}},
	}, idx)

	require.True(t, result.Matched())
	assert.Equal(t, "100", result.RecordID)

	ambiguities := idx.Ambiguities()
	require.Len(t, ambiguities, 1)
	assert.Equal(t, entities.KeyCCN, ambiguities[0].Key)
	assert.Equal(t, "012345", ambiguities[0].Value)
	assert.Equal(t, "100", ambiguities[0].KeptID)
	assert.Equal(t, "101", ambiguities[0].DroppedID)
}

func TestIndexSkipsEmptyKeyValues(t *testing.T) {
	r := facilityResolver()
	idx := r.Index(facilitySnapshot(
		entities.Record{
			ID:   "100",
			Keys: []entities.KeyValue{{Name: entities.KeyCCN, Value: "nan"}},
		},
		entities.Record{
			ID:   "101",
			Keys: []entities.KeyValue{{Name: entities.KeyCCN, Value: ""}},
		},
	))

	assert.Zero(t, idx.Len(entities.KeyCCN))
	assert.Empty(t, idx.Ambiguities())
}

func TestResolveAll(t *testing.T) {
	r := facilityResolver()
	idx := r.Index(facilitySnapshot(entities.Record{
		ID:   "555",
		Keys: []entities.KeyValue{{Name: entities.KeyCCN, Value: "012345"}},
	}))

	tbl := entities.NewTable(entities.TypeFacility, entities.KeyCCN)
	tbl.Add(entities.Entity{
		Type: entities.TypeFacility,
		Keys: []entities.KeyValue{{Name: entities.KeyCCN, Value: "012345"}},
	})
	tbl.Add(entities.Entity{
		Type: entities.TypeFacility,
		Keys: []entities.KeyValue{{Name: entities.KeyCCN, Value: "067890"}},
	})

	results := r.ResolveAll(tbl, idx)
	require.Len(t, results, 2)
	assert.True(t, results[0].Matched())
	assert.False(t, results[1].Matched())
}

func BenchmarkResolve(b *testing.B) {
	r := facilityResolver()
	idx := r.Index(facilitySnapshot(entities.Record{
		ID:   "555",
		Keys: []entities.KeyValue{{Name: entities.KeyCCN, Value: "012345"}},
	}))
	entity := entities.Entity{
		Type: entities.TypeFacility,
		Keys: []entities.KeyValue{
			{Name: entities.KeyCCN, Value: "012345.0"},
			{Name: entities.KeyNPI, Value: "1234567890"},
		},
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.Resolve(entity, idx)
	}
}
