// Package extract turns raw CSV inputs into the in-memory tables,
// snapshots, and edge intents the reconciliation engine consumes. The
// registry extract (a MasterORG-style facility export plus an executives
// export) yields source entity batches and desired relationship edges in
// registry-ID space; CRM exports yield destination snapshots with record
// IDs and the natural-key columns identity resolution needs.
package extract

import (
	"encoding/csv"
	"io"

	"github.com/caresync/crosswalk/pkg/constants"
	"github.com/caresync/crosswalk/pkg/entities"
	"github.com/caresync/crosswalk/pkg/errors"
	"github.com/caresync/crosswalk/pkg/normalize"
	"github.com/caresync/crosswalk/pkg/profile"
)

// Extractor builds entity batches and snapshots according to a profile set.
type Extractor struct {
	profiles *profile.Set
}

// New returns an Extractor for the given profile set.
func New(profiles *profile.Set) *Extractor {
	return &Extractor{profiles: profiles}
}

// table is a parsed CSV with header-indexed column access.
type table struct {
	columns []string
	index   map[string]int
	rows    [][]string
}

// readTable parses a whole CSV input. Rows with a field count different
// from the header are tolerated; missing cells read as empty.
func readTable(r io.Reader, source string) (*table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, errors.NewParseError("csv", source, "unreadable input", err)
	}
	if len(records) == 0 {
		return nil, errors.NewParseError("csv", source, "missing header row", nil)
	}

	t := &table{
		columns: records[0],
		index:   make(map[string]int, len(records[0])),
		rows:    records[1:],
	}
	for i, name := range t.columns {
		if _, dup := t.index[name]; !dup {
			t.index[name] = i
		}
	}
	return t, nil
}

// get returns the named cell of a row, or "" when the column or cell is
// absent.
func (t *table) get(row []string, column string) string {
	i, ok := t.index[column]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

// has reports whether the header carried the named column.
func (t *table) has(column string) bool {
	_, ok := t.index[column]
	return ok
}

// require checks that the header carries every named column.
func (t *table) require(source string, columns ...string) error {
	for _, c := range columns {
		if !t.has(c) {
			return errors.NewExtractError(source, c, errors.ErrMissingColumn)
		}
	}
	return nil
}

// destinationKeyColumns maps each natural key to its CRM export column,
// per entity type.
var destinationKeyColumns = map[entities.Type]map[entities.KeyName]string{
	entities.TypeFacility: {
		entities.KeyCCN:        "CCN",
		entities.KeyNPI:        "NPI",
		entities.KeyRegistryID: "DHC ID",
	},
	entities.TypeOrganization: {
		entities.KeyRegistryID: "DHC ID",
	},
	entities.TypeContact: {
		entities.KeyRegistryID: "DHC ID",
		entities.KeyEmail:      "Email",
	},
}

// Destination reads a CRM export into a snapshot. Every column lands in
// record attributes; the natural-key columns for the type are additionally
// lifted into record keys for index building. Rows without a usable record
// ID are dropped.
func (x *Extractor) Destination(r io.Reader, typ entities.Type, source string) (*entities.Snapshot, error) {
	if !typ.Valid() {
		return nil, errors.NewValidationError("type", typ.String(), "unknown entity type")
	}
	t, err := readTable(r, source)
	if err != nil {
		return nil, err
	}
	if err := t.require(source, constants.RecordIDColumn); err != nil {
		return nil, err
	}

	snap := entities.NewSnapshot(typ)
	snap.SetColumns(t.columns)

	keyColumns := destinationKeyColumns[typ]
	for _, row := range t.rows {
		id := normalize.NumericID(t.get(row, constants.RecordIDColumn))
		if id == "" {
			continue
		}

		attrs := make(map[string]string, len(t.columns))
		for _, c := range t.columns {
			attrs[c] = t.get(row, c)
		}

		keys := make([]entities.KeyValue, 0, len(keyColumns))
		for name, column := range keyColumns {
			keys = append(keys, entities.KeyValue{Name: name, Value: t.get(row, column)})
		}

		snap.Add(entities.Record{ID: id, Keys: keys, Attributes: attrs})
	}
	return snap, nil
}
