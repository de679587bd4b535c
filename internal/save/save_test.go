package save

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caresync/crosswalk/pkg/assoc"
	"github.com/caresync/crosswalk/pkg/constants"
	"github.com/caresync/crosswalk/pkg/differ"
	"github.com/caresync/crosswalk/pkg/entities"
)

func testPlan() *Plan {
	facilities := &differ.Changeset{
		Type: entities.TypeFacility,
		New: []entities.Entity{
			{
				Type: entities.TypeFacility,
				Attributes: map[string]string{
					"Name of Facility": "Sunrise Care Center",
					"CCN":              "012345",
					"DHC ID":           "1001",
				},
			},
		},
		Updated: []differ.Update{
			{
				ID: "302",
				Changes: []differ.FieldChange{
					{Name: "Total Beds", OldValue: "120", NewValue: "130"},
					{Name: "Phone Number", OldValue: "", NewValue: "(512) 555-0101"},
				},
			},
		},
	}
	facilities.Summary = differ.Summary{New: 1, Updated: 1, FieldChanges: 2, TotalChanges: 2}

	return &Plan{
		RunID:     "run-1",
		CreatedAt: time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC),
		Changesets: map[entities.Type]*differ.Changeset{
			entities.TypeFacility: facilities,
		},
		Diffs: map[assoc.EdgeType]*assoc.Diff{
			assoc.EdgeFacilityOrganization: {
				Type: assoc.EdgeFacilityOrganization,
				ToAdd: []assoc.Edge{
					{
						Type:     assoc.EdgeFacilityOrganization,
						FromType: entities.TypeFacility,
						FromID:   "301",
						ToType:   entities.TypeOrganization,
						ToID:     "402",
					},
				},
			},
		},
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWritePlanLayout(t *testing.T) {
	dir := t.TempDir()
	w := New(WithDir(dir))
	require.NoError(t, w.Write(context.Background(), testPlan()))

	newRows := readCSV(t, filepath.Join(dir, constants.NewRecordsDir, "facility.csv"))
	require.Len(t, newRows, 2)
	assert.Equal(t, []string{"CCN", "DHC ID", "Name of Facility"}, newRows[0])
	assert.Equal(t, []string{"012345", "1001", "Sunrise Care Center"}, newRows[1])

	updRows := readCSV(t, filepath.Join(dir, constants.UpdatesDir, "facility.csv"))
	require.Len(t, updRows, 3)
	assert.Equal(t, []string{constants.RecordIDColumn, "Field", "Old Value", "New Value"}, updRows[0])
	assert.Equal(t, []string{"302", "Total Beds", "120", "130"}, updRows[1])

	addRows := readCSV(t, filepath.Join(dir, constants.AssociationsAddDir, "facility-organization.csv"))
	require.Len(t, addRows, 2)
	assert.Equal(t, []string{"facility", "301", "organization", "402"}, addRows[1])

	// No removals, so no remove file.
	_, err := os.Stat(filepath.Join(dir, constants.AssociationsRemoveDir))
	assert.True(t, os.IsNotExist(err))
}

func TestWriteSummary(t *testing.T) {
	dir := t.TempDir()
	w := New(WithDir(dir))
	require.NoError(t, w.Write(context.Background(), testPlan()))

	data, err := os.ReadFile(filepath.Join(dir, constants.SummaryFile))
	require.NoError(t, err)

	var doc summaryDoc
	require.NoError(t, yaml.Unmarshal(data, &doc))
	assert.Equal(t, "run-1", doc.RunID)
	assert.Equal(t, 1, doc.Entities["facility"].New)
	assert.Equal(t, 2, doc.Entities["facility"].FieldChanges)
	assert.Equal(t, 1, doc.Associations["facility-organization"].ToAdd)
	assert.False(t, doc.Associations["facility-organization"].AddOnly)
}

func TestWriteDryRun(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "never-created")
	w := New(WithDir(dir), WithDryRun(true))
	require.NoError(t, w.Write(context.Background(), testPlan()))

	_, err := os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
}

func TestWriteEmptyPlan(t *testing.T) {
	dir := t.TempDir()
	w := New(WithDir(dir))
	require.NoError(t, w.Write(context.Background(), &Plan{RunID: "run-2", CreatedAt: time.Now()}))

	// Only the summary exists.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, constants.SummaryFile, entries[0].Name())
}
