package profile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caresync/crosswalk/pkg/assoc"
	"github.com/caresync/crosswalk/pkg/entities"
	"github.com/caresync/crosswalk/pkg/profile"
)

func TestDefaults(t *testing.T) {
	set := profile.Defaults()

	assert.Equal(t, entities.AllTypes(), set.Types())

	fac, err := set.Profile(entities.TypeFacility)
	require.NoError(t, err)
	assert.Equal(t, []entities.KeyName{entities.KeyCCN, entities.KeyNPI}, fac.Keys)
	assert.Equal(t, entities.KeyCCN, fac.Primary())
	assert.Contains(t, fac.Fields.Names(), "Total Beds")

	con, err := set.Profile(entities.TypeContact)
	require.NoError(t, err)
	assert.Equal(t, entities.KeyRegistryID, con.Primary())
	assert.Equal(t, []entities.KeyName{entities.KeyRegistryID, entities.KeyEmail}, con.Keys)

	require.Len(t, set.Associations(), 3)
	assert.Equal(t, assoc.EdgeFacilityOrganization, set.Associations()[0].Type)
	assert.Equal(t, "Associated Company IDs", set.Associations()[0].PackedColumn)
}

func TestProfileUnknownType(t *testing.T) {
	_, err := profile.Defaults().Profile(entities.Type("widget"))
	assert.Error(t, err)
}

func TestProfileResolver(t *testing.T) {
	fac, err := profile.Defaults().Profile(entities.TypeFacility)
	require.NoError(t, err)

	r := fac.Resolver()
	require.Len(t, r.Strategies(), 2)
	assert.Equal(t, entities.KeyCCN, r.Strategies()[0].Key)
	// the CCN canonicalizer keeps leading zeros
	assert.Equal(t, "012345", r.Strategies()[0].Normalize("012345.0"))
	// the NPI canonicalizer round-trips through an integer
	assert.Equal(t, "1234567890", r.Strategies()[1].Normalize("1234567890.0"))
}

func TestParseOverridesFields(t *testing.T) {
	set, err := profile.Parse([]byte(`
entities:
  facility:
    keys: [npi, ccn]
    fields:
      - name: Name of Facility
      - name: Total Beds
        numeric: true
`))
	require.NoError(t, err)

	fac, err := set.Profile(entities.TypeFacility)
	require.NoError(t, err)
	assert.Equal(t, entities.KeyNPI, fac.Primary())
	assert.Equal(t, []string{"Name of Facility", "Total Beds"}, fac.Fields.Names())
	assert.True(t, fac.Fields[1].Numeric)

	// untouched types keep their defaults
	con, err := set.Profile(entities.TypeContact)
	require.NoError(t, err)
	assert.Equal(t, entities.KeyRegistryID, con.Primary())
}

func TestParseOverridesAssociations(t *testing.T) {
	set, err := profile.Parse([]byte(`
associations:
  - type: contact-facility
    from: contact
    to: facility
    packed_on: contact
    packed_column: Facility Links
`))
	require.NoError(t, err)

	require.Len(t, set.Associations(), 1)
	assert.Equal(t, "Facility Links", set.Associations()[0].PackedColumn)
}

func TestParseRejectsUnknownEntityType(t *testing.T) {
	_, err := profile.Parse([]byte("entities:\n  widget:\n    keys: [ccn]\n"))
	assert.Error(t, err)
}

func TestParseRejectsUnknownEdgeType(t *testing.T) {
	_, err := profile.Parse([]byte(`
associations:
  - type: facility-widget
    from: facility
    to: organization
    packed_on: facility
    packed_column: X
`))
	assert.Error(t, err)
}

func TestParseRejectsInvalidYAML(t *testing.T) {
	_, err := profile.Parse([]byte("entities: [not a map"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profiles.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
entities:
  contact:
    keys: [email]
`), 0o644))

	set, err := profile.Load(path)
	require.NoError(t, err)

	con, err := set.Profile(entities.TypeContact)
	require.NoError(t, err)
	assert.Equal(t, entities.KeyEmail, con.Primary())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := profile.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
