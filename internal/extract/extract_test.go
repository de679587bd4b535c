package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caresync/crosswalk/pkg/assoc"
	"github.com/caresync/crosswalk/pkg/entities"
	"github.com/caresync/crosswalk/pkg/errors"
	"github.com/caresync/crosswalk/pkg/profile"
)

const registryCSV = `Facility name,Provider number,Facility subtype,Facility status,AddressLine 1,AddressLine 2,City,State,Zip code,Organization phone,Facility primary NPI,Facility website,Number of staffed beds,Facility definitive ID,Network ID,Network
Sunrise Care Center,012345,Skilled Nursing Facility,Active,1 Main St,,Austin,TX,78701.0,(512) 555-0100,1234567890.0,https://sunrise.example,120.0,1001,2001.0,Sunrise Group
Sunset Manor,,Skilled Nursing Facility,Active,2 Oak Ave,,Dallas,TX,75201,512-555-0101,,,80,1002,2001,Sunrise Group
Maple Assisted Living,,Assisted Living Facility,Active,3 Elm Rd,,Miami,FL,33101,3055550102,,,40,1003,2002.0,Maple Group
Closed Home,067890,Skilled Nursing Facility,Closed,4 Pine St,,Austin,TX,78702,,,,60,1004,2001,Sunrise Group
Overseas Clinic,054321,Skilled Nursing Facility,Active,5 Rue St,,Paris,ZZ,00000,,,,50,1005,2001,Sunrise Group
Sunrise Group,,Network,Active,10 HQ Blvd,Suite 200,Austin,TX,78705,(512) 555-0200,,https://group.example,,2001,,
Maple Group,,Network,Active,11 HQ Way,,Lisbon,ZZ,00000,,,,,2002,,
`

const executivesCSV = `GLOBAL_PERSON_ID,FIRST_NAME,LAST_NAME,TITLE,EMAIL,FIRM_TYPE,HOSPITAL_ID,HOSPITAL_NAME
5001,Ann,Lee,Administrator,ANN.LEE@example.com,Skilled Nursing Facility,1001,Sunrise Care Center
5001,Ann,Lee,Administrator,ann.lee@example.com,Skilled Nursing Facility,1003,Maple Assisted Living
5002,Bob,Ray,Director of Nursing,bob.ray@example.com,Hospital,1001,General Hospital
5003,Cat,Kim,Executive Director,cat.kim@example.com,Assisted Living Facility Corporation,1004,Closed Home
`

func newTestExtractor(t *testing.T) *Extractor {
	t.Helper()
	return New(profile.Defaults())
}

func TestRegistryFacilityFilters(t *testing.T) {
	x := newTestExtractor(t)
	reg, err := x.Registry(strings.NewReader(registryCSV))
	require.NoError(t, err)

	ids := make([]string, 0, reg.Facilities.Len())
	for _, e := range reg.Facilities.Entities() {
		ids = append(ids, e.Key(entities.KeyRegistryID))
	}

	// 1002 drops (SNF without a provider number), 1004 drops (inactive),
	// 1005 drops (not a US state).
	assert.Equal(t, []string{"1001", "1003"}, ids)
}

func TestRegistryFacilityAttributes(t *testing.T) {
	x := newTestExtractor(t)
	reg, err := x.Registry(strings.NewReader(registryCSV))
	require.NoError(t, err)

	e := reg.Facilities.Entities()[0]
	assert.Equal(t, "Sunrise Care Center", e.Attribute("Name of Facility"))
	assert.Equal(t, "012345", e.Attribute("CCN"), "CCN keeps leading zeros")
	assert.Equal(t, "SNF", e.Attribute("Facility Type"))
	assert.Equal(t, "78701", e.Attribute("Zip Code"), "float zip round-trip strips .0")
	assert.Equal(t, "(512) 555-0100", e.Attribute("Phone Number"))
	assert.Equal(t, "1234567890", e.Attribute("NPI"))
	assert.Equal(t, "120", e.Attribute("Total Beds"))
	assert.Equal(t, "1001", e.Attribute("DHC ID"))
	assert.Equal(t, "1 Main St, Austin, TX, 78701", e.Attribute("Facility's Address"))
}

func TestRegistryOrganizations(t *testing.T) {
	x := newTestExtractor(t)
	reg, err := x.Registry(strings.NewReader(registryCSV))
	require.NoError(t, err)

	// 2001 qualifies (network of kept facilities, US state). 2002 is the
	// network of a kept facility but fails the US filter.
	require.Equal(t, 1, reg.Organizations.Len())
	org := reg.Organizations.Entities()[0]
	assert.Equal(t, "2001", org.Key(entities.KeyRegistryID))
	assert.Equal(t, "Sunrise Group", org.Attribute("Company name"))
	assert.Equal(t, "10 HQ Blvd, Suite 200", org.Attribute("Street Address"))
	assert.Equal(t, "United States", org.Attribute("Country/Region"))
}

func TestRegistryNetworkMap(t *testing.T) {
	x := newTestExtractor(t)
	reg, err := x.Registry(strings.NewReader(registryCSV))
	require.NoError(t, err)

	assert.Equal(t, "2001", reg.FacilityNetwork["1001"])
	assert.Equal(t, "2002", reg.FacilityNetwork["1003"], "float network ID normalizes")
}

func TestRegistryMissingColumn(t *testing.T) {
	x := newTestExtractor(t)
	_, err := x.Registry(strings.NewReader("Facility name,State\nA,TX\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrMissingColumn))
}

func TestContactsFirmTypeFilterAndDedup(t *testing.T) {
	x := newTestExtractor(t)
	contacts, err := x.Contacts(strings.NewReader(executivesCSV))
	require.NoError(t, err)

	// 5002 drops (Hospital firm type); 5001's second row dedupes.
	require.Equal(t, 2, contacts.Table.Len())
	assert.Equal(t, 1, contacts.Table.Duplicates())

	ann := contacts.Table.Entities()[0]
	assert.Equal(t, "5001", ann.Key(entities.KeyRegistryID))
	assert.Equal(t, "ann.lee@example.com", ann.Attribute("Email"), "email lowercases")
	assert.Equal(t, "Administrator", ann.Attribute("Job Title"))
}

func TestContactsAffiliationsKeepAllRows(t *testing.T) {
	x := newTestExtractor(t)
	contacts, err := x.Contacts(strings.NewReader(executivesCSV))
	require.NoError(t, err)

	// Affiliations survive deduplication: Ann links to both facilities.
	assert.Equal(t, []Affiliation{
		{ContactID: "5001", FacilityID: "1001"},
		{ContactID: "5001", FacilityID: "1003"},
		{ContactID: "5003", FacilityID: "1004"},
	}, contacts.Affiliations)
}

func TestDesiredEdges(t *testing.T) {
	x := newTestExtractor(t)
	reg, err := x.Registry(strings.NewReader(registryCSV))
	require.NoError(t, err)
	contacts, err := x.Contacts(strings.NewReader(executivesCSV))
	require.NoError(t, err)

	desired := Desired(reg, contacts)

	// Facility 1001 links to network 2001; facility 1003's network 2002
	// was filtered out, so no edge.
	fo := desired[assoc.EdgeFacilityOrganization].Edges()
	require.Len(t, fo, 1)
	assert.Equal(t, "1001", fo[0].FromID)
	assert.Equal(t, "2001", fo[0].ToID)

	// Ann's affiliation to 1001 survives; 1003 is a kept facility so that
	// edge survives too; Cat's 1004 was filtered out.
	cf := desired[assoc.EdgeContactFacility].Edges()
	require.Len(t, cf, 2)
	assert.Equal(t, "1001", cf[0].ToID)
	assert.Equal(t, "1003", cf[1].ToID)

	// Contact-organization follows the facility's network: only the 1001
	// affiliation reaches a kept organization.
	co := desired[assoc.EdgeContactOrganization].Edges()
	require.Len(t, co, 1)
	assert.Equal(t, "5001", co[0].FromID)
	assert.Equal(t, "2001", co[0].ToID)
}

func TestDestinationSnapshot(t *testing.T) {
	x := newTestExtractor(t)
	csv := `Record ID,Name of Facility,CCN,NPI,DHC ID,Associated Company IDs
301.0,Sunrise Care Center,012345,1234567890,1001,401;402
302,Sunset Manor,,,1002,
,No ID Row,,,1003,
`
	snap, err := x.Destination(strings.NewReader(csv), entities.TypeFacility, "crm-facilities")
	require.NoError(t, err)

	// The blank-ID row drops; record IDs normalize through the float
	// round-trip.
	require.Equal(t, 2, snap.Len())
	rec, ok := snap.Record("301")
	require.True(t, ok)
	assert.Equal(t, "012345", rec.Key(entities.KeyCCN))
	assert.Equal(t, "1001", rec.Key(entities.KeyRegistryID))
	assert.Equal(t, "401;402", rec.Attribute("Associated Company IDs"))
	assert.True(t, snap.HasColumn("Associated Company IDs"))
	assert.False(t, snap.HasColumn("Associated Facility IDs"))
}

func TestDestinationRequiresRecordID(t *testing.T) {
	x := newTestExtractor(t)
	_, err := x.Destination(strings.NewReader("DHC ID\n1001\n"), entities.TypeFacility, "crm")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrMissingColumn))
}

func TestCurrentEdges(t *testing.T) {
	specs := profile.Defaults().Associations()
	var facOrg profile.AssociationSpec
	for _, s := range specs {
		if s.Type == assoc.EdgeFacilityOrganization {
			facOrg = s
		}
	}
	require.NotEmpty(t, facOrg.PackedColumn)

	snap := entities.NewSnapshot(entities.TypeFacility)
	snap.SetColumns([]string{"Record ID", facOrg.PackedColumn})
	snap.Add(entities.Record{ID: "301", Attributes: map[string]string{facOrg.PackedColumn: "401;402.0;;401"}})
	snap.Add(entities.Record{ID: "302", Attributes: map[string]string{facOrg.PackedColumn: ""}})

	set, observed := Current(snap, facOrg)
	assert.True(t, observed)
	require.Equal(t, 2, set.Len())
	assert.True(t, set.Contains(assoc.Edge{
		Type:     assoc.EdgeFacilityOrganization,
		FromType: entities.TypeFacility,
		FromID:   "301",
		ToType:   entities.TypeOrganization,
		ToID:     "402",
	}))
}

func TestCurrentEdgesUnobservedColumn(t *testing.T) {
	specs := profile.Defaults().Associations()
	snap := entities.NewSnapshot(entities.TypeFacility)
	snap.SetColumns([]string{"Record ID"})
	snap.Add(entities.Record{ID: "301"})

	set, observed := Current(snap, specs[0])
	assert.False(t, observed, "absent packed column means add-only")
	assert.Equal(t, 0, set.Len())
}
