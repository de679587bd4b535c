package extract

import (
	"io"

	"github.com/caresync/crosswalk/pkg/entities"
	"github.com/caresync/crosswalk/pkg/errors"
	"github.com/caresync/crosswalk/pkg/normalize"
)

// Registry extract column names.
const (
	colFacilityName    = "Facility name"
	colProviderNumber  = "Provider number"
	colFacilitySubtype = "Facility subtype"
	colFacilityStatus  = "Facility status"
	colAddressLine1    = "AddressLine 1"
	colAddressLine2    = "AddressLine 2"
	colCity            = "City"
	colState           = "State"
	colZipCode         = "Zip code"
	colPhone           = "Organization phone"
	colPrimaryNPI      = "Facility primary NPI"
	colWebsite         = "Facility website"
	colStaffedBeds     = "Number of staffed beds"
	colRegistryID      = "Facility definitive ID"
	colNetworkID       = "Network ID"
)

// Registry subtype and status values.
const (
	subtypeSNF   = "Skilled Nursing Facility"
	subtypeALF   = "Assisted Living Facility"
	statusActive = "Active"
)

// RegistrySource identifies the facility registry extract in errors and
// logs.
const RegistrySource = "registry"

// Registry holds the entity batches derived from one pass over the
// facility registry extract, plus the facility-to-network map that later
// drives contact-to-organization edge derivation.
type Registry struct {
	Facilities    *entities.Table
	Organizations *entities.Table

	// FacilityNetwork maps a kept facility's registry ID to its parent
	// network's registry ID. Facilities without a network are absent.
	FacilityNetwork map[string]string
}

// Registry reads the facility registry extract and derives the facility
// and organization batches.
//
// A row becomes a facility when its subtype is SNF or ALF, its status is
// active, and its state is a US state or DC; skilled nursing rows
// additionally need a CMS provider number. A row becomes an organization
// when its registry ID appears as the network ID of any active SNF/ALF
// row and its state passes the same US filter. The same extract row can
// qualify as both.
func (x *Extractor) Registry(r io.Reader) (*Registry, error) {
	t, err := readTable(r, RegistrySource)
	if err != nil {
		return nil, err
	}
	if err := t.require(RegistrySource, colRegistryID, colFacilitySubtype, colFacilityStatus, colState); err != nil {
		return nil, err
	}

	facilityProfile, err := x.profiles.Profile(entities.TypeFacility)
	if err != nil {
		return nil, err
	}
	orgProfile, err := x.profiles.Profile(entities.TypeOrganization)
	if err != nil {
		return nil, err
	}

	reg := &Registry{
		Facilities:      entities.NewTable(entities.TypeFacility, facilityProfile.Primary()),
		Organizations:   entities.NewTable(entities.TypeOrganization, orgProfile.Primary()),
		FacilityNetwork: make(map[string]string),
	}

	// First pass: collect the network IDs referenced by qualifying
	// facility rows. Organization membership depends on the full set, so
	// it cannot be decided row by row.
	networkIDs := make(map[string]struct{})
	for _, row := range t.rows {
		if !keepFacility(t, row) {
			continue
		}
		if id := normalize.NumericID(t.get(row, colNetworkID)); id != "" {
			networkIDs[id] = struct{}{}
		}
	}

	// Second pass: build both batches in extract order.
	for _, row := range t.rows {
		registryID := normalize.NumericID(t.get(row, colRegistryID))
		if registryID == "" {
			continue
		}

		if keepFacility(t, row) {
			reg.Facilities.Add(facilityEntity(t, row, registryID))
			if networkID := normalize.NumericID(t.get(row, colNetworkID)); networkID != "" {
				reg.FacilityNetwork[registryID] = networkID
			}
		}

		if _, isNetwork := networkIDs[registryID]; isNetwork && normalize.ValidUSState(t.get(row, colState)) {
			reg.Organizations.Add(organizationEntity(t, row, registryID))
		}
	}

	if reg.Facilities.Len() == 0 {
		return nil, errors.NewExtractError(RegistrySource, "facilities", errors.ErrNotFound)
	}
	return reg, nil
}

// keepFacility applies the facility row filter: SNF/ALF subtype, active
// status, US state, and a provider number for skilled nursing rows.
func keepFacility(t *table, row []string) bool {
	subtype := normalize.Text(t.get(row, colFacilitySubtype))
	if subtype != subtypeSNF && subtype != subtypeALF {
		return false
	}
	if normalize.Text(t.get(row, colFacilityStatus)) != statusActive {
		return false
	}
	if subtype == subtypeSNF && normalize.Text(t.get(row, colProviderNumber)) == "" {
		return false
	}
	return normalize.ValidUSState(t.get(row, colState))
}

// facilityType maps the registry subtype to the destination's short form.
func facilityType(subtype string) string {
	switch normalize.Text(subtype) {
	case subtypeSNF:
		return "SNF"
	case subtypeALF:
		return "ALF"
	}
	return ""
}

func facilityEntity(t *table, row []string, registryID string) entities.Entity {
	street := normalize.Text(t.get(row, colAddressLine1))
	city := normalize.Text(t.get(row, colCity))
	state := normalize.Text(t.get(row, colState))
	zip := normalize.Zip(t.get(row, colZipCode))

	return entities.Entity{
		Type: entities.TypeFacility,
		Keys: []entities.KeyValue{
			{Name: entities.KeyCCN, Value: t.get(row, colProviderNumber)},
			{Name: entities.KeyNPI, Value: t.get(row, colPrimaryNPI)},
			{Name: entities.KeyRegistryID, Value: registryID},
		},
		Attributes: map[string]string{
			"Name of Facility":   normalize.Text(t.get(row, colFacilityName)),
			"CCN":                normalize.Numeric(t.get(row, colProviderNumber)),
			"Facility Type":      facilityType(t.get(row, colFacilitySubtype)),
			"Street":             street,
			"City":               city,
			"State":              state,
			"Zip Code":           zip,
			"Phone Number":       normalize.Phone(t.get(row, colPhone)),
			"NPI":                normalize.NumericID(t.get(row, colPrimaryNPI)),
			"Facility website":   normalize.Text(t.get(row, colWebsite)),
			"Total Beds":         normalize.Numeric(t.get(row, colStaffedBeds)),
			"DHC ID":             registryID,
			"Facility's Address": normalize.Address(street, city, state, zip),
		},
	}
}

func organizationEntity(t *table, row []string, registryID string) entities.Entity {
	street := normalize.Address(t.get(row, colAddressLine1), t.get(row, colAddressLine2))
	city := normalize.Text(t.get(row, colCity))
	state := normalize.Text(t.get(row, colState))
	zip := normalize.Zip(t.get(row, colZipCode))

	return entities.Entity{
		Type: entities.TypeOrganization,
		Keys: []entities.KeyValue{
			{Name: entities.KeyRegistryID, Value: registryID},
		},
		Attributes: map[string]string{
			"Company name":   normalize.Text(t.get(row, colFacilityName)),
			"DHC ID":         registryID,
			"Street Address": street,
			"City":           city,
			"State/Region":   state,
			"Postal Code":    zip,
			"Phone Number":   normalize.Phone(t.get(row, colPhone)),
			"Website URL":    normalize.Text(t.get(row, colWebsite)),
			"Country/Region": "United States",
		},
	}
}
