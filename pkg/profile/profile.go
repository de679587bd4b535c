// Package profile declares, per entity type, how reconciliation behaves:
// the ordered natural-key matching strategies, the comparison field set,
// and the association specs that describe how relationship edges are
// encoded on destination records. Built-in defaults cover the standard
// registry-to-CRM crosswalk; a YAML file can override field sets and key
// order without recompiling.
package profile

import (
	"github.com/caresync/crosswalk/pkg/assoc"
	"github.com/caresync/crosswalk/pkg/differ"
	"github.com/caresync/crosswalk/pkg/entities"
	"github.com/caresync/crosswalk/pkg/errors"
	"github.com/caresync/crosswalk/pkg/normalize"
	"github.com/caresync/crosswalk/pkg/resolve"
)

// Profile is the reconciliation contract for one entity type.
type Profile struct {
	// Type is the entity type the profile governs.
	Type entities.Type

	// Keys holds the natural keys in matching priority order; the first
	// is the primary key used for batch deduplication.
	Keys []entities.KeyName

	// Fields is the declared comparison field set for change detection.
	Fields differ.FieldSet
}

// Primary returns the batch deduplication key.
func (p Profile) Primary() entities.KeyName {
	if len(p.Keys) == 0 {
		return ""
	}
	return p.Keys[0]
}

// Resolver builds the identity resolver for the profile's key order.
func (p Profile) Resolver() *resolve.Resolver {
	strategies := make([]resolve.Strategy, 0, len(p.Keys))
	for _, k := range p.Keys {
		strategies = append(strategies, resolve.Strategy{
			Key:       k,
			Normalize: normalizerFor(k),
		})
	}
	return resolve.New(strategies...)
}

// AssociationSpec describes one relationship type: its endpoint types and
// how the current edges are encoded on the destination side. PackedOn
// names the snapshot whose records carry the packed column; edges run from
// that record to each identifier in the column.
type AssociationSpec struct {
	Type         assoc.EdgeType
	FromType     entities.Type
	ToType       entities.Type
	PackedOn     entities.Type
	PackedColumn string
}

// Set holds the full reconciliation configuration for a run.
type Set struct {
	profiles     map[entities.Type]Profile
	associations []AssociationSpec
}

// Profile returns the profile for the given entity type.
func (s *Set) Profile(t entities.Type) (Profile, error) {
	p, ok := s.profiles[t]
	if !ok {
		return Profile{}, errors.NewValidationError("type", t.String(), "no profile for entity type")
	}
	return p, nil
}

// Associations returns the association specs in pipeline order.
func (s *Set) Associations() []AssociationSpec {
	return s.associations
}

// Types returns the profiled entity types in pipeline order.
func (s *Set) Types() []entities.Type {
	types := make([]entities.Type, 0, len(s.profiles))
	for _, t := range entities.AllTypes() {
		if _, ok := s.profiles[t]; ok {
			types = append(types, t)
		}
	}
	return types
}

// normalizerFor maps a natural key to its canonicalizer. Both the entity
// and destination sides of a lookup go through the same function.
func normalizerFor(k entities.KeyName) func(string) string {
	switch k {
	case entities.KeyCCN:
		// CCNs keep leading zeros, so no integer round-trip.
		return normalize.Numeric
	case entities.KeyNPI, entities.KeyRegistryID:
		return normalize.NumericID
	case entities.KeyEmail:
		return normalize.Email
	default:
		return normalize.Text
	}
}

// Defaults returns the built-in profile set for the registry-to-CRM
// crosswalk: facilities match by CCN then NPI, organizations by registry
// ID, contacts by registry ID then email.
func Defaults() *Set {
	return &Set{
		profiles: map[entities.Type]Profile{
			entities.TypeFacility: {
				Type: entities.TypeFacility,
				Keys: []entities.KeyName{entities.KeyCCN, entities.KeyNPI},
				Fields: differ.FieldSet{
					{Name: "Name of Facility"},
					{Name: "Street"},
					{Name: "City"},
					{Name: "State"},
					{Name: "Zip Code", Numeric: true},
					{Name: "Phone Number"},
					{Name: "NPI", Numeric: true},
					{Name: "Facility website"},
					{Name: "Total Beds", Numeric: true},
					{Name: "CCN", Numeric: true},
				},
			},
			entities.TypeOrganization: {
				Type: entities.TypeOrganization,
				Keys: []entities.KeyName{entities.KeyRegistryID},
				Fields: differ.FieldSet{
					{Name: "Company name"},
					{Name: "Street Address"},
					{Name: "City"},
					{Name: "State/Region"},
					{Name: "Postal Code", Numeric: true},
					{Name: "Phone Number"},
					{Name: "Website URL"},
				},
			},
			entities.TypeContact: {
				Type: entities.TypeContact,
				Keys: []entities.KeyName{entities.KeyRegistryID, entities.KeyEmail},
				Fields: differ.FieldSet{
					{Name: "First Name"},
					{Name: "Last Name"},
					{Name: "Job Title"},
					{Name: "Email"},
				},
			},
		},
		associations: []AssociationSpec{
			{
				Type:         assoc.EdgeFacilityOrganization,
				FromType:     entities.TypeFacility,
				ToType:       entities.TypeOrganization,
				PackedOn:     entities.TypeFacility,
				PackedColumn: "Associated Company IDs",
			},
			{
				Type:         assoc.EdgeContactFacility,
				FromType:     entities.TypeContact,
				ToType:       entities.TypeFacility,
				PackedOn:     entities.TypeContact,
				PackedColumn: "Associated Facility IDs",
			},
			{
				Type:         assoc.EdgeContactOrganization,
				FromType:     entities.TypeContact,
				ToType:       entities.TypeOrganization,
				PackedOn:     entities.TypeContact,
				PackedColumn: "Associated Company IDs",
			},
		},
	}
}
