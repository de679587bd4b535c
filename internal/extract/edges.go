package extract

import (
	"github.com/caresync/crosswalk/pkg/assoc"
	"github.com/caresync/crosswalk/pkg/entities"
	"github.com/caresync/crosswalk/pkg/profile"
)

// Desired derives the relationship edges the source data implies, keyed
// by edge type, with endpoints in registry-ID space. Facility-organization
// edges follow each kept facility's network ID; contact-facility edges
// follow the executive extract's affiliations; contact-organization edges
// compose the two. Edges pointing at entities the extraction filters
// dropped are not emitted.
func Desired(reg *Registry, contacts *Contacts) map[assoc.EdgeType]*assoc.Set {
	facilities := make(map[string]struct{}, reg.Facilities.Len())
	for _, e := range reg.Facilities.Entities() {
		facilities[e.Key(entities.KeyRegistryID)] = struct{}{}
	}
	organizations := make(map[string]struct{}, reg.Organizations.Len())
	for _, e := range reg.Organizations.Entities() {
		organizations[e.Key(entities.KeyRegistryID)] = struct{}{}
	}

	desired := map[assoc.EdgeType]*assoc.Set{
		assoc.EdgeFacilityOrganization: assoc.NewSet(),
		assoc.EdgeContactFacility:      assoc.NewSet(),
		assoc.EdgeContactOrganization:  assoc.NewSet(),
	}

	for _, e := range reg.Facilities.Entities() {
		facilityID := e.Key(entities.KeyRegistryID)
		networkID := reg.FacilityNetwork[facilityID]
		if _, ok := organizations[networkID]; !ok {
			continue
		}
		desired[assoc.EdgeFacilityOrganization].Add(assoc.Edge{
			Type:     assoc.EdgeFacilityOrganization,
			FromType: entities.TypeFacility,
			FromID:   facilityID,
			ToType:   entities.TypeOrganization,
			ToID:     networkID,
		})
	}

	for _, aff := range contacts.Affiliations {
		if _, ok := facilities[aff.FacilityID]; !ok {
			continue
		}
		desired[assoc.EdgeContactFacility].Add(assoc.Edge{
			Type:     assoc.EdgeContactFacility,
			FromType: entities.TypeContact,
			FromID:   aff.ContactID,
			ToType:   entities.TypeFacility,
			ToID:     aff.FacilityID,
		})

		networkID := reg.FacilityNetwork[aff.FacilityID]
		if _, ok := organizations[networkID]; !ok {
			continue
		}
		desired[assoc.EdgeContactOrganization].Add(assoc.Edge{
			Type:     assoc.EdgeContactOrganization,
			FromType: entities.TypeContact,
			FromID:   aff.ContactID,
			ToType:   entities.TypeOrganization,
			ToID:     networkID,
		})
	}
	return desired
}

// Current reads a destination snapshot's packed association column into an
// edge set in record-ID space. The second return reports whether the
// export carried the column at all; an absent column means the current
// edges are unobserved and the diff must run add-only, which an empty but
// present column must not trigger.
func Current(snap *entities.Snapshot, spec profile.AssociationSpec) (*assoc.Set, bool) {
	set := assoc.NewSet()
	if snap == nil || !snap.HasColumn(spec.PackedColumn) {
		return set, false
	}

	for _, rec := range snap.Records() {
		for _, target := range assoc.Expand(rec.Attribute(spec.PackedColumn)) {
			edge := assoc.Edge{
				Type:     spec.Type,
				FromType: spec.FromType,
				ToType:   spec.ToType,
			}
			if spec.PackedOn == spec.FromType {
				edge.FromID, edge.ToID = rec.ID, target
			} else {
				edge.FromID, edge.ToID = target, rec.ID
			}
			set.Add(edge)
		}
	}
	return set, true
}
