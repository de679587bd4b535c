// Package entities defines the data model shared across the crosswalk
// pipeline: entity types, natural keys, source entities, destination
// records, and the per-type batch containers they travel in.
//
// Entities and records are constructed fresh each run from immutable input
// snapshots and never mutated after classification. The only state that
// survives a run is the two snapshots themselves, both external.
package entities

// Type identifies one of the closed set of business entity kinds the
// pipeline reconciles.
type Type string

// Entity types.
const (
	TypeFacility     Type = "facility"     // care sites (SNF/ALF)
	TypeOrganization Type = "organization" // parent networks / operating companies
	TypeContact      Type = "contact"      // executives and administrators
)

// AllTypes returns the entity types in pipeline order.
func AllTypes() []Type {
	return []Type{TypeFacility, TypeOrganization, TypeContact}
}

// String returns the type as a string.
func (t Type) String() string {
	return string(t)
}

// Valid reports whether the type is one of the known entity types.
func (t Type) Valid() bool {
	switch t {
	case TypeFacility, TypeOrganization, TypeContact:
		return true
	}
	return false
}

// KeyName identifies a natural key used to recognize the same real-world
// entity across the registry extract and the destination snapshot.
type KeyName string

// Natural key names.
const (
	KeyCCN        KeyName = "ccn"         // CMS certification number
	KeyNPI        KeyName = "npi"         // national provider identifier
	KeyRegistryID KeyName = "registry_id" // registry-assigned durable ID
	KeyEmail      KeyName = "email"       // normalized email address
)

// String returns the key name as a string.
func (k KeyName) String() string {
	return string(k)
}

// KeyValue pairs a natural key name with its raw value on one entity or
// record. Values are stored as extracted; normalization happens at match
// time so both sides of a lookup always pass through the same function.
type KeyValue struct {
	Name  KeyName `json:"name" yaml:"name"`
	Value string  `json:"value" yaml:"value"`
}
