package entities

// Entity is one candidate row from the source-of-truth extract: its natural
// keys in priority order and the attribute values the destination should
// carry after reconciliation.
type Entity struct {
	// Type is the entity kind. Never empty.
	Type Type `json:"type" yaml:"type"`

	// Keys holds the natural keys in declared priority order, primary
	// first. The primary key is the batch deduplication key; later keys
	// are fallbacks for identity resolution.
	Keys []KeyValue `json:"keys" yaml:"keys"`

	// Attributes maps destination field names to formatted values.
	Attributes map[string]string `json:"attributes,omitempty" yaml:"attributes,omitempty"`

	// RecordID is the destination identifier, empty until resolution.
	// Once set for a run it is never reassigned.
	RecordID string `json:"record_id,omitempty" yaml:"record_id,omitempty"`
}

// Key returns the raw value of the named natural key, or "" when the
// entity does not carry that key.
func (e Entity) Key(name KeyName) string {
	for _, kv := range e.Keys {
		if kv.Name == name {
			return kv.Value
		}
	}
	return ""
}

// PrimaryKey returns the first declared natural key. The zero KeyValue is
// returned for an entity with no keys.
func (e Entity) PrimaryKey() KeyValue {
	if len(e.Keys) == 0 {
		return KeyValue{}
	}
	return e.Keys[0]
}

// Attribute returns the named attribute value, or "" when absent.
func (e Entity) Attribute(name string) string {
	return e.Attributes[name]
}

// Resolved reports whether the entity has been attached to a destination
// record.
func (e Entity) Resolved() bool {
	return e.RecordID != ""
}
