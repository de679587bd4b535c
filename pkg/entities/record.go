package entities

// Record is one row of the destination snapshot: the destination identifier
// plus the natural-key and attribute columns the export carried. Packed
// association columns (semicolon-joined identifier lists) live in
// Attributes like any other column.
type Record struct {
	ID         string            `json:"id" yaml:"id"`
	Keys       []KeyValue        `json:"keys,omitempty" yaml:"keys,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

// Key returns the raw value of the named natural key, or "" when the record
// does not carry that key.
func (r Record) Key(name KeyName) string {
	for _, kv := range r.Keys {
		if kv.Name == name {
			return kv.Value
		}
	}
	return ""
}

// Attribute returns the named attribute value. A column absent from the
// destination export reads as "", which the change detector treats as an
// empty value rather than skipping the field.
func (r Record) Attribute(name string) string {
	return r.Attributes[name]
}

// Snapshot is the destination system's current state for one entity type.
// Records keep their export order; that stable order backs the
// deterministic first-match policy when two records share a natural key.
type Snapshot struct {
	typ     Type
	columns []string
	records []Record
	byID    map[string]Record
}

// NewSnapshot returns an empty snapshot for the given entity type.
func NewSnapshot(t Type) *Snapshot {
	return &Snapshot{
		typ:  t,
		byID: make(map[string]Record),
	}
}

// Type returns the entity type the snapshot holds.
func (s *Snapshot) Type() Type {
	return s.typ
}

// SetColumns records the column names the destination export carried.
// Whether a packed association column is present at all decides add-only
// mode, which an all-empty column must not trigger.
func (s *Snapshot) SetColumns(columns []string) {
	s.columns = columns
}

// HasColumn reports whether the export carried the named column.
func (s *Snapshot) HasColumn(name string) bool {
	for _, c := range s.columns {
		if c == name {
			return true
		}
	}
	return false
}

// Add appends a record in export order. Records without an ID are dropped;
// a later record reusing an existing ID is appended but does not displace
// the first in ID lookups.
func (s *Snapshot) Add(r Record) {
	if r.ID == "" {
		return
	}
	s.records = append(s.records, r)
	if _, ok := s.byID[r.ID]; !ok {
		s.byID[r.ID] = r
	}
}

// Records returns the records in export order. The returned slice is the
// snapshot's backing storage and must not be mutated.
func (s *Snapshot) Records() []Record {
	return s.records
}

// Record returns the record with the given destination identifier.
func (s *Snapshot) Record(id string) (Record, bool) {
	r, ok := s.byID[id]
	return r, ok
}

// Len returns the number of records.
func (s *Snapshot) Len() int {
	return len(s.records)
}
