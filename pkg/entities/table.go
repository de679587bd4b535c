package entities

// Table is one extraction batch: the source entities of a single type,
// insertion-ordered and deduplicated by the declared primary natural key.
// The first occurrence of a key wins; later duplicates are counted and
// dropped so no two entities in a batch share a primary key.
type Table struct {
	typ        Type
	primary    KeyName
	entities   []Entity
	seen       map[string]struct{}
	duplicates int
}

// NewTable returns an empty batch for the given type, deduplicated by the
// given primary key.
func NewTable(t Type, primary KeyName) *Table {
	return &Table{
		typ:     t,
		primary: primary,
		seen:    make(map[string]struct{}),
	}
}

// Type returns the entity type the batch holds.
func (t *Table) Type() Type {
	return t.typ
}

// Primary returns the deduplication key name.
func (t *Table) Primary() KeyName {
	return t.primary
}

// Add appends an entity unless its primary key was already seen. It reports
// whether the entity was kept. Entities with an empty primary key cannot be
// deduplicated and are always kept.
func (t *Table) Add(e Entity) bool {
	key := e.Key(t.primary)
	if key != "" {
		if _, dup := t.seen[key]; dup {
			t.duplicates++
			return false
		}
		t.seen[key] = struct{}{}
	}
	t.entities = append(t.entities, e)
	return true
}

// Entities returns the batch in insertion order. The returned slice is the
// table's backing storage and must not be mutated.
func (t *Table) Entities() []Entity {
	return t.entities
}

// Len returns the number of entities kept.
func (t *Table) Len() int {
	return len(t.entities)
}

// Duplicates returns the number of entities dropped for reusing a primary
// key already in the batch.
func (t *Table) Duplicates() int {
	return t.duplicates
}
