package differ

import (
	"fmt"
	"strings"

	"github.com/caresync/crosswalk/pkg/entities"
)

// FieldChange represents a drifted field on a matched entity. Values are
// stored post-normalization, so OldValue and NewValue are directly
// comparable.
type FieldChange struct {
	Name     string `json:"name" yaml:"name"`
	OldValue string `json:"old_value" yaml:"old_value"`
	NewValue string `json:"new_value" yaml:"new_value"`
}

// Update represents an entity whose destination record needs updating.
// Changes is never empty; an entity with no drifted fields is classified
// Unchanged instead.
type Update struct {
	ID      string          `json:"id" yaml:"id"` // destination record ID
	Entity  entities.Entity `json:"entity" yaml:"entity"`
	Record  entities.Record `json:"record" yaml:"record"`
	Changes []FieldChange   `json:"changes" yaml:"changes"`
}

// ChangedFields returns the names of the drifted fields.
func (u *Update) ChangedFields() []string {
	names := make([]string, len(u.Changes))
	for i, c := range u.Changes {
		names[i] = c.Name
	}
	return names
}

// Changeset is the disjoint classification of one entity type's batch:
// entities with no destination match, matched entities with drifted
// fields, and matched entities that compare clean.
type Changeset struct {
	Type      entities.Type     `json:"type" yaml:"type"`
	New       []entities.Entity `json:"new,omitempty" yaml:"new,omitempty"`
	Updated   []Update          `json:"updated,omitempty" yaml:"updated,omitempty"`
	Unchanged []entities.Entity `json:"unchanged,omitempty" yaml:"unchanged,omitempty"`
	Summary   Summary           `json:"summary" yaml:"summary"`
}

// Summary provides summary statistics for a changeset.
type Summary struct {
	New          int `json:"new" yaml:"new"`
	Updated      int `json:"updated" yaml:"updated"`
	Unchanged    int `json:"unchanged" yaml:"unchanged"`
	FieldChanges int `json:"field_changes" yaml:"field_changes"`
	TotalChanges int `json:"total_changes" yaml:"total_changes"`
}

// summarize computes the summary for a changeset.
func (c *Changeset) summarize() Summary {
	fieldChanges := 0
	for _, u := range c.Updated {
		fieldChanges += len(u.Changes)
	}
	return Summary{
		New:          len(c.New),
		Updated:      len(c.Updated),
		Unchanged:    len(c.Unchanged),
		FieldChanges: fieldChanges,
		TotalChanges: len(c.New) + len(c.Updated),
	}
}

// HasChanges returns true if the changeset contains any creates or updates.
func (c *Changeset) HasChanges() bool {
	return c.Summary.TotalChanges > 0
}

// IsEmpty returns true if the changeset contains no creates or updates.
func (c *Changeset) IsEmpty() bool {
	return c.Summary.TotalChanges == 0
}

// String returns a human-readable summary of the changeset.
func (c *Changeset) String() string {
	if c.IsEmpty() {
		return fmt.Sprintf("%s: no changes detected", c.Type)
	}

	var parts []string
	if len(c.New) > 0 {
		parts = append(parts, fmt.Sprintf("%d new", len(c.New)))
	}
	if len(c.Updated) > 0 {
		parts = append(parts, fmt.Sprintf("%d updated", len(c.Updated)))
	}
	if len(c.Unchanged) > 0 {
		parts = append(parts, fmt.Sprintf("%d unchanged", len(c.Unchanged)))
	}
	return fmt.Sprintf("%s: %s", c.Type, strings.Join(parts, ", "))
}
