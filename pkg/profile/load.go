package profile

import (
	"os"

	"github.com/goccy/go-yaml"

	"github.com/caresync/crosswalk/pkg/assoc"
	"github.com/caresync/crosswalk/pkg/differ"
	"github.com/caresync/crosswalk/pkg/entities"
	"github.com/caresync/crosswalk/pkg/errors"
)

// fileSet is the YAML shape of a profile override file. Sections are
// optional; anything not present keeps its default.
type fileSet struct {
	Entities     map[string]fileProfile `yaml:"entities"`
	Associations []fileAssociation      `yaml:"associations"`
}

type fileProfile struct {
	Keys   []string        `yaml:"keys"`
	Fields differ.FieldSet `yaml:"fields"`
}

type fileAssociation struct {
	Type         string `yaml:"type"`
	From         string `yaml:"from"`
	To           string `yaml:"to"`
	PackedOn     string `yaml:"packed_on"`
	PackedColumn string `yaml:"packed_column"`
}

// Load reads a YAML override file and applies it on top of the built-in
// defaults. Per entity type, key order and field sets can be replaced;
// when an associations section is present it replaces the default specs
// entirely.
func Load(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewIOError("read", path, err)
	}
	return Parse(data)
}

// Parse applies YAML override data on top of the built-in defaults.
func Parse(data []byte) (*Set, error) {
	var f fileSet
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.NewParseError("yaml", "", "invalid profile override", err)
	}

	set := Defaults()

	for name, fp := range f.Entities {
		t := entities.Type(name)
		if !t.Valid() {
			return nil, errors.NewValidationError("entities", name, "unknown entity type")
		}
		p := set.profiles[t]
		if len(fp.Keys) > 0 {
			keys := make([]entities.KeyName, 0, len(fp.Keys))
			for _, k := range fp.Keys {
				keys = append(keys, entities.KeyName(k))
			}
			p.Keys = keys
		}
		if len(fp.Fields) > 0 {
			p.Fields = fp.Fields
		}
		set.profiles[t] = p
	}

	if len(f.Associations) > 0 {
		specs := make([]AssociationSpec, 0, len(f.Associations))
		for _, fa := range f.Associations {
			et := assoc.EdgeType(fa.Type)
			if !et.Valid() {
				return nil, errors.NewValidationError("associations", fa.Type, "unknown edge type")
			}
			from, to, packedOn := entities.Type(fa.From), entities.Type(fa.To), entities.Type(fa.PackedOn)
			for _, t := range []entities.Type{from, to, packedOn} {
				if !t.Valid() {
					return nil, errors.NewValidationError("associations", t.String(), "unknown entity type")
				}
			}
			specs = append(specs, AssociationSpec{
				Type:         et,
				FromType:     from,
				ToType:       to,
				PackedOn:     packedOn,
				PackedColumn: fa.PackedColumn,
			})
		}
		set.associations = specs
	}

	return set, nil
}
