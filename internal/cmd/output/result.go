package output

import (
	"os"

	"github.com/caresync/crosswalk"
	"github.com/caresync/crosswalk/internal/cmd/globals"
	"github.com/caresync/crosswalk/internal/cmd/table"
	"github.com/caresync/crosswalk/pkg/profile"
)

// FormatResult renders a run result for the configured output format.
// Table output shows the entity overview followed by the association
// diff; structured formats emit the result itself.
func FormatResult(result *crosswalk.Result, globalFlags *globals.Flags) error {
	formatter := NewFormatter(Format(globalFlags.Output))

	switch Format(globalFlags.Output) {
	case FormatTable, "":
		if err := formatter.Format(os.Stdout, table.ResultToTableData(result)); err != nil {
			return err
		}
		return formatter.Format(os.Stdout, table.AssociationsToTableData(result))
	default:
		return formatter.Format(os.Stdout, result)
	}
}

// FormatAmbiguities renders the duplicate natural key report.
func FormatAmbiguities(result *crosswalk.Result, globalFlags *globals.Flags) error {
	formatter := NewFormatter(Format(globalFlags.Output))

	switch Format(globalFlags.Output) {
	case FormatTable, "":
		return formatter.Format(os.Stdout, table.AmbiguitiesToTableData(result))
	default:
		return formatter.Format(os.Stdout, result.Ambiguities)
	}
}

// profileView is the structured-output shape of one entity profile.
type profileView struct {
	Type   string   `json:"type" yaml:"type"`
	Keys   []string `json:"keys" yaml:"keys"`
	Fields []string `json:"fields" yaml:"fields"`
}

// FormatProfiles renders the configured profile set.
func FormatProfiles(set *profile.Set, globalFlags *globals.Flags) error {
	formatter := NewFormatter(Format(globalFlags.Output))

	switch Format(globalFlags.Output) {
	case FormatTable, "":
		return formatter.Format(os.Stdout, table.ProfilesToTableData(set))
	default:
		views := make([]profileView, 0, len(set.Types()))
		for _, typ := range set.Types() {
			prof, err := set.Profile(typ)
			if err != nil {
				return err
			}
			view := profileView{Type: typ.String(), Fields: prof.Fields.Names()}
			for _, k := range prof.Keys {
				view.Keys = append(view.Keys, k.String())
			}
			views = append(views, view)
		}
		return formatter.Format(os.Stdout, views)
	}
}

// FormatAny formats any data for the configured output format.
func FormatAny(data any, globalFlags *globals.Flags) error {
	formatter := NewFormatter(Format(globalFlags.Output))
	return formatter.Format(os.Stdout, data)
}
