package cmd

import (
	"github.com/spf13/cobra"

	"github.com/caresync/crosswalk/internal/cmd/output"
	"github.com/caresync/crosswalk/internal/config"
	"github.com/caresync/crosswalk/pkg/profile"
)

var profilesFile string

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "Show the entity and association profiles",
	Long: `Profiles shows the natural-key match order and compared field set
per entity type, after applying any overrides file.`,
	RunE: runProfiles,
}

func init() {
	rootCmd.AddCommand(profilesCmd)
	profilesCmd.Flags().StringVar(&profilesFile, "profiles", "",
		"Path to a profile overrides YAML file")
}

func runProfiles(_ *cobra.Command, _ []string) error {
	set := profile.Defaults()
	if path := config.InputPath(profilesFile, "profiles_file"); path != "" {
		loaded, err := profile.Load(path)
		if err != nil {
			return err
		}
		set = loaded
	}
	return output.FormatProfiles(set, globalFlags)
}
