package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/caresync/crosswalk"
	"github.com/caresync/crosswalk/internal/cmd/globals"
	"github.com/caresync/crosswalk/internal/cmd/output"
	"github.com/caresync/crosswalk/internal/config"
	"github.com/caresync/crosswalk/pkg/constants"
	"github.com/caresync/crosswalk/pkg/entities"
	"github.com/caresync/crosswalk/pkg/errors"
	"github.com/caresync/crosswalk/pkg/logging"
)

var (
	planInputs *globals.InputFlags
	planFlags  *globals.PlanFlags
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Compute a reconciliation plan",
	Long: `Plan reads the registry and executives extracts, reconciles them
against the CRM exports, and writes the resulting plan: per-type CSVs of
records to create and fields to update, per-edge-type CSVs of
associations to add and remove, and a YAML run summary.

CRM exports are optional per type. A type without one is planned
create-only, and association diffs for unobserved columns run add-only.`,
	RunE: runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)
	planInputs = globals.AddInputFlags(planCmd)
	planFlags = globals.AddPlanFlags(planCmd)
}

func runPlan(cmd *cobra.Command, _ []string) error {
	opts := []crosswalk.Option{
		crosswalk.WithLogger(logging.Default()),
		crosswalk.WithAddOnly(planFlags.AddOnly),
	}
	if path := config.InputPath(planFlags.Profiles, "profiles_file"); path != "" {
		opts = append(opts, crosswalk.WithProfilesFile(path))
	}
	cw, err := crosswalk.New(opts...)
	if err != nil {
		return err
	}

	inputs, closeAll, err := openInputs()
	if err != nil {
		return err
	}
	defer closeAll()

	result, err := cw.Run(cmd.Context(), inputs)
	if err != nil {
		return err
	}

	planDir := config.InputPath(planFlags.Dir, config.KeyPlanDir)
	if planDir == "" {
		planDir = constants.DefaultPlanDir
	}
	if err := result.Save(cmd.Context(), planDir, planFlags.DryRun); err != nil {
		return err
	}

	if err := output.FormatResult(result, globalFlags); err != nil {
		return err
	}
	if globalFlags.Verbose && len(result.Ambiguities) > 0 {
		if err := output.FormatAmbiguities(result, globalFlags); err != nil {
			return err
		}
	}
	if !globalFlags.Quiet && !planFlags.DryRun {
		fmt.Fprintf(os.Stderr, "Plan written to %s\n", planDir)
	}
	return nil
}

// openInputs opens every configured input file. The returned closer
// releases whatever was opened, including on error paths.
func openInputs() (crosswalk.Inputs, func(), error) {
	var files []*os.File
	closeAll := func() {
		for _, f := range files {
			_ = f.Close()
		}
	}
	open := func(path string) (io.Reader, error) {
		if path == "" {
			return nil, nil
		}
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.NewIOError("open", path, err)
		}
		files = append(files, f)
		return f, nil
	}

	inputs := crosswalk.Inputs{
		Destinations: make(map[entities.Type]io.Reader),
	}

	var err error
	if inputs.Registry, err = open(config.InputPath(planInputs.Registry, config.KeyRegistryFile)); err != nil {
		closeAll()
		return crosswalk.Inputs{}, nil, err
	}
	if inputs.Executives, err = open(config.InputPath(planInputs.Executives, config.KeyExecutivesFile)); err != nil {
		closeAll()
		return crosswalk.Inputs{}, nil, err
	}

	destinations := []struct {
		typ  entities.Type
		flag string
		key  string
	}{
		{entities.TypeFacility, planInputs.Facilities, config.KeyFacilitiesFile},
		{entities.TypeOrganization, planInputs.Organizations, config.KeyOrganizationsFile},
		{entities.TypeContact, planInputs.Contacts, config.KeyContactsFile},
	}
	for _, d := range destinations {
		r, err := open(config.InputPath(d.flag, d.key))
		if err != nil {
			closeAll()
			return crosswalk.Inputs{}, nil, err
		}
		if r != nil {
			inputs.Destinations[d.typ] = r
		}
	}

	return inputs, closeAll, nil
}
