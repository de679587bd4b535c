package globals

import "github.com/spf13/cobra"

// InputFlags holds the data source paths a reconciliation run reads.
type InputFlags struct {
	Registry      string
	Executives    string
	Facilities    string
	Organizations string
	Contacts      string
}

// AddInputFlags adds the input path flags to a command.
func AddInputFlags(cmd *cobra.Command) *InputFlags {
	flags := &InputFlags{}

	cmd.Flags().StringVar(&flags.Registry, "registry", "",
		"Path to the facility registry extract CSV (required)")
	cmd.Flags().StringVar(&flags.Executives, "executives", "",
		"Path to the executives extract CSV (required)")
	cmd.Flags().StringVar(&flags.Facilities, "facilities", "",
		"Path to the CRM facilities export CSV")
	cmd.Flags().StringVar(&flags.Organizations, "organizations", "",
		"Path to the CRM organizations export CSV")
	cmd.Flags().StringVar(&flags.Contacts, "contacts", "",
		"Path to the CRM contacts export CSV")

	_ = cmd.MarkFlagRequired("registry")
	_ = cmd.MarkFlagRequired("executives")

	return flags
}

// PlanFlags holds flags that shape the produced plan.
type PlanFlags struct {
	Dir      string
	DryRun   bool
	AddOnly  bool
	Profiles string
}

// AddPlanFlags adds the plan shaping flags to a command.
func AddPlanFlags(cmd *cobra.Command) *PlanFlags {
	flags := &PlanFlags{}

	cmd.Flags().StringVar(&flags.Dir, "plan-dir", "",
		"Directory to write the plan into (default \"plan\")")
	cmd.Flags().BoolVar(&flags.DryRun, "dry-run", false,
		"Compute the plan but write nothing")
	cmd.Flags().BoolVar(&flags.AddOnly, "add-only", false,
		"Never plan association removals")
	cmd.Flags().StringVar(&flags.Profiles, "profiles", "",
		"Path to a profile overrides YAML file")

	return flags
}
