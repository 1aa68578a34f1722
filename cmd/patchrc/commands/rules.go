package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/walteh/patchrc/cmd/patchrc/opts"
)

// NewRulesCmd creates a new rules command
func NewRulesCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the effective rewrite rules for the loaded config",
		Long: `Rules prints the version-resolved rule list: when two rules share a
name, only the highest version survives, and this shows which one that is.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, r := range opts.Config.Rules {
				fmt.Fprintf(cmd.OutOrStdout(), "%s (v%d)\n", r.Name, r.Version)
				fmt.Fprintf(cmd.OutOrStdout(), "    trigger:  %s\n", r.Trigger)
				fmt.Fprintf(cmd.OutOrStdout(), "    guard:    %s (%s)\n", r.Guard, r.GuardScope)
				fmt.Fprintf(cmd.OutOrStdout(), "    position: %s\n", r.Position)
			}
			return nil
		},
	}

	return cmd
}
