package commands

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/patchrc/cmd/patchrc/opts"
	"github.com/walteh/patchrc/pkg/batch"
	"gitlab.com/tozd/go/errors"
)

// NewApplyCmd creates a new apply command
func NewApplyCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply the configured rewrite rules to their target files",
		Long: `Apply runs every configured task in order. It will:
1. Expand each task's target paths
2. Apply the task's rules to each file, skipping guarded matches
3. Write changed files back atomically
4. Report a per-file status line and a final count summary`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "apply").Logger().WithContext(cmd.Context())

			runner, err := batch.New(batch.Options{
				Config:     opts.Config,
				Manager:    opts.Manager,
				UserLogger: opts.UserLogger,
				DryRun:     opts.DryRun,
				Strict:     opts.Strict,
			})
			if err != nil {
				return errors.Errorf("creating runner: %w", err)
			}

			summary, err := runner.Run(ctx)
			if summary != nil {
				opts.UserLogger.LogSummary(summary.Counts)
			}
			if err != nil {
				return errors.Errorf("applying rewrites: %w", err)
			}
			return nil
		},
	}

	return cmd
}
