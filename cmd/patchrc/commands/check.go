package commands

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/patchrc/cmd/patchrc/opts"
	"github.com/walteh/patchrc/pkg/batch"
	"gitlab.com/tozd/go/errors"
)

// NewCheckCmd creates a new check command
func NewCheckCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check whether any target files still need rewriting",
		Long: `Check runs the full rewrite pass without writing anything and exits
non-zero when any file would change, is missing, or cannot be rewritten. This
makes stale targets visible to CI instead of silently exiting zero.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "check").Logger().WithContext(cmd.Context())

			runner, err := batch.New(batch.Options{
				Config:     opts.Config,
				Manager:    opts.Manager,
				UserLogger: opts.UserLogger,
				DryRun:     true,
			})
			if err != nil {
				return errors.Errorf("creating runner: %w", err)
			}

			summary, err := runner.Run(ctx)
			if err != nil {
				return errors.Errorf("checking rewrites: %w", err)
			}
			opts.UserLogger.LogSummary(summary.Counts)

			if pending := summary.Pending(); pending > 0 {
				return errors.Errorf("%d files need rewriting", pending)
			}
			if stale := summary.Unrewritten(); stale > 0 {
				return errors.Errorf("%d files cannot be brought up to date", stale)
			}
			opts.UserLogger.LogValidation(true, "All target files are up to date", nil)
			return nil
		},
	}

	return cmd
}
