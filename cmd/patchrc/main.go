// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/walteh/patchrc/cmd/patchrc/commands"
	"github.com/walteh/patchrc/cmd/patchrc/opts"
	"github.com/walteh/patchrc/pkg/status"
)

func main() {
	ctx := log.Logger.WithContext(context.Background())

	// Root options are populated after flag parsing, in PersistentPreRunE,
	// so every command sees the flags it was actually invoked with.
	ro := &opts.RootOpts{}

	rootCmd := &cobra.Command{
		Use:   "patchrc",
		Short: "A tool for applying guarded rewrite rules to source files",
		Long: `patchrc applies ordered, guarded text rewrite rules to a configured
set of files. Rules are idempotent: a guard string marks a rewrite as already
applied, so re-running a batch never duplicates an insertion.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			setupLogging()
			loaded, err := newRootOpts(cmd.Context())
			if err != nil {
				return err
			}
			*ro = *loaded
			return nil
		},
	}

	addRootFlags(rootCmd)

	rootCmd.AddCommand(
		commands.NewApplyCmd(ro),
		commands.NewCheckCmd(ro),
		commands.NewRulesCmd(ro),
	)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		status.NewUserLogger(ctx).LogValidation(false, "Command failed", err)
		os.Exit(1)
	}
}
