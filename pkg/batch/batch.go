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

// Package batch runs configured rewrite tasks over the filesystem. Each file
// is read, rewritten in memory, and written back atomically; one file's
// failure never aborts the batch.
package batch

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/patchrc/pkg/config"
	"github.com/walteh/patchrc/pkg/rewrite"
	"github.com/walteh/patchrc/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// 🔧 Options contains configuration for the runner
type Options struct {
	// Config is the patchrc configuration
	Config *config.Config
	// Manager handles file access and status tracking
	Manager *status.Manager
	// UserLogger receives user-facing per-file lines; optional
	UserLogger *status.UserLogger
	// DryRun forces a no-write pass regardless of config
	DryRun bool
	// Strict forces failure on unrewritten files regardless of config
	Strict bool
}

// 🏃 Runner executes rewrite tasks
type Runner struct {
	cfg      *config.Config
	manager  *status.Manager
	user     *status.UserLogger
	rewriter *rewrite.Rewriter
	dryRun   bool
	strict   bool
}

// 🏭 New creates a new runner with the given options
func New(opts Options) (*Runner, error) {
	if opts.Config == nil {
		return nil, errors.New("config is required")
	}
	if opts.Manager == nil {
		return nil, errors.New("status manager is required")
	}
	return &Runner{
		cfg:      opts.Config,
		manager:  opts.Manager,
		user:     opts.UserLogger,
		rewriter: rewrite.New(),
		dryRun:   opts.DryRun || opts.Config.DryRun,
		strict:   opts.Strict || opts.Config.Strict,
	}, nil
}

// 📊 Summary holds the per-status counts for a completed run
type Summary struct {
	Counts       map[status.FileStatus]int
	Files        []status.FileInfo
	WarningCount int
}

// Pending reports how many files would change (dry-run accounting).
func (s *Summary) Pending() int {
	return s.Counts[status.StatusWouldUpdate]
}

// Unrewritten reports files the run could not bring to the desired end state.
func (s *Summary) Unrewritten() int {
	return s.Counts[status.StatusMissing] + s.Counts[status.StatusFailed] + s.WarningCount
}

// 🏃 Run executes every task in order. Files within a task run in parallel up
// to max_parallel; tasks themselves stay sequential so a later task sees an
// earlier task's output. In strict mode the run fails when any file remains
// inconsistent with the desired end state.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	logger := zerolog.Ctx(ctx)

	type work struct {
		path  string
		rules []rewrite.Rule
	}

	var tasks [][]work
	total := 0
	for i, task := range r.cfg.Tasks {
		paths, err := expandPaths(r.cfg.Root, task.Paths)
		if err != nil {
			return nil, errors.Errorf("expanding task %d: %w", i, err)
		}
		rules := r.cfg.RulesFor(task)
		items := make([]work, 0, len(paths))
		for _, p := range paths {
			items = append(items, work{path: p, rules: rules})
		}
		tasks = append(tasks, items)
		total += len(items)
	}

	r.manager.StartOperation(ctx, total)

	for _, items := range tasks {
		group := newGroup(ctx, r.cfg.MaxParallel)
		for _, item := range items {
			item := item
			group.Go(func(ctx context.Context) error {
				info := r.processFile(ctx, item.path, item.rules)
				r.manager.TrackFile(ctx, item.path, info)
				if r.user != nil {
					r.user.LogFileOutcome(info)
				}
				return nil
			})
		}
		if err := group.Wait(); err != nil {
			return nil, errors.Errorf("running task: %w", err)
		}
	}

	r.manager.FinishOperation(ctx)

	files, err := r.manager.ListFiles(ctx)
	if err != nil {
		return nil, errors.Errorf("listing tracked files: %w", err)
	}
	summary := &Summary{
		Counts: r.manager.Counts(ctx),
		Files:  files,
	}
	for _, info := range files {
		if len(info.Warnings) > 0 && info.Status != status.StatusFailed {
			summary.WarningCount++
		}
	}

	logger.Debug().Interface("counts", summary.Counts).Msg("batch complete")

	if r.strict && summary.Unrewritten() > 0 {
		return summary, errors.Errorf("%d files not successfully rewritten", summary.Unrewritten())
	}
	return summary, nil
}

// 🔄 processFile reads, rewrites, and (outside dry-run) writes back a single
// file. All failures are captured in the returned FileInfo; the batch
// continues either way.
func (r *Runner) processFile(ctx context.Context, path string, rules []rewrite.Rule) status.FileInfo {
	info := status.FileInfo{Path: path}

	exists, err := r.manager.FileExists(ctx, path)
	if err != nil {
		info.Status = status.StatusFailed
		info.Error = err
		return info
	}
	if !exists {
		info.Status = status.StatusMissing
		return info
	}

	content, err := r.manager.ReadFile(ctx, path)
	if err != nil {
		info.Status = status.StatusFailed
		info.Error = err
		return info
	}

	result, err := r.rewriter.Rewrite(ctx, content, rules)
	if err != nil {
		// Transform failed in memory; no write happens, original untouched.
		info.Status = status.StatusFailed
		info.Error = err
		return info
	}

	info.Edits = result.EditCount
	info.Warnings = result.Warnings()
	info.Checksum = status.Checksum(result.ModifiedContent)

	switch {
	case result.Changed && r.dryRun:
		info.Status = status.StatusWouldUpdate
	case result.Changed:
		if err := r.manager.WriteFileAtomic(ctx, path, result.ModifiedContent); err != nil {
			info.Status = status.StatusFailed
			info.Error = err
			return info
		}
		info.Status = status.StatusUpdated
	case len(info.Warnings) > 0:
		// A structural scan misfired and left a site unrewritten.
		info.Status = status.StatusFailed
	case anyGuarded(result):
		info.Status = status.StatusAlreadyApplied
	default:
		info.Status = status.StatusNoChange
	}
	return info
}

func anyGuarded(result *rewrite.Result) bool {
	for _, rr := range result.Rules {
		if rr.Outcome == rewrite.OutcomeGuarded {
			return true
		}
	}
	return false
}

// hasMeta reports whether the pattern contains glob metacharacters.
func hasMeta(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}
