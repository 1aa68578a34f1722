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

package config

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/walteh/patchrc/pkg/rewrite"
	"gitlab.com/tozd/go/errors"
)

// 📋 Task pairs a set of target paths with the ordered rules to apply to each
// matching file. Paths are literal file paths or doublestar globs, resolved
// relative to the config root.
type Task struct {
	Paths []string `json:"paths" yaml:"paths" hcl:"paths"`
	Rules []string `json:"rules" yaml:"rules" hcl:"rules"`
}

// 📚 Config represents the complete configuration
type Config struct {
	Root        string         `json:"root,omitempty" yaml:"root,omitempty" hcl:"root,optional"`
	Rules       []rewrite.Rule `json:"rules" yaml:"rules" hcl:"rule,block"`
	Tasks       []Task         `json:"tasks" yaml:"tasks" hcl:"task,block"`
	Strict      bool           `json:"strict,omitempty" yaml:"strict,omitempty" hcl:"strict,optional"`
	DryRun      bool           `json:"dry_run,omitempty" yaml:"dry_run,omitempty" hcl:"dry_run,optional"`
	MaxParallel int            `json:"max_parallel,omitempty" yaml:"max_parallel,omitempty" hcl:"max_parallel,optional"`

	location string
}

// 📍 Location returns the path the config was loaded from
func (cfg *Config) Location() string {
	return cfg.location
}

// 🔍 Validate checks that the configuration is complete and internally
// consistent: triggers compile, versions resolve, and every task references
// rules that exist.
func (cfg *Config) Validate(ctx context.Context) error {
	if len(cfg.Rules) == 0 {
		return errors.New("at least one rule is required")
	}
	if len(cfg.Tasks) == 0 {
		return errors.New("at least one task is required")
	}

	resolved, err := rewrite.ResolveVersions(cfg.Rules)
	if err != nil {
		return errors.Errorf("resolving rule versions: %w", err)
	}
	cfg.Rules = resolved

	byName := make(map[string]int, len(cfg.Rules))
	for i := range cfg.Rules {
		if err := cfg.Rules[i].Compile(); err != nil {
			return errors.Errorf("compiling rule: %w", err)
		}
		byName[cfg.Rules[i].Name] = i
	}

	for i, task := range cfg.Tasks {
		if len(task.Paths) == 0 {
			return errors.Errorf("task %d: at least one path is required", i)
		}
		if len(task.Rules) == 0 {
			return errors.Errorf("task %d: at least one rule is required", i)
		}
		for _, name := range task.Rules {
			if _, ok := byName[name]; !ok {
				return errors.Errorf("task %d: unknown rule %q", i, name)
			}
		}
	}

	// Defaults
	if cfg.Root == "" {
		cfg.Root = "."
	}
	if cfg.MaxParallel <= 0 {
		cfg.MaxParallel = 1
	}

	return nil
}

// 🎯 RulesFor returns the task's rules in application order.
func (cfg *Config) RulesFor(task Task) []rewrite.Rule {
	byName := make(map[string]rewrite.Rule, len(cfg.Rules))
	for _, r := range cfg.Rules {
		byName[r.Name] = r
	}
	rules := make([]rewrite.Rule, 0, len(task.Rules))
	for _, name := range task.Rules {
		rules = append(rules, byName[name])
	}
	return rules
}

// #️⃣ Hash returns a hash of the configuration, used to detect config drift
// between runs.
func (cfg *Config) Hash() string {
	data, err := json.Marshal(cfg)
	if err != nil {
		return "" // marshal of a validated config cannot fail
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	return fmt.Sprintf("%d rules, %d tasks (root %s)", len(cfg.Rules), len(cfg.Tasks), cfg.Root)
}
