package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/patchrc/pkg/rewrite"
)

func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// 🧪 TestLoadConfig_YAML tests YAML loading and defaults
func TestLoadConfig_YAML(t *testing.T) {
	path := writeConfig(t, ".patchrc.yaml", `
rules:
  - name: wrap-fetch-mock
    trigger: 'mockFetch\.mockReset\(\);'
    guard: wrapFetchMock
    template: "wrapFetchMock(mockFetch);"
    match_indent: true
tasks:
  - paths: ["src/**/*.test.ts"]
    rules: [wrap-fetch-mock]
`)

	cfg, err := LoadConfig(testContext(t), path)
	require.NoError(t, err)

	assert.Equal(t, path, cfg.Location())
	assert.Equal(t, ".", cfg.Root)
	assert.Equal(t, 1, cfg.MaxParallel)
	assert.False(t, cfg.Strict)

	require.Len(t, cfg.Rules, 1)
	rule := cfg.Rules[0]
	assert.Equal(t, "wrap-fetch-mock", rule.Name)
	assert.Equal(t, rewrite.PositionAfter, rule.Position)
	assert.Equal(t, rewrite.GuardScopeFile, rule.GuardScope)
	assert.True(t, rule.MatchIndent)

	require.Len(t, cfg.Tasks, 1)
	assert.Equal(t, []string{"wrap-fetch-mock"}, cfg.Tasks[0].Rules)
}

// 🧪 TestLoadConfig_YAML_UnknownField tests strict decoding
func TestLoadConfig_YAML_UnknownField(t *testing.T) {
	path := writeConfig(t, ".patchrc.yaml", `
rules:
  - name: r
    trigger: a
    guard: b
    template: c
    surprise: true
tasks:
  - paths: [x]
    rules: [r]
`)

	_, err := LoadConfig(testContext(t), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing YAML")
}

// 🧪 TestLoadConfig_JSON tests JSON loading
func TestLoadConfig_JSON(t *testing.T) {
	path := writeConfig(t, "patchrc.json", `{
  "root": "web",
  "strict": true,
  "max_parallel": 4,
  "rules": [
    {
      "name": "paginate-mock-response",
      "version": 2,
      "trigger": "createMockResponse\\(([A-Za-z_][A-Za-z0-9_]*)\\)",
      "guard": "content:",
      "guard_scope": "window",
      "position": "replace",
      "template": "createMockResponse({ content: $1, totalElements: $1.length, totalPages: 1, size: 1000, number: 0 })"
    }
  ],
  "tasks": [
    {"paths": ["src/pages/ResourceListPage.test.tsx"], "rules": ["paginate-mock-response"]}
  ]
}`)

	cfg, err := LoadConfig(testContext(t), path)
	require.NoError(t, err)

	assert.Equal(t, "web", cfg.Root)
	assert.True(t, cfg.Strict)
	assert.Equal(t, 4, cfg.MaxParallel)
	require.Len(t, cfg.Rules, 1)
	assert.Equal(t, 2, cfg.Rules[0].Version)
	assert.Equal(t, rewrite.PositionReplace, cfg.Rules[0].Position)
	assert.Equal(t, rewrite.GuardScopeWindow, cfg.Rules[0].GuardScope)
	assert.Equal(t, rewrite.DefaultGuardWindow, cfg.Rules[0].GuardWindow)
}

// 🧪 TestLoadConfig_HCL tests HCL loading with rule and task blocks
func TestLoadConfig_HCL(t *testing.T) {
	path := writeConfig(t, ".patchrc.hcl", `
root = "web"

rule "setup-auth-mocks" {
  trigger     = "beforeEach\\(\\(\\) => \\{"
  guard       = "setupAuthMocks"
  guard_scope = "block"
  position    = "block-start"
  template    = "setupAuthMocks();"

  structural {
    open  = "{"
    close = "}"
  }
}

task {
  paths = ["src/setupTests.ts"]
  rules = ["setup-auth-mocks"]
}
`)

	cfg, err := LoadConfig(testContext(t), path)
	require.NoError(t, err)

	assert.Equal(t, "web", cfg.Root)
	require.Len(t, cfg.Rules, 1)
	rule := cfg.Rules[0]
	assert.Equal(t, "setup-auth-mocks", rule.Name)
	assert.Equal(t, rewrite.PositionBlockStart, rule.Position)
	require.NotNil(t, rule.Structural)
	assert.Equal(t, "{", rule.Structural.Open)
	assert.Equal(t, "}", rule.Structural.Close)
}

// 🧪 TestLoadConfig_Validation tests cross-field validation failures
func TestLoadConfig_Validation(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		wantError string
	}{
		{
			name: "task_references_unknown_rule",
			content: `
rules:
  - name: r
    trigger: a
    guard: b
    template: c
tasks:
  - paths: [x]
    rules: [ghost]
`,
			wantError: `unknown rule "ghost"`,
		},
		{
			name: "no_rules",
			content: `
rules: []
tasks:
  - paths: [x]
    rules: [r]
`,
			wantError: "at least one rule is required",
		},
		{
			name: "no_tasks",
			content: `
rules:
  - name: r
    trigger: a
    guard: b
    template: c
tasks: []
`,
			wantError: "at least one task is required",
		},
		{
			name: "task_without_paths",
			content: `
rules:
  - name: r
    trigger: a
    guard: b
    template: c
tasks:
  - paths: []
    rules: [r]
`,
			wantError: "at least one path is required",
		},
		{
			name: "bad_trigger",
			content: `
rules:
  - name: r
    trigger: "(unclosed"
    guard: b
    template: c
tasks:
  - paths: [x]
    rules: [r]
`,
			wantError: "compiling rule",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, ".patchrc.yaml", tt.content)

			_, err := LoadConfig(testContext(t), path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantError)
		})
	}
}

// 🧪 TestLoadConfig_VersionResolution tests duplicate-name rule supersession
func TestLoadConfig_VersionResolution(t *testing.T) {
	path := writeConfig(t, ".patchrc.yaml", `
rules:
  - name: paginate
    version: 1
    trigger: old
    guard: g
    template: old
  - name: paginate
    version: 2
    trigger: new
    guard: g
    template: new
tasks:
  - paths: [x]
    rules: [paginate]
`)

	cfg, err := LoadConfig(testContext(t), path)
	require.NoError(t, err)

	require.Len(t, cfg.Rules, 1)
	assert.Equal(t, 2, cfg.Rules[0].Version)
	assert.Equal(t, "new", cfg.Rules[0].Template)
}

// 🧪 TestLoadConfig_UnsupportedExtension tests extension handling
func TestLoadConfig_UnsupportedExtension(t *testing.T) {
	path := writeConfig(t, "config.toml", "whatever = true")

	_, err := LoadConfig(testContext(t), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file extension")
}

// 🧪 TestConfig_RulesFor tests task rule ordering
func TestConfig_RulesFor(t *testing.T) {
	cfg := &Config{
		Rules: []rewrite.Rule{
			{Name: "a", Trigger: "a", Guard: "ga", Template: "ta"},
			{Name: "b", Trigger: "b", Guard: "gb", Template: "tb"},
		},
		Tasks: []Task{{Paths: []string{"x"}, Rules: []string{"b", "a"}}},
	}
	require.NoError(t, cfg.Validate(testContext(t)))

	rules := cfg.RulesFor(cfg.Tasks[0])
	require.Len(t, rules, 2)
	assert.Equal(t, "b", rules[0].Name)
	assert.Equal(t, "a", rules[1].Name)
}

// 🧪 TestConfig_Hash tests hash stability and sensitivity
func TestConfig_Hash(t *testing.T) {
	base := func() *Config {
		return &Config{
			Rules: []rewrite.Rule{{Name: "r", Trigger: "a", Guard: "b", Template: "c"}},
			Tasks: []Task{{Paths: []string{"x"}, Rules: []string{"r"}}},
		}
	}

	a, b := base(), base()
	require.NoError(t, a.Validate(testContext(t)))
	require.NoError(t, b.Validate(testContext(t)))
	assert.Equal(t, a.Hash(), b.Hash())

	c := base()
	c.Rules[0].Template = "different"
	require.NoError(t, c.Validate(testContext(t)))
	assert.NotEqual(t, a.Hash(), c.Hash())
}
