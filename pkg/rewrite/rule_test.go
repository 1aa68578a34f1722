package rewrite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 🧪 TestRule_Compile tests rule validation and defaults
func TestRule_Compile(t *testing.T) {
	tests := []struct {
		name      string
		rule      Rule
		wantError string
	}{
		{
			name: "valid_minimal_rule",
			rule: Rule{
				Name:     "wrap-fetch-mock",
				Trigger:  `mockFetch\.mockReset\(\);`,
				Guard:    "wrapFetchMock",
				Template: "wrapFetchMock(mockFetch);",
			},
		},
		{
			name:      "missing_name",
			rule:      Rule{Trigger: "a", Guard: "b", Template: "c"},
			wantError: "rule name is required",
		},
		{
			name:      "missing_trigger",
			rule:      Rule{Name: "r", Guard: "b", Template: "c"},
			wantError: "trigger is required",
		},
		{
			name:      "missing_guard",
			rule:      Rule{Name: "r", Trigger: "a", Template: "c"},
			wantError: "guard is required",
		},
		{
			name:      "missing_template",
			rule:      Rule{Name: "r", Trigger: "a", Guard: "b"},
			wantError: "template is required",
		},
		{
			name: "invalid_trigger_pattern",
			rule: Rule{
				Name: "r", Trigger: "(unclosed", Guard: "b", Template: "c",
			},
			wantError: "compiling trigger",
		},
		{
			name: "unknown_position",
			rule: Rule{
				Name: "r", Trigger: "a", Guard: "b", Template: "c",
				Position: Position("sideways"),
			},
			wantError: "unknown position",
		},
		{
			name: "unknown_guard_scope",
			rule: Rule{
				Name: "r", Trigger: "a", Guard: "b", Template: "c",
				GuardScope: GuardScope("galaxy"),
			},
			wantError: "unknown guard scope",
		},
		{
			name: "block_position_requires_structural",
			rule: Rule{
				Name: "r", Trigger: "a", Guard: "b", Template: "c",
				Position: PositionBlockEnd,
			},
			wantError: "structural block tokens are required",
		},
		{
			name: "structural_tokens_must_be_single_characters",
			rule: Rule{
				Name: "r", Trigger: "a", Guard: "b", Template: "c",
				Position:   PositionBlockStart,
				Structural: &Structural{Open: "{{", Close: "}}"},
			},
			wantError: "single characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rule.Compile()

			if tt.wantError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantError)
				return
			}
			require.NoError(t, err)

			// Defaults applied
			assert.Equal(t, PositionAfter, tt.rule.Position)
			assert.Equal(t, GuardScopeFile, tt.rule.GuardScope)
			assert.Equal(t, DefaultGuardWindow, tt.rule.GuardWindow)

			re, err := tt.rule.Regexp()
			require.NoError(t, err)
			assert.NotNil(t, re)
		})
	}
}

// 🧪 TestResolveVersions tests that higher rule versions supersede lower ones
func TestResolveVersions(t *testing.T) {
	t.Run("highest_version_wins", func(t *testing.T) {
		rules := []Rule{
			{Name: "paginate", Version: 1, Template: "old"},
			{Name: "wrap", Version: 1, Template: "keep"},
			{Name: "paginate", Version: 2, Template: "new"},
		}

		resolved, err := ResolveVersions(rules)
		require.NoError(t, err)
		require.Len(t, resolved, 2)

		// First-seen order is preserved
		assert.Equal(t, "paginate", resolved[0].Name)
		assert.Equal(t, 2, resolved[0].Version)
		assert.Equal(t, "new", resolved[0].Template)
		assert.Equal(t, "wrap", resolved[1].Name)
	})

	t.Run("earlier_higher_version_survives", func(t *testing.T) {
		rules := []Rule{
			{Name: "paginate", Version: 3, Template: "keep"},
			{Name: "paginate", Version: 2, Template: "old"},
		}

		resolved, err := ResolveVersions(rules)
		require.NoError(t, err)
		require.Len(t, resolved, 1)
		assert.Equal(t, 3, resolved[0].Version)
	})

	t.Run("duplicate_version_is_an_error", func(t *testing.T) {
		rules := []Rule{
			{Name: "paginate", Version: 1},
			{Name: "paginate", Version: 1},
		}

		_, err := ResolveVersions(rules)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate version")
	})

	t.Run("no_duplicates_is_identity", func(t *testing.T) {
		rules := []Rule{
			{Name: "a", Version: 1},
			{Name: "b", Version: 5},
		}

		resolved, err := ResolveVersions(rules)
		require.NoError(t, err)
		assert.Equal(t, rules, resolved)
	})
}
