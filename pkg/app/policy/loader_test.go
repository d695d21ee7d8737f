package policy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/PromptWall/promptwall/pkg/domain/firewall"
	"github.com/PromptWall/promptwall/pkg/domain/threat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePolicyFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "policies.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFile(t *testing.T) {
	path := writePolicyFile(t, `
policies:
  - name: block_critical
    enabled: true
    action: block
    severity: critical
    threshold: 0.85
    description: Block critical threats
  - name: block_jailbreaks
    enabled: true
    action: block
    severity: medium
    threshold: 0.4
    conditions:
      categories:
        - jailbreak
`)

	rules, err := LoadFile(path)

	require.NoError(t, err)
	require.Len(t, rules, 2)

	assert.Equal(t, "block_critical", rules[0].Name)
	assert.True(t, rules[0].Enabled)
	assert.Equal(t, firewall.ActionBlock, rules[0].Action)
	assert.Equal(t, threat.SeverityCritical, rules[0].Severity)
	assert.Equal(t, 0.85, rules[0].Threshold)
	assert.Equal(t, "Block critical threats", rules[0].Description)

	assert.Equal(t, []string{"jailbreak"}, rules[1].Conditions.Categories)
}

func TestLoadFile_MissingFile(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadFile_InvalidRuleFailsWholeDocument(t *testing.T) {
	path := writePolicyFile(t, `
policies:
  - name: ok
    enabled: true
    action: allow
    severity: safe
    threshold: 0.0
  - name: broken
    enabled: true
    action: quarantine
    severity: safe
    threshold: 0.0
`)

	rules, err := LoadFile(path)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidAction)
	assert.Nil(t, rules)
}

func TestLoadFile_DuplicateNames(t *testing.T) {
	path := writePolicyFile(t, `
policies:
  - name: twin
    enabled: true
    action: allow
    severity: safe
    threshold: 0.0
  - name: twin
    enabled: true
    action: block
    severity: high
    threshold: 0.5
`)

	_, err := LoadFile(path)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateName)
}

func TestRuleFromMap(t *testing.T) {
	rule, err := RuleFromMap(map[string]any{
		"name":      "api_rule",
		"enabled":   true,
		"action":    "sanitize",
		"severity":  "high",
		"threshold": 0.65,
	})

	require.NoError(t, err)
	assert.Equal(t, "api_rule", rule.Name)
	assert.Equal(t, firewall.ActionSanitize, rule.Action)
	assert.Equal(t, threat.SeverityHigh, rule.Severity)
	assert.Equal(t, 0.65, rule.Threshold)
}

func TestRuleFromMap_InvalidRule(t *testing.T) {
	_, err := RuleFromMap(map[string]any{
		"name":      "bad",
		"enabled":   true,
		"action":    "block",
		"severity":  "high",
		"threshold": 2.0,
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidThreshold)
}
