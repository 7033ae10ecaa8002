package lint_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/spfxkit/pkg/lint"
)

func newTestRegistry(t *testing.T) *lint.RuleSetRegistry {
	t.Helper()
	reg, err := lint.NewRuleSetRegistry("test", map[string][]lint.Rule{
		"1.10.0": {fixedRule("A"), fixedRule("B")},
		"1.9.1":  {fixedRule("C")},
		"1.11.0": {fixedRule("D"), fixedRule("E"), fixedRule("F")},
	})
	require.NoError(t, err)
	return reg
}

func TestRuleSetRegistry_Versions(t *testing.T) {
	reg := newTestRegistry(t)

	assert.Equal(t, []string{"1.9.1", "1.10.0", "1.11.0"}, reg.Versions())
	assert.Equal(t, "1.11.0", reg.Latest())
	assert.Equal(t, "test", reg.Kind())
}

func TestRuleSetRegistry_LookupStableOrder(t *testing.T) {
	reg := newTestRegistry(t)

	for _, v := range reg.Versions() {
		first, err := reg.Lookup(v)
		require.NoError(t, err)
		require.NotEmpty(t, first)

		second, err := reg.Lookup(v)
		require.NoError(t, err)
		assert.Equal(t, ruleIDs(first), ruleIDs(second))
	}

	rules, err := reg.Lookup("1.11.0")
	require.NoError(t, err)
	assert.Equal(t, []string{"D", "E", "F"}, ruleIDs(rules))
}

func TestRuleSetRegistry_LookupReturnsCopy(t *testing.T) {
	reg := newTestRegistry(t)

	rules, err := reg.Lookup("1.10.0")
	require.NoError(t, err)
	rules[0] = fixedRule("Z")

	again, err := reg.Lookup("1.10.0")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, ruleIDs(again))
}

func TestRuleSetRegistry_LookupErrors(t *testing.T) {
	reg := newTestRegistry(t)

	tests := []struct {
		name    string
		version string
		want    error
	}{
		{"empty version", "", lint.ErrVersionUndetectable},
		{"unknown version", "1.12.0", lint.ErrUnsupportedVersion},
		{"garbage", "latest", lint.ErrUnsupportedVersion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := reg.Lookup(tt.version)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRuleSetRegistry_UnsupportedListsVersions(t *testing.T) {
	reg := newTestRegistry(t)

	_, err := reg.Lookup("2.0.0")
	var perr *lint.ProjectError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, lint.CodeUnsupportedVersion, perr.Code)
	assert.Equal(t, reg.Versions(), perr.Supported)
	for _, v := range reg.Versions() {
		assert.Contains(t, err.Error(), v)
	}
}

func TestRuleSetRegistry_Between(t *testing.T) {
	reg := newTestRegistry(t)

	assert.Equal(t, []string{"1.10.0", "1.11.0"}, reg.Between("1.9.1", "1.11.0"))
	assert.Equal(t, []string{"1.10.0"}, reg.Between("1.9.1", "1.10.0"))
	assert.Empty(t, reg.Between("1.11.0", "1.11.0"))
}

func TestNewRuleSetRegistry_Validation(t *testing.T) {
	tests := []struct {
		name string
		sets map[string][]lint.Rule
	}{
		{"empty set", map[string][]lint.Rule{"1.0.0": {}}},
		{"duplicate ids", map[string][]lint.Rule{"1.0.0": {fixedRule("A"), fixedRule("A")}}},
		{"invalid version", map[string][]lint.Rule{"one": {fixedRule("A")}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := lint.NewRuleSetRegistry("test", tt.sets)
			assert.Error(t, err)
			assert.Panics(t, func() { lint.MustNewRuleSetRegistry("test", tt.sets) })
		})
	}
}

func TestCompareVersions(t *testing.T) {
	assert.Equal(t, -1, lint.CompareVersions("1.9.1", "1.10.0"))
	assert.Equal(t, 0, lint.CompareVersions("^1.15.0", "v1.15.0"))
	assert.Equal(t, 1, lint.CompareVersions("1.18.0", "1.17.4"))
}

func ruleIDs(rules []lint.Rule) []string {
	ids := make([]string, len(rules))
	for i, r := range rules {
		ids[i] = r.ID()
	}
	return ids
}
