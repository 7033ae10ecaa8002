package lint_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/spfxkit/pkg/core"
	"github.com/leapstack-labs/spfxkit/pkg/lint"
)

func TestWrapRuleDef_Metadata(t *testing.T) {
	rule := fixedRule("FN001001", "./package.json")

	info := lint.GetRuleInfo(rule)
	assert.Equal(t, "FN001001", info.ID)
	assert.Equal(t, "title FN001001", info.Title)
	assert.Equal(t, "description FN001001", info.Description)
	assert.Equal(t, "resolution FN001001", info.Resolution)
	assert.Equal(t, core.ResolutionCmd, info.ResolutionType)
	assert.Equal(t, core.SeverityRequired, info.Severity)
	assert.Equal(t, "./package.json", info.File)
}

func TestWrapRuleDef_NilCheck(t *testing.T) {
	rule := lint.WrapRuleDef(lint.RuleDef{Meta: lint.Meta{ID: "X"}})

	res, err := rule.Visit(context.Background(), testProject())
	require.NoError(t, err)
	assert.True(t, res.Empty())
}

func TestWrapRuleDef_Idempotent(t *testing.T) {
	rule := fixedRule("FN001001", "a", "b")
	p := testProject()

	first, err := rule.Visit(context.Background(), p)
	require.NoError(t, err)
	second, err := rule.Visit(context.Background(), p)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestWrapAsyncRuleDef_Unwrap(t *testing.T) {
	rule := externalRule("EXT", lint.ExternalizeEntry{Key: "lodash", Path: "a"})

	unwrapper, ok := rule.(interface{ Unwrap() lint.AsyncRuleDef })
	require.True(t, ok)
	assert.Equal(t, "EXT", unwrapper.Unwrap().ID)

	res, err := rule.Visit(context.Background(), testProject())
	require.NoError(t, err)
	require.Len(t, res.Externals, 1)
	assert.Equal(t, "lodash", res.Externals[0].Key)
}
