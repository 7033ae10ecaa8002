package lint_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/spfxkit/internal/testutil"
	"github.com/leapstack-labs/spfxkit/pkg/core"
	"github.com/leapstack-labs/spfxkit/pkg/lint"
)

func TestAnalyzer_Analyze(t *testing.T) {
	rules := []lint.Rule{
		fixedRule("FN001001", "./package.json"),
		fixedRule("FN001002"),
		fixedRule("FN012017", "./tsconfig.json", "./src/tsconfig.json"),
	}

	analyzer := lint.NewAnalyzer(nil, testutil.NewTestLogger(t))
	findings, err := analyzer.Analyze(context.Background(), rules, testProject())
	require.NoError(t, err)

	// Rules without occurrences produce no finding
	require.Len(t, findings, 2)
	assert.Equal(t, "FN001001", findings[0].ID)
	assert.Equal(t, "FN012017", findings[1].ID)
	assert.Len(t, findings[1].Occurrences, 2)
	assert.Equal(t, "title FN012017", findings[1].Title)
	assert.Equal(t, core.SeverityRequired, findings[1].Severity)
}

func TestAnalyzer_AnalyzeSequential(t *testing.T) {
	var running, maxRunning int32
	mk := func(id string) lint.Rule {
		return lint.WrapAsyncRuleDef(lint.AsyncRuleDef{
			Meta: lint.Meta{ID: id},
			Visit: func(context.Context, *core.Project) (lint.Result, error) {
				n := atomic.AddInt32(&running, 1)
				if n > atomic.LoadInt32(&maxRunning) {
					atomic.StoreInt32(&maxRunning, n)
				}
				time.Sleep(time.Millisecond)
				atomic.AddInt32(&running, -1)
				return lint.Result{Occurrences: []lint.Occurrence{{File: id}}}, nil
			},
		})
	}

	analyzer := lint.NewAnalyzer(nil, nil)
	findings, err := analyzer.Analyze(context.Background(), []lint.Rule{mk("a"), mk("b"), mk("c")}, testProject())
	require.NoError(t, err)
	assert.Len(t, findings, 3)
	assert.Equal(t, int32(1), maxRunning)
}

func TestAnalyzer_ConfigOverrides(t *testing.T) {
	rules := []lint.Rule{
		fixedRule("FN001001", "a"),
		fixedRule("FN001002", "b"),
	}

	config := lint.NewConfig().
		Disable("FN001001").
		SetSeverity("FN001002", core.SeverityOptional)

	findings, err := lint.NewAnalyzer(config, nil).Analyze(context.Background(), rules, testProject())
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, "FN001002", findings[0].ID)
	assert.Equal(t, core.SeverityOptional, findings[0].Severity)
}

func TestAnalyzer_AnalyzeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := lint.NewAnalyzer(nil, nil).Analyze(ctx, []lint.Rule{fixedRule("A", "a")}, testProject())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAnalyzer_AnalyzeConcurrent_Dedup(t *testing.T) {
	rules := []lint.Rule{
		externalRule("known", lint.ExternalizeEntry{Key: "lodash", Path: "https://cdn/first.js", GlobalName: "_"}),
		externalRule("dynamic",
			lint.ExternalizeEntry{Key: "lodash", Path: "https://cdn/second.js"},
			lint.ExternalizeEntry{Key: "moment", Path: "https://cdn/moment.js"},
		),
	}

	logger, logs := testutil.NewCaptureLogger()
	res, err := lint.NewAnalyzer(nil, logger).AnalyzeConcurrent(context.Background(), rules, testProject())
	require.NoError(t, err)

	assert.Equal(t, []string{"lodash", "moment"}, res.Externals.Keys())
	assert.Contains(t, logs.String(), "dropped=1")
	lodash, ok := res.Externals.Get("lodash")
	require.True(t, ok)
	assert.Equal(t, "https://cdn/first.js", lodash.Path)
	assert.Equal(t, "_", lodash.GlobalName)
}

func TestAnalyzer_AnalyzeConcurrent_EditsInRuleOrder(t *testing.T) {
	slow := lint.WrapAsyncRuleDef(lint.AsyncRuleDef{
		Meta: lint.Meta{ID: "slow"},
		Visit: func(context.Context, *core.Project) (lint.Result, error) {
			time.Sleep(5 * time.Millisecond)
			return lint.Result{Edits: []lint.FileEdit{{Path: "a.ts", Action: lint.ActionAdd, TargetValue: "first"}}}, nil
		},
	})
	fast := lint.WrapAsyncRuleDef(lint.AsyncRuleDef{
		Meta: lint.Meta{ID: "fast"},
		Visit: func(context.Context, *core.Project) (lint.Result, error) {
			return lint.Result{Edits: []lint.FileEdit{{Path: "a.ts", Action: lint.ActionRemove, TargetValue: "second"}}}, nil
		},
	})

	res, err := lint.NewAnalyzer(nil, nil).AnalyzeConcurrent(context.Background(), []lint.Rule{slow, fast}, testProject())
	require.NoError(t, err)
	require.Len(t, res.Edits, 2)
	assert.Equal(t, "first", res.Edits[0].TargetValue)
	assert.Equal(t, "second", res.Edits[1].TargetValue)
}

func TestAnalyzer_AnalyzeConcurrent_FailFast(t *testing.T) {
	boom := errors.New("registry unreachable")
	var sawCancel atomic.Bool

	failing := lint.WrapAsyncRuleDef(lint.AsyncRuleDef{
		Meta: lint.Meta{ID: "failing"},
		Visit: func(context.Context, *core.Project) (lint.Result, error) {
			return lint.Result{}, boom
		},
	})
	waiting := lint.WrapAsyncRuleDef(lint.AsyncRuleDef{
		Meta: lint.Meta{ID: "waiting"},
		Visit: func(ctx context.Context, _ *core.Project) (lint.Result, error) {
			select {
			case <-ctx.Done():
				sawCancel.Store(true)
				return lint.Result{}, ctx.Err()
			case <-time.After(5 * time.Second):
				return lint.Result{Externals: []lint.ExternalizeEntry{{Key: "late"}}}, nil
			}
		},
	})

	res, err := lint.NewAnalyzer(nil, nil).AnalyzeConcurrent(
		context.Background(),
		[]lint.Rule{externalRule("ok", lint.ExternalizeEntry{Key: "jquery"}), waiting, failing},
		testProject(),
	)
	assert.Nil(t, res)
	assert.Same(t, boom, err)
	assert.True(t, sawCancel.Load())
}

func TestAnalyzer_AnalyzeConcurrent_SkipsDisabled(t *testing.T) {
	rules := []lint.Rule{
		externalRule("a", lint.ExternalizeEntry{Key: "lodash", Path: "a"}),
		externalRule("b", lint.ExternalizeEntry{Key: "moment", Path: "b"}),
	}

	res, err := lint.NewAnalyzer(lint.NewConfig().Disable("a"), nil).AnalyzeConcurrent(context.Background(), rules, testProject())
	require.NoError(t, err)
	assert.Equal(t, []string{"moment"}, res.Externals.Keys())
}
