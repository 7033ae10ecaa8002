package upgrade

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/spfxkit/internal/testutil"
	"github.com/leapstack-labs/spfxkit/pkg/core"
	"github.com/leapstack-labs/spfxkit/pkg/lint"
)

func projectAt(version string) *core.Project {
	return &core.Project{
		Path:    "/work/app",
		Version: version,
		YoRc:    &core.YoRc{Version: version, Framework: "react"},
		PackageJSON: &core.PackageJSON{
			Name: "app",
			Dependencies: map[string]string{
				"@microsoft/sp-core-library":          version,
				"@microsoft/sp-lodash-subset":         version,
				"@microsoft/sp-office-ui-fabric-core": version,
				"react":                               "16.13.1",
			},
			DevDependencies: map[string]string{
				"@microsoft/sp-build-web":            version,
				"@microsoft/sp-module-interfaces":    version,
				"@microsoft/rush-stack-compiler-3.9": "0.4.47",
			},
		},
		Documents: map[string]*core.Document{
			core.TsConfigPath: {Path: core.TsConfigPath, Data: map[string]any{
				"extends": "./node_modules/@microsoft/rush-stack-compiler-3.9/includes/tsconfig-web.json",
			}},
		},
		StyleFiles: []core.SourceFile{{Path: "./src/a.module.scss", Source: "@import '" + fabricReferences + "';"}},
	}
}

func findingIndex(findings []lint.Finding) map[string]lint.Finding {
	idx := make(map[string]lint.Finding, len(findings))
	for _, f := range findings {
		idx[f.ID] = f
	}
	return idx
}

func TestPlanner_SingleStep(t *testing.T) {
	planner := NewPlanner(nil, nil, testutil.NewTestLogger(t))

	plan, err := planner.Plan(context.Background(), projectAt("1.14.0"), "1.15.0")
	require.NoError(t, err)
	assert.Equal(t, []string{"1.15.0"}, plan.Steps)

	idx := findingIndex(plan.Findings)
	assert.Contains(t, idx, "FN001001")
	assert.Contains(t, idx, "FN002020")
	assert.Contains(t, idx, "FN002022")
	assert.Contains(t, idx, "FN022001")
	assert.Contains(t, idx, "FN022002")
	assert.Contains(t, idx, "FN010001")
	assert.Equal(t, "npm i -SE @microsoft/sp-core-library@1.15.0", idx["FN001001"].Resolution)
}

func TestPlanner_MultiStepKeepsLatest(t *testing.T) {
	planner := NewPlanner(nil, nil, testutil.NewTestLogger(t))

	plan, err := planner.Plan(context.Background(), projectAt("1.14.0"), "1.17.0")
	require.NoError(t, err)
	assert.Equal(t, []string{"1.15.0", "1.15.2", "1.16.0", "1.16.1", "1.17.0"}, plan.Steps)

	idx := findingIndex(plan.Findings)
	assert.Equal(t, "npm i -SE @microsoft/sp-core-library@1.17.0", idx["FN001001"].Resolution)
	assert.Contains(t, idx["FN012017"].Resolution, "rush-stack-compiler-4.7")

	// rush-stack-compiler-4.7 supersedes the 4.5 install
	assert.Contains(t, idx, "FN002024")
	assert.NotContains(t, idx, "FN002022")

	seen := make(map[string]bool)
	for _, f := range plan.Findings {
		assert.False(t, seen[f.ID], "duplicate finding %s", f.ID)
		seen[f.ID] = true
	}
}

func TestPlanner_DefaultTargetIsLatest(t *testing.T) {
	plan, err := NewPlanner(nil, nil, nil).Plan(context.Background(), projectAt("1.17.4"), "")
	require.NoError(t, err)
	assert.Equal(t, "1.18.0", plan.To)
	assert.Equal(t, []string{"1.18.0"}, plan.Steps)
}

func TestPlanner_UpToDate(t *testing.T) {
	plan, err := NewPlanner(nil, nil, nil).Plan(context.Background(), projectAt("1.18.0"), "1.18.0")
	require.NoError(t, err)
	assert.Empty(t, plan.Steps)
	assert.NotNil(t, plan.Findings)
	assert.Empty(t, plan.Findings)
}

func TestPlanner_Errors(t *testing.T) {
	tests := []struct {
		name    string
		version string
		to      string
		want    error
	}{
		{"no version", "", "1.18.0", lint.ErrVersionUndetectable},
		{"unsupported project version", "1.4.1", "1.18.0", lint.ErrUnsupportedVersion},
		{"unsupported target", "1.15.0", "1.99.0", lint.ErrUnsupportedVersion},
		{"downgrade", "1.17.0", "1.15.0", lint.ErrNoDowngrade},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPlanner(nil, nil, nil).Plan(context.Background(), projectAt(tt.version), tt.to)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestPlanner_Idempotent(t *testing.T) {
	planner := NewPlanner(nil, nil, nil)
	p := projectAt("1.15.0")

	first, err := planner.Plan(context.Background(), p, "1.18.0")
	require.NoError(t, err)
	second, err := planner.Plan(context.Background(), p, "1.18.0")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestPlanner_DisabledRule(t *testing.T) {
	analyzer := lint.NewAnalyzer(lint.NewConfig().Disable("FN017001"), nil)
	plan, err := NewPlanner(nil, analyzer, nil).Plan(context.Background(), projectAt("1.16.0"), "1.16.1")
	require.NoError(t, err)
	assert.NotContains(t, findingIndex(plan.Findings), "FN017001")
}
