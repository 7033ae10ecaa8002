package upgrade

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/spfxkit/pkg/core"
	"github.com/leapstack-labs/spfxkit/pkg/lint"
)

func visit(t *testing.T, rule lint.Rule, p *core.Project) []lint.Occurrence {
	t.Helper()
	res, err := rule.Visit(context.Background(), p)
	require.NoError(t, err)
	return res.Occurrences
}

func reactProject(styles ...core.SourceFile) *core.Project {
	return &core.Project{
		Path:        "/work/app",
		Version:     "1.14.0",
		YoRc:        &core.YoRc{Version: "1.14.0", Framework: "react"},
		PackageJSON: &core.PackageJSON{Dependencies: map[string]string{"react": "16.13.1"}},
		StyleFiles:  styles,
	}
}

func TestScssAddImportRule(t *testing.T) {
	const importValue = "~fabric-ui/react"

	nonReact := reactProject(core.SourceFile{Path: "./src/a.module.scss", Source: ""})
	nonReact.YoRc.Framework = "none"

	tests := []struct {
		name    string
		project *core.Project
		want    int
	}{
		{
			name:    "import already present",
			project: reactProject(core.SourceFile{Path: "./src/a.module.scss", Source: "@import '~fabric-ui/react';\n.a {}"}),
			want:    0,
		},
		{
			name:    "empty scss file",
			project: reactProject(core.SourceFile{Path: "./src/a.module.scss", Source: ""}),
			want:    1,
		},
		{
			name:    "no scss files",
			project: reactProject(),
			want:    0,
		},
		{
			name:    "non-react project",
			project: nonReact,
			want:    0,
		},
	}

	rule := NewScssAddImportRule(importValue)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			findings, err := lint.NewAnalyzer(nil, nil).Analyze(context.Background(), []lint.Rule{rule}, tt.project)
			require.NoError(t, err)
			require.Len(t, findings, tt.want)
			if tt.want == 1 {
				require.Len(t, findings[0].Occurrences, 1)
				assert.Equal(t, "@import '~fabric-ui/react'", findings[0].Occurrences[0].Resolution)
				assert.Equal(t, "./src/a.module.scss", findings[0].Occurrences[0].File)
			}
		})
	}
}

func TestScssRules_EmptyImportValue(t *testing.T) {
	p := reactProject(core.SourceFile{Path: "./src/a.module.scss", Source: ".a { color: red; }"})

	add := NewScssAddImportRule("")
	assert.NotPanics(t, func() { visit(t, add, p) })
	assert.Equal(t, "FN022002", add.ID())
	assert.Equal(t, "Scss file import ", add.Title())
	assert.Equal(t, "@import ''", add.Resolution())

	remove := NewScssRemoveImportRule("")
	assert.Empty(t, visit(t, remove, p))
	assert.Equal(t, "FN022001", remove.ID())
}

func TestScssRemoveImportRule(t *testing.T) {
	p := reactProject(
		core.SourceFile{Path: "./src/a.module.scss", Source: ".x {}\n@import '" + fabricReferences + "';"},
		core.SourceFile{Path: "./src/b.module.scss", Source: ".b {}"},
	)

	occs := visit(t, NewScssRemoveImportRule(fabricReferences), p)
	require.Len(t, occs, 1)
	assert.Equal(t, "./src/a.module.scss", occs[0].File)
	require.NotNil(t, occs[0].Position)
	assert.Equal(t, lint.Position{Line: 1, Character: 9}, *occs[0].Position)
}

func TestDependencyRule(t *testing.T) {
	source := "{\n  \"dependencies\": {\n    \"@microsoft/sp-core-library\": \"1.14.0\"\n  }\n}"
	p := &core.Project{PackageJSON: &core.PackageJSON{
		Source:          source,
		Dependencies:    map[string]string{"@microsoft/sp-core-library": "1.14.0", "react": "^17.0.1"},
		DevDependencies: map[string]string{"@microsoft/rush-stack-compiler-3.9": "0.4.47"},
	}}

	tests := []struct {
		name       string
		dep        Dependency
		want       int
		resolution string
	}{
		{
			name:       "outdated runtime dependency",
			dep:        Dependency{ID: "FN001001", Package: "@microsoft/sp-core-library", Version: "1.15.0"},
			want:       1,
			resolution: "npm i -SE @microsoft/sp-core-library@1.15.0",
		},
		{
			name:       "missing required dev dependency",
			dep:        Dependency{ID: "FN002022", Package: "@microsoft/rush-stack-compiler-4.5", Version: "0.2.2", Dev: true},
			want:       1,
			resolution: "npm i -DE @microsoft/rush-stack-compiler-4.5@0.2.2",
		},
		{
			name: "missing optional dependency",
			dep:  Dependency{ID: "FN001004", Package: "@microsoft/sp-webpart-base", Version: "1.15.0", Optional: true},
			want: 0,
		},
		{
			name: "range satisfied after cleaning",
			dep:  Dependency{ID: "FN001008", Package: "react", Version: "17.0.1", Optional: true},
			want: 0,
		},
		{
			name:       "declared package to remove",
			dep:        Dependency{ID: "FN002020", Package: "@microsoft/rush-stack-compiler-3.9", Dev: true, Remove: true},
			want:       1,
			resolution: "npm un -D @microsoft/rush-stack-compiler-3.9",
		},
		{
			name: "absent package to remove",
			dep:  Dependency{ID: "FN002026", Package: "@microsoft/sp-tslint-rules", Dev: true, Remove: true},
			want: 0,
		},
		{
			name: "empty package name",
			dep:  Dependency{ID: "FN001099"},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := NewDependencyRule(tt.dep)
			occs := visit(t, rule, p)
			require.Len(t, occs, tt.want)
			if tt.want > 0 {
				assert.Equal(t, tt.resolution, occs[0].Resolution)
				assert.Equal(t, tt.resolution, rule.Resolution())
				assert.Equal(t, "./package.json", occs[0].File)
			}
		})
	}

	occs := visit(t, NewDependencyRule(Dependency{ID: "FN001001", Package: "@microsoft/sp-core-library", Version: "1.15.0"}), p)
	require.NotNil(t, occs[0].Position)
	assert.Equal(t, 2, occs[0].Position.Line)
}

func TestJSONPropertyRule(t *testing.T) {
	doc := &core.Document{
		Path:   core.TsConfigPath,
		Source: "{\n  \"extends\": \"old\"\n}",
		Data: map[string]any{
			"extends":         "old",
			"compilerOptions": map[string]any{"noImplicitAny": true},
		},
	}
	p := &core.Project{Documents: map[string]*core.Document{core.TsConfigPath: doc}}

	extends := NewJSONPropertyRule(JSONProperty{ID: "FN012017", Document: core.TsConfigPath, Property: "extends", Value: rsc45Tsconfig})
	occs := visit(t, extends, p)
	require.Len(t, occs, 1)
	assert.Equal(t, "./tsconfig.json", occs[0].File)
	assert.Equal(t, "{\n  \"extends\": \""+rsc45Tsconfig+"\"\n}", occs[0].Resolution)
	assert.Equal(t, &lint.Position{Line: 1, Character: 2}, occs[0].Position)

	noImplicitAny := NewJSONPropertyRule(JSONProperty{ID: "FN012020", Document: core.TsConfigPath, Property: "compilerOptions.noImplicitAny", Value: true})
	assert.Empty(t, visit(t, noImplicitAny, p))

	missingDoc := NewJSONPropertyRule(JSONProperty{ID: "FN003001", Document: core.ConfigJSONPath, Property: "$schema", Value: "x"})
	assert.Empty(t, visit(t, missingDoc, p))
}

func TestNodeEngineRule(t *testing.T) {
	rule := NewNodeEngineRule(">=16.13.0 <17.0.0")

	p := &core.Project{PackageJSON: &core.PackageJSON{}}
	occs := visit(t, rule, p)
	require.Len(t, occs, 1)
	assert.Contains(t, occs[0].Resolution, `"node": ">=16.13.0 <17.0.0"`)

	p.PackageJSON.Engines = map[string]string{"node": ">=16.13.0 <17.0.0"}
	assert.Empty(t, visit(t, rule, p))
}

func TestYoRcVersionRule(t *testing.T) {
	rule := NewYoRcVersionRule("1.15.0")

	occs := visit(t, rule, &core.Project{YoRc: &core.YoRc{Version: "1.14.0"}})
	require.Len(t, occs, 1)
	assert.JSONEq(t, `{"@microsoft/generator-sharepoint":{"version":"1.15.0"}}`, occs[0].Resolution)

	assert.Empty(t, visit(t, rule, &core.Project{YoRc: &core.YoRc{Version: "1.15.0"}}))
	assert.Empty(t, visit(t, rule, &core.Project{}))
}

func TestFileRules(t *testing.T) {
	p := &core.Project{
		Files:     []string{"tslint.json"},
		GitIgnore: &core.SourceFile{Path: core.GitIgnorePath, Source: "node_modules\n release \n"},
		Gulpfile:  &core.SourceFile{Path: core.GulpfilePath, Source: "build.initialize(require('gulp'));"},
	}

	assert.Len(t, visit(t, NewRemoveFileRule("FN015003", "tslint.json", "Remove file tslint.json", core.SeverityRequired), p), 1)
	assert.Empty(t, visit(t, NewRemoveFileRule("FN015004", "tsconfig.old.json", "", core.SeverityRequired), p))

	assert.Empty(t, visit(t, NewGitIgnoreEntryRule("FN023001", "release"), p))
	assert.Len(t, visit(t, NewGitIgnoreEntryRule("FN023002", ".heft"), p), 1)
	assert.Empty(t, visit(t, NewGitIgnoreEntryRule("FN023002", ".heft"), &core.Project{}))

	assert.Len(t, visit(t, NewGulpfileRule("FN013002", serveTaskFix, ""), p), 1)
	p.Gulpfile.Source = serveTaskFix + "\nbuild.initialize(require('gulp'));"
	assert.Empty(t, visit(t, NewGulpfileRule("FN013002", serveTaskFix, ""), p))
}

func TestDedupeRule(t *testing.T) {
	rule := NewDedupeRule()
	assert.Equal(t, core.SeverityOptional, rule.Severity())
	assert.Len(t, visit(t, rule, &core.Project{PackageJSON: &core.PackageJSON{}}), 1)
	assert.Empty(t, visit(t, rule, &core.Project{}))
}
