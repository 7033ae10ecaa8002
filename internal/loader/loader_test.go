package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/spfxkit/internal/testutil"
	"github.com/leapstack-labs/spfxkit/pkg/core"
	"github.com/leapstack-labs/spfxkit/pkg/lint"
)

func TestFindRoot(t *testing.T) {
	t.Run("finds root from nested directory", func(t *testing.T) {
		dir := t.TempDir()
		testutil.WriteTree(t, dir, testutil.SPFxProject("1.15.0"))

		l := New(testutil.NewTestLogger(t))
		root, err := l.FindRoot(filepath.Join(dir, "src", "webparts", "helloWorld"))
		require.NoError(t, err)
		assert.Equal(t, dir, root)
	})

	t.Run("package.json with sp dependency is a root", func(t *testing.T) {
		dir := t.TempDir()
		testutil.WriteTree(t, dir, map[string]string{
			"package.json": `{"dependencies": {"@microsoft/sp-core-library": "1.16.0"}}`,
		})

		root, err := New(nil).FindRoot(dir)
		require.NoError(t, err)
		assert.Equal(t, dir, root)
	})

	t.Run("plain node project is not a root", func(t *testing.T) {
		dir := t.TempDir()
		testutil.WriteTree(t, dir, map[string]string{
			"package.json": `{"dependencies": {"express": "4.18.0"}}`,
		})

		_, err := New(nil).FindRoot(dir)
		require.Error(t, err)
		assert.ErrorIs(t, err, lint.ErrProjectNotFound)
	})
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteTree(t, dir, testutil.SPFxProject("1.15.0"))
	testutil.WriteTree(t, dir, map[string]string{
		"tslint.json":                     `{"rules": {}}`,
		"config/broken.json":              `{not json`,
		"node_modules/x/src/ignored.scss": "a {}",
	})

	l := New(testutil.NewTestLogger(t))
	root, err := l.FindRoot(filepath.Join(dir, "src"))
	require.NoError(t, err)
	p, err := l.Load(root)
	require.NoError(t, err)

	assert.Equal(t, dir, p.Path)
	assert.Equal(t, "1.15.0", p.Version)
	assert.Equal(t, "hello-world", p.Name())
	assert.True(t, p.IsReact())

	require.NotNil(t, p.PackageJSON)
	assert.Contains(t, p.PackageJSON.Source, `"@microsoft/sp-core-library"`)
	v, ok := p.Dependency("react")
	assert.True(t, ok)
	assert.Equal(t, "16.13.1", v)

	require.NotNil(t, p.YoRc)
	assert.Equal(t, "react", p.YoRc.Framework)

	t.Run("documents", func(t *testing.T) {
		doc, ok := p.Document(core.TsConfigPath)
		require.True(t, ok)
		got, ok := doc.Lookup("compilerOptions.noImplicitAny")
		require.True(t, ok)
		assert.Equal(t, false, got)

		_, ok = p.Document(core.ConfigJSONPath)
		assert.True(t, ok)
		_, ok = p.Document("config/broken.json")
		assert.False(t, ok, "unparseable documents are skipped")
		_, ok = p.Document(core.PackageJSONPath)
		assert.False(t, ok, "package.json is not a generic document")
	})

	t.Run("files", func(t *testing.T) {
		assert.True(t, p.HasFile("tslint.json"))
		assert.True(t, p.HasFile("config/broken.json"))
		assert.False(t, p.HasFile("missing.json"))
	})

	t.Run("sources", func(t *testing.T) {
		require.Len(t, p.StyleFiles, 1)
		assert.Equal(t, "./src/webparts/helloWorld/components/HelloWorld.module.scss", p.StyleFiles[0].Path)
		assert.Len(t, p.SourceFiles, 2)

		require.NotNil(t, p.Gulpfile)
		assert.Contains(t, p.Gulpfile.Source, "build.initialize")
		require.NotNil(t, p.GitIgnore)
	})
}

func TestLoadMissingOptionalFiles(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteTree(t, dir, map[string]string{
		"package.json": `{"name": "bare", "dependencies": {"@microsoft/sp-core-library": "~1.16.1"}}`,
	})

	p, err := New(nil).Load(dir)
	require.NoError(t, err)
	assert.Nil(t, p.YoRc)
	assert.Nil(t, p.Gulpfile)
	assert.Empty(t, p.StyleFiles)
	assert.Equal(t, "1.16.1", p.Version)
}

func TestLoadInvalidPackageJSON(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte("{"), 0o644))

	_, err := New(nil).Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse package.json")
}

func TestDetectVersion(t *testing.T) {
	tests := []struct {
		name    string
		project *core.Project
		want    string
	}{
		{
			name:    "yo-rc wins",
			project: &core.Project{YoRc: &core.YoRc{Version: "1.17.1"}, PackageJSON: &core.PackageJSON{Dependencies: map[string]string{"@microsoft/sp-core-library": "1.16.0"}}},
			want:    "1.17.1",
		},
		{
			name:    "falls back to sp-core-library",
			project: &core.Project{YoRc: &core.YoRc{Version: "latest"}, PackageJSON: &core.PackageJSON{Dependencies: map[string]string{"@microsoft/sp-core-library": "^1.16.0"}}},
			want:    "1.16.0",
		},
		{
			name:    "undetectable",
			project: &core.Project{PackageJSON: &core.PackageJSON{}},
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectVersion(tt.project))
		})
	}
}
