// Package loader reads an SPFx project from disk into a core.Project snapshot.
//
// It is the only part of spfxkit that touches the project's files. The rule
// engine receives the fully populated snapshot and never reads disk itself.
package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/leapstack-labs/spfxkit/pkg/core"
	"github.com/leapstack-labs/spfxkit/pkg/lint"
)

// maxUpwardSearchLevels limits how far up the directory tree to search for a project root.
const maxUpwardSearchLevels = 10

// skipDirs are never descended into when collecting sources.
var skipDirs = map[string]bool{
	"node_modules": true,
	".git":         true,
	"lib":          true,
	"dist":         true,
	"temp":         true,
	"release":      true,
}

// Loader locates and reads SPFx projects.
type Loader struct {
	logger *slog.Logger
}

// New creates a loader. A nil logger discards output.
func New(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loader{logger: logger}
}

// FindRoot searches upward from startDir for an SPFx project root.
// A root holds a .yo-rc.json with a SharePoint generator section, or a
// package.json depending on an @microsoft/sp-* package.
func (l *Loader) FindRoot(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", startDir, err)
	}

	dir := abs
	for i := 0; i < maxUpwardSearchLevels; i++ {
		if isProjectRoot(dir) {
			l.logger.Debug("found project root", "dir", dir)
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			break
		}
		dir = parent
	}
	return "", lint.NewProjectNotFoundError(abs)
}

func isProjectRoot(dir string) bool {
	if data, err := os.ReadFile(filepath.Join(dir, core.YoRcPath)); err == nil {
		var yorc map[string]json.RawMessage
		if json.Unmarshal(data, &yorc) == nil {
			if _, ok := yorc[core.GeneratorName]; ok {
				return true
			}
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, core.PackageJSONPath))
	if err != nil {
		return false
	}
	var pkg core.PackageJSON
	if json.Unmarshal(data, &pkg) != nil {
		return false
	}
	for _, deps := range []map[string]string{pkg.Dependencies, pkg.DevDependencies} {
		for name := range deps {
			if strings.HasPrefix(name, "@microsoft/sp-") {
				return true
			}
		}
	}
	return false
}

// Load reads the project rooted at root. Missing optional files are skipped;
// an unreadable package.json is an error.
func (l *Loader) Load(root string) (*core.Project, error) {
	p := &core.Project{
		Path:      root,
		Documents: make(map[string]*core.Document),
	}

	pkgSource, err := os.ReadFile(filepath.Join(root, core.PackageJSONPath))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read package.json: %w", err)
	}
	if err == nil {
		var pkg core.PackageJSON
		if err := json.Unmarshal(pkgSource, &pkg); err != nil {
			return nil, fmt.Errorf("parse package.json: %w", err)
		}
		pkg.Source = string(pkgSource)
		p.PackageJSON = &pkg
	}

	if yorcSource, err := os.ReadFile(filepath.Join(root, core.YoRcPath)); err == nil {
		var yorc map[string]core.YoRc
		if err := json.Unmarshal(yorcSource, &yorc); err != nil {
			l.logger.Warn("ignoring unparseable .yo-rc.json", "error", err)
		} else if gen, ok := yorc[core.GeneratorName]; ok {
			gen.Source = string(yorcSource)
			p.YoRc = &gen
		}
	}

	if err := l.loadDocuments(p); err != nil {
		return nil, err
	}
	if err := l.loadSources(p); err != nil {
		return nil, err
	}

	p.Gulpfile = readSource(root, core.GulpfilePath)
	p.GitIgnore = readSource(root, core.GitIgnorePath)
	p.Version = DetectVersion(p)

	l.logger.Debug("loaded project",
		"root", root,
		"version", p.Version,
		"documents", len(p.Documents),
		"styles", len(p.StyleFiles),
		"sources", len(p.SourceFiles),
	)
	return p, nil
}

// loadDocuments parses the JSON config files at the root and in config/.
func (l *Loader) loadDocuments(p *core.Project) error {
	for _, dir := range []string{".", "config"} {
		entries, err := os.ReadDir(filepath.Join(p.Path, dir))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", dir, err)
		}

		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			rel := filepath.ToSlash(filepath.Join(dir, e.Name()))
			p.Files = append(p.Files, rel)

			if filepath.Ext(e.Name()) != ".json" || rel == core.PackageJSONPath {
				continue
			}
			source, err := os.ReadFile(filepath.Join(p.Path, rel))
			if err != nil {
				return fmt.Errorf("read %s: %w", rel, err)
			}
			var data map[string]any
			if err := json.Unmarshal(source, &data); err != nil {
				l.logger.Warn("skipping unparseable document", "file", rel, "error", err)
				continue
			}
			p.Documents[rel] = &core.Document{Path: rel, Source: string(source), Data: data}
		}
	}
	slices.Sort(p.Files)
	return nil
}

// loadSources collects .scss, .ts and .tsx files under src/.
func (l *Loader) loadSources(p *core.Project) error {
	srcDir := filepath.Join(p.Path, "src")
	if _, err := os.Stat(srcDir); errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	return filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}

		ext := filepath.Ext(path)
		if ext != ".scss" && ext != ".ts" && ext != ".tsx" {
			return nil
		}
		source, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		rel, err := filepath.Rel(p.Path, path)
		if err != nil {
			return err
		}

		f := core.SourceFile{Path: "./" + filepath.ToSlash(rel), Source: string(source)}
		if ext == ".scss" {
			p.StyleFiles = append(p.StyleFiles, f)
		} else {
			p.SourceFiles = append(p.SourceFiles, f)
		}
		return nil
	})
}

func readSource(root, rel string) *core.SourceFile {
	data, err := os.ReadFile(filepath.Join(root, rel))
	if err != nil {
		return nil
	}
	return &core.SourceFile{Path: rel, Source: string(data)}
}

// DetectVersion returns the project's SPFx version: the generator version in
// .yo-rc.json, else the declared @microsoft/sp-core-library version.
// It returns "" when neither is a valid version.
func DetectVersion(p *core.Project) string {
	if p.YoRc != nil {
		if v := core.CleanVersion(p.YoRc.Version); semver.IsValid("v" + v) {
			return v
		}
	}
	if v, ok := p.Dependency("@microsoft/sp-core-library"); ok {
		if v = core.CleanVersion(v); semver.IsValid("v" + v) {
			return v
		}
	}
	return ""
}
