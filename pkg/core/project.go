package core

import (
	"strings"
)

// Well-known project-relative paths.
const (
	PackageJSONPath = "package.json"
	YoRcPath        = ".yo-rc.json"
	TsConfigPath    = "tsconfig.json"
	GulpfilePath    = "gulpfile.js"
	GitIgnorePath   = ".gitignore"
	ConfigJSONPath  = "config/config.json"
)

// GeneratorName is the key of the SharePoint generator section in .yo-rc.json.
const GeneratorName = "@microsoft/generator-sharepoint"

// Project is a read-only snapshot of an SPFx project.
// It is created once per invocation by a loader and never mutated by rules.
type Project struct {
	Path    string // Absolute project root
	Version string // Detected SPFx version, empty if undetectable

	PackageJSON *PackageJSON
	YoRc        *YoRc

	// Documents holds parsed JSON config documents keyed by project-relative path
	// (e.g. "tsconfig.json", "config/package-solution.json").
	Documents map[string]*Document

	StyleFiles  []SourceFile // .scss files under src/
	SourceFiles []SourceFile // .ts and .tsx files under src/

	Gulpfile  *SourceFile
	GitIgnore *SourceFile

	// Files lists every other project-relative path the loader saw at the root
	// and in config/, used by rules that check for a file's presence.
	Files []string
}

// PackageJSON is the subset of package.json the rules read.
type PackageJSON struct {
	Name            string            `json:"name"`
	Version         string            `json:"version"`
	Dependencies    map[string]string `json:"dependencies,omitempty"`
	DevDependencies map[string]string `json:"devDependencies,omitempty"`
	Engines         map[string]string `json:"engines,omitempty"`
	Source          string            `json:"-"`
}

// YoRc is the SharePoint generator section of .yo-rc.json.
type YoRc struct {
	Version       string `json:"version"`
	Framework     string `json:"framework,omitempty"`
	ComponentType string `json:"componentType,omitempty"`
	Environment   string `json:"environment,omitempty"`
	NodeVersion   string `json:"nodeVersion,omitempty"`
	Source        string `json:"-"`
}

// Document is a parsed JSON config document.
type Document struct {
	Path   string         // Project-relative path
	Source string         // Raw text
	Data   map[string]any // Parsed JSON object
}

// SourceFile is a text file snapshot.
type SourceFile struct {
	Path   string // Project-relative path
	Source string
}

// Name returns the package name, or the base of the project path.
func (p *Project) Name() string {
	if p.PackageJSON != nil && p.PackageJSON.Name != "" {
		return p.PackageJSON.Name
	}
	path := strings.TrimRight(strings.ReplaceAll(p.Path, "\\", "/"), "/")
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}

// Dependency returns the declared runtime dependency version.
func (p *Project) Dependency(name string) (string, bool) {
	if p.PackageJSON == nil {
		return "", false
	}
	v, ok := p.PackageJSON.Dependencies[name]
	return v, ok
}

// DevDependency returns the declared development dependency version.
func (p *Project) DevDependency(name string) (string, bool) {
	if p.PackageJSON == nil {
		return "", false
	}
	v, ok := p.PackageJSON.DevDependencies[name]
	return v, ok
}

// Document returns a parsed config document by project-relative path.
func (p *Project) Document(path string) (*Document, bool) {
	d, ok := p.Documents[path]
	return d, ok && d != nil
}

// HasFile reports whether the loader saw a file at the project-relative path.
func (p *Project) HasFile(path string) bool {
	if _, ok := p.Documents[path]; ok {
		return true
	}
	for _, f := range p.Files {
		if f == path {
			return true
		}
	}
	return false
}

// IsReact reports whether the project uses React.
// The generator's recorded framework wins; otherwise the react dependency decides.
func (p *Project) IsReact() bool {
	if p.YoRc != nil && p.YoRc.Framework != "" {
		return strings.EqualFold(p.YoRc.Framework, "react")
	}
	_, ok := p.Dependency("react")
	return ok
}

// Lookup returns the value at a dotted path (e.g. "compilerOptions.target").
func (d *Document) Lookup(path string) (any, bool) {
	if d == nil || d.Data == nil {
		return nil, false
	}
	var cur any = d.Data
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = obj[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// CleanVersion strips range operators from an npm version ("^1.2.3" -> "1.2.3").
func CleanVersion(v string) string {
	return strings.TrimLeft(strings.TrimSpace(v), "^~=v")
}
