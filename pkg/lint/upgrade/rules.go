package upgrade

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/leapstack-labs/spfxkit/pkg/core"
	"github.com/leapstack-labs/spfxkit/pkg/lint"
)

// =============================================================================
// Dependencies
// =============================================================================

// Dependency describes an npm package a version step adds, upgrades or removes.
type Dependency struct {
	ID       string
	Package  string
	Version  string // Expected version; ignored when Remove is set
	Dev      bool   // devDependencies instead of dependencies
	Optional bool   // Only upgrade when the package is already declared
	Remove   bool   // Uninstall the package when declared
	Severity core.Severity

	Supersedes []string
}

// NewDependencyRule builds a rule checking one package.json dependency.
func NewDependencyRule(d Dependency) lint.Rule {
	kind := "dependency"
	if d.Dev {
		kind = "dev dependency"
	}

	var description, resolution string
	switch {
	case d.Remove:
		description = fmt.Sprintf("Remove SharePoint Framework %s package %s", kind, d.Package)
		resolution = fmt.Sprintf("npm un %s %s", saveFlag(d.Dev, false), d.Package)
	case d.Optional:
		description = fmt.Sprintf("Upgrade SharePoint Framework %s package %s", kind, d.Package)
		resolution = fmt.Sprintf("npm i %s %s@%s", saveFlag(d.Dev, true), d.Package, d.Version)
	default:
		description = fmt.Sprintf("Install SharePoint Framework %s package %s", kind, d.Package)
		resolution = fmt.Sprintf("npm i %s %s@%s", saveFlag(d.Dev, true), d.Package, d.Version)
	}

	return lint.WrapRuleDef(lint.RuleDef{
		Meta: lint.Meta{
			ID:             d.ID,
			Title:          d.Package,
			Description:    description,
			Resolution:     resolution,
			ResolutionType: core.ResolutionCmd,
			Severity:       d.Severity,
			File:           "./" + core.PackageJSONPath,
			Supersedes:     d.Supersedes,
		},
		Check: func(p *core.Project) []lint.Occurrence {
			if d.Package == "" || p.PackageJSON == nil {
				return nil
			}
			lookup := p.Dependency
			if d.Dev {
				lookup = p.DevDependency
			}
			current, declared := lookup(d.Package)

			switch {
			case d.Remove && !declared:
				return nil
			case !d.Remove && declared && core.CleanVersion(current) == d.Version:
				return nil
			case !d.Remove && !declared && d.Optional:
				return nil
			}

			return []lint.Occurrence{{
				File:       "./" + core.PackageJSONPath,
				Resolution: resolution,
				Position:   positionOf(p.PackageJSON.Source, `"`+d.Package+`"`),
			}}
		},
	})
}

func saveFlag(dev, exact bool) string {
	flag := "-S"
	if dev {
		flag = "-D"
	}
	if exact {
		flag += "E"
	}
	return flag
}

// =============================================================================
// .yo-rc.json
// =============================================================================

// NewYoRcVersionRule checks the generator version recorded in .yo-rc.json.
func NewYoRcVersionRule(version string) lint.Rule {
	resolution := jsonSnippet(core.GeneratorName+".version", version)
	return lint.WrapRuleDef(lint.RuleDef{
		Meta: lint.Meta{
			ID:             "FN010001",
			Title:          ".yo-rc.json version",
			Description:    "Update version in .yo-rc.json",
			Resolution:     resolution,
			ResolutionType: core.ResolutionJSON,
			Severity:       core.SeverityRecommended,
			File:           "./" + core.YoRcPath,
		},
		Check: func(p *core.Project) []lint.Occurrence {
			if p.YoRc == nil || p.YoRc.Version == version {
				return nil
			}
			return []lint.Occurrence{{
				File:       "./" + core.YoRcPath,
				Resolution: resolution,
				Position:   positionOf(p.YoRc.Source, `"version"`),
			}}
		},
	})
}

// =============================================================================
// JSON config documents
// =============================================================================

// JSONProperty describes an expected value at a dotted path of a config document.
type JSONProperty struct {
	ID          string
	Document    string // Project-relative path, e.g. "tsconfig.json"
	Property    string // Dotted path, e.g. "compilerOptions.target"
	Value       any
	Title       string
	Description string
	Severity    core.Severity

	Supersedes []string
}

// NewJSONPropertyRule builds a rule comparing one property of a config document.
// Missing documents produce nothing.
func NewJSONPropertyRule(jp JSONProperty) lint.Rule {
	resolution := jsonSnippet(jp.Property, jp.Value)
	return lint.WrapRuleDef(lint.RuleDef{
		Meta: lint.Meta{
			ID:             jp.ID,
			Title:          jp.Title,
			Description:    jp.Description,
			Resolution:     resolution,
			ResolutionType: core.ResolutionJSON,
			Severity:       jp.Severity,
			File:           "./" + jp.Document,
			Supersedes:     jp.Supersedes,
		},
		Check: func(p *core.Project) []lint.Occurrence {
			doc, ok := p.Document(jp.Document)
			if !ok || jp.Property == "" {
				return nil
			}
			if current, ok := doc.Lookup(jp.Property); ok && jsonEqual(current, jp.Value) {
				return nil
			}
			last := jp.Property[strings.LastIndex(jp.Property, ".")+1:]
			return []lint.Occurrence{{
				File:       "./" + jp.Document,
				Resolution: resolution,
				Position:   positionOf(doc.Source, `"`+last+`"`),
			}}
		},
	})
}

// NewNodeEngineRule checks the node range declared in package.json engines.
func NewNodeEngineRule(versionRange string) lint.Rule {
	resolution := jsonSnippet("engines.node", versionRange)
	return lint.WrapRuleDef(lint.RuleDef{
		Meta: lint.Meta{
			ID:             "FN021003",
			Title:          "package.json engines.node",
			Description:    "Update package.json engines.node property",
			Resolution:     resolution,
			ResolutionType: core.ResolutionJSON,
			Severity:       core.SeverityRequired,
			File:           "./" + core.PackageJSONPath,
		},
		Check: func(p *core.Project) []lint.Occurrence {
			if p.PackageJSON == nil || p.PackageJSON.Engines["node"] == versionRange {
				return nil
			}
			return []lint.Occurrence{{
				File:       "./" + core.PackageJSONPath,
				Resolution: resolution,
				Position:   positionOf(p.PackageJSON.Source, `"engines"`),
			}}
		},
	})
}

// jsonSnippet renders value nested under a dotted path as indented JSON.
func jsonSnippet(path string, value any) string {
	var nested any = value
	parts := strings.Split(path, ".")
	for i := len(parts) - 1; i >= 0; i-- {
		nested = map[string]any{parts[i]: nested}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(nested); err != nil {
		return fmt.Sprint(value)
	}
	return strings.TrimSpace(buf.String())
}

func jsonEqual(a, b any) bool {
	ja, err := json.Marshal(a)
	if err != nil {
		return false
	}
	jb, err := json.Marshal(b)
	if err != nil {
		return false
	}
	return bytes.Equal(ja, jb)
}

// =============================================================================
// SCSS
// =============================================================================

// NewScssAddImportRule reports every .scss file missing importValue.
// It only applies to React projects.
func NewScssAddImportRule(importValue string) lint.Rule {
	resolution := fmt.Sprintf("@import '%s'", importValue)
	return lint.WrapRuleDef(lint.RuleDef{
		Meta: lint.Meta{
			ID:             "FN022002",
			Title:          fmt.Sprintf("Scss file import %s", importValue),
			Description:    fmt.Sprintf("Add scss file import %s", importValue),
			Resolution:     resolution,
			ResolutionType: core.ResolutionSCSS,
			Severity:       core.SeverityOptional,
		},
		Check: func(p *core.Project) []lint.Occurrence {
			if !p.IsReact() {
				return nil
			}
			var occs []lint.Occurrence
			for _, f := range p.StyleFiles {
				if strings.Contains(f.Source, importValue) {
					continue
				}
				occs = append(occs, lint.Occurrence{File: f.Path, Resolution: resolution})
			}
			return occs
		},
	})
}

// NewScssRemoveImportRule reports every .scss file still importing importValue.
// It only applies to React projects.
func NewScssRemoveImportRule(importValue string) lint.Rule {
	resolution := fmt.Sprintf("Remove: @import '%s'", importValue)
	return lint.WrapRuleDef(lint.RuleDef{
		Meta: lint.Meta{
			ID:             "FN022001",
			Title:          fmt.Sprintf("Scss file import %s", importValue),
			Description:    fmt.Sprintf("Remove scss file import %s", importValue),
			Resolution:     resolution,
			ResolutionType: core.ResolutionSCSS,
			Severity:       core.SeverityRequired,
		},
		Check: func(p *core.Project) []lint.Occurrence {
			if importValue == "" || !p.IsReact() {
				return nil
			}
			var occs []lint.Occurrence
			for _, f := range p.StyleFiles {
				if !strings.Contains(f.Source, importValue) {
					continue
				}
				occs = append(occs, lint.Occurrence{
					File:       f.Path,
					Resolution: resolution,
					Position:   positionOf(f.Source, importValue),
				})
			}
			return occs
		},
	})
}

// =============================================================================
// Files
// =============================================================================

// NewRemoveFileRule reports a project file that is no longer used.
func NewRemoveFileRule(id, path, description string, severity core.Severity) lint.Rule {
	resolution := fmt.Sprintf("rm %q", path)
	return lint.WrapRuleDef(lint.RuleDef{
		Meta: lint.Meta{
			ID:             id,
			Title:          path,
			Description:    description,
			Resolution:     resolution,
			ResolutionType: core.ResolutionCmd,
			Severity:       severity,
			File:           "./" + path,
		},
		Check: func(p *core.Project) []lint.Occurrence {
			if path == "" || !p.HasFile(path) {
				return nil
			}
			return []lint.Occurrence{{File: "./" + path, Resolution: resolution}}
		},
	})
}

// NewGitIgnoreEntryRule reports a .gitignore without the given entry.
// Projects without a .gitignore produce nothing.
func NewGitIgnoreEntryRule(id, entry string) lint.Rule {
	return lint.WrapRuleDef(lint.RuleDef{
		Meta: lint.Meta{
			ID:             id,
			Title:          ".gitignore " + entry,
			Description:    fmt.Sprintf("To .gitignore add the '%s' entry", entry),
			Resolution:     entry,
			ResolutionType: core.ResolutionText,
			Severity:       core.SeverityRecommended,
			File:           "./" + core.GitIgnorePath,
		},
		Check: func(p *core.Project) []lint.Occurrence {
			if entry == "" || p.GitIgnore == nil {
				return nil
			}
			for _, line := range strings.Split(p.GitIgnore.Source, "\n") {
				if strings.TrimSpace(line) == entry {
					return nil
				}
			}
			return []lint.Occurrence{{File: "./" + core.GitIgnorePath, Resolution: entry}}
		},
	})
}

// NewGulpfileRule reports a gulpfile.js that lacks snippet.
func NewGulpfileRule(id, snippet, description string) lint.Rule {
	return lint.WrapRuleDef(lint.RuleDef{
		Meta: lint.Meta{
			ID:             id,
			Title:          "gulpfile.js",
			Description:    description,
			Resolution:     snippet,
			ResolutionType: core.ResolutionJS,
			Severity:       core.SeverityRequired,
			File:           "./" + core.GulpfilePath,
		},
		Check: func(p *core.Project) []lint.Occurrence {
			if snippet == "" || p.Gulpfile == nil || strings.Contains(p.Gulpfile.Source, firstLine(snippet)) {
				return nil
			}
			return []lint.Occurrence{{File: "./" + core.GulpfilePath, Resolution: snippet}}
		},
	})
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return strings.TrimSpace(line)
}

// NewDedupeRule suggests running npm dedupe after installing packages.
func NewDedupeRule() lint.Rule {
	return lint.WrapRuleDef(lint.RuleDef{
		Meta: lint.Meta{
			ID:             "FN017001",
			Title:          "Run npm dedupe",
			Description:    "If, after upgrading npm packages, when building the project you have errors similar to: \"error TS2345: Argument of type 'SPHttpClientConfiguration' is not assignable to parameter of type 'SPHttpClientConfiguration'\", try running 'npm dedupe' to cleanup npm packages.",
			Resolution:     "npm dedupe",
			ResolutionType: core.ResolutionCmd,
			Severity:       core.SeverityOptional,
			File:           "./" + core.PackageJSONPath,
		},
		Check: func(p *core.Project) []lint.Occurrence {
			if p.PackageJSON == nil {
				return nil
			}
			return []lint.Occurrence{{File: "./" + core.PackageJSONPath, Resolution: "npm dedupe"}}
		},
	})
}
