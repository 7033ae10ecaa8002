package externalize

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/leapstack-labs/spfxkit/pkg/core"
	"github.com/leapstack-labs/spfxkit/pkg/lint"
)

// KnownLibrary is a package with a well-known CDN build.
type KnownLibrary struct {
	ID                 string
	Package            string
	Key                string // Externals key; defaults to Package
	URL                string // fmt template receiving the version
	GlobalName         string
	GlobalDependencies []string

	// SideEffect marks plugins that attach to another global. Binding imports of
	// such packages are replaced with side-effect imports.
	SideEffect bool
}

// KnownLibraries are the libraries externalized without probing package metadata.
var KnownLibraries = []KnownLibrary{
	{ID: "EX001", Package: "jquery", URL: "https://code.jquery.com/jquery-%s.min.js", GlobalName: "jQuery"},
	{ID: "EX002", Package: "jquery-ui", Key: "jqueryui", URL: "https://code.jquery.com/ui/%s/jquery-ui.min.js",
		GlobalName: "jQuery", GlobalDependencies: []string{"jquery"}, SideEffect: true},
	{ID: "EX003", Package: "lodash", URL: "https://cdn.jsdelivr.net/npm/lodash@%s/lodash.min.js", GlobalName: "_"},
	{ID: "EX004", Package: "moment", URL: "https://cdn.jsdelivr.net/npm/moment@%s/min/moment.min.js", GlobalName: "moment"},
	{ID: "EX005", Package: "chart.js", URL: "https://cdn.jsdelivr.net/npm/chart.js@%s/dist/chart.umd.js", GlobalName: "Chart"},
	{ID: "EX006", Package: "bootstrap", URL: "https://cdn.jsdelivr.net/npm/bootstrap@%s/dist/js/bootstrap.bundle.min.js",
		GlobalName: "bootstrap", SideEffect: true},
}

// NewKnownLibraryRule builds the rule for one known library.
func NewKnownLibraryRule(lib KnownLibrary) lint.Rule {
	key := lib.Key
	if key == "" {
		key = lib.Package
	}
	return lint.WrapAsyncRuleDef(lint.AsyncRuleDef{
		Meta: lint.Meta{
			ID:             lib.ID,
			Title:          lib.Package,
			Description:    fmt.Sprintf("Load %s from a CDN instead of bundling it", lib.Package),
			Resolution:     fmt.Sprintf(lib.URL, "<version>"),
			ResolutionType: core.ResolutionJSON,
			Severity:       core.SeverityRecommended,
			File:           "./" + core.ConfigJSONPath,
		},
		Visit: func(_ context.Context, p *core.Project) (lint.Result, error) {
			version, ok := p.Dependency(lib.Package)
			if !ok || lib.Package == "" {
				return lint.Result{}, nil
			}
			res := lint.Result{Externals: []lint.ExternalizeEntry{{
				Key:                key,
				Path:               fmt.Sprintf(lib.URL, core.CleanVersion(version)),
				GlobalName:         lib.GlobalName,
				GlobalDependencies: lib.GlobalDependencies,
			}}}
			if lib.SideEffect {
				res.Edits = sideEffectEdits(p, lib.Package)
			}
			return res, nil
		},
	})
}

// sideEffectEdits suggests replacing binding imports of pkg with a bare import.
func sideEffectEdits(p *core.Project, pkg string) []lint.FileEdit {
	re := regexp.MustCompile(`^\s*import\s+.+\s+from\s+['"]` + regexp.QuoteMeta(pkg) + `(/[^'"]*)?['"];?\s*$`)
	add := fmt.Sprintf("import '%s';", pkg)

	var edits []lint.FileEdit
	for _, f := range p.SourceFiles {
		found := false
		for _, line := range strings.Split(f.Source, "\n") {
			if !re.MatchString(line) {
				continue
			}
			found = true
			edits = append(edits, lint.FileEdit{Path: f.Path, Action: lint.ActionRemove, TargetValue: strings.TrimSpace(line)})
		}
		if found {
			edits = append(edits, lint.FileEdit{Path: f.Path, Action: lint.ActionAdd, TargetValue: add})
		}
	}
	return edits
}
