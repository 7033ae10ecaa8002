package externalize

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/spfxkit/pkg/core"
	"github.com/leapstack-labs/spfxkit/pkg/lint"
)

// maxProbes bounds concurrent resolver lookups within one rule visit.
const maxProbes = 8

// providedBySPFx are runtime dependencies the SharePoint page already loads.
var providedBySPFx = map[string]bool{
	"react":     true,
	"react-dom": true,
	"tslib":     true,
}

// knownPackages are packages covered by a KnownLibrary rule. The dynamic rule
// leaves them alone since their externals key may differ from the package name.
var knownPackages = func() map[string]bool {
	m := make(map[string]bool, len(KnownLibraries))
	for _, lib := range KnownLibraries {
		m[lib.Package] = true
	}
	return m
}()

// NewDynamicRule probes resolver for every remaining runtime dependency and suggests an
// unpkg external for packages shipping a UMD or AMD bundle.
// Resolver errors fail the rule.
func NewDynamicRule(resolver Resolver) lint.Rule {
	return lint.WrapAsyncRuleDef(lint.AsyncRuleDef{
		Meta: lint.Meta{
			ID:             "EX100",
			Title:          "CDN-loadable dependencies",
			Description:    "Load dependencies that ship a UMD or AMD bundle from unpkg",
			Resolution:     "https://unpkg.com/<package>@<version>/<file>",
			ResolutionType: core.ResolutionJSON,
			Severity:       core.SeverityOptional,
			File:           "./" + core.ConfigJSONPath,
		},
		Visit: func(ctx context.Context, p *core.Project) (lint.Result, error) {
			if resolver == nil || p.PackageJSON == nil {
				return lint.Result{}, nil
			}

			var names []string
			for name := range p.PackageJSON.Dependencies {
				if strings.HasPrefix(name, "@microsoft/") || providedBySPFx[name] || knownPackages[name] {
					continue
				}
				names = append(names, name)
			}
			slices.Sort(names)

			entries := make([]*lint.ExternalizeEntry, len(names))
			g, gctx := errgroup.WithContext(ctx)
			g.SetLimit(maxProbes)
			for i, name := range names {
				version := core.CleanVersion(p.PackageJSON.Dependencies[name])
				g.Go(func() error {
					info, err := resolver.Resolve(gctx, name, version)
					if err != nil {
						return err
					}
					entries[i] = entryFor(name, version, info)
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return lint.Result{}, err
			}

			var res lint.Result
			for _, e := range entries {
				if e != nil {
					res.Externals = append(res.Externals, *e)
				}
			}
			return res, nil
		},
	})
}

func entryFor(name, version string, info *PackageInfo) *lint.ExternalizeEntry {
	if info == nil || info.File == "" {
		return nil
	}
	if info.Version != "" {
		version = info.Version
	}
	path := fmt.Sprintf("https://unpkg.com/%s@%s/%s", name, version, strings.TrimPrefix(info.File, "./"))

	switch info.ModuleType {
	case ModuleUMD:
		return &lint.ExternalizeEntry{Key: name, Path: path, GlobalName: info.GlobalName}
	case ModuleAMD:
		return &lint.ExternalizeEntry{Key: name, Path: path}
	default:
		return nil
	}
}
