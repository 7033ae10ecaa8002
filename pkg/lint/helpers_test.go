package lint_test

import (
	"context"

	"github.com/leapstack-labs/spfxkit/pkg/core"
	"github.com/leapstack-labs/spfxkit/pkg/lint"
)

// fixedRule returns a synchronous rule that reports one occurrence per file.
func fixedRule(id string, files ...string) lint.Rule {
	return lint.WrapRuleDef(lint.RuleDef{
		Meta: lint.Meta{
			ID:             id,
			Title:          "title " + id,
			Description:    "description " + id,
			Resolution:     "resolution " + id,
			ResolutionType: core.ResolutionCmd,
			Severity:       core.SeverityRequired,
			File:           "./package.json",
		},
		Check: func(_ *core.Project) []lint.Occurrence {
			var occs []lint.Occurrence
			for _, f := range files {
				occs = append(occs, lint.Occurrence{File: f, Resolution: "fix " + f})
			}
			return occs
		},
	})
}

// externalRule returns an async rule that emits the given entries.
func externalRule(id string, entries ...lint.ExternalizeEntry) lint.Rule {
	return lint.WrapAsyncRuleDef(lint.AsyncRuleDef{
		Meta: lint.Meta{ID: id, Severity: core.SeverityRecommended},
		Visit: func(_ context.Context, _ *core.Project) (lint.Result, error) {
			return lint.Result{Externals: entries}, nil
		},
	})
}

func testProject() *core.Project {
	return &core.Project{
		Path:    "/work/app",
		Version: "1.15.0",
		PackageJSON: &core.PackageJSON{
			Name:         "app",
			Dependencies: map[string]string{"lodash": "4.17.21"},
		},
	}
}
