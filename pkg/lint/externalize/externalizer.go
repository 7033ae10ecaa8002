package externalize

import (
	"context"
	"log/slog"

	"github.com/leapstack-labs/spfxkit/pkg/core"
	"github.com/leapstack-labs/spfxkit/pkg/lint"
)

// Externalizer selects the rule set for a project and runs it concurrently.
type Externalizer struct {
	registry *lint.RuleSetRegistry
	analyzer *lint.Analyzer
	logger   *slog.Logger
}

// NewExternalizer creates an externalizer over registry.
func NewExternalizer(registry *lint.RuleSetRegistry, analyzer *lint.Analyzer, logger *slog.Logger) *Externalizer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if analyzer == nil {
		analyzer = lint.NewAnalyzer(nil, logger)
	}
	return &Externalizer{registry: registry, analyzer: analyzer, logger: logger}
}

// Plan returns the deduplicated externals and edit suggestions for project.
func (e *Externalizer) Plan(ctx context.Context, project *core.Project) (*lint.ExternalizeResult, error) {
	rules, err := e.registry.Lookup(project.Version)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("running externalize rules", "version", project.Version, "rules", len(rules))

	res, err := e.analyzer.AnalyzeConcurrent(ctx, rules, project)
	if err != nil {
		return nil, err
	}
	if res.Edits == nil {
		res.Edits = []lint.FileEdit{}
	}
	return res, nil
}
