package upgrade

import (
	"context"
	"log/slog"

	"github.com/leapstack-labs/spfxkit/pkg/core"
	"github.com/leapstack-labs/spfxkit/pkg/lint"
)

// Plan is the result of planning an upgrade.
type Plan struct {
	From     string         `json:"from"`
	To       string         `json:"to"`
	Steps    []string       `json:"steps"`
	Findings []lint.Finding `json:"findings"`
}

// Planner runs the rule sets between a project's version and a target version.
type Planner struct {
	registry *lint.RuleSetRegistry
	analyzer *lint.Analyzer
	logger   *slog.Logger
}

// NewPlanner creates a planner. A nil registry uses Registry().
func NewPlanner(registry *lint.RuleSetRegistry, analyzer *lint.Analyzer, logger *slog.Logger) *Planner {
	if registry == nil {
		registry = Registry()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if analyzer == nil {
		analyzer = lint.NewAnalyzer(nil, logger)
	}
	return &Planner{registry: registry, analyzer: analyzer, logger: logger}
}

// Plan analyzes project against every version step in (project.Version, to].
// An empty target means the latest supported version. A project already at the
// target yields an empty plan.
func (pl *Planner) Plan(ctx context.Context, project *core.Project, to string) (*Plan, error) {
	from := project.Version
	if from == "" {
		return nil, lint.NewVersionUndetectableError()
	}
	if _, err := pl.registry.Lookup(from); err != nil {
		return nil, err
	}
	if to == "" {
		to = pl.registry.Latest()
	}
	if _, err := pl.registry.Lookup(to); err != nil {
		return nil, err
	}
	if lint.CompareVersions(to, from) < 0 {
		return nil, lint.NewNoDowngradeError(from, to)
	}

	plan := &Plan{From: from, To: to, Steps: pl.registry.Between(from, to), Findings: []lint.Finding{}}
	if len(plan.Steps) == 0 {
		pl.logger.Debug("project already at target version", "version", to)
		return plan, nil
	}

	steps := make([][]lint.Finding, 0, len(plan.Steps))
	for _, version := range plan.Steps {
		rules, err := pl.registry.Lookup(version)
		if err != nil {
			return nil, err
		}
		findings, err := pl.analyzer.Analyze(ctx, rules, project)
		if err != nil {
			return nil, err
		}
		pl.logger.Debug("analyzed upgrade step", "version", version, "rules", len(rules), "findings", len(findings))
		steps = append(steps, findings)
	}

	plan.Findings = lint.ReduceFindings(steps...)
	return plan, nil
}
