package lint

import (
	"context"
	"log/slog"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/spfxkit/pkg/core"
)

// Analyzer runs rule sets against a project.
type Analyzer struct {
	config *Config
	logger *slog.Logger
}

// NewAnalyzer creates a new analyzer with optional configuration.
func NewAnalyzer(config *Config, logger *slog.Logger) *Analyzer {
	if config == nil {
		config = NewConfig()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Analyzer{config: config, logger: logger}
}

// Analyze runs rules one after another and returns one Finding per rule
// that produced occurrences, in rule order.
//
// A rule error stops the run and is returned as is.
func (a *Analyzer) Analyze(ctx context.Context, rules []Rule, p *core.Project) ([]Finding, error) {
	var findings []Finding
	for _, rule := range rules {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		// Skip disabled rules
		if a.config.IsDisabled(rule.ID()) {
			a.logger.Debug("rule disabled", "rule", rule.ID())
			continue
		}

		res, err := rule.Visit(ctx, p)
		if err != nil {
			return nil, err
		}
		if len(res.Occurrences) == 0 {
			continue
		}

		a.logger.Debug("rule fired", "rule", rule.ID(), "occurrences", len(res.Occurrences))
		findings = append(findings, a.newFinding(rule, res.Occurrences))
	}
	return findings, nil
}

// AnalyzeConcurrent visits all rules at once and joins their results.
//
// The first failing rule aborts the run: the shared context is cancelled, partial
// results are discarded and that rule's error is returned unwrapped. On success
// externals and edits are concatenated in rule order and externals are
// deduplicated by key, first entry wins.
func (a *Analyzer) AnalyzeConcurrent(ctx context.Context, rules []Rule, p *core.Project) (*ExternalizeResult, error) {
	active := slices.DeleteFunc(slices.Clone(rules), func(r Rule) bool {
		return a.config.IsDisabled(r.ID())
	})
	results := make([]Result, len(active))

	g, gctx := errgroup.WithContext(ctx)
	for i, rule := range active {
		g.Go(func() error {
			res, err := rule.Visit(gctx, p)
			if err != nil {
				a.logger.Debug("rule failed", "rule", rule.ID(), "error", err)
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var entries []ExternalizeEntry
	out := &ExternalizeResult{}
	for _, res := range results {
		entries = append(entries, res.Externals...)
		out.Edits = append(out.Edits, res.Edits...)
	}
	out.Externals = DedupExternals(entries)

	if dropped := len(entries) - out.Externals.Len(); dropped > 0 {
		a.logger.Debug("deduplicated externals", "dropped", dropped)
	}
	return out, nil
}

func (a *Analyzer) newFinding(rule Rule, occurrences []Occurrence) Finding {
	return Finding{
		ID:             rule.ID(),
		Title:          rule.Title(),
		Description:    rule.Description(),
		Resolution:     rule.Resolution(),
		ResolutionType: rule.ResolutionType(),
		Severity:       a.config.GetSeverity(rule.ID(), rule.Severity()),
		File:           rule.File(),
		Supersedes:     slices.Clone(rule.Supersedes()),
		Occurrences:    slices.Clone(occurrences),
	}
}
