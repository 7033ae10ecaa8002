package lint

import (
	"context"

	"github.com/leapstack-labs/spfxkit/pkg/core"
)

// Rule is the interface all analysis rules implement.
// Synchronous and asynchronous rules share this one contract.
type Rule interface {
	// ID returns the unique identifier within a rule set, e.g. "FN001001"
	ID() string

	// Title returns the short name, usually the package or file concerned
	Title() string

	// Description returns a human-readable description
	Description() string

	// Resolution returns the resolution template with concrete values
	Resolution() string

	// ResolutionType tells how Resolution is applied
	ResolutionType() core.ResolutionType

	// Severity returns the default severity for this rule
	Severity() core.Severity

	// File returns the file the rule is concerned with, if any
	File() string

	// Supersedes lists rule IDs made obsolete when this rule fires
	Supersedes() []string

	// Visit analyzes the project. Rules must never mutate the project.
	Visit(ctx context.Context, p *core.Project) (Result, error)
}

// Meta holds the descriptive fields shared by every rule definition.
type Meta struct {
	ID             string
	Title          string
	Description    string
	Resolution     string
	ResolutionType core.ResolutionType
	Severity       core.Severity
	File           string
	Supersedes     []string
}

// CheckFunc inspects a project and returns occurrences. It must be pure.
type CheckFunc func(p *core.Project) []Occurrence

// VisitFunc inspects a project, possibly blocking on injected collaborators.
type VisitFunc func(ctx context.Context, p *core.Project) (Result, error)

// RuleDef is a data-driven synchronous rule.
// Rules are stateless - all context comes via the Check parameter.
type RuleDef struct {
	Meta
	Check CheckFunc
}

// AsyncRuleDef is a data-driven rule that returns its own result.
type AsyncRuleDef struct {
	Meta
	Visit VisitFunc
}

// GetRuleInfo extracts metadata from a Rule for documentation/tooling.
func GetRuleInfo(r Rule) core.RuleInfo {
	return core.RuleInfo{
		ID:             r.ID(),
		Title:          r.Title(),
		Description:    r.Description(),
		Resolution:     r.Resolution(),
		ResolutionType: r.ResolutionType(),
		Severity:       r.Severity(),
		File:           r.File(),
		Supersedes:     r.Supersedes(),
	}
}

// =============================================================================
// Wrapped definitions
// =============================================================================

type metaRule struct {
	meta Meta
}

func (m metaRule) ID() string                          { return m.meta.ID }
func (m metaRule) Title() string                       { return m.meta.Title }
func (m metaRule) Description() string                 { return m.meta.Description }
func (m metaRule) Resolution() string                  { return m.meta.Resolution }
func (m metaRule) ResolutionType() core.ResolutionType { return m.meta.ResolutionType }
func (m metaRule) Severity() core.Severity             { return m.meta.Severity }
func (m metaRule) File() string                        { return m.meta.File }
func (m metaRule) Supersedes() []string                { return m.meta.Supersedes }

// wrappedRuleDef wraps a RuleDef to implement Rule.
type wrappedRuleDef struct {
	metaRule
	check CheckFunc
}

// WrapRuleDef wraps a RuleDef to implement the Rule interface.
func WrapRuleDef(def RuleDef) Rule {
	return &wrappedRuleDef{metaRule: metaRule{meta: def.Meta}, check: def.Check}
}

// Visit runs the check synchronously. A panic in Check is not recovered.
func (w *wrappedRuleDef) Visit(_ context.Context, p *core.Project) (Result, error) {
	if w.check == nil {
		return Result{}, nil
	}
	return Result{Occurrences: w.check(p)}, nil
}

// Unwrap returns the underlying RuleDef.
func (w *wrappedRuleDef) Unwrap() RuleDef {
	return RuleDef{Meta: w.meta, Check: w.check}
}

// wrappedAsyncRuleDef wraps an AsyncRuleDef to implement Rule.
type wrappedAsyncRuleDef struct {
	metaRule
	visit VisitFunc
}

// WrapAsyncRuleDef wraps an AsyncRuleDef to implement the Rule interface.
func WrapAsyncRuleDef(def AsyncRuleDef) Rule {
	return &wrappedAsyncRuleDef{metaRule: metaRule{meta: def.Meta}, visit: def.Visit}
}

func (w *wrappedAsyncRuleDef) Visit(ctx context.Context, p *core.Project) (Result, error) {
	if w.visit == nil {
		return Result{}, nil
	}
	return w.visit(ctx, p)
}

// Unwrap returns the underlying AsyncRuleDef.
func (w *wrappedAsyncRuleDef) Unwrap() AsyncRuleDef {
	return AsyncRuleDef{Meta: w.meta, Visit: w.visit}
}
