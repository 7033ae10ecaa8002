package lint

import (
	"github.com/leapstack-labs/spfxkit/pkg/core"
)

// =============================================================================
// Occurrences and Findings
// =============================================================================

// Position is a zero-based location inside a file.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Occurrence is one concrete location plus the suggested fix.
type Occurrence struct {
	File       string    `json:"file"`
	Resolution string    `json:"resolution"`
	Position   *Position `json:"position,omitempty"`
	Context    string    `json:"context,omitempty"`
}

// Finding is the aggregated result of one rule over one project.
// It carries the rule's metadata by value.
type Finding struct {
	ID             string              `json:"id"`
	Title          string              `json:"title"`
	Description    string              `json:"description"`
	Resolution     string              `json:"resolution"`
	ResolutionType core.ResolutionType `json:"resolutionType"`
	Severity       core.Severity       `json:"severity"`
	File           string              `json:"file,omitempty"`
	Supersedes     []string            `json:"supersedes,omitempty"`
	Occurrences    []Occurrence        `json:"occurrences"`
}

// =============================================================================
// Externalization
// =============================================================================

// ExternalizeEntry describes one dependency loaded from a CDN instead of the bundle.
type ExternalizeEntry struct {
	Key                string
	Path               string
	GlobalName         string
	GlobalDependencies []string
}

// EditAction is the kind of change a FileEdit suggests.
type EditAction string

// Edit actions.
const (
	ActionAdd    EditAction = "add"
	ActionRemove EditAction = "remove"
)

// FileEdit is a human-actionable source edit suggestion. It is never applied.
type FileEdit struct {
	Path        string     `json:"path"`
	Action      EditAction `json:"action"`
	TargetValue string     `json:"targetValue"`
}

// ExternalizeResult is the aggregated result of an externalize run.
type ExternalizeResult struct {
	Externals *Externals `json:"externals"`
	Edits     []FileEdit `json:"edits"`
}

// =============================================================================
// Rule results
// =============================================================================

// Result is what a single rule visit produces.
type Result struct {
	Occurrences []Occurrence
	Externals   []ExternalizeEntry
	Edits       []FileEdit
}

// Empty reports whether the result carries nothing.
func (r Result) Empty() bool {
	return len(r.Occurrences) == 0 && len(r.Externals) == 0 && len(r.Edits) == 0
}
