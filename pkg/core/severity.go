package core

import (
	"fmt"
	"strings"
)

// =============================================================================
// Severity
// =============================================================================

// Severity indicates how important it is to act on a finding.
type Severity int

// Severity levels for findings.
const (
	// SeverityRequired must be addressed for the project to work on the target version.
	SeverityRequired Severity = iota
	// SeverityRecommended should be addressed to follow the target version's defaults.
	SeverityRecommended
	// SeverityOptional is a suggestion.
	SeverityOptional
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityRequired:
		return "Required"
	case SeverityRecommended:
		return "Recommended"
	case SeverityOptional:
		return "Optional"
	default:
		return "Unknown"
	}
}

// ParseSeverity converts a string to a Severity value.
// Returns the severity and true if valid, or SeverityRecommended and false if invalid.
func ParseSeverity(s string) (Severity, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "required":
		return SeverityRequired, true
	case "recommended":
		return SeverityRecommended, true
	case "optional":
		return SeverityOptional, true
	default:
		return SeverityRecommended, false
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(text []byte) error {
	sev, ok := ParseSeverity(string(text))
	if !ok {
		return fmt.Errorf("unknown severity %q", string(text))
	}
	*s = sev
	return nil
}

// =============================================================================
// Resolution types
// =============================================================================

// ResolutionType tells the reader how a resolution should be applied.
type ResolutionType string

// Resolution types.
const (
	ResolutionCmd  ResolutionType = "cmd"
	ResolutionJSON ResolutionType = "json"
	ResolutionJS   ResolutionType = "js"
	ResolutionTS   ResolutionType = "ts"
	ResolutionSCSS ResolutionType = "scss"
	ResolutionText ResolutionType = "text"
)

// =============================================================================
// RuleInfo
// =============================================================================

// RuleInfo provides metadata about a rule for documentation/tooling.
// This is a DTO (Data Transfer Object) - it carries data without behavior.
type RuleInfo struct {
	ID             string         `json:"id"`
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	Resolution     string         `json:"resolution"`
	ResolutionType ResolutionType `json:"resolutionType"`
	Severity       Severity       `json:"severity"`
	File           string         `json:"file,omitempty"`
	Supersedes     []string       `json:"supersedes,omitempty"`
}
