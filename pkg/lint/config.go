package lint

import (
	"strings"

	"github.com/leapstack-labs/spfxkit/pkg/core"
)

// Config controls which rules run and the severity their findings carry.
//
// Rule IDs match case-insensitively, so "fn017001" from an environment
// variable selects FN017001. A disabled ID ending in "*" selects a whole rule
// family: "FN002*" skips every package.json devDependency rule and "EX*" every
// externalize rule.
type Config struct {
	disabled  map[string]bool
	families  []string
	overrides map[string]core.Severity
}

// NewConfig creates a default configuration with all rules enabled.
func NewConfig() *Config {
	return &Config{
		disabled:  make(map[string]bool),
		overrides: make(map[string]core.Severity),
	}
}

func normalizeID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// IsDisabled returns true if the rule should be skipped.
func (c *Config) IsDisabled(ruleID string) bool {
	if c == nil {
		return false
	}
	id := normalizeID(ruleID)
	if c.disabled[id] {
		return true
	}
	for _, prefix := range c.families {
		if strings.HasPrefix(id, prefix) {
			return true
		}
	}
	return false
}

// GetSeverity returns the severity for a rule, applying any override.
func (c *Config) GetSeverity(ruleID string, defaultSeverity core.Severity) core.Severity {
	if c != nil {
		if sev, ok := c.overrides[normalizeID(ruleID)]; ok {
			return sev
		}
	}
	return defaultSeverity
}

// Disable skips the given rule IDs or rule families. Blank IDs are ignored.
func (c *Config) Disable(ruleIDs ...string) *Config {
	for _, raw := range ruleIDs {
		id := normalizeID(raw)
		switch {
		case id == "" || id == "*":
		case strings.HasSuffix(id, "*"):
			c.families = append(c.families, strings.TrimSuffix(id, "*"))
		default:
			c.disabled[id] = true
		}
	}
	return c
}

// SetSeverity overrides the severity for a rule.
func (c *Config) SetSeverity(ruleID string, severity core.Severity) *Config {
	if id := normalizeID(ruleID); id != "" {
		c.overrides[id] = severity
	}
	return c
}
