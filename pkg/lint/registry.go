package lint

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/mod/semver"
)

// RuleSetRegistry maps an exact version string to an ordered, immutable rule set.
// It is built once at startup from literal tables and is safe for concurrent reads.
type RuleSetRegistry struct {
	kind     string
	sets     map[string][]Rule
	versions []string // ascending semver order
}

// NewRuleSetRegistry validates and freezes a version-keyed table of rule sets.
// Every version must be valid semver, every set non-empty, and rule IDs unique within a set.
func NewRuleSetRegistry(kind string, sets map[string][]Rule) (*RuleSetRegistry, error) {
	r := &RuleSetRegistry{
		kind: kind,
		sets: make(map[string][]Rule, len(sets)),
	}

	for version, rules := range sets {
		if !semver.IsValid(canonical(version)) {
			return nil, fmt.Errorf("%s rule sets: invalid version %q", kind, version)
		}
		if len(rules) == 0 {
			return nil, fmt.Errorf("%s rule sets: version %s has no rules", kind, version)
		}
		seen := make(map[string]bool, len(rules))
		for _, rule := range rules {
			if seen[rule.ID()] {
				return nil, fmt.Errorf("%s rule sets: duplicate rule %s in version %s", kind, rule.ID(), version)
			}
			seen[rule.ID()] = true
		}
		r.sets[version] = slices.Clone(rules)
		r.versions = append(r.versions, version)
	}

	slices.SortFunc(r.versions, CompareVersions)
	return r, nil
}

// MustNewRuleSetRegistry is like NewRuleSetRegistry but panics on an invalid table.
func MustNewRuleSetRegistry(kind string, sets map[string][]Rule) *RuleSetRegistry {
	r, err := NewRuleSetRegistry(kind, sets)
	if err != nil {
		panic(err)
	}
	return r
}

// Kind returns the registry name, e.g. "upgrade".
func (r *RuleSetRegistry) Kind() string { return r.kind }

// Lookup returns a copy of the ordered rule set for version.
func (r *RuleSetRegistry) Lookup(version string) ([]Rule, error) {
	version = strings.TrimPrefix(strings.TrimSpace(version), "v")
	if version == "" {
		return nil, NewVersionUndetectableError()
	}
	rules, ok := r.sets[version]
	if !ok {
		return nil, NewUnsupportedVersionError(version, r.Versions())
	}
	return slices.Clone(rules), nil
}

// Versions returns all supported versions in ascending semver order.
func (r *RuleSetRegistry) Versions() []string {
	return slices.Clone(r.versions)
}

// Latest returns the newest supported version.
func (r *RuleSetRegistry) Latest() string {
	if len(r.versions) == 0 {
		return ""
	}
	return r.versions[len(r.versions)-1]
}

// Between returns the supported versions v with from < v <= to, ascending.
func (r *RuleSetRegistry) Between(from, to string) []string {
	var out []string
	for _, v := range r.versions {
		if CompareVersions(v, from) > 0 && CompareVersions(v, to) <= 0 {
			out = append(out, v)
		}
	}
	return out
}

// CompareVersions compares two versions with or without a leading "v" or range operator.
func CompareVersions(a, b string) int {
	return semver.Compare(canonical(a), canonical(b))
}

func canonical(v string) string {
	return "v" + strings.TrimLeft(strings.TrimSpace(v), "^~=v")
}
