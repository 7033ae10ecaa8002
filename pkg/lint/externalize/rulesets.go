package externalize

import (
	"github.com/leapstack-labs/spfxkit/pkg/lint"
)

// SupportedVersions are the SharePoint Framework versions with an externalize rule set.
var SupportedVersions = []string{
	"1.14.0", "1.15.0", "1.15.2", "1.16.0", "1.16.1",
	"1.17.0", "1.17.1", "1.17.2", "1.17.3", "1.17.4", "1.18.0",
}

// NewRegistry builds the externalize rule sets. Known libraries come first so
// their entries win over the dynamic rule's for the same key.
func NewRegistry(resolver Resolver) *lint.RuleSetRegistry {
	sets := make(map[string][]lint.Rule, len(SupportedVersions))
	for _, v := range SupportedVersions {
		sets[v] = rules(resolver)
	}
	return lint.MustNewRuleSetRegistry("externalize", sets)
}

func rules(resolver Resolver) []lint.Rule {
	out := make([]lint.Rule, 0, len(KnownLibraries)+1)
	for _, lib := range KnownLibraries {
		out = append(out, NewKnownLibraryRule(lib))
	}
	return append(out, NewDynamicRule(resolver))
}
