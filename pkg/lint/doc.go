// Package lint provides the versioned rule engine used to plan SPFx upgrades
// and dependency externalization.
//
// # Architecture
//
// The engine is split into a few small pieces:
//
//  1. Rules (Rule, RuleDef, AsyncRuleDef): independent analysis units that read a
//     core.Project and report occurrences, externals and edit suggestions
//  2. Rule sets (RuleSetRegistry): an immutable, version-keyed table of ordered rules
//  3. Analyzer: runs a rule set sequentially (Analyze) or concurrently
//     (AnalyzeConcurrent) and aggregates the results
//  4. Deduplication: DedupExternals and ReduceFindings normalize aggregated results
//
// Rule sets themselves live in pkg/lint/upgrade and pkg/lint/externalize.
//
// # Creating Rules
//
// Synchronous rules are plain data with a pure Check function:
//
//	var rule = lint.WrapRuleDef(lint.RuleDef{
//		Meta: lint.Meta{
//			ID:             "FN015003",
//			Title:          "tslint.json",
//			Description:    "Remove file tslint.json",
//			Resolution:     "rm tslint.json",
//			ResolutionType: core.ResolutionCmd,
//			Severity:       core.SeverityRequired,
//			File:           "./tslint.json",
//		},
//		Check: checkTslint,
//	})
//
// Rules that must probe additional state use AsyncRuleDef and return their own Result.
//
// # Configuration
//
// Use Config to skip rules or whole rule families and override severities:
//
//	config := lint.NewConfig()
//	config.Disable("FN017001", "EX*")
//	config.SetSeverity("FN002022", core.SeverityOptional)
package lint
