// Package upgrade holds the SPFx upgrade rule catalog and the Planner that walks
// a project through every version step between its current and target version.
//
// Each registry key is the version a rule set upgrades a project to. Rule
// constructors are table-driven: NewDependencyRule, NewJSONPropertyRule,
// NewScssAddImportRule and friends build plain lint.RuleDef values.
package upgrade
