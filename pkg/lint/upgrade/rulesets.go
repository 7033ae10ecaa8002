package upgrade

import (
	"sync"

	"github.com/leapstack-labs/spfxkit/pkg/core"
	"github.com/leapstack-labs/spfxkit/pkg/lint"
)

// Import values moved by the Fluent UI rename.
const (
	fabricReferences = "~office-ui-fabric-react/dist/sass/References.scss"
	fluentReferences = "~@fluentui/react/dist/sass/References.scss"
)

const (
	rsc45Tsconfig = "./node_modules/@microsoft/rush-stack-compiler-4.5/includes/tsconfig-web.json"
	rsc47Tsconfig = "./node_modules/@microsoft/rush-stack-compiler-4.7/includes/tsconfig-web.json"
)

const serveTaskFix = `var getTasks = build.rig.getTasks;
build.rig.getTasks = function () {
  var result = getTasks.call(build.rig);

  result.set('serve', result.get('serve-deprecated'));

  return result;
};`

var registry = sync.OnceValue(func() *lint.RuleSetRegistry {
	return lint.MustNewRuleSetRegistry("upgrade", ruleSets())
})

// Registry returns the upgrade rule sets keyed by the version they upgrade to.
func Registry() *lint.RuleSetRegistry {
	return registry()
}

func ruleSets() map[string][]lint.Rule {
	return map[string][]lint.Rule{
		"1.14.0": step("1.14.0",
			NewJSONPropertyRule(JSONProperty{
				ID:          "FN003001",
				Document:    core.ConfigJSONPath,
				Property:    "$schema",
				Value:       "https://developer.microsoft.com/json-schemas/spfx-build/config.2.0.schema.json",
				Title:       "config.json schema",
				Description: "Update config/config.json schema URL",
				Severity:    core.SeverityRequired,
			}),
			NewGulpfileRule("FN013002", serveTaskFix, "Before 'build.initialize(require('gulp'));' add the serve task"),
			NewGitIgnoreEntryRule("FN023001", "release"),
		),
		"1.15.0": step("1.15.0",
			NewDependencyRule(Dependency{ID: "FN002020", Package: "@microsoft/rush-stack-compiler-3.9", Dev: true, Remove: true, Severity: core.SeverityRequired}),
			NewDependencyRule(Dependency{ID: "FN002022", Package: "@microsoft/rush-stack-compiler-4.5", Version: "0.2.2", Dev: true, Severity: core.SeverityRequired}),
			NewDependencyRule(Dependency{ID: "FN002026", Package: "@microsoft/sp-tslint-rules", Dev: true, Remove: true, Severity: core.SeverityRequired}),
			NewDependencyRule(Dependency{ID: "FN002027", Package: "eslint", Version: "8.7.0", Dev: true, Severity: core.SeverityRequired}),
			NewJSONPropertyRule(JSONProperty{
				ID:          "FN012017",
				Document:    core.TsConfigPath,
				Property:    "extends",
				Value:       rsc45Tsconfig,
				Title:       "tsconfig.json extends property",
				Description: "Update tsconfig.json extends property",
				Severity:    core.SeverityRequired,
			}),
			NewRemoveFileRule("FN015003", "tslint.json", "Remove file tslint.json", core.SeverityRequired),
			NewScssRemoveImportRule(fabricReferences),
			NewScssAddImportRule(fluentReferences),
			NewNodeEngineRule(">=12.13.0 <13.0.0 || >=14.15.0 <15.0.0 || >=16.13.0 <17.0.0"),
		),
		"1.15.2": step("1.15.2"),
		"1.16.0": step("1.16.0",
			NewDependencyRule(Dependency{ID: "FN001008", Package: "react", Version: "17.0.1", Optional: true, Severity: core.SeverityRequired}),
			NewDependencyRule(Dependency{ID: "FN001009", Package: "react-dom", Version: "17.0.1", Optional: true, Severity: core.SeverityRequired}),
			NewDependencyRule(Dependency{ID: "FN002015", Package: "@types/react", Version: "17.0.45", Dev: true, Optional: true, Severity: core.SeverityRequired}),
			NewDependencyRule(Dependency{ID: "FN002016", Package: "@types/react-dom", Version: "17.0.17", Dev: true, Optional: true, Severity: core.SeverityRequired}),
			NewJSONPropertyRule(JSONProperty{
				ID:          "FN012020",
				Document:    core.TsConfigPath,
				Property:    "compilerOptions.noImplicitAny",
				Value:       true,
				Title:       "tsconfig.json noImplicitAny",
				Description: "Add noImplicitAny in tsconfig.json",
				Severity:    core.SeverityRequired,
			}),
			NewNodeEngineRule(">=16.13.0 <17.0.0"),
		),
		"1.16.1": step("1.16.1"),
		"1.17.0": step("1.17.0",
			NewDependencyRule(Dependency{ID: "FN002023", Package: "@microsoft/rush-stack-compiler-4.5", Dev: true, Remove: true, Severity: core.SeverityRequired}),
			NewDependencyRule(Dependency{ID: "FN002024", Package: "@microsoft/rush-stack-compiler-4.7", Version: "0.1.0", Dev: true, Severity: core.SeverityRequired, Supersedes: []string{"FN002022"}}),
			NewJSONPropertyRule(JSONProperty{
				ID:          "FN012017",
				Document:    core.TsConfigPath,
				Property:    "extends",
				Value:       rsc47Tsconfig,
				Title:       "tsconfig.json extends property",
				Description: "Update tsconfig.json extends property",
				Severity:    core.SeverityRequired,
			}),
			NewGitIgnoreEntryRule("FN023002", ".heft"),
		),
		"1.17.1": step("1.17.1"),
		"1.17.2": step("1.17.2"),
		"1.17.3": step("1.17.3"),
		"1.17.4": step("1.17.4"),
		"1.18.0": step("1.18.0",
			NewDependencyRule(Dependency{ID: "FN002025", Package: "typescript", Version: "4.7.4", Dev: true, Severity: core.SeverityRequired}),
			NewNodeEngineRule(">=16.13.0 <17.0.0 || >=18.17.1 <19.0.0"),
		),
	}
}

// step assembles a version's rule set: the SharePoint Framework packages and
// .yo-rc.json version first, then the version-specific rules, then npm dedupe.
func step(version string, specific ...lint.Rule) []lint.Rule {
	rules := []lint.Rule{
		NewDependencyRule(Dependency{ID: "FN001001", Package: "@microsoft/sp-core-library", Version: version, Severity: core.SeverityRequired}),
		NewDependencyRule(Dependency{ID: "FN001002", Package: "@microsoft/sp-lodash-subset", Version: version, Severity: core.SeverityRequired}),
		NewDependencyRule(Dependency{ID: "FN001003", Package: "@microsoft/sp-office-ui-fabric-core", Version: version, Severity: core.SeverityRequired}),
		NewDependencyRule(Dependency{ID: "FN001004", Package: "@microsoft/sp-webpart-base", Version: version, Optional: true, Severity: core.SeverityRequired}),
		NewDependencyRule(Dependency{ID: "FN001005", Package: "@microsoft/sp-property-pane", Version: version, Optional: true, Severity: core.SeverityRequired}),
		NewDependencyRule(Dependency{ID: "FN001006", Package: "@microsoft/sp-application-base", Version: version, Optional: true, Severity: core.SeverityRequired}),
		NewDependencyRule(Dependency{ID: "FN001007", Package: "@microsoft/sp-listview-extensibility", Version: version, Optional: true, Severity: core.SeverityRequired}),
		NewDependencyRule(Dependency{ID: "FN002001", Package: "@microsoft/sp-build-web", Version: version, Dev: true, Severity: core.SeverityRequired}),
		NewDependencyRule(Dependency{ID: "FN002002", Package: "@microsoft/sp-module-interfaces", Version: version, Dev: true, Severity: core.SeverityRequired}),
	}
	if lint.CompareVersions(version, "1.15.0") >= 0 {
		rules = append(rules,
			NewDependencyRule(Dependency{ID: "FN002021", Package: "@microsoft/eslint-plugin-spfx", Version: version, Dev: true, Severity: core.SeverityRequired}),
			NewDependencyRule(Dependency{ID: "FN002028", Package: "@microsoft/eslint-config-spfx", Version: version, Dev: true, Severity: core.SeverityRequired}),
		)
	}
	rules = append(rules, NewYoRcVersionRule(version))
	rules = append(rules, specific...)
	return append(rules, NewDedupeRule())
}
