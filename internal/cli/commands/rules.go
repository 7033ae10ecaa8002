package commands

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/spfxkit/internal/cli/output"
	"github.com/leapstack-labs/spfxkit/pkg/core"
	"github.com/leapstack-labs/spfxkit/pkg/lint"
	"github.com/leapstack-labs/spfxkit/pkg/lint/externalize"
	"github.com/leapstack-labs/spfxkit/pkg/lint/upgrade"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Rule set kinds.
const (
	KindUpgrade     = "upgrade"
	KindExternalize = "externalize"
)

// RulesOptions holds options for the rules command.
type RulesOptions struct {
	Kind    string // upgrade or externalize
	Version string // Rule set version, default latest
	Verbose bool   // Show descriptions and resolutions
}

// NewRulesCommand creates the rules command.
func NewRulesCommand() *cobra.Command {
	opts := &RulesOptions{}
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the rules of a rule set",
		Long: `List the rules that run for a SharePoint Framework version.

Upgrade rule sets describe the changes introduced by one version.
Externalize rule sets describe the dependencies that can be loaded from a CDN.

Output formats:
  - text (default): Table
  - md: Markdown format
  - json: Machine-readable format`,
		Example: `  # Rules introduced by the latest version
  spfxkit rules

  # Rules introduced by 1.16.0
  spfxkit rules --version 1.16.0

  # Externalize rules as JSON
  spfxkit rules --kind externalize -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return listRules(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Kind, "kind", "k", KindUpgrade, "Rule set kind: upgrade, externalize")
	cmd.Flags().StringVar(&opts.Version, "version", "", "SharePoint Framework version (default: latest supported)")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose-rules", "V", false, "Show descriptions and resolutions")

	_ = cmd.RegisterFlagCompletionFunc("kind", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{KindUpgrade, KindExternalize}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func registryFor(kind string) (*lint.RuleSetRegistry, error) {
	switch strings.ToLower(kind) {
	case KindUpgrade, "":
		return upgrade.Registry(), nil
	case KindExternalize:
		// Metadata only; the dynamic rule never runs here.
		return externalize.NewRegistry(nil), nil
	default:
		return nil, fmt.Errorf("unknown rule set kind %q (expected %s or %s)", kind, KindUpgrade, KindExternalize)
	}
}

// RulesJSONOutput is the JSON output structure for rules listing.
type RulesJSONOutput struct {
	Kind    string          `json:"kind"`
	Version string          `json:"version"`
	Rules   []core.RuleInfo `json:"rules"`
	Count   int             `json:"count"`
}

func listRules(cmd *cobra.Command, opts *RulesOptions) error {
	cmdCtx := NewCommandContext(cmd)

	registry, err := registryFor(opts.Kind)
	if err != nil {
		return err
	}
	return renderRules(cmdCtx.Renderer, registry, opts.Version, opts.Verbose)
}

// renderRules writes the rule set of version (default latest) in the renderer's mode.
func renderRules(r *output.Renderer, registry *lint.RuleSetRegistry, version string, verbose bool) error {
	if version == "" {
		version = registry.Latest()
	}
	rules, err := registry.Lookup(version)
	if err != nil {
		return err
	}

	infos := make([]core.RuleInfo, len(rules))
	for i, rule := range rules {
		infos[i] = lint.GetRuleInfo(rule)
	}
	version = strings.TrimPrefix(version, "v")
	title := fmt.Sprintf("%s rules for SharePoint Framework v%s", cases.Title(language.English).String(registry.Kind()), version)

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(RulesJSONOutput{Kind: registry.Kind(), Version: version, Rules: infos, Count: len(infos)})
	case output.ModeMarkdown:
		r.Println(output.FormatHeader(1, title))
		r.Println("")
		r.Println(rulesTable(infos, verbose).RenderMarkdown())
		r.Println("")
	default:
		r.Println(r.Styles().Header1.Render(title))
		r.Println("")
		t := rulesTable(infos, verbose)
		t.SetOutputMirror(r.Writer())
		t.SetStyle(table.StyleLight)
		t.Render()
		r.Println("")
		r.Println(r.Styles().Muted.Render(fmt.Sprintf("%d rules. Supported versions: %s", len(infos), strings.Join(registry.Versions(), ", "))))
	}
	return nil
}

func rulesTable(infos []core.RuleInfo, verbose bool) table.Writer {
	t := table.NewWriter()
	header := table.Row{"ID", "Severity", "Title", "File"}
	if verbose {
		header = append(header, "Description", "Resolution")
	}
	t.AppendHeader(header)

	for _, info := range infos {
		row := table.Row{info.ID, info.Severity.String(), info.Title, info.File}
		if verbose {
			row = append(row, info.Description, info.Resolution)
		}
		t.AppendRow(row)
	}
	return t
}
