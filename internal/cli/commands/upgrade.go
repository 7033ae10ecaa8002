package commands

import (
	"context"

	"github.com/leapstack-labs/spfxkit/pkg/lint"
	"github.com/leapstack-labs/spfxkit/pkg/lint/upgrade"
	"github.com/leapstack-labs/spfxkit/pkg/report"
	"github.com/spf13/cobra"
)

// NewUpgradeCommand creates the upgrade command.
func NewUpgradeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upgrade",
		Short: "Plan the upgrade of an SPFx project",
		Long: `Analyze a SharePoint Framework project and list the changes needed to
upgrade it to a newer version.

Every intermediate version's rule set runs in order; the findings are
merged so each change is reported once, with its latest resolution.

Output formats:
  - text (default): Table of findings
  - md: Markdown report with a summary script
  - json: Machine-readable findings
  - auto: text on a terminal, Markdown otherwise`,
		Example: `  # Upgrade to the latest supported version
  spfxkit upgrade

  # Upgrade to a specific version
  spfxkit upgrade --to 1.17.0

  # Write a Markdown report with pnpm commands
  spfxkit upgrade -o md --package-manager pnpm --output-file upgrade.md

  # Re-run on every change
  spfxkit upgrade --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runUpgrade(cmd)
		},
	}

	cmd.Flags().String("to", "", "Target SharePoint Framework version (default: latest supported)")
	cmd.Flags().String("package-manager", "", "Package manager for the summary script: npm, pnpm, yarn")
	cmd.Flags().Bool("watch", false, "Re-run when project files change")

	_ = cmd.RegisterFlagCompletionFunc("to", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return upgrade.Registry().Versions(), cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("package-manager", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"npm", "pnpm", "yarn"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runUpgrade(cmd *cobra.Command) error {
	cmdCtx := NewCommandContext(cmd)
	cfg := cmdCtx.Cfg

	pm, err := report.ParsePackageManager(cfg.PackageManager)
	if err != nil {
		return err
	}

	root, err := cmdCtx.FindRoot()
	if err != nil {
		return err
	}

	analyzer := lint.NewAnalyzer(cfg.RuleConfig(), cmdCtx.Logger)
	planner := upgrade.NewPlanner(nil, analyzer, cmdCtx.Logger)

	run := func(ctx context.Context) error {
		project, err := cmdCtx.LoadProject(root)
		if err != nil {
			return err
		}

		plan, err := planner.Plan(ctx, project, cfg.ToVersion)
		if err != nil {
			return err
		}

		rep := report.UpgradeReport{
			Project:        project.Name(),
			From:           plan.From,
			To:             plan.To,
			PackageManager: pm,
			Findings:       plan.Findings,
		}
		cmdCtx.Logger.Info("upgrade planned", "from", plan.From, "to", plan.To, "steps", len(plan.Steps), "summary", rep.Summary())

		data, err := report.Upgrade(cmdCtx.ReportFormat(), rep)
		if err != nil {
			return err
		}
		return cmdCtx.Emit(data)
	}

	if cfg.Watch {
		return watchProject(cmd.Context(), cmdCtx, root, run)
	}
	return run(cmd.Context())
}
