package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/spfxkit/internal/loader"
	"github.com/leapstack-labs/spfxkit/pkg/lint"
	"github.com/leapstack-labs/spfxkit/pkg/lint/externalize"
	"github.com/leapstack-labs/spfxkit/pkg/report"
	"github.com/spf13/cobra"
)

// NewExternalizeCommand creates the externalize command.
func NewExternalizeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "externalize",
		Short: "Suggest dependencies to load from a CDN",
		Long: `Analyze a SharePoint Framework project and suggest runtime dependencies
that can be loaded as externals instead of being bundled.

Known libraries are matched against a built-in table. Other dependencies
are probed in node_modules for a UMD or AMD bundle.`,
		Example: `  # Show externals for the current project
  spfxkit externalize

  # Emit config.json externals as JSON
  spfxkit externalize -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExternalize(cmd)
		},
	}

	cmd.Flags().Int("cache-size", 0, "Package metadata cache size")
	cmd.Flags().Bool("watch", false, "Re-run when project files change")

	return cmd
}

func runExternalize(cmd *cobra.Command) error {
	cmdCtx := NewCommandContext(cmd)

	root, err := cmdCtx.FindRoot()
	if err != nil {
		return err
	}

	// One cache for the whole invocation, so watch re-runs skip unchanged packages.
	resolver, err := externalize.NewCachedResolver(loader.NewNodeModulesResolver(root), cmdCtx.Cfg.Externalize.CacheSize)
	if err != nil {
		return err
	}
	guard := &installGuard{root: root, cache: resolver}

	analyzer := lint.NewAnalyzer(cmdCtx.Cfg.RuleConfig(), cmdCtx.Logger)
	externalizer := externalize.NewExternalizer(externalize.NewRegistry(resolver), analyzer, cmdCtx.Logger)

	run := func(ctx context.Context) error {
		if guard.refresh() {
			cmdCtx.Logger.Debug("installed packages changed, resolver cache cleared")
		}

		project, err := cmdCtx.LoadProject(root)
		if err != nil {
			return err
		}

		result, err := externalizer.Plan(ctx, project)
		if err != nil {
			return err
		}
		cmdCtx.Logger.Debug("externalize finished", "entries", result.Externals.Len(), "cached", resolver.Len())

		data, err := report.Externalize(cmdCtx.ReportFormat(), report.ExternalizeReport{
			Project: project.Name(),
			Result:  result,
		})
		if err != nil {
			return err
		}
		return cmdCtx.Emit(data)
	}

	if cmdCtx.Cfg.Watch {
		return watchProject(cmd.Context(), cmdCtx, root, run)
	}
	return run(cmd.Context())
}

// installMarkers are files rewritten whenever packages are installed.
var installMarkers = []string{
	"package.json",
	"package-lock.json",
	"npm-shrinkwrap.json",
	"pnpm-lock.yaml",
	"yarn.lock",
	"node_modules/.package-lock.json",
	"node_modules/.modules.yaml",
	"node_modules/.yarn-integrity",
}

// installGuard clears the resolver cache when the installed packages change.
// Cache keys carry the package.json range, which a reinstall may leave as is.
type installGuard struct {
	root  string
	state string
	cache *externalize.CachedResolver
}

// refresh purges the cache if the install markers changed since the last call
// and reports whether it did.
func (g *installGuard) refresh() bool {
	state := installState(g.root)
	if state == g.state {
		return false
	}
	g.state = state
	if g.cache.Len() == 0 {
		return false
	}
	g.cache.Purge()
	return true
}

func installState(root string) string {
	var b strings.Builder
	for _, m := range installMarkers {
		fi, err := os.Stat(filepath.Join(root, m))
		if err != nil {
			continue
		}
		fmt.Fprintf(&b, "%s:%d:%d;", m, fi.Size(), fi.ModTime().UnixNano())
	}
	return b.String()
}
