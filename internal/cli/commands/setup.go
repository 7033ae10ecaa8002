package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/spfxkit/internal/cli/config"
	"github.com/leapstack-labs/spfxkit/internal/cli/output"
	"github.com/leapstack-labs/spfxkit/internal/loader"
	"github.com/leapstack-labs/spfxkit/pkg/core"
	"github.com/leapstack-labs/spfxkit/pkg/report"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
	Loader   *loader.Loader
}

// NewCommandContext creates a CommandContext from the loaded configuration.
// Output written to --output-file never counts as a terminal.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	mode := output.Mode(cfg.Output)

	var r *output.Renderer
	if cfg.OutputFile != "" {
		r = output.NewRendererWithTTY(cmd.OutOrStdout(), cmd.ErrOrStderr(), false, mode)
	} else {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)
	}

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
		Loader:   loader.New(logger),
	}
}

// getConfig returns the current configuration, or defaults when none was loaded.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	cwd, _ := os.Getwd()
	return &config.Config{
		ProjectDir:     cwd,
		Output:         config.DefaultOutput,
		PackageManager: config.DefaultPackageManager,
		LogLevel:       config.DefaultLogLevel,
		Externalize:    config.ExternalizeConfig{CacheSize: config.DefaultCacheSize},
	}
}

// ReportFormat maps the renderer's effective mode to a report format.
func (c *CommandContext) ReportFormat() report.Format {
	switch c.Renderer.EffectiveMode() {
	case output.ModeJSON:
		return report.FormatJSON
	case output.ModeMarkdown:
		return report.FormatMarkdown
	default:
		return report.FormatText
	}
}

// FindRoot locates the project root from the configured project directory.
func (c *CommandContext) FindRoot() (string, error) {
	return c.Loader.FindRoot(c.Cfg.ProjectDir)
}

// LoadProject reads the project at root.
func (c *CommandContext) LoadProject(root string) (*core.Project, error) {
	return c.Loader.Load(root)
}

// Emit writes a rendered report in one piece: to --output-file when set,
// otherwise to standard output.
func (c *CommandContext) Emit(data []byte) error {
	if c.Cfg.OutputFile == "" {
		_, err := c.Renderer.Writer().Write(data)
		return err
	}

	path := c.outputPath()
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	c.Renderer.Success("Report written to " + path)
	return nil
}

func (c *CommandContext) outputPath() string {
	if c.Cfg.OutputFile == "" {
		return ""
	}
	abs, err := filepath.Abs(c.Cfg.OutputFile)
	if err != nil {
		return c.Cfg.OutputFile
	}
	return abs
}
