// Package config provides configuration management for the spfxkit CLI.
//
// Values are layered from defaults, an spfxkit.yaml file, SPFXKIT_ environment
// variables and explicitly set flags, in increasing priority.
package config

import (
	"github.com/leapstack-labs/spfxkit/pkg/core"
	"github.com/leapstack-labs/spfxkit/pkg/lint"
)

// Config holds all CLI configuration options.
type Config struct {
	ProjectDir     string            `koanf:"project_dir"`
	Output         string            `koanf:"output"`
	OutputFile     string            `koanf:"output_file"`
	PackageManager string            `koanf:"package_manager"`
	ToVersion      string            `koanf:"to_version"`
	Verbose        bool              `koanf:"verbose"`
	LogLevel       string            `koanf:"log_level"`
	Watch          bool              `koanf:"watch"`
	Lint           LintConfig        `koanf:"lint"`
	Externalize    ExternalizeConfig `koanf:"externalize"`
}

// LintConfig disables rules and overrides their severity.
type LintConfig struct {
	Disabled []string                 `koanf:"disabled"`
	Severity map[string]core.Severity `koanf:"severity"`
}

// ExternalizeConfig tunes the externalize command.
type ExternalizeConfig struct {
	CacheSize int `koanf:"cache_size"`
}

// Default configuration values.
const (
	DefaultOutput         = "text" // "auto" picks text on a TTY, markdown otherwise
	DefaultPackageManager = "npm"
	DefaultLogLevel       = "warn"
	DefaultCacheSize      = 256
)

// RuleConfig converts the lint section to the analyzer's rule configuration.
func (c *Config) RuleConfig() *lint.Config {
	rc := lint.NewConfig().Disable(c.Lint.Disabled...)
	for id, sev := range c.Lint.Severity {
		rc.SetSeverity(id, sev)
	}
	return rc
}
