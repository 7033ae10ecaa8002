package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/leapstack-labs/spfxkit/pkg/report"
)

// OutputNames lists the accepted output values: every report format plus auto.
func OutputNames() []string {
	names := make([]string, 0, len(report.Formats)+1)
	for _, f := range report.Formats {
		names = append(names, string(f))
	}
	return append(names, "auto")
}

// Validate checks that enumerated options hold known values.
func (c *Config) Validate() error {
	if !strings.EqualFold(strings.TrimSpace(c.Output), "auto") {
		if _, err := report.ParseFormat(c.Output); err != nil || strings.TrimSpace(c.Output) == "" {
			return fmt.Errorf("invalid output %q (expected one of %s)", c.Output, strings.Join(OutputNames(), ", "))
		}
	}

	if _, err := report.ParsePackageManager(c.PackageManager); err != nil {
		return err
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Externalize.CacheSize < 0 {
		return fmt.Errorf("externalize.cache_size must not be negative, got %d", c.Externalize.CacheSize)
	}
	return nil
}

// ParseLogLevel converts a log_level value to a slog level.
func ParseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("invalid log_level %q (expected debug, info, warn or error)", s)
	}
	return level, nil
}
