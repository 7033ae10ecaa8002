package report

import (
	"fmt"
	"strings"
)

// Format selects a report rendering.
type Format string

// Report formats.
const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "md"
)

// Formats lists the accepted format names.
var Formats = []Format{FormatText, FormatJSON, FormatMarkdown}

// ParseFormat converts a flag value to a Format. Empty means text.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unknown output format %q (expected text, json or md)", s)
	}
}

// PackageManager is the npm client commands are written for.
type PackageManager string

// Supported package managers.
const (
	NPM  PackageManager = "npm"
	PNPM PackageManager = "pnpm"
	Yarn PackageManager = "yarn"
)

// ParsePackageManager converts a flag value to a PackageManager. Empty means npm.
func ParsePackageManager(s string) (PackageManager, error) {
	switch pm := PackageManager(strings.ToLower(strings.TrimSpace(s))); pm {
	case "":
		return NPM, nil
	case NPM, PNPM, Yarn:
		return pm, nil
	default:
		return "", fmt.Errorf("unknown package manager %q (expected npm, pnpm or yarn)", s)
	}
}
