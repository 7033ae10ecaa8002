package upgrade

import (
	"strings"

	"github.com/leapstack-labs/spfxkit/pkg/lint"
)

// positionOf returns the zero-based location of the first needle in source.
func positionOf(source, needle string) *lint.Position {
	if needle == "" {
		return nil
	}
	idx := strings.Index(source, needle)
	if idx < 0 {
		return nil
	}
	line := strings.Count(source[:idx], "\n")
	char := idx - (strings.LastIndex(source[:idx], "\n") + 1)
	return &lint.Position{Line: line, Character: char}
}
