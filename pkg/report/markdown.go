package report

import (
	"fmt"
	"path"
	"strings"

	"github.com/leapstack-labs/spfxkit/pkg/core"
)

// mdWriter accumulates a Markdown document.
type mdWriter struct {
	strings.Builder
}

func (w *mdWriter) header(level int, text string) {
	fmt.Fprintf(w, "%s %s\n\n", strings.Repeat("#", level), text)
}

func (w *mdWriter) para(text string) {
	w.WriteString(text)
	w.WriteString("\n\n")
}

func (w *mdWriter) codeBlock(lang string, lines ...string) {
	w.WriteString("```" + lang + "\n")
	for _, l := range lines {
		w.WriteString(l)
		w.WriteString("\n")
	}
	w.WriteString("```\n\n")
}

func (w *mdWriter) bytes() []byte {
	return []byte(strings.TrimRight(w.String(), "\n") + "\n")
}

// fileLink renders a relative file path as a Markdown link.
func fileLink(file string) string {
	return fmt.Sprintf("[%s](%s)", file, file)
}

// fenceLanguage picks a code fence language from a resolution type.
func fenceLanguage(rt core.ResolutionType) string {
	switch rt {
	case core.ResolutionCmd:
		return "sh"
	case core.ResolutionText:
		return "text"
	default:
		return string(rt)
	}
}

// fenceLanguageForPath picks a code fence language from a file extension.
func fenceLanguageForPath(p string) string {
	switch path.Ext(p) {
	case ".ts", ".tsx":
		return "ts"
	case ".js", ".jsx":
		return "js"
	case ".json":
		return "json"
	case ".scss":
		return "scss"
	default:
		return ""
	}
}
