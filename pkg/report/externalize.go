package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/leapstack-labs/spfxkit/pkg/core"
	"github.com/leapstack-labs/spfxkit/pkg/lint"
)

// ExternalizeReport is everything an externalize rendering needs.
type ExternalizeReport struct {
	Project string
	Result  *lint.ExternalizeResult
}

// Externalize renders an externalize report.
func Externalize(format Format, r ExternalizeReport) ([]byte, error) {
	res := normalize(r.Result)
	switch format {
	case FormatJSON:
		return externalizeJSON(res)
	case FormatMarkdown:
		return externalizeMarkdown(r.Project, res)
	case FormatText, "":
		return externalizeText(res), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

// ParseExternalizeJSON reads back the JSON rendering of an externalize report.
func ParseExternalizeJSON(data []byte) (*lint.ExternalizeResult, error) {
	var res lint.ExternalizeResult
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("parse externalize report: %w", err)
	}
	return normalize(&res), nil
}

func normalize(res *lint.ExternalizeResult) *lint.ExternalizeResult {
	out := &lint.ExternalizeResult{}
	if res != nil {
		*out = *res
	}
	if out.Externals == nil {
		out.Externals = lint.NewExternals()
	}
	if out.Edits == nil {
		out.Edits = []lint.FileEdit{}
	}
	return out
}

func externalizeJSON(res *lint.ExternalizeResult) ([]byte, error) {
	data, err := marshalIndent(res)
	if err != nil {
		return nil, fmt.Errorf("encode externalize report: %w", err)
	}
	return append(data, '\n'), nil
}

// marshalIndent keeps URLs readable by not escaping HTML characters.
func marshalIndent(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func externalizeText(res *lint.ExternalizeResult) []byte {
	if res.Externals.Len() == 0 && len(res.Edits) == 0 {
		return []byte("No dependencies to externalize\n")
	}

	var b strings.Builder
	if res.Externals.Len() > 0 {
		t := table.NewWriter()
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"Key", "Path", "Global Name", "Global Dependencies"})
		for _, e := range res.Externals.Entries() {
			t.AppendRow(table.Row{e.Key, e.Path, e.GlobalName, strings.Join(e.GlobalDependencies, ", ")})
		}
		b.WriteString(t.Render())
		b.WriteString("\n")
	}
	if len(res.Edits) > 0 {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		t := table.NewWriter()
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"File", "Action", "Value"})
		for _, e := range res.Edits {
			t.AppendRow(table.Row{e.Path, string(e.Action), e.TargetValue})
		}
		b.WriteString(t.Render())
		b.WriteString("\n")
	}
	return []byte(b.String())
}

func externalizeMarkdown(project string, res *lint.ExternalizeResult) ([]byte, error) {
	var w mdWriter
	w.header(1, fmt.Sprintf("Externalizing dependencies of project %s", nameOr(project)))

	if res.Externals.Len() == 0 && len(res.Edits) == 0 {
		w.para("No dependencies to externalize.")
		return w.bytes(), nil
	}

	w.header(2, "Findings")
	w.header(3, "Modify files")

	if res.Externals.Len() > 0 {
		payload, err := marshalIndent(struct {
			Externals *lint.Externals `json:"externals"`
		}{res.Externals})
		if err != nil {
			return nil, fmt.Errorf("encode externals: %w", err)
		}
		w.header(4, fileLink("./"+core.ConfigJSONPath))
		w.para("In the config/config.json file update the externals property to:")
		w.codeBlock("json", string(payload))
	}

	// One section per path, one block per (path, action) group.
	var paths []string
	groups := make(map[string]map[lint.EditAction][]string)
	for _, e := range res.Edits {
		if _, ok := groups[e.Path]; !ok {
			groups[e.Path] = make(map[lint.EditAction][]string)
			paths = append(paths, e.Path)
		}
		groups[e.Path][e.Action] = append(groups[e.Path][e.Action], e.TargetValue)
	}

	for _, p := range paths {
		w.header(4, fileLink(p))
		for _, action := range []lint.EditAction{lint.ActionAdd, lint.ActionRemove} {
			lines := groups[p][action]
			if len(lines) == 0 {
				continue
			}
			w.para(actionLabel(action))
			w.codeBlock(fenceLanguageForPath(p), lines...)
		}
	}
	return w.bytes(), nil
}

func actionLabel(a lint.EditAction) string {
	if a == lint.ActionRemove {
		return "Remove:"
	}
	return "Add:"
}
