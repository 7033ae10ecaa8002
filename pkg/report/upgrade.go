package report

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/leapstack-labs/spfxkit/pkg/core"
	"github.com/leapstack-labs/spfxkit/pkg/lint"
)

// UpgradeReport is everything an upgrade rendering needs.
type UpgradeReport struct {
	Project        string
	From           string
	To             string
	PackageManager PackageManager
	Findings       []lint.Finding
}

// Upgrade renders an upgrade report.
func Upgrade(format Format, r UpgradeReport) ([]byte, error) {
	switch format {
	case FormatJSON:
		return upgradeJSON(r)
	case FormatMarkdown:
		return upgradeMarkdown(r), nil
	case FormatText, "":
		return upgradeText(r), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

// ParseUpgradeJSON reads back the JSON rendering of an upgrade report.
func ParseUpgradeJSON(data []byte) ([]lint.Finding, error) {
	var findings []lint.Finding
	if err := json.Unmarshal(data, &findings); err != nil {
		return nil, fmt.Errorf("parse upgrade report: %w", err)
	}
	return findings, nil
}

func upgradeJSON(r UpgradeReport) ([]byte, error) {
	findings := r.Findings
	if findings == nil {
		findings = []lint.Finding{}
	}
	data, err := marshalIndent(findings)
	if err != nil {
		return nil, fmt.Errorf("encode upgrade report: %w", err)
	}
	return append(data, '\n'), nil
}

// upgradeText flattens findings to one row per occurrence.
func upgradeText(r UpgradeReport) []byte {
	if len(r.Findings) == 0 {
		return []byte(fmt.Sprintf("%s is up-to-date with SharePoint Framework v%s\n", nameOr(r.Project), r.To))
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Severity", "Title", "File", "Resolution"})
	for _, f := range r.Findings {
		for _, occ := range f.Occurrences {
			resolution := occ.Resolution
			if f.ResolutionType == core.ResolutionCmd {
				resolution = translate(resolution, r.PackageManager)
			}
			t.AppendRow(table.Row{f.ID, f.Severity.String(), f.Title, occurrenceLocation(occ), resolution})
		}
	}
	return []byte(t.Render() + "\n")
}

func upgradeMarkdown(r UpgradeReport) []byte {
	var w mdWriter
	w.header(1, fmt.Sprintf("Upgrade project %s to v%s", nameOr(r.Project), r.To))

	if len(r.Findings) == 0 {
		w.para(fmt.Sprintf("The project is up-to-date with SharePoint Framework v%s.", r.To))
		return w.bytes()
	}

	w.header(2, "Findings")
	w.para(fmt.Sprintf("Following is the list of steps required to upgrade your project from SharePoint Framework version %s to %s. [Summary](#summary) of the modifications is included at the end of the report.", r.From, r.To))

	t := table.NewWriter()
	t.AppendHeader(table.Row{"ID", "Title", "Description", "Severity"})
	for _, f := range r.Findings {
		t.AppendRow(table.Row{f.ID, f.Title, f.Description, f.Severity.String()})
	}
	w.WriteString(t.RenderMarkdown())
	w.WriteString("\n\n")

	for _, f := range r.Findings {
		w.header(3, fmt.Sprintf("%s %s | %s", f.ID, f.Title, f.Severity))
		w.para(f.Description)
		for _, occ := range f.Occurrences {
			resolution := occ.Resolution
			if f.ResolutionType == core.ResolutionCmd {
				resolution = translate(resolution, r.PackageManager)
				if resolution == "" {
					continue
				}
				w.para("Execute the following command:")
			} else {
				w.para(fmt.Sprintf("In file %s update the code as follows:", fileLink(occ.File)))
			}
			w.codeBlock(fenceLanguage(f.ResolutionType), resolution)
			w.para("File: " + fileLink(occurrenceLocation(occ)))
		}
	}

	w.header(2, "Summary")
	if cmds := Commands(r.Findings, r.PackageManager); len(cmds) > 0 {
		w.header(3, "Execute script")
		w.codeBlock("sh", cmds...)
	}

	modified := modifiedFiles(r.Findings)
	if len(modified) > 0 {
		w.header(3, "Modify files")
		for _, mf := range modified {
			w.header(4, fileLink(mf.path))
			for _, b := range mf.blocks {
				w.codeBlock(b.lang, b.body)
			}
		}
	}
	return w.bytes()
}

func occurrenceLocation(occ lint.Occurrence) string {
	if occ.Position == nil {
		return occ.File
	}
	return fmt.Sprintf("%s:%d:%d", occ.File, occ.Position.Line+1, occ.Position.Character+1)
}

func nameOr(project string) string {
	if project == "" {
		return "project"
	}
	return project
}

type codeBlock struct {
	lang string
	body string
}

type modifiedFile struct {
	path   string
	blocks []codeBlock
}

// modifiedFiles groups non-command resolutions per file in first-seen order.
// JSON resolutions for the same file are merged into one document.
func modifiedFiles(findings []lint.Finding) []modifiedFile {
	var order []string
	files := make(map[string]*modifiedFile)
	merged := make(map[string]map[string]any)
	seen := make(map[string]bool)

	for _, f := range findings {
		if f.ResolutionType == core.ResolutionCmd {
			continue
		}
		for _, occ := range f.Occurrences {
			mf, ok := files[occ.File]
			if !ok {
				mf = &modifiedFile{path: occ.File}
				files[occ.File] = mf
				order = append(order, occ.File)
			}

			if f.ResolutionType == core.ResolutionJSON {
				var obj map[string]any
				if err := json.Unmarshal([]byte(occ.Resolution), &obj); err == nil {
					if merged[occ.File] == nil {
						merged[occ.File] = make(map[string]any)
					}
					mergeJSON(merged[occ.File], obj)
					continue
				}
			}

			key := occ.File + "\x00" + occ.Resolution
			if seen[key] {
				continue
			}
			seen[key] = true
			mf.blocks = append(mf.blocks, codeBlock{lang: fenceLanguage(f.ResolutionType), body: occ.Resolution})
		}
	}

	out := make([]modifiedFile, 0, len(order))
	for _, p := range order {
		mf := files[p]
		if obj, ok := merged[p]; ok {
			data, err := marshalIndent(obj)
			if err == nil {
				mf.blocks = append([]codeBlock{{lang: "json", body: string(data)}}, mf.blocks...)
			}
		}
		if len(mf.blocks) > 0 {
			out = append(out, *mf)
		}
	}
	return out
}

// mergeJSON deep-merges src into dst. Later values win for non-object leaves.
func mergeJSON(dst, src map[string]any) {
	for _, k := range slices.Sorted(maps.Keys(src)) {
		sv := src[k]
		if sm, ok := sv.(map[string]any); ok {
			if dm, ok := dst[k].(map[string]any); ok {
				mergeJSON(dm, sm)
				continue
			}
		}
		dst[k] = sv
	}
}

// Summary returns a one-line description of the report's findings.
func (r UpgradeReport) Summary() string {
	var required, recommended, optional int
	for _, f := range r.Findings {
		switch f.Severity {
		case core.SeverityRequired:
			required++
		case core.SeverityRecommended:
			recommended++
		default:
			optional++
		}
	}
	parts := []string{fmt.Sprintf("%d findings", len(r.Findings))}
	if required > 0 {
		parts = append(parts, fmt.Sprintf("%d required", required))
	}
	if recommended > 0 {
		parts = append(parts, fmt.Sprintf("%d recommended", recommended))
	}
	if optional > 0 {
		parts = append(parts, fmt.Sprintf("%d optional", optional))
	}
	return strings.Join(parts, ", ")
}
