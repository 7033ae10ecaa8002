package loader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/leapstack-labs/spfxkit/pkg/lint/externalize"
)

// sniffLimit is how much of a bundle is read when detecting its module type.
const sniffLimit = 64 * 1024

var (
	umdGlobal       = regexp.MustCompile(`(?:root|global|globalThis|self)\.([A-Za-z_$][\w$]*)\s*=\s*factory`)
	umdGlobalIndex  = regexp.MustCompile(`(?:root|global|globalThis|self)\[["']([^"']+)["']\]\s*=\s*factory`)
	umdGlobalMin    = regexp.MustCompile(`(?:\|\|self|globalThis)\)\.([A-Za-z_$][\w$]*)\s*=\s*\w+\(`)
	amdDefine       = regexp.MustCompile(`(?m)^\s*define\s*\(`)
	esmStatement    = regexp.MustCompile(`(?m)^\s*(?:export\s+(?:default|const|function|class|\{|\*)|import\s+[\w{*'"])`)
	cjsExportMarker = regexp.MustCompile(`module\.exports|exports\.\w+\s*=|require\(`)
)

// NodeModulesResolver resolves package metadata from an installed node_modules tree.
type NodeModulesResolver struct {
	Root string // Project root containing node_modules
}

// NewNodeModulesResolver creates a resolver reading from root/node_modules.
func NewNodeModulesResolver(root string) *NodeModulesResolver {
	return &NodeModulesResolver{Root: root}
}

type installedPackage struct {
	Name     string          `json:"name"`
	Version  string          `json:"version"`
	Main     string          `json:"main"`
	Module   string          `json:"module"`
	Browser  json.RawMessage `json:"browser"`
	Unpkg    string          `json:"unpkg"`
	JSDelivr string          `json:"jsdelivr"`
}

// entry picks the file a CDN would serve for the package.
func (p installedPackage) entry() string {
	for _, f := range []string{p.Unpkg, p.JSDelivr, p.browserFile(), p.Main} {
		if f != "" {
			return cleanEntry(f)
		}
	}
	if p.Module != "" {
		return cleanEntry(p.Module)
	}
	return "index.js"
}

// browserFile returns the browser field when it is a plain path.
func (p installedPackage) browserFile() string {
	var s string
	if len(p.Browser) == 0 || json.Unmarshal(p.Browser, &s) != nil {
		return ""
	}
	return s
}

func cleanEntry(f string) string {
	f = path.Clean(strings.TrimPrefix(f, "./"))
	switch path.Ext(f) {
	case ".js", ".mjs", ".cjs":
	default:
		f += ".js"
	}
	return f
}

// Resolve reads node_modules/<name>/package.json and sniffs the entry bundle.
// Packages that are not installed resolve to nil without error.
func (r *NodeModulesResolver) Resolve(ctx context.Context, name, version string) (*externalize.PackageInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pkgDir := filepath.Join(r.Root, "node_modules", filepath.FromSlash(name))
	data, err := os.ReadFile(filepath.Join(pkgDir, "package.json"))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s package.json: %w", name, err)
	}

	var pkg installedPackage
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, fmt.Errorf("parse %s package.json: %w", name, err)
	}

	info := &externalize.PackageInfo{
		Name:       name,
		Version:    pkg.Version,
		File:       pkg.entry(),
		ModuleType: externalize.ModuleUnknown,
	}

	head, err := readHead(filepath.Join(pkgDir, filepath.FromSlash(info.File)))
	if errors.Is(err, fs.ErrNotExist) {
		return info, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s bundle: %w", name, err)
	}

	info.ModuleType = SniffModuleType(head)
	if info.ModuleType == externalize.ModuleUMD {
		info.GlobalName = sniffGlobalName(head)
	}
	return info, nil
}

func readHead(file string) (string, error) {
	f, err := os.Open(file)
	if err != nil {
		return "", err
	}
	defer f.Close()

	buf, err := io.ReadAll(io.LimitReader(f, sniffLimit))
	if err != nil {
		return "", err
	}
	return string(buf), nil
}

// SniffModuleType guesses the module format of a JavaScript bundle.
func SniffModuleType(source string) externalize.ModuleType {
	hasAMD := strings.Contains(source, "define.amd")
	hasExports := strings.Contains(source, "typeof exports") || strings.Contains(source, "typeof module")

	switch {
	case hasAMD && hasExports:
		return externalize.ModuleUMD
	case amdDefine.MatchString(source):
		return externalize.ModuleAMD
	case esmStatement.MatchString(source):
		return externalize.ModuleESM
	case cjsExportMarker.MatchString(source):
		return externalize.ModuleCJS
	default:
		return externalize.ModuleUnknown
	}
}

func sniffGlobalName(source string) string {
	if m := umdGlobal.FindStringSubmatch(source); m != nil {
		return m[1]
	}
	if m := umdGlobalIndex.FindStringSubmatch(source); m != nil {
		return m[1]
	}
	if m := umdGlobalMin.FindStringSubmatch(source); m != nil {
		return m[1]
	}
	return ""
}
