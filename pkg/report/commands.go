package report

import (
	"regexp"
	"strings"

	"github.com/leapstack-labs/spfxkit/pkg/core"
	"github.com/leapstack-labs/spfxkit/pkg/lint"
)

// npmCommand matches the install and uninstall resolutions rules emit.
var npmCommand = regexp.MustCompile(`^npm (i|un) -(S|D)E? (.+)$`)

type packageCommand struct {
	install  bool
	dev      bool
	packages []string
}

func parsePackageCommand(cmd string) (packageCommand, bool) {
	m := npmCommand.FindStringSubmatch(strings.TrimSpace(cmd))
	if m == nil {
		return packageCommand{}, false
	}
	return packageCommand{
		install:  m[1] == "i",
		dev:      m[2] == "D",
		packages: strings.Fields(m[3]),
	}, true
}

func (c packageCommand) render(pm PackageManager) string {
	pkgs := strings.Join(c.packages, " ")
	switch pm {
	case PNPM:
		switch {
		case c.install && c.dev:
			return "pnpm i -DE " + pkgs
		case c.install:
			return "pnpm i -E " + pkgs
		default:
			return "pnpm un " + pkgs
		}
	case Yarn:
		switch {
		case c.install && c.dev:
			return "yarn add -DE " + pkgs
		case c.install:
			return "yarn add -E " + pkgs
		default:
			return "yarn remove " + pkgs
		}
	default:
		switch {
		case c.install && c.dev:
			return "npm i -DE " + pkgs
		case c.install:
			return "npm i -SE " + pkgs
		case c.dev:
			return "npm un -D " + pkgs
		default:
			return "npm un -S " + pkgs
		}
	}
}

// translate rewrites a single npm resolution for pm. Unknown commands pass through.
// It returns "" for commands pm has no equivalent for.
func translate(cmd string, pm PackageManager) string {
	if pc, ok := parsePackageCommand(cmd); ok {
		return pc.render(pm)
	}
	if strings.TrimSpace(cmd) == "npm dedupe" {
		switch pm {
		case PNPM:
			return "pnpm dedupe"
		case Yarn:
			return ""
		}
	}
	return cmd
}

// Commands consolidates the cmd resolutions of findings into as few commands as
// possible for pm: uninstalls first, then installs, each split by dependency kind,
// then any other command in finding order, then npm dedupe.
func Commands(findings []lint.Finding, pm PackageManager) []string {
	// uninstall runtime, uninstall dev, install runtime, install dev
	groups := [4]packageCommand{
		{install: false, dev: false},
		{install: false, dev: true},
		{install: true, dev: false},
		{install: true, dev: true},
	}
	var other []string
	seen := make(map[string]bool)
	dedupe := false

	for _, f := range findings {
		if f.ResolutionType != core.ResolutionCmd {
			continue
		}
		for _, occ := range f.Occurrences {
			cmd := strings.TrimSpace(occ.Resolution)
			if pc, ok := parsePackageCommand(cmd); ok {
				i := 0
				if pc.install {
					i += 2
				}
				if pc.dev {
					i++
				}
				groups[i].packages = append(groups[i].packages, pc.packages...)
				continue
			}
			if cmd == "npm dedupe" {
				dedupe = true
				continue
			}
			if seen[cmd] {
				continue
			}
			seen[cmd] = true
			if t := translate(cmd, pm); t != "" {
				other = append(other, t)
			}
		}
	}

	var out []string
	for _, g := range groups {
		if len(g.packages) > 0 {
			out = append(out, g.render(pm))
		}
	}
	out = append(out, other...)
	if dedupe {
		if t := translate("npm dedupe", pm); t != "" {
			out = append(out, t)
		}
	}
	return out
}
