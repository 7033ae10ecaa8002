package lint

import "slices"

// ReduceFindings merges findings from consecutive upgrade steps.
//
// Findings with the same rule ID collapse to the one from the latest step, which
// takes that step's position. Findings whose ID appears in another kept finding's
// Supersedes list are then dropped.
func ReduceFindings(steps ...[]Finding) []Finding {
	var all []Finding
	for _, step := range steps {
		all = append(all, step...)
	}

	seen := make(map[string]bool, len(all))
	var latest []Finding
	for i := len(all) - 1; i >= 0; i-- {
		if seen[all[i].ID] {
			continue
		}
		seen[all[i].ID] = true
		latest = append(latest, all[i])
	}
	slices.Reverse(latest)

	superseded := make(map[string]bool)
	for _, f := range latest {
		for _, id := range f.Supersedes {
			if id != f.ID {
				superseded[id] = true
			}
		}
	}

	out := make([]Finding, 0, len(latest))
	for _, f := range latest {
		if !superseded[f.ID] {
			out = append(out, f)
		}
	}
	return out
}
