package models

import (
	"sort"
)

// DiffPlacements compares two immutable placement snapshots and returns
// the sorted set of names whose placements changed, were added, or were
// removed between them. Callers that need to react to edits diff the
// snapshot they kept against the current one instead of relying on any
// shared mutable cache; the pipeline itself stays stateless.
func DiffPlacements(prev, next map[string]ImplantPlacement) []string {
	var changed []string
	for name, p := range prev {
		n, ok := next[name]
		if !ok || n != p {
			changed = append(changed, name)
		}
	}
	for name := range next {
		if _, ok := prev[name]; !ok {
			changed = append(changed, name)
		}
	}
	sort.Strings(changed)
	return changed
}
