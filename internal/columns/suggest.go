package columns

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"salesenq/internal/util"
)

// Suggest proposes the logical field an unmapped header most likely stands
// for. It is a hint for whoever maintains the alias table and never takes
// part in resolution.
func (r *Resolver) Suggest(header string) (field string, alias string, ok bool) {
	source := util.NormalizeHeader(header)
	if source == "" {
		return "", "", false
	}

	type entry struct{ field, alias, norm string }
	var entries []entry
	targets := []string{}
	for _, f := range r.aliases.Fields() {
		for i, name := range r.aliases[f] {
			norm := r.normalized[f][i]
			if norm == "" {
				continue
			}
			entries = append(entries, entry{field: f, alias: name, norm: norm})
			targets = append(targets, norm)
		}
	}

	// Abbreviated header: "custnm" inside "customername".
	ranks := fuzzy.RankFindNormalizedFold(source, targets)
	if len(ranks) > 0 {
		sort.Stable(ranks)
		best := entries[ranks[0].OriginalIndex]
		return best.field, best.alias, true
	}

	// Decorated header: "customername" inside "customernamefinal".
	bestIdx := -1
	for i, e := range entries {
		if !fuzzy.MatchNormalizedFold(e.norm, source) {
			continue
		}
		if bestIdx < 0 || len(e.norm) > len(entries[bestIdx].norm) {
			bestIdx = i
		}
	}
	if bestIdx >= 0 {
		return entries[bestIdx].field, entries[bestIdx].alias, true
	}
	return "", "", false
}
