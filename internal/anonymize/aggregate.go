package anonymize

import (
	"dataengine/internal/asset"
)

// aggregateGroups collapses each equivalence class into a single row
// carrying the group size and the mean of every numeric sensitive
// attribute. Groups smaller than k are dropped; individual-level values
// never survive this stage.
func aggregateGroups(g *generalizer, records []asset.Record, sensitiveAttributes []string, k int) (rows []asset.Record, dropped int) {
	groups := g.groupBy(records)
	rows = make([]asset.Record, 0, len(groups))

	for _, members := range groups {
		if len(members) < k {
			dropped += len(members)
			continue
		}

		row := asset.Record{}
		for _, qi := range g.quasiIdentifiers {
			row[qi] = members[0][qi]
		}
		row["_count"] = len(members)

		for _, attr := range sensitiveAttributes {
			sum := 0.0
			n := 0
			for _, member := range members {
				if v, ok := member[attr]; ok {
					if f, numeric := toFloat(v); numeric {
						sum += f
						n++
					}
				}
			}
			if n > 0 {
				row[attr] = round2(sum / float64(n))
			}
		}

		rows = append(rows, row)
	}

	return rows, dropped
}
