package anonymize

import (
	"fmt"
	"math"
	"strings"
	"time"

	"dataengine/internal/asset"
)

// maxGeneralizationLevel bounds the coarsening ladder.
const maxGeneralizationLevel = 4

// fieldKind tags a quasi-identifier with the generalization strategy
// that applies to it.
type fieldKind int

const (
	kindNumeric fieldKind = iota
	kindDate
	kindZip
	kindString
)

// numericWidths is the bucket width ladder for numeric quasi-identifiers.
var numericWidths = [maxGeneralizationLevel + 1]float64{1, 5, 10, 50, 100}

// zipPrefixes is the number of leading characters kept per level for
// postal codes.
var zipPrefixes = [maxGeneralizationLevel + 1]int{5, 4, 3, 2, 1}

// dateLayouts are the formats tried when classifying date-like strings.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006/01/02",
}

// classifyField decides the generalization strategy for one field based
// on its name and a sample value.
func classifyField(name string, sample interface{}) fieldKind {
	lower := strings.ToLower(name)
	if strings.Contains(lower, "zip") || strings.Contains(lower, "postal") || strings.Contains(lower, "postcode") {
		return kindZip
	}

	switch v := sample.(type) {
	case float64, float32, int, int32, int64:
		return kindNumeric
	case time.Time:
		return kindDate
	case string:
		if _, ok := parseDate(v); ok {
			return kindDate
		}
		return kindString
	default:
		return kindString
	}
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// generalizeValue coarsens one quasi-identifier value to the given level
func generalizeValue(kind fieldKind, value interface{}, level int) interface{} {
	if value == nil {
		return nil
	}
	if level > maxGeneralizationLevel {
		level = maxGeneralizationLevel
	}

	switch kind {
	case kindNumeric:
		n, ok := toFloat(value)
		if !ok {
			return value
		}
		width := numericWidths[level]
		lo := math.Floor(n/width) * width
		if width == 1 {
			return lo
		}
		return fmt.Sprintf("%g-%g", lo, lo+width)

	case kindDate:
		t, ok := value.(time.Time)
		if !ok {
			s, isStr := value.(string)
			if !isStr {
				return value
			}
			parsed, parsedOK := parseDate(s)
			if !parsedOK {
				return value
			}
			t = parsed
		}
		switch {
		case level <= 1:
			return t.Format("2006-01-02")
		case level == 2:
			return t.Format("2006-01")
		default:
			return t.Format("2006")
		}

	case kindZip:
		s := fmt.Sprintf("%v", value)
		keep := zipPrefixes[level]
		if len(s) <= keep {
			return s
		}
		return s[:keep] + strings.Repeat("*", len(s)-keep)

	default:
		s := fmt.Sprintf("%v", value)
		switch {
		case level <= 2:
			return s
		case level == 3:
			if len(s) > 1 {
				return s[:1] + "*"
			}
			return s
		default:
			return "*"
		}
	}
}

// generalizer applies the per-field strategy table to whole batches.
type generalizer struct {
	quasiIdentifiers []string
	kinds            map[string]fieldKind
}

// newGeneralizer classifies each quasi-identifier from the first record
// that carries it.
func newGeneralizer(quasiIdentifiers []string, records []asset.Record) *generalizer {
	kinds := make(map[string]fieldKind, len(quasiIdentifiers))
	for _, qi := range quasiIdentifiers {
		kinds[qi] = kindString
		for _, r := range records {
			if v, ok := r[qi]; ok && v != nil {
				kinds[qi] = classifyField(qi, v)
				break
			}
		}
	}
	return &generalizer{quasiIdentifiers: quasiIdentifiers, kinds: kinds}
}

// applyLevel returns a new batch with every quasi-identifier coarsened
// to the given level. Input records are not modified.
func (g *generalizer) applyLevel(records []asset.Record, level int) []asset.Record {
	out := make([]asset.Record, len(records))
	for i, r := range records {
		clone := r.Clone()
		for _, qi := range g.quasiIdentifiers {
			if v, ok := clone[qi]; ok {
				clone[qi] = generalizeValue(g.kinds[qi], v, level)
			}
		}
		out[i] = clone
	}
	return out
}

// groupKey builds the equivalence-class key from quasi-identifier values
func (g *generalizer) groupKey(r asset.Record) string {
	parts := make([]string, len(g.quasiIdentifiers))
	for i, qi := range g.quasiIdentifiers {
		parts[i] = fmt.Sprintf("%v", r[qi])
	}
	return strings.Join(parts, "|")
}

// groupBy partitions records into equivalence classes
func (g *generalizer) groupBy(records []asset.Record) map[string][]asset.Record {
	groups := make(map[string][]asset.Record)
	for _, r := range records {
		key := g.groupKey(r)
		groups[key] = append(groups[key], r)
	}
	return groups
}

// minGroupSize returns the smallest equivalence-class size, or 0 for an
// empty batch.
func minGroupSize(groups map[string][]asset.Record) int {
	min := 0
	for _, members := range groups {
		if min == 0 || len(members) < min {
			min = len(members)
		}
	}
	return min
}

// generalizeResult carries the outcome of the k-anonymity stage.
type generalizeResult struct {
	records    []asset.Record
	level      int
	suppressed int
}

// enforceKAnonymity walks the coarsening ladder until every equivalence
// class holds at least k records, suppressing undersized groups at the
// coarsest level when generalization alone cannot get there.
func (g *generalizer) enforceKAnonymity(records []asset.Record, k int) generalizeResult {
	if len(records) == 0 {
		return generalizeResult{records: []asset.Record{}}
	}

	var lastLevel []asset.Record
	for level := 0; level <= maxGeneralizationLevel; level++ {
		generalized := g.applyLevel(records, level)
		groups := g.groupBy(generalized)
		if minGroupSize(groups) >= k {
			return generalizeResult{records: generalized, level: level}
		}
		lastLevel = generalized
	}

	// Even the coarsest level has undersized groups: suppress them.
	groups := g.groupBy(lastLevel)
	kept := make([]asset.Record, 0, len(lastLevel))
	suppressed := 0
	for _, members := range groups {
		if len(members) >= k {
			kept = append(kept, members...)
		} else {
			suppressed += len(members)
		}
	}
	return generalizeResult{records: kept, level: maxGeneralizationLevel, suppressed: suppressed}
}
