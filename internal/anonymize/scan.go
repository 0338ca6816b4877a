package anonymize

import (
	"fmt"
	"regexp"

	"dataengine/internal/asset"
)

// scanSampleSize caps how many output rows the residual-PII linter
// inspects. The scan flags, it never blocks.
const scanSampleSize = 100

// piiDetector pairs a label with a compiled pattern.
type piiDetector struct {
	label   string
	pattern *regexp.Regexp
}

// residualDetectors cover email addresses, French phone numbers, IBANs
// and French national identifiers (NIR).
var residualDetectors = []piiDetector{
	{"email", regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)},
	{"french phone number", regexp.MustCompile(`(?:\+33|0)[1-9](?:[ .\-]?\d{2}){4}`)},
	{"IBAN", regexp.MustCompile(`\b[A-Z]{2}\d{2}[A-Z0-9]{11,30}\b`)},
	{"french national id", regexp.MustCompile(`\b[12]\d{2}(?:0[1-9]|1[0-2])\d{2}\d{3}\d{3}\d{2}\b`)},
}

// scanResidualPII samples the output batch and reports one warning per
// detector/field combination that still matches.
func scanResidualPII(records []asset.Record) []string {
	limit := len(records)
	if limit > scanSampleSize {
		limit = scanSampleSize
	}

	seen := make(map[string]bool)
	var warnings []string

	for i := 0; i < limit; i++ {
		for field, value := range records[i] {
			s, ok := value.(string)
			if !ok || s == "" {
				continue
			}
			for _, d := range residualDetectors {
				key := d.label + "|" + field
				if seen[key] {
					continue
				}
				if d.pattern.MatchString(s) {
					seen[key] = true
					warnings = append(warnings,
						fmt.Sprintf("possible %s detected in field %q (row %d)", d.label, field, i))
				}
			}
		}
	}

	return warnings
}
