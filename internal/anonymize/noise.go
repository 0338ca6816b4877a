package anonymize

import (
	"math"
	"math/rand"

	"dataengine/internal/asset"
)

// LaplaceMechanism injects calibrated noise into numeric values so the
// presence of any single record has bounded influence on released data.
// Sensitivity is fixed at 1 per contributed record.
type LaplaceMechanism struct {
	epsilon float64
	rng     *rand.Rand
}

// NewLaplaceMechanism creates a mechanism for the given privacy budget.
// A nil rng falls back to the shared global source.
func NewLaplaceMechanism(epsilon float64, rng *rand.Rand) *LaplaceMechanism {
	return &LaplaceMechanism{epsilon: epsilon, rng: rng}
}

// Sample draws one Laplace-distributed noise value with scale 1/epsilon
// using inverse-CDF sampling.
func (m *LaplaceMechanism) Sample() float64 {
	b := 1.0 / m.epsilon
	var u float64
	if m.rng != nil {
		u = m.rng.Float64() - 0.5
	} else {
		u = rand.Float64() - 0.5
	}
	sign := 1.0
	if u < 0 {
		sign = -1.0
	}
	return -b * sign * math.Log(1-2*math.Abs(u))
}

// Perturb adds noise to a value and rounds to 2 decimal places
func (m *LaplaceMechanism) Perturb(value float64) float64 {
	return round2(value + m.Sample())
}

// ApplyAll perturbs every numeric sensitive attribute in place
func (m *LaplaceMechanism) ApplyAll(records []asset.Record, sensitiveAttributes []string) {
	for _, r := range records {
		for _, attr := range sensitiveAttributes {
			if v, ok := r[attr]; ok {
				if n, numeric := toFloat(v); numeric {
					r[attr] = m.Perturb(n)
				}
			}
		}
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
