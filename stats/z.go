package stats

import "gonum.org/v1/gonum/stat/distuv"

var stdNormal = distuv.Normal{Mu: 0, Sigma: 1}

// Commonly requested two-tailed z-values.
var (
	Z90 = ZVal(90)
	Z95 = ZVal(95)
	Z99 = ZVal(99)
)

// ZVal returns the two-tailed Z-value for a confidence level given in
// percent. Levels outside (0, 100) are clamped so the quantile stays finite.
func ZVal(confidence float64) float64 {
	switch {
	case confidence <= 0:
		return 0
	case confidence >= 100:
		confidence = 99.9999
	}
	return stdNormal.Quantile((1 + confidence/100) / 2)
}
