package tourney

import (
	"github.com/samber/lo"

	"github.com/domino14/icm/stats"
)

// Result is the output of one model call. It is always freshly allocated
// and owned by the caller.
type Result struct {
	Model    string    `yaml:"model"`
	Equities []float64 `yaml:"equities"`
	// Probabilities is indexed [position][player]. It is nil for models
	// that do not estimate finishing positions.
	Probabilities [][]float64 `yaml:"probabilities,omitempty"`
	// StdErrs is the standard error of each player's equity estimate.
	// Only sampling models fill it in.
	StdErrs    []float64 `yaml:"stderrs,omitempty"`
	Iterations int       `yaml:"iterations,omitempty"`
}

// NumPlayers returns the number of players in the result.
func (r *Result) NumPlayers() int {
	return len(r.Equities)
}

// TotalEquity returns the sum of all equities. It should equal the prize pool.
func (r *Result) TotalEquity() float64 {
	return lo.Sum(r.Equities)
}

// ConfidenceInterval returns the half-width of the two-sided confidence
// interval around the player's equity, for a confidence given in percent.
// Exact models have no sampling error and return 0.
func (r *Result) ConfidenceInterval(player int, confidence float64) float64 {
	if player < 0 || player >= len(r.StdErrs) {
		return 0
	}
	return stats.ZVal(confidence) * r.StdErrs[player]
}

// EquityVector turns a [position][player] probability matrix into expected
// prize money per player. Positions past the payout schedule pay nothing.
func EquityVector(probabilities [][]float64, payouts Payouts) []float64 {
	if len(probabilities) == 0 {
		return nil
	}
	equities := make([]float64, len(probabilities[0]))
	for pos, row := range probabilities {
		prize := payouts.At(pos)
		if prize == 0 {
			continue
		}
		for player, p := range row {
			equities[player] += p * prize
		}
	}
	return equities
}

// NewMatrix allocates an n×n probability matrix.
func NewMatrix(n int) [][]float64 {
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
	}
	return m
}

// Copy returns a deep copy of r.
func (r *Result) Copy() *Result {
	if r == nil {
		return nil
	}
	c := &Result{
		Model:      r.Model,
		Equities:   append([]float64(nil), r.Equities...),
		StdErrs:    append([]float64(nil), r.StdErrs...),
		Iterations: r.Iterations,
	}
	if r.Probabilities != nil {
		c.Probabilities = make([][]float64, len(r.Probabilities))
		for i, row := range r.Probabilities {
			c.Probabilities[i] = append([]float64(nil), row...)
		}
	}
	return c
}
