package equity

import (
	"context"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/domino14/icm/config"
	"github.com/domino14/icm/montecarlo"
	"github.com/domino14/icm/tourney"
)

// The self-check scenario: a three-handed final table whose Malmuth-Harville
// numbers are well known.
var (
	SelfCheckStacks  = tourney.Stacks{5000, 3000, 2000}
	SelfCheckPayouts = tourney.Payouts{50, 30, 20}

	SelfCheckEquities      = []float64{38.4, 32.8, 28.8}
	SelfCheckProbabilities = [][]float64{
		{0.50, 0.30, 0.20},
		{0.34, 0.37, 0.29},
		{0.16, 0.32, 0.51},
	}
)

const (
	SelfCheckSimulations          = 100000
	SelfCheckEquityTolerance      = 1.0
	SelfCheckProbabilityTolerance = 0.05
)

type SelfCheckReport struct {
	Model  string          `yaml:"model"`
	Result *tourney.Result `yaml:"result"`

	MaxEquityDiff      float64 `yaml:"max_equity_diff"`
	MaxProbabilityDiff float64 `yaml:"max_probability_diff"`
	// CheckedProbabilities is false for models without a matrix.
	CheckedProbabilities bool `yaml:"checked_probabilities"`
	Passed               bool `yaml:"passed"`
}

// SelfCheck runs calc on the reference scenario and compares it against
// the known answer. A model that runs but disagrees is reported, not
// returned as an error.
func SelfCheck(ctx context.Context, calc Calculator) (*SelfCheckReport, error) {
	res, err := calc.Calculate(ctx, SelfCheckStacks, SelfCheckPayouts)
	if err != nil {
		return nil, err
	}
	rep := &SelfCheckReport{Model: calc.Name(), Result: res}
	rep.MaxEquityDiff = maxAbsDiff(res.Equities, SelfCheckEquities)
	passed := rep.MaxEquityDiff <= SelfCheckEquityTolerance

	if res.Probabilities != nil {
		rep.CheckedProbabilities = true
		if len(res.Probabilities) != len(SelfCheckProbabilities) {
			rep.MaxProbabilityDiff = math.Inf(1)
		}
		for i := 0; i < len(res.Probabilities) && i < len(SelfCheckProbabilities); i++ {
			rep.MaxProbabilityDiff = max(rep.MaxProbabilityDiff,
				maxAbsDiff(res.Probabilities[i], SelfCheckProbabilities[i]))
		}
		passed = passed && rep.MaxProbabilityDiff <= SelfCheckProbabilityTolerance
	}
	rep.Passed = passed
	return rep, nil
}

// NewSelfCheckCalculator is NewCalculator with the simulation count the
// self-check tolerances were chosen for.
func NewSelfCheckCalculator(cfg *config.Config, m Model) (Calculator, error) {
	calc, err := NewCalculator(cfg, m)
	if err != nil {
		return nil, err
	}
	if s, ok := calc.(*montecarlo.Simmer); ok {
		s.SetSimulations(SelfCheckSimulations)
	}
	return calc, nil
}

func maxAbsDiff(a, b []float64) float64 {
	if len(a) != len(b) {
		return math.Inf(1)
	}
	return floats.Distance(a, b, math.Inf(1))
}
