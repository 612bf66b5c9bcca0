package montecarlo

import (
	"github.com/domino14/icm/stats"
	"github.com/domino14/icm/tourney"
)

// accumulator counts finishing positions and tracks each player's prize
// per trial. Every worker fills its own and merges it into the shared one.
type accumulator struct {
	trials      int
	counts      [][]int // [position][player]
	payoutStats []stats.Statistic
}

func newAccumulator(n int) *accumulator {
	a := &accumulator{
		counts:      make([][]int, n),
		payoutStats: make([]stats.Statistic, n),
	}
	for pos := range a.counts {
		a.counts[pos] = make([]int, n)
	}
	return a
}

func (a *accumulator) record(order EliminationOrder, payouts tourney.Payouts) {
	a.trials++
	for k, player := range order {
		pos := order.Position(k)
		a.counts[pos][player]++
		a.payoutStats[player].Push(payouts.At(pos))
	}
}

func (a *accumulator) merge(o *accumulator) {
	a.trials += o.trials
	for pos := range o.counts {
		for player, c := range o.counts[pos] {
			a.counts[pos][player] += c
		}
	}
	for p := range o.payoutStats {
		a.payoutStats[p].Merge(&o.payoutStats[p])
	}
}

func (a *accumulator) reset() {
	a.trials = 0
	for pos := range a.counts {
		clear(a.counts[pos])
	}
	clear(a.payoutStats)
}

func (a *accumulator) probabilities() [][]float64 {
	n := len(a.counts)
	probs := tourney.NewMatrix(n)
	if a.trials == 0 {
		return probs
	}
	for pos := range a.counts {
		for player, c := range a.counts[pos] {
			probs[pos][player] = float64(c) / float64(a.trials)
		}
	}
	return probs
}

func (a *accumulator) stdErrs() []float64 {
	errs := make([]float64, len(a.payoutStats))
	for p := range a.payoutStats {
		errs[p] = a.payoutStats[p].StandardError()
	}
	return errs
}
