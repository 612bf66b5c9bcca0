package montecarlo

import (
	"github.com/domino14/icm/stats"
)

// IterationsCutoff is the fewest trials after which the autostopper may
// end a simulation early.
const IterationsCutoff = 5000

type StoppingCondition int

const (
	StopNone StoppingCondition = iota
	Stop90
	Stop95
	Stop99
)

// DefaultAutostopTolerance is the fraction of the prize pool every
// player's confidence interval must shrink below before autostopping.
const DefaultAutostopTolerance = 0.001

func (sc StoppingCondition) zValue() float64 {
	switch sc {
	case Stop90:
		return stats.Z90
	case Stop95:
		return stats.Z95
	case Stop99:
		return stats.Z99
	}
	return 0
}

// StoppingConditionFromConfidence maps a confidence percentage to a
// stopping condition. Zero turns autostopping off.
func StoppingConditionFromConfidence(pct int) (StoppingCondition, bool) {
	switch pct {
	case 0:
		return StopNone, true
	case 90:
		return Stop90, true
	case 95:
		return Stop95, true
	case 99:
		return Stop99, true
	}
	return StopNone, false
}

type autostopper struct {
	stoppingCondition StoppingCondition
	tolerance         float64
}

// shouldStop reports whether every player's equity is pinned down to
// within tolerance × pool at the configured confidence. It must be called
// with the accumulator locked.
func (a *autostopper) shouldStop(acc *accumulator, pool float64) bool {
	if a.stoppingCondition == StopNone {
		return false
	}
	if acc.trials < IterationsCutoff {
		return false
	}
	z := a.stoppingCondition.zValue()
	limit := a.tolerance * pool
	for p := range acc.payoutStats {
		if z*acc.payoutStats[p].StandardError() > limit {
			return false
		}
	}
	return true
}
