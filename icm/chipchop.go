// Package icm implements the deterministic ICM models: the chip-chop
// approximation and exact Malmuth-Harville enumeration.
package icm

import (
	"context"

	"github.com/samber/lo"

	"github.com/domino14/icm/tourney"
)

const ChipChopModelName = "chip-chop"

// ChipChop gives each player the prize pool in proportion to their share of
// the chips. It is an approximation: it only looks at the sum of the payouts,
// not their shape, and so overstates big stacks whenever first place pays
// less than everything. There is no probability matrix.
func ChipChop(stacks tourney.Stacks, payouts tourney.Payouts) (*tourney.Result, error) {
	norm, err := tourney.ValidateInputs(stacks, payouts)
	if err != nil {
		return nil, err
	}
	total := stacks.Total()
	pool := norm.Total()
	return &tourney.Result{
		Model: ChipChopModelName,
		Equities: lo.Map(stacks, func(s float64, _ int) float64 {
			return s / total * pool
		}),
	}, nil
}

// ChipChopper adapts ChipChop to the calculator interface used by the
// other models.
type ChipChopper struct{}

func (ChipChopper) Name() string {
	return ChipChopModelName
}

func (ChipChopper) Calculate(_ context.Context, stacks tourney.Stacks, payouts tourney.Payouts) (*tourney.Result, error) {
	return ChipChop(stacks, payouts)
}
