// Package tourney holds the inputs and outputs shared by all ICM models:
// chip stacks, payout schedules and computed results.
package tourney

import (
	"math"

	"github.com/samber/lo"
)

// MinPlayers is the smallest field with a meaningful ICM.
const MinPlayers = 2

// Stacks holds one chip count per player. The index is the player's identity.
type Stacks []float64

// Payouts holds the prize for each finishing position; index 0 is first place.
type Payouts []float64

// Total returns the sum of all stacks.
func (s Stacks) Total() float64 {
	return lo.Sum(s)
}

// Validate checks that the stacks describe a computable field.
func (s Stacks) Validate() error {
	if len(s) < MinPlayers {
		return invalid("need at least %d players, got %d", MinPlayers, len(s))
	}
	for i, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return invalid("stack for player %d is %v", i, v)
		}
	}
	if s.Total() <= 0 {
		return invalid("total chips must be positive")
	}
	return nil
}

// Copy returns a fresh copy of the stacks.
func (s Stacks) Copy() Stacks {
	c := make(Stacks, len(s))
	copy(c, s)
	return c
}

// Total returns the prize pool.
func (p Payouts) Total() float64 {
	return lo.Sum(p)
}

// Validate checks every prize is a non-negative finite amount.
func (p Payouts) Validate() error {
	for i, v := range p {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return invalid("payout for position %d is %v", i, v)
		}
	}
	return nil
}

// Normalize returns a copy of the schedule with exactly n positions.
// Missing positions pay zero; positions past n are dropped.
func (p Payouts) Normalize(n int) Payouts {
	c := make(Payouts, n)
	copy(c, p)
	return c
}

// At returns the payout for a position, or zero past the end of the schedule.
func (p Payouts) At(pos int) float64 {
	if pos < 0 || pos >= len(p) {
		return 0
	}
	return p[pos]
}

// PaidPlaces returns the number of positions up to and including the last
// non-zero payout. Positions past it can not change anyone's equity.
func (p Payouts) PaidPlaces() int {
	for i := len(p) - 1; i >= 0; i-- {
		if p[i] != 0 {
			return i + 1
		}
	}
	return 0
}

// ValidateInputs validates stacks and payouts together and returns the
// payouts normalized to the number of players.
func ValidateInputs(stacks Stacks, payouts Payouts) (Payouts, error) {
	if err := stacks.Validate(); err != nil {
		return nil, err
	}
	if err := payouts.Validate(); err != nil {
		return nil, err
	}
	return payouts.Normalize(len(stacks)), nil
}
