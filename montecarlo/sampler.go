package montecarlo

import (
	"fmt"

	"github.com/domino14/icm/tourney"
)

// RandSource is the randomness a Sampler needs. Both *math/rand/v2.Rand
// and *frand.RNG satisfy it.
type RandSource interface {
	Float64() float64
}

// EliminationOrder lists players from first eliminated to winner. The
// player at index k finished in position len-1-k, so the last entry won.
type EliminationOrder []int

// Position returns the finishing position (0 = first place) of index k.
func (o EliminationOrder) Position(k int) int {
	return len(o) - 1 - k
}

// Winner returns the player who finished first.
func (o EliminationOrder) Winner() int {
	return o[len(o)-1]
}

// Sampler draws tournament outcomes consistent with chip-proportional
// finishing probabilities. Each round, the best open place goes to one of
// the remaining players with probability equal to their share of the
// remaining chips; that player leaves the pool and the next place is drawn
// from whoever is left. The last player left takes the worst place and is
// recorded as the first elimination.
//
// If only zero-stack players remain, the place goes to one of them
// uniformly at random, using the same random source.
//
// A Sampler is not safe for concurrent use; give each goroutine its own.
type Sampler struct {
	stacks tourney.Stacks
	rng    RandSource
	active []int
}

// NewSampler copies the stacks so draws never touch the caller's data.
// It fails with tourney.ErrInvalidInput when there is nothing to sample:
// fewer than two players or no chips at all.
func NewSampler(stacks tourney.Stacks, rng RandSource) (*Sampler, error) {
	if err := stacks.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: sampler needs a random source", tourney.ErrInvalidInput)
	}
	return &Sampler{
		stacks: stacks.Copy(),
		rng:    rng,
		active: make([]int, 0, len(stacks)),
	}, nil
}

// SetRand replaces the random source.
func (s *Sampler) SetRand(rng RandSource) {
	s.rng = rng
}

// Draw returns a freshly allocated elimination order.
func (s *Sampler) Draw() EliminationOrder {
	return s.DrawInto(make(EliminationOrder, len(s.stacks)))
}

// DrawInto writes one elimination order into order, which must have one
// slot per player, and returns it.
func (s *Sampler) DrawInto(order EliminationOrder) EliminationOrder {
	n := len(s.stacks)
	s.active = s.active[:0]
	for p := range n {
		s.active = append(s.active, p)
	}
	for place := 0; len(s.active) > 1; place++ {
		i := s.weightedChoice()
		order[n-1-place] = s.active[i]
		s.active = append(s.active[:i], s.active[i+1:]...)
	}
	order[0] = s.active[0]
	return order
}

// weightedChoice picks an index into s.active with probability
// proportional to that player's stack.
func (s *Sampler) weightedChoice() int {
	total := 0.0
	for _, p := range s.active {
		total += s.stacks[p]
	}
	if total <= 0 {
		return min(int(s.rng.Float64()*float64(len(s.active))), len(s.active)-1)
	}

	r := s.rng.Float64() * total
	cumulative := 0.0
	last := 0
	for i, p := range s.active {
		if s.stacks[p] <= 0 {
			continue
		}
		cumulative += s.stacks[p]
		last = i
		if r < cumulative {
			return i
		}
	}
	// Rounding can leave r just past the final cumulative weight.
	return last
}
