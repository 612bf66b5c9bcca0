package tourney

import "math/bits"

// MaxActivePlayers is the largest field an ActiveSet can describe.
const MaxActivePlayers = 64

// ActiveSet is a bitset of players still in contention. It is a value type
// and is meant to be passed by value through recursive evaluation.
type ActiveSet uint64

// FullSet returns the set containing players 0 through n-1.
func FullSet(n int) ActiveSet {
	if n >= MaxActivePlayers {
		return ^ActiveSet(0)
	}
	return ActiveSet(1)<<uint(n) - 1
}

func (a ActiveSet) Has(p int) bool {
	return a&(1<<uint(p)) != 0
}

func (a ActiveSet) Without(p int) ActiveSet {
	return a &^ (1 << uint(p))
}

func (a ActiveSet) Len() int {
	return bits.OnesCount64(uint64(a))
}

// Members appends the players in the set to buf in ascending order.
func (a ActiveSet) Members(buf []int) []int {
	buf = buf[:0]
	for rest := uint64(a); rest != 0; rest &= rest - 1 {
		buf = append(buf, bits.TrailingZeros64(rest))
	}
	return buf
}
