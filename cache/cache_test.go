package cache

import (
	"errors"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/icm/tourney"
)

func TestKeyFor(t *testing.T) {
	is := is.New(t)
	stacks := tourney.Stacks{5000, 3000, 2000}
	payouts := tourney.Payouts{50, 30, 20}

	k := KeyFor("malmuth-harville", stacks, payouts)
	is.Equal(k, KeyFor("malmuth-harville", tourney.Stacks{5000, 3000, 2000}, tourney.Payouts{50, 30, 20}))
	is.True(k != KeyFor("chip-chop", stacks, payouts))
	is.True(k != KeyFor("malmuth-harville", tourney.Stacks{3000, 5000, 2000}, payouts))
	// stacks and payouts are length-prefixed so moving a number across
	// the boundary changes the key
	is.True(KeyFor("m", tourney.Stacks{1, 2}, tourney.Payouts{3}) !=
		KeyFor("m", tourney.Stacks{1}, tourney.Payouts{2, 3}))
}

func TestLoad(t *testing.T) {
	is := is.New(t)
	c := New(10)
	calls := 0
	load := func() (*tourney.Result, error) {
		calls++
		return &tourney.Result{Model: "chip-chop", Equities: []float64{60, 30, 10}}, nil
	}
	key := KeyFor("chip-chop", tourney.Stacks{6000, 3000, 1000}, tourney.Payouts{50, 30, 20})

	r1, err := c.Load(key, load)
	is.NoErr(err)
	r1.Equities[0] = -1 // callers own their copy

	r2, err := c.Load(key, load)
	is.NoErr(err)
	is.Equal(calls, 1)
	is.Equal(r2.Equities, []float64{60, 30, 10})

	hits, misses := c.Stats()
	is.Equal(hits, 1)
	is.Equal(misses, 1)
}

func TestLoadError(t *testing.T) {
	is := is.New(t)
	c := New(10)
	boom := errors.New("boom")
	_, err := c.Load(1, func() (*tourney.Result, error) { return nil, boom })
	is.True(errors.Is(err, boom))
	is.Equal(c.Len(), 0)
}

func TestFullCacheClears(t *testing.T) {
	is := is.New(t)
	c := New(2)
	load := func() (*tourney.Result, error) { return &tourney.Result{}, nil }
	for k := Key(0); k < 3; k++ {
		_, err := c.Load(k, load)
		is.NoErr(err)
	}
	is.Equal(c.Len(), 1)
	c.Clear()
	is.Equal(c.Len(), 0)
}
