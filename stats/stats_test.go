package stats

import (
	"testing"

	"github.com/matryer/is"
)

func TestRunningStat(t *testing.T) {
	is := is.New(t)
	type tc struct {
		scores []int
		mean   float64
		stdev  float64
	}
	cases := []tc{
		{[]int{10, 12, 23, 23, 16, 23, 21, 16}, 18, 5.2372293656638},
		{[]int{14, 35, 71, 124, 10, 24, 55, 33, 87, 19}, 47.2, 36.937785531891},
		{[]int{1}, 1, 0},
		{[]int{}, 0, 0},
		{[]int{1, 1}, 1, 0},
	}
	for _, c := range cases {
		s := &Statistic{}
		for _, score := range c.scores {
			s.Push(float64(score))
		}
		is.True(FuzzyEqual(s.Mean(), c.mean))
		is.True(FuzzyEqual(s.Stdev(), c.stdev))
	}
}

func TestMerge(t *testing.T) {
	is := is.New(t)
	scores := []int{14, 35, 71, 124, 10, 24, 55, 33, 87, 19}
	for split := 0; split <= len(scores); split++ {
		a, b := &Statistic{}, &Statistic{}
		for _, v := range scores[:split] {
			a.Push(float64(v))
		}
		for _, v := range scores[split:] {
			b.Push(float64(v))
		}
		a.Merge(b)
		is.Equal(a.Iterations(), len(scores))
		is.True(FuzzyEqual(a.Mean(), 47.2))
		is.True(FuzzyEqual(a.Stdev(), 36.937785531891))
	}
}

func TestMergeThenPush(t *testing.T) {
	is := is.New(t)
	a, b := &Statistic{}, &Statistic{}
	a.Push(10)
	a.Push(12)
	b.Push(23)
	a.Merge(b)
	for _, v := range []float64{23, 16, 23, 21, 16} {
		a.Push(v)
	}
	is.True(FuzzyEqual(a.Mean(), 18))
	is.True(FuzzyEqual(a.Stdev(), 5.2372293656638))
}

func TestZVal(t *testing.T) {
	is := is.New(t)
	is.True(FuzzyEqual(ZVal(95), 1.959963984540054))
	is.True(FuzzyEqual(ZVal(99), 2.5758293035489))
}
