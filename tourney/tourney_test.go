package tourney

import (
	"errors"
	"math"
	"testing"

	"github.com/matryer/is"
)

func TestStacksValidate(t *testing.T) {
	is := is.New(t)
	type tc struct {
		stacks Stacks
		ok     bool
	}
	cases := []tc{
		{Stacks{5000, 3000, 2000}, true},
		{Stacks{100, 0}, true},
		{Stacks{100}, false},
		{Stacks{}, false},
		{Stacks{0, 0, 0}, false},
		{Stacks{100, -1}, false},
		{Stacks{100, math.NaN()}, false},
		{Stacks{100, math.Inf(1)}, false},
	}
	for _, c := range cases {
		err := c.stacks.Validate()
		if c.ok {
			is.NoErr(err)
		} else {
			is.True(errors.Is(err, ErrInvalidInput))
		}
	}
}

func TestPayoutsNormalize(t *testing.T) {
	is := is.New(t)
	p := Payouts{50, 30}
	n := p.Normalize(4)
	is.Equal(n, Payouts{50, 30, 0, 0})
	is.Equal(p, Payouts{50, 30})

	n = Payouts{50, 30, 20, 10}.Normalize(2)
	is.Equal(n, Payouts{50, 30})
	is.Equal(n.Total(), 80.0)
}

func TestPaidPlaces(t *testing.T) {
	is := is.New(t)
	is.Equal(Payouts{50, 30, 20}.PaidPlaces(), 3)
	is.Equal(Payouts{50, 30, 0, 0}.PaidPlaces(), 2)
	is.Equal(Payouts{0, 0}.PaidPlaces(), 0)
	is.Equal(Payouts{}.PaidPlaces(), 0)
}

func TestValidateInputs(t *testing.T) {
	is := is.New(t)
	p, err := ValidateInputs(Stacks{1, 2, 3}, Payouts{10})
	is.NoErr(err)
	is.Equal(p, Payouts{10, 0, 0})

	_, err = ValidateInputs(Stacks{1, 2, 3}, Payouts{10, -5})
	is.True(errors.Is(err, ErrInvalidInput))
}

func TestUnsupportedError(t *testing.T) {
	is := is.New(t)
	var err error = &UnsupportedError{Players: 15, Ceiling: 10}
	is.True(errors.Is(err, ErrUnsupported))
	is.True(!errors.Is(err, ErrInvalidInput))
	var ue *UnsupportedError
	is.True(errors.As(err, &ue))
	is.Equal(ue.Ceiling, 10)
}

func TestActiveSet(t *testing.T) {
	is := is.New(t)
	a := FullSet(4)
	is.Equal(a.Len(), 4)
	is.Equal(a.Members(nil), []int{0, 1, 2, 3})

	b := a.Without(2)
	is.True(!b.Has(2))
	is.True(a.Has(2))
	is.Equal(b.Members(nil), []int{0, 1, 3})
	is.Equal(FullSet(64).Len(), 64)
}

func TestEquityVector(t *testing.T) {
	is := is.New(t)
	probs := [][]float64{
		{0.5, 0.3, 0.2},
		{0.3, 0.4, 0.3},
		{0.2, 0.3, 0.5},
	}
	eq := EquityVector(probs, Payouts{100, 0})
	is.Equal(len(eq), 3)
	is.True(math.Abs(eq[0]-50) < 1e-9)
	is.True(math.Abs(eq[1]-30) < 1e-9)
	is.True(math.Abs(eq[2]-20) < 1e-9)

	eq = EquityVector(probs, Payouts{50, 30, 20})
	total := 0.0
	for _, e := range eq {
		total += e
	}
	is.True(math.Abs(total-100) < 1e-9)
	is.Equal(EquityVector(nil, Payouts{1}), []float64(nil))
}

func TestConfidenceInterval(t *testing.T) {
	is := is.New(t)
	r := &Result{Equities: []float64{10, 20}, StdErrs: []float64{1, 0.5}}
	is.True(math.Abs(r.ConfidenceInterval(0, 95)-1.959963984540054) < 1e-6)
	is.True(math.Abs(r.ConfidenceInterval(1, 95)-0.979981992270027) < 1e-6)
	is.Equal(r.ConfidenceInterval(2, 95), 0.0)
	is.Equal(r.TotalEquity(), 30.0)
	is.Equal(r.NumPlayers(), 2)
}
