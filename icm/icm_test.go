package icm_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/combin"

	"github.com/domino14/icm/icm"
	"github.com/domino14/icm/tourney"
)

func assertStochastic(t *testing.T, probs [][]float64, tol float64) {
	t.Helper()
	n := len(probs)
	for pos := range n {
		assert.InDelta(t, 1.0, floats.Sum(probs[pos]), tol, "row %d", pos)
	}
	for player := range n {
		col := 0.0
		for pos := range n {
			col += probs[pos][player]
		}
		assert.InDelta(t, 1.0, col, tol, "column %d", player)
	}
}

func TestChipChop(t *testing.T) {
	res, err := icm.ChipChop(tourney.Stacks{6000, 3000, 1000}, tourney.Payouts{50, 30, 20})
	require.NoError(t, err)
	assert.Equal(t, icm.ChipChopModelName, res.Model)
	assert.True(t, floats.EqualApprox(res.Equities, []float64{60, 30, 10}, 1e-9))
	assert.Nil(t, res.Probabilities)
}

func TestChipChopIgnoresPayoutShape(t *testing.T) {
	a, err := icm.ChipChop(tourney.Stacks{5000, 3000, 2000}, tourney.Payouts{100})
	require.NoError(t, err)
	b, err := icm.ChipChop(tourney.Stacks{5000, 3000, 2000}, tourney.Payouts{34, 33, 33})
	require.NoError(t, err)
	assert.True(t, floats.EqualApprox(a.Equities, b.Equities, 1e-9))
	assert.True(t, floats.EqualApprox(a.Equities, []float64{50, 30, 20}, 1e-9))
}

func TestChipChopMonotonic(t *testing.T) {
	stacks := tourney.Stacks{900, 1200, 300, 4000, 50}
	res, err := icm.ChipChop(stacks, tourney.Payouts{70, 30})
	require.NoError(t, err)
	for i := range stacks {
		for j := range stacks {
			if stacks[i] > stacks[j] {
				assert.Greater(t, res.Equities[i], res.Equities[j])
			}
		}
	}
}

func TestChipChopInvalid(t *testing.T) {
	_, err := icm.ChipChop(tourney.Stacks{0, 0, 0}, tourney.Payouts{50, 30, 20})
	assert.ErrorIs(t, err, tourney.ErrInvalidInput)
	_, err = icm.ChipChop(tourney.Stacks{100}, tourney.Payouts{50})
	assert.ErrorIs(t, err, tourney.ErrInvalidInput)
}

func TestExactThreePlayers(t *testing.T) {
	e := icm.NewExact(0)
	res, err := e.Calculate(context.Background(),
		tourney.Stacks{5000, 3000, 2000}, tourney.Payouts{50, 30, 20})
	require.NoError(t, err)

	assert.Equal(t, icm.ExactModelName, res.Model)
	assert.InDelta(t, 38.3929, res.Equities[0], 1e-9)
	assert.InDelta(t, 32.75, res.Equities[1], 1e-9)
	assert.InDelta(t, 28.8571, res.Equities[2], 1e-9)
	assert.InDelta(t, 100.0, res.TotalEquity(), 1e-3)

	expected := [][]float64{
		{0.5, 0.3, 0.2},
		{0.3392857, 0.375, 0.2857143},
		{0.1607143, 0.325, 0.5142857},
	}
	for pos := range expected {
		for player := range expected[pos] {
			assert.InDelta(t, expected[pos][player], res.Probabilities[pos][player], 1e-6)
		}
	}
	assertStochastic(t, res.Probabilities, 1e-9)
}

func TestExactMatchesAggregatedProbabilities(t *testing.T) {
	stacks := tourney.Stacks{5000, 3000, 2000, 1000, 500, 2000, 5000, 8000}
	payouts := tourney.Payouts{50, 30, 20, 10}
	res, err := icm.NewExact(0).Calculate(context.Background(), stacks, payouts)
	require.NoError(t, err)

	assertStochastic(t, res.Probabilities, 1e-9)
	assert.InDelta(t, payouts.Total(), res.TotalEquity(), 1e-3)
	agg := tourney.EquityVector(res.Probabilities, payouts)
	assert.True(t, floats.EqualApprox(agg, res.Equities, 1e-3))

	for i := range stacks {
		for j := range stacks {
			if stacks[i] > stacks[j] {
				assert.Greater(t, res.Equities[i], res.Equities[j])
			}
		}
	}
}

// bruteForce enumerates every finishing order and weighs it by the product
// of the chip shares along the way.
func bruteForce(stacks tourney.Stacks) [][]float64 {
	n := len(stacks)
	probs := tourney.NewMatrix(n)
	for _, order := range combin.Permutations(n, n) {
		p := 1.0
		remaining := stacks.Total()
		for _, player := range order {
			if remaining > 0 {
				p *= stacks[player] / remaining
			}
			remaining -= stacks[player]
		}
		for pos, player := range order {
			probs[pos][player] += p
		}
	}
	return probs
}

func TestExactMatchesBruteForce(t *testing.T) {
	stacks := tourney.Stacks{1500, 800, 2200, 400, 3100, 1000}
	res, err := icm.NewExact(0).Calculate(context.Background(), stacks, tourney.Payouts{1})
	require.NoError(t, err)
	want := bruteForce(stacks)
	for pos := range want {
		assert.True(t, floats.EqualApprox(want[pos], res.Probabilities[pos], 1e-9), "position %d", pos)
	}
}

func TestExactZeroStacksSplitEvenly(t *testing.T) {
	res, err := icm.NewExact(0).Calculate(context.Background(),
		tourney.Stacks{100, 0, 0}, tourney.Payouts{50, 30, 20})
	require.NoError(t, err)
	assert.True(t, floats.EqualApprox(res.Equities, []float64{50, 25, 25}, 1e-9))
	assertStochastic(t, res.Probabilities, 1e-9)
	assert.InDelta(t, 0.5, res.Probabilities[1][1], 1e-9)
}

func TestExactPayoutsPaddedAndTruncated(t *testing.T) {
	e := icm.NewExact(0)
	res, err := e.Calculate(context.Background(), tourney.Stacks{1000, 1000}, tourney.Payouts{60, 40, 30})
	require.NoError(t, err)
	assert.True(t, floats.EqualApprox(res.Equities, []float64{50, 50}, 1e-9))

	res, err = e.Calculate(context.Background(), tourney.Stacks{3000, 1000, 1000, 1000}, tourney.Payouts{100})
	require.NoError(t, err)
	assert.True(t, floats.EqualApprox(res.Equities, []float64{50, 16.6667, 16.6667, 16.6667}, 1e-9))
}

func TestExactCeiling(t *testing.T) {
	stacks := make(tourney.Stacks, 15)
	for i := range stacks {
		stacks[i] = float64(1000 * (i + 1))
	}
	e := icm.NewExact(0)
	assert.Equal(t, icm.DefaultExactCeiling, e.Ceiling())

	_, err := e.Calculate(context.Background(), stacks, tourney.Payouts{50, 30, 20})
	require.Error(t, err)
	assert.ErrorIs(t, err, tourney.ErrUnsupported)
	var ue *tourney.UnsupportedError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, 15, ue.Players)
	assert.Equal(t, icm.DefaultExactCeiling, ue.Ceiling)
}

func TestExactSetCeiling(t *testing.T) {
	e := icm.NewExact(4)
	assert.Equal(t, 4, e.Ceiling())
	_, err := e.Calculate(context.Background(), tourney.Stacks{1, 2, 3, 4, 5}, tourney.Payouts{1})
	assert.ErrorIs(t, err, tourney.ErrUnsupported)

	e.SetCeiling(1)
	assert.Equal(t, tourney.MinPlayers, e.Ceiling())
	e.SetCeiling(99)
	assert.Equal(t, icm.MaxExactCeiling, e.Ceiling())
}

func TestExactInvalid(t *testing.T) {
	e := icm.NewExact(0)
	_, err := e.Calculate(context.Background(), tourney.Stacks{0, 0, 0}, tourney.Payouts{50, 30, 20})
	assert.ErrorIs(t, err, tourney.ErrInvalidInput)
	_, err = e.Calculate(context.Background(), tourney.Stacks{10}, tourney.Payouts{50})
	assert.ErrorIs(t, err, tourney.ErrInvalidInput)
}

func TestExactCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := icm.NewExact(0).Calculate(ctx, tourney.Stacks{1, 2, 3}, tourney.Payouts{3, 2, 1})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, res)
}

func TestExactDoesNotMutateInputs(t *testing.T) {
	stacks := tourney.Stacks{5000, 3000, 2000}
	payouts := tourney.Payouts{50, 30}
	e := icm.NewExact(0)
	e.SetThreads(3)
	_, err := e.Calculate(context.Background(), stacks, payouts)
	require.NoError(t, err)
	assert.Equal(t, tourney.Stacks{5000, 3000, 2000}, stacks)
	assert.Equal(t, tourney.Payouts{50, 30}, payouts)
}
