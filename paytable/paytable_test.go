package paytable

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domino14/icm/tourney"
)

func TestBuiltinsSumTo10000(t *testing.T) {
	for _, pt := range builtins() {
		assert.NoError(t, pt.Validate(), pt.Name)
	}
}

func TestPayout(t *testing.T) {
	barge, ok := NewRegistry().Get("BARGE")
	require.True(t, ok)

	tests := []struct {
		name          string
		prizePool     int
		numPlayers    int
		wantNumPrizes int
	}{
		{"2 players - winner takes all", 999983, 2, 1},
		{"5 players - top 2", 999983, 5, 2},
		{"10 players - top 3", 999983, 10, 3},
		{"20 players - top 4", 999983, 20, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prizes, err := barge.Payout(tt.prizePool, tt.numPlayers)
			require.NoError(t, err)
			assert.Len(t, prizes, tt.wantNumPrizes)
			sum := 0
			for i, p := range prizes {
				sum += p
				if i > 0 {
					assert.LessOrEqual(t, p, prizes[i-1])
				}
			}
			assert.Equal(t, tt.prizePool, sum)
		})
	}
}

func TestPayoutsRoundToIncrement(t *testing.T) {
	barge, _ := NewRegistry().Get("barge")
	p, err := barge.Payouts(1000, 10)
	require.NoError(t, err)
	assert.Equal(t, tourney.Payouts{500, 300, 200}, p)

	_, err = barge.Payout(1000, 500)
	assert.Error(t, err)
	_, err = barge.Payout(-1, 10)
	assert.True(t, errors.Is(err, tourney.ErrInvalidInput))
}

func TestRead(t *testing.T) {
	doc := `
paytables:
  - name: Home Game
    increment: 10
    rows:
      - min_players: 2
        max_players: 9
        percentages: [7000, 3000]
`
	tables, err := Read(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, "Home Game", tables[0].Name)

	reg := NewRegistry()
	reg.Add(tables[0])
	pt, ok := reg.Get("home game")
	require.True(t, ok)
	p, err := pt.Payouts(200, 6)
	require.NoError(t, err)
	assert.Equal(t, tourney.Payouts{140, 60}, p)
	assert.Contains(t, reg.Names(), "Home Game")
}

func TestReadRejectsBadTable(t *testing.T) {
	doc := `
paytables:
  - name: broken
    rows:
      - min_players: 2
        max_players: 9
        percentages: [7000, 2000]
`
	_, err := Read(strings.NewReader(doc))
	assert.ErrorIs(t, err, tourney.ErrInvalidInput)
}
