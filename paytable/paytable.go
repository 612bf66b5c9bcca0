// Package paytable turns a prize pool into a payout schedule using
// percentage tables keyed by the number of entrants.
package paytable

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/domino14/icm/tourney"
)

// Row defines the payout percentages for a range of entrant counts.
// Percentages are in basis points (10000 = 100%).
type Row struct {
	MinPlayers  int   `yaml:"min_players"` // inclusive
	MaxPlayers  int   `yaml:"max_players"` // inclusive
	Percentages []int `yaml:"percentages"` // index 0 = 1st place
}

// Paytable is a named set of rows.
type Paytable struct {
	Name      string `yaml:"name"`
	Increment int    `yaml:"increment"` // smallest prize unit
	Rows      []Row  `yaml:"rows"`
}

// Payout splits totalPrizePool for a tournament with numPlayers entrants.
// Each prize is rounded down to the table's increment and whatever is left
// is handed out an increment at a time from first place down.
func (pt *Paytable) Payout(totalPrizePool int, numPlayers int) ([]int, error) {
	if totalPrizePool < 0 {
		return nil, fmt.Errorf("%w: prize pool %d is negative", tourney.ErrInvalidInput, totalPrizePool)
	}
	percentages := pt.findRow(numPlayers)
	if len(percentages) == 0 {
		return nil, fmt.Errorf("no payout row found for %d players", numPlayers)
	}
	increment := max(pt.Increment, 1)

	prizes := make([]int, len(percentages))
	totalAllocated := 0
	for i, pct := range percentages {
		prizeRaw := (totalPrizePool * pct) / 10000
		prizes[i] = (prizeRaw / increment) * increment
		totalAllocated += prizes[i]
	}

	remainder := totalPrizePool - totalAllocated
	for i := 0; remainder > 0; i++ {
		delta := min(remainder, increment)
		prizes[i%len(prizes)] += delta
		remainder -= delta
	}
	return prizes, nil
}

// Payouts is Payout converted to a payout schedule.
func (pt *Paytable) Payouts(totalPrizePool int, numPlayers int) (tourney.Payouts, error) {
	prizes, err := pt.Payout(totalPrizePool, numPlayers)
	if err != nil {
		return nil, err
	}
	p := make(tourney.Payouts, len(prizes))
	for i, v := range prizes {
		p[i] = float64(v)
	}
	return p, nil
}

func (pt *Paytable) findRow(numPlayers int) []int {
	for _, row := range pt.Rows {
		if numPlayers >= row.MinPlayers && numPlayers <= row.MaxPlayers {
			return row.Percentages
		}
	}
	return nil
}

// Validate checks that every row pays out exactly 100%.
func (pt *Paytable) Validate() error {
	if pt.Name == "" {
		return fmt.Errorf("%w: paytable has no name", tourney.ErrInvalidInput)
	}
	for i, row := range pt.Rows {
		sum := 0
		for _, p := range row.Percentages {
			if p < 0 {
				return fmt.Errorf("%w: paytable %q row %d has a negative percentage",
					tourney.ErrInvalidInput, pt.Name, i)
			}
			sum += p
		}
		if sum != 10000 {
			return fmt.Errorf("%w: paytable %q row %d[%d,%d] sums to %d, want 10000",
				tourney.ErrInvalidInput, pt.Name, i, row.MinPlayers, row.MaxPlayers, sum)
		}
		if row.MinPlayers > row.MaxPlayers {
			return fmt.Errorf("%w: paytable %q row %d has min_players > max_players",
				tourney.ErrInvalidInput, pt.Name, i)
		}
	}
	return nil
}

type paytableFile struct {
	Paytables []*Paytable `yaml:"paytables"`
}

// Read parses a YAML document holding a list of paytables under the
// "paytables" key and validates each one.
func Read(r io.Reader) ([]*Paytable, error) {
	var f paytableFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, err
	}
	for _, pt := range f.Paytables {
		if err := pt.Validate(); err != nil {
			return nil, err
		}
	}
	return f.Paytables, nil
}

// ReadFile reads paytables from a YAML file.
func ReadFile(path string) ([]*Paytable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

// Registry looks paytables up by case-insensitive name.
type Registry struct {
	tables map[string]*Paytable
	names  []string
}

// NewRegistry returns a registry holding the built-in tables.
func NewRegistry() *Registry {
	r := &Registry{tables: map[string]*Paytable{}}
	for _, pt := range builtins() {
		r.Add(pt)
	}
	return r
}

// Add registers pt, replacing any table with the same name.
func (r *Registry) Add(pt *Paytable) {
	key := strings.ToLower(pt.Name)
	if _, ok := r.tables[key]; !ok {
		r.names = append(r.names, pt.Name)
	}
	r.tables[key] = pt
}

func (r *Registry) Get(name string) (*Paytable, bool) {
	pt, ok := r.tables[strings.ToLower(name)]
	return pt, ok
}

// Names lists table names in the order they were added.
func (r *Registry) Names() []string {
	return r.names
}
