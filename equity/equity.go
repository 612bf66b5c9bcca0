// Package equity chooses and configures an ICM model. Every model
// satisfies Calculator, so callers can switch between the fast
// approximation, the exact enumeration and simulation by name.
package equity

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/domino14/icm/cache"
	"github.com/domino14/icm/config"
	"github.com/domino14/icm/icm"
	"github.com/domino14/icm/montecarlo"
	"github.com/domino14/icm/tourney"
)

// Calculator is an ICM model.
type Calculator interface {
	Name() string
	// Calculate returns each player's expected share of payouts given the
	// stacks. The result belongs to the caller.
	Calculate(ctx context.Context, stacks tourney.Stacks, payouts tourney.Payouts) (*tourney.Result, error)
}

type Model int

const (
	ChipChop Model = iota + 1
	MalmuthHarville
	MonteCarlo
)

func (m Model) String() string {
	switch m {
	case ChipChop:
		return icm.ChipChopModelName
	case MalmuthHarville:
		return icm.ExactModelName
	case MonteCarlo:
		return montecarlo.ModelName
	}
	return fmt.Sprintf("Model(%d)", int(m))
}

// Models lists every model in menu order.
func Models() []Model {
	return []Model{ChipChop, MalmuthHarville, MonteCarlo}
}

// ModelFromString accepts a model's name, a short alias, or its menu number.
func ModelFromString(s string) (Model, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "chip-chop", "chipchop", "chip":
		return ChipChop, nil
	case "2", "malmuth-harville", "mh", "exact", "icm":
		return MalmuthHarville, nil
	case "3", "monte-carlo", "montecarlo", "mc", "sim":
		return MonteCarlo, nil
	}
	return 0, fmt.Errorf("%w: unknown model %q", tourney.ErrInvalidInput, s)
}

// NewCalculator builds a model configured from cfg. Deterministic models
// are wrapped in the global result cache.
func NewCalculator(cfg *config.Config, m Model) (Calculator, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	threads := cfg.GetInt(config.ConfigThreads)

	switch m {
	case ChipChop:
		return NewCachedCalculator(icm.ChipChopper{}, cache.Global()), nil

	case MalmuthHarville:
		e := icm.NewExact(cfg.GetInt(config.ConfigExactCeiling))
		if threads > 0 {
			e.SetThreads(threads)
		}
		return NewCachedCalculator(e, cache.Global()), nil

	case MonteCarlo:
		s := montecarlo.NewSimmer()
		if threads > 0 {
			s.SetThreads(threads)
		}
		s.SetSimulations(cfg.GetInt(config.ConfigSimulations))
		if seed := cfg.GetUint64(config.ConfigSeed); seed != 0 {
			s.SetSeed(seed)
		}
		sc, ok := montecarlo.StoppingConditionFromConfidence(cfg.GetInt(config.ConfigAutostop))
		if !ok {
			return nil, fmt.Errorf("%w: autostop must be 0, 90, 95 or 99, got %d",
				tourney.ErrInvalidInput, cfg.GetInt(config.ConfigAutostop))
		}
		s.SetStoppingCondition(sc)
		if tol := cfg.GetFloat64(config.ConfigAutostopTolerance); tol > 0 {
			s.SetAutostopTolerance(tol)
		}
		log.Debug().Int("threads", s.Threads()).Int("simulations", s.Simulations()).
			Msg("configured-simmer")
		return s, nil
	}
	return nil, fmt.Errorf("%w: unknown model %d", tourney.ErrInvalidInput, int(m))
}

// CachedCalculator remembers the results of a deterministic model.
type CachedCalculator struct {
	Calculator
	cache *cache.Cache
}

func NewCachedCalculator(c Calculator, ch *cache.Cache) *CachedCalculator {
	return &CachedCalculator{Calculator: c, cache: ch}
}

// Unwrap returns the underlying model.
func (c *CachedCalculator) Unwrap() Calculator {
	return c.Calculator
}

func (c *CachedCalculator) Calculate(ctx context.Context, stacks tourney.Stacks, payouts tourney.Payouts) (*tourney.Result, error) {
	norm, err := tourney.ValidateInputs(stacks, payouts)
	if err != nil {
		return nil, err
	}
	// A cached answer must not bypass a ceiling lowered since it was stored.
	if e, ok := c.Calculator.(*icm.Exact); ok && len(stacks) > e.Ceiling() {
		return nil, &tourney.UnsupportedError{Players: len(stacks), Ceiling: e.Ceiling()}
	}
	key := cache.KeyFor(c.Name(), stacks, norm)
	return c.cache.Load(key, func() (*tourney.Result, error) {
		return c.Calculator.Calculate(ctx, stacks, norm)
	})
}
