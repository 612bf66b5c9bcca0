// Package montecarlo estimates ICM equities by simulating tournament
// outcomes. In other words, "simming".
package montecarlo

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"lukechampine.com/frand"

	"github.com/domino14/icm/tourney"
)

/*
	How to simulate:

	Workers claim chunks of trials from a shared counter until the
	requested number of simulations is used up.
	For each trial:
		draw a full finishing order from a private copy of the stacks
		count each player's finishing position
		record the prize each player won

	After each chunk the worker folds its counts into the shared totals
	and, if autostopping is on, checks whether every player's equity is
	already known precisely enough.
*/

const (
	ModelName = "monte-carlo"

	DefaultSimulations = 100000

	// chunkSize trials are run between cancellation checks and merges.
	chunkSize = 1024
)

var errAlreadySimming = errors.New("a simulation is already running")

// Simmer runs Monte Carlo ICM simulations. Its settings may be changed
// between runs; Calculate may not be called concurrently on one Simmer.
type Simmer struct {
	threads     int
	simulations int

	seeded bool
	seed   uint64

	autostopper autostopper

	iterationCount atomic.Uint64
	simming        atomic.Bool
}

// NewSimmer returns a simmer with the default number of simulations and
// one thread per spare CPU.
func NewSimmer() *Simmer {
	return &Simmer{
		threads:     int(math.Max(1, float64(runtime.NumCPU()-1))),
		simulations: DefaultSimulations,
		autostopper: autostopper{tolerance: DefaultAutostopTolerance},
	}
}

func (s *Simmer) Name() string {
	return ModelName
}

// SetSimulations sets the number of trials. Non-positive values are
// rejected by Calculate, not here, so callers get the error where they
// ask for a result.
func (s *Simmer) SetSimulations(n int) {
	s.simulations = n
}

func (s *Simmer) Simulations() int {
	return s.simulations
}

func (s *Simmer) SetThreads(threads int) {
	s.threads = max(1, threads)
}

func (s *Simmer) Threads() int {
	return s.threads
}

// SetSeed makes results reproducible. Every chunk of trials gets its own
// generator derived from the seed and the chunk's index, so the outcome
// does not depend on the number of threads.
func (s *Simmer) SetSeed(seed uint64) {
	s.seeded = true
	s.seed = seed
}

// ClearSeed goes back to unseeded, entropy-backed randomness.
func (s *Simmer) ClearSeed() {
	s.seeded = false
	s.seed = 0
}

func (s *Simmer) SetStoppingCondition(sc StoppingCondition) {
	s.autostopper.stoppingCondition = sc
}

// SetAutostopTolerance sets the confidence interval half-width, as a
// fraction of the prize pool, that every player must reach to autostop.
func (s *Simmer) SetAutostopTolerance(t float64) {
	s.autostopper.tolerance = t
}

func (s *Simmer) IsSimming() bool {
	return s.simming.Load()
}

// Iterations returns how many trials have been handed out so far in the
// current or most recent run.
func (s *Simmer) Iterations() int {
	return int(min(s.iterationCount.Load(), uint64(max(s.simulations, 0))))
}

type simState struct {
	stacks  tourney.Stacks
	payouts tourney.Payouts
	pool    float64
	total   uint64

	mu      sync.Mutex
	shared  *accumulator
	stopped atomic.Bool
}

// Calculate runs the simulation and returns estimated equities, the
// [position][player] probability matrix and the standard error of each
// equity. It blocks until all trials finish, the autostopper fires, or
// ctx is done; a canceled run returns ctx's error and no result.
func (s *Simmer) Calculate(ctx context.Context, stacks tourney.Stacks, payouts tourney.Payouts) (*tourney.Result, error) {
	logger := zerolog.Ctx(ctx)

	if s.simulations <= 0 {
		return nil, fmt.Errorf("%w: number of simulations must be positive, got %d",
			tourney.ErrInvalidInput, s.simulations)
	}
	norm, err := tourney.ValidateInputs(stacks, payouts)
	if err != nil {
		return nil, err
	}
	if !s.simming.CompareAndSwap(false, true) {
		return nil, errAlreadySimming
	}
	defer s.simming.Store(false)

	n := len(stacks)
	st := &simState{
		stacks:  stacks.Copy(),
		payouts: norm,
		pool:    norm.Total(),
		total:   uint64(s.simulations),
		shared:  newAccumulator(n),
	}
	s.iterationCount.Store(0)

	logger.Debug().Int("players", n).Int("simulations", s.simulations).
		Int("threads", s.threads).Bool("seeded", s.seeded).Msg("sim-started")
	tstart := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	for t := range s.threads {
		g.Go(func() error {
			return s.simWorker(gctx, t, st)
		})
	}
	if err := g.Wait(); err != nil {
		logger.Debug().AnErr("err", err).Msg("sim-aborted")
		return nil, err
	}

	elapsed := time.Since(tstart)
	logger.Debug().Int("iterations", st.shared.trials).
		Float64("elapsed-sec", elapsed.Seconds()).
		Float64("trials-per-sec", float64(st.shared.trials)/elapsed.Seconds()).
		Msg("sim-ended")

	probs := st.shared.probabilities()
	return &tourney.Result{
		Model:         ModelName,
		Equities:      tourney.EquityVector(probs, norm),
		Probabilities: probs,
		StdErrs:       st.shared.stdErrs(),
		Iterations:    st.shared.trials,
	}, nil
}

func (s *Simmer) simWorker(ctx context.Context, thread int, st *simState) error {
	logger := zerolog.Ctx(ctx)

	var rng RandSource
	if !s.seeded {
		rng = frand.New()
	} else {
		rng = rand.New(rand.NewPCG(s.seed, 0))
	}
	sampler, err := NewSampler(st.stacks, rng)
	if err != nil {
		return err
	}
	local := newAccumulator(len(st.stacks))
	order := make(EliminationOrder, len(st.stacks))

	for {
		if st.stopped.Load() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		end := s.iterationCount.Add(chunkSize)
		start := end - chunkSize
		if start >= st.total {
			return nil
		}
		end = min(end, st.total)
		if s.seeded {
			sampler.SetRand(rand.New(rand.NewPCG(s.seed, start/chunkSize)))
		}
		for range end - start {
			local.record(sampler.DrawInto(order), st.payouts)
		}

		st.mu.Lock()
		st.shared.merge(local)
		stop := s.autostopper.shouldStop(st.shared, st.pool)
		trials := st.shared.trials
		st.mu.Unlock()
		local.reset()

		if stop && !st.stopped.Swap(true) {
			logger.Info().Int("thread", thread).Int("iterations", trials).
				Msg("reached stopping condition")
		}
	}
}
