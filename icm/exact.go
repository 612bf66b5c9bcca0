package icm

import (
	"context"
	"math"
	"runtime"
	"time"

	"github.com/pbnjay/memory"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/icm/tourney"
)

const (
	ExactModelName = "malmuth-harville"

	// DefaultExactCeiling is the largest field Exact will enumerate unless
	// configured otherwise. Enumerating every elimination order is O(n!);
	// even with memoization over active subsets the work and memory grow
	// as 2^n, so fields much past ten players should use Monte Carlo.
	DefaultExactCeiling = 10
	// MaxExactCeiling bounds the subset table at 2^20 entries.
	MaxExactCeiling = 20

	// equityPlaces is the number of decimal places reported equities are
	// rounded to.
	equityPlaces = 4
	// divPlaces is the fixed-point precision used for every division and
	// product inside the recursion.
	divPlaces int32 = 28
)

var decOne = decimal.NewFromInt(1)

// Exact computes Malmuth-Harville ICM equities and the full finishing
// probability matrix by enumerating every way the tournament can resolve.
// Each finishing place is taken by one of the remaining players with
// probability proportional to their stack.
type Exact struct {
	ceiling int
	threads int
}

// NewExact returns an exact model that refuses fields larger than ceiling.
// A ceiling of zero selects DefaultExactCeiling.
func NewExact(ceiling int) *Exact {
	e := &Exact{
		threads: int(math.Max(1, float64(runtime.NumCPU()-1))),
	}
	e.SetCeiling(ceiling)
	return e
}

func (e *Exact) Name() string {
	return ExactModelName
}

// SetCeiling sets the largest number of players Exact will enumerate.
func (e *Exact) SetCeiling(ceiling int) {
	switch {
	case ceiling <= 0:
		ceiling = DefaultExactCeiling
	case ceiling < tourney.MinPlayers:
		ceiling = tourney.MinPlayers
	case ceiling > MaxExactCeiling:
		log.Warn().Int("requested", ceiling).Int("max", MaxExactCeiling).
			Msg("exact-ceiling-clamped")
		ceiling = MaxExactCeiling
	}
	e.ceiling = ceiling
}

func (e *Exact) Ceiling() int {
	return e.ceiling
}

// SetThreads sets how many players' equities are evaluated concurrently.
func (e *Exact) SetThreads(threads int) {
	e.threads = max(1, threads)
}

func (e *Exact) Threads() int {
	return e.threads
}

// Calculate returns exact equities, rounded to four decimal places, and the
// [position][player] probability matrix. It fails with an
// *tourney.UnsupportedError before doing any work if the field is larger
// than the ceiling.
func (e *Exact) Calculate(ctx context.Context, stacks tourney.Stacks, payouts tourney.Payouts) (*tourney.Result, error) {
	logger := zerolog.Ctx(ctx)

	norm, err := tourney.ValidateInputs(stacks, payouts)
	if err != nil {
		return nil, err
	}
	n := len(stacks)
	if n > e.ceiling {
		return nil, &tourney.UnsupportedError{Players: n, Ceiling: e.ceiling}
	}

	ev := newEvaluator(stacks, norm)
	need := tableBytes(n, e.threads)
	if totalMem := memory.TotalMemory(); totalMem > 0 && need > totalMem/2 {
		logger.Warn().Uint64("estimated-table-bytes", need).
			Uint64("total-system-memory-bytes", totalMem).Msg("exact-icm-memory-pressure")
	}
	logger.Debug().Int("players", n).Int("paid-places", ev.paid).
		Int("threads", e.threads).Uint64("estimated-table-bytes", need).Msg("exact-icm-start")
	tstart := time.Now()

	equities := make([]float64, n)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.threads)
	for p := range n {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			equities[p] = ev.playerEquity(p).Round(equityPlaces).InexactFloat64()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	probabilities := ev.probabilities()

	logger.Debug().Dur("elapsed", time.Since(tstart)).Msg("exact-icm-done")
	return &tourney.Result{
		Model:         ExactModelName,
		Equities:      equities,
		Probabilities: probabilities,
	}, nil
}

// Rough per-entry sizes of the memo maps and the reach table.
const (
	memoEntryBytes  = 80
	reachEntryBytes = 40
)

// tableBytes estimates peak memory for n players: one memo per running
// goroutine, each holding up to 2^n subsets, and the reach table.
func tableBytes(n, threads int) uint64 {
	subsets := uint64(1) << n
	return subsets * (uint64(min(threads, n))*memoEntryBytes + reachEntryBytes)
}

// evaluator holds the decimal form of one call's inputs. It is read-only
// once built and is shared between the per-player goroutines.
type evaluator struct {
	n       int
	stacks  []decimal.Decimal
	payouts []decimal.Decimal
	paid    int
}

func newEvaluator(stacks tourney.Stacks, payouts tourney.Payouts) *evaluator {
	ev := &evaluator{
		n:       len(stacks),
		stacks:  make([]decimal.Decimal, len(stacks)),
		payouts: make([]decimal.Decimal, len(payouts)),
		paid:    payouts.PaidPlaces(),
	}
	for i, s := range stacks {
		ev.stacks[i] = decimal.NewFromFloat(s)
	}
	for i, p := range payouts {
		ev.payouts[i] = decimal.NewFromFloat(p)
	}
	return ev
}

func (ev *evaluator) total(members []int) decimal.Decimal {
	var t decimal.Decimal
	for _, i := range members {
		t = t.Add(ev.stacks[i])
	}
	return t
}

// share is the probability that player x takes the best place still open
// among the members. When only zero stacks remain the place is split
// evenly between them.
func (ev *evaluator) share(x int, members []int, total decimal.Decimal) decimal.Decimal {
	if total.IsZero() {
		return decOne.DivRound(decimal.NewFromInt(int64(len(members))), divPlaces)
	}
	return ev.stacks[x].DivRound(total, divPlaces)
}

type playerEval struct {
	*evaluator
	player int
	memo   map[tourney.ActiveSet]decimal.Decimal
}

func (ev *evaluator) playerEquity(player int) decimal.Decimal {
	pe := &playerEval{
		evaluator: ev,
		player:    player,
		memo:      make(map[tourney.ActiveSet]decimal.Decimal),
	}
	return pe.equity(tourney.FullSet(ev.n), 0)
}

// equity is the player's expected prize from place depth onward, given that
// exactly the players in active are left to take places depth, depth+1, ...
// The active set always contains the player.
func (pe *playerEval) equity(active tourney.ActiveSet, depth int) decimal.Decimal {
	if eq, ok := pe.memo[active]; ok {
		return eq
	}
	var buf [tourney.MaxActivePlayers]int
	members := active.Members(buf[:0])
	total := pe.total(members)

	eq := pe.share(pe.player, members, total).Mul(pe.payouts[depth]).Round(divPlaces)
	if depth+1 < pe.paid {
		for _, i := range members {
			if i == pe.player {
				continue
			}
			w := pe.share(i, members, total)
			if w.IsZero() {
				continue
			}
			sub := pe.equity(active.Without(i), depth+1)
			eq = eq.Add(sub.Mul(w).Round(divPlaces))
		}
	}
	pe.memo[active] = eq
	return eq
}

// probabilities walks every elimination path at once, carrying the
// probability of reaching each active subset. Supersets always have larger
// bit patterns than their subsets, so counting down visits every set after
// all the sets it can be reached from.
func (ev *evaluator) probabilities() [][]float64 {
	n := ev.n
	full := tourney.FullSet(n)
	reach := make([]decimal.Decimal, int(full)+1)
	reach[full] = decOne

	dec := make([][]decimal.Decimal, n)
	for pos := range dec {
		dec[pos] = make([]decimal.Decimal, n)
	}

	var buf [tourney.MaxActivePlayers]int
	for mask := full; mask > 0; mask-- {
		r := reach[mask]
		if r.IsZero() {
			continue
		}
		members := mask.Members(buf[:0])
		if len(members) == 1 {
			last := members[0]
			dec[n-1][last] = dec[n-1][last].Add(r)
			continue
		}
		pos := n - len(members)
		total := ev.total(members)
		for _, i := range members {
			w := ev.share(i, members, total)
			if w.IsZero() {
				continue
			}
			p := r.Mul(w).Round(divPlaces)
			dec[pos][i] = dec[pos][i].Add(p)
			next := mask.Without(i)
			reach[next] = reach[next].Add(p)
		}
	}

	probs := tourney.NewMatrix(n)
	for pos := range dec {
		for player := range dec[pos] {
			probs[pos][player] = dec[pos][player].InexactFloat64()
		}
	}
	return probs
}
