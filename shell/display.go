package shell

import (
	"fmt"
	"strings"

	"github.com/domino14/icm/equity"
	"github.com/domino14/icm/tourney"
)

// confidence used for the interval shown next to simulated equities.
const displayConfidence = 95

// ordinal renders a finishing position, 0-based, as 1st, 2nd, 3rd...
func ordinal(pos int) string {
	n := pos + 1
	suffix := "th"
	switch n % 100 {
	case 11, 12, 13:
	default:
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}

func (sc *ShellController) playerName(i int) string {
	if i < len(sc.names) && sc.names[i] != "" {
		return sc.names[i]
	}
	return fmt.Sprintf("Player %d", i+1)
}

func (sc *ShellController) formatAmounts(vals []float64) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = sc.printer.Sprintf("%s: %.2f", ordinal(i), v)
	}
	return strings.Join(parts, ", ")
}

func (sc *ShellController) stacksTable() string {
	var b strings.Builder
	total := sc.stacks.Total()
	b.WriteString(fmt.Sprintf("%-16s%14s%9s\n", "Player", "Stack", "Chips%"))
	for i, s := range sc.stacks {
		b.WriteString(sc.printer.Sprintf("%-16s%14.0f%8.2f%%\n", sc.playerName(i), s, 100*s/total))
	}
	return b.String()
}

func (sc *ShellController) resultTable(res *tourney.Result) string {
	var b strings.Builder
	total := sc.stacks.Total()
	pool := res.TotalEquity()

	fmt.Fprintf(&b, "Model: %s", res.Model)
	if res.Iterations > 0 {
		b.WriteString(sc.printer.Sprintf(" (%d simulations)", res.Iterations))
	}
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "%-16s%14s%9s%12s%9s", "Player", "Stack", "Chips%", "Equity", "Equity%")
	if res.StdErrs != nil {
		fmt.Fprintf(&b, "%12s", fmt.Sprintf("±%d%%", displayConfidence))
	}
	b.WriteString("\n")
	for i, eq := range res.Equities {
		share := 0.0
		if pool > 0 {
			share = 100 * eq / pool
		}
		b.WriteString(sc.printer.Sprintf("%-16s%14.0f%8.2f%%%12.2f%8.2f%%",
			sc.playerName(i), sc.stacks[i], 100*sc.stacks[i]/total, eq, share))
		if res.StdErrs != nil {
			b.WriteString(sc.printer.Sprintf("%12.2f", res.ConfidenceInterval(i, displayConfidence)))
		}
		b.WriteString("\n")
	}

	if res.Probabilities == nil {
		return strings.TrimRight(b.String(), "\n")
	}
	b.WriteString("\nFinishing position probabilities\n")
	fmt.Fprintf(&b, "%-16s", "Player")
	for pos := range res.Probabilities {
		fmt.Fprintf(&b, "%8s", ordinal(pos))
	}
	b.WriteString("\n")
	for player := range res.Equities {
		fmt.Fprintf(&b, "%-16s", sc.playerName(player))
		for pos := range res.Probabilities {
			fmt.Fprintf(&b, "%7.2f%%", 100*res.Probabilities[pos][player])
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

type namedPlayer struct {
	Name   string  `yaml:"name"`
	Stack  float64 `yaml:"stack"`
	Equity float64 `yaml:"equity"`
	// Positions maps 1st, 2nd... to the chance of finishing there.
	Positions map[string]float64 `yaml:"positions,omitempty"`
	StdErr    float64            `yaml:"stderr,omitempty"`
}

type namedResult struct {
	Model      string        `yaml:"model"`
	Iterations int           `yaml:"iterations,omitempty"`
	Payouts    []float64     `yaml:"payouts"`
	Players    []namedPlayer `yaml:"players"`
}

func (sc *ShellController) namedResult(res *tourney.Result) *namedResult {
	nr := &namedResult{
		Model:      res.Model,
		Iterations: res.Iterations,
		Payouts:    sc.payouts,
	}
	for i, eq := range res.Equities {
		p := namedPlayer{Name: sc.playerName(i), Stack: sc.stacks[i], Equity: eq}
		if res.Probabilities != nil {
			p.Positions = make(map[string]float64, len(res.Probabilities))
			for pos := range res.Probabilities {
				p.Positions[ordinal(pos)] = res.Probabilities[pos][i]
			}
		}
		if i < len(res.StdErrs) {
			p.StdErr = res.StdErrs[i]
		}
		nr.Players = append(nr.Players, p)
	}
	return nr
}

func (sc *ShellController) selfCheckReport(rep *equity.SelfCheckReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Self-check with %s\n", rep.Model)
	b.WriteString(sc.printer.Sprintf("Stacks %v, payouts %v\n\n", equity.SelfCheckStacks, equity.SelfCheckPayouts))
	fmt.Fprintf(&b, "%-10s%10s%10s\n", "Player", "Expected", "Got")
	for i, want := range equity.SelfCheckEquities {
		got := "-"
		if i < len(rep.Result.Equities) {
			got = fmt.Sprintf("%.2f", rep.Result.Equities[i])
		}
		fmt.Fprintf(&b, "%-10d%10.2f%10s\n", i+1, want, got)
	}
	fmt.Fprintf(&b, "\nLargest equity difference: %.4f (tolerance %.2f)\n",
		rep.MaxEquityDiff, equity.SelfCheckEquityTolerance)
	if rep.CheckedProbabilities {
		fmt.Fprintf(&b, "Largest probability difference: %.4f (tolerance %.2f)\n",
			rep.MaxProbabilityDiff, equity.SelfCheckProbabilityTolerance)
	} else {
		b.WriteString("No probability matrix to check\n")
	}
	if rep.Passed {
		b.WriteString("PASSED")
	} else {
		b.WriteString("FAILED")
	}
	return b.String()
}
