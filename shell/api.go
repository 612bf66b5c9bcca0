package shell

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/domino14/icm/config"
	"github.com/domino14/icm/equity"
	"github.com/domino14/icm/tourney"
)

type Response struct {
	message string
}

func msg(message string) *Response {
	return &Response{message: message}
}

// parseAmounts reads chip counts or prize amounts. Thousands separators
// are allowed.
func parseAmounts(fields []string) ([]float64, error) {
	vals := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(strings.ReplaceAll(f, ",", ""), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a number", tourney.ErrInvalidInput, f)
		}
		vals = append(vals, v)
	}
	return vals, nil
}

func (sc *ShellController) setStacks(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return nil, errors.New("usage: stacks <chips> <chips> ...")
	}
	vals, err := parseAmounts(cmd.args)
	if err != nil {
		return nil, err
	}
	stacks := tourney.Stacks(vals)
	if err := stacks.Validate(); err != nil {
		return nil, err
	}
	if len(stacks) != len(sc.stacks) {
		sc.names = nil
	}
	sc.stacks = stacks
	sc.lastResult = nil
	return msg(sc.printer.Sprintf("%d stacks set, %.0f chips in play", len(stacks), stacks.Total())), nil
}

func (sc *ShellController) setPayouts(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return nil, errors.New("usage: payouts <1st> <2nd> ...")
	}
	vals, err := parseAmounts(cmd.args)
	if err != nil {
		return nil, err
	}
	payouts := tourney.Payouts(vals)
	if err := payouts.Validate(); err != nil {
		return nil, err
	}
	sc.payouts = payouts
	sc.lastResult = nil
	return msg(sc.printer.Sprintf("%d places paid, prize pool %.2f", payouts.PaidPlaces(), payouts.Total())), nil
}

func (sc *ShellController) usePaytable(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return msg("Available paytables: " + strings.Join(sc.paytables.Names(), ", ")), nil
	}
	if len(cmd.args) != 2 {
		return nil, errors.New("usage: paytable <name> <prize pool> [-entrants N]")
	}
	pt, ok := sc.paytables.Get(cmd.args[0])
	if !ok {
		return nil, fmt.Errorf("no paytable named %q", cmd.args[0])
	}
	pool, err := strconv.Atoi(strings.ReplaceAll(cmd.args[1], ",", ""))
	if err != nil {
		return nil, err
	}
	entrants := len(sc.stacks)
	if e, ok := cmd.options["entrants"]; ok {
		entrants, err = strconv.Atoi(e)
		if err != nil {
			return nil, err
		}
	}
	if entrants == 0 {
		return nil, errors.New("set stacks first or pass -entrants")
	}
	payouts, err := pt.Payouts(pool, entrants)
	if err != nil {
		return nil, err
	}
	sc.payouts = payouts
	sc.lastResult = nil
	return msg(fmt.Sprintf("Payouts from %s for %d entrants: %s",
		pt.Name, entrants, sc.formatAmounts(payouts))), nil
}

func (sc *ShellController) setModel(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		var b strings.Builder
		for i, m := range equity.Models() {
			marker := " "
			if m == sc.model {
				marker = "*"
			}
			fmt.Fprintf(&b, "%s %d. %s\n", marker, i+1, m)
		}
		return msg(strings.TrimRight(b.String(), "\n")), nil
	}
	m, err := equity.ModelFromString(cmd.args[0])
	if err != nil {
		return nil, err
	}
	sc.model = m
	return msg("Model set to " + m.String()), nil
}

func (sc *ShellController) setIntConfig(cmd *shellcmd, key string, least int) (*Response, error) {
	if len(cmd.args) != 1 {
		return msg(sc.printer.Sprintf("%s: %d", key, sc.config.GetInt(key))), nil
	}
	n, err := strconv.Atoi(strings.ReplaceAll(cmd.args[0], ",", ""))
	if err != nil {
		return nil, err
	}
	if n < least {
		return nil, fmt.Errorf("%w: %s must be at least %d", tourney.ErrInvalidInput, key, least)
	}
	sc.config.Set(key, n)
	return msg(sc.printer.Sprintf("%s set to %d", key, n)), nil
}

func (sc *ShellController) setSims(cmd *shellcmd) (*Response, error) {
	return sc.setIntConfig(cmd, config.ConfigSimulations, 1)
}

func (sc *ShellController) setThreads(cmd *shellcmd) (*Response, error) {
	return sc.setIntConfig(cmd, config.ConfigThreads, 1)
}

func (sc *ShellController) setPlayer(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) < 2 {
		return nil, errors.New("usage: player <number> <name>")
	}
	if len(sc.stacks) == 0 {
		return nil, errNoStacks
	}
	idx, err := strconv.Atoi(cmd.args[0])
	if err != nil {
		return nil, err
	}
	if idx < 1 || idx > len(sc.stacks) {
		return nil, fmt.Errorf("player number must be between 1 and %d", len(sc.stacks))
	}
	if len(sc.names) != len(sc.stacks) {
		sc.names = make([]string, len(sc.stacks))
	}
	sc.names[idx-1] = strings.Join(cmd.args[1:], " ")
	return msg(fmt.Sprintf("Player %d is now %s", idx, sc.names[idx-1])), nil
}

func (sc *ShellController) calculator(cmd *shellcmd) (equity.Calculator, error) {
	m := sc.model
	if name, ok := cmd.options["model"]; ok {
		var err error
		if m, err = equity.ModelFromString(name); err != nil {
			return nil, err
		}
	}
	if sims, ok := cmd.options["sims"]; ok {
		n, err := strconv.Atoi(sims)
		if err != nil {
			return nil, err
		}
		// options only apply to this command
		prev := sc.config.GetInt(config.ConfigSimulations)
		sc.config.Set(config.ConfigSimulations, n)
		defer sc.config.Set(config.ConfigSimulations, prev)
	}
	return equity.NewCalculator(sc.config, m)
}

func (sc *ShellController) calc(ctx context.Context, cmd *shellcmd) (*Response, error) {
	if len(sc.stacks) == 0 {
		return nil, errNoStacks
	}
	if len(sc.payouts) == 0 {
		return nil, errNoPayouts
	}
	format := "text"
	if f, ok := cmd.options["format"]; ok {
		format = f
	}
	if format != "text" && format != "yaml" {
		return nil, fmt.Errorf("unknown format %q; use text or yaml", format)
	}
	calc, err := sc.calculator(cmd)
	if err != nil {
		return nil, err
	}
	zerolog.Ctx(ctx).Debug().Str("model", calc.Name()).Int("players", len(sc.stacks)).Msg("calculating")

	res, err := calc.Calculate(ctx, sc.stacks, sc.payouts)
	if err != nil {
		var ue *tourney.UnsupportedError
		if errors.As(err, &ue) {
			return nil, fmt.Errorf("%w; try `calc -model monte-carlo`", err)
		}
		return nil, err
	}
	sc.lastResult = res

	if format == "yaml" {
		out, err := yaml.Marshal(sc.namedResult(res))
		if err != nil {
			return nil, err
		}
		return msg(strings.TrimRight(string(out), "\n")), nil
	}
	return msg(sc.resultTable(res)), nil
}

func (sc *ShellController) selfcheck(ctx context.Context, cmd *shellcmd) (*Response, error) {
	m := sc.model
	if name, ok := cmd.options["model"]; ok {
		var err error
		if m, err = equity.ModelFromString(name); err != nil {
			return nil, err
		}
	}
	calc, err := equity.NewSelfCheckCalculator(sc.config, m)
	if err != nil {
		return nil, err
	}
	rep, err := equity.SelfCheck(ctx, calc)
	if err != nil {
		return nil, err
	}
	return msg(sc.selfCheckReport(rep)), nil
}

func (sc *ShellController) show(cmd *shellcmd) (*Response, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Model:       %s\n", sc.model)
	b.WriteString(sc.printer.Sprintf("Simulations: %d\n", sc.config.GetInt(config.ConfigSimulations)))
	threads := sc.config.GetInt(config.ConfigThreads)
	if threads == 0 {
		b.WriteString("Threads:     auto\n")
	} else {
		fmt.Fprintf(&b, "Threads:     %d\n", threads)
	}
	fmt.Fprintf(&b, "Exact limit: %d players\n", sc.config.GetInt(config.ConfigExactCeiling))
	if len(sc.payouts) > 0 {
		fmt.Fprintf(&b, "Payouts:     %s\n", sc.formatAmounts(sc.payouts))
	} else {
		b.WriteString("Payouts:     none\n")
	}
	if len(sc.stacks) == 0 {
		b.WriteString("Stacks:      none")
		return msg(b.String()), nil
	}
	b.WriteString("\n")
	b.WriteString(sc.stacksTable())
	return msg(strings.TrimRight(b.String(), "\n")), nil
}

func (sc *ShellController) help(cmd *shellcmd) (*Response, error) {
	if cmd.args == nil {
		return usage("standard")
	}
	return usageTopic(cmd.args[0])
}
