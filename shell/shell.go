package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/domino14/icm/config"
	"github.com/domino14/icm/equity"
	"github.com/domino14/icm/paytable"
	"github.com/domino14/icm/tourney"
)

var (
	errNoData            = errors.New("no data in this line")
	errWrongOptionSyntax = errors.New("wrong format; all options need arguments")
	errNoStacks          = errors.New("please enter stacks first with the `stacks` command")
	errNoPayouts         = errors.New("please enter payouts first with the `payouts` or `paytable` command")
)

type ShellController struct {
	l      *readline.Instance
	out    io.Writer
	config *config.Config

	execPath   string
	gitVersion string

	stacks  tourney.Stacks
	payouts tourney.Payouts
	names   []string
	model   equity.Model

	paytables  *paytable.Registry
	printer    *message.Printer
	lastResult *tourney.Result

	cancelMu sync.Mutex
	cancel   context.CancelFunc
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func showMessage(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

func NewShellController(cfg *config.Config, execPath, gitVersion string) *ShellController {
	sc := newShellController(cfg, execPath, gitVersion, os.Stderr)
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[32micm>\033[0m ",
		HistoryFile:     "/tmp/icm_readline.tmp",
		AutoComplete:    NewShellCompleter(sc),
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		panic(err)
	}
	sc.l = l
	sc.out = l.Stderr()
	return sc
}

// newShellController builds a controller without a terminal. Output goes
// to out.
func newShellController(cfg *config.Config, execPath, gitVersion string, out io.Writer) *ShellController {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	sc := &ShellController{
		out:        out,
		config:     cfg,
		execPath:   execPath,
		gitVersion: gitVersion,
		paytables:  paytable.NewRegistry(),
		printer:    message.NewPrinter(language.English),
		model:      equity.MalmuthHarville,
	}
	if m, err := equity.ModelFromString(cfg.GetString(config.ConfigModel)); err == nil {
		sc.model = m
	} else {
		log.Warn().Str("model", cfg.GetString(config.ConfigModel)).Msg("unknown-default-model")
	}
	if path := cfg.GetString(config.ConfigPaytablePath); path != "" {
		tables, err := paytable.ReadFile(path)
		if err != nil {
			log.Err(err).Str("path", path).Msg("could-not-load-paytables")
		}
		for _, pt := range tables {
			sc.paytables.Add(pt)
		}
	}
	return sc
}

func (sc *ShellController) showMessage(msg string) {
	showMessage(msg, sc.out)
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

type shellcmd struct {
	cmd     string
	args    []string
	options map[string]string
}

// isOption reports whether a field names an option. Negative numbers are
// arguments.
func isOption(field string) bool {
	if len(field) < 2 || field[0] != '-' {
		return false
	}
	_, err := strconv.ParseFloat(field, 64)
	return err != nil
}

func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := fields[0]
	var args []string
	options := map[string]string{}

	for idx := 1; idx < len(fields); idx++ {
		if isOption(fields[idx]) {
			if idx == len(fields)-1 {
				return nil, errWrongOptionSyntax
			}
			options[fields[idx][1:]] = fields[idx+1]
			idx++
			continue
		}
		args = append(args, fields[idx])
	}
	log.Debug().Msgf("cmd: %v, args: %v, options: %v", cmd, args, options)

	return &shellcmd{
		cmd:     cmd,
		args:    args,
		options: options,
	}, nil
}

// ProcessCommand parses and runs a single line. An empty Response means
// there is nothing to print.
func (sc *ShellController) ProcessCommand(ctx context.Context, line string) (*Response, error) {
	cmd, err := extractFields(line)
	if err != nil {
		return nil, err
	}
	return sc.standardModeSwitch(ctx, cmd)
}

func (sc *ShellController) standardModeSwitch(ctx context.Context, cmd *shellcmd) (*Response, error) {
	switch cmd.cmd {
	case "stacks":
		return sc.setStacks(cmd)
	case "payouts":
		return sc.setPayouts(cmd)
	case "paytable":
		return sc.usePaytable(cmd)
	case "model":
		return sc.setModel(cmd)
	case "sims":
		return sc.setSims(cmd)
	case "threads":
		return sc.setThreads(cmd)
	case "player":
		return sc.setPlayer(cmd)
	case "calc":
		return sc.calc(ctx, cmd)
	case "selfcheck":
		return sc.selfcheck(ctx, cmd)
	case "show":
		return sc.show(cmd)
	case "help":
		return sc.help(cmd)
	}
	log.Debug().Msgf("you said: %v", strconv.Quote(cmd.cmd))
	return nil, fmt.Errorf("command %q not recognized; try `help`", cmd.cmd)
}

// Execute runs one command line, for non-interactive use.
func (sc *ShellController) Execute(sig chan os.Signal, line string) {
	if err := sc.runLine(line, sig); err != nil {
		sc.showError(err)
	}
}

func (sc *ShellController) runLine(line string, sig chan os.Signal) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	if line == "exit" || line == "bye" {
		sig <- syscall.SIGINT
		return nil
	}
	ctx, cancel := context.WithCancel(log.Logger.WithContext(context.Background()))
	sc.setCancel(cancel)
	defer func() {
		cancel()
		sc.setCancel(nil)
	}()
	resp, err := sc.ProcessCommand(ctx, line)
	if err != nil {
		return err
	}
	if resp != nil && resp.message != "" {
		sc.showMessage(resp.message)
	}
	return nil
}

func (sc *ShellController) Loop(sig chan os.Signal) {
	defer sc.l.Close()
	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			}
			continue
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		line = strings.TrimSpace(line)
		if line == "exit" || line == "bye" {
			sig <- syscall.SIGINT
			break
		}
		if err := sc.runLine(line, sig); err != nil {
			sc.showError(err)
		}
	}
	log.Debug().Msgf("Exiting readline loop...")
}

// Cleanup cancels any calculation still running.
func (sc *ShellController) Cleanup() {
	sc.cancelMu.Lock()
	defer sc.cancelMu.Unlock()
	if sc.cancel != nil {
		sc.cancel()
	}
}

func (sc *ShellController) setCancel(cancel context.CancelFunc) {
	sc.cancelMu.Lock()
	defer sc.cancelMu.Unlock()
	sc.cancel = cancel
}
