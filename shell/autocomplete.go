package shell

import (
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/domino14/icm/equity"
)

// ShellCompleter provides context-aware autocomplete for shell commands
type ShellCompleter struct {
	sc *ShellController
}

func NewShellCompleter(sc *ShellController) *ShellCompleter {
	return &ShellCompleter{sc: sc}
}

// CommandMetadata holds autocomplete information for a command
type CommandMetadata struct {
	Options []string // Available options for this command (e.g., "-model")
	Args    []string // Possible argument values (for non-option arguments)
}

var commandMetadata = map[string]CommandMetadata{
	"calc": {
		Options: []string{"-model", "-sims", "-format"},
	},
	"selfcheck": {
		Options: []string{"-model"},
	},
	"paytable": {
		Options: []string{"-entrants"},
	},
	"help": {
		Args: []string{"calc", "model", "paytable", "selfcheck"},
	},
}

var commandNames = []string{
	"stacks", "payouts", "paytable", "player", "model", "sims", "threads",
	"calc", "selfcheck", "show", "help", "exit",
}

var formatValues = []string{"text", "yaml"}

func modelNames() []string {
	var names []string
	for _, m := range equity.Models() {
		names = append(names, m.String())
	}
	return names
}

// Do implements the readline.AutoCompleter interface
func (c *ShellCompleter) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])

	fields, err := shellquote.Split(text)
	if err != nil {
		// unterminated quote
		fields = strings.Fields(text)
	}
	endsWithSpace := len(text) > 0 && text[len(text)-1] == ' '

	var prefix string
	var completions []string

	if len(fields) == 0 || (len(fields) == 1 && !endsWithSpace) {
		if len(fields) == 1 {
			prefix = fields[0]
		}
		completions = commandNames
	} else {
		cmdName := fields[0]
		if !endsWithSpace {
			prefix = fields[len(fields)-1]
		}

		var lastCompleteField string
		if endsWithSpace {
			lastCompleteField = fields[len(fields)-1]
		} else if len(fields) > 1 {
			lastCompleteField = fields[len(fields)-2]
		}

		switch {
		case lastCompleteField == "-model":
			completions = modelNames()
		case lastCompleteField == "-format":
			completions = formatValues
		case cmdName == "model" && len(fields) <= 2:
			completions = modelNames()
		case cmdName == "paytable" && (len(fields) == 1 || (len(fields) == 2 && !endsWithSpace)):
			completions = c.sc.paytables.Names()
		}

		if completions == nil {
			if metadata, exists := commandMetadata[cmdName]; exists {
				if strings.HasPrefix(prefix, "-") || len(metadata.Args) == 0 {
					completions = metadata.Options
				} else {
					completions = metadata.Args
				}
			}
		}
	}

	var matches [][]rune
	for _, completion := range completions {
		if strings.HasPrefix(completion, prefix) {
			matches = append(matches, []rune(completion[len(prefix):]))
		}
	}
	return matches, len(prefix)
}
