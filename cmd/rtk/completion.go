package main

import (
	"fmt"
	"os"

	"github.com/heAdz0r/rtk/internal/errors"
)

const bashCompletion = `_rtk_completions() {
    local cur prev
    cur="${COMP_WORDS[COMP_CWORD]}"
    COMPREPLY=( $(compgen -W "read write memory watch rgai ssh plan serve init completion" -- "$cur") )
}
complete -F _rtk_completions rtk
`

const zshCompletion = `#compdef rtk
_arguments '1: :(read write memory watch rgai ssh plan serve init completion)'
`

const fishCompletion = `complete -c rtk -f -n '__fish_use_subcommand' -a 'read write memory watch rgai ssh plan serve init completion'
`

// runCompletion prints a shell completion script for the requested shell.
func runCompletion(args []string, globals GlobalFlags) {
	if len(args) == 0 {
		errors.FatalError(errors.NewInputError("a shell name is required", "", "rtk completion bash|zsh|fish"), globals.jsonOutput())
	}
	switch args[0] {
	case "bash":
		fmt.Fprint(os.Stdout, bashCompletion)
	case "zsh":
		fmt.Fprint(os.Stdout, zshCompletion)
	case "fish":
		fmt.Fprint(os.Stdout, fishCompletion)
	default:
		errors.FatalError(errors.NewInputError("unknown shell "+args[0], "", "bash|zsh|fish"), globals.jsonOutput())
	}
}
