// Command rtk is a compression proxy between an AI coding assistant and a
// shell: it wraps file reads, greps, writes, and passthrough shell output
// in size-bounded filters so an assistant spends fewer tokens per turn.
//
// Usage:
//
//	rtk read <path> [--level minimal|aggressive] [--range A:B]
//	rtk write <op> ...
//	rtk memory status|explore|delta [--detail compact|normal|verbose]
//	rtk watch
//	rtk rgai <query> [--files]
//	rtk ssh <command> [args...]
//	rtk plan <task description> --budget <tokens>
//	rtk serve [--addr 127.0.0.1:0]
//	rtk init
package main

import (
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/heAdz0r/rtk/internal/ui"
)

// GlobalFlags holds the flags shared across every subcommand
// (spec.md §6 "CLI shape").
type GlobalFlags struct {
	Output  string // quiet | concise | json
	DryRun  bool
	Fast    bool
	Verbose int
	NoColor bool
}

func (g GlobalFlags) jsonOutput() bool { return g.Output == "json" }

func main() {
	var (
		output  = flag.String("output", "concise", "Output mode: quiet|concise|json")
		dryRun  = flag.Bool("dry-run", false, "Preview a mutating command without applying it")
		fast    = flag.Bool("fast", false, "Skip cascade invalidation / prefer cached results")
		noColor = flag.Bool("no-color", false, "Disable color output")
		verbose int
	)
	flag.CountVarP(&verbose, "verbose", "v", "Increase verbosity (-v, -vv, -vvv)")
	flag.SetInterspersed(false)

	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `rtk - token killer: a compression proxy for AI coding assistants

Usage:
  rtk <command> [options]

Commands:
  read          Print a file through the filter pipeline
  write         Apply replace/patch/set/batch write operations
  memory        status|explore|delta against the incremental index
  watch         Watch the project tree and rebuild the index on change
  rgai          Semantic code search
  ssh           Run a command, compressing its output
  plan          Budgeted context selection for a task
  serve         Start the localhost JSON API
  init          Write a default config file

Global Options:
  --output quiet|concise|json
  --dry-run
  --fast
  --no-color
  -v, --verbose

For detailed command help: rtk <command> --help
`)
	}

	flag.Parse()
	if os.Getenv("NO_COLOR") != "" {
		*noColor = true
	}
	ui.InitColors(*noColor)

	globals := GlobalFlags{Output: *output, DryRun: *dryRun, Fast: *fast, Verbose: verbose, NoColor: *noColor}

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(1)
	}

	command, cmdArgs := args[0], args[1:]
	switch command {
	case "read":
		runRead(cmdArgs, globals)
	case "write":
		runWrite(cmdArgs, globals)
	case "memory":
		runMemory(cmdArgs, globals)
	case "watch":
		runWatch(cmdArgs, globals)
	case "rgai":
		runRgai(cmdArgs, globals)
	case "ssh":
		runSSH(cmdArgs, globals)
	case "plan":
		runPlan(cmdArgs, globals)
	case "serve":
		runServe(cmdArgs, globals)
	case "init":
		runInit(cmdArgs, globals)
	case "completion":
		runCompletion(cmdArgs, globals)
	default:
		fmt.Fprintf(os.Stderr, "rtk: unknown command %q\n", command)
		flag.Usage()
		os.Exit(1)
	}
}
