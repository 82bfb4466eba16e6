package main

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"

	flag "github.com/spf13/pflag"

	"github.com/heAdz0r/rtk/internal/errors"
	"github.com/heAdz0r/rtk/pkg/outputfilter"
)

// runSSH executes a command and passes its combined output through the
// per-command output filter before printing, so a long-running remote
// command doesn't flood the assistant's context (spec.md §4.13).
func runSSH(args []string, globals GlobalFlags) {
	fs := flag.NewFlagSet("ssh", flag.ExitOnError)
	formatFlag := fs.String("format", "", "Force a format instead of auto-detecting: psql_table|psql_schema|json_log|html|docker_ps|docker_images")
	fs.SetInterspersed(false)
	_ = fs.Parse(args)

	if fs.NArg() == 0 {
		errors.FatalError(errors.NewInputError("a command is required", "", "rtk ssh <command> [args...]"), globals.jsonOutput())
	}

	cmd := exec.Command(fs.Arg(0), fs.Args()[1:]...)
	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf
	runErr := cmd.Run()

	verbose := globals.Verbose > 0
	filtered := outputfilter.Apply(buf.String(), outputfilter.Format(*formatFlag), verbose)
	fmt.Print(filtered)

	if runErr != nil {
		if exitErr, ok := runErr.(*exec.ExitError); ok {
			os.Exit(exitErr.ExitCode())
		}
		errors.FatalError(errors.NewInternalError("failed to run command", runErr.Error(), "", runErr), globals.jsonOutput())
	}
}
