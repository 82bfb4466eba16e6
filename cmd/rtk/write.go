package main

import (
	"io"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/heAdz0r/rtk/internal/errors"
	"github.com/heAdz0r/rtk/internal/output"
	"github.com/heAdz0r/rtk/pkg/atomicio"
	"github.com/heAdz0r/rtk/pkg/writecmd"
)

func durabilityFor(globals GlobalFlags) atomicio.Durability {
	if globals.Fast {
		return atomicio.Fast
	}
	return atomicio.Durable
}

func runWrite(args []string, globals GlobalFlags) {
	if len(args) == 0 {
		errors.FatalError(errors.NewInputError("a write sub-operation is required", "", "replace|patch|set|batch"), globals.jsonOutput())
	}
	op, rest := args[0], args[1:]

	switch op {
	case "replace", "patch":
		runReplaceLike(op, rest, globals)
	case "set":
		runSet(rest, globals)
	case "batch":
		runBatch(rest, globals)
	default:
		errors.FatalError(errors.NewInputError("unknown write operation "+op, "", "replace|patch|set|batch"), globals.jsonOutput())
	}
}

func emitEnvelope(env writecmd.Envelope, exitNoMatch int) {
	_ = output.JSON(env)
	if !env.OK {
		os.Exit(exitNoMatch)
	}
}

func runReplaceLike(op string, args []string, globals GlobalFlags) {
	fs := flag.NewFlagSet(op, flag.ExitOnError)
	pattern := fs.String("pattern", "", "Text pattern to find")
	replacement := fs.String("replacement", "", "Replacement text")
	all := fs.Bool("all", false, "Replace every occurrence instead of just the first")
	_ = fs.Parse(args)

	if fs.NArg() == 0 {
		errors.FatalError(errors.NewInputError("a target file path is required", "", op+" <path> --pattern ... --replacement ..."), globals.jsonOutput())
	}

	env := writecmd.Replace(writecmd.ReplaceOptions{
		Path: fs.Arg(0), Pattern: *pattern, Replacement: *replacement,
		All: *all, DryRun: globals.DryRun, Durability: durabilityFor(globals),
	}, os.ReadFile)
	if op == "patch" {
		env.Op = "patch"
	}
	emitEnvelope(env, errors.ExitNoMatch)
}

func runSet(args []string, globals GlobalFlags) {
	fs := flag.NewFlagSet("set", flag.ExitOnError)
	dotPath := fs.String("path", "", "Dot-path key to set, e.g. a.b.c")
	value := fs.String("value", "", "Raw value (parsed per --type)")
	valueType := fs.String("type", string(writecmd.ValueAuto), "auto|string|number|bool|null|json")
	format := fs.String("format", string(writecmd.FormatAuto), "auto|json|toml")
	_ = fs.Parse(args)

	if fs.NArg() == 0 {
		errors.FatalError(errors.NewInputError("a target file path is required", "", "set <path> --path a.b.c --value ..."), globals.jsonOutput())
	}

	env := writecmd.Set(writecmd.SetOptions{
		Path: fs.Arg(0), DotPath: *dotPath, RawValue: *value,
		ValueType: writecmd.ValueType(*valueType), Format: writecmd.Format(*format),
		DryRun: globals.DryRun, Durability: durabilityFor(globals),
	}, os.ReadFile)
	emitEnvelope(env, errors.ExitNoMatch)
}

func runBatch(args []string, globals GlobalFlags) {
	fs := flag.NewFlagSet("batch", flag.ExitOnError)
	scriptPath := fs.String("script", "", "Path to a JSON-array batch script (- for stdin)")
	_ = fs.Parse(args)

	if *scriptPath == "" {
		errors.FatalError(errors.NewInputError("--script is required", "", "batch --script ops.json"), globals.jsonOutput())
	}

	script, err := readScript(*scriptPath)
	if err != nil {
		errors.FatalError(errors.NewInputError("cannot read batch script", err.Error(), ""), globals.jsonOutput())
	}

	env := writecmd.Batch(script, globals.DryRun, durabilityFor(globals), os.ReadFile)
	_ = output.JSON(env)
	if env.Failed > 0 {
		os.Exit(errors.ExitNoMatch)
	}
}

func readScript(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	}
	data, err := os.ReadFile(path)
	return string(data), err
}
