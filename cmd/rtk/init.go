package main

import (
	"fmt"
	"os"
	"path/filepath"

	flag "github.com/spf13/pflag"
	"github.com/pelletier/go-toml/v2"

	"github.com/heAdz0r/rtk/internal/errors"
	"github.com/heAdz0r/rtk/internal/ui"
)

// runInit writes a default config.toml, refusing to clobber an existing
// one unless --force is passed (spec.md §6 "Configuration").
func runInit(args []string, globals GlobalFlags) {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	force := fs.Bool("force", false, "Overwrite an existing config file")
	_ = fs.Parse(args)

	path, err := configPath()
	if err != nil {
		errors.FatalError(errors.NewInternalError("cannot resolve config path", err.Error(), "", err), globals.jsonOutput())
	}

	if _, err := os.Stat(path); err == nil && !*force {
		errors.FatalError(errors.NewConfigError("config already exists at "+path, "", "pass --force to overwrite"), globals.jsonOutput())
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		errors.FatalError(errors.NewPermissionError("cannot create config directory", err.Error(), "check permissions on "+filepath.Dir(path), err), globals.jsonOutput())
	}

	data, err := toml.Marshal(defaultConfig())
	if err != nil {
		errors.FatalError(errors.NewInternalError("cannot encode default config", err.Error(), "", err), globals.jsonOutput())
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		errors.FatalError(errors.NewPermissionError("cannot write config", err.Error(), "check permissions on "+filepath.Dir(path), err), globals.jsonOutput())
	}

	if globals.jsonOutput() {
		fmt.Printf(`{"ok":true,"path":%q}`+"\n", path)
		return
	}
	ui.Success("wrote " + path)
}
