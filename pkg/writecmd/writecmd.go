// Package writecmd implements the write commands (spec component C12):
// replace, patch, set (JSON/TOML), and batch, plus the shared response
// envelope.
package writecmd

import (
	"fmt"
	"strings"

	"github.com/heAdz0r/rtk/internal/errors"
	"github.com/heAdz0r/rtk/pkg/atomicio"
)

// EnvelopeVersion is the write-command response envelope schema version.
const EnvelopeVersion = 1

// Envelope is the JSON response shape for every write operation
// (spec.md §4.12).
type Envelope struct {
	Version int    `json:"version"`
	OK      bool   `json:"ok"`
	Op      string `json:"op"`
	Applied int    `json:"applied,omitempty"`
	Failed  int    `json:"failed,omitempty"`
	DryRun  bool   `json:"dry_run,omitempty"`
	Error   string `json:"error,omitempty"`
	Hint    string `json:"hint,omitempty"`
	Detail  string `json:"detail,omitempty"`
}

func errEnvelope(op string, err *errors.UserError) Envelope {
	return Envelope{Version: EnvelopeVersion, OK: false, Op: op, Error: err.Code, Hint: err.Fix, Detail: err.Message}
}

func okEnvelope(op string, dryRun bool) Envelope {
	return Envelope{Version: EnvelopeVersion, OK: true, Op: op, DryRun: dryRun}
}

// ReplaceOptions configures Replace/Patch.
type ReplaceOptions struct {
	Path        string
	Pattern     string
	Replacement string
	All         bool
	DryRun      bool
	Durability  atomicio.Durability
}

// Replace performs single-or-all-occurrence textual replacement
// (spec.md §4.12 "replace").
func Replace(opts ReplaceOptions, readFile func(string) ([]byte, error)) Envelope {
	return replaceLike("replace", opts, readFile)
}

// Patch is observably identical to Replace except for its op label
// (spec.md §4.12 "patch").
func Patch(opts ReplaceOptions, readFile func(string) ([]byte, error)) Envelope {
	return replaceLike("patch", opts, readFile)
}

func replaceLike(op string, opts ReplaceOptions, readFile func(string) ([]byte, error)) Envelope {
	if opts.Pattern == "" {
		return errEnvelope(op, errors.NewNoMatchError("EMPTY_PATTERN", "pattern must not be empty", "", "provide a non-empty --pattern"))
	}

	content, err := readFile(opts.Path)
	if err != nil {
		return errEnvelope(op, errors.NewNoMatchError("NO_MATCH", fmt.Sprintf("cannot read %s", opts.Path), err.Error(), "check the file path"))
	}
	original := string(content)

	count := strings.Count(original, opts.Pattern)
	if count == 0 {
		return errEnvelope(op, errors.NewNoMatchError("NO_MATCH", "pattern not found", opts.Pattern, "check the pattern against the file contents"))
	}

	var updated string
	if opts.All {
		updated = strings.ReplaceAll(original, opts.Pattern, opts.Replacement)
	} else {
		updated = strings.Replace(original, opts.Pattern, opts.Replacement, 1)
	}

	if updated == original {
		env := okEnvelope(op, opts.DryRun)
		env.Applied = 0
		return env
	}

	if opts.DryRun {
		env := okEnvelope(op, true)
		env.Applied = count
		if !opts.All {
			env.Applied = 1
		}
		return env
	}

	if _, werr := atomicio.Write(opts.Path, []byte(updated), opts.Durability, true); werr != nil {
		return errEnvelope(op, errors.NewInternalError("failed to write file", werr.Error(), "check file permissions", werr))
	}

	env := okEnvelope(op, false)
	env.Applied = count
	if !opts.All {
		env.Applied = 1
	}
	return env
}
