package writecmd

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/heAdz0r/rtk/internal/errors"
	"github.com/heAdz0r/rtk/pkg/atomicio"
)

// ValueType selects how a raw string value is parsed by Set.
type ValueType string

const (
	ValueAuto   ValueType = "auto"
	ValueString ValueType = "string"
	ValueNumber ValueType = "number"
	ValueBool   ValueType = "bool"
	ValueNull   ValueType = "null"
	ValueJSON   ValueType = "json"
)

// Format selects the document format Set parses/re-serializes.
type Format string

const (
	FormatAuto Format = "auto"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// SetOptions configures Set.
type SetOptions struct {
	Path       string
	DotPath    string
	RawValue   string
	ValueType  ValueType
	Format     Format
	DryRun     bool
	Durability atomicio.Durability
}

// Set parses RawValue per ValueType, walks DotPath into the document,
// creates intermediate objects, and re-serializes (spec.md §4.12 "set").
func Set(opts SetOptions, readFile func(string) ([]byte, error)) Envelope {
	const op = "set"

	if strings.TrimSpace(opts.DotPath) == "" {
		return errEnvelope(op, errors.NewNoMatchError("EMPTY_PATTERN", "dot-path must not be empty", "", "provide a non-empty --path key"))
	}

	format := opts.Format
	if format == "" || format == FormatAuto {
		format = inferFormat(opts.Path)
	}

	content, err := readFile(opts.Path)
	if err != nil {
		return errEnvelope(op, errors.NewNoMatchError("NO_MATCH", fmt.Sprintf("cannot read %s", opts.Path), err.Error(), "check the file path"))
	}

	value, verr := parseValue(opts.RawValue, opts.ValueType)
	if verr != nil {
		return errEnvelope(op, errors.NewInputError("invalid value", verr.Error(), "check --value-type"))
	}

	keys := strings.Split(opts.DotPath, ".")
	for _, k := range keys {
		if k == "" {
			return errEnvelope(op, errors.NewNoMatchError("EMPTY_PATTERN", "dot-path contains an empty key", opts.DotPath, "remove the leading/trailing/double dot"))
		}
	}

	var updated []byte
	switch format {
	case FormatJSON:
		updated, err = setJSONPath(content, keys, value)
	case FormatTOML:
		updated, err = setTOMLPath(content, keys, value)
	default:
		err = fmt.Errorf("unsupported format %q", format)
	}
	if err != nil {
		return errEnvelope(op, errors.NewInputError("failed to apply value", err.Error(), "check the document structure"))
	}

	if string(updated) == string(content) {
		env := okEnvelope(op, opts.DryRun)
		env.Applied = 0
		return env
	}

	if opts.DryRun {
		env := okEnvelope(op, true)
		env.Applied = 1
		return env
	}

	if _, werr := atomicio.Write(opts.Path, updated, opts.Durability, true); werr != nil {
		return errEnvelope(op, errors.NewInternalError("failed to write file", werr.Error(), "check file permissions", werr))
	}

	env := okEnvelope(op, false)
	env.Applied = 1
	return env
}

func inferFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML
	default:
		return FormatJSON
	}
}

func parseValue(raw string, vt ValueType) (any, error) {
	switch vt {
	case ValueString:
		return raw, nil
	case ValueNumber:
		return strconv.ParseFloat(raw, 64)
	case ValueBool:
		return strconv.ParseBool(raw)
	case ValueNull:
		return nil, nil
	case ValueJSON:
		var v any
		err := json.Unmarshal([]byte(raw), &v)
		return v, err
	default:
		return autoParseValue(raw), nil
	}
}

func autoParseValue(raw string) any {
	if raw == "null" {
		return nil
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err == nil {
		if _, isMapOrSlice := v.(map[string]any); isMapOrSlice {
			return v
		}
		if _, isSlice := v.([]any); isSlice {
			return v
		}
	}
	return raw
}

// detectIndent infers the original document's indentation convention so
// JSON re-serialization matches it.
func detectIndent(content []byte) string {
	text := string(content)
	lines := strings.Split(text, "\n")
	for _, line := range lines {
		if strings.HasPrefix(line, "    ") {
			return "    "
		}
		if strings.HasPrefix(line, "\t") {
			return "\t"
		}
		if strings.HasPrefix(line, "  ") {
			return "  "
		}
	}
	return "  "
}

func setJSONPath(content []byte, keys []string, value any) ([]byte, error) {
	var doc map[string]any
	trailingNewline := strings.HasSuffix(string(content), "\n")
	if len(strings.TrimSpace(string(content))) == 0 {
		doc = map[string]any{}
	} else if err := json.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}

	cur := doc
	for i, k := range keys[:len(keys)-1] {
		next, ok := cur[k]
		if !ok {
			nm := map[string]any{}
			cur[k] = nm
			cur = nm
			continue
		}
		nm, ok := next.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("key %q at depth %d is not an object", k, i)
		}
		cur = nm
	}
	cur[keys[len(keys)-1]] = value

	indent := detectIndent(content)
	out, err := json.MarshalIndent(doc, "", indent)
	if err != nil {
		return nil, err
	}
	if trailingNewline {
		out = append(out, '\n')
	}
	return out, nil
}

func setTOMLPath(content []byte, keys []string, value any) ([]byte, error) {
	var doc map[string]any
	if len(strings.TrimSpace(string(content))) == 0 {
		doc = map[string]any{}
	} else if err := toml.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("parse toml: %w", err)
	}

	cur := doc
	for i, k := range keys[:len(keys)-1] {
		next, ok := cur[k]
		if !ok {
			nm := map[string]any{}
			cur[k] = nm
			cur = nm
			continue
		}
		nm, ok := next.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("key %q at depth %d is not a table", k, i)
		}
		cur = nm
	}
	cur[keys[len(keys)-1]] = value

	return toml.Marshal(doc)
}
