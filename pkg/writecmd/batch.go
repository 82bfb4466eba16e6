package writecmd

import (
	"encoding/json"
	"fmt"

	"github.com/heAdz0r/rtk/internal/contract"
	"github.com/heAdz0r/rtk/internal/errors"
	"github.com/heAdz0r/rtk/pkg/atomicio"
)

// BatchOp is a single operation within a batch script.
type BatchOp struct {
	Op          string    `json:"op"`
	File        string    `json:"file"`
	Pattern     string    `json:"pattern,omitempty"`
	Replacement string    `json:"replacement,omitempty"`
	All         bool      `json:"all,omitempty"`
	DotPath     string    `json:"path,omitempty"`
	Value       string    `json:"value,omitempty"`
	ValueType   ValueType `json:"value_type,omitempty"`
	Format      Format    `json:"format,omitempty"`
}

// BatchResult is the per-operation outcome recorded in a batch run.
type BatchResult struct {
	Op     BatchOp  `json:"op"`
	Result Envelope `json:"result"`
}

// BatchEnvelope is the batch response envelope, extending Envelope with
// per-op results and a total count.
type BatchEnvelope struct {
	Envelope
	Total   int           `json:"total"`
	Results []BatchResult `json:"results"`
}

// Batch executes script sequentially in one process; a failing op is
// recorded without aborting the rest (spec.md §4.12 "batch").
func Batch(script string, dryRun bool, durability atomicio.Durability, readFile func(string) ([]byte, error)) BatchEnvelope {
	const op = "batch"

	if res := contract.ValidateBatchScript(script); !res.OK {
		return BatchEnvelope{
			Envelope: errEnvelope(op, errors.NewInputError("invalid batch script", res.Message, "check the batch script size/contents")),
		}
	}

	var ops []BatchOp
	if err := json.Unmarshal([]byte(script), &ops); err != nil {
		return BatchEnvelope{
			Envelope: errEnvelope(op, errors.NewInputError("invalid batch script", err.Error(), "batch must be a JSON array of operations")),
		}
	}

	results := make([]BatchResult, 0, len(ops))
	applied, failed := 0, 0

	for _, o := range ops {
		var env Envelope
		switch o.Op {
		case "replace":
			env = Replace(ReplaceOptions{
				Path: o.File, Pattern: o.Pattern, Replacement: o.Replacement,
				All: o.All, DryRun: dryRun, Durability: durability,
			}, readFile)
		case "patch":
			env = Patch(ReplaceOptions{
				Path: o.File, Pattern: o.Pattern, Replacement: o.Replacement,
				All: o.All, DryRun: dryRun, Durability: durability,
			}, readFile)
		case "set":
			env = Set(SetOptions{
				Path: o.File, DotPath: o.DotPath, RawValue: o.Value,
				ValueType: o.ValueType, Format: o.Format, DryRun: dryRun, Durability: durability,
			}, readFile)
		default:
			env = errEnvelope(o.Op, errors.NewInputError("unknown batch op", fmt.Sprintf("%q is not a recognized op", o.Op), "use replace, patch, or set"))
		}

		if env.OK {
			applied++
		} else {
			failed++
		}
		results = append(results, BatchResult{Op: o, Result: env})
	}

	return BatchEnvelope{
		Envelope: Envelope{Version: EnvelopeVersion, OK: applied > 0, Op: op, Applied: applied, Failed: failed, DryRun: dryRun},
		Total:    len(ops),
		Results:  results,
	}
}
