package passes

import (
	"context"

	"github.com/wasmx/chisel/chisel"
	"github.com/wasmx/chisel/chiselerr"
	"github.com/wasmx/chisel/wasm"
)

func init() {
	chisel.Register("checkstartfunc", func(options map[string]string) (chisel.Pass, error) {
		val, ok := options["require_start"]
		if !ok {
			return nil, chiselerr.NewInvalidField("checkstartfunc", "require_start")
		}
		require, err := parseBool(val)
		if err != nil {
			return nil, chiselerr.NewInvalidField("checkstartfunc", "require_start")
		}
		return CheckStartFunc{RequireStart: require}, nil
	})
}

// CheckStartFunc validates that the presence of the start section matches
// a configured expectation. Grounded on
// original_source/libchisel/src/checkstartfunc.rs.
type CheckStartFunc struct {
	RequireStart bool
}

func (CheckStartFunc) Identity() string { return "checkstartfunc" }

func (c CheckStartFunc) Validate(_ context.Context, m *wasm.Module) (bool, error) {
	return (m.Start != nil) == c.RequireStart, nil
}

func parseBool(s string) (bool, error) {
	switch s {
	case "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	default:
		return false, chiselerr.NewInvalidField("pass", "boolean option")
	}
}
