package passes

import (
	"context"

	"github.com/wasmx/chisel/chisel"
	"github.com/wasmx/chisel/chiselerr"
	"github.com/wasmx/chisel/wasm"
)

func init() {
	chisel.Register("checkfloat", func(map[string]string) (chisel.Pass, error) {
		return CheckFloat{}, nil
	})
}

// CheckFloat validates that no function body in the module touches
// floating-point state: the full set of f32/f64 arithmetic, comparison,
// conversion, reinterpretation, constant, load and store opcodes. SIMD
// float lanes are explicitly out of scope. Grounded on
// original_source/libchisel/src/checkfloat.rs.
type CheckFloat struct{}

func (CheckFloat) Identity() string { return "checkfloat" }

var floatOpcodes = map[byte]bool{
	wasm.OpF32Load: true, wasm.OpF64Load: true,
	wasm.OpF32Store: true, wasm.OpF64Store: true,
	wasm.OpF32Const: true, wasm.OpF64Const: true,
	wasm.OpF32Eq: true, wasm.OpF32Ne: true, wasm.OpF32Lt: true, wasm.OpF32Gt: true, wasm.OpF32Le: true, wasm.OpF32Ge: true,
	wasm.OpF64Eq: true, wasm.OpF64Ne: true, wasm.OpF64Lt: true, wasm.OpF64Gt: true, wasm.OpF64Le: true, wasm.OpF64Ge: true,
	wasm.OpF32Abs: true, wasm.OpF32Neg: true, wasm.OpF32Ceil: true, wasm.OpF32Floor: true, wasm.OpF32Trunc: true,
	wasm.OpF32Nearest: true, wasm.OpF32Sqrt: true, wasm.OpF32Add: true, wasm.OpF32Sub: true, wasm.OpF32Mul: true,
	wasm.OpF32Div: true, wasm.OpF32Min: true, wasm.OpF32Max: true, wasm.OpF32Copysign: true,
	wasm.OpF64Abs: true, wasm.OpF64Neg: true, wasm.OpF64Ceil: true, wasm.OpF64Floor: true, wasm.OpF64Trunc: true,
	wasm.OpF64Nearest: true, wasm.OpF64Sqrt: true, wasm.OpF64Add: true, wasm.OpF64Sub: true, wasm.OpF64Mul: true,
	wasm.OpF64Div: true, wasm.OpF64Min: true, wasm.OpF64Max: true, wasm.OpF64Copysign: true,
	wasm.OpI32TruncF32S: true, wasm.OpI32TruncF32U: true, wasm.OpI32TruncF64S: true, wasm.OpI32TruncF64U: true,
	wasm.OpI64TruncF32S: true, wasm.OpI64TruncF32U: true, wasm.OpI64TruncF64S: true, wasm.OpI64TruncF64U: true,
	wasm.OpF32ConvertI32S: true, wasm.OpF32ConvertI32U: true, wasm.OpF32ConvertI64S: true, wasm.OpF32ConvertI64U: true,
	wasm.OpF64ConvertI32S: true, wasm.OpF64ConvertI32U: true, wasm.OpF64ConvertI64S: true, wasm.OpF64ConvertI64U: true,
	wasm.OpF32DemoteF64: true, wasm.OpF64PromoteF32: true,
	wasm.OpI32ReinterpretF32: true, wasm.OpI64ReinterpretF64: true,
	wasm.OpF32ReinterpretI32: true, wasm.OpF64ReinterpretI64: true,
}

func (CheckFloat) Validate(_ context.Context, m *wasm.Module) (bool, error) {
	if len(m.Code) == 0 {
		return false, chiselerr.ErrNotFound
	}
	for _, body := range m.Code {
		instrs, err := wasm.DecodeInstructions(body.Code)
		if err != nil {
			return false, chiselerr.Custom("decode function body: %v", err)
		}
		for _, instr := range instrs {
			if floatOpcodes[instr.Opcode] {
				return false, nil
			}
		}
	}
	return true, nil
}
