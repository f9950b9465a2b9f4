package passes_test

import (
	"context"
	"testing"

	"github.com/wasmx/chisel/chisel/passes"
	"github.com/wasmx/chisel/wasm"
)

func TestCheckStartFuncRequiredAndPresent(t *testing.T) {
	idx := uint32(0)
	m := &wasm.Module{Start: &idx}

	ok, err := passes.CheckStartFunc{RequireStart: true}.Validate(context.Background(), m)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if !ok {
		t.Fatal("expected checkstartfunc to pass when a start section is required and present")
	}
}

func TestCheckStartFuncRequiredButAbsent(t *testing.T) {
	m := &wasm.Module{}

	ok, err := passes.CheckStartFunc{RequireStart: true}.Validate(context.Background(), m)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if ok {
		t.Fatal("expected checkstartfunc to fail when a start section is required but absent")
	}
}

func TestCheckStartFuncForbiddenButPresent(t *testing.T) {
	idx := uint32(0)
	m := &wasm.Module{Start: &idx}

	ok, err := passes.CheckStartFunc{RequireStart: false}.Validate(context.Background(), m)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if ok {
		t.Fatal("expected checkstartfunc to fail when a start section is forbidden but present")
	}
}

func TestCheckStartFuncForbiddenAndAbsent(t *testing.T) {
	m := &wasm.Module{}

	ok, err := passes.CheckStartFunc{RequireStart: false}.Validate(context.Background(), m)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if !ok {
		t.Fatal("expected checkstartfunc to pass when a start section is forbidden and absent")
	}
}
