package backend

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strconv"
)

// WasmOptOptimizer shells out to binaryen's wasm-opt for both the
// DeadCodeEliminator and Optimizer seams: wasm-opt's --dce flag covers
// snip's narrower job, and its -Ox/-Os/-Oz flags cover binaryenopt's.
type WasmOptOptimizer struct {
	// Path overrides the binary name looked up on $PATH; empty means
	// "wasm-opt".
	Path string
}

func (w WasmOptOptimizer) path() string {
	if w.Path != "" {
		return w.Path
	}
	return "wasm-opt"
}

func (w WasmOptOptimizer) Eliminate(input []byte, opts DCEOptions) ([]byte, error) {
	args := []string{"--dce"}
	if !opts.SkipProducersSection {
		args = append(args, "--strip-producers")
	}
	return w.run(input, args)
}

func (w WasmOptOptimizer) Optimize(input []byte, cfg OptConfig) ([]byte, error) {
	args := []string{"-O" + strconv.Itoa(cfg.OptimizationLevel)}
	if cfg.ShrinkLevel > 0 {
		args = append(args, "--shrink-level="+strconv.Itoa(cfg.ShrinkLevel))
	}
	if !cfg.DebugInfo {
		args = append(args, "--strip-debug")
	}
	return w.run(input, args)
}

func (w WasmOptOptimizer) run(input []byte, extraArgs []string) ([]byte, error) {
	bin, err := exec.LookPath(w.path())
	if err != nil {
		return nil, &ErrBackendUnavailable{Tool: w.path()}
	}

	inFile, err := os.CreateTemp("", "chisel-in-*.wasm")
	if err != nil {
		return nil, err
	}
	defer os.Remove(inFile.Name())
	if _, err := inFile.Write(input); err != nil {
		inFile.Close()
		return nil, err
	}
	if err := inFile.Close(); err != nil {
		return nil, err
	}

	outFile, err := os.CreateTemp("", "chisel-out-*.wasm")
	if err != nil {
		return nil, err
	}
	outPath := outFile.Name()
	outFile.Close()
	defer os.Remove(outPath)

	args := append(append([]string{inFile.Name()}, extraArgs...), "-o", outPath)
	cmd := exec.Command(bin, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("wasm-opt: %w: %s", err, stderr.String())
	}

	return os.ReadFile(outPath)
}

// Wasm2WatDisassembler shells out to wabt's wasm2wat for the "wat" writer
// output mode.
type Wasm2WatDisassembler struct {
	Path string
}

func (d Wasm2WatDisassembler) path() string {
	if d.Path != "" {
		return d.Path
	}
	return "wasm2wat"
}

func (d Wasm2WatDisassembler) Disassemble(input []byte) ([]byte, error) {
	bin, err := exec.LookPath(d.path())
	if err != nil {
		return nil, &ErrBackendUnavailable{Tool: d.path()}
	}

	inFile, err := os.CreateTemp("", "chisel-dis-*.wasm")
	if err != nil {
		return nil, err
	}
	defer os.Remove(inFile.Name())
	if _, err := inFile.Write(input); err != nil {
		inFile.Close()
		return nil, err
	}
	if err := inFile.Close(); err != nil {
		return nil, err
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.Command(bin, inFile.Name())
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("wasm2wat: %w: %s", err, stderr.String())
	}
	return stdout.Bytes(), nil
}
