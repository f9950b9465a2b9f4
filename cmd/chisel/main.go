// Command chisel rewrites and validates post-compilation Wasm contract
// binaries against a ruleset of configured passes.
package main

import "os"

func main() {
	os.Exit(Execute())
}
