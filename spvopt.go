// Package spvopt provides a Pure Go SPIR-V module optimizer.
//
// spvopt decodes a SPIR-V binary, runs a pipeline of optimization
// passes over it, and encodes the result. The built-in passes remove
// constants unreachable from any real computation and, optionally,
// strip debug information.
//
// Example usage:
//
//	optimized, err := spvopt.Optimize(spirvBytes)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// For control over the pipeline, use OptimizeWithOptions:
//
//	opts := spvopt.Options{Passes: []string{"eliminate-dead-constants", "strip-debug-info"}}
//	optimized, err := spvopt.OptimizeWithOptions(spirvBytes, opts)
//
// The ir, opt, and dis packages expose the individual stages for
// callers that already hold a decoded module.
package spvopt

import (
	"fmt"

	"github.com/gogpu/spvopt/ir"
	"github.com/gogpu/spvopt/opt"
)

// Options configures optimization.
type Options struct {
	// Passes are registry names run in order (see opt.PassNames).
	Passes []string
}

// DefaultOptions returns the default pipeline.
func DefaultOptions() Options {
	return Options{
		Passes: []string{"eliminate-dead-constants"},
	}
}

// Optimize runs the default pass pipeline over a SPIR-V binary and
// returns the re-encoded module.
func Optimize(data []byte) ([]byte, error) {
	return OptimizeWithOptions(data, DefaultOptions())
}

// OptimizeWithOptions runs a configured pass pipeline over a SPIR-V
// binary.
//
// The pipeline is:
//  1. Decode the binary to an IR module
//  2. Run each named pass in order
//  3. Encode the surviving instructions
func OptimizeWithOptions(data []byte, opts Options) ([]byte, error) {
	module, err := ir.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode error: %w", err)
	}

	pm := opt.NewPassManager()
	for _, name := range opts.Passes {
		pass, err := opt.NewPass(name)
		if err != nil {
			return nil, fmt.Errorf("pipeline error: %w", err)
		}
		pm.Add(pass)
	}

	pm.Run(ir.NewContext(module))

	return ir.Encode(module), nil
}
