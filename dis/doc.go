// Package dis renders a decoded SPIR-V module as assembly-style text.
//
// The output is stable for a given module, which makes it the format
// of choice for golden tests: optimize, disassemble, compare.
package dis
