// Package spv defines word-level SPIR-V constants: opcodes, operand
// kinds, instruction classification predicates, and the operand layout
// grammar used when decoding binary modules.
//
// The package is deliberately free of any instruction or module
// representation; those live in the ir package. Everything here is a
// pure function of opcode and word values, so it can be shared by the
// decoder, the encoder, the disassembler, and the optimization passes
// without import cycles.
package spv
