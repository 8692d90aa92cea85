// Package ir models a SPIR-V module as a graph of typed instructions.
//
// The model is deliberately word-faithful: an Instruction keeps its
// opcode, optional result type and result id, and its in-operands with
// kind tags distinguishing id references from literal values. A Module
// holds instructions in the sections of the SPIR-V logical layout, and
// a DefUseManager maintains the backward index from result ids to the
// instructions that define and use them.
//
// Context ties a module to its def-use index and exposes the kill
// operations optimization passes use to remove instructions. Killing
// turns an instruction into OpNop and drops its index records in one
// step, so the forward operand lists and the backward use index never
// disagree mid-pass. Encoders skip OpNop instructions.
//
// Decode and Encode convert between this model and the little-endian
// binary form. Builder offers a programmatic construction surface.
package ir
