package opt

import (
	"fmt"

	"github.com/gogpu/spvopt/ir"
	"github.com/gogpu/spvopt/spv"
)

// EliminateDeadConstants removes constant instructions that no real
// computation reaches, together with the annotation and debug
// instructions that reference them.
//
// A use by an annotation or debug instruction does not keep a constant
// alive: such metadata only describes program semantics, so a constant
// referenced by nothing else is dead and its metadata goes with it.
// Deadness propagates backward through composite and spec-constant
// operands, so a constant used only by dead constants dies too.
type EliminateDeadConstants struct{}

// Name returns the registry name of the pass.
func (*EliminateDeadConstants) Name() string {
	return "eliminate-dead-constants"
}

// Run executes the pass. It never fails on module content; a use-count
// underflow means the def-use index and the instruction graph have
// diverged, which is a bug in the caller, and panics.
func (p *EliminateDeadConstants) Run(ctx *ir.Context) Status {
	defUse := ctx.DefUse()

	// Count real (non-metadata) uses of every constant. Constants with
	// no real use seed the worklist.
	useCounts := make(map[*ir.Instruction]int)
	worklist := make(map[*ir.Instruction]struct{})
	for _, c := range ctx.Constants() {
		count := 0
		defUse.ForEachUse(c.ResultID, func(user *ir.Instruction, _ int) {
			if !spv.IsMetadataOp(user.Opcode) {
				count++
			}
		})
		useCounts[c] = count
		if count == 0 {
			worklist[c] = struct{}{}
		}
	}

	// Back-propagate through the def-use chain: removing a dead
	// composite releases one use of each constituent, which may in
	// turn reach zero. Each insertion into the worklist corresponds to
	// a positive-to-zero transition, so this terminates.
	deadConsts := make(map[*ir.Instruction]struct{})
	for len(worklist) > 0 {
		var inst *ir.Instruction
		for candidate := range worklist {
			inst = candidate
			break
		}

		switch inst.Opcode {
		case spv.OpConstantComposite, spv.OpSpecConstantComposite, spv.OpSpecConstantOp:
			for _, operand := range inst.Operands {
				// OpSpecConstantOp carries its wrapped opcode (and,
				// for composite access, literal indices) as non-id
				// operands; those release nothing.
				if operand.Kind != spv.OperandID {
					continue
				}
				def := defUse.Def(operand.ID())
				// No use-count entry means the operand is not a
				// constant (e.g. a result type would not appear here,
				// but a forward reference to a non-constant could).
				count, ok := useCounts[def]
				if !ok {
					continue
				}
				if count == 0 {
					panic(fmt.Sprintf("eliminate-dead-constants: use count of %%%d underflowed; def-use index is inconsistent", def.ResultID))
				}
				useCounts[def] = count - 1
				if count-1 == 0 {
					worklist[def] = struct{}{}
				}
			}
		}

		deadConsts[inst] = struct{}{}
		delete(worklist, inst)
	}

	// Collect the annotation and debug instructions referencing any
	// dead constant. An instruction referencing several dead constants
	// collapses into one entry.
	deadMetadata := make(map[*ir.Instruction]struct{})
	for dc := range deadConsts {
		defUse.ForEachUser(dc, func(user *ir.Instruction) {
			if spv.IsMetadataOp(user.Opcode) {
				deadMetadata[user] = struct{}{}
			}
		})
	}

	for dc := range deadConsts {
		ctx.KillDef(dc.ResultID)
	}
	for dm := range deadMetadata {
		ctx.KillInst(dm)
	}

	if len(deadConsts) == 0 {
		return StatusUnchanged
	}
	return StatusChanged
}
