package opt

import (
	"github.com/gogpu/spvopt/ir"
	"github.com/gogpu/spvopt/spv"
)

// StripDebugInfo removes every debug instruction from the module: the
// source, string, and name sections, plus OpLine/OpNoLine markers in
// function bodies. Annotations are untouched.
type StripDebugInfo struct{}

// Name returns the registry name of the pass.
func (*StripDebugInfo) Name() string {
	return "strip-debug-info"
}

// Run executes the pass.
func (p *StripDebugInfo) Run(ctx *ir.Context) Status {
	var dead []*ir.Instruction
	ctx.Module().ForEachInst(func(inst *ir.Instruction) {
		if spv.IsDebugOp(inst.Opcode) {
			dead = append(dead, inst)
		}
	})

	for _, inst := range dead {
		ctx.KillInst(inst)
	}

	if len(dead) == 0 {
		return StatusUnchanged
	}
	return StatusChanged
}
