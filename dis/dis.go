package dis

import (
	"fmt"
	"strings"

	"github.com/gogpu/spvopt/ir"
	"github.com/gogpu/spvopt/spv"
)

// Disassemble renders m as assembly-style text: a header comment block
// followed by one line per live instruction. Ids print as %_N,
// literals as decimal, strings quoted.
func Disassemble(m *ir.Module) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "; SPIR-V\n")
	fmt.Fprintf(&sb, "; Version: %s\n", m.Version)
	fmt.Fprintf(&sb, "; Generator: 0x%08X\n", m.Generator)
	fmt.Fprintf(&sb, "; Bound: %d\n", m.Bound())
	fmt.Fprintf(&sb, "; Schema: %d\n", m.Schema)
	sb.WriteByte('\n')

	m.ForEachInst(func(inst *ir.Instruction) {
		writeInstruction(&sb, inst)
	})

	return sb.String()
}

func writeInstruction(sb *strings.Builder, inst *ir.Instruction) {
	if inst.HasResult() {
		fmt.Fprintf(sb, "%10s = %s", id(inst.ResultID), inst.Opcode)
	} else {
		fmt.Fprintf(sb, "%13s%s", "", inst.Opcode)
	}
	if inst.TypeID != 0 {
		fmt.Fprintf(sb, " %s", id(inst.TypeID))
	}
	for _, op := range inst.Operands {
		switch op.Kind {
		case spv.OperandID:
			fmt.Fprintf(sb, " %s", id(op.Word()))
		case spv.OperandString:
			fmt.Fprintf(sb, " %q", op.String())
		default:
			fmt.Fprintf(sb, " %d", op.Word())
		}
	}
	sb.WriteByte('\n')
}

func id(n uint32) string {
	return fmt.Sprintf("%%_%d", n)
}
