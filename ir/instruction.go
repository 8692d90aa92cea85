package ir

import (
	"github.com/gogpu/spvopt/spv"
)

// Operand is a single in-operand of an instruction. ID and literal
// operands occupy one word; string operands span several.
type Operand struct {
	Kind  spv.OperandKind
	Words []uint32
}

// LiteralOperand returns a one-word literal operand.
func LiteralOperand(w uint32) Operand {
	return Operand{Kind: spv.OperandLiteral, Words: []uint32{w}}
}

// IDOperand returns an operand referencing the given result id.
func IDOperand(id uint32) Operand {
	return Operand{Kind: spv.OperandID, Words: []uint32{id}}
}

// StringOperand returns a literal string operand.
func StringOperand(s string) Operand {
	return Operand{Kind: spv.OperandString, Words: spv.EncodeString(s)}
}

// ID returns the referenced result id, or 0 for non-id operands.
func (o Operand) ID() uint32 {
	if o.Kind != spv.OperandID {
		return 0
	}
	return o.Words[0]
}

// Word returns the operand's first word.
func (o Operand) Word() uint32 {
	return o.Words[0]
}

// String decodes a string operand; it returns "" for other kinds.
func (o Operand) String() string {
	if o.Kind != spv.OperandString {
		return ""
	}
	return spv.DecodeString(o.Words)
}

// Instruction is one SPIR-V instruction. TypeID and ResultID are 0
// when the opcode does not carry them; valid result ids are never 0.
type Instruction struct {
	Opcode   spv.OpCode
	TypeID   uint32
	ResultID uint32
	Operands []Operand
}

// HasResult reports whether the instruction defines a result id.
func (i *Instruction) HasResult() bool {
	return i.ResultID != 0
}

// IsNop reports whether the instruction has been killed.
func (i *Instruction) IsNop() bool {
	return i.Opcode == spv.OpNop
}

// ToNop erases the instruction in place. Killed instructions stay in
// their section so that live iteration order is stable; encoders and
// ForEachInst skip them.
func (i *Instruction) ToNop() {
	i.Opcode = spv.OpNop
	i.TypeID = 0
	i.ResultID = 0
	i.Operands = nil
}

// ForEachInID visits the result id referenced by every id-kind operand.
func (i *Instruction) ForEachInID(visit func(id uint32)) {
	for _, op := range i.Operands {
		if op.Kind == spv.OperandID {
			visit(op.Words[0])
		}
	}
}

// WordCount returns the encoded size of the instruction in words,
// including the leading opcode word.
func (i *Instruction) WordCount() int {
	n := 1
	if i.TypeID != 0 {
		n++
	}
	if i.ResultID != 0 {
		n++
	}
	for _, op := range i.Operands {
		n += len(op.Words)
	}
	return n
}
