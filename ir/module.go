package ir

import (
	"github.com/gogpu/spvopt/spv"
)

// Module is a SPIR-V module with instructions held in the sections of
// the logical layout. Section order is the encoding order.
type Module struct {
	// Header
	Version   spv.Version
	Generator uint32
	Schema    uint32

	// Sections (ordered per the SPIR-V logical layout)
	Capabilities   []*Instruction
	Extensions     []*Instruction
	ExtInstImports []*Instruction
	MemoryModel    *Instruction
	EntryPoints    []*Instruction
	ExecutionModes []*Instruction
	Debug1         []*Instruction // OpSource*, OpString
	Debug2         []*Instruction // OpName, OpMemberName
	Debug3         []*Instruction // OpModuleProcessed
	Annotations    []*Instruction // OpDecorate and friends
	TypesValues    []*Instruction // types, constants, module-scope variables
	Functions      []*Instruction // OpFunction ... OpFunctionEnd, flattened
}

// NewModule returns an empty module with default header fields.
func NewModule() *Module {
	return &Module{
		Version:   spv.Version1_3,
		Generator: spv.GeneratorID,
	}
}

// ForEachInst visits every live (non-nop) instruction in logical
// layout order.
func (m *Module) ForEachInst(visit func(*Instruction)) {
	sections := [][]*Instruction{
		m.Capabilities,
		m.Extensions,
		m.ExtInstImports,
	}
	for _, sec := range sections {
		visitLive(sec, visit)
	}
	if m.MemoryModel != nil && !m.MemoryModel.IsNop() {
		visit(m.MemoryModel)
	}
	rest := [][]*Instruction{
		m.EntryPoints,
		m.ExecutionModes,
		m.Debug1,
		m.Debug2,
		m.Debug3,
		m.Annotations,
		m.TypesValues,
		m.Functions,
	}
	for _, sec := range rest {
		visitLive(sec, visit)
	}
}

func visitLive(insts []*Instruction, visit func(*Instruction)) {
	for _, inst := range insts {
		if !inst.IsNop() {
			visit(inst)
		}
	}
}

// Constants returns the constant instructions in section order.
func (m *Module) Constants() []*Instruction {
	var constants []*Instruction
	for _, inst := range m.TypesValues {
		if !inst.IsNop() && spv.IsConstantOp(inst.Opcode) {
			constants = append(constants, inst)
		}
	}
	return constants
}

// Bound returns the module's id bound: one past the largest id that
// appears as a result, result type, or id operand.
func (m *Module) Bound() uint32 {
	var max uint32
	note := func(id uint32) {
		if id > max {
			max = id
		}
	}
	m.ForEachInst(func(inst *Instruction) {
		note(inst.ResultID)
		note(inst.TypeID)
		inst.ForEachInID(note)
	})
	return max + 1
}
