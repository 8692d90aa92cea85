package ir

import (
	"math"

	"github.com/gogpu/spvopt/spv"
)

// Builder constructs modules programmatically, allocating result ids
// and placing instructions in their logical-layout sections. It is the
// construction surface used by tests and by tools that synthesize
// modules rather than decode them.
type Builder struct {
	module *Module
	nextID uint32
}

// NewBuilder creates a builder for an empty module.
func NewBuilder() *Builder {
	return &Builder{
		module: NewModule(),
		nextID: 1,
	}
}

// Module returns the built module.
func (b *Builder) Module() *Module {
	return b.module
}

// AllocID allocates a fresh result id.
func (b *Builder) AllocID() uint32 {
	id := b.nextID
	b.nextID++
	return id
}

// AddCapability adds an OpCapability.
func (b *Builder) AddCapability(capability uint32) {
	b.module.Capabilities = append(b.module.Capabilities, &Instruction{
		Opcode:   spv.OpCapability,
		Operands: []Operand{LiteralOperand(capability)},
	})
}

// AddExtension adds an OpExtension.
func (b *Builder) AddExtension(name string) {
	b.module.Extensions = append(b.module.Extensions, &Instruction{
		Opcode:   spv.OpExtension,
		Operands: []Operand{StringOperand(name)},
	})
}

// AddExtInstImport imports an extended instruction set.
func (b *Builder) AddExtInstImport(name string) uint32 {
	id := b.AllocID()
	b.module.ExtInstImports = append(b.module.ExtInstImports, &Instruction{
		Opcode:   spv.OpExtInstImport,
		ResultID: id,
		Operands: []Operand{StringOperand(name)},
	})
	return id
}

// SetMemoryModel sets the OpMemoryModel.
func (b *Builder) SetMemoryModel(addressing, memory uint32) {
	b.module.MemoryModel = &Instruction{
		Opcode:   spv.OpMemoryModel,
		Operands: []Operand{LiteralOperand(addressing), LiteralOperand(memory)},
	}
}

// AddEntryPoint adds an OpEntryPoint.
func (b *Builder) AddEntryPoint(execModel uint32, funcID uint32, name string, interfaces ...uint32) {
	operands := []Operand{LiteralOperand(execModel), IDOperand(funcID), StringOperand(name)}
	for _, iface := range interfaces {
		operands = append(operands, IDOperand(iface))
	}
	b.module.EntryPoints = append(b.module.EntryPoints, &Instruction{
		Opcode:   spv.OpEntryPoint,
		Operands: operands,
	})
}

// AddExecutionMode adds an OpExecutionMode.
func (b *Builder) AddExecutionMode(entryPoint uint32, mode uint32, params ...uint32) {
	operands := []Operand{IDOperand(entryPoint), LiteralOperand(mode)}
	for _, param := range params {
		operands = append(operands, LiteralOperand(param))
	}
	b.module.ExecutionModes = append(b.module.ExecutionModes, &Instruction{
		Opcode:   spv.OpExecutionMode,
		Operands: operands,
	})
}

// AddString adds an OpString debug string.
func (b *Builder) AddString(text string) uint32 {
	id := b.AllocID()
	b.module.Debug1 = append(b.module.Debug1, &Instruction{
		Opcode:   spv.OpString,
		ResultID: id,
		Operands: []Operand{StringOperand(text)},
	})
	return id
}

// AddName adds an OpName for id.
func (b *Builder) AddName(id uint32, name string) *Instruction {
	inst := &Instruction{
		Opcode:   spv.OpName,
		Operands: []Operand{IDOperand(id), StringOperand(name)},
	}
	b.module.Debug2 = append(b.module.Debug2, inst)
	return inst
}

// AddMemberName adds an OpMemberName for a struct member.
func (b *Builder) AddMemberName(structID, member uint32, name string) *Instruction {
	inst := &Instruction{
		Opcode:   spv.OpMemberName,
		Operands: []Operand{IDOperand(structID), LiteralOperand(member), StringOperand(name)},
	}
	b.module.Debug2 = append(b.module.Debug2, inst)
	return inst
}

// AddModuleProcessed adds an OpModuleProcessed note.
func (b *Builder) AddModuleProcessed(text string) *Instruction {
	inst := &Instruction{
		Opcode:   spv.OpModuleProcessed,
		Operands: []Operand{StringOperand(text)},
	}
	b.module.Debug3 = append(b.module.Debug3, inst)
	return inst
}

// AddDecorate adds an OpDecorate for id.
func (b *Builder) AddDecorate(id uint32, decoration uint32, params ...uint32) *Instruction {
	operands := []Operand{IDOperand(id), LiteralOperand(decoration)}
	for _, param := range params {
		operands = append(operands, LiteralOperand(param))
	}
	inst := &Instruction{Opcode: spv.OpDecorate, Operands: operands}
	b.module.Annotations = append(b.module.Annotations, inst)
	return inst
}

// AddMemberDecorate adds an OpMemberDecorate.
func (b *Builder) AddMemberDecorate(structID, member, decoration uint32, params ...uint32) *Instruction {
	operands := []Operand{IDOperand(structID), LiteralOperand(member), LiteralOperand(decoration)}
	for _, param := range params {
		operands = append(operands, LiteralOperand(param))
	}
	inst := &Instruction{Opcode: spv.OpMemberDecorate, Operands: operands}
	b.module.Annotations = append(b.module.Annotations, inst)
	return inst
}

// AddDecorationGroup adds an OpDecorationGroup and returns its id.
func (b *Builder) AddDecorationGroup() uint32 {
	id := b.AllocID()
	b.module.Annotations = append(b.module.Annotations, &Instruction{
		Opcode:   spv.OpDecorationGroup,
		ResultID: id,
	})
	return id
}

// AddGroupDecorate adds an OpGroupDecorate applying group to targets.
func (b *Builder) AddGroupDecorate(group uint32, targets ...uint32) *Instruction {
	operands := []Operand{IDOperand(group)}
	for _, target := range targets {
		operands = append(operands, IDOperand(target))
	}
	inst := &Instruction{Opcode: spv.OpGroupDecorate, Operands: operands}
	b.module.Annotations = append(b.module.Annotations, inst)
	return inst
}

// AddTypeVoid adds OpTypeVoid.
func (b *Builder) AddTypeVoid() uint32 {
	return b.addType(spv.OpTypeVoid)
}

// AddTypeBool adds OpTypeBool.
func (b *Builder) AddTypeBool() uint32 {
	return b.addType(spv.OpTypeBool)
}

// AddTypeInt adds OpTypeInt.
func (b *Builder) AddTypeInt(width uint32, signed bool) uint32 {
	sign := uint32(0)
	if signed {
		sign = 1
	}
	return b.addType(spv.OpTypeInt, LiteralOperand(width), LiteralOperand(sign))
}

// AddTypeFloat adds OpTypeFloat.
func (b *Builder) AddTypeFloat(width uint32) uint32 {
	return b.addType(spv.OpTypeFloat, LiteralOperand(width))
}

// AddTypeVector adds OpTypeVector.
func (b *Builder) AddTypeVector(componentType uint32, count uint32) uint32 {
	return b.addType(spv.OpTypeVector, IDOperand(componentType), LiteralOperand(count))
}

// AddTypeArray adds OpTypeArray; length is a constant id.
func (b *Builder) AddTypeArray(elementType uint32, length uint32) uint32 {
	return b.addType(spv.OpTypeArray, IDOperand(elementType), IDOperand(length))
}

// AddTypeStruct adds OpTypeStruct.
func (b *Builder) AddTypeStruct(memberTypes ...uint32) uint32 {
	operands := make([]Operand, 0, len(memberTypes))
	for _, member := range memberTypes {
		operands = append(operands, IDOperand(member))
	}
	return b.addType(spv.OpTypeStruct, operands...)
}

// AddTypePointer adds OpTypePointer.
func (b *Builder) AddTypePointer(storageClass uint32, baseType uint32) uint32 {
	return b.addType(spv.OpTypePointer, LiteralOperand(storageClass), IDOperand(baseType))
}

// AddTypeFunction adds OpTypeFunction.
func (b *Builder) AddTypeFunction(returnType uint32, paramTypes ...uint32) uint32 {
	operands := []Operand{IDOperand(returnType)}
	for _, param := range paramTypes {
		operands = append(operands, IDOperand(param))
	}
	return b.addType(spv.OpTypeFunction, operands...)
}

func (b *Builder) addType(op spv.OpCode, operands ...Operand) uint32 {
	id := b.AllocID()
	b.module.TypesValues = append(b.module.TypesValues, &Instruction{
		Opcode:   op,
		ResultID: id,
		Operands: operands,
	})
	return id
}

// AddConstant adds OpConstant with raw value words.
func (b *Builder) AddConstant(typeID uint32, values ...uint32) uint32 {
	operands := make([]Operand, 0, len(values))
	for _, value := range values {
		operands = append(operands, LiteralOperand(value))
	}
	return b.addValue(spv.OpConstant, typeID, operands...)
}

// AddConstantFloat32 adds a 32-bit float OpConstant.
func (b *Builder) AddConstantFloat32(typeID uint32, value float32) uint32 {
	return b.AddConstant(typeID, math.Float32bits(value))
}

// AddConstantTrue adds OpConstantTrue.
func (b *Builder) AddConstantTrue(typeID uint32) uint32 {
	return b.addValue(spv.OpConstantTrue, typeID)
}

// AddConstantFalse adds OpConstantFalse.
func (b *Builder) AddConstantFalse(typeID uint32) uint32 {
	return b.addValue(spv.OpConstantFalse, typeID)
}

// AddConstantNull adds OpConstantNull.
func (b *Builder) AddConstantNull(typeID uint32) uint32 {
	return b.addValue(spv.OpConstantNull, typeID)
}

// AddConstantComposite adds OpConstantComposite from constituent ids.
func (b *Builder) AddConstantComposite(typeID uint32, constituents ...uint32) uint32 {
	operands := make([]Operand, 0, len(constituents))
	for _, constituent := range constituents {
		operands = append(operands, IDOperand(constituent))
	}
	return b.addValue(spv.OpConstantComposite, typeID, operands...)
}

// AddSpecConstant adds OpSpecConstant with raw value words.
func (b *Builder) AddSpecConstant(typeID uint32, values ...uint32) uint32 {
	operands := make([]Operand, 0, len(values))
	for _, value := range values {
		operands = append(operands, LiteralOperand(value))
	}
	return b.addValue(spv.OpSpecConstant, typeID, operands...)
}

// AddSpecConstantComposite adds OpSpecConstantComposite.
func (b *Builder) AddSpecConstantComposite(typeID uint32, constituents ...uint32) uint32 {
	operands := make([]Operand, 0, len(constituents))
	for _, constituent := range constituents {
		operands = append(operands, IDOperand(constituent))
	}
	return b.addValue(spv.OpSpecConstantComposite, typeID, operands...)
}

// AddSpecConstantOp adds OpSpecConstantOp wrapping the given opcode.
// The wrapped opcode is a literal; args are ids except for the literal
// tails of the composite access opcodes.
func (b *Builder) AddSpecConstantOp(typeID uint32, wrapped spv.OpCode, args ...uint32) uint32 {
	kinds := spv.SpecConstantOpTail(wrapped, len(args))
	operands := []Operand{LiteralOperand(uint32(wrapped))}
	for i, arg := range args {
		if kinds[i] == spv.OperandID {
			operands = append(operands, IDOperand(arg))
		} else {
			operands = append(operands, LiteralOperand(arg))
		}
	}
	return b.addValue(spv.OpSpecConstantOp, typeID, operands...)
}

// AddUndef adds OpUndef.
func (b *Builder) AddUndef(typeID uint32) uint32 {
	return b.addValue(spv.OpUndef, typeID)
}

// AddVariable adds a module-scope OpVariable, optionally with an
// initializer constant id.
func (b *Builder) AddVariable(pointerType uint32, storageClass uint32, initializer ...uint32) uint32 {
	operands := []Operand{LiteralOperand(storageClass)}
	for _, init := range initializer {
		operands = append(operands, IDOperand(init))
	}
	return b.addValue(spv.OpVariable, pointerType, operands...)
}

func (b *Builder) addValue(op spv.OpCode, typeID uint32, operands ...Operand) uint32 {
	id := b.AllocID()
	b.module.TypesValues = append(b.module.TypesValues, &Instruction{
		Opcode:   op,
		TypeID:   typeID,
		ResultID: id,
		Operands: operands,
	})
	return id
}

// AddFunction starts a function definition.
func (b *Builder) AddFunction(returnType uint32, control uint32, funcType uint32) uint32 {
	id := b.AllocID()
	b.addBody(&Instruction{
		Opcode:   spv.OpFunction,
		TypeID:   returnType,
		ResultID: id,
		Operands: []Operand{LiteralOperand(control), IDOperand(funcType)},
	})
	return id
}

// AddFunctionParameter adds an OpFunctionParameter.
func (b *Builder) AddFunctionParameter(typeID uint32) uint32 {
	id := b.AllocID()
	b.addBody(&Instruction{
		Opcode:   spv.OpFunctionParameter,
		TypeID:   typeID,
		ResultID: id,
	})
	return id
}

// AddLabel adds an OpLabel.
func (b *Builder) AddLabel() uint32 {
	id := b.AllocID()
	b.addBody(&Instruction{Opcode: spv.OpLabel, ResultID: id})
	return id
}

// AddBinaryOp adds a two-operand instruction such as OpIAdd.
func (b *Builder) AddBinaryOp(op spv.OpCode, resultType uint32, left, right uint32) uint32 {
	id := b.AllocID()
	b.addBody(&Instruction{
		Opcode:   op,
		TypeID:   resultType,
		ResultID: id,
		Operands: []Operand{IDOperand(left), IDOperand(right)},
	})
	return id
}

// AddCompositeConstruct adds OpCompositeConstruct.
func (b *Builder) AddCompositeConstruct(resultType uint32, constituents ...uint32) uint32 {
	id := b.AllocID()
	operands := make([]Operand, 0, len(constituents))
	for _, constituent := range constituents {
		operands = append(operands, IDOperand(constituent))
	}
	b.addBody(&Instruction{
		Opcode:   spv.OpCompositeConstruct,
		TypeID:   resultType,
		ResultID: id,
		Operands: operands,
	})
	return id
}

// AddStore adds OpStore.
func (b *Builder) AddStore(pointer, value uint32) {
	b.addBody(&Instruction{
		Opcode:   spv.OpStore,
		Operands: []Operand{IDOperand(pointer), IDOperand(value)},
	})
}

// AddReturn adds OpReturn.
func (b *Builder) AddReturn() {
	b.addBody(&Instruction{Opcode: spv.OpReturn})
}

// AddReturnValue adds OpReturnValue.
func (b *Builder) AddReturnValue(value uint32) {
	b.addBody(&Instruction{
		Opcode:   spv.OpReturnValue,
		Operands: []Operand{IDOperand(value)},
	})
}

// AddFunctionEnd closes the current function.
func (b *Builder) AddFunctionEnd() {
	b.addBody(&Instruction{Opcode: spv.OpFunctionEnd})
}

func (b *Builder) addBody(inst *Instruction) {
	b.module.Functions = append(b.module.Functions, inst)
}
