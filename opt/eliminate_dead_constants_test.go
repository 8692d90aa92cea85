package opt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/spvopt/ir"
	"github.com/gogpu/spvopt/spv"
)

// shaderSkeleton adds the non-constant scaffolding every test module
// shares and returns a 32-bit unsigned int type id.
func shaderSkeleton(b *ir.Builder) uint32 {
	b.AddCapability(1) // Shader
	b.SetMemoryModel(0, 1)
	return b.AddTypeInt(32, false)
}

// addConsumer adds a function whose body performs real arithmetic on
// the given constant ids.
func addConsumer(b *ir.Builder, typeID uint32, args ...uint32) {
	voidType := b.AddTypeVoid()
	fnType := b.AddTypeFunction(voidType)
	b.AddFunction(voidType, 0, fnType)
	b.AddLabel()
	for _, arg := range args {
		b.AddBinaryOp(spv.OpIAdd, typeID, arg, arg)
	}
	b.AddReturn()
	b.AddFunctionEnd()
}

func liveResultIDs(m *ir.Module) map[uint32]bool {
	live := make(map[uint32]bool)
	m.ForEachInst(func(inst *ir.Instruction) {
		if inst.HasResult() {
			live[inst.ResultID] = true
		}
	})
	return live
}

func runPass(t *testing.T, m *ir.Module) Status {
	t.Helper()
	pass := &EliminateDeadConstants{}
	return pass.Run(ir.NewContext(m))
}

func TestEliminateDeadConstants_UnusedScalar(t *testing.T) {
	b := ir.NewBuilder()
	u32 := shaderSkeleton(b)
	k1 := b.AddConstant(u32, 7)

	status := runPass(t, b.Module())

	assert.Equal(t, StatusChanged, status)
	assert.False(t, liveResultIDs(b.Module())[k1], "unused constant should be removed")
	assert.True(t, liveResultIDs(b.Module())[u32], "type should survive")
}

func TestEliminateDeadConstants_CompositeChain(t *testing.T) {
	b := ir.NewBuilder()
	u32 := shaderSkeleton(b)
	vec2 := b.AddTypeVector(u32, 2)
	k1 := b.AddConstant(u32, 1)
	k2 := b.AddConstantComposite(vec2, k1, k1)

	// K1's only uses come from K2; K2 has none. Both must go, K1's
	// count reaching zero only after K2 is processed.
	status := runPass(t, b.Module())

	assert.Equal(t, StatusChanged, status)
	live := liveResultIDs(b.Module())
	assert.False(t, live[k1])
	assert.False(t, live[k2])
}

func TestEliminateDeadConstants_RealUseKeepsAlive(t *testing.T) {
	b := ir.NewBuilder()
	u32 := shaderSkeleton(b)
	k3 := b.AddConstant(u32, 3)
	decorate := b.AddDecorate(k3, 0) // RelaxedPrecision
	addConsumer(b, u32, k3)

	status := runPass(t, b.Module())

	assert.Equal(t, StatusUnchanged, status)
	assert.True(t, liveResultIDs(b.Module())[k3])
	assert.False(t, decorate.IsNop(), "annotation of a live constant must survive")
}

func TestEliminateDeadConstants_MetadataOnlyUseIsDead(t *testing.T) {
	b := ir.NewBuilder()
	u32 := shaderSkeleton(b)
	k4 := b.AddConstant(u32, 4)
	name := b.AddName(k4, "answer")
	decorate := b.AddDecorate(k4, 0)

	status := runPass(t, b.Module())

	assert.Equal(t, StatusChanged, status)
	assert.False(t, liveResultIDs(b.Module())[k4], "metadata uses must not keep a constant alive")
	assert.True(t, name.IsNop(), "debug name of a dead constant is removed")
	assert.True(t, decorate.IsNop(), "annotation of a dead constant is removed")
}

func TestEliminateDeadConstants_NoConstants(t *testing.T) {
	b := ir.NewBuilder()
	shaderSkeleton(b)

	status := runPass(t, b.Module())

	assert.Equal(t, StatusUnchanged, status)
}

func TestEliminateDeadConstants_DiamondPropagation(t *testing.T) {
	b := ir.NewBuilder()
	u32 := shaderSkeleton(b)
	vec2 := b.AddTypeVector(u32, 2)
	vec4 := b.AddTypeVector(u32, 4)
	base := b.AddConstant(u32, 1)
	left := b.AddConstantComposite(vec2, base, base)
	right := b.AddConstantComposite(vec2, base, base)
	top := b.AddConstantComposite(vec4, left, right)

	status := runPass(t, b.Module())

	assert.Equal(t, StatusChanged, status)
	live := liveResultIDs(b.Module())
	for _, id := range []uint32{base, left, right, top} {
		assert.False(t, live[id], "constant %%%d should be dead", id)
	}
}

func TestEliminateDeadConstants_SpecConstantOpChain(t *testing.T) {
	b := ir.NewBuilder()
	u32 := shaderSkeleton(b)
	k1 := b.AddSpecConstant(u32, 10)
	k2 := b.AddSpecConstantOp(u32, spv.OpIAdd, k1, k1)

	status := runPass(t, b.Module())

	assert.Equal(t, StatusChanged, status)
	live := liveResultIDs(b.Module())
	assert.False(t, live[k1])
	assert.False(t, live[k2])
}

// The first operand of OpSpecConstantOp encodes the wrapped opcode as
// a literal. Even when that literal happens to collide with a live
// constant's result id, it must never be treated as a reference.
func TestEliminateDeadConstants_WrappedOpcodeLiteralNotAReference(t *testing.T) {
	b := ir.NewBuilder()
	u32 := shaderSkeleton(b) // id 1
	collider := b.AddConstant(u32, 99)
	require.Equal(t, uint32(2), collider)
	b.AddTypeArray(u32, collider) // collider's single real use
	other := b.AddConstant(u32, 5)

	// Handcraft a dead OpSpecConstantOp whose wrapped-opcode literal
	// equals collider's id. If the literal were treated as a
	// reference, collider's only use would be released and it would be
	// removed.
	m := b.Module()
	dead := &ir.Instruction{
		Opcode:   spv.OpSpecConstantOp,
		TypeID:   u32,
		ResultID: b.AllocID(),
		Operands: []ir.Operand{
			ir.LiteralOperand(collider),
			ir.IDOperand(other),
		},
	}
	m.TypesValues = append(m.TypesValues, dead)

	status := runPass(t, m)

	assert.Equal(t, StatusChanged, status)
	live := liveResultIDs(m)
	assert.True(t, live[collider], "literal operand must not release a use of %%2")
	assert.False(t, live[other])
	assert.False(t, live[dead.ResultID])
}

func TestEliminateDeadConstants_UsedCompositeKeepsConstituents(t *testing.T) {
	b := ir.NewBuilder()
	u32 := shaderSkeleton(b)
	vec2 := b.AddTypeVector(u32, 2)
	k1 := b.AddConstant(u32, 1)
	k2 := b.AddConstantComposite(vec2, k1, k1)
	ptr := b.AddTypePointer(6 /* Private */, vec2)
	b.AddVariable(ptr, 6, k2)

	status := runPass(t, b.Module())

	assert.Equal(t, StatusUnchanged, status)
	live := liveResultIDs(b.Module())
	assert.True(t, live[k1])
	assert.True(t, live[k2])
}

func TestEliminateDeadConstants_ArrayLengthUseIsReal(t *testing.T) {
	b := ir.NewBuilder()
	u32 := shaderSkeleton(b)
	length := b.AddConstant(u32, 16)
	b.AddTypeArray(u32, length)

	status := runPass(t, b.Module())

	assert.Equal(t, StatusUnchanged, status)
	assert.True(t, liveResultIDs(b.Module())[length], "use as array length is a real use")
}

// A metadata instruction referencing any dead constant is removed,
// even when it also references a live one. This over-approximation is
// deliberate; changing it is a semantic change, not a cleanup.
func TestEliminateDeadConstants_MixedReferenceMetadataRemoved(t *testing.T) {
	b := ir.NewBuilder()
	u32 := shaderSkeleton(b)
	liveConst := b.AddConstant(u32, 1)
	deadConst := b.AddConstant(u32, 2)
	addConsumer(b, u32, liveConst)
	group := b.AddDecorationGroup()
	groupDecorate := b.AddGroupDecorate(group, deadConst, liveConst)

	status := runPass(t, b.Module())

	assert.Equal(t, StatusChanged, status)
	live := liveResultIDs(b.Module())
	assert.True(t, live[liveConst])
	assert.False(t, live[deadConst])
	assert.True(t, groupDecorate.IsNop())
}

func TestEliminateDeadConstants_Idempotent(t *testing.T) {
	b := ir.NewBuilder()
	u32 := shaderSkeleton(b)
	vec2 := b.AddTypeVector(u32, 2)
	k1 := b.AddConstant(u32, 1)
	b.AddConstantComposite(vec2, k1, k1)
	kept := b.AddConstant(u32, 2)
	addConsumer(b, u32, kept)

	m := b.Module()
	require.Equal(t, StatusChanged, runPass(t, m))
	assert.Equal(t, StatusUnchanged, runPass(t, m))
}

func TestEliminateDeadConstants_NoDanglingReferences(t *testing.T) {
	b := ir.NewBuilder()
	u32 := shaderSkeleton(b)
	vec2 := b.AddTypeVector(u32, 2)
	k1 := b.AddConstant(u32, 1)
	k2 := b.AddConstantComposite(vec2, k1, k1)
	b.AddName(k2, "gone")
	kept := b.AddConstant(u32, 5)
	b.AddDecorate(kept, 0)
	addConsumer(b, u32, kept)

	m := b.Module()
	runPass(t, m)

	defined := liveResultIDs(m)
	m.ForEachInst(func(inst *ir.Instruction) {
		inst.ForEachInID(func(id uint32) {
			assert.True(t, defined[id], "%s references removed id %%%d", inst.Opcode, id)
		})
	})
}

// A decrement below zero means the def-use index and the instruction
// graph disagree. That is a caller bug, and the pass refuses to
// produce output from a graph it cannot trust.
func TestEliminateDeadConstants_UnderflowPanics(t *testing.T) {
	b := ir.NewBuilder()
	u32 := shaderSkeleton(b)
	vec2 := b.AddTypeVector(u32, 2)
	k1 := b.AddConstant(u32, 1)
	k2ID := b.AddConstantComposite(vec2, k1)

	m := b.Module()
	ctx := ir.NewContext(m)
	ctx.DefUse() // freeze the index before corrupting the graph

	var k2 *ir.Instruction
	m.ForEachInst(func(inst *ir.Instruction) {
		if inst.ResultID == k2ID {
			k2 = inst
		}
	})
	require.NotNil(t, k2)
	k2.Operands = append(k2.Operands, ir.IDOperand(k1))

	pass := &EliminateDeadConstants{}
	assert.Panics(t, func() { pass.Run(ctx) })
}
