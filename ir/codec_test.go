package ir

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/spvopt/spv"
)

func buildCodecModule() *Module {
	b := NewBuilder()
	b.AddCapability(1)
	b.SetMemoryModel(0, 1)
	u32 := b.AddTypeInt(32, false)
	f32 := b.AddTypeFloat(32)
	vec2 := b.AddTypeVector(f32, 2)
	k1 := b.AddConstantFloat32(f32, 1.5)
	k2 := b.AddConstantComposite(vec2, k1, k1)
	length := b.AddConstant(u32, 4)
	b.AddTypeArray(f32, length)
	b.AddSpecConstantOp(u32, spv.OpIAdd, length, length)
	b.AddName(k2, "pair")
	b.AddDecorate(k2, 0)

	voidType := b.AddTypeVoid()
	fnType := b.AddTypeFunction(voidType)
	fn := b.AddFunction(voidType, 0, fnType)
	b.AddLabel()
	b.AddReturn()
	b.AddFunctionEnd()
	b.AddEntryPoint(5 /* GLCompute */, fn, "main")
	return b.Module()
}

func TestEncode_Header(t *testing.T) {
	m := buildCodecModule()
	data := Encode(m)

	require.GreaterOrEqual(t, len(data), 20)
	assert.Equal(t, uint32(spv.MagicNumber), binary.LittleEndian.Uint32(data[0:4]))
	assert.Equal(t, spv.Version1_3.Word(), binary.LittleEndian.Uint32(data[4:8]))
	assert.Equal(t, uint32(spv.GeneratorID), binary.LittleEndian.Uint32(data[8:12]))
	assert.Equal(t, m.Bound(), binary.LittleEndian.Uint32(data[12:16]))
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(data[16:20]))
}

func TestCodec_RoundTrip(t *testing.T) {
	m := buildCodecModule()
	data := Encode(m)

	decoded, err := Decode(data)
	require.NoError(t, err)

	var want, got []*Instruction
	m.ForEachInst(func(inst *Instruction) { want = append(want, inst) })
	decoded.ForEachInst(func(inst *Instruction) { got = append(got, inst) })
	require.Equal(t, len(want), len(got))

	for i := range want {
		assert.Equal(t, want[i].Opcode, got[i].Opcode, "instruction %d", i)
		assert.Equal(t, want[i].TypeID, got[i].TypeID, "instruction %d", i)
		assert.Equal(t, want[i].ResultID, got[i].ResultID, "instruction %d", i)
		require.Equal(t, len(want[i].Operands), len(got[i].Operands), "instruction %d (%s)", i, want[i].Opcode)
		for j := range want[i].Operands {
			assert.Equal(t, want[i].Operands[j].Kind, got[i].Operands[j].Kind,
				"instruction %d (%s) operand %d kind", i, want[i].Opcode, j)
			assert.Equal(t, want[i].Operands[j].Words, got[i].Operands[j].Words,
				"instruction %d (%s) operand %d words", i, want[i].Opcode, j)
		}
	}

	// A second round trip is byte-identical.
	assert.Equal(t, data, Encode(decoded))
}

func TestCodec_KilledInstructionsOmitted(t *testing.T) {
	m := buildCodecModule()
	ctx := NewContext(m)
	var name *Instruction
	m.ForEachInst(func(inst *Instruction) {
		if inst.Opcode == spv.OpName {
			name = inst
		}
	})
	require.NotNil(t, name)
	ctx.KillInst(name)

	decoded, err := Decode(Encode(m))
	require.NoError(t, err)
	assert.Empty(t, decoded.Debug2)
}

func TestDecode_Errors(t *testing.T) {
	valid := Encode(buildCodecModule())

	t.Run("too short", func(t *testing.T) {
		_, err := Decode(valid[:12])
		assert.ErrorIs(t, err, ErrTruncated)
	})

	t.Run("misaligned", func(t *testing.T) {
		_, err := Decode(valid[:len(valid)-2])
		assert.ErrorIs(t, err, ErrTruncated)
	})

	t.Run("bad magic", func(t *testing.T) {
		bad := append([]byte(nil), valid...)
		bad[0] = 0xFF
		_, err := Decode(bad)
		assert.ErrorIs(t, err, ErrBadMagic)
	})

	t.Run("zero word count", func(t *testing.T) {
		bad := append([]byte(nil), valid...)
		binary.LittleEndian.PutUint32(bad[20:], 0)
		_, err := Decode(bad)
		assert.ErrorIs(t, err, ErrTruncated)
	})

	t.Run("unsupported opcode", func(t *testing.T) {
		header := valid[:20]
		inst := make([]byte, 4)
		binary.LittleEndian.PutUint32(inst, 1<<16|4000)
		_, err := Decode(append(append([]byte(nil), header...), inst...))
		assert.ErrorIs(t, err, ErrUnsupportedOp)
	})

	t.Run("truncated operands", func(t *testing.T) {
		header := valid[:20]
		// OpTypeInt with a word count of 2: result id but no width.
		inst := make([]byte, 8)
		binary.LittleEndian.PutUint32(inst, 2<<16|uint32(spv.OpTypeInt))
		binary.LittleEndian.PutUint32(inst[4:], 1)
		_, err := Decode(append(append([]byte(nil), header...), inst...))
		assert.ErrorIs(t, err, ErrMalformedOperands)
	})
}

func TestDecode_SpecConstantOpOperandKinds(t *testing.T) {
	b := NewBuilder()
	b.AddCapability(1)
	b.SetMemoryModel(0, 1)
	u32 := b.AddTypeInt(32, false)
	vec2 := b.AddTypeVector(u32, 2)
	k := b.AddConstant(u32, 3)
	kv := b.AddConstantComposite(vec2, k, k)
	b.AddSpecConstantOp(u32, spv.OpCompositeExtract, kv, 1)

	decoded, err := Decode(Encode(b.Module()))
	require.NoError(t, err)

	var specOp *Instruction
	decoded.ForEachInst(func(inst *Instruction) {
		if inst.Opcode == spv.OpSpecConstantOp {
			specOp = inst
		}
	})
	require.NotNil(t, specOp)
	require.Len(t, specOp.Operands, 3)
	assert.Equal(t, spv.OperandLiteral, specOp.Operands[0].Kind, "wrapped opcode")
	assert.Equal(t, spv.OperandID, specOp.Operands[1].Kind, "composite")
	assert.Equal(t, spv.OperandLiteral, specOp.Operands[2].Kind, "index")
}

func TestDecode_FunctionSectionPlacement(t *testing.T) {
	m := buildCodecModule()
	decoded, err := Decode(Encode(m))
	require.NoError(t, err)

	require.NotEmpty(t, decoded.Functions)
	assert.Equal(t, spv.OpFunction, decoded.Functions[0].Opcode)
	assert.Equal(t, spv.OpFunctionEnd, decoded.Functions[len(decoded.Functions)-1].Opcode)
	require.Len(t, decoded.EntryPoints, 1)
	assert.Equal(t, "main", decoded.EntryPoints[0].Operands[2].String())
}
