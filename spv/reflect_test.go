package spv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsConstantOp(t *testing.T) {
	constants := []OpCode{
		OpConstantTrue, OpConstantFalse, OpConstant, OpConstantComposite,
		OpConstantSampler, OpConstantNull, OpSpecConstantTrue,
		OpSpecConstantFalse, OpSpecConstant, OpSpecConstantComposite,
		OpSpecConstantOp,
	}
	for _, op := range constants {
		assert.True(t, IsConstantOp(op), "%s", op)
	}

	others := []OpCode{OpNop, OpTypeInt, OpVariable, OpFunction, OpDecorate, OpName}
	for _, op := range others {
		assert.False(t, IsConstantOp(op), "%s", op)
	}
}

func TestIsMetadataOp(t *testing.T) {
	tests := []struct {
		op         OpCode
		annotation bool
		debug1     bool
		debug2     bool
		debug3     bool
	}{
		{op: OpDecorate, annotation: true},
		{op: OpMemberDecorate, annotation: true},
		{op: OpDecorationGroup, annotation: true},
		{op: OpGroupDecorate, annotation: true},
		{op: OpGroupMemberDecorate, annotation: true},
		{op: OpSource, debug1: true},
		{op: OpSourceContinued, debug1: true},
		{op: OpSourceExtension, debug1: true},
		{op: OpString, debug1: true},
		{op: OpName, debug2: true},
		{op: OpMemberName, debug2: true},
		{op: OpModuleProcessed, debug3: true},
		{op: OpConstant},
		{op: OpLoad},
		{op: OpExtension},
	}
	for _, tt := range tests {
		t.Run(tt.op.String(), func(t *testing.T) {
			assert.Equal(t, tt.annotation, IsAnnotationOp(tt.op))
			assert.Equal(t, tt.debug1, IsDebug1Op(tt.op))
			assert.Equal(t, tt.debug2, IsDebug2Op(tt.op))
			assert.Equal(t, tt.debug3, IsDebug3Op(tt.op))

			isMetadata := tt.annotation || tt.debug1 || tt.debug2 || tt.debug3
			assert.Equal(t, isMetadata, IsMetadataOp(tt.op))
		})
	}
}

func TestIsDebugOp_IncludesLineMarkers(t *testing.T) {
	assert.True(t, IsDebugOp(OpLine))
	assert.True(t, IsDebugOp(OpNoLine))
	assert.True(t, IsDebugOp(OpName))
	assert.False(t, IsDebugOp(OpDecorate), "annotations are not debug info")
	assert.False(t, IsMetadataOp(OpLine), "line markers are not a metadata use")
}

func TestIsTypeOp(t *testing.T) {
	assert.True(t, IsTypeOp(OpTypeVoid))
	assert.True(t, IsTypeOp(OpTypeFunction))
	assert.True(t, IsTypeOp(OpTypeForwardPointer))
	assert.False(t, IsTypeOp(OpConstant))
}

func TestOpCodeString(t *testing.T) {
	assert.Equal(t, "OpConstantComposite", OpConstantComposite.String())
	assert.Equal(t, "Op9999", OpCode(9999).String())
}
