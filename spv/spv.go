package spv

import "fmt"

// MagicNumber is the SPIR-V module magic, first word of every binary.
const MagicNumber = 0x07230203

// GeneratorID identifies modules written by this tool (unregistered).
const GeneratorID = 0x00000000

// WordSize is the size of a SPIR-V word in bytes.
const WordSize = 4

// Version represents a SPIR-V version.
type Version struct {
	Major uint8
	Minor uint8
}

// Common SPIR-V versions
var (
	Version1_0 = Version{1, 0}
	Version1_3 = Version{1, 3}
	Version1_4 = Version{1, 4}
	Version1_5 = Version{1, 5}
	Version1_6 = Version{1, 6}
)

// Word returns the version encoded as a module header word.
func (v Version) Word() uint32 {
	return (uint32(v.Major) << 16) | (uint32(v.Minor) << 8)
}

// VersionFromWord decodes a module header version word.
func VersionFromWord(w uint32) Version {
	return Version{Major: uint8(w >> 16), Minor: uint8(w >> 8)}
}

// String returns the version in "major.minor" form.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// OpCode represents a SPIR-V opcode.
type OpCode uint16

// Opcodes understood by the optimizer. The numeric values are fixed by
// the SPIR-V specification.
const (
	OpNop                    OpCode = 0
	OpUndef                  OpCode = 1
	OpSourceContinued        OpCode = 2
	OpSource                 OpCode = 3
	OpSourceExtension        OpCode = 4
	OpName                   OpCode = 5
	OpMemberName             OpCode = 6
	OpString                 OpCode = 7
	OpLine                   OpCode = 8
	OpExtension              OpCode = 10
	OpExtInstImport          OpCode = 11
	OpExtInst                OpCode = 12
	OpMemoryModel            OpCode = 14
	OpEntryPoint             OpCode = 15
	OpExecutionMode          OpCode = 16
	OpCapability             OpCode = 17
	OpTypeVoid               OpCode = 19
	OpTypeBool               OpCode = 20
	OpTypeInt                OpCode = 21
	OpTypeFloat              OpCode = 22
	OpTypeVector             OpCode = 23
	OpTypeMatrix             OpCode = 24
	OpTypeImage              OpCode = 25
	OpTypeSampler            OpCode = 26
	OpTypeSampledImage       OpCode = 27
	OpTypeArray              OpCode = 28
	OpTypeRuntimeArray       OpCode = 29
	OpTypeStruct             OpCode = 30
	OpTypeOpaque             OpCode = 31
	OpTypePointer            OpCode = 32
	OpTypeFunction           OpCode = 33
	OpTypeForwardPointer     OpCode = 39
	OpConstantTrue           OpCode = 41
	OpConstantFalse          OpCode = 42
	OpConstant               OpCode = 43
	OpConstantComposite      OpCode = 44
	OpConstantSampler        OpCode = 45
	OpConstantNull           OpCode = 46
	OpSpecConstantTrue       OpCode = 48
	OpSpecConstantFalse      OpCode = 49
	OpSpecConstant           OpCode = 50
	OpSpecConstantComposite  OpCode = 51
	OpSpecConstantOp         OpCode = 52
	OpFunction               OpCode = 54
	OpFunctionParameter      OpCode = 55
	OpFunctionEnd            OpCode = 56
	OpFunctionCall           OpCode = 57
	OpVariable               OpCode = 59
	OpLoad                   OpCode = 61
	OpStore                  OpCode = 62
	OpAccessChain            OpCode = 65
	OpInBoundsAccessChain    OpCode = 66
	OpPtrAccessChain         OpCode = 67
	OpArrayLength            OpCode = 68
	OpInBoundsPtrAccessChain OpCode = 70
	OpDecorate               OpCode = 71
	OpMemberDecorate         OpCode = 72
	OpDecorationGroup        OpCode = 73
	OpGroupDecorate          OpCode = 74
	OpGroupMemberDecorate    OpCode = 75
	OpVectorExtractDynamic   OpCode = 77
	OpVectorInsertDynamic    OpCode = 78
	OpVectorShuffle          OpCode = 79
	OpCompositeConstruct     OpCode = 80
	OpCompositeExtract       OpCode = 81
	OpCompositeInsert        OpCode = 82
	OpCopyObject             OpCode = 83
	OpTranspose              OpCode = 84
	OpSampledImage           OpCode = 86
	OpImageSampleImplicitLod OpCode = 87
	OpConvertFToU            OpCode = 109
	OpConvertFToS            OpCode = 110
	OpConvertSToF            OpCode = 111
	OpConvertUToF            OpCode = 112
	OpUConvert               OpCode = 113
	OpSConvert               OpCode = 114
	OpFConvert               OpCode = 115
	OpQuantizeToF16          OpCode = 116
	OpBitcast                OpCode = 124
	OpSNegate                OpCode = 126
	OpFNegate                OpCode = 127
	OpIAdd                   OpCode = 128
	OpFAdd                   OpCode = 129
	OpISub                   OpCode = 130
	OpFSub                   OpCode = 131
	OpIMul                   OpCode = 132
	OpFMul                   OpCode = 133
	OpUDiv                   OpCode = 134
	OpSDiv                   OpCode = 135
	OpFDiv                   OpCode = 136
	OpUMod                   OpCode = 137
	OpSRem                   OpCode = 138
	OpSMod                   OpCode = 139
	OpFRem                   OpCode = 140
	OpFMod                   OpCode = 141
	OpVectorTimesScalar      OpCode = 142
	OpDot                    OpCode = 148
	OpAny                    OpCode = 154
	OpAll                    OpCode = 155
	OpIsNan                  OpCode = 156
	OpIsInf                  OpCode = 157
	OpLogicalEqual           OpCode = 164
	OpLogicalNotEqual        OpCode = 165
	OpLogicalOr              OpCode = 166
	OpLogicalAnd             OpCode = 167
	OpLogicalNot             OpCode = 168
	OpSelect                 OpCode = 169
	OpIEqual                 OpCode = 170
	OpINotEqual              OpCode = 171
	OpUGreaterThan           OpCode = 172
	OpSGreaterThan           OpCode = 173
	OpUGreaterThanEqual      OpCode = 174
	OpSGreaterThanEqual      OpCode = 175
	OpULessThan              OpCode = 176
	OpSLessThan              OpCode = 177
	OpULessThanEqual         OpCode = 178
	OpSLessThanEqual         OpCode = 179
	OpFOrdEqual              OpCode = 180
	OpFUnordEqual            OpCode = 181
	OpFOrdNotEqual           OpCode = 182
	OpFUnordNotEqual         OpCode = 183
	OpFOrdLessThan           OpCode = 184
	OpFUnordLessThan         OpCode = 185
	OpFOrdGreaterThan        OpCode = 186
	OpFUnordGreaterThan      OpCode = 187
	OpShiftRightLogical      OpCode = 194
	OpShiftRightArithmetic   OpCode = 195
	OpShiftLeftLogical       OpCode = 196
	OpBitwiseOr              OpCode = 197
	OpBitwiseXor             OpCode = 198
	OpBitwiseAnd             OpCode = 199
	OpNot                    OpCode = 200
	OpBitReverse             OpCode = 204
	OpBitCount               OpCode = 205
	OpPhi                    OpCode = 245
	OpLoopMerge              OpCode = 246
	OpSelectionMerge         OpCode = 247
	OpLabel                  OpCode = 248
	OpBranch                 OpCode = 249
	OpBranchConditional      OpCode = 250
	OpSwitch                 OpCode = 251
	OpKill                   OpCode = 252
	OpReturn                 OpCode = 253
	OpReturnValue            OpCode = 254
	OpUnreachable            OpCode = 255
	OpNoLine                 OpCode = 317
	OpModuleProcessed        OpCode = 330
)

// String returns the "OpXxx" name for known opcodes, "Op<n>" otherwise.
func (op OpCode) String() string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return fmt.Sprintf("Op%d", op)
}

var opcodeNames = map[OpCode]string{
	OpNop: "OpNop", OpUndef: "OpUndef", OpSourceContinued: "OpSourceContinued",
	OpSource: "OpSource", OpSourceExtension: "OpSourceExtension",
	OpName: "OpName", OpMemberName: "OpMemberName", OpString: "OpString",
	OpLine: "OpLine", OpExtension: "OpExtension",
	OpExtInstImport: "OpExtInstImport", OpExtInst: "OpExtInst",
	OpMemoryModel: "OpMemoryModel", OpEntryPoint: "OpEntryPoint",
	OpExecutionMode: "OpExecutionMode", OpCapability: "OpCapability",
	OpTypeVoid: "OpTypeVoid", OpTypeBool: "OpTypeBool", OpTypeInt: "OpTypeInt",
	OpTypeFloat: "OpTypeFloat", OpTypeVector: "OpTypeVector",
	OpTypeMatrix: "OpTypeMatrix", OpTypeImage: "OpTypeImage",
	OpTypeSampler: "OpTypeSampler", OpTypeSampledImage: "OpTypeSampledImage",
	OpTypeArray: "OpTypeArray", OpTypeRuntimeArray: "OpTypeRuntimeArray",
	OpTypeStruct: "OpTypeStruct", OpTypeOpaque: "OpTypeOpaque",
	OpTypePointer: "OpTypePointer", OpTypeFunction: "OpTypeFunction",
	OpTypeForwardPointer: "OpTypeForwardPointer",
	OpConstantTrue:       "OpConstantTrue", OpConstantFalse: "OpConstantFalse",
	OpConstant: "OpConstant", OpConstantComposite: "OpConstantComposite",
	OpConstantSampler: "OpConstantSampler", OpConstantNull: "OpConstantNull",
	OpSpecConstantTrue: "OpSpecConstantTrue", OpSpecConstantFalse: "OpSpecConstantFalse",
	OpSpecConstant: "OpSpecConstant", OpSpecConstantComposite: "OpSpecConstantComposite",
	OpSpecConstantOp: "OpSpecConstantOp",
	OpFunction:       "OpFunction", OpFunctionParameter: "OpFunctionParameter",
	OpFunctionEnd: "OpFunctionEnd", OpFunctionCall: "OpFunctionCall",
	OpVariable: "OpVariable", OpLoad: "OpLoad", OpStore: "OpStore",
	OpAccessChain: "OpAccessChain", OpInBoundsAccessChain: "OpInBoundsAccessChain",
	OpPtrAccessChain: "OpPtrAccessChain", OpArrayLength: "OpArrayLength",
	OpInBoundsPtrAccessChain: "OpInBoundsPtrAccessChain",
	OpDecorate:               "OpDecorate", OpMemberDecorate: "OpMemberDecorate",
	OpDecorationGroup: "OpDecorationGroup", OpGroupDecorate: "OpGroupDecorate",
	OpGroupMemberDecorate: "OpGroupMemberDecorate",
	OpVectorExtractDynamic: "OpVectorExtractDynamic",
	OpVectorInsertDynamic:  "OpVectorInsertDynamic",
	OpVectorShuffle:        "OpVectorShuffle",
	OpCompositeConstruct:   "OpCompositeConstruct",
	OpCompositeExtract:     "OpCompositeExtract",
	OpCompositeInsert:      "OpCompositeInsert",
	OpCopyObject:           "OpCopyObject", OpTranspose: "OpTranspose",
	OpSampledImage: "OpSampledImage", OpImageSampleImplicitLod: "OpImageSampleImplicitLod",
	OpConvertFToU: "OpConvertFToU", OpConvertFToS: "OpConvertFToS",
	OpConvertSToF: "OpConvertSToF", OpConvertUToF: "OpConvertUToF",
	OpUConvert: "OpUConvert", OpSConvert: "OpSConvert", OpFConvert: "OpFConvert",
	OpQuantizeToF16: "OpQuantizeToF16", OpBitcast: "OpBitcast",
	OpSNegate: "OpSNegate", OpFNegate: "OpFNegate",
	OpIAdd: "OpIAdd", OpFAdd: "OpFAdd", OpISub: "OpISub", OpFSub: "OpFSub",
	OpIMul: "OpIMul", OpFMul: "OpFMul", OpUDiv: "OpUDiv", OpSDiv: "OpSDiv",
	OpFDiv: "OpFDiv", OpUMod: "OpUMod", OpSRem: "OpSRem", OpSMod: "OpSMod",
	OpFRem: "OpFRem", OpFMod: "OpFMod",
	OpVectorTimesScalar: "OpVectorTimesScalar", OpDot: "OpDot",
	OpAny: "OpAny", OpAll: "OpAll", OpIsNan: "OpIsNan", OpIsInf: "OpIsInf",
	OpLogicalEqual: "OpLogicalEqual", OpLogicalNotEqual: "OpLogicalNotEqual",
	OpLogicalOr: "OpLogicalOr", OpLogicalAnd: "OpLogicalAnd",
	OpLogicalNot: "OpLogicalNot", OpSelect: "OpSelect",
	OpIEqual: "OpIEqual", OpINotEqual: "OpINotEqual",
	OpUGreaterThan: "OpUGreaterThan", OpSGreaterThan: "OpSGreaterThan",
	OpUGreaterThanEqual: "OpUGreaterThanEqual", OpSGreaterThanEqual: "OpSGreaterThanEqual",
	OpULessThan: "OpULessThan", OpSLessThan: "OpSLessThan",
	OpULessThanEqual: "OpULessThanEqual", OpSLessThanEqual: "OpSLessThanEqual",
	OpFOrdEqual: "OpFOrdEqual", OpFUnordEqual: "OpFUnordEqual",
	OpFOrdNotEqual: "OpFOrdNotEqual", OpFUnordNotEqual: "OpFUnordNotEqual",
	OpFOrdLessThan: "OpFOrdLessThan", OpFUnordLessThan: "OpFUnordLessThan",
	OpFOrdGreaterThan: "OpFOrdGreaterThan", OpFUnordGreaterThan: "OpFUnordGreaterThan",
	OpShiftRightLogical: "OpShiftRightLogical", OpShiftRightArithmetic: "OpShiftRightArithmetic",
	OpShiftLeftLogical: "OpShiftLeftLogical",
	OpBitwiseOr:        "OpBitwiseOr", OpBitwiseXor: "OpBitwiseXor",
	OpBitwiseAnd: "OpBitwiseAnd", OpNot: "OpNot",
	OpBitReverse: "OpBitReverse", OpBitCount: "OpBitCount",
	OpPhi: "OpPhi", OpLoopMerge: "OpLoopMerge", OpSelectionMerge: "OpSelectionMerge",
	OpLabel: "OpLabel", OpBranch: "OpBranch",
	OpBranchConditional: "OpBranchConditional", OpSwitch: "OpSwitch",
	OpKill: "OpKill", OpReturn: "OpReturn", OpReturnValue: "OpReturnValue",
	OpUnreachable: "OpUnreachable", OpNoLine: "OpNoLine",
	OpModuleProcessed: "OpModuleProcessed",
}
