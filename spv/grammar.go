package spv

// OperandKind tags how an operand word (or word group) is interpreted.
type OperandKind uint8

const (
	// OperandLiteral is a literal number or enum value.
	OperandLiteral OperandKind = iota

	// OperandID is a reference to another instruction's result id.
	OperandID

	// OperandString is a null-terminated literal string spanning one
	// or more words.
	OperandString
)

// String returns a short name for the kind.
func (k OperandKind) String() string {
	switch k {
	case OperandLiteral:
		return "Literal"
	case OperandID:
		return "ID"
	case OperandString:
		return "String"
	default:
		return "Unknown"
	}
}

// Layout describes the operand shape of one opcode: whether it carries
// a result type and result id, the kinds of its leading in-operands,
// and the kind of any variadic tail.
//
// The in-operand list excludes the result type and result id words.
type Layout struct {
	HasResultType bool
	HasResult     bool
	Fixed         []OperandKind
	Tail          OperandKind
	Variadic      bool
}

// LayoutOf returns the operand layout for op. The second result is
// false for opcodes the grammar does not cover; the decoder treats
// those as an error rather than guessing at operand kinds.
//
// OpSpecConstantOp, OpSwitch, and OpGroupMemberDecorate have operand
// kinds that the fixed/tail shape cannot express; the decoder handles
// them specially (see SpecConstantOpTail).
func LayoutOf(op OpCode) (Layout, bool) {
	if l, ok := layouts[op]; ok {
		return l, true
	}
	// Conversions, arithmetic, logic, and bit instructions share one
	// shape: result type, result id, then id operands only.
	if op >= OpConvertFToU && op <= OpBitCount {
		return Layout{HasResultType: true, HasResult: true, Tail: OperandID, Variadic: true}, true
	}
	return Layout{}, false
}

var layouts = map[OpCode]Layout{
	OpNop:             {},
	OpUndef:           {HasResultType: true, HasResult: true},
	OpSourceContinued: {Fixed: []OperandKind{OperandString}},
	// The optional file id and source text of OpSource are carried as
	// opaque literal words; nothing in the optimizer inspects them.
	OpSource:            {Fixed: []OperandKind{OperandLiteral, OperandLiteral}, Tail: OperandLiteral, Variadic: true},
	OpSourceExtension:   {Fixed: []OperandKind{OperandString}},
	OpName:              {Fixed: []OperandKind{OperandID, OperandString}},
	OpMemberName:        {Fixed: []OperandKind{OperandID, OperandLiteral, OperandString}},
	OpString:            {HasResult: true, Fixed: []OperandKind{OperandString}},
	OpLine:              {Fixed: []OperandKind{OperandID, OperandLiteral, OperandLiteral}},
	OpExtension:         {Fixed: []OperandKind{OperandString}},
	OpExtInstImport:     {HasResult: true, Fixed: []OperandKind{OperandString}},
	OpExtInst:           {HasResultType: true, HasResult: true, Fixed: []OperandKind{OperandID, OperandLiteral}, Tail: OperandID, Variadic: true},
	OpMemoryModel:       {Fixed: []OperandKind{OperandLiteral, OperandLiteral}},
	OpEntryPoint:        {Fixed: []OperandKind{OperandLiteral, OperandID, OperandString}, Tail: OperandID, Variadic: true},
	OpExecutionMode:     {Fixed: []OperandKind{OperandID, OperandLiteral}, Tail: OperandLiteral, Variadic: true},
	OpCapability:        {Fixed: []OperandKind{OperandLiteral}},
	OpTypeVoid:          {HasResult: true},
	OpTypeBool:          {HasResult: true},
	OpTypeInt:           {HasResult: true, Fixed: []OperandKind{OperandLiteral, OperandLiteral}},
	OpTypeFloat:         {HasResult: true, Fixed: []OperandKind{OperandLiteral}, Tail: OperandLiteral, Variadic: true},
	OpTypeVector:        {HasResult: true, Fixed: []OperandKind{OperandID, OperandLiteral}},
	OpTypeMatrix:        {HasResult: true, Fixed: []OperandKind{OperandID, OperandLiteral}},
	OpTypeImage:         {HasResult: true, Fixed: []OperandKind{OperandID, OperandLiteral, OperandLiteral, OperandLiteral, OperandLiteral, OperandLiteral, OperandLiteral}, Tail: OperandLiteral, Variadic: true},
	OpTypeSampler:       {HasResult: true},
	OpTypeSampledImage:  {HasResult: true, Fixed: []OperandKind{OperandID}},
	OpTypeArray:         {HasResult: true, Fixed: []OperandKind{OperandID, OperandID}},
	OpTypeRuntimeArray:  {HasResult: true, Fixed: []OperandKind{OperandID}},
	OpTypeStruct:        {HasResult: true, Tail: OperandID, Variadic: true},
	OpTypeOpaque:        {HasResult: true, Fixed: []OperandKind{OperandString}},
	OpTypePointer:       {HasResult: true, Fixed: []OperandKind{OperandLiteral, OperandID}},
	OpTypeFunction:      {HasResult: true, Fixed: []OperandKind{OperandID}, Tail: OperandID, Variadic: true},
	OpTypeForwardPointer: {Fixed: []OperandKind{OperandID, OperandLiteral}},

	OpConstantTrue:          {HasResultType: true, HasResult: true},
	OpConstantFalse:         {HasResultType: true, HasResult: true},
	OpConstant:              {HasResultType: true, HasResult: true, Tail: OperandLiteral, Variadic: true},
	OpConstantComposite:     {HasResultType: true, HasResult: true, Tail: OperandID, Variadic: true},
	OpConstantSampler:       {HasResultType: true, HasResult: true, Fixed: []OperandKind{OperandLiteral, OperandLiteral, OperandLiteral}},
	OpConstantNull:          {HasResultType: true, HasResult: true},
	OpSpecConstantTrue:      {HasResultType: true, HasResult: true},
	OpSpecConstantFalse:     {HasResultType: true, HasResult: true},
	OpSpecConstant:          {HasResultType: true, HasResult: true, Tail: OperandLiteral, Variadic: true},
	OpSpecConstantComposite: {HasResultType: true, HasResult: true, Tail: OperandID, Variadic: true},
	// The first in-operand is the wrapped opcode, a literal. The kinds
	// of the remaining operands depend on that opcode; the decoder
	// resolves them through SpecConstantOpTail.
	OpSpecConstantOp: {HasResultType: true, HasResult: true, Fixed: []OperandKind{OperandLiteral}, Tail: OperandID, Variadic: true},

	OpFunction:          {HasResultType: true, HasResult: true, Fixed: []OperandKind{OperandLiteral, OperandID}},
	OpFunctionParameter: {HasResultType: true, HasResult: true},
	OpFunctionEnd:       {},
	OpFunctionCall:      {HasResultType: true, HasResult: true, Fixed: []OperandKind{OperandID}, Tail: OperandID, Variadic: true},
	OpVariable:          {HasResultType: true, HasResult: true, Fixed: []OperandKind{OperandLiteral}, Tail: OperandID, Variadic: true},
	OpLoad:              {HasResultType: true, HasResult: true, Fixed: []OperandKind{OperandID}, Tail: OperandLiteral, Variadic: true},
	OpStore:             {Fixed: []OperandKind{OperandID, OperandID}, Tail: OperandLiteral, Variadic: true},
	OpAccessChain:       {HasResultType: true, HasResult: true, Fixed: []OperandKind{OperandID}, Tail: OperandID, Variadic: true},
	OpInBoundsAccessChain: {HasResultType: true, HasResult: true, Fixed: []OperandKind{OperandID}, Tail: OperandID, Variadic: true},
	OpPtrAccessChain:      {HasResultType: true, HasResult: true, Fixed: []OperandKind{OperandID}, Tail: OperandID, Variadic: true},
	OpArrayLength:         {HasResultType: true, HasResult: true, Fixed: []OperandKind{OperandID, OperandLiteral}},
	OpInBoundsPtrAccessChain: {HasResultType: true, HasResult: true, Fixed: []OperandKind{OperandID}, Tail: OperandID, Variadic: true},

	OpDecorate:        {Fixed: []OperandKind{OperandID, OperandLiteral}, Tail: OperandLiteral, Variadic: true},
	OpMemberDecorate:  {Fixed: []OperandKind{OperandID, OperandLiteral, OperandLiteral}, Tail: OperandLiteral, Variadic: true},
	OpDecorationGroup: {HasResult: true},
	OpGroupDecorate:   {Fixed: []OperandKind{OperandID}, Tail: OperandID, Variadic: true},
	// Tail is (id, member) pairs; the decoder alternates kinds.
	OpGroupMemberDecorate: {Fixed: []OperandKind{OperandID}, Tail: OperandID, Variadic: true},

	OpVectorExtractDynamic: {HasResultType: true, HasResult: true, Fixed: []OperandKind{OperandID, OperandID}},
	OpVectorInsertDynamic:  {HasResultType: true, HasResult: true, Fixed: []OperandKind{OperandID, OperandID, OperandID}},
	OpVectorShuffle:        {HasResultType: true, HasResult: true, Fixed: []OperandKind{OperandID, OperandID}, Tail: OperandLiteral, Variadic: true},
	OpCompositeConstruct:   {HasResultType: true, HasResult: true, Tail: OperandID, Variadic: true},
	OpCompositeExtract:     {HasResultType: true, HasResult: true, Fixed: []OperandKind{OperandID}, Tail: OperandLiteral, Variadic: true},
	OpCompositeInsert:      {HasResultType: true, HasResult: true, Fixed: []OperandKind{OperandID, OperandID}, Tail: OperandLiteral, Variadic: true},
	OpCopyObject:           {HasResultType: true, HasResult: true, Fixed: []OperandKind{OperandID}},
	OpTranspose:            {HasResultType: true, HasResult: true, Fixed: []OperandKind{OperandID}},
	OpSampledImage:         {HasResultType: true, HasResult: true, Fixed: []OperandKind{OperandID, OperandID}},
	OpImageSampleImplicitLod: {HasResultType: true, HasResult: true, Fixed: []OperandKind{OperandID, OperandID}, Tail: OperandLiteral, Variadic: true},

	OpPhi:               {HasResultType: true, HasResult: true, Tail: OperandID, Variadic: true},
	OpLoopMerge:         {Fixed: []OperandKind{OperandID, OperandID, OperandLiteral}, Tail: OperandLiteral, Variadic: true},
	OpSelectionMerge:    {Fixed: []OperandKind{OperandID, OperandLiteral}},
	OpLabel:             {HasResult: true},
	OpBranch:            {Fixed: []OperandKind{OperandID}},
	OpBranchConditional: {Fixed: []OperandKind{OperandID, OperandID, OperandID}, Tail: OperandLiteral, Variadic: true},
	// Tail is (literal, label id) pairs; the decoder alternates kinds.
	OpSwitch:      {Fixed: []OperandKind{OperandID, OperandID}, Tail: OperandLiteral, Variadic: true},
	OpKill:        {},
	OpReturn:      {},
	OpReturnValue: {Fixed: []OperandKind{OperandID}},
	OpUnreachable: {},

	OpNoLine:          {},
	OpModuleProcessed: {Fixed: []OperandKind{OperandString}},
}

// SpecConstantOpTail returns the operand kinds that follow the wrapped
// opcode literal of an OpSpecConstantOp, for a tail of n operands.
// Most wrapped opcodes take only id operands; the composite access
// opcodes carry literal indices after their id operands.
func SpecConstantOpTail(wrapped OpCode, n int) []OperandKind {
	kinds := make([]OperandKind, n)
	ids := n
	switch wrapped {
	case OpCompositeExtract:
		ids = 1
	case OpCompositeInsert:
		ids = 2
	case OpVectorShuffle:
		ids = 2
	}
	for i := range kinds {
		if i < ids {
			kinds[i] = OperandID
		} else {
			kinds[i] = OperandLiteral
		}
	}
	return kinds
}

// EncodeString encodes a literal string as null-terminated, word-padded
// little-endian words.
func EncodeString(s string) []uint32 {
	bytes := []byte(s)
	bytes = append(bytes, 0)
	for len(bytes)%WordSize != 0 {
		bytes = append(bytes, 0)
	}
	words := make([]uint32, 0, len(bytes)/WordSize)
	for i := 0; i < len(bytes); i += WordSize {
		word := uint32(bytes[i]) |
			uint32(bytes[i+1])<<8 |
			uint32(bytes[i+2])<<16 |
			uint32(bytes[i+3])<<24
		words = append(words, word)
	}
	return words
}

// DecodeString decodes a literal string from its word encoding.
func DecodeString(words []uint32) string {
	bytes := make([]byte, 0, len(words)*WordSize)
	for _, word := range words {
		for shift := 0; shift < 32; shift += 8 {
			b := byte(word >> shift)
			if b == 0 {
				return string(bytes)
			}
			bytes = append(bytes, b)
		}
	}
	return string(bytes)
}

// StringWordCount returns how many words a null-terminated string
// occupies, scanning from the start of words. It returns 0 if no
// terminator is found.
func StringWordCount(words []uint32) int {
	for i, word := range words {
		for shift := 0; shift < 32; shift += 8 {
			if byte(word>>shift) == 0 {
				return i + 1
			}
		}
	}
	return 0
}
