package ir

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/gogpu/spvopt/spv"
)

// Decode errors. Callers match them with errors.Is.
var (
	ErrTruncated         = errors.New("truncated module")
	ErrBadMagic          = errors.New("invalid SPIR-V magic")
	ErrUnsupportedOp     = errors.New("unsupported opcode")
	ErrMalformedOperands = errors.New("malformed operands")
)

const headerWords = 5

// Decode parses a little-endian SPIR-V binary into a module. Operand
// kinds are assigned from the spv grammar; opcodes outside the grammar
// are rejected rather than decoded with guessed kinds, because the
// optimizer's correctness depends on knowing which operands are id
// references.
func Decode(data []byte) (*Module, error) {
	if len(data) < headerWords*spv.WordSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrTruncated, len(data))
	}
	if len(data)%spv.WordSize != 0 {
		return nil, fmt.Errorf("%w: size %d not word-aligned", ErrTruncated, len(data))
	}

	magic := binary.LittleEndian.Uint32(data[0:4])
	if magic != spv.MagicNumber {
		return nil, fmt.Errorf("%w: 0x%08X", ErrBadMagic, magic)
	}

	m := NewModule()
	m.Version = spv.VersionFromWord(binary.LittleEndian.Uint32(data[4:8]))
	m.Generator = binary.LittleEndian.Uint32(data[8:12])
	// Word 3 is the id bound; it is recomputed on encode.
	m.Schema = binary.LittleEndian.Uint32(data[16:20])

	inFunction := false
	offset := headerWords * spv.WordSize
	for offset < len(data) {
		first := binary.LittleEndian.Uint32(data[offset:])
		opcode := spv.OpCode(first & 0xFFFF)
		wordCount := int(first >> 16)
		if wordCount == 0 || offset+wordCount*spv.WordSize > len(data) {
			return nil, fmt.Errorf("%w: word count %d at offset 0x%X", ErrTruncated, wordCount, offset)
		}

		words := make([]uint32, wordCount-1)
		for i := range words {
			words[i] = binary.LittleEndian.Uint32(data[offset+(i+1)*spv.WordSize:])
		}

		inst, err := decodeInstruction(opcode, words)
		if err != nil {
			return nil, fmt.Errorf("at offset 0x%X: %w", offset, err)
		}

		if opcode == spv.OpFunction {
			inFunction = true
		}
		placeInstruction(m, inst, inFunction)
		offset += wordCount * spv.WordSize
	}

	return m, nil
}

func decodeInstruction(opcode spv.OpCode, words []uint32) (*Instruction, error) {
	layout, ok := spv.LayoutOf(opcode)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedOp, opcode)
	}

	inst := &Instruction{Opcode: opcode}
	idx := 0
	take := func() (uint32, error) {
		if idx >= len(words) {
			return 0, fmt.Errorf("%w: %s too short", ErrMalformedOperands, opcode)
		}
		w := words[idx]
		idx++
		return w, nil
	}

	var err error
	if layout.HasResultType {
		if inst.TypeID, err = take(); err != nil {
			return nil, err
		}
	}
	if layout.HasResult {
		if inst.ResultID, err = take(); err != nil {
			return nil, err
		}
	}

	appendOperand := func(kind spv.OperandKind) error {
		if kind == spv.OperandString {
			n := spv.StringWordCount(words[idx:])
			if n == 0 {
				return fmt.Errorf("%w: unterminated string in %s", ErrMalformedOperands, opcode)
			}
			inst.Operands = append(inst.Operands, Operand{
				Kind:  spv.OperandString,
				Words: words[idx : idx+n],
			})
			idx += n
			return nil
		}
		w, err := take()
		if err != nil {
			return err
		}
		inst.Operands = append(inst.Operands, Operand{Kind: kind, Words: []uint32{w}})
		return nil
	}

	for _, kind := range layout.Fixed {
		if err := appendOperand(kind); err != nil {
			return nil, err
		}
	}

	if idx < len(words) {
		if err := decodeTail(opcode, layout, inst, words, &idx, appendOperand); err != nil {
			return nil, err
		}
	}
	if idx != len(words) {
		return nil, fmt.Errorf("%w: %d trailing words in %s", ErrMalformedOperands, len(words)-idx, opcode)
	}
	return inst, nil
}

// decodeTail consumes the variadic tail. Three opcodes interleave
// operand kinds in ways the fixed/tail layout cannot express and are
// handled case by case.
func decodeTail(opcode spv.OpCode, layout spv.Layout, inst *Instruction, words []uint32, idx *int, appendOperand func(spv.OperandKind) error) error {
	switch opcode {
	case spv.OpSpecConstantOp:
		wrapped := spv.OpCode(inst.Operands[0].Word())
		kinds := spv.SpecConstantOpTail(wrapped, len(words)-*idx)
		for _, kind := range kinds {
			if err := appendOperand(kind); err != nil {
				return err
			}
		}
		return nil
	case spv.OpSwitch:
		// (literal value, label id) pairs
		for kind := spv.OperandLiteral; *idx < len(words); {
			if err := appendOperand(kind); err != nil {
				return err
			}
			if kind == spv.OperandLiteral {
				kind = spv.OperandID
			} else {
				kind = spv.OperandLiteral
			}
		}
		return nil
	case spv.OpGroupMemberDecorate:
		// (target id, member literal) pairs
		for kind := spv.OperandID; *idx < len(words); {
			if err := appendOperand(kind); err != nil {
				return err
			}
			if kind == spv.OperandID {
				kind = spv.OperandLiteral
			} else {
				kind = spv.OperandID
			}
		}
		return nil
	}

	if !layout.Variadic {
		return fmt.Errorf("%w: %d trailing words in %s", ErrMalformedOperands, len(words)-*idx, opcode)
	}
	for *idx < len(words) {
		if err := appendOperand(layout.Tail); err != nil {
			return err
		}
	}
	return nil
}

func placeInstruction(m *Module, inst *Instruction, inFunction bool) {
	if inFunction {
		m.Functions = append(m.Functions, inst)
		return
	}
	op := inst.Opcode
	switch {
	case op == spv.OpCapability:
		m.Capabilities = append(m.Capabilities, inst)
	case op == spv.OpExtension:
		m.Extensions = append(m.Extensions, inst)
	case op == spv.OpExtInstImport:
		m.ExtInstImports = append(m.ExtInstImports, inst)
	case op == spv.OpMemoryModel:
		m.MemoryModel = inst
	case op == spv.OpEntryPoint:
		m.EntryPoints = append(m.EntryPoints, inst)
	case op == spv.OpExecutionMode:
		m.ExecutionModes = append(m.ExecutionModes, inst)
	case spv.IsDebug1Op(op):
		m.Debug1 = append(m.Debug1, inst)
	case spv.IsDebug2Op(op):
		m.Debug2 = append(m.Debug2, inst)
	case spv.IsDebug3Op(op):
		m.Debug3 = append(m.Debug3, inst)
	case spv.IsAnnotationOp(op):
		m.Annotations = append(m.Annotations, inst)
	default:
		m.TypesValues = append(m.TypesValues, inst)
	}
}
