package ir

import (
	"encoding/binary"

	"github.com/gogpu/spvopt/spv"
)

// Encode serializes a module to the little-endian binary form. Killed
// (OpNop) instructions are omitted, and the header id bound is
// recomputed from the surviving instructions.
func Encode(m *Module) []byte {
	totalWords := headerWords
	m.ForEachInst(func(inst *Instruction) {
		totalWords += inst.WordCount()
	})

	buffer := make([]byte, totalWords*spv.WordSize)
	offset := 0
	put := func(word uint32) {
		binary.LittleEndian.PutUint32(buffer[offset:], word)
		offset += spv.WordSize
	}

	put(spv.MagicNumber)
	put(m.Version.Word())
	put(m.Generator)
	put(m.Bound())
	put(m.Schema)

	m.ForEachInst(func(inst *Instruction) {
		put(uint32(inst.WordCount())<<16 | uint32(inst.Opcode))
		if inst.TypeID != 0 {
			put(inst.TypeID)
		}
		if inst.ResultID != 0 {
			put(inst.ResultID)
		}
		for _, op := range inst.Operands {
			for _, word := range op.Words {
				put(word)
			}
		}
	})

	return buffer
}
