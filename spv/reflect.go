package spv

// Classification predicates over opcodes, following the grouping of the
// SPIR-V logical layout. The optimizer's liveness rules hinge on these:
// annotation and debug instructions describe the program but have no
// computational effect, so their uses never keep a value alive.

// IsConstantOp reports whether op produces a compile-time constant
// (scalar, composite, null, sampler, or specialization constant/op).
func IsConstantOp(op OpCode) bool {
	return op >= OpConstantTrue && op <= OpSpecConstantOp
}

// IsSpecConstantOp reports whether op is one of the specialization
// constant opcodes.
func IsSpecConstantOp(op OpCode) bool {
	return op >= OpSpecConstantTrue && op <= OpSpecConstantOp
}

// IsAnnotationOp reports whether op is a decoration-section instruction.
func IsAnnotationOp(op OpCode) bool {
	return op >= OpDecorate && op <= OpGroupMemberDecorate
}

// IsDebug1Op reports whether op belongs to the first debug section of
// the logical layout (source and string instructions).
func IsDebug1Op(op OpCode) bool {
	return (op >= OpSourceContinued && op <= OpSourceExtension) || op == OpString
}

// IsDebug2Op reports whether op belongs to the second debug section
// (name instructions).
func IsDebug2Op(op OpCode) bool {
	return op == OpName || op == OpMemberName
}

// IsDebug3Op reports whether op belongs to the third debug section.
func IsDebug3Op(op OpCode) bool {
	return op == OpModuleProcessed
}

// IsDebugOp reports whether op is a debug instruction at any level,
// including the line markers that may appear inside function bodies.
func IsDebugOp(op OpCode) bool {
	return IsDebug1Op(op) || IsDebug2Op(op) || IsDebug3Op(op) ||
		op == OpLine || op == OpNoLine
}

// IsMetadataOp reports whether a use by op counts as a metadata-only
// use: an annotation or a level 1-3 debug instruction.
func IsMetadataOp(op OpCode) bool {
	return IsAnnotationOp(op) || IsDebug1Op(op) || IsDebug2Op(op) || IsDebug3Op(op)
}

// IsTypeOp reports whether op declares a type.
func IsTypeOp(op OpCode) bool {
	return (op >= OpTypeVoid && op <= OpTypeFunction) || op == OpTypeForwardPointer
}
