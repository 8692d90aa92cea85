package ir

// TypeOperandIndex is the operand index reported for uses made through
// an instruction's result type word, which precedes the in-operands.
const TypeOperandIndex = -1

// Use records one occurrence of a result id inside a using
// instruction: the user and the in-operand index of the occurrence.
type Use struct {
	Inst         *Instruction
	OperandIndex int
}

// DefUseManager is the backward index over a module: result id to
// defining instruction, and result id to the occurrences that
// reference it. It is kept consistent by the Context kill operations;
// no other mutation of the module may happen while it is live.
type DefUseManager struct {
	defs map[uint32]*Instruction
	uses map[uint32][]Use
}

// NewDefUseManager analyzes every live instruction of m.
func NewDefUseManager(m *Module) *DefUseManager {
	d := &DefUseManager{
		defs: make(map[uint32]*Instruction),
		uses: make(map[uint32][]Use),
	}
	m.ForEachInst(d.analyzeInst)
	return d
}

func (d *DefUseManager) analyzeInst(inst *Instruction) {
	if inst.HasResult() {
		d.defs[inst.ResultID] = inst
	}
	if inst.TypeID != 0 {
		d.uses[inst.TypeID] = append(d.uses[inst.TypeID], Use{Inst: inst, OperandIndex: TypeOperandIndex})
	}
	for idx, op := range inst.Operands {
		if id := op.ID(); id != 0 {
			d.uses[id] = append(d.uses[id], Use{Inst: inst, OperandIndex: idx})
		}
	}
}

// Def returns the instruction defining id, or nil.
func (d *DefUseManager) Def(id uint32) *Instruction {
	return d.defs[id]
}

// ForEachUse visits every occurrence of id in a using instruction, one
// call per occurrence.
func (d *DefUseManager) ForEachUse(id uint32, visit func(user *Instruction, operandIndex int)) {
	for _, use := range d.uses[id] {
		visit(use.Inst, use.OperandIndex)
	}
}

// ForEachUser visits every instruction referencing inst's result id,
// deduplicated by instruction.
func (d *DefUseManager) ForEachUser(inst *Instruction, visit func(user *Instruction)) {
	if !inst.HasResult() {
		return
	}
	seen := make(map[*Instruction]struct{})
	for _, use := range d.uses[inst.ResultID] {
		if _, ok := seen[use.Inst]; ok {
			continue
		}
		seen[use.Inst] = struct{}{}
		visit(use.Inst)
	}
}

// clearInst removes every record involving inst: the use occurrences
// it makes through its type and id operands, its def entry, and any
// remaining use list for its result id.
func (d *DefUseManager) clearInst(inst *Instruction) {
	if inst.TypeID != 0 {
		d.removeUsesBy(inst.TypeID, inst)
	}
	inst.ForEachInID(func(id uint32) {
		d.removeUsesBy(id, inst)
	})
	if inst.HasResult() {
		delete(d.defs, inst.ResultID)
		delete(d.uses, inst.ResultID)
	}
}

func (d *DefUseManager) removeUsesBy(id uint32, user *Instruction) {
	occurrences := d.uses[id]
	kept := occurrences[:0]
	for _, use := range occurrences {
		if use.Inst != user {
			kept = append(kept, use)
		}
	}
	if len(kept) == 0 {
		delete(d.uses, id)
		return
	}
	d.uses[id] = kept
}
