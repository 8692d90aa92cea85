package ir

// Context owns a module for the duration of an optimization run and
// lazily builds its def-use index. All instruction removal goes
// through the Context so the operand lists and the index stay
// consistent.
//
// A Context is not safe for concurrent use; the driver serializes pass
// execution over it.
type Context struct {
	module *Module
	defUse *DefUseManager
}

// NewContext wraps a module.
func NewContext(m *Module) *Context {
	return &Context{module: m}
}

// Module returns the wrapped module.
func (c *Context) Module() *Module {
	return c.module
}

// DefUse returns the def-use index, building it on first use.
func (c *Context) DefUse() *DefUseManager {
	if c.defUse == nil {
		c.defUse = NewDefUseManager(c.module)
	}
	return c.defUse
}

// Constants returns the module's constant instructions in section
// order.
func (c *Context) Constants() []*Instruction {
	return c.module.Constants()
}

// KillDef removes the instruction defining id from the module and from
// the def-use index. It is a no-op if no live instruction defines id.
func (c *Context) KillDef(id uint32) {
	def := c.DefUse().Def(id)
	if def == nil {
		return
	}
	c.KillInst(def)
}

// KillInst removes inst from the module and from the def-use index.
func (c *Context) KillInst(inst *Instruction) {
	if inst.IsNop() {
		return
	}
	if c.defUse != nil {
		c.defUse.clearInst(inst)
	}
	inst.ToNop()
}
