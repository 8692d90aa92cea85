package opt

import (
	"fmt"
	"sort"

	"github.com/gogpu/spvopt/ir"
)

// Status reports whether a pass (or pipeline) modified the module.
type Status int

const (
	// StatusUnchanged means the pass completed without modifying the
	// module.
	StatusUnchanged Status = iota

	// StatusChanged means the pass removed or rewrote at least one
	// instruction.
	StatusChanged
)

// String returns a human-readable status name.
func (s Status) String() string {
	switch s {
	case StatusUnchanged:
		return "unchanged"
	case StatusChanged:
		return "changed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Pass is a single module transformation. Run mutates the module in
// place through the context and reports whether it changed anything.
type Pass interface {
	// Name returns the registry name of the pass.
	Name() string

	// Run executes the pass to completion.
	Run(ctx *ir.Context) Status
}

// PassManager runs an ordered list of passes over one module.
type PassManager struct {
	passes []Pass
}

// NewPassManager returns an empty pass manager.
func NewPassManager() *PassManager {
	return &PassManager{}
}

// Add appends a pass to the pipeline.
func (pm *PassManager) Add(p Pass) {
	pm.passes = append(pm.passes, p)
}

// Run executes the pipeline in order. The result is StatusChanged if
// any pass changed the module.
func (pm *PassManager) Run(ctx *ir.Context) Status {
	status := StatusUnchanged
	for _, p := range pm.passes {
		if p.Run(ctx) == StatusChanged {
			status = StatusChanged
		}
	}
	return status
}

var registry = map[string]func() Pass{
	"eliminate-dead-constants": func() Pass { return &EliminateDeadConstants{} },
	"strip-debug-info":         func() Pass { return &StripDebugInfo{} },
}

// NewPass creates a registered pass by name.
func NewPass(name string) (Pass, error) {
	factory, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown pass %q", name)
	}
	return factory(), nil
}

// PassNames returns the registered pass names, sorted.
func PassNames() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
