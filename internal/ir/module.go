package ir

import (
	"fmt"

	"vslc/internal/types"
)

// Module owns an ordered function list and the cursor identifying which one
// is "current" for declarations issued outside any function body (spec §3
// "Module").
type Module struct {
	ID        string
	Scope     *Scope
	Functions []*Function
	Cursor    int
	Program   *Program
	byName    map[string]*Function
}

// NewModule creates an empty module with no parent scope (spec §3: "Module
// scope has no parent").
func NewModule(program *Program, id string) *Module {
	return &Module{ID: id, Scope: NewScope(nil), Program: program, byName: map[string]*Function{}}
}

// DeclareFunction creates, registers and returns a new function in m.
func (m *Module) DeclareFunction(name string, ret *types.Type, params []*Param) *Function {
	f := NewFunction(m, name, ret, params)
	m.Functions = append(m.Functions, f)
	m.byName[name] = f
	return f
}

// Function looks up a previously declared function by name.
func (m *Module) Function(name string) (*Function, bool) {
	f, ok := m.byName[name]
	return f, ok
}

// CurrentFunction returns the function the cursor currently points at.
func (m *Module) CurrentFunction() *Function { return m.Functions[m.Cursor] }

// MoveTo sets the function cursor to f. f must belong to m.
func (m *Module) MoveTo(f *Function) {
	for i, existing := range m.Functions {
		if existing == f {
			m.Cursor = i
			return
		}
	}
	panic("ir: Move cursor to unknown place")
}

// Dump renders every function declared in m, in declaration order.
func (m *Module) Dump() string {
	var sb []byte
	sb = append(sb, fmt.Sprintf("module %s\n\n", m.ID)...)
	for _, f := range m.Functions {
		sb = append(sb, f.Dump()...)
		sb = append(sb, '\n')
	}
	return string(sb)
}
