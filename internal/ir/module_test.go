package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"vslc/internal/types"
)

func TestDeclareFunctionRegistersByName(t *testing.T) {
	prog := NewProgram("p")
	mod := prog.DeclareModule("m")
	fn := mod.DeclareFunction("add", types.TInt32, nil)

	got, ok := mod.Function("add")
	assert.True(t, ok)
	assert.Same(t, fn, got)

	_, ok = mod.Function("missing")
	assert.False(t, ok)
}

func TestModuleScopeHasNoParent(t *testing.T) {
	prog := NewProgram("p")
	mod := prog.DeclareModule("m")
	_, ok := mod.Scope.Lookup("anything")
	assert.False(t, ok)
}

func TestFunctionScopeChainsToModuleScope(t *testing.T) {
	prog := NewProgram("p")
	mod := prog.DeclareModule("m")
	assert.NoError(t, mod.Scope.Declare(&Symbol{Name: "g", Typ: types.TInt32}))

	fn := mod.DeclareFunction("f", types.TVoid, nil)
	sym, ok := fn.Scope.Lookup("g")
	assert.True(t, ok)
	assert.Equal(t, types.TInt32, sym.Typ)
}

func TestModuleMoveToAndCurrentFunction(t *testing.T) {
	prog := NewProgram("p")
	mod := prog.DeclareModule("m")
	a := mod.DeclareFunction("a", types.TVoid, nil)
	b := mod.DeclareFunction("b", types.TVoid, nil)

	assert.Same(t, a, mod.CurrentFunction())
	mod.MoveTo(b)
	assert.Same(t, b, mod.CurrentFunction())
}

func TestProgramDeclareModuleAndDump(t *testing.T) {
	prog := NewProgram("p")
	mod := prog.DeclareModule("main")
	fn := mod.DeclareFunction("f", types.TVoid, nil)
	fn.NewBlock("entry")
	_ = fn.EmitRet(nil)

	out := prog.Dump()
	assert.Contains(t, out, "module main")
	assert.Contains(t, out, "func f()")
}
