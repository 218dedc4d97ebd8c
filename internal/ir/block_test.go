package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vslc/internal/types"
)

func TestBlockAppendAndTerminated(t *testing.T) {
	b := &Block{Name: "entry"}
	assert.False(t, b.Terminated())

	instr := &Instruction{Op: OpAdd, Typ: types.TInt32}
	require.NoError(t, b.Append(instr))
	assert.Same(t, b, instr.Block)
	assert.False(t, b.Terminated())

	require.NoError(t, b.Append(&Instruction{Op: OpRet}))
	assert.True(t, b.Terminated())
}

// TestBlockAppendAfterTerminalFails exercises spec §7's SystemError "cannot
// append after terminal".
func TestBlockAppendAfterTerminalFails(t *testing.T) {
	b := &Block{Name: "entry"}
	require.NoError(t, b.Append(&Instruction{Op: OpRet}))
	err := b.Append(&Instruction{Op: OpAdd})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "cannot append after terminal")
}

func TestBlockDumpFlagsUnterminatedBlock(t *testing.T) {
	b := &Block{Name: "entry"}
	out := b.Dump()
	assert.Contains(t, out, "entry:")
	assert.Contains(t, out, "not terminated")
}

func TestBlockDumpOmitsWarningOnceTerminated(t *testing.T) {
	b := &Block{Name: "entry"}
	require.NoError(t, b.Append(&Instruction{Op: OpRet}))
	out := b.Dump()
	assert.NotContains(t, out, "not terminated")
	assert.Contains(t, out, "\tret\n")
}

// TestBlockDumpElidesUnusedTypedInstructions exercises the use-counting
// dump elision: a typed, value-producing instruction nobody reads is
// disabled and skipped, but a void-typed side-effecting one is always kept.
func TestBlockDumpElidesUnusedTypedInstructions(t *testing.T) {
	b := &Block{Name: "entry"}
	dead := &Instruction{Op: OpAdd, Typ: types.TInt32, Name: "%add.0"}
	require.NoError(t, b.Append(dead))
	assign := &Instruction{Op: OpAssign, Typ: types.TVoid}
	require.NoError(t, b.Append(assign))
	require.NoError(t, b.Append(&Instruction{Op: OpRet}))

	out := b.Dump()
	assert.NotContains(t, out, "%add.0")
	assert.False(t, dead.IsEnabled())
	assert.Contains(t, out, "assign")
	assert.Contains(t, out, "\tret\n")
}

// TestBlockDumpKeepsUsedTypedInstructions ensures a typed instruction
// referenced as another instruction's operand survives elision.
func TestBlockDumpKeepsUsedTypedInstructions(t *testing.T) {
	b := &Block{Name: "entry"}
	live := &Instruction{Op: OpAdd, Typ: types.TInt32, Name: "%add.0"}
	require.NoError(t, b.Append(live))
	ret := &Instruction{Op: OpRet, Operand: []Value{live}}
	live.Use()
	require.NoError(t, b.Append(ret))

	out := b.Dump()
	assert.Contains(t, out, "%add.0")
	assert.True(t, live.IsEnabled())
}
