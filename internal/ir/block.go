package ir

import (
	"fmt"
	"strings"
)

// Block is an ordered instruction sequence terminated by exactly one
// terminal instruction (spec §3 "Block", invariant I2 / property P1).
type Block struct {
	ID       int
	Name     string
	Instr    []*Instruction
	Function *Function
}

// Terminated reports whether b already carries its terminal instruction.
func (b *Block) Terminated() bool {
	return len(b.Instr) > 0 && b.Instr[len(b.Instr)-1].Op.IsTerminal()
}

// Append adds instr to b, wiring its parent-block back-pointer. It is an
// error (spec §7 SystemError "Cannot append after terminal") to append to an
// already-terminated block.
func (b *Block) Append(instr *Instruction) error {
	if b.Terminated() {
		return fmt.Errorf("ir: cannot append after terminal in block %s", b.Name)
	}
	instr.Block = b
	b.Instr = append(b.Instr, instr)
	return nil
}

func (b *Block) String() string { return b.Name }

// Dump renders every instruction in b, one per line, the way the teacher's
// lir.Block.String does, flagging an unterminated block instead of silently
// omitting its terminator. An instruction that produces a typed result never
// read by anything else in the function is disabled and elided from the
// dump (the supplemented Enable/Disable/use-counting feature grounded on
// the teacher's lir.Constant.Use/lir.Value.Enable); void-typed instructions
// (assign, branches, ret) are always kept. A declare carries its slot type
// and a name, so a declare that nothing references is elided as well.
func (b *Block) Dump() string {
	var sb strings.Builder
	sb.WriteString(b.Name)
	sb.WriteString(":\n")
	for _, instr := range b.Instr {
		if instr.Name != "" && !instr.Used() {
			instr.Disable()
		}
		if !instr.IsEnabled() {
			continue
		}
		sb.WriteByte('\t')
		sb.WriteString(instr.String())
		sb.WriteByte('\n')
	}
	if !b.Terminated() {
		sb.WriteString(fmt.Sprintf("// block %s is not terminated\n", b.Name))
	}
	return sb.String()
}
