package ir

// Program is the root of the IR containment tree: a list of modules plus a
// cursor identifying the current one (spec §3 "Program", component C9).
// Programs own modules; modules own functions; functions own blocks; blocks
// own instructions (spec §3 "Ownership & lifecycle").
type Program struct {
	ID      string
	Modules []*Module
	Cursor  int
	byID    map[string]*Module
}

// NewProgram creates an empty program.
func NewProgram(id string) *Program {
	return &Program{ID: id, byID: map[string]*Module{}}
}

// DeclareModule creates, registers and returns a new module in p.
func (p *Program) DeclareModule(id string) *Module {
	m := NewModule(p, id)
	p.Modules = append(p.Modules, m)
	p.byID[id] = m
	return m
}

// CurrentModule returns the module the cursor currently points at.
func (p *Program) CurrentModule() *Module { return p.Modules[p.Cursor] }

// MoveTo sets the module cursor to m. m must belong to p.
func (p *Program) MoveTo(m *Module) {
	for i, existing := range p.Modules {
		if existing == m {
			p.Cursor = i
			return
		}
	}
	panic("ir: Move cursor to unknown place")
}

// Dump renders every module in the program, in declaration order (used by
// the shell's -sakir and -rawllvm flags as the textual pseudo-IR stand-in
// for real backend emission).
func (p *Program) Dump() string {
	var sb []byte
	for _, m := range p.Modules {
		sb = append(sb, m.Dump()...)
	}
	return string(sb)
}
