package gc

import "vslc/internal/util"

// Root is the address of a mutator-owned slot that may hold a live *Object
// (spec §4.6 "Per-thread shadow stack": "a stack of void** roots").
type Root = **Object

// ShadowStack is one mutator thread's stack of root addresses. Compiled code
// calls Register on entering a scope with GC-visible locals and Pop on
// leaving it (spec §4.6).
type ShadowStack struct {
	stack *util.Stack[Root]
}

// NewShadowStack creates an empty shadow stack.
func NewShadowStack() *ShadowStack {
	return &ShadowStack{stack: util.NewStack[Root]()}
}

// Register pushes addr onto the shadow stack.
func (s *ShadowStack) Register(addr Root) { s.stack.Push(addr) }

// Pop discards the n most recently registered roots, the way gc.cpp's
// __gc_pop walks back n times without requiring the caller name them.
func (s *ShadowStack) Pop(n int) {
	for i := 0; i < n; i++ {
		if _, ok := s.stack.Pop(); !ok {
			return
		}
	}
}

// Roots returns a snapshot of every currently registered root, oldest
// first, for the collector to scan.
func (s *ShadowStack) Roots() []Root {
	return s.stack.Snapshot()
}
