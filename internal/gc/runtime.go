package gc

// DefaultInitialLimit is a soft heap limit callers may pass to NewRuntime,
// small enough that a collection triggers without allocating megabytes.
// NewRuntime takes the limit as an argument and does not apply this value.
const DefaultInitialLimit = 4096

// Runtime bundles a Heap with the goroutine-local thread handles compiled
// code holds, giving a Go-idiomatic facade over the __gc_* ABI spec §6 names
// for the backend to call into. Each compiled-code "thread" maps to a
// goroutine.
type Runtime struct {
	Heap *Heap
}

// NewRuntime creates a Runtime with a fresh heap of the given soft limit.
func NewRuntime(initialLimit int64) *Runtime {
	return &Runtime{Heap: NewHeap(initialLimit)}
}

// Thread is a handle compiled code holds for the duration of one mutator
// thread's lifetime, wrapping the ABI's __gc_register/__gc_pop/__gc_alloc
// entry points (spec §6 "Runtime ABI").
type Thread struct {
	rt    *Runtime
	stack *ShadowStack
}

// CreateThread corresponds to __gc_create_thread.
func (rt *Runtime) CreateThread() *Thread {
	return &Thread{rt: rt, stack: rt.Heap.CreateThread()}
}

// SafePoint corresponds to __gc_safe_point.
func (t *Thread) SafePoint() { t.rt.Heap.SafePoint() }

// Alloc corresponds to __gc_alloc(size, type).
func (t *Thread) Alloc(size int64, typeTag string, children []*Object) (*Object, error) {
	return t.rt.Heap.Alloc(size, typeTag, children)
}

// Register corresponds to __gc_register(slot).
func (t *Thread) Register(slot Root) { t.stack.Register(slot) }

// Pop corresponds to __gc_pop(n).
func (t *Thread) Pop(n int) { t.stack.Pop(n) }

// Collect corresponds to __gc_collect, exposed so a thread can force a cycle
// (used by tests exercising property R2: an empty root set and empty heap
// collects as a no-op).
func (t *Thread) Collect() { t.rt.Heap.Collect() }

// Shutdown frees every remaining object (spec §4.6 "Cleanup").
func (rt *Runtime) Shutdown() { rt.Heap.Shutdown() }
