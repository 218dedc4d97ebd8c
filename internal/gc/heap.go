// Package gc implements the companion stop-the-world mark-sweep garbage
// collector (spec §4.6, §5, component C12): headered heap objects, per-
// thread shadow stacks, safepoint synchronization and adaptive heap
// resizing. It is grounded directly on the original runtime's gc.cpp, with
// C's manual memory layout and raw void* scanning replaced by an explicit
// object graph the way idiomatic Go expresses conservative scanning without
// unsafe pointer arithmetic.
package gc

import (
	"sync"
	"sync/atomic"

	"github.com/dolthub/swiss"
)

// MarkState is the three-valued per-object mark color (spec §4.6 "Object
// layout"). Transitions are monotonic within one collection:
// Unscanned -> Incomplete -> Marked.
type MarkState int32

const (
	Unscanned MarkState = iota
	Incomplete
	Marked
)

// Header is the metadata every heap allocation carries (spec §4.6 "Every
// allocation is prefixed by a header").
type Header struct {
	Size     int
	TypeTag  string
	status   int32 // atomic MarkState
}

func (h *Header) status_() MarkState { return MarkState(atomic.LoadInt32(&h.status)) }

// casStatus atomically transitions the header from "from" to "to", the way
// gc.cpp's __gc_scan does with std::atomic::compare_exchange_strong.
func (h *Header) casStatus(from, to MarkState) bool {
	return atomic.CompareAndSwapInt32(&h.status, int32(from), int32(to))
}

func (h *Header) setStatus(s MarkState) { atomic.StoreInt32(&h.status, int32(s)) }

// Object is a single heap allocation: a header plus its outgoing references.
// The original collector conservatively treats every machine word of an
// object's payload as a potential pointer (spec §4.6, invariant: "The
// root-set scan conservatively treats every machine-word slot in a heap
// object as a potential pointer"); here the payload is Go data belonging to
// the compiled program and Children is the subset of that payload the
// compiler proved are GC references, scanned exactly like the original's
// word-by-word walk.
type Object struct {
	*Header
	Children []*Object
	Payload  interface{} // Opaque user data associated with the allocation.
}

// Heap is the shared allocation arena (spec §4.6 "Allocation", "shared
// heap"). The live-object set is kept in a github.com/dolthub/swiss map
// rather than the original's std::vector, giving O(1) removal during sweep
// in exchange for losing allocation order (the spec does not require sweep
// order, only that every Unscanned survivor is freed and every other
// survivor resets to Unscanned).
type Heap struct {
	mu       sync.Mutex
	objects  *swiss.Map[*Object, struct{}]
	limit    int64
	maxBytes int64 // hard ceiling; 0 means unbounded
	needGC   int32 // atomic bool
	safepts  int32 // atomic count of parked threads
	alloc    int64 // atomic allocated bytes

	stacksMu sync.Mutex
	stacks   []*ShadowStack
	active   int32 // atomic count of registered threads

	gcCond     *sync.Cond
	resumeCond *sync.Cond
}

// NewHeap creates a heap with the given initial soft limit in bytes.
func NewHeap(limit int64) *Heap {
	h := &Heap{objects: swiss.NewMap[*Object, struct{}](256), limit: limit}
	h.gcCond = sync.NewCond(&h.mu)
	h.resumeCond = sync.NewCond(&h.mu)
	return h
}

// SetMaxBytes sets a hard ceiling the soft limit's doubling will never grow
// past; Alloc fails with ErrOOM once a collection cannot bring usage under
// it. Zero (the default) means unbounded.
func (h *Heap) SetMaxBytes(max int64) { atomic.StoreInt64(&h.maxBytes, max) }

// Limit returns the current soft heap limit.
func (h *Heap) Limit() int64 { return atomic.LoadInt64(&h.limit) }

// Allocated returns the number of bytes currently accounted for as live.
func (h *Heap) Allocated() int64 { return atomic.LoadInt64(&h.alloc) }

// Live reports the number of objects currently registered in the heap.
func (h *Heap) Live() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.objects.Count()
}
