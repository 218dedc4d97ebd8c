package gc

import (
	"fmt"
	"sync/atomic"
	"time"

	"vslc/internal/util"
)

// CreateThread registers a new mutator thread's shadow stack with the heap
// (spec §4.6 "Thread registration installs the thread's shadow stack into a
// global list"), mirroring gc.cpp's __gc_create_thread.
func (h *Heap) CreateThread() *ShadowStack {
	h.stacksMu.Lock()
	defer h.stacksMu.Unlock()
	s := NewShadowStack()
	h.stacks = append(h.stacks, s)
	atomic.AddInt32(&h.active, 1)
	return s
}

// SafePoint parks the calling thread if a collection has been requested,
// mirroring gc.cpp's __gc_safe_point: increment the safepoint counter,
// notify the collector, then wait for need_gc to clear.
func (h *Heap) SafePoint() {
	if atomic.LoadInt32(&h.needGC) == 0 {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	atomic.AddInt32(&h.safepts, 1)
	h.gcCond.Signal()
	for atomic.LoadInt32(&h.needGC) != 0 {
		h.resumeCond.Wait()
	}
	atomic.AddInt32(&h.safepts, -1)
}

// Alloc allocates a new Object of size bytes, typeTag, and the given
// outgoing child references. If the heap is over its soft limit it either
// drives a collection (the thread that wins the need_gc CAS) or parks at a
// safepoint (every other thread), mirroring gc.cpp's __gc_alloc.
func (h *Heap) Alloc(size int64, typeTag string, children []*Object) (*Object, error) {
	if atomic.LoadInt64(&h.alloc)+size > atomic.LoadInt64(&h.limit) {
		if atomic.CompareAndSwapInt32(&h.needGC, 0, 1) {
			util.Log.Infow("gc: need_gc flip", "requested", size,
				"allocated", atomic.LoadInt64(&h.alloc), "limit", atomic.LoadInt64(&h.limit))
			h.Collect()
		} else {
			h.SafePoint()
		}
		if max := atomic.LoadInt64(&h.maxBytes); max > 0 && atomic.LoadInt64(&h.alloc)+size > max {
			return nil, &ErrOOM{Requested: size}
		}
	}

	obj := &Object{
		Header:   &Header{Size: int(size), TypeTag: typeTag},
		Children: children,
	}
	obj.setStatus(Unscanned)

	h.mu.Lock()
	h.objects.Put(obj, struct{}{})
	h.mu.Unlock()
	atomic.AddInt64(&h.alloc, size)
	return obj, nil
}

// Scan performs an iterative mark of the graph reachable from root,
// mirroring gc.cpp's __gc_scan: an explicit work stack (component C12's
// util.Stack), a CAS-guarded Unscanned -> Incomplete transition that both
// deduplicates and claims ownership of the scan, then Incomplete -> Marked
// once children are pushed.
func (h *Heap) Scan(root *Object) {
	if root == nil {
		return
	}
	work := util.NewStack[*Object]()
	work.Push(root)
	for {
		obj, ok := work.Pop()
		if !ok {
			break
		}
		if !obj.casStatus(Unscanned, Incomplete) {
			continue
		}
		for _, child := range obj.Children {
			if child != nil {
				work.Push(child)
			}
		}
		obj.setStatus(Marked)
	}
}

// Collect runs one full stop-the-world mark-sweep cycle (spec §4.6
// "Collection protocol"), mirroring gc.cpp's __gc_collect.
func (h *Heap) Collect() {
	start := time.Now()
	h.mu.Lock()
	defer h.mu.Unlock()

	for atomic.LoadInt32(&h.safepts) != atomic.LoadInt32(&h.active)-1 {
		h.gcCond.Wait()
	}

	h.stacksMu.Lock()
	stacks := make([]*ShadowStack, len(h.stacks))
	copy(stacks, h.stacks)
	h.stacksMu.Unlock()
	for _, stk := range stacks {
		for _, root := range stk.Roots() {
			if root != nil && *root != nil {
				h.Scan(*root)
			}
		}
	}

	var freed, survived []*Object
	h.objects.Iter(func(obj *Object, _ struct{}) bool {
		if obj.status_() == Unscanned {
			freed = append(freed, obj)
		} else {
			survived = append(survived, obj)
		}
		return false
	})
	for _, obj := range freed {
		atomic.AddInt64(&h.alloc, -int64(obj.Size))
		h.objects.Delete(obj)
	}
	for _, obj := range survived {
		obj.setStatus(Unscanned)
	}

	if float64(atomic.LoadInt64(&h.alloc)) > float64(atomic.LoadInt64(&h.limit))*0.7 {
		oldLimit := atomic.LoadInt64(&h.limit)
		newLimit := oldLimit * 2
		if max := atomic.LoadInt64(&h.maxBytes); max > 0 && newLimit > max {
			newLimit = max
		}
		atomic.StoreInt64(&h.limit, newLimit)
		util.Log.Infow("gc: heap resize", "old_limit", oldLimit, "new_limit", newLimit)
	}

	util.Log.Infow("gc: collection cycle", "freed", len(freed), "survived", len(survived),
		"pause", time.Since(start))

	atomic.StoreInt32(&h.needGC, 0)
	h.resumeCond.Broadcast()
}

// Shutdown frees every remaining heap object (spec §4.6 "Cleanup"),
// mirroring gc.cpp's GCCleaner destructor.
func (h *Heap) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.objects.Iter(func(obj *Object, _ struct{}) bool {
		h.objects.Delete(obj)
		return false
	})
	atomic.StoreInt64(&h.alloc, 0)
}

// ErrOOM is returned by allocation wrappers when the runtime cannot satisfy
// a request even after a collection (spec §7 RuntimeError "Out-of-memory").
type ErrOOM struct{ Requested int64 }

func (e *ErrOOM) Error() string {
	return fmt.Sprintf("gc: out of memory allocating %d bytes", e.Requested)
}
