package object

import "time"
import "unsafe"
import "sync/atomic"

// deferdelete push obj on the deferred deletion stack. The push that
// finds the stack empty schedules the drain job, hence there is at most
// one drain job outstanding for every batch of pushes.
func (rt *Runtime) deferdelete(obj *Object) {
	atomic.AddInt64(&rt.n_deferred, 1)
	for {
		head := atomic.LoadPointer(&rt.deferhead)
		obj.nextfree = (*Object)(head)
		if atomic.CompareAndSwapPointer(&rt.deferhead, head, unsafe.Pointer(obj)) {
			if head == nil {
				rt.scheduledrain()
			}
			return
		}
	}
}

func (rt *Runtime) scheduledrain() {
	if atomic.LoadInt64(&rt.closed) == 0 {
		if err := rt.jobq.Queue(rt.drain); err == nil {
			return
		}
	}
	// never drain on caller's stack, it might hold locks.
	atomic.AddInt64(&rt.n_spawned, 1)
	debugf("%v job queue closed, draining on a new routine\n", rt.logprefix)
	go rt.drain()
}

// drain take the entire stack and free every object in it.
func (rt *Runtime) drain() {
	head := (*Object)(atomic.SwapPointer(&rt.deferhead, nil))
	if head == nil {
		return
	}

	start, count := time.Now(), int64(0)
	for obj := head; obj != nil; {
		next := obj.nextfree
		obj.nextfree = nil
		rt.freeobject(obj)
		obj, count = next, count+1
	}
	atomic.AddInt64(&rt.n_drains, 1)
	elapsed := time.Since(start)
	rt.h_drainbatch.Add(count)
	rt.h_drainlatency.Add(int64(elapsed / time.Microsecond))
	debugf("%v drained %v objects in %v\n", rt.logprefix, count, elapsed)
}
