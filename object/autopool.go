package object

// Autopoolstatic is the number of inline slots in an Autopool, objects
// registered beyond that go to dynamically allocated slots.
const Autopoolstatic = 64

const (
	poolUninitialized int = iota
	poolActive
	poolDeleted
)

// Thread is the context of a single routine, holding its stack of
// auto-release pools. A Thread shall be owned and used by exactly one
// routine, it is not safe for concurrent use.
type Thread struct {
	rt  *Runtime
	top *Autopool
}

// NewThread create a context for the calling routine.
func (rt *Runtime) NewThread() *Thread {
	return &Thread{rt: rt}
}

// Autopool collects objects whose reference is to be dropped later,
// typically at the end of a scope. Zero value is an uninitialized pool,
// it is usually declared as a local variable:
//
//	var pool object.Autopool
//	thread.Initpool(&pool)
//	defer thread.Deletepool(&pool)
type Autopool struct {
	state   int
	nstatic int
	static  [Autopoolstatic]*Object
	dynamic []*Object
	next    *Autopool
	thread  *Thread
}

// Count of objects registered since the last drain.
func (pool *Autopool) Count() int {
	return pool.nstatic + len(pool.dynamic)
}

// Initpool push pool on thread's stack, and make it the current pool.
// A pool can be initialized only once.
func (thread *Thread) Initpool(pool *Autopool) {
	if pool.state != poolUninitialized {
		panicerr("autopool %p is already initialized", pool)
	}
	pool.state, pool.thread = poolActive, thread
	pool.nstatic, pool.dynamic = 0, nil
	pool.next, thread.top = thread.top, pool
}

// Currentpool return the pool on top of thread's stack, nil if none.
func (thread *Thread) Currentpool() *Autopool {
	return thread.top
}

// Autorelease register obj with the current pool, taking over one of
// the caller's references, which is dropped when the pool is drained.
// Return obj. Panics if no pool is active on this thread, or if obj is
// nil or belongs to another runtime.
func (thread *Thread) Autorelease(obj *Object) *Object {
	if obj == nil {
		panicerr("autorelease nil object")
	} else if obj.typ.rt != thread.rt {
		panicerr("autorelease %p of runtime %q", obj, obj.typ.rt.name)
	}
	pool := thread.top
	if pool == nil {
		panicerr("autorelease %p of %q without an active pool", obj, obj.typ.name)
	}
	if pool.nstatic < Autopoolstatic {
		pool.static[pool.nstatic] = obj
		pool.nstatic++
		return obj
	}
	if pool.dynamic == nil {
		pool.dynamic = make([]*Object, 0, Autopoolstatic)
	}
	// append grows the slots geometrically.
	pool.dynamic = append(pool.dynamic, obj)
	return obj
}

// Drainpool dereference every object registered with pool since the
// last drain, pool remains active.
func (thread *Thread) Drainpool(pool *Autopool) {
	thread.checkpool(pool)
	thread.drainpool(pool)
}

// Deletepool drain pool and pop it from thread's stack, making the
// previous pool current. Panics if pool is not the current pool.
func (thread *Thread) Deletepool(pool *Autopool) {
	thread.checkpool(pool)
	if thread.top != pool {
		panicerr("autopool %p deleted out of order, top is %p", pool, thread.top)
	}
	thread.drainpool(pool)
	thread.top, pool.next = pool.next, nil
	pool.state, pool.dynamic = poolDeleted, nil
}

//---- local functions

func (thread *Thread) checkpool(pool *Autopool) {
	if pool.state != poolActive {
		panicerr("autopool %p is not active", pool)
	} else if pool.thread != thread {
		panicerr("autopool %p belongs to another thread", pool)
	}
}

// drainpool dereference registered objects. Deleters may register
// more objects with the same pool while it is drained, keep going
// till the pool is empty.
func (thread *Thread) drainpool(pool *Autopool) {
	for pool.Count() > 0 {
		for pool.nstatic > 0 {
			objs, n := pool.static, pool.nstatic
			pool.static, pool.nstatic = [Autopoolstatic]*Object{}, 0
			for _, obj := range objs[:n] {
				obj.Dereference()
			}
		}
		for len(pool.dynamic) > 0 {
			objs := pool.dynamic
			pool.dynamic = nil
			for i, obj := range objs {
				obj.Dereference()
				objs[i] = nil
			}
			// reuse the slots unless they have grown too big.
			if pool.dynamic == nil && int64(cap(objs)) < thread.rt.bigsize {
				pool.dynamic = objs[:0]
			}
		}
	}
}
