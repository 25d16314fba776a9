package object

import "runtime/debug"
import "sync/atomic"

import "github.com/bnclabs/objref/lib"

// Debughook is notified on every object created and freed by a runtime,
// for tooling like a debug console. Calls are synchronous, from the
// routine creating or freeing the object, and shall not create or free
// objects of the same type.
type Debughook interface {
	// Objectcreated is called after obj is fully initialized.
	Objectcreated(obj *Object, size int64, flags Flags, typ *Type)

	// Objectfreed is called after obj's deleter has returned and
	// before its body is reclaimed.
	Objectfreed(obj *Object)
}

// atomic.Value cannot hold a nil interface.
type hookholder struct {
	hook Debughook
}

// SetDebughook register hook with the runtime, replacing the previous
// one. Pass nil to unregister.
func (rt *Runtime) SetDebughook(hook Debughook) {
	rt.hook.Store(hookholder{hook: hook})
}

// Enumobjects call fn for every live object, until fn returns false.
// Each object is referenced for the duration of fn. Requires
// "debug.track" settings, else returns ErrorNotracking. fn shall not
// create objects or drop the last reference on any object.
func (rt *Runtime) Enumobjects(fn func(obj *Object) bool) error {
	if !rt.tracking {
		return ErrorNotracking
	}

	rt.live.rw.RLock()
	defer rt.live.rw.RUnlock()
	for obj := range rt.live.objects {
		if !obj.ReferenceSafe() { // being freed
			continue
		}
		ok := fn(obj)
		obj.DereferenceDeferDelete()
		if !ok {
			break
		}
	}
	return nil
}

// Liveobjects return number of tracked objects, -1 if tracking is not
// enabled.
func (rt *Runtime) Liveobjects() int64 {
	if !rt.tracking {
		return -1
	}
	rt.live.rw.RLock()
	defer rt.live.rw.RUnlock()
	return int64(len(rt.live.objects))
}

//---- local functions

func (rt *Runtime) track(obj *Object) {
	if rt.tracking {
		rt.live.rw.Lock()
		rt.live.objects[obj] = struct{}{}
		rt.live.rw.Unlock()
	}
}

func (rt *Runtime) untrack(obj *Object) {
	if rt.tracking {
		rt.live.rw.Lock()
		delete(rt.live.objects, obj)
		rt.live.rw.Unlock()
	}
}

func (rt *Runtime) objectcreated(obj *Object) {
	if hook := rt.hook.Load().(hookholder).hook; hook != nil {
		defer rt.recoverhook("Objectcreated")
		hook.Objectcreated(obj, obj.size, obj.flags, obj.typ)
	}
}

func (rt *Runtime) objectfreed(obj *Object) {
	if hook := rt.hook.Load().(hookholder).hook; hook != nil {
		defer rt.recoverhook("Objectfreed")
		hook.Objectfreed(obj)
	}
}

func (rt *Runtime) recoverhook(what string) {
	if r := recover(); r != nil {
		atomic.AddInt64(&rt.n_hookpanics, 1)
		errorf("%v debug hook %v crashed: %v\n", rt.logprefix, what, r)
		errorf("\n%s", lib.GetStacktrace(2, debug.Stack()))
	}
}
