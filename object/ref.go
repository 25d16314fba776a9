package object

import "sync/atomic"

// Reference take a new reference on the object, caller must already
// own a reference.
func (obj *Object) Reference() {
	if refcount := atomic.AddInt64(&obj.refcount, 1); refcount <= 1 {
		panicerr("reference on freed object %p of %q", obj, obj.typ.name)
	}
}

// ReferenceEx take `n` references on the object and return the new
// count. Caller must already own a reference.
func (obj *Object) ReferenceEx(n int64) int64 {
	if n < 0 {
		panicerr("reference count %v is negative", n)
	}
	return atomic.AddInt64(&obj.refcount, n)
}

// ReferenceSafe take a new reference only if the object's count has
// not dropped to zero. Use this on objects reached through a shared
// structure that does not own a reference on them, false means the
// object is being deleted and must not be used.
func (obj *Object) ReferenceSafe() bool {
	for {
		refcount := atomic.LoadInt64(&obj.refcount)
		if refcount == 0 {
			return false
		}
		if atomic.CompareAndSwapInt64(&obj.refcount, refcount, refcount+1) {
			return true
		}
	}
}

// Dereference drop a reference, and free the object if that was the
// last one.
func (obj *Object) Dereference() {
	obj.DereferenceEx(1, false)
}

// DereferenceEx drop `n` references and return the new count. If the
// count drops to zero the object is freed, either right away or, if
// `deferdelete` is true, by the runtime's drain job.
func (obj *Object) DereferenceEx(n int64, deferdelete bool) int64 {
	if n < 0 {
		panicerr("dereference count %v is negative", n)
	}
	refcount := atomic.AddInt64(&obj.refcount, -n)
	if refcount < 0 {
		panicerr("refcount underflow %v on %p of %q", refcount, obj, obj.typ.name)
	} else if refcount == 0 {
		if rt := obj.typ.rt; deferdelete {
			rt.deferdelete(obj)
		} else {
			rt.freeobject(obj)
		}
	}
	return refcount
}

// DereferenceDeferDelete drop a reference, if that was the last one
// the object is queued for deferred delete and true is returned. Use
// this when holding a lock that the object's Deleter might need.
func (obj *Object) DereferenceDeferDelete() bool {
	return obj.DereferenceEx(1, true) == 0
}

// ReferenceObjects take one reference on each object.
func ReferenceObjects(objs []*Object) {
	for _, obj := range objs {
		obj.Reference()
	}
}

// DereferenceObjects drop one reference on each object.
func DereferenceObjects(objs []*Object) {
	for _, obj := range objs {
		obj.Dereference()
	}
}

// Swapreference store `newobj` in `slot` taking a new reference on it,
// and drop the reference held on the previous object in slot. Either
// can be nil.
func Swapreference(slot **Object, newobj *Object) {
	if newobj != nil {
		newobj.Reference()
	}
	Movereference(slot, newobj)
}

// Movereference store `newobj` in `slot`, taking over the caller's
// reference on newobj, and drop the reference held on the previous
// object in slot. Either can be nil.
func Movereference(slot **Object, newobj *Object) {
	oldobj := *slot
	*slot = newobj
	if oldobj != nil {
		oldobj.Dereference()
	}
}

// Clearreference drop the reference held in `slot` and set it to nil.
func Clearreference(slot **Object) {
	Movereference(slot, nil)
}
