package object

import "sync/atomic"

import "github.com/bnclabs/objref/api"
import "github.com/bnclabs/objref/malloc"

// Flags fixed when the object is created.
type Flags uint32

const (
	// RaiseOnFail panic with malloc.ErrorOutofMemory if the object's
	// body cannot be allocated, instead of returning the error.
	RaiseOnFail Flags = 0x1

	validFlags = RaiseOnFail
)

// Object is the header of every object created by a runtime. Pointer
// to Object is the handle passed around by owners of references, the
// body is reached through Body and Value.
type Object struct {
	refcount int64 // must be 64-bit aligned

	size     int64
	flags    Flags
	typ      *Type
	nextfree *Object // valid only while queued for deferred delete
	body     []byte
	pool     pooler
	value    interface{}
}

// CreateObject create a new object of `typ` with a zeroed body of
// `size` bytes. Returned object carries 1+addrefs references, all of
// them owned by the caller. Return ErrorClosed after the runtime is
// closed, or panic with it if `flags` has RaiseOnFail.
func (rt *Runtime) CreateObject(
	size int64, flags Flags, typ *Type, addrefs int64) (*Object, error) {

	return rt.createobject(nil, size, flags, typ, addrefs)
}

// CreateValue create a new object of `typ` without a body, wrapping a
// golang value. Value is fixed for the lifetime of the object.
func (rt *Runtime) CreateValue(
	value interface{}, flags Flags, typ *Type, addrefs int64) (*Object, error) {

	return rt.createobject(value, 0, flags, typ, addrefs)
}

// CreateAlloc create a reference counted block of `size` bytes, of
// runtime's Alloc type, that has no deleter.
func (rt *Runtime) CreateAlloc(size int64) (*Object, error) {
	return rt.createobject(nil, size, 0, rt.alloctype, 0)
}

// Body return object's body, nil for objects of size zero.
func (obj *Object) Body() []byte {
	return obj.body
}

// Value return the golang value wrapped by CreateValue.
func (obj *Object) Value() interface{} {
	return obj.value
}

// Size of object's body in bytes.
func (obj *Object) Size() int64 {
	return obj.size
}

// Flags return object's creation flags.
func (obj *Object) Flags() Flags {
	return obj.flags
}

// Type return object's type.
func (obj *Object) Type() *Type {
	return obj.typ
}

// Refcount return the current reference count. Unless the caller
// holds a reference, the count can change any time after return.
func (obj *Object) Refcount() int64 {
	return atomic.LoadInt64(&obj.refcount)
}

//---- local functions

// pooler is where an object's body goes back to.
type pooler interface {
	Free(chunk []byte)
}

// freelistpool gives a body back to its type's free list.
type freelistpool struct {
	fl   *malloc.Freelist
	pool api.Mpooler
}

func (p freelistpool) Free(chunk []byte) {
	p.fl.Free(chunk, p.pool)
}

func (rt *Runtime) createobject(
	value interface{}, size int64, flags Flags, typ *Type,
	addrefs int64) (*Object, error) {

	if atomic.LoadInt64(&rt.closed) != 0 {
		if (flags & RaiseOnFail) != 0 {
			panic(ErrorClosed)
		}
		return nil, ErrorClosed
	}
	if (flags&^validFlags) != 0 || typ == nil || typ.rt != rt {
		return nil, ErrorInvalidArgument
	} else if size < 0 || addrefs < 0 {
		return nil, ErrorInvalidArgument
	} else if typ.obj.Refcount() == 0 { // type is deleted
		return nil, ErrorInvalidArgument
	}

	obj := &Object{
		refcount: 1 + addrefs, size: size, flags: flags, typ: typ,
		value: value,
	}
	if size > 0 {
		body, pool, err := rt.allocbody(typ, size)
		if err != nil {
			if (flags & RaiseOnFail) != 0 {
				panic(err)
			}
			return nil, err
		}
		obj.body, obj.pool = body, pool
	}

	atomic.AddInt64(&typ.nobjects, 1)
	atomic.AddInt64(&rt.n_creates, 1)
	rt.track(obj)
	rt.objectcreated(obj)
	return obj, nil
}

func (rt *Runtime) allocbody(typ *Type, size int64) ([]byte, pooler, error) {
	if fl := typ.freelist; fl != nil && fl.Size() == size {
		body, pool, err := fl.Alloc()
		if err != nil {
			return nil, nil, err
		}
		return body, freelistpool{fl, pool}, nil
	}
	body, pool, err := rt.mallocer.Alloc(size)
	if err != nil {
		return nil, nil, err
	}
	return body, pool, nil
}

// freeobject is called exactly once, after object's refcount has
// dropped to zero.
func (rt *Runtime) freeobject(obj *Object) {
	typ := obj.typ
	atomic.AddInt64(&typ.nobjects, -1)
	if typ.deleter != nil {
		typ.deleter.Delete(obj, obj.flags)
	}
	rt.untrack(obj)
	rt.objectfreed(obj)

	if obj.body != nil {
		obj.pool.Free(obj.body)
		obj.body, obj.pool = nil, nil
	}
	atomic.AddInt64(&rt.n_frees, 1)
}
