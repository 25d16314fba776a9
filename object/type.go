package object

import "sync/atomic"

import "github.com/bnclabs/objref/malloc"

// TypeFlags fixed when the type is created.
type TypeFlags uint32

const (
	// TypeUseFreelist cache bodies of TypeParams.FreelistSize bytes in
	// a free list, for types that are created and destroyed at a high
	// rate.
	TypeUseFreelist TypeFlags = 0x1

	validTypeFlags = TypeUseFreelist
)

// Deleter is implemented by every kind of object that owns resources,
// Delete is called exactly once after the object's refcount has reached
// zero and before its body is reclaimed. Delete shall not take new
// references on obj, but it can drop references on other objects.
type Deleter interface {
	Delete(obj *Object, flags Flags)
}

// DeleterFunc adapts a function to Deleter interface.
type DeleterFunc func(obj *Object, flags Flags)

// Delete implement Deleter interface.
func (fn DeleterFunc) Delete(obj *Object, flags Flags) {
	fn(obj, flags)
}

// TypeParams optional parameters for CreateObjectTypeEx.
type TypeParams struct {
	// FreelistSize is the body size, in bytes, whose chunks are cached,
	// bodies of other sizes bypass the free list.
	FreelistSize int64
	// FreelistCount maximum number of chunks cached.
	FreelistCount int
}

// Type is the shared descriptor of a kind of objects. Every type is
// itself an object of the runtime's type of types.
type Type struct {
	nobjects int64 // live objects of this type, must be 64-bit aligned

	obj      *Object
	name     string
	flags    TypeFlags
	deleter  Deleter
	index    int
	freelist *malloc.Freelist
	rt       *Runtime
}

// TypeInfo is a point in time information of a type.
type TypeInfo struct {
	Name            string
	Index           int
	Numberofobjects int64
}

// CreateObjectType create and register a new type of objects. Returned
// type carries a single reference owned by the caller.
func (rt *Runtime) CreateObjectType(
	name string, flags TypeFlags, deleter Deleter) (*Type, error) {

	return rt.CreateObjectTypeEx(name, flags, deleter, TypeParams{})
}

// CreateObjectTypeEx is CreateObjectType with additional parameters.
func (rt *Runtime) CreateObjectTypeEx(
	name string, flags TypeFlags, deleter Deleter,
	params TypeParams) (*Type, error) {

	if atomic.LoadInt64(&rt.closed) != 0 {
		return nil, ErrorClosed
	} else if name == "" || (flags&^validTypeFlags) != 0 {
		return nil, ErrorInvalidArgument
	}
	typ := &Type{rt: rt, name: name, flags: flags, deleter: deleter}
	if (flags & TypeUseFreelist) != 0 {
		if params.FreelistSize <= 0 || params.FreelistCount <= 0 {
			return nil, ErrorInvalidArgument
		}
		size, count := params.FreelistSize, params.FreelistCount
		typ.freelist = malloc.NewFreelist(rt.mallocer, size, count)
	}

	obj, err := rt.createobject(typ, 0, 0, rt.typetype, 0)
	if err != nil {
		return nil, err
	}
	typ.obj = obj
	if err := rt.registertype(typ); err != nil {
		typ.freelist = nil
		obj.Dereference()
		return nil, err
	}
	debugf("%v type %q registered at %v\n", rt.logprefix, name, typ.index)
	return typ, nil
}

// Types return information on every registered type, sorted by index.
func (rt *Runtime) Types() []TypeInfo {
	rt.types.rw.RLock()
	defer rt.types.rw.RUnlock()

	infos := make([]TypeInfo, 0, len(rt.types.table))
	for _, typ := range rt.types.table {
		if typ != nil {
			infos = append(infos, typ.Info())
		}
	}
	return infos
}

// Typeof return the type of obj, same as obj.Type(). Panics if obj
// was not created by this runtime.
func (rt *Runtime) Typeof(obj *Object) *Type {
	if typ := obj.typ; typ.rt == rt {
		return typ
	}
	panicerr("%v object %p belongs to runtime %q", rt.logprefix, obj, obj.typ.rt.name)
	return nil
}

// Name of the type.
func (typ *Type) Name() string {
	return typ.name
}

// Flags of the type.
func (typ *Type) Flags() TypeFlags {
	return typ.flags
}

// Index of the type in runtime's type table.
func (typ *Type) Index() int {
	return typ.index
}

// Numberofobjects return the number of live objects of this type.
func (typ *Type) Numberofobjects() int64 {
	return atomic.LoadInt64(&typ.nobjects)
}

// Object return the type's own header, use it to reference or
// dereference the type.
func (typ *Type) Object() *Object {
	return typ.obj
}

// Info return point in time information of this type.
func (typ *Type) Info() TypeInfo {
	return TypeInfo{
		Name:            typ.name,
		Index:           typ.index,
		Numberofobjects: typ.Numberofobjects(),
	}
}

// Freeliststats return statistics of type's free list, nil if
// the type does not use one.
func (typ *Type) Freeliststats() map[string]interface{} {
	if typ.freelist == nil {
		return nil
	}
	return typ.freelist.Stats()
}

//---- local functions

func (rt *Runtime) registertype(typ *Type) error {
	rt.types.rw.Lock()
	defer rt.types.rw.Unlock()

	for i, t := range rt.types.table {
		if t == nil {
			typ.index, rt.types.table[i] = i, typ
			return nil
		}
	}
	if int64(len(rt.types.table)) >= rt.maxtypes {
		return ErrorTypetableFull
	}
	typ.index = len(rt.types.table)
	rt.types.table = append(rt.types.table, typ)
	return nil
}

func (rt *Runtime) typebyindex(index int) *Type {
	rt.types.rw.RLock()
	defer rt.types.rw.RUnlock()
	if index < len(rt.types.table) {
		return rt.types.table[index]
	}
	return nil
}

// deletetype is the deleter of type of types.
func (rt *Runtime) deletetype(obj *Object, flags Flags) {
	typ := obj.value.(*Type)

	rt.types.rw.Lock()
	if typ.index < len(rt.types.table) && rt.types.table[typ.index] == typ {
		rt.types.table[typ.index] = nil
	}
	rt.types.rw.Unlock()

	if n := typ.Numberofobjects(); n > 0 {
		fmsg := "%v type %q deleted with %v live objects\n"
		warnf(fmsg, rt.logprefix, typ.name, n)
	}
	if typ.freelist != nil {
		typ.freelist.Release()
	}
	debugf("%v type %q unregistered\n", rt.logprefix, typ.name)
}
