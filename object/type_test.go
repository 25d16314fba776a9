package object

import "testing"

import s "github.com/bnclabs/gosettings"
import "github.com/stretchr/testify/assert"
import "github.com/stretchr/testify/require"

func TestCreateObjectType(t *testing.T) {
	rt := testruntime(t, nil)

	typ, err := rt.CreateObjectType("Test", 0, nil)
	require.NoError(t, err)
	assert.Equal(t, "Test", typ.Name())
	assert.Equal(t, TypeFlags(0), typ.Flags())
	assert.Equal(t, 2, typ.Index())
	assert.Same(t, rt.Typetype(), typ.Object().Type())
	assert.Equal(t, int64(1), typ.Object().Refcount())
	assert.Nil(t, typ.Freeliststats())

	info := typ.Info()
	assert.Equal(t, TypeInfo{Name: "Test", Index: 2}, info)

	// objects without deleter.
	obj, err := rt.CreateObject(10, 0, typ, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), typ.Info().Numberofobjects)
	obj.Dereference()
	assert.Equal(t, int64(0), typ.Numberofobjects())
}

func TestCreateObjectTypeInvalid(t *testing.T) {
	rt := testruntime(t, nil)

	_, err := rt.CreateObjectType("", 0, nil)
	assert.Equal(t, ErrorInvalidArgument, err)
	_, err = rt.CreateObjectType("Test", TypeFlags(0x4), nil)
	assert.Equal(t, ErrorInvalidArgument, err)
	_, err = rt.CreateObjectType("Test", TypeUseFreelist, nil)
	assert.Equal(t, ErrorInvalidArgument, err)
	params := TypeParams{FreelistSize: 64}
	_, err = rt.CreateObjectTypeEx("Test", TypeUseFreelist, nil, params)
	assert.Equal(t, ErrorInvalidArgument, err)
	assert.Len(t, rt.Types(), 2)
}

func TestTypetableFull(t *testing.T) {
	rt := testruntime(t, s.Settings{"maxtypes": int64(4)})

	a, err := rt.CreateObjectType("A", 0, nil)
	require.NoError(t, err)
	b, err := rt.CreateObjectType("B", 0, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, b.Index())
	_, err = rt.CreateObjectType("C", 0, nil)
	assert.Equal(t, ErrorTypetableFull, err)
	assert.Equal(t, int64(4), rt.Typetype().Numberofobjects())

	// dereferencing a type unregisters it, its slot is reused.
	a.Object().Dereference()
	infos := rt.Types()
	require.Len(t, infos, 3)
	assert.Equal(t, "B", infos[2].Name)

	c, err := rt.CreateObjectType("C", 0, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Index())
	infos = rt.Types()
	require.Len(t, infos, 4)
	assert.Equal(t, "C", infos[2].Name)
	assert.Equal(t, "B", infos[3].Name)
}

func TestCreateDeletedType(t *testing.T) {
	rt := testruntime(t, nil)
	typ, count := countingtype(t, rt, "Test")

	obj, err := rt.CreateObject(10, 0, typ, 0)
	require.NoError(t, err)
	typ.Object().Dereference()
	assert.Len(t, rt.Types(), 2)

	_, err = rt.CreateObject(10, 0, typ, 0)
	assert.Equal(t, ErrorInvalidArgument, err)
	_, err = rt.CreateValue("x", RaiseOnFail, typ, 0)
	assert.Equal(t, ErrorInvalidArgument, err)
	assert.Equal(t, int64(1), typ.Numberofobjects())

	// objects outliving their type are still freed.
	obj.Dereference()
	assert.Equal(t, int64(1), *count)
	assert.Equal(t, int64(0), typ.Numberofobjects())
}

func TestTypeFreelist(t *testing.T) {
	rt := testruntime(t, nil)

	var count int64
	deleter := DeleterFunc(func(obj *Object, flags Flags) { count++ })
	params := TypeParams{FreelistSize: 100, FreelistCount: 2}
	typ, err := rt.CreateObjectTypeEx("Cached", TypeUseFreelist, deleter, params)
	require.NoError(t, err)
	assert.Equal(t, TypeUseFreelist, typ.Flags())

	objs := make([]*Object, 0)
	for i := 0; i < 3; i++ {
		obj, err := rt.CreateObject(100, 0, typ, 0)
		require.NoError(t, err)
		obj.Body()[0] = 0xAB
		objs = append(objs, obj)
	}
	// bodies of other sizes bypass the free list.
	obj, err := rt.CreateObject(200, 0, typ, 0)
	require.NoError(t, err)
	objs = append(objs, obj)

	DereferenceObjects(objs)
	assert.Equal(t, int64(4), count)
	stats := typ.Freeliststats()
	assert.EqualValues(t, 2, stats["count"])
	assert.EqualValues(t, 0, stats["n_hits"])
	assert.EqualValues(t, 3, stats["n_misses"])

	obj, err = rt.CreateObject(100, 0, typ, 0)
	require.NoError(t, err)
	assert.Equal(t, byte(0), obj.Body()[0])
	stats = typ.Freeliststats()
	assert.EqualValues(t, 1, stats["count"])
	assert.EqualValues(t, 1, stats["n_hits"])
	obj.Dereference()

	// deleting the type releases its free list.
	typ.Object().Dereference()
	stats = typ.Freeliststats()
	assert.EqualValues(t, 0, stats["count"])
	rtstats := rt.Stats()
	assert.Equal(t, int64(0), rtstats["arena.alloc"])
}

func TestTypeof(t *testing.T) {
	rt := testruntime(t, nil)
	other := testruntime(t, nil)

	obj, err := other.CreateAlloc(10)
	require.NoError(t, err)
	defer obj.Dereference()
	assert.Same(t, other.Alloctype(), other.Typeof(obj))
	require.Panics(t, func() { rt.Typeof(obj) })
}
