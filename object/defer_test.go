package object

import "sync"
import "time"
import "errors"
import "testing"
import "sync/atomic"

import "github.com/stretchr/testify/assert"
import "github.com/stretchr/testify/require"

func TestDeferDelete(t *testing.T) {
	rt := testruntime(t, nil)
	typ, count := countingtype(t, rt, "Test")

	obj, err := rt.CreateObject(10, 0, typ, 1)
	require.NoError(t, err)
	assert.False(t, obj.DereferenceDeferDelete())
	assert.True(t, obj.DereferenceDeferDelete())

	require.Eventually(t, func() bool {
		return atomic.LoadInt64(count) == 1
	}, 5*time.Second, time.Millisecond)
	assert.Equal(t, int64(0), typ.Numberofobjects())
	rt.Close()
	stats := rt.Stats()
	assert.Equal(t, int64(1), stats["n_deferred"])
	assert.Equal(t, int64(1), stats["n_drains"])
}

func TestDeferDeleteConcurrent(t *testing.T) {
	rt := testruntime(t, nil)
	typ, count := countingtype(t, rt, "Test")

	var wg sync.WaitGroup
	nroutines, n := 8, 10000
	for i := 0; i < nroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < n; j++ {
				obj, err := rt.CreateObject(32, 0, typ, 0)
				if err != nil {
					panic(err)
				}
				if obj.DereferenceDeferDelete() == false {
					panic("expected object to be queued")
				}
			}
		}()
	}
	wg.Wait()

	rt.Close()
	assert.Equal(t, int64(nroutines*n), atomic.LoadInt64(count))
	assert.Equal(t, int64(0), typ.Numberofobjects())
	stats := rt.Stats()
	assert.Equal(t, int64(nroutines*n), stats["n_deferred"])
	assert.True(t, stats["n_drains"].(int64) >= 1)
	assert.Equal(t, int64(0), stats["n_spawned"])
	hstats := stats["h_drainbatch"].(map[string]interface{})
	assert.Equal(t, stats["n_drains"], hstats["samples"])
}

func TestDeferDeleteChain(t *testing.T) {
	rt := testruntime(t, nil)

	// deleter drops the reference on next object in the chain,
	// which is deferred again.
	var count int64
	deleter := DeleterFunc(func(obj *Object, flags Flags) {
		atomic.AddInt64(&count, 1)
		if next, ok := obj.Value().(*Object); ok && next != nil {
			next.DereferenceDeferDelete()
		}
	})
	typ, err := rt.CreateObjectType("Chain", 0, deleter)
	require.NoError(t, err)

	var next *Object
	for i := 0; i < 1000; i++ {
		next, err = rt.CreateValue(next, 0, typ, 0)
		require.NoError(t, err)
	}
	next.DereferenceDeferDelete()

	require.Eventually(t, func() bool {
		return atomic.LoadInt64(&count) == 1000
	}, 5*time.Second, time.Millisecond)
	assert.Equal(t, int64(0), typ.Numberofobjects())
}

type failingqueue struct {
	n_queued int64
}

func (q *failingqueue) Queue(job func()) error {
	atomic.AddInt64(&q.n_queued, 1)
	return errors.New("failingqueue.full")
}

func (q *failingqueue) Close() {
}

func TestDeferDeleteSpawn(t *testing.T) {
	q := &failingqueue{}
	rt := NewRuntimeWith(t.Name(), nil, nil, q)
	defer rt.Close()
	typ, count := countingtype(t, rt, "Test")

	obj, err := rt.CreateObject(10, 0, typ, 0)
	require.NoError(t, err)
	require.True(t, obj.DereferenceDeferDelete())

	require.Eventually(t, func() bool {
		return atomic.LoadInt64(count) == 1
	}, 5*time.Second, time.Millisecond)
	stats := rt.Stats()
	assert.Equal(t, int64(1), stats["n_spawned"])
	assert.Equal(t, int64(1), atomic.LoadInt64(&q.n_queued))
}
