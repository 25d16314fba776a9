package main

import "fmt"
import "sync"
import "sync/atomic"

import "github.com/bnclabs/objref/object"

type counter struct {
	n int64
}

func (c *counter) Delete(obj *object.Object, flags object.Flags) {
	atomic.AddInt64(&c.n, 1)
}

// refstorm share a single object across routines, each routine takes
// and drops `repeat` references.
func refstorm(rt *object.Runtime) {
	deleted := &counter{}
	typ, err := rt.CreateObjectType("Shared", 0, deleted)
	if err != nil {
		panic(err)
	}
	defer typ.Object().Dereference()

	obj, err := rt.CreateObject(int64(options.size), object.RaiseOnFail, typ, 0)
	if err != nil {
		panic(err)
	}

	var wg sync.WaitGroup
	for i := 0; i < options.routines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < options.repeat; j++ {
				obj.Reference()
			}
			for j := 0; j < options.repeat; j++ {
				if !obj.ReferenceSafe() {
					panic("object freed while referenced")
				}
				obj.DereferenceEx(2, false)
			}
		}()
	}
	wg.Wait()

	if refcount := obj.Refcount(); refcount != 1 {
		panic(fmt.Errorf("expected refcount 1, got %v", refcount))
	} else if n := atomic.LoadInt64(&deleted.n); n != 0 {
		panic(fmt.Errorf("unexpected %v deletes", n))
	}
	obj.Dereference()
}

// createstorm create and free objects from all routines, optionally
// via deferred deletion.
func createstorm(rt *object.Runtime) {
	deleted := &counter{}
	typ, err := rt.CreateObjectType("Storm", 0, deleted)
	if err != nil {
		panic(err)
	}
	defer typ.Object().Dereference()

	var wg sync.WaitGroup
	for i := 0; i < options.routines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < options.objects; j++ {
				size := int64(options.size)
				obj, err := rt.CreateObject(size, object.RaiseOnFail, typ, 0)
				if err != nil {
					panic(err)
				}
				obj.DereferenceEx(1, options.deferdel)
			}
		}()
	}
	wg.Wait()

	expected := int64(options.routines * options.objects)
	if !options.deferdel {
		if n := atomic.LoadInt64(&deleted.n); n != expected {
			panic(fmt.Errorf("expected %v deletes, got %v", expected, n))
		}
	}
	fmsg := "createstorm %v objects, %v deleted, %v live\n"
	fmt.Printf(fmsg, expected, atomic.LoadInt64(&deleted.n), typ.Numberofobjects())
}

// poolstorm register objects with nested auto-release pools, each
// routine with its own thread context.
func poolstorm(rt *object.Runtime) {
	deleted := &counter{}
	typ, err := rt.CreateObjectType("Pooled", 0, deleted)
	if err != nil {
		panic(err)
	}
	defer typ.Object().Dereference()

	var wg sync.WaitGroup
	for i := 0; i < options.routines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			thread := rt.NewThread()
			var outer object.Autopool
			thread.Initpool(&outer)
			for j := 0; j < options.objects; j++ {
				if j%object.Autopoolstatic == 0 {
					nestedpool(rt, thread, typ)
				}
				obj, err := rt.CreateAlloc(int64(options.size))
				if err != nil {
					panic(err)
				}
				thread.Autorelease(obj)
			}
			thread.Deletepool(&outer)
		}()
	}
	wg.Wait()
	fmt.Printf("poolstorm %v pooled objects deleted\n", atomic.LoadInt64(&deleted.n))
}

func nestedpool(rt *object.Runtime, thread *object.Thread, typ *object.Type) {
	var pool object.Autopool
	thread.Initpool(&pool)
	defer thread.Deletepool(&pool)

	for i := 0; i < object.Autopoolstatic*2; i++ {
		obj, err := rt.CreateObject(int64(options.size), 0, typ, 0)
		if err != nil {
			panic(err)
		}
		thread.Autorelease(obj)
	}
}
