package object

import "fmt"
import "sync"
import "unsafe"
import "sync/atomic"

import s "github.com/bnclabs/gosettings"
import humanize "github.com/dustin/go-humanize"

import "github.com/bnclabs/objref/api"
import "github.com/bnclabs/objref/lib"
import "github.com/bnclabs/objref/malloc"
import "github.com/bnclabs/objref/workq"

// Runtime is the process-wide state shared by all objects created from
// it: bootstrap types, type table, deferred deletion queue, allocator,
// job queue and debug hook. Applications normally create one Runtime
// at start-up and Close it at exit.
type Runtime struct {
	// 64-bit aligned stats
	n_creates    int64
	n_frees      int64
	n_deferred   int64
	n_drains     int64
	n_spawned    int64
	n_hookpanics int64
	closed       int64

	deferhead unsafe.Pointer // *Object, most recently queued for delete
	hook      atomic.Value   // hookholder

	name      string
	typetype  *Type // type of types
	alloctype *Type // raw allocations
	types     struct {
		rw    sync.RWMutex
		table []*Type
	}
	live struct {
		rw      sync.RWMutex
		objects map[*Object]struct{}
	}
	mallocer api.Mallocer
	jobq     api.Jobqueue
	ownarena bool
	ownjobq  bool

	h_drainbatch   *lib.HistogramInt64
	h_drainlatency *lib.HistogramInt64 // in microseconds

	// settings
	maxtypes  int64
	bigsize   int64
	tracking  bool
	setts     s.Settings
	logprefix string
}

// NewRuntime create a new object runtime, with its own arena for
// object bodies and its own job queue for deferred deletes.
func NewRuntime(name string, setts s.Settings) *Runtime {
	return NewRuntimeWith(name, setts, nil, nil)
}

// NewRuntimeWith create a new object runtime using the supplied
// allocator and job queue, either can be nil in which case the runtime
// creates its own from settings. Supplied ones are not released or
// closed by the runtime.
func NewRuntimeWith(
	name string, setts s.Settings,
	mallocer api.Mallocer, jobq api.Jobqueue) *Runtime {

	rt := &Runtime{name: name}
	rt.logprefix = fmt.Sprintf("OBJRT [%s]", name)

	setts = make(s.Settings).Mixin(Defaultsettings(), setts)
	rt.readsettings(setts)

	if mallocer == nil {
		arenasetts := setts.Section("arena.").Trim("arena.")
		mallocer, rt.ownarena = malloc.NewArena(arenasetts), true
	}
	if jobq == nil {
		workqsetts := setts.Section("workqueue.").Trim("workqueue.")
		jobq, rt.ownjobq = workq.NewWorkqueue(name, workqsetts), true
	}
	rt.mallocer, rt.jobq = mallocer, jobq
	rt.live.objects = make(map[*Object]struct{})
	rt.h_drainbatch = lib.NewhistorgramInt64(1, 1024, 16)
	rt.h_drainlatency = lib.NewhistorgramInt64(0, 100000, 1000)
	rt.hook.Store(hookholder{})

	rt.bootstrap()

	capacity, _, _, _ := rt.mallocer.Info()
	fmsg := "%v started with arena capacity %v, tracking:%v\n"
	infof(fmsg, rt.logprefix, humanize.Bytes(uint64(capacity)), rt.tracking)
	return rt
}

func (rt *Runtime) readsettings(setts s.Settings) *Runtime {
	rt.maxtypes = setts.Int64("maxtypes")
	rt.bigsize = setts.Int64("autopool.bigsize")
	rt.tracking = setts.Bool("debug.track")
	rt.setts = setts
	if rt.maxtypes < 2 {
		panicerr("maxtypes %v, should accomodate bootstrap types", rt.maxtypes)
	}
	return rt
}

// bootstrap the type of types, whose header refers to itself, and the
// type for raw allocations. This is the only place where an object is
// created without a type, which is fixed up right after.
func (rt *Runtime) bootstrap() {
	typetype := &Type{rt: rt, name: "Type"}
	typetype.deleter = DeleterFunc(rt.deletetype)
	obj := &Object{refcount: 1, value: typetype}
	obj.typ = typetype
	typetype.obj = obj
	typetype.nobjects = 1
	atomic.AddInt64(&rt.n_creates, 1)
	rt.track(obj)
	rt.types.table = append(rt.types.table, typetype)
	rt.typetype = typetype

	alloctype, err := rt.CreateObjectType("Alloc", 0, nil)
	if err != nil {
		panicerr("%v bootstrap: %v", rt.logprefix, err)
	}
	rt.alloctype = alloctype
}

// Name of this runtime.
func (rt *Runtime) Name() string {
	return rt.name
}

// Typetype return the type of all types.
func (rt *Runtime) Typetype() *Type {
	return rt.typetype
}

// Alloctype return the type of raw allocations, refer CreateAlloc.
func (rt *Runtime) Alloctype() *Type {
	return rt.alloctype
}

// Stats return runtime statistics.
func (rt *Runtime) Stats() map[string]interface{} {
	creates := atomic.LoadInt64(&rt.n_creates)
	frees := atomic.LoadInt64(&rt.n_frees)
	capacity, heap, alloc, overhead := rt.mallocer.Info()
	stats := map[string]interface{}{
		"n_creates":       creates,
		"n_frees":         frees,
		"n_live":          creates - frees,
		"n_deferred":      atomic.LoadInt64(&rt.n_deferred),
		"n_drains":        atomic.LoadInt64(&rt.n_drains),
		"n_spawned":       atomic.LoadInt64(&rt.n_spawned),
		"n_hookpanics":    atomic.LoadInt64(&rt.n_hookpanics),
		"n_types":         int64(len(rt.Types())),
		"h_drainbatch":    rt.h_drainbatch.Fullstats(),
		"h_drainlatency":  rt.h_drainlatency.Fullstats(),
		"arena.capacity":  capacity,
		"arena.heap":      heap,
		"arena.alloc":     alloc,
		"arena.overhead":  overhead,
		"debug.track":     rt.tracking,
		"autopool.static": Autopoolstatic,
	}
	if wq, ok := rt.jobq.(*workq.Workqueue); ok {
		for k, v := range wq.Stats() {
			stats["workqueue."+k] = v
		}
	}
	return stats
}

// Close the runtime. Wait for pending deferred deletes, release per
// type free lists, and if no object body is outstanding release the
// arena. Objects dereferenced to zero after Close are still freed,
// deferred ones on a fresh routine. Creating objects or types after
// Close return ErrorClosed.
func (rt *Runtime) Close() {
	if !atomic.CompareAndSwapInt64(&rt.closed, 0, 1) {
		return
	}
	if rt.ownjobq {
		rt.jobq.Close()
	}
	rt.drain()

	for _, ti := range rt.Types() {
		if typ := rt.typebyindex(ti.Index); typ != nil && typ.freelist != nil {
			typ.freelist.Release()
		}
	}
	_, _, alloc, _ := rt.mallocer.Info()
	if rt.ownarena && alloc == 0 {
		rt.mallocer.Release()
	} else if rt.ownarena {
		fmsg := "%v closing with %v outstanding in live objects\n"
		warnf(fmsg, rt.logprefix, humanize.Bytes(uint64(alloc)))
	}
	infof("%v closed, stats %v\n", rt.logprefix, lib.Prettystats(map[string]interface{}{
		"n_creates": atomic.LoadInt64(&rt.n_creates),
		"n_frees":   atomic.LoadInt64(&rt.n_frees),
		"n_drains":  atomic.LoadInt64(&rt.n_drains),
	}, false))
}
