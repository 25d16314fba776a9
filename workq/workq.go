package workq

import "fmt"
import "sync"
import "errors"
import "sync/atomic"
import "runtime/debug"

import s "github.com/bnclabs/gosettings"
import "github.com/bnclabs/objref/lib"

// ErrorClosed queue is closed, job not accepted.
var ErrorClosed = errors.New("workq.closed")

// Workqueue of jobs served by a fixed number of worker routines.
type Workqueue struct {
	// 64-bit aligned stats
	n_queued int64
	n_done   int64
	n_panics int64

	name    string
	jobch   chan func()
	rw      sync.RWMutex
	closed  bool
	wg      sync.WaitGroup
	workers int64

	logprefix string
}

// NewWorkqueue create a new queue and spawn its workers.
func NewWorkqueue(name string, setts s.Settings) *Workqueue {
	setts = make(s.Settings).Mixin(Defaultsettings(), setts)
	wq := &Workqueue{
		name:    name,
		workers: setts.Int64("workers"),
	}
	if wq.workers <= 0 {
		panic(fmt.Errorf("workers %v must be positive", wq.workers))
	}
	wq.jobch = make(chan func(), setts.Int64("chansize"))
	wq.logprefix = fmt.Sprintf("WORKQ [%s]", name)

	wq.wg.Add(int(wq.workers))
	for i := int64(0); i < wq.workers; i++ {
		go wq.worker(i)
	}
	infof("%v started with %v workers\n", wq.logprefix, wq.workers)
	return wq
}

// Queue implement api.Jobqueue interface.
func (wq *Workqueue) Queue(job func()) error {
	wq.rw.RLock()
	defer wq.rw.RUnlock()
	if wq.closed {
		return ErrorClosed
	}
	atomic.AddInt64(&wq.n_queued, 1)
	wq.jobch <- job
	return nil
}

// Close implement api.Jobqueue interface. Jobs already queued are
// executed before Close returns.
func (wq *Workqueue) Close() {
	wq.rw.Lock()
	if wq.closed {
		wq.rw.Unlock()
		return
	}
	wq.closed = true
	close(wq.jobch)
	wq.rw.Unlock()

	wq.wg.Wait()
	infof("%v closed\n", wq.logprefix)
}

// Stats return queue statistics.
func (wq *Workqueue) Stats() map[string]interface{} {
	return map[string]interface{}{
		"workers":  wq.workers,
		"n_queued": atomic.LoadInt64(&wq.n_queued),
		"n_done":   atomic.LoadInt64(&wq.n_done),
		"n_panics": atomic.LoadInt64(&wq.n_panics),
	}
}

func (wq *Workqueue) worker(id int64) {
	defer wq.wg.Done()

	debugf("%v worker %v starting ...\n", wq.logprefix, id)
	for job := range wq.jobch {
		wq.run(id, job)
	}
	debugf("%v worker %v stopped\n", wq.logprefix, id)
}

func (wq *Workqueue) run(id int64, job func()) {
	defer func() {
		if r := recover(); r != nil {
			atomic.AddInt64(&wq.n_panics, 1)
			errorf("%v worker %v job crashed: %v\n", wq.logprefix, id, r)
			errorf("\n%s", lib.GetStacktrace(2, debug.Stack()))
		}
		atomic.AddInt64(&wq.n_done, 1)
	}()
	job()
}
