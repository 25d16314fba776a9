package malloc

import "sync"

import "github.com/bnclabs/objref/api"

// Freelist caches chunks of a fixed size allocated from a Mallocer,
// upto a maximum count. Safe for concurrent use.
type Freelist struct {
	mu       sync.Mutex
	size     int64
	maxcount int
	chunks   [][]byte
	pools    []api.Mpooler
	mallocer api.Mallocer

	// stats
	n_hits   int64
	n_misses int64
}

// NewFreelist create a free list of `size` byte chunks, holding on
// to not more than `maxcount` free chunks.
func NewFreelist(mallocer api.Mallocer, size int64, maxcount int) *Freelist {
	if size <= 0 {
		panicerr("freelist chunk size %v must be positive", size)
	} else if maxcount < 0 {
		panicerr("freelist maxcount %v is negative", maxcount)
	}
	return &Freelist{
		size:     size,
		maxcount: maxcount,
		chunks:   make([][]byte, 0, maxcount),
		pools:    make([]api.Mpooler, 0, maxcount),
		mallocer: mallocer,
	}
}

// Size of chunks managed by this free list.
func (fl *Freelist) Size() int64 {
	return fl.size
}

// Alloc a chunk, from the list if available, else from mallocer.
func (fl *Freelist) Alloc() ([]byte, api.Mpooler, error) {
	fl.mu.Lock()
	if n := len(fl.chunks); n > 0 {
		chunk, pool := fl.chunks[n-1], fl.pools[n-1]
		fl.chunks[n-1], fl.pools[n-1] = nil, nil
		fl.chunks, fl.pools = fl.chunks[:n-1], fl.pools[:n-1]
		fl.n_hits++
		fl.mu.Unlock()
		initchunk(chunk)
		return chunk, pool, nil
	}
	fl.n_misses++
	fl.mu.Unlock()
	return fl.mallocer.Alloc(fl.size)
}

// Free a chunk obtained from Alloc, `pool` is the pool returned along
// with the chunk.
func (fl *Freelist) Free(chunk []byte, pool api.Mpooler) {
	if int64(len(chunk)) != fl.size {
		panicerr("freelist chunk of %v bytes, expected %v", len(chunk), fl.size)
	}
	fl.mu.Lock()
	if len(fl.chunks) < fl.maxcount {
		freechunk(chunk)
		fl.chunks = append(fl.chunks, chunk)
		fl.pools = append(fl.pools, pool)
		fl.mu.Unlock()
		return
	}
	fl.mu.Unlock()
	pool.Free(chunk)
}

// Count of free chunks cached in the list.
func (fl *Freelist) Count() int {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	return len(fl.chunks)
}

// Release all cached chunks back to mallocer.
func (fl *Freelist) Release() {
	fl.mu.Lock()
	chunks, pools := fl.chunks, fl.pools
	fl.chunks, fl.pools = nil, nil
	fl.maxcount = 0
	fl.mu.Unlock()

	for i, chunk := range chunks {
		pools[i].Free(chunk)
	}
}

// Stats return hit and miss count of this list.
func (fl *Freelist) Stats() map[string]interface{} {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	return map[string]interface{}{
		"size":     fl.size,
		"count":    len(fl.chunks),
		"n_hits":   fl.n_hits,
		"n_misses": fl.n_misses,
	}
}
