package malloc

import "unsafe"

// poolflist manages a memory block sliced up into equal sized chunks.
// Methods are called with arena locked, except Free.
type poolflist struct {
	// 64-bit aligned stats
	mallocated int64

	capacity int64  // memory managed by this pool
	size     int64  // fixed size chunks in this pool
	block    []byte // pool's memory
	freelist []uint16
	arena    *Arena
}

// size of each chunk in the block and no. of chunks in the block.
func newpoolflist(arena *Arena, size, n int64) *poolflist {
	if n > Maxchunks {
		panicerr("cannot have more than %v chunks in a pool", Maxchunks)
	}
	capacity := size * n
	pool := &poolflist{
		capacity: capacity,
		size:     size,
		block:    make([]byte, capacity),
		freelist: make([]uint16, n),
		arena:    arena,
	}
	for i := 0; i < int(n); i++ {
		pool.freelist[i] = uint16(int(n) - 1 - i)
	}
	return pool
}

// Slabsize implement api.Mpooler{} interface.
func (pool *poolflist) Slabsize() int64 {
	return pool.size
}

// Free implement api.Mpooler{} interface.
func (pool *poolflist) Free(chunk []byte) {
	if len(chunk) == 0 {
		panicerr("poolflist.free(): empty chunk")
	}

	arena := pool.arena
	arena.mu.Lock()
	defer arena.mu.Unlock()

	if pool.block == nil {
		panicerr("poolflist.free(): pool released")
	}
	base := uintptr(unsafe.Pointer(&pool.block[0]))
	ptr := uintptr(unsafe.Pointer(&chunk[0]))
	if ptr < base || ptr >= base+uintptr(pool.capacity) {
		panicerr("poolflist.free(): chunk %x not from pool %x", ptr, base)
	}
	diffptr := uint64(ptr - base)
	if (diffptr % uint64(pool.size)) != 0 {
		fmsg := "poolflist.free(): unaligned chunk: %x,%v"
		panicerr(fmsg, diffptr, pool.size)
	}
	nthchunk := uint16(diffptr / uint64(pool.size))
	freechunk(pool.block[diffptr : int64(diffptr)+pool.size])
	pool.freelist = append(pool.freelist, nthchunk)
	pool.mallocated -= pool.size
	arena.allocated -= pool.size

	if pool.mallocated == 0 {
		arena.trypurge(pool)
	}
}

// Info implement api.Mpooler{} interface.
func (pool *poolflist) Info() (capacity, heap, alloc, overhead int64) {
	pool.arena.mu.Lock()
	defer pool.arena.mu.Unlock()
	return pool.info()
}

//---- local functions

func (pool *poolflist) allocchunk() ([]byte, bool) {
	if len(pool.freelist) == 0 {
		return nil, false
	}
	off := len(pool.freelist) - 1
	nthchunk := int64(pool.freelist[off])
	pool.freelist = pool.freelist[:off]

	from := nthchunk * pool.size
	chunk := pool.block[from : from+pool.size : from+pool.size]
	initchunk(chunk)
	pool.mallocated += pool.size
	pool.arena.allocated += pool.size
	return chunk, true
}

func (pool *poolflist) info() (capacity, heap, alloc, overhead int64) {
	self := int64(unsafe.Sizeof(*pool))
	slicesz := int64(cap(pool.freelist)) * 2
	return pool.capacity, pool.capacity, pool.mallocated, slicesz + self
}

func (pool *poolflist) release() {
	pool.block, pool.freelist = nil, nil
	pool.mallocated = 0
}

func (pool *poolflist) checkallocated() int64 {
	return pool.capacity - int64(len(pool.freelist))*pool.size
}

// poolheap accounts for chunks larger than arena's maxblock, each
// allocated directly from golang heap.
type poolheap struct {
	mallocated int64
	arena      *Arena
}

// Slabsize implement api.Mpooler{} interface, heap chunks don't have
// a fixed size.
func (pool *poolheap) Slabsize() int64 {
	return 0
}

// Free implement api.Mpooler{} interface.
func (pool *poolheap) Free(chunk []byte) {
	arena := pool.arena
	arena.mu.Lock()
	defer arena.mu.Unlock()

	n := int64(cap(chunk))
	freechunk(chunk[:n])
	pool.mallocated -= n
	arena.allocated -= n
	arena.heapsize -= n
}

// Info implement api.Mpooler{} interface.
func (pool *poolheap) Info() (capacity, heap, alloc, overhead int64) {
	pool.arena.mu.Lock()
	defer pool.arena.mu.Unlock()
	return pool.mallocated, pool.mallocated, pool.mallocated, 0
}

func (pool *poolheap) allocchunk(n int64) ([]byte, error) {
	arena := pool.arena
	if arena.heapsize+n > arena.capacity {
		return nil, ErrorOutofMemory
	}
	chunk := make([]byte, n)
	pool.mallocated += n
	arena.allocated += n
	arena.heapsize += n
	return chunk, nil
}
