package api

// Mallocer interface for custom memory management of object bodies.
type Mallocer interface {
	// Slabs allocatable slab of sizes.
	Slabs() (sizes []int64)

	// Alloc allocate a chunk of `n` bytes. Returned slice has length `n`
	// and belongs to the returned pool, which shall be used to free it.
	Alloc(n int64) (chunk []byte, pool Mpooler, err error)

	// Release arena, all its pools and resources.
	Release()

	// Info of memory accounting for this arena.
	Info() (capacity, heap, alloc, overhead int64)

	// Utilization map of slab-size and its utilization
	Utilization() ([]int, []float64)
}

// Mpooler manage chunks of same size.
type Mpooler interface {
	// Slabsize managed by this pool.
	Slabsize() int64

	// Free chunk back to pool.
	Free(chunk []byte)

	// Info of memory accounting for this pool.
	Info() (capacity, heap, alloc, overhead int64)
}
