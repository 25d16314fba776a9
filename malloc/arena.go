package malloc

import "sort"
import "sync"
import "unsafe"

import s "github.com/bnclabs/gosettings"
import humanize "github.com/dustin/go-humanize"
import "github.com/bnclabs/objref/api"

// Arena defines a large memory block that can be divided into memory pools.
type Arena struct {
	mu sync.Mutex

	// 64-bit aligned stats
	heapsize  int64 // memory obtained from golang runtime
	allocated int64 // memory handed out to application

	slabs  []int64                // sorted list of slab-sizes in this arena
	mpools map[int64][]*poolflist // slab -> list of pools
	heap   *poolheap              // chunks larger than maxblock

	// configuration
	capacity  int64 // memory capacity to be managed by this arena
	minblock  int64 // minimum slab size allocatable by arena
	maxblock  int64 // maximum slab size allocatable by arena
	pcapacity int64 // maximum capacity for a single pool
	maxchunks int64 // maximum number of chunks allowed in a pool
}

// NewArena create a new memory arena.
func NewArena(setts s.Settings) *Arena {
	setts = make(s.Settings).Mixin(Defaultsettings(), setts)
	minblock, maxblock := setts.Int64("minblock"), setts.Int64("maxblock")
	arena := &Arena{
		slabs:     Blocksizes(minblock, maxblock),
		mpools:    make(map[int64][]*poolflist),
		capacity:  setts.Int64("capacity"),
		minblock:  minblock,
		maxblock:  maxblock,
		pcapacity: setts.Int64("pool.capacity"),
		maxchunks: setts.Int64("maxchunks"),
	}
	if int64(len(arena.slabs)) > Maxpools {
		panicerr("number of pools in arena exeeds %v", Maxpools)
	} else if cp := arena.capacity; cp > Maxarenasize {
		panicerr("arena cannot exceed %v bytes (%v)", Maxarenasize, cp)
	} else if arena.maxchunks > Maxchunks {
		panicerr("maxchunks cannot exceed %v (%v)", Maxchunks, arena.maxchunks)
	}
	arena.heap = &poolheap{arena: arena}

	fmsg := "arena capacity %v slabs %v-%v (%v sizes)\n"
	infof(fmsg, humanize.Bytes(uint64(arena.capacity)),
		humanize.Bytes(uint64(minblock)), humanize.Bytes(uint64(maxblock)),
		len(arena.slabs))
	return arena
}

//---- operations

// Slabs implement api.Mallocer{} interface.
func (arena *Arena) Slabs() []int64 {
	return arena.slabs
}

// Alloc implement api.Mallocer{} interface.
func (arena *Arena) Alloc(n int64) ([]byte, api.Mpooler, error) {
	if n <= 0 {
		panicerr("Alloc size %v must be positive", n)
	}

	arena.mu.Lock()
	defer arena.mu.Unlock()

	if arena.mpools == nil {
		panicerr("arena released")
	}
	if n > arena.maxblock {
		chunk, err := arena.heap.allocchunk(n)
		if err != nil {
			return nil, nil, err
		}
		return chunk, arena.heap, nil
	}

	// try to get from existing pool
	size := SuitableSize(arena.slabs, n)
	for _, mpool := range arena.mpools[size] {
		if chunk, ok := mpool.allocchunk(); ok {
			return chunk[:n], mpool, nil
		}
	}
	// pool exhausted, figure the dimensions and create a new pool.
	numchunks := arena.numchunks(size)
	if numchunks <= 0 {
		return nil, nil, ErrorOutofMemory
	}
	mpool := newpoolflist(arena, size, numchunks)
	arena.heapsize += mpool.capacity
	pools := arena.mpools[size]
	pools = append(pools, nil)
	copy(pools[1:], pools[:len(pools)-1])
	pools[0] = mpool
	arena.mpools[size] = pools

	debugf("arena new pool slab:%v chunks:%v\n", size, numchunks)
	chunk, _ := mpool.allocchunk()
	return chunk[:n], mpool, nil
}

// Release implement api.Mallocer{} interface.
func (arena *Arena) Release() {
	arena.mu.Lock()
	defer arena.mu.Unlock()

	for _, mpools := range arena.mpools {
		for _, mpool := range mpools {
			mpool.release()
		}
	}
	arena.mpools = nil
	arena.heapsize, arena.allocated = 0, 0
}

//---- statistics and maintenance

// Info implement api.Mallocer{} interface.
func (arena *Arena) Info() (capacity, heap, alloc, overhead int64) {
	arena.mu.Lock()
	defer arena.mu.Unlock()

	self := int64(unsafe.Sizeof(*arena))
	slicesz := int64(cap(arena.slabs) * int(unsafe.Sizeof(int64(1))))
	overhead = self + slicesz
	for _, mpools := range arena.mpools {
		for _, mpool := range mpools {
			_, _, _, x := mpool.info()
			overhead += x
		}
	}
	return arena.capacity, arena.heapsize, arena.allocated, overhead
}

// Utilization implement api.Mallocer{} interface.
func (arena *Arena) Utilization() ([]int, []float64) {
	arena.mu.Lock()
	defer arena.mu.Unlock()

	var sizes []int
	for _, size := range arena.slabs {
		sizes = append(sizes, int(size))
	}
	sort.Ints(sizes)

	ss, zs := make([]int, 0), make([]float64, 0)
	for _, size := range sizes {
		capacity, allocated := float64(0), float64(0)
		for _, mpool := range arena.mpools[int64(size)] {
			capacity += float64(mpool.capacity)
			allocated += float64(mpool.mallocated)
		}
		if capacity > 0 {
			ss = append(ss, size)
			zs = append(zs, (allocated/capacity)*100)
		}
	}
	return ss, zs
}

//---- local functions

// number of chunks for a new pool of `size` slab, bounded by pool
// capacity, maxchunks and remaining arena capacity.
func (arena *Arena) numchunks(size int64) int64 {
	numchunks := (arena.capacity / int64(len(arena.slabs))) / size
	if numchunks*size > arena.pcapacity {
		numchunks = arena.pcapacity / size
	}
	if numchunks > arena.maxchunks {
		numchunks = arena.maxchunks
	}
	if numchunks < 1 {
		numchunks = 1
	}
	if avail := (arena.capacity - arena.heapsize) / size; numchunks > avail {
		numchunks = avail
	}
	return numchunks
}

// called with arena locked, after pool's last chunk is freed.
func (arena *Arena) trypurge(mpool *poolflist) {
	pools := arena.mpools[mpool.size]
	if len(pools) < 2 {
		return
	}
	for i, pool := range pools {
		if pool == mpool {
			copy(pools[i:], pools[i+1:])
			pools[len(pools)-1] = nil
			arena.mpools[mpool.size] = pools[:len(pools)-1]
			arena.heapsize -= mpool.capacity
			mpool.release()
			debugf("arena released pool slab:%v\n", mpool.size)
			return
		}
	}
}
