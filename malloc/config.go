package malloc

import s "github.com/bnclabs/gosettings"
import "github.com/cloudfoundry/gosigar"

// Sizeinterval minblock and maxblock should be multiples of Sizeinterval.
const Sizeinterval = int64(32)

// MEMUtilization expected in an arena.
const MEMUtilization = float64(0.95)

// Maxarenasize maximum size of a memory arena.
const Maxarenasize = int64(1024 * 1024 * 1024 * 1024) // 1TB

// Maxpools maximum number of slab sizes allowed in an arena.
const Maxpools = int64(256)

// Maxchunks maximum number of chunks allowed in a pool, free list is
// book-kept in uint16.
const Maxchunks = int64(65536)

// Defaultsettings for arena.
//
// "capacity" (int64, default: free RAM)
//		Memory capacity managed by arena.
//
// "minblock" (int64, default: 32)
//		Minimum size of a slab.
//
// "maxblock" (int64, default: 1MB)
//		Maximum size of a slab, larger chunks are allocated from
//		golang heap.
//
// "pool.capacity" (int64, default: 1MB)
//		Maximum memory managed by a single pool.
//
// "maxchunks" (int64, default: Maxchunks)
//		Maximum number of chunks in a pool.
func Defaultsettings() s.Settings {
	_, _, free := getsysmem()
	capacity := int64(free)
	if capacity > Maxarenasize {
		capacity = Maxarenasize
	}
	return s.Settings{
		"capacity":      capacity,
		"minblock":      int64(32),
		"maxblock":      int64(1024 * 1024),
		"pool.capacity": int64(1024 * 1024),
		"maxchunks":     Maxchunks,
	}
}

func getsysmem() (total, used, free uint64) {
	mem := sigar.Mem{}
	mem.Get()
	return mem.Total, mem.Used, mem.Free
}
