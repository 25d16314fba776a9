// Package malloc supplies memory management for object bodies, with a
// limited scope:
//
//  * Memory is obtained from golang runtime in pools, where each pool
//    manages several memory-chunks of same size, called slab.
//  * Chunks larger than the maximum slab size are allocated directly
//    from golang heap, but still accounted against the arena capacity.
//  * Arena is safe for concurrent use, every allocation and free is
//    serialized by arena's mutex.
//  * Allocation never panics for lack of memory, it returns
//    ErrorOutofMemory and leaves it to the caller to escalate.
//  * A pool whose chunks are all free is given back to golang runtime
//    if there is another pool of same slab.
//
// Arena is a bucket space of memory, with a maximum capacity, that
// is empty to begin with and starts filling up as and when new
// allocations are requested by application.
//
// Freelist caches chunks of one fixed size, on top of an arena, for
// object types that are created and destroyed at a high rate.
//
// Build with `-tags debug` to poison freed chunks with 0xff, which
// helps catch use-after-free in object bodies.
package malloc
