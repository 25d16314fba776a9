// Package object implement typed, reference counted objects.
//
// Every object belongs to a Type for its lifetime and carries a header
// with a reference count. Object is created with a count of one, plus
// any additional references asked for, and the caller owns all of them.
// Ownership is passed around with Reference and Dereference, the last
// Dereference invokes the type's Deleter exactly once and gives the
// object's body back to the allocator.
//
//   * Reference counting is lock free and safe from any number of
//     routines.
//   * ReferenceSafe is the only way to take a reference on an object
//     reached through a shared structure that does not itself keep the
//     object alive, it never resurrects an object whose count has
//     dropped to zero.
//   * Dereferencing with deferred delete queues the object on a lock
//     free stack, which is drained by a single job on the runtime's
//     job queue. Use it when the caller holds a lock that a Deleter
//     might need, or to avoid deep recursion of deleters.
//   * Thread is an explicit per-routine context holding a stack of
//     auto-release pools. Objects registered with Autorelease are
//     dereferenced once when their pool is drained or deleted.
//
// Types are objects too, of the bootstrap type "Type" whose own type is
// itself. Types are conventionally never destroyed, dereferencing one to
// zero removes it from the runtime's type table.
//
// Programmer errors, like refcount underflow, negative reference counts
// or deleting a pool out of order, panic. Running out of memory is
// returned as malloc.ErrorOutofMemory, unless the object is created with
// RaiseOnFail.
package object
