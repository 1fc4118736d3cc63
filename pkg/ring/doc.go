// Package ring implements a lock-free single-producer/single-consumer
// ring buffer: a fixed power-of-two-minus-one capacity, atomic
// read/write indices with acquire/release ordering, and guard objects
// that defer the index advance until the caller explicitly commits.
//
// Go has no destructors, so callers must call Commit or Discard
// exactly once on every guard. There is no deferred-deallocation
// trash stack: a guard's backing storage is always a slice into the
// ring's single preallocated array, so discarding a guard has nothing
// to free and involves no allocator call from the realtime party.
package ring
