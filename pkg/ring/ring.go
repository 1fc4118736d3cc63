package ring

import (
	"errors"
	"sync/atomic"
)

// Errors returned by Reserve.
var (
	ErrWouldNotFit  = errors.New("ring: requested size exceeds capacity")
	ErrNoMore       = errors.New("ring: insufficient available/free elements")
	ErrDisconnected = errors.New("ring: peer has disconnected")
)

type shared[T any] struct {
	buf      []T
	wptr     atomic.Uint64
	rptr     atomic.Uint64
	refCount atomic.Int32
}

func nextPow2(n int) int {
	if n < 1 {
		n = 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// NewRing creates a ring buffer whose usable capacity is
// next_power_of_two(requested)-1, returning the split writer/reader
// handles. Exactly one writer and one reader must exist at a time.
func NewRing[T any](requested int) (*Writer[T], *Reader[T]) {
	size := nextPow2(requested)
	s := &shared[T]{buf: make([]T, size)}
	s.refCount.Store(2)
	return &Writer[T]{s: s}, &Reader[T]{s: s}
}

func (s *shared[T]) bufSize() uint64  { return uint64(len(s.buf)) }
func (s *shared[T]) capacity() uint64 { return s.bufSize() - 1 }

func (s *shared[T]) sizeLocked(w, r uint64) uint64 {
	return (w - r + s.bufSize()) % s.bufSize()
}

// Writer is the producer side of a ring buffer.
type Writer[T any] struct{ s *shared[T] }

// Reader is the consumer side of a ring buffer.
type Reader[T any] struct{ s *shared[T] }

// Capacity returns the ring's fixed usable capacity.
func (w *Writer[T]) Capacity() int { return int(w.s.capacity()) }

// Capacity returns the ring's fixed usable capacity.
func (r *Reader[T]) Capacity() int { return int(r.s.capacity()) }

// Available returns the number of elements currently free to write.
func (w *Writer[T]) Available() int {
	wptr := w.s.wptr.Load()
	rptr := w.s.rptr.Load()
	size := w.s.sizeLocked(wptr, rptr)
	return int(w.s.capacity() - size)
}

// Size returns the number of elements currently available to read.
func (r *Reader[T]) Size() int {
	wptr := r.s.wptr.Load()
	rptr := r.s.rptr.Load()
	return int(r.s.sizeLocked(wptr, rptr))
}

// Close disconnects this writer; a subsequent Reserve by the peer
// reader observes ErrDisconnected once it has drained what remains.
func (w *Writer[T]) Close() { w.s.refCount.Add(-1) }

// Close disconnects this reader; a subsequent Reserve by the peer
// writer observes ErrDisconnected.
func (r *Reader[T]) Close() { r.s.refCount.Add(-1) }

func splitSlices[T any](buf []T, start, n uint64) ([]T, []T) {
	bufSize := uint64(len(buf))
	end := start + n
	if end <= bufSize {
		return buf[start:end], nil
	}
	return buf[start:bufSize], buf[0 : end-bufSize]
}

// WriteGuard reserves a contiguous (possibly wraparound-split) region
// of the ring for the producer to fill. The caller must call Commit
// or Discard exactly once.
type WriteGuard[T any] struct {
	w         *Writer[T]
	n         uint64
	start     uint64
	committed bool
}

// Reserve reserves n elements to write. It fails with ErrWouldNotFit
// if n exceeds capacity, ErrNoMore if fewer than n elements are
// currently free, or ErrDisconnected if the reader has closed.
func (w *Writer[T]) Reserve(n int) (*WriteGuard[T], error) {
	if w.s.refCount.Load() < 2 {
		return nil, ErrDisconnected
	}
	un := uint64(n)
	if un > w.s.capacity() {
		return nil, ErrWouldNotFit
	}
	wptr := w.s.wptr.Load()
	rptr := w.s.rptr.Load() // acquire: observe consumer progress
	size := w.s.sizeLocked(wptr, rptr)
	if un > w.s.capacity()-size {
		return nil, ErrNoMore
	}
	return &WriteGuard[T]{w: w, n: un, start: wptr % w.s.bufSize()}, nil
}

// Slices returns the (up to two) contiguous slices backing this
// reservation.
func (g *WriteGuard[T]) Slices() ([]T, []T) {
	return splitSlices(g.w.s.buf, g.start, g.n)
}

// Write copies src, which must have exactly the reserved length, into
// the reserved region.
func (g *WriteGuard[T]) Write(src []T) {
	if uint64(len(src)) != g.n {
		panic("ring: write guard length mismatch")
	}
	a, b := g.Slices()
	copy(a, src)
	if b != nil {
		copy(b, src[len(a):])
	}
}

// Commit publishes the write, advancing the write index so the
// reader can observe it.
func (g *WriteGuard[T]) Commit() {
	if g.committed {
		panic("ring: write guard committed or discarded twice")
	}
	g.committed = true
	newW := (g.w.s.wptr.Load() + g.n) % g.w.s.bufSize()
	g.w.s.wptr.Store(newW) // release
}

// Discard abandons the reservation without publishing it.
func (g *WriteGuard[T]) Discard() {
	if g.committed {
		panic("ring: write guard committed or discarded twice")
	}
	g.committed = true
}

// ReadGuard reserves a contiguous (possibly wraparound-split) region
// of the ring for the consumer to drain. The caller must call Commit
// or Discard exactly once.
type ReadGuard[T any] struct {
	r         *Reader[T]
	n         uint64
	start     uint64
	committed bool
}

// Reserve reserves n elements to read. It fails with ErrWouldNotFit
// if n exceeds capacity, ErrNoMore if fewer than n elements are
// currently available, or ErrDisconnected if fewer than n elements
// are available and the writer has closed.
func (r *Reader[T]) Reserve(n int) (*ReadGuard[T], error) {
	un := uint64(n)
	if un > r.s.capacity() {
		return nil, ErrWouldNotFit
	}
	wptr := r.s.wptr.Load() // acquire: observe producer progress
	rptr := r.s.rptr.Load()
	size := r.s.sizeLocked(wptr, rptr)
	if un > size {
		if r.s.refCount.Load() < 2 {
			return nil, ErrDisconnected
		}
		return nil, ErrNoMore
	}
	return &ReadGuard[T]{r: r, n: un, start: rptr % r.s.bufSize()}, nil
}

// Slices returns the (up to two) contiguous slices backing this
// reservation.
func (g *ReadGuard[T]) Slices() ([]T, []T) {
	return splitSlices(g.r.s.buf, g.start, g.n)
}

// Read copies the reserved region into dst, which must have exactly
// the reserved length.
func (g *ReadGuard[T]) Read(dst []T) {
	if uint64(len(dst)) != g.n {
		panic("ring: read guard length mismatch")
	}
	a, b := g.Slices()
	copy(dst, a)
	if b != nil {
		copy(dst[len(a):], b)
	}
}

// Commit publishes the read, advancing the read index so the writer
// can reuse the space.
func (g *ReadGuard[T]) Commit() {
	if g.committed {
		panic("ring: read guard committed or discarded twice")
	}
	g.committed = true
	newR := (g.r.s.rptr.Load() + g.n) % g.r.s.bufSize()
	g.r.s.rptr.Store(newR) // release
}

// Discard abandons the reservation without advancing the read index.
func (g *ReadGuard[T]) Discard() {
	if g.committed {
		panic("ring: read guard committed or discarded twice")
	}
	g.committed = true
}
