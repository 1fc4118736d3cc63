package mp3stream

import (
	"sync"
	"sync/atomic"

	"github.com/haivivi/ogkaraoke/pkg/audiodriver"
	"github.com/haivivi/ogkaraoke/pkg/buffer"
	"github.com/haivivi/ogkaraoke/pkg/ring"
)

// BlockQueue is the cross-thread channel carrying resampled samples
// from the MP3 decode goroutine to the frontend that drains them into
// the output ring buffer. It is a thin adapter over an unbounded
// buffer.Queue: self-throttled by ring buffer pressure applied
// upstream, since the decode goroutine blocks on the bounded feed
// queue when the player isn't pumping demux.
//
// The zero value is ready to use.
type BlockQueue struct {
	once    sync.Once
	samples *buffer.Queue[audiodriver.Sample]
	closed  atomic.Bool
	scratch []audiodriver.Sample
}

func (q *BlockQueue) init() {
	q.once.Do(func() {
		q.samples = buffer.Unbounded[audiodriver.Sample](4096)
	})
}

// Push appends a decoded block. Safe to call from the decode
// goroutine only (single producer).
func (q *BlockQueue) Push(block []audiodriver.Sample) {
	if len(block) == 0 {
		return
	}
	q.init()
	q.samples.Write(block)
}

// Close marks the queue as permanently empty-after-drain, signaling
// EOS once the last queued sample is consumed.
func (q *BlockQueue) Close() {
	q.init()
	q.samples.CloseWrite()
	q.closed.Store(true)
}

// Drain copies as many queued samples as currently fit into w,
// leaving the rest queued for the next call; it never blocks. It
// reports done=true once the queue is closed and fully drained.
func (q *BlockQueue) Drain(w *ring.Writer[audiodriver.Sample]) (done bool, err error) {
	q.init()
	for {
		// Order matters: observing closed before Len guarantees that
		// a zero Len really means empty-forever rather than a racing
		// final Push.
		closed := q.closed.Load()
		have := q.samples.Len()
		if have == 0 {
			return closed, nil
		}

		avail := w.Available()
		if avail == 0 {
			return false, nil
		}
		n := min(have, avail)
		if cap(q.scratch) < n {
			q.scratch = make([]audiodriver.Sample, n)
		}
		buf := q.scratch[:n]
		rn, rerr := q.samples.Read(buf)
		if rerr != nil {
			return false, rerr
		}

		g, rerr := w.Reserve(rn)
		if rerr != nil {
			return false, rerr
		}
		g.Write(buf[:rn])
		g.Commit()
	}
}
