package audiodriver

import (
	"log/slog"
	"sync/atomic"

	"github.com/haivivi/ogkaraoke/pkg/ring"
)

// Backend runs on the audio callback thread. It must never block,
// allocate, or take a lock once constructed.
type Backend struct {
	shared    *atomic.Pointer[AoStatus]
	cmdReader *ring.Reader[DriverCommand]

	deferred [2]DriverCommand // slot 0: ChangeStream, slot 1: ZeroTime
	cmdBuf   [1]DriverCommand // reused scratch, avoids per-callback allocation

	timeBase      float64
	commandID     uint16
	currentStream StreamReader
	underruns     uint64

	statusPool [2]AoStatus // ping-ponged to avoid allocating on publish
	statusIdx  int
}

// NewBackend creates a backend draining cmdReader and publishing
// status to shared. It primes a deferred ZeroTime exactly as the
// reference DriverBackend::new does, though it only takes effect once
// a Commit is received.
func NewBackend(cmdReader *ring.Reader[DriverCommand], shared *atomic.Pointer[AoStatus]) *Backend {
	b := &Backend{cmdReader: cmdReader, shared: shared}
	b.deferred[1] = zeroTimeCmd{}
	return b
}

// ProduceSamples is called once per audio callback with the current
// monotone wall time (seconds since an arbitrary epoch) and the
// output buffer to fill. It drains pending commands, then copies
// available samples from the current stream, zero-filling (silence)
// wherever the stream has none available right now or no stream is
// selected.
func (b *Backend) ProduceSamples(now float64, out []Sample) {
	b.drainCommands(now)

	for i := range out {
		out[i] = Sample{}
	}
	if b.currentStream == nil {
		return
	}

	n, done := b.currentStream.Next(out)
	if n < len(out) {
		b.underruns++
		slog.Debug("audiodriver: underrun", "missing", len(out)-n, "total_underruns", b.underruns)
	}
	if done {
		b.currentStream = nil
	}
}

func (b *Backend) drainCommands(now float64) {
	for {
		g, err := b.cmdReader.Reserve(1)
		if err != nil {
			return
		}
		g.Read(b.cmdBuf[:])
		g.Commit()
		b.receiveCommand(b.cmdBuf[0], now)
	}
}

func (b *Backend) receiveCommand(cmd DriverCommand, now float64) {
	switch c := cmd.(type) {
	case changeStreamCmd:
		b.deferred[0] = c
	case zeroTimeCmd:
		b.deferred[1] = c
	case commitCmd:
		for _, d := range b.deferred {
			b.applyDeferred(d, now)
		}
		b.deferred = [2]DriverCommand{}
		b.commandID = c.id
		b.publish()
	case abortCmd:
		b.deferred = [2]DriverCommand{}
	}
}

func (b *Backend) applyDeferred(cmd DriverCommand, now float64) {
	switch c := cmd.(type) {
	case changeStreamCmd:
		b.currentStream = c.stream
	case zeroTimeCmd:
		b.timeBase = now
	case nil:
		// untouched slot, a Nop.
	}
}

func (b *Backend) publish() {
	b.statusIdx ^= 1
	s := &b.statusPool[b.statusIdx]
	s.LastCommand = b.commandID
	s.TimeBase = b.timeBase
	b.shared.Store(s)
}
