package audiodriver

import (
	"sync/atomic"

	"github.com/haivivi/ogkaraoke/pkg/ring"
)

// Frontend runs on the player thread, issuing deferred commands and
// observing the backend's published status.
type Frontend struct {
	shared      *atomic.Pointer[AoStatus]
	cmdWriter   *ring.Writer[DriverCommand]
	cached      AoStatus
	lastCmdSent uint16
	deviceClock func() float64
}

// NewFrontend creates a frontend sending commands through cmdWriter
// and observing shared. deviceClock returns the audio device's
// current wall-clock time in seconds; it is supplied by the concrete
// output backend (e.g. derived from an oto.Player's playback
// position).
func NewFrontend(cmdWriter *ring.Writer[DriverCommand], shared *atomic.Pointer[AoStatus], deviceClock func() float64) *Frontend {
	return &Frontend{cmdWriter: cmdWriter, shared: shared, deviceClock: deviceClock}
}

func (f *Frontend) send(cmd DriverCommand) error {
	g, err := f.cmdWriter.Reserve(1)
	if err != nil {
		return err
	}
	buf := [1]DriverCommand{cmd}
	g.Write(buf[:])
	g.Commit()
	return nil
}

// ChangeStream queues a deferred stream change. Passing nil plays
// silence.
func (f *Frontend) ChangeStream(stream StreamReader) error {
	return f.send(changeStreamCmd{stream: stream})
}

// ZeroTime queues a deferred reset of the backend's time base.
func (f *Frontend) ZeroTime() error {
	return f.send(zeroTimeCmd{})
}

// Abort clears any outstanding deferred commands.
func (f *Frontend) Abort() error {
	return f.send(abortCmd{})
}

// Commit queues an immediate commit of both deferred slots, returning
// the new command id that AllCommandsProcessed should be polled
// against.
func (f *Frontend) Commit() (uint16, error) {
	next := f.lastCmdSent + 1
	if err := f.send(commitCmd{id: next}); err != nil {
		return 0, err
	}
	f.lastCmdSent = next
	return next, nil
}

func (f *Frontend) refresh() AoStatus {
	if p := f.shared.Load(); p != nil {
		f.cached = *p
	}
	return f.cached
}

// AllCommandsProcessed reports whether the backend has observed every
// command sent so far, including the most recent Commit.
func (f *Frontend) AllCommandsProcessed() bool {
	return f.refresh().LastCommand == f.lastCmdSent
}

// Timestamp returns the playback clock position relative to the time
// base established by the most recently observed ZeroTime commit.
func (f *Frontend) Timestamp() float64 {
	st := f.refresh()
	return f.deviceClock() - st.TimeBase
}
