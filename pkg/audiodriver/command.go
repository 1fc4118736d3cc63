package audiodriver

// Sample is one interleaved stereo 16-bit PCM frame.
type Sample struct {
	L, R int16
}

// StreamReader is the realtime-safe pull interface the backend drains
// the current audio stream through. Next must never block or
// allocate; it returns the number of samples actually written into
// dst (which may be less than len(dst) on temporary underrun) and
// done=true once the stream is permanently exhausted.
type StreamReader interface {
	Next(dst []Sample) (n int, done bool)
}

// DriverCommand is the command protocol between Frontend and Backend:
// a small closed interface implemented only by the four command kinds
// below.
type DriverCommand interface {
	isDriverCommand()
}

type changeStreamCmd struct {
	stream StreamReader // nil means play silence
}

type zeroTimeCmd struct{}

type commitCmd struct {
	id uint16
}

type abortCmd struct{}

func (changeStreamCmd) isDriverCommand() {}
func (zeroTimeCmd) isDriverCommand()     {}
func (commitCmd) isDriverCommand()       {}
func (abortCmd) isDriverCommand()        {}

// AoStatus is the one-slot status the backend publishes to the
// frontend on every Commit: the applied command's id, and the wall
// time sampled as of that commit's ZeroTime (if any preceded it).
type AoStatus struct {
	LastCommand uint16
	TimeBase    float64
}
