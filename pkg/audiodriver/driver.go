package audiodriver

import (
	"encoding/binary"
	"sync/atomic"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/haivivi/ogkaraoke/pkg/ring"
)

// SampleRate is the fixed output rate the whole pipeline decodes to.
// Every stream is resampled to 48 kHz stereo before it reaches the
// ring buffer, which keeps the resampler (pkg/audio/resampler) in
// front of this package rather than inside it.
const SampleRate = 48000

// pcmShim adapts Backend.ProduceSamples to the io.Reader oto.Player
// pulls PCM through, and tracks how many frames have been emitted so
// Device can derive a device clock.
type pcmShim struct {
	backend *Backend
	frames  atomic.Uint64
	scratch []Sample
}

func newPCMShim(backend *Backend) *pcmShim {
	return &pcmShim{backend: backend}
}

// Read implements io.Reader. oto/v3 requests interleaved little-endian
// 16-bit stereo PCM.
func (s *pcmShim) Read(p []byte) (int, error) {
	n := len(p) / 4
	if n == 0 {
		return 0, nil
	}
	if cap(s.scratch) < n {
		s.scratch = make([]Sample, n)
	}
	buf := s.scratch[:n]

	now := float64(s.frames.Load()) / SampleRate
	s.backend.ProduceSamples(now, buf)
	s.frames.Add(uint64(n))

	for i, smp := range buf {
		binary.LittleEndian.PutUint16(p[i*4:], uint16(smp.L))
		binary.LittleEndian.PutUint16(p[i*4+2:], uint16(smp.R))
	}
	return n * 4, nil
}

func (s *pcmShim) deviceClock() float64 {
	return float64(s.frames.Load()) / SampleRate
}

// Device owns the oto output context, a Backend/Frontend pair wired
// together through an SPSC command queue, and the oto.Player driving
// playback.
type Device struct {
	Frontend *Frontend
	player   *oto.Player
}

// OpenDevice creates an oto context for the default output device and
// wires a Backend/Frontend pair around it. cmdQueueDepth bounds the
// number of in-flight ChangeStream/ZeroTime/Commit/Abort commands; a
// handful is plenty since the frontend only ever has one or two
// outstanding at a time.
func OpenDevice(cmdQueueDepth int) (*Device, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   SampleRate,
		ChannelCount: 2,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return nil, err
	}
	<-ready

	cmdWriter, cmdReader := ring.NewRing[DriverCommand](cmdQueueDepth)

	var shared atomic.Pointer[AoStatus]
	shared.Store(&AoStatus{})

	backend := NewBackend(cmdReader, &shared)
	shim := newPCMShim(backend)
	frontend := NewFrontend(cmdWriter, &shared, shim.deviceClock)

	player := ctx.NewPlayer(shim)
	player.SetBufferSize(4096)
	player.Play()

	return &Device{Frontend: frontend, player: player}, nil
}

// Close stops playback.
func (d *Device) Close() error {
	return d.player.Close()
}

// WaitUntilProcessed blocks, polling AllCommandsProcessed, until the
// backend has observed every command sent so far or the timeout
// elapses.
func (d *Device) WaitUntilProcessed(timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for !d.Frontend.AllCommandsProcessed() {
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(time.Millisecond)
	}
	return true
}
