package audiodriver

import (
	"sync/atomic"
	"testing"

	"github.com/haivivi/ogkaraoke/pkg/ring"
)

// constStream emits a fixed sample forever; done is never true.
type constStream struct {
	v Sample
}

func (c constStream) Next(dst []Sample) (int, bool) {
	for i := range dst {
		dst[i] = c.v
	}
	return len(dst), false
}

func newPair(depth int) (*Backend, *Frontend) {
	cmdWriter, cmdReader := ring.NewRing[DriverCommand](depth)
	var shared atomic.Pointer[AoStatus]
	shared.Store(&AoStatus{})
	backend := NewBackend(cmdReader, &shared)

	clock := 0.0
	fe := NewFrontend(cmdWriter, &shared, func() float64 { return clock })
	return backend, fe
}

// TestCommitOrdering implements scenario S5: ChangeStream(A), ZeroTime,
// Commit(1) must be observed before ChangeStream(B), Commit(2) takes
// effect, and each commit publishes a monotonically increasing command
// id.
func TestCommitOrdering(t *testing.T) {
	backend, fe := newPair(7)

	streamA := constStream{Sample{L: 1, R: 1}}
	streamB := constStream{Sample{L: 2, R: 2}}

	if err := fe.ChangeStream(streamA); err != nil {
		t.Fatalf("change A: %v", err)
	}
	if err := fe.ZeroTime(); err != nil {
		t.Fatalf("zero time: %v", err)
	}
	id1, err := fe.Commit()
	if err != nil {
		t.Fatalf("commit 1: %v", err)
	}
	if id1 != 1 {
		t.Fatalf("id1=%d want 1", id1)
	}

	out := make([]Sample, 4)
	backend.ProduceSamples(10.0, out)
	for _, s := range out {
		if s != streamA.v {
			t.Fatalf("expected stream A sample, got %+v", s)
		}
	}
	if !fe.AllCommandsProcessed() {
		t.Fatalf("commands not observed as processed after backend callback")
	}
	st1 := fe.refresh()
	if st1.TimeBase != 10.0 {
		t.Fatalf("time base=%v want 10.0", st1.TimeBase)
	}

	if err := fe.ChangeStream(streamB); err != nil {
		t.Fatalf("change B: %v", err)
	}
	id2, err := fe.Commit()
	if err != nil {
		t.Fatalf("commit 2: %v", err)
	}
	if id2 != 2 {
		t.Fatalf("id2=%d want 2", id2)
	}
	if fe.AllCommandsProcessed() {
		t.Fatalf("commit 2 should not be observed before the backend runs a callback")
	}

	backend.ProduceSamples(11.0, out)
	for _, s := range out {
		if s != streamB.v {
			t.Fatalf("expected stream B sample, got %+v", s)
		}
	}
	if !fe.AllCommandsProcessed() {
		t.Fatalf("commit 2 not observed as processed")
	}
	st2 := fe.refresh()
	if st2.TimeBase != 10.0 {
		t.Fatalf("time base changed on a commit with no ZeroTime: got %v want 10.0", st2.TimeBase)
	}
	if st2.LastCommand != 2 {
		t.Fatalf("last command=%d want 2", st2.LastCommand)
	}
}

// TestSilenceWhenNoStream implements property 7: with no stream
// selected, ProduceSamples must fill the buffer with silence rather
// than leaving stale data.
func TestSilenceWhenNoStream(t *testing.T) {
	backend, _ := newPair(7)
	out := make([]Sample, 8)
	for i := range out {
		out[i] = Sample{L: 99, R: 99}
	}
	backend.ProduceSamples(0, out)
	for _, s := range out {
		if s != (Sample{}) {
			t.Fatalf("expected silence, got %+v", s)
		}
	}
}

// exhaustibleStream returns done=true once its samples are consumed.
type exhaustibleStream struct {
	remaining int
	v         Sample
}

func (e *exhaustibleStream) Next(dst []Sample) (int, bool) {
	n := e.remaining
	if n > len(dst) {
		n = len(dst)
	}
	for i := 0; i < n; i++ {
		dst[i] = e.v
	}
	e.remaining -= n
	return n, e.remaining == 0
}

func TestStreamExhaustionClearsCurrentStream(t *testing.T) {
	backend, fe := newPair(7)
	stream := &exhaustibleStream{remaining: 3, v: Sample{L: 5, R: 5}}
	if err := fe.ChangeStream(stream); err != nil {
		t.Fatalf("change stream: %v", err)
	}
	if _, err := fe.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	out := make([]Sample, 3)
	backend.ProduceSamples(0, out)
	if backend.currentStream != nil {
		t.Fatalf("stream should have been cleared after exhaustion")
	}

	for i := range out {
		out[i] = Sample{L: 7, R: 7}
	}
	backend.ProduceSamples(1, out)
	for _, s := range out {
		if s != (Sample{}) {
			t.Fatalf("expected silence after stream exhaustion, got %+v", s)
		}
	}
}

func TestRingStreamReaderSurfacesAvailableSamplesOnly(t *testing.T) {
	w, r := ring.NewRing[Sample](7)
	g, err := w.Reserve(3)
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	g.Write([]Sample{{L: 1}, {L: 2}, {L: 3}})
	g.Commit()

	rs := NewRingStreamReader(r)
	dst := make([]Sample, 5)
	n, done := rs.Next(dst)
	if n != 3 || done {
		t.Fatalf("n=%d done=%v, want 3/false", n, done)
	}

	n, done = rs.Next(dst)
	if n != 0 || done {
		t.Fatalf("n=%d done=%v, want 0/false on empty non-disconnected ring", n, done)
	}

	w.Close()
	n, done = rs.Next(dst)
	if n != 0 || !done {
		t.Fatalf("n=%d done=%v, want 0/true after writer disconnect", n, done)
	}
}
