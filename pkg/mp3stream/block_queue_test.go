package mp3stream

import (
	"testing"

	"github.com/haivivi/ogkaraoke/pkg/audiodriver"
	"github.com/haivivi/ogkaraoke/pkg/ring"
)

func TestBlockQueueDrainRespectsRingCapacity(t *testing.T) {
	w, r := ring.NewRing[audiodriver.Sample](7)

	var q BlockQueue
	q.Push([]audiodriver.Sample{{L: 1}, {L: 2}, {L: 3}, {L: 4}, {L: 5}})
	q.Close()

	done, err := q.Drain(w)
	if err != nil {
		t.Fatalf("drain: %v", err)
	}
	if !done {
		t.Fatalf("expected done once a closed queue's samples all fit in the ring")
	}
	if r.Size() != 5 {
		t.Fatalf("ring size=%d want 5", r.Size())
	}

	g, err := r.Reserve(5)
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	out := make([]audiodriver.Sample, 5)
	g.Read(out)
	g.Commit()
	for i, s := range out {
		if s.L != int16(i+1) {
			t.Fatalf("out[%d]=%+v", i, s)
		}
	}

	done, err = q.Drain(w)
	if err != nil {
		t.Fatalf("second drain: %v", err)
	}
	if !done {
		t.Fatalf("expected done after fully draining a closed queue")
	}
}

func TestBlockQueueDrainSplitsOversizedBlock(t *testing.T) {
	w, r := ring.NewRing[audiodriver.Sample](7)

	var q BlockQueue
	block := make([]audiodriver.Sample, 10)
	for i := range block {
		block[i] = audiodriver.Sample{L: int16(i)}
	}
	q.Push(block)

	if _, err := q.Drain(w); err != nil {
		t.Fatalf("drain: %v", err)
	}
	if r.Size() != 7 {
		t.Fatalf("ring size=%d want 7 (capacity-limited)", r.Size())
	}

	g, _ := r.Reserve(7)
	out := make([]audiodriver.Sample, 7)
	g.Read(out)
	g.Commit()
	for i, s := range out {
		if s.L != int16(i) {
			t.Fatalf("out[%d]=%+v", i, s)
		}
	}

	q.Close()
	done, err := q.Drain(w)
	if err != nil {
		t.Fatalf("drain remainder: %v", err)
	}
	if !done {
		t.Fatalf("expected done after draining the rest")
	}
	if r.Size() != 3 {
		t.Fatalf("ring size=%d want 3 remaining samples", r.Size())
	}
}
