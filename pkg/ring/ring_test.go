package ring

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCapacityRounding(t *testing.T) {
	cases := []struct{ requested, want int }{
		{1, 0}, {2, 1}, {3, 3}, {4, 3}, {7, 7}, {8, 7}, {9, 15},
	}
	for _, c := range cases {
		w, _ := NewRing[byte](c.requested)
		require.Equalf(t, c.want, w.Capacity(), "requested=%d", c.requested)
	}
}

func TestRingBufferPressureScenario(t *testing.T) {
	w, r := NewRing[int](7)
	if w.Capacity() != 7 {
		t.Fatalf("capacity=%d, want 7", w.Capacity())
	}

	g1, err := w.Reserve(6)
	if err != nil {
		t.Fatalf("first reserve: %v", err)
	}
	g1.Write([]int{0, 1, 2, 3, 4, 5})
	g1.Commit()

	if _, err := w.Reserve(6); err != ErrNoMore {
		t.Fatalf("second reserve err=%v, want ErrNoMore", err)
	}

	rg1, err := r.Reserve(4)
	if err != nil {
		t.Fatalf("reader reserve: %v", err)
	}
	got1 := make([]int, 4)
	rg1.Read(got1)
	rg1.Commit()
	for i, v := range got1 {
		if v != i {
			t.Fatalf("got1[%d]=%d", i, v)
		}
	}

	g2, err := w.Reserve(4)
	if err != nil {
		t.Fatalf("writer reserve after drain: %v", err)
	}
	g2.Write([]int{6, 7, 8, 9})
	g2.Commit()

	rg2, err := r.Reserve(6)
	if err != nil {
		t.Fatalf("final reader reserve: %v", err)
	}
	got2 := make([]int, 6)
	rg2.Read(got2)
	rg2.Commit()

	want := []int{4, 5, 6, 7, 8, 9}
	for i, v := range want {
		if got2[i] != v {
			t.Fatalf("got2[%d]=%d want=%d", i, got2[i], v)
		}
	}
}

func TestRingBufferSizePlusAvailableInvariant(t *testing.T) {
	w, r := NewRing[byte](63)
	written := byte(0)
	readOut := byte(0)
	rnd := rand.New(rand.NewPCG(1, 2))

	for i := 0; i < 500; i++ {
		if w.Available() > 0 {
			n := 1 + rnd.IntN(min(w.Available(), 5))
			buf := make([]byte, n)
			for j := range buf {
				buf[j] = written
				written++
			}
			g, err := w.Reserve(n)
			if err == nil {
				g.Write(buf)
				g.Commit()
			}
		}
		if r.Size() > 0 {
			n := 1 + rnd.IntN(min(r.Size(), 5))
			g, err := r.Reserve(n)
			if err == nil {
				out := make([]byte, n)
				g.Read(out)
				g.Commit()
				for _, b := range out {
					if b != readOut {
						t.Fatalf("out of order read: got %d want %d", b, readOut)
					}
					readOut++
				}
			}
		}
		if size, avail := r.Size(), w.Available(); size+avail != w.Capacity() {
			t.Fatalf("invariant broken: size=%d available=%d capacity=%d", size, avail, w.Capacity())
		}
	}
}

func TestDisconnectDetected(t *testing.T) {
	w, r := NewRing[byte](7)
	r.Close()
	_, err := w.Reserve(1)
	require.ErrorIs(t, err, ErrDisconnected)
}

func TestReserveExceedsCapacityFails(t *testing.T) {
	w, _ := NewRing[byte](7)
	_, err := w.Reserve(100)
	require.ErrorIs(t, err, ErrWouldNotFit)
}
