package shiftbuffer

import (
	"bytes"
	"io"
	"testing"
)

func TestBufferFillConsume(t *testing.T) {
	t.Run("basic fill and consume", func(t *testing.T) {
		b := New(4)
		r := bytes.NewReader([]byte("abcdefgh"))

		if err := b.FillTo(r, 4); err != nil {
			t.Fatalf("FillTo: %v", err)
		}
		if b.Len() != 4 {
			t.Fatalf("len=%d", b.Len())
		}
		got := b.Consume(2)
		if !bytes.Equal(got, []byte("ab")) {
			t.Fatalf("got=%q", got)
		}
		if b.Len() != 2 {
			t.Fatalf("len after consume=%d", b.Len())
		}
	})

	t.Run("compaction past maxBlock", func(t *testing.T) {
		b := New(2)
		r := bytes.NewReader([]byte("abcdefgh"))

		for i := 0; i < 4; i++ {
			if err := b.FillTo(r, 2); err != nil && err != io.EOF {
				t.Fatalf("FillTo: %v", err)
			}
			got := b.Consume(2)
			want := []byte("abcdefgh"[i*2 : i*2+2])
			if !bytes.Equal(got, want) {
				t.Fatalf("iteration %d: got=%q want=%q", i, got, want)
			}
		}
	})

	t.Run("EOF surfaces when target unreachable", func(t *testing.T) {
		b := New(8)
		r := bytes.NewReader([]byte("ab"))
		err := b.FillTo(r, 8)
		if err != io.EOF {
			t.Fatalf("err=%v, want io.EOF", err)
		}
		if b.Len() != 2 {
			t.Fatalf("len=%d", b.Len())
		}
	})

	t.Run("At and Slice do not advance head", func(t *testing.T) {
		b := New(8)
		r := bytes.NewReader([]byte("hello"))
		if err := b.FillTo(r, 5); err != nil {
			t.Fatalf("FillTo: %v", err)
		}
		if b.At(0) != 'h' || b.At(4) != 'o' {
			t.Fatalf("unexpected bytes")
		}
		if !bytes.Equal(b.Slice(1, 3), []byte("el")) {
			t.Fatalf("slice mismatch")
		}
		if b.Len() != 5 {
			t.Fatalf("len changed after At/Slice: %d", b.Len())
		}
	})

	t.Run("fill past capacity panics", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Fatalf("expected panic")
			}
		}()
		b := New(2)
		r := bytes.NewReader([]byte("abcdefgh"))
		b.FillTo(r, 5) // storage is fixed at 2*maxBlock = 4 bytes
	})

	t.Run("consume past len panics", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Fatalf("expected panic")
			}
		}()
		b := New(4)
		b.Consume(1)
	})
}
