package resampler

import (
	"bytes"
	"io"
	"testing"
)

func stereoFrames(samples ...int16) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		out[i*2] = byte(s)
		out[i*2+1] = byte(s >> 8)
	}
	return out
}

func TestFrameReaderExactMultiple(t *testing.T) {
	data := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	fr := newFrameReader(bytes.NewReader(data))

	buf := make([]byte, 8)
	n, err := fr.Read(buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if n != 8 || !bytes.Equal(buf[:n], data) {
		t.Fatalf("got n=%d %v", n, buf[:n])
	}
}

func TestFrameReaderCarriesTornFrame(t *testing.T) {
	// 6 bytes: one whole frame plus half of the next.
	data := []byte{1, 2, 3, 4, 5, 6}
	fr := newFrameReader(&oneByteAtATime{data: data})

	buf := make([]byte, 8)
	got := []byte{}
	for {
		n, err := fr.Read(buf)
		got = append(got, buf[:n]...)
		if err != nil {
			if err != io.ErrUnexpectedEOF {
				t.Fatalf("err=%v, want io.ErrUnexpectedEOF for the torn tail", err)
			}
			break
		}
	}
	if !bytes.Equal(got, data[:4]) {
		t.Fatalf("got %v, want the whole frames %v", got, data[:4])
	}
}

func TestFrameReaderShortBuffer(t *testing.T) {
	fr := newFrameReader(bytes.NewReader([]byte{1, 2, 3, 4}))
	if _, err := fr.Read(make([]byte, 3)); err != io.ErrShortBuffer {
		t.Fatalf("err=%v, want io.ErrShortBuffer", err)
	}
}

// oneByteAtATime forces frameReader to see torn frames.
type oneByteAtATime struct {
	data []byte
	off  int
}

func (r *oneByteAtATime) Read(p []byte) (int, error) {
	if r.off >= len(r.data) {
		return 0, io.EOF
	}
	p[0] = r.data[r.off]
	r.off++
	return 1, nil
}

func TestResamplerPassthroughWhenRatesMatch(t *testing.T) {
	src := stereoFrames(100, -100, 2000, -2000)
	r, err := New(bytes.NewReader(src), 48000, 48000)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer r.Close()

	buf := make([]byte, len(src))
	n, err := r.Read(buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !bytes.Equal(buf[:n], src) {
		t.Fatalf("passthrough altered samples: %v", buf[:n])
	}

	if _, err := r.Read(buf); err != io.EOF {
		t.Fatalf("err=%v, want io.EOF at end of stream", err)
	}
}

func TestResamplerReadTruncatesToWholeFrames(t *testing.T) {
	src := stereoFrames(1, 2, 3, 4)
	r, err := New(bytes.NewReader(src), 48000, 48000)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer r.Close()

	buf := make([]byte, 6) // room for one frame and a torn half
	n, err := r.Read(buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if n != 4 {
		t.Fatalf("n=%d, want one whole frame (4 bytes)", n)
	}
}

func TestResamplerReadAfterClose(t *testing.T) {
	r, err := New(bytes.NewReader(nil), 44100, 48000)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	r.Close()
	if _, err := r.Read(make([]byte, 8)); err == nil {
		t.Fatalf("expected error reading a closed resampler")
	}
}
