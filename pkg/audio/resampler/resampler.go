package resampler

import (
	"fmt"
	"io"
	"sync"

	resampling "github.com/tphakala/go-audio-resampling"
)

const (
	channels = 2

	// frameBytes is one interleaved stereo frame of 16-bit samples:
	// everything this package moves is stereo PCM.
	frameBytes = 2 * channels
)

// Resampler converts a stream of interleaved little-endian 16-bit
// stereo PCM from one sample rate to another. When the rates already
// match it degenerates to a frame-aligned pass-through.
//
// The resampler must be closed with Close (or CloseWithError) to
// release resources.
type Resampler struct {
	src     io.Reader
	inRate  int
	outRate int

	mu       sync.Mutex
	conv     resampling.Resampler // nil when inRate == outRate
	readBuf  []byte
	leftover []byte
	closeErr error
}

// New creates a Resampler reading stereo PCM at inRate frames per
// second from src and producing stereo PCM at outRate.
func New(src io.Reader, inRate, outRate int) (*Resampler, error) {
	r := &Resampler{
		src:     newFrameReader(src),
		inRate:  inRate,
		outRate: outRate,
	}
	if inRate != outRate {
		conv, err := resampling.New(&resampling.Config{
			InputRate:  float64(inRate),
			OutputRate: float64(outRate),
			Channels:   channels,
			Quality:    resampling.QualitySpec{Preset: resampling.QualityHigh},
		})
		if err != nil {
			return nil, fmt.Errorf("resampler: %w", err)
		}
		r.conv = conv
	}
	return r, nil
}

// Read copies converted PCM into p, always a whole number of stereo
// frames. It returns io.ErrShortBuffer if p cannot hold even one
// frame. Not safe for concurrent use.
func (r *Resampler) Read(p []byte) (int, error) {
	if len(p) < frameBytes {
		return 0, io.ErrShortBuffer
	}
	p = p[:len(p)/frameBytes*frameBytes]

	r.mu.Lock()
	defer r.mu.Unlock()

	// Serve output left over from a previous conversion first.
	if len(r.leftover) > 0 {
		n := copy(p, r.leftover)
		r.leftover = r.leftover[n:]
		return n, nil
	}
	if r.closeErr != nil {
		return 0, r.closeErr
	}
	if r.conv == nil {
		return r.src.Read(p)
	}
	return r.convert(p)
}

func (r *Resampler) convert(p []byte) (int, error) {
	// Pull roughly enough source frames to fill p after the rate
	// change, padded by a few frames so a short conversion still
	// makes progress.
	want := (len(p)*r.inRate/r.outRate + 4*frameBytes) / frameBytes * frameBytes
	if cap(r.readBuf) < want {
		r.readBuf = make([]byte, want)
	}
	rn, readErr := r.src.Read(r.readBuf[:want])
	if rn == 0 {
		if readErr != nil {
			return 0, readErr
		}
		return 0, io.EOF
	}

	input := make([]float64, rn/2)
	for i := range input {
		s := int16(uint16(r.readBuf[i*2]) | uint16(r.readBuf[i*2+1])<<8)
		input[i] = float64(s) / 32768.0
	}
	output, err := r.conv.Process(input)
	if err != nil {
		return 0, fmt.Errorf("resampler: %w", err)
	}
	if len(output) == 0 {
		return 0, readErr
	}

	out := make([]byte, len(output)/channels*frameBytes)
	for i := 0; i < len(out)/2; i++ {
		s := output[i]
		v := int16(s * 32767.0)
		if s > 1.0 {
			v = 32767
		} else if s < -1.0 {
			v = -32768
		}
		out[i*2] = byte(v)
		out[i*2+1] = byte(v >> 8)
	}

	n := copy(p, out)
	if n < len(out) {
		r.leftover = append(r.leftover, out[n:]...)
	}
	return n, readErr
}

// Close releases resources. Subsequent Read calls fail with
// io.ErrClosedPipe once any leftover output has been served.
func (r *Resampler) Close() error {
	return r.CloseWithError(fmt.Errorf("resampler: %w", io.ErrClosedPipe))
}

// CloseWithError releases resources with a caller-supplied error for
// subsequent Read calls to return.
func (r *Resampler) CloseWithError(err error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closeErr == nil {
		r.closeErr = err
	}
	r.conv = nil
	return nil
}
