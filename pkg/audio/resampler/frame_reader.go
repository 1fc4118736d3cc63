package resampler

import "io"

// frameReader aligns reads from an arbitrary io.Reader to whole
// stereo frames, carrying up to frameBytes-1 bytes of a torn frame
// between calls.
type frameReader struct {
	r        io.Reader
	rem      [frameBytes - 1]byte
	buffered int
}

func newFrameReader(r io.Reader) *frameReader {
	return &frameReader{r: r}
}

// Read returns a whole number of frames, or io.ErrShortBuffer if p
// cannot hold one. A stream ending mid-frame surfaces as
// io.ErrUnexpectedEOF.
func (fr *frameReader) Read(p []byte) (int, error) {
	if len(p) < frameBytes {
		return 0, io.ErrShortBuffer
	}
	p = p[:len(p)/frameBytes*frameBytes]

	n := copy(p, fr.rem[:fr.buffered])
	fr.buffered = 0

	rn, err := fr.r.Read(p[n:])
	n += rn
	if err != nil {
		if err == io.EOF && n%frameBytes != 0 {
			return n - n%frameBytes, io.ErrUnexpectedEOF
		}
		return n, err
	}
	if mod := n % frameBytes; mod != 0 {
		n -= mod
		copy(fr.rem[:mod], p[n:n+mod])
		fr.buffered = mod
	}
	return n, nil
}
