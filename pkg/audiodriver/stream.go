package audiodriver

import "github.com/haivivi/ogkaraoke/pkg/ring"

// RingStreamReader adapts a *ring.Reader[Sample] to StreamReader,
// letting the backend pull decoded PCM out of a lock-free queue fed
// by the decode thread. It never blocks: if fewer samples are
// available than requested, it returns what it has.
type RingStreamReader struct {
	r      *ring.Reader[Sample]
	closed bool
}

// NewRingStreamReader wraps r.
func NewRingStreamReader(r *ring.Reader[Sample]) *RingStreamReader {
	return &RingStreamReader{r: r}
}

// Next implements StreamReader.
func (s *RingStreamReader) Next(dst []Sample) (int, bool) {
	if s.closed {
		return 0, true
	}

	n := s.r.Size()
	if n == 0 {
		if _, err := s.r.Reserve(1); err == ring.ErrDisconnected {
			s.closed = true
			return 0, true
		}
		return 0, false
	}
	if n > len(dst) {
		n = len(dst)
	}

	g, err := s.r.Reserve(n)
	if err != nil {
		if err == ring.ErrDisconnected {
			s.closed = true
			return 0, true
		}
		return 0, false
	}
	g.Read(dst[:n])
	g.Commit()
	return n, false
}
