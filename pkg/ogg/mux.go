package ogg

import (
	"io"
	"math/rand/v2"
)

// Coder is the capability interface an encoder-side stream provides to
// the Mux: its fixed headers, successive data frames, and a mapping
// from its granule position to microseconds for interleave ordering.
type Coder interface {
	Headers() [][]byte
	NextFrame() (*Packet, bool)
	MapGranule(granule uint64) uint64
}

type muxStream struct {
	serial         uint32
	coder          Coder
	packer         *PagePacker
	pendingHeaders [][]byte
	finished       bool
	hasPending     bool
	mappedGranule  uint64
}

// Mux interleaves multiple coder streams into one OGG byte stream by
// monotone mapped-granule order.
type Mux struct {
	streams []*muxStream
}

// NewMux creates an empty multiplexer.
func NewMux() *Mux {
	return &Mux{}
}

// AddStream registers a coder under a fresh random stream serial and
// returns that serial.
func (m *Mux) AddStream(coder Coder) uint32 {
	serial := rand.Uint32()
	ms := &muxStream{
		serial: serial,
		coder:  coder,
		packer: NewPagePacker(serial),
	}
	m.streams = append(m.streams, ms)
	return serial
}

func writePages(w io.Writer, pk *PagePacker) error {
	for _, p := range pk.Pages() {
		if _, err := w.Write(p.Marshal()); err != nil {
			return err
		}
	}
	return nil
}

// WriteTo writes the complete muxed byte stream to w.
func (m *Mux) WriteTo(w io.Writer) error {
	// Step 1: one BOS page per stream, grouped at file start in
	// stream-add order.
	for _, s := range m.streams {
		headers := s.coder.Headers()
		if len(headers) == 0 {
			s.finished = true
			continue
		}
		s.packer.MarkNextBOS()
		s.packer.AddPacket(Packet{Content: headers[0]})
		s.packer.Flush()
		if err := writePages(w, s.packer); err != nil {
			return err
		}
		s.pendingHeaders = headers[1:]
	}

	// Step 2: remaining header packets, each force-flushed.
	for _, s := range m.streams {
		if s.finished {
			continue
		}
		for _, h := range s.pendingHeaders {
			s.packer.AddPacket(Packet{Content: h})
			s.packer.Flush()
		}
		if err := writePages(w, s.packer); err != nil {
			return err
		}
	}

	// Step 3: prime one data frame per stream.
	for _, s := range m.streams {
		m.pump(s)
	}

	// Step 4: interleave by lowest mapped granule until all streams finish.
	for {
		var best *muxStream
		for _, s := range m.streams {
			if !s.hasPending {
				continue
			}
			if best == nil || s.mappedGranule < best.mappedGranule {
				best = s
			}
		}
		if best == nil {
			break
		}
		if err := writePages(w, best.packer); err != nil {
			return err
		}
		best.hasPending = false
		if !best.finished {
			m.pump(best)
		}
	}
	return nil
}

func (m *Mux) pump(s *muxStream) {
	if s.finished {
		return
	}
	frame, ok := s.coder.NextFrame()
	if !ok {
		s.packer.Close()
		s.finished = true
		s.hasPending = s.packer.HasPending()
		return
	}
	s.mappedGranule = s.coder.MapGranule(frame.Timestamp)
	s.packer.AddPacket(*frame)
	s.packer.Flush()
	s.hasPending = true
}
