package ogg

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/haivivi/ogkaraoke/pkg/shiftbuffer"
)

const pageSourceChunk = 4096

// OggPageSource scans a byte stream for OGG pages, tolerating and
// resyncing past arbitrary garbage between valid pages.
type OggPageSource struct {
	r   io.Reader
	buf *shiftbuffer.Buffer
	eof bool
}

// NewOggPageSource creates a page source reading from r.
func NewOggPageSource(r io.Reader) *OggPageSource {
	return &OggPageSource{r: r, buf: shiftbuffer.New(1 << 16)}
}

func (s *OggPageSource) fill() error {
	if s.eof {
		return io.EOF
	}
	n, err := s.buf.Fill(s.r, pageSourceChunk)
	if n == 0 {
		s.eof = true
		if err == nil {
			return shiftbuffer.ErrShortRead
		}
		return err
	}
	if err == io.EOF {
		s.eof = true
	}
	return nil
}

// NextPage returns the next valid page, advancing past any
// intervening garbage or CRC-failed candidates. It returns io.EOF at
// a clean end of stream and io.ErrUnexpectedEOF when data is
// truncated mid-page.
func (s *OggPageSource) NextPage() (*Page, error) {
	for {
		window := s.buf.Slice(0, s.buf.Len())
		consumed, page, err := ParsePage(window)
		switch {
		case err == nil:
			s.buf.Consume(consumed)
			return page, nil
		case err == ErrNotAPage:
			s.buf.Consume(1)
			continue
		}

		if _, ok := err.(*ErrInsufficient); ok {
			if s.eof {
				if s.buf.Len() == 0 {
					return nil, io.EOF
				}
				return nil, io.ErrUnexpectedEOF
			}
			if ferr := s.fill(); ferr != nil && ferr != io.EOF {
				return nil, ferr
			}
			continue
		}
		return nil, err
	}
}

// FormatError is a recoverable stream-level format error (invalid or
// duplicate BOS, page for an unknown stream): the offending stream has
// been added to the discard set and demuxing may continue.
type FormatError struct {
	Serial uint32
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("ogg: stream %d: %s", e.Serial, e.Reason)
}

// Decoder is the capability interface a decode-side stream provides to
// the demux: granule mapping, header budget, and packet/header
// delivery.
type Decoder interface {
	MapGranule(granule uint64) uint64
	NumHeaders() int
	ProcessHeader(data []byte) error
	ProcessPacket(data []byte, hwm uint64) (uint64, error)
	NoticeGap()
	Finish() error
}

// StreamInitFunc inspects a stream's first (BOS) packet and decides
// whether to accept the stream, returning a Decoder if so.
type StreamInitFunc func(headerPacket []byte) (decoder Decoder, ok bool)

// StreamState is the per-stream demux bookkeeping: the decoder
// handle, the partial packet spanning pages, sequence tracking for gap
// detection, and the high-water granule.
type StreamState struct {
	serial           uint32
	decoder          Decoder
	partial          []byte
	lastSequence     uint32
	firstSequence    uint32
	finished         bool
	hwm              uint64
	headersDelivered int
}

// Finished reports whether the stream's EOS page has been processed.
func (st *StreamState) Finished() bool {
	return st.finished
}

// splitPacketsInPage walks a page's lacing table, returning the
// complete packet fragments it terminates and any trailing bytes left
// over if the page ends mid-packet (last segment == 255).
func splitPacketsInPage(page *Page) (packets [][]byte, trailing []byte) {
	offset := 0
	start := 0
	for _, seg := range page.Segments {
		offset += int(seg)
		if seg < 255 {
			packets = append(packets, page.Payload[start:offset])
			start = offset
		}
	}
	if start < len(page.Payload) {
		trailing = page.Payload[start:]
	}
	return packets, trailing
}

func (st *StreamState) processPage(page *Page) error {
	if page.Sequence != st.lastSequence+1 {
		st.partial = nil
		st.decoder.NoticeGap()
	}
	st.lastSequence = page.Sequence

	packets, trailing := splitPacketsInPage(page)
	if page.CTD() && len(st.partial) == 0 {
		// Continuation of a packet whose head was lost to a gap:
		// drop the orphaned tail rather than deliver it as a packet.
		if len(packets) > 0 {
			packets = packets[1:]
		} else {
			trailing = nil
		}
	}
	for i, frag := range packets {
		full := frag
		if len(st.partial) > 0 {
			full = append(st.partial, frag...)
			st.partial = nil
		}
		if st.headersDelivered < st.decoder.NumHeaders() {
			if err := st.decoder.ProcessHeader(full); err != nil {
				return err
			}
			st.headersDelivered++
		} else {
			// The page granule position belongs to the last packet the
			// page completes; earlier packets only know the running
			// high-water mark.
			hwm := st.hwm
			if i == len(packets)-1 {
				hwm = page.Granule
			}
			granule, err := st.decoder.ProcessPacket(full, hwm)
			if err != nil {
				slog.Warn("ogg: decoder error, skipping packet", "serial", st.serial, "err", err)
				st.hwm++
			} else {
				st.hwm = granule
			}
		}
	}
	if trailing != nil {
		st.partial = append(st.partial, trailing...)
	}
	if page.EOS() {
		if err := st.decoder.Finish(); err != nil {
			return err
		}
		st.finished = true
	}
	return nil
}

// StreamMapper dispatches pages by stream serial, handling BOS
// registration and per-stream reassembly.
type StreamMapper struct {
	initFn  StreamInitFunc
	states  map[uint32]*StreamState
	discard map[uint32]bool
}

// NewStreamMapper creates a mapper that uses initFn to accept or
// reject newly observed streams.
func NewStreamMapper(initFn StreamInitFunc) *StreamMapper {
	return &StreamMapper{
		initFn:  initFn,
		states:  make(map[uint32]*StreamState),
		discard: make(map[uint32]bool),
	}
}

// DiscardStream removes a stream from further consideration; used by
// the player to drop streams it did not select.
func (m *StreamMapper) DiscardStream(serial uint32) {
	m.discard[serial] = true
	delete(m.states, serial)
}

// AllHeadersRead reports whether every currently known stream has
// received its full header packet budget.
func (m *StreamMapper) AllHeadersRead() bool {
	if len(m.states) == 0 {
		return false
	}
	for _, st := range m.states {
		if st.headersDelivered < st.decoder.NumHeaders() {
			return false
		}
	}
	return true
}

// State returns the stream state for a serial, if known and not
// discarded.
func (m *StreamMapper) State(serial uint32) (*StreamState, bool) {
	st, ok := m.states[serial]
	return st, ok
}

// Decoders returns the decoder registered for every currently known
// (non-discarded) stream, keyed by serial. Used by consumers such as
// the player orchestrator that must pick among several discovered
// streams once BOS registration has settled.
func (m *StreamMapper) Decoders() map[uint32]Decoder {
	out := make(map[uint32]Decoder, len(m.states))
	for serial, st := range m.states {
		out[serial] = st.decoder
	}
	return out
}

// HandlePage dispatches one page to the appropriate per-stream state,
// registering new streams when a BOS page arrives.
func (m *StreamMapper) HandlePage(page *Page) error {
	if m.discard[page.Serial] {
		return nil
	}

	if page.BOS() {
		if _, exists := m.states[page.Serial]; exists {
			m.discard[page.Serial] = true
			delete(m.states, page.Serial)
			return &FormatError{Serial: page.Serial, Reason: "duplicate BOS"}
		}
		packets, trailing := splitPacketsInPage(page)
		if len(packets) == 0 || trailing != nil {
			m.discard[page.Serial] = true
			return &FormatError{Serial: page.Serial, Reason: "oversized initial header"}
		}
		decoder, ok := m.initFn(packets[0])
		if !ok {
			m.discard[page.Serial] = true
			return nil
		}
		st := &StreamState{
			serial:        page.Serial,
			decoder:       decoder,
			lastSequence:  page.Sequence,
			firstSequence: page.Sequence,
		}
		m.states[page.Serial] = st
		for i, frag := range packets[1:] {
			if st.headersDelivered < decoder.NumHeaders() {
				if err := decoder.ProcessHeader(frag); err != nil {
					return err
				}
				st.headersDelivered++
			} else {
				hwm := st.hwm
				if i == len(packets[1:])-1 {
					hwm = page.Granule
				}
				granule, err := decoder.ProcessPacket(frag, hwm)
				if err != nil {
					slog.Warn("ogg: decoder error, skipping packet", "serial", st.serial, "err", err)
					st.hwm++
				} else {
					st.hwm = granule
				}
			}
		}
		if page.EOS() {
			if err := decoder.Finish(); err != nil {
				return err
			}
			st.finished = true
		}
		return nil
	}

	st, ok := m.states[page.Serial]
	if !ok {
		m.discard[page.Serial] = true
		return &FormatError{Serial: page.Serial, Reason: "page for unknown stream"}
	}
	return st.processPage(page)
}

// Demux ties a page source to a stream mapper: repeatedly read pages
// and dispatch them.
type Demux struct {
	src    *OggPageSource
	Mapper *StreamMapper
}

// NewDemux creates a demuxer reading from r, using initFn to decide
// which streams to accept.
func NewDemux(r io.Reader, initFn StreamInitFunc) *Demux {
	return &Demux{
		src:    NewOggPageSource(r),
		Mapper: NewStreamMapper(initFn),
	}
}

// Pump reads and dispatches one page. It returns io.EOF at a clean
// end of stream.
func (d *Demux) Pump() error {
	page, err := d.src.NextPage()
	if err != nil {
		return err
	}
	return d.Mapper.HandlePage(page)
}

// PumpAll pumps pages until a clean end of stream, returning any
// fatal error encountered along the way. Recoverable format errors
// are logged; the offending stream is already discarded, so pumping
// continues past them.
func (d *Demux) PumpAll() error {
	for {
		err := d.Pump()
		if err == io.EOF {
			return nil
		}
		var fe *FormatError
		if errors.As(err, &fe) {
			slog.Debug("ogg: recoverable format error, stream discarded", "serial", fe.Serial, "reason", fe.Reason)
			continue
		}
		if err != nil {
			return err
		}
	}
}
