package mp3stream

import "github.com/haivivi/ogkaraoke/pkg/ogg"

// Encoder implements ogg.Coder for muxing a raw MP3 byte stream into
// an OgkMP3 substream: one packet per MP3 frame, preceded by the
// 24-byte header as the sole BOS header packet.
type Encoder struct {
	hdr    Header
	frames [][]byte
	idx    int
	sample uint64
}

// NewEncoder scans raw for MP3 frames and builds an Encoder for them,
// deriving the header's sample frequency, pseudoheader and stereo
// flag from the first recognized frame. Unrecognized trailing bytes
// are dropped.
func NewEncoder(raw []byte) (*Encoder, bool) {
	frames, _ := SplitFrames(raw)
	if len(frames) == 0 {
		return nil, false
	}
	first, ok := parseFrameHeader(frames[0])
	if !ok {
		return nil, false
	}
	hdr := Header{
		Stereo:          first.stereo,
		SampleFrequency: uint32(first.sampleRate),
		SamplesPerFrame: uint32(first.samplesPerFrame),
	}
	copy(hdr.Pseudoheader[:], frames[0][:4])
	return &Encoder{hdr: hdr, frames: frames}, true
}

// Headers implements ogg.Coder.
func (e *Encoder) Headers() [][]byte {
	return [][]byte{e.hdr.Marshal()}
}

// MapGranule implements ogg.Coder.
func (e *Encoder) MapGranule(granule uint64) uint64 {
	return e.hdr.MapGranule(granule)
}

// NextFrame implements ogg.Coder, yielding one OGG packet per MP3
// frame with the cumulative sample count as its granule.
func (e *Encoder) NextFrame() (*ogg.Packet, bool) {
	if e.idx >= len(e.frames) {
		return nil, false
	}
	frame := e.frames[e.idx]
	e.idx++
	e.sample += uint64(e.hdr.SamplesPerFrame)
	return &ogg.Packet{Content: frame, Timestamp: e.sample}, true
}
