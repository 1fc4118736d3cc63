package cdgstream

import "github.com/haivivi/ogkaraoke/pkg/ogg"

// Encoder implements ogg.Coder for muxing a raw stream of 96-byte
// CD+G sectors into an OgkCDG substream: one packet per PacketSize
// sectors, preceded by the 14-byte header as the sole BOS header
// packet.
type Encoder struct {
	hdr     Header
	sectors []byte
	off     int
	frame   uint64
}

// NewEncoder creates an Encoder for raw, a sequence of 96-byte
// sectors, using hdr's packet size (defaulting to DefaultPacketSize
// when zero).
func NewEncoder(hdr Header, raw []byte) (*Encoder, bool) {
	if len(raw)%sectorLen != 0 || len(raw) == 0 {
		return nil, false
	}
	if hdr.PacketSize == 0 {
		hdr.PacketSize = DefaultPacketSize
	}
	return &Encoder{hdr: hdr, sectors: raw}, true
}

// Headers implements ogg.Coder.
func (e *Encoder) Headers() [][]byte {
	return [][]byte{e.hdr.Marshal()}
}

// MapGranule implements ogg.Coder.
func (e *Encoder) MapGranule(granule uint64) uint64 {
	return e.hdr.MapGranule(granule)
}

// NextFrame implements ogg.Coder, yielding one OGG packet per
// PacketSize sectors (the final packet may carry fewer).
func (e *Encoder) NextFrame() (*ogg.Packet, bool) {
	if e.off >= len(e.sectors) {
		return nil, false
	}
	remaining := (len(e.sectors) - e.off) / sectorLen
	n := int(e.hdr.PacketSize)
	if n > remaining {
		n = remaining
	}
	chunk := e.sectors[e.off : e.off+n*sectorLen]
	e.off += n * sectorLen
	e.frame += uint64(n)

	content, err := packPacket(chunk)
	if err != nil {
		return nil, false
	}
	return &ogg.Packet{Content: content, Timestamp: granuleFrame(e.frame, 0)}, true
}
