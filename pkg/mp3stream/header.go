package mp3stream

import (
	"encoding/binary"
	"fmt"
)

// HeaderLen is the fixed size of the OgkMP3 substream header.
const HeaderLen = 24

var magic = [8]byte{'O', 'g', 'g', 'M', 'P', '3', 0, 0}

// flagNonStereo distinguishes stereo (flags 0) from non-stereo
// (flags 2) channel modes. The bit is named for the non-stereo case
// since that's the set bit.
const flagNonStereo = 0x02

// Header is the OgkMP3 stream-start header.
type Header struct {
	Stereo          bool
	Pseudoheader    [4]byte
	SampleFrequency uint32
	SamplesPerFrame uint32
}

// Marshal encodes h as the 24-byte OgkMP3 header.
func (h Header) Marshal() []byte {
	buf := make([]byte, HeaderLen)
	copy(buf[0:8], magic[:])
	flags := byte(0)
	if !h.Stereo {
		flags = flagNonStereo
	}
	buf[10] = flags
	copy(buf[12:16], h.Pseudoheader[:])
	binary.LittleEndian.PutUint32(buf[16:20], h.SampleFrequency)
	binary.LittleEndian.PutUint32(buf[20:24], h.SamplesPerFrame)
	return buf
}

// ParseHeader decodes an OgkMP3 header, validating the magic prefix.
func ParseHeader(data []byte) (Header, error) {
	if len(data) < HeaderLen {
		return Header{}, fmt.Errorf("mp3stream: header too short: %d bytes", len(data))
	}
	if string(data[0:8]) != string(magic[:]) {
		return Header{}, fmt.Errorf("mp3stream: bad magic %q", data[0:8])
	}
	var h Header
	h.Stereo = data[10]&flagNonStereo == 0
	copy(h.Pseudoheader[:], data[12:16])
	h.SampleFrequency = binary.LittleEndian.Uint32(data[16:20])
	h.SamplesPerFrame = binary.LittleEndian.Uint32(data[20:24])
	return h, nil
}

// MapGranule converts a cumulative-sample-count granule to
// microseconds.
func (h Header) MapGranule(granule uint64) uint64 {
	if h.SampleFrequency == 0 {
		return 0
	}
	return granule * 1_000_000 / uint64(h.SampleFrequency)
}
