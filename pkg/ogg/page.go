// Package ogg implements the OGG container framing this pipeline rides
// on: page parsing/emission with CRC-32 validation, lacing-based packet
// reassembly, and multi-stream mux/demux. The bit layout matches
// RFC 3533.
package ogg

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Page header flags.
const (
	FlagCTD uint8 = 1 << 0 // continuation of a packet spanning pages
	FlagBOS uint8 = 1 << 1 // beginning of stream
	FlagEOS uint8 = 1 << 2 // end of stream
)

var capturePattern = [5]byte{'O', 'g', 'g', 'S', 0}

const headerFixedLen = 27 // capture(5) + flags(1) + granule(8) + serial(4) + sequence(4) + crc(4) + segcount(1)

// ErrNotAPage is returned by ParsePage when data does not begin with
// the OGG capture pattern or fails CRC validation; the caller should
// advance by one byte and rescan.
var ErrNotAPage = errors.New("ogg: not a page at this offset")

// ErrInsufficient is returned when ParsePage needs more bytes than
// data currently holds to decide whether a full page is present.
type ErrInsufficient struct {
	Need int
}

func (e *ErrInsufficient) Error() string {
	return fmt.Sprintf("ogg: insufficient data, need %d more bytes", e.Need)
}

// Page is one parsed OGG page.
type Page struct {
	Flags    uint8
	Granule  uint64
	Serial   uint32
	Sequence uint32
	Segments []byte // lacing table, length <= 255, each entry 0..=255
	Payload  []byte
}

// CTD reports whether this page continues a packet from a prior page.
func (p *Page) CTD() bool { return p.Flags&FlagCTD != 0 }

// BOS reports whether this page begins a stream.
func (p *Page) BOS() bool { return p.Flags&FlagBOS != 0 }

// EOS reports whether this page ends a stream.
func (p *Page) EOS() bool { return p.Flags&FlagEOS != 0 }

// ParsePage attempts to parse one page from the start of data.
//
// It returns (consumed, page, nil) on success, where consumed is the
// number of bytes the caller should advance past. It returns
// (0, nil, ErrNotAPage) if the capture pattern doesn't match here or
// the CRC fails to validate, and (0, nil, *ErrInsufficient) if more
// bytes are needed before a decision can be made.
func ParsePage(data []byte) (consumed int, page *Page, err error) {
	if len(data) < 5 {
		return 0, nil, &ErrInsufficient{Need: 5 - len(data)}
	}
	for i := range capturePattern {
		if data[i] != capturePattern[i] {
			return 0, nil, ErrNotAPage
		}
	}
	if len(data) < headerFixedLen {
		return 0, nil, &ErrInsufficient{Need: headerFixedLen - len(data)}
	}

	flags := data[5]
	granule := binary.LittleEndian.Uint64(data[6:14])
	serial := binary.LittleEndian.Uint32(data[14:18])
	sequence := binary.LittleEndian.Uint32(data[18:22])
	crcField := binary.LittleEndian.Uint32(data[22:26])
	segCount := int(data[26])

	lacingEnd := headerFixedLen + segCount
	if len(data) < lacingEnd {
		return 0, nil, &ErrInsufficient{Need: lacingEnd - len(data)}
	}
	segments := data[headerFixedLen:lacingEnd]

	payloadLen := 0
	for _, s := range segments {
		payloadLen += int(s)
	}
	total := lacingEnd + payloadLen
	if len(data) < total {
		return 0, nil, &ErrInsufficient{Need: total - len(data)}
	}

	image := make([]byte, total)
	copy(image, data[:total])
	// zero the CRC field before computing
	image[22], image[23], image[24], image[25] = 0, 0, 0, 0
	if CRC32(image) != crcField {
		return 0, nil, ErrNotAPage
	}

	page = &Page{
		Flags:    flags,
		Granule:  granule,
		Serial:   serial,
		Sequence: sequence,
		Segments: append([]byte(nil), segments...),
		Payload:  image[lacingEnd:total],
	}
	return total, page, nil
}

// Marshal serializes the page, computing and patching the CRC.
func (p *Page) Marshal() []byte {
	total := headerFixedLen + len(p.Segments) + len(p.Payload)
	buf := make([]byte, total)
	copy(buf[0:5], capturePattern[:])
	buf[5] = p.Flags
	binary.LittleEndian.PutUint64(buf[6:14], p.Granule)
	binary.LittleEndian.PutUint32(buf[14:18], p.Serial)
	binary.LittleEndian.PutUint32(buf[18:22], p.Sequence)
	// CRC field buf[22:26] left zero for the checksum pass.
	buf[26] = byte(len(p.Segments))
	copy(buf[27:27+len(p.Segments)], p.Segments)
	copy(buf[27+len(p.Segments):], p.Payload)

	crc := CRC32(buf)
	binary.LittleEndian.PutUint32(buf[22:26], crc)
	return buf
}
