package cdgstream

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"
)

const sectorLen = 96

// packPacket serializes a run of raw 96-byte sectors into one OgkCDG
// data packet: a 2-byte prefix (0, sector count) followed by
// LZ4-compressed sector bytes, level 9, no content checksum.
func packPacket(sectors []byte) ([]byte, error) {
	count := len(sectors) / sectorLen
	if count == 0 || count > 255 {
		return nil, fmt.Errorf("cdgstream: packet must carry 1..255 sectors, got %d", count)
	}

	var compressed bytes.Buffer
	zw := lz4.NewWriter(&compressed)
	if err := zw.Apply(lz4.CompressionLevelOption(lz4.Level9), lz4.ChecksumOption(false)); err != nil {
		return nil, fmt.Errorf("cdgstream: configure lz4 writer: %w", err)
	}
	if _, err := zw.Write(sectors); err != nil {
		return nil, fmt.Errorf("cdgstream: compress sectors: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("cdgstream: close lz4 writer: %w", err)
	}

	out := make([]byte, 2, 2+compressed.Len())
	out[0] = 0
	out[1] = byte(count)
	out = append(out, compressed.Bytes()...)
	return out, nil
}

// unpackPacket reverses packPacket, returning the raw sector bytes.
func unpackPacket(data []byte) ([]byte, error) {
	if len(data) < 2 {
		return nil, fmt.Errorf("cdgstream: packet too short: %d bytes", len(data))
	}
	count := int(data[1])
	if count == 0 {
		return nil, fmt.Errorf("cdgstream: packet carries zero sectors")
	}

	raw := make([]byte, count*sectorLen)
	zr := lz4.NewReader(bytes.NewReader(data[2:]))
	if _, err := io.ReadFull(zr, raw); err != nil {
		return nil, fmt.Errorf("cdgstream: decompress sectors: %w", err)
	}
	return raw, nil
}
