package cdgstream

import (
	"testing"

	"github.com/haivivi/ogkaraoke/pkg/cdg"
)

func memoryPresetSector(color uint8) []byte {
	sector := make([]byte, sectorLen)
	for i := 0; i < sectorLen; i += 24 {
		block := sector[i : i+24]
		block[0] = 9
		block[1] = 1 // MemoryPreset
		block[4] = color & 0xF
		block[5] = 0 // repeat 0
	}
	return sector
}

func TestHeaderRoundTrip(t *testing.T) {
	hdr := Header{PacketSize: 50}
	parsed, err := ParseHeader(hdr.Marshal())
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}
	if parsed.PacketSize != 50 {
		t.Fatalf("PacketSize = %d, want 50", parsed.PacketSize)
	}
}

func TestHeaderDefaultPacketSize(t *testing.T) {
	hdr, err := ParseHeader(Header{}.Marshal())
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}
	if hdr.PacketSize != DefaultPacketSize {
		t.Fatalf("PacketSize = %d, want %d", hdr.PacketSize, DefaultPacketSize)
	}
}

func TestPacketRoundTrip(t *testing.T) {
	sectors := append(memoryPresetSector(5), memoryPresetSector(2)...)
	packed, err := packPacket(sectors)
	if err != nil {
		t.Fatalf("packPacket: %v", err)
	}
	raw, err := unpackPacket(packed)
	if err != nil {
		t.Fatalf("unpackPacket: %v", err)
	}
	if string(raw) != string(sectors) {
		t.Fatalf("round trip mismatch")
	}
}

func TestDecoderDrainUpTo(t *testing.T) {
	hdr := Header{PacketSize: DefaultPacketSize}
	enc, ok := NewEncoder(hdr, append(memoryPresetSector(5), memoryPresetSector(2)...))
	if !ok {
		t.Fatal("NewEncoder failed")
	}
	frame, ok := enc.NextFrame()
	if !ok {
		t.Fatal("NextFrame returned no frame")
	}

	dec := NewDecoder(hdr)
	granule, err := dec.ProcessPacket(frame.Content, 0)
	if err != nil {
		t.Fatalf("ProcessPacket: %v", err)
	}
	if granule>>32 != 2 {
		t.Fatalf("frame count = %d, want 2", granule>>32)
	}

	it := cdg.NewInterpreter()
	// First sector's commands are due at frame 1: (1*1e6)/75 us.
	dueAt := hdr.MapGranule(granuleFrame(1, 0))
	dec.DrainUpTo(it, dueAt)
	if dec.Pending() != 1 {
		t.Fatalf("Pending() = %d, want 1 after draining the first sector", dec.Pending())
	}

	dec.DrainUpTo(it, hdr.MapGranule(granuleFrame(2, 0)))
	if dec.Pending() != 0 {
		t.Fatalf("Pending() = %d, want 0 after draining both sectors", dec.Pending())
	}
}

func TestIdentifyRejectsWrongMagic(t *testing.T) {
	if _, ok := Identify(make([]byte, HeaderLen)); ok {
		t.Fatal("Identify accepted a non-OgkCDG header")
	}
}
