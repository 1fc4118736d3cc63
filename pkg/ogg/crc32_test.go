package ogg

import "testing"

func TestCRC32KnownZero(t *testing.T) {
	if got := CRC32(nil); got != 0 {
		t.Fatalf("CRC32(nil)=%x, want 0", got)
	}
}

func TestCRC32Deterministic(t *testing.T) {
	data := []byte("the quick brown fox jumps over the lazy dog")
	a := CRC32(data)
	b := CRC32(append([]byte(nil), data...))
	if a != b {
		t.Fatalf("CRC32 not deterministic: %x != %x", a, b)
	}
	if a == 0 {
		t.Fatalf("CRC32 of non-empty data should not be zero")
	}
}

func TestCRC32SensitiveToSingleBitFlip(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04}
	flipped := []byte{0x01, 0x02, 0x03, 0x05}
	if CRC32(data) == CRC32(flipped) {
		t.Fatalf("expected different checksums for different inputs")
	}
}
