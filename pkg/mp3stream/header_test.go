package mp3stream

import "testing"

func TestHeaderRoundTrip(t *testing.T) {
	h := Header{
		Stereo:          true,
		Pseudoheader:    [4]byte{0xFF, 0xFB, 0x90, 0x44},
		SampleFrequency: 44100,
		SamplesPerFrame: 1152,
	}
	buf := h.Marshal()
	if len(buf) != HeaderLen {
		t.Fatalf("len=%d want %d", len(buf), HeaderLen)
	}
	got, err := ParseHeader(buf)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got != h {
		t.Fatalf("got %+v want %+v", got, h)
	}
}

func TestHeaderNonStereoFlag(t *testing.T) {
	h := Header{Stereo: false, SampleFrequency: 22050, SamplesPerFrame: 1152}
	buf := h.Marshal()
	if buf[10] != flagNonStereo {
		t.Fatalf("flags byte=%#x want %#x", buf[10], flagNonStereo)
	}
	got, err := ParseHeader(buf)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got.Stereo {
		t.Fatalf("expected non-stereo round trip")
	}
}

func TestParseHeaderRejectsBadMagic(t *testing.T) {
	buf := make([]byte, HeaderLen)
	copy(buf, "NotOggMP")
	if _, err := ParseHeader(buf); err == nil {
		t.Fatalf("expected error for bad magic")
	}
}

func TestMapGranule(t *testing.T) {
	h := Header{SampleFrequency: 44100}
	got := h.MapGranule(44100)
	if got != 1_000_000 {
		t.Fatalf("map_granule(44100)=%d want 1000000", got)
	}
}
