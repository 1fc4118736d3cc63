package ogg

import (
	"bytes"
	"testing"
)

func TestPageRoundTrip(t *testing.T) {
	t.Run("simple page", func(t *testing.T) {
		p := &Page{
			Flags:    FlagBOS,
			Granule:  12345,
			Serial:   0xdeadbeef,
			Sequence: 1,
			Segments: []byte{10},
			Payload:  bytes.Repeat([]byte{0x42}, 10),
		}
		buf := p.Marshal()
		consumed, parsed, err := ParsePage(buf)
		if err != nil {
			t.Fatalf("ParsePage: %v", err)
		}
		if consumed != len(buf) {
			t.Fatalf("consumed=%d, want %d", consumed, len(buf))
		}
		if parsed.Granule != p.Granule || parsed.Serial != p.Serial || parsed.Sequence != p.Sequence {
			t.Fatalf("fields mismatch: %+v", parsed)
		}
		if !parsed.BOS() {
			t.Fatalf("expected BOS flag")
		}
		if !bytes.Equal(parsed.Payload, p.Payload) {
			t.Fatalf("payload mismatch")
		}
	})

	t.Run("empty payload page", func(t *testing.T) {
		p := &Page{Segments: nil, Payload: nil}
		buf := p.Marshal()
		consumed, parsed, err := ParsePage(buf)
		if err != nil {
			t.Fatalf("ParsePage: %v", err)
		}
		if consumed != headerFixedLen {
			t.Fatalf("consumed=%d", consumed)
		}
		if len(parsed.Payload) != 0 {
			t.Fatalf("expected empty payload")
		}
	})
}

func TestPageParseInsufficient(t *testing.T) {
	p := &Page{Segments: []byte{5}, Payload: []byte{1, 2, 3, 4, 5}}
	buf := p.Marshal()

	for cut := 0; cut < len(buf); cut++ {
		_, _, err := ParsePage(buf[:cut])
		if _, ok := err.(*ErrInsufficient); !ok {
			t.Fatalf("cut=%d: got err=%v, want *ErrInsufficient", cut, err)
		}
	}
}

func TestPageParseNotAPage(t *testing.T) {
	t.Run("bad capture pattern", func(t *testing.T) {
		_, _, err := ParsePage([]byte("garbage!"))
		if err != ErrNotAPage {
			t.Fatalf("err=%v, want ErrNotAPage", err)
		}
	})

	t.Run("corrupted CRC", func(t *testing.T) {
		p := &Page{Segments: []byte{3}, Payload: []byte{1, 2, 3}}
		buf := p.Marshal()
		buf[len(buf)-1] ^= 0xFF // corrupt payload after CRC computed
		_, _, err := ParsePage(buf)
		if err != ErrNotAPage {
			t.Fatalf("err=%v, want ErrNotAPage", err)
		}
	})
}

func TestPageScanResync(t *testing.T) {
	p1 := &Page{Segments: []byte{2}, Payload: []byte{1, 2}}
	p2 := &Page{Segments: []byte{2}, Payload: []byte{3, 4}}
	garbage := []byte("xxxxx")

	var stream []byte
	stream = append(stream, garbage...)
	stream = append(stream, p1.Marshal()...)
	stream = append(stream, p2.Marshal()...)

	offset := 0
	var pages []*Page
	for offset < len(stream) {
		consumed, page, err := ParsePage(stream[offset:])
		switch {
		case err == nil:
			pages = append(pages, page)
			offset += consumed
		case err == ErrNotAPage:
			offset++
		default:
			if _, ok := err.(*ErrInsufficient); ok {
				break
			}
			t.Fatalf("unexpected err: %v", err)
		}
		if _, ok := err.(*ErrInsufficient); ok {
			break
		}
	}
	if len(pages) != 2 {
		t.Fatalf("got %d pages, want 2", len(pages))
	}
	if !bytes.Equal(pages[0].Payload, p1.Payload) || !bytes.Equal(pages[1].Payload, p2.Payload) {
		t.Fatalf("payload mismatch after resync")
	}
}
