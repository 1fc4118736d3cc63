package ogg

// PagePacker is a per-stream page builder: it packs variable-length
// packets into pages with lacing segments of at most 255 entries per
// page, spilling a continued packet onto a new PAGE_CTD page when the
// segment table fills before the packet terminates.
type PagePacker struct {
	serial    uint32
	sequence  uint32
	active    *Page
	completed []*Page
	nextBOS   bool
	closed    bool
}

// NewPagePacker creates a packer for the given stream serial.
func NewPagePacker(serial uint32) *PagePacker {
	return &PagePacker{serial: serial}
}

// MarkNextBOS arranges for the next page this packer starts to carry
// the BOS flag. Used once, for a stream's very first page.
func (pk *PagePacker) MarkNextBOS() {
	pk.nextBOS = true
}

func (pk *PagePacker) ensureActive() *Page {
	if pk.active == nil {
		pk.active = &Page{Serial: pk.serial, Sequence: pk.sequence}
		if pk.nextBOS {
			pk.active.Flags |= FlagBOS
			pk.nextBOS = false
		}
	}
	return pk.active
}

// flush moves the active page to the completed queue and advances
// the page sequence counter.
func (pk *PagePacker) flush() {
	if pk.active == nil {
		return
	}
	pk.completed = append(pk.completed, pk.active)
	pk.active = nil
	pk.sequence++
}

// Flush forces the current active page (if any) onto the completed
// queue immediately, used by the mux to force a page boundary after
// header packets.
func (pk *PagePacker) Flush() {
	pk.flush()
}

// AddPacket packs one packet's bytes into lacing segments, spilling
// across pages as needed. It panics if the packer has been closed.
func (pk *PagePacker) AddPacket(pkt Packet) {
	if pk.closed {
		panic("ogg: add packet to closed packer")
	}

	data := pkt.Content
	page := pk.ensureActive()

	for len(data) >= 255 {
		if len(page.Segments) == 255 {
			pk.flush()
			page = pk.ensureActive()
			page.Flags |= FlagCTD
		}
		page.Segments = append(page.Segments, 255)
		page.Payload = append(page.Payload, data[:255]...)
		data = data[255:]
	}

	if len(page.Segments) == 255 {
		pk.flush()
		page = pk.ensureActive()
		page.Flags |= FlagCTD
	}
	page.Segments = append(page.Segments, byte(len(data)))
	page.Payload = append(page.Payload, data...)
	page.Granule = pkt.Timestamp
}

// Close marks the active page (creating an empty one if none is
// pending) with EOS and flushes it. No further packets may be added.
func (pk *PagePacker) Close() {
	page := pk.ensureActive()
	page.Flags |= FlagEOS
	pk.flush()
	pk.closed = true
}

// Pages drains and returns all pages completed since the last call.
func (pk *PagePacker) Pages() []*Page {
	out := pk.completed
	pk.completed = nil
	return out
}

// HasPending reports whether there are completed pages not yet
// drained via Pages.
func (pk *PagePacker) HasPending() bool {
	return len(pk.completed) > 0
}
