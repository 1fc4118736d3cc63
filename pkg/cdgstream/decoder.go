package cdgstream

import (
	"fmt"

	"github.com/haivivi/ogkaraoke/pkg/cdg"
)

// batch is one sector's worth of decoded commands, tagged with the
// frame index it becomes due at.
type batch struct {
	frame uint64
	cmds  []cdg.Command
}

// Decoder is the demux-side ogg.Decoder for a CD+G substream. It
// carries no synchronization: both ProcessPacket (called from demux)
// and DrainUpTo (called from the player's render tick) run on the
// player thread only.
type Decoder struct {
	hdr      Header
	queue    []batch
	curFrame uint64
}

// NewDecoder creates a CD+G decoder for a substream announced with hdr.
func NewDecoder(hdr Header) *Decoder {
	return &Decoder{hdr: hdr}
}

// NumHeaders implements ogg.Decoder. The OgkCDG header is delivered
// out-of-band by the stream init callback, so no further OGG packets
// are treated as headers.
func (d *Decoder) NumHeaders() int { return 0 }

// ProcessHeader implements ogg.Decoder. Never called, since
// NumHeaders is 0.
func (d *Decoder) ProcessHeader(data []byte) error {
	return fmt.Errorf("cdgstream: unexpected header packet")
}

// MapGranule implements ogg.Decoder.
func (d *Decoder) MapGranule(granule uint64) uint64 {
	return d.hdr.MapGranule(granule)
}

// ElapsedMicros reports how much sector content, in microseconds,
// has been handed to ProcessPacket so far.
func (d *Decoder) ElapsedMicros() uint64 {
	return d.hdr.MapGranule(granuleFrame(d.curFrame, 0))
}

// ProcessPacket implements ogg.Decoder: data is one OgkCDG data
// packet. Each sector's commands are queued under the
// frame index they become due at, for the player to drain at its
// render tick via DrainUpTo.
func (d *Decoder) ProcessPacket(data []byte, hwm uint64) (uint64, error) {
	raw, err := unpackPacket(data)
	if err != nil {
		return hwm, err
	}
	for off := 0; off+sectorLen <= len(raw); off += sectorLen {
		d.curFrame++
		cmds := cdg.SectorCommands(raw[off : off+sectorLen])
		if len(cmds) > 0 {
			d.queue = append(d.queue, batch{frame: d.curFrame, cmds: cmds})
		}
	}
	return granuleFrame(d.curFrame, 0), nil
}

// NoticeGap implements ogg.Decoder. A resync gap just means some
// sectors' worth of commands were lost; the framebuffer interpreter
// has no notion of a "keyframe" to recover to (MemoryPreset commands
// periodically reset it in well-formed discs), so there is nothing
// further to do here beyond letting granule mapping keep progressing.
func (d *Decoder) NoticeGap() {}

// Finish implements ogg.Decoder.
func (d *Decoder) Finish() error { return nil }

// DrainUpTo applies every queued command batch due at or before
// targetMicros to it, in order, removing them from the queue. Video
// is driven by the audio clock: targetMicros comes from the audio
// driver's timestamp.
func (d *Decoder) DrainUpTo(it *cdg.Interpreter, targetMicros uint64) {
	i := 0
	for i < len(d.queue) {
		b := d.queue[i]
		if d.hdr.MapGranule(granuleFrame(b.frame, 0)) > targetMicros {
			break
		}
		for _, cmd := range b.cmds {
			it.HandleCmd(cmd)
		}
		i++
	}
	if i > 0 {
		d.queue = d.queue[i:]
	}
}

// Pending reports how many sector batches are queued but not yet
// drained.
func (d *Decoder) Pending() int { return len(d.queue) }
