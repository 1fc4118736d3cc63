package mp3stream

import (
	"fmt"
	"log/slog"
	"sync"

	gomp3 "github.com/hajimehoshi/go-mp3"

	"github.com/haivivi/ogkaraoke/pkg/audio/pcm"
	"github.com/haivivi/ogkaraoke/pkg/audio/resampler"
	"github.com/haivivi/ogkaraoke/pkg/audiodriver"
	"github.com/haivivi/ogkaraoke/pkg/buffer"
	"github.com/haivivi/ogkaraoke/pkg/ring"
)

// feedBufferSize bounds the raw-MP3-bytes handoff between
// ProcessPacket (player thread) and the decode goroutine. A bounded
// queue here (rather than an unbounded pipe) means a stalled decode
// goroutine applies backpressure to the player thread once a few
// frames are queued, instead of after every single frame.
const feedBufferSize = 16 * 1024

// Decoder is the demux-side ogg.Decoder for an MP3 substream.
type Decoder struct {
	hdr Header

	feed *buffer.Queue[byte]

	blocks  BlockQueue
	samples uint64

	startOnce sync.Once
	runErr    error
}

// NewDecoder creates an MP3 decoder. It is registered with
// ogg.StreamMapper via an init function that parses the BOS packet
// with ParseHeader.
func NewDecoder(hdr Header) *Decoder {
	return &Decoder{hdr: hdr}
}

// Quality reports the selection score used by the player to pick
// among multiple discovered audio streams.
func (d *Decoder) Quality() int { return d.hdr.Quality() }

// ElapsedMicros reports how much decoded content, in microseconds,
// has been handed to ProcessPacket so far. Used by the player to
// decide when priming/pumping has caught up to a target time.
func (d *Decoder) ElapsedMicros() uint64 { return d.hdr.MapGranule(d.samples) }

// NumHeaders implements ogg.Decoder. The OgkMP3 header is delivered
// out-of-band by the stream init callback, so no further OGG packets
// are treated as headers.
func (d *Decoder) NumHeaders() int { return 0 }

// ProcessHeader implements ogg.Decoder. Never called, since
// NumHeaders is 0.
func (d *Decoder) ProcessHeader(data []byte) error {
	return fmt.Errorf("mp3stream: unexpected header packet")
}

// MapGranule implements ogg.Decoder: cumulative sample count to
// microseconds.
func (d *Decoder) MapGranule(granule uint64) uint64 {
	return d.hdr.MapGranule(granule)
}

func (d *Decoder) start() {
	d.feed = buffer.Bounded[byte](feedBufferSize)
	go d.run(d.feed)
}

// run is the "MP3 processing callback": it drives the black-box
// go-mp3 decoder and resampler over the feed buffer fed by
// ProcessPacket, pushing resampled stereo blocks into the block queue
// for the frontend to drain.
func (d *Decoder) run(feed *buffer.Queue[byte]) {
	dec, err := gomp3.NewDecoder(feed)
	if err != nil {
		d.runErr = fmt.Errorf("mp3stream: open decoder: %w", err)
		feed.CloseWithError(d.runErr)
		d.blocks.Close()
		return
	}

	// go-mp3 emits stereo regardless of the source channel mode.
	rs, err := resampler.New(dec, dec.SampleRate(), pcm.L16Stereo48K.SampleRate())
	if err != nil {
		d.runErr = fmt.Errorf("mp3stream: open resampler: %w", err)
		feed.CloseWithError(d.runErr)
		d.blocks.Close()
		return
	}
	defer rs.Close()

	sink := pcm.ChunkWriter(writerFunc(func(p []byte) (int, error) {
		d.blocks.Push(bytesToSamples(p))
		return len(p), nil
	}))
	if err := pcm.Copy(sink, rs, pcm.L16Stereo48K); err != nil {
		slog.Debug("mp3stream: decode stopped", "err", err)
	}
	d.blocks.Close()
}

// writerFunc adapts a function to io.Writer for pcm.ChunkWriter.
type writerFunc func(p []byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) { return f(p) }

func bytesToSamples(b []byte) []audiodriver.Sample {
	n := len(b) / 4
	out := make([]audiodriver.Sample, n)
	for i := 0; i < n; i++ {
		l := int16(uint16(b[i*4]) | uint16(b[i*4+1])<<8)
		r := int16(uint16(b[i*4+2]) | uint16(b[i*4+3])<<8)
		out[i] = audiodriver.Sample{L: l, R: r}
	}
	return out
}

// ProcessPacket implements ogg.Decoder: data is one complete MP3
// frame. It is fed to the decode goroutine through the bounded feed
// buffer; the call blocks once the buffer is full, providing
// back-pressure to the player thread without per-frame allocation.
func (d *Decoder) ProcessPacket(data []byte, hwm uint64) (uint64, error) {
	d.startOnce.Do(d.start)
	if _, err := d.feed.Write(data); err != nil {
		return hwm, fmt.Errorf("mp3stream: feed decoder: %w", err)
	}
	d.samples += uint64(d.hdr.SamplesPerFrame)
	return d.samples, nil
}

// NoticeGap implements ogg.Decoder. A resync gap in an MP3 stream
// just means the next frame starts at an uncertain sample position;
// the granule keeps advancing by SamplesPerFrame per packet in
// ProcessPacket, so there is nothing further to do here.
func (d *Decoder) NoticeGap() {}

// Finish implements ogg.Decoder, closing the feed buffer's write side
// so the decode goroutine observes EOF once it drains the rest.
func (d *Decoder) Finish() error {
	if d.feed == nil {
		// No packets ever arrived; there is no decode goroutine to
		// close the block queue, so signal EOS directly.
		d.blocks.Close()
		return nil
	}
	return d.feed.CloseWrite()
}

// Drain forwards to the block queue's non-blocking extender.
func (d *Decoder) Drain(w *ring.Writer[audiodriver.Sample]) (bool, error) {
	return d.blocks.Drain(w)
}
