// Package player wires the OGG demuxer, CD+G interpreter, MP3
// decoder, ring buffer, and audio driver into the karaoke playback
// pipeline: it demuxes the container, selects one video and one audio
// substream, primes the pipeline, and drives CD+G rendering from the
// audio device's wall clock.
package player

import (
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/haivivi/ogkaraoke/internal/config"
	"github.com/haivivi/ogkaraoke/pkg/audiodriver"
	"github.com/haivivi/ogkaraoke/pkg/cdg"
	"github.com/haivivi/ogkaraoke/pkg/cdgstream"
	"github.com/haivivi/ogkaraoke/pkg/mp3stream"
	"github.com/haivivi/ogkaraoke/pkg/ogg"
	"github.com/haivivi/ogkaraoke/pkg/ring"
)

// VideoSink is the GPU blit sink: it receives the 300x216 RGBA8
// framebuffer readout (row-major, top-left origin) for one dirty
// region upload. Texture upload and presentation live behind this
// interface, outside the module.
type VideoSink interface {
	Blit(pixels []byte, dirty cdg.Rect)
}

// elapsedDecoder is implemented by both substream decoders; it is
// used internally to drive discovery priming and demux pump targets
// without the player depending on either concrete decoder beyond
// stream selection.
type elapsedDecoder interface {
	ElapsedMicros() uint64
}

// Player orchestrates one karaoke file's playback.
type Player struct {
	cfg  config.Config
	sink VideoSink

	demux  *ogg.Demux
	interp *cdg.Interpreter

	videoDec    *cdgstream.Decoder
	videoSerial uint32
	audioDec    *mp3stream.Decoder
	audioSerial uint32

	device     *audiodriver.Device
	ringWriter *ring.Writer[audiodriver.Sample]

	frame    []byte
	demuxEOF bool
	audioEOS bool
}

// Options configures Open.
type Options struct {
	Config config.Config
	Sink   VideoSink
}

func identify(bosPacket []byte) (ogg.Decoder, bool) {
	if d, ok := cdgstream.Identify(bosPacket); ok {
		return d, true
	}
	if d, ok := mp3stream.Identify(bosPacket); ok {
		return d, true
	}
	return nil, false
}

// Open demuxes r, selects at most one CD+G video stream and the
// highest-quality MP3 audio stream, discards the rest, primes the
// pipeline, and opens the audio device.
func Open(r io.Reader, opts Options) (*Player, error) {
	p := &Player{
		cfg:    opts.Config,
		sink:   opts.Sink,
		interp: cdg.NewInterpreter(),
	}
	p.demux = ogg.NewDemux(r, identify)

	if err := p.discover(); err != nil && err != io.EOF {
		return nil, fmt.Errorf("player: discovery: %w", err)
	}
	p.selectStreams()
	if p.audioDec == nil {
		return nil, fmt.Errorf("player: no audio stream found")
	}

	device, err := audiodriver.OpenDevice(p.cfg.AudioCommandQueueDepth)
	if err != nil {
		return nil, fmt.Errorf("player: open audio device: %w", err)
	}
	p.device = device

	ringW, ringR := ring.NewRing[audiodriver.Sample](p.cfg.RingBufferCapacity)
	p.ringWriter = ringW

	if err := device.Frontend.ChangeStream(audiodriver.NewRingStreamReader(ringR)); err != nil {
		device.Close()
		return nil, fmt.Errorf("player: change stream: %w", err)
	}
	if err := device.Frontend.ZeroTime(); err != nil {
		device.Close()
		return nil, fmt.Errorf("player: zero time: %w", err)
	}
	id, err := device.Frontend.Commit()
	if err != nil {
		device.Close()
		return nil, fmt.Errorf("player: commit: %w", err)
	}
	if !device.WaitUntilProcessed(time.Second) {
		device.Close()
		return nil, fmt.Errorf("player: audio driver did not acknowledge startup commit %d", id)
	}

	return p, nil
}

// discover pumps the demux until every currently registered stream
// has delivered at least VideoPrimeMillis worth of content, or the
// file ends.
func (p *Player) discover() error {
	primeMicros := uint64(p.cfg.VideoPrimeMillis) * 1000
	for p.minCandidateElapsed() < primeMicros {
		if err := p.pump(); err != nil {
			return err
		}
	}
	return nil
}

// pump forwards one demux step, swallowing recoverable format errors
// (the demux has already discarded the offending stream).
func (p *Player) pump() error {
	err := p.demux.Pump()
	var fe *ogg.FormatError
	if errors.As(err, &fe) {
		return nil
	}
	return err
}

func (p *Player) minCandidateElapsed() uint64 {
	min := uint64(math.MaxUint64)
	found := false
	for _, dec := range p.demux.Mapper.Decoders() {
		ed, ok := dec.(elapsedDecoder)
		if !ok {
			continue
		}
		found = true
		if e := ed.ElapsedMicros(); e < min {
			min = e
		}
	}
	if !found {
		return 0
	}
	return min
}

// selectStreams picks one discovered CD+G stream and the
// highest-Quality MP3 stream, discarding every other registered
// stream. Decoders are visited in map order, so which CD+G stream is
// chosen when there are several is not defined.
func (p *Player) selectStreams() {
	bestQuality := -1
	for serial, dec := range p.demux.Mapper.Decoders() {
		switch d := dec.(type) {
		case *cdgstream.Decoder:
			if p.videoDec == nil {
				p.videoDec, p.videoSerial = d, serial
				continue
			}
			p.demux.Mapper.DiscardStream(serial)
		case *mp3stream.Decoder:
			if d.Quality() > bestQuality {
				if p.audioDec != nil {
					p.demux.Mapper.DiscardStream(p.audioSerial)
				}
				bestQuality, p.audioDec, p.audioSerial = d.Quality(), d, serial
				continue
			}
			p.demux.Mapper.DiscardStream(serial)
		default:
			p.demux.Mapper.DiscardStream(serial)
		}
	}
}

// pumpUntil pumps demux pages until the selected streams have each
// delivered content up to targetMicros, finished, or the file ends.
func (p *Player) pumpUntil(targetMicros uint64) error {
	for {
		videoReady := p.videoDec == nil ||
			p.streamFinished(p.videoSerial) ||
			p.videoDec.ElapsedMicros() >= targetMicros
		audioReady := p.streamFinished(p.audioSerial) ||
			p.audioDec.ElapsedMicros() >= targetMicros
		if videoReady && audioReady {
			return nil
		}
		if err := p.pump(); err != nil {
			return err
		}
	}
}

func (p *Player) streamFinished(serial uint32) bool {
	st, ok := p.demux.Mapper.State(serial)
	return ok && st.Finished()
}

// RenderTick runs one iteration of the player loop:
// it reads the audio driver's clock, renders any CD+G commands due by
// that time, pumps demux up to PumpAheadMillis beyond it, and drains
// decoded audio into the ring buffer. Callers invoke this repeatedly
// (e.g. once per host video frame) until Done returns true.
func (p *Player) RenderTick() error {
	t := p.device.Frontend.Timestamp()
	if t < 0 {
		t = 0
	}
	nowMicros := uint64(t * 1e6)

	if p.videoDec != nil {
		p.videoDec.DrainUpTo(p.interp, nowMicros)
		if dirty, ok := p.interp.Dirty(); ok {
			p.renderFrame(dirty)
			p.interp.ClearDirty()
		}
	}

	targetMicros := nowMicros + uint64(p.cfg.PumpAheadMillis)*1000
	if !p.demuxEOF {
		allFinished := p.streamFinished(p.audioSerial) &&
			(p.videoDec == nil || p.streamFinished(p.videoSerial))
		if allFinished {
			p.demuxEOF = true
		} else if err := p.pumpUntil(targetMicros); err != nil {
			if err == io.EOF {
				p.demuxEOF = true
			} else {
				return fmt.Errorf("player: pump: %w", err)
			}
		}
	}

	if !p.audioEOS {
		done, err := p.audioDec.Drain(p.ringWriter)
		if err != nil {
			return fmt.Errorf("player: drain audio: %w", err)
		}
		if done {
			p.audioEOS = true
			p.ringWriter.Close()
		}
	}
	return nil
}

// Done reports whether playback has reached end of file and every
// decoded sample has been handed to the ring buffer.
func (p *Player) Done() bool {
	return p.demuxEOF && p.audioEOS
}

// renderFrame uploads the pixels within dirty (tile coordinates) to
// the video sink, reusing a persistent RGBA8 scratch buffer so only
// the invalidated region is recomputed.
func (p *Player) renderFrame(dirty cdg.Rect) {
	if p.sink == nil {
		return
	}
	if p.frame == nil {
		p.frame = make([]byte, cdg.Width*cdg.Height*4)
	}
	x0, y0 := dirty.X0*cdg.TileW, dirty.Y0*cdg.TileH
	x1, y1 := dirty.X1*cdg.TileW, dirty.Y1*cdg.TileH
	for y := y0; y < y1; y++ {
		rowOff := y * cdg.Width * 4
		for x := x0; x < x1; x++ {
			c := p.interp.RenderPixel(x, y)
			off := rowOff + x*4
			p.frame[off] = c.R
			p.frame[off+1] = c.G
			p.frame[off+2] = c.B
			p.frame[off+3] = c.A
		}
	}
	p.sink.Blit(p.frame, dirty)
}

// Close stops audio playback and releases the device.
func (p *Player) Close() error {
	if p.device == nil {
		return nil
	}
	return p.device.Close()
}

// Timestamp returns the audio clock position in seconds, the
// canonical clock the whole pipeline renders against.
func (p *Player) Timestamp() float64 {
	return p.device.Frontend.Timestamp()
}
