package mp3stream

import "github.com/haivivi/ogkaraoke/pkg/ogg"

// Identify is a stream init callback recognizing the OgkMP3 header
// magic, for use with ogg.NewStreamMapper alongside other substream
// identifiers.
func Identify(bosPacket []byte) (ogg.Decoder, bool) {
	hdr, err := ParseHeader(bosPacket)
	if err != nil {
		return nil, false
	}
	return NewDecoder(hdr), true
}

// Quality scores this stream for the player's audio-stream
// selection: higher sample rate is preferred.
func (h Header) Quality() int {
	return int(h.SampleFrequency)
}
