package cdgstream

import "github.com/haivivi/ogkaraoke/pkg/ogg"

// Identify is a stream init callback recognizing the OgkCDG header
// magic, for use with ogg.NewStreamMapper alongside other substream
// identifiers.
func Identify(bosPacket []byte) (ogg.Decoder, bool) {
	hdr, err := ParseHeader(bosPacket)
	if err != nil {
		return nil, false
	}
	return NewDecoder(hdr), true
}
