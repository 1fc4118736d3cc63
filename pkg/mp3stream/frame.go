package mp3stream

// Frame boundary detection for muxing raw MP3 into OGG packets. Only
// MPEG Layer III is recognized; anything else causes a 1-byte advance
// and rescan.

var mpeg1BitrateKbps = [16]int{0, 32, 40, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320, -1}
var mpeg2BitrateKbps = [16]int{0, 8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160, -1}

var mpeg1SampleRates = [4]int{44100, 48000, 32000, 0}
var mpeg2SampleRates = [4]int{22050, 24000, 16000, 0}
var mpeg25SampleRates = [4]int{11025, 12000, 8000, 0}

// frameHeader is the parsed subset of an MP3 frame header needed to
// compute the frame's length.
type frameHeader struct {
	samplesPerFrame int
	bitrateKbps     int
	sampleRate      int
	padding         bool
	stereo          bool
	size            int
}

// parseFrameHeader attempts to parse an MPEG Layer III frame header
// starting at data[0]. It reports ok=false if the sync pattern or any
// field is invalid.
func parseFrameHeader(data []byte) (frameHeader, bool) {
	if len(data) < 4 {
		return frameHeader{}, false
	}
	if data[0] != 0xFF {
		return frameHeader{}, false
	}
	if data[1]&0xE6 != 0xE2 {
		return frameHeader{}, false
	}

	versionBits := (data[1] >> 3) & 0x03
	var samplesPerFrame int
	var bitrateTable [16]int
	var sampleRateTable [4]int
	switch versionBits {
	case 0x3: // MPEG1
		samplesPerFrame = 1152
		bitrateTable = mpeg1BitrateKbps
		sampleRateTable = mpeg1SampleRates
	case 0x2: // MPEG2
		samplesPerFrame = 576
		bitrateTable = mpeg2BitrateKbps
		sampleRateTable = mpeg2SampleRates
	case 0x0: // MPEG2.5
		samplesPerFrame = 576
		bitrateTable = mpeg2BitrateKbps
		sampleRateTable = mpeg25SampleRates
	default:
		return frameHeader{}, false
	}

	bitrateIdx := (data[2] >> 4) & 0x0F
	sampleRateIdx := (data[2] >> 2) & 0x03
	padding := data[2]&0x02 != 0
	channelMode := (data[3] >> 6) & 0x03

	bitrate := bitrateTable[bitrateIdx]
	sampleRate := sampleRateTable[sampleRateIdx]
	if bitrate <= 0 || sampleRate == 0 {
		return frameHeader{}, false
	}

	size := (samplesPerFrame * bitrate * 1000 / sampleRate) >> 3
	if padding {
		size++
	}
	if size < 4 {
		return frameHeader{}, false
	}

	return frameHeader{
		samplesPerFrame: samplesPerFrame,
		bitrateKbps:     bitrate,
		sampleRate:      sampleRate,
		padding:         padding,
		stereo:          channelMode != 0x03,
		size:            size,
	}, true
}

// SplitFrames scans data for complete MP3 frames, returning each
// frame's bytes in order and, as rest, the trailing bytes from the
// last recognized header whose frame is incomplete, to be retained for
// the next call. Invalid candidates cause a 1-byte advance and rescan,
// so unrecognized bytes are skipped rather than returned in rest.
func SplitFrames(data []byte) (frames [][]byte, rest []byte) {
	i := 0
	for i < len(data) {
		hdr, ok := parseFrameHeader(data[i:])
		if !ok {
			i++
			continue
		}
		if i+hdr.size > len(data) {
			break
		}
		frames = append(frames, data[i:i+hdr.size])
		i += hdr.size
	}
	return frames, data[i:]
}
