// Package mp3stream implements the OgkMP3 substream codec: the
// 24-byte OgkMP3 header, MPEG frame boundary detection for muxing raw
// MP3 into OGG packets, and a demux-side ogg.Decoder that feeds each
// packet (one MP3 frame) to github.com/hajimehoshi/go-mp3, resamples
// the decoded PCM to the driver's output rate through
// pkg/audio/resampler, and hands off stereo blocks across the
// player/audio boundary via a block queue.
package mp3stream
