// Package audio provides audio processing utilities.
//
// This package serves as an umbrella for audio-related sub-packages:
//
//   - pcm: PCM (Pulse Code Modulation) audio format handling
//   - resampler: stereo sample rate conversion over io.Reader
//
// For buffer utilities, use the separate
// github.com/haivivi/ogkaraoke/pkg/buffer package.
//
// Example usage:
//
//	import (
//	    "github.com/haivivi/ogkaraoke/pkg/audio/pcm"
//	    "github.com/haivivi/ogkaraoke/pkg/buffer"
//	)
//
//	// Create a bounded queue for raw audio bytes
//	buf := buffer.Bounded[byte](1 << 14)
//
//	// Work with PCM format
//	format := pcm.L16Stereo48K
//	chunk := format.DataChunk(audioData)
package audio
