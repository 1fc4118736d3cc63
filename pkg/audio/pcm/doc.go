// Package pcm provides the vocabulary for moving PCM (Pulse Code
// Modulation) audio through the playback pipeline.
//
// Format names the fixed configurations the pipeline handles (the
// MP3 decoder's stereo output rates and the audio device's 48 kHz
// stereo) and converts between byte counts, sample counts, and
// durations for them. Chunk carries one run of samples in a known
// format; Copy streams a decoded reader into a chunk Writer, which is
// how resampled PCM reaches the cross-thread sample queue.
//
// Example usage:
//
//	format := pcm.L16Stereo48K
//
//	// Bytes needed for 20ms of device-rate audio
//	bytes := format.BytesInDuration(20 * time.Millisecond)
//
//	// Stream a decoder into a chunk writer
//	err := pcm.Copy(pcm.ChunkWriter(dst), decoded, format)
package pcm
