// Package buffer provides the thread-safe FIFO queue the playback
// pipeline uses to hand data between goroutines.
//
// A single generic Queue covers both cross-goroutine handoffs in the
// player: a Bounded queue of raw MP3 bytes feeding the decode
// goroutine (its write side blocks when full, back-pressuring the
// demux pump), and an Unbounded queue of decoded samples drained into
// the audio ring buffer (throttled by the bounded feed ahead of it
// rather than by its own capacity).
//
// Shutdown is split: CloseWrite lets the consumer drain what remains
// before seeing io.EOF, while CloseWithError tears the queue down in
// both directions at once.
package buffer
