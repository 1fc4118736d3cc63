// Package shiftbuffer implements a bounded, append-only byte window.
//
// It buffers bytes read from an io.Reader and exposes contiguous
// slice access from the current head, advancing the head by
// consuming bytes as the caller processes them. Storage is kept at
// twice the configured max block size; the residual is shifted back
// to offset 0 once the head has advanced past the block size, or when
// a fill would run past the end of storage, so the amortized cost per
// byte consumed is O(1).
//
// It underlies the OGG page scanner (pkg/ogg), which needs to scan
// forward byte-by-byte for a resync capture pattern while holding
// onto enough trailing data to re-attempt a parse.
package shiftbuffer
