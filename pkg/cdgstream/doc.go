// Package cdgstream implements the OgkCDG substream codec: the
// 14-byte stream header, per-packet LZ4-compressed sector framing,
// and an ogg.Decoder that expands each packet's sectors into CD+G
// command blocks (pkg/cdg) queued for the player's video-render tick.
//
// LZ4 framing uses github.com/pierrec/lz4/v4.
package cdgstream
