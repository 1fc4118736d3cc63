// Package cdg decodes CD+G subchannel command streams and interprets
// them into a 300x216 indexed-color framebuffer.
//
// The CD+G display model divides the framebuffer into a 50x18 grid of
// 6x12-pixel tiles with a 16-entry 12-bit RGB palette. Commands
// arrive as 24-byte subchannel blocks, four to a 96-byte sector, at
// 75 sectors per second.
package cdg
