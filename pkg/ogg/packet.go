package ogg

// Packet is one reassembled application-level unit of data tagged
// with its per-stream logical timestamp (granule position).
type Packet struct {
	Content   []byte
	Timestamp uint64
}
