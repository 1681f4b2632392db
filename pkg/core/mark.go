// pkg/core/mark.go
package core

// MarkedFrame is one ledger entry: the playback position of one stream at
// the instant the user marked it, together with the stream's annotation
// state serialized at that same instant. Immutable once appended.
type MarkedFrame struct {
	StreamID    uint    // 1-based stream id, stable for the review lifetime
	TimeSeconds float64 // playback position, seconds from stream start, >= 0
	Annotations string  // serialized stroke list, see annotation.EncodePayload
}
