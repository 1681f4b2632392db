// Package streaming defines the wire messages exchanged with a review hub
// over a websocket feed. Payload structs mirror the core types with JSON
// tags so the core package stays free of wire concerns.
package streaming

import (
	"encoding/json"
	"time"

	"github.com/reelmark/reelmark/pkg/core"
)

// Envelope schema version, bumped on breaking changes.
const Version = 1

// Message types carried in Envelope.Type.
const (
	TypeReviewStart = "review.start"
	TypeStreamAdd   = "stream.add"
	TypeMarkRecord  = "mark.record"
	TypeReviewEnd   = "review.end"
	TypeAck         = "ack"
)

// Envelope wraps every message sent to the hub.
type Envelope struct {
	Type     string          `json:"type"`
	Version  int             `json:"version"`
	ReviewID string          `json:"reviewId"`
	Payload  json.RawMessage `json:"payload,omitempty"`
}

// AckMessage is the hub's acknowledgement of an envelope that requires
// confirmed delivery. For names the envelope type being acknowledged.
type AckMessage struct {
	Type string `json:"type"`
	For  string `json:"for"`
}

// ReviewStart announces a new review session.
type ReviewStart struct {
	ReviewID  string    `json:"reviewId"`
	Title     string    `json:"title"`
	StartedAt time.Time `json:"startedAt"`
}

// StreamAdd announces a stream registered into the review.
type StreamAdd struct {
	StreamID      uint    `json:"streamId"`
	DisplayName   string  `json:"displayName"`
	AspectRatio   float64 `json:"aspectRatio"`
	PlaybackSpeed float64 `json:"playbackSpeed"`
}

// MarkRecord carries one captured frame.
type MarkRecord struct {
	StreamID    uint    `json:"streamId"`
	TimeSeconds float64 `json:"timeSeconds"`
	Annotations string  `json:"annotations"`
}

// ReviewEnd closes a review session on the hub.
type ReviewEnd struct {
	ReviewID string    `json:"reviewId"`
	EndedAt  time.Time `json:"endedAt"`
}

// NewReviewStart mirrors a core.ReviewInfo into its wire form.
func NewReviewStart(info core.ReviewInfo) ReviewStart {
	return ReviewStart{
		ReviewID:  info.ID,
		Title:     info.Title,
		StartedAt: info.StartedAt,
	}
}

// NewStreamAdd mirrors a core.StreamInfo into its wire form.
func NewStreamAdd(info core.StreamInfo) StreamAdd {
	return StreamAdd{
		StreamID:      info.ID,
		DisplayName:   info.DisplayName,
		AspectRatio:   info.AspectRatio,
		PlaybackSpeed: info.PlaybackSpeed,
	}
}

// NewMarkRecord mirrors a core.MarkedFrame into its wire form.
func NewMarkRecord(frame core.MarkedFrame) MarkRecord {
	return MarkRecord{
		StreamID:    frame.StreamID,
		TimeSeconds: frame.TimeSeconds,
		Annotations: frame.Annotations,
	}
}
