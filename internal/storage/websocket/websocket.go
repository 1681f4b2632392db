package websocket

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/reelmark/reelmark/pkg/core"
	"github.com/reelmark/reelmark/pkg/streaming"
)

// Config holds websocket backend configuration.
type Config struct {
	URL        string
	Token      string
	SendBuffer int
}

// Backend streams review activity to a review hub as it happens.
// It implements storage.Backend but not storage.Uploadable: the hub owns
// whatever artifact it builds from the feed.
type Backend struct {
	conn *connection
	cfg  Config

	mu       sync.Mutex
	reviewID string
}

// New creates a new websocket storage backend.
func New(cfg Config, log zerolog.Logger) *Backend {
	return &Backend{
		conn: newConnection(cfg.SendBuffer, log),
		cfg:  cfg,
	}
}

// Init connects to the hub.
func (b *Backend) Init() error {
	return b.conn.dial(b.cfg.URL, b.cfg.Token)
}

// Close disconnects from the hub.
func (b *Backend) Close() error {
	return b.conn.close()
}

// DroppedMessages reports how many fire-and-forget messages were discarded
// because the send buffer was full.
func (b *Backend) DroppedMessages() uint64 {
	return b.conn.dropped.Load()
}

func (b *Backend) currentReviewID() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.reviewID
}

// marshalEnvelope builds a JSON-encoded Envelope around a payload.
func marshalEnvelope(msgType, reviewID string, payload any) ([]byte, error) {
	var raw json.RawMessage
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal %s payload: %w", msgType, err)
		}
		raw = data
	}

	env := streaming.Envelope{
		Type:     msgType,
		Version:  streaming.Version,
		ReviewID: reviewID,
		Payload:  raw,
	}
	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("marshal %s envelope: %w", msgType, err)
	}
	return data, nil
}

// sendEnvelope marshals the payload into an Envelope and pushes it to the
// write loop (fire-and-forget).
func (b *Backend) sendEnvelope(msgType string, payload any) error {
	data, err := marshalEnvelope(msgType, b.currentReviewID(), payload)
	if err != nil {
		return err
	}
	b.conn.send(data)
	return nil
}

// sendEnvelopeAndWait marshals the payload and waits for the hub's ack.
func (b *Backend) sendEnvelopeAndWait(msgType string, payload any) error {
	data, err := marshalEnvelope(msgType, b.currentReviewID(), payload)
	if err != nil {
		return err
	}
	return b.conn.sendAndWait(data, msgType, ackTimeout)
}

// StartReview announces the review and waits for the hub's ack.
func (b *Backend) StartReview(info core.ReviewInfo) error {
	b.mu.Lock()
	b.reviewID = info.ID
	b.mu.Unlock()

	data, err := marshalEnvelope(streaming.TypeReviewStart, info.ID, streaming.NewReviewStart(info))
	if err != nil {
		return err
	}

	// Cache for reconnect replay.
	b.conn.mu.Lock()
	b.conn.cachedStart = data
	b.conn.mu.Unlock()

	return b.conn.sendAndWait(data, streaming.TypeReviewStart, ackTimeout)
}

// EndReview notifies the hub and waits for its ack.
func (b *Backend) EndReview() error {
	err := b.sendEnvelopeAndWait(streaming.TypeReviewEnd, streaming.ReviewEnd{
		ReviewID: b.currentReviewID(),
		EndedAt:  time.Now(),
	})

	// Clear cached state regardless of error.
	b.conn.mu.Lock()
	b.conn.cachedStart = nil
	b.conn.mu.Unlock()

	b.mu.Lock()
	b.reviewID = ""
	b.mu.Unlock()

	return err
}

// AddStream sends the stream registration (fire-and-forget).
func (b *Backend) AddStream(info core.StreamInfo) error {
	return b.sendEnvelope(streaming.TypeStreamAdd, streaming.NewStreamAdd(info))
}

// RecordMark sends one captured frame (fire-and-forget).
func (b *Backend) RecordMark(frame core.MarkedFrame) error {
	return b.sendEnvelope(streaming.TypeMarkRecord, streaming.NewMarkRecord(frame))
}
