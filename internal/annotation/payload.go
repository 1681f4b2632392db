package annotation

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/reelmark/reelmark/pkg/core"
)

// ErrInvalidPayload is returned when a serialized annotation payload cannot
// be decoded back into a stroke.
var ErrInvalidPayload = errors.New("invalid annotation payload")

// EncodePayload serializes a stroke into the exchange payload: a JSON array
// holding one {"x":..,"y":..} object per point and null per break, in
// capture order. An empty stroke encodes as "[]". Encoding is deterministic:
// identical strokes always produce identical bytes.
func EncodePayload(s core.Stroke) (string, error) {
	if len(s) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("encode annotation payload: %w", err)
	}
	return string(b), nil
}

// DecodePayload parses an exchange payload back into a stroke. The empty
// string is treated as an empty stroke.
func DecodePayload(payload string) (core.Stroke, error) {
	if payload == "" {
		return core.Stroke{}, nil
	}
	var s core.Stroke
	if err := json.Unmarshal([]byte(payload), &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return s, nil
}
