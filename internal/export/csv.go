// Package export serializes the mark ledger into the CSV exchange format
// and delivers the encoded bytes to a sink.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/reelmark/reelmark/internal/ledger"
	"github.com/reelmark/reelmark/pkg/core"
)

// Header is the literal first row of every export.
const Header = "Video,Time (sec),Annotations"

// ErrEmptyLedger refuses an export with zero marks. Nothing is written;
// callers surface a notice instead of producing a header-only file.
var ErrEmptyLedger = errors.New("export refused: ledger has no marks")

// ErrEncoding marks a sink that rejected the encoded bytes. The ledger is
// untouched, so the export can be retried as-is.
var ErrEncoding = errors.New("export sink rejected data")

// Option adjusts encoder behavior.
type Option func(*Encoder)

// WithRFC4180 doubles embedded quotes in the annotation column so the output
// parses under RFC 4180. The default reproduces the historical format, which
// wraps the payload in quotes verbatim and is what existing downstream
// tooling expects.
func WithRFC4180() Option {
	return func(e *Encoder) {
		e.rfc4180 = true
	}
}

// Encoder renders marked frames into the exchange format. Encoding is a pure
// function of its input: identical frames in identical order always yield
// byte-identical output, with `\n` row endings on every platform.
type Encoder struct {
	rfc4180 bool
}

func NewEncoder(opts ...Option) *Encoder {
	e := &Encoder{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Encode serializes frames in the order given: the literal header row, then
// one `<streamId>,<time to 2dp>,"<payload>"` row per frame.
func (e *Encoder) Encode(frames []core.MarkedFrame) ([]byte, error) {
	if len(frames) == 0 {
		return nil, ErrEmptyLedger
	}

	var buf bytes.Buffer
	buf.WriteString(Header)
	buf.WriteByte('\n')

	for _, f := range frames {
		buf.WriteString(strconv.FormatUint(uint64(f.StreamID), 10))
		buf.WriteByte(',')
		buf.WriteString(strconv.FormatFloat(f.TimeSeconds, 'f', 2, 64))
		buf.WriteString(`,"`)
		if e.rfc4180 {
			buf.WriteString(strings.ReplaceAll(f.Annotations, `"`, `""`))
		} else {
			buf.WriteString(f.Annotations)
		}
		buf.WriteString("\"\n")
	}

	return buf.Bytes(), nil
}

// EncodeLedger encodes every frame currently in the ledger, in mark order.
func (e *Encoder) EncodeLedger(l *ledger.Ledger) ([]byte, error) {
	return e.Encode(l.All())
}

// SuggestedFilename builds the export filename from the review title and
// start time, e.g. "match_review_marks_20260314_153045.csv".
func SuggestedFilename(title string, t time.Time) string {
	name := strings.TrimSpace(title)
	if name == "" {
		name = "review"
	}
	name = strings.ReplaceAll(name, " ", "_")
	name = strings.ReplaceAll(name, ":", "_")
	name = strings.ReplaceAll(name, "/", "_")
	return fmt.Sprintf("%s_marks_%s.csv", name, t.Format("20060102_150405"))
}
