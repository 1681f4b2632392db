//go:build debug

package channel

// New creates a channel.
// Debug builds get an unbuffered channel (size is ignored) so message
// hand-off points are deterministic under the race detector.
func New[T any](size int) Channel[T] {
	return NewUnbuffered[T]()
}
