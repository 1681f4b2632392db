package channel

// Buffered is a buffered channel implementation.
type Buffered[T any] struct {
	ch chan T
}

// NewBuffered creates a buffered channel with the given capacity.
func NewBuffered[T any](size int) *Buffered[T] {
	return &Buffered[T]{ch: make(chan T, size)}
}

// Send blocks until the value is accepted.
func (b *Buffered[T]) Send(v T) {
	b.ch <- v
}

// TrySend delivers the value if buffer space is free right now.
func (b *Buffered[T]) TrySend(v T) bool {
	select {
	case b.ch <- v:
		return true
	default:
		return false
	}
}

// Receive returns the receive-only side.
func (b *Buffered[T]) Receive() <-chan T {
	return b.ch
}

// Len returns the number of values currently buffered.
func (b *Buffered[T]) Len() int {
	return len(b.ch)
}

// Close closes the channel.
func (b *Buffered[T]) Close() {
	close(b.ch)
}
