// internal/channel/unbuffered.go
package channel

// Unbuffered is an unbuffered channel implementation.
type Unbuffered[T any] struct {
	ch chan T
}

// NewUnbuffered creates an unbuffered channel.
func NewUnbuffered[T any]() *Unbuffered[T] {
	return &Unbuffered[T]{ch: make(chan T)}
}

// Send blocks until a receiver takes the value.
func (u *Unbuffered[T]) Send(v T) {
	u.ch <- v
}

// TrySend delivers the value only if a receiver is waiting right now.
func (u *Unbuffered[T]) TrySend(v T) bool {
	select {
	case u.ch <- v:
		return true
	default:
		return false
	}
}

// Receive returns the receive-only side.
func (u *Unbuffered[T]) Receive() <-chan T {
	return u.ch
}

// Len always returns 0 for unbuffered channels.
func (u *Unbuffered[T]) Len() int {
	return 0
}

// Close closes the channel.
func (u *Unbuffered[T]) Close() {
	close(u.ch)
}
