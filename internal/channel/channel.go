// Package channel provides generic channel interfaces for decoupled
// communication between the review context and its mark subscribers.
package channel

// Receiver provides read access to a channel.
type Receiver[T any] interface {
	Receive() <-chan T
	Len() int
}

// Sender provides write access to a channel.
type Sender[T any] interface {
	// Send blocks until the value is accepted.
	Send(T)
	// TrySend delivers the value only if it can be accepted immediately,
	// reporting whether it was. The mark path uses this so a slow
	// subscriber drops records instead of stalling capture.
	TrySend(T) bool
}

// Channel combines read and write access.
type Channel[T any] interface {
	Receiver[T]
	Sender[T]
	Close()
}
