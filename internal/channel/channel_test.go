package channel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBufferedSendReceive(t *testing.T) {
	ch := NewBuffered[int](2)
	ch.Send(1)
	ch.Send(2)
	assert.Equal(t, 2, ch.Len())

	assert.Equal(t, 1, <-ch.Receive())
	assert.Equal(t, 2, <-ch.Receive())
	assert.Equal(t, 0, ch.Len())
}

func TestBufferedTrySendDropsWhenFull(t *testing.T) {
	ch := NewBuffered[string](1)

	assert.True(t, ch.TrySend("a"))
	assert.False(t, ch.TrySend("b"), "full buffer must reject without blocking")

	assert.Equal(t, "a", <-ch.Receive())
	assert.True(t, ch.TrySend("c"))
}

func TestBufferedCloseDrains(t *testing.T) {
	ch := NewBuffered[int](4)
	ch.Send(7)
	ch.Close()

	v, ok := <-ch.Receive()
	assert.True(t, ok)
	assert.Equal(t, 7, v)

	_, ok = <-ch.Receive()
	assert.False(t, ok)
}

func TestUnbufferedTrySendNeedsReceiver(t *testing.T) {
	ch := NewUnbuffered[int]()
	assert.False(t, ch.TrySend(1), "no receiver waiting")

	ready := make(chan struct{})
	got := make(chan int)
	go func() {
		close(ready)
		got <- <-ch.Receive()
	}()
	<-ready

	for !ch.TrySend(42) {
	}
	assert.Equal(t, 42, <-got)
	assert.Equal(t, 0, ch.Len())
}
