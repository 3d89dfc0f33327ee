package value

import (
	"context"
	"fmt"
)

// Channel is a bounded FIFO rendezvous point (§4.10). It wraps a native
// Go channel rather than hand-rolling putter/taker wait queues: the Go
// runtime already maintains its wait queues in FIFO order, which is
// exactly the FIFO ordering put!/take! need, so there is no idiomatic
// reason to reimplement it.
type Channel struct {
	ch       chan Expression
	capacity int
}

// NewChannel returns a channel with the given buffer capacity; 0 means
// an unbuffered rendezvous (a put! blocks until a matching take!).
func NewChannel(capacity int) *Channel {
	return &Channel{ch: make(chan Expression, capacity), capacity: capacity}
}

func (c *Channel) Kind() Kind     { return KindChannel }
func (c *Channel) String() string { return fmt.Sprintf("#channel[%d]", c.capacity) }

// Put blocks until the value is accepted by a taker (or buffer slot),
// or ctx is cancelled — the evaluator turns cancellation into a
// "cancelled" effect at the call site.
func (c *Channel) Put(ctx context.Context, v Expression) error {
	select {
	case c.ch <- v:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Take blocks until a value is available, or ctx is cancelled.
func (c *Channel) Take(ctx context.Context) (Expression, error) {
	select {
	case v := <-c.ch:
		return v, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
