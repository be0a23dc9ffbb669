package pipeline

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// queue connects producers to consumers. Producers send on in and close it
// when done; consumers range over out.
type queue[T any] struct {
	in  chan T
	out <-chan T
}

// newQueue returns a channel of the given capacity, or an unbounded queue
// backed by a relay goroutine in g when capacity is zero or less. The relay
// forwards everything sent before in is closed, and gives up early only when
// ctx is done, so producers must also select on ctx.
func newQueue[T any](ctx context.Context, g *errgroup.Group, capacity int) *queue[T] {
	if capacity > 0 {
		ch := make(chan T, capacity)
		return &queue[T]{in: ch, out: ch}
	}

	in, out := make(chan T), make(chan T)
	g.Go(func() error {
		defer close(out)
		relay[T](ctx, in, out)
		return nil
	})
	return &queue[T]{in: in, out: out}
}

func relay[T any](ctx context.Context, in <-chan T, out chan<- T) {
	var pending []T
	for in != nil || len(pending) > 0 {
		var (
			send chan<- T
			next T
		)
		if len(pending) > 0 {
			send, next = out, pending[0]
		}

		select {
		case v, ok := <-in:
			if !ok {
				in = nil
				continue
			}
			pending = append(pending, v)
		case send <- next:
			var zero T
			pending[0] = zero
			pending = pending[1:]
		case <-ctx.Done():
			return
		}
	}
}
