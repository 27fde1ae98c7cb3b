package comm

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// localComm is one rank's endpoint of an in-process group. All ranks
// share the channel mesh; links[src][dst] carries messages from src to
// dst in FIFO order.
type localComm struct {
	rank  int
	links [][]chan Message

	closeOnce sync.Once
	closed    chan struct{}
}

// NewGroup builds an in-process SPMD group of n ranks and returns one
// communicator per rank. n must be at least 1.
//
// The group is wired as a full mesh of buffered channels; each ordered
// pair of ranks has its own FIFO link.
func NewGroup(n int) ([]Communicator, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: group size %d", ErrRankOutOfRange, n)
	}

	links := make([][]chan Message, n)
	for src := range links {
		links[src] = make([]chan Message, n)
		for dst := range links[src] {
			if src != dst {
				links[src][dst] = make(chan Message, 1)
			}
		}
	}

	comms := make([]Communicator, n)
	for rank := 0; rank < n; rank++ {
		comms[rank] = &localComm{
			rank:   rank,
			links:  links,
			closed: make(chan struct{}),
		}
	}
	return comms, nil
}

// RunGroup runs fn once per rank of a fresh n-rank group, one goroutine
// each, and waits for all of them. The first error cancels the shared
// context, which unblocks every rank still waiting on a peer; the whole
// group fails together or succeeds together.
func RunGroup(ctx context.Context, n int, fn func(ctx context.Context, c Communicator) error) error {
	comms, err := NewGroup(n)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, c := range comms {
		g.Go(func() error {
			defer c.Close()
			return fn(gctx, c)
		})
	}
	return g.Wait()
}

func (c *localComm) Rank() int { return c.rank }

func (c *localComm) Size() int { return len(c.links) }

func (c *localComm) checkPeer(peer int) error {
	if peer < 0 || peer >= c.Size() {
		return fmt.Errorf("%w: %d of %d", ErrRankOutOfRange, peer, c.Size())
	}
	if peer == c.rank {
		return ErrSelfRoute
	}
	return nil
}

func (c *localComm) Send(ctx context.Context, dst int, msg Message) error {
	if err := c.checkPeer(dst); err != nil {
		return err
	}
	select {
	case <-c.closed:
		return ErrClosed
	default:
	}

	select {
	case c.links[c.rank][dst] <- msg:
		return nil
	case <-c.closed:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *localComm) Recv(ctx context.Context, src int) (Message, error) {
	if err := c.checkPeer(src); err != nil {
		return Message{}, err
	}
	select {
	case <-c.closed:
		return Message{}, ErrClosed
	default:
	}

	select {
	case msg := <-c.links[src][c.rank]:
		return msg, nil
	case <-c.closed:
		return Message{}, ErrClosed
	case <-ctx.Done():
		return Message{}, ctx.Err()
	}
}

func (c *localComm) Close() error {
	c.closeOnce.Do(func() {
		close(c.closed)
	})
	return nil
}
