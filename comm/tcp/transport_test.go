package tcp

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/spargo/codec"
	"github.com/hupe1980/spargo/comm"
)

func freeAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())
	return addr
}

// runStar wires a coordinator and size-1 workers together and runs fn at
// every rank.
func runStar(t *testing.T, size int, fn func(ctx context.Context, c comm.Communicator) error, optFns ...func(o *Options)) error {
	t.Helper()

	addr := freeAddr(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := Listen(gctx, addr, size, optFns...)
		if err != nil {
			return err
		}
		defer c.Close()
		return fn(gctx, c)
	})
	for rank := 1; rank < size; rank++ {
		g.Go(func() error {
			c, err := Dial(gctx, addr, rank, size, optFns...)
			if err != nil {
				return err
			}
			defer c.Close()
			return fn(gctx, c)
		})
	}
	return g.Wait()
}

func exchange(ctx context.Context, c comm.Communicator) error {
	// Broadcast down, then gather a value per worker back up.
	msg := comm.Message{Tag: comm.TagVector}
	if c.Rank() == 0 {
		msg.Vals = []float64{1.5, -2, 0, 42}
	}
	if err := comm.Bcast(ctx, c, 0, &msg); err != nil {
		return err
	}
	if len(msg.Vals) != 4 || msg.Vals[3] != 42 {
		return fmt.Errorf("rank %d: bad broadcast payload %v", c.Rank(), msg.Vals)
	}

	if c.Rank() == 0 {
		for src := 1; src < c.Size(); src++ {
			got, err := comm.Expect(ctx, c, src, comm.TagLength)
			if err != nil {
				return err
			}
			if got.Ints[0] != int64(src*10) {
				return fmt.Errorf("from rank %d: got %d", src, got.Ints[0])
			}
		}
		return nil
	}
	return c.Send(ctx, 0, comm.Message{Tag: comm.TagLength, Ints: []int64{int64(c.Rank() * 10)}})
}

func TestStarExchange(t *testing.T) {
	tests := []struct {
		name   string
		optFns []func(o *Options)
	}{
		{"Plain", nil},
		{"Zstd", []func(o *Options){WithCompression("zstd")}},
		{"LZ4", []func(o *Options){WithCompression("lz4")}},
		{"JSONCodec", []func(o *Options){WithCodec(codec.JSON{})}},
		{"RateLimited", []func(o *Options){WithRateLimit(1 << 20)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, runStar(t, 3, exchange, tt.optFns...))
		})
	}
}

func TestSingleRankGroup(t *testing.T) {
	// A group of one needs no connections at all.
	require.NoError(t, runStar(t, 1, func(ctx context.Context, c comm.Communicator) error {
		if c.Size() != 1 || c.Rank() != 0 {
			return fmt.Errorf("unexpected shape %d/%d", c.Rank(), c.Size())
		}
		return nil
	}))
}

func TestNonStarRoute(t *testing.T) {
	err := runStar(t, 3, func(ctx context.Context, c comm.Communicator) error {
		if c.Rank() == 1 {
			if err := c.Send(ctx, 2, comm.Message{Tag: comm.TagLength}); err != nil {
				return err
			}
		}
		return nil
	})
	assert.ErrorIs(t, err, ErrNonStarRoute)
}

func TestSelfRoute(t *testing.T) {
	err := runStar(t, 2, func(ctx context.Context, c comm.Communicator) error {
		return c.Send(ctx, c.Rank(), comm.Message{})
	})
	assert.ErrorIs(t, err, comm.ErrSelfRoute)
}

func TestDialRankValidation(t *testing.T) {
	ctx := context.Background()

	_, err := Dial(ctx, "127.0.0.1:1", 0, 2)
	assert.ErrorIs(t, err, comm.ErrRankOutOfRange)

	_, err = Dial(ctx, "127.0.0.1:1", 2, 2)
	assert.ErrorIs(t, err, comm.ErrRankOutOfRange)
}

func TestGroupSizeMismatch(t *testing.T) {
	addr := freeAddr(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := Listen(gctx, addr, 2)
		return err
	})
	g.Go(func() error {
		c, err := Dial(gctx, addr, 1, 3) // wrong size
		if err == nil {
			defer c.Close()
		}
		return nil
	})

	err := g.Wait()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "size mismatch")
}

func TestUnsupportedCompression(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := Listen(ctx, "127.0.0.1:0", 2, WithCompression("snappy"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported compression")
}
