package tcp

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/hupe1980/spargo/codec"
	"github.com/hupe1980/spargo/comm"
)

// ErrNonStarRoute is returned when a worker addresses another worker.
// The engine's protocol only ever crosses coordinator<->worker edges.
var ErrNonStarRoute = errors.New("tcp transport is a star: workers reach the coordinator only")

// maxFrameSize bounds a single frame so a corrupt length prefix cannot
// trigger an absurd allocation.
const maxFrameSize = 1 << 30

// Transport implements comm.Communicator over the TCP star.
type Transport struct {
	rank int
	size int

	// conns is indexed by peer rank. The coordinator holds one
	// connection per worker; a worker holds only index 0.
	conns   []net.Conn
	writeMu []sync.Mutex
	readMu  []sync.Mutex

	enc      codec.Codec
	compress compressor
	limiter  *rate.Limiter

	ln        net.Listener
	closed    atomic.Bool
	closeOnce sync.Once
}

func buildOptions(optFns []func(o *Options)) (Options, error) {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Codec == nil {
		return Options{}, errors.New("nil codec")
	}
	if opts.DialRetryInterval <= 0 {
		opts.DialRetryInterval = DefaultOptions.DialRetryInterval
	}
	return opts, nil
}

func newTransport(rank, size int, opts Options) (*Transport, error) {
	comp, err := newCompressor(opts.Compression)
	if err != nil {
		return nil, err
	}

	t := &Transport{
		rank:     rank,
		size:     size,
		conns:    make([]net.Conn, size),
		writeMu:  make([]sync.Mutex, size),
		readMu:   make([]sync.Mutex, size),
		enc:      opts.Codec,
		compress: comp,
	}
	if opts.RateLimitBytesPerSec > 0 {
		t.limiter = rate.NewLimiter(rate.Limit(opts.RateLimitBytesPerSec), opts.RateLimitBytesPerSec)
	}
	return t, nil
}

// Listen starts the coordinator endpoint (rank 0) on addr and waits for
// all size-1 workers to connect and identify themselves.
func Listen(ctx context.Context, addr string, size int, optFns ...func(o *Options)) (*Transport, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: group size %d", comm.ErrRankOutOfRange, size)
	}
	opts, err := buildOptions(optFns)
	if err != nil {
		return nil, err
	}

	t, err := newTransport(0, size, opts)
	if err != nil {
		return nil, err
	}

	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}
	t.ln = ln

	// Unblock Accept if the context dies during setup.
	setupDone := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			_ = ln.Close()
		case <-setupDone:
		}
	}()
	defer close(setupDone)

	for pending := size - 1; pending > 0; pending-- {
		conn, err := ln.Accept()
		if err != nil {
			_ = t.Close()
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("accept worker: %w", err)
		}

		peer, err := readHello(conn, size)
		if err != nil {
			_ = conn.Close()
			_ = t.Close()
			return nil, err
		}
		if t.conns[peer] != nil {
			_ = conn.Close()
			_ = t.Close()
			return nil, fmt.Errorf("duplicate rank %d", peer)
		}
		t.conns[peer] = conn
	}

	return t, nil
}

// Dial starts a worker endpoint and connects it to the coordinator at
// addr, retrying until the listener is reachable or ctx is done.
func Dial(ctx context.Context, addr string, rank, size int, optFns ...func(o *Options)) (*Transport, error) {
	if size < 1 || rank < 1 || rank >= size {
		return nil, fmt.Errorf("%w: rank %d of %d", comm.ErrRankOutOfRange, rank, size)
	}
	opts, err := buildOptions(optFns)
	if err != nil {
		return nil, err
	}

	t, err := newTransport(rank, size, opts)
	if err != nil {
		return nil, err
	}

	var d net.Dialer
	var conn net.Conn
	for {
		conn, err = d.DialContext(ctx, "tcp", addr)
		if err == nil {
			break
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("dial %s: %w", addr, ctx.Err())
		case <-time.After(opts.DialRetryInterval):
		}
	}

	if err := writeHello(conn, rank, size); err != nil {
		_ = conn.Close()
		return nil, err
	}
	t.conns[0] = conn

	return t, nil
}

// The hello identifies a dialing worker: rank and expected group size,
// both uint32 big endian. A size disagreement is a configuration error
// caught before any engine traffic flows.
func writeHello(conn net.Conn, rank, size int) error {
	var hello [8]byte
	binary.BigEndian.PutUint32(hello[0:4], uint32(rank))
	binary.BigEndian.PutUint32(hello[4:8], uint32(size))
	if _, err := conn.Write(hello[:]); err != nil {
		return fmt.Errorf("send hello: %w", err)
	}
	return nil
}

func readHello(conn net.Conn, size int) (int, error) {
	var hello [8]byte
	if _, err := io.ReadFull(conn, hello[:]); err != nil {
		return 0, fmt.Errorf("read hello: %w", err)
	}
	peer := int(binary.BigEndian.Uint32(hello[0:4]))
	peerSize := int(binary.BigEndian.Uint32(hello[4:8]))
	if peerSize != size {
		return 0, fmt.Errorf("group size mismatch: coordinator %d, worker %d", size, peerSize)
	}
	if peer < 1 || peer >= size {
		return 0, fmt.Errorf("%w: hello rank %d of %d", comm.ErrRankOutOfRange, peer, size)
	}
	return peer, nil
}

// Rank returns this endpoint's rank.
func (t *Transport) Rank() int { return t.rank }

// Size returns the fixed group size.
func (t *Transport) Size() int { return t.size }

func (t *Transport) conn(peer int) (net.Conn, error) {
	if peer < 0 || peer >= t.size {
		return nil, fmt.Errorf("%w: %d of %d", comm.ErrRankOutOfRange, peer, t.size)
	}
	if peer == t.rank {
		return nil, comm.ErrSelfRoute
	}
	if t.rank != 0 && peer != 0 {
		return nil, ErrNonStarRoute
	}
	if t.closed.Load() {
		return nil, comm.ErrClosed
	}
	conn := t.conns[peer]
	if conn == nil {
		return nil, comm.ErrClosed
	}
	return conn, nil
}

// Send delivers msg to dst.
func (t *Transport) Send(ctx context.Context, dst int, msg comm.Message) error {
	conn, err := t.conn(dst)
	if err != nil {
		return err
	}

	payload, err := t.enc.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode %s frame: %w", msg.Tag, err)
	}
	if t.compress != nil {
		if payload, err = t.compress.Compress(payload); err != nil {
			return fmt.Errorf("compress %s frame: %w", msg.Tag, err)
		}
	}
	if len(payload) > maxFrameSize {
		return fmt.Errorf("frame too large: %d bytes", len(payload))
	}

	if t.limiter != nil {
		if err := t.limiter.WaitN(ctx, len(payload)+4); err != nil {
			return err
		}
	}

	t.writeMu[dst].Lock()
	defer t.writeMu[dst].Unlock()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetWriteDeadline(deadline)
		defer conn.SetWriteDeadline(time.Time{}) //nolint:errcheck
	}

	var prefix [4]byte
	binary.BigEndian.PutUint32(prefix[:], uint32(len(payload)))
	if _, err := conn.Write(prefix[:]); err != nil {
		return fmt.Errorf("write frame to rank %d: %w", dst, err)
	}
	if _, err := conn.Write(payload); err != nil {
		return fmt.Errorf("write frame to rank %d: %w", dst, err)
	}
	return nil
}

// Recv returns the next message from src.
func (t *Transport) Recv(ctx context.Context, src int) (comm.Message, error) {
	conn, err := t.conn(src)
	if err != nil {
		return comm.Message{}, err
	}

	t.readMu[src].Lock()
	defer t.readMu[src].Unlock()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetReadDeadline(deadline)
		defer conn.SetReadDeadline(time.Time{}) //nolint:errcheck
	}

	var prefix [4]byte
	if _, err := io.ReadFull(conn, prefix[:]); err != nil {
		return comm.Message{}, fmt.Errorf("read frame from rank %d: %w", src, err)
	}
	length := binary.BigEndian.Uint32(prefix[:])
	if length > maxFrameSize {
		return comm.Message{}, fmt.Errorf("frame too large: %d bytes", length)
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(conn, payload); err != nil {
		return comm.Message{}, fmt.Errorf("read frame from rank %d: %w", src, err)
	}

	if t.compress != nil {
		if payload, err = t.compress.Decompress(payload); err != nil {
			return comm.Message{}, fmt.Errorf("decompress frame from rank %d: %w", src, err)
		}
	}

	var msg comm.Message
	if err := t.enc.Unmarshal(payload, &msg); err != nil {
		return comm.Message{}, fmt.Errorf("decode frame from rank %d: %w", src, err)
	}
	return msg, nil
}

// Close tears down the endpoint. Peers blocked on this endpoint's
// connections observe read/write errors, which aborts their run.
func (t *Transport) Close() error {
	t.closeOnce.Do(func() {
		t.closed.Store(true)
		if t.ln != nil {
			_ = t.ln.Close()
		}
		for _, conn := range t.conns {
			if conn != nil {
				_ = conn.Close()
			}
		}
	})
	return nil
}
