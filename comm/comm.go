package comm

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrClosed is returned for operations on a closed communicator.
	ErrClosed = errors.New("communicator closed")

	// ErrRankOutOfRange is returned when a peer rank is not in [0, size).
	ErrRankOutOfRange = errors.New("rank out of range")

	// ErrSelfRoute is returned when a rank addresses itself; the engine
	// keeps coordinator-local data local instead of sending it.
	ErrSelfRoute = errors.New("no loopback route")
)

// ErrTagMismatch indicates a received message carried an unexpected tag,
// which means the two sides disagree about the protocol step.
type ErrTagMismatch struct {
	Want Tag
	Got  Tag
}

func (e *ErrTagMismatch) Error() string {
	return fmt.Sprintf("tag mismatch: want %s, got %s", e.Want, e.Got)
}

// Tag identifies the protocol step a message belongs to.
type Tag uint8

const (
	// TagOutcome carries the coordinator's validation result.
	TagOutcome Tag = 1 + iota
	// TagDims carries matrix and vector dimensions.
	TagDims
	// TagEntries carries a worker's coordinate entry block.
	TagEntries
	// TagVector carries the full dense operand vector.
	TagVector
	// TagLength carries a worker's local result segment length.
	TagLength
	// TagSegment carries a worker's local result segment values.
	TagSegment
)

func (t Tag) String() string {
	switch t {
	case TagOutcome:
		return "outcome"
	case TagDims:
		return "dims"
	case TagEntries:
		return "entries"
	case TagVector:
		return "vector"
	case TagLength:
		return "length"
	case TagSegment:
		return "segment"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(t))
	}
}

// Message is the single wire unit exchanged between ranks. Which fields
// are meaningful depends on the tag:
//
//	TagOutcome  OK, Reason
//	TagDims     Ints (matrix rows, matrix cols, vector rows, vector cols)
//	TagEntries  Rows, Cols, Vals (parallel arrays, one element per entry)
//	TagVector   Vals
//	TagLength   Ints (single element)
//	TagSegment  Vals
//
// In-process transports hand payload slices over by reference: after a
// successful Send the sender must not mutate them.
type Message struct {
	Tag    Tag
	OK     bool
	Reason string
	Ints   []int64
	Rows   []int64
	Cols   []int64
	Vals   []float64
}

// Communicator is one rank's endpoint into the SPMD group.
//
// Send and Recv block until the matching counterpart completes (or until
// the context is canceled, or the communicator is torn down). Messages
// between any ordered pair of ranks are delivered FIFO.
type Communicator interface {
	// Rank returns this process's rank in [0, Size).
	Rank() int

	// Size returns the fixed number of ranks in the group.
	Size() int

	// Send delivers msg to dst.
	Send(ctx context.Context, dst int, msg Message) error

	// Recv returns the next message from src.
	Recv(ctx context.Context, src int) (Message, error)

	// Close tears the endpoint down, unblocking local pending calls.
	Close() error
}

// Expect receives from src and verifies the message tag.
func Expect(ctx context.Context, c Communicator, src int, want Tag) (Message, error) {
	msg, err := c.Recv(ctx, src)
	if err != nil {
		return Message{}, err
	}
	if msg.Tag != want {
		return Message{}, &ErrTagMismatch{Want: want, Got: msg.Tag}
	}
	return msg, nil
}

// Bcast broadcasts a message from root to every rank. msg.Tag must be set
// identically on all ranks; at the root the remaining fields are the
// payload, at every other rank they are overwritten with the received
// values.
//
// The broadcast is a synchronization point: the root does not return
// until every rank has taken the message, so consecutive broadcasts are
// observed in the same relative order everywhere.
func Bcast(ctx context.Context, c Communicator, root int, msg *Message) error {
	if root < 0 || root >= c.Size() {
		return fmt.Errorf("%w: root %d of %d", ErrRankOutOfRange, root, c.Size())
	}

	if c.Rank() == root {
		for dst := 0; dst < c.Size(); dst++ {
			if dst == root {
				continue
			}
			if err := c.Send(ctx, dst, *msg); err != nil {
				return fmt.Errorf("broadcast %s to rank %d: %w", msg.Tag, dst, err)
			}
		}
		return nil
	}

	got, err := Expect(ctx, c, root, msg.Tag)
	if err != nil {
		return fmt.Errorf("broadcast %s from root: %w", msg.Tag, err)
	}
	*msg = got
	return nil
}
