package spargo

import (
	"context"
	"fmt"

	"github.com/hupe1980/spargo/comm"
	"github.com/hupe1980/spargo/partition"
)

// gather assembles the global result at the coordinator. Each worker
// first reports its segment length; offsets are the prefix sums of the
// reported lengths, which equals row order because row ownership is
// contiguous and monotonic by rank.
func (e *Engine) gather(ctx context.Context, dist partition.Distribution, local []float64) ([]float64, error) {
	size := e.comm.Size()

	lengths := make([]int, size)
	lengths[coordinatorRank] = len(local)
	for src := 1; src < size; src++ {
		msg, err := comm.Expect(ctx, e.comm, src, comm.TagLength)
		if err != nil {
			return nil, fmt.Errorf("gather length from rank %d: %w", src, err)
		}
		if len(msg.Ints) != 1 || msg.Ints[0] < 0 {
			return nil, fmt.Errorf("gather: bad length report from rank %d", src)
		}
		if got, want := int(msg.Ints[0]), dist.Size(src); got != want {
			return nil, fmt.Errorf("gather: rank %d reported %d rows, owns %d", src, got, want)
		}
		lengths[src] = int(msg.Ints[0])
	}

	offsets := make([]int, size+1)
	for k, n := range lengths {
		offsets[k+1] = offsets[k] + n
	}

	result := make([]float64, offsets[size])
	copy(result[offsets[coordinatorRank]:], local)
	for src := 1; src < size; src++ {
		msg, err := comm.Expect(ctx, e.comm, src, comm.TagSegment)
		if err != nil {
			return nil, fmt.Errorf("gather segment from rank %d: %w", src, err)
		}
		if len(msg.Vals) != lengths[src] {
			return nil, fmt.Errorf("gather: rank %d sent %d values, reported %d", src, len(msg.Vals), lengths[src])
		}
		copy(result[offsets[src]:], msg.Vals)
	}

	return result, nil
}

// reportSegment sends this rank's result segment to the coordinator.
func (e *Engine) reportSegment(ctx context.Context, segment []float64) error {
	length := comm.Message{Tag: comm.TagLength, Ints: []int64{int64(len(segment))}}
	if err := e.comm.Send(ctx, coordinatorRank, length); err != nil {
		return fmt.Errorf("report segment length: %w", err)
	}

	if err := e.comm.Send(ctx, coordinatorRank, comm.Message{Tag: comm.TagSegment, Vals: segment}); err != nil {
		return fmt.Errorf("report segment: %w", err)
	}
	return nil
}
