package spargo

import (
	"context"
	"errors"
	"fmt"

	"github.com/RoaringBitmap/roaring/v2/roaring64"

	"github.com/hupe1980/spargo/comm"
	"github.com/hupe1980/spargo/partition"
	"github.com/hupe1980/spargo/sparse"
)

// scatter buckets entries by owning rank and sends every non-local
// bucket as a single point-to-point message. Returns the coordinator's
// own bucket. An empty bucket still produces a message so the receiver
// never blocks.
func (e *Engine) scatter(ctx context.Context, dist partition.Distribution, entries []sparse.Entry) ([]sparse.Entry, error) {
	buckets := make([][]sparse.Entry, dist.WorkerCount())
	for _, entry := range entries {
		owner := dist.Owner(entry.Row)
		buckets[owner] = append(buckets[owner], entry)
	}

	if e.scatterAudit {
		if err := auditScatter(entries, buckets); err != nil {
			return nil, err
		}
	}

	for dst := 1; dst < dist.WorkerCount(); dst++ {
		if err := e.comm.Send(ctx, dst, entriesMessage(buckets[dst])); err != nil {
			return nil, fmt.Errorf("scatter to rank %d: %w", dst, err)
		}
	}

	return buckets[coordinatorRank], nil
}

// auditScatter verifies the buckets partition the global nonzero
// pattern: pairwise-disjoint per-rank patterns whose union equals the
// input's.
func auditScatter(entries []sparse.Entry, buckets [][]sparse.Entry) error {
	global := sparse.PatternOf(entries)

	union := roaring64.New()
	for rank, bucket := range buckets {
		pattern := sparse.PatternOf(bucket)
		if union.Intersects(pattern) {
			return fmt.Errorf("scatter audit: rank %d pattern overlaps a previous rank", rank)
		}
		union.Or(pattern)
	}

	if !union.Equals(global) {
		return errors.New("scatter audit: union of rank patterns differs from input pattern")
	}
	return nil
}

func entriesMessage(entries []sparse.Entry) comm.Message {
	msg := comm.Message{Tag: comm.TagEntries}
	if len(entries) == 0 {
		return msg
	}

	msg.Rows = make([]int64, len(entries))
	msg.Cols = make([]int64, len(entries))
	msg.Vals = make([]float64, len(entries))
	for i, e := range entries {
		msg.Rows[i] = int64(e.Row)
		msg.Cols[i] = int64(e.Col)
		msg.Vals[i] = e.Val
	}
	return msg
}

func entriesFromMessage(msg comm.Message) ([]sparse.Entry, error) {
	if len(msg.Rows) != len(msg.Cols) || len(msg.Cols) != len(msg.Vals) {
		return nil, fmt.Errorf("entries message: mismatched array lengths %d/%d/%d",
			len(msg.Rows), len(msg.Cols), len(msg.Vals))
	}

	entries := make([]sparse.Entry, len(msg.Rows))
	for i := range entries {
		entries[i] = sparse.Entry{
			Row: int(msg.Rows[i]),
			Col: int(msg.Cols[i]),
			Val: msg.Vals[i],
		}
	}
	return entries, nil
}
