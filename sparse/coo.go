package sparse

import (
	"github.com/RoaringBitmap/roaring/v2/roaring64"
)

// Entry is one explicit nonzero in coordinate format.
//
// Indices are zero-based. Multiple entries for the same (Row, Col) are
// legal; they are summed, not overwritten, when a CSR block is built.
type Entry struct {
	Row int
	Col int
	Val float64
}

// PatternOf returns the nonzero pattern of entries as a bitmap of
// (row<<32)|col keys. Entries with negative indices are ignored.
//
// Duplicate entries collapse to a single bit, so the pattern describes
// distinct positions rather than entry counts.
func PatternOf(entries []Entry) *roaring64.Bitmap {
	bm := roaring64.New()
	for _, e := range entries {
		if e.Row < 0 || e.Col < 0 {
			continue
		}
		bm.Add(uint64(e.Row)<<32 | uint64(uint32(e.Col)))
	}
	return bm
}
