package covering

import (
	"math/bits"

	"github.com/KAIST-CryptLab/CovLPN/core/gf2"
)

// Packed table entry layout.
const (
	labelBits  = 24
	labelMask  = 1<<labelBits - 1
	distShift  = labelBits
	distMask   = 0x7f
	rejectFlag = 1 << 31
)

// Table holds the decoding of every possible batch of T blocks.
// It is immutable once built and may be shared between goroutines.
type Table struct {
	params  Parameters
	entries []uint32
}

// DecodeBlock returns the majority value of the r low bits of block and
// whether the block is ambiguous, that is, not unanimous.
func DecodeBlock(block gf2.Word, r int) (bit uint8, ambiguous bool) {
	ones := bits.OnesCount64(uint64(block & gf2.Mask(r)))
	if 2*ones > r {
		bit = 1
	}
	return bit, ones != 0 && ones != r
}

// NewTable precomputes the decoding of all 2^(R*T) batches.
func NewTable(params Parameters) *Table {
	r, t := params.R(), params.T()
	size := 1 << uint(params.BatchBits())
	entries := make([]uint32, size)
	for i := range entries {
		w := gf2.Word(i)
		var label uint32
		dist := 0
		for b := 0; b < t; b++ {
			bit, ambiguous := DecodeBlock(w.Slice(b*r, r), r)
			label |= uint32(bit) << uint(b)
			if ambiguous {
				dist++
			}
		}
		e := label | uint32(dist)<<distShift
		if dist > params.Threshold() {
			e |= rejectFlag
		}
		entries[i] = e
	}
	return &Table{params: params, entries: entries}
}

// Parameters returns the code parameters the table was built for.
func (tb *Table) Parameters() Parameters {
	return tb.params
}

// Len returns the number of entries.
func (tb *Table) Len() int {
	return len(tb.entries)
}

// Lookup returns the decoded T-bit label of a raw batch, its number of
// ambiguous blocks, and false if the batch alone already exceeds the threshold.
func (tb *Table) Lookup(batch gf2.Word) (label uint32, dist int, ok bool) {
	e := tb.entries[batch]
	return e & labelMask, int(e >> distShift & distMask), e&rejectFlag == 0
}
