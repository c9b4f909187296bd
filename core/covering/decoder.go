package covering

import (
	"fmt"

	"github.com/KAIST-CryptLab/CovLPN/core/gf2"
)

// Decoder maps words made of repetition blocks to their information labels.
// Decoding fails when more than Threshold blocks are ambiguous.
type Decoder struct {
	params Parameters
	table  *Table
	blocks int
}

// NewDecoder returns a Decoder of words made of the given number of blocks.
// The table is shared, never copied.
func NewDecoder(table *Table, blocks int) (*Decoder, error) {
	if err := table.params.CheckBlocks(blocks); err != nil {
		return nil, fmt.Errorf("cannot NewDecoder: %w", err)
	}
	return &Decoder{params: table.params, table: table, blocks: blocks}, nil
}

// Parameters returns the code parameters.
func (dec *Decoder) Parameters() Parameters {
	return dec.params
}

// Blocks returns the number of blocks per word, that is the label length.
func (dec *Decoder) Blocks() int {
	return dec.blocks
}

// Decode decodes w with one table lookup per batch. ok is false when the
// word is rejected; label is then meaningless.
func (dec *Decoder) Decode(w gf2.Word) (label uint32, ok bool) {
	bb, t := dec.params.BatchBits(), dec.params.T()
	dist := 0
	for j := 0; j < dec.blocks/t; j++ {
		part, d, accepted := dec.table.Lookup(w.Slice(j*bb, bb))
		if !accepted {
			return 0, false
		}
		if dist += d; dist > dec.params.threshold {
			return 0, false
		}
		label |= part << uint(j*t)
	}
	return label, true
}

// DecodeDirect decodes w block by block without the table.
func (dec *Decoder) DecodeDirect(w gf2.Word) (label uint32, ok bool) {
	r := dec.params.R()
	dist := 0
	for b := 0; b < dec.blocks; b++ {
		bit, ambiguous := DecodeBlock(w.Slice(b*r, r), r)
		label |= uint32(bit) << uint(b)
		if ambiguous {
			dist++
		}
	}
	if dist > dec.params.threshold {
		return 0, false
	}
	return label, true
}

// Project reduces a secret to the label space: bit b of the result is the
// parity of block b, so that <codeword(x), s> = <x, Project(s)>.
func (dec *Decoder) Project(secret gf2.Word) uint32 {
	return Project(secret, dec.params.R(), dec.blocks)
}

// Project returns the per-block parities of the first blocks blocks of w.
func Project(w gf2.Word, r, blocks int) (label uint32) {
	for b := 0; b < blocks; b++ {
		label |= uint32(w.Slice(b*r, r).Parity()) << uint(b)
	}
	return
}

// Encode expands a label into its repetition codeword.
func Encode(label uint32, r, blocks int) (w gf2.Word) {
	for b := 0; b < blocks; b++ {
		if label>>uint(b)&1 == 1 {
			w |= gf2.Mask(r) << uint(b*r)
		}
	}
	return
}
