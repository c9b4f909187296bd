package gf2

import (
	"math/bits"
	"strings"
)

// MaxLength is the largest vector length representable by a Word.
const MaxLength = 64

// Word is a vector over GF(2) of at most MaxLength coordinates.
// Coordinate i is stored in bit i.
type Word uint64

// Mask returns the word with the n lowest coordinates set.
func Mask(n int) Word {
	if n >= MaxLength {
		return ^Word(0)
	}
	if n <= 0 {
		return 0
	}
	return Word(1)<<uint(n) - 1
}

// Bit returns coordinate i.
func (w Word) Bit(i int) uint8 {
	return uint8(w>>uint(i)) & 1
}

// SetBit returns a copy of w with coordinate i set to b.
func (w Word) SetBit(i int, b uint8) Word {
	if b&1 == 1 {
		return w | Word(1)<<uint(i)
	}
	return w &^ (Word(1) << uint(i))
}

// Weight returns the Hamming weight of w.
func (w Word) Weight() int {
	return bits.OnesCount64(uint64(w))
}

// Parity returns the sum of all coordinates mod 2.
func (w Word) Parity() uint8 {
	return uint8(bits.OnesCount64(uint64(w)) & 1)
}

// InnerProduct returns <w, v> over GF(2).
func (w Word) InnerProduct(v Word) uint8 {
	return (w & v).Parity()
}

// Slice extracts the n coordinates starting at off as the low bits of a new word.
func (w Word) Slice(off, n int) Word {
	return (w >> uint(off)) & Mask(n)
}

// String prints the n lowest coordinates, most significant first.
func (w Word) String(n int) string {
	var sb strings.Builder
	sb.Grow(n)
	for i := n - 1; i >= 0; i-- {
		if w.Bit(i) == 1 {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}
