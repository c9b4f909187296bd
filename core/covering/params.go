package covering

import (
	"errors"
	"fmt"
)

// MaxTableBits bounds the raw width of one table batch (2^24 entries).
const MaxTableBits = 24

// ErrInvalidCode is wrapped by every configuration error of this package.
var ErrInvalidCode = errors.New("invalid covering code")

// Parameters describes a repetition code decoded in batches of blocks.
type Parameters struct {
	r         int // raw bits per block
	t         int // blocks per table lookup
	threshold int // tolerated number of ambiguous blocks per word
}

// NewParameters checks and returns the code parameters.
func NewParameters(r, t, threshold int) (params Parameters, err error) {
	switch {
	case r < 1:
		return params, fmt.Errorf("cannot NewParameters: %w: repetition factor %d must be positive", ErrInvalidCode, r)
	case t < 1:
		return params, fmt.Errorf("cannot NewParameters: %w: table factor %d must be positive", ErrInvalidCode, t)
	case r*t > MaxTableBits:
		return params, fmt.Errorf("cannot NewParameters: %w: batch of %d bits exceeds %d", ErrInvalidCode, r*t, MaxTableBits)
	case threshold < 0:
		return params, fmt.Errorf("cannot NewParameters: %w: negative threshold %d", ErrInvalidCode, threshold)
	}
	return Parameters{r: r, t: t, threshold: threshold}, nil
}

// R returns the repetition factor.
func (p Parameters) R() int {
	return p.r
}

// T returns the table factor.
func (p Parameters) T() int {
	return p.t
}

// Threshold returns the number of ambiguous blocks tolerated per word.
func (p Parameters) Threshold() int {
	return p.threshold
}

// BatchBits returns the raw width of one table lookup.
func (p Parameters) BatchBits() int {
	return p.r * p.t
}

// CheckBlocks reports whether a word of the given block count can be decoded.
func (p Parameters) CheckBlocks(blocks int) error {
	if blocks < 1 || blocks%p.t != 0 {
		return fmt.Errorf("%w: table factor %d does not divide %d blocks", ErrInvalidCode, p.t, blocks)
	}
	if blocks*p.r > 64 {
		return fmt.Errorf("%w: %d blocks of %d bits exceed a 64-bit word", ErrInvalidCode, blocks, p.r)
	}
	return nil
}
