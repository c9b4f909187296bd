package wht

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// minParallelButterflies is the smallest pass worth splitting across workers.
const minParallelButterflies = 1 << 14

func checkLen(n int) error {
	if n == 0 || n&(n-1) != 0 {
		return fmt.Errorf("length %d is not a power of two", n)
	}
	return nil
}

// Transform replaces d by its Walsh-Hadamard transform, in place:
// d[s] <- sum_x d[x] * (-1)^<s,x>.
func Transform(d Distribution) error {
	n := len(d)
	if err := checkLen(n); err != nil {
		return fmt.Errorf("cannot Transform: %w", err)
	}
	for h := 1; h < n; h <<= 1 {
		for i := 0; i < n; i += h << 1 {
			for j := i; j < i+h; j++ {
				a, b := d[j], d[j+h]
				d[j], d[j+h] = a+b, a-b
			}
		}
	}
	return nil
}

// butterflies applies the butterflies k in [lo, hi) of the pass of stride h.
// Butterfly k pairs index (k/h)*2h + k%h with the index h above it.
func butterflies(d Distribution, h, lo, hi int) {
	for k := lo; k < hi; k++ {
		j := (k/h)*(h<<1) + k%h
		a, b := d[j], d[j+h]
		d[j], d[j+h] = a+b, a-b
	}
}

// TransformParallel computes the same result as Transform. Each pass is
// split across workers and completes before the next one starts.
func TransformParallel(ctx context.Context, d Distribution, workers int) error {
	n := len(d)
	if err := checkLen(n); err != nil {
		return fmt.Errorf("cannot TransformParallel: %w", err)
	}
	half := n >> 1
	if workers <= 1 || half < minParallelButterflies {
		return Transform(d)
	}

	chunk := (half + workers - 1) / workers
	for h := 1; h < n; h <<= 1 {
		if err := ctx.Err(); err != nil {
			return err
		}
		var g errgroup.Group
		for lo := 0; lo < half; lo += chunk {
			lo, hi := lo, lo+chunk
			if hi > half {
				hi = half
			}
			h := h
			g.Go(func() error {
				butterflies(d, h, lo, hi)
				return nil
			})
		}
		// barrier: pass h must be complete before pass 2h reads it
		if err := g.Wait(); err != nil {
			return err
		}
	}
	return nil
}
