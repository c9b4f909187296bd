package wht

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Samples is the read-only view of labelled responses the builder consumes.
type Samples interface {
	Len() int
	At(i int) (label uint32, response uint8)
}

// Distribution holds one signed counter per label of an information span.
// Counters stay within ±(number of samples) through the transform.
type Distribution []int32

// NewDistribution returns a zero distribution over 2^span labels.
func NewDistribution(span int) Distribution {
	return make(Distribution, 1<<uint(span))
}

// Span returns log2 of the length.
func (d Distribution) Span() int {
	span := 0
	for 1<<uint(span) < len(d) {
		span++
	}
	return span
}

// Build accumulates +1 for every response 0 and -1 for every response 1
// at the label of the sample.
func Build(samples Samples, span int) Distribution {
	d := NewDistribution(span)
	d.accumulate(samples, 0, samples.Len())
	return d
}

func (d Distribution) accumulate(samples Samples, lo, hi int) {
	for i := lo; i < hi; i++ {
		label, response := samples.At(i)
		// 1 - 2*response
		d[label] += 1 - 2*int32(response)
	}
}

// BuildParallel shards the samples over workers, each filling a private
// histogram, and sums the partial histograms. The result equals Build.
func BuildParallel(ctx context.Context, samples Samples, span, workers int) (Distribution, error) {
	n := samples.Len()
	if workers <= 1 || n < workers {
		return Build(samples, span), nil
	}

	partial := make([]Distribution, workers)
	chunk := (n + workers - 1) / workers

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		w := w
		lo, hi := w*chunk, (w+1)*chunk
		if hi > n {
			hi = n
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			d := NewDistribution(span)
			d.accumulate(samples, lo, hi)
			partial[w] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("cannot BuildParallel: %w", err)
	}

	d := partial[0]
	for _, p := range partial[1:] {
		for i, v := range p {
			d[i] += v
		}
	}
	return d, nil
}
