package lpn

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/KAIST-CryptLab/CovLPN/core/covering"
	"github.com/KAIST-CryptLab/CovLPN/core/gf2"
)

// ctxCheckInterval is how many samples a worker produces between context checks.
const ctxCheckInterval = 1 << 12

// KeyGenerator draws LPN secrets.
type KeyGenerator struct {
	params  Parameters
	sampler *gf2.Sampler
}

func NewKeyGenerator(params Parameters, src *gf2.Source) *KeyGenerator {
	return &KeyGenerator{params: params, sampler: gf2.NewSampler(params.QueryLength(), src)}
}

// GenSecretNew returns a secret of weight SecretWeight with a uniformly
// random support.
func (kgen KeyGenerator) GenSecretNew() gf2.Word {
	return kgen.sampler.InBall(kgen.params.SecretWeight())
}

// Oracle answers LPN queries about a fixed secret, reduced through a covering
// code decoder. Measurements the decoder rejects are redrawn and counted.
type Oracle struct {
	params    Parameters
	secret    gf2.Word
	dec       *covering.Decoder
	sampler   *gf2.Sampler
	errGen    *ErrGen
	discarded uint64
	metrics   *Metrics
}

// NewOracle returns an Oracle drawing its randomness from src.
func NewOracle(params Parameters, secret gf2.Word, dec *covering.Decoder, src *gf2.Source) (*Oracle, error) {
	if dec.Blocks() != params.InformationSpan() {
		return nil, fmt.Errorf("cannot NewOracle: decoder has %d blocks, parameters need %d", dec.Blocks(), params.InformationSpan())
	}
	if dec.Parameters() != params.Code() {
		return nil, fmt.Errorf("cannot NewOracle: decoder code does not match parameters")
	}
	sampler := gf2.NewSampler(params.QueryLength(), src)
	return &Oracle{
		params:  params,
		secret:  secret & gf2.Mask(params.QueryLength()),
		dec:     dec,
		sampler: sampler,
		errGen:  NewErrorGenerator(params.ErrorRatio(), sampler.Rand()),
	}, nil
}

// WithMetrics makes the oracle report its draws to m; m may be nil.
func (o *Oracle) WithMetrics(m *Metrics) *Oracle {
	o.metrics = m
	return o
}

// Discarded returns the number of measurements rejected by the decoder so far.
func (o *Oracle) Discarded() uint64 {
	return o.discarded
}

// Query draws measurements until one decodes and returns the resulting sample.
func (o *Oracle) Query() Sample {
	for {
		a := o.sampler.Uniform()
		// noisy <a, s>
		b := a.InnerProduct(o.secret) ^ o.errGen.GenErr()
		label, ok := o.dec.Decode(a)
		if !ok {
			o.discarded++
			continue
		}
		return Sample{Label: label, Response: b}
	}
}

// Generate returns count accepted samples.
func (o *Oracle) Generate(count int) (*SampleSet, error) {
	if count < 0 {
		return nil, fmt.Errorf("cannot Generate: negative count %d", count)
	}
	set := NewSampleSet(o.params.InformationSpan(), count)
	if err := o.fill(context.Background(), set, 0, count); err != nil {
		return nil, err
	}
	return set, nil
}

// fill stores accepted samples at indices [lo, hi) of set.
func (o *Oracle) fill(ctx context.Context, set *SampleSet, lo, hi int) error {
	before := o.discarded
	accepted := 0
	for i := lo; i < hi; i++ {
		if accepted%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		set.Set(i, o.Query())
		accepted++
	}
	o.metrics.observe(accepted, o.discarded-before)
	return nil
}

// GenerateParallel produces count samples with the given number of workers.
// Worker i owns a source keyed by gf2.DeriveSeed(seed, i) and fills its own
// range of the set, so the result only depends on seed and workers.
// It returns the samples and the total number of discarded measurements.
func GenerateParallel(ctx context.Context, params Parameters, secret gf2.Word, dec *covering.Decoder, seed []byte, count, workers int, metrics *Metrics) (*SampleSet, uint64, error) {
	if workers < 1 {
		workers = 1
	}
	if workers > count && count > 0 {
		workers = count
	}
	set := NewSampleSet(params.InformationSpan(), count)
	discarded := make([]uint64, workers)

	g, ctx := errgroup.WithContext(ctx)
	chunk := (count + workers - 1) / workers
	for w := 0; w < workers; w++ {
		w := w
		lo, hi := w*chunk, (w+1)*chunk
		if hi > count {
			hi = count
		}
		if lo >= hi {
			continue
		}
		g.Go(func() error {
			src, err := gf2.NewSource(gf2.DeriveSeed(seed, w))
			if err != nil {
				return err
			}
			o, err := NewOracle(params, secret, dec, src)
			if err != nil {
				return err
			}
			o.WithMetrics(metrics)
			if err := o.fill(ctx, set, lo, hi); err != nil {
				return err
			}
			discarded[w] = o.Discarded()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, fmt.Errorf("cannot GenerateParallel: %w", err)
	}

	var total uint64
	for _, d := range discarded {
		total += d
	}
	return set, total, nil
}
