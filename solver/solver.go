package solver

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/KAIST-CryptLab/CovLPN/core/covering"
	"github.com/KAIST-CryptLab/CovLPN/core/gf2"
	"github.com/KAIST-CryptLab/CovLPN/core/lpn"
	"github.com/KAIST-CryptLab/CovLPN/core/wht"
)

// Solver runs the covering-code reduction and FWHT recovery for one
// parameter set. The decode table is built once and shared by all runs.
type Solver struct {
	params lpn.Parameters
	table  *covering.Table
	dec    *covering.Decoder

	// Workers > 1 enables the parallel oracle, histogram and transform.
	Workers int
	// Metrics may be nil.
	Metrics *lpn.Metrics
	// Logger receives one line per stage; nil discards them.
	Logger *log.Logger

	tableTime time.Duration
}

// Timings records the wall time of each stage of a run.
type Timings struct {
	Table     time.Duration
	Sampling  time.Duration
	Histogram time.Duration
	Transform time.Duration
	Testing   time.Duration
}

// Total returns the sum of the stage times.
func (t Timings) Total() time.Duration {
	return t.Table + t.Sampling + t.Histogram + t.Transform + t.Testing
}

// Result is the outcome of one run.
type Result struct {
	Params lpn.Parameters

	Secret     gf2.Word
	Projection uint32 // secret in label space
	Candidate  uint32 // argmax of the transformed distribution
	Success    bool   // Candidate == Projection

	Samples   int
	Discarded uint64

	Magnitude int64 // |correlation| at Candidate
	Rank      int   // rank of Projection among all magnitudes, 1 is best
	Spectrum  Spectrum

	CorrectMismatch   int
	IncorrectMismatch int

	EmpiricalBias      float64
	IncorrectBias      float64
	TheoreticalBias    float64
	Log2Samples        float64 // log2 of the samples needed at TheoreticalBias
	SuccessEmpirical   float64
	SuccessTheoretical float64

	Distribution wht.Distribution
	Timings      Timings
}

// NewSolver validates the memory budget and builds the decode table.
func NewSolver(params lpn.Parameters) (*Solver, error) {
	if err := params.CheckMemory(); err != nil {
		return nil, fmt.Errorf("cannot NewSolver: %w", err)
	}
	start := time.Now()
	table := covering.NewTable(params.Code())
	dec, err := covering.NewDecoder(table, params.InformationSpan())
	if err != nil {
		return nil, fmt.Errorf("cannot NewSolver: %w", err)
	}
	return &Solver{
		params:    params,
		table:     table,
		dec:       dec,
		Workers:   1,
		tableTime: time.Since(start),
	}, nil
}

// Parameters returns the parameters of the solver.
func (s *Solver) Parameters() lpn.Parameters {
	return s.params
}

// Decoder returns the decoder shared by the runs.
func (s *Solver) Decoder() *covering.Decoder {
	return s.dec
}

func (s *Solver) logger() *log.Logger {
	if s.Logger == nil {
		return log.New(io.Discard, "", 0)
	}
	return s.Logger
}

// Run draws a secret and RequiredSamples reduced samples from seed, then
// recovers the projected secret with the Walsh-Hadamard transform and
// tests it against the samples. The result depends only on seed and Workers.
func (s *Solver) Run(ctx context.Context, seed []byte) (*Result, error) {
	logger := s.logger()
	params := s.params
	span := params.InformationSpan()
	n := params.RequiredSamples()

	res := &Result{Params: params, Samples: n}
	res.Timings.Table = s.tableTime

	keySrc, err := gf2.NewSource(gf2.DeriveSeed(seed, 0))
	if err != nil {
		return nil, fmt.Errorf("cannot Run: %w", err)
	}
	res.Secret = lpn.NewKeyGenerator(params, keySrc).GenSecretNew()
	res.Projection = s.dec.Project(res.Secret)
	logger.Printf("secret %s (weight %d)", res.Secret.String(params.QueryLength()), res.Secret.Weight())

	// sampling
	start := time.Now()
	oracleSeed := gf2.DeriveSeed(seed, 1)
	var samples *lpn.SampleSet
	if s.Workers > 1 {
		samples, res.Discarded, err = lpn.GenerateParallel(ctx, params, res.Secret, s.dec, oracleSeed, n, s.Workers, s.Metrics)
	} else {
		samples, res.Discarded, err = s.generate(res.Secret, oracleSeed, n)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot Run: %w", err)
	}
	res.Timings.Sampling = time.Since(start)
	logger.Printf("sampled %d, discarded %d in %v", n, res.Discarded, res.Timings.Sampling)

	if err = ctx.Err(); err != nil {
		return nil, err
	}

	// histogram
	start = time.Now()
	var d wht.Distribution
	if s.Workers > 1 {
		if d, err = wht.BuildParallel(ctx, samples, span, s.Workers); err != nil {
			return nil, fmt.Errorf("cannot Run: %w", err)
		}
	} else {
		d = wht.Build(samples, span)
	}
	res.Timings.Histogram = time.Since(start)
	logger.Printf("distribution of 2^%d built in %v", span, res.Timings.Histogram)

	// transform
	start = time.Now()
	if s.Workers > 1 {
		err = wht.TransformParallel(ctx, d, s.Workers)
	} else {
		err = wht.Transform(d)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot Run: %w", err)
	}
	res.Timings.Transform = time.Since(start)
	res.Distribution = d

	res.Candidate, res.Magnitude = extract(d)
	res.Success = res.Candidate == res.Projection
	res.Rank = wht.Rank(d, int(res.Projection))
	if res.Spectrum, err = SpectrumStats(d, int(res.Candidate)); err != nil {
		return nil, fmt.Errorf("cannot Run: %w", err)
	}
	logger.Printf("transform in %v, candidate %s (%d), projection rank %d",
		res.Timings.Transform, gf2.Word(res.Candidate).String(span), res.Magnitude, res.Rank)

	// hypothesis testing
	start = time.Now()
	tst := NewTester(params, s.dec)
	res.CorrectMismatch = tst.Evaluate(samples, res.Secret)
	res.IncorrectMismatch = tst.EvaluateLabel(samples, res.Projection^1)
	res.Timings.Testing = time.Since(start)

	res.EmpiricalBias = EmpiricalBias(res.CorrectMismatch, n)
	res.IncorrectBias = EmpiricalBias(res.IncorrectMismatch, n)
	res.TheoreticalBias = TheoreticalBias(params)
	res.Log2Samples = Log2RequiredSamples(TheoreticalBiasBig(params), span)
	res.SuccessEmpirical = SuccessProbability(res.EmpiricalBias, n, span)
	res.SuccessTheoretical = SuccessProbability(res.TheoreticalBias, n, span)
	logger.Printf("mismatch %d correct, %d incorrect; bias %.5f empirical, %.5f theoretical",
		res.CorrectMismatch, res.IncorrectMismatch, res.EmpiricalBias, res.TheoreticalBias)

	return res, nil
}

func (s *Solver) generate(secret gf2.Word, seed []byte, n int) (*lpn.SampleSet, uint64, error) {
	src, err := gf2.NewSource(seed)
	if err != nil {
		return nil, 0, err
	}
	o, err := lpn.NewOracle(s.params, secret, s.dec, src)
	if err != nil {
		return nil, 0, err
	}
	set, err := o.WithMetrics(s.Metrics).Generate(n)
	if err != nil {
		return nil, 0, err
	}
	return set, o.Discarded(), nil
}

func extract(d wht.Distribution) (uint32, int64) {
	idx, mag := wht.ExtractMax(d)
	return uint32(idx), mag
}
