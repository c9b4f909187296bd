package lpn

import (
	"errors"
	"fmt"
	"math"

	"github.com/KAIST-CryptLab/CovLPN/core/covering"
	"github.com/KAIST-CryptLab/CovLPN/core/gf2"
)

// MaxInformationSpan bounds the label width so the distribution fits in memory.
const MaxInformationSpan = 30

// DefaultMaxMemoryBytes is the allocation budget used when none is given.
const DefaultMaxMemoryBytes = 8 << 30

var (
	// ErrInvalidParameters is wrapped by every configuration error.
	ErrInvalidParameters = errors.New("invalid LPN parameters")
	// ErrAllocation is returned when a run would exceed the memory budget.
	ErrAllocation = errors.New("allocation exceeds memory budget")
)

// ParametersLiteral is the user-facing description of an LPN instance and of
// the covering code used to reduce it.
type ParametersLiteral struct {
	QueryLength      int     `json:"query_length"`      // bits per measurement
	RepetitionFactor int     `json:"repetition_factor"` // raw bits per code block
	TableFactor      int     `json:"table_factor"`      // blocks per table lookup
	Threshold        int     `json:"threshold"`         // ambiguous blocks tolerated per word
	SecretWeight     int     `json:"secret_weight"`
	RequiredSamples  int     `json:"required_samples"`
	ErrorRatio       float64 `json:"error_ratio,omitempty"`
	// When BKWIterations > 0, ErrorRatio is derived from BaseErrorRatio as
	// the noise left after that many BKW reduction steps.
	BaseErrorRatio float64 `json:"base_error_ratio,omitempty"`
	BKWIterations  int     `json:"bkw_iterations,omitempty"`
	MaxMemoryBytes int64   `json:"max_memory_bytes,omitempty"`
}

// Parameters is a validated, immutable LPN configuration.
type Parameters struct {
	k          int     // query length
	span       int     // information span, k / r
	w          int     // secret weight
	samples    int     // required samples
	tau        float64 // error ratio
	code       covering.Parameters
	maxMemory  int64
	bkwRounds  int
	baseErrRat float64
}

// NewParametersFromLiteral validates lit and returns the resulting Parameters.
// ErrorRatio is derived with errorRatioAfterBKW when BKWIterations is set.
func NewParametersFromLiteral(lit ParametersLiteral) (params Parameters, err error) {
	fail := func(format string, args ...interface{}) (Parameters, error) {
		return Parameters{}, fmt.Errorf("cannot NewParametersFromLiteral: %w: %s", ErrInvalidParameters, fmt.Sprintf(format, args...))
	}

	if lit.QueryLength < 1 || lit.QueryLength > gf2.MaxLength {
		return fail("query length %d not in [1, %d]", lit.QueryLength, gf2.MaxLength)
	}
	if lit.RepetitionFactor < 1 || lit.QueryLength%lit.RepetitionFactor != 0 {
		return fail("repetition factor %d does not divide query length %d", lit.RepetitionFactor, lit.QueryLength)
	}
	span := lit.QueryLength / lit.RepetitionFactor
	if span > MaxInformationSpan {
		return fail("information span %d exceeds %d", span, MaxInformationSpan)
	}
	if lit.TableFactor < 1 || span%lit.TableFactor != 0 {
		return fail("table factor %d does not divide information span %d", lit.TableFactor, span)
	}
	code, err := covering.NewParameters(lit.RepetitionFactor, lit.TableFactor, lit.Threshold)
	if err != nil {
		return fail("%v", err)
	}
	if lit.SecretWeight < 0 || lit.SecretWeight > lit.QueryLength {
		return fail("secret weight %d not in [0, %d]", lit.SecretWeight, lit.QueryLength)
	}
	// FWHT partial sums are bounded by the sample count, which must fit a counter.
	if lit.RequiredSamples < 1 || lit.RequiredSamples > math.MaxInt32 {
		return fail("required samples %d not in [1, %d]", lit.RequiredSamples, math.MaxInt32)
	}

	tau := lit.ErrorRatio
	if lit.BKWIterations < 0 {
		return fail("negative BKW iteration count %d", lit.BKWIterations)
	}
	if lit.BKWIterations > 0 {
		if lit.BaseErrorRatio < 0 || lit.BaseErrorRatio >= 0.5 {
			return fail("base error ratio %v not in [0, 0.5)", lit.BaseErrorRatio)
		}
		tau = errorRatioAfterBKW(lit.BaseErrorRatio, lit.BKWIterations)
	}
	if tau < 0 || tau > 0.5 || math.IsNaN(tau) {
		return fail("error ratio %v not in [0, 0.5]", tau)
	}

	maxMemory := lit.MaxMemoryBytes
	if maxMemory <= 0 {
		maxMemory = DefaultMaxMemoryBytes
	}

	params = Parameters{
		k:          lit.QueryLength,
		span:       span,
		w:          lit.SecretWeight,
		samples:    lit.RequiredSamples,
		tau:        tau,
		code:       code,
		maxMemory:  maxMemory,
		bkwRounds:  lit.BKWIterations,
		baseErrRat: lit.BaseErrorRatio,
	}
	if err = params.CheckMemory(); err != nil {
		return Parameters{}, err
	}
	return params, nil
}

// QueryLength returns the number of bits of a measurement.
func (p Parameters) QueryLength() int {
	return p.k
}

// InformationSpan returns the label width, QueryLength / RepetitionFactor.
func (p Parameters) InformationSpan() int {
	return p.span
}

// SecretWeight returns the Hamming weight of the secret.
func (p Parameters) SecretWeight() int {
	return p.w
}

// RequiredSamples returns the number of accepted samples of a run.
func (p Parameters) RequiredSamples() int {
	return p.samples
}

// ErrorRatio returns the oracle noise rate.
func (p Parameters) ErrorRatio() float64 {
	return p.tau
}

// BKWIterations returns the number of reduction steps ErrorRatio was derived from, or 0.
func (p Parameters) BKWIterations() int {
	return p.bkwRounds
}

// BaseErrorRatio returns the noise rate before BKW reduction, or 0.
func (p Parameters) BaseErrorRatio() float64 {
	return p.baseErrRat
}

// Code returns the covering code parameters.
func (p Parameters) Code() covering.Parameters {
	return p.code
}

// RepetitionFactor returns the raw bits per code block.
func (p Parameters) RepetitionFactor() int {
	return p.code.R()
}

// TableFactor returns the blocks decoded per table lookup.
func (p Parameters) TableFactor() int {
	return p.code.T()
}

// Threshold returns the ambiguous blocks tolerated per measurement.
func (p Parameters) Threshold() int {
	return p.code.Threshold()
}

// DistributionLen returns 2^InformationSpan.
func (p Parameters) DistributionLen() int {
	return 1 << uint(p.span)
}

// MemoryBytes estimates the memory held by one run: the decode table, the
// packed samples and the distribution.
func (p Parameters) MemoryBytes() int64 {
	table := int64(4) << uint(p.code.BatchBits())
	samples := int64(4) * int64(p.samples)
	dist := int64(4) << uint(p.span)
	return table + samples + dist
}

// CheckMemory returns an error wrapping ErrAllocation when MemoryBytes
// exceeds the configured budget.
func (p Parameters) CheckMemory() error {
	if need := p.MemoryBytes(); need > p.maxMemory {
		return fmt.Errorf("%w: need %d bytes, budget is %d", ErrAllocation, need, p.maxMemory)
	}
	return nil
}

// Literal returns the literal the parameters can be rebuilt from.
func (p Parameters) Literal() ParametersLiteral {
	lit := ParametersLiteral{
		QueryLength:      p.k,
		RepetitionFactor: p.code.R(),
		TableFactor:      p.code.T(),
		Threshold:        p.code.Threshold(),
		SecretWeight:     p.w,
		RequiredSamples:  p.samples,
		ErrorRatio:       p.tau,
		MaxMemoryBytes:   p.maxMemory,
	}
	if p.bkwRounds > 0 {
		lit.BaseErrorRatio = p.baseErrRat
		lit.BKWIterations = p.bkwRounds
	}
	return lit
}
