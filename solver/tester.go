package solver

import (
	"math"
	"math/big"

	"github.com/KAIST-CryptLab/CovLPN/core/covering"
	"github.com/KAIST-CryptLab/CovLPN/core/gf2"
	"github.com/KAIST-CryptLab/CovLPN/core/lpn"
)

// Tester checks hypotheses against a sample set. It is the only component
// that handles the true secret after sampling.
type Tester struct {
	params lpn.Parameters
	dec    *covering.Decoder
}

func NewTester(params lpn.Parameters, dec *covering.Decoder) *Tester {
	return &Tester{params: params, dec: dec}
}

// Project returns the position of secret in the label space.
func (tst Tester) Project(secret gf2.Word) uint32 {
	return tst.dec.Project(secret)
}

// Evaluate counts the samples whose response disagrees with the parity
// predicted by a full-length secret hypothesis.
func (tst Tester) Evaluate(samples *lpn.SampleSet, secret gf2.Word) int {
	return tst.EvaluateLabel(samples, tst.Project(secret))
}

// EvaluateLabel counts the samples whose response disagrees with <label, h>.
func (tst Tester) EvaluateLabel(samples *lpn.SampleSet, h uint32) int {
	incorrect := 0
	for i := 0; i < samples.Len(); i++ {
		label, response := samples.At(i)
		if gf2.Word(label).InnerProduct(gf2.Word(h)) != response {
			incorrect++
		}
	}
	return incorrect
}

// EmpiricalBias returns 1 - 2*mismatch/count.
func EmpiricalBias(mismatch, count int) float64 {
	if count == 0 {
		return 0
	}
	return 1 - 2*float64(mismatch)/float64(count)
}

// coverageBias is the per-secret-bit factor 1 - 2*Threshold/(R*T).
func coverageBias(params lpn.Parameters) float64 {
	return 1 - 2*float64(params.Threshold())/float64(params.Code().BatchBits())
}

// TheoreticalBias returns (1-2*ErrorRatio) * (1 - 2*Threshold/(R*T))^SecretWeight.
func TheoreticalBias(params lpn.Parameters) float64 {
	return (1 - 2*params.ErrorRatio()) * math.Pow(coverageBias(params), float64(params.SecretWeight()))
}

// TheoreticalBiasBig is TheoreticalBias at high precision. The noise factor
// is taken from the BKW derivation when the parameters have one.
func TheoreticalBiasBig(params lpn.Parameters) *big.Float {
	var bias *big.Float
	if params.BKWIterations() > 0 {
		bias = lpn.BiasAfterBKW(params.BaseErrorRatio(), params.BKWIterations())
	} else {
		bias = new(big.Float).SetPrec(256).SetFloat64(1 - 2*params.ErrorRatio())
	}
	c := new(big.Float).SetPrec(256).SetFloat64(coverageBias(params))
	for i := 0; i < params.SecretWeight(); i++ {
		bias.Mul(bias, c)
	}
	return bias
}
