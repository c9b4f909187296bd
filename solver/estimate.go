package solver

import (
	"math"
	"math/big"

	"github.com/ALTree/bigfloat"
	"gonum.org/v1/gonum/stat/distuv"
)

var stdNormal = distuv.Normal{Mu: 0, Sigma: 1}

// SuccessProbability approximates the probability that the correct label
// has the largest of 2^span correlations over n samples of the given bias.
// The correct correlation is N(n*bias, n), the others N(0, n), and the
// maximum of 2^span of them is close to sqrt(2*span*ln 2 * n).
func SuccessProbability(bias float64, n, span int) float64 {
	if n <= 0 {
		return 0
	}
	z := math.Abs(bias)*math.Sqrt(float64(n)) - math.Sqrt(2*float64(span)*math.Ln2)
	return stdNormal.CDF(z)
}

// Log2RequiredSamples returns log2 of the sample count n for which
// n*bias^2 = 2*span*ln 2, the point where SuccessProbability reaches 1/2.
// The bias may be far below the float64 range.
func Log2RequiredSamples(bias *big.Float, span int) float64 {
	b := new(big.Float).Abs(bias)
	if b.Sign() == 0 {
		return math.Inf(1)
	}
	if b.Prec() < 64 {
		b.SetPrec(64)
	}
	lnBias, _ := bigfloat.Log(b).Float64()
	return math.Log2(2*float64(span)*math.Ln2) - 2*lnBias/math.Ln2
}
