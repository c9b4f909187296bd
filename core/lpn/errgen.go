package lpn

import (
	"math/big"
	"math/rand"

	"github.com/ALTree/bigfloat"
)

const biasPrec = 256

// ErrGen draws Bernoulli noise bits.
type ErrGen struct {
	ratio float64
	rng   *rand.Rand
}

func NewErrorGenerator(ratio float64, rng *rand.Rand) *ErrGen {
	return &ErrGen{ratio: ratio, rng: rng}
}

// GenErr returns 1 with probability ratio.
func (erg *ErrGen) GenErr() uint8 {
	if erg.ratio <= 0 {
		return 0
	}
	if erg.rng.Float64() < erg.ratio {
		return 1
	}
	return 0
}

// Ratio returns the flip probability.
func (erg *ErrGen) Ratio() float64 {
	return erg.ratio
}

// errorRatioAfterBKW returns the noise rate of a sample obtained by adding
// 2^iterations samples of noise rate tau0: (1 - (1-2*tau0)^(2^iterations)) / 2.
func errorRatioAfterBKW(tau0 float64, iterations int) float64 {
	bias := BiasAfterBKW(tau0, iterations)
	one := new(big.Float).SetPrec(biasPrec).SetInt64(1)
	tau, _ := new(big.Float).SetPrec(biasPrec).Quo(new(big.Float).Sub(one, bias), big.NewFloat(2)).Float64()
	return tau
}

// BiasAfterBKW returns (1-2*tau0)^(2^iterations) at high precision, so that
// biases far below the float64 range stay usable.
func BiasAfterBKW(tau0 float64, iterations int) *big.Float {
	base := new(big.Float).SetPrec(biasPrec).SetFloat64(1 - 2*tau0)
	if base.Sign() == 0 {
		return base
	}
	exp := new(big.Float).SetPrec(biasPrec).SetMantExp(big.NewFloat(1), iterations)
	return bigfloat.Pow(base, exp)
}
