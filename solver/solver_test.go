package solver

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/KAIST-CryptLab/CovLPN/core/gf2"
	"github.com/KAIST-CryptLab/CovLPN/core/lpn"
	"github.com/KAIST-CryptLab/CovLPN/core/wht"
)

func newToySolver(t *testing.T, mod func(*lpn.ParametersLiteral)) *Solver {
	lit := ToyParametersLiteral
	if mod != nil {
		mod(&lit)
	}
	params, err := lpn.NewParametersFromLiteral(lit)
	require.NoError(t, err)
	s, err := NewSolver(params)
	require.NoError(t, err)
	return s
}

func TestPresets(t *testing.T) {
	for _, name := range PresetNames() {
		t.Run(name, func(t *testing.T) {
			lit, err := Preset(name)
			require.NoError(t, err)
			params, err := lpn.NewParametersFromLiteral(lit)
			require.NoError(t, err)
			require.Greater(t, TheoreticalBias(params), 0.)
		})
	}
	_, err := Preset("nope")
	require.Error(t, err)
}

func TestRecovery(t *testing.T) {
	for _, workers := range []int{1, 4} {
		s := newToySolver(t, nil)
		s.Workers = workers
		for seed := 0; seed < 5; seed++ {
			t.Run(fmt.Sprintf("workers=%d/seed=%d", workers, seed), func(t *testing.T) {
				res, err := s.Run(context.Background(), []byte{byte(seed)})
				require.NoError(t, err)
				require.Equal(t, 2, res.Secret.Weight())
				require.True(t, res.Success, "candidate %d, projection %d", res.Candidate, res.Projection)
				require.Equal(t, 1, res.Rank)
				require.Greater(t, res.Discarded, uint64(0))
				require.Greater(t, res.EmpiricalBias, 0.)
				require.Greater(t, res.Spectrum.PeakZ, 5.)
				require.Equal(t, res.Samples-2*res.CorrectMismatch, int(res.Distribution[res.Projection]))
			})
		}
	}
}

func TestRecoveryWithoutRejection(t *testing.T) {
	// eight blocks per word, so no word is ever rejected
	s := newToySolver(t, func(lit *lpn.ParametersLiteral) {
		lit.Threshold = 8
		lit.ErrorRatio = 0
	})
	successes := 0
	for seed := 0; seed < 7; seed++ {
		res, err := s.Run(context.Background(), []byte{byte(seed), 0xff})
		require.NoError(t, err)
		require.Equal(t, uint64(0), res.Discarded)
		if res.Success {
			successes++
		}
	}
	require.Greater(t, successes, 3)
}

func TestRunDeterministic(t *testing.T) {
	s := newToySolver(t, nil)
	s.Workers = 3
	a, err := s.Run(context.Background(), []byte("seed"))
	require.NoError(t, err)
	b, err := s.Run(context.Background(), []byte("seed"))
	require.NoError(t, err)
	require.Equal(t, a.Secret, b.Secret)
	require.Equal(t, a.Discarded, b.Discarded)
	require.Equal(t, a.CorrectMismatch, b.CorrectMismatch)
	require.Equal(t, a.Distribution, b.Distribution)

	c, err := s.Run(context.Background(), []byte("other seed"))
	require.NoError(t, err)
	require.NotEqual(t, a.Distribution, c.Distribution)
}

func TestNoiselessExactCode(t *testing.T) {
	s := newToySolver(t, func(lit *lpn.ParametersLiteral) {
		lit.QueryLength = 12
		lit.TableFactor = 2
		lit.Threshold = 0
		lit.ErrorRatio = 0
		lit.RequiredSamples = 2000
	})
	res, err := s.Run(context.Background(), []byte{42})
	require.NoError(t, err)
	require.Equal(t, 0, res.CorrectMismatch)
	require.Equal(t, 1., res.EmpiricalBias)
	require.True(t, res.Success)
	require.Equal(t, int64(res.Samples), res.Magnitude)
}

func TestIncorrectHypothesis(t *testing.T) {
	s := newToySolver(t, nil)
	res, err := s.Run(context.Background(), []byte{7})
	require.NoError(t, err)
	half := float64(res.Samples) / 2
	require.InDelta(t, half, float64(res.IncorrectMismatch), half/10)
	require.InDelta(t, 0, res.IncorrectBias, 0.1)
}

func TestRunCancelled(t *testing.T) {
	for _, workers := range []int{1, 2} {
		s := newToySolver(t, nil)
		s.Workers = workers
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := s.Run(ctx, []byte{1})
		require.True(t, errors.Is(err, context.Canceled), "workers=%d: %v", workers, err)
	}
}

func TestRunLogs(t *testing.T) {
	var buf strings.Builder
	s := newToySolver(t, nil)
	s.Logger = log.New(&buf, "", 0)
	_, err := s.Run(context.Background(), []byte{3})
	require.NoError(t, err)
	require.Contains(t, buf.String(), "secret ")
	require.Contains(t, buf.String(), "mismatch ")
}

func TestMemoryBudget(t *testing.T) {
	lit := DefaultParametersLiteral
	lit.MaxMemoryBytes = 1 << 10
	_, err := lpn.NewParametersFromLiteral(lit)
	require.True(t, errors.Is(err, lpn.ErrAllocation))
}

func TestTheoreticalBias(t *testing.T) {
	params, err := lpn.NewParametersFromLiteral(ToyParametersLiteral)
	require.NoError(t, err)
	// 0.9 * (1 - 8/12)^2
	require.InDelta(t, 0.1, TheoreticalBias(params), 1e-12)
	f, _ := TheoreticalBiasBig(params).Float64()
	require.InDelta(t, 0.1, f, 1e-12)

	params, err = lpn.NewParametersFromLiteral(BKWParametersLiteral)
	require.NoError(t, err)
	want := math.Pow(31./32., 8) * 4. / 81.
	require.InDelta(t, want, TheoreticalBias(params), 1e-12)
	f, _ = TheoreticalBiasBig(params).Float64()
	require.InDelta(t, want, f, 1e-12)
}

func TestEmpiricalBias(t *testing.T) {
	require.Equal(t, 1., EmpiricalBias(0, 10))
	require.Equal(t, 0., EmpiricalBias(5, 10))
	require.Equal(t, -1., EmpiricalBias(10, 10))
	require.Equal(t, 0., EmpiricalBias(0, 0))
}

func TestEstimates(t *testing.T) {
	require.Equal(t, 0., SuccessProbability(0.5, 0, 10))
	require.Less(t, SuccessProbability(0, 1<<20, 20), 0.5)
	require.Greater(t, SuccessProbability(0.1, 1<<20, 20), 0.999)
	require.Equal(t, SuccessProbability(0.1, 1000, 10), SuccessProbability(-0.1, 1000, 10))

	base := math.Log2(2 * 10 * math.Ln2)
	require.InDelta(t, base+20, Log2RequiredSamples(big.NewFloat(math.Ldexp(1, -10)), 10), 1e-9)
	require.True(t, math.IsInf(Log2RequiredSamples(new(big.Float), 10), 1))

	tiny := new(big.Float).SetMantExp(big.NewFloat(1), -5000)
	require.InDelta(t, base+10000, Log2RequiredSamples(tiny, 10), 1e-6)
}

func TestSpectrumStats(t *testing.T) {
	sp, err := SpectrumStats(wht.Distribution{3, -7, 2, 5}, 1)
	require.NoError(t, err)
	require.InDelta(t, 4.25, sp.Mean, 1e-12)
	require.InDelta(t, 4., sp.Median, 1e-12)
	require.InDelta(t, math.Sqrt(3.6875), sp.StdDev, 1e-12)
	require.InDelta(t, 2.75/math.Sqrt(3.6875), sp.PeakZ, 1e-12)

	_, err = SpectrumStats(wht.Distribution{}, 0)
	require.Error(t, err)
}

func TestTesterProject(t *testing.T) {
	s := newToySolver(t, nil)
	tst := NewTester(s.Parameters(), s.Decoder())
	// bits 0 and 1 share block 0, bit 3 is in block 1
	require.Equal(t, uint32(0), tst.Project(gf2.Word(0b011)))
	require.Equal(t, uint32(0b10), tst.Project(gf2.Word(0b1011)))
}
