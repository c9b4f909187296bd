package wht

import (
	"context"
	"math/bits"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

type pairs struct {
	labels    []uint32
	responses []uint8
}

func (p pairs) Len() int { return len(p.labels) }

func (p pairs) At(i int) (uint32, uint8) { return p.labels[i], p.responses[i] }

func randomPairs(rng *rand.Rand, span, n int) pairs {
	p := pairs{labels: make([]uint32, n), responses: make([]uint8, n)}
	for i := 0; i < n; i++ {
		p.labels[i] = uint32(rng.Intn(1 << uint(span)))
		p.responses[i] = uint8(rng.Intn(2))
	}
	return p
}

func energy(d Distribution) int64 {
	var e int64
	for _, v := range d {
		e += int64(v) * int64(v)
	}
	return e
}

func TestBuild(t *testing.T) {
	p := pairs{
		labels:    []uint32{0, 3, 3, 1, 0},
		responses: []uint8{0, 1, 1, 0, 1},
	}
	d := Build(p, 2)
	if diff := cmp.Diff(Distribution{0, 1, 0, -2}, d); diff != "" {
		t.Fatalf("Build mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, int64(3), L1(d))
	require.Equal(t, 2, d.Span())
}

func TestBuildCommutative(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	p := randomPairs(rng, 10, 50000)
	ref := Build(p, 10)
	require.LessOrEqual(t, L1(ref), int64(p.Len()))

	rng.Shuffle(p.Len(), func(i, j int) {
		p.labels[i], p.labels[j] = p.labels[j], p.labels[i]
		p.responses[i], p.responses[j] = p.responses[j], p.responses[i]
	})
	if diff := cmp.Diff(ref, Build(p, 10)); diff != "" {
		t.Fatalf("permuted samples changed the histogram:\n%s", diff)
	}

	for _, workers := range []int{2, 3, 8} {
		d, err := BuildParallel(context.Background(), p, 10, workers)
		require.NoError(t, err)
		if diff := cmp.Diff(ref, d); diff != "" {
			t.Fatalf("BuildParallel(%d) mismatch:\n%s", workers, diff)
		}
	}
}

func TestTransformRoundTrip(t *testing.T) {
	d := Distribution{1, 0, 0, 0}
	require.NoError(t, Transform(d))
	require.Equal(t, Distribution{1, 1, 1, 1}, d)
	require.NoError(t, Transform(d))
	require.Equal(t, Distribution{4, 0, 0, 0}, d)

	rng := rand.New(rand.NewSource(11))
	orig := Build(randomPairs(rng, 8, 3000), 8)
	d = append(Distribution(nil), orig...)
	require.NoError(t, Transform(d))
	require.Equal(t, int64(len(d))*energy(orig), energy(d))
	require.NoError(t, Transform(d))
	for i := range d {
		require.Equal(t, int32(len(d))*orig[i], d[i])
	}
}

func TestTransformDefinition(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	orig := Build(randomPairs(rng, 6, 500), 6)
	d := append(Distribution(nil), orig...)
	require.NoError(t, Transform(d))

	for s := range d {
		var want int32
		for x, v := range orig {
			if bits.OnesCount(uint(s&x))%2 == 0 {
				want += v
			} else {
				want -= v
			}
		}
		require.Equal(t, want, d[s], "index %d", s)
	}
}

func TestTransformParallel(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	orig := Build(randomPairs(rng, 17, 200000), 17)

	seq := append(Distribution(nil), orig...)
	require.NoError(t, Transform(seq))
	for _, workers := range []int{1, 2, 5} {
		par := append(Distribution(nil), orig...)
		require.NoError(t, TransformParallel(context.Background(), par, workers))
		require.True(t, cmp.Equal(seq, par), "workers=%d", workers)
	}

	require.Error(t, Transform(Distribution{1, 2, 3}))
	require.Error(t, TransformParallel(context.Background(), Distribution{}, 4))
}

func TestExtractMax(t *testing.T) {
	idx, mag := ExtractMax(Distribution{3, -7, 2, 5})
	require.Equal(t, 1, idx)
	require.Equal(t, int64(7), mag)

	// first occurrence wins
	idx, _ = ExtractMax(Distribution{2, -5, 5, -5})
	require.Equal(t, 1, idx)

	idx, mag = ExtractMax(Distribution{0, 0})
	require.Equal(t, 0, idx)
	require.Equal(t, int64(0), mag)
}

func TestRank(t *testing.T) {
	d := Distribution{3, -7, 2, 5}
	require.Equal(t, 1, Rank(d, 1))
	require.Equal(t, 2, Rank(d, 3))
	require.Equal(t, 3, Rank(d, 0))
	require.Equal(t, 4, Rank(d, 2))
	require.Equal(t, []float64{3, 7, 2, 5}, Magnitudes(d))
}
