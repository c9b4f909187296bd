package report

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/KAIST-CryptLab/CovLPN/core/gf2"
	"github.com/KAIST-CryptLab/CovLPN/core/lpn"
	"github.com/KAIST-CryptLab/CovLPN/core/wht"
	"github.com/KAIST-CryptLab/CovLPN/solver"
)

func toyResult(t *testing.T, reg prometheus.Registerer) *solver.Result {
	params, err := lpn.NewParametersFromLiteral(solver.ToyParametersLiteral)
	require.NoError(t, err)
	s, err := solver.NewSolver(params)
	require.NoError(t, err)
	if reg != nil {
		s.Metrics, err = lpn.NewMetrics(reg)
		require.NoError(t, err)
	}
	res, err := s.Run(context.Background(), []byte("report"))
	require.NoError(t, err)
	return res
}

func TestPrint(t *testing.T) {
	res := toyResult(t, nil)
	var buf bytes.Buffer
	require.NoError(t, PrintParameters(&buf, res))
	require.NoError(t, PrintResult(&buf, res))
	out := buf.String()
	require.Contains(t, out, "Query Length      : 24")
	require.Contains(t, out, res.Secret.String(24))
	require.Contains(t, out, gf2.Word(res.Candidate).String(8))
	require.Contains(t, out, success[res.Success])
	require.NotContains(t, out, "BKW")
}

func TestTopLabels(t *testing.T) {
	d := wht.Distribution{3, -7, 2, 5, -5}
	require.Equal(t, []int{1, 3, 4}, TopLabels(d, 3))
	require.Equal(t, []int{1, 3, 4, 0, 2}, TopLabels(d, 10))
}

func TestMagnitudeHistogram(t *testing.T) {
	d := wht.Distribution{0, -1, 2, 3, -4, 4, 0, 1}
	edges, counts := MagnitudeHistogram(d, 4)
	require.Equal(t, []float64{0, 1, 2, 3, 4}, edges)
	require.Equal(t, []int{2, 2, 1, 3}, counts)

	edges, counts = MagnitudeHistogram(wht.Distribution{0, 0}, 2)
	require.Len(t, edges, 3)
	require.Equal(t, []int{2, 0}, counts)
}

func TestWriteCharts(t *testing.T) {
	res := toyResult(t, nil)
	var buf bytes.Buffer
	require.NoError(t, WriteCharts(&buf, res))
	html := buf.String()
	require.Contains(t, html, "Top correlations")
	require.Contains(t, html, "Correlation magnitudes")
	require.True(t, strings.Contains(html, "echarts"))

	require.Error(t, WriteCharts(&buf, &solver.Result{}))
}

func TestPrintMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	res := toyResult(t, reg)
	var buf bytes.Buffer
	require.NoError(t, PrintMetrics(&buf, reg))
	out := buf.String()
	require.Contains(t, out, "lpn_oracle_samples_total")
	require.Contains(t, out, "lpn_oracle_discarded_total")
	require.Contains(t, out, "16384")
	require.Equal(t, 2, strings.Count(out, "\n"))
	require.Greater(t, res.Discarded, uint64(0))
}
