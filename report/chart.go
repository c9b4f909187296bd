package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/KAIST-CryptLab/CovLPN/core/gf2"
	"github.com/KAIST-CryptLab/CovLPN/core/wht"
	"github.com/KAIST-CryptLab/CovLPN/solver"
)

// DefaultTopLabels is the number of labels shown by TopChart.
const DefaultTopLabels = 32

// HistogramBins is the number of bins of MagnitudeChart.
const HistogramBins = 64

// TopLabels returns the indices of the n largest magnitudes of d, largest
// first; equal magnitudes keep ascending index order.
func TopLabels(d wht.Distribution, n int) []int {
	idx := make([]int, len(d))
	for i := range idx {
		idx[i] = i
	}
	mags := wht.Magnitudes(d)
	sort.SliceStable(idx, func(i, j int) bool { return mags[idx[i]] > mags[idx[j]] })
	if n < len(idx) {
		idx = idx[:n]
	}
	return idx
}

// MagnitudeHistogram bins |d| into nbins equal-width bins over [0, max].
func MagnitudeHistogram(d wht.Distribution, nbins int) (edges []float64, counts []int) {
	if nbins < 1 || len(d) == 0 {
		return nil, nil
	}
	_, peak := wht.ExtractMax(d)
	width := float64(peak) / float64(nbins)
	if width == 0 {
		width = 1
	}
	edges = make([]float64, nbins+1)
	for i := range edges {
		edges[i] = float64(i) * width
	}
	counts = make([]int, nbins)
	for _, m := range wht.Magnitudes(d) {
		b := int(m / width)
		if b >= nbins {
			b = nbins - 1
		}
		counts[b]++
	}
	return edges, counts
}

func barItems[T int | int64](vals []T) []opts.BarData {
	out := make([]opts.BarData, len(vals))
	for i, v := range vals {
		out[i] = opts.BarData{Value: v}
	}
	return out
}

// TopChart plots the correlations of the n best labels. The projected
// secret is marked with an asterisk.
func TopChart(res *solver.Result, n int) *charts.Bar {
	span := res.Params.InformationSpan()
	top := TopLabels(res.Distribution, n)
	xLabels := make([]string, len(top))
	vals := make([]int64, len(top))
	for i, label := range top {
		xLabels[i] = gf2.Word(label).String(span)
		if uint32(label) == res.Projection {
			xLabels[i] += "*"
		}
		vals[i] = int64(res.Distribution[label])
	}

	title := "Top correlations"
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: fmt.Sprintf("n=%d, span=%d, rank of projection=%d", res.Samples, span, res.Rank),
		}),
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "1200px", Height: "600px"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(xLabels).
		AddSeries("correlation", barItems(vals)).
		SetSeriesOptions(charts.WithLabelOpts(opts.Label{Show: opts.Bool(false)}))
	return bar
}

// MagnitudeChart plots the histogram of all correlation magnitudes.
func MagnitudeChart(res *solver.Result, nbins int) *charts.Bar {
	edges, counts := MagnitudeHistogram(res.Distribution, nbins)
	xLabels := make([]string, len(counts))
	for i := range counts {
		xLabels[i] = fmt.Sprintf("%.0f", 0.5*(edges[i]+edges[i+1]))
	}

	title := "Correlation magnitudes"
	sp := res.Spectrum
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: fmt.Sprintf("mean=%.2f, std=%.2f, median=%.2f, peak z=%.2f", sp.Mean, sp.StdDev, sp.Median, sp.PeakZ),
		}),
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "1200px", Height: "600px"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "inside"}, opts.DataZoom{Type: "slider"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(xLabels).
		AddSeries("labels", barItems(counts)).
		SetSeriesOptions(charts.WithLabelOpts(opts.Label{Show: opts.Bool(false)}))
	return bar
}

// WriteCharts renders both charts of res as one HTML page.
func WriteCharts(w io.Writer, res *solver.Result) error {
	if len(res.Distribution) == 0 {
		return fmt.Errorf("cannot WriteCharts: result has no distribution")
	}
	page := components.NewPage()
	page.AddCharts(
		TopChart(res, DefaultTopLabels),
		MagnitudeChart(res, HistogramBins),
	)
	return page.Render(w)
}
