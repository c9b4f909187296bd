package solver

import (
	"github.com/montanaflynn/stats"

	"github.com/KAIST-CryptLab/CovLPN/core/wht"
)

// Spectrum summarises the magnitudes of a transformed distribution.
type Spectrum struct {
	Mean   float64
	StdDev float64
	Median float64
	// PeakZ is how many standard deviations the given peak lies above the mean.
	PeakZ float64
}

func GetMeanStdev(data []float64) (mean float64, stdev float64, err error) {
	if mean, err = stats.Mean(data); err != nil {
		return
	}
	stdev, err = stats.StandardDeviation(data)
	return
}

// SpectrumStats summarises |d| and scores the entry at peak against it.
func SpectrumStats(d wht.Distribution, peak int) (sp Spectrum, err error) {
	mags := wht.Magnitudes(d)
	if sp.Mean, sp.StdDev, err = GetMeanStdev(mags); err != nil {
		return
	}
	if sp.Median, err = stats.Median(mags); err != nil {
		return
	}
	if sp.StdDev > 0 {
		sp.PeakZ = (mags[peak] - sp.Mean) / sp.StdDev
	}
	return
}
