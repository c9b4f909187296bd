// Package report formats solver results for the console and as HTML charts.
package report

import (
	"fmt"
	"io"

	"github.com/KAIST-CryptLab/CovLPN/core/gf2"
	"github.com/KAIST-CryptLab/CovLPN/solver"
)

var success = map[bool]string{true: "Success", false: "Fail"}

// PrintParameters writes the configuration of a run.
func PrintParameters(w io.Writer, res *solver.Result) error {
	p := res.Params
	_, err := fmt.Fprintf(w,
		"Query Length      : %d\n"+
			"Information Span  : %d (repetition %d, %d blocks per lookup)\n"+
			"Threshold         : %d\n"+
			"Secret Weight     : %d\n"+
			"Required Samples  : %d\n"+
			"Error Ratio       : %.6f\n",
		p.QueryLength(), p.InformationSpan(), p.RepetitionFactor(), p.TableFactor(),
		p.Threshold(), p.SecretWeight(), p.RequiredSamples(), p.ErrorRatio())
	if err != nil {
		return err
	}
	if p.BKWIterations() > 0 {
		_, err = fmt.Fprintf(w, "BKW               : %d iterations from %.6f\n", p.BKWIterations(), p.BaseErrorRatio())
	}
	return err
}

// PrintResult writes the bit patterns, statistics and timings of a run.
func PrintResult(w io.Writer, res *solver.Result) error {
	k, span := res.Params.QueryLength(), res.Params.InformationSpan()
	lines := []struct {
		format string
		args   []interface{}
	}{
		{"Secret            : %s\n", []interface{}{res.Secret.String(k)}},
		{"Projection        : %s\n", []interface{}{gf2.Word(res.Projection).String(span)}},
		{"Candidate         : %s (%s)\n", []interface{}{gf2.Word(res.Candidate).String(span), success[res.Success]}},
		{"Correlation       : %d (rank of projection %d, z = %.2f)\n", []interface{}{res.Magnitude, res.Rank, res.Spectrum.PeakZ}},
		{"Discarded         : %d (%.2f per sample)\n", []interface{}{res.Discarded, float64(res.Discarded) / float64(res.Samples)}},
		{"Mismatch          : %d correct, %d incorrect of %d\n", []interface{}{res.CorrectMismatch, res.IncorrectMismatch, res.Samples}},
		{"Empirical Bias    : %.6f (incorrect %.6f)\n", []interface{}{res.EmpiricalBias, res.IncorrectBias}},
		{"Theoretical Bias  : %.6f\n", []interface{}{res.TheoreticalBias}},
		{"Success Prob.     : %.4f empirical, %.4f theoretical\n", []interface{}{res.SuccessEmpirical, res.SuccessTheoretical}},
		{"log2 Samples      : %.2f\n", []interface{}{res.Log2Samples}},
		{"Time              : %v (table %v, sampling %v, histogram %v, transform %v, testing %v)\n", []interface{}{
			res.Timings.Total(), res.Timings.Table, res.Timings.Sampling, res.Timings.Histogram, res.Timings.Transform, res.Timings.Testing}},
	}
	for _, l := range lines {
		if _, err := fmt.Fprintf(w, l.format, l.args...); err != nil {
			return err
		}
	}
	return nil
}
