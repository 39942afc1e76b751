package stats

import (
	"fmt"
	"io"
	"slices"

	"github.com/aybabtme/uniplot/histogram"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// DefaultConfidence is the confidence, in percent, used for the interval
// around the mean.
const DefaultConfidence = 95.0

// Summary describes a finished batch of values.
type Summary struct {
	N      int
	Mean   float64
	Stdev  float64
	Min    float64
	Max    float64
	Median float64
	// CILow and CIHigh bound the mean at the requested confidence.
	CILow  float64
	CIHigh float64
}

// Summarize computes a Summary of values at the given confidence, in
// percent. An empty input gives a zero Summary.
func Summarize(values []float64, confidence float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)

	mean, std := stat.MeanStdDev(sorted, nil)
	if len(sorted) == 1 {
		std = 0
	}
	sm := Summary{
		N:      len(sorted),
		Mean:   mean,
		Stdev:  std,
		Min:    floats.Min(sorted),
		Max:    floats.Max(sorted),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
	}
	stderr := stat.StdErr(std, float64(len(sorted)))
	z := ZVal(confidence)
	sm.CILow = mean - z*stderr
	sm.CIHigh = mean + z*stderr
	return sm
}

func (s Summary) String() string {
	return fmt.Sprintf("n=%d mean=%.3f stdev=%.3f min=%.0f median=%.1f max=%.0f ci=[%.3f, %.3f]",
		s.N, s.Mean, s.Stdev, s.Min, s.Median, s.Max, s.CILow, s.CIHigh)
}

// Histogram prints values bucketed into bins, with bars scaled to width
// characters.
func Histogram(w io.Writer, values []float64, bins, width int) error {
	if len(values) == 0 {
		_, err := fmt.Fprintln(w, "(no values)")
		return err
	}
	h := histogram.Hist(bins, values)
	return histogram.Fprint(w, h, histogram.Linear(width))
}
