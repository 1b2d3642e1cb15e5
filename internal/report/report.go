// Package report builds the result tables of an analysis run: campaign
// performance, frequency impact, client engagement, optimal frequency and
// monthly trends.
package report

import "math"

// round2 rounds to two decimal places, the precision of every rate and
// currency output.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// pct returns num/den as a percentage rounded to two decimals. The caller
// must ensure den is non-zero.
func pct(num, den float64) float64 {
	return round2(num / den * 100)
}

// pctOrNil returns num/den×100 rounded, or nil when the denominator is
// zero. A zero denominator is an undefined ratio, not a zero rate.
func pctOrNil(num, den float64) *float64 {
	if den == 0 {
		return nil
	}
	v := pct(num, den)
	return &v
}

// sampleStddev returns the sample standard deviation of values, or nil for
// fewer than two samples.
func sampleStddev(values []float64) *float64 {
	n := len(values)
	if n < 2 {
		return nil
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(n)
	var ss float64
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	sd := round2(math.Sqrt(ss / float64(n-1)))
	return &sd
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
