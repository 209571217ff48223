// Package mathutil provides the float statistics helpers used by the
// performance report: plain averages and deviations plus the exponentially
// weighted variants evaluated at the final sample
package mathutil

import "math"

// ArithmeticMean is the basic form of calculating an average.
// Divide the sum of all values by the length of values
func ArithmeticMean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for x := range values {
		sum += values[x]
	}
	return sum / float64(len(values))
}

// SampleStandardDeviation measures the dispersion of a dataset relative to
// its mean and is calculated as the square root of the sample variance
func SampleStandardDeviation(values []float64) float64 {
	if len(values) <= 1 {
		return 0
	}
	mean := ArithmeticMean(values)
	var combined float64
	for i := range values {
		combined += math.Pow(values[i]-mean, 2)
	}
	return math.Sqrt(combined / (float64(len(values)) - 1))
}

// ewmWeights returns the decayed observation weights for the final sample of
// a series under the supplied half life. The most recent observation carries
// weight 1, each older observation is scaled by the decay factor
func ewmWeights(n int, halfLife float64) []float64 {
	decay := math.Exp(math.Log(0.5) / halfLife)
	weights := make([]float64, n)
	for i := 0; i < n; i++ {
		weights[i] = math.Pow(decay, float64(n-1-i))
	}
	return weights
}

// EWMMean returns the exponentially weighted mean of values at the final
// sample with the supplied half life
func EWMMean(values []float64, halfLife float64) float64 {
	if len(values) == 0 || halfLife <= 0 {
		return 0
	}
	weights := ewmWeights(len(values), halfLife)
	var weighted, total float64
	for i := range values {
		weighted += weights[i] * values[i]
		total += weights[i]
	}
	if total == 0 {
		return 0
	}
	return weighted / total
}

// EWMStandardDeviation returns the bias corrected exponentially weighted
// standard deviation of values at the final sample
func EWMStandardDeviation(values []float64, halfLife float64) float64 {
	if len(values) <= 1 || halfLife <= 0 {
		return 0
	}
	weights := ewmWeights(len(values), halfLife)
	mean := EWMMean(values, halfLife)
	var weightedVar, total, totalSquared float64
	for i := range values {
		weightedVar += weights[i] * math.Pow(values[i]-mean, 2)
		total += weights[i]
		totalSquared += weights[i] * weights[i]
	}
	denominator := total*total - totalSquared
	if denominator <= 0 {
		return 0
	}
	return math.Sqrt(weightedVar / total * (total * total / denominator))
}

// ZeroNaN coerces NaN and infinite values to zero so degenerate inputs never
// leak non-finite numbers into a report
func ZeroNaN(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// RoundToTick rounds a price to the nearest multiple of the instrument price
// tick. A zero tick leaves the price untouched
func RoundToTick(price, tick float64) float64 {
	if tick <= 0 {
		return price
	}
	return math.Round(price/tick) * tick
}
