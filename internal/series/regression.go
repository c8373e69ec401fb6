package series

import (
	"errors"
	"math"
)

// ErrInsufficientData is returned when a regression is requested over
// fewer than two values.
var ErrInsufficientData = errors.New("at least 2 values required for regression")

// LinearRegression computes the ordinary-least-squares fit of the
// values against their indexes: value ≈ slope*i + intercept.
func LinearRegression(values []float64) (slope, intercept float64, err error) {
	n := len(values)
	if n < 2 {
		return 0, 0, ErrInsufficientData
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, v := range values {
		x := float64(i)
		sumX += x
		sumY += v
		sumXY += x * v
		sumXX += x * x
	}

	fn := float64(n)
	denom := fn*sumXX - sumX*sumX
	if denom == 0 {
		return 0, 0, ErrInsufficientData
	}
	slope = (fn*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / fn
	return slope, intercept, nil
}

// ResidualStdDev returns the population standard deviation of the
// residuals against the given regression line.
func ResidualStdDev(values []float64, slope, intercept float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sumSq float64
	for i, v := range values {
		r := v - (slope*float64(i) + intercept)
		sumSq += r * r
	}
	return math.Sqrt(sumSq / float64(len(values)))
}

// RSquared returns the coefficient of determination of the regression
// line against the values. A flat series yields 0.
func RSquared(values []float64, slope, intercept float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	var ssTot, ssRes float64
	for i, v := range values {
		ssTot += (v - mean) * (v - mean)
		r := v - (slope*float64(i) + intercept)
		ssRes += r * r
	}
	if ssTot == 0 {
		return 0
	}
	return 1 - ssRes/ssTot
}

// StdDev returns the population standard deviation of the values.
func StdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	var sumSq float64
	for _, v := range values {
		sumSq += (v - mean) * (v - mean)
	}
	return math.Sqrt(sumSq / float64(len(values)))
}
