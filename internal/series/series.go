package series

import "VolumeScope/internal/model"

// Normalize returns the points in ascending-date order. Callers may
// supply newest-first data; a single reversing pass fixes it. The
// input slice is never mutated. Dates are assumed unique within one
// series.
func Normalize(points []model.PricePoint) []model.PricePoint {
	if len(points) < 2 || points[0].Date <= points[len(points)-1].Date {
		return points
	}
	out := make([]model.PricePoint, len(points))
	for i, p := range points {
		out[len(points)-1-i] = p
	}
	return out
}

// Closes extracts the close prices of the given points.
func Closes(points []model.PricePoint) []float64 {
	closes := make([]float64, len(points))
	for i, p := range points {
		closes[i] = p.Close
	}
	return closes
}

// PriceRange returns the minimum and maximum close over the points.
// ok is false for an empty input.
func PriceRange(points []model.PricePoint) (min, max float64, ok bool) {
	if len(points) == 0 {
		return 0, 0, false
	}
	min, max = points[0].Close, points[0].Close
	for _, p := range points[1:] {
		if p.Close < min {
			min = p.Close
		}
		if p.Close > max {
			max = p.Close
		}
	}
	return min, max, true
}

// TotalVolume sums the volume of the given points.
func TotalVolume(points []model.PricePoint) float64 {
	total := 0.0
	for _, p := range points {
		total += p.Volume
	}
	return total
}
