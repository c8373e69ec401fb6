package series

import "VolumeScope/internal/model"

// FindTurningPoints returns strict local extrema of the closes over a
// symmetric window. Index i is a max (resp. min) iff closes[i] strictly
// exceeds (resp. is strictly below) every neighbor within ±window;
// any tie disqualifies the candidate.
func FindTurningPoints(closes []float64, window int) []model.TurningPoint {
	if window <= 0 || len(closes) < 2*window+1 {
		return nil
	}

	var points []model.TurningPoint
	for i := window; i < len(closes)-window; i++ {
		isMax, isMin := true, true
		for j := -window; j <= window; j++ {
			if j == 0 {
				continue
			}
			if closes[i] <= closes[i+j] {
				isMax = false
			}
			if closes[i] >= closes[i+j] {
				isMin = false
			}
			if !isMax && !isMin {
				break
			}
		}
		switch {
		case isMax:
			points = append(points, model.TurningPoint{Index: i, Type: model.TurningPointMax, Value: closes[i]})
		case isMin:
			points = append(points, model.TurningPoint{Index: i, Type: model.TurningPointMin, Value: closes[i]})
		}
	}
	return points
}
