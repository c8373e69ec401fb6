package model

// TurningPointType marks a local extremum kind.
type TurningPointType string

const (
	TurningPointMax TurningPointType = "max"
	TurningPointMin TurningPointType = "min"
)

// TurningPoint is a strict local price extremum over a symmetric
// neighborhood. Derived once per series and shared read-only.
type TurningPoint struct {
	Index int              `json:"index"`
	Type  TurningPointType `json:"type"`
	Value float64          `json:"value"`
}

// Channel is a regression line plus symmetric band fit to a price
// segment, scored by how many turning points touch its boundaries.
type Channel struct {
	StartIndex         int     `json:"startIndex"`
	EndIndex           int     `json:"endIndex"`
	Slope              float64 `json:"slope"`
	Intercept          float64 `json:"intercept"`
	StdDev             float64 `json:"stdDev"`
	StdevMultiplier    float64 `json:"stdevMultiplier"`
	TouchCount         int     `json:"touchCount"`
	TurningPointsCount int     `json:"turningPointsCount"`
	Length             int     `json:"length"`
}
