package model

// PricePoint represents one observation of a daily price series.
// Date is an ISO date string (YYYY-MM-DD), unique within a series.
// High and Low are optional and left zero when the source lacks them.
type PricePoint struct {
	Date   string  `json:"date"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
	High   float64 `json:"high,omitempty"`
	Low    float64 `json:"low,omitempty"`
}
