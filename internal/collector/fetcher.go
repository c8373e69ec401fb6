package collector

import "VolumeScope/internal/model"

// Fetcher defines the interface for fetching a daily price series.
type Fetcher interface {
	FetchDailyPoints(symbol string, days int) ([]model.PricePoint, error)
	Name() string
}
