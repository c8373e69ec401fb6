package collector

import (
	"fmt"
	"math"
	"time"

	"VolumeScope/internal/model"
	"VolumeScope/internal/series"
)

// MockFetcher returns controllable fixed data for development and
// testing.
type MockFetcher struct {
	Points    []model.PricePoint
	BasePrice float64
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyPoints(_ string, days int) ([]model.PricePoint, error) {
	if m.Points != nil {
		return m.Points, nil
	}
	return GenerateMockSeries(m.BasePrice, days), nil
}

// GenerateMockSeries builds a gently oscillating synthetic series
// around the base price with varying volume.
func GenerateMockSeries(basePrice float64, count int) []model.PricePoint {
	points := make([]model.PricePoint, count)
	start := time.Now().AddDate(0, 0, -count)
	for i := 0; i < count; i++ {
		wave := math.Sin(float64(i) / 9.0)
		points[i] = model.PricePoint{
			Date:   start.AddDate(0, 0, i).Format("2006-01-02"),
			Close:  basePrice * (1 + 0.03*wave + float64(i)*0.0004),
			Volume: 1000000 * (1 + 0.5*math.Abs(wave)),
		}
	}
	return points
}

// Collector fetches a price series and normalizes it for the analysis
// pipeline.
type Collector struct {
	Fetcher Fetcher
	Symbol  string
	Days    int
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, symbol string, days int) *Collector {
	return &Collector{Fetcher: fetcher, Symbol: symbol, Days: days}
}

// Collect fetches the series and enforces the pipeline preconditions:
// ascending-date order and unique dates.
func (c *Collector) Collect() ([]model.PricePoint, error) {
	points, err := c.Fetcher.FetchDailyPoints(c.Symbol, c.Days)
	if err != nil {
		return nil, fmt.Errorf("fetch daily points: %w", err)
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("fetcher %s returned no points for %s", c.Fetcher.Name(), c.Symbol)
	}

	points = series.Normalize(points)
	for i := 1; i < len(points); i++ {
		if points[i].Date == points[i-1].Date {
			return nil, fmt.Errorf("duplicate date %s in series", points[i].Date)
		}
	}
	return points, nil
}
