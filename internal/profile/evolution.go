package profile

import (
	"errors"

	"VolumeScope/internal/model"
	"VolumeScope/internal/series"
)

var errNegativeWindow = errors.New("window and step sizes must be non-negative")

// Value-area width trends.
const (
	TrendExpanding   = "expanding"
	TrendContracting = "contracting"
	TrendStable      = "stable"

	trendChangeThreshold = 0.05
)

// EvolutionOptions configures the sliding-window evolution analysis.
type EvolutionOptions struct {
	WindowSize int // points per window, default 60
	StepSize   int // window advance per step, default 10
	NumBins    int // zones per window profile, default 20
}

func (o EvolutionOptions) withDefaults() EvolutionOptions {
	if o.WindowSize == 0 {
		o.WindowSize = 60
	}
	if o.StepSize == 0 {
		o.StepSize = 10
	}
	if o.NumBins == 0 {
		o.NumBins = 20
	}
	return o
}

// WindowStats is one window's profile within an evolution analysis.
type WindowStats struct {
	StartIndex int
	EndIndex   int
	Stats      *model.ProfileStats
}

// Evolution tracks how profile landmarks drift as the series evolves.
type Evolution struct {
	Windows        []WindowStats
	POCVolatility  float64 // population stddev of POC price across windows
	ValueAreaTrend string  // expanding, contracting, or stable
}

// AnalyzeEvolution slides a window over the series, recomputes the
// profile per window, and classifies how the value area width drifts.
// A series shorter than one window yields an empty result.
func AnalyzeEvolution(points []model.PricePoint, opts EvolutionOptions) (*Evolution, error) {
	opts = opts.withDefaults()
	if opts.WindowSize < 0 || opts.StepSize < 0 {
		return nil, errNegativeWindow
	}

	points = series.Normalize(points)
	evo := &Evolution{ValueAreaTrend: TrendStable}
	if len(points) < opts.WindowSize {
		return evo, nil
	}

	var pocPrices []float64
	for start := 0; start+opts.WindowSize <= len(points); start += opts.StepSize {
		window := points[start : start+opts.WindowSize]
		stats, err := ComputeStatistics(window, Options{NumBins: opts.NumBins})
		if err != nil {
			return nil, err
		}
		evo.Windows = append(evo.Windows, WindowStats{
			StartIndex: start,
			EndIndex:   start + opts.WindowSize - 1,
			Stats:      stats,
		})
		if stats.POC != nil {
			pocPrices = append(pocPrices, stats.POC.Price)
		}
	}

	evo.POCVolatility = series.StdDev(pocPrices)

	if len(evo.Windows) >= 2 {
		first := evo.Windows[0].Stats
		last := evo.Windows[len(evo.Windows)-1].Stats
		firstWidth := first.ValueAreaHigh - first.ValueAreaLow
		lastWidth := last.ValueAreaHigh - last.ValueAreaLow
		if firstWidth > 0 {
			change := (lastWidth - firstWidth) / firstWidth
			switch {
			case change > trendChangeThreshold:
				evo.ValueAreaTrend = TrendExpanding
			case change < -trendChangeThreshold:
				evo.ValueAreaTrend = TrendContracting
			}
		}
	}
	return evo, nil
}
