package breakout

import (
	"fmt"
	"math"
	"testing"

	"VolumeScope/internal/model"
)

// twoShelfSeries builds 80 bars alternating between two heavily traded
// price levels, then one thin bar far above both. The cumulative
// profile at the last bar has two dominant support zones below a
// near-empty current zone, which is the up-break setup.
func twoShelfSeries() []model.PricePoint {
	points := make([]model.PricePoint, 0, 81)
	for i := 0; i < 80; i++ {
		price := 100.0
		if i%2 == 1 {
			price = 102.0
		}
		points = append(points, model.PricePoint{
			Date:   fmt.Sprintf("d%03d", i),
			Close:  price,
			Volume: 10,
		})
	}
	points = append(points, model.PricePoint{Date: "d080", Close: 120, Volume: 1})
	return points
}

func flatSeries(n int) []model.PricePoint {
	points := make([]model.PricePoint, n)
	for i := range points {
		points[i] = model.PricePoint{Date: fmt.Sprintf("d%03d", i), Close: 100, Volume: 10}
	}
	return points
}

func TestDetectBreaks_ThinZoneUpBreak(t *testing.T) {
	result := DetectBreaks(twoShelfSeries(), ZoomRange{}, nil, Config{})

	if len(result.Breaks) != 1 {
		t.Fatalf("expected exactly 1 break, got %d: %+v", len(result.Breaks), result.Breaks)
	}
	br := result.Breaks[0]
	if !br.IsUpBreak {
		t.Error("expected an up-break")
	}
	if br.Date != "d080" || br.Price != 120 {
		t.Errorf("expected break at d080 @ 120, got %s @ %g", br.Date, br.Price)
	}
	if br.WindowIndex != 0 {
		t.Errorf("expected window index 0, got %d", br.WindowIndex)
	}

	// The nearest dominant shelf is the 102 zone; its upper bound is
	// two bins above the 100 floor of a 15-zone layout over [100, 120].
	wantSupport := 100 + 2*(20.0/15.0)
	if math.Abs(br.SupportLevel-wantSupport) > 1e-6 {
		t.Errorf("expected support level %g, got %g", wantSupport, br.SupportLevel)
	}
	if br.TriggeringZoneWeight >= 0.01 {
		t.Errorf("expected a thin triggering zone, weight %g", br.TriggeringZoneWeight)
	}

	if len(result.Windows) != 1 {
		t.Fatalf("expected 1 window, got %d", len(result.Windows))
	}
	if w := result.Windows[0]; w.StartIndex != 0 || w.EndIndex != 80 {
		t.Errorf("expected window [0, 80], got [%d, %d]", w.StartIndex, w.EndIndex)
	}
}

func TestDetectBreaks_WarmupSuppresses(t *testing.T) {
	// Same shape but trimmed below the warmup length: nothing may fire.
	points := twoShelfSeries()[:50]
	points[49] = model.PricePoint{Date: "d049", Close: 120, Volume: 1}

	result := DetectBreaks(points, ZoomRange{}, nil, Config{})
	if len(result.Breaks) != 0 {
		t.Errorf("expected no breaks before warmup, got %+v", result.Breaks)
	}
}

func TestDetectBreaks_SplitOnBreakStartsNewWindow(t *testing.T) {
	points := twoShelfSeries()
	for i := 81; i <= 160; i++ {
		points = append(points, model.PricePoint{Date: fmt.Sprintf("d%03d", i), Close: 110, Volume: 10})
	}

	result := DetectBreaks(points, ZoomRange{}, nil, Config{SplitOnBreak: true})
	if len(result.Breaks) != 1 {
		t.Fatalf("expected 1 break, got %d", len(result.Breaks))
	}
	if len(result.Windows) != 2 {
		t.Fatalf("expected the break to split into 2 windows, got %d", len(result.Windows))
	}
	if result.Windows[0].EndIndex != 80 || result.Windows[1].StartIndex != 81 {
		t.Errorf("expected windows to split at the break: %+v", result.Windows)
	}
	if result.Windows[1].EndIndex != 160 {
		t.Errorf("expected second window to reach series end, got %d", result.Windows[1].EndIndex)
	}
}

func TestDetectBreaks_SplitDates(t *testing.T) {
	result := DetectBreaks(flatSeries(200), ZoomRange{}, []string{"d099"}, Config{})
	if len(result.Windows) != 2 {
		t.Fatalf("expected 2 windows, got %d", len(result.Windows))
	}
	if result.Windows[0].EndIndex != 99 || result.Windows[1].StartIndex != 100 {
		t.Errorf("expected split at d099: %+v", result.Windows)
	}
	if len(result.Breaks) != 0 {
		t.Errorf("flat series must not break, got %+v", result.Breaks)
	}
}

func TestDetectBreaks_ZoomRange(t *testing.T) {
	result := DetectBreaks(flatSeries(100), ZoomRange{From: 10, To: 20}, nil, Config{})
	if len(result.Windows) != 1 {
		t.Fatalf("expected 1 window, got %d", len(result.Windows))
	}
	if w := result.Windows[0]; w.StartIndex != 10 || w.EndIndex != 19 {
		t.Errorf("expected window [10, 19], got [%d, %d]", w.StartIndex, w.EndIndex)
	}
}

func TestDetectBreaks_RisingSeriesNeverBreaksDown(t *testing.T) {
	points := make([]model.PricePoint, 120)
	for i := range points {
		points[i] = model.PricePoint{Date: fmt.Sprintf("d%03d", i), Close: 100 + float64(i), Volume: 10}
	}
	result := DetectBreaks(points, ZoomRange{}, nil, Config{})
	for _, br := range result.Breaks {
		if !br.IsUpBreak {
			t.Errorf("monotonic rise produced a breakdown: %+v", br)
		}
	}
}

func TestDetectBreaks_EmptySeries(t *testing.T) {
	result := DetectBreaks(nil, ZoomRange{}, nil, Config{})
	if len(result.Windows) != 0 || len(result.Breaks) != 0 {
		t.Errorf("expected empty result, got %+v", result)
	}
}

func TestSplitVariant_Profile(t *testing.T) {
	cfg := SplitVariant()
	if cfg.WarmupSize != 150 || cfg.Differential != 0.08 {
		t.Errorf("unexpected split profile: %+v", cfg)
	}
	if !cfg.SplitOnBreak || !cfg.MergeAdjacent {
		t.Error("split profile must split on break and merge adjacent zones")
	}
	if cfg.Lookback != 10 || cfg.ThinningZones != 3 || cfg.SupportMinWeight != 0.10 {
		t.Errorf("shared defaults missing: %+v", cfg)
	}
}
