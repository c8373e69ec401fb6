package profile

import (
	"testing"

	"VolumeScope/internal/model"
)

func evoSeries(closes []float64) []model.PricePoint {
	points := make([]model.PricePoint, len(closes))
	for i, c := range closes {
		points[i] = model.PricePoint{
			Date:   "2024-03-" + string(rune('0'+i/10)) + string(rune('0'+i%10)),
			Close:  c,
			Volume: 1,
		}
	}
	return points
}

func TestAnalyzeEvolution_ExpandingValueArea(t *testing.T) {
	// First window oscillates in a 1-point band, the second in a
	// 10-point band: the value area must widen.
	closes := []float64{100, 101, 100, 101, 100, 110, 100, 110}
	evo, err := AnalyzeEvolution(evoSeries(closes), EvolutionOptions{WindowSize: 4, StepSize: 4, NumBins: 4})
	if err != nil {
		t.Fatal(err)
	}
	if len(evo.Windows) != 2 {
		t.Fatalf("expected 2 windows, got %d", len(evo.Windows))
	}
	if evo.ValueAreaTrend != TrendExpanding {
		t.Errorf("expected expanding trend, got %s", evo.ValueAreaTrend)
	}
	if evo.POCVolatility <= 0 {
		t.Errorf("expected positive POC volatility, got %g", evo.POCVolatility)
	}
}

func TestAnalyzeEvolution_FlatSeriesIsStable(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 42
	}
	evo, err := AnalyzeEvolution(evoSeries(closes), EvolutionOptions{WindowSize: 10, StepSize: 5, NumBins: 5})
	if err != nil {
		t.Fatal(err)
	}
	if evo.ValueAreaTrend != TrendStable {
		t.Errorf("expected stable trend, got %s", evo.ValueAreaTrend)
	}
	if evo.POCVolatility != 0 {
		t.Errorf("expected zero POC volatility, got %g", evo.POCVolatility)
	}
	if len(evo.Windows) != 5 {
		t.Errorf("expected 5 windows, got %d", len(evo.Windows))
	}
}

func TestAnalyzeEvolution_SeriesShorterThanWindow(t *testing.T) {
	evo, err := AnalyzeEvolution(evoSeries([]float64{1, 2, 3}), EvolutionOptions{WindowSize: 10})
	if err != nil {
		t.Fatal(err)
	}
	if len(evo.Windows) != 0 || evo.ValueAreaTrend != TrendStable {
		t.Errorf("expected empty stable result, got %+v", evo)
	}
}

func TestAnalyzeEvolution_NegativeOptions(t *testing.T) {
	if _, err := AnalyzeEvolution(evoSeries([]float64{1, 2}), EvolutionOptions{WindowSize: -1}); err == nil {
		t.Error("expected error for negative window size")
	}
}
