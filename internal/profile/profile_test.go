package profile

import (
	"math"
	"strings"
	"testing"

	"VolumeScope/internal/model"
)

func pts(rows ...[2]float64) []model.PricePoint {
	points := make([]model.PricePoint, len(rows))
	for i, r := range rows {
		points[i] = model.PricePoint{
			Date:   "2024-01-" + string(rune('0'+i/10)) + string(rune('0'+i%10)),
			Close:  r[0],
			Volume: r[1],
		}
	}
	return points
}

func TestComputeStatistics_ThreePointScenario(t *testing.T) {
	points := pts([2]float64{100, 100}, [2]float64{105, 500}, [2]float64{110, 100})
	stats, err := ComputeStatistics(points, Options{NumBins: 10})
	if err != nil {
		t.Fatal(err)
	}

	if len(stats.Zones) != 10 {
		t.Fatalf("expected 10 zones, got %d", len(stats.Zones))
	}
	if stats.BinWidth != 1 {
		t.Errorf("expected bin width 1, got %g", stats.BinWidth)
	}

	// 105 lands in zone 5 with the dominant volume.
	if stats.POC == nil {
		t.Fatal("expected a POC")
	}
	if math.Abs(stats.POC.Price-105.5) > 1e-9 {
		t.Errorf("expected POC mid 105.5, got %g", stats.POC.Price)
	}
	if stats.POC.Volume != 500 {
		t.Errorf("expected POC volume 500, got %g", stats.POC.Volume)
	}

	// 500 of 700 already covers the 70% target: value area is zone 5 alone.
	if stats.ValueAreaLow != 105 || stats.ValueAreaHigh != 106 {
		t.Errorf("expected value area [105, 106], got [%g, %g]", stats.ValueAreaLow, stats.ValueAreaHigh)
	}

	// Only zone 5 exceeds 1.5x the average zone volume.
	if len(stats.HighVolumeNodes) != 1 {
		t.Fatalf("expected 1 HVN, got %d", len(stats.HighVolumeNodes))
	}
	if hvn := stats.HighVolumeNodes[0]; hvn.MinPrice != 105 || hvn.MaxPrice != 106 || hvn.Strength != 1 {
		t.Errorf("unexpected HVN: %+v", hvn)
	}

	// The outer zones hold 100 each, above the 0.5x average threshold.
	if len(stats.LowVolumeNodes) != 0 {
		t.Errorf("expected no LVNs, got %d", len(stats.LowVolumeNodes))
	}
}

func TestComputeStatistics_ZoneVolumeConservation(t *testing.T) {
	points := pts(
		[2]float64{100, 120}, [2]float64{103.7, 80}, [2]float64{101.2, 340},
		[2]float64{108.9, 55}, [2]float64{110, 200}, [2]float64{105.5, 90},
	)
	stats, err := ComputeStatistics(points, Options{NumBins: 7})
	if err != nil {
		t.Fatal(err)
	}

	sum, pctSum := 0.0, 0.0
	for _, z := range stats.Zones {
		sum += z.Volume
		pctSum += z.VolumePercent
	}
	if math.Abs(sum-stats.TotalVolume) > 1e-9 {
		t.Errorf("zone volumes sum to %g, total is %g", sum, stats.TotalVolume)
	}
	if math.Abs(pctSum-1) > 1e-9 {
		t.Errorf("zone percents sum to %g, expected 1", pctSum)
	}

	// The value area always brackets the POC.
	if stats.POC.Price < stats.ValueAreaLow || stats.POC.Price > stats.ValueAreaHigh {
		t.Errorf("POC %g outside value area [%g, %g]", stats.POC.Price, stats.ValueAreaLow, stats.ValueAreaHigh)
	}
}

func TestComputeStatistics_AdjacentHVNsMerge(t *testing.T) {
	points := pts([2]float64{100, 400}, [2]float64{101, 400}, [2]float64{110, 10})
	stats, err := ComputeStatistics(points, Options{NumBins: 10})
	if err != nil {
		t.Fatal(err)
	}

	if len(stats.HighVolumeNodes) != 1 {
		t.Fatalf("expected adjacent heavy zones to merge into 1 node, got %d", len(stats.HighVolumeNodes))
	}
	hvn := stats.HighVolumeNodes[0]
	if hvn.MinPrice != 100 || hvn.MaxPrice != 102 {
		t.Errorf("expected merged range [100, 102], got [%g, %g]", hvn.MinPrice, hvn.MaxPrice)
	}
	if hvn.Volume != 800 {
		t.Errorf("expected merged volume 800, got %g", hvn.Volume)
	}

	// The far thin zone qualifies as an LVN.
	if len(stats.LowVolumeNodes) != 1 {
		t.Errorf("expected 1 LVN, got %d", len(stats.LowVolumeNodes))
	}
}

func TestComputeStatistics_DistantHVNsStaySeparate(t *testing.T) {
	points := pts([2]float64{100, 300}, [2]float64{110, 300}, [2]float64{105, 10})
	stats, err := ComputeStatistics(points, Options{NumBins: 10})
	if err != nil {
		t.Fatal(err)
	}
	if len(stats.HighVolumeNodes) != 2 {
		t.Fatalf("expected 2 separate HVN clusters, got %d", len(stats.HighVolumeNodes))
	}
}

func TestComputeStatistics_FlatSeries(t *testing.T) {
	points := pts([2]float64{50, 100}, [2]float64{50, 200}, [2]float64{50, 300})
	stats, err := ComputeStatistics(points, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(stats.Zones) != 1 {
		t.Fatalf("expected one degenerate zone, got %d", len(stats.Zones))
	}
	if stats.Zones[0].Volume != 600 || stats.Zones[0].VolumePercent != 1 {
		t.Errorf("unexpected degenerate zone: %+v", stats.Zones[0])
	}
	if stats.POC == nil || stats.POC.Price != 50 {
		t.Errorf("expected POC at 50, got %+v", stats.POC)
	}
	if stats.ValueAreaLow != 50 || stats.ValueAreaHigh != 50 {
		t.Errorf("expected collapsed value area, got [%g, %g]", stats.ValueAreaLow, stats.ValueAreaHigh)
	}
}

func TestComputeStatistics_EmptySeries(t *testing.T) {
	stats, err := ComputeStatistics(nil, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if stats != nil {
		t.Errorf("expected nil stats for empty series, got %+v", stats)
	}
}

func TestComputeStatistics_InvalidOptions(t *testing.T) {
	if _, err := ComputeStatistics(pts([2]float64{1, 1}), Options{NumBins: -5}); err == nil {
		t.Error("expected error for negative bin count")
	}
	if _, err := ComputeStatistics(pts([2]float64{1, 1}), Options{ValueAreaFraction: 1.5}); err == nil {
		t.Error("expected error for value area fraction > 1")
	}
}

func TestComputeStatistics_POCTieFirstWins(t *testing.T) {
	// Equal volume in the first and last zone: the lower-priced zone wins.
	points := pts([2]float64{100, 300}, [2]float64{110, 300})
	stats, err := ComputeStatistics(points, Options{NumBins: 10})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(stats.POC.Price-100.5) > 1e-9 {
		t.Errorf("expected tie to resolve to the first zone (mid 100.5), got %g", stats.POC.Price)
	}
}

func TestCompareProfiles_ConcentrationRatio(t *testing.T) {
	tight := pts([2]float64{100, 1000}, [2]float64{105, 10}, [2]float64{110, 10})
	spread := make([]model.PricePoint, 10)
	for i := range spread {
		spread[i] = model.PricePoint{
			Date:   "2024-02-0" + string(rune('0'+i)),
			Close:  100 + float64(i),
			Volume: 100,
		}
	}

	cmp, err := CompareProfiles(tight, spread, Options{NumBins: 10})
	if err != nil {
		t.Fatal(err)
	}
	if cmp.POCVolumeShareRatio <= 1.2 {
		t.Errorf("expected tight profile to dominate, ratio %g", cmp.POCVolumeShareRatio)
	}
	if !strings.Contains(cmp.Interpretation, "first profile concentrates") {
		t.Errorf("unexpected interpretation: %s", cmp.Interpretation)
	}
}

func TestCompareProfiles_EmptySide(t *testing.T) {
	cmp, err := CompareProfiles(nil, pts([2]float64{1, 1}), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if cmp != nil {
		t.Errorf("expected nil comparison when one side is empty, got %+v", cmp)
	}
}
