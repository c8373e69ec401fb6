package profile

import (
	"fmt"

	"VolumeScope/internal/model"
)

// Comparison relates two independently computed profiles.
type Comparison struct {
	StatsA              *model.ProfileStats
	StatsB              *model.ProfileStats
	POCVolumeShareRatio float64 // A's POC volume share over B's
	HVNCountRatio       float64 // A's HVN count over B's
	Interpretation      string
}

// CompareProfiles computes statistics for two series independently and
// relates their volume concentration. Either series being empty yields
// a nil comparison.
func CompareProfiles(a, b []model.PricePoint, opts Options) (*Comparison, error) {
	statsA, err := ComputeStatistics(a, opts)
	if err != nil {
		return nil, err
	}
	statsB, err := ComputeStatistics(b, opts)
	if err != nil {
		return nil, err
	}
	if statsA == nil || statsB == nil {
		return nil, nil
	}

	cmp := &Comparison{StatsA: statsA, StatsB: statsB}

	if statsB.POC != nil && statsB.POC.VolumePercent > 0 && statsA.POC != nil {
		cmp.POCVolumeShareRatio = statsA.POC.VolumePercent / statsB.POC.VolumePercent
	}
	if n := len(statsB.HighVolumeNodes); n > 0 {
		cmp.HVNCountRatio = float64(len(statsA.HighVolumeNodes)) / float64(n)
	}

	cmp.Interpretation = interpret(cmp)
	return cmp, nil
}

func interpret(cmp *Comparison) string {
	switch {
	case cmp.POCVolumeShareRatio > 1.2:
		return fmt.Sprintf("first profile concentrates %.1fx more volume at its point of control; acceptance is tighter", cmp.POCVolumeShareRatio)
	case cmp.POCVolumeShareRatio > 0 && cmp.POCVolumeShareRatio < 0.8:
		return fmt.Sprintf("second profile concentrates volume more tightly (ratio %.2f); first is more dispersed", cmp.POCVolumeShareRatio)
	case cmp.HVNCountRatio > 1.5:
		return "first profile shows more high-volume shelves; expect slower traversal of its range"
	case cmp.HVNCountRatio > 0 && cmp.HVNCountRatio < 0.67:
		return "second profile shows more high-volume shelves; expect slower traversal of its range"
	default:
		return "profiles show comparable volume concentration"
	}
}
