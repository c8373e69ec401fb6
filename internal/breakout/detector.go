package breakout

import (
	"math"

	"VolumeScope/internal/model"
	"VolumeScope/internal/series"
)

// Config tunes the windowed detector. The zero value takes the
// continuous-window defaults; SplitVariant returns the split-window
// profile. The two profiles are genuinely divergent in the wild, so
// both are kept configurable rather than collapsed into one.
type Config struct {
	WarmupSize       int     // observations required before gating, default 75
	Lookback         int     // non-zero zones scanned on the break side, default 10
	Differential     float64 // minimum weight excess of the two nearest zones, default 0.04
	SupportMinWeight float64 // minimum total weight of the strongest zone, default 0.10
	ThinningZones    int     // non-zero zones checked for monotonic thinning, default 3
	SplitOnBreak     bool    // end the window at the first confirmed break
	MergeAdjacent    bool    // merge adjacent non-zero zone pairs when testing the differential
}

func (c Config) withDefaults() Config {
	if c.WarmupSize == 0 {
		c.WarmupSize = 75
	}
	if c.Lookback == 0 {
		c.Lookback = 10
	}
	if c.Differential == 0 {
		c.Differential = 0.04
	}
	if c.SupportMinWeight == 0 {
		c.SupportMinWeight = 0.10
	}
	if c.ThinningZones == 0 {
		c.ThinningZones = 3
	}
	return c
}

// SplitVariant returns the split-window detector profile: a stricter
// differential with adjacent-pair merging, a longer warmup, and a new
// window after each confirmed break.
func SplitVariant() Config {
	return Config{
		WarmupSize:    150,
		Differential:  0.08,
		SplitOnBreak:  true,
		MergeAdjacent: true,
	}.withDefaults()
}

// ZoomRange restricts detection to a half-open index slice [From, To)
// over the ascending-order series. A zero To means the series end.
type ZoomRange struct {
	From int
	To   int
}

// Result holds the processed windows and the breaks found in them.
// Window indexes refer to the ascending-order series.
type Result struct {
	Windows []model.BreakWindow
	Breaks  []model.BreakSignal
}

// DetectBreaks scans the zoomed series for low-volume breakouts and
// breakdowns. The series is processed as one or more windows; a window
// ends at the next date present in splitDates (inclusive), at a break
// when cfg.SplitOnBreak is set, or at series end. Within a window each
// step re-bins the cumulative prefix and gates the current zone's
// weight against its neighborhood.
func DetectBreaks(points []model.PricePoint, zoom ZoomRange, splitDates []string, cfg Config) *Result {
	cfg = cfg.withDefaults()
	points = series.Normalize(points)

	from, to := zoom.From, zoom.To
	if to == 0 || to > len(points) {
		to = len(points)
	}
	if from < 0 {
		from = 0
	}
	result := &Result{}
	if from >= to {
		return result
	}
	sub := points[from:to]

	splitSet := make(map[string]bool, len(splitDates))
	for _, d := range splitDates {
		splitSet[d] = true
	}

	windowStart := 0
	for windowStart < len(sub) {
		windowEnd := len(sub) - 1
		for i := windowStart; i < len(sub); i++ {
			if splitSet[sub[i].Date] {
				windowEnd = i
				break
			}
		}

		end, breaks := scanWindow(sub[windowStart:windowEnd+1], len(result.Windows), cfg)
		windowEnd = windowStart + end

		result.Breaks = append(result.Breaks, breaks...)
		result.Windows = append(result.Windows, model.BreakWindow{
			StartIndex: from + windowStart,
			EndIndex:   from + windowEnd,
		})
		windowStart = windowEnd + 1
	}
	return result
}

// scanWindow walks one window, re-binning the cumulative prefix at
// each step. It returns the index (window-relative) where the window
// actually ended and the breaks confirmed in it.
func scanWindow(window []model.PricePoint, windowIndex int, cfg Config) (end int, breaks []model.BreakSignal) {
	end = len(window) - 1

	for i := range window {
		prefix := window[:i+1]
		layout, ok := binPrefix(prefix)
		if !ok {
			// Zero price range: one synthetic zone of weight 1.0, nothing to gate.
			continue
		}
		if i < cfg.WarmupSize {
			continue
		}

		current := layout.zoneIndex(window[i].Close)
		currentWeight := layout.weights[current]

		if sig, found := evaluateBreak(layout, current, currentWeight, true, cfg); found {
			sig.Date = window[i].Date
			sig.Price = window[i].Close
			sig.WindowIndex = windowIndex
			breaks = append(breaks, sig)
			if cfg.SplitOnBreak {
				return i, breaks
			}
			continue
		}
		if sig, found := evaluateBreak(layout, current, currentWeight, false, cfg); found {
			sig.Date = window[i].Date
			sig.Price = window[i].Close
			sig.WindowIndex = windowIndex
			breaks = append(breaks, sig)
			if cfg.SplitOnBreak {
				return i, breaks
			}
		}
	}
	return end, breaks
}

// zoneLayout is one prefix snapshot: equal-width zones over the
// prefix's close range with volume weights.
type zoneLayout struct {
	minPrice float64
	binWidth float64
	weights  []float64
}

func (l *zoneLayout) zoneIndex(price float64) int {
	idx := int(math.Floor((price - l.minPrice) / l.binWidth))
	if idx < 0 {
		idx = 0
	}
	if idx > len(l.weights)-1 {
		idx = len(l.weights) - 1
	}
	return idx
}

func (l *zoneLayout) zoneLowBound(idx int) float64 {
	return l.minPrice + float64(idx)*l.binWidth
}

func (l *zoneLayout) zoneHighBound(idx int) float64 {
	return l.minPrice + float64(idx+1)*l.binWidth
}

// binPrefix builds the zone layout for a cumulative prefix. The zone
// count scales with prefix length, clamped to [15, 20]. ok is false
// when the prefix has no price range.
func binPrefix(prefix []model.PricePoint) (*zoneLayout, bool) {
	minPrice, maxPrice, _ := series.PriceRange(prefix)
	if maxPrice == minPrice {
		return nil, false
	}

	numZones := len(prefix) / 15
	if numZones < 15 {
		numZones = 15
	}
	if numZones > 20 {
		numZones = 20
	}

	binWidth := (maxPrice - minPrice) / float64(numZones)
	layout := &zoneLayout{minPrice: minPrice, binWidth: binWidth, weights: make([]float64, numZones)}

	total := series.TotalVolume(prefix)
	if total == 0 {
		return layout, true
	}
	for _, p := range prefix {
		layout.weights[layout.zoneIndex(p.Close)] += p.Volume / total
	}
	return layout, true
}

// neighborZone is a non-zero zone (or merged pair) on the break side.
type neighborZone struct {
	weight  float64
	nearIdx int // zone index closest to the current zone
	farIdx  int
}

// evaluateBreak applies the gating rules in one direction. For an
// up-break the support side is below the current zone and the thinning
// side above; a down-break mirrors both sides.
func evaluateBreak(layout *zoneLayout, current int, currentWeight float64, upBreak bool, cfg Config) (model.BreakSignal, bool) {
	heavy := scanNonZero(layout, current, !upBreak, cfg.Lookback, cfg.MergeAdjacent)
	if len(heavy) < 2 {
		return model.BreakSignal{}, false
	}

	// The two closest heavy zones must both dominate the current one.
	if heavy[0].weight-currentWeight < cfg.Differential || heavy[1].weight-currentWeight < cfg.Differential {
		return model.BreakSignal{}, false
	}
	strongest := heavy[0]
	if heavy[1].weight > strongest.weight {
		strongest = heavy[1]
	}
	if strongest.weight < cfg.SupportMinWeight {
		return model.BreakSignal{}, false
	}

	// Monotonic thinning ahead of the move: none of the next non-zero
	// zones on the break side may match the current weight.
	ahead := scanNonZero(layout, current, upBreak, cfg.ThinningZones, false)
	for _, z := range ahead {
		if z.weight >= currentWeight {
			return model.BreakSignal{}, false
		}
	}

	sig := model.BreakSignal{IsUpBreak: upBreak, TriggeringZoneWeight: currentWeight}
	if upBreak {
		sig.SupportLevel = layout.zoneHighBound(strongest.nearIdx)
	} else {
		sig.ResistanceLevel = layout.zoneLowBound(strongest.nearIdx)
	}
	return sig, true
}

// scanNonZero walks away from the current zone (upward when up is
// true) collecting up to limit non-zero zones, nearest first. With
// mergePairs, index-adjacent non-zero zones are summed into one entry.
func scanNonZero(layout *zoneLayout, current int, up bool, limit int, mergePairs bool) []neighborZone {
	step := -1
	if up {
		step = 1
	}

	var out []neighborZone
	for idx := current + step; idx >= 0 && idx < len(layout.weights) && len(out) < limit; idx += step {
		w := layout.weights[idx]
		if w == 0 {
			continue
		}
		zone := neighborZone{weight: w, nearIdx: idx, farIdx: idx}
		next := idx + step
		if mergePairs && next >= 0 && next < len(layout.weights) && layout.weights[next] > 0 {
			zone.weight += layout.weights[next]
			zone.farIdx = next
			idx = next
		}
		out = append(out, zone)
	}
	return out
}
