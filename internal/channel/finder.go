package channel

import (
	"math"
	"sort"
	"sync"

	"VolumeScope/internal/model"
	"VolumeScope/internal/series"
)

// Options configures the channel grid search. Zero fields take the
// stated defaults; MaxStart and MaxLength default to whatever the
// series length allows.
type Options struct {
	MinStart   int
	MaxStart   int
	StartStep  int // default 5
	MinLength  int // default 20
	MaxLength  int
	LengthStep int // default 5

	Multipliers         []float64 // default {1.0 .. 4.0} step 0.5
	TurningPointWindow  int       // default 3
	TouchTolerance      float64   // fraction of 2x channel width, default 0.1
	SimilarityThreshold float64   // keep candidates near the best touch count, default 0.9
	OverlapThreshold    float64   // max index-range overlap ratio, default 0.5

	Workers int // concurrent grid columns; cells are independent, default 1
}

func (o Options) withDefaults(seriesLen int) Options {
	if o.StartStep == 0 {
		o.StartStep = 5
	}
	if o.MinLength == 0 {
		o.MinLength = 20
	}
	if o.LengthStep == 0 {
		o.LengthStep = 5
	}
	if o.MaxLength == 0 || o.MaxLength > seriesLen {
		o.MaxLength = seriesLen
	}
	if o.MaxStart == 0 {
		o.MaxStart = seriesLen - o.MinLength
	}
	if len(o.Multipliers) == 0 {
		o.Multipliers = []float64{1.0, 1.5, 2.0, 2.5, 3.0, 3.5, 4.0}
	}
	if o.TurningPointWindow == 0 {
		o.TurningPointWindow = 3
	}
	if o.TouchTolerance == 0 {
		o.TouchTolerance = 0.1
	}
	if o.SimilarityThreshold == 0 {
		o.SimilarityThreshold = 0.9
	}
	if o.OverlapThreshold == 0 {
		o.OverlapThreshold = 0.5
	}
	if o.Workers == 0 {
		o.Workers = 1
	}
	return o
}

// FindBestChannels grid-searches regression channels over the series,
// scores each by turning-point touches, keeps candidates near the best
// touch count, and de-overlaps the ranked result. A series shorter
// than the minimum segment length yields an empty result.
func FindBestChannels(points []model.PricePoint, opts Options) []model.Channel {
	points = series.Normalize(points)
	closes := series.Closes(points)
	opts = opts.withDefaults(len(closes))

	if len(closes) < opts.MinLength || opts.MinLength < 2 {
		return nil
	}

	turningPoints := series.FindTurningPoints(closes, opts.TurningPointWindow)

	var starts []int
	for start := opts.MinStart; start <= opts.MaxStart; start += opts.StartStep {
		starts = append(starts, start)
	}

	candidates := evaluateGrid(closes, turningPoints, starts, opts)
	if len(candidates) == 0 {
		return nil
	}

	maxTouch := 0
	for _, c := range candidates {
		if c.TouchCount > maxTouch {
			maxTouch = c.TouchCount
		}
	}
	cutoff := int(math.Floor(float64(maxTouch) * opts.SimilarityThreshold))

	kept := candidates[:0]
	for _, c := range candidates {
		if c.TouchCount >= cutoff {
			kept = append(kept, c)
		}
	}

	sort.Slice(kept, func(a, b int) bool {
		if kept[a].TouchCount != kept[b].TouchCount {
			return kept[a].TouchCount > kept[b].TouchCount
		}
		if kept[a].Length != kept[b].Length {
			return kept[a].Length > kept[b].Length
		}
		return kept[a].StartIndex < kept[b].StartIndex
	})

	return FilterOverlapping(kept, opts.OverlapThreshold)
}

// evaluateGrid scores every (start, length, multiplier) cell. Columns
// are independent, so they fan out across opts.Workers; results are
// merged and ordered afterwards, keeping the output deterministic.
func evaluateGrid(closes []float64, turningPoints []model.TurningPoint, starts []int, opts Options) []model.Channel {
	if opts.Workers <= 1 || len(starts) < 2 {
		return evaluateStarts(closes, turningPoints, starts, opts)
	}

	var wg sync.WaitGroup
	parts := make([][]model.Channel, opts.Workers)
	for w := 0; w < opts.Workers; w++ {
		var chunk []int
		for i := w; i < len(starts); i += opts.Workers {
			chunk = append(chunk, starts[i])
		}
		wg.Add(1)
		go func(w int, chunk []int) {
			defer wg.Done()
			parts[w] = evaluateStarts(closes, turningPoints, chunk, opts)
		}(w, chunk)
	}
	wg.Wait()

	var all []model.Channel
	for _, p := range parts {
		all = append(all, p...)
	}
	sort.Slice(all, func(a, b int) bool {
		if all[a].StartIndex != all[b].StartIndex {
			return all[a].StartIndex < all[b].StartIndex
		}
		if all[a].Length != all[b].Length {
			return all[a].Length < all[b].Length
		}
		return all[a].StdevMultiplier < all[b].StdevMultiplier
	})
	return all
}

func evaluateStarts(closes []float64, turningPoints []model.TurningPoint, starts []int, opts Options) []model.Channel {
	var out []model.Channel
	for _, start := range starts {
		for length := opts.MinLength; length <= opts.MaxLength; length += opts.LengthStep {
			end := start + length - 1
			if end >= len(closes) {
				break
			}
			segment := closes[start : end+1]
			slope, intercept, err := series.LinearRegression(segment)
			if err != nil {
				continue
			}
			stdDev := series.ResidualStdDev(segment, slope, intercept)

			inSegment := turningPointsIn(turningPoints, start, end)
			for _, mult := range opts.Multipliers {
				touches := countTouches(inSegment, start, slope, intercept, stdDev*mult, opts.TouchTolerance)
				if touches == 0 {
					continue
				}
				out = append(out, model.Channel{
					StartIndex:         start,
					EndIndex:           end,
					Slope:              slope,
					Intercept:          intercept,
					StdDev:             stdDev,
					StdevMultiplier:    mult,
					TouchCount:         touches,
					TurningPointsCount: len(inSegment),
					Length:             length,
				})
			}
		}
	}
	return out
}

func turningPointsIn(points []model.TurningPoint, start, end int) []model.TurningPoint {
	var in []model.TurningPoint
	for _, tp := range points {
		if tp.Index >= start && tp.Index <= end {
			in = append(in, tp)
		}
	}
	return in
}

// countTouches counts turning points lying on the channel boundary: a
// max against the upper band, a min against the lower, each within
// tolerance×(2×width) of the band and on the outer side of the line.
func countTouches(points []model.TurningPoint, start int, slope, intercept, width, tolerance float64) int {
	touches := 0
	band := tolerance * 2 * width
	for _, tp := range points {
		predicted := slope*float64(tp.Index-start) + intercept
		switch tp.Type {
		case model.TurningPointMax:
			if math.Abs(tp.Value-(predicted+width)) <= band && tp.Value >= predicted {
				touches++
			}
		case model.TurningPointMin:
			if math.Abs(tp.Value-(predicted-width)) <= band && tp.Value <= predicted {
				touches++
			}
		}
	}
	return touches
}

// FilterOverlapping keeps the top-ranked channel and every later
// candidate whose index-range overlap against all kept channels stays
// within the threshold (overlap length over candidate length).
func FilterOverlapping(channels []model.Channel, overlapThreshold float64) []model.Channel {
	if len(channels) == 0 {
		return nil
	}

	kept := []model.Channel{channels[0]}
	for _, cand := range channels[1:] {
		ok := true
		for _, k := range kept {
			lo := cand.StartIndex
			if k.StartIndex > lo {
				lo = k.StartIndex
			}
			hi := cand.EndIndex
			if k.EndIndex < hi {
				hi = k.EndIndex
			}
			overlap := hi - lo + 1
			if overlap > 0 && float64(overlap)/float64(cand.Length) > overlapThreshold {
				ok = false
				break
			}
		}
		if ok {
			kept = append(kept, cand)
		}
	}
	return kept
}
