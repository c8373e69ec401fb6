package profile

import (
	"fmt"
	"math"
	"sort"

	"VolumeScope/internal/model"
	"VolumeScope/internal/series"
)

// Options configures a volume profile computation. Zero fields take
// the stated defaults.
type Options struct {
	NumBins           int     // number of equal-width price zones, default 50
	ValueAreaFraction float64 // target cumulative volume fraction, default 0.70
	HVNThreshold      float64 // high-volume node multiple of average zone volume, default 1.5
	LVNThreshold      float64 // low-volume node multiple of average zone volume, default 0.5
}

func (o Options) withDefaults() Options {
	if o.NumBins == 0 {
		o.NumBins = 50
	}
	if o.ValueAreaFraction == 0 {
		o.ValueAreaFraction = 0.70
	}
	if o.HVNThreshold == 0 {
		o.HVNThreshold = 1.5
	}
	if o.LVNThreshold == 0 {
		o.LVNThreshold = 0.5
	}
	return o
}

func (o Options) validate() error {
	if o.NumBins < 0 {
		return fmt.Errorf("numBins must be positive, got %d", o.NumBins)
	}
	if o.ValueAreaFraction < 0 || o.ValueAreaFraction > 1 {
		return fmt.Errorf("valueAreaFraction must be in (0,1], got %g", o.ValueAreaFraction)
	}
	if o.HVNThreshold < 0 || o.LVNThreshold < 0 {
		return fmt.Errorf("node thresholds must be non-negative")
	}
	return nil
}

// ComputeStatistics bins the series into equal-width price zones and
// derives the point of control, value area, and high/low volume nodes.
// An empty series yields a nil result; a zero price range yields one
// degenerate zone holding all volume. Ordering is normalized on entry.
func ComputeStatistics(points []model.PricePoint, opts Options) (*model.ProfileStats, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()

	if len(points) == 0 {
		return nil, nil
	}
	points = series.Normalize(points)

	minPrice, maxPrice, _ := series.PriceRange(points)
	totalVolume := series.TotalVolume(points)

	if maxPrice == minPrice {
		zone := model.Zone{MinPrice: minPrice, MaxPrice: maxPrice, Volume: totalVolume, VolumePercent: 1}
		if totalVolume == 0 {
			zone.VolumePercent = 0
		}
		return &model.ProfileStats{
			Zones:         []model.Zone{zone},
			TotalVolume:   totalVolume,
			BinWidth:      0,
			POC:           &model.PriceLevel{Price: minPrice, Volume: totalVolume, VolumePercent: zone.VolumePercent},
			ValueAreaLow:  minPrice,
			ValueAreaHigh: maxPrice,
		}, nil
	}

	binWidth := (maxPrice - minPrice) / float64(opts.NumBins)
	zones := make([]model.Zone, opts.NumBins)
	for i := range zones {
		zones[i].MinPrice = minPrice + float64(i)*binWidth
		zones[i].MaxPrice = minPrice + float64(i+1)*binWidth
	}
	// Pin the top edge so the closed topmost bin covers the maximum exactly.
	zones[opts.NumBins-1].MaxPrice = maxPrice

	for _, p := range points {
		idx := int(math.Floor((p.Close - minPrice) / binWidth))
		if idx < 0 {
			idx = 0
		}
		if idx > opts.NumBins-1 {
			idx = opts.NumBins - 1
		}
		zones[idx].Volume += p.Volume
	}
	if totalVolume > 0 {
		for i := range zones {
			zones[i].VolumePercent = zones[i].Volume / totalVolume
		}
	}

	stats := &model.ProfileStats{
		Zones:       zones,
		TotalVolume: totalVolume,
		BinWidth:    binWidth,
	}

	// Point of control: zone of maximum volume, first zone wins ties.
	pocIdx := 0
	for i, z := range zones {
		if z.Volume > zones[pocIdx].Volume {
			pocIdx = i
		}
	}
	poc := zones[pocIdx]
	stats.POC = &model.PriceLevel{Price: poc.Mid(), Volume: poc.Volume, VolumePercent: poc.VolumePercent}

	stats.ValueAreaLow, stats.ValueAreaHigh = valueArea(zones, totalVolume, opts.ValueAreaFraction)

	avgVolume := totalVolume / float64(opts.NumBins)
	stats.HighVolumeNodes = mergeNodes(collectHVN(zones, avgVolume, opts.HVNThreshold, poc.Volume), binWidth)
	stats.LowVolumeNodes = mergeNodes(collectLVN(zones, avgVolume, opts.LVNThreshold), binWidth)

	return stats, nil
}

// valueArea greedily accumulates zones by descending volume until the
// cumulative volume first reaches the target fraction, then reads the
// price bounds of the accumulated set.
func valueArea(zones []model.Zone, totalVolume, fraction float64) (low, high float64) {
	if totalVolume == 0 {
		return zones[0].MinPrice, zones[len(zones)-1].MaxPrice
	}

	order := make([]int, len(zones))
	for i := range order {
		order[i] = i
	}
	// Stable keeps ascending zone-index order among equal volumes.
	sort.SliceStable(order, func(a, b int) bool {
		return zones[order[a]].Volume > zones[order[b]].Volume
	})

	target := fraction * totalVolume
	accumulated := 0.0
	var selected []int
	for _, idx := range order {
		selected = append(selected, idx)
		accumulated += zones[idx].Volume
		if accumulated >= target {
			break
		}
	}

	sort.Ints(selected)
	return zones[selected[0]].MinPrice, zones[selected[len(selected)-1]].MaxPrice
}

type candidateNode struct {
	zone     model.Zone
	strength float64
}

func collectHVN(zones []model.Zone, avgVolume, threshold, pocVolume float64) []candidateNode {
	var nodes []candidateNode
	for _, z := range zones {
		if z.Volume >= avgVolume*threshold {
			strength := 0.0
			if pocVolume > 0 {
				strength = z.Volume / pocVolume
			}
			nodes = append(nodes, candidateNode{zone: z, strength: strength})
		}
	}
	return nodes
}

func collectLVN(zones []model.Zone, avgVolume, threshold float64) []candidateNode {
	var nodes []candidateNode
	for _, z := range zones {
		if z.Volume > 0 && z.Volume < avgVolume*threshold {
			strength := 0.0
			if avgVolume > 0 {
				strength = z.Volume / avgVolume
			}
			nodes = append(nodes, candidateNode{zone: z, strength: strength})
		}
	}
	return nodes
}

// mergeNodes joins qualifying zones into clusters when the price gap
// between consecutive zones is at most two bin widths. Cluster volume
// is summed, percent averaged, price range unioned, strength averaged.
func mergeNodes(nodes []candidateNode, binWidth float64) []model.VolumeNode {
	if len(nodes) == 0 {
		return nil
	}

	var out []model.VolumeNode
	current := model.VolumeNode{
		MinPrice:      nodes[0].zone.MinPrice,
		MaxPrice:      nodes[0].zone.MaxPrice,
		Volume:        nodes[0].zone.Volume,
		VolumePercent: nodes[0].zone.VolumePercent,
		Strength:      nodes[0].strength,
	}
	members := 1

	flush := func() {
		current.VolumePercent /= float64(members)
		current.Strength /= float64(members)
		out = append(out, current)
	}

	for _, n := range nodes[1:] {
		if n.zone.MinPrice-current.MaxPrice <= 2*binWidth {
			current.MaxPrice = n.zone.MaxPrice
			current.Volume += n.zone.Volume
			current.VolumePercent += n.zone.VolumePercent
			current.Strength += n.strength
			members++
			continue
		}
		flush()
		current = model.VolumeNode{
			MinPrice:      n.zone.MinPrice,
			MaxPrice:      n.zone.MaxPrice,
			Volume:        n.zone.Volume,
			VolumePercent: n.zone.VolumePercent,
			Strength:      n.strength,
		}
		members = 1
	}
	flush()
	return out
}
