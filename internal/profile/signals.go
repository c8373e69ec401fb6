package profile

import (
	"fmt"
	"math"

	"VolumeScope/internal/model"
	"VolumeScope/internal/series"
)

// Proximity bands and confidence constants for the rule-based signals.
const (
	pocProximity = 0.02
	hvnProximity = 0.03
	lvnProximity = 0.02

	confPOCHold     = 0.6
	confVABreakout  = 0.7
	confVABreakdown = 0.7
	confHVNWatch    = 0.55
	confLVNWatch    = 0.5
	confNeutral     = 0.3
)

// GenerateSignals evaluates the latest point of the series against the
// computed profile landmarks and returns the triggered rule signals.
// When no rule fires, a single NEUTRAL signal is returned.
func GenerateSignals(points []model.PricePoint, stats *model.ProfileStats) []model.Signal {
	if len(points) == 0 || stats == nil {
		return nil
	}
	points = series.Normalize(points)
	last := points[len(points)-1]

	var signals []model.Signal

	if stats.POC != nil && stats.POC.Price > 0 {
		dev := (last.Close - stats.POC.Price) / stats.POC.Price
		if math.Abs(dev) <= pocProximity {
			signals = append(signals, model.Signal{
				Type:       model.SignalHold,
				Reason:     "price near point of control",
				Price:      last.Close,
				Confidence: confPOCHold,
				Detail:     fmt.Sprintf("POC %.2f, deviation %+.2f%%", stats.POC.Price, dev*100),
			})
		}
	}

	if len(points) >= 2 {
		prev := points[len(points)-2]
		if prev.Close <= stats.ValueAreaHigh && last.Close > stats.ValueAreaHigh {
			signals = append(signals, model.Signal{
				Type:       model.SignalBuy,
				Reason:     "value area breakout",
				Price:      last.Close,
				Confidence: confVABreakout,
				Detail:     fmt.Sprintf("crossed above value area high %.2f", stats.ValueAreaHigh),
			})
		}
		if prev.Close >= stats.ValueAreaLow && last.Close < stats.ValueAreaLow {
			signals = append(signals, model.Signal{
				Type:       model.SignalSell,
				Reason:     "value area breakdown",
				Price:      last.Close,
				Confidence: confVABreakdown,
				Detail:     fmt.Sprintf("crossed below value area low %.2f", stats.ValueAreaLow),
			})
		}
	}

	if node, dist, ok := nearestNode(stats.HighVolumeNodes, last.Close); ok && dist <= hvnProximity {
		signals = append(signals, model.Signal{
			Type:       model.SignalWatch,
			Reason:     "price near high-volume node",
			Price:      last.Close,
			Confidence: confHVNWatch,
			Detail:     fmt.Sprintf("HVN %.2f-%.2f, strength %.2f", node.MinPrice, node.MaxPrice, node.Strength),
		})
	}
	if node, dist, ok := nearestNode(stats.LowVolumeNodes, last.Close); ok && dist <= lvnProximity {
		signals = append(signals, model.Signal{
			Type:       model.SignalWatch,
			Reason:     "price near low-volume node",
			Price:      last.Close,
			Confidence: confLVNWatch,
			Detail:     fmt.Sprintf("LVN %.2f-%.2f, thin volume may accelerate moves", node.MinPrice, node.MaxPrice),
		})
	}

	if len(signals) == 0 {
		signals = append(signals, model.Signal{
			Type:       model.SignalNeutral,
			Reason:     "no profile landmark nearby",
			Price:      last.Close,
			Confidence: confNeutral,
		})
	}
	return signals
}

// nearestNode returns the node whose midpoint is closest to the price,
// with the relative distance to it.
func nearestNode(nodes []model.VolumeNode, price float64) (model.VolumeNode, float64, bool) {
	if len(nodes) == 0 || price <= 0 {
		return model.VolumeNode{}, 0, false
	}
	best := nodes[0]
	bestDist := math.Abs(price-best.Mid()) / price
	for _, n := range nodes[1:] {
		if d := math.Abs(price-n.Mid()) / price; d < bestDist {
			best, bestDist = n, d
		}
	}
	return best, bestDist, true
}
