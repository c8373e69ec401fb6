package simulate

import (
	"VolumeScope/internal/model"
	"VolumeScope/internal/series"
)

// Config tunes the long-only replay. Numeric zero fields take the
// stated defaults. Two sell-gating variants exist: with UseATHReset a
// SELL is honored only once enough bars passed since the last
// all-time-high made while holding; without it, the next BUY is gated
// by MinBarsAfterSell instead.
type Config struct {
	Fee                 float64 // per-side transaction fee, default 0.003
	TrailingFactor      float64 // trailing stop distance from close, default 0.08
	CutoffPercent       float64 // initial stop distance below buy, default 0.08
	MinPointsAfterReset int     // bars after an ATH reset before a SELL is honored, default 75
	MinBarsAfterSell    int     // bars after a sell before the next BUY, default 75
	UseATHReset         bool
	FeesOnOpenTrade     bool // apply both fees to the trailing open trade
}

func (c Config) withDefaults() Config {
	if c.Fee == 0 {
		c.Fee = 0.003
	}
	if c.TrailingFactor == 0 {
		c.TrailingFactor = 0.08
	}
	if c.CutoffPercent == 0 {
		c.CutoffPercent = 0.08
	}
	if c.MinPointsAfterReset == 0 {
		c.MinPointsAfterReset = 75
	}
	if c.MinBarsAfterSell == 0 {
		c.MinBarsAfterSell = 75
	}
	return c
}

// DefaultConfig is the continuous-detector replay profile.
func DefaultConfig() Config {
	return Config{UseATHReset: true}.withDefaults()
}

// Result aggregates a full replay.
type Result struct {
	Trades       []model.Trade
	TotalPL      float64 // sum of trade P&L percents, open trade included
	WinRate      float64 // winning closed trades over closed trades, percent
	MarketChange float64 // simple return from first buy to last sell, percent
}

// position is the single open position; at most one exists at a time.
type position struct {
	buyPrice float64
	buyDate  string
	cutoff   float64
}

// Run replays the break signals against the ascending price series
// through a FLAT/HOLDING state machine with a ratcheting trailing stop.
// Breaks are matched to points by date; the series is normalized on
// entry. An empty series or break list yields an empty result.
func Run(points []model.PricePoint, breaks []model.BreakSignal, cfg Config) *Result {
	cfg = cfg.withDefaults()
	points = series.Normalize(points)

	result := &Result{}
	if len(points) == 0 || len(breaks) == 0 {
		return result
	}

	byDate := make(map[string]model.BreakSignal, len(breaks))
	for _, b := range breaks {
		if _, dup := byDate[b.Date]; !dup {
			byDate[b.Date] = b
		}
	}

	var pos *position
	allTimeHigh := 0.0
	pointsSinceReset := 0
	lastSellIndex := -1

	for i, p := range points {
		// 1. Forced exit below the cutoff.
		if pos != nil && p.Close < pos.cutoff {
			result.Trades = append(result.Trades, closeTrade(pos, p, cfg.Fee, true))
			pos = nil
			lastSellIndex = i
		}

		// 2. Ratchet the trailing stop; it never lowers.
		if pos != nil {
			if trail := p.Close * (1 - cfg.TrailingFactor); trail > pos.cutoff {
				pos.cutoff = trail
			}
		}

		// 3. A fresh all-time-high while holding restarts the sell gate:
		//    the profile window behind a SELL needs history again.
		if p.Close > allTimeHigh {
			if cfg.UseATHReset && pos != nil {
				pointsSinceReset = 0
			}
			allTimeHigh = p.Close
		}

		// 4. Apply the day's break signal, if any.
		if sig, ok := byDate[p.Date]; ok {
			switch {
			case sig.IsUpBreak && pos == nil:
				if cfg.UseATHReset || lastSellIndex < 0 || i-lastSellIndex >= cfg.MinBarsAfterSell {
					pos = &position{
						buyPrice: p.Close,
						buyDate:  p.Date,
						cutoff:   p.Close * (1 - cfg.CutoffPercent),
					}
				}
			case !sig.IsUpBreak && pos != nil:
				if !cfg.UseATHReset || pointsSinceReset >= cfg.MinPointsAfterReset {
					result.Trades = append(result.Trades, closeTrade(pos, p, cfg.Fee, false))
					pos = nil
					lastSellIndex = i
				}
			}
		}

		pointsSinceReset++
	}

	// Series ended while holding: emit the trailing open trade.
	if pos != nil {
		last := points[len(points)-1]
		trade := model.Trade{
			BuyPrice:  pos.buyPrice,
			BuyDate:   pos.buyDate,
			SellPrice: last.Close,
			SellDate:  last.Date,
			IsOpen:    true,
		}
		if cfg.FeesOnOpenTrade {
			trade.PLPercent = feeAdjustedPL(pos.buyPrice, last.Close, cfg.Fee)
		} else {
			trade.PLPercent = (last.Close - pos.buyPrice) / pos.buyPrice * 100
		}
		result.Trades = append(result.Trades, trade)
	}

	aggregate(result)
	return result
}

func closeTrade(pos *position, p model.PricePoint, fee float64, cutoff bool) model.Trade {
	return model.Trade{
		BuyPrice:  pos.buyPrice,
		BuyDate:   pos.buyDate,
		SellPrice: p.Close,
		SellDate:  p.Date,
		PLPercent: feeAdjustedPL(pos.buyPrice, p.Close, fee),
		IsCutoff:  cutoff,
	}
}

func feeAdjustedPL(buy, sell, fee float64) float64 {
	cost := buy * (1 + fee)
	proceeds := sell * (1 - fee)
	return (proceeds - cost) / cost * 100
}

func aggregate(result *Result) {
	if len(result.Trades) == 0 {
		return
	}

	closed, wins := 0, 0
	for _, t := range result.Trades {
		result.TotalPL += t.PLPercent
		if t.IsOpen {
			continue
		}
		closed++
		if t.PLPercent > 0 {
			wins++
		}
	}
	if closed > 0 {
		result.WinRate = float64(wins) / float64(closed) * 100
	}

	first := result.Trades[0]
	last := result.Trades[len(result.Trades)-1]
	if first.BuyPrice > 0 {
		result.MarketChange = (last.SellPrice - first.BuyPrice) / first.BuyPrice * 100
	}
}
