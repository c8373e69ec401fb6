package notifier

import (
	"fmt"
	"strings"
	"time"

	"VolumeScope/internal/model"
	"VolumeScope/internal/profile"
	"VolumeScope/internal/simulate"
)

// FormatProfileReport formats a volume profile and its rule signals
// into a Telegram message.
func FormatProfileReport(symbol string, stats *model.ProfileStats, signals []model.Signal, evo *profile.Evolution) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>VolumeScope Profile</b> | %s | %s\n\n", symbol, time.Now().Format("2006-01-02")))

	if stats == nil {
		b.WriteString("no data available\n")
		return b.String()
	}

	if stats.POC != nil {
		b.WriteString(fmt.Sprintf("POC: %.2f (%.1f%% of volume)\n", stats.POC.Price, stats.POC.VolumePercent*100))
	}
	b.WriteString(fmt.Sprintf("Value area: %.2f – %.2f\n", stats.ValueAreaLow, stats.ValueAreaHigh))
	b.WriteString(fmt.Sprintf("HVN clusters: %d | LVN clusters: %d\n", len(stats.HighVolumeNodes), len(stats.LowVolumeNodes)))

	if evo != nil && len(evo.Windows) > 0 {
		b.WriteString(fmt.Sprintf("POC volatility: %.2f | value area %s\n", evo.POCVolatility, evo.ValueAreaTrend))
	}

	if len(signals) > 0 {
		b.WriteString("\n📈 <b>Signals:</b>\n")
		for _, s := range signals {
			b.WriteString(fmt.Sprintf("  %s (%.0f%%) — %s\n", s.Type, s.Confidence*100, s.Reason))
			if s.Detail != "" {
				b.WriteString(fmt.Sprintf("      %s\n", s.Detail))
			}
		}
	}
	return b.String()
}

// FormatBreakReport formats detected breakout events.
func FormatBreakReport(symbol string, breaks []model.BreakSignal) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("⚡ <b>Breakout scan</b> | %s\n\n", symbol))

	if len(breaks) == 0 {
		b.WriteString("no breaks detected\n")
		return b.String()
	}
	for _, br := range breaks {
		if br.IsUpBreak {
			b.WriteString(fmt.Sprintf("▲ BUY %s @ %.2f (support %.2f, zone weight %.1f%%)\n",
				br.Date, br.Price, br.SupportLevel, br.TriggeringZoneWeight*100))
		} else {
			b.WriteString(fmt.Sprintf("▼ SELL %s @ %.2f (resistance %.2f, zone weight %.1f%%)\n",
				br.Date, br.Price, br.ResistanceLevel, br.TriggeringZoneWeight*100))
		}
	}
	return b.String()
}

// FormatSimulationReport formats a replay summary.
func FormatSimulationReport(symbol string, result *simulate.Result) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🧮 <b>Replay</b> | %s\n\n", symbol))

	if result == nil || len(result.Trades) == 0 {
		b.WriteString("no trades\n")
		return b.String()
	}

	closed := 0
	for _, t := range result.Trades {
		if !t.IsOpen {
			closed++
		}
	}
	b.WriteString(fmt.Sprintf("Trades: %d (%d closed)\n", len(result.Trades), closed))
	b.WriteString(fmt.Sprintf("Total P&L: %+.2f%% | Win rate: %.1f%%\n", result.TotalPL, result.WinRate))
	b.WriteString(fmt.Sprintf("Market change: %+.2f%%\n", result.MarketChange))

	last := result.Trades[len(result.Trades)-1]
	if last.IsOpen {
		b.WriteString(fmt.Sprintf("\nOpen position: bought %s @ %.2f, now %+.2f%%\n", last.BuyDate, last.BuyPrice, last.PLPercent))
	}
	return b.String()
}

// FormatChannelReport formats a ranked channel scan.
func FormatChannelReport(symbol string, channels []model.Channel) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📐 <b>Channel scan</b> | %s\n\n", symbol))

	if len(channels) == 0 {
		b.WriteString("no channels found\n")
		return b.String()
	}
	for i, c := range channels {
		if i >= 5 {
			b.WriteString(fmt.Sprintf("… and %d more\n", len(channels)-5))
			break
		}
		direction := "flat"
		if c.Slope > 0 {
			direction = "rising"
		} else if c.Slope < 0 {
			direction = "falling"
		}
		b.WriteString(fmt.Sprintf("#%d [%d..%d] %s, %d touches of %d turning points, ±%.1fσ\n",
			i+1, c.StartIndex, c.EndIndex, direction, c.TouchCount, c.TurningPointsCount, c.StdevMultiplier))
	}
	return b.String()
}
