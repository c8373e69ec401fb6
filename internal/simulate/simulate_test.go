package simulate

import (
	"fmt"
	"math"
	"testing"

	"VolumeScope/internal/model"
)

func flatPoints(n int, close float64) []model.PricePoint {
	points := make([]model.PricePoint, n)
	for i := range points {
		points[i] = model.PricePoint{Date: fmt.Sprintf("d%02d", i), Close: close, Volume: 1}
	}
	return points
}

func upBreak(date string) model.BreakSignal {
	return model.BreakSignal{Date: date, IsUpBreak: true}
}

func downBreak(date string) model.BreakSignal {
	return model.BreakSignal{Date: date, IsUpBreak: false}
}

func TestRun_BuySellRoundTrip(t *testing.T) {
	points := flatPoints(10, 100)
	breaks := []model.BreakSignal{upBreak("d01"), downBreak("d04")}

	result := Run(points, breaks, Config{UseATHReset: false})
	if len(result.Trades) != 1 {
		t.Fatalf("expected 1 trade, got %d", len(result.Trades))
	}
	tr := result.Trades[0]
	if tr.BuyDate != "d01" || tr.SellDate != "d04" {
		t.Errorf("expected d01 -> d04, got %s -> %s", tr.BuyDate, tr.SellDate)
	}
	if tr.IsCutoff || tr.IsOpen {
		t.Errorf("expected a plain signal exit, got %+v", tr)
	}

	// Flat price round trip costs exactly the two fees.
	want := (100*(1-0.003) - 100*(1+0.003)) / (100 * (1 + 0.003)) * 100
	if math.Abs(tr.PLPercent-want) > 1e-9 {
		t.Errorf("expected P&L %g, got %g", want, tr.PLPercent)
	}
	if result.WinRate != 0 {
		t.Errorf("fee-losing trade cannot win, win rate %g", result.WinRate)
	}
}

func TestRun_SinglePositionOnly(t *testing.T) {
	points := flatPoints(10, 100)
	// Second BUY while holding must be ignored.
	breaks := []model.BreakSignal{upBreak("d01"), upBreak("d03"), downBreak("d05")}

	result := Run(points, breaks, Config{UseATHReset: false})
	if len(result.Trades) != 1 {
		t.Fatalf("expected 1 trade, got %d", len(result.Trades))
	}
	if result.Trades[0].BuyDate != "d01" {
		t.Errorf("expected the first BUY to hold, got %s", result.Trades[0].BuyDate)
	}
}

func TestRun_MinBarsAfterSellGatesRebuy(t *testing.T) {
	points := flatPoints(12, 100)
	breaks := []model.BreakSignal{
		upBreak("d01"), downBreak("d03"),
		upBreak("d04"), // 1 bar after the sell: gated
		upBreak("d06"), // 3 bars after: allowed
	}

	result := Run(points, breaks, Config{UseATHReset: false, MinBarsAfterSell: 3})
	if len(result.Trades) != 2 {
		t.Fatalf("expected 2 trades, got %d: %+v", len(result.Trades), result.Trades)
	}
	second := result.Trades[1]
	if second.BuyDate != "d06" {
		t.Errorf("expected the gated rebuy to land on d06, got %s", second.BuyDate)
	}
	if !second.IsOpen {
		t.Error("expected the second trade to stay open at series end")
	}
	if second.PLPercent != 0 {
		t.Errorf("flat open trade without fees should be 0%%, got %g", second.PLPercent)
	}
}

func TestRun_TrailingStopRatchet(t *testing.T) {
	points := []model.PricePoint{
		{Date: "d00", Close: 100, Volume: 1},
		{Date: "d01", Close: 150, Volume: 1},
		{Date: "d02", Close: 200, Volume: 1},
		{Date: "d03", Close: 180, Volume: 1}, // below 200*(1-0.08)=184
		{Date: "d04", Close: 300, Volume: 1},
	}
	result := Run(points, []model.BreakSignal{upBreak("d00")}, Config{UseATHReset: false})

	if len(result.Trades) != 1 {
		t.Fatalf("expected 1 trade, got %d", len(result.Trades))
	}
	tr := result.Trades[0]
	if !tr.IsCutoff {
		t.Error("expected a trailing-stop exit")
	}
	if tr.SellDate != "d03" || tr.SellPrice != 180 {
		t.Errorf("expected stop at d03 @ 180, got %s @ %g", tr.SellDate, tr.SellPrice)
	}
	if tr.PLPercent <= 0 {
		t.Errorf("ratcheted stop locked in profit, got %g", tr.PLPercent)
	}
	if result.WinRate != 100 {
		t.Errorf("expected 100%% win rate, got %g", result.WinRate)
	}
}

func TestRun_ATHResetGatesSell(t *testing.T) {
	points := []model.PricePoint{
		{Date: "d00", Close: 100, Volume: 1},
		{Date: "d01", Close: 101, Volume: 1}, // new high while holding: gate restarts
		{Date: "d02", Close: 101, Volume: 1},
		{Date: "d03", Close: 101, Volume: 1},
	}
	breaks := []model.BreakSignal{upBreak("d00"), downBreak("d02")}

	// The default 75-bar gate suppresses the SELL entirely.
	result := Run(points, breaks, Config{UseATHReset: true})
	if len(result.Trades) != 1 || !result.Trades[0].IsOpen {
		t.Fatalf("expected one still-open trade, got %+v", result.Trades)
	}

	// With a 1-bar gate the SELL lands one bar after the reset.
	result = Run(points, breaks, Config{UseATHReset: true, MinPointsAfterReset: 1})
	if len(result.Trades) != 1 || result.Trades[0].IsOpen {
		t.Fatalf("expected one closed trade, got %+v", result.Trades)
	}
	if result.Trades[0].SellDate != "d02" {
		t.Errorf("expected sell at d02, got %s", result.Trades[0].SellDate)
	}
}

func TestRun_SellWhileFlatIgnored(t *testing.T) {
	points := flatPoints(5, 100)
	result := Run(points, []model.BreakSignal{downBreak("d01")}, DefaultConfig())
	if len(result.Trades) != 0 {
		t.Errorf("expected no trades, got %+v", result.Trades)
	}
}

func TestRun_FeesOnOpenTrade(t *testing.T) {
	points := flatPoints(5, 100)
	result := Run(points, []model.BreakSignal{upBreak("d00")}, Config{UseATHReset: false, FeesOnOpenTrade: true})
	if len(result.Trades) != 1 || !result.Trades[0].IsOpen {
		t.Fatalf("expected one open trade, got %+v", result.Trades)
	}
	if result.Trades[0].PLPercent >= 0 {
		t.Errorf("fee-adjusted flat open trade must be negative, got %g", result.Trades[0].PLPercent)
	}
}

func TestRun_EmptyInputs(t *testing.T) {
	if result := Run(nil, []model.BreakSignal{upBreak("d00")}, DefaultConfig()); len(result.Trades) != 0 {
		t.Error("expected empty result for empty series")
	}
	if result := Run(flatPoints(3, 100), nil, DefaultConfig()); len(result.Trades) != 0 {
		t.Error("expected empty result for empty break list")
	}
}

func TestRun_DuplicateDateFirstBreakWins(t *testing.T) {
	points := flatPoints(5, 100)
	breaks := []model.BreakSignal{upBreak("d01"), downBreak("d01")}
	result := Run(points, breaks, Config{UseATHReset: false})
	if len(result.Trades) != 1 || !result.Trades[0].IsOpen {
		t.Fatalf("expected the first (BUY) signal to win the date, got %+v", result.Trades)
	}
}
