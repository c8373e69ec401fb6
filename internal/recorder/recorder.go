package recorder

import "VolumeScope/internal/model"

// ProfileSnapshot holds the landmark scalars of one profile run.
type ProfileSnapshot struct {
	Symbol           string
	POCPrice         float64
	POCVolumePercent float64
	ValueAreaLow     float64
	ValueAreaHigh    float64
	HVNCount         int
	LVNCount         int
	POCVolatility    float64
	ValueAreaTrend   string
}

// SimulationSummary holds the aggregates of one replay.
type SimulationSummary struct {
	Symbol       string
	Trades       []model.Trade
	TotalPL      float64
	WinRate      float64
	MarketChange float64
}

// Recorder persists analysis runs for later inspection.
type Recorder interface {
	RecordProfile(snap *ProfileSnapshot) error
	RecordBreaks(symbol string, breaks []model.BreakSignal) error
	RecordSimulation(summary *SimulationSummary) error
	RecordChannels(symbol string, channels []model.Channel) error
	Close() error
}
