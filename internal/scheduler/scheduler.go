package scheduler

import (
	"context"
	"fmt"
	"log"

	"VolumeScope/internal/breakout"
	"VolumeScope/internal/cache"
	"VolumeScope/internal/channel"
	"VolumeScope/internal/collector"
	"VolumeScope/internal/config"
	"VolumeScope/internal/model"
	"VolumeScope/internal/notifier"
	"VolumeScope/internal/profile"
	"VolumeScope/internal/recorder"
	"VolumeScope/internal/simulate"

	"github.com/robfig/cron/v3"
)

// Scheduler manages all cron tasks and command handling.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Notifier  *notifier.TelegramNotifier
	Recorder  recorder.Recorder
	Cache     *cache.AnalysisCache
	Cfg       *config.Config
	Ctx       context.Context

	lastSeriesHash uint64
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col *collector.Collector, tn *notifier.TelegramNotifier, rec recorder.Recorder, cfg *config.Config) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Collector: col,
		Notifier:  tn,
		Recorder:  rec,
		Cache:     cache.New(),
		Cfg:       cfg,
		Ctx:       ctx,
	}
}

// RegisterAll registers the daily pipeline and the weekly channel scan.
func (s *Scheduler) RegisterAll(dailyCron, weeklyCron string) error {
	if _, err := s.Cron.AddFunc(dailyCron, s.dailyTask); err != nil {
		return fmt.Errorf("register daily task: %w", err)
	}
	if _, err := s.Cron.AddFunc(weeklyCron, s.weeklyChannelScan); err != nil {
		return fmt.Errorf("register weekly channel scan: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunDailyNow executes the daily task immediately (manual trigger /
// RUN_ON_START).
func (s *Scheduler) RunDailyNow() {
	s.dailyTask()
}

// collectSeries fetches the series and rolls the cache over when the
// input changed.
func (s *Scheduler) collectSeries() ([]model.PricePoint, uint64, error) {
	points, err := s.Collector.Collect()
	if err != nil {
		return nil, 0, err
	}
	hash := cache.HashSeries(points)
	if s.lastSeriesHash != 0 && s.lastSeriesHash != hash {
		s.Cache.Invalidate(s.lastSeriesHash)
	}
	s.lastSeriesHash = hash
	return points, hash, nil
}

func (s *Scheduler) dailyTask() {
	log.Println("[INFO] running daily analysis")
	points, hash, err := s.collectSeries()
	if err != nil {
		log.Printf("[ERROR] daily collect: %v", err)
		s.trySend(fmt.Sprintf("❌ daily data collection failed: %v", err))
		return
	}
	symbol := s.Cfg.DataSource.Symbol

	stats, err := s.profileStats(points, hash)
	if err != nil {
		log.Printf("[ERROR] compute profile: %v", err)
		return
	}
	signals := profile.GenerateSignals(points, stats)

	evo, err := profile.AnalyzeEvolution(points, profile.EvolutionOptions{NumBins: s.Cfg.Profile.NumBins})
	if err != nil {
		log.Printf("[ERROR] analyze evolution: %v", err)
	}

	breaksResult := breakout.DetectBreaks(points, breakout.ZoomRange{}, nil, s.breakoutConfig())
	simResult := simulate.Run(points, breaksResult.Breaks, s.simulationConfig())

	report := notifier.FormatProfileReport(symbol, stats, signals, evo)
	report += "\n" + notifier.FormatBreakReport(symbol, breaksResult.Breaks)
	report += "\n" + notifier.FormatSimulationReport(symbol, simResult)
	s.trySend(report)

	s.recordDaily(symbol, stats, evo, breaksResult.Breaks, simResult)
}

func (s *Scheduler) weeklyChannelScan() {
	log.Println("[INFO] running weekly channel scan")
	points, hash, err := s.collectSeries()
	if err != nil {
		log.Printf("[ERROR] weekly collect: %v", err)
		return
	}
	symbol := s.Cfg.DataSource.Symbol

	channels := s.channels(points, hash)
	s.trySend(notifier.FormatChannelReport(symbol, channels))

	if err := s.Recorder.RecordChannels(symbol, channels); err != nil {
		log.Printf("[ERROR] record channels: %v", err)
	}
}

// profileStats computes (or reuses) the profile for the series.
func (s *Scheduler) profileStats(points []model.PricePoint, hash uint64) (*model.ProfileStats, error) {
	opts := s.profileOptions()
	key := cache.Key{SeriesHash: hash, Config: fmt.Sprintf("profile:%+v", opts)}
	if v, ok := s.Cache.Get(key); ok {
		return v.(*model.ProfileStats), nil
	}
	stats, err := profile.ComputeStatistics(points, opts)
	if err != nil {
		return nil, err
	}
	s.Cache.Put(key, stats)
	return stats, nil
}

// channels computes (or reuses) the ranked channel scan. The grid
// search is the one expensive call, so it benefits most from the cache.
func (s *Scheduler) channels(points []model.PricePoint, hash uint64) []model.Channel {
	opts := s.channelOptions()
	key := cache.Key{SeriesHash: hash, Config: fmt.Sprintf("channels:%+v", opts)}
	if v, ok := s.Cache.Get(key); ok {
		return v.([]model.Channel)
	}
	channels := channel.FindBestChannels(points, opts)
	s.Cache.Put(key, channels)
	return channels
}

func (s *Scheduler) profileOptions() profile.Options {
	return profile.Options{
		NumBins:           s.Cfg.Profile.NumBins,
		ValueAreaFraction: s.Cfg.Profile.ValueAreaFraction,
		HVNThreshold:      s.Cfg.Profile.HVNThreshold,
		LVNThreshold:      s.Cfg.Profile.LVNThreshold,
	}
}

func (s *Scheduler) breakoutConfig() breakout.Config {
	cfg := breakout.Config{
		WarmupSize:       s.Cfg.Breakout.WarmupSize,
		Lookback:         s.Cfg.Breakout.Lookback,
		Differential:     s.Cfg.Breakout.Differential,
		SupportMinWeight: s.Cfg.Breakout.SupportMinWeight,
	}
	if s.Cfg.Breakout.Variant == "split" {
		base := breakout.SplitVariant()
		if cfg.WarmupSize == 0 {
			cfg.WarmupSize = base.WarmupSize
		}
		if cfg.Differential == 0 {
			cfg.Differential = base.Differential
		}
		cfg.SplitOnBreak = true
		cfg.MergeAdjacent = true
	}
	return cfg
}

func (s *Scheduler) simulationConfig() simulate.Config {
	cfg := simulate.Config{
		Fee:                 s.Cfg.Simulation.Fee,
		TrailingFactor:      s.Cfg.Simulation.TrailingFactor,
		CutoffPercent:       s.Cfg.Simulation.CutoffPercent,
		MinPointsAfterReset: s.Cfg.Simulation.MinPointsAfterReset,
		MinBarsAfterSell:    s.Cfg.Simulation.MinBarsAfterSell,
	}
	// The continuous detector pairs with ATH-gated sells; the split
	// detector gates re-entry after a sell and runs a wider stop.
	if s.Cfg.Breakout.Variant == "split" {
		if cfg.CutoffPercent == 0 {
			cfg.CutoffPercent = 0.12
		}
	} else {
		cfg.UseATHReset = true
	}
	return cfg
}

func (s *Scheduler) channelOptions() channel.Options {
	return channel.Options{
		MinLength:           s.Cfg.Channels.MinLength,
		StartStep:           s.Cfg.Channels.StartStep,
		LengthStep:          s.Cfg.Channels.LengthStep,
		SimilarityThreshold: s.Cfg.Channels.SimilarityThreshold,
		OverlapThreshold:    s.Cfg.Channels.OverlapThreshold,
		Workers:             s.Cfg.Channels.Workers,
	}
}

func (s *Scheduler) recordDaily(symbol string, stats *model.ProfileStats, evo *profile.Evolution, breaks []model.BreakSignal, simResult *simulate.Result) {
	if stats != nil {
		snap := &recorder.ProfileSnapshot{
			Symbol:        symbol,
			ValueAreaLow:  stats.ValueAreaLow,
			ValueAreaHigh: stats.ValueAreaHigh,
			HVNCount:      len(stats.HighVolumeNodes),
			LVNCount:      len(stats.LowVolumeNodes),
		}
		if stats.POC != nil {
			snap.POCPrice = stats.POC.Price
			snap.POCVolumePercent = stats.POC.VolumePercent
		}
		if evo != nil {
			snap.POCVolatility = evo.POCVolatility
			snap.ValueAreaTrend = evo.ValueAreaTrend
		}
		if err := s.Recorder.RecordProfile(snap); err != nil {
			log.Printf("[ERROR] record profile: %v", err)
		}
	}
	if err := s.Recorder.RecordBreaks(symbol, breaks); err != nil {
		log.Printf("[ERROR] record breaks: %v", err)
	}
	if simResult != nil && len(simResult.Trades) > 0 {
		if err := s.Recorder.RecordSimulation(&recorder.SimulationSummary{
			Symbol:       symbol,
			Trades:       simResult.Trades,
			TotalPL:      simResult.TotalPL,
			WinRate:      simResult.WinRate,
			MarketChange: simResult.MarketChange,
		}); err != nil {
			log.Printf("[ERROR] record simulation: %v", err)
		}
	}
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	switch command {
	case "/analyze", "/daily":
		s.dailyTask()
		return ""
	case "/channels":
		s.weeklyChannelScan()
		return ""
	case "/profile":
		points, hash, err := s.collectSeries()
		if err != nil {
			return fmt.Sprintf("collect failed: %v", err)
		}
		stats, err := s.profileStats(points, hash)
		if err != nil {
			return fmt.Sprintf("profile failed: %v", err)
		}
		signals := profile.GenerateSignals(points, stats)
		return notifier.FormatProfileReport(s.Cfg.DataSource.Symbol, stats, signals, nil)
	case "/breaks":
		points, _, err := s.collectSeries()
		if err != nil {
			return fmt.Sprintf("collect failed: %v", err)
		}
		breaksResult := breakout.DetectBreaks(points, breakout.ZoomRange{}, nil, s.breakoutConfig())
		return notifier.FormatBreakReport(s.Cfg.DataSource.Symbol, breaksResult.Breaks)
	case "/backtest":
		points, _, err := s.collectSeries()
		if err != nil {
			return fmt.Sprintf("collect failed: %v", err)
		}
		breaksResult := breakout.DetectBreaks(points, breakout.ZoomRange{}, nil, s.breakoutConfig())
		simResult := simulate.Run(points, breaksResult.Breaks, s.simulationConfig())
		return notifier.FormatBreakReport(s.Cfg.DataSource.Symbol, breaksResult.Breaks) +
			"\n" + notifier.FormatSimulationReport(s.Cfg.DataSource.Symbol, simResult)
	default:
		return "commands:\n• /analyze — run the daily pipeline now\n• /profile — current volume profile\n• /breaks — breakout scan\n• /backtest — breaks and replay\n• /channels — channel scan"
	}
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
