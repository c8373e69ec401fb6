package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	"VolumeScope/internal/model"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists analysis runs to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs
// migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode for better concurrent read performance while the bot writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS profile_snapshots (
			id                 INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp          INTEGER NOT NULL,
			symbol             TEXT,
			poc_price          REAL,
			poc_volume_percent REAL,
			value_area_low     REAL,
			value_area_high    REAL,
			hvn_count          INTEGER,
			lvn_count          INTEGER,
			poc_volatility     REAL,
			value_area_trend   TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_profile_ts ON profile_snapshots(timestamp)`,

		`CREATE TABLE IF NOT EXISTS break_signals (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp    INTEGER NOT NULL,
			symbol       TEXT,
			date         TEXT,
			price        REAL,
			is_up_break  INTEGER,
			window_index INTEGER,
			level        REAL,
			zone_weight  REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_breaks_ts ON break_signals(timestamp)`,

		`CREATE TABLE IF NOT EXISTS simulation_runs (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp     INTEGER NOT NULL,
			symbol        TEXT,
			trade_count   INTEGER,
			total_pl      REAL,
			win_rate      REAL,
			market_change REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sim_ts ON simulation_runs(timestamp)`,

		`CREATE TABLE IF NOT EXISTS trades (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id     INTEGER NOT NULL REFERENCES simulation_runs(id),
			buy_date   TEXT,
			buy_price  REAL,
			sell_date  TEXT,
			sell_price REAL,
			pl_percent REAL,
			is_cutoff  INTEGER,
			is_open    INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_trades_run ON trades(run_id)`,

		`CREATE TABLE IF NOT EXISTS channel_scans (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp        INTEGER NOT NULL,
			symbol           TEXT,
			start_index      INTEGER,
			end_index        INTEGER,
			slope            REAL,
			intercept        REAL,
			std_dev          REAL,
			stdev_multiplier REAL,
			touch_count      INTEGER,
			length           INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_channels_ts ON channel_scans(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordProfile(snap *ProfileSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO profile_snapshots
		(timestamp, symbol, poc_price, poc_volume_percent,
		 value_area_low, value_area_high, hvn_count, lvn_count,
		 poc_volatility, value_area_trend)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), snap.Symbol, snap.POCPrice, snap.POCVolumePercent,
		snap.ValueAreaLow, snap.ValueAreaHigh, snap.HVNCount, snap.LVNCount,
		snap.POCVolatility, snap.ValueAreaTrend,
	)
	return err
}

func (r *SQLiteRecorder) RecordBreaks(symbol string, breaks []model.BreakSignal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().Unix()
	for _, b := range breaks {
		level := b.SupportLevel
		if !b.IsUpBreak {
			level = b.ResistanceLevel
		}
		if _, err := r.db.Exec(`INSERT INTO break_signals
			(timestamp, symbol, date, price, is_up_break, window_index, level, zone_weight)
			VALUES (?,?,?,?,?,?,?,?)`,
			now, symbol, b.Date, b.Price, b.IsUpBreak, b.WindowIndex, level, b.TriggeringZoneWeight,
		); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordSimulation(summary *SimulationSummary) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, err := r.db.Exec(`INSERT INTO simulation_runs
		(timestamp, symbol, trade_count, total_pl, win_rate, market_change)
		VALUES (?,?,?,?,?,?)`,
		time.Now().Unix(), summary.Symbol, len(summary.Trades),
		summary.TotalPL, summary.WinRate, summary.MarketChange,
	)
	if err != nil {
		return err
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return err
	}

	for _, t := range summary.Trades {
		if _, err := r.db.Exec(`INSERT INTO trades
			(run_id, buy_date, buy_price, sell_date, sell_price, pl_percent, is_cutoff, is_open)
			VALUES (?,?,?,?,?,?,?,?)`,
			runID, t.BuyDate, t.BuyPrice, t.SellDate, t.SellPrice, t.PLPercent, t.IsCutoff, t.IsOpen,
		); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordChannels(symbol string, channels []model.Channel) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().Unix()
	for _, c := range channels {
		if _, err := r.db.Exec(`INSERT INTO channel_scans
			(timestamp, symbol, start_index, end_index, slope, intercept,
			 std_dev, stdev_multiplier, touch_count, length)
			VALUES (?,?,?,?,?,?,?,?,?,?)`,
			now, symbol, c.StartIndex, c.EndIndex, c.Slope, c.Intercept,
			c.StdDev, c.StdevMultiplier, c.TouchCount, c.Length,
		); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
