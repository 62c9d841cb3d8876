package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"vcpscan/pkg/model"
)

// SQLiteRecorder persists scan history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so readers don't block the daemon's writes
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
		`CREATE TABLE IF NOT EXISTS scans (
			scan_id         TEXT PRIMARY KEY,
			scan_time       INTEGER NOT NULL,
			total_scanned   INTEGER,
			setups_found    INTEGER,
			breakouts_found INTEGER,
			duration_ms     INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_scans_time ON scans(scan_time)`,

		`CREATE TABLE IF NOT EXISTS setups (
			id                   INTEGER PRIMARY KEY AUTOINCREMENT,
			scan_id              TEXT NOT NULL,
			symbol               TEXT NOT NULL,
			score                REAL,
			pivot_price          REAL,
			current_price        REAL,
			distance_from_pivot  REAL,
			total_base_depth_pct REAL,
			base_duration_days   INTEGER,
			volume_dry_up_pct    REAL,
			rs_percentile        REAL,
			trend_alignment      INTEGER,
			leg_count            INTEGER,
			verdict              TEXT,
			entry                REAL,
			stop_loss            REAL,
			target2              REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_setups_scan ON setups(scan_id)`,
		`CREATE INDEX IF NOT EXISTS idx_setups_symbol ON setups(symbol)`,

		`CREATE TABLE IF NOT EXISTS breakouts (
			id                 INTEGER PRIMARY KEY AUTOINCREMENT,
			scan_id            TEXT NOT NULL,
			symbol             TEXT NOT NULL,
			breakout_date      INTEGER,
			breakout_price     REAL,
			pivot_price        REAL,
			relative_volume    REAL,
			confirmation_score REAL,
			classification     TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_breakouts_scan ON breakouts(scan_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordScan writes the scan's headline row plus one row per setup and
// breakout, atomically
func (r *SQLiteRecorder) RecordScan(result *model.ScanResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`INSERT INTO scans
		(scan_id, scan_time, total_scanned, setups_found, breakouts_found, duration_ms)
		VALUES (?,?,?,?,?,?)`,
		result.ScanID, result.ScanTime.Unix(), result.TotalScanned,
		result.SetupsFound, result.BreakoutsFound, result.Duration.Milliseconds(),
	); err != nil {
		return fmt.Errorf("insert scan: %w", err)
	}

	for _, outcome := range result.Outcomes {
		if setup := outcome.Setup; setup != nil {
			verdict := ""
			if outcome.Proof != nil {
				verdict = outcome.Proof.Verdict
			}
			var entry, stop, target2 float64
			if outcome.Plan != nil {
				entry = outcome.Plan.Entry
				stop = outcome.Plan.StopLoss
				target2 = outcome.Plan.Target2
			}
			if _, err := tx.Exec(`INSERT INTO setups
				(scan_id, symbol, score, pivot_price, current_price, distance_from_pivot,
				 total_base_depth_pct, base_duration_days, volume_dry_up_pct, rs_percentile,
				 trend_alignment, leg_count, verdict, entry, stop_loss, target2)
				VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
				result.ScanID, setup.Symbol, setup.Score, setup.PivotPrice, setup.CurrentPrice,
				setup.DistanceFromPivotPct, setup.TotalBaseDepthPct, setup.BaseDurationDays,
				setup.VolumeDryUpPct, setup.RSPercentile, boolToInt(setup.TrendAlignment),
				len(setup.Legs), verdict, entry, stop, target2,
			); err != nil {
				return fmt.Errorf("insert setup %s: %w", setup.Symbol, err)
			}
		}

		if b := outcome.Breakout; b != nil {
			if _, err := tx.Exec(`INSERT INTO breakouts
				(scan_id, symbol, breakout_date, breakout_price, pivot_price,
				 relative_volume, confirmation_score, classification)
				VALUES (?,?,?,?,?,?,?,?)`,
				result.ScanID, b.Symbol, b.BreakoutDate.Unix(), b.BreakoutPrice,
				b.PivotPrice, b.RelativeVolume, b.ConfirmationScore, b.Classification,
			); err != nil {
				return fmt.Errorf("insert breakout %s: %w", b.Symbol, err)
			}
		}
	}

	return tx.Commit()
}

// ScanSummaries returns the most recent scans, newest first
func (r *SQLiteRecorder) ScanSummaries(limit int) ([]ScanSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.Query(`SELECT scan_id, scan_time, total_scanned, setups_found, breakouts_found, duration_ms
		FROM scans ORDER BY scan_time DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query scans: %w", err)
	}
	defer rows.Close()

	var summaries []ScanSummary
	for rows.Next() {
		var s ScanSummary
		var ts, durMS int64
		if err := rows.Scan(&s.ScanID, &ts, &s.TotalScanned, &s.SetupsFound, &s.BreakoutsFound, &durMS); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		s.ScanTime = time.Unix(ts, 0)
		s.Duration = (time.Duration(durMS) * time.Millisecond).String()
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
