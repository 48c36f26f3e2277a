package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"slices"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists the activity journal to a SQLite database.
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
		`CREATE TABLE IF NOT EXISTS tx_events (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp  INTEGER NOT NULL,
			tx_id      TEXT NOT NULL,
			event_type TEXT,
			coin       TEXT,
			amount     TEXT,
			status     TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tx_events_tx ON tx_events(tx_id)`,

		`CREATE TABLE IF NOT EXISTS watch_events (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			action    TEXT,
			address   TEXT,
			label     TEXT,
			chain     TEXT
		)`,

		`CREATE TABLE IF NOT EXISTS holding_events (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			action    TEXT,
			symbol    TEXT,
			amount    TEXT
		)`,

		`CREATE TABLE IF NOT EXISTS load_events (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			source    TEXT,
			success   INTEGER,
			error     TEXT,
			tx_count  INTEGER
		)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordTx(evt *TxEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO tx_events
		(timestamp, tx_id, event_type, coin, amount, status)
		VALUES (?,?,?,?,?,?)`,
		time.Now().Unix(), evt.TxID, evt.EventType, evt.Coin, evt.Amount, evt.Status,
	)
	return err
}

func (r *SQLiteRecorder) RecordWatch(evt *WatchEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO watch_events
		(timestamp, action, address, label, chain)
		VALUES (?,?,?,?,?)`,
		time.Now().Unix(), evt.Action, evt.Address, evt.Label, evt.Chain,
	)
	return err
}

func (r *SQLiteRecorder) RecordHolding(evt *HoldingEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO holding_events
		(timestamp, action, symbol, amount)
		VALUES (?,?,?,?)`,
		time.Now().Unix(), evt.Action, evt.Symbol, evt.Amount,
	)
	return err
}

func (r *SQLiteRecorder) RecordLoad(evt *LoadEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	success := 0
	if evt.Success {
		success = 1
	}
	_, err := r.db.Exec(`INSERT INTO load_events
		(timestamp, source, success, error, tx_count)
		VALUES (?,?,?,?,?)`,
		time.Now().Unix(), evt.Source, success, evt.Error, evt.TxCount,
	)
	return err
}

// TxHistory returns the journaled events of one transaction, oldest first.
func (r *SQLiteRecorder) TxHistory(txID string) ([]TxEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT timestamp, tx_id, event_type, coin, amount, status
		FROM tx_events WHERE tx_id = ? ORDER BY id`, txID)
	if err != nil {
		return nil, fmt.Errorf("query tx events: %w", err)
	}
	defer rows.Close()

	var out []TxEvent
	for rows.Next() {
		var e TxEvent
		if err := rows.Scan(&e.Timestamp, &e.TxID, &e.EventType, &e.Coin, &e.Amount, &e.Status); err != nil {
			return nil, fmt.Errorf("scan tx event: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Count returns the number of rows in a journal table.
func (r *SQLiteRecorder) Count(table string) (int, error) {
	if !slices.Contains(Tables, table) {
		return 0, fmt.Errorf("unknown table %q", table)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int
	err := r.db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n)
	return n, err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
