package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"beach-vision/internal/domain/entity"
	"beach-vision/internal/domain/port"
)

// SQLiteJournal журнал отчётов в SQLite: сводные колонки для выборок и полный отчёт в JSON.
type SQLiteJournal struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteJournal открывает базу и создаёт таблицы.
func NewSQLiteJournal(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	j := &SQLiteJournal{db: db}
	if err := j.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate journal: %w", err)
	}
	return j, nil
}

func (j *SQLiteJournal) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS reports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		frame_seq INTEGER NOT NULL,
		frame_timestamp DATETIME NOT NULL,
		boundary_state TEXT NOT NULL,
		cans INTEGER NOT NULL DEFAULT 0,
		containers INTEGER NOT NULL DEFAULT 0,
		obstacles INTEGER NOT NULL DEFAULT 0,
		errors INTEGER NOT NULL DEFAULT 0,
		payload TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_reports_boundary ON reports(boundary_state);
	CREATE INDEX IF NOT EXISTS idx_reports_frame_timestamp ON reports(frame_timestamp);
	`
	_, err := j.db.Exec(schema)
	return err
}

// Publish сохраняет отчёт.
func (j *SQLiteJournal) Publish(ctx context.Context, report *entity.DetectionReport) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	_, err = j.db.ExecContext(ctx, `
		INSERT INTO reports (frame_seq, frame_timestamp, boundary_state, cans, containers, obstacles, errors, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, report.FrameSeq, report.FrameTimestamp.UTC().Format(time.RFC3339Nano), string(report.Boundary.State),
		len(report.Cans), len(report.Containers), len(report.Obstacles), len(report.Errors), string(payload))
	if err != nil {
		return fmt.Errorf("failed to insert report: %w", err)
	}
	return nil
}

// Recent последние limit отчётов, новые первыми.
func (j *SQLiteJournal) Recent(ctx context.Context, limit int) ([]port.JournalEntry, error) {
	if limit <= 0 {
		return []port.JournalEntry{}, nil
	}

	j.mu.RLock()
	defer j.mu.RUnlock()

	rows, err := j.db.QueryContext(ctx, `SELECT id, payload FROM reports ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	defer rows.Close()

	entries := make([]port.JournalEntry, 0, limit)
	for rows.Next() {
		var (
			entry   port.JournalEntry
			payload string
		)
		if err := rows.Scan(&entry.ID, &payload); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		if err := json.Unmarshal([]byte(payload), &entry.Report); err != nil {
			return nil, fmt.Errorf("failed to decode report %d: %w", entry.ID, err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// CountByState сколько кадров журнал видел в каждом состоянии границы.
func (j *SQLiteJournal) CountByState(ctx context.Context) (map[entity.BoundaryState]int, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	rows, err := j.db.QueryContext(ctx, `SELECT boundary_state, COUNT(*) FROM reports GROUP BY boundary_state`)
	if err != nil {
		return nil, fmt.Errorf("failed to count reports: %w", err)
	}
	defer rows.Close()

	counts := make(map[entity.BoundaryState]int)
	for rows.Next() {
		var (
			state string
			n     int
		)
		if err := rows.Scan(&state, &n); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		counts[entity.BoundaryState(state)] = n
	}
	return counts, rows.Err()
}

// Close закрывает базу
func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}

var _ port.ReportJournal = (*SQLiteJournal)(nil)
