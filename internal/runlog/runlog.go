package runlog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	mdsrouter "github.com/msto63/mDS/docscript/router"
)

// Record is one journaled script run
type Record struct {
	RunID      string    `json:"run_id"`
	Source     string    `json:"source"`
	Success    bool      `json:"success"`
	Privileged bool      `json:"privileged"`
	Namespaces []string  `json:"namespaces,omitempty"`
	Output     []string  `json:"output,omitempty"`
	ErrorKind  string    `json:"error_kind,omitempty"`
	ErrorText  string    `json:"error_text,omitempty"`
	DurationMS int64     `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
}

// FromResult builds a journal record from a routed result
func FromResult(source string, result *mdsrouter.Result) *Record {
	return &Record{
		RunID:      result.RunID,
		Source:     source,
		Success:    result.Success,
		Privileged: result.Privileged,
		Namespaces: result.Namespaces,
		Output:     result.Output,
		ErrorKind:  string(result.ErrorKind),
		ErrorText:  result.ErrorMessage,
		DurationMS: result.Duration.Milliseconds(),
		CreatedAt:  time.Now().UTC(),
	}
}

// RunStore defines the interface for run journal persistence
type RunStore interface {
	Append(ctx context.Context, rec *Record) error
	Get(ctx context.Context, runID string) (*Record, error)
	List(ctx context.Context, limit, offset int) ([]*Record, error)
	Statistics(ctx context.Context) (map[string]interface{}, error)
	Close() error
}

// SQLiteRunStore implements RunStore using SQLite
type SQLiteRunStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// SQLiteRunConfig holds configuration for the SQLite store
type SQLiteRunConfig struct {
	Path string
}

// DefaultRunConfig returns default configuration
func DefaultRunConfig() SQLiteRunConfig {
	return SQLiteRunConfig{
		Path: "./data/runs.db",
	}
}

// NewSQLiteRunStore creates a new SQLite-based run journal
func NewSQLiteRunStore(cfg SQLiteRunConfig) (*SQLiteRunStore, error) {
	dir := filepath.Dir(cfg.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	// Open database with WAL mode
	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_synchronous=NORMAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &SQLiteRunStore{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates the necessary tables
func (s *SQLiteRunStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		success INTEGER NOT NULL DEFAULT 0,
		privileged INTEGER NOT NULL DEFAULT 0,
		namespaces TEXT,
		output TEXT,
		error_kind TEXT NOT NULL DEFAULT '',
		error_text TEXT NOT NULL DEFAULT '',
		duration_ms INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_runs_error_kind ON runs(error_kind);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Append stores a run record
func (s *SQLiteRunStore) Append(ctx context.Context, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	namespaces, err := json.Marshal(rec.Namespaces)
	if err != nil {
		return fmt.Errorf("failed to marshal namespaces: %w", err)
	}
	output, err := json.Marshal(rec.Output)
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs (run_id, source, success, privileged, namespaces, output,
			error_kind, error_text, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID, rec.Source, boolToInt(rec.Success), boolToInt(rec.Privileged),
		string(namespaces), string(output), rec.ErrorKind, rec.ErrorText,
		rec.DurationMS, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to append run: %w", err)
	}

	return nil
}

// Get retrieves a run record by ID
func (s *SQLiteRunStore) Get(ctx context.Context, runID string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT run_id, source, success, privileged, namespaces, output,
			error_kind, error_text, duration_ms, created_at
		FROM runs WHERE run_id = ?`, runID)

	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run not found: %s", runID)
	}
	return rec, err
}

// List returns run records newest first
func (s *SQLiteRunStore) List(ctx context.Context, limit, offset int) ([]*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, source, success, privileged, namespaces, output,
			error_kind, error_text, duration_ms, created_at
		FROM runs ORDER BY created_at DESC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// Statistics returns aggregate journal numbers
func (s *SQLiteRunStore) Statistics(ctx context.Context) (map[string]interface{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := make(map[string]interface{})

	var total, succeeded, privileged int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COALESCE(SUM(success), 0),
			COALESCE(SUM(privileged), 0)
		FROM runs`).Scan(&total, &succeeded, &privileged)
	if err != nil {
		return nil, fmt.Errorf("failed to compute statistics: %w", err)
	}

	stats["total_runs"] = total
	stats["succeeded"] = succeeded
	stats["failed"] = total - succeeded
	stats["privileged"] = privileged

	return stats, nil
}

// Close closes the database
func (s *SQLiteRunStore) Close() error {
	return s.db.Close()
}

// scanner abstracts sql.Row and sql.Rows for scanRecord
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row scanner) (*Record, error) {
	var rec Record
	var success, privileged int
	var namespaces, output string

	err := row.Scan(&rec.RunID, &rec.Source, &success, &privileged,
		&namespaces, &output, &rec.ErrorKind, &rec.ErrorText,
		&rec.DurationMS, &rec.CreatedAt)
	if err != nil {
		return nil, err
	}

	rec.Success = success != 0
	rec.Privileged = privileged != 0
	if namespaces != "" {
		_ = json.Unmarshal([]byte(namespaces), &rec.Namespaces)
	}
	if output != "" {
		_ = json.Unmarshal([]byte(output), &rec.Output)
	}

	return &rec, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// MemoryRunStore implements RunStore in memory for tests and ephemeral use
type MemoryRunStore struct {
	mu      sync.RWMutex
	records []*Record
	byID    map[string]*Record
}

// NewMemoryRunStore creates an in-memory run journal
func NewMemoryRunStore() *MemoryRunStore {
	return &MemoryRunStore{byID: make(map[string]*Record)}
}

// Append stores a run record
func (m *MemoryRunStore) Append(ctx context.Context, rec *Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	clone := *rec
	m.records = append(m.records, &clone)
	m.byID[rec.RunID] = &clone
	return nil
}

// Get retrieves a run record by ID
func (m *MemoryRunStore) Get(ctx context.Context, runID string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.byID[runID]
	if !ok {
		return nil, fmt.Errorf("run not found: %s", runID)
	}
	clone := *rec
	return &clone, nil
}

// List returns run records newest first
func (m *MemoryRunStore) List(ctx context.Context, limit, offset int) ([]*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}

	var records []*Record
	for i := len(m.records) - 1 - offset; i >= 0 && len(records) < limit; i-- {
		clone := *m.records[i]
		records = append(records, &clone)
	}
	return records, nil
}

// Statistics returns aggregate journal numbers
func (m *MemoryRunStore) Statistics(ctx context.Context) (map[string]interface{}, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	succeeded, privileged := 0, 0
	for _, rec := range m.records {
		if rec.Success {
			succeeded++
		}
		if rec.Privileged {
			privileged++
		}
	}

	return map[string]interface{}{
		"total_runs": len(m.records),
		"succeeded":  succeeded,
		"failed":     len(m.records) - succeeded,
		"privileged": privileged,
	}, nil
}

// Close is a no-op for the memory store
func (m *MemoryRunStore) Close() error {
	return nil
}
