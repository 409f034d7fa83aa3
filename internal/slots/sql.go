package slots

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/san-kum/reactorsim/internal/reactor"
)

// SQLRepository keeps slots in a SQLite database, one row per filled slot
// with the parameters stored as JSON.
type SQLRepository struct {
	db     *sql.DB
	dbPath string
	mu     sync.Mutex
}

// NewSQLRepository opens or creates the database at path and its schema.
func NewSQLRepository(path string) (*SQLRepository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	repo := &SQLRepository{db: db, dbPath: path}
	if err := repo.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return repo, nil
}

func (r *SQLRepository) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS slots (
		idx INTEGER PRIMARY KEY CHECK (idx BETWEEN 1 AND 5),
		params TEXT NOT NULL,
		saved_at INTEGER NOT NULL
	);
	`
	_, err := r.db.Exec(schema)
	return err
}

func (r *SQLRepository) Path() string { return r.dbPath }

func (r *SQLRepository) List(ctx context.Context) ([]Slot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.QueryContext(ctx, `SELECT idx, params, saved_at FROM slots ORDER BY idx`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := emptySlots()
	for rows.Next() {
		var (
			idx     int
			raw     string
			savedAt int64
		)
		if err := rows.Scan(&idx, &raw, &savedAt); err != nil {
			return nil, err
		}
		if checkIndex(idx) != nil {
			continue
		}
		var p reactor.Params
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			return nil, fmt.Errorf("%w: slot %d: %v", ErrCorrupt, idx, err)
		}
		out[idx-1] = Slot{Index: idx, Filled: true, SavedAt: time.Unix(0, savedAt), Params: p}
	}
	return out, rows.Err()
}

func (r *SQLRepository) Load(ctx context.Context, index int) (reactor.Params, error) {
	if err := checkIndex(index); err != nil {
		return reactor.Params{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	var raw string
	err := r.db.QueryRowContext(ctx, `SELECT params FROM slots WHERE idx = ?`, index).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return reactor.Params{}, fmt.Errorf("%w: %d", ErrEmptySlot, index)
	}
	if err != nil {
		return reactor.Params{}, err
	}

	var p reactor.Params
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return reactor.Params{}, fmt.Errorf("%w: slot %d: %v", ErrCorrupt, index, err)
	}
	return p, nil
}

func (r *SQLRepository) Store(ctx context.Context, index int, p reactor.Params) error {
	if err := checkStore(index, p); err != nil {
		return err
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO slots (idx, params, saved_at) VALUES (?, ?, ?)
		ON CONFLICT(idx) DO UPDATE SET params = excluded.params, saved_at = excluded.saved_at`,
		index, string(raw), time.Now().UnixNano())
	return err
}

func (r *SQLRepository) Close() error {
	return r.db.Close()
}
