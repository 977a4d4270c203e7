package persist

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/manongfatu/dreamteamfinance/internal/core"
	applog "github.com/manongfatu/dreamteamfinance/internal/log"

	_ "modernc.org/sqlite"
)

// LocalStore is the durable local copy: a small SQLite database holding
// keyed snapshot blobs plus the user table. Writes are synchronous and
// best-effort; the caller decides whether a failure matters.
type LocalStore struct {
	db  *sql.DB
	log *applog.Logger
}

func NewLocalStore(dbPath string, logger *applog.Logger) (*LocalStore, error) {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &LocalStore{
		db:  db,
		log: logger.WithComponent(applog.ComponentLocal),
	}, nil
}

func (s *LocalStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// DB exposes the underlying handle for other repositories sharing the
// same database file (the user store).
func (s *LocalStore) DB() *sql.DB {
	return s.db
}

// Get returns the blob stored under key, or nil when the key is absent.
func (s *LocalStore) Get(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM snapshots WHERE key = ?`, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get snapshot %q: %w", key, err)
	}
	return data, nil
}

// Set stores the blob under key, replacing any previous value.
func (s *LocalStore) Set(ctx context.Context, key string, data []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO snapshots (key, data, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		key, data, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("set snapshot %q: %w", key, err)
	}
	return nil
}

// LoadSnapshot hydrates a YearData from local storage. The second return
// is false when nothing usable is stored; a corrupt or malformed blob is
// treated the same way, so first load degrades to an empty year rather
// than failing startup.
func (s *LocalStore) LoadSnapshot(ctx context.Context, key string) (core.YearData, bool, error) {
	data, err := s.Get(ctx, key)
	if err != nil {
		return core.YearData{}, false, err
	}
	if data == nil {
		return core.YearData{}, false, nil
	}

	var y core.YearData
	if err := json.Unmarshal(data, &y); err != nil {
		s.log.Warn("discarding unreadable local snapshot", applog.FieldError, err.Error())
		return core.YearData{}, false, nil
	}
	if err := core.ValidateSnapshot(y); err != nil {
		s.log.Warn("discarding malformed local snapshot", applog.FieldError, err.Error())
		return core.YearData{}, false, nil
	}
	return y, true, nil
}

// LastReminderCheck returns the timestamp of the most recent reminder
// run, or the zero time when none is recorded.
func (s *LocalStore) LastReminderCheck(ctx context.Context, key string) (time.Time, error) {
	data, err := s.Get(ctx, key)
	if err != nil || data == nil {
		return time.Time{}, err
	}
	ts, err := time.Parse(time.RFC3339, string(data))
	if err != nil {
		return time.Time{}, nil
	}
	return ts, nil
}

// SetLastReminderCheck records the timestamp of a completed reminder run.
func (s *LocalStore) SetLastReminderCheck(ctx context.Context, key string, ts time.Time) error {
	return s.Set(ctx, key, []byte(ts.UTC().Format(time.RFC3339)))
}
