package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/maksimkurb/wgvpc/src/internal/errors"
	"github.com/maksimkurb/wgvpc/src/internal/lifecycle"
	"github.com/maksimkurb/wgvpc/src/internal/log"
)

const schema = `
CREATE TABLE IF NOT EXISTS operations(
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	router_id TEXT NOT NULL,
	operation TEXT NOT NULL,
	outcome TEXT NOT NULL,
	error TEXT NOT NULL DEFAULT '',
	failed_items TEXT NOT NULL DEFAULT '[]',
	started_at INTEGER NOT NULL,
	duration_ms INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_operations_router ON operations(router_id, id);
`

const writeTimeout = 2 * time.Second

// Entry is one recorded lifecycle operation.
type Entry struct {
	ID          int64                  `json:"id"`
	RouterID    string                 `json:"routerId"`
	Operation   string                 `json:"operation"`
	Outcome     string                 `json:"outcome"`
	Error       string                 `json:"error,omitempty"`
	FailedItems []lifecycle.ItemResult `json:"failedItems"`
	StartedAt   time.Time              `json:"startedAt"`
	DurationMs  int64                  `json:"durationMs"`
}

// Journal stores lifecycle events. It implements lifecycle.Sink.
type Journal struct {
	db *sql.DB
}

// Open opens (creating if needed) the journal database at path.
func Open(ctx context.Context, path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.NewInternalError(fmt.Sprintf("failed to create journal directory for %s", path), err)
	}

	dsn := "file:" + path + "?_pragma=busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.NewInternalError("failed to open journal", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.NewInternalError("failed to open journal", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, errors.NewInternalError("failed to initialize journal schema", err)
	}

	log.Debugf("Journal opened at %s", path)
	return &Journal{db: db}, nil
}

func (j *Journal) Close() error {
	return j.db.Close()
}

// Record stores event. Failures are logged, never returned: the journal must
// not affect the operation it describes.
func (j *Journal) Record(event lifecycle.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	if err := j.insert(ctx, event); err != nil {
		log.Warnf("Failed to journal %s of router %s: %v", event.Operation, event.RouterID, err)
	}
}

func (j *Journal) insert(ctx context.Context, event lifecycle.Event) error {
	var failed []lifecycle.ItemResult
	if event.Report != nil {
		failed = event.Report.Failed()
	}
	if failed == nil {
		failed = []lifecycle.ItemResult{}
	}
	items, err := json.Marshal(failed)
	if err != nil {
		return err
	}

	errText := ""
	if event.Err != nil {
		errText = event.Err.Error()
	}

	_, err = j.db.ExecContext(ctx,
		`INSERT INTO operations(router_id, operation, outcome, error, failed_items, started_at, duration_ms) VALUES(?,?,?,?,?,?,?)`,
		event.RouterID, string(event.Operation), string(event.Outcome()), errText, string(items),
		event.StartedAt.UnixMilli(), event.Duration.Milliseconds(),
	)
	return err
}

// History returns the latest entries, newest first. An empty routerID
// returns entries of every router; limit <= 0 means no limit.
func (j *Journal) History(ctx context.Context, routerID string, limit int) ([]Entry, error) {
	query := `SELECT id, router_id, operation, outcome, error, failed_items, started_at, duration_ms FROM operations`
	var args []any
	if routerID != "" {
		query += ` WHERE router_id = ?`
		args = append(args, routerID)
	}
	query += ` ORDER BY id DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.NewInternalError("failed to query journal", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var (
			e         Entry
			items     string
			startedAt int64
		)
		if err := rows.Scan(&e.ID, &e.RouterID, &e.Operation, &e.Outcome, &e.Error, &items, &startedAt, &e.DurationMs); err != nil {
			return nil, errors.NewInternalError("failed to read journal entry", err)
		}
		if err := json.Unmarshal([]byte(items), &e.FailedItems); err != nil {
			return nil, errors.NewInternalError(fmt.Sprintf("journal entry %d has malformed items", e.ID), err)
		}
		e.StartedAt = time.UnixMilli(startedAt).UTC()
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternalError("failed to read journal", err)
	}
	return entries, nil
}
