// Package sqlite runs dataset statements against a local SQLite mirror of the
// GSOD tables.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"cloud.google.com/go/civil"
	_ "github.com/mattn/go-sqlite3"

	"github.com/i474232898/gsod-weather/internal/dataset"
)

// Executor implements dataset.Executor on a *sql.DB.
type Executor struct {
	db *sql.DB
}

// Open opens the database at path (or a "file:" DSN) and verifies connectivity.
func Open(ctx context.Context, path string) (*Executor, error) {
	dsn, err := buildDSN(path)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}
	if path == ":memory:" {
		// Each connection would otherwise get its own empty database.
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return &Executor{db: db}, nil
}

// New wraps an already opened database.
func New(db *sql.DB) *Executor {
	return &Executor{db: db}
}

// DB exposes the underlying handle, mainly for seeding local data.
func (e *Executor) DB() *sql.DB {
	return e.db
}

// Close closes the database.
func (e *Executor) Close() error {
	return e.db.Close()
}

// ApplySchema creates the mirror tables if they do not exist.
func (e *Executor) ApplySchema(ctx context.Context) error {
	for _, stmt := range dataset.SchemaStatements() {
		if _, err := e.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

// Query runs stmt with its parameters bound by name.
func (e *Executor) Query(ctx context.Context, stmt dataset.Statement) ([]dataset.Row, error) {
	args := make([]any, 0, len(stmt.Params))
	for _, name := range stmt.ParamNames() {
		args = append(args, sql.Named(name, bindValue(stmt.Params[name])))
	}

	rows, err := e.db.QueryContext(ctx, stmt.Text, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite query %s: %w", stmt.Name, err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			slog.Error("failed to close rows", "error", cerr)
		}
	}()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("sqlite columns %s: %w", stmt.Name, err)
	}

	var out []dataset.Row
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("sqlite scan %s: %w", stmt.Name, err)
		}
		row := make(dataset.Row, len(cols))
		for i, col := range cols {
			row[col] = values[i]
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite rows %s: %w", stmt.Name, err)
	}
	return out, nil
}

// bindValue converts typed parameters to values the driver accepts. Dates are
// stored as ISO text.
func bindValue(p dataset.Param) any {
	if d, ok := p.Value.(civil.Date); ok {
		return d.String()
	}
	return p.Value
}

func buildDSN(path string) (string, error) {
	if path == ":memory:" {
		return ":memory:", nil
	}

	params := []string{"_busy_timeout=5000", "_journal_mode=WAL"}
	if strings.HasPrefix(path, "file:") {
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		return path + sep + strings.Join(params, "&"), nil
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	return fmt.Sprintf("file:%s?%s", path, strings.Join(params, "&")), nil
}
