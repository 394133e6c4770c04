// Package postgres runs dataset statements against a PostgreSQL mirror of the
// GSOD tables.
package postgres

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/i474232898/gsod-weather/internal/dataset"
)

// Executor implements dataset.Executor on a pgx pool.
type Executor struct {
	pool *pgxpool.Pool
}

// New connects to dsn and pings the server.
func New(ctx context.Context, dsn string) (*Executor, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to db: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return &Executor{pool: pool}, nil
}

// Close releases the pool.
func (e *Executor) Close() {
	e.pool.Close()
}

// Pool exposes the pool, mainly for seeding local data.
func (e *Executor) Pool() *pgxpool.Pool {
	return e.pool
}

// ApplySchema creates the mirror tables if they do not exist.
func (e *Executor) ApplySchema(ctx context.Context) error {
	for _, stmt := range dataset.SchemaStatements() {
		if _, err := e.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

// Query runs stmt, binding @name placeholders through pgx.NamedArgs.
func (e *Executor) Query(ctx context.Context, stmt dataset.Statement) ([]dataset.Row, error) {
	rows, err := e.pool.Query(ctx, stmt.Text, NamedArgs(stmt))
	if err != nil {
		return nil, fmt.Errorf("postgres query %s: %w", stmt.Name, err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	var out []dataset.Row
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("postgres scan %s: %w", stmt.Name, err)
		}
		row := make(dataset.Row, len(fields))
		for i, f := range fields {
			row[f.Name] = values[i]
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres rows %s: %w", stmt.Name, err)
	}
	return out, nil
}

// NamedArgs converts statement parameters to pgx named arguments. DATE values
// become midnight UTC timestamps, which pgx encodes as dates.
func NamedArgs(stmt dataset.Statement) pgx.NamedArgs {
	args := make(pgx.NamedArgs, len(stmt.Params))
	for name, p := range stmt.Params {
		if d, ok := p.Value.(civil.Date); ok {
			args[name] = d.In(time.UTC)
			continue
		}
		args[name] = p.Value
	}
	return args
}
