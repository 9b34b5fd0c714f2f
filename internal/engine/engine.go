// Package engine wraps an ephemeral in-memory DuckDB instance.
//
// DuckDB reads flat files referenced by path as if they were tables, so a
// row count against a CSV both proves the file exists and that DuckDB can
// sniff and parse it.
package engine

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	_ "github.com/marcboeker/go-duckdb" // duckdb driver

	cerrors "github.com/gigsdata/envcheck/internal/errors"
)

// SmokeMessage is the literal returned by Smoke.
const SmokeMessage = "Hello from DuckDB!"

// Engine is a single in-memory DuckDB database.
// It is not shared between checks; each caller opens and closes its own.
type Engine struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open starts a fresh in-memory database and verifies it responds.
func Open(ctx context.Context, logger *slog.Logger) (*Engine, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	// Empty DSN is an in-memory database.
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, cerrors.New(cerrors.ErrCodeEngineOpen, "failed to open duckdb", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, cerrors.New(cerrors.ErrCodeEngineOpen, "failed to ping duckdb", err)
	}

	e := &Engine{db: db, logger: logger}
	v, err := e.Version(ctx)
	if err != nil {
		v = "unknown"
	}
	logger.Debug("duckdb opened", slog.String("dsn", ":memory:"), slog.String("version", v))
	return e, nil
}

// Close releases the database. Safe to call more than once.
func (e *Engine) Close() error {
	if e.db == nil {
		return nil
	}
	err := e.db.Close()
	e.db = nil
	e.logger.Debug("duckdb closed")
	return err
}

// Version returns the embedded DuckDB library version, e.g. "v1.1.3".
func (e *Engine) Version(ctx context.Context) (string, error) {
	var v string
	if err := e.db.QueryRowContext(ctx, "SELECT version()").Scan(&v); err != nil {
		return "", cerrors.New(cerrors.ErrCodeEngineQuery, "failed to read duckdb version", err)
	}
	return v, nil
}

// Smoke runs a literal-string query and requires exactly one value back.
func (e *Engine) Smoke(ctx context.Context) (string, error) {
	query := fmt.Sprintf("SELECT %s AS message", QuoteLiteral(SmokeMessage))

	rows, err := e.db.QueryContext(ctx, query)
	if err != nil {
		return "", cerrors.New(cerrors.ErrCodeEngineQuery, "smoke query failed", err)
	}
	defer func() { _ = rows.Close() }()

	var (
		msg string
		n   int
	)
	for rows.Next() {
		if err := rows.Scan(&msg); err != nil {
			return "", cerrors.New(cerrors.ErrCodeEngineQuery, "smoke query scan failed", err)
		}
		n++
	}
	if err := rows.Err(); err != nil {
		return "", cerrors.New(cerrors.ErrCodeEngineQuery, "smoke query failed", err)
	}
	if n != 1 {
		return "", cerrors.Newf(cerrors.ErrCodeEngineQuery, "smoke query returned %d rows, want 1", n)
	}
	return msg, nil
}

// CountRows counts the rows in the flat file at path.
func (e *Engine) CountRows(ctx context.Context, path string) (int64, error) {
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", QuoteLiteral(path)) //nolint:gosec // path is quoted

	var n int64
	if err := e.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, cerrors.New(cerrors.ErrCodeEngineQuery, fmt.Sprintf("failed to count rows in %s", path), err).
			WithDetail("path", path)
	}

	e.logger.Debug("counted rows", slog.String("path", path), slog.Int64("rows", n))
	return n, nil
}

// CountDistinct counts distinct non-null values of column in the file at path.
func (e *Engine) CountDistinct(ctx context.Context, path, column string) (int64, error) {
	query := fmt.Sprintf("SELECT COUNT(DISTINCT %s) FROM %s", QuoteIdent(column), QuoteLiteral(path)) //nolint:gosec // both quoted

	var n int64
	if err := e.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, cerrors.New(cerrors.ErrCodeEngineQuery,
			fmt.Sprintf("failed to count distinct %s in %s", column, path), err).
			WithDetail("path", path).
			WithDetail("column", column)
	}
	return n, nil
}

// QuoteLiteral renders s as a SQL string literal.
func QuoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// QuoteIdent renders s as a SQL identifier.
func QuoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
