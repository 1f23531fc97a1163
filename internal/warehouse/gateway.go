// Package warehouse talks to the managed analytics backend over the
// Postgres wire protocol. The session is established lazily on first use and
// reused for the lifetime of the gateway; it is never explicitly closed.
// Failures are reported through the error kinds in internal/domain — the
// gateway itself never falls back anywhere.
package warehouse

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/abakirov/lakeview/internal/domain"
	"github.com/abakirov/lakeview/internal/tabular"
)

type Gateway struct {
	dsn    string
	schema string
	tables map[string]tabular.Table
	logger *zap.Logger

	mu   sync.Mutex
	pool *pgxpool.Pool
}

func New(dsn, schema string, tables map[string]tabular.Table, logger *zap.Logger) *Gateway {
	return &Gateway{
		dsn:    dsn,
		schema: schema,
		tables: tables,
		logger: logger,
	}
}

var _ tabular.Backend = (*Gateway)(nil)

// Close releases the connection pool if one was ever established.
func (g *Gateway) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pool != nil {
		g.pool.Close()
		g.pool = nil
	}
}

// session returns the cached pool, dialing on first use. A hung dial blocks
// the caller; there is no timeout layer in this design.
func (g *Gateway) session(ctx context.Context) (*pgxpool.Pool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.pool != nil {
		return g.pool, nil
	}

	pool, err := pgxpool.New(ctx, g.dsn)
	if err != nil {
		return nil, unavailable("connect", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, unavailable("ping", err)
	}

	g.logger.Info("warehouse session established", zap.String("schema", g.schema))
	g.pool = pool
	return g.pool, nil
}

func (g *Gateway) qt(tbl string) string {
	return fmt.Sprintf(`"%s"."%s"`, g.schema, tbl)
}

// CreateTable drops and recreates the named table with its fixed schema.
func (g *Gateway) CreateTable(ctx context.Context, t tabular.Table) error {
	pool, err := g.session(ctx)
	if err != nil {
		return err
	}

	cols := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = columnDDL(c)
	}
	ddl := fmt.Sprintf("CREATE TABLE %s (%s)", g.qt(t.Name), strings.Join(cols, ", "))

	if _, err := pool.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", g.qt(t.Name))); err != nil {
		return classifyDDL(t.Name, err)
	}
	if _, err := pool.Exec(ctx, ddl); err != nil {
		return classifyDDL(t.Name, err)
	}

	g.logger.Info("warehouse table created",
		zap.String("table", t.Name),
		zap.String("location", t.Location),
	)
	return nil
}

// Append inserts one record as a structured row; existing rows are never
// rewritten.
func (g *Gateway) Append(ctx context.Context, table string, rec tabular.Record) error {
	t, ok := g.tables[table]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnknownTable, table)
	}

	pool, err := g.session(ctx)
	if err != nil {
		return err
	}

	names := make([]string, len(t.Columns))
	marks := make([]string, len(t.Columns))
	args := make([]any, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = fmt.Sprintf("%q", c.Name)
		marks[i] = fmt.Sprintf("$%d", i+1)
		v, err := columnValue(c, rec)
		if err != nil {
			return err
		}
		args[i] = v
	}

	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		g.qt(t.Name), strings.Join(names, ", "), strings.Join(marks, ", "))
	if _, err := pool.Exec(ctx, stmt, args...); err != nil {
		return unavailable("append "+table, err)
	}
	return nil
}

// Query runs a filtered read and returns the rows in creation order. An
// unmatched filter yields an empty slice.
func (g *Gateway) Query(ctx context.Context, table string, filter tabular.Filter) ([]tabular.Record, error) {
	t, ok := g.tables[table]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownTable, table)
	}

	pool, err := g.session(ctx)
	if err != nil {
		return nil, err
	}

	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if filter.CustomerID != "" {
		conds = append(conds, "customer_id = "+arg(filter.CustomerID))
	}
	if filter.OrderID != "" {
		conds = append(conds, "order_id = "+arg(filter.OrderID))
	}
	if filter.InvoiceNumber != "" {
		conds = append(conds, "invoice_number LIKE '%' || "+arg(filter.InvoiceNumber)+" || '%'")
	}

	stmt := fmt.Sprintf("SELECT %s FROM %s", strings.Join(quoteAll(t.ColumnNames()), ", "), g.qt(t.Name))
	if len(conds) > 0 {
		stmt += " WHERE " + strings.Join(conds, " AND ")
	}
	stmt += " ORDER BY created_at NULLS LAST"

	rows, err := pool.Query(ctx, stmt, args...)
	if err != nil {
		return nil, unavailable("query "+table, err)
	}
	defer rows.Close()

	out := []tabular.Record{}
	for rows.Next() {
		rec, err := scanRecord(t, rows.Values)
		if err != nil {
			return nil, unavailable("scan "+table, err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("query "+table, err)
	}
	return out, nil
}

func quoteAll(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = fmt.Sprintf("%q", n)
	}
	return out
}

func columnDDL(c tabular.Column) string {
	var typ string
	switch c.Type {
	case tabular.TypeDouble:
		typ = "double precision"
	case tabular.TypeTimestamp:
		typ = "timestamptz"
	default:
		typ = "text"
	}
	ddl := fmt.Sprintf("%q %s", c.Name, typ)
	if !c.Nullable {
		ddl += " NOT NULL"
	}
	return ddl
}

// columnValue converts a record field into a bind argument. Records carry
// timestamps as RFC 3339 strings, the wire wants time.Time.
func columnValue(c tabular.Column, rec tabular.Record) (any, error) {
	v, ok := rec[c.Name]
	if !ok || v == nil {
		return nil, nil
	}
	switch c.Type {
	case tabular.TypeTimestamp:
		s, ok := v.(string)
		if !ok {
			if ts, isTime := v.(time.Time); isTime {
				return ts, nil
			}
			return nil, fmt.Errorf("%w: field %s is not a timestamp", domain.ErrValidation, c.Name)
		}
		ts, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return nil, fmt.Errorf("%w: field %s: %v", domain.ErrValidation, c.Name, err)
		}
		return ts, nil
	case tabular.TypeDouble:
		f, ok := v.(float64)
		if !ok {
			return nil, fmt.Errorf("%w: field %s is not numeric", domain.ErrValidation, c.Name)
		}
		return f, nil
	default:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: field %s is not a string", domain.ErrValidation, c.Name)
		}
		return s, nil
	}
}

// scanRecord rebuilds the uniform record shape: strings, float64s and
// RFC 3339 timestamp strings, matching what the local store returns.
func scanRecord(t tabular.Table, values func() ([]any, error)) (tabular.Record, error) {
	vals, err := values()
	if err != nil {
		return nil, err
	}
	if len(vals) != len(t.Columns) {
		return nil, fmt.Errorf("expected %d columns, got %d", len(t.Columns), len(vals))
	}

	rec := make(tabular.Record, len(t.Columns))
	for i, c := range t.Columns {
		switch v := vals[i].(type) {
		case nil:
			rec[c.Name] = nil
		case time.Time:
			rec[c.Name] = v.UTC().Format(time.RFC3339Nano)
		default:
			rec[c.Name] = v
		}
	}
	return rec, nil
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", domain.ErrBackendUnavailable, op, err)
}

// classifyDDL separates "the backend answered and said no" from "the backend
// did not answer". Auth failures (class 28) count as unavailable.
func classifyDDL(table string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && !strings.HasPrefix(pgErr.Code, "28") {
		return fmt.Errorf("%w: %s: %v", domain.ErrSchema, table, err)
	}
	return unavailable("create table "+table, err)
}
