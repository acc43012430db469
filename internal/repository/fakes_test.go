package repository

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type fakeRow struct {
	scan func(dest ...any) error
}

func (r fakeRow) Scan(dest ...any) error { return r.scan(dest...) }

func valuesRow(vals ...any) fakeRow {
	return fakeRow{scan: func(dest ...any) error {
		if len(dest) != len(vals) {
			return fmt.Errorf("scan: got %d destinations, want %d", len(dest), len(vals))
		}
		for i := range dest {
			reflect.ValueOf(dest[i]).Elem().Set(reflect.ValueOf(vals[i]))
		}
		return nil
	}}
}

func errRow(err error) fakeRow {
	return fakeRow{scan: func(...any) error { return err }}
}

// fakeConn answers QueryRow from a queue and records every statement.
type fakeConn struct {
	execs      []string
	execArgs   [][]any
	queries    []string
	queryArgs  [][]any
	rows       []pgx.Row
	rowSet     [][]any
	execFn     func(sql string) (pgconn.CommandTag, error)
	committed  bool
	rolledBack bool
}

func (c *fakeConn) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	c.execs = append(c.execs, sql)
	c.execArgs = append(c.execArgs, args)
	if c.execFn != nil {
		return c.execFn(sql)
	}
	return pgconn.NewCommandTag("UPDATE 1"), nil
}

func (c *fakeConn) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	if c.rowSet == nil {
		return nil, errors.New("fakeConn: Query not supported")
	}
	c.queries = append(c.queries, sql)
	c.queryArgs = append(c.queryArgs, args)
	return &fakeRows{vals: c.rowSet}, nil
}

// fakeRows iterates a fixed result set; only the methods the repositories
// call are implemented.
type fakeRows struct {
	pgx.Rows
	vals [][]any
	i    int
}

func (r *fakeRows) Next() bool {
	if r.i >= len(r.vals) {
		return false
	}
	r.i++
	return true
}

func (r *fakeRows) Scan(dest ...any) error { return valuesRow(r.vals[r.i-1]...).Scan(dest...) }

func (r *fakeRows) Close() {}

func (r *fakeRows) Err() error { return nil }

func (c *fakeConn) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	c.queries = append(c.queries, sql)
	c.queryArgs = append(c.queryArgs, args)
	if len(c.rows) == 0 {
		return errRow(pgx.ErrNoRows)
	}
	row := c.rows[0]
	c.rows = c.rows[1:]
	return row
}

func (c *fakeConn) Begin(context.Context) (pgx.Tx, error) {
	return &fakeTx{conn: c}, nil
}

type fakeTx struct {
	pgx.Tx
	conn *fakeConn
}

func (t *fakeTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return t.conn.Exec(ctx, sql, args...)
}

func (t *fakeTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return t.conn.Query(ctx, sql, args...)
}

func (t *fakeTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return t.conn.QueryRow(ctx, sql, args...)
}

func (t *fakeTx) Commit(context.Context) error {
	t.conn.committed = true
	return nil
}

func (t *fakeTx) Rollback(context.Context) error {
	if !t.conn.committed {
		t.conn.rolledBack = true
	}
	return nil
}
