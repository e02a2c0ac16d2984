package postgres_test

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// rowStub implements pgx.Row
type rowStub struct{ scan func(dest ...any) error }

func (r rowStub) Scan(dest ...any) error { return r.scan(dest...) }

// rowsStub implements pgx.Rows over a fixed list of scan funcs.
type rowsStub struct {
	scans []func(dest ...any) error
	i     int
	err   error
}

func (r *rowsStub) Next() bool {
	if r.i >= len(r.scans) {
		return false
	}
	r.i++
	return true
}
func (r *rowsStub) Scan(dest ...any) error            { return r.scans[r.i-1](dest...) }
func (r *rowsStub) Close()                            {}
func (r *rowsStub) Err() error                        { return r.err }
func (r *rowsStub) CommandTag() pgconn.CommandTag     { return pgconn.CommandTag{} }
func (r *rowsStub) FieldDescriptions() []pgconn.FieldDescription {
	return nil
}
func (r *rowsStub) Values() ([]any, error)   { return nil, nil }
func (r *rowsStub) RawValues() [][]byte      { return nil }
func (r *rowsStub) Conn() *pgx.Conn          { return nil }

// poolStub implements postgres.PgxPool for tests. Defined in a shared helper
// so multiple *_test.go files can reuse it without redefs.
type poolStub struct {
	execErr  error
	execTag  pgconn.CommandTag
	execSQL  string
	execArgs []any
	row      rowStub
	rows     *rowsStub
	queryErr error
}

func (p *poolStub) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	p.execSQL = sql
	p.execArgs = args
	return p.execTag, p.execErr
}

func (p *poolStub) QueryRow(_ context.Context, _ string, _ ...any) pgx.Row {
	if p.row.scan == nil {
		return rowStub{scan: func(_ ...any) error { return errors.New("no row configured") }}
	}
	return p.row
}

func (p *poolStub) Query(_ context.Context, _ string, _ ...any) (pgx.Rows, error) {
	if p.queryErr != nil {
		return nil, p.queryErr
	}
	if p.rows == nil {
		return &rowsStub{}, nil
	}
	return p.rows, nil
}
