package store

import (
	"context"
	"errors"
	"testing"

	"tubeport/internal/platform/store/ch"
)

type fakeCHRows struct {
	vals   []int32
	i      int
	closed bool
}

func (r *fakeCHRows) Next() bool { r.i++; return r.i <= len(r.vals) }
func (r *fakeCHRows) Scan(dest ...any) error {
	*(dest[0].(*int32)) = r.vals[r.i-1]
	return nil
}
func (r *fakeCHRows) Err() error        { return nil }
func (r *fakeCHRows) Close() error      { r.closed = true; return nil }
func (r *fakeCHRows) Columns() []string { return []string{"n"} }

type fakeCH struct {
	inserted map[string][][]any
	rows     *fakeCHRows
	queryErr error
	pingErr  error
	closed   bool
}

func (f *fakeCH) Insert(_ context.Context, table string, rows [][]any) error {
	if f.inserted == nil {
		f.inserted = map[string][][]any{}
	}
	f.inserted[table] = append(f.inserted[table], rows...)
	return nil
}
func (f *fakeCH) Exec(context.Context, string, ...any) error { return nil }
func (f *fakeCH) Query(context.Context, string, ...any) (ch.Rows, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return f.rows, nil
}
func (f *fakeCH) Ping(context.Context) error { return f.pingErr }
func (f *fakeCH) Close() error               { f.closed = true; return nil }

func TestCHAdapter_InsertAndQuery(t *testing.T) {
	fc := &fakeCH{rows: &fakeCHRows{vals: []int32{4, 5}}}
	a := newCHAdapter(fc)
	ctx := context.Background()

	if err := a.Insert(ctx, "t", [][]any{{1}, {2}}); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if len(fc.inserted["t"]) != 2 {
		t.Fatalf("inserted = %v", fc.inserted)
	}

	rows, err := a.Query(ctx, "SELECT n FROM t")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	var sum int32
	for rows.Next() {
		var n int32
		if err := rows.Scan(&n); err != nil {
			t.Fatalf("Scan: %v", err)
		}
		sum += n
	}
	rows.Close()
	if sum != 9 || !fc.rows.closed {
		t.Fatalf("sum=%d closed=%v", sum, fc.rows.closed)
	}
	if cols := rows.Columns(); len(cols) != 1 || cols[0] != "n" {
		t.Fatalf("columns = %v", cols)
	}
}

func TestCHAdapter_QueryError(t *testing.T) {
	a := newCHAdapter(&fakeCH{queryErr: errors.New("syntax")})
	if _, err := a.Query(context.Background(), "SELEC"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestCHAdapter_PingNil(t *testing.T) {
	if err := (chSeam{}).Ping(context.Background()); err == nil {
		t.Fatalf("ping without a client should fail")
	}
}
