package store

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

// fakeTx satisfies TxRunner but not Pinger
type fakeTx struct{}

func (f *fakeTx) Tx(ctx context.Context, fn func(q RowQuerier) error) error { return fn(f) }
func (f *fakeTx) Exec(context.Context, string, ...any) (CommandTag, error) { return nil, nil }
func (f *fakeTx) Query(context.Context, string, ...any) (Rows, error)      { return nil, nil }
func (f *fakeTx) QueryRow(context.Context, string, ...any) Row              { return nil }

type pingTx struct {
	fakeTx
	err error
}

func (f *pingTx) Ping(context.Context) error { return f.err }

type fakeKV struct {
	pingErr error
	closed  bool
}

func (f *fakeKV) HGetAll(context.Context, string) (map[string]string, error) { return nil, nil }
func (f *fakeKV) HSet(context.Context, string, map[string]string) error      { return nil }
func (f *fakeKV) Expire(context.Context, string, time.Duration) error        { return nil }
func (f *fakeKV) Ping(context.Context) error                                 { return f.pingErr }
func (f *fakeKV) Close() error                                               { f.closed = true; return nil }

func TestGuard(t *testing.T) {
	cases := []struct {
		name    string
		store   *Store
		wantErr []string
	}{
		{name: "no seams", store: &Store{}},
		{name: "pg not a pinger", store: &Store{PG: &fakeTx{}}},
		{name: "pg ok", store: &Store{PG: &pingTx{}}},
		{name: "pg down", store: &Store{PG: &pingTx{err: errors.New("boom")}}, wantErr: []string{"pg: boom"}},
		{
			name:    "pg and redis down",
			store:   &Store{PG: &pingTx{err: errors.New("a")}, RDS: &fakeKV{pingErr: errors.New("b")}},
			wantErr: []string{"pg: a", "redis: b"},
		},
		{
			name:    "clickhouse down",
			store:   &Store{CH: newCHAdapter(&fakeCH{pingErr: errors.New("c")})},
			wantErr: []string{"ch: c"},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := c.store.Guard(context.Background())
			if len(c.wantErr) == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error")
			}
			for _, w := range c.wantErr {
				if !strings.Contains(err.Error(), w) {
					t.Fatalf("error %q missing %q", err.Error(), w)
				}
			}
		})
	}
}

func TestGuard_NilStore(t *testing.T) {
	var s *Store
	if err := s.Guard(context.Background()); err == nil {
		t.Fatalf("nil store should return error")
	}
}

func TestClose_ClosesEverySeam(t *testing.T) {
	kv := &fakeKV{}
	fc := &fakeCH{}
	s := &Store{RDS: kv, CH: newCHAdapter(fc), PG: &fakeTx{}}
	if err := s.Close(context.Background()); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !kv.closed || !fc.closed {
		t.Fatalf("closed kv=%v ch=%v", kv.closed, fc.closed)
	}
}

func TestOpen_NothingEnabled(t *testing.T) {
	s, err := Open(context.Background(), Config{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if s.PG != nil || s.CH != nil || s.RDS != nil {
		t.Fatalf("no backend should be opened")
	}
}

func TestOpen_OptionError(t *testing.T) {
	bad := func(*Store) error { return errors.New("nope") }
	if _, err := Open(context.Background(), Config{}, bad); err == nil {
		t.Fatalf("option error should abort Open")
	}
}
