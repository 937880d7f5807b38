package repokit

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"tubeport/internal/platform/store"
	kit "tubeport/internal/platform/testkit"
)

// recTx records statements; Tx hands itself to fn
type recTx struct {
	stmts  []string
	execEr error
}

func (r *recTx) Exec(_ context.Context, sql string, _ ...any) (store.CommandTag, error) {
	r.stmts = append(r.stmts, sql)
	return nil, r.execEr
}
func (r *recTx) Query(context.Context, string, ...any) (store.Rows, error) { return nil, nil }
func (r *recTx) QueryRow(context.Context, string, ...any) store.Row        { return nil }
func (r *recTx) Tx(_ context.Context, fn func(Queryer) error) error        { return fn(r) }

func TestWithBeginHooks(t *testing.T) {
	cases := []struct {
		name    string
		d       time.Duration
		execErr error
		want    []string
		wantErr bool
	}{
		{"timeout set first", 1500 * time.Millisecond, nil, []string{"SET LOCAL statement_timeout = 1500", "INSERT"}, false},
		{"zero timeout adds nothing", 0, nil, []string{"INSERT"}, false},
		{"hook failure aborts", time.Second, errors.New("denied"), []string{"SET LOCAL statement_timeout = 1000"}, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			inner := &recTx{execEr: c.execErr}
			db := WithBeginHooks(inner, StatementTimeout(c.d))
			err := db.Tx(context.Background(), func(q Queryer) error {
				_, err := q.Exec(context.Background(), "INSERT")
				return err
			})
			if (err != nil) != c.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, c.wantErr)
			}
			if strings.Join(inner.stmts, "|") != strings.Join(c.want, "|") {
				t.Fatalf("statements = %q, want %q", inner.stmts, c.want)
			}
		})
	}
}

func TestWithBeginHooks_NoHooksAndPassThrough(t *testing.T) {
	inner := &recTx{}
	if WithBeginHooks(inner) != TxRunner(inner) {
		t.Fatalf("no hooks should return inner unchanged")
	}
	db := WithBeginHooks(inner, StatementTimeout(time.Second))
	_, _ = db.Exec(context.Background(), "SELECT 1")
	if len(inner.stmts) != 1 || inner.stmts[0] != "SELECT 1" {
		t.Fatalf("Exec outside Tx should not run hooks: %q", inner.stmts)
	}
}

type guardFn func(context.Context) error

func (g guardFn) Guard(ctx context.Context) error { return g(ctx) }

func TestMustGuard(t *testing.T) {
	kit.MustNotPanic(t, func() {
		MustGuard(context.Background(), guardFn(func(ctx context.Context) error {
			if _, ok := ctx.Deadline(); !ok {
				return errors.New("no deadline")
			}
			return nil
		}))
	})
	kit.MustPanic(t, func() {
		MustGuard(context.Background(), guardFn(func(context.Context) error { return errors.New("pg: refused") }))
	})
}

func TestBindFunc(t *testing.T) {
	var b Binder[int] = BindFunc[int](func(Queryer) int { return 7 })
	if b.Bind(nil) != 7 {
		t.Fatalf("BindFunc did not call through")
	}
}
