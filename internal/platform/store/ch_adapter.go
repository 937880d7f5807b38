package store

import (
	"context"
	"errors"

	"tubeport/internal/platform/store/ch"
)

// chClient is the part of *ch.CH the store needs
type chClient interface {
	Insert(ctx context.Context, table string, rows [][]any) error
	Exec(ctx context.Context, sql string, args ...any) error
	Query(ctx context.Context, sql string, args ...any) (ch.Rows, error)
	Ping(ctx context.Context) error
	Close() error
}

// chSeam exposes a ch client as Clickhouse. Only Query needs translating
type chSeam struct{ chClient }

var _ Clickhouse = chSeam{}

func newCHAdapter(c chClient) Clickhouse { return chSeam{c} }

func (a chSeam) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	r, err := a.chClient.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return chRows{r}, nil
}

func (a chSeam) Ping(ctx context.Context) error {
	if a.chClient == nil {
		return errors.New("store: clickhouse not open")
	}
	return a.chClient.Ping(ctx)
}

// chRows drops the error from Close to match Rows
type chRows struct{ ch.Rows }

func (r chRows) Close() { _ = r.Rows.Close() }
