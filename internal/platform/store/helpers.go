package store

import (
	"context"
	"errors"

	perr "tubeport/internal/platform/errors"
)

// errMore stops iteration once a single row query sees a second row
var errMore = errors.New("store: query returned more than one row")

// each runs sql and hands every row to fn, stopping at the first error
func each(ctx context.Context, q RowQuerier, sql string, args []any, fn func(Row) error) error {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		if err := fn(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

// Many scans every row into a T
func Many[T any](ctx context.Context, q RowQuerier, scan func(Row) (T, error), sql string, args ...any) ([]T, error) {
	var out []T
	err := each(ctx, q, sql, args, func(r Row) error {
		v, err := scan(r)
		out = append(out, v)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// One scans exactly one row. No rows is perr.ErrNotFound
func One[T any](ctx context.Context, q RowQuerier, scan func(Row) (T, error), sql string, args ...any) (T, error) {
	var (
		v    T
		seen bool
	)
	err := each(ctx, q, sql, args, func(r Row) error {
		if seen {
			return errMore
		}
		seen = true
		var err error
		v, err = scan(r)
		return err
	})
	var zero T
	switch {
	case err != nil:
		return zero, err
	case !seen:
		return zero, perr.ErrNotFound
	}
	return v, nil
}
