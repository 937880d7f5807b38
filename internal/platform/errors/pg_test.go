package errors

import (
	"context"
	stderrs "errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestDBCode(t *testing.T) {
	cases := []struct {
		state string
		want  ErrorCode
	}{
		{sqlUniqueViolation, ErrorCodeConflict},
		{sqlForeignKeyViolation, ErrorCodeInvalidArgument},
		{sqlInvalidText, ErrorCodeInvalidArgument},
		{sqlNotNullViolation, ErrorCodeValidation},
		{sqlCheckViolation, ErrorCodeValidation},
		{sqlCannotConnectNow, ErrorCodeUnavailable},
		{sqlDeadlock, ErrorCodeDB},
		{"XX000", ErrorCodeDB},
	}
	for _, c := range cases {
		err := fmt.Errorf("insert: %w", &pgconn.PgError{Code: c.state})
		if got := DBCode(err); got != c.want {
			t.Fatalf("DBCode(%s) = %d, want %d", c.state, got, c.want)
		}
	}
	if DBCode(stderrs.New("conn reset")) != ErrorCodeDB {
		t.Fatalf("non pg errors map to DB")
	}
}

func TestFromPostgres(t *testing.T) {
	if FromPostgres(nil, "x") != nil {
		t.Fatalf("nil should stay nil")
	}
	err := FromPostgres(&pgconn.PgError{Code: sqlNotNullViolation, ColumnName: "video_id"}, "record result")
	e, ok := As(err)
	if !ok || e.Code() != ErrorCodeValidation || e.Field() != "video_id" {
		t.Fatalf("got %+v", e)
	}
	if !IsDuplicateKey(FromPostgres(&pgconn.PgError{Code: sqlUniqueViolation}, "x")) {
		t.Fatalf("SQLSTATE lost through wrap")
	}
}

func TestIsRetryable(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"serialization", &pgconn.PgError{Code: sqlSerialization}, true},
		{"deadlock wrapped", Wrap(&pgconn.PgError{Code: sqlDeadlock}, ErrorCodeDB, "tx"), true},
		{"lock", &pgconn.PgError{Code: sqlLockNotAvailable}, true},
		{"unique", &pgconn.PgError{Code: sqlUniqueViolation}, false},
		{"commit text", stderrs.New("commit unexpectedly resulted in rollback"), true},
		{"canceled", fmt.Errorf("tx: %w", context.Canceled), false},
		{"deadline", context.DeadlineExceeded, false},
		{"other", stderrs.New("syntax error"), false},
	}
	for _, c := range cases {
		if got := IsRetryable(c.err); got != c.want {
			t.Fatalf("%s: IsRetryable = %v", c.name, got)
		}
	}
	if !Retryable(&pgconn.PgError{Code: sqlDeadlock}) {
		t.Fatalf("Retryable should fall through to Postgres contention")
	}
}
