package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Коды ошибок PostgreSQL
const (
	codeCheckViolation = "23514"
	codeOutOfRange     = "22003" // numeric_value_out_of_range
)

// isCheckViolation сообщает, что сработал CHECK (например, баланс ушёл бы в минус).
// Обычно до него не доходит: условный UPDATE отсекает такие списания раньше.
func isCheckViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeCheckViolation
}

// isOutOfRange сообщает, что баланс переполнил бы BIGINT.
func isOutOfRange(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeOutOfRange
}
