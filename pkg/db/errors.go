package db

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

const uniqueViolationCode = "23505"

// IsUniqueViolation reports whether err is a Postgres unique violation,
// optionally scoped to the named constraint.
func IsUniqueViolation(err error, constraint string) bool {
	if err == nil {
		return false
	}

	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		if pgxErr.Code != uniqueViolationCode {
			return false
		}
		return constraint == "" || pgxErr.ConstraintName == constraint
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if string(pqErr.Code) != uniqueViolationCode {
			return false
		}
		return constraint == "" || pqErr.Constraint == constraint
	}

	return false
}
