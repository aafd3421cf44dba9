package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

const uniqueViolationCode = "23505"

// IsUniqueViolation reports whether err is a unique-constraint violation. When
// constraintName is provided the violation must reference that constraint.
// Duplicate detection happens here rather than via pre-checks so that two
// concurrent inserts of the same pair cannot both slip through.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}

	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		if pgxErr.Code != uniqueViolationCode {
			return false
		}
		return constraintName == "" || strings.Contains(pgxErr.ConstraintName, constraintName)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if string(pqErr.Code) != uniqueViolationCode {
			return false
		}
		return constraintName == "" || strings.Contains(pqErr.Constraint, constraintName)
	}

	// sqlite (local runs and tests) reports constraint failures as plain text.
	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed") {
		return constraintName == "" || strings.Contains(msg, constraintName)
	}
	if constraintName != "" {
		return strings.Contains(msg, constraintName)
	}
	return strings.Contains(msg, "duplicate key value")
}
