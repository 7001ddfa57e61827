package db

import (
	"strings"

	pkgerrors "github.com/hireloop-io/hireloop-backend/pkg/errors"
)

// SQLSTATE for unique_violation.
const pgUniqueViolationCode = "23505"

// IsUniqueViolation reports whether the error is a unique constraint hit,
// optionally scoped to one named constraint. Postgres errors are matched by
// SQLSTATE; the sqlite message form is matched as well so the helper behaves
// the same under in-memory tests.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}

	if pkgerrors.PGCode(err) == pgUniqueViolationCode {
		if constraintName == "" {
			return true
		}
		return pkgerrors.PGConstraint(err) == constraintName
	}

	msg := err.Error()
	if !strings.Contains(msg, "duplicate key value") && !strings.Contains(msg, "UNIQUE constraint failed") {
		return false
	}
	if constraintName != "" {
		return strings.Contains(msg, constraintName)
	}
	return true
}
