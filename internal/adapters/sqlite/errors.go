// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"github.com/example/jai/internal/ports/primary"
)

// translateErr maps sqlite constraint failures onto the port error
// taxonomy so callers never see raw driver errors.
func translateErr(err error) error {
	if err == nil {
		return nil
	}

	var serr sqlite3.Error
	if errors.As(err, &serr) {
		switch serr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return fmt.Errorf("%w: %v", primary.ErrConflict, err)
		case sqlite3.ErrConstraintForeignKey:
			return fmt.Errorf("%w: %v", primary.ErrForeignKey, err)
		case sqlite3.ErrConstraintCheck, sqlite3.ErrConstraintNotNull:
			return fmt.Errorf("%w: %v", primary.ErrValidation, err)
		}
	}

	return err
}

// isUniqueViolation reports whether err is a unique constraint failure.
// Used where a unique index carries a more specific meaning than
// ErrConflict (the one-running-sync-per-repo partial index).
func isUniqueViolation(err error) bool {
	var serr sqlite3.Error
	if errors.As(err, &serr) {
		return serr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}
