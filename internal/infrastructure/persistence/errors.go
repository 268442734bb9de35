package persistence

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/logistics/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// PostgreSQL SQLSTATE codes
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// translateError maps storage errors onto the domain taxonomy. Unique
// violations become a conflict carrying conflictMsg.
func translateError(err error, conflictMsg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return shared.NewDomainError(shared.CodeValidationConflict, conflictMsg)
		case pgForeignKeyViolation:
			return shared.NewDomainError(shared.CodeReferentialIntegrity, "Record is still referenced or references a missing record")
		}
	}

	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.NewDomainError(shared.CodeValidationConflict, conflictMsg)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return shared.NewDomainError(shared.CodeReferentialIntegrity, "Record is still referenced or references a missing record")
	}
	return err
}

// IsUniqueViolation reports whether err came from a unique constraint
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
