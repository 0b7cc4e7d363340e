package leave

import (
	"errors"
	"strings"

	leaveerrors "go-selfservice/internal/leave/errors"
	"go-selfservice/internal/shared/apperror"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgForeignKeyViolation  = "23503"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return leaveerrors.ErrLeaveRequestNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgSerializationFailure, pgDeadlockDetected:
			return apperror.ErrPersistence.
				WithDetail("Leave-request was modified concurrently, retry the operation.").
				WithErr(err)
		case pgForeignKeyViolation:
			if strings.Contains(pgErr.ConstraintName, "substitute") {
				return leaveerrors.ErrSubstituteNotFound
			}
		}
	}

	return apperror.Persistence(err)
}
