package repository

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/racketdesk/stringdesk/internal/customerror"
)

func classify(err error) error {
	var customErr customerror.CustomError
	if errors.As(err, &customErr) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return customerror.NewUniqueViolationError(pgErr.Detail)
	}
	return customerror.NewCommonPGError(err.Error())
}
