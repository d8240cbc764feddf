package postgres

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"sortir/internal/domain"
)

const uniqueViolation = "23505"

// translate maps driver errors onto the domain sentinels.
func translate(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFoundRecord
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return domain.ErrDuplicateKey
	}
	return err
}
