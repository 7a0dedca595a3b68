package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"appliance-rental-backend/internal/domain"

	"github.com/lib/pq"
)

const (
	codeUniqueViolation      = "23505"
	codeForeignKeyViolation  = "23503"
	codeCheckViolation       = "23514"
	codeInvalidText          = "22P02"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"

	holdingRentalIndex    = "rentals_one_holding_per_appliance"
	paymentReferenceIndex = "rentals_payment_reference_key"
)

// mapError translates driver errors into domain errors
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", domain.ErrTimeout, err)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case codeSerializationFailure, codeDeadlockDetected:
			return fmt.Errorf("%w: %s", domain.ErrConflict, pqErr.Message)
		case codeUniqueViolation:
			if pqErr.Constraint == holdingRentalIndex {
				return fmt.Errorf("%w: appliance already has an open rental", domain.ErrConflict)
			}
			if pqErr.Constraint == paymentReferenceIndex {
				return fmt.Errorf("%w: payment reference already used by another rental", domain.ErrDuplicate)
			}
			return fmt.Errorf("%w: %s", domain.ErrDuplicate, pqErr.Constraint)
		case codeForeignKeyViolation:
			return domain.Validationf("referenced record does not exist (%s)", pqErr.Constraint)
		case codeCheckViolation:
			return domain.Validationf("value rejected by %s", pqErr.Constraint)
		case codeInvalidText:
			return domain.Validationf("malformed value: %s", pqErr.Message)
		}
	}
	return err
}

// notFound wraps ErrNotFound with the entity that was missing
func notFound(entity, id string) error {
	return fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
}

// mapRowError is mapError for single-row lookups. A key that is not even a
// well-formed id cannot name a row, so it reads as not found.
func mapRowError(err error, entity, id string) error {
	var pqErr *pq.Error
	if errors.Is(err, sql.ErrNoRows) || (errors.As(err, &pqErr) && pqErr.Code == codeInvalidText) {
		return notFound(entity, id)
	}
	return mapError(err)
}

// checkAffected turns a zero-row write into ErrNotFound
func checkAffected(result sql.Result, entity, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return notFound(entity, id)
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern builds a contains-pattern for ILIKE from user input
func likePattern(s string) string {
	return "%" + likeEscaper.Replace(strings.TrimSpace(s)) + "%"
}

type rowScanner interface {
	Scan(dest ...any) error
}

func statusStrings[T ~string](in []T) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = string(s)
	}
	return out
}
