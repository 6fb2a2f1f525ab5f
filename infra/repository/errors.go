package repository

import (
	"errors"

	"github.com/amirasaad/bank/pkg/domain"
	"gorm.io/gorm"
)

// MapGormErrorToDomain converts GORM errors to domain errors.
// Traverses the error chain to find GORM errors and maps them to appropriate domain errors.
// The connection must be opened with TranslateError so driver codes become GORM errors.
func MapGormErrorToDomain(err error) error {
	if err == nil {
		return nil
	}

	currentErr := err
	for currentErr != nil {
		switch {
		case errors.Is(currentErr, gorm.ErrDuplicatedKey):
			return domain.ErrAlreadyExists
		case errors.Is(currentErr, gorm.ErrRecordNotFound):
			return domain.ErrNotFound
		case errors.Is(currentErr, gorm.ErrForeignKeyViolated):
			return domain.ErrInvalidReference
		}

		currentErr = errors.Unwrap(currentErr)
	}

	return err
}

// mapDeleteError maps errors raised while deleting a row. A foreign key
// violation there means a restricting row still points at it.
func mapDeleteError(err error) error {
	mapped := MapGormErrorToDomain(err)
	if errors.Is(mapped, domain.ErrInvalidReference) {
		return domain.ErrConflict
	}
	return mapped
}

// rowsAffectedOrNotFound turns a write that touched no rows into domain.ErrNotFound.
func rowsAffectedOrNotFound(res *gorm.DB, mapErr func(error) error) error {
	if res.Error != nil {
		return mapErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
