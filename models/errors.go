package models

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput is returned when a write violates a field or reference constraint.
	ErrInvalidInput = errors.New("invalid input")
	// ErrConflict is returned when a write collides with an existing unique value.
	ErrConflict = errors.New("conflict")
)

// ErrProductNotFound is returned when a product is not found.
var ErrProductNotFound = fmt.Errorf("product %w", ErrNotFound)

// Postgres SQLSTATE codes surfaced by lib/pq.
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
	pqNotNullViolation    = "23502"
	pqCheckViolation      = "23514"
	pqInvalidText         = "22P02"
)

// translateError maps storage errors onto ErrNotFound, ErrInvalidInput and
// ErrConflict. Errors it does not recognise are returned unchanged.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrInvalidInput), errors.Is(err, ErrConflict):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", ErrConflict, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated), errors.Is(err, gorm.ErrCheckConstraintViolated):
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqUniqueViolation:
			return fmt.Errorf("%w: %s", ErrConflict, pqErr.Message)
		case pqForeignKeyViolation, pqNotNullViolation, pqCheckViolation, pqInvalidText:
			return fmt.Errorf("%w: %s", ErrInvalidInput, pqErr.Message)
		}
	}

	return err
}
