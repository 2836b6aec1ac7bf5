package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

var (
	ErrRecipeNotFound = errors.New("recipe not found")
	ErrUserNotFound   = errors.New("user not found")
	ErrInvalidToken   = errors.New("invalid token")
)

// PersistenceError reports a write or read the storage engine rejected.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func persistErr(op string, err error) error {
	return &PersistenceError{Op: op, Err: err}
}

// Stage names the step of the extraction pipeline that failed.
type Stage string

const (
	StageGenerate Stage = "generate"
	StageSanitize Stage = "sanitize"
	StageValidate Stage = "validate"
	StagePersist  Stage = "persist"
)

// StageError tags a pipeline failure with the stage it happened in. The
// wrapped error is left untouched so callers can still match on it.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

const (
	pqForeignKeyViolation = "23503"
	pqUniqueViolation     = "23505"
)

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqForeignKeyViolation
	}
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqUniqueViolation
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
