package service

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

// ErrorKind classifies a failed registration.
type ErrorKind int

const (
	KindValidation ErrorKind = iota + 1
	KindConstraint
	KindConnection
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConstraint:
		return "constraint"
	case KindConnection:
		return "connection"
	default:
		return "unknown"
	}
}

var (
	ErrValidation = errors.New("validation failed")
	ErrConstraint = errors.New("constraint violation")
	ErrConnection = errors.New("storage unavailable")
)

// RegistrationError is returned by Register for every failure. Message is
// the status line shown to the user.
type RegistrationError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *RegistrationError) Error() string {
	return e.Message
}

func (e *RegistrationError) Unwrap() []error {
	errs := []error{e.Kind.sentinel()}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// Retryable reports whether the same input may succeed on a later attempt.
func (e *RegistrationError) Retryable() bool {
	return e.Kind == KindConnection
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindValidation:
		return ErrValidation
	case KindConstraint:
		return ErrConstraint
	default:
		return ErrConnection
	}
}

// classify maps a storage error to a kind. Anything that is not a
// constraint violation is treated as a storage availability problem.
func classify(err error) ErrorKind {
	if errors.Is(err, gorm.ErrDuplicatedKey) || errors.Is(err, gorm.ErrForeignKeyViolated) {
		return KindConstraint
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		return KindConstraint
	}

	// SQLSTATE class 23: integrity constraint violation
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && strings.HasPrefix(pgErr.Code, "23") {
		return KindConstraint
	}

	return KindConnection
}
