package user

import "errors"

// Kind classifies the failures a user operation can produce.
type Kind int

const (
	KindMissingFields Kind = iota + 1
	KindInvalidID
	KindNoFields
	KindNotFound
	KindDatabaseFailure
)

func (k Kind) String() string {
	switch k {
	case KindMissingFields:
		return "missing_fields"
	case KindInvalidID:
		return "invalid_id"
	case KindNoFields:
		return "no_fields"
	case KindNotFound:
		return "not_found"
	case KindDatabaseFailure:
		return "database_failure"
	default:
		return "unknown"
	}
}

var (
	ErrMissingFields    = errors.New("missing fields")
	ErrInvalidID        = errors.New("invalid id format")
	ErrNoFieldsToUpdate = errors.New("no fields to update")
	ErrNotFound         = errors.New("user not found")
	ErrDatabaseFailure  = errors.New("database failure")
)

func (k Kind) sentinel() error {
	switch k {
	case KindMissingFields:
		return ErrMissingFields
	case KindInvalidID:
		return ErrInvalidID
	case KindNoFields:
		return ErrNoFieldsToUpdate
	case KindNotFound:
		return ErrNotFound
	case KindDatabaseFailure:
		return ErrDatabaseFailure
	default:
		return nil
	}
}

// Error is returned by Service. Detail is safe to show to API clients;
// Err keeps the underlying cause, if any.
type Error struct {
	Kind   Kind
	Detail string
	Err    error
}

func (e *Error) Error() string {
	return e.Detail
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel of the error kind, so errors.Is(err, ErrNotFound) works.
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

func databaseError(err error) *Error {
	return &Error{Kind: KindDatabaseFailure, Detail: err.Error(), Err: err}
}
