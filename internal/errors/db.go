package errors

import "fmt"

// DBError is the base error returned by the postgres store.
type DBError struct {
	ID      string
	Message string
}

func NewDBError(id, message string) *DBError {
	return &DBError{ID: id, Message: message}
}

func (e *DBError) Error() string {
	return fmt.Sprintf("DBError [%s]: %s", e.ID, e.Message)
}

type DBInternalError struct {
	DBError
	Cause error
}

func NewDBInternalError(id string, cause error) *DBInternalError {
	return &DBInternalError{DBError: *NewDBError(id, cause.Error()), Cause: cause}
}

func (e *DBInternalError) Unwrap() error { return e.Cause }

type DBNotFoundError struct {
	DBError
}

func NewDBNotFoundError(id, message string) *DBNotFoundError {
	return &DBNotFoundError{DBError: *NewDBError(id, message)}
}

type DBUniqueViolationError struct {
	DBError
	Column string
}

type DBForeignKeyViolationError struct {
	DBError
	ForeignKeyTable string
}

// IsNotFound reports whether err is (or wraps) a DBNotFoundError.
func IsNotFound(err error) bool {
	var nf *DBNotFoundError
	return As(err, &nf)
}
