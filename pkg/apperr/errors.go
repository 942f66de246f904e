package apperr

import (
	"errors"
	"net/http"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("authentication failed")
	ErrForbidden    = errors.New("you do not have permission to perform this action")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("resource conflict")
)

// ValidationError carries field-keyed messages. It unwraps to ErrValidation.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// AuthError is a login failure with a caller-facing reason. It unwraps to ErrUnauthorized.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string { return e.Reason }

func (e *AuthError) Unwrap() error { return ErrUnauthorized }

func Unauthorized(reason string) error {
	return &AuthError{Reason: reason}
}

// Validation returns nil when fields is empty.
func Validation(fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

// Field is shorthand for a single-field validation error.
func Field(name, message string) error {
	return &ValidationError{Fields: map[string]string{name: message}}
}

// Fields extracts the field map of a validation error, or nil.
func Fields(err error) map[string]string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Fields
	}
	return nil
}

// IsUniqueViolation reports whether err is a Postgres unique constraint violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// IsDataViolation reports a Postgres CHECK violation (23514) or a numeric
// overflow (22003).
func IsDataViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && (pgErr.Code == "23514" || pgErr.Code == "22003")
}

// FromDataViolation turns a CHECK violation or numeric overflow into a
// ValidationError keyed by the constrained column. Other errors pass through.
func FromDataViolation(err error) error {
	var pgErr *pgconn.PgError
	if !IsDataViolation(err) || !errors.As(err, &pgErr) {
		return err
	}
	field := "payload"
	switch {
	case pgErr.ConstraintName != "":
		// crops_quantity_check -> quantity
		name := strings.TrimPrefix(pgErr.ConstraintName, pgErr.TableName+"_")
		field = strings.TrimSuffix(name, "_check")
	case pgErr.ColumnName != "":
		field = pgErr.ColumnName
	}
	return Field(field, "value is out of range")
}

// HTTPStatus maps domain errors to HTTP status codes.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation), IsDataViolation(err):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict), IsUniqueViolation(err):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
