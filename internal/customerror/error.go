package customerror

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
)

type CustomError interface {
	Error() string
	GetHTTPCode() int
}

type UniqueViolationError struct {
	httpCode int
	message  string
}

func NewUniqueViolationError(msg string) *UniqueViolationError {
	return &UniqueViolationError{httpCode: http.StatusUnprocessableEntity, message: msg}
}

func (e *UniqueViolationError) Error() string {
	return fmt.Sprintf("unique violation: %s", e.message)
}

func (e *UniqueViolationError) GetHTTPCode() int {
	return e.httpCode
}

type CommonPGError struct {
	httpCode int
	message  string
}

func NewCommonPGError(msg string) *CommonPGError {
	return &CommonPGError{httpCode: http.StatusInternalServerError, message: msg}
}

func (e *CommonPGError) Error() string {
	return e.message
}

func (e *CommonPGError) GetHTTPCode() int {
	return e.httpCode
}

type NotFoundError struct {
	httpCode int
	message  string
}

func NewNotFoundError(msg string) *NotFoundError {
	return &NotFoundError{httpCode: http.StatusNotFound, message: msg}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("not found: %s", e.message)
}

func (e *NotFoundError) GetHTTPCode() int {
	return e.httpCode
}

type InvalidIDError struct {
	httpCode int
	raw      string
}

func NewInvalidIDError(raw string) *InvalidIDError {
	return &InvalidIDError{httpCode: http.StatusBadRequest, raw: raw}
}

func (e *InvalidIDError) Error() string {
	return fmt.Sprintf("invalid id %q", e.raw)
}

func (e *InvalidIDError) GetHTTPCode() int {
	return e.httpCode
}

// ValidationError lists every failing field of a request, keyed by its JSON name.
type ValidationError struct {
	httpCode int
	Fields   map[string]string
}

func NewValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{httpCode: http.StatusBadRequest, Fields: fields}
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, e.Fields[name]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) GetHTTPCode() int {
	return e.httpCode
}
