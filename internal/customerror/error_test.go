package customerror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPCodes(t *testing.T) {
	testCases := []struct {
		err  CustomError
		code int
	}{
		{err: NewUniqueViolationError("customer"), code: http.StatusUnprocessableEntity},
		{err: NewCommonPGError("boom"), code: http.StatusInternalServerError},
		{err: NewNotFoundError("order 3"), code: http.StatusNotFound},
		{err: NewInvalidIDError("abc"), code: http.StatusBadRequest},
		{err: NewValidationError(map[string]string{"customerName": "required"}), code: http.StatusBadRequest},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.code, tc.err.GetHTTPCode(), tc.err.Error())
	}
}

func TestValidationError_MessageIsSorted(t *testing.T) {
	err := NewValidationError(map[string]string{
		"racketModel":  "is required",
		"customerName": "is required",
	})

	assert.Equal(t, "validation failed: customerName: is required; racketModel: is required", err.Error())
}

func TestValidationError_As(t *testing.T) {
	wrapped := fmt.Errorf("create: %w", NewValidationError(map[string]string{"storeId": "must be positive"}))

	var validationErr *ValidationError
	require.True(t, errors.As(wrapped, &validationErr))
	assert.Contains(t, validationErr.Fields, "storeId")
}
