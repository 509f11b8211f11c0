package schemas

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"reflect"

	"github.com/racketdesk/stringdesk/internal/customerror"
)

var ErrMalformedBody = errors.New("can't parse body")

// decodeFields fills dst one top-level key at a time, so a wrongly typed field
// leaves its zero value and is reported instead of aborting the whole body.
func decodeFields(body io.Reader, dst any) (map[string]string, error) {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedBody, err)
	}

	typeErrors := make(map[string]string)
	for key, value := range raw {
		single, err := json.Marshal(map[string]json.RawMessage{key: value})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedBody, err)
		}

		err = json.Unmarshal(single, dst)
		var typeErr *json.UnmarshalTypeError
		switch {
		case err == nil:
		case errors.As(err, &typeErr):
			typeErrors[key] = describeType(typeErr.Type)
		default:
			return nil, fmt.Errorf("%w: %w", ErrMalformedBody, err)
		}
	}
	return typeErrors, nil
}

func describeType(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "must be a string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "must be an integer"
	case reflect.Bool:
		return "must be a boolean"
	default:
		return "has the wrong type"
	}
}

// mergeFieldErrors adds typeErrors to the fields of a validation error. A type
// error replaces the validator message for the same field.
func mergeFieldErrors(err error, typeErrors map[string]string) error {
	if len(typeErrors) == 0 {
		return err
	}

	fields := make(map[string]string, len(typeErrors))
	var validationErr *customerror.ValidationError
	switch {
	case err == nil:
	case errors.As(err, &validationErr):
		maps.Copy(fields, validationErr.Fields)
	default:
		return err
	}
	maps.Copy(fields, typeErrors)
	return customerror.NewValidationError(fields)
}
