package users

import (
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report errors against json field names, not Go struct fields
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// DecodeUserInput decodes and validates a create/update payload. The payload
// must contain exactly a string name and a string zip_code: unknown fields,
// wrong types and missing or empty fields are all rejected. On failure it
// returns the field-level errors and no input; no side effects have occurred
// by the time validation fails.
func DecodeUserInput(r io.Reader) (*UserInput, []FieldError) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var input UserInput
	if err := dec.Decode(&input); err != nil {
		return nil, decodeErrorToFields(err)
	}

	if fields := ValidateUserInput(&input); len(fields) > 0 {
		return nil, fields
	}

	return &input, nil
}

// ValidateUserInput checks a decoded payload for missing or empty fields.
// It returns nil when the input is valid.
func ValidateUserInput(input *UserInput) []FieldError {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return []FieldError{{Field: "body", Reason: "invalid payload"}}
	}

	var fields []FieldError
	for _, fe := range err.(validator.ValidationErrors) {
		fields = append(fields, FieldError{Field: fe.Field(), Reason: "is required"})
	}
	return fields
}

func decodeErrorToFields(err error) []FieldError {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		if typeErr.Field == "" {
			return []FieldError{{Field: "body", Reason: "must be a JSON object"}}
		}
		return []FieldError{{Field: typeErr.Field, Reason: "must be a " + typeErr.Type.Kind().String()}}
	}

	// encoding/json reports unknown fields as a plain error with the field
	// name quoted in the message
	msg := err.Error()
	if strings.Contains(msg, "unknown field") {
		field := "body"
		if start := strings.Index(msg, `"`); start >= 0 {
			if end := strings.LastIndex(msg, `"`); end > start {
				field = msg[start+1 : end]
			}
		}
		return []FieldError{{Field: field, Reason: "is not an allowed field"}}
	}

	return []FieldError{{Field: "body", Reason: "must be a JSON object with name and zip_code"}}
}
