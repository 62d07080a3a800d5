package usecase

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var recordValidator = newRecordValidator()

func newRecordValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// requireFields reports missing required fields of a raw feed record as a structural error.
func requireFields(label string, raw any) error {
	err := recordValidator.Struct(raw)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %s: %v", ErrStructural, label, err)
	}

	missing := make([]string, 0, len(fieldErrs))
	for _, fieldErr := range fieldErrs {
		missing = append(missing, fieldPath(fieldErr.Namespace()))
	}
	return structuralf("%s: missing %s", label, strings.Join(missing, ", "))
}

// fieldPath drops the Go type name validator puts in front of the json path.
func fieldPath(namespace string) string {
	if idx := strings.IndexByte(namespace, '.'); idx >= 0 {
		return namespace[idx+1:]
	}
	return namespace
}
