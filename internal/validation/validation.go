// Package validation binds and validates request payloads.
//
// Payloads declare their rules with validator struct tags and implement
// Validatable. BindAndValidate collects every violation of a request into a
// single 400 so clients see all problems at once.
package validation

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is shared by all payloads; validator caches struct metadata and
// is safe for concurrent use.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON name ("user_name"), falling back to the
	// path param name, so messages match what the client sent.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			name = field.Tag.Get("param")
		}
		if name == "" {
			return field.Name
		}
		return name
	})

	return v
}

// Struct validates v against its struct tags.
func Struct(v any) error {
	return validate.Struct(v)
}
