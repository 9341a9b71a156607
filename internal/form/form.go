// Package form implements the input validation step run before any
// mutation. Each form is an explicit validator chain: tag-driven field
// rules first, then checks against the user store. Validation failure is
// data, not an error value; handlers re-render the form with the field
// errors attached.
package form

import (
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError is a single field-level validation message.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report errors under the submitted field name, not the Go name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// tagErrors runs the struct tag rules and translates failures into
// field-level messages.
func tagErrors(s interface{}) []FieldError {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "form", Message: "invalid input"}}
	}

	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Invalid email address."
	case "min":
		return "Must be at least " + fe.Param() + " characters long."
	case "max":
		return "Must be at most " + fe.Param() + " characters long."
	case "eqfield":
		return "Passwords must match."
	default:
		return "Invalid value."
	}
}

var allowedPictureExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

// AllowedPicture reports whether the uploaded file name carries an
// accepted image extension.
func AllowedPicture(filename string) bool {
	return allowedPictureExts[strings.ToLower(filepath.Ext(filename))]
}

// fieldClean reports whether no error has been recorded for the field yet.
// Store-backed checks only run on fields that passed their shape rules.
func fieldClean(errs []FieldError, field string) bool {
	for _, e := range errs {
		if e.Field == field {
			return false
		}
	}
	return true
}
