package apperror

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FieldError is one failed constraint on a request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// humanize turns check_in_date into "Check In Date".
func humanize(field string) string {
	// Caser menyimpan state, jadi dibuat per panggilan.
	caser := cases.Title(language.English)
	return caser.String(strings.ReplaceAll(field, "_", " "))
}

// ValidationDetails converts a binding error into per-field messages for the
// error envelope. Anything that is not a validator failure (malformed JSON, a
// string where a number was expected) is returned as its text.
func ValidationDetails(err error) any {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	out := make([]FieldError, 0, len(verrs))
	for _, e := range verrs {
		out = append(out, FieldError{Field: e.Field(), Message: fieldMessage(e)})
	}
	return out
}

func fieldMessage(e validator.FieldError) string {
	name := humanize(e.Field())

	switch e.Tag() {
	case "required":
		return name + " is required"
	case "email":
		return name + " must be a valid email address"
	case "uuid":
		return name + " must be a valid UUID"
	case "url":
		return name + " must be a valid URL"
	case "numeric":
		return name + " must contain digits only"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", name, strings.ReplaceAll(e.Param(), " ", ", "))
	case "datetime":
		return fmt.Sprintf("%s must use the format %s", name, e.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", name, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", name, e.Param())
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters", name, e.Param())
	default:
		return name + " is invalid"
	}
}
