package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// MaxFieldLength is the maximum number of characters in any user-supplied text field.
const MaxFieldLength = 255

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateRequired checks a single required text field: it must be non-empty and at most
// MaxFieldLength characters long. The same rule applies to usernames, questions and answers.
func ValidateRequired(value string) error {
	if err := validate.Var(value, "required,max=255"); err != nil {
		return translate("value", err)
	}
	return nil
}

// translate converts validator errors into ErrValidation wrapped with the specific cause.
func translate(field string, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %s: %v", ErrValidation, field, err)
	}

	fe := verrs[0]
	if fe.Field() != "" {
		field = strings.ToLower(fe.Field())
	}

	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%w: %s %w", ErrValidation, field, ErrEmptyField)
	case "max":
		return fmt.Errorf("%w: %s %w", ErrValidation, field, ErrFieldTooLong)
	case "gt", "min":
		return fmt.Errorf("%w: %s must be positive", ErrValidation, field)
	default:
		return fmt.Errorf("%w: %s failed %q", ErrValidation, field, fe.Tag())
	}
}
