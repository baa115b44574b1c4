package handler

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// echoValidator wraps go-playground/validator so Echo can call c.Validate(req).
type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
func NewValidator() *echoValidator {
	return &echoValidator{v: validator.New()}
}

// Validate satisfies the echo.Validator interface. Only the first failing
// field is reported: form errors surface to the user as a flash message, one
// at a time, in struct field order.
func (ev *echoValidator) Validate(i any) error {
	if err := ev.v.Struct(i); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) && len(ve) > 0 {
			return errors.New(fieldError(ve[0]))
		}
		return err
	}
	return nil
}

// fieldError converts a single ValidationError into the message shown to the
// user.
func fieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch {
	case fe.Tag() != "required":
		return "Invalid " + field
	case field == "confirmation":
		return "Must confirm password"
	default:
		return "Must provide " + field
	}
}
