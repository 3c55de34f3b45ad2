package utils

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ParseAndValidate decodes the JSON body into form and checks its
// validate tags. A nil error with a non-empty slice means the body was
// well formed but invalid.
func ParseAndValidate(c *fiber.Ctx, form interface{}) ([]FieldError, error) {
	if err := c.BodyParser(form); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Cannot parse JSON")
	}
	return ValidateStruct(form)
}

// ValidateStruct checks form against its validate tags.
func ValidateStruct(form interface{}) ([]FieldError, error) {
	err := validate.Struct(form)
	if err == nil {
		return nil, nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil, err
	}

	fields := make([]FieldError, 0, len(validationErrors))
	for _, fe := range validationErrors {
		fields = append(fields, FieldError{Field: fe.Field(), Error: fieldMessage(fe)})
	}
	return fields, nil
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "must not be empty"
	case "min":
		return fmt.Sprintf("length must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("length must be at most %s", fe.Param())
	case "email":
		return "must be a well-formed email address"
	default:
		return fmt.Sprintf("failed on %s", fe.Tag())
	}
}
