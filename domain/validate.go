package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Package-level validator instance, shared across commands.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("taskstatus", func(fl validator.FieldLevel) bool {
		return TaskStatus(fl.Field().String()).Valid()
	})
	return v
}

// ValidateCommand checks the structural constraints of a command and
// reports the first failing field as an INVALID domain error. It never
// touches storage or ownership.
func ValidateCommand(command interface{}) error {
	err := validate.Struct(command)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if ok := errors.As(err, &fieldErrs); ok && len(fieldErrs) > 0 {
		first := fieldErrs[0]
		return NewError(ErrCodeInvalid, describeFieldError(first))
	}
	return WrapError(ErrCodeInvalid, "invalid command", err)
}

func describeFieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters long", field, fe.Param())
	case "taskstatus":
		return fmt.Sprintf("%s must be one of todo, inProgress, done or archived", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
