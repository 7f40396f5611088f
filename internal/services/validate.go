package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/vaughan-dsouza/QuizGo/internal/common"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report fields under their JSON names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// validateStruct runs the struct tags and turns the first failure into a
// *common.ValidationError with a client-facing message.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("validate: %w", err)
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return common.NewValidationError(fe.Field() + " is required")
	case "min":
		return common.NewValidationError(fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param()))
	case "max":
		return common.NewValidationError(fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param()))
	default:
		return common.NewValidationError(fe.Field() + " is invalid")
	}
}
