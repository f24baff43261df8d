package shop

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/erazemk/mithai/internal/errs"
	"github.com/erazemk/mithai/internal/model"
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return model.ValidRole(fl.Field().String())
	})
	return v
}

// check validates cmd and turns the first failure into a validation error
// naming the field.
func (s *Service) check(cmd any) error {
	err := s.validate.Struct(cmd)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return errs.Wrap(errs.Internal, "internal server error", err)
	}

	fe := verrs[0]
	var msg string
	switch fe.Tag() {
	case "required":
		msg = fmt.Sprintf("%s is required", fe.Field())
	case "role":
		msg = fmt.Sprintf("%s must be one of: %s, %s", fe.Field(), model.RoleCustomer, model.RoleAdmin)
	case "gte":
		if fe.Param() == "0" {
			msg = fmt.Sprintf("%s cannot be negative", fe.Field())
		} else {
			msg = fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
		}
	case "gt":
		if fe.Param() == "0" {
			msg = fmt.Sprintf("%s must be a positive number", fe.Field())
		} else {
			msg = fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
		}
	case "lte":
		msg = fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "max":
		msg = fmt.Sprintf("%s is too long", fe.Field())
	default:
		msg = fmt.Sprintf("%s is invalid", fe.Field())
	}
	return errs.E(errs.Validation, msg)
}
