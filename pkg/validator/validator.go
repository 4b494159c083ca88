package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type ErrorResponse struct {
	FailedField string
	Tag         string
	Value       string
}

// enum is implemented by the string enums in the model package.
type enum interface {
	Valid() bool
}

var validate = validator.New()

func init() {
	// report fields by their json name, which is what clients send
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	validate.RegisterValidation("uuid_required", func(fl validator.FieldLevel) bool {
		if id, ok := fl.Field().Interface().(uuid.UUID); ok {
			return id != uuid.Nil
		}
		return false
	})
	// enum accepts any value whose type reports it as valid
	validate.RegisterValidation("enum", func(fl validator.FieldLevel) bool {
		if e, ok := fl.Field().Interface().(enum); ok {
			return e.Valid()
		}
		return false
	})
}

func ValidateStruct(data interface{}) []*ErrorResponse {
	var errors []*ErrorResponse
	err := validate.Struct(data)
	if err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return []*ErrorResponse{{FailedField: "", Tag: "invalid", Value: err.Error()}}
		}
		for _, err := range verrs {
			errors = append(errors, &ErrorResponse{
				FailedField: err.Field(),
				Tag:         err.Tag(),
				Value:       err.Param(),
			})
		}
	}
	return errors
}
