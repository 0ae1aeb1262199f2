package util

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/guregu/null.v3"

	"tolet.dev/backend/internal/model"
)

func NewValidator() *validator.Validate {
	validate := validator.New()
	validate.RegisterValidation("familytype", familyType)
	validate.RegisterValidation("role", role)
	validate.RegisterValidation("location", location)
	validate.RegisterCustomTypeFunc(nullIntValuer, null.Int{})
	validate.RegisterCustomTypeFunc(nullStringValuer, null.String{})
	validate.RegisterCustomTypeFunc(nullFloatValuer, null.Float{})
	validate.RegisterCustomTypeFunc(nullBoolValuer, null.Bool{})

	return validate
}

func familyType(fl validator.FieldLevel) bool {
	return model.FamilyType(fl.Field().String()).Valid()
}

func role(fl validator.FieldLevel) bool {
	return model.Role(fl.Field().String()).Valid()
}

// location accepts "District, Upazila[, Area]": at least two comma separated
// segments, none of them blank.
func location(fl validator.FieldLevel) bool {
	parts := strings.Split(fl.Field().String(), ",")
	if len(parts) < 2 {
		return false
	}
	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			return false
		}
	}
	return true
}

// The null valuers hand the validator a pointer: nil when the value is null,
// so "omitnil" skips only absent fields and explicit zero values are still
// validated.
func nullIntValuer(field reflect.Value) interface{} {
	if valuer, ok := field.Interface().(null.Int); ok && valuer.Valid {
		return &valuer.Int64
	}

	return (*int64)(nil)
}

func nullStringValuer(field reflect.Value) interface{} {
	if valuer, ok := field.Interface().(null.String); ok && valuer.Valid {
		return &valuer.String
	}

	return (*string)(nil)
}

func nullFloatValuer(field reflect.Value) interface{} {
	if valuer, ok := field.Interface().(null.Float); ok && valuer.Valid {
		return &valuer.Float64
	}

	return (*float64)(nil)
}

func nullBoolValuer(field reflect.Value) interface{} {
	if valuer, ok := field.Interface().(null.Bool); ok && valuer.Valid {
		return &valuer.Bool
	}

	return (*bool)(nil)
}
