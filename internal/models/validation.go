package models

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// phonePattern acepta dígitos con separadores comunes, prefijo internacional y extensión
var phonePattern = regexp.MustCompile(`^\+?[0-9().\-\s]*[0-9][0-9().\-\s]*(\s*(x|ext\.?)\s*[0-9]+)?$`)

// customerValidator es seguro para uso concurrente
var customerValidator = newCustomerValidator()

// fieldLabels nombra los campos como se muestran al usuario
var fieldLabels = map[string]string{
	"firstName":   "First Name",
	"lastName":    "Last Name",
	"email":       "Email",
	"phoneNumber": "Phone Number",
	"age":         "Age",
}

// FieldError representa un error de validación de un campo
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func newCustomerValidator() *validator.Validate {
	v := validator.New()

	// Usar los nombres JSON en los errores
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})

	return v
}

// ValidateCustomer valida un cliente y retorna los errores por campo en orden de declaración.
// Retorna nil si el cliente es válido.
func ValidateCustomer(c *Customer) []FieldError {
	err := customerValidator.Struct(c)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "body", Message: err.Error()}}
	}

	fields := make([]FieldError, 0, len(validationErrors))
	for _, e := range validationErrors {
		fields = append(fields, FieldError{
			Field:   e.Field(),
			Message: validationMessage(e),
		})
	}
	return fields
}

// validationMessage traduce un error del validator al mensaje mostrado al usuario
func validationMessage(e validator.FieldError) string {
	label, ok := fieldLabels[e.Field()]
	if !ok {
		label = e.Field()
	}

	switch e.Tag() {
	case "required", "notblank":
		return label + " is required"
	case "email":
		return "Invalid Email Address"
	case "phone":
		return "Invalid Phone Number"
	case "max":
		return label + " cannot be longer than " + e.Param() + " characters"
	case "gte", "lte":
		return label + " must be between 18 and 100"
	default:
		return label + " is invalid"
	}
}
