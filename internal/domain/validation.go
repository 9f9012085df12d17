package domain

import "github.com/go-playground/validator/v10"

// RegisterValidations installs the custom tags used on domain structs. It is
// called for gin's binding engine and for client-side form validators.
func RegisterValidations(v *validator.Validate) error {
	return v.RegisterValidation("icon", func(fl validator.FieldLevel) bool {
		return Icon(fl.Field().String()).Valid()
	})
}
