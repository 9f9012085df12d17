package pkg

import (
	"fmt"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/simp-lee/folio/internal/domain"
)

// RegisterBindingValidations installs the domain validation tags on gin's
// default binding validator. Safe to call more than once.
func RegisterBindingValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected binding engine %T", binding.Validator.Engine())
	}
	return domain.RegisterValidations(v)
}
