// api/handlers/helpers.go
package handlers

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/Annany2002/bookreader-backend/internal/core"
	"github.com/Annany2002/bookreader-backend/internal/logger"
)

var (
	customLog = logger.NewLogger()
)

// bindError keeps validator errors as they are and marks every other binding
// failure (bad JSON, wrong content type) as a validation error.
func bindError(err error) error {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return err
	}
	return fmt.Errorf("%w: %v", core.ErrValidation, err)
}
