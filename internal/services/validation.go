// internal/services/validation.go
package services

import (
	"github.com/ratepoint/storeratings-backend/internal/apperrors"
	"github.com/ratepoint/storeratings-backend/internal/utils"
)

// validationError maps validator output onto the application error
// taxonomy, surfacing the first field message.
func validationError(err error) error {
	if errs := utils.GetValidationErrors(err); len(errs) > 0 {
		return apperrors.Validation(errs[0].Message)
	}
	return apperrors.Validation("invalid input")
}
