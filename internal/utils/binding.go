// internal/utils/binding.go
package utils

import (
	"encoding/json"

	"github.com/gin-gonic/gin"

	"github.com/ratepoint/storeratings-backend/internal/apperrors"
)

// BindJSONStrict decodes the request body into dst and rejects
// payloads carrying fields the target does not declare.
func BindJSONStrict(c *gin.Context, dst interface{}) error {
	decoder := json.NewDecoder(c.Request.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return apperrors.Validation("invalid request body: " + err.Error())
	}
	return nil
}
