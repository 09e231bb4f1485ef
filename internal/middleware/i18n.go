// internal/middleware/i18n.go
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// I18n resolves the response language from the Accept-Language header.
// Chinese variants collapse onto zh_TW, everything else onto en.
func I18n(defaultLocale string) gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := defaultLocale
		if lang == "" {
			lang = "en"
		}

		header := strings.ToLower(c.GetHeader("Accept-Language"))
		switch {
		case strings.HasPrefix(header, "zh"):
			lang = "zh_TW"
		case strings.HasPrefix(header, "en"):
			lang = "en"
		}

		c.Set("lang", lang)
		c.Next()
	}
}
