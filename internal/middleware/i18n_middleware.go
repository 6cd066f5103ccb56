package middleware

import (
	"github.com/gin-gonic/gin"

	"shorturl-go/internal/i18n"
)

// I18nMiddleware picks the response language from Accept-Language and puts
// the matching localizer on the request context.
func I18nMiddleware(catalog *i18n.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := catalog.Negotiate(c.GetHeader("Accept-Language"))
		localizer := catalog.Localizer(lang)
		c.Request = c.Request.WithContext(i18n.WithLocalizer(c.Request.Context(), localizer))
		c.Header("Content-Language", lang)
		c.Next()
	}
}
