package middleware

import (
	"revenda/internal/i18n"
	"revenda/internal/service"

	"github.com/gin-gonic/gin"
)

// I18nMiddleware creates a per-request localizer based on the operator
// language setting. Handlers read it back through handlers.tr to localize
// operator-facing error messages.
func I18nMiddleware(i18nService *i18n.I18nService, settings *service.SettingsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("localizer", i18nService.NewLocalizer(settings.GetLanguage()))
		c.Next()
	}
}
