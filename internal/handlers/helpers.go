package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/nicksnyder/go-i18n/v2/i18n"
)

// tr localizes an operator-facing message using the request localizer set by
// the i18n middleware. Falls back to the given English text when no localizer
// is present (tests, routes outside the middleware chain) or the key is
// missing from the bundle.
func tr(c *gin.Context, messageID, fallback string) string {
	value, ok := c.Get("localizer")
	if !ok {
		return fallback
	}
	localizer, ok := value.(*i18n.Localizer)
	if !ok {
		return fallback
	}
	msg, err := localizer.Localize(&i18n.LocalizeConfig{MessageID: messageID})
	if err != nil {
		return fallback
	}
	return msg
}
