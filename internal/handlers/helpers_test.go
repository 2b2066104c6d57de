package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"revenda/internal/i18n"
)

func TestTrUsesRequestLocalizer(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Set("localizer", i18n.NewI18nService().NewLocalizer("pt-BR"))

	got := tr(c, "login_invalid_credentials", "Invalid username or password")
	assert.Equal(t, "Usuário ou senha inválidos", got)
}

func TestTrFallsBackWithoutLocalizer(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	got := tr(c, "login_invalid_credentials", "Invalid username or password")
	assert.Equal(t, "Invalid username or password", got)

	got = tr(c, "no_such_key", "fallback")
	assert.Equal(t, "fallback", got)
}
