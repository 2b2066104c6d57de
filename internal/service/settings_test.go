package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"revenda/internal/repository"
)

func newTestSettings(t *testing.T) *SettingsService {
	db := setupServiceTestDB(t)
	return NewSettingsService(repository.NewSettingsRepository(db))
}

func TestSettingsDefaults(t *testing.T) {
	settings := newTestSettings(t)

	assert.Equal(t, "pt-BR", settings.GetLanguage())
	assert.Equal(t, DefaultMessageTemplate, settings.GetMessageTemplate())

	config, err := settings.GetShoutrrrConfig()
	assert.NoError(t, err)
	assert.Empty(t, config.URLs)
}

func TestSettingsWriteInvalidatesCache(t *testing.T) {
	settings := newTestSettings(t)

	// Prime the cache with the default
	assert.Equal(t, DefaultMessageTemplate, settings.GetMessageTemplate())

	assert.NoError(t, settings.SetMessageTemplate("{nome}: {valor}"))
	assert.Equal(t, "{nome}: {valor}", settings.GetMessageTemplate())

	assert.NoError(t, settings.SetLanguage("en"))
	assert.Equal(t, "en", settings.GetLanguage())
}

func TestShoutrrrConfigRoundTrip(t *testing.T) {
	settings := newTestSettings(t)

	urls := []string{"telegram://token@telegram?chats=123"}
	assert.NoError(t, settings.SaveShoutrrrConfig(&ShoutrrrConfig{URLs: urls}))

	config, err := settings.GetShoutrrrConfig()
	assert.NoError(t, err)
	assert.Equal(t, urls, config.URLs)
}

func TestAuthServiceLifecycle(t *testing.T) {
	db := setupServiceTestDB(t)
	settingsRepo := repository.NewSettingsRepository(db)
	settings := NewSettingsService(settingsRepo)
	auth := NewAuthService(settings, settingsRepo)

	assert.False(t, auth.IsAuthEnabled())

	assert.NoError(t, auth.SetupAuth("admin", "correct horse battery"))
	assert.True(t, auth.IsAuthEnabled())

	username, err := auth.GetAuthUsername()
	assert.NoError(t, err)
	assert.Equal(t, "admin", username)

	assert.NoError(t, auth.ValidatePassword("correct horse battery"))
	assert.Error(t, auth.ValidatePassword("wrong"))

	// Secrets are stable across calls
	secret1, err := auth.GetOrGenerateSessionSecret()
	assert.NoError(t, err)
	secret2, err := auth.GetOrGenerateSessionSecret()
	assert.NoError(t, err)
	assert.Equal(t, secret1, secret2)

	assert.NoError(t, auth.DisableAuth())
	assert.False(t, auth.IsAuthEnabled())
	assert.NoError(t, auth.ValidatePassword("correct horse battery"), "credentials survive disabling")
}
