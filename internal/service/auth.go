package service

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"revenda/internal/repository"
)

// AuthService manages the single operator credential set. Authentication is
// optional and disabled until configured.
type AuthService struct {
	settings *SettingsService
	repo     *repository.SettingsRepository
}

func NewAuthService(settings *SettingsService, repo *repository.SettingsRepository) *AuthService {
	return &AuthService{
		settings: settings,
		repo:     repo,
	}
}

// IsAuthEnabled returns whether authentication is enabled
func (a *AuthService) IsAuthEnabled() bool {
	return a.settings.GetBoolSettingWithDefault(SettingKeyAuthEnabled, false)
}

// SetAuthEnabled enables or disables authentication
func (a *AuthService) SetAuthEnabled(enabled bool) error {
	return a.settings.SetBoolSetting(SettingKeyAuthEnabled, enabled)
}

// GetAuthUsername returns the configured operator username
func (a *AuthService) GetAuthUsername() (string, error) {
	val, ok := a.settings.GetCached(SettingKeyAuthUsername)
	if !ok {
		return "", fmt.Errorf("auth_username not found")
	}
	return val, nil
}

// SetAuthUsername sets the operator username
func (a *AuthService) SetAuthUsername(username string) error {
	defer a.settings.InvalidateCache()
	return a.repo.Set(SettingKeyAuthUsername, username)
}

// SetAuthPassword hashes and stores the operator password
func (a *AuthService) SetAuthPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	defer a.settings.InvalidateCache()
	return a.repo.Set(SettingKeyAuthPasswordHash, string(hash))
}

// ValidatePassword checks if a password matches the stored hash
func (a *AuthService) ValidatePassword(password string) error {
	hash, ok := a.settings.GetCached(SettingKeyAuthPasswordHash)
	if !ok {
		return fmt.Errorf("no password configured")
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// GetOrGenerateSessionSecret returns the session secret, generating one if it doesn't exist
func (a *AuthService) GetOrGenerateSessionSecret() (string, error) {
	secret, ok := a.settings.GetCached(SettingKeyAuthSessionSecret)
	if ok && secret != "" {
		return secret, nil
	}

	bytes := make([]byte, 64)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	secret = base64.URLEncoding.EncodeToString(bytes)

	if err := a.repo.Set(SettingKeyAuthSessionSecret, secret); err != nil {
		return "", err
	}
	a.settings.InvalidateCache()

	return secret, nil
}

// GetOrGenerateCSRFSecret returns the CSRF secret, generating one if it doesn't exist
func (a *AuthService) GetOrGenerateCSRFSecret() ([]byte, error) {
	secret, ok := a.settings.GetCached(SettingKeyCSRFSecret)
	if ok && secret != "" {
		decoded, err := base64.URLEncoding.DecodeString(secret)
		if err != nil {
			return nil, err
		}
		return decoded, nil
	}

	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return nil, err
	}
	encoded := base64.URLEncoding.EncodeToString(bytes)

	if err := a.repo.Set(SettingKeyCSRFSecret, encoded); err != nil {
		return nil, err
	}
	a.settings.InvalidateCache()

	return bytes, nil
}

// SetupAuth sets up authentication with username and password
func (a *AuthService) SetupAuth(username, password string) error {
	if err := a.SetAuthUsername(username); err != nil {
		return err
	}
	if err := a.SetAuthPassword(password); err != nil {
		return err
	}
	if _, err := a.GetOrGenerateSessionSecret(); err != nil {
		return err
	}
	return a.SetAuthEnabled(true)
}

// DisableAuth disables authentication; credentials are preserved so auth can
// be re-enabled later.
func (a *AuthService) DisableAuth() error {
	return a.SetAuthEnabled(false)
}
