package service

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"revenda/internal/repository"
)

const settingsCacheTTL = 30 * time.Second

// Setting key constants
const (
	SettingKeyMessageTemplate   = "message_template"
	SettingKeyLanguage          = "language"
	SettingKeyShoutrrrConfig    = "shoutrrr_config"
	SettingKeyAuthEnabled       = "auth_enabled"
	SettingKeyAuthUsername      = "auth_username"
	SettingKeyAuthPasswordHash  = "auth_password_hash"
	SettingKeyAuthSessionSecret = "auth_session_secret"
	SettingKeyCSRFSecret        = "csrf_secret"
)

// DefaultMessageTemplate is the reminder text used until the operator saves
// their own. Tokens are replaced by the message service.
const DefaultMessageTemplate = "Olá {nome}! Sua assinatura vence em {dias} ({vencimento}). Valor: {valor}. Renove para não perder o acesso."

// ShoutrrrConfig holds the operator notification channel URLs.
type ShoutrrrConfig struct {
	URLs []string `json:"urls"`
}

type SettingsService struct {
	repo     *repository.SettingsRepository
	mu       sync.RWMutex
	cache    map[string]string
	lastLoad time.Time
}

func NewSettingsService(repo *repository.SettingsRepository) *SettingsService {
	return &SettingsService{
		repo:  repo,
		cache: make(map[string]string),
	}
}

// loadCache loads all settings into the in-memory cache
func (s *SettingsService) loadCache() {
	settings, err := s.repo.GetAll()
	if err != nil {
		slog.Warn("failed to load settings cache", "error", err)
		return
	}
	s.cache = make(map[string]string, len(settings))
	for _, setting := range settings {
		s.cache[setting.Key] = setting.Value
	}
	s.lastLoad = time.Now()
}

// GetCached returns a cached setting value.
// Returns ("", false) if key is not found.
func (s *SettingsService) GetCached(key string) (string, bool) {
	s.mu.RLock()
	if time.Since(s.lastLoad) < settingsCacheTTL && s.lastLoad != (time.Time{}) {
		val, ok := s.cache[key]
		s.mu.RUnlock()
		return val, ok
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	// Double-check after acquiring write lock
	if time.Since(s.lastLoad) < settingsCacheTTL && s.lastLoad != (time.Time{}) {
		val, ok := s.cache[key]
		return val, ok
	}
	s.loadCache()
	val, ok := s.cache[key]
	return val, ok
}

// InvalidateCache clears the settings cache
func (s *SettingsService) InvalidateCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastLoad = time.Time{}
}

func (s *SettingsService) Set(key, value string) error {
	defer s.InvalidateCache()
	return s.repo.Set(key, value)
}

// SetBoolSetting saves a boolean setting
func (s *SettingsService) SetBoolSetting(key string, value bool) error {
	defer s.InvalidateCache()
	return s.repo.Set(key, fmt.Sprintf("%t", value))
}

// GetBoolSettingWithDefault retrieves a boolean setting, falling back when unset
func (s *SettingsService) GetBoolSettingWithDefault(key string, defaultValue bool) bool {
	value, ok := s.GetCached(key)
	if !ok {
		return defaultValue
	}
	return value == "true"
}

// GetLanguage returns the operator language, defaulting to Brazilian Portuguese.
func (s *SettingsService) GetLanguage() string {
	lang, ok := s.GetCached(SettingKeyLanguage)
	if !ok || lang == "" {
		return "pt-BR"
	}
	return lang
}

func (s *SettingsService) SetLanguage(lang string) error {
	return s.Set(SettingKeyLanguage, lang)
}

// GetMessageTemplate returns the operator reminder template.
func (s *SettingsService) GetMessageTemplate() string {
	template, ok := s.GetCached(SettingKeyMessageTemplate)
	if !ok || template == "" {
		return DefaultMessageTemplate
	}
	return template
}

func (s *SettingsService) SetMessageTemplate(template string) error {
	return s.Set(SettingKeyMessageTemplate, template)
}

// SaveShoutrrrConfig saves the notification channel URLs
func (s *SettingsService) SaveShoutrrrConfig(config *ShoutrrrConfig) error {
	data, err := json.Marshal(config)
	if err != nil {
		return err
	}
	return s.Set(SettingKeyShoutrrrConfig, string(data))
}

// GetShoutrrrConfig retrieves the notification channel URLs
func (s *SettingsService) GetShoutrrrConfig() (*ShoutrrrConfig, error) {
	data, ok := s.GetCached(SettingKeyShoutrrrConfig)
	if !ok {
		return &ShoutrrrConfig{}, nil
	}

	var config ShoutrrrConfig
	if err := json.Unmarshal([]byte(data), &config); err != nil {
		return nil, err
	}
	return &config, nil
}
