package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"revenda/internal/i18n"
	"revenda/internal/models"
	"revenda/internal/service"
)

// SettingsHandler serves operator preferences: the reminder template, the
// interface language and the notification channels.
type SettingsHandler struct {
	settings *service.SettingsService
	shoutrrr *service.ShoutrrrService
	i18nSvc  *i18n.I18nService
}

func NewSettingsHandler(settings *service.SettingsService, shoutrrr *service.ShoutrrrService, i18nSvc *i18n.I18nService) *SettingsHandler {
	return &SettingsHandler{settings: settings, shoutrrr: shoutrrr, i18nSvc: i18nSvc}
}

func (h *SettingsHandler) Get(c *gin.Context) {
	config, err := h.settings.GetShoutrrrConfig()
	if err != nil {
		config = &service.ShoutrrrConfig{}
	}

	c.JSON(http.StatusOK, gin.H{
		"message_template":    h.settings.GetMessageTemplate(),
		"language":            h.settings.GetLanguage(),
		"notification_urls":   config.URLs,
		"supported_languages": h.i18nSvc.SupportedLanguages(),
	})
}

type settingsRequest struct {
	MessageTemplate  *string  `json:"message_template"`
	Language         *string  `json:"language"`
	NotificationURLs []string `json:"notification_urls"`
}

// Update applies the provided settings; absent fields are left untouched.
func (h *SettingsHandler) Update(c *gin.Context) {
	var req settingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiBadRequest(c, ErrInvalidRequestBody)
		return
	}

	if req.MessageTemplate != nil {
		if err := h.settings.SetMessageTemplate(*req.MessageTemplate); err != nil {
			apiInternalError(c, ErrInternalServer)
			return
		}
	}
	if req.Language != nil {
		if err := h.settings.SetLanguage(*req.Language); err != nil {
			apiInternalError(c, ErrInternalServer)
			return
		}
	}
	if req.NotificationURLs != nil {
		if err := h.settings.SaveShoutrrrConfig(&service.ShoutrrrConfig{URLs: req.NotificationURLs}); err != nil {
			apiInternalError(c, ErrInternalServer)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"updated": true})
}

type previewRequest struct {
	Template string `json:"template"`
}

// PreviewTemplate renders a candidate template against a sample customer so
// the operator can see the substitution before saving.
func (h *SettingsHandler) PreviewTemplate(c *gin.Context) {
	var req previewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiBadRequest(c, ErrInvalidRequestBody)
		return
	}

	sample := models.Customer{
		Name:       "Maria",
		AmountPaid: 35,
		DueDate:    "2026-09-07",
	}
	c.JSON(http.StatusOK, gin.H{"preview": service.Render(req.Template, sample, 7)})
}

type testNotificationRequest struct {
	URLs []string `json:"urls"`
}

// TestNotification pushes a test message to the given channel URLs.
func (h *SettingsHandler) TestNotification(c *gin.Context) {
	var req testNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiBadRequest(c, ErrInvalidRequestBody)
		return
	}
	if err := h.shoutrrr.SendTestNotification(req.URLs); err != nil {
		apiBadRequest(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"sent": true})
}
