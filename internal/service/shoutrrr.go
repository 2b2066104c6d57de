package service

import (
	"fmt"
	"log"
	"strings"

	"github.com/containrrr/shoutrrr"
	t "github.com/containrrr/shoutrrr/pkg/types"

	"revenda/internal/i18n"
	"revenda/internal/models"
)

// ShoutrrrService pushes operator notifications (daily reminder digests) to
// the channels configured in settings. It never mutates notification state:
// only an explicit send through the message service marks a customer
// notified.
type ShoutrrrService struct {
	settingsService *SettingsService
	i18nService     *i18n.I18nService
}

func NewShoutrrrService(settingsService *SettingsService, i18nService ...*i18n.I18nService) *ShoutrrrService {
	svc := &ShoutrrrService{
		settingsService: settingsService,
	}
	if len(i18nService) > 0 {
		svc.i18nService = i18nService[0]
	}
	return svc
}

func (s *ShoutrrrService) t(messageID string) string {
	if s.i18nService == nil {
		return messageID
	}
	lang := s.settingsService.GetLanguage()
	localizer := s.i18nService.NewLocalizer(lang)
	return s.i18nService.T(localizer, messageID)
}

func (s *ShoutrrrService) tPlural(messageID string, count int, data map[string]interface{}) string {
	if s.i18nService == nil {
		return messageID
	}
	lang := s.settingsService.GetLanguage()
	localizer := s.i18nService.NewLocalizer(lang)
	return s.i18nService.TPluralCount(localizer, messageID, count, data)
}

func (s *ShoutrrrService) sendToAll(title, message string) error {
	config, err := s.settingsService.GetShoutrrrConfig()
	if err != nil {
		return fmt.Errorf("failed to get Shoutrrr config: %w", err)
	}

	if len(config.URLs) == 0 {
		return fmt.Errorf("Shoutrrr not configured: no notification URLs defined")
	}

	sender, err := shoutrrr.CreateSender(config.URLs...)
	if err != nil {
		return fmt.Errorf("failed to create Shoutrrr sender: %w", err)
	}

	params := t.Params{}
	if title != "" {
		params["title"] = title
	}

	errs := sender.Send(message, &params)

	var errMsgs []string
	for _, e := range errs {
		if e != nil {
			errMsgs = append(errMsgs, e.Error())
		}
	}

	if len(errMsgs) > 0 {
		return fmt.Errorf("shoutrrr send errors: %s", strings.Join(errMsgs, "; "))
	}

	return nil
}

// SendTestNotification sends a test notification to the given URLs
func (s *ShoutrrrService) SendTestNotification(urls []string) error {
	if len(urls) == 0 {
		return fmt.Errorf("no notification URLs provided")
	}

	sender, err := shoutrrr.CreateSender(urls...)
	if err != nil {
		return fmt.Errorf("failed to create Shoutrrr sender: %w", err)
	}

	params := t.Params{
		"title": s.t("shoutrrr_test_title"),
	}
	errs := sender.Send(s.t("shoutrrr_test_body"), &params)

	var errMsgs []string
	for _, e := range errs {
		if e != nil {
			errMsgs = append(errMsgs, e.Error())
		}
	}

	if len(errMsgs) > 0 {
		return fmt.Errorf("shoutrrr send errors: %s", strings.Join(errMsgs, "; "))
	}

	return nil
}

// SendReminderDigest pushes one message listing every customer who hit the
// reminder threshold today, so the operator can fire the WhatsApp reminders
// from the dashboard.
func (s *ShoutrrrService) SendReminderDigest(pending []models.ExpiringCustomer) error {
	if len(pending) == 0 {
		return nil
	}

	message := s.tPlural("digest_header", len(pending), nil) + "\n\n"
	for _, entry := range pending {
		message += fmt.Sprintf("- %s: %s (%s)\n",
			entry.Customer.Name,
			FormatCurrency(entry.Customer.AmountPaid),
			entry.Customer.DueDate,
		)
	}

	title := s.t("digest_title")

	if err := s.sendToAll(title, message); err != nil {
		log.Printf("Failed to send reminder digest via Shoutrrr: %v", err)
		return err
	}
	return nil
}
