package service

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"revenda/internal/lifecycle"
	"revenda/internal/models"
	"revenda/internal/repository"
)

// InvalidDatePlaceholder is rendered for {vencimento} when the stored due
// date cannot be parsed.
const InvalidDatePlaceholder = "Data inválida"

var (
	currencyPrinter = message.NewPrinter(language.BrazilianPortuguese)
	phoneNonDigits  = regexp.MustCompile(`\D`)
)

// FormatCurrency renders a monetary value the way the operator's customers
// expect it: "R$ 35,00".
func FormatCurrency(value float64) string {
	return currencyPrinter.Sprintf("R$ %.2f", value)
}

// MessageService renders renewal reminder messages and produces the payload
// the messaging collaborator needs: an URL-escaped text and a digits-only
// phone number.
type MessageService struct {
	settings  *SettingsService
	customers *repository.CustomerRepository
}

func NewMessageService(settings *SettingsService, customers *repository.CustomerRepository) *MessageService {
	return &MessageService{settings: settings, customers: customers}
}

// Render substitutes the four reminder tokens into template. Each token is
// replaced at its first occurrence only; operator templates carry each token
// once and repeated occurrences are left as-is (a documented limitation of
// the single-shot replacement, asserted in tests rather than changed).
// When the stored due date cannot be parsed, both date-derived tokens
// ({dias} and {vencimento}) render the invalid-date placeholder rather than
// one of them pretending the renewal is due today.
func Render(template string, customer models.Customer, daysUntilDue int) string {
	days := InvalidDatePlaceholder
	dueText := InvalidDatePlaceholder
	if due, ok := lifecycle.ParseCalendarDate(customer.DueDate); ok {
		dueText = due.Format("02/01/2006")
		if daysUntilDue == 0 {
			days = "hoje"
		} else {
			days = fmt.Sprintf("%d dias", daysUntilDue)
		}
	}

	rendered := template
	rendered = strings.Replace(rendered, "{nome}", customer.Name, 1)
	rendered = strings.Replace(rendered, "{valor}", FormatCurrency(customer.AmountPaid), 1)
	rendered = strings.Replace(rendered, "{dias}", days, 1)
	rendered = strings.Replace(rendered, "{vencimento}", dueText, 1)
	return rendered
}

// RenderForCustomer renders the operator's configured template.
func (s *MessageService) RenderForCustomer(customer models.Customer, daysUntilDue int) string {
	return Render(s.settings.GetMessageTemplate(), customer, daysUntilDue)
}

// PhoneDigits normalizes a free-text phone field to digits only.
func PhoneDigits(phone string) string {
	return phoneNonDigits.ReplaceAllString(phone, "")
}

// WhatsAppLink builds the pre-filled chat link for a rendered message.
func WhatsAppLink(phone, renderedMessage string) string {
	return "https://wa.me/" + PhoneDigits(phone) + "?text=" + url.QueryEscape(renderedMessage)
}

// MarkNotified records that a reminder went out to the customer today, which
// excludes them from pending notifications for the rest of the day. They
// remain visible in the expiring queue.
func (s *MessageService) MarkNotified(customerID uint, today time.Time) error {
	return s.customers.UpdateFields(customerID, map[string]interface{}{
		"last_notified_date": lifecycle.FormatCalendarDate(today),
	})
}
