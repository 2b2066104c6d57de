package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"revenda/internal/lifecycle"
	"revenda/internal/repository"
	"revenda/internal/service"
)

// NotificationHandler drives the reminder flow: list who is due for a
// reminder today, preview the rendered message, and produce the WhatsApp
// link while marking the customer notified.
type NotificationHandler struct {
	customers   *repository.CustomerRepository
	aggregation *service.AggregationService
	messages    *service.MessageService
}

func NewNotificationHandler(customers *repository.CustomerRepository, aggregation *service.AggregationService, messages *service.MessageService) *NotificationHandler {
	return &NotificationHandler{customers: customers, aggregation: aggregation, messages: messages}
}

// Pending lists customers at the reminder threshold not yet notified today.
func (h *NotificationHandler) Pending(c *gin.Context) {
	pending, err := h.aggregation.PendingNotifications()
	if err != nil {
		apiInternalError(c, ErrInternalServer)
		return
	}
	c.JSON(http.StatusOK, pending)
}

// Preview renders the reminder message for one customer without marking
// anything.
func (h *NotificationHandler) Preview(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	customer, err := h.customers.GetByID(id)
	if err != nil {
		apiNotFound(c, ErrCustomerNotFound)
		return
	}

	days := daysUntilDue(customer.DueDate)
	message := h.messages.RenderForCustomer(*customer, days)
	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"link":    service.WhatsAppLink(customer.Phone, message),
	})
}

// Send produces the WhatsApp link for a customer's reminder and records the
// notification, removing them from today's pending list.
func (h *NotificationHandler) Send(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	customer, err := h.customers.GetByID(id)
	if err != nil {
		apiNotFound(c, ErrCustomerNotFound)
		return
	}

	days := daysUntilDue(customer.DueDate)
	message := h.messages.RenderForCustomer(*customer, days)
	link := service.WhatsAppLink(customer.Phone, message)

	if err := h.messages.MarkNotified(customer.ID, time.Now()); err != nil {
		apiInternalError(c, ErrInternalServer)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"link":    link,
	})
}

func daysUntilDue(dueDate string) int {
	due, ok := lifecycle.ParseCalendarDate(dueDate)
	if !ok {
		return 0
	}
	return lifecycle.DaysUntilDue(due, time.Now())
}
