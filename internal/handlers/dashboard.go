package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"revenda/internal/repository"
	"revenda/internal/service"
)

// DashboardHandler serves the landing view data: global totals, the expiring
// queue and the customer count, in one payload.
type DashboardHandler struct {
	customers   *repository.CustomerRepository
	aggregation *service.AggregationService
}

func NewDashboardHandler(customers *repository.CustomerRepository, aggregation *service.AggregationService) *DashboardHandler {
	return &DashboardHandler{customers: customers, aggregation: aggregation}
}

func (h *DashboardHandler) Dashboard(c *gin.Context) {
	totals, err := h.aggregation.Totals()
	if err != nil {
		apiInternalError(c, ErrInternalServer)
		return
	}
	expiring, err := h.aggregation.ExpiringQueue()
	if err != nil {
		apiInternalError(c, ErrInternalServer)
		return
	}
	pending, err := h.aggregation.PendingNotifications()
	if err != nil {
		apiInternalError(c, ErrInternalServer)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"totals":                totals,
		"expiring":              expiring,
		"pending_notifications": pending,
		"customer_count":        h.customers.Count(),
	})
}

// Totals returns the global ledger aggregate alone.
func (h *DashboardHandler) Totals(c *gin.Context) {
	totals, err := h.aggregation.Totals()
	if err != nil {
		apiInternalError(c, ErrInternalServer)
		return
	}
	c.JSON(http.StatusOK, totals)
}

// Expiring returns the ±7 day reminder queue.
func (h *DashboardHandler) Expiring(c *gin.Context) {
	queue, err := h.aggregation.ExpiringQueue()
	if err != nil {
		apiInternalError(c, ErrInternalServer)
		return
	}
	c.JSON(http.StatusOK, queue)
}
