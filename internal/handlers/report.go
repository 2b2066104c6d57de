package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"revenda/internal/service"
)

// ReportHandler serves the per-month financial rollup.
type ReportHandler struct {
	aggregation *service.AggregationService
}

func NewReportHandler(aggregation *service.AggregationService) *ReportHandler {
	return &ReportHandler{aggregation: aggregation}
}

// Monthly returns the gross/cost/net rollup for ?year=&month=, defaulting to
// the current month.
func (h *ReportHandler) Monthly(c *gin.Context) {
	now := time.Now()
	year := now.Year()
	month := int(now.Month())

	if raw := c.Query("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			apiBadRequest(c, "Invalid year")
			return
		}
		year = parsed
	}
	if raw := c.Query("month"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 12 {
			apiBadRequest(c, "Invalid month")
			return
		}
		month = parsed
	}

	report, err := h.aggregation.MonthlyReport(year, month)
	if err != nil {
		apiInternalError(c, ErrInternalServer)
		return
	}
	c.JSON(http.StatusOK, report)
}
