package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"revenda/internal/repository"
	"revenda/internal/service"
)

// LedgerHandler exposes the read-only renewal ledger and the manual addition
// entry point. Ledger rows are append-only; there is no update or delete.
type LedgerHandler struct {
	renewals  *repository.RenewalRepository
	additions *repository.ManualAdditionRepository
	renewal   *service.RenewalService
}

func NewLedgerHandler(renewals *repository.RenewalRepository, additions *repository.ManualAdditionRepository, renewal *service.RenewalService) *LedgerHandler {
	return &LedgerHandler{renewals: renewals, additions: additions, renewal: renewal}
}

// Renewals lists the full renewal ledger, or one customer's slice of it when
// ?customer_id= is given.
func (h *LedgerHandler) Renewals(c *gin.Context) {
	if raw := c.Query("customer_id"); raw != "" {
		id, ok := parseQueryID(c, raw)
		if !ok {
			return
		}
		renewals, err := h.renewals.GetByCustomer(id)
		if err != nil {
			apiInternalError(c, ErrInternalServer)
			return
		}
		c.JSON(http.StatusOK, renewals)
		return
	}

	renewals, err := h.renewals.GetAll()
	if err != nil {
		apiInternalError(c, ErrInternalServer)
		return
	}
	c.JSON(http.StatusOK, renewals)
}

// ManualAdditions lists manual ledger adjustments, newest first.
func (h *LedgerHandler) ManualAdditions(c *gin.Context) {
	additions, err := h.additions.GetAll()
	if err != nil {
		apiInternalError(c, ErrInternalServer)
		return
	}
	c.JSON(http.StatusOK, additions)
}

type manualAdditionRequest struct {
	Amount      string `json:"amount"`
	Description string `json:"description"`
	Deduction   bool   `json:"deduction"`
}

// CreateManualAddition appends a signed adjustment to the ledger.
func (h *LedgerHandler) CreateManualAddition(c *gin.Context) {
	var req manualAdditionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiBadRequest(c, ErrInvalidRequestBody)
		return
	}
	amount, err := service.ParseAmount(req.Amount)
	if err != nil {
		apiBadRequest(c, "Invalid amount")
		return
	}

	addition, err := h.renewal.AddManualEntry(amount, req.Description, req.Deduction)
	if err != nil {
		apiInternalError(c, ErrInternalServer)
		return
	}
	c.JSON(http.StatusCreated, addition)
}
