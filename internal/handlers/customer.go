package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"revenda/internal/lifecycle"
	"revenda/internal/repository"
	"revenda/internal/service"
)

// CustomerHandler serves the customer CRUD plus the renew action. Creation
// and renewal go through the renewal service so the ledger invariants hold;
// plain edits go straight to the repository.
type CustomerHandler struct {
	customers *repository.CustomerRepository
	renewal   *service.RenewalService
}

func NewCustomerHandler(customers *repository.CustomerRepository, renewal *service.RenewalService) *CustomerHandler {
	return &CustomerHandler{customers: customers, renewal: renewal}
}

// customerRequest is the operator form payload. Amount travels as text so the
// decimal comma survives; see parseMoney.
type customerRequest struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	ServerID uint   `json:"server_id"`
	PlanID   uint   `json:"plan_id"`
	Amount   string `json:"amount"`
	DueDate  string `json:"due_date"`
}

// List returns all customers
func (h *CustomerHandler) List(c *gin.Context) {
	customers, err := h.customers.GetAll()
	if err != nil {
		apiInternalError(c, ErrInternalServer)
		return
	}
	c.JSON(http.StatusOK, customers)
}

// Get returns a single customer by ID
func (h *CustomerHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	customer, err := h.customers.GetByID(id)
	if err != nil {
		apiNotFound(c, ErrCustomerNotFound)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// Create registers a customer together with its founding renewal.
func (h *CustomerHandler) Create(c *gin.Context) {
	var req customerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiBadRequest(c, ErrInvalidRequestBody)
		return
	}

	amount, err := parseMoney(req.Amount)
	if err != nil {
		apiBadRequest(c, "Invalid amount")
		return
	}

	customer, err := h.renewal.RecordNewCustomer(service.NewCustomerInput{
		Name:       req.Name,
		Phone:      req.Phone,
		ServerID:   req.ServerID,
		PlanID:     req.PlanID,
		AmountPaid: amount,
		DueDate:    req.DueDate,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNameRequired):
			apiBadRequest(c, "Name is required")
		case errors.Is(err, service.ErrInvalidDueDate):
			apiBadRequest(c, "Invalid due date")
		default:
			apiInternalError(c, ErrInternalServer)
		}
		return
	}

	c.JSON(http.StatusCreated, customer)
}

// Update edits customer fields in place. This never touches the renewal
// ledger; recording a payment goes through Renew.
func (h *CustomerHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	customer, err := h.customers.GetByID(id)
	if err != nil {
		apiNotFound(c, ErrCustomerNotFound)
		return
	}

	var req customerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiBadRequest(c, ErrInvalidRequestBody)
		return
	}
	if req.Name == "" {
		apiBadRequest(c, "Name is required")
		return
	}
	if _, valid := lifecycle.ParseCalendarDate(req.DueDate); !valid {
		apiBadRequest(c, "Invalid due date")
		return
	}
	amount, err := parseMoney(req.Amount)
	if err != nil {
		apiBadRequest(c, "Invalid amount")
		return
	}

	customer.Name = req.Name
	customer.Phone = req.Phone
	customer.ServerID = req.ServerID
	customer.PlanID = req.PlanID
	customer.AmountPaid = amount
	customer.DueDate = req.DueDate

	updated, err := h.customers.Update(id, customer)
	if err != nil {
		apiInternalError(c, ErrInternalServer)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Delete removes a customer. Renewal ledger entries referencing it survive.
func (h *CustomerHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.customers.Delete(id); err != nil {
		apiInternalError(c, ErrInternalServer)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

type renewRequest struct {
	ServerID uint   `json:"server_id"`
	PlanID   uint   `json:"plan_id"`
	Amount   string `json:"amount"`
}

// Renew records a payment: rolls the due date forward and appends a ledger
// entry. A renew against a vanished customer or plan is accepted and ignored.
func (h *CustomerHandler) Renew(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req renewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiBadRequest(c, ErrInvalidRequestBody)
		return
	}
	amount, err := parseMoney(req.Amount)
	if err != nil {
		apiBadRequest(c, "Invalid amount")
		return
	}

	if err := h.renewal.Renew(id, req.ServerID, req.PlanID, amount); err != nil {
		apiInternalError(c, ErrInternalServer)
		return
	}

	customer, err := h.customers.GetByID(id)
	if err != nil {
		// The no-op path: nothing was renewed because the customer is gone.
		c.JSON(http.StatusOK, gin.H{"renewed": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"renewed": true, "customer": customer})
}
