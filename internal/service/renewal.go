package service

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"revenda/internal/lifecycle"
	"revenda/internal/models"
	"revenda/internal/repository"
)

// Validation failures abort an operation before any write.
var (
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrInvalidDueDate = errors.New("invalid due date")
	ErrNameRequired   = errors.New("name is required")
)

// RenewalService is the billing engine: it creates customers with their
// founding renewal, rolls due dates forward on renewal, and appends manual
// ledger entries. Renewals snapshot the server/plan in effect at the time of
// the event; later customer edits never rewrite them.
type RenewalService struct {
	customers *repository.CustomerRepository
	servers   *repository.ServerRepository
	plans     *repository.PlanRepository
	renewals  *repository.RenewalRepository
	additions *repository.ManualAdditionRepository
	now       func() time.Time
}

func NewRenewalService(
	customers *repository.CustomerRepository,
	servers *repository.ServerRepository,
	plans *repository.PlanRepository,
	renewals *repository.RenewalRepository,
	additions *repository.ManualAdditionRepository,
) *RenewalService {
	return &RenewalService{
		customers: customers,
		servers:   servers,
		plans:     plans,
		renewals:  renewals,
		additions: additions,
		now:       time.Now,
	}
}

// SetClock overrides the engine clock. Test hook.
func (s *RenewalService) SetClock(now func() time.Time) {
	s.now = now
}

// NewCustomerInput is the operator form payload for a signup.
type NewCustomerInput struct {
	Name       string
	Phone      string
	ServerID   uint
	PlanID     uint
	AmountPaid float64
	DueDate    string
}

// providerCost computes what the upstream server charges for one billing
// period: costPerActive × plan months. Missing references degrade to
// cost 0 / months 1 rather than failing, so dangling ids stay harmless.
func (s *RenewalService) providerCost(serverID, planID uint) float64 {
	costPerActive := 0.0
	if server, err := s.servers.GetByID(serverID); err == nil {
		costPerActive = server.CostPerActive
	}

	months := 1
	if plan, err := s.plans.GetByID(planID); err == nil && plan.Months >= 1 {
		months = plan.Months
	}

	return costPerActive * float64(months)
}

// RecordNewCustomer creates a customer and appends its founding renewal so
// that revenue accounting starts at signup. The two writes are sequential,
// not transactional: if the renewal append fails the customer already exists
// and the error is surfaced to the operator.
func (s *RenewalService) RecordNewCustomer(input NewCustomerInput) (*models.Customer, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrNameRequired
	}
	if _, ok := lifecycle.ParseCalendarDate(input.DueDate); !ok {
		return nil, ErrInvalidDueDate
	}

	customer := &models.Customer{
		Name:       strings.TrimSpace(input.Name),
		Phone:      input.Phone,
		ServerID:   input.ServerID,
		PlanID:     input.PlanID,
		AmountPaid: input.AmountPaid,
		DueDate:    input.DueDate,
	}
	created, err := s.customers.Create(customer)
	if err != nil {
		return nil, err
	}

	renewal := &models.Renewal{
		CustomerID: created.ID,
		ServerID:   input.ServerID,
		PlanID:     input.PlanID,
		Amount:     input.AmountPaid,
		Cost:       s.providerCost(input.ServerID, input.PlanID),
		Date:       s.now(),
	}
	if _, err := s.renewals.Append(renewal); err != nil {
		slog.Error("customer created but founding renewal failed", "customer_id", created.ID, "error", err)
		return created, fmt.Errorf("founding renewal: %w", err)
	}

	return created, nil
}

// Renew rolls a customer forward one billing period: computes the new due
// date, overwrites the customer's server/plan/amount with the renewal values
// and appends a ledger entry. Missing customer or plan makes it a silent
// no-op, matching the dashboard behavior of ignoring stale renew clicks.
func (s *RenewalService) Renew(customerID, serverID, planID uint, amount float64) error {
	customer, err := s.customers.GetByID(customerID)
	if err != nil {
		slog.Warn("renew ignored: customer not found", "customer_id", customerID)
		return nil
	}
	plan, err := s.plans.GetByID(planID)
	if err != nil {
		slog.Warn("renew ignored: plan not found", "plan_id", planID)
		return nil
	}

	today := s.now()
	// An unparsable stored due date classifies as expired, so the rollover
	// extends from today.
	currentDue, _ := lifecycle.ParseCalendarDate(customer.DueDate)
	newDue := lifecycle.RolloverDueDate(currentDue, today, plan.Months)

	customer.ServerID = serverID
	customer.PlanID = planID
	customer.AmountPaid = amount
	customer.DueDate = lifecycle.FormatCalendarDate(newDue)
	if _, err := s.customers.Update(customer.ID, customer); err != nil {
		return err
	}

	renewal := &models.Renewal{
		CustomerID: customer.ID,
		ServerID:   serverID,
		PlanID:     planID,
		Amount:     amount,
		Cost:       s.providerCost(serverID, planID),
		Date:       today,
	}
	_, err = s.renewals.Append(renewal)
	return err
}

// AddManualEntry appends an ad-hoc ledger adjustment. The deduction toggle
// carries the operator's intent; the stored amount is signed accordingly.
func (s *RenewalService) AddManualEntry(amount float64, description string, deduction bool) (*models.ManualAddition, error) {
	magnitude := math.Abs(amount)
	if deduction {
		magnitude = -magnitude
	}

	return s.additions.Append(&models.ManualAddition{
		Amount:      magnitude,
		Description: description,
		Date:        s.now(),
	})
}

// ParseAmount parses operator-entered money text, accepting a decimal comma
// and an optional currency prefix. Unparsable input is a validation failure,
// never a silent zero.
func ParseAmount(s string) (float64, error) {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.TrimPrefix(cleaned, "R$")
	cleaned = strings.TrimSpace(cleaned)
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	if cleaned == "" {
		return 0, ErrInvalidAmount
	}

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	return value, nil
}
