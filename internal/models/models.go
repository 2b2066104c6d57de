package models

import "time"

// Server is an upstream access provider. CostPerActive is the monthly cost
// the provider charges per active customer, multiplied by plan months when a
// renewal is recorded.
type Server struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	Name          string    `json:"name" gorm:"not null"`
	CostPerActive float64   `json:"cost_per_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Plan is a subscription tier. Months is the billing period length.
type Plan struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"not null"`
	Months       int       `json:"months" gorm:"not null;default:1"`
	DefaultPrice float64   `json:"default_price"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// FreePlanName is the plan that must always exist in the active plan set.
// It is synthesized on startup and after a bulk plan restore if absent.
const FreePlanName = "Gratuito"

// Customer is a subscriber. DueDate and LastNotifiedDate are calendar dates
// stored as YYYY-MM-DD strings with no time-of-day component; all parsing and
// comparison goes through the lifecycle package. ServerID and PlanID are soft
// references: the targets may have been deleted and lookups must degrade.
type Customer struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	Name             string    `json:"name" gorm:"not null"`
	Phone            string    `json:"phone"`
	ServerID         uint      `json:"server_id" gorm:"index"`
	PlanID           uint      `json:"plan_id" gorm:"index"`
	AmountPaid       float64   `json:"amount_paid"`
	DueDate          string    `json:"due_date" gorm:"size:10"`
	LastNotifiedDate string    `json:"last_notified_date" gorm:"size:10"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Renewal is an immutable ledger entry recording one payment event. ServerID
// and PlanID snapshot the references in effect at the time of the event; they
// are never rewritten when the customer later changes server or plan. This
// ledger, not Customer.AmountPaid, is the system of record for historical
// revenue and cost.
type Renewal struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	CustomerID uint      `json:"customer_id" gorm:"index"`
	ServerID   uint      `json:"server_id" gorm:"index"`
	PlanID     uint      `json:"plan_id"`
	Amount     float64   `json:"amount"`
	Cost       float64   `json:"cost"`
	Date       time.Time `json:"date" gorm:"index"`
	CreatedAt  time.Time `json:"created_at"`
}

// ManualAddition is an operator-entered ledger adjustment outside the renewal
// flow. Amount is signed: positive adds revenue, negative records an expense.
type ManualAddition struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description"`
	Date        time.Time `json:"date" gorm:"index"`
	CreatedAt   time.Time `json:"created_at"`
}

// Setting is a key-value row for operator preferences and auth material.
type Setting struct {
	Key       string    `json:"key" gorm:"primaryKey"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Totals is the global ledger aggregate shown on the dashboard.
type Totals struct {
	GrossValue  float64 `json:"gross_value"`
	TotalCost   float64 `json:"total_cost"`
	TotalManual float64 `json:"total_manual"`
	NetValue    float64 `json:"net_value"`
}

// ServerStats is the all-time ledger rollup for one server plus the count of
// customers currently active on it.
type ServerStats struct {
	ServerID         uint    `json:"server_id"`
	ServerName       string  `json:"server_name"`
	AccumulatedTotal float64 `json:"accumulated_total"`
	MonthlyCost      float64 `json:"monthly_cost"`
	ActiveCustomers  int     `json:"active_customers"`
}

// ServerProfit is the current-snapshot profit view for one server: sums over
// currently active customers only, not over the renewal ledger.
type ServerProfit struct {
	ServerID       uint    `json:"server_id"`
	ServerName     string  `json:"server_name"`
	TotalGenerated float64 `json:"total_generated"`
	TotalPaid      float64 `json:"total_paid"`
	Profit         float64 `json:"profit"`
}

// ExpiringCustomer is one entry of the reminder queue.
type ExpiringCustomer struct {
	Customer     Customer `json:"customer"`
	DaysUntilDue int      `json:"days_until_due"`
	InvalidDate  bool     `json:"invalid_date"`
}

// MonthlyReport is the gross/cost/net rollup for one calendar month.
type MonthlyReport struct {
	Year  int     `json:"year"`
	Month int     `json:"month"`
	Gross float64 `json:"gross"`
	Cost  float64 `json:"cost"`
	Net   float64 `json:"net"`
}

// Backup is the portable export format. Restore accepts a superset of this
// shape and applies each array independently if present.
type Backup struct {
	Customers       []Customer       `json:"customers"`
	Servers         []Server         `json:"servers"`
	Plans           []Plan           `json:"plans"`
	Renewals        []Renewal        `json:"renewals"`
	ManualAdditions []ManualAddition `json:"manualAdditions"`
	Version         string           `json:"version"`
	ExportDate      time.Time        `json:"exportDate"`
}
