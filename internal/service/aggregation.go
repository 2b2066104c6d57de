package service

import (
	"sort"
	"time"

	"revenda/internal/lifecycle"
	"revenda/internal/models"
	"revenda/internal/repository"
)

// AggregationService derives every money/statistics view from the persisted
// collections. All computations are pure functions of the loaded data plus a
// reference "today". Nothing is cached, so identical inputs always produce
// identical outputs.
type AggregationService struct {
	customers *repository.CustomerRepository
	servers   *repository.ServerRepository
	plans     *repository.PlanRepository
	renewals  *repository.RenewalRepository
	additions *repository.ManualAdditionRepository
	now       func() time.Time
}

func NewAggregationService(
	customers *repository.CustomerRepository,
	servers *repository.ServerRepository,
	plans *repository.PlanRepository,
	renewals *repository.RenewalRepository,
	additions *repository.ManualAdditionRepository,
) *AggregationService {
	return &AggregationService{
		customers: customers,
		servers:   servers,
		plans:     plans,
		renewals:  renewals,
		additions: additions,
		now:       time.Now,
	}
}

// SetClock overrides the engine clock. Test hook.
func (s *AggregationService) SetClock(now func() time.Time) {
	s.now = now
}

func (s *AggregationService) Totals() (models.Totals, error) {
	renewals, err := s.renewals.GetAll()
	if err != nil {
		return models.Totals{}, err
	}
	additions, err := s.additions.GetAll()
	if err != nil {
		return models.Totals{}, err
	}
	return ComputeTotals(renewals, additions), nil
}

func (s *AggregationService) ServerStats() ([]models.ServerStats, error) {
	servers, err := s.servers.GetAll()
	if err != nil {
		return nil, err
	}
	customers, err := s.customers.GetAll()
	if err != nil {
		return nil, err
	}
	renewals, err := s.renewals.GetAll()
	if err != nil {
		return nil, err
	}
	return ComputeServerStats(servers, customers, renewals, s.now()), nil
}

func (s *AggregationService) ServerProfits() ([]models.ServerProfit, error) {
	servers, err := s.servers.GetAll()
	if err != nil {
		return nil, err
	}
	customers, err := s.customers.GetAll()
	if err != nil {
		return nil, err
	}
	plans, err := s.plans.GetAll()
	if err != nil {
		return nil, err
	}
	return ComputeServerProfits(servers, customers, plans, s.now()), nil
}

func (s *AggregationService) ExpiringQueue() ([]models.ExpiringCustomer, error) {
	customers, err := s.customers.GetAll()
	if err != nil {
		return nil, err
	}
	return BuildExpiringQueue(customers, s.now()), nil
}

func (s *AggregationService) PendingNotifications() ([]models.ExpiringCustomer, error) {
	customers, err := s.customers.GetAll()
	if err != nil {
		return nil, err
	}
	return FilterPendingNotifications(customers, s.now()), nil
}

func (s *AggregationService) MonthlyReport(year, month int) (models.MonthlyReport, error) {
	renewals, err := s.renewals.GetAll()
	if err != nil {
		return models.MonthlyReport{}, err
	}
	additions, err := s.additions.GetAll()
	if err != nil {
		return models.MonthlyReport{}, err
	}
	return ComputeMonthlyReport(renewals, additions, year, month), nil
}

// ComputeTotals sums the whole renewal ledger plus signed manual additions.
// Customer.AmountPaid never participates here: it only reflects the current
// period, not history.
func ComputeTotals(renewals []models.Renewal, additions []models.ManualAddition) models.Totals {
	var totals models.Totals
	for _, renewal := range renewals {
		totals.GrossValue += renewal.Amount
		totals.TotalCost += renewal.Cost
	}
	for _, addition := range additions {
		totals.TotalManual += addition.Amount
	}
	totals.NetValue = totals.GrossValue - totals.TotalCost + totals.TotalManual
	return totals
}

// ComputeServerStats builds the all-time ledger rollup per server. The
// accumulated figures come from renewal snapshots (which server was charged
// at the time), while the active count reflects the customers assigned to
// the server right now. Servers with no activity still appear with zeros.
func ComputeServerStats(servers []models.Server, customers []models.Customer, renewals []models.Renewal, today time.Time) []models.ServerStats {
	stats := make([]models.ServerStats, len(servers))
	index := make(map[uint]*models.ServerStats, len(servers))
	for i, server := range servers {
		stats[i] = models.ServerStats{ServerID: server.ID, ServerName: server.Name}
		index[server.ID] = &stats[i]
	}

	for _, renewal := range renewals {
		entry, ok := index[renewal.ServerID]
		if !ok {
			// Renewal references a deleted server; its money stays in the
			// global totals but has no per-server row to land on.
			continue
		}
		entry.AccumulatedTotal += renewal.Amount
		entry.MonthlyCost += renewal.Cost
	}

	for _, customer := range customers {
		entry, ok := index[customer.ServerID]
		if !ok {
			continue
		}
		if due, valid := lifecycle.ParseCalendarDate(customer.DueDate); valid && lifecycle.IsActive(due, today) {
			entry.ActiveCustomers++
		}
	}

	return stats
}

// ComputeServerProfits builds the current-snapshot profit view: per server,
// what the active customers pay now versus what the server charges for them
// now. This intentionally answers a different question than the ledger-based
// ComputeServerStats and the two must not be unified.
func ComputeServerProfits(servers []models.Server, customers []models.Customer, plans []models.Plan, today time.Time) []models.ServerProfit {
	planMonths := make(map[uint]int, len(plans))
	for _, plan := range plans {
		planMonths[plan.ID] = plan.Months
	}

	profits := make([]models.ServerProfit, len(servers))
	for i, server := range servers {
		profit := models.ServerProfit{ServerID: server.ID, ServerName: server.Name}

		for _, customer := range customers {
			if customer.ServerID != server.ID {
				continue
			}
			due, valid := lifecycle.ParseCalendarDate(customer.DueDate)
			if !valid || !lifecycle.IsActive(due, today) {
				continue
			}

			months, ok := planMonths[customer.PlanID]
			if !ok || months < 1 {
				months = 1
			}
			profit.TotalGenerated += customer.AmountPaid
			profit.TotalPaid += server.CostPerActive * float64(months)
		}

		profit.Profit = profit.TotalGenerated - profit.TotalPaid
		profits[i] = profit
	}

	return profits
}

// BuildExpiringQueue lists customers inside the ±7 day reminder band sorted
// by due date ascending. Customers with unparsable due dates sort last and
// are flagged instead of being dropped, so the operator can fix them.
func BuildExpiringQueue(customers []models.Customer, today time.Time) []models.ExpiringCustomer {
	var queue []models.ExpiringCustomer
	for _, customer := range customers {
		due, valid := lifecycle.ParseCalendarDate(customer.DueDate)
		if !valid {
			queue = append(queue, models.ExpiringCustomer{Customer: customer, InvalidDate: true})
			continue
		}
		days := lifecycle.DaysUntilDue(due, today)
		if lifecycle.IsExpiringWindow(days) {
			queue = append(queue, models.ExpiringCustomer{Customer: customer, DaysUntilDue: days})
		}
	}

	sort.SliceStable(queue, func(i, j int) bool {
		if queue[i].InvalidDate != queue[j].InvalidDate {
			return !queue[i].InvalidDate
		}
		if queue[i].InvalidDate {
			return false
		}
		return queue[i].DaysUntilDue < queue[j].DaysUntilDue
	})

	return queue
}

// FilterPendingNotifications returns the customers at exactly the reminder
// threshold that have not been notified today. The comparison with
// LastNotifiedDate is a calendar-date string comparison.
func FilterPendingNotifications(customers []models.Customer, today time.Time) []models.ExpiringCustomer {
	todayStr := lifecycle.FormatCalendarDate(today)

	var pending []models.ExpiringCustomer
	for _, customer := range customers {
		due, valid := lifecycle.ParseCalendarDate(customer.DueDate)
		if !valid {
			continue
		}
		days := lifecycle.DaysUntilDue(due, today)
		if lifecycle.IsNotifyThreshold(days) && customer.LastNotifiedDate != todayStr {
			pending = append(pending, models.ExpiringCustomer{Customer: customer, DaysUntilDue: days})
		}
	}
	return pending
}

// ComputeMonthlyReport filters the ledgers to one calendar month (inclusive
// of the whole last day) and splits manual additions by sign: positive ones
// add to gross, negative ones add their magnitude to cost.
func ComputeMonthlyReport(renewals []models.Renewal, additions []models.ManualAddition, year, month int) models.MonthlyReport {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
	end := start.AddDate(0, 1, 0)
	inMonth := func(t time.Time) bool {
		return !t.Before(start) && t.Before(end)
	}

	report := models.MonthlyReport{Year: year, Month: month}
	for _, renewal := range renewals {
		if !inMonth(renewal.Date) {
			continue
		}
		report.Gross += renewal.Amount
		report.Cost += renewal.Cost
	}
	for _, addition := range additions {
		if !inMonth(addition.Date) {
			continue
		}
		if addition.Amount >= 0 {
			report.Gross += addition.Amount
		} else {
			report.Cost += -addition.Amount
		}
	}

	report.Net = report.Gross - report.Cost
	return report
}
