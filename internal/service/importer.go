package service

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"revenda/internal/lifecycle"
	"revenda/internal/models"
	"revenda/internal/repository"
)

// ImportResult summarizes a spreadsheet import run.
type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Details  []string `json:"details"`
}

// headerAliases maps each canonical column to the case-insensitive header
// substrings that select it. Exported spreadsheets vary wildly ("Telefone",
// "Celular", "WhatsApp" all mean phone), so matching is by containment.
var headerAliases = map[string][]string{
	"name":   {"nome", "cliente", "name"},
	"phone":  {"telefone", "celular", "whatsapp", "fone", "phone"},
	"server": {"servidor", "server"},
	"plan":   {"plano", "plan"},
	"amount": {"valor", "preço", "preco", "amount", "price"},
	"due":    {"vencimento", "venc", "due"},
}

// ImporterService turns tabular customer rows into customers with founding
// renewals, mirroring the signup path: every successfully parsed row also
// appends one renewal ledger entry.
type ImporterService struct {
	servers *repository.ServerRepository
	plans   *repository.PlanRepository
	renewal *RenewalService
}

func NewImporterService(servers *repository.ServerRepository, plans *repository.PlanRepository, renewal *RenewalService) *ImporterService {
	return &ImporterService{servers: servers, plans: plans, renewal: renewal}
}

// ImportCSV reads a customer spreadsheet exported as CSV. Rows missing a
// name are silently skipped; other malformed rows are skipped individually
// with a detail line, and the import continues.
func (s *ImporterService) ImportCSV(data []byte) (ImportResult, error) {
	result := ImportResult{}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = sniffDelimiter(data)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return result, fmt.Errorf("failed to parse file: %w", err)
	}
	if len(records) < 2 {
		result.Details = append(result.Details, "No data rows found in file")
		return result, nil
	}

	columns := mapHeaders(records[0])
	if _, ok := columns["name"]; !ok {
		return result, fmt.Errorf("no name column recognized in header")
	}

	for i, row := range records[1:] {
		cell := func(field string) string {
			idx, ok := columns[field]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}

		name := cell("name")
		if name == "" {
			result.Skipped++
			continue
		}

		amount := 0.0
		if amountText := cell("amount"); amountText != "" {
			parsed, err := ParseAmount(amountText)
			if err != nil {
				result.Skipped++
				result.Details = append(result.Details, fmt.Sprintf("Row %d (%s): unparsable amount %q", i+2, name, amountText))
				continue
			}
			amount = parsed
		}

		dueDate, ok := parseFlexibleDate(cell("due"))
		if !ok {
			result.Skipped++
			result.Details = append(result.Details, fmt.Sprintf("Row %d (%s): unparsable due date %q", i+2, name, cell("due")))
			continue
		}

		serverID := s.getOrCreateServer(cell("server"))
		planID := s.getOrCreatePlan(cell("plan"), amount)

		_, err := s.renewal.RecordNewCustomer(NewCustomerInput{
			Name:       name,
			Phone:      cell("phone"),
			ServerID:   serverID,
			PlanID:     planID,
			AmountPaid: amount,
			DueDate:    lifecycle.FormatCalendarDate(dueDate),
		})
		if err != nil {
			result.Skipped++
			result.Details = append(result.Details, fmt.Sprintf("Row %d (%s): %s", i+2, name, err.Error()))
			continue
		}
		result.Imported++
	}

	return result, nil
}

// sniffDelimiter picks semicolon when the header row has semicolons but no
// commas; pt-BR spreadsheet exports commonly use it.
func sniffDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	if bytes.ContainsRune(line, ';') && !bytes.ContainsRune(line, ',') {
		return ';'
	}
	return ','
}

func mapHeaders(header []string) map[string]int {
	columns := make(map[string]int)
	for i, cell := range header {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for field, aliases := range headerAliases {
			if _, taken := columns[field]; taken {
				continue
			}
			for _, alias := range aliases {
				if strings.Contains(normalized, alias) {
					columns[field] = i
					break
				}
			}
		}
	}
	return columns
}

// excelEpoch is day zero of spreadsheet day-serial numbers (the 1900 date
// system, already adjusted for its leap-year quirk).
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.Local)

// parseFlexibleDate accepts the date shapes found in customer spreadsheets:
// DD/MM/YYYY, ISO YYYY-MM-DD, or a numeric day serial.
func parseFlexibleDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	if t, err := time.ParseInLocation("02/01/2006", s, time.Local); err == nil {
		return t, true
	}
	if t, ok := lifecycle.ParseCalendarDate(s); ok {
		return t, true
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 && serial < 200000 {
		return excelEpoch.AddDate(0, 0, int(serial)), true
	}

	return time.Time{}, false
}

func (s *ImporterService) getOrCreateServer(name string) uint {
	if name == "" {
		return 0
	}

	servers, err := s.servers.GetAll()
	if err == nil {
		for _, server := range servers {
			if strings.EqualFold(server.Name, name) {
				return server.ID
			}
		}
	}

	created, err := s.servers.Create(&models.Server{Name: name})
	if err != nil {
		return 0
	}
	return created.ID
}

func (s *ImporterService) getOrCreatePlan(name string, defaultPrice float64) uint {
	if name == "" {
		return 0
	}

	plans, err := s.plans.GetAll()
	if err == nil {
		for _, plan := range plans {
			if strings.EqualFold(plan.Name, name) {
				return plan.ID
			}
		}
	}

	created, err := s.plans.Create(&models.Plan{Name: name, Months: 1, DefaultPrice: defaultPrice})
	if err != nil {
		return 0
	}
	return created.ID
}
