package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"revenda/internal/models"
	"revenda/internal/repository"
)

func setupServiceTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// Migrate the schema
	err = db.AutoMigrate(
		&models.Server{},
		&models.Plan{},
		&models.Customer{},
		&models.Renewal{},
		&models.ManualAddition{},
		&models.Setting{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

type testEnv struct {
	db        *gorm.DB
	customers *repository.CustomerRepository
	servers   *repository.ServerRepository
	plans     *repository.PlanRepository
	renewals  *repository.RenewalRepository
	additions *repository.ManualAdditionRepository
	renewal   *RenewalService
}

func newTestEnv(t *testing.T) *testEnv {
	db := setupServiceTestDB(t)
	env := &testEnv{
		db:        db,
		customers: repository.NewCustomerRepository(db),
		servers:   repository.NewServerRepository(db),
		plans:     repository.NewPlanRepository(db),
		renewals:  repository.NewRenewalRepository(db),
		additions: repository.NewManualAdditionRepository(db),
	}
	env.renewal = NewRenewalService(env.customers, env.servers, env.plans, env.renewals, env.additions)
	return env
}

func fixedClock(year int, month time.Month, day int) func() time.Time {
	return func() time.Time {
		return time.Date(year, month, day, 12, 0, 0, 0, time.Local)
	}
}

func TestRecordNewCustomerCreatesFoundingRenewal(t *testing.T) {
	env := newTestEnv(t)

	server, err := env.servers.Create(&models.Server{Name: "Alpha", CostPerActive: 5})
	assert.NoError(t, err)
	plan, err := env.plans.Create(&models.Plan{Name: "Trimestral", Months: 3, DefaultPrice: 90})
	assert.NoError(t, err)

	customer, err := env.renewal.RecordNewCustomer(NewCustomerInput{
		Name:       "Ana",
		Phone:      "(11) 98765-4321",
		ServerID:   server.ID,
		PlanID:     plan.ID,
		AmountPaid: 90,
		DueDate:    "2024-09-10",
	})
	assert.NoError(t, err)
	assert.NotZero(t, customer.ID)

	renewals, err := env.renewals.GetByCustomer(customer.ID)
	assert.NoError(t, err)
	assert.Len(t, renewals, 1, "signup must append exactly one founding renewal")

	founding := renewals[0]
	assert.Equal(t, 90.0, founding.Amount)
	assert.Equal(t, server.ID, founding.ServerID)
	assert.Equal(t, plan.ID, founding.PlanID)
	assert.Equal(t, 15.0, founding.Cost, "cost is cost-per-active times plan months")
}

func TestRecordNewCustomerValidation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name    string
		input   NewCustomerInput
		wantErr error
	}{
		{
			name:    "blank name",
			input:   NewCustomerInput{Name: "   ", DueDate: "2024-09-10"},
			wantErr: ErrNameRequired,
		},
		{
			name:    "missing due date",
			input:   NewCustomerInput{Name: "Ana", DueDate: ""},
			wantErr: ErrInvalidDueDate,
		},
		{
			name:    "malformed due date",
			input:   NewCustomerInput{Name: "Ana", DueDate: "10/09/2024"},
			wantErr: ErrInvalidDueDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.renewal.RecordNewCustomer(tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	assert.Equal(t, int64(0), env.customers.Count(), "validation failures must not write")
}

func TestRecordNewCustomerWithDanglingReferences(t *testing.T) {
	env := newTestEnv(t)

	customer, err := env.renewal.RecordNewCustomer(NewCustomerInput{
		Name:       "Bruno",
		ServerID:   999,
		PlanID:     999,
		AmountPaid: 25,
		DueDate:    "2024-09-10",
	})
	assert.NoError(t, err)

	renewals, err := env.renewals.GetByCustomer(customer.ID)
	assert.NoError(t, err)
	assert.Len(t, renewals, 1)
	assert.Equal(t, 0.0, renewals[0].Cost, "missing server degrades to zero cost")
}

func TestRenewActiveExtendsFromDueDate(t *testing.T) {
	env := newTestEnv(t)
	env.renewal.SetClock(fixedClock(2024, time.May, 10))

	server, _ := env.servers.Create(&models.Server{Name: "Alpha", CostPerActive: 4})
	plan, _ := env.plans.Create(&models.Plan{Name: "Mensal", Months: 1})
	customer, err := env.renewal.RecordNewCustomer(NewCustomerInput{
		Name:       "Carla",
		ServerID:   server.ID,
		PlanID:     plan.ID,
		AmountPaid: 30,
		DueDate:    "2024-05-20",
	})
	assert.NoError(t, err)

	err = env.renewal.Renew(customer.ID, server.ID, plan.ID, 35)
	assert.NoError(t, err)

	updated, err := env.customers.GetByID(customer.ID)
	assert.NoError(t, err)
	assert.Equal(t, "2024-06-20", updated.DueDate, "active customers extend from the current due date")
	assert.Equal(t, 35.0, updated.AmountPaid)

	renewals, _ := env.renewals.GetByCustomer(customer.ID)
	assert.Len(t, renewals, 2, "founding renewal plus the new one")
}

func TestRenewExpiredExtendsFromToday(t *testing.T) {
	env := newTestEnv(t)
	env.renewal.SetClock(fixedClock(2024, time.March, 15))

	plan, _ := env.plans.Create(&models.Plan{Name: "Mensal", Months: 1})
	customer, err := env.renewal.RecordNewCustomer(NewCustomerInput{
		Name:    "Diego",
		PlanID:  plan.ID,
		DueDate: "2024-01-01",
	})
	assert.NoError(t, err)

	err = env.renewal.Renew(customer.ID, 0, plan.ID, 30)
	assert.NoError(t, err)

	updated, _ := env.customers.GetByID(customer.ID)
	assert.Equal(t, "2024-04-15", updated.DueDate, "lapsed customers get no free time")
}

func TestRenewSnapshotsServerAndPlan(t *testing.T) {
	env := newTestEnv(t)
	env.renewal.SetClock(fixedClock(2024, time.May, 10))

	oldServer, _ := env.servers.Create(&models.Server{Name: "Alpha", CostPerActive: 4})
	newServer, _ := env.servers.Create(&models.Server{Name: "Beta", CostPerActive: 6})
	plan, _ := env.plans.Create(&models.Plan{Name: "Mensal", Months: 1})

	customer, _ := env.renewal.RecordNewCustomer(NewCustomerInput{
		Name:       "Elisa",
		ServerID:   oldServer.ID,
		PlanID:     plan.ID,
		AmountPaid: 30,
		DueDate:    "2024-05-20",
	})

	// Renew onto a different server
	err := env.renewal.Renew(customer.ID, newServer.ID, plan.ID, 40)
	assert.NoError(t, err)

	renewals, _ := env.renewals.GetByCustomer(customer.ID)
	assert.Len(t, renewals, 2)
	assert.Equal(t, oldServer.ID, renewals[0].ServerID, "founding entry keeps the original server")
	assert.Equal(t, newServer.ID, renewals[1].ServerID)
	assert.Equal(t, 6.0, renewals[1].Cost)

	updated, _ := env.customers.GetByID(customer.ID)
	assert.Equal(t, newServer.ID, updated.ServerID)
}

func TestRenewMissingCustomerIsNoOp(t *testing.T) {
	env := newTestEnv(t)
	plan, _ := env.plans.Create(&models.Plan{Name: "Mensal", Months: 1})

	err := env.renewal.Renew(12345, 0, plan.ID, 30)
	assert.NoError(t, err)

	renewals, _ := env.renewals.GetAll()
	assert.Empty(t, renewals)
}

func TestRenewMissingPlanIsNoOp(t *testing.T) {
	env := newTestEnv(t)

	customer, _ := env.renewal.RecordNewCustomer(NewCustomerInput{
		Name:    "Fábio",
		DueDate: "2024-05-20",
	})

	err := env.renewal.Renew(customer.ID, 0, 12345, 30)
	assert.NoError(t, err)

	updated, _ := env.customers.GetByID(customer.ID)
	assert.Equal(t, "2024-05-20", updated.DueDate, "missing plan leaves the customer untouched")

	renewals, _ := env.renewals.GetByCustomer(customer.ID)
	assert.Len(t, renewals, 1, "only the founding renewal exists")
}

func TestAddManualEntrySign(t *testing.T) {
	env := newTestEnv(t)

	credit, err := env.renewal.AddManualEntry(50, "indicação", false)
	assert.NoError(t, err)
	assert.Equal(t, 50.0, credit.Amount)

	debit, err := env.renewal.AddManualEntry(20, "painel extra", true)
	assert.NoError(t, err)
	assert.Equal(t, -20.0, debit.Amount)

	// The toggle decides the sign even when the operator types a negative
	flipped, err := env.renewal.AddManualEntry(-15, "ajuste", true)
	assert.NoError(t, err)
	assert.Equal(t, -15.0, flipped.Amount)
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input   string
		want    float64
		wantErr bool
	}{
		{"35,50", 35.5, false},
		{"35.50", 35.5, false},
		{"R$ 35,00", 35, false},
		{"R$35", 35, false},
		{"  1200,99  ", 1200.99, false},
		{"0", 0, false},
		{"", 0, true},
		{"abc", 0, true},
		{"R$", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidAmount)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
