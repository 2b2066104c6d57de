package service

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"revenda/internal/models"
)

func newTestBackup(env *testEnv) *BackupService {
	return NewBackupService(env.db, env.customers, env.servers, env.plans, env.renewals, env.additions)
}

func TestBackupExportRestoreRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	backup := newTestBackup(env)

	server, _ := env.servers.Create(&models.Server{Name: "Alpha", CostPerActive: 5})
	plan, _ := env.plans.Create(&models.Plan{Name: "Mensal", Months: 1})
	customer, err := env.renewal.RecordNewCustomer(NewCustomerInput{
		Name:       "Ana",
		ServerID:   server.ID,
		PlanID:     plan.ID,
		AmountPaid: 35,
		DueDate:    "2024-06-10",
	})
	assert.NoError(t, err)
	_, err = env.renewal.AddManualEntry(50, "indicação", false)
	assert.NoError(t, err)

	exported, err := backup.Export()
	assert.NoError(t, err)
	assert.Equal(t, "2.0", exported.Version)
	assert.Len(t, exported.Customers, 1)
	assert.Len(t, exported.Renewals, 1)
	assert.Len(t, exported.ManualAdditions, 1)

	data, err := json.Marshal(exported)
	assert.NoError(t, err)

	// Wipe and restore into a fresh database
	restoreEnv := newTestEnv(t)
	restoreBackup := newTestBackup(restoreEnv)
	assert.NoError(t, restoreBackup.Restore(data))

	customers, _ := restoreEnv.customers.GetAll()
	assert.Len(t, customers, 1)
	assert.Equal(t, customer.Name, customers[0].Name)
	assert.Equal(t, "2024-06-10", customers[0].DueDate)

	renewals, _ := restoreEnv.renewals.GetAll()
	assert.Len(t, renewals, 1)
	additions, _ := restoreEnv.additions.GetAll()
	assert.Len(t, additions, 1)
}

func TestRestoreAppliesOnlyPresentCollections(t *testing.T) {
	env := newTestEnv(t)
	backup := newTestBackup(env)

	_, err := env.renewal.RecordNewCustomer(NewCustomerInput{Name: "Ana", DueDate: "2024-06-10"})
	assert.NoError(t, err)

	// Only servers present; customers and renewals must survive untouched
	file := `{"servers":[{"id":1,"name":"Alpha","cost_per_active":5}],"extraKey":true}`
	assert.NoError(t, backup.Restore([]byte(file)))

	customers, _ := env.customers.GetAll()
	assert.Len(t, customers, 1)
	servers, _ := env.servers.GetAll()
	assert.Len(t, servers, 1)
	assert.Equal(t, "Alpha", servers[0].Name)
}

func TestRestoreIgnoresNonArrayCollections(t *testing.T) {
	env := newTestEnv(t)
	backup := newTestBackup(env)

	_, err := env.renewal.RecordNewCustomer(NewCustomerInput{Name: "Ana", DueDate: "2024-06-10"})
	assert.NoError(t, err)

	file := `{"customers":"not an array"}`
	assert.NoError(t, backup.Restore([]byte(file)))

	customers, _ := env.customers.GetAll()
	assert.Len(t, customers, 1, "non-array key is skipped, not applied")
}

func TestRestoreMalformedFileWritesNothing(t *testing.T) {
	env := newTestEnv(t)
	backup := newTestBackup(env)

	_, err := env.renewal.RecordNewCustomer(NewCustomerInput{Name: "Ana", DueDate: "2024-06-10"})
	assert.NoError(t, err)

	// customers is a valid array but renewals is broken; nothing may change
	file := `{"customers":[],"renewals":[{"amount":"not a number"}]}`
	assert.Error(t, backup.Restore([]byte(file)))

	customers, _ := env.customers.GetAll()
	assert.Len(t, customers, 1, "validation failure must abort before any write")
}

func TestRestorePlansResynthesizesFreePlan(t *testing.T) {
	env := newTestEnv(t)
	backup := newTestBackup(env)

	file := `{"plans":[{"id":10,"name":"Mensal","months":1}]}`
	assert.NoError(t, backup.Restore([]byte(file)))

	free, err := env.plans.GetByName(models.FreePlanName)
	assert.NoError(t, err)
	assert.Equal(t, 0.0, free.DefaultPrice)

	plans, _ := env.plans.GetAll()
	assert.Len(t, plans, 2)
}
