package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"revenda/internal/database"
	"revenda/internal/models"
	"revenda/internal/repository"
)

const backupVersion = "2.0"

// BackupService builds and restores whole-database JSON backups. Restore is
// all-or-nothing per file: every present collection is validated before any
// write, so a malformed file never leaves the store half-applied.
type BackupService struct {
	db        *gorm.DB
	customers *repository.CustomerRepository
	servers   *repository.ServerRepository
	plans     *repository.PlanRepository
	renewals  *repository.RenewalRepository
	additions *repository.ManualAdditionRepository
}

func NewBackupService(
	db *gorm.DB,
	customers *repository.CustomerRepository,
	servers *repository.ServerRepository,
	plans *repository.PlanRepository,
	renewals *repository.RenewalRepository,
	additions *repository.ManualAdditionRepository,
) *BackupService {
	return &BackupService{
		db:        db,
		customers: customers,
		servers:   servers,
		plans:     plans,
		renewals:  renewals,
		additions: additions,
	}
}

// Export snapshots every collection into the portable backup shape.
func (s *BackupService) Export() (*models.Backup, error) {
	customers, err := s.customers.GetAll()
	if err != nil {
		return nil, err
	}
	servers, err := s.servers.GetAll()
	if err != nil {
		return nil, err
	}
	plans, err := s.plans.GetAll()
	if err != nil {
		return nil, err
	}
	renewals, err := s.renewals.GetAll()
	if err != nil {
		return nil, err
	}
	additions, err := s.additions.GetAll()
	if err != nil {
		return nil, err
	}

	return &models.Backup{
		Customers:       customers,
		Servers:         servers,
		Plans:           plans,
		Renewals:        renewals,
		ManualAdditions: additions,
		Version:         backupVersion,
		ExportDate:      time.Now(),
	}, nil
}

// backupEnvelope keeps each collection raw so a superset file can be
// inspected key by key. Unknown keys are dropped by json unmarshalling.
type backupEnvelope struct {
	Customers       json.RawMessage `json:"customers"`
	Servers         json.RawMessage `json:"servers"`
	Plans           json.RawMessage `json:"plans"`
	Renewals        json.RawMessage `json:"renewals"`
	ManualAdditions json.RawMessage `json:"manualAdditions"`
}

// decodeArray unmarshals a present, array-typed collection into out. A
// missing key or a key of another JSON type is skipped (applied=false); a
// present array that fails to decode is a malformed file.
func decodeArray(raw json.RawMessage, out interface{}) (applied bool, err error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, err
	}
	return true, nil
}

// Restore applies a backup file. Each of the five collections is replaced
// independently when present and array-typed; missing or non-array keys are
// ignored. Any parse failure aborts the whole restore before any write.
func (s *BackupService) Restore(data []byte) error {
	var envelope backupEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return fmt.Errorf("malformed backup file: %w", err)
	}

	var (
		customers []models.Customer
		servers   []models.Server
		plans     []models.Plan
		renewals  []models.Renewal
		additions []models.ManualAddition
	)

	haveCustomers, err := decodeArray(envelope.Customers, &customers)
	if err != nil {
		return fmt.Errorf("malformed backup file: customers: %w", err)
	}
	haveServers, err := decodeArray(envelope.Servers, &servers)
	if err != nil {
		return fmt.Errorf("malformed backup file: servers: %w", err)
	}
	havePlans, err := decodeArray(envelope.Plans, &plans)
	if err != nil {
		return fmt.Errorf("malformed backup file: plans: %w", err)
	}
	haveRenewals, err := decodeArray(envelope.Renewals, &renewals)
	if err != nil {
		return fmt.Errorf("malformed backup file: renewals: %w", err)
	}
	haveAdditions, err := decodeArray(envelope.ManualAdditions, &additions)
	if err != nil {
		return fmt.Errorf("malformed backup file: manualAdditions: %w", err)
	}

	if haveServers {
		if err := s.servers.ReplaceAll(servers); err != nil {
			return err
		}
	}
	if havePlans {
		if err := s.plans.ReplaceAll(plans); err != nil {
			return err
		}
		// The free plan must survive any bulk replace.
		if err := database.EnsureFreePlan(s.db); err != nil {
			return err
		}
	}
	if haveCustomers {
		if err := s.customers.ReplaceAll(customers); err != nil {
			return err
		}
	}
	if haveRenewals {
		if err := s.renewals.ReplaceAll(renewals); err != nil {
			return err
		}
	}
	if haveAdditions {
		if err := s.additions.ReplaceAll(additions); err != nil {
			return err
		}
	}

	return nil
}
