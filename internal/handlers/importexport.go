package handlers

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"revenda/internal/repository"
	"revenda/internal/service"
)

// ImportExportHandler moves data in and out: CSV spreadsheet import/export
// and whole-database JSON backups.
type ImportExportHandler struct {
	customers *repository.CustomerRepository
	servers   *repository.ServerRepository
	plans     *repository.PlanRepository
	importer  *service.ImporterService
	backup    *service.BackupService
}

func NewImportExportHandler(
	customers *repository.CustomerRepository,
	servers *repository.ServerRepository,
	plans *repository.PlanRepository,
	importer *service.ImporterService,
	backup *service.BackupService,
) *ImportExportHandler {
	return &ImportExportHandler{
		customers: customers,
		servers:   servers,
		plans:     plans,
		importer:  importer,
		backup:    backup,
	}
}

// ImportCSV ingests an uploaded customer spreadsheet. Bad rows are skipped
// individually; the response reports what happened to each.
func (h *ImportExportHandler) ImportCSV(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		apiBadRequest(c, ErrNoFileUploaded)
		return
	}

	opened, err := file.Open()
	if err != nil {
		apiInternalError(c, ErrFailedReadFile)
		return
	}
	defer opened.Close()

	data, err := io.ReadAll(opened)
	if err != nil {
		apiInternalError(c, ErrFailedReadFile)
		return
	}

	result, err := h.importer.ImportCSV(data)
	if err != nil {
		apiBadRequest(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, result)
}

// ExportCSV writes all customers as a spreadsheet with the same pt-BR headers
// the importer recognizes, so an exported file round-trips.
func (h *ImportExportHandler) ExportCSV(c *gin.Context) {
	customers, err := h.customers.GetAll()
	if err != nil {
		apiInternalError(c, ErrInternalServer)
		return
	}

	serverNames := make(map[uint]string)
	if servers, err := h.servers.GetAll(); err == nil {
		for _, server := range servers {
			serverNames[server.ID] = server.Name
		}
	}
	planNames := make(map[uint]string)
	if plans, err := h.plans.GetAll(); err == nil {
		for _, plan := range plans {
			planNames[plan.ID] = plan.Name
		}
	}

	var sb strings.Builder
	writer := csv.NewWriter(&sb)
	writer.Write([]string{"Nome", "Telefone", "Servidor", "Plano", "Valor", "Vencimento"})
	for _, customer := range customers {
		writer.Write([]string{
			customer.Name,
			customer.Phone,
			serverNames[customer.ServerID],
			planNames[customer.PlanID],
			fmt.Sprintf("%.2f", customer.AmountPaid),
			customer.DueDate,
		})
	}
	writer.Flush()

	filename := fmt.Sprintf("clientes-%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(sb.String()))
}

// ExportBackup downloads a full JSON backup.
func (h *ImportExportHandler) ExportBackup(c *gin.Context) {
	backup, err := h.backup.Export()
	if err != nil {
		apiInternalError(c, ErrInternalServer)
		return
	}

	filename := fmt.Sprintf("backup-%s.json", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.JSON(http.StatusOK, backup)
}

// RestoreBackup replaces the present collections with the uploaded file's
// contents. Validation failures abort before any write.
func (h *ImportExportHandler) RestoreBackup(c *gin.Context) {
	var data []byte

	if file, err := c.FormFile("file"); err == nil {
		opened, err := file.Open()
		if err != nil {
			apiInternalError(c, ErrFailedReadFile)
			return
		}
		defer opened.Close()
		data, err = io.ReadAll(opened)
		if err != nil {
			apiInternalError(c, ErrFailedReadFile)
			return
		}
	} else {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil || len(body) == 0 {
			apiBadRequest(c, ErrNoFileUploaded)
			return
		}
		data = body
	}

	if err := h.backup.Restore(data); err != nil {
		apiBadRequest(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"restored": true})
}
