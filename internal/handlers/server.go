package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"revenda/internal/models"
	"revenda/internal/repository"
	"revenda/internal/service"
)

// ServerHandler serves the upstream provider CRUD and the two per-server
// money views (ledger rollup and current-snapshot profit).
type ServerHandler struct {
	servers     *repository.ServerRepository
	aggregation *service.AggregationService
}

func NewServerHandler(servers *repository.ServerRepository, aggregation *service.AggregationService) *ServerHandler {
	return &ServerHandler{servers: servers, aggregation: aggregation}
}

type serverRequest struct {
	Name          string `json:"name"`
	CostPerActive string `json:"cost_per_active"`
}

func (h *ServerHandler) List(c *gin.Context) {
	servers, err := h.servers.GetAll()
	if err != nil {
		apiInternalError(c, ErrInternalServer)
		return
	}
	c.JSON(http.StatusOK, servers)
}

func (h *ServerHandler) Create(c *gin.Context) {
	var req serverRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		apiBadRequest(c, ErrInvalidRequestBody)
		return
	}
	cost, err := parseMoney(req.CostPerActive)
	if err != nil {
		apiBadRequest(c, "Invalid cost")
		return
	}

	server, err := h.servers.Create(&models.Server{Name: req.Name, CostPerActive: cost})
	if err != nil {
		apiInternalError(c, ErrInternalServer)
		return
	}
	c.JSON(http.StatusCreated, server)
}

func (h *ServerHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	server, err := h.servers.GetByID(id)
	if err != nil {
		apiNotFound(c, ErrServerNotFound)
		return
	}

	var req serverRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		apiBadRequest(c, ErrInvalidRequestBody)
		return
	}
	cost, err := parseMoney(req.CostPerActive)
	if err != nil {
		apiBadRequest(c, "Invalid cost")
		return
	}

	server.Name = req.Name
	server.CostPerActive = cost
	updated, err := h.servers.Update(id, server)
	if err != nil {
		apiInternalError(c, ErrInternalServer)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Delete removes a server. Customers keep their server_id as a dangling
// reference and cost lookups degrade to zero.
func (h *ServerHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.servers.Delete(id); err != nil {
		apiInternalError(c, ErrInternalServer)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

// Stats returns the all-time ledger rollup per server.
func (h *ServerHandler) Stats(c *gin.Context) {
	stats, err := h.aggregation.ServerStats()
	if err != nil {
		apiInternalError(c, ErrInternalServer)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Profits returns the current-snapshot profit per server.
func (h *ServerHandler) Profits(c *gin.Context) {
	profits, err := h.aggregation.ServerProfits()
	if err != nil {
		apiInternalError(c, ErrInternalServer)
		return
	}
	c.JSON(http.StatusOK, profits)
}
