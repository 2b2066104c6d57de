package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"revenda/internal/models"
	"revenda/internal/repository"
)

// PlanHandler serves the subscription tier CRUD. The free plan is protected
// from deletion so expired customers always have a tier to land on.
type PlanHandler struct {
	plans *repository.PlanRepository
}

func NewPlanHandler(plans *repository.PlanRepository) *PlanHandler {
	return &PlanHandler{plans: plans}
}

type planRequest struct {
	Name         string `json:"name"`
	Months       int    `json:"months"`
	DefaultPrice string `json:"default_price"`
}

func (h *PlanHandler) List(c *gin.Context) {
	plans, err := h.plans.GetAll()
	if err != nil {
		apiInternalError(c, ErrInternalServer)
		return
	}
	c.JSON(http.StatusOK, plans)
}

func (h *PlanHandler) Create(c *gin.Context) {
	var req planRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		apiBadRequest(c, ErrInvalidRequestBody)
		return
	}
	if req.Months < 1 {
		req.Months = 1
	}
	price, err := parseMoney(req.DefaultPrice)
	if err != nil {
		apiBadRequest(c, "Invalid price")
		return
	}

	plan, err := h.plans.Create(&models.Plan{Name: req.Name, Months: req.Months, DefaultPrice: price})
	if err != nil {
		apiInternalError(c, ErrInternalServer)
		return
	}
	c.JSON(http.StatusCreated, plan)
}

func (h *PlanHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	plan, err := h.plans.GetByID(id)
	if err != nil {
		apiNotFound(c, ErrPlanNotFound)
		return
	}

	var req planRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		apiBadRequest(c, ErrInvalidRequestBody)
		return
	}
	if req.Months < 1 {
		req.Months = 1
	}
	price, err := parseMoney(req.DefaultPrice)
	if err != nil {
		apiBadRequest(c, "Invalid price")
		return
	}

	plan.Name = req.Name
	plan.Months = req.Months
	plan.DefaultPrice = price
	updated, err := h.plans.Update(id, plan)
	if err != nil {
		apiInternalError(c, ErrInternalServer)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *PlanHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	plan, err := h.plans.GetByID(id)
	if err != nil {
		apiNotFound(c, ErrPlanNotFound)
		return
	}
	if plan.Name == models.FreePlanName {
		apiBadRequest(c, "The free plan cannot be deleted")
		return
	}
	if err := h.plans.Delete(id); err != nil {
		apiInternalError(c, ErrInternalServer)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}
