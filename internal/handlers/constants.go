package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"revenda/internal/service"
)

// Common error messages used across handlers
const (
	ErrInvalidID          = "Invalid ID"
	ErrCustomerNotFound   = "Customer not found"
	ErrServerNotFound     = "Server not found"
	ErrPlanNotFound       = "Plan not found"
	ErrNoFileUploaded     = "No file uploaded"
	ErrFailedReadFile     = "Failed to read file"
	ErrInvalidRequestBody = "Invalid request body"
	ErrInternalServer     = "Internal server error"
)

// APIErrorResponse is the standard error format for all API endpoints.
type APIErrorResponse struct {
	Error string `json:"error"`
}

// apiError sends a standardized JSON error response for API endpoints.
func apiError(c *gin.Context, status int, message string) {
	c.JSON(status, APIErrorResponse{Error: message})
}

// apiBadRequest sends a 400 Bad Request error.
func apiBadRequest(c *gin.Context, message string) {
	apiError(c, http.StatusBadRequest, message)
}

// apiNotFound sends a 404 Not Found error.
func apiNotFound(c *gin.Context, message string) {
	apiError(c, http.StatusNotFound, message)
}

// apiInternalError sends a 500 Internal Server Error.
func apiInternalError(c *gin.Context, message string) {
	apiError(c, http.StatusInternalServerError, message)
}

// parseIDParam extracts a positive numeric :id path parameter.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		apiBadRequest(c, ErrInvalidID)
		return 0, false
	}
	return uint(id), true
}

// parseQueryID parses a numeric query-string id.
func parseQueryID(c *gin.Context, raw string) (uint, bool) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		apiBadRequest(c, ErrInvalidID)
		return 0, false
	}
	return uint(id), true
}

// parseMoney parses an operator-entered money field. Money travels as text so
// the dashboard can send "R$ 35,00" or "35.00" alike; an empty field is zero.
func parseMoney(raw string) (float64, error) {
	if raw == "" {
		return 0, nil
	}
	return service.ParseAmount(raw)
}
