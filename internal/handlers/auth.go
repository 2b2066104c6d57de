package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"revenda/internal/service"
)

// AuthHandler serves operator login, logout and credential setup.
type AuthHandler struct {
	auth     *service.AuthService
	sessions *service.SessionService
}

func NewAuthHandler(auth *service.AuthService, sessions *service.SessionService) *AuthHandler {
	return &AuthHandler{auth: auth, sessions: sessions}
}

// Status reports whether auth is enabled and whether the caller is logged in.
func (h *AuthHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"enabled":       h.auth.IsAuthEnabled(),
		"authenticated": !h.auth.IsAuthEnabled() || h.sessions.IsAuthenticated(c.Request),
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	if !h.auth.IsAuthEnabled() {
		apiBadRequest(c, tr(c, "auth_not_configured", "Authentication is not enabled"))
		return
	}

	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiBadRequest(c, ErrInvalidRequestBody)
		return
	}

	username, err := h.auth.GetAuthUsername()
	if err != nil || username != req.Username {
		apiError(c, http.StatusUnauthorized, tr(c, "login_invalid_credentials", "Invalid username or password"))
		return
	}
	if err := h.auth.ValidatePassword(req.Password); err != nil {
		apiError(c, http.StatusUnauthorized, tr(c, "login_invalid_credentials", "Invalid username or password"))
		return
	}

	if err := h.sessions.CreateSession(c.Writer, c.Request); err != nil {
		apiInternalError(c, ErrInternalServer)
		return
	}
	c.JSON(http.StatusOK, gin.H{"authenticated": true})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.sessions.DestroySession(c.Writer, c.Request); err != nil {
		apiInternalError(c, ErrInternalServer)
		return
	}
	c.JSON(http.StatusOK, gin.H{"authenticated": false})
}

type setupRequest struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// Setup enables authentication with the given credentials. Once enabled,
// changing credentials requires an authenticated session.
func (h *AuthHandler) Setup(c *gin.Context) {
	var req setupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiBadRequest(c, ErrInvalidRequestBody)
		return
	}
	if req.Username == "" || req.Password == "" {
		apiBadRequest(c, "Username and password are required")
		return
	}
	if req.Password != req.ConfirmPassword {
		apiBadRequest(c, "Passwords do not match")
		return
	}

	if err := h.auth.SetupAuth(req.Username, req.Password); err != nil {
		apiInternalError(c, ErrInternalServer)
		return
	}
	c.JSON(http.StatusOK, gin.H{"enabled": true})
}

// Disable turns authentication off, keeping stored credentials.
func (h *AuthHandler) Disable(c *gin.Context) {
	if err := h.auth.DisableAuth(); err != nil {
		apiInternalError(c, ErrInternalServer)
		return
	}
	c.JSON(http.StatusOK, gin.H{"enabled": false})
}
