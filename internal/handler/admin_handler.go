package handler

import (
	"errors"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/ngopidibandung/cafe-map-backend/internal/auth"
	"github.com/ngopidibandung/cafe-map-backend/internal/service"
	"github.com/ngopidibandung/cafe-map-backend/pkg/response"
)

// AdminHandler handles login and dataset maintenance
type AdminHandler struct {
	auth        *auth.Authenticator
	cafeService *service.CafeService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(a *auth.Authenticator, cafeService *service.CafeService) *AdminHandler {
	return &AdminHandler{auth: a, cafeService: cafeService}
}

// LoginRequest is the body of POST /api/v1/auth/login
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /api/v1/auth/login
func (h *AdminHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "username and password are required")
		return
	}

	token, expires, err := h.auth.Login(req.Username, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		response.Unauthorized(c, "Invalid username or password")
		return
	}
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, gin.H{
		"token":     token,
		"expiresAt": expires,
	})
}

// Reload handles POST /api/v1/admin/reload
func (h *AdminHandler) Reload(c *gin.Context) {
	if err := h.cafeService.Reload(c.Request.Context()); err != nil {
		log.Printf("[AdminHandler] Reload failed: %v", err)
		response.InternalError(c, "Failed to reload cafe dataset")
		return
	}

	log.Printf("[AdminHandler] Dataset reloaded by %s", c.GetString("username"))
	response.Success(c, gin.H{"count": len(h.cafeService.Snapshot())})
}
