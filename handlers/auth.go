package handlers

import (
	"net/http"

	"directory101/models"
	userSvc "directory101/services/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserHandler serves account registration and session endpoints.
type UserHandler struct {
	Service userSvc.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc userSvc.UserService) *UserHandler {
	return &UserHandler{Service: svc}
}

// RegisterUserHandler creates a new account.
func (h *UserHandler) RegisterUserHandler(c *gin.Context) {
	logger := getLogger(c)
	var u models.User
	if err := c.ShouldBindJSON(&u); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	// Public registration never grants moderation rights.
	u.Role = models.RoleUser

	created, err := h.Service.Register(c.Request.Context(), u)
	if err != nil {
		logger.Error("User registration failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, created)
}

// AuthenticateUserHandler verifies credentials and returns a session token.
func (h *UserHandler) AuthenticateUserHandler(c *gin.Context) {
	logger := getLogger(c)
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	u, err := h.Service.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		logger.Warn("Authentication failed", zap.String("email", req.Email))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}
	c.JSON(http.StatusOK, u)
}

// GetCurrentUserHandler returns the authenticated account.
func (h *UserHandler) GetCurrentUserHandler(c *gin.Context) {
	userID := c.GetString("userID")
	u, err := h.Service.GetByID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, u)
}

// RevokeTokenHandler invalidates the caller's session token.
func (h *UserHandler) RevokeTokenHandler(c *gin.Context) {
	userID := c.GetString("userID")
	if err := h.Service.RevokeToken(c.Request.Context(), userID); err != nil {
		getLogger(c).Error("Token revocation failed", zap.String("user", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to revoke token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Token revoked"})
}
