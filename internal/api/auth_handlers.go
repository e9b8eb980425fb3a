// Package api - authentication endpoints
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aethra/compliancepro/internal/auth"
	apierrors "github.com/aethra/compliancepro/internal/errors"
	"github.com/aethra/compliancepro/internal/models"
)

// RegisterRequest represents self-registration data
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register creates a new client_admin account and returns a token
// POST /api/auth/register
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	var count int64
	h.db.Model(&models.User{}).Where("email = ?", req.Email).Count(&count)
	if count > 0 {
		respondError(c, apierrors.NewConflictError("User"))
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondError(c, apierrors.NewInternalError(err))
		return
	}

	// Self-registration always yields a client admin
	user := models.User{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
		Role:         string(auth.RoleClientAdmin),
		IsActive:     true,
	}

	if err := h.db.Create(&user).Error; err != nil {
		if isUniqueViolation(err) {
			respondError(c, apierrors.NewConflictError("User"))
			return
		}
		respondError(c, apierrors.NewInternalError(err))
		return
	}

	token, err := h.tokens.Issue(user.ID, user.Role)
	if err != nil {
		respondError(c, apierrors.NewInternalError(err))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully!",
		"token":   token,
		"user":    user,
	})
}

// Login authenticates a user and returns a token. Unknown email and wrong
// password produce the identical response so users cannot be enumerated.
// POST /api/auth/login
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	var user models.User
	if err := h.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		respondError(c, apierrors.NewInvalidCredentialsError())
		return
	}

	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		respondError(c, apierrors.NewInvalidCredentialsError())
		return
	}

	if !user.IsActive {
		respondError(c, apierrors.NewInactiveUserError())
		return
	}

	now := time.Now()
	h.db.Model(&user).Update("last_login", now)

	token, err := h.tokens.Issue(user.ID, user.Role)
	if err != nil {
		respondError(c, apierrors.NewInternalError(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful!",
		"token":   token,
		"user":    h.userProjection(user),
	})
}

// Me returns the authenticated user
// GET /api/auth/me
func (h *Handler) Me(c *gin.Context) {
	user := currentUser(c)
	c.JSON(http.StatusOK, gin.H{"user": h.userProjection(user)})
}

// ChangePassword updates the caller's password after verifying the current one
// POST /api/auth/change-password
func (h *Handler) ChangePassword(c *gin.Context) {
	user := currentUser(c)

	var req struct {
		CurrentPassword string `json:"current_password" binding:"required"`
		NewPassword     string `json:"new_password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	if !auth.CheckPassword(req.CurrentPassword, user.PasswordHash) {
		respondError(c, apierrors.NewInvalidCredentialsError())
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		respondError(c, apierrors.NewInternalError(err))
		return
	}

	if err := h.db.Model(&user).Update("password", hash).Error; err != nil {
		respondError(c, apierrors.NewInternalError(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully!"})
}

// userProjection builds the compact user payload used by login and me. The
// company is embedded by lookup, not by a materialized relation.
func (h *Handler) userProjection(user models.User) gin.H {
	data := gin.H{
		"id":    user.ID,
		"email": user.Email,
		"name":  user.Name,
		"role":  user.Role,
	}

	if user.CompanyID != nil {
		var company models.Company
		if err := h.db.First(&company, *user.CompanyID).Error; err == nil {
			data["company"] = gin.H{"id": company.ID, "name": company.Name}
		}
	}

	return data
}
