// Package api - user management endpoints
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aethra/compliancepro/internal/auth"
	apierrors "github.com/aethra/compliancepro/internal/errors"
	"github.com/aethra/compliancepro/internal/models"
)

// CreateUserRequest represents admin-driven user creation
type CreateUserRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Name        string `json:"name" binding:"required"`
	Password    string `json:"password" binding:"required"`
	Role        string `json:"role" binding:"required"`
	Phone       string `json:"phone"`
	Designation string `json:"designation"`
	CompanyID   *uint  `json:"company_id"`
}

// ListUsers lists users visible to the caller
// GET /api/users
func (h *Handler) ListUsers(c *gin.Context) {
	user := currentUser(c)

	var users []models.User
	switch auth.ListScope(auth.RoleFromString(user.Role), auth.ResourceUsers) {
	case auth.ScopeAll:
		if err := h.db.Find(&users).Error; err != nil {
			respondError(c, apierrors.NewInternalError(err))
			return
		}
	case auth.ScopeCompany:
		if err := h.db.Where("company_id = ?", companyIDOrZero(user)).Find(&users).Error; err != nil {
			respondError(c, apierrors.NewInternalError(err))
			return
		}
	default:
		respondError(c, apierrors.NewForbiddenError())
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}

// CreateUser creates a user. Client admins are clamped to their own company
// regardless of the company id they supply.
// POST /api/users
func (h *Handler) CreateUser(c *gin.Context) {
	user := currentUser(c)
	role := auth.RoleFromString(user.Role)

	if !auth.CanCreate(role, auth.ResourceUsers) {
		respondError(c, apierrors.NewForbiddenError())
		return
	}

	var req CreateUserRequest
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

	created := models.User{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
		Phone:        req.Phone,
		Designation:  req.Designation,
		CompanyID:    clampCompany(user, req.CompanyID),
		Role:         req.Role,
		IsActive:     true,
	}

	if err := h.db.Create(&created).Error; err != nil {
		if isUniqueViolation(err) {
			respondError(c, apierrors.NewConflictError("User"))
			return
		}
		respondError(c, apierrors.NewInternalError(err))
		return
	}

	h.audit(c, user, "create_user", "user", created.ID, models.JSONB{"email": created.Email})

	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully!",
		"user":    created,
	})
}
