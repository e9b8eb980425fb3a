// Package api - company endpoints
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aethra/compliancepro/internal/auth"
	apierrors "github.com/aethra/compliancepro/internal/errors"
	"github.com/aethra/compliancepro/internal/models"
)

// CreateCompanyRequest represents company creation data
type CreateCompanyRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
}

// ListCompanies lists companies visible to the caller. Everyone below super
// admin sees only their own company.
// GET /api/companies
func (h *Handler) ListCompanies(c *gin.Context) {
	user := currentUser(c)

	var companies []models.Company
	switch auth.ListScope(auth.RoleFromString(user.Role), auth.ResourceCompanies) {
	case auth.ScopeAll:
		if err := h.db.Find(&companies).Error; err != nil {
			respondError(c, apierrors.NewInternalError(err))
			return
		}
	case auth.ScopeCompany:
		if err := h.db.Where("id = ?", companyIDOrZero(user)).Find(&companies).Error; err != nil {
			respondError(c, apierrors.NewInternalError(err))
			return
		}
	default:
		respondError(c, apierrors.NewForbiddenError())
		return
	}

	c.JSON(http.StatusOK, gin.H{"companies": companies})
}

// CreateCompany creates a company (super admin only)
// POST /api/companies
func (h *Handler) CreateCompany(c *gin.Context) {
	user := currentUser(c)

	if !auth.CanCreate(auth.RoleFromString(user.Role), auth.ResourceCompanies) {
		respondError(c, apierrors.NewForbiddenError())
		return
	}

	var req CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	company := models.Company{
		Name:     req.Name,
		Address:  req.Address,
		IsActive: true,
	}

	if err := h.db.Create(&company).Error; err != nil {
		respondError(c, apierrors.NewInternalError(err))
		return
	}

	h.audit(c, user, "create_company", "company", company.ID, models.JSONB{"name": company.Name})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Company created successfully!",
		"company": company,
	})
}
