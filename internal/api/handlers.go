// Package api contains the HTTP handlers of the compliance platform
package api

import (
	"errors"
	"log"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/aethra/compliancepro/internal/auth"
	"github.com/aethra/compliancepro/internal/database"
	apierrors "github.com/aethra/compliancepro/internal/errors"
	"github.com/aethra/compliancepro/internal/models"
)

func isUniqueViolation(err error) bool {
	return database.IsUniqueViolation(err)
}

const currentUserKey = "current_user"

// Handler carries the shared dependencies of every endpoint
type Handler struct {
	db        *gorm.DB
	tokens    *auth.TokenService
	uploadDir string
}

// NewHandler creates the API handler
func NewHandler(db *gorm.DB, tokens *auth.TokenService, uploadDir string) *Handler {
	return &Handler{db: db, tokens: tokens, uploadDir: uploadDir}
}

// =============================================================================
// MIDDLEWARE
// =============================================================================

// RequireAuth extracts and verifies the bearer token and resolves its subject
// to an active user. Every failure kind answers 401 with its own message.
func (h *Handler) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			abortWithError(c, apierrors.NewMissingTokenError())
			return
		}

		claims, err := h.tokens.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			if errors.Is(err, auth.ErrExpiredToken) {
				abortWithError(c, apierrors.NewExpiredTokenError())
			} else {
				abortWithError(c, apierrors.NewInvalidTokenError())
			}
			return
		}

		userID, err := claims.UserID()
		if err != nil {
			abortWithError(c, apierrors.NewInvalidTokenError())
			return
		}

		var user models.User
		if err := h.db.First(&user, userID).Error; err != nil || !user.IsActive {
			abortWithError(c, apierrors.NewUserNotFoundError())
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// currentUser returns the authenticated user set by RequireAuth
func currentUser(c *gin.Context) models.User {
	return c.MustGet(currentUserKey).(models.User)
}

// =============================================================================
// HELPERS
// =============================================================================

func abortWithError(c *gin.Context, err error) {
	status, body := apierrors.ToHTTPError(err)
	c.AbortWithStatusJSON(status, body)
}

func respondError(c *gin.Context, err error) {
	status, body := apierrors.ToHTTPError(err)
	c.JSON(status, body)
}

func respondBadRequest(c *gin.Context, err error) {
	respondError(c, apierrors.NewBadRequestError("invalid request: "+err.Error()))
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		respondError(c, apierrors.NewBadRequestError("invalid "+name))
		return 0, false
	}
	return uint(id), true
}

// clampCompany applies the company-scoping rule: a client admin's supplied
// company id is silently overridden to their own, never rejected.
func clampCompany(user models.User, requested *uint) *uint {
	if auth.ClampsCompany(auth.RoleFromString(user.Role)) {
		return user.CompanyID
	}
	return requested
}

// scopedProjects returns a project query restricted to what the user may see
func (h *Handler) scopedProjects(user models.User) *gorm.DB {
	q := h.db.Model(&models.Project{})
	switch auth.ListScope(auth.RoleFromString(user.Role), auth.ResourceProjects) {
	case auth.ScopeAll:
		return q
	case auth.ScopeCompany:
		return q.Where("company_id = ?", companyIDOrZero(user))
	case auth.ScopeAssigned:
		return q.Where("id IN (?)", h.db.Model(&models.ProjectUser{}).
			Select("project_id").Where("user_id = ?", user.ID))
	default:
		return q.Where("1 = 0")
	}
}

// canAccessProject reports whether the user may read the given project
func (h *Handler) canAccessProject(user models.User, projectID uint) (bool, error) {
	var count int64
	if err := h.scopedProjects(user).Where("id = ?", projectID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// requireProject loads a project the user may read, or answers 404/403
func (h *Handler) requireProject(c *gin.Context, user models.User, projectID uint) (models.Project, bool) {
	var project models.Project
	if err := h.db.First(&project, projectID).Error; err != nil {
		respondError(c, apierrors.NewNotFoundError("Project"))
		return project, false
	}
	ok, err := h.canAccessProject(user, projectID)
	if err != nil {
		respondError(c, apierrors.NewInternalError(err))
		return project, false
	}
	if !ok {
		respondError(c, apierrors.NewForbiddenError())
		return project, false
	}
	return project, true
}

// canMutateProject reports whether the user may create rows under a project.
// Members may read assigned projects but not add to them.
func (h *Handler) canMutateProject(user models.User, project models.Project) bool {
	switch auth.RoleFromString(user.Role) {
	case auth.RoleSuperAdmin:
		return true
	case auth.RoleClientAdmin:
		return user.CompanyID != nil && *user.CompanyID == project.CompanyID
	default:
		return false
	}
}

func companyIDOrZero(user models.User) uint {
	if user.CompanyID == nil {
		return 0
	}
	return *user.CompanyID
}

// audit appends an audit-log row for a completed mutation. Audit failures are
// logged and never fail the request.
func (h *Handler) audit(c *gin.Context, user models.User, action, entityType string, entityID uint, details models.JSONB) {
	entry := models.AuditLog{
		UserID:     &user.ID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    details,
		IPAddress:  c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
	}
	if err := h.db.Create(&entry).Error; err != nil {
		log.Printf("audit log write failed: %v", err)
	}
}

// =============================================================================
// HEALTH
// =============================================================================

// Index returns the API welcome message
// GET /
func (h *Handler) Index(c *gin.Context) {
	c.JSON(200, gin.H{"message": "Welcome to Compliance Pro API!"})
}

// Health returns the health status
// GET /api/health
func (h *Handler) Health(c *gin.Context) {
	c.JSON(200, gin.H{"status": "ok", "service": "compliancepro"})
}
