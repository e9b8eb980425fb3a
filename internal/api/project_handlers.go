// Package api - project, team and plan endpoints
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/aethra/compliancepro/internal/auth"
	apierrors "github.com/aethra/compliancepro/internal/errors"
	"github.com/aethra/compliancepro/internal/models"
)

// CreateProjectRequest represents project creation data
type CreateProjectRequest struct {
	Name           string `json:"name" binding:"required"`
	ProjectTypeID  uint   `json:"project_type_id" binding:"required"`
	CompanyID      *uint  `json:"company_id"`
	ProjectOwnerID *uint  `json:"project_owner_id"`
}

// ListProjects lists projects visible to the caller, embedding the company
// and project type of each row
// GET /api/projects
func (h *Handler) ListProjects(c *gin.Context) {
	user := currentUser(c)

	var projects []models.Project
	err := h.scopedProjects(user).
		Preload("Company").
		Preload("ProjectType").
		Find(&projects).Error
	if err != nil {
		respondError(c, apierrors.NewInternalError(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

// CreateProject creates a project and, when an owner is given, the owning
// ProjectUser row. Both inserts share one transaction so project creation is
// all-or-nothing.
// POST /api/projects
func (h *Handler) CreateProject(c *gin.Context) {
	user := currentUser(c)
	role := auth.RoleFromString(user.Role)

	if !auth.CanCreate(role, auth.ResourceProjects) {
		respondError(c, apierrors.NewForbiddenError())
		return
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	companyID := clampCompany(user, req.CompanyID)
	if companyID == nil {
		respondError(c, apierrors.NewBadRequestError("company_id is required"))
		return
	}

	project := models.Project{
		Name:          req.Name,
		CompanyID:     *companyID,
		ProjectTypeID: req.ProjectTypeID,
		Status:        "in_progress",
		CreatedBy:     &user.ID,
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&project).Error; err != nil {
			return err
		}
		if req.ProjectOwnerID != nil {
			owner := models.ProjectUser{
				ProjectID: project.ID,
				UserID:    *req.ProjectOwnerID,
				Role:      "project_owner",
			}
			if err := tx.Create(&owner).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if isUniqueViolation(err) {
			respondError(c, apierrors.NewConflictError("Project assignment"))
			return
		}
		respondError(c, apierrors.NewInternalError(err))
		return
	}

	h.audit(c, user, "create_project", "project", project.ID, models.JSONB{"name": project.Name})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Project created successfully!",
		"project": project,
	})
}

// =============================================================================
// PROJECT TEAM
// =============================================================================

// ListProjectUsers lists the team of a project
// GET /api/projects/:id/users
func (h *Handler) ListProjectUsers(c *gin.Context) {
	user := currentUser(c)
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if _, ok := h.requireProject(c, user, projectID); !ok {
		return
	}

	var assignments []models.ProjectUser
	err := h.db.Where("project_id = ?", projectID).Preload("User").Find(&assignments).Error
	if err != nil {
		respondError(c, apierrors.NewInternalError(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"project_users": assignments})
}

// AddProjectUser assigns a user to a project. The (project, user) pair is
// unique; a second assignment answers 409.
// POST /api/projects/:id/users
func (h *Handler) AddProjectUser(c *gin.Context) {
	user := currentUser(c)
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	project, ok := h.requireProject(c, user, projectID)
	if !ok {
		return
	}
	if !h.canMutateProject(user, project) {
		respondError(c, apierrors.NewForbiddenError())
		return
	}

	var req struct {
		UserID uint   `json:"user_id" binding:"required"`
		Role   string `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	assignment := models.ProjectUser{
		ProjectID: projectID,
		UserID:    req.UserID,
		Role:      req.Role,
	}
	if err := h.db.Create(&assignment).Error; err != nil {
		if isUniqueViolation(err) {
			respondError(c, apierrors.NewConflictError("Project assignment"))
			return
		}
		respondError(c, apierrors.NewInternalError(err))
		return
	}

	h.audit(c, user, "assign_project_user", "project_user", assignment.ID,
		models.JSONB{"project_id": projectID, "user_id": req.UserID})
	h.notify(req.UserID, "project_assignment", "Added to project",
		"You have been added to project "+project.Name, "")

	c.JSON(http.StatusCreated, gin.H{
		"message":      "User assigned successfully!",
		"project_user": assignment,
	})
}

// =============================================================================
// PROJECT PLAN & MILESTONES
// =============================================================================

// GetProjectPlan returns a project's plan with its milestones
// GET /api/projects/:id/plan
func (h *Handler) GetProjectPlan(c *gin.Context) {
	user := currentUser(c)
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if _, ok := h.requireProject(c, user, projectID); !ok {
		return
	}

	var plan models.ProjectPlan
	err := h.db.Where("project_id = ?", projectID).Preload("Milestones").First(&plan).Error
	if err != nil {
		respondError(c, apierrors.NewNotFoundError("Project plan"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"plan": plan})
}

// CreateProjectPlan creates the one-to-one plan for a project
// POST /api/projects/:id/plan
func (h *Handler) CreateProjectPlan(c *gin.Context) {
	user := currentUser(c)
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	project, ok := h.requireProject(c, user, projectID)
	if !ok {
		return
	}
	if !h.canMutateProject(user, project) {
		respondError(c, apierrors.NewForbiddenError())
		return
	}

	var req struct {
		StartDate        string  `json:"start_date" binding:"required"`
		EstimatedEndDate *string `json:"estimated_end_date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		respondError(c, apierrors.NewBadRequestError("invalid start_date"))
		return
	}

	plan := models.ProjectPlan{
		ProjectID: projectID,
		StartDate: startDate,
		CreatedBy: &user.ID,
	}
	if req.EstimatedEndDate != nil {
		end, err := time.Parse("2006-01-02", *req.EstimatedEndDate)
		if err != nil {
			respondError(c, apierrors.NewBadRequestError("invalid estimated_end_date"))
			return
		}
		plan.EstimatedEndDate = &end
	}

	if err := h.db.Create(&plan).Error; err != nil {
		if isUniqueViolation(err) {
			respondError(c, apierrors.NewConflictError("Project plan"))
			return
		}
		respondError(c, apierrors.NewInternalError(err))
		return
	}

	h.audit(c, user, "create_project_plan", "project_plan", plan.ID,
		models.JSONB{"project_id": projectID})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Project plan created successfully!",
		"plan":    plan,
	})
}

// CreateMilestone adds a milestone to a project plan
// POST /api/plans/:id/milestones
func (h *Handler) CreateMilestone(c *gin.Context) {
	user := currentUser(c)
	planID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var plan models.ProjectPlan
	if err := h.db.First(&plan, planID).Error; err != nil {
		respondError(c, apierrors.NewNotFoundError("Project plan"))
		return
	}
	project, ok := h.requireProject(c, user, plan.ProjectID)
	if !ok {
		return
	}
	if !h.canMutateProject(user, project) {
		respondError(c, apierrors.NewForbiddenError())
		return
	}

	var req struct {
		Name        string  `json:"name" binding:"required"`
		Description string  `json:"description"`
		DueDate     *string `json:"due_date"`
		Status      string  `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	milestone := models.Milestone{
		ProjectPlanID: planID,
		Name:          req.Name,
		Description:   req.Description,
		Status:        req.Status,
		CreatedBy:     &user.ID,
	}
	if req.DueDate != nil {
		due, err := time.Parse("2006-01-02", *req.DueDate)
		if err != nil {
			respondError(c, apierrors.NewBadRequestError("invalid due_date"))
			return
		}
		milestone.DueDate = &due
	}

	if err := h.db.Create(&milestone).Error; err != nil {
		respondError(c, apierrors.NewInternalError(err))
		return
	}

	h.audit(c, user, "create_milestone", "milestone", milestone.ID,
		models.JSONB{"project_plan_id": planID})

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Milestone created successfully!",
		"milestone": milestone,
	})
}
