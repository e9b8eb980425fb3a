// Package api - catalog endpoints: project types, standards, requirements,
// requirement groups and evidence items
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aethra/compliancepro/internal/auth"
	apierrors "github.com/aethra/compliancepro/internal/errors"
	"github.com/aethra/compliancepro/internal/models"
)

// =============================================================================
// PROJECT TYPES
// =============================================================================

// ListProjectTypes lists the engagement catalog, readable by every user
// GET /api/project-types
func (h *Handler) ListProjectTypes(c *gin.Context) {
	var types []models.ProjectType
	if err := h.db.Find(&types).Error; err != nil {
		respondError(c, apierrors.NewInternalError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"project_types": types})
}

// CreateProjectType adds a catalog entry (super admin only)
// POST /api/project-types
func (h *Handler) CreateProjectType(c *gin.Context) {
	user := currentUser(c)
	if !auth.CanCreate(auth.RoleFromString(user.Role), auth.ResourceCatalog) {
		respondError(c, apierrors.NewForbiddenError())
		return
	}

	var req struct {
		Name        string `json:"name" binding:"required"`
		Code        string `json:"code" binding:"required"`
		Category    string `json:"category"`
		IsAuditable *bool  `json:"is_auditable"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	projectType := models.ProjectType{
		Name:        req.Name,
		Code:        req.Code,
		Category:    req.Category,
		IsAuditable: true,
		CreatedBy:   &user.ID,
	}
	if req.IsAuditable != nil {
		projectType.IsAuditable = *req.IsAuditable
	}

	if err := h.db.Create(&projectType).Error; err != nil {
		if isUniqueViolation(err) {
			respondError(c, apierrors.NewConflictError("Project type"))
			return
		}
		respondError(c, apierrors.NewInternalError(err))
		return
	}

	h.audit(c, user, "create_project_type", "project_type", projectType.ID,
		models.JSONB{"code": projectType.Code})

	c.JSON(http.StatusCreated, gin.H{
		"message":      "Project type created successfully!",
		"project_type": projectType,
	})
}

// =============================================================================
// COMPLIANCE STANDARDS
// =============================================================================

// ListStandards lists compliance standards
// GET /api/standards
func (h *Handler) ListStandards(c *gin.Context) {
	var standards []models.ComplianceStandard
	if err := h.db.Find(&standards).Error; err != nil {
		respondError(c, apierrors.NewInternalError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"standards": standards})
}

// CreateStandard adds a compliance standard (super admin only)
// POST /api/standards
func (h *Handler) CreateStandard(c *gin.Context) {
	user := currentUser(c)
	if !auth.CanCreate(auth.RoleFromString(user.Role), auth.ResourceCatalog) {
		respondError(c, apierrors.NewForbiddenError())
		return
	}

	var req struct {
		Name        string `json:"name" binding:"required"`
		Code        string `json:"code" binding:"required"`
		Description string `json:"description"`
		Version     string `json:"version"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	standard := models.ComplianceStandard{
		Name:        req.Name,
		Code:        req.Code,
		Description: req.Description,
		Version:     req.Version,
		CreatedBy:   &user.ID,
	}

	if err := h.db.Create(&standard).Error; err != nil {
		if isUniqueViolation(err) {
			respondError(c, apierrors.NewConflictError("Standard"))
			return
		}
		respondError(c, apierrors.NewInternalError(err))
		return
	}

	h.audit(c, user, "create_standard", "compliance_standard", standard.ID,
		models.JSONB{"code": standard.Code})

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Standard created successfully!",
		"standard": standard,
	})
}

// =============================================================================
// REQUIREMENTS
// =============================================================================

// ListRequirements lists the requirements of one standard
// GET /api/standards/:id/requirements
func (h *Handler) ListRequirements(c *gin.Context) {
	standardID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var standard models.ComplianceStandard
	if err := h.db.First(&standard, standardID).Error; err != nil {
		respondError(c, apierrors.NewNotFoundError("Standard"))
		return
	}

	var requirements []models.Requirement
	err := h.db.Where("compliance_standard_id = ?", standardID).
		Order("requirement_number").Find(&requirements).Error
	if err != nil {
		respondError(c, apierrors.NewInternalError(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"requirements": requirements})
}

// CreateRequirement adds a requirement to a standard. A parent, when given,
// must belong to the same standard and must not close a parent-chain loop.
// POST /api/standards/:id/requirements
func (h *Handler) CreateRequirement(c *gin.Context) {
	user := currentUser(c)
	if !auth.CanCreate(auth.RoleFromString(user.Role), auth.ResourceCatalog) {
		respondError(c, apierrors.NewForbiddenError())
		return
	}

	standardID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var standard models.ComplianceStandard
	if err := h.db.First(&standard, standardID).Error; err != nil {
		respondError(c, apierrors.NewNotFoundError("Standard"))
		return
	}

	var req struct {
		RequirementNumber string `json:"requirement_number" binding:"required"`
		Title             string `json:"title" binding:"required"`
		Description       string `json:"description"`
		ParentID          *uint  `json:"parent_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	if req.ParentID != nil {
		if ok, err := h.validParentChain(standardID, 0, *req.ParentID); err != nil {
			respondError(c, apierrors.NewInternalError(err))
			return
		} else if !ok {
			respondError(c, apierrors.NewBadRequestError("invalid parent requirement"))
			return
		}
	}

	requirement := models.Requirement{
		ComplianceStandardID: standardID,
		RequirementNumber:    req.RequirementNumber,
		Title:                req.Title,
		Description:          req.Description,
		ParentID:             req.ParentID,
		CreatedBy:            &user.ID,
	}

	if err := h.db.Create(&requirement).Error; err != nil {
		if isUniqueViolation(err) {
			respondError(c, apierrors.NewConflictError("Requirement"))
			return
		}
		respondError(c, apierrors.NewInternalError(err))
		return
	}

	h.audit(c, user, "create_requirement", "requirement", requirement.ID,
		models.JSONB{"standard_id": standardID, "number": requirement.RequirementNumber})

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Requirement created successfully!",
		"requirement": requirement,
	})
}

// UpdateRequirement edits a requirement. Re-parenting walks the new parent
// chain first and rejects any assignment that would form a cycle.
// PUT /api/requirements/:id
func (h *Handler) UpdateRequirement(c *gin.Context) {
	user := currentUser(c)
	if !auth.CanCreate(auth.RoleFromString(user.Role), auth.ResourceCatalog) {
		respondError(c, apierrors.NewForbiddenError())
		return
	}

	requirementID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var requirement models.Requirement
	if err := h.db.First(&requirement, requirementID).Error; err != nil {
		respondError(c, apierrors.NewNotFoundError("Requirement"))
		return
	}

	var req struct {
		RequirementNumber *string `json:"requirement_number"`
		Title             *string `json:"title"`
		Description       *string `json:"description"`
		ParentID          *uint   `json:"parent_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	if req.ParentID != nil {
		if *req.ParentID == requirement.ID {
			respondError(c, apierrors.NewBadRequestError("requirement cannot be its own parent"))
			return
		}
		if ok, err := h.validParentChain(requirement.ComplianceStandardID, requirement.ID, *req.ParentID); err != nil {
			respondError(c, apierrors.NewInternalError(err))
			return
		} else if !ok {
			respondError(c, apierrors.NewBadRequestError("invalid parent requirement"))
			return
		}
		requirement.ParentID = req.ParentID
	}
	if req.RequirementNumber != nil {
		requirement.RequirementNumber = *req.RequirementNumber
	}
	if req.Title != nil {
		requirement.Title = *req.Title
	}
	if req.Description != nil {
		requirement.Description = *req.Description
	}

	if err := h.db.Save(&requirement).Error; err != nil {
		if isUniqueViolation(err) {
			respondError(c, apierrors.NewConflictError("Requirement"))
			return
		}
		respondError(c, apierrors.NewInternalError(err))
		return
	}

	h.audit(c, user, "update_requirement", "requirement", requirement.ID, nil)

	c.JSON(http.StatusOK, gin.H{
		"message":     "Requirement updated successfully!",
		"requirement": requirement,
	})
}

// validParentChain checks that parentID names a requirement of the given
// standard and that following parent links from it never reaches selfID.
// selfID is zero for inserts, which cannot be on any existing chain.
func (h *Handler) validParentChain(standardID, selfID, parentID uint) (bool, error) {
	var rows []models.Requirement
	err := h.db.Select("id", "parent_id").
		Where("compliance_standard_id = ?", standardID).Find(&rows).Error
	if err != nil {
		return false, err
	}

	parents := make(map[uint]*uint, len(rows))
	for _, r := range rows {
		parents[r.ID] = r.ParentID
	}
	if _, exists := parents[parentID]; !exists {
		return false, nil
	}

	seen := make(map[uint]bool)
	for id := parentID; ; {
		if id == selfID || seen[id] {
			return false, nil
		}
		seen[id] = true
		next := parents[id]
		if next == nil {
			return true, nil
		}
		id = *next
	}
}

// =============================================================================
// REQUIREMENT GROUPS
// =============================================================================

// ListRequirementGroups lists groups with their mapped requirements
// GET /api/requirement-groups
func (h *Handler) ListRequirementGroups(c *gin.Context) {
	var groups []models.RequirementGroup
	if err := h.db.Find(&groups).Error; err != nil {
		respondError(c, apierrors.NewInternalError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"requirement_groups": groups})
}

// CreateRequirementGroup adds a group (super admin only)
// POST /api/requirement-groups
func (h *Handler) CreateRequirementGroup(c *gin.Context) {
	user := currentUser(c)
	if !auth.CanCreate(auth.RoleFromString(user.Role), auth.ResourceCatalog) {
		respondError(c, apierrors.NewForbiddenError())
		return
	}

	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	group := models.RequirementGroup{
		Name:        req.Name,
		Description: req.Description,
		CreatedBy:   &user.ID,
	}
	if err := h.db.Create(&group).Error; err != nil {
		respondError(c, apierrors.NewInternalError(err))
		return
	}

	h.audit(c, user, "create_requirement_group", "requirement_group", group.ID,
		models.JSONB{"name": group.Name})

	c.JSON(http.StatusCreated, gin.H{
		"message":           "Requirement group created successfully!",
		"requirement_group": group,
	})
}

// MapGroupRequirement links a requirement into a group, 409 on a repeat pair
// POST /api/requirement-groups/:id/requirements
func (h *Handler) MapGroupRequirement(c *gin.Context) {
	user := currentUser(c)
	if !auth.CanCreate(auth.RoleFromString(user.Role), auth.ResourceCatalog) {
		respondError(c, apierrors.NewForbiddenError())
		return
	}

	groupID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var group models.RequirementGroup
	if err := h.db.First(&group, groupID).Error; err != nil {
		respondError(c, apierrors.NewNotFoundError("Requirement group"))
		return
	}

	var req struct {
		RequirementID uint `json:"requirement_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	var requirement models.Requirement
	if err := h.db.First(&requirement, req.RequirementID).Error; err != nil {
		respondError(c, apierrors.NewNotFoundError("Requirement"))
		return
	}

	mapping := models.RequirementGroupMapping{
		GroupID:       groupID,
		RequirementID: req.RequirementID,
		CreatedBy:     &user.ID,
	}
	if err := h.db.Create(&mapping).Error; err != nil {
		if isUniqueViolation(err) {
			respondError(c, apierrors.NewConflictError("Group mapping"))
			return
		}
		respondError(c, apierrors.NewInternalError(err))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Requirement mapped successfully!",
		"mapping": mapping,
	})
}

// =============================================================================
// EVIDENCE CATALOG
// =============================================================================

// ListEvidenceItems lists the evidence catalog
// GET /api/evidence-items
func (h *Handler) ListEvidenceItems(c *gin.Context) {
	var items []models.EvidenceItem
	if err := h.db.Find(&items).Error; err != nil {
		respondError(c, apierrors.NewInternalError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"evidence_items": items})
}

// CreateEvidenceItem adds an evidence catalog entry (super admin only)
// POST /api/evidence-items
func (h *Handler) CreateEvidenceItem(c *gin.Context) {
	user := currentUser(c)
	if !auth.CanCreate(auth.RoleFromString(user.Role), auth.ResourceCatalog) {
		respondError(c, apierrors.NewForbiddenError())
		return
	}

	var req struct {
		Name         string `json:"name" binding:"required"`
		Description  string `json:"description"`
		EvidenceType string `json:"evidence_type"`
		SubItem      string `json:"sub_item"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	item := models.EvidenceItem{
		Name:         req.Name,
		Description:  req.Description,
		EvidenceType: req.EvidenceType,
		SubItem:      req.SubItem,
		CreatedBy:    &user.ID,
	}
	if err := h.db.Create(&item).Error; err != nil {
		respondError(c, apierrors.NewInternalError(err))
		return
	}

	h.audit(c, user, "create_evidence_item", "evidence_item", item.ID,
		models.JSONB{"name": item.Name})

	c.JSON(http.StatusCreated, gin.H{
		"message":       "Evidence item created successfully!",
		"evidence_item": item,
	})
}

// MapEvidenceRequirement links an evidence item to a requirement it satisfies
// POST /api/evidence-items/:id/requirements
func (h *Handler) MapEvidenceRequirement(c *gin.Context) {
	user := currentUser(c)
	if !auth.CanCreate(auth.RoleFromString(user.Role), auth.ResourceCatalog) {
		respondError(c, apierrors.NewForbiddenError())
		return
	}

	evidenceID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var item models.EvidenceItem
	if err := h.db.First(&item, evidenceID).Error; err != nil {
		respondError(c, apierrors.NewNotFoundError("Evidence item"))
		return
	}

	var req struct {
		RequirementID uint `json:"requirement_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	var requirement models.Requirement
	if err := h.db.First(&requirement, req.RequirementID).Error; err != nil {
		respondError(c, apierrors.NewNotFoundError("Requirement"))
		return
	}

	mapping := models.EvidenceRequirementMapping{
		EvidenceID:    evidenceID,
		RequirementID: req.RequirementID,
		CreatedBy:     &user.ID,
	}
	if err := h.db.Create(&mapping).Error; err != nil {
		if isUniqueViolation(err) {
			respondError(c, apierrors.NewConflictError("Evidence mapping"))
			return
		}
		respondError(c, apierrors.NewInternalError(err))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Evidence mapped successfully!",
		"mapping": mapping,
	})
}
