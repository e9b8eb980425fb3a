// Package api - action items, testing scopes, vulnerabilities and scan results
package api

import (
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/aethra/compliancepro/internal/auth"
	apierrors "github.com/aethra/compliancepro/internal/errors"
	"github.com/aethra/compliancepro/internal/models"
)

// =============================================================================
// ACTION ITEMS
// =============================================================================

// ListActionItems lists the remediation tasks of a project
// GET /api/projects/:id/action-items
func (h *Handler) ListActionItems(c *gin.Context) {
	user := currentUser(c)
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if _, ok := h.requireProject(c, user, projectID); !ok {
		return
	}

	var items []models.ActionItem
	err := h.db.Where("project_id = ?", projectID).
		Preload("Requirement").
		Preload("Evidences").
		Find(&items).Error
	if err != nil {
		respondError(c, apierrors.NewInternalError(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"action_items": items})
}

// CreateActionItem raises a remediation task against a project
// POST /api/projects/:id/action-items
func (h *Handler) CreateActionItem(c *gin.Context) {
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
		RequirementID      *uint   `json:"requirement_id"`
		Observation        string  `json:"observation"`
		ActionPoint        string  `json:"action_point" binding:"required"`
		Severity           string  `json:"severity"`
		AssignedTo         *uint   `json:"assigned_to"`
		Department         string  `json:"department"`
		TargetDate         *string `json:"target_date"`
		IsEvidenceRequired bool    `json:"is_evidence_required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	item := models.ActionItem{
		ProjectID:          projectID,
		RequirementID:      req.RequirementID,
		Observation:        req.Observation,
		ActionPoint:        req.ActionPoint,
		Severity:           req.Severity,
		Status:             "open",
		AssignedTo:         req.AssignedTo,
		Department:         req.Department,
		IsEvidenceRequired: req.IsEvidenceRequired,
		CreatedBy:          &user.ID,
	}
	if req.TargetDate != nil {
		target, err := time.Parse("2006-01-02", *req.TargetDate)
		if err != nil {
			respondError(c, apierrors.NewBadRequestError("invalid target_date"))
			return
		}
		item.TargetDate = &target
	}

	if err := h.db.Create(&item).Error; err != nil {
		respondError(c, apierrors.NewInternalError(err))
		return
	}

	h.audit(c, user, "create_action_item", "action_item", item.ID,
		models.JSONB{"project_id": projectID})
	if item.AssignedTo != nil {
		h.notify(*item.AssignedTo, "action_item_assigned", "Action item assigned",
			"A new action item was assigned to you", "")
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Action item created successfully!",
		"action_item": item,
	})
}

// UpdateActionItem edits status and assignment fields of an action item
// PUT /api/action-items/:id
func (h *Handler) UpdateActionItem(c *gin.Context) {
	user := currentUser(c)
	itemID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var item models.ActionItem
	if err := h.db.First(&item, itemID).Error; err != nil {
		respondError(c, apierrors.NewNotFoundError("Action item"))
		return
	}
	project, ok := h.requireProject(c, user, item.ProjectID)
	if !ok {
		return
	}
	if !h.canMutateProject(user, project) {
		respondError(c, apierrors.NewForbiddenError())
		return
	}

	var req struct {
		Status      *string `json:"status"`
		Severity    *string `json:"severity"`
		AssignedTo  *uint   `json:"assigned_to"`
		Department  *string `json:"department"`
		TargetDate  *string `json:"target_date"`
		Observation *string `json:"observation"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	if req.Status != nil {
		item.Status = *req.Status
	}
	if req.Severity != nil {
		item.Severity = *req.Severity
	}
	if req.AssignedTo != nil {
		item.AssignedTo = req.AssignedTo
	}
	if req.Department != nil {
		item.Department = *req.Department
	}
	if req.Observation != nil {
		item.Observation = *req.Observation
	}
	if req.TargetDate != nil {
		target, err := time.Parse("2006-01-02", *req.TargetDate)
		if err != nil {
			respondError(c, apierrors.NewBadRequestError("invalid target_date"))
			return
		}
		item.TargetDate = &target
	}

	if err := h.db.Save(&item).Error; err != nil {
		respondError(c, apierrors.NewInternalError(err))
		return
	}

	h.audit(c, user, "update_action_item", "action_item", item.ID, nil)

	c.JSON(http.StatusOK, gin.H{
		"message":     "Action item updated successfully!",
		"action_item": item,
	})
}

// UploadActionEvidence stores a remediation proof file for an action item
// POST /api/action-items/:id/evidences
func (h *Handler) UploadActionEvidence(c *gin.Context) {
	user := currentUser(c)
	itemID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var item models.ActionItem
	if err := h.db.First(&item, itemID).Error; err != nil {
		respondError(c, apierrors.NewNotFoundError("Action item"))
		return
	}
	if _, ok := h.requireProject(c, user, item.ProjectID); !ok {
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		respondError(c, apierrors.NewBadRequestError("file is required"))
		return
	}

	storedName := uuid.NewString() + filepath.Ext(file.Filename)
	dir := filepath.Join(h.uploadDir, "action-items")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		respondError(c, apierrors.NewInternalError(err))
		return
	}
	storedPath := filepath.Join(dir, storedName)
	if err := c.SaveUploadedFile(file, storedPath); err != nil {
		respondError(c, apierrors.NewInternalError(err))
		return
	}

	evidence := models.ActionEvidence{
		ActionItemID: itemID,
		FilePath:     storedPath,
		FileName:     filepath.Base(file.Filename),
		FileType:     file.Header.Get("Content-Type"),
		FileSize:     file.Size,
		Status:       "pending_review",
		Comments:     c.PostForm("comments"),
		UploadedBy:   &user.ID,
	}
	if err := h.db.Create(&evidence).Error; err != nil {
		respondError(c, apierrors.NewInternalError(err))
		return
	}

	h.audit(c, user, "upload_action_evidence", "action_evidence", evidence.ID,
		models.JSONB{"action_item_id": itemID, "file_name": evidence.FileName})

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Evidence uploaded successfully!",
		"evidence": evidence,
	})
}

// =============================================================================
// TESTING SCOPES
// =============================================================================

// ListTestingScopes lists the testing boundaries of a project
// GET /api/projects/:id/scopes
func (h *Handler) ListTestingScopes(c *gin.Context) {
	user := currentUser(c)
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if _, ok := h.requireProject(c, user, projectID); !ok {
		return
	}

	var scopes []models.TestingScope
	if err := h.db.Where("project_id = ?", projectID).Find(&scopes).Error; err != nil {
		respondError(c, apierrors.NewInternalError(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"scopes": scopes})
}

// CreateTestingScope adds a testing boundary to a project
// POST /api/projects/:id/scopes
func (h *Handler) CreateTestingScope(c *gin.Context) {
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
		ScopeType  string `json:"scope_type"`
		ScopeValue string `json:"scope_value" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	scope := models.TestingScope{
		ProjectID:  projectID,
		ScopeType:  req.ScopeType,
		ScopeValue: req.ScopeValue,
		CreatedBy:  &user.ID,
	}
	if err := h.db.Create(&scope).Error; err != nil {
		respondError(c, apierrors.NewInternalError(err))
		return
	}

	h.audit(c, user, "create_testing_scope", "testing_scope", scope.ID,
		models.JSONB{"project_id": projectID})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Scope created successfully!",
		"scope":   scope,
	})
}

// =============================================================================
// VULNERABILITIES
// =============================================================================

// ListVulnerabilities lists vulnerabilities visible to the caller. Shared
// catalog rows (no company) are visible to everyone; company rows only to
// that company and super admins.
// GET /api/vulnerabilities
func (h *Handler) ListVulnerabilities(c *gin.Context) {
	user := currentUser(c)

	var vulns []models.Vulnerability
	q := h.db.Model(&models.Vulnerability{})
	switch auth.ListScope(auth.RoleFromString(user.Role), auth.ResourceVulnerabilities) {
	case auth.ScopeAll:
	case auth.ScopeCompany:
		q = q.Where("company_id IS NULL OR company_id = ?", companyIDOrZero(user))
	default:
		respondError(c, apierrors.NewForbiddenError())
		return
	}
	if err := q.Find(&vulns).Error; err != nil {
		respondError(c, apierrors.NewInternalError(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"vulnerabilities": vulns})
}

// CreateVulnerability records a vulnerability. Client admins are clamped to
// their own company.
// POST /api/vulnerabilities
func (h *Handler) CreateVulnerability(c *gin.Context) {
	user := currentUser(c)
	role := auth.RoleFromString(user.Role)
	if !auth.CanCreate(role, auth.ResourceVulnerabilities) {
		respondError(c, apierrors.NewForbiddenError())
		return
	}

	var req struct {
		CVEID            string   `json:"cve_id"`
		Name             string   `json:"name" binding:"required"`
		CVSSScore        *float64 `json:"cvss_score"`
		AffectedSystems  string   `json:"affected_systems"`
		Description      string   `json:"description"`
		RemediationSteps string   `json:"remediation_steps"`
		DatePublished    *string  `json:"date_published"`
		IsCustom         bool     `json:"is_custom"`
		CompanyID        *uint    `json:"company_id"`
		ProjectID        *uint    `json:"project_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	vuln := models.Vulnerability{
		CVEID:            req.CVEID,
		Name:             req.Name,
		CVSSScore:        req.CVSSScore,
		AffectedSystems:  req.AffectedSystems,
		Description:      req.Description,
		Status:           "open",
		RemediationSteps: req.RemediationSteps,
		IsCustom:         req.IsCustom,
		CompanyID:        clampCompany(user, req.CompanyID),
		ProjectID:        req.ProjectID,
		CreatedBy:        &user.ID,
	}
	if req.DatePublished != nil {
		published, err := time.Parse("2006-01-02", *req.DatePublished)
		if err != nil {
			respondError(c, apierrors.NewBadRequestError("invalid date_published"))
			return
		}
		vuln.DatePublished = &published
	}

	if err := h.db.Create(&vuln).Error; err != nil {
		respondError(c, apierrors.NewInternalError(err))
		return
	}

	h.audit(c, user, "create_vulnerability", "vulnerability", vuln.ID,
		models.JSONB{"name": vuln.Name})

	c.JSON(http.StatusCreated, gin.H{
		"message":       "Vulnerability created successfully!",
		"vulnerability": vuln,
	})
}

// =============================================================================
// SCAN RESULTS
// =============================================================================

// ListScanResults lists the findings of a project with their vulnerability
// and scope embedded
// GET /api/projects/:id/scan-results
func (h *Handler) ListScanResults(c *gin.Context) {
	user := currentUser(c)
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if _, ok := h.requireProject(c, user, projectID); !ok {
		return
	}

	var results []models.ScanResult
	err := h.db.Where("project_id = ?", projectID).
		Preload("Vulnerability").
		Preload("Scope").
		Find(&results).Error
	if err != nil {
		respondError(c, apierrors.NewInternalError(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"scan_results": results})
}

// CreateScanResult records a finding against a scope of the project. The
// scope must belong to the same project.
// POST /api/projects/:id/scan-results
func (h *Handler) CreateScanResult(c *gin.Context) {
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
		ScopeID         uint   `json:"scope_id" binding:"required"`
		VulnerabilityID uint   `json:"vulnerability_id" binding:"required"`
		ProofOfConcept  string `json:"proof_of_concept"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	var scope models.TestingScope
	if err := h.db.First(&scope, req.ScopeID).Error; err != nil || scope.ProjectID != projectID {
		respondError(c, apierrors.NewBadRequestError("scope does not belong to this project"))
		return
	}
	var vuln models.Vulnerability
	if err := h.db.First(&vuln, req.VulnerabilityID).Error; err != nil {
		respondError(c, apierrors.NewNotFoundError("Vulnerability"))
		return
	}

	result := models.ScanResult{
		ProjectID:       projectID,
		ScopeID:         req.ScopeID,
		VulnerabilityID: req.VulnerabilityID,
		ProofOfConcept:  req.ProofOfConcept,
		Status:          "open",
		CreatedBy:       &user.ID,
	}
	if err := h.db.Create(&result).Error; err != nil {
		respondError(c, apierrors.NewInternalError(err))
		return
	}

	h.audit(c, user, "create_scan_result", "scan_result", result.ID,
		models.JSONB{"project_id": projectID, "vulnerability_id": req.VulnerabilityID})

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Scan result created successfully!",
		"scan_result": result,
	})
}
