// Package api - project evidence collection, uploads and SOA
package api

import (
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apierrors "github.com/aethra/compliancepro/internal/errors"
	"github.com/aethra/compliancepro/internal/models"
)

// =============================================================================
// PROJECT EVIDENCE
// =============================================================================

// ListProjectEvidences lists the evidence collected for a project, embedding
// the catalog item and uploads of each row
// GET /api/projects/:id/evidences
func (h *Handler) ListProjectEvidences(c *gin.Context) {
	user := currentUser(c)
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if _, ok := h.requireProject(c, user, projectID); !ok {
		return
	}

	var evidences []models.ProjectEvidence
	err := h.db.Where("project_id = ?", projectID).
		Preload("EvidenceItem").
		Preload("Uploads").
		Find(&evidences).Error
	if err != nil {
		respondError(c, apierrors.NewInternalError(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"evidences": evidences})
}

// AddProjectEvidence attaches a catalog evidence item to a project. The
// (project, evidence) pair is unique; a repeat answers 409.
// POST /api/projects/:id/evidences
func (h *Handler) AddProjectEvidence(c *gin.Context) {
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
		EvidenceID uint  `json:"evidence_id" binding:"required"`
		AssignedTo *uint `json:"assigned_to"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	var item models.EvidenceItem
	if err := h.db.First(&item, req.EvidenceID).Error; err != nil {
		respondError(c, apierrors.NewNotFoundError("Evidence item"))
		return
	}

	evidence := models.ProjectEvidence{
		ProjectID:  projectID,
		EvidenceID: req.EvidenceID,
		Status:     "pending",
		AssignedTo: req.AssignedTo,
	}
	if err := h.db.Create(&evidence).Error; err != nil {
		if isUniqueViolation(err) {
			respondError(c, apierrors.NewConflictError("Project evidence"))
			return
		}
		respondError(c, apierrors.NewInternalError(err))
		return
	}

	h.audit(c, user, "add_project_evidence", "project_evidence", evidence.ID,
		models.JSONB{"project_id": projectID, "evidence_id": req.EvidenceID})

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Evidence added successfully!",
		"evidence": evidence,
	})
}

// UploadEvidence stores an uploaded file for a project evidence row. The file
// lands on disk under a generated name; the row keeps the original name.
// POST /api/evidences/:id/uploads
func (h *Handler) UploadEvidence(c *gin.Context) {
	user := currentUser(c)
	evidenceID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var evidence models.ProjectEvidence
	if err := h.db.First(&evidence, evidenceID).Error; err != nil {
		respondError(c, apierrors.NewNotFoundError("Project evidence"))
		return
	}
	if _, ok := h.requireProject(c, user, evidence.ProjectID); !ok {
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		respondError(c, apierrors.NewBadRequestError("file is required"))
		return
	}

	storedName := uuid.NewString() + filepath.Ext(file.Filename)
	dir := filepath.Join(h.uploadDir, "evidences")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		respondError(c, apierrors.NewInternalError(err))
		return
	}
	storedPath := filepath.Join(dir, storedName)
	if err := c.SaveUploadedFile(file, storedPath); err != nil {
		respondError(c, apierrors.NewInternalError(err))
		return
	}

	upload := models.EvidenceUpload{
		ProjectEvidenceID: evidenceID,
		FilePath:          storedPath,
		FileName:          filepath.Base(file.Filename),
		FileType:          file.Header.Get("Content-Type"),
		FileSize:          file.Size,
		Status:            "pending_review",
		Comments:          c.PostForm("comments"),
		UploadedBy:        &user.ID,
	}
	if err := h.db.Create(&upload).Error; err != nil {
		respondError(c, apierrors.NewInternalError(err))
		return
	}

	h.db.Model(&evidence).Update("status", "submitted")

	h.audit(c, user, "upload_evidence", "evidence_upload", upload.ID,
		models.JSONB{"project_evidence_id": evidenceID, "file_name": upload.FileName})

	c.JSON(http.StatusCreated, gin.H{
		"message": "File uploaded successfully!",
		"upload":  upload,
	})
}

// ReviewEvidenceUpload accepts or rejects an upload
// PUT /api/evidence-uploads/:id/review
func (h *Handler) ReviewEvidenceUpload(c *gin.Context) {
	user := currentUser(c)
	uploadID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var upload models.EvidenceUpload
	if err := h.db.First(&upload, uploadID).Error; err != nil {
		respondError(c, apierrors.NewNotFoundError("Evidence upload"))
		return
	}
	var evidence models.ProjectEvidence
	if err := h.db.First(&evidence, upload.ProjectEvidenceID).Error; err != nil {
		respondError(c, apierrors.NewNotFoundError("Project evidence"))
		return
	}
	project, ok := h.requireProject(c, user, evidence.ProjectID)
	if !ok {
		return
	}
	if !h.canMutateProject(user, project) {
		respondError(c, apierrors.NewForbiddenError())
		return
	}

	var req struct {
		Status   string `json:"status" binding:"required"`
		Comments string `json:"comments"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	now := time.Now()
	upload.Status = req.Status
	if req.Comments != "" {
		upload.Comments = req.Comments
	}
	upload.ReviewedBy = &user.ID
	upload.ReviewedAt = &now

	if err := h.db.Save(&upload).Error; err != nil {
		respondError(c, apierrors.NewInternalError(err))
		return
	}
	h.db.Model(&evidence).Update("status", req.Status)

	h.audit(c, user, "review_evidence", "evidence_upload", upload.ID,
		models.JSONB{"status": req.Status})

	c.JSON(http.StatusOK, gin.H{
		"message": "Review recorded successfully!",
		"upload":  upload,
	})
}

// =============================================================================
// STATEMENT OF APPLICABILITY
// =============================================================================

// ListSOA lists a project's statement-of-applicability entries
// GET /api/projects/:id/soa
func (h *Handler) ListSOA(c *gin.Context) {
	user := currentUser(c)
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if _, ok := h.requireProject(c, user, projectID); !ok {
		return
	}

	var entries []models.SOA
	err := h.db.Where("project_id = ?", projectID).
		Preload("Requirement").Find(&entries).Error
	if err != nil {
		respondError(c, apierrors.NewInternalError(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"soa": entries})
}

// CreateSOAEntry records applicability of one requirement for a project,
// unique per (project, requirement)
// POST /api/projects/:id/soa
func (h *Handler) CreateSOAEntry(c *gin.Context) {
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
		RequirementID uint   `json:"requirement_id" binding:"required"`
		IsApplicable  *bool  `json:"is_applicable"`
		Justification string `json:"justification"`
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

	entry := models.SOA{
		ProjectID:     projectID,
		RequirementID: req.RequirementID,
		IsApplicable:  true,
		Justification: req.Justification,
		CreatedBy:     &user.ID,
	}
	if req.IsApplicable != nil {
		entry.IsApplicable = *req.IsApplicable
	}

	if err := h.db.Create(&entry).Error; err != nil {
		if isUniqueViolation(err) {
			respondError(c, apierrors.NewConflictError("SOA entry"))
			return
		}
		respondError(c, apierrors.NewInternalError(err))
		return
	}

	h.audit(c, user, "create_soa_entry", "soa", entry.ID,
		models.JSONB{"project_id": projectID, "requirement_id": req.RequirementID})

	c.JSON(http.StatusCreated, gin.H{
		"message": "SOA entry created successfully!",
		"entry":   entry,
	})
}
