// Package api - support ticket endpoints
package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/aethra/compliancepro/internal/auth"
	apierrors "github.com/aethra/compliancepro/internal/errors"
	"github.com/aethra/compliancepro/internal/models"
)

// newTicketRef builds a human-readable unique ticket reference
func newTicketRef() string {
	return "TKT-" + strings.ToUpper(uuid.NewString()[:8])
}

// ListTickets lists support tickets. Super admins see every ticket; everyone
// else sees only their own.
// GET /api/tickets
func (h *Handler) ListTickets(c *gin.Context) {
	user := currentUser(c)

	q := h.db.Model(&models.SupportTicket{})
	switch auth.ListScope(auth.RoleFromString(user.Role), auth.ResourceTickets) {
	case auth.ScopeAll:
	case auth.ScopeSelf:
		q = q.Where("requester_id = ?", user.ID)
	default:
		respondError(c, apierrors.NewForbiddenError())
		return
	}

	var tickets []models.SupportTicket
	err := q.Preload("Requester").Preload("Assignee").Preload("Attachments").
		Order("created_at DESC").Find(&tickets).Error
	if err != nil {
		respondError(c, apierrors.NewInternalError(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"tickets": tickets})
}

// CreateTicket opens a support ticket for the caller
// POST /api/tickets
func (h *Handler) CreateTicket(c *gin.Context) {
	user := currentUser(c)

	var req struct {
		IssueCategory          string `json:"issue_category" binding:"required"`
		Priority               string `json:"priority"`
		IssueDescription       string `json:"issue_description" binding:"required"`
		InitialTroubleshooting string `json:"initial_troubleshooting"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	ticket := models.SupportTicket{
		TicketID:               newTicketRef(),
		RequesterID:            user.ID,
		IssueCategory:          req.IssueCategory,
		Priority:               req.Priority,
		IssueDescription:       req.IssueDescription,
		InitialTroubleshooting: req.InitialTroubleshooting,
		Status:                 "open",
	}
	if ticket.Priority == "" {
		ticket.Priority = "medium"
	}

	if err := h.db.Create(&ticket).Error; err != nil {
		// Ref collision is vanishingly rare; one retry covers it
		if isUniqueViolation(err) {
			ticket.TicketID = newTicketRef()
			err = h.db.Create(&ticket).Error
		}
		if err != nil {
			respondError(c, apierrors.NewInternalError(err))
			return
		}
	}

	h.audit(c, user, "create_ticket", "support_ticket", ticket.ID,
		models.JSONB{"ticket_id": ticket.TicketID})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Ticket created successfully!",
		"ticket":  ticket,
	})
}

// GetTicket returns one ticket the caller may see
// GET /api/tickets/:id
func (h *Handler) GetTicket(c *gin.Context) {
	user := currentUser(c)
	ticketID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var ticket models.SupportTicket
	err := h.db.Preload("Requester").Preload("Assignee").Preload("Attachments").
		First(&ticket, ticketID).Error
	if err != nil {
		respondError(c, apierrors.NewNotFoundError("Ticket"))
		return
	}
	if auth.RoleFromString(user.Role) != auth.RoleSuperAdmin && ticket.RequesterID != user.ID {
		respondError(c, apierrors.NewForbiddenError())
		return
	}

	c.JSON(http.StatusOK, gin.H{"ticket": ticket})
}

// UpdateTicket edits ticket status, assignment and resolution (super admin
// only). Setting a resolved status stamps the resolution date.
// PUT /api/tickets/:id
func (h *Handler) UpdateTicket(c *gin.Context) {
	user := currentUser(c)
	if auth.RoleFromString(user.Role) != auth.RoleSuperAdmin {
		respondError(c, apierrors.NewForbiddenError())
		return
	}

	ticketID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var ticket models.SupportTicket
	if err := h.db.First(&ticket, ticketID).Error; err != nil {
		respondError(c, apierrors.NewNotFoundError("Ticket"))
		return
	}

	var req struct {
		Status            *string `json:"status"`
		Priority          *string `json:"priority"`
		AssignedTo        *uint   `json:"assigned_to"`
		ResolutionDetails *string `json:"resolution_details"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	if req.Status != nil {
		ticket.Status = *req.Status
		if *req.Status == "resolved" || *req.Status == "closed" {
			now := time.Now()
			ticket.ResolutionDate = &now
		}
	}
	if req.Priority != nil {
		ticket.Priority = *req.Priority
	}
	if req.AssignedTo != nil {
		ticket.AssignedTo = req.AssignedTo
	}
	if req.ResolutionDetails != nil {
		ticket.ResolutionDetails = *req.ResolutionDetails
	}

	if err := h.db.Save(&ticket).Error; err != nil {
		respondError(c, apierrors.NewInternalError(err))
		return
	}

	h.audit(c, user, "update_ticket", "support_ticket", ticket.ID,
		models.JSONB{"ticket_id": ticket.TicketID})
	if req.Status != nil {
		h.notify(ticket.RequesterID, "ticket_update", "Ticket "+ticket.TicketID+" updated",
			"Your ticket is now "+ticket.Status, "")
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Ticket updated successfully!",
		"ticket":  ticket,
	})
}

// UploadTicketAttachment attaches a file to a ticket the caller may see
// POST /api/tickets/:id/attachments
func (h *Handler) UploadTicketAttachment(c *gin.Context) {
	user := currentUser(c)
	ticketID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var ticket models.SupportTicket
	if err := h.db.First(&ticket, ticketID).Error; err != nil {
		respondError(c, apierrors.NewNotFoundError("Ticket"))
		return
	}
	if auth.RoleFromString(user.Role) != auth.RoleSuperAdmin && ticket.RequesterID != user.ID {
		respondError(c, apierrors.NewForbiddenError())
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		respondError(c, apierrors.NewBadRequestError("file is required"))
		return
	}

	storedName := uuid.NewString() + filepath.Ext(file.Filename)
	dir := filepath.Join(h.uploadDir, "tickets")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		respondError(c, apierrors.NewInternalError(err))
		return
	}
	storedPath := filepath.Join(dir, storedName)
	if err := c.SaveUploadedFile(file, storedPath); err != nil {
		respondError(c, apierrors.NewInternalError(err))
		return
	}

	attachment := models.TicketAttachment{
		TicketID:   ticketID,
		FilePath:   storedPath,
		FileName:   filepath.Base(file.Filename),
		FileType:   file.Header.Get("Content-Type"),
		FileSize:   file.Size,
		UploadedBy: &user.ID,
	}
	if err := h.db.Create(&attachment).Error; err != nil {
		respondError(c, apierrors.NewInternalError(err))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Attachment uploaded successfully!",
		"attachment": attachment,
	})
}
