// Package api - notifications, notification settings and the audit trail
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aethra/compliancepro/internal/auth"
	apierrors "github.com/aethra/compliancepro/internal/errors"
	"github.com/aethra/compliancepro/internal/models"
)

// =============================================================================
// NOTIFICATIONS
// =============================================================================

// ListNotifications lists the caller's inbox, newest first
// GET /api/notifications
func (h *Handler) ListNotifications(c *gin.Context) {
	user := currentUser(c)

	var notifications []models.Notification
	err := h.db.Where("user_id = ?", user.ID).
		Order("created_at DESC").Find(&notifications).Error
	if err != nil {
		respondError(c, apierrors.NewInternalError(err))
		return
	}

	var unread int64
	h.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", user.ID, false).Count(&unread)

	c.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
		"unread_count":  unread,
	})
}

// MarkNotificationRead marks one of the caller's notifications as read
// PUT /api/notifications/:id/read
func (h *Handler) MarkNotificationRead(c *gin.Context) {
	user := currentUser(c)
	notificationID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var notification models.Notification
	err := h.db.Where("id = ? AND user_id = ?", notificationID, user.ID).
		First(&notification).Error
	if err != nil {
		respondError(c, apierrors.NewNotFoundError("Notification"))
		return
	}

	if err := h.db.Model(&notification).Update("is_read", true).Error; err != nil {
		respondError(c, apierrors.NewInternalError(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read!"})
}

// MarkAllNotificationsRead marks the caller's whole inbox as read
// POST /api/notifications/read-all
func (h *Handler) MarkAllNotificationsRead(c *gin.Context) {
	user := currentUser(c)

	err := h.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", user.ID, false).
		Update("is_read", true).Error
	if err != nil {
		respondError(c, apierrors.NewInternalError(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "All notifications marked as read!"})
}

// =============================================================================
// NOTIFICATION SETTINGS
// =============================================================================

// ListNotificationSettings lists the caller's notification preferences
// GET /api/notification-settings
func (h *Handler) ListNotificationSettings(c *gin.Context) {
	user := currentUser(c)

	var settings []models.NotificationSetting
	if err := h.db.Where("user_id = ?", user.ID).Find(&settings).Error; err != nil {
		respondError(c, apierrors.NewInternalError(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// UpsertNotificationSetting creates or updates the caller's preference for
// one notification type
// PUT /api/notification-settings
func (h *Handler) UpsertNotificationSetting(c *gin.Context) {
	user := currentUser(c)

	var req struct {
		NotificationType string `json:"notification_type" binding:"required"`
		IsEnabled        *bool  `json:"is_enabled"`
		Frequency        string `json:"frequency"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	var setting models.NotificationSetting
	err := h.db.Where("user_id = ? AND notification_type = ?", user.ID, req.NotificationType).
		First(&setting).Error
	if err != nil {
		setting = models.NotificationSetting{
			UserID:           user.ID,
			NotificationType: req.NotificationType,
			IsEnabled:        true,
		}
	}
	if req.IsEnabled != nil {
		setting.IsEnabled = *req.IsEnabled
	}
	if req.Frequency != "" {
		setting.Frequency = req.Frequency
	}

	if err := h.db.Save(&setting).Error; err != nil {
		respondError(c, apierrors.NewInternalError(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Notification setting saved!",
		"setting": setting,
	})
}

// notify drops an inbox entry for a user, honoring their preference for the
// type. Notification failures never fail the request that triggered them.
func (h *Handler) notify(userID uint, notificationType, title, message, link string) {
	var setting models.NotificationSetting
	err := h.db.Where("user_id = ? AND notification_type = ?", userID, notificationType).
		First(&setting).Error
	if err == nil && !setting.IsEnabled {
		return
	}

	h.db.Create(&models.Notification{
		UserID:           userID,
		NotificationType: notificationType,
		Title:            title,
		Message:          message,
		Link:             link,
	})
}

// =============================================================================
// AUDIT TRAIL
// =============================================================================

// ListAuditLogs lists the audit trail, newest first (super admin only)
// GET /api/audit-logs
func (h *Handler) ListAuditLogs(c *gin.Context) {
	user := currentUser(c)
	if auth.ListScope(auth.RoleFromString(user.Role), auth.ResourceAuditLogs) != auth.ScopeAll {
		respondError(c, apierrors.NewForbiddenError())
		return
	}

	q := h.db.Model(&models.AuditLog{})
	if entityType := c.Query("entity_type"); entityType != "" {
		q = q.Where("entity_type = ?", entityType)
	}
	if action := c.Query("action"); action != "" {
		q = q.Where("action = ?", action)
	}

	var logs []models.AuditLog
	if err := q.Preload("User").Order("created_at DESC").Limit(500).Find(&logs).Error; err != nil {
		respondError(c, apierrors.NewInternalError(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"audit_logs": logs})
}
