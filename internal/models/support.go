// Package models - support tickets, audit trail and notifications
package models

import (
	"time"
)

// =============================================================================
// SUPPORT MODELS
// =============================================================================

// SupportTicket is a help-desk request raised by a user
type SupportTicket struct {
	ID                     uint       `json:"id" gorm:"primaryKey"`
	TicketID               string     `json:"ticket_id" gorm:"uniqueIndex;not null;size:50"`
	RequesterID            uint       `json:"requester_id" gorm:"not null;index"`
	IssueCategory          string     `json:"issue_category" gorm:"not null;size:100"`
	Priority               string     `json:"priority" gorm:"size:50"`
	IssueDescription       string     `json:"issue_description" gorm:"type:text;not null"`
	InitialTroubleshooting string     `json:"initial_troubleshooting" gorm:"type:text"`
	Status                 string     `json:"status" gorm:"size:50"`
	AssignedTo             *uint      `json:"assigned_to"`
	ResolutionDetails      string     `json:"resolution_details" gorm:"type:text"`
	ResolutionDate         *time.Time `json:"resolution_date"`
	CreatedAt              time.Time  `json:"created_at"`
	UpdatedAt              time.Time  `json:"updated_at"`

	Requester   *User              `json:"requester,omitempty" gorm:"foreignKey:RequesterID"`
	Assignee    *User              `json:"assignee,omitempty" gorm:"foreignKey:AssignedTo"`
	Attachments []TicketAttachment `json:"attachments,omitempty" gorm:"foreignKey:TicketID"`
}

// TicketAttachment records a file attached to a support ticket
type TicketAttachment struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	TicketID   uint      `json:"ticket_id" gorm:"not null;index"`
	FilePath   string    `json:"file_path" gorm:"not null;size:255"`
	FileName   string    `json:"file_name" gorm:"not null;size:255"`
	FileType   string    `json:"file_type" gorm:"size:50"`
	FileSize   int64     `json:"file_size"`
	UploadedBy *uint     `json:"uploaded_by"`
	UploadedAt time.Time `json:"uploaded_at" gorm:"autoCreateTime"`
}

// =============================================================================
// AUDIT & NOTIFICATION MODELS
// =============================================================================

// AuditLog is an append-only record of a mutation performed through the API
type AuditLog struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UserID     *uint     `json:"user_id" gorm:"index"`
	Action     string    `json:"action" gorm:"not null;size:255"`
	EntityType string    `json:"entity_type" gorm:"not null;size:50;index"`
	EntityID   uint      `json:"entity_id" gorm:"not null"`
	Details    JSONB     `json:"details" gorm:"type:jsonb"`
	IPAddress  string    `json:"ip_address" gorm:"size:50"`
	UserAgent  string    `json:"user_agent" gorm:"type:text"`
	CreatedAt  time.Time `json:"created_at" gorm:"index"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// NotificationSetting is a per-user preference for one notification type,
// unique per (user, type)
type NotificationSetting struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	UserID           uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_user_notification_type"`
	NotificationType string    `json:"notification_type" gorm:"not null;size:100;uniqueIndex:idx_user_notification_type"`
	IsEnabled        bool      `json:"is_enabled" gorm:"default:true"`
	Frequency        string    `json:"frequency" gorm:"size:50"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Notification is an inbox entry for a user
type Notification struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	UserID           uint      `json:"user_id" gorm:"not null;index"`
	NotificationType string    `json:"notification_type" gorm:"not null;size:100"`
	Title            string    `json:"title" gorm:"not null;size:255"`
	Message          string    `json:"message" gorm:"type:text;not null"`
	IsRead           bool      `json:"is_read" gorm:"default:false"`
	Link             string    `json:"link" gorm:"size:255"`
	CreatedAt        time.Time `json:"created_at"`
}
