// Package database provides connection setup and schema migration
package database

import (
	"errors"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/aethra/compliancepro/internal/config"
	"github.com/aethra/compliancepro/internal/models"
)

// Connect opens the PostgreSQL database. TranslateError is enabled so
// uniqueness violations surface as gorm.ErrDuplicatedKey.
func Connect(cfg config.DatabaseConfig) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
}

// Migrate creates or updates every table of the schema
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Company{},
		&models.User{},
		&models.ProjectType{},
		&models.Project{},
		&models.ProjectUser{},
		&models.ProjectPlan{},
		&models.Milestone{},
		&models.ComplianceStandard{},
		&models.Requirement{},
		&models.RequirementGroup{},
		&models.RequirementGroupMapping{},
		&models.EvidenceItem{},
		&models.EvidenceRequirementMapping{},
		&models.ProjectEvidence{},
		&models.EvidenceUpload{},
		&models.SOA{},
		&models.ActionItem{},
		&models.ActionEvidence{},
		&models.TestingScope{},
		&models.Vulnerability{},
		&models.ScanResult{},
		&models.SupportTicket{},
		&models.TicketAttachment{},
		&models.AuditLog{},
		&models.NotificationSetting{},
		&models.Notification{},
	)
}

// IsUniqueViolation reports whether err is a uniqueness-constraint failure.
// Concurrent inserts of the same constrained pair are resolved here: the
// database rejects the second insert and the handler answers 409.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// Fallback for drivers without error translation
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
