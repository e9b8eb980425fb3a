// Package models - remediation, vulnerability and scan tracking
package models

import (
	"time"
)

// =============================================================================
// ACTION ITEM MODELS
// =============================================================================

// ActionItem is a remediation task raised against a project, optionally tied
// to a requirement
type ActionItem struct {
	ID                 uint       `json:"id" gorm:"primaryKey"`
	ProjectID          uint       `json:"project_id" gorm:"not null;index"`
	RequirementID      *uint      `json:"requirement_id"`
	Observation        string     `json:"observation" gorm:"type:text"`
	ActionPoint        string     `json:"action_point" gorm:"type:text;not null"`
	Severity           string     `json:"severity" gorm:"size:50"`
	Status             string     `json:"status" gorm:"size:50"`
	AssignedTo         *uint      `json:"assigned_to"`
	Department         string     `json:"department" gorm:"size:100"`
	TargetDate         *time.Time `json:"target_date" gorm:"type:date"`
	IsEvidenceRequired bool       `json:"is_evidence_required" gorm:"default:false"`
	CreatedBy          *uint      `json:"created_by"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`

	Requirement *Requirement     `json:"requirement,omitempty" gorm:"foreignKey:RequirementID"`
	Evidences   []ActionEvidence `json:"evidences,omitempty" gorm:"foreignKey:ActionItemID"`
}

// ActionEvidence records a file proving an action item was remediated
type ActionEvidence struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	ActionItemID uint       `json:"action_item_id" gorm:"not null;index"`
	FilePath     string     `json:"file_path" gorm:"not null;size:255"`
	FileName     string     `json:"file_name" gorm:"not null;size:255"`
	FileType     string     `json:"file_type" gorm:"size:50"`
	FileSize     int64      `json:"file_size"`
	Status       string     `json:"status" gorm:"size:50"`
	Comments     string     `json:"comments" gorm:"type:text"`
	UploadedBy   *uint      `json:"uploaded_by"`
	ReviewedBy   *uint      `json:"reviewed_by"`
	UploadedAt   time.Time  `json:"uploaded_at" gorm:"autoCreateTime"`
	ReviewedAt   *time.Time `json:"reviewed_at"`
}

// =============================================================================
// VULNERABILITY & SCAN MODELS
// =============================================================================

// TestingScope is a testing boundary within a project, e.g. an IP range or URL
type TestingScope struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	ProjectID  uint      `json:"project_id" gorm:"not null;index"`
	ScopeType  string    `json:"scope_type" gorm:"size:50"`
	ScopeValue string    `json:"scope_value" gorm:"type:text;not null"`
	CreatedBy  *uint     `json:"created_by"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Vulnerability is a known weakness, either from the public catalog or custom,
// optionally scoped to a company or project
type Vulnerability struct {
	ID               uint       `json:"id" gorm:"primaryKey"`
	CVEID            string     `json:"cve_id" gorm:"column:cve_id;size:50"`
	Name             string     `json:"name" gorm:"not null;size:255"`
	CVSSScore        *float64   `json:"cvss_score" gorm:"column:cvss_score;type:numeric(3,1)"`
	AffectedSystems  string     `json:"affected_systems" gorm:"type:text"`
	Description      string     `json:"description" gorm:"type:text"`
	Status           string     `json:"status" gorm:"size:50"`
	RemediationSteps string     `json:"remediation_steps" gorm:"type:text"`
	DatePublished    *time.Time `json:"date_published" gorm:"type:date"`
	DatePatched      *time.Time `json:"date_patched" gorm:"type:date"`
	IsCustom         bool       `json:"is_custom" gorm:"default:false"`
	CompanyID        *uint      `json:"company_id" gorm:"index"`
	ProjectID        *uint      `json:"project_id" gorm:"index"`
	CreatedBy        *uint      `json:"created_by"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// ScanResult ties a vulnerability finding to a project scope
type ScanResult struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	ProjectID       uint      `json:"project_id" gorm:"not null;index"`
	ScopeID         uint      `json:"scope_id" gorm:"not null;index"`
	VulnerabilityID uint      `json:"vulnerability_id" gorm:"not null;index"`
	ProofOfConcept  string    `json:"proof_of_concept" gorm:"type:text"`
	Status          string    `json:"status" gorm:"size:50"`
	ScanDate        time.Time `json:"scan_date" gorm:"autoCreateTime"`
	CreatedBy       *uint     `json:"created_by"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	Vulnerability *Vulnerability `json:"vulnerability,omitempty" gorm:"foreignKey:VulnerabilityID"`
	Scope         *TestingScope  `json:"scope,omitempty" gorm:"foreignKey:ScopeID"`
}
