// Package models - compliance standards, requirements and evidence tracking
package models

import (
	"time"
)

// =============================================================================
// STANDARD & REQUIREMENT MODELS
// =============================================================================

// ComplianceStandard is a framework such as PCI DSS or ISO 27001
type ComplianceStandard struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"not null;size:255"`
	Code        string    `json:"code" gorm:"uniqueIndex;not null;size:50"`
	Description string    `json:"description" gorm:"type:text"`
	Version     string    `json:"version" gorm:"size:50"`
	CreatedBy   *uint     `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Requirement is a single control of a standard. Requirements form a tree
// through ParentID; the store does not prevent cycles, so writers must check
// the parent chain before insert or update. Unique per (standard, number).
type Requirement struct {
	ID                   uint      `json:"id" gorm:"primaryKey"`
	ComplianceStandardID uint      `json:"compliance_standard_id" gorm:"not null;uniqueIndex:idx_standard_number"`
	RequirementNumber    string    `json:"requirement_number" gorm:"not null;size:50;uniqueIndex:idx_standard_number"`
	Title                string    `json:"title" gorm:"not null;size:255"`
	Description          string    `json:"description" gorm:"type:text"`
	ParentID             *uint     `json:"parent_id" gorm:"index"`
	CreatedBy            *uint     `json:"created_by"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// RequirementGroup bundles requirements across standards
type RequirementGroup struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"not null;size:255"`
	Description string    `json:"description" gorm:"type:text"`
	CreatedBy   *uint     `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RequirementGroupMapping links a requirement into a group, unique per pair
type RequirementGroupMapping struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	GroupID       uint      `json:"group_id" gorm:"not null;uniqueIndex:idx_group_requirement"`
	RequirementID uint      `json:"requirement_id" gorm:"not null;uniqueIndex:idx_group_requirement"`
	CreatedBy     *uint     `json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`

	Requirement *Requirement `json:"requirement,omitempty" gorm:"foreignKey:RequirementID"`
}

// =============================================================================
// EVIDENCE MODELS
// =============================================================================

// EvidenceItem is a catalog entry describing a type of evidence
type EvidenceItem struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"not null;size:255"`
	Description  string    `json:"description" gorm:"type:text"`
	EvidenceType string    `json:"evidence_type" gorm:"size:100"`
	SubItem      string    `json:"sub_item" gorm:"size:100"`
	CreatedBy    *uint     `json:"created_by"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// EvidenceRequirementMapping links an evidence item to a requirement it can
// satisfy, unique per pair
type EvidenceRequirementMapping struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	EvidenceID    uint      `json:"evidence_id" gorm:"not null;uniqueIndex:idx_evidence_requirement"`
	RequirementID uint      `json:"requirement_id" gorm:"not null;uniqueIndex:idx_evidence_requirement"`
	CreatedBy     *uint     `json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`

	Requirement *Requirement `json:"requirement,omitempty" gorm:"foreignKey:RequirementID"`
}

// ProjectEvidence tracks one evidence item collected for one project, unique
// per (project, evidence item)
type ProjectEvidence struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	ProjectID  uint      `json:"project_id" gorm:"not null;uniqueIndex:idx_project_evidence"`
	EvidenceID uint      `json:"evidence_id" gorm:"not null;uniqueIndex:idx_project_evidence"`
	Status     string    `json:"status" gorm:"size:50"`
	AssignedTo *uint     `json:"assigned_to"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	EvidenceItem *EvidenceItem    `json:"evidence_item,omitempty" gorm:"foreignKey:EvidenceID"`
	Uploads      []EvidenceUpload `json:"uploads,omitempty" gorm:"foreignKey:ProjectEvidenceID"`
}

// EvidenceUpload records the metadata of an uploaded evidence file. The blob
// itself lives in external storage; only the path is stored here.
type EvidenceUpload struct {
	ID                uint       `json:"id" gorm:"primaryKey"`
	ProjectEvidenceID uint       `json:"project_evidence_id" gorm:"not null;index"`
	FilePath          string     `json:"file_path" gorm:"not null;size:255"`
	FileName          string     `json:"file_name" gorm:"not null;size:255"`
	FileType          string     `json:"file_type" gorm:"size:50"`
	FileSize          int64      `json:"file_size"`
	Status            string     `json:"status" gorm:"size:50"`
	Comments          string     `json:"comments" gorm:"type:text"`
	UploadedBy        *uint      `json:"uploaded_by"`
	ReviewedBy        *uint      `json:"reviewed_by"`
	UploadedAt        time.Time  `json:"uploaded_at" gorm:"autoCreateTime"`
	ReviewedAt        *time.Time `json:"reviewed_at"`
}

// SOA is a project's statement-of-applicability entry for one requirement,
// unique per (project, requirement)
type SOA struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	ProjectID     uint      `json:"project_id" gorm:"not null;uniqueIndex:idx_project_requirement"`
	RequirementID uint      `json:"requirement_id" gorm:"not null;uniqueIndex:idx_project_requirement"`
	IsApplicable  bool      `json:"is_applicable" gorm:"default:true"`
	Justification string    `json:"justification" gorm:"type:text"`
	CreatedBy     *uint     `json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	Requirement *Requirement `json:"requirement,omitempty" gorm:"foreignKey:RequirementID"`
}

// TableName keeps the original singular table name
func (SOA) TableName() string {
	return "soa"
}
