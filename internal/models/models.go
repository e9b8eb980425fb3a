// Package models contains the persisted entities of the compliance platform.
package models

import (
	"time"
)

// =============================================================================
// ORGANIZATION MODELS
// =============================================================================

// Company represents a client organization
type Company struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null;size:255"`
	LogoPath  string    `json:"logo_path" gorm:"size:255"`
	Address   string    `json:"address" gorm:"type:text"`
	IsActive  bool      `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// User represents a platform user. Role is super_admin, client_admin or a
// restricted member role; CompanyID is nil only for super admins.
type User struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	Email        string     `json:"email" gorm:"uniqueIndex;not null;size:255"`
	PasswordHash string     `json:"-" gorm:"column:password;not null;size:255"`
	Name         string     `json:"name" gorm:"not null;size:255"`
	Phone        string     `json:"phone" gorm:"size:50"`
	Designation  string     `json:"designation" gorm:"size:255"`
	CompanyID    *uint      `json:"company_id" gorm:"index"`
	Role         string     `json:"role" gorm:"not null;size:50"`
	IsActive     bool       `json:"is_active" gorm:"default:true"`
	LastLogin    *time.Time `json:"last_login"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	Company *Company `json:"company,omitempty" gorm:"foreignKey:CompanyID"`
}

// =============================================================================
// PROJECT MODELS
// =============================================================================

// ProjectType is a catalog entry describing a kind of engagement
type ProjectType struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"not null;size:255"`
	Code        string    `json:"code" gorm:"uniqueIndex;not null;size:50"`
	Category    string    `json:"category" gorm:"size:50"`
	IsAuditable bool      `json:"is_auditable" gorm:"default:true"`
	CreatedBy   *uint     `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Project represents an audit or assessment engagement for a company
type Project struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	Name          string    `json:"name" gorm:"not null;size:255"`
	CompanyID     uint      `json:"company_id" gorm:"not null;index"`
	ProjectTypeID uint      `json:"project_type_id" gorm:"not null;index"`
	Status        string    `json:"status" gorm:"size:50"`
	CreatedBy     *uint     `json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	Company     *Company     `json:"company,omitempty" gorm:"foreignKey:CompanyID"`
	ProjectType *ProjectType `json:"project_type,omitempty" gorm:"foreignKey:ProjectTypeID"`
}

// ProjectUser assigns a user to a project with a project-level role.
// Unique per (project, user).
type ProjectUser struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ProjectID uint      `json:"project_id" gorm:"not null;uniqueIndex:idx_project_user"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_project_user"`
	Role      string    `json:"role" gorm:"size:50"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// ProjectPlan is the one-to-one schedule for a project
type ProjectPlan struct {
	ID               uint       `json:"id" gorm:"primaryKey"`
	ProjectID        uint       `json:"project_id" gorm:"not null;uniqueIndex"`
	StartDate        time.Time  `json:"start_date" gorm:"type:date;not null"`
	EstimatedEndDate *time.Time `json:"estimated_end_date" gorm:"type:date"`
	ActualEndDate    *time.Time `json:"actual_end_date" gorm:"type:date"`
	CreatedBy        *uint      `json:"created_by"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	Milestones []Milestone `json:"milestones,omitempty" gorm:"foreignKey:ProjectPlanID"`
}

// Milestone is a dated checkpoint within a project plan
type Milestone struct {
	ID            uint       `json:"id" gorm:"primaryKey"`
	ProjectPlanID uint       `json:"project_plan_id" gorm:"not null;index"`
	Name          string     `json:"name" gorm:"not null;size:255"`
	Description   string     `json:"description" gorm:"type:text"`
	DueDate       *time.Time `json:"due_date" gorm:"type:date"`
	Status        string     `json:"status" gorm:"size:50"`
	CreatedBy     *uint      `json:"created_by"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
