// Package api - Router setup
package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/aethra/compliancepro/internal/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(handler *Handler, cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)
	r := gin.Default()

	// CORS - when credentials are used, specific origins must be provided
	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	r.Use(cors.New(corsConfig))

	// Public endpoints
	r.GET("/", handler.Index)
	r.GET("/api/health", handler.Health)

	// ==========================================================================
	// AUTH API - no token required
	// ==========================================================================
	authRoutes := r.Group("/api/auth")
	{
		authRoutes.POST("/register", handler.Register)
		authRoutes.POST("/login", handler.Login)
	}

	// ==========================================================================
	// PROTECTED API - every route below requires a valid bearer token
	// ==========================================================================
	api := r.Group("/api")
	api.Use(handler.RequireAuth())
	{
		// Session
		api.GET("/auth/me", handler.Me)
		api.POST("/auth/change-password", handler.ChangePassword)

		// Organizations
		api.GET("/companies", handler.ListCompanies)
		api.POST("/companies", handler.CreateCompany)
		api.GET("/users", handler.ListUsers)
		api.POST("/users", handler.CreateUser)

		// Projects
		api.GET("/projects", handler.ListProjects)
		api.POST("/projects", handler.CreateProject)
		api.GET("/projects/:id/users", handler.ListProjectUsers)
		api.POST("/projects/:id/users", handler.AddProjectUser)
		api.GET("/projects/:id/plan", handler.GetProjectPlan)
		api.POST("/projects/:id/plan", handler.CreateProjectPlan)
		api.POST("/plans/:id/milestones", handler.CreateMilestone)

		// Catalog
		api.GET("/project-types", handler.ListProjectTypes)
		api.POST("/project-types", handler.CreateProjectType)
		api.GET("/standards", handler.ListStandards)
		api.POST("/standards", handler.CreateStandard)
		api.GET("/standards/:id/requirements", handler.ListRequirements)
		api.POST("/standards/:id/requirements", handler.CreateRequirement)
		api.PUT("/requirements/:id", handler.UpdateRequirement)
		api.GET("/requirement-groups", handler.ListRequirementGroups)
		api.POST("/requirement-groups", handler.CreateRequirementGroup)
		api.POST("/requirement-groups/:id/requirements", handler.MapGroupRequirement)
		api.GET("/evidence-items", handler.ListEvidenceItems)
		api.POST("/evidence-items", handler.CreateEvidenceItem)
		api.POST("/evidence-items/:id/requirements", handler.MapEvidenceRequirement)

		// Project evidence & SOA
		api.GET("/projects/:id/evidences", handler.ListProjectEvidences)
		api.POST("/projects/:id/evidences", handler.AddProjectEvidence)
		api.POST("/evidences/:id/uploads", handler.UploadEvidence)
		api.PUT("/evidence-uploads/:id/review", handler.ReviewEvidenceUpload)
		api.GET("/projects/:id/soa", handler.ListSOA)
		api.POST("/projects/:id/soa", handler.CreateSOAEntry)

		// Remediation tracking
		api.GET("/projects/:id/action-items", handler.ListActionItems)
		api.POST("/projects/:id/action-items", handler.CreateActionItem)
		api.PUT("/action-items/:id", handler.UpdateActionItem)
		api.POST("/action-items/:id/evidences", handler.UploadActionEvidence)

		// Security testing
		api.GET("/projects/:id/scopes", handler.ListTestingScopes)
		api.POST("/projects/:id/scopes", handler.CreateTestingScope)
		api.GET("/vulnerabilities", handler.ListVulnerabilities)
		api.POST("/vulnerabilities", handler.CreateVulnerability)
		api.GET("/projects/:id/scan-results", handler.ListScanResults)
		api.POST("/projects/:id/scan-results", handler.CreateScanResult)

		// Support
		api.GET("/tickets", handler.ListTickets)
		api.POST("/tickets", handler.CreateTicket)
		api.GET("/tickets/:id", handler.GetTicket)
		api.PUT("/tickets/:id", handler.UpdateTicket)
		api.POST("/tickets/:id/attachments", handler.UploadTicketAttachment)

		// Notifications
		api.GET("/notifications", handler.ListNotifications)
		api.POST("/notifications/read-all", handler.MarkAllNotificationsRead)
		api.PUT("/notifications/:id/read", handler.MarkNotificationRead)
		api.GET("/notification-settings", handler.ListNotificationSettings)
		api.PUT("/notification-settings", handler.UpsertNotificationSetting)

		// Audit trail
		api.GET("/audit-logs", handler.ListAuditLogs)
	}

	return r
}
