package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aethra/compliancepro/internal/models"
)

func TestCreateProjectClampsClientAdminCompany(t *testing.T) {
	env := newTestEnv(t)
	own := env.createCompany("Own Co")
	other := env.createCompany("Other Co")
	pt := env.createProjectType("PCIDSS")
	admin := env.createUser("admin@own.co", "client_admin", &own.ID)

	w := env.request(http.MethodPost, "/api/projects", env.token(admin), map[string]any{
		"name":            "Sneaky Project",
		"project_type_id": pt.ID,
		"company_id":      other.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var project models.Project
	require.NoError(t, env.db.Where("name = ?", "Sneaky Project").First(&project).Error)
	// The supplied foreign company id is silently overridden, not rejected
	assert.Equal(t, own.ID, project.CompanyID)
	assert.Equal(t, "in_progress", project.Status)
}

func TestCreateProjectWithOwnerIsAtomic(t *testing.T) {
	env := newTestEnv(t)
	company := env.createCompany("Atomic Co")
	pt := env.createProjectType("EPT")
	super := env.createUser("root@platform.io", "super_admin", nil)

	w := env.request(http.MethodPost, "/api/projects", env.token(super), map[string]any{
		"name":             "Doomed Project",
		"project_type_id":  pt.ID,
		"company_id":       company.ID,
		"project_owner_id": 99999,
	})
	require.NotEqual(t, http.StatusCreated, w.Code)

	// The owner insert failed, so the project insert must be rolled back too
	var count int64
	env.db.Model(&models.Project{}).Where("name = ?", "Doomed Project").Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestCreateProjectWithOwnerSucceeds(t *testing.T) {
	env := newTestEnv(t)
	company := env.createCompany("Pair Co")
	pt := env.createProjectType("IVA")
	super := env.createUser("root2@platform.io", "super_admin", nil)
	owner := env.createUser("owner@pair.co", "member", &company.ID)

	w := env.request(http.MethodPost, "/api/projects", env.token(super), map[string]any{
		"name":             "Paired Project",
		"project_type_id":  pt.ID,
		"company_id":       company.ID,
		"project_owner_id": owner.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var project models.Project
	require.NoError(t, env.db.Where("name = ?", "Paired Project").First(&project).Error)
	var assignment models.ProjectUser
	require.NoError(t, env.db.Where("project_id = ?", project.ID).First(&assignment).Error)
	assert.Equal(t, owner.ID, assignment.UserID)
	assert.Equal(t, "project_owner", assignment.Role)
}

func TestMemberCannotCreateProject(t *testing.T) {
	env := newTestEnv(t)
	company := env.createCompany("Member Co")
	pt := env.createProjectType("ASA")
	member := env.createUser("member@member.co", "member", &company.ID)

	w := env.request(http.MethodPost, "/api/projects", env.token(member), map[string]any{
		"name":            "Nope",
		"project_type_id": pt.ID,
		"company_id":      company.ID,
	})
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestListProjectsScoping(t *testing.T) {
	env := newTestEnv(t)
	companyA := env.createCompany("A Co")
	companyB := env.createCompany("B Co")
	pt := env.createProjectType("SPT")

	projectA1 := env.createProject("A1", companyA.ID, pt.ID)
	env.createProject("A2", companyA.ID, pt.ID)
	env.createProject("B1", companyB.ID, pt.ID)

	super := env.createUser("root@scope.io", "super_admin", nil)
	adminA := env.createUser("admin@a.co", "client_admin", &companyA.ID)
	memberA := env.createUser("member@a.co", "member", &companyA.ID)
	require.NoError(t, env.db.Create(&models.ProjectUser{
		ProjectID: projectA1.ID, UserID: memberA.ID, Role: "contributor",
	}).Error)

	cases := []struct {
		token string
		want  int
	}{
		{env.token(super), 3},
		{env.token(adminA), 2},
		{env.token(memberA), 1},
	}
	for i, tc := range cases {
		w := env.request(http.MethodGet, "/api/projects", tc.token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		projects := decodeBody(t, w)["projects"].([]any)
		assert.Len(t, projects, tc.want, "case %d", i)
	}

	// The member's visible project embeds its company and type
	w := env.request(http.MethodGet, "/api/projects", env.token(memberA), nil)
	project := decodeBody(t, w)["projects"].([]any)[0].(map[string]any)
	require.NotNil(t, project["company"])
	assert.Equal(t, "A Co", project["company"].(map[string]any)["name"])
	require.NotNil(t, project["project_type"])
}

func TestAddProjectUserDuplicate(t *testing.T) {
	env := newTestEnv(t)
	company := env.createCompany("Dup Co")
	pt := env.createProjectType("DUP")
	project := env.createProject("Dup Project", company.ID, pt.ID)
	admin := env.createUser("admin@dup.co", "client_admin", &company.ID)
	member := env.createUser("member@dup.co", "member", &company.ID)

	path := fmt.Sprintf("/api/projects/%d/users", project.ID)
	first := env.request(http.MethodPost, path, env.token(admin), map[string]any{
		"user_id": member.ID, "role": "contributor",
	})
	require.Equal(t, http.StatusCreated, first.Code)

	second := env.request(http.MethodPost, path, env.token(admin), map[string]any{
		"user_id": member.ID, "role": "contributor",
	})
	require.Equal(t, http.StatusConflict, second.Code)

	// Assignment notifies the assigned user
	var notifications []models.Notification
	require.NoError(t, env.db.Where("user_id = ?", member.ID).Find(&notifications).Error)
	assert.Len(t, notifications, 1)
}

func TestProjectPlanLifecycle(t *testing.T) {
	env := newTestEnv(t)
	company := env.createCompany("Plan Co")
	pt := env.createProjectType("PLN")
	project := env.createProject("Planned", company.ID, pt.ID)
	admin := env.createUser("admin@plan.co", "client_admin", &company.ID)
	token := env.token(admin)

	planPath := fmt.Sprintf("/api/projects/%d/plan", project.ID)

	missing := env.request(http.MethodGet, planPath, token, nil)
	require.Equal(t, http.StatusNotFound, missing.Code)

	created := env.request(http.MethodPost, planPath, token, map[string]any{
		"start_date":         "2026-09-01",
		"estimated_end_date": "2026-12-15",
	})
	require.Equal(t, http.StatusCreated, created.Code)

	// One plan per project
	dup := env.request(http.MethodPost, planPath, token, map[string]any{
		"start_date": "2026-10-01",
	})
	require.Equal(t, http.StatusConflict, dup.Code)

	var plan models.ProjectPlan
	require.NoError(t, env.db.Where("project_id = ?", project.ID).First(&plan).Error)

	milestone := env.request(http.MethodPost, fmt.Sprintf("/api/plans/%d/milestones", plan.ID), token, map[string]any{
		"name":     "Gap assessment",
		"due_date": "2026-10-10",
		"status":   "pending",
	})
	require.Equal(t, http.StatusCreated, milestone.Code)

	got := env.request(http.MethodGet, planPath, token, nil)
	require.Equal(t, http.StatusOK, got.Code)
	planPayload := decodeBody(t, got)["plan"].(map[string]any)
	milestones := planPayload["milestones"].([]any)
	assert.Len(t, milestones, 1)
}
