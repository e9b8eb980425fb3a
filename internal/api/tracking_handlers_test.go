package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aethra/compliancepro/internal/models"
)

func TestActionItemLifecycle(t *testing.T) {
	env := newTestEnv(t)
	company := env.createCompany("Act Co")
	pt := env.createProjectType("ACT")
	project := env.createProject("Act Project", company.ID, pt.ID)
	admin := env.createUser("admin@act.co", "client_admin", &company.ID)
	assignee := env.createUser("fixer@act.co", "member", &company.ID)
	token := env.token(admin)

	path := fmt.Sprintf("/api/projects/%d/action-items", project.ID)
	created := env.request(http.MethodPost, path, token, map[string]any{
		"action_point": "Rotate all shared credentials",
		"observation":  "Shared credentials found in wiki",
		"severity":     "high",
		"assigned_to":  assignee.ID,
		"target_date":  "2026-10-01",
	})
	require.Equal(t, http.StatusCreated, created.Code)

	var item models.ActionItem
	require.NoError(t, env.db.Where("project_id = ?", project.ID).First(&item).Error)
	assert.Equal(t, "open", item.Status)
	require.NotNil(t, item.TargetDate)

	// Assignment produced an inbox entry
	var count int64
	env.db.Model(&models.Notification{}).Where("user_id = ?", assignee.ID).Count(&count)
	assert.Equal(t, int64(1), count)

	updated := env.request(http.MethodPut, fmt.Sprintf("/api/action-items/%d", item.ID), token, map[string]any{
		"status": "closed",
	})
	require.Equal(t, http.StatusOK, updated.Code)
	require.NoError(t, env.db.First(&item, item.ID).Error)
	assert.Equal(t, "closed", item.Status)

	upload := env.multipartUpload(fmt.Sprintf("/api/action-items/%d/evidences", item.ID), token,
		"proof.png", []byte("png-bytes"))
	require.Equal(t, http.StatusCreated, upload.Code)

	var evidence models.ActionEvidence
	require.NoError(t, env.db.Where("action_item_id = ?", item.ID).First(&evidence).Error)
	assert.Equal(t, "proof.png", evidence.FileName)

	list := env.request(http.MethodGet, path, token, nil)
	require.Equal(t, http.StatusOK, list.Code)
	items := decodeBody(t, list)["action_items"].([]any)
	require.Len(t, items, 1)
	evidences := items[0].(map[string]any)["evidences"].([]any)
	assert.Len(t, evidences, 1)
}

func TestMemberCannotMutateAssignedProject(t *testing.T) {
	env := newTestEnv(t)
	company := env.createCompany("RO Co")
	pt := env.createProjectType("RO")
	project := env.createProject("RO Project", company.ID, pt.ID)
	member := env.createUser("member@ro.co", "member", &company.ID)
	require.NoError(t, env.db.Create(&models.ProjectUser{
		ProjectID: project.ID, UserID: member.ID, Role: "contributor",
	}).Error)
	token := env.token(member)

	// Reads on the assigned project succeed
	list := env.request(http.MethodGet,
		fmt.Sprintf("/api/projects/%d/action-items", project.ID), token, nil)
	require.Equal(t, http.StatusOK, list.Code)

	// Writes do not
	w := env.request(http.MethodPost,
		fmt.Sprintf("/api/projects/%d/action-items", project.ID), token, map[string]any{
			"action_point": "Nope",
		})
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestVulnerabilityScopingAndClamp(t *testing.T) {
	env := newTestEnv(t)
	companyA := env.createCompany("Vuln A")
	companyB := env.createCompany("Vuln B")
	super := env.createUser("root@vuln.io", "super_admin", nil)
	adminA := env.createUser("admin@vulna.co", "client_admin", &companyA.ID)

	// Shared catalog row, no company
	shared := env.request(http.MethodPost, "/api/vulnerabilities", env.token(super), map[string]any{
		"cve_id": "CVE-2026-0001", "name": "OpenSSL overflow", "cvss_score": 9.8,
	})
	require.Equal(t, http.StatusCreated, shared.Code)

	// Client admin's row is clamped to their own company even if they claim B
	clamped := env.request(http.MethodPost, "/api/vulnerabilities", env.token(adminA), map[string]any{
		"name": "Custom weak config", "is_custom": true, "company_id": companyB.ID,
	})
	require.Equal(t, http.StatusCreated, clamped.Code)

	var custom models.Vulnerability
	require.NoError(t, env.db.Where("name = ?", "Custom weak config").First(&custom).Error)
	require.NotNil(t, custom.CompanyID)
	assert.Equal(t, companyA.ID, *custom.CompanyID)

	// A company B row exists but is invisible to company A
	require.NoError(t, env.db.Create(&models.Vulnerability{
		Name: "B-only issue", CompanyID: &companyB.ID,
	}).Error)

	list := env.request(http.MethodGet, "/api/vulnerabilities", env.token(adminA), nil)
	require.Equal(t, http.StatusOK, list.Code)
	vulns := decodeBody(t, list)["vulnerabilities"].([]any)
	assert.Len(t, vulns, 2)

	all := env.request(http.MethodGet, "/api/vulnerabilities", env.token(super), nil)
	assert.Len(t, decodeBody(t, all)["vulnerabilities"].([]any), 3)
}

func TestScanResultScopeMustMatchProject(t *testing.T) {
	env := newTestEnv(t)
	company := env.createCompany("Scan Co")
	pt := env.createProjectType("SCN")
	project := env.createProject("Scan Project", company.ID, pt.ID)
	other := env.createProject("Other Project", company.ID, pt.ID)
	admin := env.createUser("admin@scan.co", "client_admin", &company.ID)
	token := env.token(admin)

	scope := models.TestingScope{ProjectID: project.ID, ScopeType: "ip_range", ScopeValue: "10.0.0.0/24"}
	require.NoError(t, env.db.Create(&scope).Error)
	foreignScope := models.TestingScope{ProjectID: other.ID, ScopeType: "url", ScopeValue: "https://other.example"}
	require.NoError(t, env.db.Create(&foreignScope).Error)
	vuln := models.Vulnerability{Name: "SQL injection"}
	require.NoError(t, env.db.Create(&vuln).Error)

	path := fmt.Sprintf("/api/projects/%d/scan-results", project.ID)

	wrongScope := env.request(http.MethodPost, path, token, map[string]any{
		"scope_id": foreignScope.ID, "vulnerability_id": vuln.ID,
	})
	require.Equal(t, http.StatusBadRequest, wrongScope.Code)

	ok := env.request(http.MethodPost, path, token, map[string]any{
		"scope_id": scope.ID, "vulnerability_id": vuln.ID, "proof_of_concept": "payload in /search",
	})
	require.Equal(t, http.StatusCreated, ok.Code)

	list := env.request(http.MethodGet, path, token, nil)
	require.Equal(t, http.StatusOK, list.Code)
	results := decodeBody(t, list)["scan_results"].([]any)
	require.Len(t, results, 1)
	result := results[0].(map[string]any)
	require.NotNil(t, result["vulnerability"])
	assert.Equal(t, "SQL injection", result["vulnerability"].(map[string]any)["name"])
	require.NotNil(t, result["scope"])
}

func TestTestingScopeCreateAndList(t *testing.T) {
	env := newTestEnv(t)
	company := env.createCompany("Scope Co")
	pt := env.createProjectType("SCP")
	project := env.createProject("Scope Project", company.ID, pt.ID)
	admin := env.createUser("admin@scope.co", "client_admin", &company.ID)
	token := env.token(admin)

	path := fmt.Sprintf("/api/projects/%d/scopes", project.ID)
	w := env.request(http.MethodPost, path, token, map[string]any{
		"scope_type": "ip_range", "scope_value": "192.168.1.0/24",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	list := env.request(http.MethodGet, path, token, nil)
	require.Equal(t, http.StatusOK, list.Code)
	assert.Len(t, decodeBody(t, list)["scopes"].([]any), 1)
}
