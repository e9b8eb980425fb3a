package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aethra/compliancepro/internal/models"
)

func TestCatalogWritesRequireSuperAdmin(t *testing.T) {
	env := newTestEnv(t)
	company := env.createCompany("Cat Co")
	admin := env.createUser("admin@cat.co", "client_admin", &company.ID)

	w := env.request(http.MethodPost, "/api/standards", env.token(admin), map[string]any{
		"name": "ISO 27001", "code": "ISO27001",
	})
	require.Equal(t, http.StatusForbidden, w.Code)

	// Reads are open to every role
	list := env.request(http.MethodGet, "/api/standards", env.token(admin), nil)
	require.Equal(t, http.StatusOK, list.Code)
}

func TestCreateStandardAndRequirements(t *testing.T) {
	env := newTestEnv(t)
	super := env.createUser("root@cat.io", "super_admin", nil)
	token := env.token(super)

	w := env.request(http.MethodPost, "/api/standards", token, map[string]any{
		"name": "PCI DSS", "code": "PCIDSS", "version": "4.0",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	dup := env.request(http.MethodPost, "/api/standards", token, map[string]any{
		"name": "PCI DSS again", "code": "PCIDSS",
	})
	require.Equal(t, http.StatusConflict, dup.Code)

	var standard models.ComplianceStandard
	require.NoError(t, env.db.Where("code = ?", "PCIDSS").First(&standard).Error)
	reqPath := fmt.Sprintf("/api/standards/%d/requirements", standard.ID)

	parent := env.request(http.MethodPost, reqPath, token, map[string]any{
		"requirement_number": "1", "title": "Network security controls",
	})
	require.Equal(t, http.StatusCreated, parent.Code)

	// Same number within a standard is rejected
	sameNumber := env.request(http.MethodPost, reqPath, token, map[string]any{
		"requirement_number": "1", "title": "Duplicate",
	})
	require.Equal(t, http.StatusConflict, sameNumber.Code)

	var parentRow models.Requirement
	require.NoError(t, env.db.Where("requirement_number = ?", "1").First(&parentRow).Error)

	child := env.request(http.MethodPost, reqPath, token, map[string]any{
		"requirement_number": "1.1", "title": "Firewall config", "parent_id": parentRow.ID,
	})
	require.Equal(t, http.StatusCreated, child.Code)

	// A parent outside the standard is rejected
	other := env.request(http.MethodPost, "/api/standards", token, map[string]any{
		"name": "SOC 2", "code": "SOC2",
	})
	require.Equal(t, http.StatusCreated, other.Code)
	var otherStandard models.ComplianceStandard
	require.NoError(t, env.db.Where("code = ?", "SOC2").First(&otherStandard).Error)

	crossParent := env.request(http.MethodPost,
		fmt.Sprintf("/api/standards/%d/requirements", otherStandard.ID), token, map[string]any{
			"requirement_number": "CC1", "title": "Cross parent", "parent_id": parentRow.ID,
		})
	require.Equal(t, http.StatusBadRequest, crossParent.Code)
}

func TestRequirementReparentCycleRejected(t *testing.T) {
	env := newTestEnv(t)
	super := env.createUser("root@cycle.io", "super_admin", nil)
	token := env.token(super)

	standard := models.ComplianceStandard{Name: "Cycle Std", Code: "CYC"}
	require.NoError(t, env.db.Create(&standard).Error)

	a := models.Requirement{ComplianceStandardID: standard.ID, RequirementNumber: "A", Title: "A"}
	require.NoError(t, env.db.Create(&a).Error)
	b := models.Requirement{ComplianceStandardID: standard.ID, RequirementNumber: "B", Title: "B", ParentID: &a.ID}
	require.NoError(t, env.db.Create(&b).Error)
	c := models.Requirement{ComplianceStandardID: standard.ID, RequirementNumber: "C", Title: "C", ParentID: &b.ID}
	require.NoError(t, env.db.Create(&c).Error)

	// A -> C would close the loop A -> C -> B -> A
	w := env.request(http.MethodPut, fmt.Sprintf("/api/requirements/%d", a.ID), token, map[string]any{
		"parent_id": c.ID,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	// Self-parenting is rejected outright
	self := env.request(http.MethodPut, fmt.Sprintf("/api/requirements/%d", a.ID), token, map[string]any{
		"parent_id": a.ID,
	})
	require.Equal(t, http.StatusBadRequest, self.Code)

	var reloaded models.Requirement
	require.NoError(t, env.db.First(&reloaded, a.ID).Error)
	assert.Nil(t, reloaded.ParentID)

	// A legal re-parent still works
	ok := env.request(http.MethodPut, fmt.Sprintf("/api/requirements/%d", c.ID), token, map[string]any{
		"parent_id": a.ID,
	})
	require.Equal(t, http.StatusOK, ok.Code)
}

func TestRequirementGroupMapping(t *testing.T) {
	env := newTestEnv(t)
	super := env.createUser("root@group.io", "super_admin", nil)
	token := env.token(super)

	standard := models.ComplianceStandard{Name: "Map Std", Code: "MAP"}
	require.NoError(t, env.db.Create(&standard).Error)
	requirement := models.Requirement{ComplianceStandardID: standard.ID, RequirementNumber: "M1", Title: "M1"}
	require.NoError(t, env.db.Create(&requirement).Error)

	created := env.request(http.MethodPost, "/api/requirement-groups", token, map[string]any{
		"name": "Access Control",
	})
	require.Equal(t, http.StatusCreated, created.Code)

	var group models.RequirementGroup
	require.NoError(t, env.db.Where("name = ?", "Access Control").First(&group).Error)

	mapPath := fmt.Sprintf("/api/requirement-groups/%d/requirements", group.ID)
	first := env.request(http.MethodPost, mapPath, token, map[string]any{"requirement_id": requirement.ID})
	require.Equal(t, http.StatusCreated, first.Code)

	second := env.request(http.MethodPost, mapPath, token, map[string]any{"requirement_id": requirement.ID})
	require.Equal(t, http.StatusConflict, second.Code)
}

func TestEvidenceItemRequirementMapping(t *testing.T) {
	env := newTestEnv(t)
	super := env.createUser("root@ev.io", "super_admin", nil)
	token := env.token(super)

	standard := models.ComplianceStandard{Name: "Ev Std", Code: "EV"}
	require.NoError(t, env.db.Create(&standard).Error)
	requirement := models.Requirement{ComplianceStandardID: standard.ID, RequirementNumber: "E1", Title: "E1"}
	require.NoError(t, env.db.Create(&requirement).Error)

	created := env.request(http.MethodPost, "/api/evidence-items", token, map[string]any{
		"name": "Firewall ruleset export", "evidence_type": "document",
	})
	require.Equal(t, http.StatusCreated, created.Code)

	var item models.EvidenceItem
	require.NoError(t, env.db.Where("name = ?", "Firewall ruleset export").First(&item).Error)

	mapPath := fmt.Sprintf("/api/evidence-items/%d/requirements", item.ID)
	first := env.request(http.MethodPost, mapPath, token, map[string]any{"requirement_id": requirement.ID})
	require.Equal(t, http.StatusCreated, first.Code)

	second := env.request(http.MethodPost, mapPath, token, map[string]any{"requirement_id": requirement.ID})
	require.Equal(t, http.StatusConflict, second.Code)
}
