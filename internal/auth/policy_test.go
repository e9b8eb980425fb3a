package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleFromString(t *testing.T) {
	assert.Equal(t, RoleSuperAdmin, RoleFromString("super_admin"))
	assert.Equal(t, RoleClientAdmin, RoleFromString("client_admin"))
	assert.Equal(t, RoleMember, RoleFromString("member"))

	// Anything outside the closed set degrades to the restricted role
	assert.Equal(t, RoleMember, RoleFromString("auditor"))
	assert.Equal(t, RoleMember, RoleFromString(""))
}

func TestListScope(t *testing.T) {
	assert.Equal(t, ScopeAll, ListScope(RoleSuperAdmin, ResourceProjects))
	assert.Equal(t, ScopeCompany, ListScope(RoleClientAdmin, ResourceProjects))
	assert.Equal(t, ScopeAssigned, ListScope(RoleMember, ResourceProjects))

	assert.Equal(t, ScopeAll, ListScope(RoleSuperAdmin, ResourceAuditLogs))
	assert.Equal(t, ScopeNone, ListScope(RoleClientAdmin, ResourceAuditLogs))
	assert.Equal(t, ScopeNone, ListScope(RoleMember, ResourceUsers))

	assert.Equal(t, ScopeSelf, ListScope(RoleClientAdmin, ResourceTickets))
	assert.Equal(t, ScopeSelf, ListScope(RoleMember, ResourceTickets))
}

func TestCanCreate(t *testing.T) {
	assert.True(t, CanCreate(RoleSuperAdmin, ResourceCompanies))
	assert.False(t, CanCreate(RoleClientAdmin, ResourceCompanies))

	assert.True(t, CanCreate(RoleClientAdmin, ResourceUsers))
	assert.True(t, CanCreate(RoleClientAdmin, ResourceProjects))
	assert.False(t, CanCreate(RoleClientAdmin, ResourceCatalog))

	assert.False(t, CanCreate(RoleMember, ResourceProjects))
	assert.True(t, CanCreate(RoleMember, ResourceTickets))

	// Unknown resource never grants anything
	assert.False(t, CanCreate(RoleSuperAdmin, Resource("unknown")))
}

func TestClampsCompany(t *testing.T) {
	assert.False(t, ClampsCompany(RoleSuperAdmin))
	assert.True(t, ClampsCompany(RoleClientAdmin))
	assert.False(t, ClampsCompany(RoleMember))
}
