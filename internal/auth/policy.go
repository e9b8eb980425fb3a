// Package auth - role-based access policy
package auth

// Role is the closed set of platform roles. Any role string outside the two
// administrative roles is treated as a restricted member.
type Role string

const (
	RoleSuperAdmin  Role = "super_admin"
	RoleClientAdmin Role = "client_admin"
	RoleMember      Role = "member"
)

// RoleFromString maps a stored role string onto the closed enumeration
func RoleFromString(s string) Role {
	switch s {
	case string(RoleSuperAdmin):
		return RoleSuperAdmin
	case string(RoleClientAdmin):
		return RoleClientAdmin
	default:
		return RoleMember
	}
}

// Resource names a policy-controlled resource class
type Resource string

const (
	ResourceUsers           Resource = "users"
	ResourceCompanies       Resource = "companies"
	ResourceProjects        Resource = "projects"
	ResourceCatalog         Resource = "catalog"
	ResourceVulnerabilities Resource = "vulnerabilities"
	ResourceTickets         Resource = "tickets"
	ResourceAuditLogs       Resource = "audit_logs"
)

// Scope selects the visibility predicate a list query must apply
type Scope int

const (
	// ScopeNone forbids the listing outright
	ScopeNone Scope = iota
	// ScopeSelf restricts to rows belonging to the caller
	ScopeSelf
	// ScopeAssigned restricts to rows the caller is explicitly assigned to
	ScopeAssigned
	// ScopeCompany restricts to the caller's company
	ScopeCompany
	// ScopeAll imposes no restriction
	ScopeAll
)

type rule struct {
	list   Scope
	create bool
}

// policy is the single authorization table. Handlers consult it through
// ListScope and CanCreate and never re-derive role rules locally.
var policy = map[Role]map[Resource]rule{
	RoleSuperAdmin: {
		ResourceUsers:           {list: ScopeAll, create: true},
		ResourceCompanies:       {list: ScopeAll, create: true},
		ResourceProjects:        {list: ScopeAll, create: true},
		ResourceCatalog:         {list: ScopeAll, create: true},
		ResourceVulnerabilities: {list: ScopeAll, create: true},
		ResourceTickets:         {list: ScopeAll, create: true},
		ResourceAuditLogs:       {list: ScopeAll, create: false},
	},
	RoleClientAdmin: {
		ResourceUsers:           {list: ScopeCompany, create: true},
		ResourceCompanies:       {list: ScopeCompany, create: false},
		ResourceProjects:        {list: ScopeCompany, create: true},
		ResourceCatalog:         {list: ScopeAll, create: false},
		ResourceVulnerabilities: {list: ScopeCompany, create: true},
		ResourceTickets:         {list: ScopeSelf, create: true},
		ResourceAuditLogs:       {list: ScopeNone, create: false},
	},
	RoleMember: {
		ResourceUsers:           {list: ScopeNone, create: false},
		ResourceCompanies:       {list: ScopeCompany, create: false},
		ResourceProjects:        {list: ScopeAssigned, create: false},
		ResourceCatalog:         {list: ScopeAll, create: false},
		ResourceVulnerabilities: {list: ScopeCompany, create: false},
		ResourceTickets:         {list: ScopeSelf, create: true},
		ResourceAuditLogs:       {list: ScopeNone, create: false},
	},
}

// ListScope returns the visibility scope for listing a resource
func ListScope(role Role, res Resource) Scope {
	if rules, ok := policy[role]; ok {
		if r, ok := rules[res]; ok {
			return r.list
		}
	}
	return ScopeNone
}

// CanCreate reports whether the role may create the resource at all.
// Company-scoping of the created row is applied separately via ClampsCompany.
func CanCreate(role Role, res Resource) bool {
	if rules, ok := policy[role]; ok {
		if r, ok := rules[res]; ok {
			return r.create
		}
	}
	return false
}

// ClampsCompany reports whether a company id supplied by this role is
// silently overridden to the caller's own company. This is a deliberate
// clamp, not a validation error.
func ClampsCompany(role Role) bool {
	return role == RoleClientAdmin
}
