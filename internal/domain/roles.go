package domain

import (
	"sort"
	"strings"
)

// Role is the coarse account type of a user.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleStaff  Role = "staff"
	RoleViewer Role = "viewer"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleStaff, RoleViewer:
		return true
	}
	return false
}

// Permission is a "resource:action" grant.
type Permission string

const (
	PermClaimsRead     Permission = "claims:read"
	PermClaimsWrite    Permission = "claims:write"
	PermClaimsPurge    Permission = "claims:purge"
	PermFormsRead      Permission = "forms:read"
	PermFormsWrite     Permission = "forms:write"
	PermDocumentsRead  Permission = "documents:read"
	PermDocumentsWrite Permission = "documents:write"
	PermUsersManage    Permission = "users:manage"
)

// AllPermissions lists every known permission.
func AllPermissions() []Permission {
	return []Permission{
		PermClaimsRead, PermClaimsWrite, PermClaimsPurge,
		PermFormsRead, PermFormsWrite,
		PermDocumentsRead, PermDocumentsWrite,
		PermUsersManage,
	}
}

// Valid reports whether p is a known permission.
func (p Permission) Valid() bool {
	for _, k := range AllPermissions() {
		if p == k {
			return true
		}
	}
	return false
}

func (p Permission) split() (resource, action string) {
	resource, action, _ = strings.Cut(string(p), ":")
	return resource, action
}

// PermissionSet holds grants as nested JSON, resource -> action -> granted,
// e.g. {"claims":{"read":true,"write":true}}.
type PermissionSet map[string]map[string]bool

// NewPermissionSet builds a set from a list of permissions.
func NewPermissionSet(perms ...Permission) PermissionSet {
	ps := PermissionSet{}
	for _, p := range perms {
		ps.Grant(p)
	}
	return ps
}

// Grant adds p to the set.
func (ps PermissionSet) Grant(p Permission) {
	res, act := p.split()
	if ps[res] == nil {
		ps[res] = map[string]bool{}
	}
	ps[res][act] = true
}

// Has reports whether p is granted.
func (ps PermissionSet) Has(p Permission) bool {
	res, act := p.split()
	return ps[res][act]
}

// List returns the granted permissions in sorted order.
func (ps PermissionSet) List() []Permission {
	var out []Permission
	for res, acts := range ps {
		for act, ok := range acts {
			if ok {
				out = append(out, Permission(res+":"+act))
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

var roleGrants = map[Role][]Permission{
	RoleAdmin: AllPermissions(),
	RoleStaff: {
		PermClaimsRead, PermClaimsWrite,
		PermFormsRead, PermFormsWrite,
		PermDocumentsRead, PermDocumentsWrite,
	},
	RoleViewer: {PermClaimsRead, PermFormsRead, PermDocumentsRead},
}

// Effective merges the default grants of role with the stored extra grants.
func Effective(role Role, extra PermissionSet) PermissionSet {
	ps := NewPermissionSet(roleGrants[role]...)
	for _, p := range extra.List() {
		ps.Grant(p)
	}
	return ps
}

// Operation names a protected API action.
type Operation string

const (
	OpViewIdentity   Operation = "identity.view"
	OpReadForm       Operation = "forms.read"
	OpWriteForm      Operation = "forms.write"
	OpCreateClaim    Operation = "claims.create"
	OpReadClaim      Operation = "claims.read"
	OpUpdateClaim    Operation = "claims.update"
	OpDeleteClaim    Operation = "claims.delete"
	OpPurgeClaims    Operation = "claims.purge"
	OpReadDocuments  Operation = "documents.read"
	OpWriteDocuments Operation = "documents.write"
	OpRegisterUser   Operation = "users.register"
	OpListUsers      Operation = "users.list"
	OpDeleteUser     Operation = "users.delete"
	OpChangePassword Operation = "users.password"
)

// Policy maps each operation to the permission it requires. An empty
// requirement means any authenticated caller may proceed.
var Policy = map[Operation]Permission{
	OpViewIdentity:   "",
	OpReadForm:       PermFormsRead,
	OpWriteForm:      PermFormsWrite,
	OpCreateClaim:    PermClaimsWrite,
	OpReadClaim:      PermClaimsRead,
	OpUpdateClaim:    PermClaimsWrite,
	OpDeleteClaim:    PermClaimsPurge,
	OpPurgeClaims:    PermClaimsPurge,
	OpReadDocuments:  PermDocumentsRead,
	OpWriteDocuments: PermDocumentsWrite,
	OpRegisterUser:   PermUsersManage,
	OpListUsers:      PermUsersManage,
	OpDeleteUser:     PermUsersManage,
	// Self-service; the service checks users:manage for other accounts.
	OpChangePassword: "",
}

// Identity is the authenticated caller.
type Identity struct {
	UserID      uint          `json:"id"`
	Username    string        `json:"username"`
	Role        Role          `json:"role"`
	Permissions PermissionSet `json:"permissions"`
}

// Can reports whether the caller holds p, counting role defaults.
func (id Identity) Can(p Permission) bool {
	return Effective(id.Role, id.Permissions).Has(p)
}

// Allowed reports whether the caller may perform op. Operations missing
// from Policy are denied.
func (id Identity) Allowed(op Operation) bool {
	need, ok := Policy[op]
	if !ok {
		return false
	}
	return need == "" || id.Can(need)
}
