// Package access decides which resources a user may reach based on the
// account status and role.
package access

import (
	"net/http"
	"slices"

	"zamflow/internal/users"
)

// Decision is the outcome of a gate check.
type Decision int

const (
	Allow Decision = iota
	DenyUnauthenticated
	DenyNoProfile
	DenyPending
	DenyRejected
	DenyRole
)

// Status maps a decision to its HTTP status code.
func (d Decision) Status() int {
	switch d {
	case Allow:
		return http.StatusOK
	case DenyUnauthenticated:
		return http.StatusUnauthorized
	default:
		return http.StatusForbidden
	}
}

// Message is the client-facing reason for a denial.
func (d Decision) Message() string {
	switch d {
	case Allow:
		return ""
	case DenyUnauthenticated:
		return "authentication required"
	case DenyNoProfile:
		return "user profile not found"
	case DenyPending:
		return "account pending approval"
	case DenyRejected:
		return "account rejected"
	default:
		return "insufficient role"
	}
}

// Redirect is the page a browser client is sent to on denial.
func (d Decision) Redirect() string {
	switch d {
	case DenyUnauthenticated, DenyRejected:
		return "/login"
	case DenyPending:
		return "/pending"
	case DenyRole:
		return "/dashboard"
	default:
		return ""
	}
}

// Rule describes what a resource requires beyond an active account.
type Rule struct {
	AdminOnly bool
	Roles     []users.Role
}

// Common rules.
var (
	AnyActive     = Rule{}
	ManagersAndUp = Rule{Roles: []users.Role{users.RoleAdmin, users.RoleManager}}
	AdminOnly     = Rule{AdminOnly: true}
)

// Authorize checks profile against rule. authenticated reports whether a
// valid identity was presented at all.
func Authorize(authenticated bool, profile *users.User, rule Rule) Decision {
	if !authenticated {
		return DenyUnauthenticated
	}
	if profile == nil {
		return DenyNoProfile
	}
	switch profile.Status {
	case users.StatusPending:
		return DenyPending
	case users.StatusRejected:
		return DenyRejected
	case users.StatusActive:
	default:
		return DenyPending
	}
	if rule.AdminOnly && profile.Role != users.RoleAdmin {
		return DenyRole
	}
	if len(rule.Roles) > 0 && !slices.Contains(rule.Roles, profile.Role) {
		return DenyRole
	}
	return Allow
}

// NavItem is an entry of the application menu.
type NavItem struct {
	Name  string       `json:"name"`
	Path  string       `json:"path"`
	Roles []users.Role `json:"roles"`
}

var allRoles = []users.Role{users.RoleAdmin, users.RoleManager, users.RoleSalesperson}

var navigation = []NavItem{
	{Name: "Dashboard", Path: "/dashboard", Roles: allRoles},
	{Name: "Sales", Path: "/sales", Roles: allRoles},
	{Name: "Sales History", Path: "/sales-history", Roles: allRoles},
	{Name: "Products", Path: "/products", Roles: ManagersAndUp.Roles},
	{Name: "Analytics", Path: "/analytics", Roles: ManagersAndUp.Roles},
	{Name: "Admin Panel", Path: "/admin", Roles: []users.Role{users.RoleAdmin}},
}

// Navigation returns the menu items visible to role.
func Navigation(role users.Role) []NavItem {
	out := make([]NavItem, 0, len(navigation))
	for _, item := range navigation {
		if slices.Contains(item.Roles, role) {
			out = append(out, item)
		}
	}
	return out
}
