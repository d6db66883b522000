// internal/domain/models/role.go
package models

// Role is the closed set of membership roles within an organization.
// It is stored as a string in MongoDB but only the three constants below
// are valid; free-form role strings are rejected at the store layer.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// Valid reports whether r is one of the recognized roles.
func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleMember:
		return true
	}
	return false
}

// Privileged reports whether r counts toward an organization's
// admin-or-owner total (the last-admin guard).
func (r Role) Privileged() bool {
	return r == RoleOwner || r == RoleAdmin
}
