package domain

import "time"

// Role enumerates the three capability tiers.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleTechnician Role = "technician"
	RoleEndUser    Role = "end-user"
)

// ValidRole reports whether r is one of the enumerated roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleAdmin, RoleTechnician, RoleEndUser:
		return true
	}
	return false
}

// User is the domain model for anyone who signs in: requesters,
// technicians and admins. Email, name and role are pointers because a
// just-authenticated identity carries none of them until profile setup.
type User struct {
	ID           string
	Email        *string
	Name         *string
	Role         *Role
	Department   *string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// EffectiveRole resolves the user's role, defaulting to the most
// restrictive tier when none has been assigned yet.
func (u *User) EffectiveRole() Role {
	if u == nil || u.Role == nil {
		return RoleEndUser
	}
	return *u.Role
}

// Provisioned reports whether profile setup has completed. A user with
// no name must finish setup before using the rest of the system.
func (u *User) Provisioned() bool {
	return u != nil && u.Name != nil && *u.Name != ""
}

// DisplayName returns the user's name or an empty string.
func (u *User) DisplayName() string {
	if u == nil || u.Name == nil {
		return ""
	}
	return *u.Name
}

// EmailOrEmpty returns the user's email or an empty string.
func (u *User) EmailOrEmpty() string {
	if u == nil || u.Email == nil {
		return ""
	}
	return *u.Email
}
