package model

import (
	"slices"
	"strings"
	"time"
)

// Role is the account type chosen at registration.
type Role string

const (
	RoleTenant Role = "tenant"
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
)

// Roles lists every role a user may hold.
var Roles = []Role{RoleTenant, RoleOwner, RoleAdmin}

// ParseRole returns the role named by s and whether it is one of Roles.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.TrimSpace(s))
	return r, r.Valid()
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return slices.Contains(Roles, r)
}

// User represents a registered account.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	FirstName    string    `json:"first_name" gorm:"size:100;not null"`
	LastName     string    `json:"last_name" gorm:"size:100;not null"`
	Phone        string    `json:"phone,omitempty" gorm:"size:30"`
	Role         Role      `json:"user_type" gorm:"column:user_type;type:varchar(20);not null;index"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// DisplayName is the name shown in the session and page headers.
func (u *User) DisplayName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Initials returns the upper-cased first letters of the first and last name.
func (u *User) Initials() string {
	return initial(u.FirstName) + initial(u.LastName)
}

func initial(s string) string {
	for _, r := range strings.TrimSpace(s) {
		return strings.ToUpper(string(r))
	}
	return ""
}
