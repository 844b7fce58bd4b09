package domain

import "time"

// AccountRole enumerates who may sign in to the CRM.
type AccountRole string

const (
	AccountRoleHomeowner AccountRole = "HOMEOWNER"
	AccountRoleStaff     AccountRole = "STAFF"
	AccountRoleBuilder   AccountRole = "BUILDER"
	AccountRoleAdmin     AccountRole = "ADMIN"
)

// IsInternal reports whether the role belongs to warranty staff.
func (r AccountRole) IsInternal() bool {
	return r == AccountRoleStaff || r == AccountRoleAdmin
}

// Account is a login identity. HomeownerID links homeowner accounts to their
// record; BuilderID pins builder accounts to one builder group.
type Account struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         AccountRole
	HomeownerID  *string
	BuilderID    *string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
