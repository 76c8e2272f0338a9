package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role is the staff role. ADVISOR and PROCEDURE_CLERK are agent roles bound
// to exactly one service category; ADMIN never holds agent state and never
// appears in assignment logic.
type Role string

const (
	RoleAdmin          Role = "ADMIN"
	RoleAdvisor        Role = "ADVISOR"
	RoleProcedureClerk Role = "PROCEDURE_CLERK"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleAdvisor, RoleProcedureClerk:
		return true
	}
	return false
}

// AgentEligible reports whether users with this role serve tickets.
func (r Role) AgentEligible() bool {
	return r == RoleAdvisor || r == RoleProcedureClerk
}

// CategoryForRole resolves the fixed role-to-category bijection. The mapping
// is not configurable: PROCEDURE_CLERK serves PROCEDURE, ADVISOR serves
// ADVISORY.
func CategoryForRole(r Role) (ServiceCategory, bool) {
	switch r {
	case RoleProcedureClerk:
		return ServiceCategoryProcedure, true
	case RoleAdvisor:
		return ServiceCategoryAdvisory, true
	}
	return "", false
}

// RoleForCategory is the inverse of CategoryForRole.
func RoleForCategory(c ServiceCategory) (Role, bool) {
	switch c {
	case ServiceCategoryProcedure:
		return RoleProcedureClerk, true
	case ServiceCategoryAdvisory:
		return RoleAdvisor, true
	}
	return "", false
}

// User is a staff account. Password storage and session transport live in
// adapters; the domain only carries the hash for credential checks.
type User struct {
	UserID       uuid.UUID `json:"user_id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	DisplayName  string    `json:"display_name"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
