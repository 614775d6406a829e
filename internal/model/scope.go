package model

import "github.com/google/uuid"

type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleOperator Role = "OPERATOR"
	RoleDriver   Role = "DRIVER"
)

type Principal struct {
	UserID uuid.UUID
	OrgID  *uuid.UUID
	Role   Role
}

func (p Principal) IsAdmin() bool  { return p.Role == RoleAdmin }
func (p Principal) IsDriver() bool { return p.Role == RoleDriver }

// Scope restricts reads and writes to one organization. A nil OrganizationID
// means city-wide access (admins only); there is no ambient or global
// scoping state.
type Scope struct {
	OrganizationID *uuid.UUID
}

func (p Principal) Scope() Scope {
	if p.IsAdmin() {
		return Scope{}
	}
	return Scope{OrganizationID: p.OrgID}
}

func (s Scope) CityWide() bool { return s.OrganizationID == nil }
