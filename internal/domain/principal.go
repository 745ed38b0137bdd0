package domain

import (
	"fmt"
	"time"
)

type Role string

const (
	RoleStudent   Role = "student"
	RoleProfessor Role = "professor"
)

func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleProfessor
}

func ParseRole(s string) (Role, error) {
	role := Role(s)
	if !role.Valid() {
		return "", fmt.Errorf("%w: unknown role %q", ErrBadRequest, s)
	}
	return role, nil
}

// Principal is a registered account. Role never changes after registration.
type Principal struct {
	ID                  uint
	Name                string
	Handle              string
	PasswordHash        string
	Role                Role
	InstitutionalNumber string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Member is the roster view of a principal.
type Member struct {
	UserID uint   `json:"userId"`
	Handle string `json:"handle"`
	Role   Role   `json:"role"`
}

func (p *Principal) Member() Member {
	return Member{UserID: p.ID, Handle: p.Handle, Role: p.Role}
}

// AuthenticatedConnection is the identity resolved once when a client connects.
type AuthenticatedConnection struct {
	ID     string
	UserID uint
	Role   Role
	Handle string
}

func (c AuthenticatedConnection) Member() Member {
	return Member{UserID: c.UserID, Handle: c.Handle, Role: c.Role}
}

// TokenPair is issued on register, login and refresh.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	Role         Role   `json:"role"`
}
