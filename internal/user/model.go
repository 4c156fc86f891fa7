package user

import (
	"time"

	"github.com/uptrace/bun"
)

// Role is the closed set of account roles
type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleAdmin:
		return true
	default:
		return false
	}
}

// ParseRole maps an input string onto a Role; empty means student
func ParseRole(s string) (Role, error) {
	if s == "" {
		return RoleStudent, nil
	}
	role := Role(s)
	if !role.Valid() {
		return "", ErrInvalidRole
	}
	return role, nil
}

type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID        int       `bun:"id,pk,autoincrement" json:"id"`
	Email     string    `bun:"email,unique,notnull" json:"email"`
	Password  string    `bun:"hashed_password,notnull" json:"-"` // Never expose password in JSON
	FullName  string    `bun:"full_name,notnull" json:"full_name"`
	Role      Role      `bun:"role,notnull,default:'student'" json:"role"`
	CollegeID *int      `bun:"college_id" json:"college_id"`
	IsActive  bool      `bun:"is_active,notnull,default:true" json:"is_active"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}
