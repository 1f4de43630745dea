package model

import "time"

// User represents an application user record as stored in the
// `users` table. The struct carries no json tags: handlers expose a
// separate public profile that never includes the password hash.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email (unique)
	PasswordHash string    // users.password_hash (bcrypt)
	FirstName    string    // users.first_name
	LastName     string    // users.last_name
	Role         Role      // users.role
	Department   *string   // users.department (nullable)
	EmployeeID   *string   // users.employee_id (nullable)
	Phone        *string   // users.phone (nullable)
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// Identity is the verified caller derived from a bearer token. It is
// passed explicitly into every service operation.
type Identity struct {
	UserID uint64
	Email  string
	Role   Role
}

// IsAdmin reports whether the caller may perform review transitions.
func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }
