package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// UserRole is the user's role
type UserRole = string

const (
	// RoleAdmin can manage users, projects, and tasks
	RoleAdmin UserRole = "admin"
	// RoleEmployee can view projects and work assigned tasks
	RoleEmployee UserRole = "employee"
)

// ValidRole checks the role against the closed set
func ValidRole(r UserRole) bool {
	switch r {
	case RoleAdmin, RoleEmployee:
		return true
	default:
		return false
	}
}

// Department is a fixed organizational unit
type Department = string

const (
	DepartmentEngineering Department = "engineering"
	DepartmentDesign      Department = "design"
	DepartmentMarketing   Department = "marketing"
	DepartmentOperations  Department = "operations"
	DepartmentHR          Department = "hr"
	DepartmentFinance     Department = "finance"
)

// ValidDepartment checks the department against the closed set
func ValidDepartment(d Department) bool {
	switch d {
	case DepartmentEngineering, DepartmentDesign, DepartmentMarketing,
		DepartmentOperations, DepartmentHR, DepartmentFinance:
		return true
	default:
		return false
	}
}

// User is the user model
type User struct {
	bun.BaseModel  `bun:"table:users,alias:usr"`
	ID             uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Role           UserRole   `bun:"user_role,notnull" json:"role,omitempty"`
	Name           string     `bun:"name,notnull" json:"name,omitempty"`
	Email          string     `bun:"email,notnull,unique" json:"email,omitempty"`
	Department     Department `bun:"department" json:"department,omitempty"`
	EmployeeID     string     `bun:"employee_id" json:"employee_id,omitempty"`
	ContactNumber  string     `bun:"contact_number" json:"contact_number,omitempty"`
	IsActive       bool       `bun:"is_active,notnull,default:true" json:"is_active"`
	PasswordHash   string     `bun:"password_hash" json:"-"`
	LoginAttempts  int        `bun:"login_attempts" json:"-"`
	LoginAttemptAt *time.Time `bun:"login_attempt_at" json:"-"`
	LoggedInAt     *time.Time `bun:"loggedin_at" json:"-"`
	CreatedAt      *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt      *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt      *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"-"`
}

// NormalizeEmail trims and lowercases an email identifier
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// PublicProfile is the subset of a user record safe to return to clients
type PublicProfile struct {
	ID            uuid.UUID  `json:"id"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	Role          UserRole   `json:"role"`
	Department    Department `json:"department,omitempty"`
	EmployeeID    string     `json:"employee_id,omitempty"`
	ContactNumber string     `json:"contact_number,omitempty"`
	IsActive      bool       `json:"is_active"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}

// Public maps the record to its client-safe shape. The password hash and
// deletion metadata never leave the repository layer.
func (u *User) Public() PublicProfile {
	return PublicProfile{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		Role:          u.Role,
		Department:    u.Department,
		EmployeeID:    u.EmployeeID,
		ContactNumber: u.ContactNumber,
		IsActive:      u.IsActive,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}
