package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ProjectStatus is a fixed project lifecycle state
type ProjectStatus = string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectOnHold    ProjectStatus = "on_hold"
	ProjectCompleted ProjectStatus = "completed"
	ProjectArchived  ProjectStatus = "archived"
)

// ValidProjectStatus checks the status against the closed set
func ValidProjectStatus(s ProjectStatus) bool {
	switch s {
	case ProjectActive, ProjectOnHold, ProjectCompleted, ProjectArchived:
		return true
	default:
		return false
	}
}

// Project is the project model
type Project struct {
	bun.BaseModel `bun:"table:projects,alias:prj"`
	ID            uuid.UUID     `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Name          string        `bun:"name,notnull" json:"name,omitempty"`
	Description   string        `bun:"description" json:"description,omitempty"`
	Status        ProjectStatus `bun:"status,notnull" json:"status,omitempty"`
	OwnerID       *uuid.UUID    `bun:"owner_id" json:"owner_id,omitempty"`
	Owner         *User         `bun:"rel:has-one,join:owner_id=id" json:"owner,omitempty"`
	CreatedAt     *time.Time    `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time    `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt     *time.Time    `bun:"deleted_at,soft_delete,nullzero" json:"-"`
}
