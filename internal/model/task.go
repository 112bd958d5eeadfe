package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// TaskStatus is a fixed task workflow state
type TaskStatus = string

const (
	TaskTodo       TaskStatus = "todo"
	TaskInProgress TaskStatus = "in_progress"
	TaskInReview   TaskStatus = "in_review"
	TaskDone       TaskStatus = "done"
)

// ValidTaskStatus checks the status against the closed set
func ValidTaskStatus(s TaskStatus) bool {
	switch s {
	case TaskTodo, TaskInProgress, TaskInReview, TaskDone:
		return true
	default:
		return false
	}
}

// Task is the task model
type Task struct {
	bun.BaseModel `bun:"table:tasks,alias:tsk"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	ProjectID     uuid.UUID  `bun:"project_id,notnull,type:uuid" json:"project_id,omitempty"`
	Project       *Project   `bun:"rel:has-one,join:project_id=id" json:"project,omitempty"`
	AssigneeID    *uuid.UUID `bun:"assignee_id,type:uuid" json:"assignee_id,omitempty"`
	Assignee      *User      `bun:"rel:has-one,join:assignee_id=id" json:"assignee,omitempty"`
	Title         string     `bun:"title,notnull" json:"title,omitempty"`
	Description   string     `bun:"description" json:"description,omitempty"`
	Status        TaskStatus `bun:"status,notnull" json:"status,omitempty"`
	DueAt         *time.Time `bun:"due_at,nullzero" json:"due_at,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt     *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"-"`
}
