package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const (
	// ResetRequestedStatus marks a reset that has been issued but not used
	ResetRequestedStatus = "requested"
	// ResetChangedStatus marks a reset consumed by a password change
	ResetChangedStatus = "changed"
)

// PasswordReset is a single-use, time-bounded reset record. Its row id is
// the opaque token handed to the account owner.
type PasswordReset struct {
	bun.BaseModel `bun:"table:password_resets,alias:pwdr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	UserID        *uuid.UUID `bun:"user_id,notnull" json:"user_id,omitempty"`
	User          *User      `bun:"rel:has-one,join:user_id=id" json:"user,omitempty"`
	Status        string     `bun:"status,notnull" json:"status,omitempty"`
	Email         string     `bun:"email,notnull" json:"email,omitempty"`
	ResetedAt     *time.Time `bun:"reseted_at,nullzero" json:"reseted_at,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt     *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// Expired reports whether the record is outside its validity window.
func (r *PasswordReset) Expired(ttl time.Duration, now time.Time) bool {
	if r.CreatedAt == nil {
		return true
	}
	return now.Sub(*r.CreatedAt) > ttl
}

// Consumed reports whether the reset was already used.
func (r *PasswordReset) Consumed() bool {
	return r.Status != ResetRequestedStatus
}
