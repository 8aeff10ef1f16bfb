package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID                   uuid.UUID  `json:"id"`
	IdentityKey          string     `json:"identity_key"`
	Email                string     `json:"email"`
	Name                 string     `json:"name"`
	PhotoURL             *string    `json:"photo_url,omitempty"`
	Role                 Role       `json:"role"`
	HasStoragePermission bool       `json:"has_storage_permission"`
	PermissionGrantedAt  *time.Time `json:"permission_granted_at,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// IsAdmin is the boolean view of the role kept for API compatibility.
// The role column is the single source of truth.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
