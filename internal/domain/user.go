package domain

import (
	"time"

	"gorm.io/datatypes"
)

// User is a login account. Username is stored case-folded.
type User struct {
	ID           uint                              `json:"id"          gorm:"primaryKey"`
	Username     string                            `json:"username"    gorm:"type:varchar(150);not null;uniqueIndex"`
	PasswordHash string                            `json:"-"           gorm:"type:varchar(255);not null"`
	Role         Role                              `json:"role"        gorm:"type:varchar(32);not null;default:'staff'"`
	Permissions  datatypes.JSONType[PermissionSet] `json:"permissions"`
	CreatedAt    time.Time                         `json:"created_at"`
	UpdatedAt    time.Time                         `json:"updated_at"`
}

// TableName implements the GORM tabler interface.
func (User) TableName() string { return "users" }

// Identity returns the caller view of u.
func (u *User) Identity() Identity {
	perms := u.Permissions.Data()
	if perms == nil {
		perms = PermissionSet{}
	}
	return Identity{
		UserID:      u.ID,
		Username:    u.Username,
		Role:        u.Role,
		Permissions: perms,
	}
}
