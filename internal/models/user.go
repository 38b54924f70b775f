package models

import (
	"time"

	"gorm.io/gorm"
)

// UserStatus tracks where an account is in the membership approval flow.
type UserStatus string

const (
	UserStatusPending  UserStatus = "pending"
	UserStatusApproved UserStatus = "approved"
	UserStatusRejected UserStatus = "rejected"
)

// UserRole distinguishes ordinary members from administrators.
type UserRole string

const (
	RoleMember UserRole = "member"
	RoleAdmin  UserRole = "admin"
)

// User represents a community member account.
type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`
	Name     string `gorm:"not null" json:"name"`
	// Department and Position are free-form profile fields shown on posts.
	Department string         `json:"department"`
	Position   string         `json:"position"`
	Status     UserStatus     `gorm:"type:varchar(20);not null;default:pending;index" json:"status"`
	Role       UserRole       `gorm:"type:varchar(20);not null;default:member" json:"role"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// IsAdmin reports whether the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsApproved reports whether the user may use member-only features.
// Admins are always considered approved.
func (u *User) IsApproved() bool {
	return u.IsAdmin() || u.Status == UserStatusApproved
}
