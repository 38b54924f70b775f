package models

import "time"

// CoPStatus defines the moderation state of a community of practice.
type CoPStatus string

const (
	// CoPStatusPending indicates a CoP awaiting administrator review.
	CoPStatusPending CoPStatus = "pending"
	// CoPStatusApproved indicates a publicly listed CoP.
	CoPStatusApproved CoPStatus = "approved"
	// CoPStatusRejected indicates a declined CoP.
	CoPStatusRejected CoPStatus = "rejected"
)

// CoP represents a community of practice. Created pending; only approved
// CoPs are publicly listed.
type CoP struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:120;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	MaxMembers  int       `gorm:"not null;default:20" json:"max_members"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	User        User      `gorm:"foreignKey:UserID" json:"user"`
	Status      CoPStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	// MembersCount is not persisted; computed at query time
	MembersCount int       `gorm:"->" json:"members_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (CoP) TableName() string {
	return "cops"
}

// CoPMemberStatus defines the join-request state of a CoP membership.
type CoPMemberStatus string

const (
	// CoPMemberStatusPending indicates a join request awaiting owner approval.
	CoPMemberStatusPending CoPMemberStatus = "pending"
	// CoPMemberStatusApproved indicates an accepted member.
	CoPMemberStatusApproved CoPMemberStatus = "approved"
)

// CoPMember maps users to CoPs and tracks the join-request state.
type CoPMember struct {
	CoPID     uint            `gorm:"column:cop_id;primaryKey;autoIncrement:false" json:"cop_id"`
	CoP       *CoP            `gorm:"foreignKey:CoPID" json:"cop,omitempty"`
	UserID    uint            `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	User      *User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Status    CoPMemberStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (CoPMember) TableName() string {
	return "cop_members"
}
