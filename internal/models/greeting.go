package models

import "time"

// Greeting is an admin-editable content page (e.g. the member guide),
// addressed by slug.
type Greeting struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Slug            string    `gorm:"size:64;not null;uniqueIndex" json:"slug"`
	Title           string    `gorm:"size:200" json:"title"`
	Content         string    `gorm:"type:text" json:"content"`
	UpdatedByUserID *uint     `json:"updated_by_user_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
