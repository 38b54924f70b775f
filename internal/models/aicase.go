package models

import "time"

// AICase is an "AI use case" write-up, typically imported from Excel by an
// admin rather than authored in the app.
type AICase struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Content     string    `gorm:"type:text" json:"content"`
	Tools       string    `gorm:"type:text" json:"tools"`
	Background  string    `gorm:"type:text" json:"background"`
	AuthorName  string    `gorm:"size:120" json:"author_name"`
	AuthorEmail string    `gorm:"size:200" json:"author_email"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (AICase) TableName() string {
	return "ai_cases"
}
