package models

import "time"

// CrawledNews is a raw article collected by the crawler service or imported
// from an Excel sheet. IsPublished flips true when the row is promoted into
// selected_news, and back to false if that selection is deleted.
type CrawledNews struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Content     string    `gorm:"type:text" json:"content"`
	SourceURL   string    `gorm:"size:500;not null;uniqueIndex" json:"source_url"`
	SourceSite  string    `gorm:"size:120" json:"source_site"`
	ImageURL    string    `gorm:"size:500" json:"image_url"`
	AuthorName  string    `gorm:"size:120" json:"author_name"`
	PublishedAt string    `gorm:"size:64" json:"published_at"`
	IsPublished bool      `gorm:"not null;default:false;index" json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (CrawledNews) TableName() string {
	return "crawled_news"
}

// SelectedNews is an article promoted to the public news feed.
// CrawledNewsID back-references the source row so deletion can reset its
// is_published flag.
type SelectedNews struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Title         string    `gorm:"not null" json:"title"`
	Content       string    `gorm:"type:text" json:"content"`
	SourceURL     string    `gorm:"size:500;not null" json:"source_url"`
	SourceSite    string    `gorm:"size:120" json:"source_site"`
	ImageURL      string    `gorm:"size:500" json:"image_url"`
	AuthorName    string    `gorm:"size:120" json:"author_name"`
	PublishedAt   string    `gorm:"size:64" json:"published_at"`
	CrawledNewsID *uint     `gorm:"index" json:"crawled_news_id,omitempty"`
	DisplayOrder  int       `gorm:"not null;default:0;index" json:"display_order"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (SelectedNews) TableName() string {
	return "selected_news"
}
