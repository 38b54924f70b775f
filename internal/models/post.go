package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// Post represents an article posted by a community member.
type Post struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Title   string `gorm:"not null" json:"title"`
	Content string `gorm:"type:text;not null" json:"content"`
	// ImageURLs is stored as a JSON array string; use SetImageURLs/GetImageURLs.
	ImageURLs string `gorm:"type:text" json:"-"`
	UserID    uint   `gorm:"not null;index" json:"user_id"`
	User      User   `gorm:"foreignKey:UserID" json:"user"`
	// LikesCount is not persisted; computed at query time
	LikesCount int `gorm:"->" json:"likes_count"`
	// CommentsCount is not persisted; computed at query time
	CommentsCount int `gorm:"->" json:"comments_count"`
	// Liked indicates whether the current requesting user liked this post (computed)
	Liked     bool           `gorm:"->" json:"liked"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// SetImageURLs encodes the given URLs into the ImageURLs column.
func (p *Post) SetImageURLs(urls []string) {
	if len(urls) == 0 {
		p.ImageURLs = ""
		return
	}
	b, err := json.Marshal(urls)
	if err != nil {
		p.ImageURLs = ""
		return
	}
	p.ImageURLs = string(b)
}

// GetImageURLs decodes the ImageURLs column. Returns nil when empty or malformed.
func (p *Post) GetImageURLs() []string {
	if p.ImageURLs == "" {
		return nil
	}
	var urls []string
	if err := json.Unmarshal([]byte(p.ImageURLs), &urls); err != nil {
		return nil
	}
	return urls
}

// MarshalJSON emits image_urls as a decoded array.
func (p Post) MarshalJSON() ([]byte, error) {
	type alias Post
	urls := p.GetImageURLs()
	if urls == nil {
		urls = []string{}
	}
	return json.Marshal(struct {
		alias
		ImageURLList []string `json:"image_urls"`
	}{alias(p), urls})
}
