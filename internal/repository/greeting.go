package repository

import (
	"context"
	"errors"

	"okai/internal/cache"
	"okai/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GreetingRepository defines the interface for editable content pages.
type GreetingRepository interface {
	GetBySlug(ctx context.Context, slug string) (*models.Greeting, error)
	Upsert(ctx context.Context, greeting *models.Greeting) error
}

type greetingRepository struct {
	db *gorm.DB
}

// NewGreetingRepository creates a new greeting repository
func NewGreetingRepository(db *gorm.DB) GreetingRepository {
	return &greetingRepository{db: db}
}

func (r *greetingRepository) GetBySlug(ctx context.Context, slug string) (*models.Greeting, error) {
	var greeting models.Greeting
	err := cache.Aside(ctx, cache.GreetingKey(slug), &greeting, cache.GreetingTTL, func() error {
		return r.db.WithContext(ctx).Where("slug = ?", slug).First(&greeting).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if greeting.ID == 0 {
		return nil, nil
	}
	return &greeting, nil
}

func (r *greetingRepository) Upsert(ctx context.Context, greeting *models.Greeting) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slug"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "content", "updated_by_user_id", "updated_at"}),
	}).Create(greeting).Error
	if err != nil {
		return err
	}
	cache.Invalidate(ctx, cache.GreetingKey(greeting.Slug))
	return nil
}
