package repository

import (
	"context"
	"errors"

	"okai/internal/models"

	"gorm.io/gorm"
)

// AICaseRepository defines the interface for AI use-case data operations
type AICaseRepository interface {
	Create(ctx context.Context, aiCase *models.AICase) error
	GetByID(ctx context.Context, id uint) (*models.AICase, error)
	List(ctx context.Context, limit, offset int) ([]*models.AICase, error)
	Delete(ctx context.Context, id uint) error
	Search(ctx context.Context, query string, limit int) ([]*models.AICase, error)
}

type aiCaseRepository struct {
	db *gorm.DB
}

// NewAICaseRepository creates a new AI case repository
func NewAICaseRepository(db *gorm.DB) AICaseRepository {
	return &aiCaseRepository{db: db}
}

func (r *aiCaseRepository) Create(ctx context.Context, aiCase *models.AICase) error {
	return r.db.WithContext(ctx).Create(aiCase).Error
}

func (r *aiCaseRepository) GetByID(ctx context.Context, id uint) (*models.AICase, error) {
	var aiCase models.AICase
	if err := r.db.WithContext(ctx).First(&aiCase, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &aiCase, nil
}

func (r *aiCaseRepository) List(ctx context.Context, limit, offset int) ([]*models.AICase, error) {
	var cases []*models.AICase
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&cases).Error
	return cases, err
}

func (r *aiCaseRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.AICase{}, id).Error
}

// Search matches the query against title, content, tools and background.
func (r *aiCaseRepository) Search(ctx context.Context, query string, limit int) ([]*models.AICase, error) {
	var cases []*models.AICase
	like := "%" + query + "%"
	err := r.db.WithContext(ctx).
		Where("LOWER(title) LIKE LOWER(?) OR LOWER(content) LIKE LOWER(?) OR LOWER(tools) LIKE LOWER(?) OR LOWER(background) LIKE LOWER(?)",
			like, like, like, like).
		Order("created_at DESC").
		Limit(limit).
		Find(&cases).Error
	return cases, err
}
