package repository

import (
	"context"
	"errors"

	"okai/internal/cache"
	"okai/internal/models"

	"gorm.io/gorm"
)

// NewsRepository defines the interface for crawled/selected news data operations
type NewsRepository interface {
	CreateCrawled(ctx context.Context, news *models.CrawledNews) error
	GetCrawledByID(ctx context.Context, id uint) (*models.CrawledNews, error)
	GetCrawledBySourceURL(ctx context.Context, sourceURL string) (*models.CrawledNews, error)
	ListCrawled(ctx context.Context, limit, offset int) ([]*models.CrawledNews, error)
	SetPublished(ctx context.Context, crawledID uint, published bool) error
	DeleteCrawled(ctx context.Context, id uint) error

	CreateSelected(ctx context.Context, news *models.SelectedNews) error
	GetSelectedByID(ctx context.Context, id uint) (*models.SelectedNews, error)
	ListSelected(ctx context.Context, limit, offset int) ([]*models.SelectedNews, error)
	UpdateSelected(ctx context.Context, news *models.SelectedNews) error
	DeleteSelected(ctx context.Context, id uint) error
	SearchSelected(ctx context.Context, query string, limit int) ([]*models.SelectedNews, error)
}

type newsRepository struct {
	db *gorm.DB
}

// NewNewsRepository creates a new news repository
func NewNewsRepository(db *gorm.DB) NewsRepository {
	return &newsRepository{db: db}
}

func (r *newsRepository) CreateCrawled(ctx context.Context, news *models.CrawledNews) error {
	return r.db.WithContext(ctx).Create(news).Error
}

func (r *newsRepository) GetCrawledByID(ctx context.Context, id uint) (*models.CrawledNews, error) {
	var news models.CrawledNews
	if err := r.db.WithContext(ctx).First(&news, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &news, nil
}

func (r *newsRepository) GetCrawledBySourceURL(ctx context.Context, sourceURL string) (*models.CrawledNews, error) {
	var news models.CrawledNews
	err := r.db.WithContext(ctx).Where("source_url = ?", sourceURL).First(&news).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &news, nil
}

func (r *newsRepository) ListCrawled(ctx context.Context, limit, offset int) ([]*models.CrawledNews, error) {
	var news []*models.CrawledNews
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&news).Error
	return news, err
}

func (r *newsRepository) SetPublished(ctx context.Context, crawledID uint, published bool) error {
	return r.db.WithContext(ctx).
		Model(&models.CrawledNews{}).
		Where("id = ?", crawledID).
		Update("is_published", published).Error
}

func (r *newsRepository) DeleteCrawled(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.CrawledNews{}, id).Error
}

func (r *newsRepository) CreateSelected(ctx context.Context, news *models.SelectedNews) error {
	if err := r.db.WithContext(ctx).Create(news).Error; err != nil {
		return err
	}
	cache.InvalidateNewsList(ctx)
	return nil
}

func (r *newsRepository) GetSelectedByID(ctx context.Context, id uint) (*models.SelectedNews, error) {
	var news models.SelectedNews
	if err := r.db.WithContext(ctx).First(&news, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &news, nil
}

func (r *newsRepository) ListSelected(ctx context.Context, limit, offset int) ([]*models.SelectedNews, error) {
	var news []*models.SelectedNews
	err := r.db.WithContext(ctx).
		Order("display_order ASC, created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&news).Error
	return news, err
}

func (r *newsRepository) UpdateSelected(ctx context.Context, news *models.SelectedNews) error {
	if err := r.db.WithContext(ctx).Save(news).Error; err != nil {
		return err
	}
	cache.InvalidateNewsList(ctx)
	return nil
}

// DeleteSelected removes the selection and resets the source crawled row's
// is_published flag in the same transaction.
func (r *newsRepository) DeleteSelected(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var news models.SelectedNews
		if err := tx.First(&news, id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.SelectedNews{}, id).Error; err != nil {
			return err
		}
		if news.CrawledNewsID != nil {
			return tx.Model(&models.CrawledNews{}).
				Where("id = ?", *news.CrawledNewsID).
				Update("is_published", false).Error
		}
		return nil
	})
	if err != nil {
		return err
	}
	cache.InvalidateNewsList(ctx)
	return nil
}

func (r *newsRepository) SearchSelected(ctx context.Context, query string, limit int) ([]*models.SelectedNews, error) {
	var news []*models.SelectedNews
	like := "%" + query + "%"
	err := r.db.WithContext(ctx).
		Where("LOWER(title) LIKE LOWER(?) OR LOWER(content) LIKE LOWER(?)", like, like).
		Order("created_at DESC").
		Limit(limit).
		Find(&news).Error
	return news, err
}
