package repository

import (
	"context"
	"errors"

	"okai/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CoPRepository defines the interface for community-of-practice data operations
type CoPRepository interface {
	Create(ctx context.Context, cop *models.CoP) error
	GetByID(ctx context.Context, id uint) (*models.CoP, error)
	List(ctx context.Context, status models.CoPStatus, limit, offset int) ([]*models.CoP, error)
	Update(ctx context.Context, cop *models.CoP) error
	UpdateStatus(ctx context.Context, id uint, status models.CoPStatus) (*models.CoP, error)
	Delete(ctx context.Context, id uint) error

	GetMember(ctx context.Context, copID, userID uint) (*models.CoPMember, error)
	UpsertMember(ctx context.Context, member *models.CoPMember) error
	ListMembers(ctx context.Context, copID uint) ([]*models.CoPMember, error)
	CountApprovedMembers(ctx context.Context, copID uint) (int64, error)
}

type copRepository struct {
	db *gorm.DB
}

// NewCoPRepository creates a new CoP repository
func NewCoPRepository(db *gorm.DB) CoPRepository {
	return &copRepository{db: db}
}

func (r *copRepository) Create(ctx context.Context, cop *models.CoP) error {
	return r.db.WithContext(ctx).Create(cop).Error
}

func (r *copRepository) GetByID(ctx context.Context, id uint) (*models.CoP, error) {
	var cop models.CoP
	err := r.applyMemberCount(r.db.WithContext(ctx)).
		Preload("User").
		First(&cop, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cop, nil
}

func (r *copRepository) List(ctx context.Context, status models.CoPStatus, limit, offset int) ([]*models.CoP, error) {
	var cops []*models.CoP
	q := r.applyMemberCount(r.db.WithContext(ctx)).
		Preload("User").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Find(&cops).Error
	return cops, err
}

// applyMemberCount selects the approved member count in the same query.
func (r *copRepository) applyMemberCount(db *gorm.DB) *gorm.DB {
	return db.Select("cops.*, " +
		"(SELECT COUNT(*) FROM cop_members WHERE cop_members.cop_id = cops.id AND cop_members.status = 'approved') as members_count")
}

func (r *copRepository) Update(ctx context.Context, cop *models.CoP) error {
	return r.db.WithContext(ctx).Save(cop).Error
}

// UpdateStatus transitions the moderation status and returns the refreshed row.
func (r *copRepository) UpdateStatus(ctx context.Context, id uint, status models.CoPStatus) (*models.CoP, error) {
	result := r.db.WithContext(ctx).
		Model(&models.CoP{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return r.GetByID(ctx, id)
}

func (r *copRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cop_id = ?", id).Delete(&models.CoPMember{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.CoP{}, id).Error
	})
}

func (r *copRepository) GetMember(ctx context.Context, copID, userID uint) (*models.CoPMember, error) {
	var member models.CoPMember
	err := r.db.WithContext(ctx).
		Where("cop_id = ? AND user_id = ?", copID, userID).
		First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &member, nil
}

func (r *copRepository) UpsertMember(ctx context.Context, member *models.CoPMember) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "cop_id"},
			{Name: "user_id"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"status", "updated_at"}),
	}).Create(member).Error
}

func (r *copRepository) ListMembers(ctx context.Context, copID uint) ([]*models.CoPMember, error) {
	var members []*models.CoPMember
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("cop_id = ?", copID).
		Order("created_at ASC").
		Find(&members).Error
	return members, err
}

func (r *copRepository) CountApprovedMembers(ctx context.Context, copID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CoPMember{}).
		Where("cop_id = ? AND status = ?", copID, models.CoPMemberStatusApproved).
		Count(&count).Error
	return count, err
}
