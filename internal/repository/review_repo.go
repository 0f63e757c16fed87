package repository

import (
	"context"
	"errors"

	"github.com/replayhq/replay/internal/domain"
	"gorm.io/gorm"
)

// ListReviewsParams scopes a performance's review feed to one viewer.
// Admins of the performing club see every private review; everyone else
// sees public reviews plus their own.
type ListReviewsParams struct {
	PerformanceID     uint
	ViewerUserID      uint
	IncludeAllPrivate bool
}

type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	GetByID(ctx context.Context, id uint) (*domain.Review, error)
	Update(ctx context.Context, review *domain.Review) error
	Delete(ctx context.Context, id uint) error
	ListForPerformance(ctx context.Context, params ListReviewsParams) ([]domain.Review, error)
}

type GormReviewRepo struct {
	db *gorm.DB
}

func NewGormReviewRepo(db *gorm.DB) *GormReviewRepo {
	return &GormReviewRepo{db: db}
}

func (r *GormReviewRepo) Create(ctx context.Context, review *domain.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *GormReviewRepo) GetByID(ctx context.Context, id uint) (*domain.Review, error) {
	var review domain.Review
	err := r.db.WithContext(ctx).First(&review, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *GormReviewRepo) Update(ctx context.Context, review *domain.Review) error {
	return r.db.WithContext(ctx).Save(review).Error
}

func (r *GormReviewRepo) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&domain.Review{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *GormReviewRepo) ListForPerformance(ctx context.Context, params ListReviewsParams) ([]domain.Review, error) {
	query := r.db.WithContext(ctx).
		Model(&domain.Review{}).
		Where("performance_id = ?", params.PerformanceID)

	if !params.IncludeAllPrivate {
		query = query.Where("is_public = ? OR author_user_id = ?", true, params.ViewerUserID)
	}

	var reviews []domain.Review
	err := query.Order("created_at DESC").Find(&reviews).Error
	return reviews, err
}
