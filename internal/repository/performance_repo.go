package repository

import (
	"context"
	"errors"
	"time"

	"github.com/replayhq/replay/internal/domain"
	"gorm.io/gorm"
)

// ListPerformancesParams filters the public performance calendar.
type ListPerformancesParams struct {
	Region    string
	Theme     string
	StartDate *time.Time
	EndDate   *time.Time
}

type PerformanceRepository interface {
	Create(ctx context.Context, performance *domain.Performance) error
	GetByID(ctx context.Context, id uint) (*domain.Performance, error)
	Update(ctx context.Context, performance *domain.Performance) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, params ListPerformancesParams) ([]domain.Performance, error)
}

type GormPerformanceRepo struct {
	db *gorm.DB
}

func NewGormPerformanceRepo(db *gorm.DB) *GormPerformanceRepo {
	return &GormPerformanceRepo{db: db}
}

func (r *GormPerformanceRepo) Create(ctx context.Context, performance *domain.Performance) error {
	return r.db.WithContext(ctx).Create(performance).Error
}

func (r *GormPerformanceRepo) GetByID(ctx context.Context, id uint) (*domain.Performance, error) {
	var performance domain.Performance
	err := r.db.WithContext(ctx).First(&performance, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &performance, nil
}

func (r *GormPerformanceRepo) Update(ctx context.Context, performance *domain.Performance) error {
	return r.db.WithContext(ctx).Save(performance).Error
}

func (r *GormPerformanceRepo) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&domain.Performance{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *GormPerformanceRepo) List(ctx context.Context, params ListPerformancesParams) ([]domain.Performance, error) {
	query := r.db.WithContext(ctx).Model(&domain.Performance{})

	if params.Region != "" {
		query = query.Where("region = ?", params.Region)
	}
	if params.Theme != "" {
		query = query.Where("theme_category = ?", params.Theme)
	}
	if params.StartDate != nil {
		query = query.Where("performance_date >= ?", *params.StartDate)
	}
	if params.EndDate != nil {
		query = query.Where("performance_date <= ?", *params.EndDate)
	}

	var performances []domain.Performance
	err := query.Order("performance_date ASC").Find(&performances).Error
	return performances, err
}
