package repository

import (
	"context"
	"errors"

	"github.com/replayhq/replay/internal/domain"
	"gorm.io/gorm"
)

type SchoolRepository interface {
	CreateSchool(ctx context.Context, school *domain.School) error
	CreateClub(ctx context.Context, club *domain.Club) error
	ListSchools(ctx context.Context) ([]domain.School, error)
	ListClubsBySchool(ctx context.Context, schoolID uint) ([]domain.Club, error)
	GetClub(ctx context.Context, clubID uint) (*domain.Club, error)
	ListManagedClubs(ctx context.Context, userID uint) ([]domain.Club, error)
	IsClubAdmin(ctx context.Context, clubID, userID uint) (bool, error)
	ListClubAdminUserIDs(ctx context.Context, clubID uint) ([]uint, error)
}

type GormSchoolRepo struct {
	db *gorm.DB
}

func NewGormSchoolRepo(db *gorm.DB) *GormSchoolRepo {
	return &GormSchoolRepo{db: db}
}

func (r *GormSchoolRepo) CreateSchool(ctx context.Context, school *domain.School) error {
	err := r.db.WithContext(ctx).Create(school).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrConflict
	}
	return err
}

func (r *GormSchoolRepo) CreateClub(ctx context.Context, club *domain.Club) error {
	var school domain.School
	if err := r.db.WithContext(ctx).First(&school, "id = ?", club.SchoolID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrNotFound
		}
		return err
	}
	return r.db.WithContext(ctx).Create(club).Error
}

func (r *GormSchoolRepo) ListSchools(ctx context.Context) ([]domain.School, error) {
	var schools []domain.School
	err := r.db.WithContext(ctx).Order("name ASC").Find(&schools).Error
	return schools, err
}

func (r *GormSchoolRepo) ListClubsBySchool(ctx context.Context, schoolID uint) ([]domain.Club, error) {
	var clubs []domain.Club
	err := r.db.WithContext(ctx).
		Where("school_id = ?", schoolID).
		Order("name ASC").
		Find(&clubs).Error
	return clubs, err
}

func (r *GormSchoolRepo) GetClub(ctx context.Context, clubID uint) (*domain.Club, error) {
	var club domain.Club
	err := r.db.WithContext(ctx).First(&club, "id = ?", clubID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &club, nil
}

func (r *GormSchoolRepo) ListManagedClubs(ctx context.Context, userID uint) ([]domain.Club, error) {
	var clubs []domain.Club
	err := r.db.WithContext(ctx).
		Joins("JOIN club_admins ON club_admins.club_id = clubs.id").
		Where("club_admins.user_id = ?", userID).
		Order("clubs.name ASC").
		Find(&clubs).Error
	return clubs, err
}

func (r *GormSchoolRepo) IsClubAdmin(ctx context.Context, clubID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.ClubAdmin{}).
		Where("club_id = ? AND user_id = ?", clubID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormSchoolRepo) ListClubAdminUserIDs(ctx context.Context, clubID uint) ([]uint, error) {
	var userIDs []uint
	err := r.db.WithContext(ctx).
		Model(&domain.ClubAdmin{}).
		Where("club_id = ?", clubID).
		Pluck("user_id", &userIDs).Error
	return userIDs, err
}
