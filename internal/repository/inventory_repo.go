package repository

import (
	"context"
	"errors"

	"github.com/replayhq/replay/internal/domain"
	"gorm.io/gorm"
)

// ListInventoryParams filters a club inventory listing.
type ListInventoryParams struct {
	ClubID  *uint
	Status  *domain.ItemStatus
	Keyword string
	Sort    string
	Page    PageParams
}

type InventoryRepository interface {
	Create(ctx context.Context, item *domain.InventoryItem) error
	GetByID(ctx context.Context, id uint) (*domain.InventoryItem, error)
	Update(ctx context.Context, item *domain.InventoryItem) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, params ListInventoryParams) ([]domain.InventoryItem, int64, error)
}

type GormInventoryRepo struct {
	db *gorm.DB
}

func NewGormInventoryRepo(db *gorm.DB) *GormInventoryRepo {
	return &GormInventoryRepo{db: db}
}

func (r *GormInventoryRepo) Create(ctx context.Context, item *domain.InventoryItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *GormInventoryRepo) GetByID(ctx context.Context, id uint) (*domain.InventoryItem, error) {
	var item domain.InventoryItem
	err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormInventoryRepo) Update(ctx context.Context, item *domain.InventoryItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *GormInventoryRepo) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&domain.InventoryItem{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *GormInventoryRepo) List(ctx context.Context, params ListInventoryParams) ([]domain.InventoryItem, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.InventoryItem{})

	if params.ClubID != nil {
		query = query.Where("club_id = ?", *params.ClubID)
	}
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.Keyword != "" {
		pattern := "%" + params.Keyword + "%"
		query = query.Where("name ILIKE ? OR category ILIKE ? OR tags ILIKE ?", pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applySort(query, params.Sort, inventorySortColumns, "created_at DESC")

	page := params.Page.Normalize()

	var items []domain.InventoryItem
	err := query.
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

// inventorySortColumns whitelists client-sortable columns.
var inventorySortColumns = map[string]string{
	"name":         "name",
	"category":     "category",
	"status":       "status",
	"created_at":   "created_at",
	"purchased_at": "purchased_at",
}

// applySort translates a "-field" / "field" sort token into an ORDER BY on
// a whitelisted column, falling back to a default ordering.
func applySort(query *gorm.DB, sort string, columns map[string]string, fallback string) *gorm.DB {
	if sort == "" {
		return query.Order(fallback)
	}

	desc := false
	field := sort
	if len(sort) > 1 && sort[0] == '-' {
		desc = true
		field = sort[1:]
	}

	column, ok := columns[field]
	if !ok {
		return query.Order(fallback)
	}
	if desc {
		return query.Order(column + " DESC")
	}
	return query.Order(column + " ASC")
}
