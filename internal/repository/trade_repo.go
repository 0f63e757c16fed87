package repository

import (
	"context"
	"errors"

	"github.com/replayhq/replay/internal/domain"
	"gorm.io/gorm"
)

// ListingWithItem pairs a listing with its inventory item for browse views.
type ListingWithItem struct {
	Listing domain.TradeListing
	Item    domain.InventoryItem
}

// ListListingsParams filters the public trade browse query.
type ListListingsParams struct {
	Keyword   string
	TradeType *domain.TradeType
	Category  string
	Tag       string
	PriceMin  *int
	PriceMax  *int
	Sort      string
	Page      PageParams
}

type TradeRepository interface {
	ListListings(ctx context.Context, params ListListingsParams) ([]ListingWithItem, int64, error)
	GetListing(ctx context.Context, listingID uint) (*ListingWithItem, error)
	CreateListing(ctx context.Context, listing *domain.TradeListing) error
	CreateReservation(ctx context.Context, reservation *domain.TradeReservation) error
	GetReservation(ctx context.Context, reservationID uint) (*domain.TradeReservation, error)
	ListReservations(ctx context.Context, listingID uint) ([]domain.TradeReservation, error)
	UpdateReservationStatus(ctx context.Context, reservationID uint, status domain.ReservationStatus) error
}

type GormTradeRepo struct {
	db *gorm.DB
}

func NewGormTradeRepo(db *gorm.DB) *GormTradeRepo {
	return &GormTradeRepo{db: db}
}

// listingRow flattens the listing/item join for scanning.
type listingRow struct {
	Listing domain.TradeListing  `gorm:"embedded;embeddedPrefix:listing_"`
	Item    domain.InventoryItem `gorm:"embedded;embeddedPrefix:item_"`
}

const listingSelect = `trade_listings.id AS listing_id, trade_listings.inventory_item_id AS listing_inventory_item_id,
trade_listings.title AS listing_title, trade_listings.description AS listing_description,
trade_listings.trade_type AS listing_trade_type, trade_listings.price AS listing_price,
trade_listings.deposit AS listing_deposit, trade_listings.is_public AS listing_is_public,
trade_listings.created_at AS listing_created_at, trade_listings.updated_at AS listing_updated_at,
inventory_items.id AS item_id, inventory_items.club_id AS item_club_id, inventory_items.name AS item_name,
inventory_items.category AS item_category, inventory_items.tags AS item_tags, inventory_items.size AS item_size,
inventory_items.contact AS item_contact, inventory_items.image_path AS item_image_path,
inventory_items.purchased_at AS item_purchased_at, inventory_items.status AS item_status,
inventory_items.is_deal_done AS item_is_deal_done, inventory_items.description AS item_description,
inventory_items.created_at AS item_created_at, inventory_items.updated_at AS item_updated_at`

func (r *GormTradeRepo) ListListings(ctx context.Context, params ListListingsParams) ([]ListingWithItem, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&domain.TradeListing{}).
		Joins("JOIN inventory_items ON trade_listings.inventory_item_id = inventory_items.id").
		Where("trade_listings.is_public = ?", true).
		Where("inventory_items.status = ?", domain.ItemStatusAvailable).
		Where("inventory_items.is_deal_done = ?", false)

	if params.TradeType != nil {
		query = query.Where("trade_listings.trade_type = ?", *params.TradeType)
	}
	if params.Category != "" {
		query = query.Where("inventory_items.category = ?", params.Category)
	}
	if params.Tag != "" {
		query = query.Where("inventory_items.tags ILIKE ?", "%"+params.Tag+"%")
	}
	if params.Keyword != "" {
		pattern := "%" + params.Keyword + "%"
		query = query.Where(
			"inventory_items.name ILIKE ? OR inventory_items.category ILIKE ? OR inventory_items.tags ILIKE ?",
			pattern, pattern, pattern,
		)
	}
	if params.PriceMin != nil {
		query = query.Where("trade_listings.price >= ?", *params.PriceMin)
	}
	if params.PriceMax != nil {
		query = query.Where("trade_listings.price <= ?", *params.PriceMax)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applySort(query, params.Sort, listingSortColumns, "trade_listings.id ASC")

	page := params.Page.Normalize()

	var rows []listingRow
	err := query.
		Select(listingSelect).
		Offset(page.Offset()).
		Limit(page.Size).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	listings := make([]ListingWithItem, 0, len(rows))
	for _, row := range rows {
		listings = append(listings, ListingWithItem{Listing: row.Listing, Item: row.Item})
	}

	return listings, total, nil
}

var listingSortColumns = map[string]string{
	"price":      "trade_listings.price",
	"deposit":    "trade_listings.deposit",
	"created_at": "trade_listings.created_at",
	"name":       "inventory_items.name",
	"category":   "inventory_items.category",
}

func (r *GormTradeRepo) GetListing(ctx context.Context, listingID uint) (*ListingWithItem, error) {
	var row listingRow
	err := r.db.WithContext(ctx).
		Model(&domain.TradeListing{}).
		Joins("JOIN inventory_items ON trade_listings.inventory_item_id = inventory_items.id").
		Where("trade_listings.id = ?", listingID).
		Select(listingSelect).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if row.Listing.ID == 0 {
		return nil, domain.ErrNotFound
	}
	return &ListingWithItem{Listing: row.Listing, Item: row.Item}, nil
}

func (r *GormTradeRepo) CreateListing(ctx context.Context, listing *domain.TradeListing) error {
	err := r.db.WithContext(ctx).Create(listing).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrConflict
	}
	return err
}

func (r *GormTradeRepo) CreateReservation(ctx context.Context, reservation *domain.TradeReservation) error {
	return r.db.WithContext(ctx).Create(reservation).Error
}

func (r *GormTradeRepo) GetReservation(ctx context.Context, reservationID uint) (*domain.TradeReservation, error) {
	var reservation domain.TradeReservation
	err := r.db.WithContext(ctx).First(&reservation, "id = ?", reservationID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

func (r *GormTradeRepo) ListReservations(ctx context.Context, listingID uint) ([]domain.TradeReservation, error) {
	var reservations []domain.TradeReservation
	err := r.db.WithContext(ctx).
		Where("listing_id = ?", listingID).
		Where("status <> ?", domain.ReservationStatusCanceled).
		Order("created_at ASC").
		Find(&reservations).Error
	return reservations, err
}

func (r *GormTradeRepo) UpdateReservationStatus(ctx context.Context, reservationID uint, status domain.ReservationStatus) error {
	result := r.db.WithContext(ctx).
		Model(&domain.TradeReservation{}).
		Where("id = ?", reservationID).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
