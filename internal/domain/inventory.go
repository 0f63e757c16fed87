package domain

import (
	"fmt"
	"strings"
	"time"
)

// ItemStatus represents the availability state of an inventory item.
type ItemStatus string

const (
	ItemStatusAvailable   ItemStatus = "AVAILABLE"
	ItemStatusReserved    ItemStatus = "RESERVED"
	ItemStatusRented      ItemStatus = "RENTED"
	ItemStatusSold        ItemStatus = "SOLD"
	ItemStatusUnavailable ItemStatus = "UNAVAILABLE"
)

func (s ItemStatus) String() string { return string(s) }

func (s ItemStatus) IsValid() bool {
	switch s {
	case ItemStatusAvailable, ItemStatusReserved, ItemStatusRented, ItemStatusSold, ItemStatusUnavailable:
		return true
	}
	return false
}

func ParseItemStatusFromString(s string) (ItemStatus, error) {
	st := ItemStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", fmt.Errorf("%w: invalid item status %q", ErrValidation, s)
	}
	return st, nil
}

// InventoryItem is a prop or costume owned by one club and optionally
// offered for trade through a listing.
type InventoryItem struct {
	ID          uint       `gorm:"primaryKey"`
	ClubID      uint       `gorm:"not null;index"`
	Name        string     `gorm:"type:varchar(120);not null;index"`
	Category    *string    `gorm:"type:varchar(80);index"`
	Tags        *string    `gorm:"type:varchar(255);index"`
	Size        *string    `gorm:"type:varchar(80)"`
	Contact     *string    `gorm:"type:varchar(120)"`
	ImagePath   *string    `gorm:"type:varchar(500)"`
	PurchasedAt *time.Time
	Status      ItemStatus `gorm:"type:varchar(20);not null;index"`
	IsDealDone  bool       `gorm:"not null;default:false;index"`
	Description *string    `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (i *InventoryItem) Validate() error {
	if i.ClubID == 0 {
		return fmt.Errorf("%w: club is required", ErrValidation)
	}
	if strings.TrimSpace(i.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if !i.Status.IsValid() {
		return fmt.Errorf("%w: invalid item status %q", ErrValidation, i.Status)
	}
	return nil
}
