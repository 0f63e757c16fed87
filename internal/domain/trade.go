package domain

import (
	"fmt"
	"strings"
	"time"
)

// TradeType distinguishes rental listings from sale listings.
type TradeType string

const (
	TradeTypeRent TradeType = "RENT"
	TradeTypeSell TradeType = "SELL"
)

func (t TradeType) String() string { return string(t) }

func (t TradeType) IsValid() bool {
	switch t {
	case TradeTypeRent, TradeTypeSell:
		return true
	}
	return false
}

func ParseTradeTypeFromString(s string) (TradeType, error) {
	t := TradeType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", fmt.Errorf("%w: invalid trade type %q", ErrValidation, s)
	}
	return t, nil
}

// ReservationStatus is the lifecycle state of a trade reservation.
type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "PENDING"
	ReservationStatusConfirmed ReservationStatus = "CONFIRMED"
	ReservationStatusCanceled  ReservationStatus = "CANCELED"
)

func (s ReservationStatus) String() string { return string(s) }

func (s ReservationStatus) IsValid() bool {
	switch s {
	case ReservationStatusPending, ReservationStatusConfirmed, ReservationStatusCanceled:
		return true
	}
	return false
}

func ParseReservationStatusFromString(s string) (ReservationStatus, error) {
	st := ReservationStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", fmt.Errorf("%w: invalid reservation status %q", ErrValidation, s)
	}
	return st, nil
}

// TradeListing offers exactly one inventory item for rent or sale.
type TradeListing struct {
	ID              uint      `gorm:"primaryKey"`
	InventoryItemID uint      `gorm:"not null;uniqueIndex"`
	Title           *string   `gorm:"type:varchar(120)"`
	Description     *string   `gorm:"type:text"`
	TradeType       TradeType `gorm:"type:varchar(10);not null;index"`
	Price           int       `gorm:"not null;default:0"`
	Deposit         int       `gorm:"not null;default:0"`
	IsPublic        bool      `gorm:"not null;default:true;index"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (l *TradeListing) Validate() error {
	if l.InventoryItemID == 0 {
		return fmt.Errorf("%w: inventory item is required", ErrValidation)
	}
	if !l.TradeType.IsValid() {
		return fmt.Errorf("%w: invalid trade type %q", ErrValidation, l.TradeType)
	}
	if l.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrValidation)
	}
	if l.Deposit < 0 {
		return fmt.Errorf("%w: deposit must not be negative", ErrValidation)
	}
	return nil
}

// TradeReservation is one user's request to rent or buy a listed item.
// StartAt and EndAt carry the rental period and stay nil for sales.
type TradeReservation struct {
	ID        uint              `gorm:"primaryKey"`
	ListingID uint              `gorm:"not null;index"`
	UserID    uint              `gorm:"not null;index"`
	TradeType TradeType         `gorm:"type:varchar(10);not null;index"`
	StartAt   *time.Time
	EndAt     *time.Time
	Message   *string           `gorm:"type:text"`
	Status    ReservationStatus `gorm:"type:varchar(10);not null;index"`
	CreatedAt time.Time
}

func (r *TradeReservation) Validate() error {
	if r.ListingID == 0 {
		return fmt.Errorf("%w: listing is required", ErrValidation)
	}
	if r.UserID == 0 {
		return fmt.Errorf("%w: user is required", ErrValidation)
	}
	if !r.TradeType.IsValid() {
		return fmt.Errorf("%w: invalid trade type %q", ErrValidation, r.TradeType)
	}
	if r.TradeType == TradeTypeRent {
		if r.StartAt == nil || r.EndAt == nil {
			return fmt.Errorf("%w: rental reservations require a period", ErrValidation)
		}
		if r.EndAt.Before(*r.StartAt) {
			return fmt.Errorf("%w: rental period ends before it starts", ErrValidation)
		}
	}
	return nil
}
