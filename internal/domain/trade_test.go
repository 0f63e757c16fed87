package domain

import (
	"errors"
	"testing"
	"time"
)

func TestTradeReservationValidate(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 14)

	valid := TradeReservation{
		ListingID: 1,
		UserID:    2,
		TradeType: TradeTypeRent,
		StartAt:   &start,
		EndAt:     &end,
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	sale := TradeReservation{ListingID: 1, UserID: 2, TradeType: TradeTypeSell}
	if err := sale.Validate(); err != nil {
		t.Fatalf("Validate() sale without period error = %v", err)
	}

	tests := []struct {
		name   string
		mutate func(r *TradeReservation)
	}{
		{"missing listing", func(r *TradeReservation) { r.ListingID = 0 }},
		{"missing user", func(r *TradeReservation) { r.UserID = 0 }},
		{"invalid type", func(r *TradeReservation) { r.TradeType = "BARTER" }},
		{"rent without period", func(r *TradeReservation) { r.StartAt, r.EndAt = nil, nil }},
		{"inverted period", func(r *TradeReservation) { r.StartAt, r.EndAt = &end, &start }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid
			tt.mutate(&r)
			if err := r.Validate(); !errors.Is(err, ErrValidation) {
				t.Fatalf("Validate() error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestTradeListingValidate(t *testing.T) {
	t.Parallel()

	l := TradeListing{InventoryItemID: 3, TradeType: TradeTypeSell, Price: 15000}
	if err := l.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	l.Price = -1
	if err := l.Validate(); !errors.Is(err, ErrValidation) {
		t.Fatalf("Validate() error = %v, want ErrValidation", err)
	}
}
