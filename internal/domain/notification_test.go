package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestParseCategoryFromString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    Category
		wantErr bool
	}{
		{"ITEM_CHECK", CategoryItemCheck, false},
		{"trade_status", CategoryTradeStatus, false},
		{"  Post_Comment  ", CategoryPostComment, false},
		{"POST_REPLY", CategoryPostReply, false},
		{"REQUEST_RESPONSE", CategoryRequestResponse, false},
		{"", "", true},
		{"EMAIL", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCategoryFromString(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrValidation) {
					t.Fatalf("ParseCategoryFromString() error = %v, want ErrValidation", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseCategoryFromString() error = %v", err)
			}
			if got != tt.want {
				t.Fatalf("ParseCategoryFromString() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestNotificationValidate(t *testing.T) {
	t.Parallel()

	valid := Notification{
		RecipientUserID: 7,
		Category:        CategoryTradeStatus,
		Message:         "your reservation was confirmed",
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	tests := []struct {
		name   string
		mutate func(n *Notification)
	}{
		{"missing recipient", func(n *Notification) { n.RecipientUserID = 0 }},
		{"missing message", func(n *Notification) { n.Message = "" }},
		{"invalid category", func(n *Notification) { n.Category = "PIGEON" }},
		{"message too long", func(n *Notification) { n.Message = strings.Repeat("a", MaxNotificationMessage+1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := valid
			tt.mutate(&n)
			if err := n.Validate(); !errors.Is(err, ErrValidation) {
				t.Fatalf("Validate() error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestParseRoleFromString(t *testing.T) {
	t.Parallel()

	if got, err := ParseRoleFromString("admin"); err != nil || got != RoleAdmin {
		t.Fatalf("ParseRoleFromString(admin) = %s, %v", got, err)
	}
	if _, err := ParseRoleFromString("superuser"); !errors.Is(err, ErrValidation) {
		t.Fatalf("ParseRoleFromString(superuser) error = %v, want ErrValidation", err)
	}
}
