package domain

import (
	"fmt"
	"strings"
	"time"
)

// Category represents the kind of event a notification describes.
type Category string

const (
	CategoryItemCheck       Category = "ITEM_CHECK"
	CategoryTradeStatus     Category = "TRADE_STATUS"
	CategoryPostComment     Category = "POST_COMMENT"
	CategoryPostReply       Category = "POST_REPLY"
	CategoryRequestResponse Category = "REQUEST_RESPONSE"
)

func (c Category) String() string { return string(c) }

func (c Category) IsValid() bool {
	switch c {
	case CategoryItemCheck, CategoryTradeStatus, CategoryPostComment, CategoryPostReply, CategoryRequestResponse:
		return true
	}
	return false
}

func ParseCategoryFromString(s string) (Category, error) {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	if !c.IsValid() {
		return "", fmt.Errorf("%w: invalid category %q", ErrValidation, s)
	}
	return c, nil
}

// MaxNotificationMessage is the message length limit in characters.
const MaxNotificationMessage = 500

// Notification is a durable record of one event addressed to one user.
// It is immutable after creation except for IsRead, which only ever
// transitions false to true.
type Notification struct {
	ID              uint     `gorm:"primaryKey"`
	RecipientUserID uint     `gorm:"not null;index"`
	Category        Category `gorm:"type:varchar(20);not null;index"`
	EntityID        *uint    `gorm:"index"`
	Payload         *string  `gorm:"type:text"`
	Message         string   `gorm:"type:varchar(500);not null"`
	IsRead          bool     `gorm:"not null;default:false;index"`
	CreatedAt       time.Time
}

func (n *Notification) Validate() error {
	if n.RecipientUserID == 0 {
		return fmt.Errorf("%w: recipient is required", ErrValidation)
	}
	if n.Message == "" {
		return fmt.Errorf("%w: message is required", ErrValidation)
	}
	if !n.Category.IsValid() {
		return fmt.Errorf("%w: invalid category %q", ErrValidation, n.Category)
	}

	if msgLen := len([]rune(n.Message)); msgLen > MaxNotificationMessage {
		return fmt.Errorf("%w: message exceeds %d characters (got %d)", ErrValidation, MaxNotificationMessage, msgLen)
	}

	return nil
}
