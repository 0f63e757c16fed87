package domain

import (
	"fmt"
	"strings"
	"time"
)

// MaxReviewContent is the review body limit in characters.
const MaxReviewContent = 2000

// Review is an audience write-up of one performance. Private reviews are
// visible to their author and to admins of the performing club.
type Review struct {
	ID            uint   `gorm:"primaryKey"`
	PerformanceID uint   `gorm:"not null;index"`
	AuthorUserID  uint   `gorm:"not null;index"`
	Content       string `gorm:"type:varchar(2000);not null"`
	IsPublic      bool   `gorm:"not null;default:true;index"`
	Rating        *int
	CreatedAt     time.Time `gorm:"index"`
	UpdatedAt     time.Time
}

func (r *Review) Validate() error {
	if r.PerformanceID == 0 {
		return fmt.Errorf("%w: performance is required", ErrValidation)
	}
	if r.AuthorUserID == 0 {
		return fmt.Errorf("%w: author is required", ErrValidation)
	}
	if strings.TrimSpace(r.Content) == "" {
		return fmt.Errorf("%w: content is required", ErrValidation)
	}
	if contentLen := len([]rune(r.Content)); contentLen > MaxReviewContent {
		return fmt.Errorf("%w: content exceeds %d characters (got %d)", ErrValidation, MaxReviewContent, contentLen)
	}
	if r.Rating != nil && (*r.Rating < 1 || *r.Rating > 5) {
		return fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}
	return nil
}
