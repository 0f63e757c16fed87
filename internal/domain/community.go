package domain

import (
	"fmt"
	"strings"
	"time"
)

// PostType separates free-form posts from prop requests.
type PostType string

const (
	PostTypeGeneral PostType = "general"
	PostTypeRequest PostType = "request"
)

func (t PostType) String() string { return string(t) }

func (t PostType) IsValid() bool {
	switch t {
	case PostTypeGeneral, PostTypeRequest:
		return true
	}
	return false
}

func ParsePostTypeFromString(s string) (PostType, error) {
	t := PostType(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", fmt.Errorf("%w: invalid post type %q", ErrValidation, s)
	}
	return t, nil
}

// CommunityPost is a board entry; request posts additionally carry a
// category and a desired date range.
type CommunityPost struct {
	ID               uint     `gorm:"primaryKey"`
	Type             PostType `gorm:"type:varchar(10);not null;index"`
	Title            string   `gorm:"type:varchar(200);not null;index"`
	Content          string   `gorm:"type:text;not null"`
	ImageURL         *string  `gorm:"type:varchar(500)"`
	Tags             *string  `gorm:"type:varchar(500);index"`
	AuthorID         uint     `gorm:"not null;index"`
	ClubID           *uint    `gorm:"index"`
	RequestCategory  *string  `gorm:"type:varchar(100);index"`
	DesiredStartDate *time.Time `gorm:"type:date"`
	DesiredEndDate   *time.Time `gorm:"type:date"`
	LikeCount        int      `gorm:"not null;default:0"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// PostComment is a comment on a community post. A non-nil
// ParentCommentID makes it a reply to another comment on the same post.
type PostComment struct {
	ID              uint   `gorm:"primaryKey"`
	PostID          uint   `gorm:"not null;index"`
	AuthorID        uint   `gorm:"not null;index"`
	ParentCommentID *uint  `gorm:"index"`
	Content         string `gorm:"type:text;not null"`
	CreatedAt       time.Time
}

func (c *PostComment) Validate() error {
	if c.PostID == 0 {
		return fmt.Errorf("%w: post is required", ErrValidation)
	}
	if c.AuthorID == 0 {
		return fmt.Errorf("%w: author is required", ErrValidation)
	}
	if strings.TrimSpace(c.Content) == "" {
		return fmt.Errorf("%w: content is required", ErrValidation)
	}
	return nil
}

func (p *CommunityPost) Validate() error {
	if !p.Type.IsValid() {
		return fmt.Errorf("%w: invalid post type %q", ErrValidation, p.Type)
	}
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if strings.TrimSpace(p.Content) == "" {
		return fmt.Errorf("%w: content is required", ErrValidation)
	}
	if p.AuthorID == 0 {
		return fmt.Errorf("%w: author is required", ErrValidation)
	}
	return nil
}
