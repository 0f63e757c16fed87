package domain

import (
	"fmt"
	"strings"
	"time"
)

// Performance is a scheduled show by one club, browsable by region and
// theme on the public calendar.
type Performance struct {
	ID              uint    `gorm:"primaryKey"`
	SchoolID        *uint   `gorm:"index"`
	ClubID          *uint   `gorm:"index"`
	Title           string  `gorm:"type:varchar(200);not null"`
	Description     *string `gorm:"type:text"`
	Region          string  `gorm:"type:varchar(100);not null;index"`
	ThemeCategory   string  `gorm:"type:varchar(100);not null;index"`
	PosterImageURL  *string `gorm:"type:varchar(500)"`
	PerformanceDate time.Time `gorm:"type:date;not null;index"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (p *Performance) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if strings.TrimSpace(p.Region) == "" {
		return fmt.Errorf("%w: region is required", ErrValidation)
	}
	if strings.TrimSpace(p.ThemeCategory) == "" {
		return fmt.Errorf("%w: theme category is required", ErrValidation)
	}
	if p.PerformanceDate.IsZero() {
		return fmt.Errorf("%w: performance date is required", ErrValidation)
	}
	return nil
}
