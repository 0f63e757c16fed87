package domain

import (
	"fmt"
	"strings"
)

// School is the tenant boundary: every club belongs to one school.
type School struct {
	ID     uint    `gorm:"primaryKey"`
	Name   string  `gorm:"type:varchar(100);not null;index"`
	Region *string `gorm:"type:varchar(100)"`
	Code   *string `gorm:"type:varchar(50);uniqueIndex"`
}

func (s *School) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	return nil
}

// Club is a performing-arts club within one school.
type Club struct {
	ID          uint    `gorm:"primaryKey"`
	SchoolID    uint    `gorm:"not null;index"`
	Name        string  `gorm:"type:varchar(100);not null;index"`
	Description *string `gorm:"type:text"`
	Genre       *string `gorm:"type:varchar(50)"`
}

func (c *Club) Validate() error {
	if c.SchoolID == 0 {
		return fmt.Errorf("%w: school is required", ErrValidation)
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	return nil
}

// ClubAdmin maps users to the clubs they manage.
type ClubAdmin struct {
	ClubID uint `gorm:"primaryKey;autoIncrement:false"`
	UserID uint `gorm:"primaryKey;autoIncrement:false"`
}

func (ClubAdmin) TableName() string {
	return "club_admins"
}
